package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"social-service/internal/auth"
	"social-service/internal/db"
	"social-service/internal/handlers"
	"social-service/internal/middleware"
	"social-service/internal/observability"
	"social-service/internal/presence"
	"social-service/internal/rabbitmq"
	"social-service/internal/repositories"
	"social-service/internal/services"
	"social-service/internal/telemetry"
	"social-service/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	shutdownTracing, err := observability.SetupTracing(context.Background(), "social-service", os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	presenceStore := presence.NewStore(redisClient)

	publisher := rabbitmq.NewPublisher(os.Getenv("AMQP_URL"), getEnv("AMQP_EXCHANGE", rabbitmq.DefaultExchange))
	defer publisher.Close()
	log.Printf("event publisher mode=%s", rabbitmq.PublisherMode(publisher))
	auditEmitter := telemetry.NewAuditEmitter(publisher, rabbitmq.AuditRoutingKey, "social-service", getEnv("ENVIRONMENT", "development"))

	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		obsPublisher, err := observability.NewAMQPPublisher(amqpURL, getEnv("AMQP_EXCHANGE", rabbitmq.DefaultExchange))
		if err != nil {
			log.Printf("websocket event publisher disabled: %v", err)
		} else {
			observability.SetPublisher(obsPublisher)
			defer obsPublisher.Close()
		}
	}

	tokenTTL, err := time.ParseDuration(getEnv("TOKEN_TTL", "720h"))
	if err != nil {
		log.Fatalf("invalid TOKEN_TTL: %v", err)
	}
	tokens := auth.NewTokenManager(getEnv("JWT_SECRET", "dev-secret-change-me"), tokenTTL)

	userRepo := repositories.NewUserRepo(database)
	friendRepo := repositories.NewFriendRepo(database)
	chatRepo := repositories.NewChatRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	locationRepo := repositories.NewLocationRepo(database)
	momentRepo := repositories.NewMomentRepo(database)

	chatListService := services.NewChatListService(userRepo, chatRepo, friendRepo)
	friendService := services.NewFriendService(userRepo, friendRepo, chatRepo)
	locationService := services.NewLocationService(locationRepo, friendRepo)

	hub := ws.NewHub()

	userHandler := handlers.NewUserHandler(userRepo, tokens, presenceStore)
	chatHandler := handlers.NewChatHandler(chatListService, chatRepo, messageRepo, hub, auditEmitter)
	friendHandler := handlers.NewFriendHandler(friendService, hub, auditEmitter, presenceStore)
	locationHandler := handlers.NewLocationHandler(locationService, hub)
	momentHandler := handlers.NewMomentHandler(momentRepo, friendRepo)

	chatWS := ws.NewChatWebSocketHandler(hub, chatRepo, tokens)
	userWS := ws.NewUserStreamHandler(hub, tokens, presenceStore, userRepo)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("social-service"))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/auth/session", userHandler.CreateSession)

	authMiddleware := middleware.AuthMiddleware(tokens)

	router.GET("/me", authMiddleware, userHandler.Me)
	router.GET("/users/search", authMiddleware, userHandler.SearchUsers)
	router.GET("/users/:user_id", authMiddleware, userHandler.GetUser)
	router.GET("/preferences", authMiddleware, userHandler.GetPreferences)
	router.PUT("/preferences", authMiddleware, userHandler.PutPreferences)

	router.GET("/chats", authMiddleware, chatHandler.ListChats)
	router.POST("/chats/group", authMiddleware, chatHandler.CreateGroupChat)
	router.POST("/chats/:chat_id/read", authMiddleware, chatHandler.MarkRead)
	router.PUT("/chats/:chat_id/pin", authMiddleware, chatHandler.PinChat)
	router.PUT("/chats/:chat_id/mute", authMiddleware, chatHandler.MuteChat)
	router.GET("/chats/:chat_id/messages", authMiddleware, chatHandler.GetChatMessages)
	router.POST("/chats/:chat_id/messages", authMiddleware, chatHandler.PostChatMessage)
	router.PUT("/chats/:chat_id/messages/:message_id/status", authMiddleware, chatHandler.AdvanceMessageStatus)

	router.POST("/friends/requests", authMiddleware, friendHandler.SendRequest)
	router.GET("/friends/requests", authMiddleware, friendHandler.ListRequests)
	router.POST("/friends/requests/:request_id/accept", authMiddleware, friendHandler.AcceptRequest)
	router.POST("/friends/requests/:request_id/reject", authMiddleware, friendHandler.RejectRequest)
	router.GET("/friends", authMiddleware, friendHandler.ListFriends)
	router.POST("/friends/:friend_id/couple", authMiddleware, friendHandler.UpgradeToCouple)
	router.DELETE("/friends/:friend_id/couple", authMiddleware, friendHandler.BreakCouple)
	router.DELETE("/friends/:friend_id", authMiddleware, friendHandler.RemoveFriend)

	router.POST("/locations", authMiddleware, locationHandler.ShareLocation)
	router.GET("/locations/friends", authMiddleware, locationHandler.FriendLocations)
	router.POST("/geofences", authMiddleware, locationHandler.CreateGeofence)
	router.GET("/geofences", authMiddleware, locationHandler.ListGeofences)
	router.DELETE("/geofences/:geofence_id", authMiddleware, locationHandler.DeleteGeofence)

	router.POST("/moments", authMiddleware, momentHandler.CreateMoment)
	router.GET("/moments/feed", authMiddleware, momentHandler.Feed)
	router.DELETE("/moments/:moment_id", authMiddleware, momentHandler.DeleteMoment)
	router.PUT("/moments/:moment_id/reaction", authMiddleware, momentHandler.React)
	router.DELETE("/moments/:moment_id/reaction", authMiddleware, momentHandler.Unreact)
	router.POST("/moments/:moment_id/comments", authMiddleware, momentHandler.Comment)

	router.GET("/ws/chats/:chat_id", chatWS.Handle)
	router.GET("/ws/user", userWS.Handle)

	handlers.RegisterDebugRoutes(router, auditEmitter, getEnv("DEBUG_ROUTES", "") == "true")

	port := getEnv("PORT", "8083")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
