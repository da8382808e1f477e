package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-service/internal/mocks"
	"social-service/internal/models"
	"social-service/internal/repositories"
	"social-service/internal/services"
	"social-service/internal/ws"
)

func setupChatRouter(handler *ChatHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/chats", handler.ListChats)
	r.POST("/chats/:chat_id/read", handler.MarkRead)
	r.PUT("/chats/:chat_id/pin", handler.PinChat)
	r.GET("/chats/:chat_id/messages", handler.GetChatMessages)
	r.POST("/chats/:chat_id/messages", handler.PostChatMessage)
	r.PUT("/chats/:chat_id/messages/:message_id/status", handler.AdvanceMessageStatus)
	return r
}

func chatHandlerFixture() (*ChatHandler, *mocks.UserRepositoryMock, *mocks.ChatRepositoryMock, *mocks.FriendRepositoryMock, *mocks.MessageRepositoryMock) {
	userRepo := new(mocks.UserRepositoryMock)
	chatRepo := new(mocks.ChatRepositoryMock)
	friendRepo := new(mocks.FriendRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	chatList := services.NewChatListService(userRepo, chatRepo, friendRepo)
	handler := NewChatHandler(chatList, chatRepo, messageRepo, ws.NewHub(), nil)
	return handler, userRepo, chatRepo, friendRepo, messageRepo
}

func TestListChatsSuccess(t *testing.T) {
	handler, userRepo, chatRepo, _, _ := chatHandlerFixture()
	router := setupChatRouter(handler)

	userRepo.On("GetUser", mock.Anything, 1).Return(models.UserProfile{ID: 1}, nil).Once()
	chatRepo.On("ListMemberships", mock.Anything, 1).Return([]models.Membership{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/chats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp, "chats")

	userRepo.AssertExpectations(t)
	chatRepo.AssertExpectations(t)
}

func TestListChatsRepoError(t *testing.T) {
	handler, userRepo, chatRepo, _, _ := chatHandlerFixture()
	router := setupChatRouter(handler)

	userRepo.On("GetUser", mock.Anything, 1).Return(models.UserProfile{ID: 1}, nil).Once()
	chatRepo.On("ListMemberships", mock.Anything, 1).Return(([]models.Membership)(nil), assert.AnError).Once()

	req := httptest.NewRequest(http.MethodGet, "/chats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMarkReadSuccess(t *testing.T) {
	handler, userRepo, chatRepo, _, _ := chatHandlerFixture()
	router := setupChatRouter(handler)

	userRepo.On("GetUser", mock.Anything, 1).Return(models.UserProfile{ID: 1}, nil).Once()
	chatRepo.On("MarkRead", mock.Anything, 7, 1, mock.Anything).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/chats/7/read", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	chatRepo.AssertExpectations(t)
}

func TestPinChatSuccess(t *testing.T) {
	handler, _, chatRepo, _, _ := chatHandlerFixture()
	router := setupChatRouter(handler)

	chatRepo.On("SetPinned", mock.Anything, 7, 1, true).Return(nil).Once()

	body := bytes.NewBufferString(`{"enabled":true}`)
	req := httptest.NewRequest(http.MethodPut, "/chats/7/pin", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	chatRepo.AssertExpectations(t)
}

func TestGetChatMessagesForbidden(t *testing.T) {
	handler, _, chatRepo, _, _ := chatHandlerFixture()
	router := setupChatRouter(handler)

	chatRepo.On("IsParticipant", mock.Anything, 7, 1).Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/chats/7/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPostChatMessageSuccess(t *testing.T) {
	handler, _, chatRepo, _, messageRepo := chatHandlerFixture()
	router := setupChatRouter(handler)

	chatRepo.On("IsParticipant", mock.Anything, 7, 1).Return(true, nil).Once()
	messageRepo.On("CreateMessage", mock.Anything, 7, 1, models.MessageText, "hi", "").
		Return(models.Message{ID: 9, ChatID: 7, SenderID: 1, Type: models.MessageText, Content: "hi", Status: models.StatusSent}, nil).Once()

	body := bytes.NewBufferString(`{"content":"hi"}`)
	req := httptest.NewRequest(http.MethodPost, "/chats/7/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	messageRepo.AssertExpectations(t)
}

func TestPostChatMessageEmpty(t *testing.T) {
	handler, _, chatRepo, _, _ := chatHandlerFixture()
	router := setupChatRouter(handler)

	chatRepo.On("IsParticipant", mock.Anything, 7, 1).Return(true, nil).Once()

	body := bytes.NewBufferString(`{}`)
	req := httptest.NewRequest(http.MethodPost, "/chats/7/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdvanceMessageStatusRegression(t *testing.T) {
	handler, _, chatRepo, _, messageRepo := chatHandlerFixture()
	router := setupChatRouter(handler)

	chatRepo.On("IsParticipant", mock.Anything, 7, 1).Return(true, nil).Once()
	messageRepo.On("AdvanceStatus", mock.Anything, 9, models.StatusSent).
		Return(models.Message{}, repositories.ErrStatusRegression).Once()

	body := bytes.NewBufferString(`{"status":"sent"}`)
	req := httptest.NewRequest(http.MethodPut, "/chats/7/messages/9/status", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}
