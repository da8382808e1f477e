package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"social-service/internal/auth"
	"social-service/internal/models"
	"social-service/internal/presence"
	"social-service/internal/repositories"
)

// UserHandler manages sessions, profiles and preferences.
type UserHandler struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager
	presence *presence.Store
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(userRepo repositories.UserRepository, tokens *auth.TokenManager, store *presence.Store) *UserHandler {
	return &UserHandler{userRepo: userRepo, tokens: tokens, presence: store}
}

// CreateSession exchanges a username for a bearer token, creating the
// profile on first login.
func (h *UserHandler) CreateSession(c *gin.Context) {
	var req struct {
		Username    string `json:"username" binding:"required"`
		DisplayName string `json:"display_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userRepo.EnsureUser(c.Request.Context(), req.Username, req.DisplayName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}

	token, err := h.tokens.Mint(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mint token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Me returns the caller's profile.
func (h *UserHandler) Me(c *gin.Context) {
	userID := c.GetInt("userID")

	user, err := h.userRepo.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUser returns another user's profile with live presence.
func (h *UserHandler) GetUser(c *gin.Context) {
	targetID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.userRepo.GetUser(c.Request.Context(), targetID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrUserNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "user not found"})
		return
	}

	if h.presence != nil {
		if online, err := h.presence.IsOnline(c.Request.Context(), targetID); err == nil && online {
			user.Status = models.PresenceOnline
		}
	}

	c.JSON(http.StatusOK, user)
}

// SearchUsers matches usernames and display names.
func (h *UserHandler) SearchUsers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query"})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	users, err := h.userRepo.SearchUsers(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetPreferences returns the caller's theme settings.
func (h *UserHandler) GetPreferences(c *gin.Context) {
	userID := c.GetInt("userID")

	prefs, err := h.userRepo.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load preferences"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// PutPreferences stores the caller's theme settings.
func (h *UserHandler) PutPreferences(c *gin.Context) {
	userID := c.GetInt("userID")

	var prefs models.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	prefs.UserID = userID

	if err := h.userRepo.UpsertPreferences(c.Request.Context(), prefs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save preferences"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}
