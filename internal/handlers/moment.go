package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"social-service/internal/models"
	"social-service/internal/repositories"
)

// MomentHandler manages the moments feed endpoints.
type MomentHandler struct {
	momentRepo repositories.MomentRepository
	friendRepo repositories.FriendRepository
}

// NewMomentHandler constructs a MomentHandler.
func NewMomentHandler(momentRepo repositories.MomentRepository, friendRepo repositories.FriendRepository) *MomentHandler {
	return &MomentHandler{momentRepo: momentRepo, friendRepo: friendRepo}
}

// CreateMoment posts a new moment for the caller.
func (h *MomentHandler) CreateMoment(c *gin.Context) {
	userID := c.GetInt("userID")

	var req struct {
		ImageURL   string `json:"image_url" binding:"required"`
		Caption    string `json:"caption"`
		Visibility string `json:"visibility"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Visibility == "" {
		req.Visibility = models.VisibilityFriends
	}

	moment, err := h.momentRepo.CreateMoment(c.Request.Context(), models.Moment{
		UserID:     userID,
		ImageURL:   req.ImageURL,
		Caption:    req.Caption,
		Visibility: req.Visibility,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create moment"})
		return
	}

	c.JSON(http.StatusCreated, moment)
}

// Feed returns the caller's feed: own moments plus visible friend moments.
func (h *MomentHandler) Feed(c *gin.Context) {
	userID := c.GetInt("userID")

	friendIDs, err := h.friendRepo.FriendIDs(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load friends"})
		return
	}

	feed, err := h.momentRepo.ListFeed(c.Request.Context(), userID, friendIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load feed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"moments": feed})
}

// DeleteMoment removes one of the caller's moments.
func (h *MomentHandler) DeleteMoment(c *gin.Context) {
	momentID, err := strconv.Atoi(c.Param("moment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid moment id"})
		return
	}

	userID := c.GetInt("userID")
	if err := h.momentRepo.DeleteMoment(c.Request.Context(), momentID, userID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrMomentNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not delete moment"})
		return
	}

	c.Status(http.StatusNoContent)
}

// React sets the caller's reaction on a moment.
func (h *MomentHandler) React(c *gin.Context) {
	momentID, err := strconv.Atoi(c.Param("moment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid moment id"})
		return
	}

	var req struct {
		Emoji string `json:"emoji" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	if _, err := h.momentRepo.GetMoment(c.Request.Context(), momentID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrMomentNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "moment not found"})
		return
	}

	if err := h.momentRepo.UpsertReaction(c.Request.Context(), momentID, userID, req.Emoji); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save reaction"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Unreact removes the caller's reaction from a moment.
func (h *MomentHandler) Unreact(c *gin.Context) {
	momentID, err := strconv.Atoi(c.Param("moment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid moment id"})
		return
	}

	userID := c.GetInt("userID")
	if err := h.momentRepo.DeleteReaction(c.Request.Context(), momentID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove reaction"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Comment appends a comment to a moment.
func (h *MomentHandler) Comment(c *gin.Context) {
	momentID, err := strconv.Atoi(c.Param("moment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid moment id"})
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	if _, err := h.momentRepo.GetMoment(c.Request.Context(), momentID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrMomentNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "moment not found"})
		return
	}

	comment, err := h.momentRepo.AddComment(c.Request.Context(), momentID, userID, req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add comment"})
		return
	}

	c.JSON(http.StatusCreated, comment)
}
