package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"social-service/internal/models"
	"social-service/internal/presence"
	"social-service/internal/services"
	"social-service/internal/telemetry"
	"social-service/internal/ws"
)

// FriendHandler manages friend requests and relationship endpoints.
type FriendHandler struct {
	friends  *services.FriendService
	hub      *ws.Hub
	audit    *telemetry.AuditEmitter
	presence *presence.Store
}

// NewFriendHandler constructs a FriendHandler.
func NewFriendHandler(friends *services.FriendService, hub *ws.Hub, audit *telemetry.AuditEmitter, store *presence.Store) *FriendHandler {
	return &FriendHandler{friends: friends, hub: hub, audit: audit, presence: store}
}

// SendRequest creates a pending friend request.
func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID := c.GetInt("userID")

	var req struct {
		ToUserID int `json:"to_user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.friends.SendRequest(c.Request.Context(), userID, req.ToUserID)
	if err != nil {
		if errors.Is(err, services.ErrSelfRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot friend yourself"})
			return
		}
		respondError(c, err)
		return
	}

	h.hub.NotifyUser(req.ToUserID, gin.H{"type": "friend_request", "request": request})
	h.emitAudit(c, "INFO", "Friend request sent")
	c.JSON(http.StatusCreated, request)
}

// ListRequests returns pending requests addressed to the caller.
func (h *FriendHandler) ListRequests(c *gin.Context) {
	userID := c.GetInt("userID")

	requests, err := h.friends.ListPendingRequests(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// AcceptRequest accepts a pending request, creating the friend edges and
// the shared chat.
func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Param("request_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	userID := c.GetInt("userID")
	chat, err := h.friends.AcceptRequest(c.Request.Context(), userID, requestID)
	if err != nil {
		if errors.Is(err, services.ErrRequestNotPending) {
			c.JSON(http.StatusConflict, gin.H{"error": "request is not pending"})
			return
		}
		h.emitAudit(c, "ERROR", "accept request failed")
		respondError(c, err)
		return
	}

	h.emitAudit(c, "INFO", "Friend request accepted")
	c.JSON(http.StatusOK, gin.H{"chat_id": chat.ID})
}

// RejectRequest declines a pending request.
func (h *FriendHandler) RejectRequest(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Param("request_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	userID := c.GetInt("userID")
	if err := h.friends.RejectRequest(c.Request.Context(), userID, requestID); err != nil {
		if errors.Is(err, services.ErrRequestNotPending) {
			c.JSON(http.StatusConflict, gin.H{"error": "request is not pending"})
			return
		}
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListFriends returns the caller's relationships with profiles attached.
func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID := c.GetInt("userID")

	friends, err := h.friends.ListFriends(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.presence != nil && len(friends) > 0 {
		ids := make([]int, len(friends))
		for i, friend := range friends {
			ids[i] = friend.User.ID
		}
		if online, err := h.presence.OnlineAmong(c.Request.Context(), ids); err == nil {
			onlineSet := make(map[int]bool, len(online))
			for _, id := range online {
				onlineSet[id] = true
			}
			for i := range friends {
				if onlineSet[friends[i].User.ID] {
					friends[i].User.Status = models.PresenceOnline
				}
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

// UpgradeToCouple promotes a friendship to couple status.
func (h *FriendHandler) UpgradeToCouple(c *gin.Context) {
	friendID, err := strconv.Atoi(c.Param("friend_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid friend id"})
		return
	}

	userID := c.GetInt("userID")
	if err := h.friends.UpgradeToCouple(c.Request.Context(), userID, friendID); err != nil {
		respondError(c, err)
		return
	}

	h.hub.NotifyUser(friendID, gin.H{"type": "couple_upgrade", "user_id": userID})
	h.emitAudit(c, "INFO", "Couple upgrade")
	c.Status(http.StatusNoContent)
}

// BreakCouple demotes a couple back to friends.
func (h *FriendHandler) BreakCouple(c *gin.Context) {
	friendID, err := strconv.Atoi(c.Param("friend_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid friend id"})
		return
	}

	userID := c.GetInt("userID")
	if err := h.friends.BreakCouple(c.Request.Context(), userID, friendID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveFriend deletes the relationship and its chat.
func (h *FriendHandler) RemoveFriend(c *gin.Context) {
	friendID, err := strconv.Atoi(c.Param("friend_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid friend id"})
		return
	}

	userID := c.GetInt("userID")
	if err := h.friends.RemoveFriend(c.Request.Context(), userID, friendID); err != nil {
		respondError(c, err)
		return
	}

	h.emitAudit(c, "INFO", "Friend removed")
	c.Status(http.StatusNoContent)
}

func (h *FriendHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
