package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"social-service/internal/models"
	"social-service/internal/observability"
	"social-service/internal/services"
	"social-service/internal/ws"
)

// LocationHandler manages location sharing and geofence endpoints.
type LocationHandler struct {
	locations *services.LocationService
	hub       *ws.Hub
}

// NewLocationHandler constructs a LocationHandler.
func NewLocationHandler(locations *services.LocationService, hub *ws.Hub) *LocationHandler {
	return &LocationHandler{locations: locations, hub: hub}
}

// ShareLocation records the caller's position and reports geofence entries.
func (h *LocationHandler) ShareLocation(c *gin.Context) {
	userID := c.GetInt("userID")

	var req struct {
		Latitude  float64  `json:"latitude"`
		Longitude float64  `json:"longitude"`
		Accuracy  *float64 `json:"accuracy"`
		Address   string   `json:"address"`
		Ghost     bool     `json:"ghost"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc := models.Location{
		UserID:    userID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Accuracy:  req.Accuracy,
		Address:   req.Address,
		Ghost:     req.Ghost,
	}

	stored, entered, err := h.locations.ShareLocation(c.Request.Context(), loc)
	if err != nil {
		respondError(c, err)
		return
	}

	observability.IncLocationShared(req.Ghost)
	for _, fence := range entered {
		observability.IncGeofenceEntry()
		h.hub.NotifyUser(fence.OwnerID, gin.H{
			"type":     "geofence_entry",
			"fence_id": fence.ID,
			"name":     fence.Name,
		})
	}

	c.JSON(http.StatusCreated, gin.H{"location": stored, "geofences_entered": len(entered)})
}

// FriendLocations returns friends' latest visible positions with distances.
func (h *LocationHandler) FriendLocations(c *gin.Context) {
	userID := c.GetInt("userID")

	locations, err := h.locations.FriendLocations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// CreateGeofence stores a fence for the caller.
func (h *LocationHandler) CreateGeofence(c *gin.Context) {
	userID := c.GetInt("userID")

	var req struct {
		Name      string  `json:"name" binding:"required"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Radius    float64 `json:"radius"`
		Enabled   *bool   `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	fence, err := h.locations.CreateGeofence(c.Request.Context(), models.Geofence{
		OwnerID:   userID,
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Radius:    req.Radius,
		Enabled:   enabled,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, fence)
}

// ListGeofences returns the caller's fences.
func (h *LocationHandler) ListGeofences(c *gin.Context) {
	userID := c.GetInt("userID")

	fences, err := h.locations.ListGeofences(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"geofences": fences})
}

// DeleteGeofence removes one of the caller's fences.
func (h *LocationHandler) DeleteGeofence(c *gin.Context) {
	fenceID, err := strconv.Atoi(c.Param("geofence_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid geofence id"})
		return
	}

	userID := c.GetInt("userID")
	if err := h.locations.DeleteGeofence(c.Request.Context(), fenceID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
