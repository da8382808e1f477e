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
	"social-service/internal/services"
	"social-service/internal/ws"
)

func setupLocationRouter(handler *LocationHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/locations", handler.ShareLocation)
	r.GET("/locations/friends", handler.FriendLocations)
	r.POST("/geofences", handler.CreateGeofence)
	r.GET("/geofences", handler.ListGeofences)
	r.DELETE("/geofences/:geofence_id", handler.DeleteGeofence)
	return r
}

func locationHandlerFixture() (*LocationHandler, *mocks.LocationRepositoryMock, *mocks.FriendRepositoryMock) {
	locationRepo := new(mocks.LocationRepositoryMock)
	friendRepo := new(mocks.FriendRepositoryMock)
	service := services.NewLocationService(locationRepo, friendRepo)
	handler := NewLocationHandler(service, ws.NewHub())
	return handler, locationRepo, friendRepo
}

func TestShareLocationCreated(t *testing.T) {
	handler, locationRepo, _ := locationHandlerFixture()
	router := setupLocationRouter(handler)

	locationRepo.On("AppendLocation", mock.Anything, mock.Anything).
		Return(models.Location{ID: 3, UserID: 1, Latitude: 48.85, Longitude: 2.35}, nil).Once()
	locationRepo.On("ListGeofences", mock.Anything, 1).Return([]models.Geofence{}, nil).Once()

	body := bytes.NewBufferString(`{"latitude":48.85,"longitude":2.35}`)
	req := httptest.NewRequest(http.MethodPost, "/locations", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	locationRepo.AssertExpectations(t)
}

func TestShareLocationInvalidCoordinates(t *testing.T) {
	handler, locationRepo, _ := locationHandlerFixture()
	router := setupLocationRouter(handler)

	body := bytes.NewBufferString(`{"latitude":"oops"}`)
	req := httptest.NewRequest(http.MethodPost, "/locations", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	locationRepo.AssertNotCalled(t, "AppendLocation", mock.Anything, mock.Anything)
}

func TestFriendLocationsOK(t *testing.T) {
	handler, locationRepo, friendRepo := locationHandlerFixture()
	router := setupLocationRouter(handler)

	friendRepo.On("FriendIDs", mock.Anything, 1).Return([]int{2}, nil).Once()
	locationRepo.On("LatestVisibleLocations", mock.Anything, []int{2}).Return([]models.Location{
		{UserID: 2, Latitude: 40.71, Longitude: -74.0},
	}, nil).Once()
	locationRepo.On("LatestVisibleLocation", mock.Anything, 1).Return((*models.Location)(nil), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/locations/friends", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp, "locations")
}

func TestCreateGeofenceCreated(t *testing.T) {
	handler, locationRepo, _ := locationHandlerFixture()
	router := setupLocationRouter(handler)

	locationRepo.On("CreateGeofence", mock.Anything, mock.Anything).
		Return(models.Geofence{ID: 4, OwnerID: 1, Name: "home", Radius: 150, Enabled: true}, nil).Once()

	body := bytes.NewBufferString(`{"name":"home","latitude":48.85,"longitude":2.35,"radius":150}`)
	req := httptest.NewRequest(http.MethodPost, "/geofences", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	locationRepo.AssertExpectations(t)
}
