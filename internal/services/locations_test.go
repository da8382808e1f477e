package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-service/internal/apperrors"
	"social-service/internal/mocks"
	"social-service/internal/models"
)

func locationFixture() (*LocationService, *mocks.LocationRepositoryMock, *mocks.FriendRepositoryMock) {
	locationRepo := new(mocks.LocationRepositoryMock)
	friendRepo := new(mocks.FriendRepositoryMock)
	return NewLocationService(locationRepo, friendRepo), locationRepo, friendRepo
}

func TestShareLocationRejectsNonFinite(t *testing.T) {
	service, locationRepo, _ := locationFixture()

	_, _, err := service.ShareLocation(context.Background(), models.Location{UserID: 1, Latitude: math.NaN(), Longitude: 2.35})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCoordinate)
	locationRepo.AssertNotCalled(t, "AppendLocation", mock.Anything, mock.Anything)
}

func TestShareLocationReportsEnteredGeofences(t *testing.T) {
	service, locationRepo, _ := locationFixture()
	loc := models.Location{UserID: 1, Latitude: 48.8566, Longitude: 2.3522}
	locationRepo.On("AppendLocation", mock.Anything, loc).Return(loc, nil).Once()
	locationRepo.On("ListGeofences", mock.Anything, 1).Return([]models.Geofence{
		{ID: 1, OwnerID: 1, Name: "home", Latitude: 48.8566, Longitude: 2.3522, Radius: 100, Enabled: true},
		{ID: 2, OwnerID: 1, Name: "paused", Latitude: 48.8566, Longitude: 2.3522, Radius: 100, Enabled: false},
		{ID: 3, OwnerID: 1, Name: "far", Latitude: 40.7128, Longitude: -74.0060, Radius: 100, Enabled: true},
	}, nil).Once()

	_, entered, err := service.ShareLocation(context.Background(), loc)
	require.NoError(t, err)
	require.Len(t, entered, 1)
	assert.Equal(t, "home", entered[0].Name)
}

func TestFriendLocationsIncludesDistance(t *testing.T) {
	service, locationRepo, friendRepo := locationFixture()
	friendRepo.On("FriendIDs", mock.Anything, 1).Return([]int{2}, nil).Once()
	locationRepo.On("LatestVisibleLocations", mock.Anything, []int{2}).Return([]models.Location{
		{UserID: 2, Latitude: 40.7128, Longitude: -74.0060},
	}, nil).Once()
	locationRepo.On("LatestVisibleLocation", mock.Anything, 1).Return(
		&models.Location{UserID: 1, Latitude: 48.8566, Longitude: 2.3522}, nil).Once()

	locations, err := service.FriendLocations(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	require.NotNil(t, locations[0].DistanceMeters)
	assert.InDelta(t, 5837000, *locations[0].DistanceMeters, 10000)
}

func TestFriendLocationsWithoutOwnPosition(t *testing.T) {
	service, locationRepo, friendRepo := locationFixture()
	friendRepo.On("FriendIDs", mock.Anything, 1).Return([]int{2}, nil).Once()
	locationRepo.On("LatestVisibleLocations", mock.Anything, []int{2}).Return([]models.Location{
		{UserID: 2, Latitude: 40.7128, Longitude: -74.0060},
	}, nil).Once()
	locationRepo.On("LatestVisibleLocation", mock.Anything, 1).Return((*models.Location)(nil), nil).Once()

	locations, err := service.FriendLocations(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Nil(t, locations[0].DistanceMeters)
}

func TestCreateGeofenceNegativeRadius(t *testing.T) {
	service, _, _ := locationFixture()
	_, err := service.CreateGeofence(context.Background(), models.Geofence{OwnerID: 1, Latitude: 0, Longitude: 0, Radius: -5})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCoordinate)
}
