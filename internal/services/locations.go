package services

import (
	"context"
	"errors"

	"social-service/internal/apperrors"
	"social-service/internal/geo"
	"social-service/internal/models"
	"social-service/internal/repositories"
)

// LocationService records shared locations, serves friends' latest visible
// positions with distances, and evaluates the owner's geofences.
type LocationService struct {
	locationRepo repositories.LocationRepository
	friendRepo   repositories.FriendRepository
}

// NewLocationService constructs a LocationService.
func NewLocationService(locationRepo repositories.LocationRepository, friendRepo repositories.FriendRepository) *LocationService {
	return &LocationService{locationRepo: locationRepo, friendRepo: friendRepo}
}

// ShareLocation appends a history row and reports which of the owner's
// enabled geofences contain the new position. Ghost rows are stored for the
// owner's own history but never surface to friends.
func (s *LocationService) ShareLocation(ctx context.Context, loc models.Location) (models.Location, []models.Geofence, error) {
	// Distance to self doubles as a coordinate validity check.
	if _, err := geo.Distance(loc.Latitude, loc.Longitude, loc.Latitude, loc.Longitude); err != nil {
		return models.Location{}, nil, err
	}

	stored, err := s.locationRepo.AppendLocation(ctx, loc)
	if err != nil {
		return models.Location{}, nil, translateRead(err)
	}

	fences, err := s.locationRepo.ListGeofences(ctx, loc.UserID)
	if err != nil {
		return models.Location{}, nil, translateRead(err)
	}

	var entered []models.Geofence
	for _, fence := range fences {
		if !fence.Enabled {
			continue
		}
		inside, err := geo.WithinGeofence(stored.Latitude, stored.Longitude, fence)
		if err != nil {
			return models.Location{}, nil, err
		}
		if inside {
			entered = append(entered, fence)
		}
	}
	return stored, entered, nil
}

// FriendLocations returns each friend's latest visible location, with the
// distance from the caller's own latest visible position when one exists.
func (s *LocationService) FriendLocations(ctx context.Context, userID int) ([]models.FriendLocation, error) {
	friendIDs, err := s.friendRepo.FriendIDs(ctx, userID)
	if err != nil {
		return nil, translateRead(err)
	}
	if len(friendIDs) == 0 {
		return []models.FriendLocation{}, nil
	}

	locations, err := s.locationRepo.LatestVisibleLocations(ctx, friendIDs)
	if err != nil {
		return nil, translateRead(err)
	}

	own, err := s.locationRepo.LatestVisibleLocation(ctx, userID)
	if err != nil {
		return nil, translateRead(err)
	}

	result := make([]models.FriendLocation, 0, len(locations))
	for _, loc := range locations {
		entry := models.FriendLocation{Location: loc}
		if own != nil {
			d, err := geo.Distance(own.Latitude, own.Longitude, loc.Latitude, loc.Longitude)
			if err == nil {
				entry.DistanceMeters = &d
			}
		}
		result = append(result, entry)
	}
	return result, nil
}

// CreateGeofence validates and stores a fence for the caller.
func (s *LocationService) CreateGeofence(ctx context.Context, fence models.Geofence) (models.Geofence, error) {
	if _, err := geo.WithinGeofence(fence.Latitude, fence.Longitude, fence); err != nil {
		return models.Geofence{}, err
	}
	if fence.Radius < 0 {
		return models.Geofence{}, apperrors.ErrInvalidCoordinate
	}

	stored, err := s.locationRepo.CreateGeofence(ctx, fence)
	if err != nil {
		return models.Geofence{}, translateRead(err)
	}
	return stored, nil
}

// ListGeofences returns the caller's fences.
func (s *LocationService) ListGeofences(ctx context.Context, userID int) ([]models.Geofence, error) {
	fences, err := s.locationRepo.ListGeofences(ctx, userID)
	if err != nil {
		return nil, translateRead(err)
	}
	return fences, nil
}

// DeleteGeofence removes one of the caller's fences.
func (s *LocationService) DeleteGeofence(ctx context.Context, geofenceID, userID int) error {
	err := s.locationRepo.DeleteGeofence(ctx, geofenceID, userID)
	if errors.Is(err, repositories.ErrGeofenceNotFound) {
		return apperrors.ErrNotFound
	}
	return translateRead(err)
}
