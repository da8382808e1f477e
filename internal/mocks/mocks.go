package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"social-service/internal/models"
	"social-service/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID int) (models.UserProfile, error) {
	args := m.Called(ctx, userID)
	var user models.UserProfile
	if val := args.Get(0); val != nil {
		user = val.(models.UserProfile)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) EnsureUser(ctx context.Context, username, displayName string) (models.UserProfile, error) {
	args := m.Called(ctx, username, displayName)
	var user models.UserProfile
	if val := args.Get(0); val != nil {
		user = val.(models.UserProfile)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) BulkUsers(ctx context.Context, ids []int) ([]models.UserProfile, error) {
	args := m.Called(ctx, ids)
	var users []models.UserProfile
	if val := args.Get(0); val != nil {
		users = val.([]models.UserProfile)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) SearchUsers(ctx context.Context, query string, limit int) ([]models.UserProfile, error) {
	args := m.Called(ctx, query, limit)
	var users []models.UserProfile
	if val := args.Get(0); val != nil {
		users = val.([]models.UserProfile)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) SetPresence(ctx context.Context, userID int, status string, lastSeen time.Time) error {
	args := m.Called(ctx, userID, status, lastSeen)
	return args.Error(0)
}

func (m *UserRepositoryMock) GetPreferences(ctx context.Context, userID int) (models.Preferences, error) {
	args := m.Called(ctx, userID)
	var prefs models.Preferences
	if val := args.Get(0); val != nil {
		prefs = val.(models.Preferences)
	}
	return prefs, args.Error(1)
}

func (m *UserRepositoryMock) UpsertPreferences(ctx context.Context, prefs models.Preferences) error {
	args := m.Called(ctx, prefs)
	return args.Error(0)
}

type ChatRepositoryMock struct {
	mock.Mock
}

func (m *ChatRepositoryMock) CreateDirectChat(ctx context.Context, userID, otherUserID int) (models.Chat, bool, error) {
	args := m.Called(ctx, userID, otherUserID)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Bool(1), args.Error(2)
}

func (m *ChatRepositoryMock) DeleteDirectChat(ctx context.Context, userID, otherUserID int) error {
	args := m.Called(ctx, userID, otherUserID)
	return args.Error(0)
}

func (m *ChatRepositoryMock) CreateGroupChat(ctx context.Context, creatorID int, name, avatar string, memberIDs []int) (models.Chat, error) {
	args := m.Called(ctx, creatorID, name, avatar, memberIDs)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) GetChat(ctx context.Context, chatID int) (models.Chat, error) {
	args := m.Called(ctx, chatID)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) ParticipantIDs(ctx context.Context, chatID int) ([]int, error) {
	args := m.Called(ctx, chatID)
	var ids []int
	if val := args.Get(0); val != nil {
		ids = val.([]int)
	}
	return ids, args.Error(1)
}

func (m *ChatRepositoryMock) IsParticipant(ctx context.Context, chatID, userID int) (bool, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ChatRepositoryMock) ListMemberships(ctx context.Context, userID int) ([]models.Membership, error) {
	args := m.Called(ctx, userID)
	var memberships []models.Membership
	if val := args.Get(0); val != nil {
		memberships = val.([]models.Membership)
	}
	return memberships, args.Error(1)
}

func (m *ChatRepositoryMock) MarkRead(ctx context.Context, chatID, userID int, at time.Time) error {
	args := m.Called(ctx, chatID, userID, at)
	return args.Error(0)
}

func (m *ChatRepositoryMock) SetPinned(ctx context.Context, chatID, userID int, pinned bool) error {
	args := m.Called(ctx, chatID, userID, pinned)
	return args.Error(0)
}

func (m *ChatRepositoryMock) SetMuted(ctx context.Context, chatID, userID int, muted bool) error {
	args := m.Called(ctx, chatID, userID, muted)
	return args.Error(0)
}

func (m *ChatRepositoryMock) UnreadCount(ctx context.Context, chatID int, since *time.Time) (int, error) {
	args := m.Called(ctx, chatID, since)
	return args.Int(0), args.Error(1)
}

func (m *ChatRepositoryMock) LastMessage(ctx context.Context, chatID int) (*models.Message, error) {
	args := m.Called(ctx, chatID)
	var msg *models.Message
	if val := args.Get(0); val != nil {
		msg = val.(*models.Message)
	}
	return msg, args.Error(1)
}

type FriendRepositoryMock struct {
	mock.Mock
}

func (m *FriendRepositoryMock) CreateRequest(ctx context.Context, fromUserID, toUserID int) (models.FriendRequest, error) {
	args := m.Called(ctx, fromUserID, toUserID)
	var req models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *FriendRepositoryMock) GetRequest(ctx context.Context, requestID int) (models.FriendRequest, error) {
	args := m.Called(ctx, requestID)
	var req models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *FriendRepositoryMock) UpdateRequestStatus(ctx context.Context, requestID int, status string) error {
	args := m.Called(ctx, requestID, status)
	return args.Error(0)
}

func (m *FriendRepositoryMock) ListPendingRequests(ctx context.Context, toUserID int) ([]models.FriendRequest, error) {
	args := m.Called(ctx, toUserID)
	var reqs []models.FriendRequest
	if val := args.Get(0); val != nil {
		reqs = val.([]models.FriendRequest)
	}
	return reqs, args.Error(1)
}

func (m *FriendRepositoryMock) GetRelationship(ctx context.Context, userID, relatedUserID int) (*models.Relationship, error) {
	args := m.Called(ctx, userID, relatedUserID)
	var rel *models.Relationship
	if val := args.Get(0); val != nil {
		rel = val.(*models.Relationship)
	}
	return rel, args.Error(1)
}

func (m *FriendRepositoryMock) UpsertRelationship(ctx context.Context, userID, relatedUserID int, status string) error {
	args := m.Called(ctx, userID, relatedUserID, status)
	return args.Error(0)
}

func (m *FriendRepositoryMock) UpdateRelationshipStatus(ctx context.Context, userID, relatedUserID int, status string) error {
	args := m.Called(ctx, userID, relatedUserID, status)
	return args.Error(0)
}

func (m *FriendRepositoryMock) DeleteRelationshipPair(ctx context.Context, userID, relatedUserID int) error {
	args := m.Called(ctx, userID, relatedUserID)
	return args.Error(0)
}

func (m *FriendRepositoryMock) ListRelationships(ctx context.Context, userID int) ([]models.Relationship, error) {
	args := m.Called(ctx, userID)
	var rels []models.Relationship
	if val := args.Get(0); val != nil {
		rels = val.([]models.Relationship)
	}
	return rels, args.Error(1)
}

func (m *FriendRepositoryMock) FriendIDs(ctx context.Context, userID int) ([]int, error) {
	args := m.Called(ctx, userID)
	var ids []int
	if val := args.Get(0); val != nil {
		ids = val.([]int)
	}
	return ids, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, chatID, senderID int, msgType, content, mediaURL string) (models.Message, error) {
	args := m.Called(ctx, chatID, senderID, msgType, content, mediaURL)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListMessages(ctx context.Context, chatID int, limit int) ([]models.Message, error) {
	args := m.Called(ctx, chatID, limit)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) AdvanceStatus(ctx context.Context, messageID int, status string) (models.Message, error) {
	args := m.Called(ctx, messageID, status)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

type LocationRepositoryMock struct {
	mock.Mock
}

func (m *LocationRepositoryMock) AppendLocation(ctx context.Context, loc models.Location) (models.Location, error) {
	args := m.Called(ctx, loc)
	var stored models.Location
	if val := args.Get(0); val != nil {
		stored = val.(models.Location)
	}
	return stored, args.Error(1)
}

func (m *LocationRepositoryMock) LatestVisibleLocation(ctx context.Context, userID int) (*models.Location, error) {
	args := m.Called(ctx, userID)
	var loc *models.Location
	if val := args.Get(0); val != nil {
		loc = val.(*models.Location)
	}
	return loc, args.Error(1)
}

func (m *LocationRepositoryMock) LatestVisibleLocations(ctx context.Context, userIDs []int) ([]models.Location, error) {
	args := m.Called(ctx, userIDs)
	var locs []models.Location
	if val := args.Get(0); val != nil {
		locs = val.([]models.Location)
	}
	return locs, args.Error(1)
}

func (m *LocationRepositoryMock) CreateGeofence(ctx context.Context, fence models.Geofence) (models.Geofence, error) {
	args := m.Called(ctx, fence)
	var stored models.Geofence
	if val := args.Get(0); val != nil {
		stored = val.(models.Geofence)
	}
	return stored, args.Error(1)
}

func (m *LocationRepositoryMock) ListGeofences(ctx context.Context, ownerID int) ([]models.Geofence, error) {
	args := m.Called(ctx, ownerID)
	var fences []models.Geofence
	if val := args.Get(0); val != nil {
		fences = val.([]models.Geofence)
	}
	return fences, args.Error(1)
}

func (m *LocationRepositoryMock) DeleteGeofence(ctx context.Context, geofenceID, ownerID int) error {
	args := m.Called(ctx, geofenceID, ownerID)
	return args.Error(0)
}

type MomentRepositoryMock struct {
	mock.Mock
}

func (m *MomentRepositoryMock) CreateMoment(ctx context.Context, moment models.Moment) (models.Moment, error) {
	args := m.Called(ctx, moment)
	var stored models.Moment
	if val := args.Get(0); val != nil {
		stored = val.(models.Moment)
	}
	return stored, args.Error(1)
}

func (m *MomentRepositoryMock) GetMoment(ctx context.Context, momentID int) (models.Moment, error) {
	args := m.Called(ctx, momentID)
	var moment models.Moment
	if val := args.Get(0); val != nil {
		moment = val.(models.Moment)
	}
	return moment, args.Error(1)
}

func (m *MomentRepositoryMock) ListFeed(ctx context.Context, viewerID int, friendIDs []int) ([]models.MomentView, error) {
	args := m.Called(ctx, viewerID, friendIDs)
	var views []models.MomentView
	if val := args.Get(0); val != nil {
		views = val.([]models.MomentView)
	}
	return views, args.Error(1)
}

func (m *MomentRepositoryMock) DeleteMoment(ctx context.Context, momentID, ownerID int) error {
	args := m.Called(ctx, momentID, ownerID)
	return args.Error(0)
}

func (m *MomentRepositoryMock) UpsertReaction(ctx context.Context, momentID, userID int, emoji string) error {
	args := m.Called(ctx, momentID, userID, emoji)
	return args.Error(0)
}

func (m *MomentRepositoryMock) DeleteReaction(ctx context.Context, momentID, userID int) error {
	args := m.Called(ctx, momentID, userID)
	return args.Error(0)
}

func (m *MomentRepositoryMock) AddComment(ctx context.Context, momentID, userID int, content string) (models.MomentComment, error) {
	args := m.Called(ctx, momentID, userID, content)
	var comment models.MomentComment
	if val := args.Get(0); val != nil {
		comment = val.(models.MomentComment)
	}
	return comment, args.Error(1)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.ChatRepository = (*ChatRepositoryMock)(nil)
var _ repositories.FriendRepository = (*FriendRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.LocationRepository = (*LocationRepositoryMock)(nil)
var _ repositories.MomentRepository = (*MomentRepositoryMock)(nil)
