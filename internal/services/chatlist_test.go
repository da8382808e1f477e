package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-service/internal/apperrors"
	"social-service/internal/mocks"
	"social-service/internal/models"
	"social-service/internal/repositories"
)

func chatListFixture() (*ChatListService, *mocks.UserRepositoryMock, *mocks.ChatRepositoryMock, *mocks.FriendRepositoryMock) {
	userRepo := new(mocks.UserRepositoryMock)
	chatRepo := new(mocks.ChatRepositoryMock)
	friendRepo := new(mocks.FriendRepositoryMock)
	return NewChatListService(userRepo, chatRepo, friendRepo), userRepo, chatRepo, friendRepo
}

func expectDirectChat(chatRepo *mocks.ChatRepositoryMock, friendRepo *mocks.FriendRepositoryMock, chatID, userID, otherID int, rel *models.Relationship, last *models.Message, unread int) {
	chatRepo.On("GetChat", mock.Anything, chatID).Return(models.Chat{ID: chatID, Type: models.ChatDirect}, nil).Once()
	chatRepo.On("ParticipantIDs", mock.Anything, chatID).Return([]int{userID, otherID}, nil).Once()
	friendRepo.On("GetRelationship", mock.Anything, userID, otherID).Return(rel, nil).Once()
	chatRepo.On("LastMessage", mock.Anything, chatID).Return(last, nil).Once()
	chatRepo.On("UnreadCount", mock.Anything, chatID, mock.Anything).Return(unread, nil).Once()
}

func TestListChatsOrdering(t *testing.T) {
	service, userRepo, chatRepo, friendRepo := chatListFixture()
	userRepo.On("GetUser", mock.Anything, 1).Return(models.UserProfile{ID: 1}, nil).Once()

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	chatRepo.On("ListMemberships", mock.Anything, 1).Return([]models.Membership{
		{ChatID: 101, UserID: 1},
		{ChatID: 102, UserID: 1},
		{ChatID: 103, UserID: 1, IsPinned: true},
	}, nil).Once()

	// unpinned friend chat with the newest message
	expectDirectChat(chatRepo, friendRepo, 101, 1, 2,
		&models.Relationship{UserID: 1, RelatedUserID: 2, Status: models.RelationshipFriend},
		&models.Message{ID: 11, ChatID: 101, CreatedAt: base.Add(100 * time.Second)}, 3)
	// couple chat with an older message
	expectDirectChat(chatRepo, friendRepo, 102, 1, 3,
		&models.Relationship{UserID: 1, RelatedUserID: 3, Status: models.RelationshipCouple},
		&models.Message{ID: 12, ChatID: 102, CreatedAt: base.Add(50 * time.Second)}, 0)
	// pinned friend chat with no messages at all
	expectDirectChat(chatRepo, friendRepo, 103, 1, 4,
		&models.Relationship{UserID: 1, RelatedUserID: 4, Status: models.RelationshipFriend},
		nil, 0)

	summaries, err := service.ListChats(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, 102, summaries[0].ChatID, "couple chat outranks pin and recency")
	assert.Equal(t, 103, summaries[1].ChatID, "pinned chat outranks newer messages")
	assert.Equal(t, 101, summaries[2].ChatID)

	chatRepo.AssertExpectations(t)
	friendRepo.AssertExpectations(t)
}

func TestListChatsAbsentRelationshipDefaultsToFriend(t *testing.T) {
	service, userRepo, chatRepo, friendRepo := chatListFixture()
	userRepo.On("GetUser", mock.Anything, 1).Return(models.UserProfile{ID: 1}, nil).Once()
	chatRepo.On("ListMemberships", mock.Anything, 1).Return([]models.Membership{{ChatID: 201, UserID: 1}}, nil).Once()
	expectDirectChat(chatRepo, friendRepo, 201, 1, 9, nil, nil, 0)

	summaries, err := service.ListChats(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, models.RelationshipFriend, summaries[0].RelationshipStatus)
}

func TestListChatsUnknownCaller(t *testing.T) {
	service, userRepo, _, _ := chatListFixture()
	userRepo.On("GetUser", mock.Anything, 99).Return(models.UserProfile{}, repositories.ErrUserNotFound).Once()

	_, err := service.ListChats(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestListChatsReadFailure(t *testing.T) {
	service, userRepo, chatRepo, _ := chatListFixture()
	userRepo.On("GetUser", mock.Anything, 1).Return(models.UserProfile{ID: 1}, nil).Once()
	chatRepo.On("ListMemberships", mock.Anything, 1).Return(([]models.Membership)(nil), assert.AnError).Once()

	_, err := service.ListChats(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrDataUnavailable)
}

func TestMarkReadUnknownChat(t *testing.T) {
	service, userRepo, chatRepo, _ := chatListFixture()
	userRepo.On("GetUser", mock.Anything, 1).Return(models.UserProfile{ID: 1}, nil).Once()
	chatRepo.On("MarkRead", mock.Anything, 404, 1, mock.Anything).Return(repositories.ErrChatNotFound).Once()

	err := service.MarkRead(context.Background(), 404, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMarkReadAdvancesWatermark(t *testing.T) {
	service, userRepo, chatRepo, _ := chatListFixture()
	userRepo.On("GetUser", mock.Anything, 1).Return(models.UserProfile{ID: 1}, nil).Once()
	chatRepo.On("MarkRead", mock.Anything, 101, 1, mock.MatchedBy(func(at time.Time) bool {
		return time.Since(at) < time.Minute
	})).Return(nil).Once()

	require.NoError(t, service.MarkRead(context.Background(), 101, 1))
	chatRepo.AssertExpectations(t)
}

func TestMarkReadThenListShowsNoUnread(t *testing.T) {
	service, userRepo, chatRepo, friendRepo := chatListFixture()
	userRepo.On("GetUser", mock.Anything, 1).Return(models.UserProfile{ID: 1}, nil).Twice()

	var watermark time.Time
	chatRepo.On("MarkRead", mock.Anything, 101, 1, mock.Anything).Run(func(args mock.Arguments) {
		watermark = args.Get(3).(time.Time)
	}).Return(nil).Once()
	require.NoError(t, service.MarkRead(context.Background(), 101, 1))

	chatRepo.On("ListMemberships", mock.Anything, 1).Return([]models.Membership{
		{ChatID: 101, UserID: 1, LastReadAt: &watermark},
	}, nil).Once()
	chatRepo.On("GetChat", mock.Anything, 101).Return(models.Chat{ID: 101, Type: models.ChatDirect}, nil).Once()
	chatRepo.On("ParticipantIDs", mock.Anything, 101).Return([]int{1, 2}, nil).Once()
	friendRepo.On("GetRelationship", mock.Anything, 1, 2).Return((*models.Relationship)(nil), nil).Once()
	chatRepo.On("LastMessage", mock.Anything, 101).Return(&models.Message{ID: 11, ChatID: 101, CreatedAt: watermark.Add(-time.Second)}, nil).Once()
	chatRepo.On("UnreadCount", mock.Anything, 101, mock.MatchedBy(func(since *time.Time) bool {
		return since != nil && since.Equal(watermark)
	})).Return(0, nil).Once()

	summaries, err := service.ListChats(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Zero(t, summaries[0].UnreadCount)
	chatRepo.AssertExpectations(t)
}

func TestSortChatSummariesIsStable(t *testing.T) {
	// identical sort keys keep their input order
	summaries := []models.ChatSummary{
		{ChatID: 1, RelationshipStatus: models.RelationshipFriend},
		{ChatID: 2, RelationshipStatus: models.RelationshipFriend},
		{ChatID: 3, RelationshipStatus: models.RelationshipFriend},
	}
	SortChatSummaries(summaries)

	assert.Equal(t, 1, summaries[0].ChatID)
	assert.Equal(t, 2, summaries[1].ChatID)
	assert.Equal(t, 3, summaries[2].ChatID)
}

func TestSortChatSummariesEmptyChatSortsAsEpoch(t *testing.T) {
	now := time.Now()
	summaries := []models.ChatSummary{
		{ChatID: 1},
		{ChatID: 2, LastMessage: &models.Message{CreatedAt: now}},
	}
	SortChatSummaries(summaries)

	assert.Equal(t, 2, summaries[0].ChatID)
	assert.Equal(t, 1, summaries[1].ChatID)
}
