package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-service/internal/apperrors"
	"social-service/internal/mocks"
	"social-service/internal/models"
	"social-service/internal/repositories"
)

func friendFixture() (*FriendService, *mocks.UserRepositoryMock, *mocks.FriendRepositoryMock, *mocks.ChatRepositoryMock) {
	userRepo := new(mocks.UserRepositoryMock)
	friendRepo := new(mocks.FriendRepositoryMock)
	chatRepo := new(mocks.ChatRepositoryMock)
	return NewFriendService(userRepo, friendRepo, chatRepo), userRepo, friendRepo, chatRepo
}

func TestSendRequestSelf(t *testing.T) {
	service, _, _, _ := friendFixture()
	_, err := service.SendRequest(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrSelfRequest)
}

func TestSendRequestUnknownRecipient(t *testing.T) {
	service, userRepo, _, _ := friendFixture()
	userRepo.On("GetUser", mock.Anything, 2).Return(models.UserProfile{}, repositories.ErrUserNotFound).Once()

	_, err := service.SendRequest(context.Background(), 1, 2)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSendRequestDuplicatePending(t *testing.T) {
	service, userRepo, friendRepo, _ := friendFixture()
	userRepo.On("GetUser", mock.Anything, 2).Return(models.UserProfile{ID: 2}, nil).Once()
	friendRepo.On("CreateRequest", mock.Anything, 1, 2).Return(models.FriendRequest{}, repositories.ErrDuplicatePending).Once()

	_, err := service.SendRequest(context.Background(), 1, 2)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateRequest)
}

func TestAcceptRequestCreatesEdgesAndChat(t *testing.T) {
	service, _, friendRepo, chatRepo := friendFixture()
	friendRepo.On("GetRequest", mock.Anything, 7).Return(
		models.FriendRequest{ID: 7, FromUserID: 2, ToUserID: 1, Status: models.RequestPending}, nil).Once()
	friendRepo.On("UpdateRequestStatus", mock.Anything, 7, models.RequestAccepted).Return(nil).Once()
	friendRepo.On("UpsertRelationship", mock.Anything, 1, 2, models.RelationshipFriend).Return(nil).Once()
	friendRepo.On("UpsertRelationship", mock.Anything, 2, 1, models.RelationshipFriend).Return(nil).Once()
	chatRepo.On("CreateDirectChat", mock.Anything, 1, 2).Return(models.Chat{ID: 55, Type: models.ChatDirect}, true, nil).Once()

	chat, err := service.AcceptRequest(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 55, chat.ID)

	friendRepo.AssertExpectations(t)
	chatRepo.AssertExpectations(t)
}

func TestAcceptRequestWrongRecipient(t *testing.T) {
	service, _, friendRepo, _ := friendFixture()
	friendRepo.On("GetRequest", mock.Anything, 7).Return(
		models.FriendRequest{ID: 7, FromUserID: 2, ToUserID: 3, Status: models.RequestPending}, nil).Once()

	_, err := service.AcceptRequest(context.Background(), 1, 7)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAcceptRequestAlreadyRejected(t *testing.T) {
	service, _, friendRepo, _ := friendFixture()
	friendRepo.On("GetRequest", mock.Anything, 7).Return(
		models.FriendRequest{ID: 7, FromUserID: 2, ToUserID: 1, Status: models.RequestRejected}, nil).Once()

	_, err := service.AcceptRequest(context.Background(), 1, 7)
	assert.ErrorIs(t, err, ErrRequestNotPending)
}

func TestAcceptRequestPartialFailureThenRetry(t *testing.T) {
	service, _, friendRepo, chatRepo := friendFixture()

	// first attempt dies after the request flip and the recipient edge
	friendRepo.On("GetRequest", mock.Anything, 7).Return(
		models.FriendRequest{ID: 7, FromUserID: 2, ToUserID: 1, Status: models.RequestPending}, nil).Once()
	friendRepo.On("UpdateRequestStatus", mock.Anything, 7, models.RequestAccepted).Return(nil).Once()
	friendRepo.On("UpsertRelationship", mock.Anything, 1, 2, models.RelationshipFriend).Return(nil).Once()
	friendRepo.On("UpsertRelationship", mock.Anything, 2, 1, models.RelationshipFriend).Return(assert.AnError).Once()

	_, err := service.AcceptRequest(context.Background(), 1, 7)
	require.ErrorIs(t, err, apperrors.ErrPartialFailure)

	var partial *apperrors.PartialFailureError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, []string{"request accepted", "recipient edge created"}, partial.Completed)

	// retry resumes against the already accepted request and completes
	friendRepo.On("GetRequest", mock.Anything, 7).Return(
		models.FriendRequest{ID: 7, FromUserID: 2, ToUserID: 1, Status: models.RequestAccepted}, nil).Once()
	friendRepo.On("UpsertRelationship", mock.Anything, 1, 2, models.RelationshipFriend).Return(nil).Once()
	friendRepo.On("UpsertRelationship", mock.Anything, 2, 1, models.RelationshipFriend).Return(nil).Once()
	chatRepo.On("CreateDirectChat", mock.Anything, 1, 2).Return(models.Chat{ID: 55}, true, nil).Once()

	chat, err := service.AcceptRequest(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 55, chat.ID)

	friendRepo.AssertExpectations(t)
	chatRepo.AssertExpectations(t)
}

func TestRejectRequestNotPending(t *testing.T) {
	service, _, friendRepo, _ := friendFixture()
	friendRepo.On("GetRequest", mock.Anything, 7).Return(
		models.FriendRequest{ID: 7, FromUserID: 2, ToUserID: 1, Status: models.RequestAccepted}, nil).Once()

	err := service.RejectRequest(context.Background(), 1, 7)
	assert.ErrorIs(t, err, ErrRequestNotPending)
}

func TestUpgradeToCoupleBothDirections(t *testing.T) {
	service, _, friendRepo, _ := friendFixture()
	friendRepo.On("UpdateRelationshipStatus", mock.Anything, 1, 2, models.RelationshipCouple).Return(nil).Once()
	friendRepo.On("UpdateRelationshipStatus", mock.Anything, 2, 1, models.RelationshipCouple).Return(nil).Once()

	require.NoError(t, service.UpgradeToCouple(context.Background(), 1, 2))
	friendRepo.AssertExpectations(t)
}

func TestUpgradeToCoupleWithoutEdge(t *testing.T) {
	service, _, friendRepo, _ := friendFixture()
	friendRepo.On("UpdateRelationshipStatus", mock.Anything, 1, 2, models.RelationshipCouple).
		Return(repositories.ErrRelationshipMissing).Once()

	err := service.UpgradeToCouple(context.Background(), 1, 2)
	assert.ErrorIs(t, err, apperrors.ErrRelationshipNotFound)
}

func TestUpgradeToCoupleRestoresMissingReverseEdge(t *testing.T) {
	service, _, friendRepo, _ := friendFixture()
	friendRepo.On("UpdateRelationshipStatus", mock.Anything, 1, 2, models.RelationshipCouple).Return(nil).Once()
	friendRepo.On("UpdateRelationshipStatus", mock.Anything, 2, 1, models.RelationshipCouple).
		Return(repositories.ErrRelationshipMissing).Once()
	friendRepo.On("UpsertRelationship", mock.Anything, 2, 1, models.RelationshipCouple).Return(nil).Once()

	require.NoError(t, service.UpgradeToCouple(context.Background(), 1, 2))
	friendRepo.AssertExpectations(t)
}

func TestRemoveFriendDeletesEdgesAndChat(t *testing.T) {
	service, _, friendRepo, chatRepo := friendFixture()
	friendRepo.On("GetRelationship", mock.Anything, 1, 2).
		Return(&models.Relationship{UserID: 1, RelatedUserID: 2, Status: models.RelationshipFriend}, nil).Once()
	friendRepo.On("DeleteRelationshipPair", mock.Anything, 1, 2).Return(nil).Once()
	chatRepo.On("DeleteDirectChat", mock.Anything, 1, 2).Return(nil).Once()

	require.NoError(t, service.RemoveFriend(context.Background(), 1, 2))
	friendRepo.AssertExpectations(t)
	chatRepo.AssertExpectations(t)
}

func TestRemoveFriendWithoutEdge(t *testing.T) {
	service, _, friendRepo, _ := friendFixture()
	friendRepo.On("GetRelationship", mock.Anything, 1, 2).Return((*models.Relationship)(nil), nil).Once()

	err := service.RemoveFriend(context.Background(), 1, 2)
	assert.ErrorIs(t, err, apperrors.ErrRelationshipNotFound)
}

func TestListPendingRequestsJoinsSenders(t *testing.T) {
	service, userRepo, friendRepo, _ := friendFixture()
	friendRepo.On("ListPendingRequests", mock.Anything, 1).Return([]models.FriendRequest{
		{ID: 7, FromUserID: 2, ToUserID: 1, Status: models.RequestPending},
	}, nil).Once()
	userRepo.On("BulkUsers", mock.Anything, []int{2}).Return([]models.UserProfile{{ID: 2, Username: "mei"}}, nil).Once()

	reqs, err := service.ListPendingRequests(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "mei", reqs[0].From.Username)
}
