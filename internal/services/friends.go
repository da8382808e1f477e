package services

import (
	"context"
	"errors"
	"fmt"

	"social-service/internal/apperrors"
	"social-service/internal/models"
	"social-service/internal/repositories"
)

var (
	ErrSelfRequest       = errors.New("cannot send a friend request to yourself")
	ErrRequestNotPending = errors.New("friend request is not pending")
)

// FriendService drives the relationship lifecycle: requests, the friend
// edges they create, couple upgrades and removals.
type FriendService struct {
	userRepo   repositories.UserRepository
	friendRepo repositories.FriendRepository
	chatRepo   repositories.ChatRepository
}

// NewFriendService constructs a FriendService.
func NewFriendService(userRepo repositories.UserRepository, friendRepo repositories.FriendRepository, chatRepo repositories.ChatRepository) *FriendService {
	return &FriendService{userRepo: userRepo, friendRepo: friendRepo, chatRepo: chatRepo}
}

// SendRequest creates a pending request from the caller to another user.
func (s *FriendService) SendRequest(ctx context.Context, fromUserID, toUserID int) (models.FriendRequest, error) {
	if fromUserID == toUserID {
		return models.FriendRequest{}, ErrSelfRequest
	}
	if _, err := s.userRepo.GetUser(ctx, toUserID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return models.FriendRequest{}, apperrors.ErrNotFound
		}
		return models.FriendRequest{}, translateRead(err)
	}

	req, err := s.friendRepo.CreateRequest(ctx, fromUserID, toUserID)
	if errors.Is(err, repositories.ErrDuplicatePending) {
		return models.FriendRequest{}, apperrors.ErrDuplicateRequest
	}
	if err != nil {
		return models.FriendRequest{}, translateRead(err)
	}
	return req, nil
}

// AcceptRequest finishes the request lifecycle: the request flips to
// accepted, a friend edge is written in each direction, and the shared 1-1
// chat is created. The steps run in order and each one is idempotent, so a
// retry after a partial failure resumes where the previous attempt stopped
// instead of erroring or duplicating rows.
func (s *FriendService) AcceptRequest(ctx context.Context, userID, requestID int) (models.Chat, error) {
	req, err := s.friendRepo.GetRequest(ctx, requestID)
	if errors.Is(err, repositories.ErrRequestNotFound) {
		return models.Chat{}, apperrors.ErrNotFound
	}
	if err != nil {
		return models.Chat{}, translateRead(err)
	}
	if req.ToUserID != userID {
		return models.Chat{}, apperrors.ErrNotFound
	}
	if req.Status == models.RequestRejected {
		return models.Chat{}, ErrRequestNotPending
	}

	var completed []string
	fail := func(step string, err error) error {
		if len(completed) == 0 {
			return translateRead(err)
		}
		return &apperrors.PartialFailureError{
			Op:        "accept friend request",
			Completed: completed,
			Err:       fmt.Errorf("%s: %w", step, err),
		}
	}

	if req.Status == models.RequestPending {
		if err := s.friendRepo.UpdateRequestStatus(ctx, requestID, models.RequestAccepted); err != nil {
			return models.Chat{}, fail("mark request accepted", err)
		}
	}
	completed = append(completed, "request accepted")

	if err := s.friendRepo.UpsertRelationship(ctx, req.ToUserID, req.FromUserID, models.RelationshipFriend); err != nil {
		return models.Chat{}, fail("create recipient edge", err)
	}
	completed = append(completed, "recipient edge created")

	if err := s.friendRepo.UpsertRelationship(ctx, req.FromUserID, req.ToUserID, models.RelationshipFriend); err != nil {
		return models.Chat{}, fail("create requester edge", err)
	}
	completed = append(completed, "requester edge created")

	chat, _, err := s.chatRepo.CreateDirectChat(ctx, req.ToUserID, req.FromUserID)
	if err != nil {
		return models.Chat{}, fail("create chat", err)
	}
	return chat, nil
}

// RejectRequest declines a pending request addressed to the caller. No
// edges or chats are touched.
func (s *FriendService) RejectRequest(ctx context.Context, userID, requestID int) error {
	req, err := s.friendRepo.GetRequest(ctx, requestID)
	if errors.Is(err, repositories.ErrRequestNotFound) {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return translateRead(err)
	}
	if req.ToUserID != userID {
		return apperrors.ErrNotFound
	}
	if req.Status != models.RequestPending {
		return ErrRequestNotPending
	}
	return translateRead(s.friendRepo.UpdateRequestStatus(ctx, requestID, models.RequestRejected))
}

// UpgradeToCouple promotes an existing friendship to couple in both
// directions. The caller must already hold an edge toward the friend; a
// missing reverse edge is recreated rather than left asymmetric.
func (s *FriendService) UpgradeToCouple(ctx context.Context, userID, friendID int) error {
	return s.setPairStatus(ctx, userID, friendID, models.RelationshipCouple)
}

// BreakCouple demotes a couple back to plain friends in both directions.
func (s *FriendService) BreakCouple(ctx context.Context, userID, friendID int) error {
	return s.setPairStatus(ctx, userID, friendID, models.RelationshipFriend)
}

func (s *FriendService) setPairStatus(ctx context.Context, userID, friendID int, status string) error {
	err := s.friendRepo.UpdateRelationshipStatus(ctx, userID, friendID, status)
	if errors.Is(err, repositories.ErrRelationshipMissing) {
		return apperrors.ErrRelationshipNotFound
	}
	if err != nil {
		return translateRead(err)
	}

	err = s.friendRepo.UpdateRelationshipStatus(ctx, friendID, userID, status)
	if errors.Is(err, repositories.ErrRelationshipMissing) {
		err = s.friendRepo.UpsertRelationship(ctx, friendID, userID, status)
	}
	if err != nil {
		return &apperrors.PartialFailureError{
			Op:        "update relationship pair",
			Completed: []string{"caller edge updated"},
			Err:       err,
		}
	}
	return nil
}

// RemoveFriend deletes both directed edges and the shared 1-1 chat. The
// caller must hold an edge toward the other user.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID int) error {
	rel, err := s.friendRepo.GetRelationship(ctx, userID, friendID)
	if err != nil {
		return translateRead(err)
	}
	if rel == nil {
		return apperrors.ErrRelationshipNotFound
	}

	if err := s.friendRepo.DeleteRelationshipPair(ctx, userID, friendID); err != nil {
		return translateRead(err)
	}

	if err := s.chatRepo.DeleteDirectChat(ctx, userID, friendID); err != nil {
		return &apperrors.PartialFailureError{
			Op:        "remove friend",
			Completed: []string{"edges deleted"},
			Err:       err,
		}
	}
	return nil
}

// ListFriends returns the caller's edges joined with the related profiles.
func (s *FriendService) ListFriends(ctx context.Context, userID int) ([]models.Friend, error) {
	rels, err := s.friendRepo.ListRelationships(ctx, userID)
	if err != nil {
		return nil, translateRead(err)
	}
	if len(rels) == 0 {
		return []models.Friend{}, nil
	}

	ids := make([]int, 0, len(rels))
	for _, rel := range rels {
		ids = append(ids, rel.RelatedUserID)
	}
	users, err := s.userRepo.BulkUsers(ctx, ids)
	if err != nil {
		return nil, translateRead(err)
	}
	byID := make(map[int]models.UserProfile, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}

	friends := make([]models.Friend, 0, len(rels))
	for _, rel := range rels {
		friends = append(friends, models.Friend{Relationship: rel, User: byID[rel.RelatedUserID]})
	}
	return friends, nil
}

// ListPendingRequests returns pending requests addressed to the caller,
// each joined with the sender's profile.
func (s *FriendService) ListPendingRequests(ctx context.Context, userID int) ([]models.FriendRequestWithSender, error) {
	reqs, err := s.friendRepo.ListPendingRequests(ctx, userID)
	if err != nil {
		return nil, translateRead(err)
	}
	if len(reqs) == 0 {
		return []models.FriendRequestWithSender{}, nil
	}

	ids := make([]int, 0, len(reqs))
	for _, req := range reqs {
		ids = append(ids, req.FromUserID)
	}
	users, err := s.userRepo.BulkUsers(ctx, ids)
	if err != nil {
		return nil, translateRead(err)
	}
	byID := make(map[int]models.UserProfile, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}

	withSenders := make([]models.FriendRequestWithSender, 0, len(reqs))
	for _, req := range reqs {
		withSenders = append(withSenders, models.FriendRequestWithSender{FriendRequest: req, From: byID[req.FromUserID]})
	}
	return withSenders, nil
}

func translateRead(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.ErrCancelled
	}
	return fmt.Errorf("%w: %v", apperrors.ErrDataUnavailable, err)
}
