package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"social-service/internal/apperrors"
	"social-service/internal/models"
	"social-service/internal/repositories"
)

// ChatListService derives the per-user ordered chat list from memberships,
// messages and relationship edges. It holds no state; the list can be
// re-derived at any time by re-running the aggregation.
type ChatListService struct {
	userRepo   repositories.UserRepository
	chatRepo   repositories.ChatRepository
	friendRepo repositories.FriendRepository
}

// NewChatListService constructs a ChatListService.
func NewChatListService(userRepo repositories.UserRepository, chatRepo repositories.ChatRepository, friendRepo repositories.FriendRepository) *ChatListService {
	return &ChatListService{userRepo: userRepo, chatRepo: chatRepo, friendRepo: friendRepo}
}

// ListChats returns the caller's chat summaries, most important first.
// Per-membership reads are independent and run in parallel; the sort is
// applied once after every read completes.
func (s *ChatListService) ListChats(ctx context.Context, userID int) ([]models.ChatSummary, error) {
	if _, err := s.userRepo.GetUser(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotAuthenticated
		}
		return nil, translateRead(err)
	}

	memberships, err := s.chatRepo.ListMemberships(ctx, userID)
	if err != nil {
		return nil, translateRead(err)
	}

	summaries := make([]models.ChatSummary, len(memberships))
	g, gctx := errgroup.WithContext(ctx)
	for i, membership := range memberships {
		i, membership := i, membership
		g.Go(func() error {
			summary, err := s.buildSummary(gctx, userID, membership)
			if err != nil {
				return err
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, translateRead(err)
	}

	SortChatSummaries(summaries)
	return summaries, nil
}

func (s *ChatListService) buildSummary(ctx context.Context, userID int, membership models.Membership) (models.ChatSummary, error) {
	chat, err := s.chatRepo.GetChat(ctx, membership.ChatID)
	if err != nil {
		return models.ChatSummary{}, err
	}

	participants, err := s.chatRepo.ParticipantIDs(ctx, membership.ChatID)
	if err != nil {
		return models.ChatSummary{}, err
	}

	summary := models.ChatSummary{
		ChatID:         chat.ID,
		Type:           chat.Type,
		ParticipantIDs: participants,
		GroupName:      chat.GroupName,
		GroupAvatar:    chat.GroupAvatar,
		IsPinned:       membership.IsPinned,
		IsMuted:        membership.IsMuted,
	}

	if chat.Type == models.ChatDirect {
		summary.RelationshipStatus, err = s.directStatus(ctx, userID, participants)
		if err != nil {
			return models.ChatSummary{}, err
		}
	}

	summary.LastMessage, err = s.chatRepo.LastMessage(ctx, membership.ChatID)
	if err != nil {
		return models.ChatSummary{}, err
	}

	summary.UnreadCount, err = s.chatRepo.UnreadCount(ctx, membership.ChatID, membership.LastReadAt)
	if err != nil {
		return models.ChatSummary{}, err
	}

	return summary, nil
}

// directStatus resolves the relationship between the caller and the other
// participant of a 1-1 chat. An absent edge resolves to friend, never
// stranger: the chat's existence implies an established connection.
func (s *ChatListService) directStatus(ctx context.Context, userID int, participants []int) (string, error) {
	otherID := 0
	for _, id := range participants {
		if id != userID {
			otherID = id
			break
		}
	}
	if otherID == 0 {
		return models.RelationshipFriend, nil
	}

	rel, err := s.friendRepo.GetRelationship(ctx, userID, otherID)
	if err != nil {
		return "", err
	}
	if rel == nil {
		return models.RelationshipFriend, nil
	}
	return rel.Status, nil
}

// MarkRead advances the caller's read watermark for the chat to now. The
// call is idempotent and never touches other participants' watermarks.
func (s *ChatListService) MarkRead(ctx context.Context, chatID, userID int) error {
	if _, err := s.userRepo.GetUser(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotAuthenticated
		}
		return translateRead(err)
	}

	err := s.chatRepo.MarkRead(ctx, chatID, userID, time.Now().UTC())
	if errors.Is(err, repositories.ErrChatNotFound) {
		return apperrors.ErrNotFound
	}
	return translateRead(err)
}

// SortChatSummaries applies the display order in place: couple chats first,
// then pinned chats, then last-message recency with empty chats sorting as
// if their timestamp were the epoch. The sort is stable, so chats with
// identical keys keep their input order.
func SortChatSummaries(summaries []models.ChatSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]

		aCouple := a.RelationshipStatus == models.RelationshipCouple
		bCouple := b.RelationshipStatus == models.RelationshipCouple
		if aCouple != bCouple {
			return aCouple
		}

		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}

		return lastMessageTime(a).After(lastMessageTime(b))
	})
}

func lastMessageTime(summary models.ChatSummary) time.Time {
	if summary.LastMessage == nil {
		return time.Time{}
	}
	return summary.LastMessage.CreatedAt
}
