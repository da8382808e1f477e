package presence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	onlineKeyPrefix   = "presence:online:"
	lastSeenKeyPrefix = "presence:last_seen:"

	// online keys expire unless the connection keeps heartbeating
	onlineTTL = 90 * time.Second
)

// Store keeps online flags and last-seen timestamps in Redis. Online flags
// are TTL-backed so a crashed connection decays to offline on its own.
type Store struct {
	client *redis.Client
}

// NewStore constructs a Store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func onlineKey(userID int) string   { return onlineKeyPrefix + strconv.Itoa(userID) }
func lastSeenKey(userID int) string { return lastSeenKeyPrefix + strconv.Itoa(userID) }

// SetOnline marks the user online until the TTL lapses. Call it again on
// heartbeats to keep the flag alive.
func (s *Store) SetOnline(ctx context.Context, userID int) error {
	if err := s.client.Set(ctx, onlineKey(userID), "1", onlineTTL).Err(); err != nil {
		return fmt.Errorf("set online flag: %w", err)
	}
	return nil
}

// SetOffline clears the online flag and records the disconnect time.
func (s *Store) SetOffline(ctx context.Context, userID int) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, onlineKey(userID))
	pipe.Set(ctx, lastSeenKey(userID), time.Now().UTC().Format(time.RFC3339), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set offline: %w", err)
	}
	return nil
}

// IsOnline reports whether the user currently holds an online flag.
func (s *Store) IsOnline(ctx context.Context, userID int) (bool, error) {
	count, err := s.client.Exists(ctx, onlineKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("check online flag: %w", err)
	}
	return count > 0, nil
}

// LastSeen returns the recorded disconnect time, or nil when the user has
// never gone offline cleanly.
func (s *Store) LastSeen(ctx context.Context, userID int) (*time.Time, error) {
	val, err := s.client.Get(ctx, lastSeenKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get last seen: %w", err)
	}
	at, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil, fmt.Errorf("parse last seen: %w", err)
	}
	return &at, nil
}

// OnlineAmong filters the given ids down to those currently online using a
// single pipelined round trip.
func (s *Store) OnlineAmong(ctx context.Context, userIDs []int) ([]int, error) {
	if len(userIDs) == 0 {
		return []int{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.IntCmd, len(userIDs))
	for i, id := range userIDs {
		cmds[i] = pipe.Exists(ctx, onlineKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("check online flags: %w", err)
	}

	online := make([]int, 0, len(userIDs))
	for i, cmd := range cmds {
		if cmd.Val() > 0 {
			online = append(online, userIDs[i])
		}
	}
	return online, nil
}
