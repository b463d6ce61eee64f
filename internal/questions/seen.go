package questions

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const seenTTL = 30 * 24 * time.Hour

// SeenStore tracks which questions a user has already been served,
// backed by a Redis set per user. Set union is atomic on the server, so
// concurrent session finishes merge instead of overwriting each other.
type SeenStore struct {
	rdb *redis.Client
}

func NewSeenStore(rdb *redis.Client) *SeenStore {
	return &SeenStore{rdb: rdb}
}

func seenKey(userID string) string {
	return "seen:" + userID
}

func (s *SeenStore) Get(ctx context.Context, userID string) (map[string]bool, error) {
	ids, err := s.rdb.SMembers(ctx, seenKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("seen members: %w", err)
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	return seen, nil
}

// AddAll marks questions as seen and refreshes the retention window.
func (s *SeenStore) AddAll(ctx context.Context, userID string, questionIDs []string) error {
	if len(questionIDs) == 0 {
		return nil
	}

	key := seenKey(userID)
	members := make([]interface{}, len(questionIDs))
	for i, id := range questionIDs {
		members[i] = id
	}

	pipe := s.rdb.TxPipeline()
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, seenTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("seen add: %w", err)
	}
	return nil
}
