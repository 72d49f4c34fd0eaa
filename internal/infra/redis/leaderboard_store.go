package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"popquiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "quiz:leaderboard"

// LeaderboardStore keeps the leaderboard as a JSON array blob at a single
// key. The store mutex serializes read-merge-write sequences; the service
// runs as a single process, so no cross-instance coordination is needed.
type LeaderboardStore struct {
	client *redis.Client
	mu     sync.Mutex
}

func NewLeaderboardStore(client *redis.Client) *LeaderboardStore {
	return &LeaderboardStore{client: client}
}

func (s *LeaderboardStore) List(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *LeaderboardStore) Upsert(ctx context.Context, entry domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadLocked(ctx)
	if err != nil {
		return nil, err
	}
	ranked := domain.Rank(domain.Merge(entries, entry))

	data, err := json.Marshal(ranked)
	if err != nil {
		return nil, fmt.Errorf("marshal leaderboard: %w", err)
	}
	if err := s.client.Set(ctx, leaderboardKey, data, 0).Err(); err != nil {
		return nil, fmt.Errorf("store leaderboard: %w", err)
	}
	return ranked, nil
}

func (s *LeaderboardStore) loadLocked(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	data, err := s.client.Get(ctx, leaderboardKey).Bytes()
	if err == redis.Nil {
		return []domain.LeaderboardEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal leaderboard: %w", err)
	}
	return entries, nil
}
