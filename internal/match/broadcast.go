package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cheer categories spectators can send. Anything else is rejected.
const (
	CheerAppreciation = "appreciation"
	CheerExcitement   = "excitement"
	CheerCelebration  = "celebration"
	CheerSurprise     = "surprise"
)

var cheerCategories = []string{CheerAppreciation, CheerExcitement, CheerCelebration, CheerSurprise}

var ErrUnknownCheer = errors.New("unknown cheer category")

const liveSnapshotTTL = 24 * time.Hour

// Broadcaster pushes live match snapshots and spectator reactions through
// redis. Every operation is best-effort from the scorer's point of view;
// callers log failures and keep scoring.
type Broadcaster struct {
	rdb *redis.Client
}

func NewBroadcaster(rdb *redis.Client) *Broadcaster {
	return &Broadcaster{rdb: rdb}
}

func liveStateKey(publicID string) string { return "cricscore:live:" + publicID }
func liveChannel(publicID string) string  { return "cricscore:match:" + publicID }
func cheerKey(publicID string) string     { return "cricscore:cheers:" + publicID }

// PublishState stores the latest snapshot and fans it out to subscribers of
// the match channel.
func (b *Broadcaster) PublishState(ctx context.Context, state *MatchState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal live state: %w", err)
	}
	pipe := b.rdb.Pipeline()
	pipe.Set(ctx, liveStateKey(state.PublicID), payload, liveSnapshotTTL)
	pipe.Publish(ctx, liveChannel(state.PublicID), payload)
	_, err = pipe.Exec(ctx)
	return err
}

// LiveState returns the latest published snapshot, nil when none exists.
func (b *Broadcaster) LiveState(ctx context.Context, publicID string) (*MatchState, error) {
	payload, err := b.rdb.Get(ctx, liveStateKey(publicID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state MatchState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// AddCheer bumps one reaction counter and returns the new total for that
// category.
func (b *Broadcaster) AddCheer(ctx context.Context, publicID, category string) (int64, error) {
	if !validCheer(category) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCheer, category)
	}
	return b.rdb.HIncrBy(ctx, cheerKey(publicID), category, 1).Result()
}

// Cheers returns all reaction counters, zero-filled for missing categories.
func (b *Broadcaster) Cheers(ctx context.Context, publicID string) (map[string]int64, error) {
	raw, err := b.rdb.HGetAll(ctx, cheerKey(publicID)).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(cheerCategories))
	for _, c := range cheerCategories {
		out[c] = 0
		if v, ok := raw[c]; ok {
			if n, perr := strconv.ParseInt(v, 10, 64); perr == nil {
				out[c] = n
			}
		}
	}
	return out, nil
}

func validCheer(category string) bool {
	for _, c := range cheerCategories {
		if c == category {
			return true
		}
	}
	return false
}
