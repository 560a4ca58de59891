// Package cache stores plan_horizon results keyed by a deterministic hash
// of their inputs, so an identical (squad, fixtures, constraints,
// parameters, formation) call served twice within the TTL window skips
// the solve pipeline entirely.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/pitchside/horizon-planner/internal/params"
	"github.com/pitchside/horizon-planner/internal/planner"
)

// PlanCache caches HorizonPlan results in Redis.
type PlanCache struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewPlanCache creates a cache backed by an already-connected Redis client.
func NewPlanCache(client *redis.Client, logger *logrus.Logger) *PlanCache {
	return &PlanCache{client: client, logger: logger}
}

// Key hashes the full plan_horizon input into a stable cache key. The
// squad, fixture, lock and rejection slices are sorted and the Unavailable
// set is flattened to a sorted list of flagged ids before hashing; map
// fields inside each Player (RoleRatings, Familiarity) are written by
// encoding/json with sorted keys. Input order and Go's randomized map
// iteration order therefore never produce two keys for what is
// semantically the same request.
func Key(squad []planner.Player, fixtures []planner.Fixture, constraints planner.Constraints, store *params.Store, formation string) string {
	sortedSquad := append([]planner.Player(nil), squad...)
	sort.Slice(sortedSquad, func(i, j int) bool { return sortedSquad[i].ID.String() < sortedSquad[j].ID.String() })

	sortedFixtures := append([]planner.Fixture(nil), fixtures...)
	sort.Slice(sortedFixtures, func(i, j int) bool { return sortedFixtures[i].Date.Before(sortedFixtures[j].Date) })

	sortedLocks := append([]planner.Lock(nil), constraints.Locks...)
	sort.Slice(sortedLocks, func(i, j int) bool {
		if sortedLocks[i].PlayerID != sortedLocks[j].PlayerID {
			return sortedLocks[i].PlayerID.String() < sortedLocks[j].PlayerID.String()
		}
		return sortedLocks[i].SlotKey < sortedLocks[j].SlotKey
	})
	sortedRejections := append([]planner.Rejection(nil), constraints.Rejections...)
	sort.Slice(sortedRejections, func(i, j int) bool {
		if sortedRejections[i].PlayerID != sortedRejections[j].PlayerID {
			return sortedRejections[i].PlayerID.String() < sortedRejections[j].PlayerID.String()
		}
		return sortedRejections[i].SlotKey < sortedRejections[j].SlotKey
	})
	sortedUnavailable := make([]string, 0, len(constraints.Unavailable))
	for id, flagged := range constraints.Unavailable {
		if flagged {
			sortedUnavailable = append(sortedUnavailable, id.String())
		}
	}
	sort.Strings(sortedUnavailable)

	payload := struct {
		Squad       []planner.Player    `json:"squad"`
		Fixtures    []planner.Fixture   `json:"fixtures"`
		Locks       []planner.Lock      `json:"locks"`
		Rejections  []planner.Rejection `json:"rejections"`
		Unavailable []string            `json:"unavailable"`
		Formation   string              `json:"formation"`
		Store       *params.Store       `json:"store"`
	}{
		Squad:       sortedSquad,
		Fixtures:    sortedFixtures,
		Locks:       sortedLocks,
		Rejections:  sortedRejections,
		Unavailable: sortedUnavailable,
		Formation:   formation,
		Store:       store,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		// Marshal failure here means a non-serializable Store was passed in,
		// a programmer error at the call site, not a cache-layer concern.
		panic(fmt.Sprintf("cache: failed to marshal plan key payload: %v", err))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Get retrieves a cached plan. Returns (nil, false, nil) on a clean miss.
func (c *PlanCache) Get(ctx context.Context, key string) (*planner.HorizonPlan, bool, error) {
	fullKey := fmt.Sprintf("horizon_plan:%s", key)
	data, err := c.client.Get(ctx, fullKey).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("plan cache get: %w", err)
	}

	var plan planner.HorizonPlan
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, false, fmt.Errorf("plan cache unmarshal: %w", err)
	}

	c.logger.WithField("cache_key", fullKey).Debug("plan cache hit")
	return &plan, true, nil
}

// Set stores a plan under key with the given TTL.
func (c *PlanCache) Set(ctx context.Context, key string, plan *planner.HorizonPlan, ttl time.Duration) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("plan cache marshal: %w", err)
	}

	fullKey := fmt.Sprintf("horizon_plan:%s", key)
	if err := c.client.Set(ctx, fullKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("plan cache set: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key": fullKey,
		"ttl":       ttl,
		"fixtures":  len(plan.Fixtures),
	}).Debug("cached horizon plan")
	return nil
}

// Invalidate removes a cached plan, used when a caller mutates constraints
// after having already requested a plan under the old key.
func (c *PlanCache) Invalidate(ctx context.Context, key string) error {
	fullKey := fmt.Sprintf("horizon_plan:%s", key)
	if err := c.client.Del(ctx, fullKey).Err(); err != nil {
		return fmt.Errorf("plan cache invalidate: %w", err)
	}
	return nil
}
