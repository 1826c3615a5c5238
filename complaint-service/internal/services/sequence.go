package services

import (
	"context"
	"fmt"
	"time"

	"complaint-portal/complaint-service/internal/models"
)

// Sequence hands out the numeric part of complaint codes, per calendar year.
type Sequence interface {
	Next(ctx context.Context, year int) (int64, error)
}

// Counter is an atomic integer store such as Redis.
type Counter interface {
	Exists(ctx context.Context, key string) (bool, error)
	SetNX(ctx context.Context, key string, value int64) (bool, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// yearFloor is the highest sequence number the store already accounts for in
// year: the larger of the year's complaint count and its highest code suffix.
func yearFloor(ctx context.Context, repo ComplaintRepository, loc *time.Location, year int) (int64, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	count, err := repo.CountCreatedBetween(ctx, from, from.AddDate(1, 0, 0))
	if err != nil {
		return 0, fmt.Errorf("count complaints of %d: %w", year, err)
	}

	max, err := repo.MaxSequence(ctx, models.CodePrefix(year))
	if err != nil {
		return 0, fmt.Errorf("highest complaint code of %d: %w", year, err)
	}

	if max > count {
		return max, nil
	}
	return count, nil
}

// CountSequence derives the next number from what is stored. Two concurrent
// callers can get the same number; the unique index on complaintId rejects
// the loser, which then retries.
type CountSequence struct {
	repo ComplaintRepository
	loc  *time.Location
}

func NewCountSequence(repo ComplaintRepository, loc *time.Location) *CountSequence {
	return &CountSequence{repo: repo, loc: loc}
}

func (s *CountSequence) Next(ctx context.Context, year int) (int64, error) {
	floor, err := yearFloor(ctx, s.repo, s.loc, year)
	if err != nil {
		return 0, err
	}
	return floor + 1, nil
}

// RedisSequence keeps one INCR counter per year. A missing counter is seeded
// from the store so that a flushed Redis never reissues a code.
type RedisSequence struct {
	counter Counter
	repo    ComplaintRepository
	loc     *time.Location
}

func NewRedisSequence(counter Counter, repo ComplaintRepository, loc *time.Location) *RedisSequence {
	return &RedisSequence{counter: counter, repo: repo, loc: loc}
}

func sequenceKey(year int) string {
	return fmt.Sprintf("complaints:seq:%d", year)
}

func (s *RedisSequence) Next(ctx context.Context, year int) (int64, error) {
	key := sequenceKey(year)

	exists, err := s.counter.Exists(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("check sequence %s: %w", key, err)
	}
	if !exists {
		floor, err := yearFloor(ctx, s.repo, s.loc, year)
		if err != nil {
			return 0, err
		}
		if _, err := s.counter.SetNX(ctx, key, floor); err != nil {
			return 0, fmt.Errorf("seed sequence %s: %w", key, err)
		}
	}

	n, err := s.counter.Incr(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("increment sequence %s: %w", key, err)
	}
	return n, nil
}
