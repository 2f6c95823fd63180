package locking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	portssvc "github.com/SscSPs/workshop_inventory/internal/core/ports/services"
	"github.com/SscSPs/workshop_inventory/internal/middleware"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "lock:invoice-subject:"

// RedisSubjectLocker serializes invoice creation per subject using a Redis lock.
// Redis failures degrade to running unlocked; the database indexes still decide.
type RedisSubjectLocker struct {
	locker *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

var _ portssvc.SubjectLocker = (*RedisSubjectLocker)(nil)

// NewRedisSubjectLocker builds a locker on an existing Redis client.
func NewRedisSubjectLocker(client redis.UniversalClient, ttl time.Duration) *RedisSubjectLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisSubjectLocker{
		locker: redislock.New(client),
		ttl:    ttl,
		// Waits up to about a second for a competing create on the same subject.
		retry: redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 20),
	}
}

// Connect opens a Redis client and checks it with PING.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// Lock obtains the subject lock. A lock held past the retry window yields ErrConflict.
func (l *RedisSubjectLocker) Lock(ctx context.Context, subjectRef string) (func(), error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	lock, err := l.locker.Obtain(ctx, keyPrefix+subjectRef, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: invoice creation already in progress for subject %s", apperrors.ErrConflict, subjectRef)
	}
	if err != nil {
		logger.Warn("error obtaining redis lock; proceeding without redis lock",
			slog.String("subject_ref", subjectRef),
			slog.String("error", err.Error()))
		return func() {}, nil
	}

	return func() {
		// The request context may already be cancelled when the deferred release runs.
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			logger.Warn("failed to release redis lock",
				slog.String("subject_ref", subjectRef),
				slog.String("error", err.Error()))
		}
	}, nil
}
