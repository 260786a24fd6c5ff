package reaper

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/mindhaven-care/counsel-scheduler/internal/audit"
	"github.com/mindhaven-care/counsel-scheduler/internal/models"
	"github.com/mindhaven-care/counsel-scheduler/internal/timezone"
)

// Store is the slice of the appointment repository the sweep needs.
type Store interface {
	ListExpiredPending(ctx context.Context, cutoff time.Time) ([]models.Appointment, error)
	ReleasePending(ctx context.Context, appointmentID uint) error
}

const lockKey = "counsel-scheduler:reaper:pass"

// Locker grants a single instance each sweep. Acquire returns false
// when another instance already holds the pass.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// RedisLocker implements Locker with SET NX.
type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, key, time.Now().UnixNano(), ttl).Result()
}

// ======================================================
// REAPER
// ======================================================

// Reaper reclaims public reservations whose payment never arrived:
// PENDING, no payment token, older than the TTL. Each stale booking is
// released in its own transaction so one failure never blocks the rest.
type Reaper struct {
	repo     Store
	locker   Locker
	audit    *audit.Dispatcher
	log      *zap.Logger
	interval time.Duration
	ttl      time.Duration
}

func New(
	repo Store,
	locker Locker,
	audit *audit.Dispatcher,
	log *zap.Logger,
	interval time.Duration,
	ttl time.Duration,
) *Reaper {
	return &Reaper{
		repo:     repo,
		locker:   locker,
		audit:    audit,
		log:      log,
		interval: interval,
		ttl:      ttl,
	}
}

// Run sweeps on a fixed interval until the context is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Pass(ctx)
		}
	}
}

// Pass runs one sweep. Releases are guarded per item inside the store,
// so a duplicate sweep (lock check failing open) is safe: at worst the
// same PENDING rows are visited twice and released once.
func (r *Reaper) Pass(ctx context.Context) {
	if r.locker != nil {
		ok, err := r.locker.Acquire(ctx, lockKey, r.interval)
		if err != nil {
			r.log.Warn("reaper lock check failed, sweeping anyway", zap.Error(err))
		} else if !ok {
			return
		}
	}

	cutoff := timezone.Now().Add(-r.ttl)

	stale, err := r.repo.ListExpiredPending(ctx, cutoff)
	if err != nil {
		r.log.Error("expired reservation scan failed", zap.Error(err))
		return
	}
	if len(stale) == 0 {
		return
	}

	released := 0
	for _, ap := range stale {
		if err := r.repo.ReleasePending(ctx, ap.ID); err != nil {
			r.log.Error("failed to release expired reservation",
				zap.Uint("appointment_id", ap.ID),
				zap.Error(err))
			continue
		}
		released++

		id := ap.ID
		r.audit.Dispatch(audit.Event{
			Action:   "appointment_expired",
			Entity:   "appointment",
			EntityID: &id,
		})
	}

	r.log.Info("reaper pass finished",
		zap.Int("stale", len(stale)),
		zap.Int("released", released))
}
