package jobs

import (
	"context"
	"time"

	"github.com/zhravan/juztadrop-sub000/pkg/logger"
	"go.uber.org/zap"
)

type staleOtpDeleter interface {
	DeleteStale(ctx context.Context, now time.Time) (int64, error)
}

type expiredSessionDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// AuthCleanupJob periodically removes used or expired OTP codes and expired
// sessions from every namespace. Request paths never delete OTP rows.
type AuthCleanupJob struct {
	otps     staleOtpDeleter
	sessions []expiredSessionDeleter
	interval time.Duration
	now      func() time.Time
	stop     chan struct{}
}

func NewAuthCleanupJob(otps staleOtpDeleter, interval time.Duration, sessions ...expiredSessionDeleter) *AuthCleanupJob {
	if interval <= 0 {
		interval = time.Hour
	}
	return &AuthCleanupJob{
		otps:     otps,
		sessions: sessions,
		interval: interval,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

func (j *AuthCleanupJob) Start(ctx context.Context) {
	logger.Info(ctx, "auth cleanup job started", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "auth cleanup job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "auth cleanup job stopped")
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *AuthCleanupJob) Stop() {
	close(j.stop)
}

func (j *AuthCleanupJob) runOnce(ctx context.Context) {
	now := j.now()

	otps, err := j.otps.DeleteStale(ctx, now)
	if err != nil {
		logger.Error(ctx, "failed to delete stale otp tokens", zap.Error(err))
	}

	var sessions int64
	for _, repo := range j.sessions {
		n, err := repo.DeleteExpired(ctx, now)
		if err != nil {
			logger.Error(ctx, "failed to delete expired sessions", zap.Error(err))
			continue
		}
		sessions += n
	}

	if otps > 0 || sessions > 0 {
		logger.Info(ctx, "auth cleanup completed",
			zap.Int64("otp_tokens_deleted", otps),
			zap.Int64("sessions_deleted", sessions),
		)
	}
}
