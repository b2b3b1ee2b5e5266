// Package jobs runs the background retention tasks: purging refresh tokens
// past their expiry and login-attempt rows far outside any rate-limit window.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/opspulse/leadfunnel/internal/auth/domain"
)

type Scheduler struct {
	cron                 *cron.Cron
	repo                 domain.AdminRepository
	attemptRetentionDays int
}

func NewScheduler(repo domain.AdminRepository, attemptRetentionDays int) *Scheduler {
	return &Scheduler{
		cron:                 cron.New(),
		repo:                 repo,
		attemptRetentionDays: attemptRetentionDays,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	// Hourly: drop refresh tokens whose expiry already passed. Revoked but
	// unexpired tokens stay so revocation remains observable.
	s.cron.AddFunc("0 * * * *", func() {
		deleted, err := s.repo.DeleteExpiredRefreshTokens(ctx, time.Now())
		if err != nil {
			log.WithError(err).Error("[CRON] refresh token purge failed")
			return
		}
		if deleted > 0 {
			log.WithField("deleted", deleted).Info("[CRON] purged expired refresh tokens")
		}
	})

	// Daily: trim the login-attempt ledger. The cutoff is weeks beyond the
	// 15-minute rate-limit window, so window queries are never affected.
	s.cron.AddFunc("30 3 * * *", func() {
		cutoff := time.Now().AddDate(0, 0, -s.attemptRetentionDays)
		deleted, err := s.repo.DeleteLoginAttemptsBefore(ctx, cutoff)
		if err != nil {
			log.WithError(err).Error("[CRON] login attempt purge failed")
			return
		}
		if deleted > 0 {
			log.WithField("deleted", deleted).Info("[CRON] purged old login attempts")
		}
	})

	s.cron.Start()
	log.Info("retention scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
