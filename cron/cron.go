package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const completePastLockKey = "therapy-booking:cron:complete-past"

// Completer is the batch operation the scheduler runs.
type Completer interface {
	CompletePastAppointments(ctx context.Context) (int64, error)
}

// Locker keeps several instances from running the same job at once.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func() error, ok bool, err error)
}

type Scheduler struct {
	cron    *cron.Cron
	svc     Completer
	locker  Locker
	timeout time.Duration
	log     *zap.Logger
}

// NewScheduler builds a scheduler; locker may be nil when only one instance runs.
func NewScheduler(svc Completer, locker Locker, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		svc:     svc,
		locker:  locker,
		timeout: time.Minute,
		log:     log,
	}
}

// Start registers the complete-past job on spec and starts the scheduler.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.completePastAppointments); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("cron scheduler started", zap.String("complete_past_spec", spec))
	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) completePastAppointments() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if s.locker != nil {
		release, ok, err := s.locker.TryLock(ctx, completePastLockKey, s.timeout)
		if err != nil {
			s.log.Warn("complete-past lock failed", zap.Error(err))
			return
		}
		if !ok {
			s.log.Debug("complete-past already running elsewhere")
			return
		}
		defer func() {
			if err := release(); err != nil {
				s.log.Warn("complete-past lock release failed", zap.Error(err))
			}
		}()
	}

	n, err := s.svc.CompletePastAppointments(ctx)
	if err != nil {
		s.log.Error("complete-past job failed", zap.Error(err))
		return
	}
	s.log.Debug("complete-past job finished", zap.Int64("completed", n))
}
