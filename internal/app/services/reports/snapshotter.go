package reports

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/patitas/storefront/pkg/logger"
)

const defaultSnapshotSchedule = "@daily"

// Snapshotter runs Snapshot on a cron schedule. It implements the lifecycle
// contract so the service manager starts and stops it with the rest of the
// application.
type Snapshotter struct {
	service  *Service
	schedule string
	log      *logger.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewSnapshotter builds a snapshotter on the given cron spec; an empty spec
// means daily at midnight.
func NewSnapshotter(service *Service, schedule string, log *logger.Logger) *Snapshotter {
	if schedule == "" {
		schedule = defaultSnapshotSchedule
	}
	if log == nil {
		log = logger.NewDefault("reports.snapshotter")
	}
	return &Snapshotter{service: service, schedule: schedule, log: log}
}

func (s *Snapshotter) Name() string { return "reports.snapshotter" }

func (s *Snapshotter) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("snapshotter already started")
	}

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() {
		runCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.service.Snapshot(runCtx); err != nil {
			s.log.WithError(err).Error("daily snapshot failed")
		}
	}); err != nil {
		return fmt.Errorf("schedule %q: %w", s.schedule, err)
	}
	c.Start()

	s.cron = c
	s.running = true
	s.log.WithField("schedule", s.schedule).Info("snapshotter started")
	return nil
}

func (s *Snapshotter) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}

	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	s.cron = nil
	s.running = false
	s.log.Info("snapshotter stopped")
	return nil
}
