package statistic

import (
	"context"
	"sync"
	"time"

	"github.com/Andii-12/Deltasoft-backend/internal/providers"
	"github.com/Andii-12/Deltasoft-backend/internal/ratelimit"
	"github.com/Andii-12/Deltasoft-backend/internal/statistic/interfaces"
	"github.com/Andii-12/Deltasoft-backend/internal/structures"
	"github.com/roylee0704/gron"
)

const persistTimeout = 30 * time.Second

// Scheduler runs the periodic background jobs: stats snapshots and
// rate-limiter pruning.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	writer  *SnapshotWriter
	limiter *ratelimit.Limiter
	cron    *gron.Cron
	opsMu   sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	if s.config.Snapshot.Enabled && s.config.Snapshot.SaveInterval > 0 {
		s.cron.AddFunc(gron.Every(s.config.Snapshot.SaveInterval), func() {
			if err := s.Persist(); err != nil {
				s.logger.Errorf(providers.TypeStats, "Error writing stats snapshot: %s", err)
				return
			}
			s.logger.Infof(providers.TypeStats, "Stats snapshot written to %s", s.config.Snapshot.FilePath)
		})
	}

	s.cron.AddFunc(gron.Every(time.Minute), s.limiter.Prune)

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if !s.config.Snapshot.Enabled {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	return s.writer.Write(ctx, s.config.Snapshot.FilePath)
}

func NewScheduler(config *structures.Config, logger providers.Logger, writer *SnapshotWriter, limiter *ratelimit.Limiter) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		writer:  writer,
		limiter: limiter,
	}
}
