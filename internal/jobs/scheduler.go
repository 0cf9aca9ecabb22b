package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"elibrary/api/internal/config"
	"elibrary/api/internal/repository"
	"elibrary/api/internal/service"
)

type Scheduler struct {
	cron     *cron.Cron
	cfg      config.JobsConfig
	counters *service.CounterService
	taxonomy *repository.TaxonomyRepository
	log      zerolog.Logger
}

func NewScheduler(cfg config.JobsConfig, counters *service.CounterService, taxonomy *repository.TaxonomyRepository, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		cfg:      cfg,
		counters: counters,
		taxonomy: taxonomy,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.CounterFlushSpec, s.flushCounters); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.CategoryRecountSpec, s.recountCategories); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for in-flight jobs to finish, bounded so shutdown can
// never hang on a stuck job.
func (s *Scheduler) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) flushCounters() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.counters.Flush(ctx); err != nil {
		s.log.Error().Err(err).Msg("counter flush failed")
		return
	}
	s.log.Debug().Msg("counters flushed")
}

func (s *Scheduler) recountCategories() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.taxonomy.RecountCategories(ctx); err != nil {
		s.log.Error().Err(err).Msg("category recount failed")
		return
	}
	s.log.Info().Msg("category counts refreshed")
}
