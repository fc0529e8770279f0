package localstate

import (
	"context"
	"github.com/roylee0704/gron"
	"processingd/internal/localstate/interfaces"
	"processingd/internal/providers"
	"processingd/internal/services"
	"processingd/internal/structures"
	"sync"
	"time"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	processing  services.ProcessingServiceInterface
	fileManager *FileManager
	metrics     providers.MetricsProviderInterface
	cron        *gron.Cron
	opsMu       sync.Mutex
}

// Init starts the periodic jobs: persisting the local slice every save
// interval and refreshing donations from the tracker every refresh interval.
func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
		if err := s.Persist(); err == nil {
			s.logger.Debugf(providers.TypeApp, "Persisted local state to %s", s.config.Persistence.FilePath)
		}
	})

	s.cron.AddFunc(gron.Every(s.config.Processing.RefreshInterval), func() {
		timeout := s.config.Processing.RefreshInterval
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		s.logger.Debugf(providers.TypeApp, "Refreshing donations...")
		if err := s.processing.Refresh(ctx); err == nil {
			s.logger.Debugf(providers.TypeApp, "Donations refreshed")
		}
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	return s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting local state: %s", err)
		return err
	}
	return nil
}

func NewScheduler(
	config *structures.Config,
	logger providers.Logger,
	processing services.ProcessingServiceInterface,
	fileManager *FileManager,
	metrics providers.MetricsProviderInterface,
) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		processing:  processing,
		fileManager: fileManager,
		metrics:     metrics,
	}
}
