package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"fotoladuViewer/internal/config"
	"fotoladuViewer/internal/kafka/producer"
	"fotoladuViewer/internal/lib/logger/sl"
	"fotoladuViewer/internal/models"
)

var ErrDisabled = errors.New("ingest schedule is empty")

const enqueueTimeout = 30 * time.Second

// Scheduler periodically asks the processor to refresh the configured folders.
type Scheduler struct {
	log      *slog.Logger
	producer producer.ProducerIface
	schedule cron.Schedule
	folders  []string
}

func New(log *slog.Logger, p producer.ProducerIface, cfg *config.Ingest) (*Scheduler, error) {
	const op = "scheduler.New"

	if cfg.Schedule == "" {
		return nil, ErrDisabled
	}

	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

	schedule, err := parser.Parse(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Scheduler{
		log:      log,
		producer: p,
		schedule: schedule,
		folders:  cfg.Folders,
	}, nil
}

// Enqueue publishes one ingest job per folder.
func (s *Scheduler) Enqueue(ctx context.Context) error {
	const op = "scheduler.Enqueue"

	var errs []error
	for _, folder := range s.folders {
		job := models.IngestJob{
			ID:        uuid.New(),
			SailikuNr: folder,
		}

		msg, err := json.Marshal(job)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := s.producer.SendMessage(ctx, []byte(job.ID.String()), msg); err != nil {
			errs = append(errs, fmt.Errorf("folder %s: %w", folder, err))
			continue
		}

		s.log.Info("ingest job scheduled", slog.String("job_id", job.ID.String()), slog.String("folder", folder))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Run fires Enqueue on schedule until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(cron.WithSeconds(), cron.WithLogger(cron.DiscardLogger))

	c.Schedule(s.schedule, cron.FuncJob(func() {
		jobCtx, cancel := context.WithTimeout(ctx, enqueueTimeout)
		defer cancel()

		if err := s.Enqueue(jobCtx); err != nil {
			s.log.Error("failed to enqueue ingest jobs", sl.Err(err))
		}
	}))

	c.Start()
	s.log.Info("ingest scheduler started", slog.Int("folders", len(s.folders)))

	<-ctx.Done()
	<-c.Stop().Done()

	s.log.Info("ingest scheduler stopped")
	return nil
}
