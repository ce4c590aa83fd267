package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"fotoladuViewer/internal/catalog"
	"fotoladuViewer/internal/config"
	"fotoladuViewer/internal/fotoladu"
	"fotoladuViewer/internal/http-server/router"
	"fotoladuViewer/internal/kafka/consumer"
	"fotoladuViewer/internal/kafka/producer"
	"fotoladuViewer/internal/lib/logger/handlers/slogpretty"
	"fotoladuViewer/internal/lib/logger/sl"
	"fotoladuViewer/internal/processor"
	"fotoladuViewer/internal/scheduler"
	"fotoladuViewer/internal/storage/sqlstore"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"

	shutdownTimeout = 10 * time.Second
)

// @title        Fotoladu viewer API
// @version      1.0
// @description  Random aerial photos from the Fotoladu archive.
// @BasePath     /
func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting fotoladu viewer", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	storage, err := sqlstore.New(&cfg.Storage)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}
	defer func() {
		if err := storage.Close(); err != nil {
			log.Error("failed to close storage", sl.Err(err))
		}
	}()

	if cfg.Storage.Migrate {
		n, err := storage.Migrate()
		if err != nil {
			log.Error("failed to apply migrations", sl.Err(err))
			os.Exit(1)
		}
		log.Info("migrations applied", slog.Int("count", n))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	var jobs producer.ProducerIface
	if cfg.Kafka.Enabled {
		jobs = startIngest(ctx, g, log, cfg, storage)
	}

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router.New(log, cfg, catalog.New(storage), jobs),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	g.Go(func() error {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		log.Info("application stopping")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("application stopped with error", sl.Err(err))
		return
	}

	log.Info("application stopped")
}

// startIngest wires the kafka producer, the consumer feeding the processor and
// the scheduler into g. Everything stops with ctx.
func startIngest(ctx context.Context, g *errgroup.Group, log *slog.Logger, cfg *config.Config, storage *sqlstore.Storage) producer.ProducerIface {
	kafkaProducer, err := producer.NewProducer(&cfg.Kafka, log)
	if err != nil {
		log.Error("failed to create kafka producer", sl.Err(err))
		os.Exit(1)
	}

	kafkaConsumer, err := consumer.NewConsumer(&cfg.Kafka, log)
	if err != nil {
		log.Error("failed to create kafka consumer", sl.Err(err))
		os.Exit(1)
	}

	archive, err := fotoladu.New(log, cfg.Fotoladu.BaseURL, cfg.Fotoladu.Timeout)
	if err != nil {
		log.Error("failed to create fotoladu client", sl.Err(err))
		os.Exit(1)
	}

	imageProcessor := processor.NewImageProcessor(log, archive, storage, cfg.DataDir, cfg.Fotoladu.Variant, cfg.Fotoladu.MaxPages)

	g.Go(func() error {
		defer func() {
			if err := kafkaConsumer.Close(); err != nil {
				log.Error("failed to close kafka consumer", sl.Err(err))
			}
		}()
		return kafkaConsumer.ReadMessages(ctx, imageProcessor.ProcessMessage)
	})

	sched, err := scheduler.New(log, kafkaProducer, &cfg.Ingest)
	switch {
	case errors.Is(err, scheduler.ErrDisabled):
		log.Info("ingest scheduler disabled")
	case err != nil:
		log.Error("failed to create scheduler", sl.Err(err))
		os.Exit(1)
	default:
		g.Go(func() error { return sched.Run(ctx) })
	}

	g.Go(func() error {
		<-ctx.Done()
		if err := kafkaProducer.Close(); err != nil {
			log.Error("failed to close kafka producer", sl.Err(err))
		}
		log.Info("kafka connection closed")
		return nil
	})

	return kafkaProducer
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
