package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/maintdesk/ticket-intake/config"
	kafkactrl "github.com/maintdesk/ticket-intake/internal/controller/kafka"
	"github.com/maintdesk/ticket-intake/internal/controller/restapi"
	"github.com/maintdesk/ticket-intake/internal/controller/worker/outbox"
	"github.com/maintdesk/ticket-intake/internal/infrastructure/feed"
	"github.com/maintdesk/ticket-intake/internal/infrastructure/identity"
	infrakafka "github.com/maintdesk/ticket-intake/internal/infrastructure/kafka"
	"github.com/maintdesk/ticket-intake/internal/infrastructure/processor"
	"github.com/maintdesk/ticket-intake/internal/repo/persistent"
	"github.com/maintdesk/ticket-intake/internal/usecase/livefeed"
	"github.com/maintdesk/ticket-intake/internal/usecase/ticket"
	"github.com/maintdesk/ticket-intake/pkg/httpserver"
	"github.com/maintdesk/ticket-intake/pkg/kafka/consumer"
	"github.com/maintdesk/ticket-intake/pkg/kafka/producer"
	"github.com/maintdesk/ticket-intake/pkg/logger"
	"github.com/maintdesk/ticket-intake/pkg/postgres"
	"github.com/maintdesk/ticket-intake/pkg/s3client"
)

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Repository

	// s3
	s3Ctx, s3Cancel := context.WithTimeout(ctx, cfg.S3.CfgLoadTimeout)
	defer s3Cancel()
	s3c, err := s3client.New(s3Ctx, cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - s3client.New: %w", err))
	}

	// postgres
	pg, err := postgres.New(cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.PoolMax))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - postgres.New: %w", err))
	}
	defer pg.Close()

	ticketRepo := persistent.NewTicketRepo(pg)

	// Use-Case

	// ticket intake use-case
	ticketUseCase := ticket.New(
		persistent.NewPhotoRepo(s3c, cfg.S3.Bucket),
		ticketRepo,
		persistent.NewOutboxTicketRepo(pg),
		pg,
		l,
		cfg.Submission.UploadTimeout,
		cfg.Submission.GetURLTimeout,
		cfg.Submission.CreateTimeout,
		cfg.Submission.InlineMaxBytes,
	)

	// live feed use-case
	hub := feed.NewHub()
	liveFeedUseCase := livefeed.New(ticketRepo, hub, l)

	// photo codec
	photoCodec := processor.New()

	// identity
	verifier := identity.NewVerifier(cfg.Auth.JWTSecret)

	// Kafka Producer
	kafkaProducer, err := producer.New(ctx, cfg.Kafka.Brokers)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - producer.New: %w", err))
	}

	// Outbox Relay Worker
	outboxRelayWorker := outbox.New(
		ticketUseCase,
		infrakafka.NewEventProducer(kafkaProducer, cfg.OutboxRelay.MaxRetries, cfg.Kafka.Topic),
		l,
		cfg.OutboxRelay.PollInterval,
		cfg.OutboxRelay.CleanupInterval,
		cfg.OutboxRelay.MarkFailedInterval,
		cfg.OutboxRelay.ProcessBatchTimeout,
		cfg.OutboxRelay.BatchSize,
		cfg.OutboxRelay.MaxRetries,
	)

	// Kafka Consumer
	kafkaConsumer, err := consumer.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - consumer.New: %w", err))
	}

	// Kafka as Controller: ticket events wake live feed subscriptions
	feedController := kafkactrl.New(
		hub,
		infrakafka.NewEventConsumer(kafkaConsumer),
		l,
		cfg.FeedController.CommitTimeout,
		cfg.FeedController.ProcessTimeout,
		cfg.FeedController.Workers,
	)

	// HTTP Server
	httpServer := httpserver.New(l, httpserver.Port(cfg.HTTP.Port), httpserver.Prefork(cfg.HTTP.UsePreforkMode))
	restapi.NewRouter(httpServer.App, cfg, ticketUseCase, liveFeedUseCase, photoCodec, verifier, l)

	// Start Components
	err = outboxRelayWorker.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - outboxRelayWorker.Start: %w", err))
	}
	err = feedController.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - feedController.Start: %w", err))
	}
	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	err = httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}

	orlShutdownCtx, orlShutdownCancel := context.WithTimeout(ctx, cfg.OutboxRelay.ShutdownTimeout)
	defer orlShutdownCancel()
	err = outboxRelayWorker.Shutdown(orlShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - outboxRelayWorker.Shutdown: %w", err))
	}

	fcShutdownCtx, fcShutdownCancel := context.WithTimeout(ctx, cfg.FeedController.ShutdownTimeout)
	defer fcShutdownCancel()
	err = feedController.Shutdown(fcShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - feedController.Shutdown: %w", err))
	}
}
