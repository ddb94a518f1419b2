package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		HTTP           HTTP
		Log            Log
		PG             PG
		S3             S3
		Auth           Auth
		Photo          Photo
		Submission     Submission
		OutboxRelay    OutboxRelay
		Kafka          Kafka
		FeedController FeedController
		Swagger        Swagger
	}

	HTTP struct {
		Port           string `env:"HTTP_PORT,required"`
		UsePreforkMode bool   `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL,required"`
	}

	PG struct {
		PoolMax int    `env:"PG_POOL_MAX,required"`
		URL     string `env:"PG_URL,required"`
	}

	S3 struct {
		Endpoint       string        `env:"S3_ENDPOINT,required"`
		AccessKey      string        `env:"S3_ACCESS_KEY,required"`
		SecretKey      string        `env:"S3_SECRET_KEY,required"`
		Bucket         string        `env:"S3_BUCKET,required"`
		CfgLoadTimeout time.Duration `env:"S3_LOAD_CFG_TIMEOUT" envDefault:"10s"`
	}

	Auth struct {
		JWTSecret string `env:"AUTH_JWT_SECRET,required"`
	}

	// Photo holds the codec parameters for the two compression points:
	// photos attached from a file picker and frames accepted from the camera.
	Photo struct {
		MaxDim         int     `env:"PHOTO_MAX_DIM" envDefault:"900"`
		Quality        float64 `env:"PHOTO_QUALITY" envDefault:"0.5"`
		CaptureMaxDim  int     `env:"PHOTO_CAPTURE_MAX_DIM" envDefault:"1280"`
		CaptureQuality float64 `env:"PHOTO_CAPTURE_QUALITY" envDefault:"0.8"`
	}

	// Submission budgets every network-bound stage of the ticket pipeline.
	// InlineMaxBytes bounds the decoded size of a base64 photo stored inside
	// the ticket record when object storage is unavailable.
	Submission struct {
		UploadTimeout  time.Duration `env:"SUBMIT_UPLOAD_TIMEOUT" envDefault:"10s"`
		GetURLTimeout  time.Duration `env:"SUBMIT_GET_URL_TIMEOUT" envDefault:"10s"`
		CreateTimeout  time.Duration `env:"SUBMIT_CREATE_TIMEOUT" envDefault:"15s"`
		InlineMaxBytes int           `env:"SUBMIT_INLINE_MAX_BYTES" envDefault:"921600"`
	}

	Kafka struct {
		Brokers []string `env:"KAFKA_BROKERS,required"`
		GroupID string   `env:"KAFKA_GROUP_ID,required"`
		Topic   string   `env:"KAFKA_TOPIC,required"`
	}

	OutboxRelay struct {
		PollInterval        time.Duration `env:"OUTBOX_RELAY_POLL_INTERVAL" envDefault:"2s"`
		MarkFailedInterval  time.Duration `env:"OUTBOX_RELAY_MARK_FAILED_INTERVAL" envDefault:"2m"`
		CleanupInterval     time.Duration `env:"OUTBOX_RELAY_CLEANUP_INTERVAL" envDefault:"24h"`
		ProcessBatchTimeout time.Duration `env:"OUTBOX_RELAY_PROCESS_BATCH_TIMEOUT" envDefault:"15s"`
		ShutdownTimeout     time.Duration `env:"OUTBOX_RELAY_SHUTDOWN_TIMEOUT" envDefault:"5s"`
		BatchSize           int           `env:"OUTBOX_RELAY_BATCH_SIZE" envDefault:"100"`
		MaxRetries          int           `env:"OUTBOX_RELAY_MAX_RETRIES" envDefault:"3"`
	}

	FeedController struct {
		CommitTimeout   time.Duration `env:"FEED_CONTROLLER_COMMIT_TIMEOUT" envDefault:"2s"`
		ProcessTimeout  time.Duration `env:"FEED_CONTROLLER_PROCESS_TIMEOUT" envDefault:"5s"`
		ShutdownTimeout time.Duration `env:"FEED_CONTROLLER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
		Workers         int           `env:"FEED_CONTROLLER_WORKERS" envDefault:"4"`
	}

	Swagger struct {
		Enabled bool `env:"SWAGGER_ENABLED" envDefault:"false"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}
