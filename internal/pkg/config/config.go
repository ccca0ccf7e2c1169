package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration, shared by the bridge, the
// simulator and the consumer.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Bridge.
	BridgeAddr    string  `env:"BRIDGE_ADDR" envDefault:":8080"`
	KafkaBroker   string  `env:"KAFKA_BROKER" envDefault:"kafka:9092"`
	KafkaTopic    string  `env:"KAFKA_TOPIC" envDefault:"video-stream-logs"`
	MaxEventSize  int64   `env:"MAX_EVENT_SIZE_BYTES" envDefault:"65536"`
	MsgsPerSecond float64 `env:"MAX_MSGS_PER_SEC" envDefault:"100"`

	// Simulator.
	ControlAddr     string        `env:"CONTROL_ADDR" envDefault:":8000"`
	IngestURL       string        `env:"WS_SERVER_URL" envDefault:"ws://logmanager:8080/ws"`
	CatalogPath     string        `env:"CATALOG_PATH" envDefault:"./dataset/netflix_dataset.csv"`
	TrafficMinDelay time.Duration `env:"TRAFFIC_MIN_DELAY" envDefault:"1s"`
	TrafficMaxDelay time.Duration `env:"TRAFFIC_MAX_DELAY" envDefault:"4s"`
	RetryDelay      time.Duration `env:"RETRY_DELAY" envDefault:"2s"`
	SpawnMin        int           `env:"SPAWN_MIN" envDefault:"3"`
	SpawnMax        int           `env:"SPAWN_MAX" envDefault:"6"`
	MaxWorkers      int           `env:"MAX_THREADS" envDefault:"10"`
	StaggerMin      time.Duration `env:"STAGGER_MIN" envDefault:"1s"`
	StaggerMax      time.Duration `env:"STAGGER_MAX" envDefault:"2s"`

	// Consumer.
	ConsumerAddr      string        `env:"CONSUMER_ADDR" envDefault:":9000"`
	ConsumerGroup     string        `env:"CONSUMER_GROUP" envDefault:"log-consumer-group"`
	WindowDuration    time.Duration `env:"WINDOW_DURATION" envDefault:"30s"`
	AggregateInterval time.Duration `env:"AGGREGATE_INTERVAL" envDefault:"10s"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
