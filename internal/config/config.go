package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iaintshootinmis/MeshWttr/internal/domain"
	"github.com/joho/godotenv"
)

// Uplink transport kinds.
const (
	TransportSerial = "serial"
	TransportKafka  = "kafka"
)

// Config holds all settings for the broadcast pipeline, populated from
// environment variables (and a .env file when present). CLI flags
// override individual fields after Load.
type Config struct {
	Location      string // default weather location; "auto", city, postal or airport code
	Mode          domain.Mode
	SplitPolicy   domain.SplitPolicy
	MessageBudget int // bytes per message

	Transport   string
	SerialPort  string
	Channel     int // radio channel index
	SettleDelay time.Duration
	PacingDelay time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	FetchTimeout time.Duration
	DryRun       bool // flag-only; never read from the environment

	// Beacon daemon settings.
	HTTPAddr          string
	BroadcastInterval time.Duration
	ShutdownTimeout   time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is honored when
// present; its absence is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	mode, err := domain.ParseMode(envOrDefault("MESSAGE_MODE", "full"))
	if err != nil {
		return nil, fmt.Errorf("MESSAGE_MODE: %w", err)
	}

	policy, err := domain.ParseSplitPolicy(envOrDefault("SPLIT_POLICY", "blocks"))
	if err != nil {
		return nil, fmt.Errorf("SPLIT_POLICY: %w", err)
	}

	budget, err := envInt("MESSAGE_BUDGET", 200)
	if err != nil {
		return nil, err
	}

	channel, err := envInt("CHANNEL_INDEX", 0)
	if err != nil {
		return nil, err
	}

	settle, err := envDuration("SETTLE_DELAY", time.Second)
	if err != nil {
		return nil, err
	}

	pacing, err := envDuration("PACING_DELAY", 7*time.Second)
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := envDuration("FETCH_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	interval, err := envDuration("BROADCAST_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Location:      envOrDefault("WEATHER_LOCATION", "37397"),
		Mode:          mode,
		SplitPolicy:   policy,
		MessageBudget: budget,

		Transport:   envOrDefault("TRANSPORT", TransportSerial),
		SerialPort:  envOrDefault("SERIAL_PORT", "/dev/ttyACM0"),
		Channel:     channel,
		SettleDelay: settle,
		PacingDelay: pacing,

		KafkaBrokers: splitBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "meshwttr-uplink"),

		FetchTimeout: fetchTimeout,

		HTTPAddr:          envOrDefault("HTTP_ADDR", ":8080"),
		BroadcastInterval: interval,
		ShutdownTimeout:   shutdownTimeout,

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.MessageBudget <= 0 {
		return errors.New("MESSAGE_BUDGET must be positive")
	}
	if c.Channel < 0 || c.Channel > 7 {
		// Meshtastic firmware supports channel indexes 0-7.
		return errors.New("CHANNEL_INDEX must be between 0 and 7")
	}
	if c.SettleDelay < 0 || c.PacingDelay < 0 {
		return errors.New("SETTLE_DELAY and PACING_DELAY must not be negative")
	}
	if c.FetchTimeout <= 0 {
		return errors.New("FETCH_TIMEOUT must be positive")
	}
	if c.BroadcastInterval <= 0 {
		return errors.New("BROADCAST_INTERVAL must be positive")
	}
	switch c.Transport {
	case TransportSerial:
		if c.SerialPort == "" {
			return errors.New("SERIAL_PORT is required for the serial transport")
		}
	case TransportKafka:
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required for the kafka transport")
		}
		if c.KafkaTopic == "" {
			return errors.New("KAFKA_TOPIC is required for the kafka transport")
		}
	default:
		return fmt.Errorf("unknown TRANSPORT %q (want %s or %s)", c.Transport, TransportSerial, TransportKafka)
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
