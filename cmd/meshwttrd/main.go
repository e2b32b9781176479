// Command meshwttrd is the weather beacon daemon: it broadcasts the
// configured location's weather on a fixed interval and serves health,
// readiness, and Prometheus metrics endpoints.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/iaintshootinmis/MeshWttr/internal/adapter/http"
	kafkaadapter "github.com/iaintshootinmis/MeshWttr/internal/adapter/kafka"
	"github.com/iaintshootinmis/MeshWttr/internal/adapter/meshtastic"
	"github.com/iaintshootinmis/MeshWttr/internal/adapter/wttr"
	"github.com/iaintshootinmis/MeshWttr/internal/config"
	"github.com/iaintshootinmis/MeshWttr/internal/observability"
	"github.com/iaintshootinmis/MeshWttr/internal/pipeline"
	"github.com/iaintshootinmis/MeshWttr/internal/scheduler"
	"github.com/iaintshootinmis/MeshWttr/internal/transmit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	var transport transmit.Transport
	switch cfg.Transport {
	case config.TransportKafka:
		transport = kafkaadapter.NewTransport(cfg, logger)
		logger.Info("using kafka uplink", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	default:
		transport = meshtastic.NewTransport(cfg.SerialPort, logger)
		logger.Info("using serial radio", "port", cfg.SerialPort, "channel", cfg.Channel)
	}

	fetcher := wttr.NewClient(cfg.FetchTimeout, logger, metrics)
	sender := transmit.New(transport, clockwork.NewRealClock(), logger, metrics,
		cfg.Channel, cfg.SettleDelay, cfg.PacingDelay)
	p := pipeline.New(fetcher, sender, cfg, os.Stdout, logger, metrics)

	// A cycle that outlives its own interval is abandoned.
	sched := scheduler.New(p, cfg.Location, cfg.BroadcastInterval, cfg.BroadcastInterval,
		logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, sched, cfg.Location, cfg.BroadcastInterval, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if err := sched.Start(); err != nil {
		logger.Error("scheduler start error", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
