// Command meshwttr fetches the current weather for a location and
// broadcasts it as text messages over a Meshtastic radio.
//
// Usage:
//
//	meshwttr [flags] [location]
//
// The location argument accepts anything wttr.in does: a city name, a
// postal code, an airport code, or "auto". Flags override environment
// configuration. Exit status is 0 only when every message delivered.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jonboulle/clockwork"

	kafkaadapter "github.com/iaintshootinmis/MeshWttr/internal/adapter/kafka"
	"github.com/iaintshootinmis/MeshWttr/internal/adapter/meshtastic"
	"github.com/iaintshootinmis/MeshWttr/internal/adapter/wttr"
	"github.com/iaintshootinmis/MeshWttr/internal/config"
	"github.com/iaintshootinmis/MeshWttr/internal/domain"
	"github.com/iaintshootinmis/MeshWttr/internal/observability"
	"github.com/iaintshootinmis/MeshWttr/internal/pipeline"
	"github.com/iaintshootinmis/MeshWttr/internal/transmit"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("meshwttr", flag.ExitOnError)
	port := fs.String("port", "", "serial device of the radio (overrides SERIAL_PORT)")
	channel := fs.Int("channel", -1, "radio channel index 0-7 (overrides CHANNEL_INDEX)")
	concise := fs.Bool("concise", false, "send a single summary sentence instead of the full report")
	chunks := fs.Bool("chunks", false, "split by byte budget instead of logical blocks")
	dryRun := fs.Bool("dry-run", false, "print the messages without opening the radio")
	verbose := fs.Bool("verbose", false, "log at debug level")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "meshwttr: %v\n", err)
		return 1
	}
	if *port != "" {
		cfg.SerialPort = *port
	}
	if *channel >= 0 {
		cfg.Channel = *channel
	}
	if *concise {
		cfg.Mode = domain.ModeConcise
	}
	if *chunks {
		cfg.SplitPolicy = domain.PolicyChunks
	}
	cfg.DryRun = *dryRun
	if *verbose {
		cfg.LogLevel = "debug"
	}

	location := cfg.Location
	if fs.NArg() > 0 {
		location = fs.Arg(0)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	var transport transmit.Transport
	switch cfg.Transport {
	case config.TransportKafka:
		transport = kafkaadapter.NewTransport(cfg, logger)
	default:
		transport = meshtastic.NewTransport(cfg.SerialPort, logger)
	}

	fetcher := wttr.NewClient(cfg.FetchTimeout, logger, metrics)
	sender := transmit.New(transport, clockwork.NewRealClock(), logger, metrics,
		cfg.Channel, cfg.SettleDelay, cfg.PacingDelay)
	p := pipeline.New(fetcher, sender, cfg, os.Stdout, logger, metrics)

	if err := p.Run(context.Background(), location); err != nil {
		fmt.Fprintf(os.Stderr, "meshwttr: %v\n", err)
		return 1
	}
	return 0
}
