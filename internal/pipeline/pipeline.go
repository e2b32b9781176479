package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/iaintshootinmis/MeshWttr/internal/config"
	"github.com/iaintshootinmis/MeshWttr/internal/domain"
	"github.com/iaintshootinmis/MeshWttr/internal/observability"
)

// Fetcher retrieves the weather report for a location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (domain.Report, error)
}

// Sender delivers a message batch and reports the outcome.
type Sender interface {
	Send(ctx context.Context, batch []string) domain.SendOutcome
}

// Pipeline runs one fetch → extract → compose → split → transmit cycle.
// It holds no state across runs; the same Pipeline can drive both the
// one-shot CLI and the beacon daemon's scheduled broadcasts.
type Pipeline struct {
	fetcher Fetcher
	sender  Sender
	logger  *slog.Logger
	metrics *observability.Metrics
	out     io.Writer // dry-run message listing

	mode   domain.Mode
	policy domain.SplitPolicy
	budget int
	dryRun bool
}

// New creates a Pipeline wired to the given collaborators. Formatting
// and delivery knobs come from cfg; out receives the dry-run listing.
func New(fetcher Fetcher, sender Sender, cfg *config.Config, out io.Writer,
	logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		sender:  sender,
		logger:  logger,
		metrics: metrics,
		out:     out,
		mode:    cfg.Mode,
		policy:  cfg.SplitPolicy,
		budget:  cfg.MessageBudget,
		dryRun:  cfg.DryRun,
	}
}

// Run executes one broadcast cycle for the location. It returns nil
// only on full success: a fetch failure, a failed uplink, or a partial
// delivery all come back as errors for the caller to turn into an exit
// status. The Sender is never invoked when the fetch fails.
func (p *Pipeline) Run(ctx context.Context, location string) error {
	report, err := p.fetcher.Fetch(ctx, location)
	if err != nil {
		p.logger.Error("weather fetch failed", "location", location, "error", err)
		return fmt.Errorf("fetch weather: %w", err)
	}

	fields := domain.Extract(report)
	blocks := domain.Compose(fields, p.mode)
	batch := domain.Optimize(blocks, p.budget, p.policy)

	p.metrics.BatchMessages.Observe(float64(len(batch)))
	p.logger.Info("weather batch composed",
		"location", location, "area", fields.Area,
		"mode", p.mode.String(), "policy", p.policy.String(), "messages", len(batch))

	if p.dryRun {
		p.printBatch(batch)
		p.logger.Info("dry run, skipping transmission")
		return nil
	}

	outcome := p.sender.Send(ctx, batch)
	switch outcome.Result {
	case domain.BatchDelivered:
		p.logger.Info("transmission complete", "messages", outcome.Delivered)
		return nil
	case domain.BatchPartial:
		return fmt.Errorf("partial delivery, %d of %d messages sent: %w",
			outcome.Delivered, len(batch), outcome.Err)
	default:
		return fmt.Errorf("transmission not attempted: %w", outcome.Err)
	}
}

func (p *Pipeline) printBatch(batch []string) {
	for i, msg := range batch {
		fmt.Fprintf(p.out, "--- Message %d/%d (%d bytes) ---\n%s\n", i+1, len(batch), len(msg), msg)
	}
}
