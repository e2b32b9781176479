package transmit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/iaintshootinmis/MeshWttr/internal/domain"
	"github.com/iaintshootinmis/MeshWttr/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Session is an open link to the radio (or an equivalent uplink).
type Session interface {
	// SendText transmits one text message on the given channel index.
	SendText(ctx context.Context, message string, channel int) error
	Close() error
}

// Transport opens sessions to the configured uplink device.
type Transport interface {
	Open(ctx context.Context) (Session, error)
}

// Transmitter delivers a message batch over a transport with the pacing
// the radio needs. It owns the session for the duration of one Send:
// acquired, used, and released inside the call.
type Transmitter struct {
	transport Transport
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics

	channel     int
	settleDelay time.Duration // wait after connect, before the first send
	pacingDelay time.Duration // wait between consecutive sends
}

// New creates a Transmitter. The clock is injected so tests can drive
// the delays with a fake.
func New(transport Transport, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics,
	channel int, settleDelay, pacingDelay time.Duration) *Transmitter {
	return &Transmitter{
		transport:   transport,
		clock:       clock,
		logger:      logger,
		metrics:     metrics,
		channel:     channel,
		settleDelay: settleDelay,
		pacingDelay: pacingDelay,
	}
}

// Send delivers the batch in order, aborting the remainder on the first
// failure. Messages already sent are not rolled back; delivery is
// at-most-once per message. The session is released on every exit path.
// An empty batch is a no-op success and opens no session.
func (t *Transmitter) Send(ctx context.Context, batch []string) domain.SendOutcome {
	if len(batch) == 0 {
		t.logger.Info("empty batch, nothing to transmit")
		return domain.SendOutcome{Result: domain.BatchDelivered, FailedIndex: -1}
	}

	start := t.clock.Now()

	session, err := t.transport.Open(ctx)
	if err != nil {
		t.logger.Error("uplink open failed", "error", err)
		return domain.SendOutcome{
			Result:      domain.BatchNotAttempted,
			FailedIndex: -1,
			Err:         fmt.Errorf("open uplink: %w", err),
		}
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			// Teardown continues regardless; the session is gone either way.
			t.logger.Warn("uplink close failed", "error", cerr)
		}
	}()

	// The radio needs a settle period after the link comes up before it
	// accepts packets. Required by the hardware handshake, not optional.
	t.sleep(ctx, t.settleDelay)

	for i, message := range batch {
		if err := session.SendText(ctx, message, t.channel); err != nil {
			t.metrics.SendFailures.Inc()
			t.logger.Error("send failed, aborting remaining messages",
				"index", i+1, "total", len(batch), "error", err)
			return domain.SendOutcome{
				Result:      domain.BatchPartial,
				Delivered:   i,
				FailedIndex: i,
				Err:         fmt.Errorf("send message %d of %d: %w", i+1, len(batch), err),
			}
		}
		t.metrics.MessagesSent.Inc()
		t.metrics.MessageBytes.Observe(float64(len(message)))
		t.logger.Info("message sent",
			"index", i+1, "total", len(batch), "channel", t.channel, "bytes", len(message))

		// Messages sent back to back get dropped or corrupted by the
		// radio, so pace everything but the last.
		if i < len(batch)-1 {
			t.sleep(ctx, t.pacingDelay)
		}
	}

	t.metrics.TransmissionDuration.Observe(t.clock.Since(start).Seconds())
	return domain.SendOutcome{
		Result:      domain.BatchDelivered,
		Delivered:   len(batch),
		FailedIndex: -1,
	}
}

func (t *Transmitter) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := t.clock.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.Chan():
	}
}
