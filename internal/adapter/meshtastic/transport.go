// Package meshtastic sends text messages to a Meshtastic radio over its
// serial client API.
package meshtastic

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/iaintshootinmis/MeshWttr/internal/transmit"
	"go.bug.st/serial"
)

// Meshtastic devices enumerate as USB CDC serial at 115200 baud.
const baudRate = 115200

// Transport opens sessions to a Meshtastic radio on a serial device.
// It implements transmit.Transport.
type Transport struct {
	device string
	logger *slog.Logger
}

// NewTransport creates a serial transport for the given device path,
// e.g. /dev/ttyACM0.
func NewTransport(device string, logger *slog.Logger) *Transport {
	return &Transport{device: device, logger: logger}
}

// Open connects to the radio and wakes its serial API. The caller owns
// the returned session and must Close it.
func (t *Transport) Open(_ context.Context) (transmit.Session, error) {
	port, err := serial.Open(t.device, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("open serial device %s: %w", t.device, err)
	}

	// The firmware may have put its serial API to sleep; a train of
	// start bytes wakes it before the first real frame.
	if _, err := port.Write(wakePreamble()); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("wake device %s: %w", t.device, err)
	}

	t.logger.Info("connected to meshtastic device", "device", t.device)
	return &session{port: port, logger: t.logger}, nil
}

type session struct {
	port   serial.Port
	logger *slog.Logger
}

// SendText broadcasts one text message on the given channel index.
func (s *session) SendText(_ context.Context, message string, channel int) error {
	frame, err := encodeTextFrame(message, channel, rand.Uint32())
	if err != nil {
		return err
	}
	if _, err := s.port.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func (s *session) Close() error {
	s.logger.Debug("closing meshtastic session")
	return s.port.Close()
}
