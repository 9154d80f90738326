// Package transport wraps a real serial port as the byte transport a
// sysexconf engine reads requests from and writes responses to. This
// adapter is geometry-only: it frames 0xF0..0xF7 chunks off the wire and
// hands complete messages to a callback; it has no SysEx semantics of
// its own.
package transport

import (
	"bufio"
	"fmt"
	"time"

	"github.com/goburrow/serial"
)

// Config is minimal serial transport configuration.
type Config struct {
	Address  string
	BaudRate int
	DataBits int
	StopBits int
	Parity   string
	Timeout  time.Duration
}

// DefaultConfig returns the 8N1 settings typical of class-compliant MIDI
// USB-serial bridges.
func DefaultConfig(address string) Config {
	return Config{
		Address:  address,
		BaudRate: 31250,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  5 * time.Second,
	}
}

// Port is a connected serial transport.
type Port struct {
	port   serial.Port
	reader *bufio.Reader
}

// Open opens the serial device described by cfg.
func Open(cfg Config) (*Port, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("serial transport: address required")
	}
	p, err := serial.Open(&serial.Config{
		Address:  cfg.Address,
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		StopBits: cfg.StopBits,
		Parity:   cfg.Parity,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("serial transport: open %s: %w", cfg.Address, err)
	}
	return &Port{port: p, reader: bufio.NewReader(p)}, nil
}

// Close closes the underlying serial device.
func (p *Port) Close() error {
	if p == nil || p.port == nil {
		return nil
	}
	return p.port.Close()
}

// Write delivers one complete framed message to the wire. It satisfies
// the shape sysex.DataHandler.Transmit expects its host to provide.
func (p *Port) Write(message []byte) error {
	_, err := p.port.Write(message)
	return err
}

// startByte/endByte mirror the SysEx framing bytes the engine itself
// uses; transport only needs them to find message boundaries, not to
// interpret the payload.
const (
	startByte = 0xF0
	endByte   = 0xF7
)

// Run blocks, reading the serial device and invoking handle once per
// complete 0xF0..0xF7 frame. It returns only on a read error (including
// the port being closed).
func (p *Port) Run(handle func(message []byte)) error {
	var frame []byte
	inFrame := false

	for {
		b, err := p.reader.ReadByte()
		if err != nil {
			return fmt.Errorf("serial transport: read: %w", err)
		}

		switch {
		case b == startByte:
			frame = []byte{startByte}
			inFrame = true
		case b == endByte && inFrame:
			frame = append(frame, endByte)
			handle(frame)
			frame = nil
			inFrame = false
		case inFrame:
			frame = append(frame, b)
		}
	}
}
