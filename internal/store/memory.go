// Package store provides an in-memory sysex.DataHandler: parameter
// values kept as a per-block/section table, sized from an installed
// device profile. It is the backend cmd/sysexd uses; values are not
// persisted across restarts.
package store

import (
	logs "github.com/danmuck/smplog"

	"github.com/faderbank/sysexconf/internal/config"
	"github.com/faderbank/sysexconf/internal/sysex"
)

// Memory is a DataHandler backed by in-process slices. It never returns
// ResultError for well-formed requests; out-of-bounds addressing that
// slips past the engine's own layout checks is treated as
// ResultNotSupported rather than panicking.
type Memory struct {
	sectionTables [][][]uint16 // [block][section][index] -> value
	transmit      func([]byte)
}

// NewMemory builds a zero-valued parameter table sized from profile.
func NewMemory(profile config.Profile) *Memory {
	tables := make([][][]uint16, len(profile.Blocks))
	for bi, b := range profile.Blocks {
		sections := make([][]uint16, len(b.Sections))
		for si, s := range b.Sections {
			sections[si] = make([]uint16, s.ParameterCount)
		}
		tables[bi] = sections
	}
	return &Memory{sectionTables: tables}
}

// SetTransmit attaches the callback invoked by Transmit, typically a
// transport.Port's Write method wrapped to log write failures.
func (m *Memory) SetTransmit(fn func([]byte)) {
	m.transmit = fn
}

func (m *Memory) Get(block, section uint8, index uint16) (uint16, sysex.Result) {
	vals, ok := m.section(block, section)
	if !ok || int(index) >= len(vals) {
		return 0, sysex.ResultNotSupported
	}
	return vals[index], sysex.ResultOK
}

func (m *Memory) Set(block, section uint8, index uint16, newValue uint16) sysex.Result {
	vals, ok := m.section(block, section)
	if !ok || int(index) >= len(vals) {
		return sysex.ResultNotSupported
	}
	vals[index] = newValue
	return sysex.ResultOK
}

func (m *Memory) Custom(requestID uint16, resp sysex.CustomResponse) sysex.Result {
	return sysex.ResultNotSupported
}

func (m *Memory) Transmit(message []byte) {
	if m.transmit == nil {
		logs.Warnf("sysexd: no transport attached, dropping %d-byte response", len(message))
		return
	}
	m.transmit(message)
}

func (m *Memory) section(block, section uint8) ([]uint16, bool) {
	if int(block) >= len(m.sectionTables) {
		return nil, false
	}
	sections := m.sectionTables[block]
	if int(section) >= len(sections) {
		return nil, false
	}
	return sections[section], true
}
