package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/faderbank/sysexconf/internal/config"
	"github.com/faderbank/sysexconf/internal/sysex"
	"github.com/faderbank/sysexconf/internal/testutil/testlog"
)

func testProfile() config.Profile {
	return config.Profile{
		ManufacturerID: sysex.ManufacturerID{0x01, 0x02, 0x03},
		Blocks: []sysex.Block{
			{Sections: []sysex.Section{{ParameterCount: 4, ValueMin: 0, ValueMax: 100}}},
		},
	}
}

func TestMemorySetThenGetRoundTrips(t *testing.T) {
	testlog.Start(t)
	m := NewMemory(testProfile())

	res := m.Set(0, 0, 2, 42)
	assert.Equal(t, sysex.ResultOK, res)

	val, res := m.Get(0, 0, 2)
	assert.Equal(t, sysex.ResultOK, res)
	assert.Equal(t, uint16(42), val)
}

func TestMemoryOutOfBoundsIsNotSupported(t *testing.T) {
	m := NewMemory(testProfile())

	_, res := m.Get(9, 0, 0)
	assert.Equal(t, sysex.ResultNotSupported, res)

	res = m.Set(0, 9, 0, 1)
	assert.Equal(t, sysex.ResultNotSupported, res)
}

func TestMemoryTransmitWithoutAttachedTransportIsSafe(t *testing.T) {
	m := NewMemory(testProfile())
	assert.NotPanics(t, func() { m.Transmit([]byte{0xF0, 0xF7}) })
}

func TestMemoryTransmitDelegatesToAttachedCallback(t *testing.T) {
	m := NewMemory(testProfile())
	var got []byte
	m.SetTransmit(func(b []byte) { got = b })

	m.Transmit([]byte{0xF0, 0x01, 0xF7})
	assert.Equal(t, []byte{0xF0, 0x01, 0xF7}, got)
}
