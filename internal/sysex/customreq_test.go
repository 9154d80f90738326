package sysex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomRequestSetRejectsReservedCollision(t *testing.T) {
	_, err := newCustomRequestSet([]CustomRequest{
		{ID: uint16(SpecialConnOpen), RequiresOpenConnection: false},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCustomRequestCollision)
}

func TestNewCustomRequestSetIndexesByID(t *testing.T) {
	set, err := newCustomRequestSet([]CustomRequest{
		{ID: 0x10, RequiresOpenConnection: true},
		{ID: 0x11, RequiresOpenConnection: false},
	})
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.True(t, set[0x10].RequiresOpenConnection)
	assert.False(t, set[0x11].RequiresOpenConnection)
}
