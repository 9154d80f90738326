package sysex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderBeginFinishFraming(t *testing.T) {
	b := newBuilder(testMfrID)
	b.begin(StatusAck, 0x03)
	out := b.finish()

	require.Len(t, out, 7)
	assert.Equal(t, startByte, out[0])
	assert.Equal(t, testMfrID[0], out[1])
	assert.Equal(t, testMfrID[1], out[2])
	assert.Equal(t, testMfrID[2], out[3])
	assert.Equal(t, byte(StatusAck), out[4])
	assert.Equal(t, byte(0x03), out[5])
	assert.Equal(t, endByte, out[6])
}

func TestBuilderAppend14RoundTrips(t *testing.T) {
	b := newBuilder(testMfrID)
	b.begin(StatusAck, 0)
	require.NoError(t, b.append14(1000))
	out := b.finish()

	require.Len(t, out, 9)
	assert.Equal(t, uint16(1000), merge14(out[6], out[7]))
}

func TestBuilderAppend14FailsWhenFull(t *testing.T) {
	b := newBuilder(testMfrID)
	b.begin(StatusAck, 0)
	for len(b.buf)-b.cursor >= 3 {
		require.NoError(t, b.append14(1))
	}
	err := b.append14(1)
	assert.ErrorIs(t, err, ErrBufferFull)
}

func TestCustomResponseAppendDelegatesToBuilder(t *testing.T) {
	b := newBuilder(testMfrID)
	b.begin(StatusAck, 0)
	resp := CustomResponse{b: b}
	require.NoError(t, resp.Append(42))
	out := b.finish()
	assert.Equal(t, uint16(42), merge14(out[6], out[7]))
}
