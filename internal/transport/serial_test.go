package transport

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faderbank/sysexconf/internal/testutil/testlog"
)

func TestPortRunFramesMessagesUntilReadError(t *testing.T) {
	testlog.Start(t)
	data := []byte{
		startByte, 0x01, 0x02, endByte,
		0x00, // noise between frames, outside any frame
		startByte, 0x03, endByte,
	}
	p := &Port{reader: bufio.NewReader(bytes.NewReader(data))}

	var frames [][]byte
	err := p.Run(func(message []byte) {
		cp := make([]byte, len(message))
		copy(cp, message)
		frames = append(frames, cp)
	})

	require.Error(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, []byte{startByte, 0x01, 0x02, endByte}, frames[0])
	assert.Equal(t, []byte{startByte, 0x03, endByte}, frames[1])
}

func TestPortWriteWithoutOpenPort(t *testing.T) {
	p := &Port{}
	assert.Panics(t, func() { _ = p.Write([]byte{startByte, endByte}) })
}

func TestOpenRejectsEmptyAddress(t *testing.T) {
	_, err := Open(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address required")
}
