package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/faderbank/sysexconf/internal/sysex"
	"github.com/faderbank/sysexconf/internal/testutil/testlog"
)

func TestStatsRecordAndSnapshot(t *testing.T) {
	testlog.Start(t)
	s := NewStats()
	s.RecordStatus(sysex.StatusAck)
	s.RecordStatus(sysex.StatusAck)
	s.RecordStatus(sysex.StatusErrorBlock)

	snap := s.Snapshot()
	assert.Equal(t, uint64(2), snap[sysex.StatusAck])
	assert.Equal(t, uint64(1), snap[sysex.StatusErrorBlock])
	assert.Zero(t, snap[sysex.StatusErrorIndex])
}
