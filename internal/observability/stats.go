package observability

import (
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/faderbank/sysexconf/internal/sysex"
)

// Stats is a lock-free counter keyed by response status byte, safe to
// update from the engine's single-threaded HandleMessage call and read
// concurrently from the admin HTTP surface's own goroutine. It is the
// only seam the admin surface uses to observe the engine; it never
// reaches into engine state directly. Stats implements
// sysex.StatsRecorder.
type Stats struct {
	counts *xsync.MapOf[sysex.Status, uint64]
}

// NewStats constructs an empty Stats snapshot source.
func NewStats() *Stats {
	return &Stats{counts: xsync.NewMapOf[sysex.Status, uint64]()}
}

// RecordStatus implements sysex.StatsRecorder.
func (s *Stats) RecordStatus(status sysex.Status) {
	s.counts.Compute(status, func(oldValue uint64, loaded bool) (uint64, bool) {
		return oldValue + 1, false
	})
	RecordEngineStatus(statusLabel(status))
}

// Snapshot returns a point-in-time copy of the status counters, keyed by
// status byte.
func (s *Stats) Snapshot() map[sysex.Status]uint64 {
	out := make(map[sysex.Status]uint64)
	s.counts.Range(func(k sysex.Status, v uint64) bool {
		out[k] = v
		return true
	})
	return out
}

func statusLabel(status sysex.Status) string {
	const hexDigits = "0123456789ABCDEF"
	return string([]byte{'0', 'x', hexDigits[status>>4], hexDigits[status&0x0F]})
}
