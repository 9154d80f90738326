package testlog

import (
	"testing"

	logs "github.com/danmuck/smplog"

	"github.com/faderbank/sysexconf/internal/logging"
)

// Start configures the test logging profile and emits a marker line
// naming the running test, so a failing suite's smplog output can be
// grepped by test name.
func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
	logs.Infof("test=%s", t.Name())
}
