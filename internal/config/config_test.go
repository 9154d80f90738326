package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faderbank/sysexconf/internal/sysex"
	"github.com/faderbank/sysexconf/internal/testutil/testlog"
)

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadProfileParsesLayoutAndCustomRequests(t *testing.T) {
	testlog.Start(t)
	path := writeProfile(t, `
manufacturer_id = [1, 2, 3]

[[block]]
name = "system"

[[block.section]]
name = "midi_channel"
parameter_count = 1
value_min = 0
value_max = 15

[[custom_request]]
name = "firmware_version"
id = 16
requires_open_connection = true
`)

	p, err := LoadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, sysex.ManufacturerID{1, 2, 3}, p.ManufacturerID)
	require.Len(t, p.Blocks, 1)
	require.Len(t, p.Blocks[0].Sections, 1)
	assert.Equal(t, uint16(1), p.Blocks[0].Sections[0].ParameterCount)
	assert.Equal(t, uint16(15), p.Blocks[0].Sections[0].ValueMax)

	require.Len(t, p.CustomRequests, 1)
	assert.Equal(t, uint16(16), p.CustomRequests[0].ID)
	assert.True(t, p.CustomRequests[0].RequiresOpenConnection)
}

func TestLoadProfileRejectsMissingManufacturerID(t *testing.T) {
	path := writeProfile(t, `
[[block]]
name = "system"
`)
	_, err := LoadProfile(path)
	assert.Error(t, err)
}

func TestLoadProfileRejectsWrongSizedManufacturerID(t *testing.T) {
	path := writeProfile(t, `manufacturer_id = [1, 2]`)
	_, err := LoadProfile(path)
	assert.Error(t, err)
}

func TestLoadProfileRejectsMalformedTOML(t *testing.T) {
	path := writeProfile(t, `this is not [ valid toml`)
	_, err := LoadProfile(path)
	assert.Error(t, err)
}

func TestLoadProfileRejectsNonPositiveParameterCount(t *testing.T) {
	path := writeProfile(t, `
manufacturer_id = [1, 2, 3]

[[block]]
name = "system"

[[block.section]]
name = "broken"
parameter_count = 0
`)
	_, err := LoadProfile(path)
	assert.Error(t, err)
}
