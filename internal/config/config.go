// Package config loads the TOML device profile that declares a
// manufacturer ID, block/section layout, and custom request set for a
// sysexconf engine.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/faderbank/sysexconf/internal/sysex"
)

type sectionFile struct {
	ParameterCount int    `toml:"parameter_count"`
	ValueMin       int    `toml:"value_min"`
	ValueMax       int    `toml:"value_max"`
	Name           string `toml:"name"`
}

type blockFile struct {
	Name    string        `toml:"name"`
	Section []sectionFile `toml:"section"`
}

type customRequestFile struct {
	Name         string `toml:"name"`
	ID           int    `toml:"id"`
	RequiresOpen bool   `toml:"requires_open_connection"`
}

type profileFile struct {
	ManufacturerID []int64             `toml:"manufacturer_id"`
	Block          []blockFile         `toml:"block"`
	CustomRequest  []customRequestFile `toml:"custom_request"`
}

// Profile is a fully validated device profile, ready to install into an
// engine.
type Profile struct {
	ManufacturerID sysex.ManufacturerID
	Blocks         []sysex.Block
	CustomRequests []sysex.CustomRequest
}

// LoadProfile reads and validates the TOML device profile at path. It
// reports a parse error for malformed TOML, and a structural error for a
// missing, wrong-sized or out-of-range manufacturer ID, a section with a
// non-positive parameter_count or value_min > value_max, and a custom
// request ID outside the 7-bit range or equal to a special request ID.
// Install runs the engine's own validation on top of these checks.
func LoadProfile(path string) (Profile, error) {
	var raw profileFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Profile{}, fmt.Errorf("device profile parse failed (%s): %w", path, err)
	}
	if !meta.IsDefined("manufacturer_id") {
		return Profile{}, fmt.Errorf("device profile %s: manufacturer_id is required", path)
	}
	if len(raw.ManufacturerID) != 3 {
		return Profile{}, fmt.Errorf("device profile %s: manufacturer_id must have exactly 3 bytes", path)
	}

	var mfrID sysex.ManufacturerID
	for i, v := range raw.ManufacturerID {
		if v < 0 || v > 0x7F {
			return Profile{}, fmt.Errorf("device profile %s: manufacturer_id[%d]=%d out of 7-bit range", path, i, v)
		}
		mfrID[i] = byte(v)
	}

	blocks := make([]sysex.Block, 0, len(raw.Block))
	for bi, b := range raw.Block {
		sections := make([]sysex.Section, 0, len(b.Section))
		for si, s := range b.Section {
			if s.ParameterCount <= 0 {
				return Profile{}, fmt.Errorf("device profile %s: block[%d].section[%d] (%s) has non-positive parameter_count", path, bi, si, s.Name)
			}
			if s.ValueMin > s.ValueMax {
				return Profile{}, fmt.Errorf("device profile %s: block[%d].section[%d] (%s) has value_min %d > value_max %d", path, bi, si, s.Name, s.ValueMin, s.ValueMax)
			}
			sections = append(sections, sysex.Section{
				ParameterCount: uint16(s.ParameterCount),
				ValueMin:       uint16(s.ValueMin),
				ValueMax:       uint16(s.ValueMax),
			})
		}
		blocks = append(blocks, sysex.Block{Sections: sections})
	}

	reqs := make([]sysex.CustomRequest, 0, len(raw.CustomRequest))
	for _, r := range raw.CustomRequest {
		name := strings.TrimSpace(r.Name)
		if r.ID < 0 || r.ID > 0x7F {
			return Profile{}, fmt.Errorf("device profile %s: custom_request %q id=%d out of 7-bit range", path, name, r.ID)
		}
		switch sysex.SpecialRequest(r.ID) {
		case sysex.SpecialConnClose, sysex.SpecialConnOpen, sysex.SpecialBytesPerValue,
			sysex.SpecialParamsPerMessage, sysex.SpecialConnOpenSilent, sysex.SpecialConnSilentDisable:
			return Profile{}, fmt.Errorf("device profile %s: custom_request %q id=%d collides with a special request", path, name, r.ID)
		}
		reqs = append(reqs, sysex.CustomRequest{
			ID:                     uint16(r.ID),
			RequiresOpenConnection: r.RequiresOpen,
		})
	}

	return Profile{
		ManufacturerID: mfrID,
		Blocks:         blocks,
		CustomRequests: reqs,
	}, nil
}

// Install wires the profile's layout and custom request set into an
// already-constructed engine. The engine's own manufacturer ID is set at
// construction time and is not touched here; callers typically construct
// the engine with Profile.ManufacturerID directly.
func (p Profile) Install(e *sysex.Engine) error {
	if err := e.InstallLayout(p.Blocks); err != nil {
		return fmt.Errorf("install layout: %w", err)
	}
	if err := e.InstallCustomRequests(p.CustomRequests); err != nil {
		return fmt.Errorf("install custom requests: %w", err)
	}
	return nil
}
