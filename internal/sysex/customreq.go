package sysex

import (
	"errors"
	"fmt"
)

// ErrCustomRequestCollision is returned by InstallCustomRequests when a
// custom request ID collides with a reserved special-request ID.
var ErrCustomRequestCollision = errors.New("sysex: custom request ID collides with a special request")

// CustomRequest declares one device-specific request outside the
// standard block/section addressing.
type CustomRequest struct {
	ID                     uint16
	RequiresOpenConnection bool
}

var reservedSpecialIDs = map[uint16]struct{}{
	uint16(SpecialConnClose):         {},
	uint16(SpecialConnOpen):          {},
	uint16(SpecialBytesPerValue):     {},
	uint16(SpecialParamsPerMessage):  {},
	uint16(SpecialConnOpenSilent):    {},
	uint16(SpecialConnSilentDisable): {},
}

// customRequestSet is the engine's owned, read-only copy of the
// installed custom request declarations, keyed by request ID.
type customRequestSet map[uint16]CustomRequest

func newCustomRequestSet(reqs []CustomRequest) (customRequestSet, error) {
	out := make(customRequestSet, len(reqs))
	for _, r := range reqs {
		if _, reserved := reservedSpecialIDs[r.ID]; reserved {
			return nil, fmt.Errorf("%w: id=0x%02X", ErrCustomRequestCollision, r.ID)
		}
		out[r.ID] = r
	}
	return out, nil
}
