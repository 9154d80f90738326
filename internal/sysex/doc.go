// Package sysex implements a configuration protocol engine that exchanges
// structured read/write requests over a SysEx MIDI byte transport.
//
// Ownership boundary:
// - byte codec and wire framing constants
// - block/section layout model
// - decoder and response builder
// - connection state machine and request dispatch
//
// Parameter storage, transport, and layout configuration are external
// collaborators reached through the DataHandler interface, whose Transmit
// method is the outbound transport hook.
package sysex
