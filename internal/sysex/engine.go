package sysex

import (
	logs "github.com/danmuck/smplog"
)

// StatsRecorder observes the status byte of every response the engine
// determines, whether or not that response is ultimately transmitted
// (silent mode may suppress it). It lets an external admin surface watch
// engine health without calling into the engine's non-reentrant surface.
type StatsRecorder interface {
	RecordStatus(status Status)
}

// Engine is the protocol engine: connection state, dispatch of
// standard/special/custom requests, and the validation pipeline that
// ties the decoder, layout, and response builder together. An Engine is
// single-threaded and non-reentrant; HandleMessage must run to
// completion before the host issues another call.
type Engine struct {
	mfrID ManufacturerID
	dec   decoder
	b     *builder

	layout     layout
	customReqs customRequestSet

	conn    ConnState
	handler DataHandler
	stats   StatsRecorder
}

// NewEngine constructs an engine for the given manufacturer ID and data
// handler. The manufacturer ID is copied by value; the engine never
// aliases caller-owned memory.
func NewEngine(mfrID ManufacturerID, handler DataHandler) *Engine {
	return &Engine{
		mfrID:   mfrID,
		dec:     newDecoder(mfrID),
		b:       newBuilder(mfrID),
		handler: handler,
		conn:    ConnClosed,
	}
}

// SetStatsRecorder attaches an optional observer for response status
// codes. Pass nil to detach.
func (e *Engine) SetStatsRecorder(s StatsRecorder) {
	e.stats = s
}

// Reset returns the connection to closed. Layout and custom requests are
// retained.
func (e *Engine) Reset() {
	e.conn = ConnClosed
	logs.Debugf("sysex: engine reset")
}

// InstallLayout validates and installs the block/section layout. It is
// intended to run once at startup, before any HandleMessage call.
func (e *Engine) InstallLayout(blocks []Block) error {
	l, err := newLayout(blocks)
	if err != nil {
		logs.Errf("sysex: install layout failed: %v", err)
		return err
	}
	e.layout = l
	logs.Infof("sysex: layout installed, blocks=%d", l.blockCount())
	return nil
}

// InstallCustomRequests validates and installs the custom request set.
func (e *Engine) InstallCustomRequests(reqs []CustomRequest) error {
	set, err := newCustomRequestSet(reqs)
	if err != nil {
		logs.Errf("sysex: install custom requests failed: %v", err)
		return err
	}
	e.customReqs = set
	logs.Infof("sysex: custom requests installed, count=%d", len(set))
	return nil
}

// IsConnectionOpen reports whether the connection is in either open
// state.
func (e *Engine) IsConnectionOpen() bool {
	return e.conn != ConnClosed
}

// IsSilent reports whether the connection is in the silent open state.
func (e *Engine) IsSilent() bool {
	return e.conn == ConnOpenSilent
}

// SetSilent toggles silent mode while the connection is open. It has no
// effect while the connection is closed.
func (e *Engine) SetSilent(silent bool) {
	if e.conn == ConnClosed {
		return
	}
	if silent {
		e.conn = ConnOpenSilent
	} else {
		e.conn = ConnOpenVerbose
	}
}

// Layout introspection, mirrored from the installed layout for callers
// (such as an admin surface) that only need read-only visibility.
func (e *Engine) BlockCount() int                  { return e.layout.blockCount() }
func (e *Engine) SectionCount(block int) int       { return e.layout.sectionCount(block) }
func (e *Engine) ParameterCount(block, section int) uint16 {
	return e.layout.parameterCount(block, section)
}
func (e *Engine) ValueRange(block, section int) (min, max uint16) {
	return e.layout.valueRange(block, section)
}
func (e *Engine) PartCount(block, section int) uint8 { return e.layout.partCount(block, section) }

// SendCustom synthesizes an unsolicited outbound message carrying values,
// framed with status ack when requested, else status request.
func (e *Engine) SendCustom(values []uint16, ack bool) {
	status := StatusRequest
	if ack {
		status = StatusAck
	}
	e.b.begin(status, 0)
	for _, v := range values {
		if err := e.b.append14(v); err != nil {
			break
		}
	}
	e.deliver(status, 0, false, false, ack)
}

// HandleMessage is the single entry point for inbound transport bytes.
// It always runs to completion and emits at most one response, except a
// multi-part get/all which emits part_count responses (plus an optional
// trailing terminator).
func (e *Engine) HandleMessage(buf []byte) {
	msg, ok := e.dec.decode(buf)
	if !ok {
		return
	}

	switch msg.form {
	case formSpecial:
		e.handleSpecialForm(msg)
	case formStandard:
		e.handleStandardForm(msg)
	default:
		e.b.begin(StatusErrorMessageLength, msg.part)
		e.deliver(StatusErrorMessageLength, 0, false, false, false)
	}
}

func (e *Engine) handleSpecialForm(msg decodedMessage) {
	part := msg.part

	if msg.highBitSet {
		e.respondProtocolError(StatusErrorStatus, part)
		return
	}
	if msg.status != StatusRequest {
		e.respondProtocolError(StatusErrorStatus, part)
		return
	}

	if sr, ok := reservedSpecialIDs[msg.requestID]; ok {
		_ = sr
		special := SpecialRequest(msg.requestID)
		if !specialAlwaysAccepted(special) && e.conn == ConnClosed {
			e.respondProtocolError(StatusErrorConnection, part)
			return
		}
		e.handleSpecialBuiltin(special, part)
		return
	}

	cr, found := e.customReqs[msg.requestID]
	if !found {
		logs.Debugf("sysex: unrecognized special/custom request id=0x%02X", msg.requestID)
		e.respondProtocolError(StatusErrorStatus, part)
		return
	}
	e.handleCustom(cr, part)
}

func specialAlwaysAccepted(sr SpecialRequest) bool {
	switch sr {
	case SpecialConnOpen, SpecialConnOpenSilent, SpecialBytesPerValue, SpecialParamsPerMessage:
		return true
	default:
		return false
	}
}

func (e *Engine) handleSpecialBuiltin(sr SpecialRequest, part byte) {
	switch sr {
	case SpecialConnOpen:
		e.conn = ConnOpenVerbose
		logs.Infof("sysex: connection opened (verbose)")
		e.respondAckEmpty(part)
	case SpecialConnOpenSilent:
		e.conn = ConnOpenSilent
		logs.Infof("sysex: connection opened (silent)")
		e.respondAckEmpty(part)
	case SpecialConnClose:
		if e.conn == ConnClosed {
			e.respondProtocolError(StatusErrorConnection, part)
			return
		}
		e.conn = ConnClosed
		logs.Infof("sysex: connection closed")
		e.respondAckEmpty(part)
	case SpecialConnSilentDisable:
		if e.conn == ConnClosed {
			e.respondProtocolError(StatusErrorConnection, part)
			return
		}
		e.conn = ConnOpenVerbose
		e.respondAckEmpty(part)
	case SpecialBytesPerValue:
		e.b.begin(StatusAck, part)
		_ = e.b.append14(BytesPerValue)
		e.deliver(StatusAck, 0, false, false, false)
	case SpecialParamsPerMessage:
		e.b.begin(StatusAck, part)
		_ = e.b.append14(ParamsPerMessage)
		e.deliver(StatusAck, 0, false, false, false)
	}
}

func (e *Engine) handleCustom(cr CustomRequest, part byte) {
	if cr.RequiresOpenConnection && e.conn == ConnClosed {
		e.respondProtocolError(StatusErrorConnection, part)
		return
	}

	e.b.begin(StatusAck, part)
	result := e.handler.Custom(cr.ID, CustomResponse{b: e.b})
	switch result {
	case ResultOK:
		e.deliver(StatusAck, 0, false, true, false)
	case ResultNotSupported:
		e.b.begin(StatusErrorNotSupported, part)
		e.deliver(StatusErrorNotSupported, 0, false, false, false)
	case ResultError:
		e.b.begin(StatusErrorRead, part)
		e.deliver(StatusErrorRead, 0, false, false, false)
	}
}

func (e *Engine) handleStandardForm(msg decodedMessage) {
	part := msg.part

	if msg.highBitSet {
		e.respondProtocolError(StatusErrorStatus, part)
		return
	}
	if msg.status != StatusRequest {
		e.respondProtocolError(StatusErrorStatus, part)
		return
	}
	if e.conn == ConnClosed {
		e.respondProtocolError(StatusErrorConnection, part)
		return
	}

	wish, wishOK := recognizeWish(msg.wishRaw)
	if !wishOK {
		e.respondProtocolError(StatusErrorWish, part)
		return
	}
	amount, amountOK := recognizeAmount(msg.amountRaw)
	if !amountOK {
		e.respondProtocolError(StatusErrorAmount, part)
		return
	}

	block := int(msg.block)
	if block < 0 || block >= e.layout.blockCount() {
		e.respondProtocolError(StatusErrorBlock, part)
		return
	}
	section := int(msg.section)
	if section < 0 || section >= e.layout.sectionCount(block) {
		e.respondProtocolError(StatusErrorSection, part)
		return
	}

	sec, _ := e.layout.section(block, section)
	partCount := sec.partCount()
	if !(msg.part < partCount || msg.part == PartAll) {
		e.respondProtocolError(StatusErrorPart, part)
		return
	}

	if amount == AmountSingle {
		if msg.indexTruncated {
			e.respondProtocolError(StatusErrorMessageLength, part)
			return
		}
		if msg.index >= sec.ParameterCount {
			e.respondProtocolError(StatusErrorIndex, part)
			return
		}
	}

	responseStatus := StatusAck
	if wish == WishBackup {
		responseStatus = StatusRequest
	}

	switch amount {
	case AmountSingle:
		switch wish {
		case WishGet, WishBackup:
			if len(msg.rawValues) != 0 {
				e.respondProtocolError(StatusErrorMessageLength, part)
				return
			}
			e.doGetSingle(uint8(block), uint8(section), msg.index, part, wish, responseStatus)
		case WishSet:
			if len(msg.rawValues) != BytesPerValue {
				e.respondProtocolError(StatusErrorMessageLength, part)
				return
			}
			newVal := merge14(msg.rawValues[0], msg.rawValues[1])
			if newVal < sec.ValueMin || newVal > sec.ValueMax {
				e.respondProtocolError(StatusErrorNewValue, part)
				return
			}
			e.doSetSingle(uint8(block), uint8(section), msg.index, newVal, part, wish)
		}
	case AmountAll:
		switch wish {
		case WishGet, WishBackup:
			if len(msg.rawValues) != 0 {
				e.respondProtocolError(StatusErrorMessageLength, part)
				return
			}
			e.doGetAll(uint8(block), uint8(section), sec, msg.part, wish, responseStatus)
		case WishSet:
			e.doSetAll(uint8(block), uint8(section), sec, msg.part, msg.rawValues, part, wish)
		}
	}
}

func (e *Engine) doGetSingle(block, section uint8, index uint16, part byte, wish Wish, responseStatus Status) {
	val, result := e.handler.Get(block, section, index)
	switch result {
	case ResultOK:
		e.b.begin(responseStatus, part)
		_ = e.b.append14(val)
		e.deliver(responseStatus, wish, true, false, false)
	case ResultNotSupported:
		e.respondBackendError(StatusErrorNotSupported, part, wish)
	case ResultError:
		e.respondBackendError(StatusErrorRead, part, wish)
	}
}

func (e *Engine) doSetSingle(block, section uint8, index, newVal uint16, part byte, wish Wish) {
	switch e.handler.Set(block, section, index, newVal) {
	case ResultOK:
		e.respondAckEmptyWish(part, wish)
	case ResultNotSupported:
		e.respondBackendError(StatusErrorNotSupported, part, wish)
	case ResultError:
		e.respondBackendError(StatusErrorWrite, part, wish)
	}
}

func (e *Engine) doGetAll(block, section uint8, sec Section, requestedPart byte, wish Wish, responseStatus Status) {
	partCount := sec.partCount()

	var parts []uint8
	if requestedPart == PartAll {
		for p := uint8(0); p < partCount; p++ {
			parts = append(parts, p)
		}
	} else {
		parts = []uint8{requestedPart}
	}

	for _, p := range parts {
		startIdx := int(p) * ParamsPerMessage
		remaining := int(sec.ParameterCount) - startIdx
		count := ParamsPerMessage
		if remaining < ParamsPerMessage {
			count = remaining
		}

		e.b.begin(responseStatus, p)
		aborted := false
		for i := 0; i < count; i++ {
			val, result := e.handler.Get(block, section, uint16(startIdx+i))
			switch result {
			case ResultOK:
				_ = e.b.append14(val)
			case ResultNotSupported:
				e.b.begin(StatusErrorNotSupported, p)
				e.respondBackendError0(StatusErrorNotSupported, wish)
				aborted = true
			case ResultError:
				e.b.begin(StatusErrorRead, p)
				e.respondBackendError0(StatusErrorRead, wish)
				aborted = true
			}
			if aborted {
				break
			}
		}
		if aborted {
			return
		}
		e.deliver(responseStatus, wish, true, false, false)
	}

	if requestedPart == PartAll {
		e.b.begin(StatusAck, PartAll)
		e.deliver(StatusAck, wish, true, false, false)
	}
}

func (e *Engine) doSetAll(block, section uint8, sec Section, requestedPart byte, rawValues []byte, part byte, wish Wish) {
	if requestedPart == PartAll {
		e.respondProtocolError(StatusErrorPart, part)
		return
	}

	startIdx := int(requestedPart) * ParamsPerMessage
	remaining := int(sec.ParameterCount) - startIdx
	if remaining <= 0 {
		e.respondProtocolError(StatusErrorPart, part)
		return
	}
	count := ParamsPerMessage
	if remaining < ParamsPerMessage {
		count = remaining
	}
	if len(rawValues) != count*BytesPerValue {
		e.respondProtocolError(StatusErrorMessageLength, part)
		return
	}

	values := make([]uint16, count)
	for i := 0; i < count; i++ {
		v := merge14(rawValues[i*2], rawValues[i*2+1])
		if v < sec.ValueMin || v > sec.ValueMax {
			e.respondProtocolError(StatusErrorNewValue, part)
			return
		}
		values[i] = v
	}

	for i, v := range values {
		idx := uint16(startIdx + i)
		switch e.handler.Set(block, section, idx, v) {
		case ResultOK:
			continue
		case ResultNotSupported:
			e.respondBackendError(StatusErrorNotSupported, part, wish)
			return
		case ResultError:
			e.respondBackendError(StatusErrorWrite, part, wish)
			return
		}
	}
	e.respondAckEmptyWish(part, wish)
}

// respondProtocolError emits a class-2 protocol error: the request's
// bytes up to and including the part byte, status replaced, payload
// cleared. Always suppressed in silent mode.
func (e *Engine) respondProtocolError(status Status, part byte) {
	e.b.begin(status, part)
	e.deliver(status, 0, false, false, false)
}

// respondBackendError emits a class-3 data-handler error. Suppressed in
// silent mode only when it originates from a write path; read/backup
// errors are never suppressed, since the peer is waiting on the data.
func (e *Engine) respondBackendError(status Status, part byte, wish Wish) {
	e.b.begin(status, part)
	e.deliver(status, wish, true, false, false)
}

// respondBackendError0 is respondBackendError for a builder already
// primed via begin (used mid multi-part sequence).
func (e *Engine) respondBackendError0(status Status, wish Wish) {
	e.deliver(status, wish, true, false, false)
}

func (e *Engine) respondAckEmpty(part byte) {
	e.b.begin(StatusAck, part)
	e.deliver(StatusAck, 0, false, false, false)
}

func (e *Engine) respondAckEmptyWish(part byte, wish Wish) {
	e.b.begin(StatusAck, part)
	e.deliver(StatusAck, wish, true, false, false)
}

// deliver finalizes the response currently under construction, decides
// whether silent mode suppresses it, records the outcome, and transmits
// it through the data handler when not suppressed.
func (e *Engine) deliver(status Status, wish Wish, hasWish, isCustomSuccess, isSendCustomAck bool) {
	payloadEmpty := e.b.cursor == 6
	buf := e.b.finish()

	if e.stats != nil {
		e.stats.RecordStatus(status)
	}

	if e.shouldSuppress(status, payloadEmpty, wish, hasWish, isCustomSuccess, isSendCustomAck) {
		return
	}
	e.handler.Transmit(buf)
}

// shouldSuppress implements the silent-mode policy described in
// DESIGN.md: class-2 protocol errors are always suppressed; class-3
// backend errors are suppressed unless they answer a get or backup
// request (set and custom-request errors are suppressed); pure-ack
// (empty-payload) successes are suppressed except for a successful
// custom-handler reply or an explicit send_custom ack.
func (e *Engine) shouldSuppress(status Status, payloadEmpty bool, wish Wish, hasWish, isCustomSuccess, isSendCustomAck bool) bool {
	if e.conn != ConnOpenSilent {
		return false
	}
	if isSendCustomAck || isCustomSuccess {
		return false
	}
	if isProtocolErrorStatus(status) {
		return true
	}
	switch status {
	case StatusErrorRead, StatusErrorWrite, StatusErrorNotSupported:
		if hasWish && (wish == WishGet || wish == WishBackup) {
			return false
		}
		return true
	default:
		return payloadEmpty
	}
}

func isProtocolErrorStatus(s Status) bool {
	switch s {
	case StatusErrorStatus, StatusErrorConnection, StatusErrorWish, StatusErrorAmount,
		StatusErrorBlock, StatusErrorSection, StatusErrorPart, StatusErrorIndex,
		StatusErrorNewValue, StatusErrorMessageLength:
		return true
	default:
		return false
	}
}

func recognizeWish(raw byte) (Wish, bool) {
	switch Wish(raw) {
	case WishGet, WishSet, WishBackup:
		return Wish(raw), true
	default:
		return 0, false
	}
}

func recognizeAmount(raw byte) (Amount, bool) {
	switch Amount(raw) {
	case AmountSingle, AmountAll:
		return Amount(raw), true
	default:
		return 0, false
	}
}
