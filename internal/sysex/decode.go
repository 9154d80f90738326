package sysex

// decoder parses inbound SysEx buffers into a typed decodedMessage. It
// owns a value copy of the manufacturer ID (never a pointer into
// caller-owned memory, per the value-semantics design note) and performs
// only structural checks: framing bytes, manufacturer ID, and enough
// length to classify the message's form. All other validation is the
// engine's responsibility, since only the engine has layout context.
type decoder struct {
	mfrID ManufacturerID
}

func newDecoder(mfrID ManufacturerID) decoder {
	return decoder{mfrID: mfrID}
}

// decode returns the parsed message and true, or a false second value
// meaning the buffer must be silently dropped: it is too short to carry
// even a status/part byte, fails the start/end framing check, or carries
// a manufacturer ID that doesn't match.
func (d decoder) decode(buf []byte) (decodedMessage, bool) {
	if len(buf) < offsetPart+1 {
		return decodedMessage{}, false
	}
	if buf[offsetStart] != startByte || buf[len(buf)-1] != endByte {
		return decodedMessage{}, false
	}
	if buf[offsetMfr0] != d.mfrID[0] || buf[offsetMfr1] != d.mfrID[1] || buf[offsetMfr2] != d.mfrID[2] {
		return decodedMessage{}, false
	}

	msg := decodedMessage{
		status: Status(buf[offsetStatus]),
		part:   buf[offsetPart],
	}

	// Payload bytes are everything between the manufacturer ID and the
	// end byte; all of them must have their high bit clear.
	for _, b := range buf[offsetStatus : len(buf)-1] {
		if b&0x80 != 0 {
			msg.highBitSet = true
			break
		}
	}

	switch {
	case len(buf) == specialReqMsgSize:
		msg.form = formSpecial
		msg.requestID = uint16(buf[offsetWish] & 0x7F)
	case len(buf) >= stdReqFloor:
		msg.form = formStandard
		msg.wishRaw = buf[offsetWish]
		msg.amountRaw = buf[offsetAmount]
		msg.block = buf[offsetBlock]
		msg.section = buf[offsetSection]

		tail := buf[offsetSection+1 : len(buf)-1]
		if msg.amountRaw == byte(AmountSingle) {
			if len(tail) >= BytesPerValue {
				msg.index = merge14(tail[0], tail[1])
				msg.rawValues = tail[BytesPerValue:]
			} else {
				msg.indexTruncated = true
			}
		} else {
			msg.rawValues = tail
		}
	default:
		msg.form = formUnrecognized
	}

	return msg, true
}
