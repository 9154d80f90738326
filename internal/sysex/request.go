package sysex

// EncodeStandardRequest builds a standard request message: get/single,
// get/all, set/single, or set/all. values is ignored for WishGet and
// WishBackup. It is the host-side counterpart to decode: callers that
// talk to an Engine from outside this package (a CLI, a test harness)
// use it to build wire bytes instead of hand-assembling offsets.
func EncodeStandardRequest(mfrID ManufacturerID, wish Wish, amount Amount, block, section uint8, part byte, index uint16, values []uint16) []byte {
	buf := []byte{
		startByte, mfrID[0], mfrID[1], mfrID[2],
		byte(StatusRequest), part,
		byte(wish), byte(amount),
		block, section,
	}
	if amount == AmountSingle {
		hi, lo := split14(index)
		buf = append(buf, hi, lo)
	}
	if wish == WishSet {
		for _, v := range values {
			hi, lo := split14(v)
			buf = append(buf, hi, lo)
		}
	}
	buf = append(buf, endByte)
	return buf
}

// EncodeSpecialRequest builds a special or custom request message
// carrying the single 7-bit request ID.
func EncodeSpecialRequest(mfrID ManufacturerID, requestID uint16) []byte {
	return []byte{
		startByte, mfrID[0], mfrID[1], mfrID[2],
		byte(StatusRequest), 0,
		byte(requestID & 0x7F),
		endByte,
	}
}
