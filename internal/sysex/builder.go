package sysex

import "errors"

// ErrBufferFull is returned by append14 when fewer than three bytes
// remain in the response buffer: two for the encoded value, one held in
// reserve for the terminator.
var ErrBufferFull = errors.New("sysex: response buffer full")

// builder assembles one outbound SysEx message into a fixed-capacity
// buffer. It is owned by the engine and overwritten per response.
type builder struct {
	mfrID  ManufacturerID
	buf    [MaxMessageSize]byte
	cursor int
}

func newBuilder(mfrID ManufacturerID) *builder {
	return &builder{mfrID: mfrID}
}

// begin writes the start byte, manufacturer ID, status byte, and part
// byte, resetting the cursor.
func (b *builder) begin(status Status, part byte) {
	b.cursor = 0
	b.buf[b.cursor] = startByte
	b.cursor++
	b.buf[b.cursor] = b.mfrID[0]
	b.cursor++
	b.buf[b.cursor] = b.mfrID[1]
	b.cursor++
	b.buf[b.cursor] = b.mfrID[2]
	b.cursor++
	b.buf[b.cursor] = byte(status)
	b.cursor++
	b.buf[b.cursor] = part
	b.cursor++
}

// append14 encodes v via the codec and appends both bytes, failing if
// fewer than three bytes remain (two for the value, one reserved for the
// terminator written by finish).
func (b *builder) append14(v uint16) error {
	if len(b.buf)-b.cursor < 3 {
		return ErrBufferFull
	}
	high, low := split14(v)
	b.buf[b.cursor] = high
	b.cursor++
	b.buf[b.cursor] = low
	b.cursor++
	return nil
}

// finish writes the end byte and returns the completed response, a
// slice over the builder's own buffer valid until the next begin call.
func (b *builder) finish() []byte {
	b.buf[b.cursor] = endByte
	b.cursor++
	out := b.buf[:b.cursor]
	return out
}

// CustomResponse is the narrow capability passed to a DataHandler's
// custom request callback: it can append values to the outbound
// payload, nothing else. It exclusively borrows the builder for the
// duration of the callback, preventing any simultaneous direct write.
type CustomResponse struct {
	b *builder
}

// Append encodes v as a 14-bit value and appends it to the response
// payload currently under construction.
func (c CustomResponse) Append(v uint16) error {
	return c.b.append14(v)
}
