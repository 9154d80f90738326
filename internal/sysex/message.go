package sysex

// form classifies a decoded inbound buffer.
type form uint8

const (
	formStandard form = iota
	formSpecial
	formUnrecognized
)

// decodedMessage is the typed record produced by the decoder. Fields not
// applicable to a given form are left at their zero value; the decoder
// performs only structural parsing and framing checks. Value-range and
// layout-index validation belong to the engine, which has layout context
// the decoder does not.
type decodedMessage struct {
	form form

	status Status
	part   uint8

	// highBitSet records whether any byte outside the manufacturer ID
	// and start/end framing bytes had its high bit set.
	highBitSet bool

	// standard form fields. wishRaw/amountRaw are copied verbatim; the
	// engine is responsible for recognizing them as a valid Wish/Amount.
	wishRaw   byte
	amountRaw byte
	block     byte
	section   byte
	index     uint16
	rawValues []byte // trailing 14-bit-pair payload, still wire-encoded

	// indexTruncated is set for an AmountSingle request whose buffer
	// ends before the two index bytes are fully present. index and
	// rawValues are meaningless in that case (both left at their zero
	// value), so the engine must check this before trusting either.
	indexTruncated bool

	// special/custom form: a single 7-bit ID shared by the six reserved
	// special requests and device-declared custom requests.
	requestID uint16
}

// stdReqFloor is the smallest a standard-form message can be: header
// through section, plus the end byte (a get/all request carries no
// index and no values).
const stdReqFloor = offsetSection + 1 + 1
