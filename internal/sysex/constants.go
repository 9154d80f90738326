package sysex

// Frame markers per SysEx framing.
const (
	startByte byte = 0xF0
	endByte   byte = 0xF7
)

// Fixed byte offsets for a standard request.
const (
	offsetStart   = 0
	offsetMfr0    = 1
	offsetMfr1    = 2
	offsetMfr2    = 3
	offsetStatus  = 4
	offsetPart    = 5
	offsetWish    = 6
	offsetAmount  = 7
	offsetBlock   = 8
	offsetSection = 9
	offsetIndex   = 10
)

// PartAll is the sentinel part value meaning "entire range, with terminator".
const PartAll = 0x7F

// Wire contract constants.
const (
	ParamsPerMessage = 32
	BytesPerValue    = 2

	specialReqMsgSize = (offsetWish + 1) + 1
	stdReqMinMsgSize  = offsetIndex + (BytesPerValue * 2) + 1

	// MaxMessageSize bounds the largest response the engine can produce:
	// the minimum standard request size plus one full part of values.
	MaxMessageSize = stdReqMinMsgSize + ParamsPerMessage*BytesPerValue
)

// Wish is the operation kind of a standard request.
type Wish uint8

const (
	WishGet Wish = iota
	WishSet
	WishBackup
	wishInvalid
)

// Amount is the cardinality modifier of a standard request.
type Amount uint8

const (
	AmountSingle Amount = iota
	AmountAll
	amountInvalid
)

// Status is the single-byte outcome code carried in every response.
type Status uint8

const (
	StatusRequest            Status = 0x00
	StatusAck                Status = 0x01
	StatusErrorStatus        Status = 0x02
	StatusErrorConnection    Status = 0x03
	StatusErrorWish          Status = 0x04
	StatusErrorAmount        Status = 0x05
	StatusErrorBlock         Status = 0x06
	StatusErrorSection       Status = 0x07
	StatusErrorPart          Status = 0x08
	StatusErrorIndex         Status = 0x09
	StatusErrorNewValue      Status = 0x0A
	StatusErrorMessageLength Status = 0x0B
	StatusErrorWrite         Status = 0x0C
	StatusErrorNotSupported  Status = 0x0D
	StatusErrorRead          Status = 0x0E
)

// SpecialRequest identifies a connection/meta request independent of the
// standard block/section/index addressing.
type SpecialRequest uint8

const (
	SpecialConnClose         SpecialRequest = 0x00
	SpecialConnOpen          SpecialRequest = 0x01
	SpecialBytesPerValue     SpecialRequest = 0x02
	SpecialParamsPerMessage  SpecialRequest = 0x03
	SpecialConnOpenSilent    SpecialRequest = 0x04
	SpecialConnSilentDisable SpecialRequest = 0x05
)

// ConnState is the engine's connection lifecycle.
type ConnState uint8

const (
	ConnClosed ConnState = iota
	ConnOpenVerbose
	ConnOpenSilent
)
