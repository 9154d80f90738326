package sysex

// Result is the outcome of a data handler call.
type Result uint8

const (
	ResultOK Result = iota
	ResultError
	ResultNotSupported
)

// DataHandler is the external collaborator that owns parameter storage,
// byte transport, and custom request semantics. The engine never holds
// parameter state itself; every read or write is a synchronous upcall.
type DataHandler interface {
	// Get reads one parameter's current value.
	Get(block, section uint8, index uint16) (value uint16, result Result)

	// Set writes one parameter's value. The engine has already verified
	// newValue falls within the section's configured range.
	Set(block, section uint8, index uint16, newValue uint16) Result

	// Custom services a device-specific request, appending any reply
	// values through the capability passed to it.
	Custom(requestID uint16, resp CustomResponse) Result

	// Transmit delivers one complete framed message to the host
	// transport. It is a one-shot delivery, infallible from the
	// engine's perspective.
	Transmit(message []byte)
}
