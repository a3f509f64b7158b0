package protocol

import "fmt"

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is the error type returned by every operation of this module. It
// wraps a machine-readable code (of type ErrCode) and a human-readable
// message carrying the offending field or the expected vs. actual values.
type Error struct {
	Code ErrCode // The error code
	Msg  string  // The error message
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("scanlink (%s): %s", e.Code, e.Msg)
}

// NewError creates a new Error with the given code and formatted message.
func NewError(code ErrCode, format string, args ...interface{}) *Error {
	return &Error{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// CodeOf returns the ErrCode of err, or ErrCNone if err is nil or not a
// protocol Error.
func CodeOf(err error) ErrCode {
	if err == nil {
		return ErrCNone
	}
	if pe, ok := err.(*Error); ok {
		return pe.Code
	}
	return ErrCNone
}

// --------------------------------------------------------------------------
// Error Codes
// --------------------------------------------------------------------------

// ErrCode identifies the failure class of a protocol operation.
type ErrCode uint8

const (
	ErrCNone ErrCode = iota

	// Registry and codec errors

	ErrCUnknownCommand   // (domain, action) pair is not registered
	ErrCUnknownOpcode    // opcode has no reverse mapping in its namespace
	ErrCInvalidParameter // a parameter value fails its declared shape
	ErrCMalformedPayload // byte sequence too short or length field out of bounds
	ErrCBatchTooLarge    // batch exceeds the protocol ceiling

	// Pipeline and fragmentation errors

	ErrCPayloadTooLarge      // fragment count would exceed the protocol maximum
	ErrCDecompressionFailed  // compressed bytes are not a valid zlib stream
	ErrCSizeMismatch         // decompressed length differs from the recorded size
	ErrCInconsistentTransfer // fragment contradicts the established transfer
	ErrCUnrecognizedEnvelope // no known marker matches the transport unit
)

// String returns the string representation of an ErrCode.
func (c ErrCode) String() string {
	switch c {
	case ErrCNone:
		return "none"
	case ErrCUnknownCommand:
		return "unknown command"
	case ErrCUnknownOpcode:
		return "unknown opcode"
	case ErrCInvalidParameter:
		return "invalid parameter"
	case ErrCMalformedPayload:
		return "malformed payload"
	case ErrCBatchTooLarge:
		return "batch too large"
	case ErrCPayloadTooLarge:
		return "payload too large"
	case ErrCDecompressionFailed:
		return "decompression failed"
	case ErrCSizeMismatch:
		return "size mismatch"
	case ErrCInconsistentTransfer:
		return "inconsistent transfer"
	case ErrCUnrecognizedEnvelope:
		return "unrecognized envelope"
	default:
		return "unknown"
	}
}
