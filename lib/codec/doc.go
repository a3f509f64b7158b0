// Package codec implements the binary command codec of the QR protocol.
// It turns a protocol.Command into its compact opcode+payload encoding and
// back, and frames ordered command batches for single-unit delivery.
//
// The package focuses on:
//   - Encoding single commands with full parameter validation
//   - Decoding byte sequences with strict bounds checking
//   - Batch framing ([count][len][opcode payload]...) within the protocol
//     ceiling
//
// Wire Format:
//
//	A single encoded command is the opcode byte followed by its
//	action-specific payload. A batch is a one-byte command count followed
//	by, per command, a one-byte length and the encoded command itself.
//	Batches preserve order and have no deduplication semantics; the
//	device executes them in encoded order.
//
// Thread Safety:
//
//	All functions are pure and side-effect-free and safe for concurrent
//	use across independent calls.
package codec
