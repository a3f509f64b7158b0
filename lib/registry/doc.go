// Package registry holds the static command table of the QR protocol: the
// mapping from a (domain, action) pair to its opcode, namespace, and
// parameter codec, plus the reverse mapping from (namespace, opcode) used
// when decoding scanned commands.
//
// The package focuses on:
//   - A single authoritative table of every command the protocol knows
//   - Forward lookup for the encode path and reverse lookup for decode
//   - Per-action parameter codecs that validate values on encode and
//     bounds-check bytes on decode
//
// Versioning Contract:
//
//	The table is append-only. Once an opcode has been assigned to a
//	(domain, action) pair it must never be reassigned: QR codes already
//	printed on paper keep their meaning for the lifetime of the device.
//	New commands take fresh opcodes in the ranges reserved for their
//	domain. This is a design contract, not a runtime check.
//
// Thread Safety:
//
//	The table is built once at package initialization and never mutated
//	afterwards, so all lookups are safe for concurrent use.
package registry
