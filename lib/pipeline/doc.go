// Package pipeline implements the compression and text-safe encoding
// steps that prepare large payloads (configuration bundles, scripts) for
// QR transport, and their inverses.
//
// The package focuses on:
//   - Deterministic zlib compression with a caller-selected level
//   - Recording the original size so the inverse step can detect
//     corruption that survives the zlib checksum
//   - Base64 as the text-safe layer that keeps payload bodies scannable
//
// Wire Layout:
//
//	The text form of a payload is base64(std) over a 4-byte big-endian
//	original-size header followed by the zlib stream. The size check in
//	Unpack runs unconditionally; it is the primary corruption detector
//	for the whole decode pipeline and is never skipped for trusted input.
//
// Thread Safety:
//
//	All functions are pure and safe for concurrent use.
package pipeline
