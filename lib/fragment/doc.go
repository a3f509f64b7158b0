// Package fragment implements the fragmentation engine: it splits a
// text-encoded payload that exceeds one transport unit's capacity into an
// ordered sequence of self-describing fragments, each within the capacity
// budget once wrapped in envelope framing.
//
// The package focuses on:
//   - Minimal, deterministic chunking under a caller-supplied capacity
//   - Per-fragment framing overhead accounting ($LUA<n>: grows a
//     character at fragment 10)
//   - The protocol's 99-fragment ceiling
//   - An optional Lua syntax pre-check so a broken script is rejected
//     before it costs a whole QR sequence
//
// The unit capacity is caller-supplied rather than fixed because capacity
// is a property of the rendering: denser QR codes scan less reliably, so
// callers trade unit count against scan robustness.
//
// Thread Safety:
//
//	Split is pure. CheckScript creates a private interpreter state per
//	call; both are safe for concurrent use.
package fragment
