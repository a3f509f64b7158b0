// Package reassembly implements the receiving side of fragmented
// transfers: it accumulates fragments scanned in arbitrary order, detects
// completion, and reconstructs and validates the original payload.
//
// The package focuses on:
//   - A per-transfer session state machine
//     (Idle -> Receiving -> Completing -> Done, error exits to Failed)
//   - Order-independent slot filling with idempotent duplicate handling
//     (a re-scan of the same unit overwrites its slot; last write wins)
//   - Unconditional decompression and size validation on completion
//   - Session identity and eviction, which the scanned wire format lacks
//
// Key Components:
//
//   - IReassembler: The entry point fragments are fed into. It keeps one
//     session per transfer id in a concurrent map and lazily evicts
//     sessions whose last activity is older than the configured TTL.
//     The wire format carries no transfer id, so all wire-scanned
//     fragments share the reserved empty id and at most one wire
//     transfer can be in flight at a time.
//
//   - Completion rules: When a transfer's total is known (fragments built
//     by this module's splitter), the session completes once every slot
//     in [0, total) is filled and the final fragment has been seen.
//     Wire-scanned fragments carry no total and the final unit carries no
//     index, so a wire session completes once the final chunk is present
//     and the intermediate indexes form a gapless prefix; a unit missing
//     from the middle is then caught by the decompression and size
//     checks, which run unconditionally.
//
// Thread Safety:
//
//	The session registry is a concurrent map, but fragments of one
//	transfer must be processed strictly sequentially: one fragment is
//	fully absorbed, including any state transition, before the next is
//	considered. Hosts that scan concurrently must funnel fragments of a
//	given transfer through one goroutine. There are no internal timers;
//	eviction piggybacks on fragment arrival and explicit Reset calls.
package reassembly
