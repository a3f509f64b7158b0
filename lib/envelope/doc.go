// Package envelope is the top-level entry point of the QR protocol: it
// renders payloads into marker-delimited transport unit text on the
// encode side, and classifies and routes scanned text on the decode side.
//
// The package focuses on:
//   - The literal marker grammar of the wire format
//   - Classification as an explicit, ordered prefix-match over the
//     enumerated marker patterns (never ad hoc string scanning)
//   - Routing: plain commands and batches to the codec, full
//     configurations through the pipeline inverse, script fragments into
//     the reassembly state machine
//
// Wire Format:
//
//	$CMD:DEV:<hex>CMD$   single device command, hex opcode+payload
//	$CMD:KEY:<hex>CMD$   single key configuration command
//	$BATCH:<text>$       compressed, text-encoded command batch
//	$FULL:<text>$        compressed, text-encoded configuration bundle
//	$LUA<n>:<text>$      script fragment n (1-based), n >= 1
//	$LUAX:<text>$        final script fragment, the completion trigger
//
// A unit matching no marker is rejected with an unrecognized-envelope
// error. This is a hard rejection: silently dropping malformed input
// would mask transport corruption.
//
// Thread Safety:
//
//	Classification and formatting are pure. A decoder holds reassembly
//	state; fragments of one transfer must be fed to it sequentially, as
//	described in the reassembly package.
package envelope
