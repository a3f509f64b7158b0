// Package protocol defines the shared data model for the aRdent ScanPad
// QR configuration protocol: the command structure, the opcode namespaces,
// the protocol limits, and the unified error system used by all other
// packages of this module.
//
// The package focuses on:
//   - A closed, typed command model (no string-keyed parameter maps)
//   - Stable opcode namespace definitions for device and key commands
//   - Protocol-wide limits shared by the codec and fragmentation layers
//   - A structured error type with machine-readable error codes
//
// Key Components:
//
//   - Command: A single device or configuration command, built via the
//     New* factory functions. Which Params fields are meaningful depends
//     on the (Domain, Action) pair; the registry's parameter codecs read
//     and write exactly the fields their action declares.
//
//   - Namespace: The two opcode namespaces of the wire protocol. Device
//     commands (LED, buzzer, settings, status, script management) and key
//     configuration commands live in separate opcode spaces and are
//     distinguished on the wire by the $CMD:DEV: and $CMD:KEY: markers.
//
//   - Error System: A structured error reporting mechanism using typed
//     error codes and descriptive messages, mirrored across every package
//     of this module. All protocol failures are terminal for the operation
//     that raised them; none are retried internally.
//
// Thread Safety:
//
//	All types in this package are plain immutable values. Commands are
//	never mutated after construction.
package protocol
