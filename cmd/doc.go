// Package cmd implements the command-line interface of scanlink, the QR
// configuration toolkit for the aRdent ScanPad. It provides a hierarchical
// command structure for encoding payloads and inspecting captured ones.
//
// The package is organized into several subpackages:
//
//   - device: Commands for device control units (LEDs, buzzer, settings, batches)
//   - key: Commands for key configuration units and full keyboard bundles
//   - script: Commands for checking and encoding Lua scripts
//   - decode: Command for decoding captured units back into readable form
//   - perf: Benchmarks for the codec pipeline
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See scanlink -help for a list of all commands.
package cmd
