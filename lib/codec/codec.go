package codec

import (
	"github.com/ardent-devices/scanlink/lib/protocol"
	"github.com/ardent-devices/scanlink/lib/registry"
)

// --------------------------------------------------------------------------
// Single Command Codec
// --------------------------------------------------------------------------

// EncodeCommand encodes a single command as opcode+payload bytes and
// reports the namespace the opcode belongs to. Parameter values are
// validated against the action's declared shape.
func EncodeCommand(cmd protocol.Command) (protocol.Namespace, []byte, error) {
	entry, err := registry.Lookup(cmd.Domain, cmd.Action)
	if err != nil {
		return 0, nil, err
	}
	payload, err := entry.Encode(cmd.Params)
	if err != nil {
		return 0, nil, err
	}

	out := make([]byte, 0, 1+len(payload))
	out = append(out, entry.Opcode)
	out = append(out, payload...)
	return entry.Namespace, out, nil
}

// DecodeCommand decodes opcode+payload bytes back into a command. The
// namespace selects the opcode table, since device and key commands share
// opcode values.
func DecodeCommand(ns protocol.Namespace, data []byte) (protocol.Command, error) {
	if len(data) < 1 {
		return protocol.Command{}, protocol.NewError(protocol.ErrCMalformedPayload,
			"encoded command is empty")
	}
	entry, err := registry.ByOpcode(ns, data[0])
	if err != nil {
		return protocol.Command{}, err
	}
	params, err := entry.Decode(data[1:])
	if err != nil {
		return protocol.Command{}, err
	}
	return protocol.Command{Domain: entry.Domain, Action: entry.Action, Params: params}, nil
}

// --------------------------------------------------------------------------
// Batch Codec
// --------------------------------------------------------------------------

// EncodeBatch frames an ordered sequence of device commands as
// [count][len1][cmd1][len2][cmd2]... . Order is preserved; the device
// executes batches in encoded order.
func EncodeBatch(cmds []protocol.Command) ([]byte, error) {
	if len(cmds) == 0 {
		return nil, protocol.NewError(protocol.ErrCInvalidParameter,
			"batch must contain at least one command")
	}
	if len(cmds) > protocol.MaxBatchCommands {
		return nil, protocol.NewError(protocol.ErrCBatchTooLarge,
			"batch of %d commands exceeds the %d command ceiling", len(cmds), protocol.MaxBatchCommands)
	}

	out := []byte{byte(len(cmds))}
	for i, cmd := range cmds {
		ns, encoded, err := EncodeCommand(cmd)
		if err != nil {
			return nil, err
		}
		if ns != protocol.NamespaceDevice {
			return nil, protocol.NewError(protocol.ErrCInvalidParameter,
				"batch command %d (%s.%s) is not a device command", i, cmd.Domain, cmd.Action)
		}
		if len(encoded) > protocol.MaxCommandBytes {
			return nil, protocol.NewError(protocol.ErrCBatchTooLarge,
				"batch command %d encodes to %d bytes, limit is %d", i, len(encoded), protocol.MaxCommandBytes)
		}
		out = append(out, byte(len(encoded)))
		out = append(out, encoded...)
	}
	return out, nil
}

// DecodeBatch parses batch bytes back into the ordered command sequence.
func DecodeBatch(data []byte) ([]protocol.Command, error) {
	if len(data) < 1 {
		return nil, protocol.NewError(protocol.ErrCMalformedPayload,
			"batch data is empty")
	}
	count := int(data[0])
	if count == 0 {
		return nil, protocol.NewError(protocol.ErrCMalformedPayload,
			"batch declares zero commands")
	}

	cmds := make([]protocol.Command, 0, count)
	pos := 1
	for i := 0; i < count; i++ {
		if pos >= len(data) {
			return nil, protocol.NewError(protocol.ErrCMalformedPayload,
				"batch declares %d commands but data ends after %d", count, i)
		}
		cmdLen := int(data[pos])
		pos++
		if cmdLen == 0 {
			return nil, protocol.NewError(protocol.ErrCMalformedPayload,
				"batch command %d has zero length", i)
		}
		if pos+cmdLen > len(data) {
			return nil, protocol.NewError(protocol.ErrCMalformedPayload,
				"batch command %d declares %d bytes, %d remain", i, cmdLen, len(data)-pos)
		}
		cmd, err := DecodeCommand(protocol.NamespaceDevice, data[pos:pos+cmdLen])
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
		pos += cmdLen
	}

	if pos != len(data) {
		return nil, protocol.NewError(protocol.ErrCMalformedPayload,
			"batch has %d trailing bytes after %d commands", len(data)-pos, count)
	}
	return cmds, nil
}
