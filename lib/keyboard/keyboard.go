package keyboard

import (
	"bytes"
	"sort"

	"github.com/ardent-devices/scanlink/lib/protocol"
)

// Bundle framing.
var magic = []byte("GYW")

const version = 0x01

// Config maps key ids to their action sequences.
type Config map[uint8][]protocol.KeyAction

// --------------------------------------------------------------------------
// Builder
// --------------------------------------------------------------------------

// Build validates a configuration and renders the binary bundle. Keys are
// emitted in ascending id order so the output is deterministic.
func Build(cfg Config) ([]byte, error) {
	if len(cfg) == 0 {
		return nil, protocol.NewError(protocol.ErrCInvalidParameter,
			"keyboard configuration is empty")
	}

	keyIDs := make([]int, 0, len(cfg))
	for id := range cfg {
		keyIDs = append(keyIDs, int(id))
	}
	sort.Ints(keyIDs)

	var buf bytes.Buffer
	buf.Write(magic)
	buf.WriteByte(version)
	buf.WriteByte(byte(len(cfg)))

	for _, id := range keyIDs {
		keyID := uint8(id)
		actions := cfg[keyID]
		if keyID > protocol.MaxKeyID {
			return nil, protocol.NewError(protocol.ErrCInvalidParameter,
				"key_id must be 0-%d, got %d", protocol.MaxKeyID, keyID)
		}
		if len(actions) == 0 {
			return nil, protocol.NewError(protocol.ErrCInvalidParameter,
				"key %d has no actions", keyID)
		}
		if len(actions) > protocol.MaxActionsPerKey {
			return nil, protocol.NewError(protocol.ErrCInvalidParameter,
				"key %d has %d actions, limit is %d", keyID, len(actions), protocol.MaxActionsPerKey)
		}

		buf.WriteByte(keyID)
		buf.WriteByte(byte(len(actions)))
		for i, a := range actions {
			switch a.Type {
			case protocol.ActionUTF8:
				text := []byte(a.Text)
				if len(text) > protocol.MaxActionTextBytes {
					return nil, protocol.NewError(protocol.ErrCInvalidParameter,
						"key %d action %d text exceeds %d UTF-8 bytes", keyID, i, protocol.MaxActionTextBytes)
				}
				buf.WriteByte(byte(protocol.ActionUTF8))
				buf.WriteByte(byte(len(text)))
				writeDelay(&buf, a.DelayMS)
				buf.Write(text)
			case protocol.ActionHID:
				buf.WriteByte(byte(protocol.ActionHID))
				buf.WriteByte(a.Value)
				buf.WriteByte(a.Mask)
				writeDelay(&buf, a.DelayMS)
			case protocol.ActionConsumer:
				buf.WriteByte(byte(protocol.ActionConsumer))
				buf.WriteByte(a.Value)
				writeDelay(&buf, a.DelayMS)
			case protocol.ActionModifier:
				buf.WriteByte(byte(protocol.ActionModifier))
				buf.WriteByte(a.Mask)
				writeDelay(&buf, a.DelayMS)
			default:
				return nil, protocol.NewError(protocol.ErrCInvalidParameter,
					"key %d action %d has unknown type %d", keyID, i, a.Type)
			}
		}
	}
	return buf.Bytes(), nil
}

func writeDelay(buf *bytes.Buffer, delayMS uint16) {
	buf.WriteByte(byte(delayMS & 0xFF))
	buf.WriteByte(byte(delayMS >> 8))
}

// --------------------------------------------------------------------------
// Parser
// --------------------------------------------------------------------------

// Parse reads a binary bundle back into a configuration.
func Parse(data []byte) (Config, error) {
	if len(data) < len(magic)+2 {
		return nil, protocol.NewError(protocol.ErrCMalformedPayload,
			"bundle too short: %d bytes", len(data))
	}
	if !bytes.Equal(data[:len(magic)], magic) {
		return nil, protocol.NewError(protocol.ErrCMalformedPayload,
			"bundle magic mismatch")
	}
	if data[len(magic)] != version {
		return nil, protocol.NewError(protocol.ErrCMalformedPayload,
			"unsupported bundle version 0x%02X", data[len(magic)])
	}

	keyCount := int(data[len(magic)+1])
	pos := len(magic) + 2
	cfg := make(Config, keyCount)

	for k := 0; k < keyCount; k++ {
		if pos+2 > len(data) {
			return nil, protocol.NewError(protocol.ErrCMalformedPayload,
				"bundle truncated at key %d header", k)
		}
		keyID := data[pos]
		actionCount := int(data[pos+1])
		pos += 2

		actions := make([]protocol.KeyAction, 0, actionCount)
		for i := 0; i < actionCount; i++ {
			if pos >= len(data) {
				return nil, protocol.NewError(protocol.ErrCMalformedPayload,
					"bundle truncated at key %d action %d", keyID, i)
			}
			switch protocol.ActionType(data[pos]) {
			case protocol.ActionUTF8:
				if pos+4 > len(data) {
					return nil, protocol.NewError(protocol.ErrCMalformedPayload,
						"bundle truncated in utf8 action header of key %d", keyID)
				}
				textLen := int(data[pos+1])
				delay := readDelay(data[pos+2:])
				pos += 4
				if pos+textLen > len(data) {
					return nil, protocol.NewError(protocol.ErrCMalformedPayload,
						"key %d utf8 action declares %d text bytes, %d remain", keyID, textLen, len(data)-pos)
				}
				actions = append(actions, protocol.KeyAction{
					Type:    protocol.ActionUTF8,
					DelayMS: delay,
					Text:    string(data[pos : pos+textLen]),
				})
				pos += textLen
			case protocol.ActionHID:
				if pos+5 > len(data) {
					return nil, protocol.NewError(protocol.ErrCMalformedPayload,
						"bundle truncated in hid action of key %d", keyID)
				}
				actions = append(actions, protocol.KeyAction{
					Type:    protocol.ActionHID,
					Value:   data[pos+1],
					Mask:    data[pos+2],
					DelayMS: readDelay(data[pos+3:]),
				})
				pos += 5
			case protocol.ActionConsumer:
				if pos+4 > len(data) {
					return nil, protocol.NewError(protocol.ErrCMalformedPayload,
						"bundle truncated in consumer action of key %d", keyID)
				}
				actions = append(actions, protocol.KeyAction{
					Type:    protocol.ActionConsumer,
					Value:   data[pos+1],
					DelayMS: readDelay(data[pos+2:]),
				})
				pos += 4
			case protocol.ActionModifier:
				if pos+4 > len(data) {
					return nil, protocol.NewError(protocol.ErrCMalformedPayload,
						"bundle truncated in modifier action of key %d", keyID)
				}
				actions = append(actions, protocol.KeyAction{
					Type:    protocol.ActionModifier,
					Mask:    data[pos+1],
					DelayMS: readDelay(data[pos+2:]),
				})
				pos += 4
			default:
				return nil, protocol.NewError(protocol.ErrCMalformedPayload,
					"key %d has unknown action type 0x%02X", keyID, data[pos])
			}
		}
		cfg[keyID] = actions
	}

	if pos != len(data) {
		return nil, protocol.NewError(protocol.ErrCMalformedPayload,
			"bundle has %d trailing bytes", len(data)-pos)
	}
	return cfg, nil
}

func readDelay(data []byte) uint16 {
	return uint16(data[0]) | uint16(data[1])<<8
}
