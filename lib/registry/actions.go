package registry

import (
	"encoding/binary"

	"github.com/ardent-devices/scanlink/lib/protocol"
)

// Opcode assignments. Values match the original QR opcode map of the
// device firmware; see the versioning contract in doc.go.
const (
	opLEDOn           = 0x10
	opLEDOff          = 0x11
	opAllLEDsOff      = 0x12
	opBuzzerMelody    = 0x20
	opBuzzerBeep      = 0x21
	opBuzzerStop      = 0x22
	opSetOrientation  = 0x30
	opSetLanguage     = 0x31
	opSetAutoShutdown = 0x32
	opDeviceInfo      = 0x40
	opBatteryLevel    = 0x41
	opLuaClear        = 0x50
	opLuaInfo         = 0x51

	opSetKey        = 0x10
	opClearKey      = 0x12
	opSetKeyEnabled = 0x13
	opSaveConfig    = 0x21
	opFactoryReset  = 0x22
)

func init() {
	// Device namespace

	register(Entry{
		Namespace: protocol.NamespaceDevice, Opcode: opLEDOn,
		Domain: protocol.DomainLEDControl, Action: "led_on",
		Encode: encodeLEDID, Decode: decodeLEDID,
	})
	register(Entry{
		Namespace: protocol.NamespaceDevice, Opcode: opLEDOff,
		Domain: protocol.DomainLEDControl, Action: "led_off",
		Encode: encodeLEDID, Decode: decodeLEDID,
	})
	register(Entry{
		Namespace: protocol.NamespaceDevice, Opcode: opAllLEDsOff,
		Domain: protocol.DomainLEDControl, Action: "all_leds_off",
		Encode: encodeEmpty, Decode: decodeEmpty,
	})
	register(Entry{
		Namespace: protocol.NamespaceDevice, Opcode: opBuzzerMelody,
		Domain: protocol.DomainBuzzer, Action: "melody",
		Encode: encodeMelody, Decode: decodeMelody,
	})
	register(Entry{
		Namespace: protocol.NamespaceDevice, Opcode: opBuzzerBeep,
		Domain: protocol.DomainBuzzer, Action: "beep",
		Encode: encodeBeep, Decode: decodeBeep,
	})
	register(Entry{
		Namespace: protocol.NamespaceDevice, Opcode: opBuzzerStop,
		Domain: protocol.DomainBuzzer, Action: "stop",
		Encode: encodeEmpty, Decode: decodeEmpty,
	})
	register(Entry{
		Namespace: protocol.NamespaceDevice, Opcode: opSetOrientation,
		Domain: protocol.DomainDeviceSettings, Action: "set_orientation",
		Encode: encodeOrientation, Decode: decodeOrientation,
	})
	register(Entry{
		Namespace: protocol.NamespaceDevice, Opcode: opSetLanguage,
		Domain: protocol.DomainDeviceSettings, Action: "set_language",
		Encode: encodeLanguage, Decode: decodeLanguage,
	})
	register(Entry{
		Namespace: protocol.NamespaceDevice, Opcode: opSetAutoShutdown,
		Domain: protocol.DomainDeviceSettings, Action: "set_auto_shutdown",
		Encode: encodeAutoShutdown, Decode: decodeAutoShutdown,
	})
	register(Entry{
		Namespace: protocol.NamespaceDevice, Opcode: opDeviceInfo,
		Domain: protocol.DomainDeviceStatus, Action: "device_info",
		Encode: encodeEmpty, Decode: decodeEmpty,
	})
	register(Entry{
		Namespace: protocol.NamespaceDevice, Opcode: opBatteryLevel,
		Domain: protocol.DomainDeviceStatus, Action: "battery_level",
		Encode: encodeEmpty, Decode: decodeEmpty,
	})
	register(Entry{
		Namespace: protocol.NamespaceDevice, Opcode: opLuaClear,
		Domain: protocol.DomainLuaManagement, Action: "clear_script",
		Encode: encodeEmpty, Decode: decodeEmpty,
	})
	register(Entry{
		Namespace: protocol.NamespaceDevice, Opcode: opLuaInfo,
		Domain: protocol.DomainLuaManagement, Action: "get_script_info",
		Encode: encodeEmpty, Decode: decodeEmpty,
	})

	// Key configuration namespace

	register(Entry{
		Namespace: protocol.NamespaceKey, Opcode: opSetKey,
		Domain: protocol.DomainKeyConfig, Action: "set_key",
		Encode: encodeSetKey, Decode: decodeSetKey,
	})
	register(Entry{
		Namespace: protocol.NamespaceKey, Opcode: opClearKey,
		Domain: protocol.DomainKeyConfig, Action: "clear_key",
		Encode: encodeKeyID, Decode: decodeKeyID,
	})
	register(Entry{
		Namespace: protocol.NamespaceKey, Opcode: opSetKeyEnabled,
		Domain: protocol.DomainKeyConfig, Action: "set_key_enabled",
		Encode: encodeKeyEnabled, Decode: decodeKeyEnabled,
	})
	register(Entry{
		Namespace: protocol.NamespaceKey, Opcode: opSaveConfig,
		Domain: protocol.DomainKeyConfig, Action: "save_config",
		Encode: encodeEmpty, Decode: decodeEmpty,
	})
	register(Entry{
		Namespace: protocol.NamespaceKey, Opcode: opFactoryReset,
		Domain: protocol.DomainKeyConfig, Action: "factory_reset",
		Encode: encodeEmpty, Decode: decodeEmpty,
	})
}

// --------------------------------------------------------------------------
// Parameter Codecs
// --------------------------------------------------------------------------

func encodeEmpty(protocol.Params) ([]byte, error) {
	return nil, nil
}

func decodeEmpty(payload []byte) (protocol.Params, error) {
	if len(payload) != 0 {
		return protocol.Params{}, protocol.NewError(protocol.ErrCMalformedPayload,
			"expected empty payload, got %d bytes", len(payload))
	}
	return protocol.Params{}, nil
}

func encodeLEDID(p protocol.Params) ([]byte, error) {
	if p.LEDID < protocol.LEDGreen1 || p.LEDID > protocol.LEDGreen3 {
		return nil, protocol.NewError(protocol.ErrCInvalidParameter,
			"led_id must be 1-9, got %d", p.LEDID)
	}
	return []byte{p.LEDID}, nil
}

func decodeLEDID(payload []byte) (protocol.Params, error) {
	if len(payload) != 1 {
		return protocol.Params{}, protocol.NewError(protocol.ErrCMalformedPayload,
			"led payload must be 1 byte, got %d", len(payload))
	}
	return protocol.Params{LEDID: payload[0]}, nil
}

func encodeMelody(p protocol.Params) ([]byte, error) {
	if p.MelodyID < protocol.MelodyKey || p.MelodyID > protocol.MelodySuccess {
		return nil, protocol.NewError(protocol.ErrCInvalidParameter,
			"melody_id must be 1-9, got %d", p.MelodyID)
	}
	return []byte{p.MelodyID}, nil
}

func decodeMelody(payload []byte) (protocol.Params, error) {
	if len(payload) != 1 {
		return protocol.Params{}, protocol.NewError(protocol.ErrCMalformedPayload,
			"melody payload must be 1 byte, got %d", len(payload))
	}
	return protocol.Params{MelodyID: payload[0]}, nil
}

func encodeBeep(p protocol.Params) ([]byte, error) {
	if p.DurationMS == 0 {
		return nil, protocol.NewError(protocol.ErrCInvalidParameter,
			"duration_ms must be non-zero")
	}
	if p.FrequencyHz == 0 {
		return nil, protocol.NewError(protocol.ErrCInvalidParameter,
			"frequency_hz must be non-zero")
	}
	out := make([]byte, 4)
	binary.LittleEndian.PutUint16(out[0:2], p.DurationMS)
	binary.LittleEndian.PutUint16(out[2:4], p.FrequencyHz)
	return out, nil
}

func decodeBeep(payload []byte) (protocol.Params, error) {
	if len(payload) != 4 {
		return protocol.Params{}, protocol.NewError(protocol.ErrCMalformedPayload,
			"beep payload must be 4 bytes, got %d", len(payload))
	}
	return protocol.Params{
		DurationMS:  binary.LittleEndian.Uint16(payload[0:2]),
		FrequencyHz: binary.LittleEndian.Uint16(payload[2:4]),
	}, nil
}

func encodeOrientation(p protocol.Params) ([]byte, error) {
	if p.Orientation > protocol.OrientationLandscapeLeft {
		return nil, protocol.NewError(protocol.ErrCInvalidParameter,
			"orientation must be 0-3, got %d", p.Orientation)
	}
	return []byte{p.Orientation}, nil
}

func decodeOrientation(payload []byte) (protocol.Params, error) {
	if len(payload) != 1 {
		return protocol.Params{}, protocol.NewError(protocol.ErrCMalformedPayload,
			"orientation payload must be 1 byte, got %d", len(payload))
	}
	return protocol.Params{Orientation: payload[0]}, nil
}

func encodeLanguage(p protocol.Params) ([]byte, error) {
	if !protocol.ValidLayout(p.Layout) {
		return nil, protocol.NewError(protocol.ErrCInvalidParameter,
			"layout 0x%04X is not a valid layout code", p.Layout)
	}
	out := make([]byte, 2)
	binary.LittleEndian.PutUint16(out, p.Layout)
	return out, nil
}

func decodeLanguage(payload []byte) (protocol.Params, error) {
	if len(payload) != 2 {
		return protocol.Params{}, protocol.NewError(protocol.ErrCMalformedPayload,
			"language payload must be 2 bytes, got %d", len(payload))
	}
	return protocol.Params{Layout: binary.LittleEndian.Uint16(payload)}, nil
}

func encodeAutoShutdown(p protocol.Params) ([]byte, error) {
	if p.Enabled && p.NoConnTimeoutMin == 0 && p.NoActivityTimeoutMin == 0 {
		return nil, protocol.NewError(protocol.ErrCInvalidParameter,
			"auto shutdown enabled but both timeouts are zero")
	}
	out := make([]byte, 5)
	if p.Enabled {
		out[0] = 1
	}
	binary.LittleEndian.PutUint16(out[1:3], p.NoConnTimeoutMin)
	binary.LittleEndian.PutUint16(out[3:5], p.NoActivityTimeoutMin)
	return out, nil
}

func decodeAutoShutdown(payload []byte) (protocol.Params, error) {
	if len(payload) != 5 {
		return protocol.Params{}, protocol.NewError(protocol.ErrCMalformedPayload,
			"auto shutdown payload must be 5 bytes, got %d", len(payload))
	}
	return protocol.Params{
		Enabled:              payload[0] != 0,
		NoConnTimeoutMin:     binary.LittleEndian.Uint16(payload[1:3]),
		NoActivityTimeoutMin: binary.LittleEndian.Uint16(payload[3:5]),
	}, nil
}

func encodeKeyID(p protocol.Params) ([]byte, error) {
	if p.KeyID > protocol.MaxKeyID {
		return nil, protocol.NewError(protocol.ErrCInvalidParameter,
			"key_id must be 0-%d, got %d", protocol.MaxKeyID, p.KeyID)
	}
	return []byte{p.KeyID}, nil
}

func decodeKeyID(payload []byte) (protocol.Params, error) {
	if len(payload) != 1 {
		return protocol.Params{}, protocol.NewError(protocol.ErrCMalformedPayload,
			"key payload must be 1 byte, got %d", len(payload))
	}
	return protocol.Params{KeyID: payload[0]}, nil
}

func encodeKeyEnabled(p protocol.Params) ([]byte, error) {
	if p.KeyID > protocol.MaxKeyID {
		return nil, protocol.NewError(protocol.ErrCInvalidParameter,
			"key_id must be 0-%d, got %d", protocol.MaxKeyID, p.KeyID)
	}
	out := []byte{p.KeyID, 0}
	if p.Enabled {
		out[1] = 1
	}
	return out, nil
}

func decodeKeyEnabled(payload []byte) (protocol.Params, error) {
	if len(payload) != 2 {
		return protocol.Params{}, protocol.NewError(protocol.ErrCMalformedPayload,
			"key enabled payload must be 2 bytes, got %d", len(payload))
	}
	return protocol.Params{KeyID: payload[0], Enabled: payload[1] != 0}, nil
}

// --------------------------------------------------------------------------
// Key Action Sequence Codec
// --------------------------------------------------------------------------

// Layout: [key_id][action_count] then per action
// [index][type][value][mask][delay_lo][delay_hi] and, for UTF-8 actions,
// [text_len][text...]. This matches the firmware's key configuration
// characteristic byte for byte.

func encodeSetKey(p protocol.Params) ([]byte, error) {
	if p.KeyID > protocol.MaxKeyID {
		return nil, protocol.NewError(protocol.ErrCInvalidParameter,
			"key_id must be 0-%d, got %d", protocol.MaxKeyID, p.KeyID)
	}
	if len(p.Actions) == 0 {
		return nil, protocol.NewError(protocol.ErrCInvalidParameter,
			"actions: at least one action required")
	}
	if len(p.Actions) > protocol.MaxActionsPerKey {
		return nil, protocol.NewError(protocol.ErrCInvalidParameter,
			"actions: at most %d actions per key, got %d", protocol.MaxActionsPerKey, len(p.Actions))
	}

	out := []byte{p.KeyID, byte(len(p.Actions))}
	for i, a := range p.Actions {
		if a.Type > protocol.ActionModifier {
			return nil, protocol.NewError(protocol.ErrCInvalidParameter,
				"actions[%d].type %d is not a known action type", i, a.Type)
		}
		out = append(out, byte(i), byte(a.Type), a.Value, a.Mask,
			byte(a.DelayMS&0xFF), byte(a.DelayMS>>8))

		if a.Type == protocol.ActionUTF8 {
			text := []byte(a.Text)
			if len(text) > protocol.MaxActionTextBytes {
				return nil, protocol.NewError(protocol.ErrCInvalidParameter,
					"actions[%d].text exceeds %d UTF-8 bytes", i, protocol.MaxActionTextBytes)
			}
			out = append(out, byte(len(text)))
			out = append(out, text...)
		} else if a.Text != "" {
			return nil, protocol.NewError(protocol.ErrCInvalidParameter,
				"actions[%d].text is only valid for utf8 actions", i)
		}
	}
	return out, nil
}

func decodeSetKey(payload []byte) (protocol.Params, error) {
	if len(payload) < 2 {
		return protocol.Params{}, protocol.NewError(protocol.ErrCMalformedPayload,
			"set_key payload must be at least 2 bytes, got %d", len(payload))
	}
	keyID := payload[0]
	count := int(payload[1])
	pos := 2

	actions := make([]protocol.KeyAction, 0, count)
	for i := 0; i < count; i++ {
		if pos+6 > len(payload) {
			return protocol.Params{}, protocol.NewError(protocol.ErrCMalformedPayload,
				"set_key payload truncated in action %d", i)
		}
		a := protocol.KeyAction{
			Type:    protocol.ActionType(payload[pos+1]),
			Value:   payload[pos+2],
			Mask:    payload[pos+3],
			DelayMS: uint16(payload[pos+4]) | uint16(payload[pos+5])<<8,
		}
		pos += 6

		if a.Type == protocol.ActionUTF8 {
			if pos+1 > len(payload) {
				return protocol.Params{}, protocol.NewError(protocol.ErrCMalformedPayload,
					"set_key payload truncated before text length of action %d", i)
			}
			textLen := int(payload[pos])
			pos++
			if pos+textLen > len(payload) {
				return protocol.Params{}, protocol.NewError(protocol.ErrCMalformedPayload,
					"set_key action %d declares %d text bytes, %d remain", i, textLen, len(payload)-pos)
			}
			a.Text = string(payload[pos : pos+textLen])
			pos += textLen
		}
		actions = append(actions, a)
	}

	if pos != len(payload) {
		return protocol.Params{}, protocol.NewError(protocol.ErrCMalformedPayload,
			"set_key payload has %d trailing bytes", len(payload)-pos)
	}
	return protocol.Params{KeyID: keyID, Actions: actions}, nil
}
