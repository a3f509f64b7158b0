package codec

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/ardent-devices/scanlink/lib/protocol"
)

// testCommands creates one valid command per registered action.
func testCommands() []protocol.Command {
	return []protocol.Command{
		protocol.NewLEDOn(1),
		protocol.NewLEDOff(protocol.LEDWhite),
		protocol.NewAllLEDsOff(),
		protocol.NewBuzzerMelody(protocol.MelodySuccess),
		protocol.NewBuzzerBeep(200, 1000),
		protocol.NewBuzzerStop(),
		protocol.NewSetOrientation(protocol.OrientationLandscapeLeft),
		protocol.NewSetLanguage(protocol.LayoutWinFRAzerty),
		protocol.NewSetAutoShutdown(true, 30, 60),
		protocol.NewDeviceInfo(),
		protocol.NewBatteryLevel(),
		protocol.NewLuaClear(),
		protocol.NewLuaInfo(),
		protocol.NewSetKey(3, []protocol.KeyAction{
			{Type: protocol.ActionUTF8, DelayMS: 10, Text: "héllo"},
			{Type: protocol.ActionHID, Value: 0x28, Mask: 0x02, DelayMS: 10},
			{Type: protocol.ActionConsumer, Value: 0xE9, DelayMS: 10},
			{Type: protocol.ActionModifier, Mask: 0x05, DelayMS: 10},
		}),
		protocol.NewClearKey(19),
		protocol.NewSetKeyEnabled(7, true),
		protocol.NewSaveConfig(),
		protocol.NewFactoryReset(),
	}
}

// TestCommandRoundTrip tests that every command decodes back to itself.
func TestCommandRoundTrip(t *testing.T) {
	for _, cmd := range testCommands() {
		t.Run(cmd.Domain+"."+cmd.Action, func(t *testing.T) {
			ns, encoded, err := EncodeCommand(cmd)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}
			decoded, err := DecodeCommand(ns, encoded)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if !reflect.DeepEqual(cmd, decoded) {
				t.Errorf("round trip mismatch:\nencoded: %v\ndecoded: %+v\noriginal: %+v", encoded, decoded, cmd)
			}
		})
	}
}

// TestCommandWireBytes pins the opcode+payload layout of a known command.
func TestCommandWireBytes(t *testing.T) {
	ns, encoded, err := EncodeCommand(protocol.NewLEDOn(1))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if ns != protocol.NamespaceDevice {
		t.Errorf("expected device namespace, got %s", ns)
	}
	if !bytes.Equal(encoded, []byte{0x10, 0x01}) {
		t.Errorf("expected [0x10 0x01], got %v", encoded)
	}
}

func TestEncodeCommandValidation(t *testing.T) {
	cases := map[string]protocol.Command{
		"unknown action":        {Domain: protocol.DomainLEDControl, Action: "led_dim"},
		"unknown domain":        {Domain: "display", Action: "clear"},
		"led id out of range":   protocol.NewLEDOn(10),
		"led id zero":           protocol.NewLEDOn(0),
		"melody out of range":   protocol.NewBuzzerMelody(12),
		"orientation too large": protocol.NewSetOrientation(4),
		"bad layout code":       protocol.NewSetLanguage(0x0001),
		"beep zero duration":    protocol.NewBuzzerBeep(0, 1000),
		"key id out of range":   protocol.NewClearKey(20),
		"no actions":            protocol.NewSetKey(1, nil),
		"text too long": protocol.NewSetKey(1, []protocol.KeyAction{
			{Type: protocol.ActionUTF8, Text: "this is too long"},
		}),
	}

	for name, cmd := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, err := EncodeCommand(cmd); err == nil {
				t.Errorf("expected error encoding %s.%s", cmd.Domain, cmd.Action)
			}
		})
	}
}

func TestDecodeCommandMalformed(t *testing.T) {
	cases := map[string]struct {
		ns   protocol.Namespace
		data []byte
		code protocol.ErrCode
	}{
		"empty":              {protocol.NamespaceDevice, nil, protocol.ErrCMalformedPayload},
		"unknown opcode":     {protocol.NamespaceDevice, []byte{0xEE}, protocol.ErrCUnknownOpcode},
		"missing payload":    {protocol.NamespaceDevice, []byte{0x10}, protocol.ErrCMalformedPayload},
		"trailing bytes":     {protocol.NamespaceDevice, []byte{0x12, 0x01}, protocol.ErrCMalformedPayload},
		"truncated beep":     {protocol.NamespaceDevice, []byte{0x21, 0xC8, 0x00, 0xE8}, protocol.ErrCMalformedPayload},
		"wrong namespace":    {protocol.NamespaceKey, []byte{0x40}, protocol.ErrCUnknownOpcode},
		"truncated actions":  {protocol.NamespaceKey, []byte{0x10, 0x03, 0x02, 0x00, 0x01}, protocol.ErrCMalformedPayload},
		"text len overflows": {protocol.NamespaceKey, []byte{0x10, 0x03, 0x01, 0x00, 0x00, 0x00, 0x0A, 0x00, 0x08, 0x41}, protocol.ErrCMalformedPayload},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCommand(tc.ns, tc.data)
			if err == nil {
				t.Fatal("expected error, got none")
			}
			if got := protocol.CodeOf(err); got != tc.code {
				t.Errorf("expected code %s, got %s (%v)", tc.code, got, err)
			}
		})
	}
}

// TestBatchRoundTrip tests order preservation through the batch framing.
func TestBatchRoundTrip(t *testing.T) {
	cmds := []protocol.Command{
		protocol.NewLEDOn(1),
		protocol.NewBuzzerMelody(protocol.MelodyConfirm),
		protocol.NewAllLEDsOff(),
		protocol.NewSetOrientation(protocol.OrientationPortrait),
	}

	data, err := EncodeBatch(cmds)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	decoded, err := DecodeBatch(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !reflect.DeepEqual(cmds, decoded) {
		t.Errorf("batch round trip mismatch:\noriginal: %+v\ndecoded: %+v", cmds, decoded)
	}
}

func TestBatchCeiling(t *testing.T) {
	cmds := make([]protocol.Command, protocol.MaxBatchCommands+1)
	for i := range cmds {
		cmds[i] = protocol.NewAllLEDsOff()
	}

	if _, err := EncodeBatch(cmds); protocol.CodeOf(err) != protocol.ErrCBatchTooLarge {
		t.Errorf("expected batch too large, got %v", err)
	}
	if _, err := EncodeBatch(cmds[:protocol.MaxBatchCommands]); err != nil {
		t.Errorf("batch at the ceiling should encode, got %v", err)
	}
}

func TestBatchRejectsKeyCommands(t *testing.T) {
	_, err := EncodeBatch([]protocol.Command{protocol.NewSaveConfig()})
	if protocol.CodeOf(err) != protocol.ErrCInvalidParameter {
		t.Errorf("expected invalid parameter, got %v", err)
	}
}

func TestDecodeBatchMalformed(t *testing.T) {
	valid, err := EncodeBatch([]protocol.Command{protocol.NewLEDOn(1), protocol.NewBuzzerStop()})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	cases := map[string][]byte{
		"empty":              nil,
		"zero count":         {0x00},
		"count overruns":     {0x02, 0x02, 0x10, 0x01},
		"length overruns":    {0x01, 0x05, 0x10, 0x01},
		"trailing bytes":     append(append([]byte{}, valid...), 0xFF),
		"zero length member": {0x01, 0x00},
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeBatch(data); protocol.CodeOf(err) != protocol.ErrCMalformedPayload {
				t.Errorf("expected malformed payload, got %v", err)
			}
		})
	}
}
