package registry

import (
	"testing"

	"github.com/ardent-devices/scanlink/lib/protocol"
)

// TestLookupTable tests the identity of every registered command against
// its published opcode.
func TestLookupTable(t *testing.T) {
	cases := []struct {
		ns     protocol.Namespace
		opcode byte
		domain string
		action string
	}{
		{protocol.NamespaceDevice, 0x10, protocol.DomainLEDControl, "led_on"},
		{protocol.NamespaceDevice, 0x11, protocol.DomainLEDControl, "led_off"},
		{protocol.NamespaceDevice, 0x12, protocol.DomainLEDControl, "all_leds_off"},
		{protocol.NamespaceDevice, 0x20, protocol.DomainBuzzer, "melody"},
		{protocol.NamespaceDevice, 0x21, protocol.DomainBuzzer, "beep"},
		{protocol.NamespaceDevice, 0x22, protocol.DomainBuzzer, "stop"},
		{protocol.NamespaceDevice, 0x30, protocol.DomainDeviceSettings, "set_orientation"},
		{protocol.NamespaceDevice, 0x31, protocol.DomainDeviceSettings, "set_language"},
		{protocol.NamespaceDevice, 0x32, protocol.DomainDeviceSettings, "set_auto_shutdown"},
		{protocol.NamespaceDevice, 0x40, protocol.DomainDeviceStatus, "device_info"},
		{protocol.NamespaceDevice, 0x41, protocol.DomainDeviceStatus, "battery_level"},
		{protocol.NamespaceDevice, 0x50, protocol.DomainLuaManagement, "clear_script"},
		{protocol.NamespaceDevice, 0x51, protocol.DomainLuaManagement, "get_script_info"},
		{protocol.NamespaceKey, 0x10, protocol.DomainKeyConfig, "set_key"},
		{protocol.NamespaceKey, 0x12, protocol.DomainKeyConfig, "clear_key"},
		{protocol.NamespaceKey, 0x13, protocol.DomainKeyConfig, "set_key_enabled"},
		{protocol.NamespaceKey, 0x21, protocol.DomainKeyConfig, "save_config"},
		{protocol.NamespaceKey, 0x22, protocol.DomainKeyConfig, "factory_reset"},
	}

	if got := len(Entries()); got != len(cases) {
		t.Errorf("expected %d registered commands, got %d", len(cases), got)
	}

	for _, tc := range cases {
		t.Run(tc.domain+"."+tc.action, func(t *testing.T) {
			e, err := Lookup(tc.domain, tc.action)
			if err != nil {
				t.Fatalf("lookup failed: %v", err)
			}
			if e.Namespace != tc.ns || e.Opcode != tc.opcode {
				t.Errorf("expected %s opcode 0x%02X, got %s opcode 0x%02X",
					tc.ns, tc.opcode, e.Namespace, e.Opcode)
			}

			back, err := ByOpcode(tc.ns, tc.opcode)
			if err != nil {
				t.Fatalf("opcode lookup failed: %v", err)
			}
			if back.Domain != tc.domain || back.Action != tc.action {
				t.Errorf("opcode 0x%02X resolves to %s.%s", tc.opcode, back.Domain, back.Action)
			}
			if e.Encode == nil || e.Decode == nil {
				t.Error("entry is missing a codec")
			}
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup(protocol.DomainLEDControl, "led_blink"); protocol.CodeOf(err) != protocol.ErrCUnknownCommand {
		t.Errorf("expected unknown command, got %v", err)
	}
	if _, err := Lookup("display", "clear"); protocol.CodeOf(err) != protocol.ErrCUnknownCommand {
		t.Errorf("expected unknown command, got %v", err)
	}
}

func TestByOpcodeUnknown(t *testing.T) {
	if _, err := ByOpcode(protocol.NamespaceDevice, 0xEE); protocol.CodeOf(err) != protocol.ErrCUnknownOpcode {
		t.Errorf("expected unknown opcode, got %v", err)
	}
	// Device opcodes are not visible through the key namespace.
	if _, err := ByOpcode(protocol.NamespaceKey, 0x40); protocol.CodeOf(err) != protocol.ErrCUnknownOpcode {
		t.Errorf("expected unknown opcode, got %v", err)
	}
}
