package key

import (
	"reflect"
	"testing"

	"github.com/ardent-devices/scanlink/lib/protocol"
)

func TestParseConfigLine(t *testing.T) {
	cases := map[string]struct {
		line   string
		keyID  uint8
		action protocol.KeyAction
	}{
		"text": {
			line:   "0 text hello",
			action: protocol.KeyAction{Type: protocol.ActionUTF8, Text: "hello"},
		},
		"text with spaces": {
			line:   "2 text a b",
			keyID:  2,
			action: protocol.KeyAction{Type: protocol.ActionUTF8, Text: "a b"},
		},
		"hid full": {
			line:   "3 hid 0x28:0x02:100",
			keyID:  3,
			action: protocol.KeyAction{Type: protocol.ActionHID, Value: 0x28, Mask: 0x02, DelayMS: 100},
		},
		"consumer": {
			line:   "7 consumer 0xE9",
			keyID:  7,
			action: protocol.KeyAction{Type: protocol.ActionConsumer, Value: 0xE9},
		},
		"consumer with delay": {
			line:   "7 consumer 0xE9:300",
			keyID:  7,
			action: protocol.KeyAction{Type: protocol.ActionConsumer, Value: 0xE9, DelayMS: 300},
		},
		"modifier": {
			line:   "19 modifier 0x05:50",
			keyID:  19,
			action: protocol.KeyAction{Type: protocol.ActionModifier, Mask: 0x05, DelayMS: 50},
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			keyID, action, err := parseConfigLine(c.line)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if keyID != c.keyID {
				t.Errorf("expected key %d, got %d", c.keyID, keyID)
			}
			if !reflect.DeepEqual(action, c.action) {
				t.Errorf("expected %+v, got %+v", c.action, action)
			}
		})
	}
}

func TestParseConfigLineRejects(t *testing.T) {
	cases := map[string]string{
		"missing value":        "3 hid",
		"unknown action type":  "3 media 0xE9",
		"key out of range":     "20 text hi",
		"consumer bad code":    "3 consumer zz",
		"consumer extra field": "3 consumer 0xE9:10:20",
		"modifier bad delay":   "3 modifier 0x05:abc",
	}

	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, err := parseConfigLine(line); err == nil {
				t.Errorf("expected error for %q", line)
			}
		})
	}
}
