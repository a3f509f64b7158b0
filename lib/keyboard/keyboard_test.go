package keyboard

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/ardent-devices/scanlink/lib/protocol"
)

func testConfig() Config {
	return Config{
		0: {{Type: protocol.ActionUTF8, Text: "OK", DelayMS: 10}},
		3: {
			{Type: protocol.ActionHID, Value: 0x28, Mask: 0x02, DelayMS: 10},
			{Type: protocol.ActionUTF8, Text: "héllo", DelayMS: 20},
		},
		7: {
			{Type: protocol.ActionConsumer, Value: 0xE9, DelayMS: 50},
			{Type: protocol.ActionModifier, Mask: 0x05, DelayMS: 500},
		},
		19: {{Type: protocol.ActionHID, Value: 0x2B, DelayMS: 5}},
	}
}

// TestBuildParseRoundTrip tests that a bundle parses back to the exact
// configuration it was built from, across all four action types.
func TestBuildParseRoundTrip(t *testing.T) {
	cfg := testConfig()

	bundle, err := Build(cfg)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	parsed, err := Parse(bundle)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, parsed) {
		t.Errorf("round trip mismatch:\noriginal: %+v\nparsed: %+v", cfg, parsed)
	}
}

// TestDelayRoundTrip tests that delays above one byte survive the bundle
// unchanged.
func TestDelayRoundTrip(t *testing.T) {
	for _, delay := range []uint16{0, 255, 256, 300, 1000, 65535} {
		cfg := Config{1: {{Type: protocol.ActionHID, Value: 0x04, DelayMS: delay}}}

		bundle, err := Build(cfg)
		if err != nil {
			t.Fatalf("delay %d: build failed: %v", delay, err)
		}
		parsed, err := Parse(bundle)
		if err != nil {
			t.Fatalf("delay %d: parse failed: %v", delay, err)
		}
		if got := parsed[1][0].DelayMS; got != delay {
			t.Errorf("delay %d came back as %d", delay, got)
		}
	}
}

// TestBuildDeterminism tests that map iteration order does not leak into
// the bundle.
func TestBuildDeterminism(t *testing.T) {
	a, err := Build(testConfig())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	b, err := Build(testConfig())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same configuration produced different bundles")
	}
}

func TestBuildHeader(t *testing.T) {
	bundle, err := Build(Config{7: {{Type: protocol.ActionHID, Value: 0x04, DelayMS: 300}}})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	want := []byte{'G', 'Y', 'W', 0x01, 0x01, 0x07, 0x01, 0x01, 0x04, 0x00, 0x2C, 0x01}
	if !bytes.Equal(bundle, want) {
		t.Errorf("expected %v, got %v", want, bundle)
	}
}

func TestBuildValidation(t *testing.T) {
	tooMany := make([]protocol.KeyAction, protocol.MaxActionsPerKey+1)
	for i := range tooMany {
		tooMany[i] = protocol.KeyAction{Type: protocol.ActionHID, Value: 0x04}
	}

	cases := map[string]Config{
		"empty config":     {},
		"key id too large": {protocol.MaxKeyID + 1: {{Type: protocol.ActionHID, Value: 0x04}}},
		"key without actions": {
			1: {},
		},
		"too many actions": {1: tooMany},
		"text too long": {
			1: {{Type: protocol.ActionUTF8, Text: strings.Repeat("a", protocol.MaxActionTextBytes+1)}},
		},
		"unknown action type": {
			1: {{Type: protocol.ActionType(9), Value: 0x04}},
		},
	}

	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Build(cfg); protocol.CodeOf(err) != protocol.ErrCInvalidParameter {
				t.Errorf("expected invalid parameter, got %v", err)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	valid, err := Build(testConfig())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	cases := map[string][]byte{
		"empty":                   nil,
		"too short":               []byte("GYW"),
		"wrong magic":             append([]byte("XYZ"), valid[3:]...),
		"wrong version":           append([]byte("GYW\x02"), valid[4:]...),
		"truncated mid key":       valid[:len(valid)-3],
		"trailing bytes":          append(append([]byte{}, valid...), 0x00),
		"unknown action type":     {'G', 'Y', 'W', 0x01, 0x01, 0x00, 0x01, 0x09},
		"truncated consumer":      {'G', 'Y', 'W', 0x01, 0x01, 0x00, 0x01, 0x02, 0xE9},
		"truncated modifier":      {'G', 'Y', 'W', 0x01, 0x01, 0x00, 0x01, 0x03, 0x05, 0x00},
		"truncated utf8 header":   {'G', 'Y', 'W', 0x01, 0x01, 0x00, 0x01, 0x00, 0x02, 0x00},
		"utf8 text len overruns":  {'G', 'Y', 'W', 0x01, 0x01, 0x00, 0x01, 0x00, 0x04, 0x00, 0x00, 0x41},
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(data); protocol.CodeOf(err) != protocol.ErrCMalformedPayload {
				t.Errorf("expected malformed payload, got %v", err)
			}
		})
	}
}
