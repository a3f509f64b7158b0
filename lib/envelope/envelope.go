package envelope

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/ardent-devices/scanlink/lib/fragment"
	"github.com/ardent-devices/scanlink/lib/protocol"
)

// --------------------------------------------------------------------------
// Envelope Kinds
// --------------------------------------------------------------------------

// Kind classifies a transport unit by its marker.
type Kind uint8

const (
	KindCommand Kind = iota
	KindBatch
	KindFullConfig
	KindScriptFragment
	KindScriptFinal
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindBatch:
		return "batch"
	case KindFullConfig:
		return "full config"
	case KindScriptFragment:
		return "script fragment"
	case KindScriptFinal:
		return "script final"
	default:
		return "unknown"
	}
}

// Envelope is a classified transport unit: its kind, the framing-stripped
// body, and the marker-carried metadata (namespace for commands, 1-based
// wire sequence for intermediate script fragments).
type Envelope struct {
	Kind      Kind
	Namespace protocol.Namespace
	Seq       int
	Body      string
}

// --------------------------------------------------------------------------
// Classification
// --------------------------------------------------------------------------

// fixedMarkers is the ordered pattern table for all markers with a
// constant prefix. $LUA<n>: is handled separately because its prefix
// embeds the sequence number.
var fixedMarkers = []struct {
	prefix string
	suffix string
	kind   Kind
	ns     protocol.Namespace
}{
	{"$CMD:DEV:", "CMD$", KindCommand, protocol.NamespaceDevice},
	{"$CMD:KEY:", "CMD$", KindCommand, protocol.NamespaceKey},
	{"$BATCH:", "$", KindBatch, 0},
	{"$FULL:", "$", KindFullConfig, 0},
	{"$LUAX:", "$", KindScriptFinal, 0},
}

// Classify identifies a transport unit's kind from its literal marker and
// strips the framing. Unclassifiable input is a hard rejection.
func Classify(text string) (Envelope, error) {
	for _, m := range fixedMarkers {
		if strings.HasPrefix(text, m.prefix) && strings.HasSuffix(text, m.suffix) &&
			len(text) >= len(m.prefix)+len(m.suffix) {
			return Envelope{
				Kind:      m.kind,
				Namespace: m.ns,
				Body:      text[len(m.prefix) : len(text)-len(m.suffix)],
			}, nil
		}
	}

	if seq, body, ok := splitScriptFragment(text); ok {
		return Envelope{Kind: KindScriptFragment, Seq: seq, Body: body}, nil
	}

	return Envelope{}, protocol.NewError(protocol.ErrCUnrecognizedEnvelope,
		"no known marker matches %q", truncate(text, 24))
}

// splitScriptFragment matches $LUA<n>:<body>$ with n >= 1.
func splitScriptFragment(text string) (int, string, bool) {
	const prefix = "$LUA"
	if !strings.HasPrefix(text, prefix) || !strings.HasSuffix(text, "$") || len(text) < len(prefix)+3 {
		return 0, "", false
	}
	rest := text[len(prefix) : len(text)-1]
	colon := strings.IndexByte(rest, ':')
	if colon < 1 {
		return 0, "", false
	}
	seq, err := strconv.Atoi(rest[:colon])
	if err != nil || seq < 1 || seq > protocol.MaxFragments {
		return 0, "", false
	}
	return seq, rest[colon+1:], true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// --------------------------------------------------------------------------
// Formatting
// --------------------------------------------------------------------------

// FormatCommand renders a single encoded command (opcode+payload bytes)
// as its wire form, e.g. $CMD:DEV:1001CMD$.
func FormatCommand(ns protocol.Namespace, encoded []byte) string {
	return fmt.Sprintf("$CMD:%s:%sCMD$", ns, strings.ToUpper(hex.EncodeToString(encoded)))
}

// FormatBatch wraps a text-encoded batch body.
func FormatBatch(body string) string {
	return "$BATCH:" + body + "$"
}

// FormatFullConfig wraps a text-encoded configuration bundle body.
func FormatFullConfig(body string) string {
	return "$FULL:" + body + "$"
}

// FormatFragment renders one script fragment. The final fragment uses the
// $LUAX: execute marker; intermediates carry their 1-based sequence.
func FormatFragment(f fragment.Fragment) string {
	if f.Final() {
		return "$LUAX:" + f.Chunk + "$"
	}
	return fmt.Sprintf("$LUA%d:%s$", f.Index+1, f.Chunk)
}
