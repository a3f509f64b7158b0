package registry

import (
	"github.com/ardent-devices/scanlink/lib/protocol"
)

// --------------------------------------------------------------------------
// Entry Definition
// --------------------------------------------------------------------------

// Entry describes one registered command: its identity, its opcode, and
// the codec for its parameter payload (the bytes following the opcode).
type Entry struct {
	Namespace protocol.Namespace
	Opcode    byte
	Domain    string
	Action    string

	// Encode validates the parameter values against the action's declared
	// shape and returns the payload bytes. It never includes the opcode.
	Encode func(protocol.Params) ([]byte, error)

	// Decode parses payload bytes back into parameter values. It performs
	// structural validation only (lengths, not value ranges).
	Decode func([]byte) (protocol.Params, error)
}

// --------------------------------------------------------------------------
// Lookup Functions
// --------------------------------------------------------------------------

type opcodeKey struct {
	ns     protocol.Namespace
	opcode byte
}

type actionKey struct {
	domain string
	action string
}

var (
	byAction = map[actionKey]*Entry{}
	byOpcode = map[opcodeKey]*Entry{}
)

// Lookup returns the entry for a (domain, action) pair.
func Lookup(domain, action string) (*Entry, error) {
	e, ok := byAction[actionKey{domain, action}]
	if !ok {
		return nil, protocol.NewError(protocol.ErrCUnknownCommand,
			"no command registered for %s.%s", domain, action)
	}
	return e, nil
}

// ByOpcode returns the entry for an opcode within a namespace.
func ByOpcode(ns protocol.Namespace, opcode byte) (*Entry, error) {
	e, ok := byOpcode[opcodeKey{ns, opcode}]
	if !ok {
		return nil, protocol.NewError(protocol.ErrCUnknownOpcode,
			"no %s command registered for opcode 0x%02X", ns, opcode)
	}
	return e, nil
}

// Entries returns every registered entry. The returned slice is a copy;
// the table itself is immutable after initialization.
func Entries() []Entry {
	out := make([]Entry, 0, len(byAction))
	for _, e := range byAction {
		out = append(out, *e)
	}
	return out
}

// register adds an entry to both lookup tables. Called from init only;
// duplicate opcodes or actions indicate a programming error and panic.
func register(e Entry) {
	ak := actionKey{e.Domain, e.Action}
	ok := opcodeKey{e.Namespace, e.Opcode}
	if _, dup := byAction[ak]; dup {
		panic("registry: duplicate action " + e.Domain + "." + e.Action)
	}
	if _, dup := byOpcode[ok]; dup {
		panic("registry: duplicate opcode in namespace " + e.Namespace.String())
	}
	entry := e
	byAction[ak] = &entry
	byOpcode[ok] = &entry
}
