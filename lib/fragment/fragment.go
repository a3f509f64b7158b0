package fragment

import (
	"github.com/ardent-devices/scanlink/lib/protocol"
)

// --------------------------------------------------------------------------
// Fragment Definition
// --------------------------------------------------------------------------

// Kind distinguishes intermediate fragments from the final one that
// triggers completion checking on the device.
type Kind uint8

const (
	KindIntermediate Kind = iota
	KindFinal
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindIntermediate:
		return "intermediate"
	case KindFinal:
		return "final"
	default:
		return "unknown"
	}
}

// Fragment is one ordered chunk of a payload too large for a single
// transport unit. Index is 0-based and always less than Total; exactly
// one fragment of a transfer has Kind KindFinal.
type Fragment struct {
	TransferID string
	Index      int
	Total      int
	Kind       Kind
	Chunk      string
}

// Final reports whether this fragment carries the completion trigger.
func (f Fragment) Final() bool {
	return f.Kind == KindFinal
}

// --------------------------------------------------------------------------
// Framing Overhead
// --------------------------------------------------------------------------

// Overhead of the wire framing around a chunk: "$LUAX:" + "$" for the
// final fragment, "$LUA<n>:" + "$" for intermediates (n is 1-based on the
// wire, so it gains a digit at fragment 10).
const finalOverhead = len("$LUAX:") + 1

func intermediateOverhead(index int) int {
	n := index + 1
	if n >= 10 {
		return len("$LUA") + 2 + 1 + 1
	}
	return len("$LUA") + 1 + 1 + 1
}

// --------------------------------------------------------------------------
// Splitter
// --------------------------------------------------------------------------

// Split divides encodedText into the minimum number of fragments such
// that each fragment, once wrapped in its envelope framing, is at most
// maxUnitSize characters. A payload that fits in one unit yields a single
// fragment marked final with Total 1. The last fragment in emission order
// is always the final one.
func Split(encodedText string, maxUnitSize int, transferID string) ([]Fragment, error) {
	if maxUnitSize < protocol.MinUnitSize {
		return nil, protocol.NewError(protocol.ErrCInvalidParameter,
			"max unit size %d below the %d minimum", maxUnitSize, protocol.MinUnitSize)
	}
	if encodedText == "" {
		return nil, protocol.NewError(protocol.ErrCInvalidParameter,
			"nothing to fragment: encoded text is empty")
	}

	var frags []Fragment
	offset := 0
	for offset < len(encodedText) {
		index := len(frags)
		if index >= protocol.MaxFragments {
			return nil, protocol.NewError(protocol.ErrCPayloadTooLarge,
				"payload of %d characters needs more than %d units of %d",
				len(encodedText), protocol.MaxFragments, maxUnitSize)
		}

		remaining := len(encodedText) - offset
		if remaining <= maxUnitSize-finalOverhead {
			frags = append(frags, Fragment{
				TransferID: transferID,
				Index:      index,
				Kind:       KindFinal,
				Chunk:      encodedText[offset:],
			})
			offset = len(encodedText)
			break
		}

		chunkSize := maxUnitSize - intermediateOverhead(index)
		frags = append(frags, Fragment{
			TransferID: transferID,
			Index:      index,
			Kind:       KindIntermediate,
			Chunk:      encodedText[offset : offset+chunkSize],
		})
		offset += chunkSize
	}

	for i := range frags {
		frags[i].Total = len(frags)
	}
	return frags, nil
}
