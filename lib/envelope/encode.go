package envelope

import (
	"github.com/ardent-devices/scanlink/lib/codec"
	"github.com/ardent-devices/scanlink/lib/fragment"
	"github.com/ardent-devices/scanlink/lib/pipeline"
	"github.com/ardent-devices/scanlink/lib/protocol"
)

// --------------------------------------------------------------------------
// Encode-Side Helpers
// --------------------------------------------------------------------------

// EncodeCommand encodes one command into its single-unit wire form.
func EncodeCommand(cmd protocol.Command) (string, error) {
	ns, encoded, err := codec.EncodeCommand(cmd)
	if err != nil {
		return "", err
	}
	return FormatCommand(ns, encoded), nil
}

// EncodeBatch encodes an ordered command batch into its single-unit wire
// form, compressed at the given level.
func EncodeBatch(cmds []protocol.Command, level int) (string, error) {
	raw, err := codec.EncodeBatch(cmds)
	if err != nil {
		return "", err
	}
	body, err := pipeline.PackText(raw, level)
	if err != nil {
		return "", err
	}
	return FormatBatch(body), nil
}

// EncodeFullConfig encodes a configuration bundle into its single-unit
// wire form, compressed at the given level.
func EncodeFullConfig(config []byte, level int) (string, error) {
	if len(config) == 0 {
		return "", protocol.NewError(protocol.ErrCInvalidParameter,
			"configuration bundle is empty")
	}
	body, err := pipeline.PackText(config, level)
	if err != nil {
		return "", err
	}
	return FormatFullConfig(body), nil
}

// EncodeScript compresses, text-encodes and fragments a script into wire
// units of at most maxUnitSize characters each. The returned strings are
// complete transport units in emission order; the last one carries the
// execute marker.
func EncodeScript(script []byte, maxUnitSize, level int) ([]string, error) {
	if len(script) == 0 {
		return nil, protocol.NewError(protocol.ErrCInvalidParameter,
			"script is empty")
	}
	body, err := pipeline.PackText(script, level)
	if err != nil {
		return nil, err
	}
	frags, err := fragment.Split(body, maxUnitSize, "")
	if err != nil {
		return nil, err
	}

	units := make([]string, len(frags))
	for i, f := range frags {
		units[i] = FormatFragment(f)
	}
	return units, nil
}
