package key

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ardent-devices/scanlink/cmd/util"
	"github.com/ardent-devices/scanlink/lib/envelope"
	"github.com/ardent-devices/scanlink/lib/keyboard"
	"github.com/ardent-devices/scanlink/lib/protocol"
)

var fullCmd = &cobra.Command{
	Use:   "full [file]",
	Short: "Encodes a full keyboard configuration file as one unit",
	Long: `Encodes a full keyboard configuration file as one compressed unit.

The file holds one action per line ("-" reads stdin); blank lines and
lines starting with # are skipped. Each line is

  <key> text <string>
  <key> hid <keycode[:modifiers[:delay]]>
  <key> consumer <code[:delay]>
  <key> modifier <mask[:delay]>

Multiple lines for the same key form its action sequence in file order.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := util.ReadLines(args[0])
		if err != nil {
			return err
		}

		cfg := keyboard.Config{}
		for i, line := range lines {
			keyID, action, err := parseConfigLine(line)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			cfg[keyID] = append(cfg[keyID], action)
		}

		bundle, err := keyboard.Build(cfg)
		if err != nil {
			return err
		}
		level, err := util.GetCompressionLevel()
		if err != nil {
			return err
		}
		unit, err := envelope.EncodeFullConfig(bundle, level)
		if err != nil {
			return err
		}
		fmt.Println(unit)
		return nil
	},
}

// parseConfigLine maps one "<key> <type> <value>" line to a key action.
func parseConfigLine(line string) (uint8, protocol.KeyAction, error) {
	fields := strings.SplitN(line, " ", 3)
	if len(fields) != 3 {
		return 0, protocol.KeyAction{}, fmt.Errorf("expected <key> <type> <value>, got %q", line)
	}

	keyID, err := util.ParseKeyID(fields[0])
	if err != nil {
		return 0, protocol.KeyAction{}, err
	}

	switch fields[1] {
	case "text":
		return keyID, protocol.KeyAction{Type: protocol.ActionUTF8, Text: fields[2]}, nil
	case "hid":
		action, err := util.ParseHIDAction(fields[2])
		return keyID, action, err
	case "consumer":
		value, delay, err := parseValueDelay("consumer code", fields[2])
		return keyID, protocol.KeyAction{Type: protocol.ActionConsumer, Value: value, DelayMS: delay}, err
	case "modifier":
		mask, delay, err := parseValueDelay("modifier mask", fields[2])
		return keyID, protocol.KeyAction{Type: protocol.ActionModifier, Mask: mask, DelayMS: delay}, err
	default:
		return 0, protocol.KeyAction{}, fmt.Errorf("action type must be text, hid, consumer or modifier, got %q", fields[1])
	}
}

// parseValueDelay parses a "<value[:delay]>" spec shared by the consumer and
// modifier forms.
func parseValueDelay(what, spec string) (uint8, uint16, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 1 || len(parts) > 2 {
		return 0, 0, fmt.Errorf("%s must be value[:delay], got %q", what, spec)
	}
	value, err := strconv.ParseUint(parts[0], 0, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("%s %q: %v", what, parts[0], err)
	}
	var delay uint64
	if len(parts) == 2 {
		delay, err = strconv.ParseUint(parts[1], 10, 16)
		if err != nil {
			return 0, 0, fmt.Errorf("%s delay %q: %v", what, parts[1], err)
		}
	}
	return uint8(value), uint16(delay), nil
}
