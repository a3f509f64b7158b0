package device

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ardent-devices/scanlink/cmd/util"
	"github.com/ardent-devices/scanlink/lib/envelope"
	"github.com/ardent-devices/scanlink/lib/protocol"
)

var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Encodes a command list file as one batch unit",
	Long: `Encodes a command list file as one compressed batch unit.

The file holds one command per line ("-" reads stdin); blank lines and
lines starting with # are skipped. Supported commands:

  led_on <led>            melody <melody>       orientation <0-3>
  led_off <led>           beep <ms> <hz>        language <layout>
  all_leds_off            stop                  auto_shutdown <bool> <min> <min>
  device_info             battery_level         clear_script
  get_script_info`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := util.ReadLines(args[0])
		if err != nil {
			return err
		}

		cmds := make([]protocol.Command, 0, len(lines))
		for i, line := range lines {
			c, err := parseBatchLine(line)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			cmds = append(cmds, c)
		}

		level, err := util.GetCompressionLevel()
		if err != nil {
			return err
		}
		unit, err := envelope.EncodeBatch(cmds, level)
		if err != nil {
			return err
		}
		fmt.Println(unit)
		return nil
	},
}

// parseBatchLine maps one "action arg..." line to a device command.
func parseBatchLine(line string) (protocol.Command, error) {
	fields := strings.Fields(line)
	action, args := fields[0], fields[1:]

	argc := map[string]int{
		"led_on": 1, "led_off": 1, "all_leds_off": 0,
		"melody": 1, "beep": 2, "stop": 0,
		"orientation": 1, "language": 1, "auto_shutdown": 3,
		"device_info": 0, "battery_level": 0,
		"clear_script": 0, "get_script_info": 0,
	}
	want, ok := argc[action]
	if !ok {
		return protocol.Command{}, fmt.Errorf("unknown command %q", action)
	}
	if len(args) != want {
		return protocol.Command{}, fmt.Errorf("%s takes %d argument(s), got %d", action, want, len(args))
	}

	switch action {
	case "led_on", "led_off":
		led, err := parseUint8("led", args[0], 9)
		if err != nil {
			return protocol.Command{}, err
		}
		if action == "led_on" {
			return protocol.NewLEDOn(led), nil
		}
		return protocol.NewLEDOff(led), nil
	case "all_leds_off":
		return protocol.NewAllLEDsOff(), nil
	case "melody":
		melody, err := parseUint8("melody", args[0], 9)
		if err != nil {
			return protocol.Command{}, err
		}
		return protocol.NewBuzzerMelody(melody), nil
	case "beep":
		duration, err := parseUint16("duration", args[0])
		if err != nil {
			return protocol.Command{}, err
		}
		frequency, err := parseUint16("frequency", args[1])
		if err != nil {
			return protocol.Command{}, err
		}
		return protocol.NewBuzzerBeep(duration, frequency), nil
	case "stop":
		return protocol.NewBuzzerStop(), nil
	case "orientation":
		orientation, err := parseUint8("orientation", args[0], 3)
		if err != nil {
			return protocol.Command{}, err
		}
		return protocol.NewSetOrientation(orientation), nil
	case "language":
		layout, err := parseUint16("layout", args[0])
		if err != nil {
			return protocol.Command{}, err
		}
		return protocol.NewSetLanguage(layout), nil
	case "auto_shutdown":
		enabled, err := strconv.ParseBool(args[0])
		if err != nil {
			return protocol.Command{}, fmt.Errorf("enabled must be true or false: %w", err)
		}
		noConn, err := parseUint16("noConnMin", args[1])
		if err != nil {
			return protocol.Command{}, err
		}
		noActivity, err := parseUint16("noActivityMin", args[2])
		if err != nil {
			return protocol.Command{}, err
		}
		return protocol.NewSetAutoShutdown(enabled, noConn, noActivity), nil
	case "device_info":
		return protocol.NewDeviceInfo(), nil
	case "battery_level":
		return protocol.NewBatteryLevel(), nil
	case "clear_script":
		return protocol.NewLuaClear(), nil
	default: // get_script_info
		return protocol.NewLuaInfo(), nil
	}
}
