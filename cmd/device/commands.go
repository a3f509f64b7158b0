package device

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ardent-devices/scanlink/lib/envelope"
	"github.com/ardent-devices/scanlink/lib/protocol"
)

// printUnit encodes a command and writes its transport unit to stdout.
func printUnit(cmd protocol.Command) error {
	unit, err := envelope.EncodeCommand(cmd)
	if err != nil {
		return err
	}
	fmt.Println(unit)
	return nil
}

func parseUint8(name, arg string, max uint64) (uint8, error) {
	v, err := strconv.ParseUint(arg, 10, 8)
	if err != nil || v > max {
		return 0, fmt.Errorf("%s must be 0-%d, got %q", name, max, arg)
	}
	return uint8(v), nil
}

func parseUint16(name, arg string) (uint16, error) {
	v, err := strconv.ParseUint(arg, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("%s must be a 16-bit number: %w", name, err)
	}
	return uint16(v), nil
}

var (
	ledOnCmd = &cobra.Command{
		Use:   "led-on [led]",
		Short: "Turns one LED on (ids 1-9)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, err := parseUint8("led", args[0], 9)
			if err != nil {
				return err
			}
			return printUnit(protocol.NewLEDOn(led))
		},
	}
	ledOffCmd = &cobra.Command{
		Use:   "led-off [led]",
		Short: "Turns one LED off (ids 1-9)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, err := parseUint8("led", args[0], 9)
			if err != nil {
				return err
			}
			return printUnit(protocol.NewLEDOff(led))
		},
	}
	allLEDsOffCmd = &cobra.Command{
		Use:   "all-leds-off",
		Short: "Turns every LED off",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printUnit(protocol.NewAllLEDsOff())
		},
	}
	melodyCmd = &cobra.Command{
		Use:   "melody [melody]",
		Short: "Plays a built-in melody (ids 1-9)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			melody, err := parseUint8("melody", args[0], 9)
			if err != nil {
				return err
			}
			return printUnit(protocol.NewBuzzerMelody(melody))
		},
	}
	beepCmd = &cobra.Command{
		Use:   "beep [durationMS] [frequencyHz]",
		Short: "Beeps for a duration at a frequency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			duration, err := parseUint16("durationMS", args[0])
			if err != nil {
				return err
			}
			frequency, err := parseUint16("frequencyHz", args[1])
			if err != nil {
				return err
			}
			return printUnit(protocol.NewBuzzerBeep(duration, frequency))
		},
	}
	stopCmd = &cobra.Command{
		Use:   "stop",
		Short: "Silences the buzzer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printUnit(protocol.NewBuzzerStop())
		},
	}
	orientationCmd = &cobra.Command{
		Use:   "orientation [orientation]",
		Short: "Rotates the display (0=portrait, 1=right, 2=inverted, 3=left)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orientation, err := parseUint8("orientation", args[0], 3)
			if err != nil {
				return err
			}
			return printUnit(protocol.NewSetOrientation(orientation))
		},
	}
	languageCmd = &cobra.Command{
		Use:   "language [layout]",
		Short: "Selects the HID keyboard layout (e.g. 0x1220 for Windows FR AZERTY)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := parseUint16("layout", args[0])
			if err != nil {
				return err
			}
			return printUnit(protocol.NewSetLanguage(layout))
		},
	}
	autoShutdownCmd = &cobra.Command{
		Use:   "auto-shutdown [enabled] [noConnMin] [noActivityMin]",
		Short: "Configures the auto-shutdown timers (minutes)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := strconv.ParseBool(args[0])
			if err != nil {
				return fmt.Errorf("enabled must be true or false: %w", err)
			}
			noConn, err := parseUint16("noConnMin", args[1])
			if err != nil {
				return err
			}
			noActivity, err := parseUint16("noActivityMin", args[2])
			if err != nil {
				return err
			}
			return printUnit(protocol.NewSetAutoShutdown(enabled, noConn, noActivity))
		},
	}
	deviceInfoCmd = &cobra.Command{
		Use:   "info",
		Short: "Requests the device identification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printUnit(protocol.NewDeviceInfo())
		},
	}
	batteryCmd = &cobra.Command{
		Use:   "battery",
		Short: "Requests the battery level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printUnit(protocol.NewBatteryLevel())
		},
	}
	clearScriptCmd = &cobra.Command{
		Use:   "clear-script",
		Short: "Removes the deployed script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printUnit(protocol.NewLuaClear())
		},
	}
	scriptInfoCmd = &cobra.Command{
		Use:   "script-info",
		Short: "Requests the deployed script's status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printUnit(protocol.NewLuaInfo())
		},
	}
)
