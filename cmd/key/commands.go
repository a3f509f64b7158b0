package key

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ardent-devices/scanlink/cmd/util"
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

var (
	setCmd = &cobra.Command{
		Use:   "set [key]",
		Short: "Configures one key's action sequence",
		Long: `Configures one key's action sequence. Use repeated --text and --hid
flags for multi-step sequences; text actions are emitted before hid
actions when both are given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyID, err := util.ParseKeyID(args[0])
			if err != nil {
				return err
			}

			texts, _ := cmd.Flags().GetStringArray("text")
			hids, _ := cmd.Flags().GetStringArray("hid")
			delay, _ := cmd.Flags().GetUint16("delay")

			var actions []protocol.KeyAction
			for _, text := range texts {
				actions = append(actions, protocol.KeyAction{
					Type: protocol.ActionUTF8, Text: text, DelayMS: delay,
				})
			}
			for _, spec := range hids {
				action, err := util.ParseHIDAction(spec)
				if err != nil {
					return err
				}
				if action.DelayMS == 0 {
					action.DelayMS = delay
				}
				actions = append(actions, action)
			}
			if len(actions) == 0 {
				return fmt.Errorf("at least one --text or --hid action is required")
			}
			return printUnit(protocol.NewSetKey(keyID, actions))
		},
	}
	clearCmd = &cobra.Command{
		Use:   "clear [key]",
		Short: "Removes one key's configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyID, err := util.ParseKeyID(args[0])
			if err != nil {
				return err
			}
			return printUnit(protocol.NewClearKey(keyID))
		},
	}
	enableCmd = &cobra.Command{
		Use:   "enable [key]",
		Short: "Enables one key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyID, err := util.ParseKeyID(args[0])
			if err != nil {
				return err
			}
			return printUnit(protocol.NewSetKeyEnabled(keyID, true))
		},
	}
	disableCmd = &cobra.Command{
		Use:   "disable [key]",
		Short: "Disables one key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyID, err := util.ParseKeyID(args[0])
			if err != nil {
				return err
			}
			return printUnit(protocol.NewSetKeyEnabled(keyID, false))
		},
	}
	saveCmd = &cobra.Command{
		Use:   "save",
		Short: "Persists the configuration to flash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printUnit(protocol.NewSaveConfig())
		},
	}
	factoryResetCmd = &cobra.Command{
		Use:   "factory-reset",
		Short: "Restores factory defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printUnit(protocol.NewFactoryReset())
		},
	}
)

func init() {
	setCmd.Flags().StringArray("text", nil, util.WrapString("UTF-8 text action (repeatable, at most 8 bytes each)"))
	setCmd.Flags().StringArray("hid", nil, util.WrapString("HID action as keycode[:modifiers[:delay]] (repeatable)"))
	setCmd.Flags().Uint16("delay", 10, util.WrapString("Default delay in ms between actions"))
}
