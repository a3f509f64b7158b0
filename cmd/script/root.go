package script

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ardent-devices/scanlink/cmd/util"
	"github.com/ardent-devices/scanlink/lib/envelope"
	"github.com/ardent-devices/scanlink/lib/fragment"
	"github.com/ardent-devices/scanlink/lib/protocol"
)

// ScriptCommands represents the script command group.
var ScriptCommands = &cobra.Command{
	Use:   "script",
	Short: "Check and encode Lua scripts for QR deployment",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return util.BindCommandFlags(cmd)
	},
}

var (
	checkCmd = &cobra.Command{
		Use:   "check [file]",
		Short: "Compiles a script without deploying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := util.ReadInput(args[0])
			if err != nil {
				return err
			}
			if err := fragment.CheckScript(string(source)); err != nil {
				return err
			}
			fmt.Println("script compiles")
			return nil
		},
	}
	encodeCmd = &cobra.Command{
		Use:   "encode [file]",
		Short: "Encodes a script as a scannable unit sequence",
		Long: `Encodes a script as a scannable unit sequence, one unit per line in
scan order. The last unit carries the execute marker; the device runs
the script once every unit has been scanned.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := util.ReadInput(args[0])
			if err != nil {
				return err
			}
			if !viper.GetBool("no-check") {
				if err := fragment.CheckScript(string(source)); err != nil {
					return err
				}
			}

			level, err := util.GetCompressionLevel()
			if err != nil {
				return err
			}
			units, err := envelope.EncodeScript(source, viper.GetInt("max-unit-size"), level)
			if err != nil {
				return err
			}
			for _, unit := range units {
				fmt.Println(unit)
			}
			return nil
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add subcommands
	ScriptCommands.AddCommand(checkCmd)
	ScriptCommands.AddCommand(encodeCmd)

	// Add flags
	key := "max-unit-size"
	encodeCmd.Flags().Int(key, 500, util.WrapString(fmt.Sprintf(
		"Maximum characters per unit, framing included (minimum %d)", protocol.MinUnitSize)))
	key = "no-check"
	encodeCmd.Flags().Bool(key, false, util.WrapString("Skip the Lua compile check before encoding"))
}
