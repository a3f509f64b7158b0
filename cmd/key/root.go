package key

import (
	"github.com/spf13/cobra"

	"github.com/ardent-devices/scanlink/cmd/util"
)

// KeyCommands represents the key configuration command group.
var KeyCommands = &cobra.Command{
	Use:   "key",
	Short: "Encode key configuration commands as scannable units",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return util.BindCommandFlags(cmd)
	},
}

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add subcommands
	KeyCommands.AddCommand(setCmd)
	KeyCommands.AddCommand(clearCmd)
	KeyCommands.AddCommand(enableCmd)
	KeyCommands.AddCommand(disableCmd)
	KeyCommands.AddCommand(saveCmd)
	KeyCommands.AddCommand(factoryResetCmd)
	KeyCommands.AddCommand(fullCmd)
}
