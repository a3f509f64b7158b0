package device

import (
	"github.com/spf13/cobra"

	"github.com/ardent-devices/scanlink/cmd/util"
)

// DeviceCommands represents the device command group. Every subcommand
// prints one complete transport unit ready for QR rendering.
var DeviceCommands = &cobra.Command{
	Use:   "device",
	Short: "Encode device control commands as scannable units",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return util.BindCommandFlags(cmd)
	},
}

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add subcommands
	DeviceCommands.AddCommand(ledOnCmd)
	DeviceCommands.AddCommand(ledOffCmd)
	DeviceCommands.AddCommand(allLEDsOffCmd)
	DeviceCommands.AddCommand(melodyCmd)
	DeviceCommands.AddCommand(beepCmd)
	DeviceCommands.AddCommand(stopCmd)
	DeviceCommands.AddCommand(orientationCmd)
	DeviceCommands.AddCommand(languageCmd)
	DeviceCommands.AddCommand(autoShutdownCmd)
	DeviceCommands.AddCommand(deviceInfoCmd)
	DeviceCommands.AddCommand(batteryCmd)
	DeviceCommands.AddCommand(clearScriptCmd)
	DeviceCommands.AddCommand(scriptInfoCmd)
	DeviceCommands.AddCommand(batchCmd)
}
