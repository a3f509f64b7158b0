package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ardent-devices/scanlink/cmd/decode"
	"github.com/ardent-devices/scanlink/cmd/device"
	"github.com/ardent-devices/scanlink/cmd/key"
	"github.com/ardent-devices/scanlink/cmd/perf"
	"github.com/ardent-devices/scanlink/cmd/script"
	"github.com/ardent-devices/scanlink/cmd/util"
	"github.com/ardent-devices/scanlink/lib/pipeline"
	"github.com/spf13/viper"
)

const (
	Version = "1.2.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "scanlink",
		Short: "QR configuration toolkit for the aRdent ScanPad",
		Long: fmt.Sprintf(`scanlink (v%s)

Encodes device commands, key configurations and Lua scripts as
scannable QR payloads for the aRdent ScanPad, and decodes captured
payloads back into readable form.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of scanlink",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("scanlink v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(device.DeviceCommands)
	RootCmd.AddCommand(key.KeyCommands)
	RootCmd.AddCommand(script.ScriptCommands)
	RootCmd.AddCommand(decode.DecodeCmd)
	RootCmd.AddCommand(perf.PerfCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	flagKey := "compression-level"
	RootCmd.PersistentFlags().Int(flagKey, pipeline.DefaultCompressionLevel,
		util.WrapString(fmt.Sprintf("zlib compression level (%d-%d)",
			pipeline.MinCompressionLevel, pipeline.MaxCompressionLevel)))
	flagKey = "log-level"
	RootCmd.PersistentFlags().String(flagKey, "warn",
		util.WrapString("log level (debug, info, warn, error)"))
	_ = viper.BindPFlags(RootCmd.PersistentFlags())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
