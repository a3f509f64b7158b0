package decode

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ardent-devices/scanlink/cmd/util"
	"github.com/ardent-devices/scanlink/lib/envelope"
	"github.com/ardent-devices/scanlink/lib/keyboard"
	"github.com/ardent-devices/scanlink/lib/protocol"
	"github.com/ardent-devices/scanlink/lib/reassembly"
)

// DecodeCmd decodes captured transport units back into readable form. It
// is the inspection inverse of the device, key and script encoders.
var DecodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Decodes captured units back into readable form",
	Long: `Decodes captured transport units back into readable form. The file
holds one unit per line ("-" reads stdin); script fragments are
reassembled across lines and the completed script is written to stdout
or --out.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return util.BindCommandFlags(cmd)
	},
}

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add flags
	key := "session-ttl"
	DecodeCmd.Flags().Int(key, 0, util.WrapString("Discard incomplete script transfers after this many seconds of inactivity (0 keeps them forever)"))
	key = "out"
	DecodeCmd.Flags().String(key, "", util.WrapString("Write completed scripts to this file instead of stdout"))
}

func runDecode(cmd *cobra.Command, args []string) error {
	lines, err := util.ReadLines(args[0])
	if err != nil {
		return err
	}

	decoder := envelope.NewDecoder(reassembly.Config{
		SessionTTL: time.Duration(viper.GetInt("session-ttl")) * time.Second,
	})

	for i, line := range lines {
		res, err := decoder.Decode(line)
		if err != nil {
			return fmt.Errorf("unit %d: %w", i+1, err)
		}
		if err := printResult(i+1, res); err != nil {
			return err
		}
	}
	return nil
}

func printResult(unit int, res envelope.Result) error {
	switch {
	case res.Pending:
		fmt.Printf("unit %d: %s buffered, transfer incomplete\n", unit, res.Kind)
	case res.Commands != nil:
		for _, c := range res.Commands {
			fmt.Printf("unit %d: %s\n", unit, formatCommand(c))
		}
	case res.Config != nil:
		cfg, err := keyboard.Parse(res.Config)
		if err != nil {
			return err
		}
		fmt.Printf("unit %d: full configuration, %d key(s)\n", unit, len(cfg))
		for keyID := 0; keyID <= protocol.MaxKeyID; keyID++ {
			actions, ok := cfg[uint8(keyID)]
			if !ok {
				continue
			}
			for _, a := range actions {
				fmt.Printf("  key %d: %s\n", keyID, formatAction(a))
			}
		}
	case res.Script != nil:
		if out := viper.GetString("out"); out != "" {
			if err := os.WriteFile(out, res.Script, 0o644); err != nil {
				return err
			}
			fmt.Printf("unit %d: script complete, %d bytes written to %s\n", unit, len(res.Script), out)
		} else {
			fmt.Printf("unit %d: script complete, %d bytes\n", unit, len(res.Script))
			fmt.Println(string(res.Script))
		}
	}
	return nil
}

func formatCommand(c protocol.Command) string {
	out := c.Domain + "." + c.Action
	p := c.Params
	switch {
	case c.Action == "led_on" || c.Action == "led_off":
		out += fmt.Sprintf(" led=%d", p.LEDID)
	case c.Action == "melody":
		out += fmt.Sprintf(" melody=%d", p.MelodyID)
	case c.Action == "beep":
		out += fmt.Sprintf(" duration=%dms frequency=%dHz", p.DurationMS, p.FrequencyHz)
	case c.Action == "set_orientation":
		out += fmt.Sprintf(" orientation=%d", p.Orientation)
	case c.Action == "set_language":
		out += fmt.Sprintf(" layout=0x%04X", p.Layout)
	case c.Action == "set_auto_shutdown":
		out += fmt.Sprintf(" enabled=%t noConn=%dmin noActivity=%dmin",
			p.Enabled, p.NoConnTimeoutMin, p.NoActivityTimeoutMin)
	case c.Action == "set_key":
		out += fmt.Sprintf(" key=%d actions=%d", p.KeyID, len(p.Actions))
		for _, a := range p.Actions {
			out += "\n    " + formatAction(a)
		}
	case c.Action == "clear_key":
		out += fmt.Sprintf(" key=%d", p.KeyID)
	case c.Action == "set_key_enabled":
		out += fmt.Sprintf(" key=%d enabled=%t", p.KeyID, p.Enabled)
	}
	return out
}

func formatAction(a protocol.KeyAction) string {
	switch a.Type {
	case protocol.ActionUTF8:
		return fmt.Sprintf("text %q delay=%dms", a.Text, a.DelayMS)
	case protocol.ActionHID:
		return fmt.Sprintf("hid keycode=0x%02X modifiers=0x%02X delay=%dms", a.Value, a.Mask, a.DelayMS)
	case protocol.ActionConsumer:
		return fmt.Sprintf("consumer code=0x%02X delay=%dms", a.Value, a.DelayMS)
	default:
		return fmt.Sprintf("modifier mask=0x%02X delay=%dms", a.Mask, a.DelayMS)
	}
}
