package util

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ardent-devices/scanlink/lib/logging"
	"github.com/ardent-devices/scanlink/lib/pipeline"
	"github.com/ardent-devices/scanlink/lib/protocol"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("scanlink")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// apply the configured log level; an invalid value keeps the default
	if level := viper.GetString("log-level"); level != "" {
		_ = logging.SetLevel(level)
	}
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetCompressionLevel reads the configured zlib level and validates it.
func GetCompressionLevel() (int, error) {
	level := viper.GetInt("compression-level")
	if level < pipeline.MinCompressionLevel || level > pipeline.MaxCompressionLevel {
		return 0, fmt.Errorf("compression-level must be %d-%d, got %d",
			pipeline.MinCompressionLevel, pipeline.MaxCompressionLevel, level)
	}
	return level, nil
}

// ReadInput reads a whole input source: a file path, or stdin for "-".
func ReadInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// ReadLines reads non-empty, non-comment lines from a file path or stdin
// for "-". Lines starting with # are ignored.
func ReadLines(path string) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

// ParseKeyID parses and range-checks a key id argument.
func ParseKeyID(arg string) (uint8, error) {
	id, err := strconv.ParseUint(arg, 10, 8)
	if err != nil || id > protocol.MaxKeyID {
		return 0, fmt.Errorf("key id must be 0-%d, got %q", protocol.MaxKeyID, arg)
	}
	return uint8(id), nil
}

/// ParseHIDAction parses a "keycode[:modifiers[:delay]]" HID action spec.
// Keycode and modifiers accept decimal or 0x-prefixed hex.
func ParseHIDAction(spec string) (protocol.KeyAction, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 1 || len(parts) > 3 {
		return protocol.KeyAction{}, fmt.Errorf("hid action must be keycode[:modifiers[:delay]], got %q", spec)
	}

	keycode, err := strconv.ParseUint(parts[0], 0, 8)
	if err != nil {
		return protocol.KeyAction{}, fmt.Errorf("hid keycode %q: %v", parts[0], err)
	}
	action := protocol.KeyAction{Type: protocol.ActionHID, Value: uint8(keycode)}

	if len(parts) > 1 {
		mods, err := strconv.ParseUint(parts[1], 0, 8)
		if err != nil {
			return protocol.KeyAction{}, fmt.Errorf("hid modifiers %q: %v", parts[1], err)
		}
		action.Mask = uint8(mods)
	}
	if len(parts) > 2 {
		delay, err := strconv.ParseUint(parts[2], 10, 16)
		if err != nil {
			return protocol.KeyAction{}, fmt.Errorf("hid delay %q: %v", parts[2], err)
		}
		action.DelayMS = uint16(delay)
	}
	return action, nil
}
