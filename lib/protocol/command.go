package protocol

// --------------------------------------------------------------------------
// Opcode Namespaces
// --------------------------------------------------------------------------

// Namespace selects the opcode space a command belongs to. Device and key
// configuration commands reuse the same opcode values, so the namespace is
// part of a command's identity and is carried on the wire by the marker
// ($CMD:DEV: vs $CMD:KEY:).
type Namespace uint8

const (
	NamespaceDevice Namespace = iota // LED, buzzer, settings, status, script management
	NamespaceKey                     // key configuration
)

// String returns the wire name of the namespace.
func (n Namespace) String() string {
	switch n {
	case NamespaceDevice:
		return "DEV"
	case NamespaceKey:
		return "KEY"
	default:
		return "unknown"
	}
}

// --------------------------------------------------------------------------
// Protocol Limits
// --------------------------------------------------------------------------

// Protocol-wide limits. These values match the device firmware and must
// not be raised without a firmware change.
const (
	// MaxCommandBytes is the maximum encoded size of a single command
	// (opcode byte included) inside a batch.
	MaxCommandBytes = 255

	// MaxBatchCommands is the maximum number of commands in one batch.
	MaxBatchCommands = 50

	// MaxFragments is the maximum number of transport units one payload
	// may be split into.
	MaxFragments = 99

	// MinUnitSize is the smallest usable transport unit capacity. Below
	// this the framing overhead dominates and fragmentation is refused.
	MinUnitSize = 100

	// MaxKeyID is the highest addressable key of the pad (4x4 matrix
	// plus 4 external buttons, ids 0-19).
	MaxKeyID = 19

	// MaxActionsPerKey bounds the action list of one key configuration.
	MaxActionsPerKey = 10

	// MaxActionTextBytes bounds the UTF-8 payload of a text action.
	MaxActionTextBytes = 8
)

// --------------------------------------------------------------------------
// Device Constants
// --------------------------------------------------------------------------

// LED identifiers, matching the firmware's LED cases 1-9. Ids 2-8 address
// the RGB LED's color combinations.
const (
	LEDGreen1  uint8 = 1
	LEDRed     uint8 = 2
	LEDGreen2  uint8 = 3
	LEDBlue    uint8 = 4
	LEDYellow  uint8 = 5
	LEDCyan    uint8 = 6
	LEDMagenta uint8 = 7
	LEDWhite   uint8 = 8
	LEDGreen3  uint8 = 9
)

// Buzzer melody identifiers.
const (
	MelodyKey       uint8 = 1
	MelodyStart     uint8 = 2
	MelodyStop      uint8 = 3
	MelodyNotifUp   uint8 = 4
	MelodyNotifDown uint8 = 5
	MelodyConfirm   uint8 = 6
	MelodyWarning   uint8 = 7
	MelodyError     uint8 = 8
	MelodySuccess   uint8 = 9
)

// Display orientations.
const (
	OrientationPortrait         uint8 = 0
	OrientationLandscapeRight   uint8 = 1
	OrientationPortraitInverted uint8 = 2
	OrientationLandscapeLeft    uint8 = 3
)

// Keyboard layout codes, composed as 0x[OS][PHYSICAL][LANGUAGE][0].
// OS: Windows(1), macOS(2), Android(3), iOS(4), Linux(5).
// Physical: QWERTY(1), AZERTY(2), QWERTZ(3), Dvorak(4), Colemak(5).
const (
	LayoutWinUSQwerty uint16 = 0x1110
	LayoutWinFRAzerty uint16 = 0x1220
	LayoutWinBEAzerty uint16 = 0x1230
	LayoutWinDEQwertz uint16 = 0x1340
	LayoutWinESQwerty uint16 = 0x1150
	LayoutWinITQwerty uint16 = 0x1160
	LayoutWinPTQwerty uint16 = 0x1170
	LayoutWinNLQwerty uint16 = 0x1180
	LayoutMacUSQwerty uint16 = 0x2110
	LayoutMacFRAzerty uint16 = 0x2220
	LayoutMacBEAzerty uint16 = 0x2230
)

// ValidLayout reports whether a layout code is structurally valid: OS and
// physical nibbles in range, reserved nibble zero.
func ValidLayout(layout uint16) bool {
	os := (layout >> 12) & 0xF
	phys := (layout >> 8) & 0xF
	return os >= 1 && os <= 5 && phys >= 1 && phys <= 5 && layout&0xF == 0
}

// --------------------------------------------------------------------------
// Key Actions
// --------------------------------------------------------------------------

// ActionType identifies what a key action does when the key is pressed.
type ActionType uint8

const (
	ActionUTF8     ActionType = 0 // type a short UTF-8 text
	ActionHID      ActionType = 1 // send a HID keycode with modifiers
	ActionConsumer ActionType = 2 // send a consumer control code
	ActionModifier ActionType = 3 // toggle a modifier mask
)

// String returns the string representation of an ActionType.
func (t ActionType) String() string {
	switch t {
	case ActionUTF8:
		return "utf8"
	case ActionHID:
		return "hid"
	case ActionConsumer:
		return "consumer"
	case ActionModifier:
		return "modifier"
	default:
		return "unknown"
	}
}

// KeyAction is one step of a key's action sequence. Value carries the HID
// keycode, consumer code or modifier mask depending on Type; Text is only
// used by ActionUTF8.
type KeyAction struct {
	Type    ActionType
	Value   uint8
	Mask    uint8
	DelayMS uint16
	Text    string
}

// --------------------------------------------------------------------------
// Command Structure
// --------------------------------------------------------------------------

// Params holds the parameter values of a command. Which fields are
// meaningful depends on the command's (Domain, Action) pair; all other
// fields must stay zero so that encode/decode round-trips compare equal.
type Params struct {
	// led_control
	LEDID uint8

	// buzzer
	MelodyID    uint8
	DurationMS  uint16
	FrequencyHz uint16

	// device_settings
	Orientation          uint8
	Layout               uint16
	Enabled              bool
	NoConnTimeoutMin     uint16
	NoActivityTimeoutMin uint16

	// key_config
	KeyID   uint8
	Actions []KeyAction
}

// Command is a single device or configuration command. Commands are
// immutable once constructed; use the New* factory functions below.
type Command struct {
	Domain string
	Action string
	Params Params
}

// Domain names.
const (
	DomainLEDControl     = "led_control"
	DomainBuzzer         = "buzzer"
	DomainDeviceSettings = "device_settings"
	DomainDeviceStatus   = "device_status"
	DomainLuaManagement  = "lua_management"
	DomainKeyConfig      = "key_config"
)

// --------------------------------------------------------------------------
// Command Factory Functions
// --------------------------------------------------------------------------

// NewLEDOn creates a command that turns one LED on.
func NewLEDOn(ledID uint8) Command {
	return Command{Domain: DomainLEDControl, Action: "led_on", Params: Params{LEDID: ledID}}
}

// NewLEDOff creates a command that turns one LED off.
func NewLEDOff(ledID uint8) Command {
	return Command{Domain: DomainLEDControl, Action: "led_off", Params: Params{LEDID: ledID}}
}

// NewAllLEDsOff creates a command that turns every LED off.
func NewAllLEDsOff() Command {
	return Command{Domain: DomainLEDControl, Action: "all_leds_off"}
}

// NewBuzzerMelody creates a command that plays a built-in melody.
func NewBuzzerMelody(melodyID uint8) Command {
	return Command{Domain: DomainBuzzer, Action: "melody", Params: Params{MelodyID: melodyID}}
}

// NewBuzzerBeep creates a command that beeps for durationMS milliseconds
// at frequencyHz.
func NewBuzzerBeep(durationMS, frequencyHz uint16) Command {
	return Command{Domain: DomainBuzzer, Action: "beep", Params: Params{DurationMS: durationMS, FrequencyHz: frequencyHz}}
}

// NewBuzzerStop creates a command that silences the buzzer.
func NewBuzzerStop() Command {
	return Command{Domain: DomainBuzzer, Action: "stop"}
}

// NewSetOrientation creates a command that rotates the display.
func NewSetOrientation(orientation uint8) Command {
	return Command{Domain: DomainDeviceSettings, Action: "set_orientation", Params: Params{Orientation: orientation}}
}

// NewSetLanguage creates a command that selects the HID keyboard layout.
func NewSetLanguage(layout uint16) Command {
	return Command{Domain: DomainDeviceSettings, Action: "set_language", Params: Params{Layout: layout}}
}

// NewSetAutoShutdown creates a command that configures the auto-shutdown
// timers. Both timeouts are in minutes and ignored when disabled.
func NewSetAutoShutdown(enabled bool, noConnMin, noActivityMin uint16) Command {
	return Command{Domain: DomainDeviceSettings, Action: "set_auto_shutdown", Params: Params{
		Enabled:              enabled,
		NoConnTimeoutMin:     noConnMin,
		NoActivityTimeoutMin: noActivityMin,
	}}
}

// NewDeviceInfo creates a command that requests the device identification.
func NewDeviceInfo() Command {
	return Command{Domain: DomainDeviceStatus, Action: "device_info"}
}

// NewBatteryLevel creates a command that requests the battery level.
func NewBatteryLevel() Command {
	return Command{Domain: DomainDeviceStatus, Action: "battery_level"}
}

// NewLuaClear creates a command that removes the deployed script.
func NewLuaClear() Command {
	return Command{Domain: DomainLuaManagement, Action: "clear_script"}
}

// NewLuaInfo creates a command that requests the deployed script's status.
func NewLuaInfo() Command {
	return Command{Domain: DomainLuaManagement, Action: "get_script_info"}
}

// NewSetKey creates a command that configures one key's action sequence.
func NewSetKey(keyID uint8, actions []KeyAction) Command {
	return Command{Domain: DomainKeyConfig, Action: "set_key", Params: Params{KeyID: keyID, Actions: actions}}
}

// NewClearKey creates a command that removes one key's configuration.
func NewClearKey(keyID uint8) Command {
	return Command{Domain: DomainKeyConfig, Action: "clear_key", Params: Params{KeyID: keyID}}
}

// NewSetKeyEnabled creates a command that enables or disables one key.
func NewSetKeyEnabled(keyID uint8, enabled bool) Command {
	return Command{Domain: DomainKeyConfig, Action: "set_key_enabled", Params: Params{KeyID: keyID, Enabled: enabled}}
}

// NewSaveConfig creates a command that persists the configuration to flash.
func NewSaveConfig() Command {
	return Command{Domain: DomainKeyConfig, Action: "save_config"}
}

// NewFactoryReset creates a command that restores factory defaults.
func NewFactoryReset() Command {
	return Command{Domain: DomainKeyConfig, Action: "factory_reset"}
}
