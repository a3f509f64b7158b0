package fragment

import (
	lua "github.com/Shopify/go-lua"

	"github.com/ardent-devices/scanlink/lib/protocol"
)

// CheckScript compiles script with a throwaway Lua state, without running
// it. A script that does not compile would occupy a whole QR sequence and
// still be rejected by the device, so callers should check before packing.
func CheckScript(script string) error {
	if script == "" {
		return protocol.NewError(protocol.ErrCInvalidParameter,
			"script is empty")
	}
	l := lua.NewState()
	if err := lua.LoadString(l, script); err != nil {
		return protocol.NewError(protocol.ErrCInvalidParameter,
			"script does not compile: %v", err)
	}
	return nil
}
