// Package keyboard builds and parses the full-configuration bundle
// carried by $FULL: envelopes: a compact binary image of every configured
// key, deployed to the device in a single compressed unit.
//
// Bundle Layout:
//
//	"GYW" magic, a version byte, a key count, then per key (ascending key
//	id) a [key_id][action_count] header followed by the action records.
//	Delays are u16le milliseconds, matching the per-key set_key codec:
//
//	  utf8      [0][text_len][delay_lo][delay_hi][text...]
//	  hid       [1][keycode][modifiers][delay_lo][delay_hi]
//	  consumer  [2][code][delay_lo][delay_hi]
//	  modifier  [3][mask][delay_lo][delay_hi]
//
// Thread Safety:
//
//	Build and Parse are pure and safe for concurrent use.
package keyboard
