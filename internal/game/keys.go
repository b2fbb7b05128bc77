package game

// KeyCount is the number of trackable key codes (7-bit ASCII).
const KeyCount = 128

// Keys is the pressed state of every ASCII key, indexed by key code.
// Input collaborators write it; the update loop only reads it.
type Keys [KeyCount]bool

// Common key codes used by front ends.
const (
	KeyEnter  byte = '\r'
	KeyEscape byte = 0x1b
	KeyQuit   byte = 'q'
)

// Press marks a key as held. Codes outside the ASCII range are ignored.
func (k *Keys) Press(code byte) {
	if code < KeyCount {
		k[code] = true
	}
}

// Release marks a key as no longer held.
func (k *Keys) Release(code byte) {
	if code < KeyCount {
		k[code] = false
	}
}

// Held reports whether a key is currently pressed.
func (k *Keys) Held(code byte) bool {
	return code < KeyCount && k[code]
}

// Axis returns +1 when only pos is held, -1 when only neg is held, and 0 otherwise.
func (k *Keys) Axis(pos, neg byte) float64 {
	return boolToFloat(k.Held(pos)) - boolToFloat(k.Held(neg))
}

// Any reports whether at least one key is held.
func (k *Keys) Any() bool {
	for _, held := range k {
		if held {
			return true
		}
	}
	return false
}

// Clear releases every key.
func (k *Keys) Clear() {
	*k = Keys{}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
