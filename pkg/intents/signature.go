package intents

import (
	"encoding/hex"
	"strings"
)

// IsPlaceholderSignature reports whether a destination signature is the
// placeholder test fixtures submit when no destination ops are present:
// empty, the literal "0x", or entirely zero bytes. Anything else, including
// garbage that is not valid hex, counts as a real signature attempt and is
// left for the executor contract to reject.
func IsPlaceholderSignature(sig string) bool {
	trimmed := strings.TrimPrefix(sig, "0x")
	if trimmed == "" {
		return true
	}

	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return false
	}
	for _, b := range raw {
		if b != 0 {
			return false
		}
	}
	return true
}
