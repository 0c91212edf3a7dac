package intents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPlaceholderSignature(t *testing.T) {
	tests := []struct {
		name        string
		signature   string
		placeholder bool
	}{
		{"empty string", "", true},
		{"bare prefix", "0x", true},
		{"all zero short", "0x0000", true},
		{"all zero 65 bytes", "0x" + zeros(130), true},
		{"all zero without prefix", zeros(64), true},
		{"real signature", "0x1b2c3d4e5f", false},
		{"single nonzero byte", "0x01", false},
		{"zero prefix nonzero tail", "0x0000000001", false},
		{"invalid hex", "0xnotasignature", false},
		{"odd length hex", "0x123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.placeholder, IsPlaceholderSignature(tt.signature))
		})
	}
}

func zeros(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}
