package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectLanguage(t *testing.T) {
	req := require.New(t)

	tests := []struct {
		input    string
		expected string
	}{
		{"The quick brown fox jumps over the lazy dog and runs away", "en"},
		{"Le renard brun saute par dessus le chien paresseux du voisin", "fr"},
	}
	for _, tt := range tests {
		req.Equal(tt.expected, DetectLanguage(tt.input), tt.input)
	}
}

func TestDetectLanguage_Unreliable(t *testing.T) {
	require.Equal(t, "", DetectLanguage("ok"))
}
