package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Trosoban", "trosoban"},
		{"caron", "Četverosoban", "cetverosoban"},
		{"acute and caron", "Namješten", "namjesten"},
		{"stroke d", "Međugorje", "medjugorje"},
		{"trimmed", "  Bihać ", "bihac"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fold(tt.input))
		})
	}
}

func TestEqualFold(t *testing.T) {
	assert.True(t, EqualFold("Žepče", "zepce"))
	assert.False(t, EqualFold("Žepče", "Zenica"))
}
