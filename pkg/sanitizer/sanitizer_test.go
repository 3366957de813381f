package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trim spaces", "  Alice Smith  ", "Alice Smith"},
		{"multiple spaces between words", "Alice    Smith", "Alice Smith"},
		{"tabs and newlines", "Alice\t\nSmith", "Alice Smith"},
		{"empty string", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"preserve special characters", " Café & Spa™ ", "Café & Spa™"},
		{"hebrew characters", " תספורת יוסי ", "תספורת יוסי"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, TrimAndNormalize(got), "must be idempotent")
		})
	}
}

func TestSanitizeRoomID(t *testing.T) {
	assert.Equal(t, "A101", SanitizeRoomID(" A101 "))
	assert.Equal(t, "A101", SanitizeRoomID("A 1 0 1"))
	assert.Equal(t, "a101", SanitizeRoomID("a101"), "case is kept")
	assert.Equal(t, "", SanitizeRoomID(" \t "))
}

func TestSanitizeRequester(t *testing.T) {
	assert.Equal(t, "Bob Jones", SanitizeRequester("  Bob \x00 Jones\n"))
	assert.Equal(t, "", SanitizeRequester("\x07  "))
}

func TestSanitizeSlice(t *testing.T) {
	got := SanitizeSlice([]string{" B101", "A101", "", "B101 ", "  "}, SanitizeRoomID)
	assert.Equal(t, []string{"B101", "A101"}, got)

	assert.Empty(t, SanitizeSlice(nil, SanitizeRoomID))
}
