package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "abc", ToString("abc"))
	assert.Equal(t, "abc", ToString([]byte("abc")))
	assert.Equal(t, "1200000", ToString(float64(1200000)))
	assert.Equal(t, "1.5", ToString(1.5))
	assert.Equal(t, "true", ToString(true))
	assert.Equal(t, "7", ToString(int64(7)))
}

func TestToBool(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"Bool", true, true},
		{"One", 1, true},
		{"Zero", 0, false},
		{"JSON number", float64(1), true},
		{"Fraction", 1.5, false},
		{"Uint8", uint8(1), true},
		{"String true", "TRUE", true},
		{"String yes", "yes", true},
		{"String one", "1", true},
		{"String false", "false", false},
		{"Bytes", []byte("true"), true},
		{"Nil", nil, false},
		{"Map", map[string]any{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToBool(tt.in))
		})
	}
}
