package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "zero", input: 0, expected: "0"},
		{name: "small", input: 300, expected: "300"},
		{name: "with_decimals", input: 50.5, expected: "50.50"},
		{name: "thousands", input: 4350, expected: "4,350"},
		{name: "six_digits", input: 123456, expected: "123,456"},
		{name: "millions", input: 1234567.5, expected: "1,234,567.50"},
		{name: "negative", input: -1500.25, expected: "-1,500.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatAmount(tt.input))
		})
	}
}

func TestPadString(t *testing.T) {
	assert.Equal(t, "ab  ", PadString("ab", 4, true))
	assert.Equal(t, "  ab", PadString("ab", 4, false))
	assert.Equal(t, "abcdef", PadString("abcdef", 4, true))
	// Wide runes count as two columns
	assert.Equal(t, "日本", PadString("日本", 4, true))
}

func TestParseHexColor(t *testing.T) {
	r, g, b, err := ParseHexColor("#1A2B3C")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x1A), r)
	assert.Equal(t, uint8(0x2B), g)
	assert.Equal(t, uint8(0x3C), b)

	_, _, _, err = ParseHexColor("#12345")
	assert.Error(t, err)
	_, _, _, err = ParseHexColor("#GGGGGG")
	assert.Error(t, err)

	assert.Equal(t, "\033[38;2;255;0;16m", HexToANSI("#FF0010"))
	assert.Equal(t, "", HexToANSI("nope"))
}
