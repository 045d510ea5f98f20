package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelPaletteColor(t *testing.T) {
	palette := LabelPalette{
		Colors:  map[string]string{"Jack": "#5582ae", "sam": "778899"},
		Default: "ffff00",
	}

	tests := []struct {
		label  string
		color  string
		mapped bool
	}{
		{"Jack", "5582AE", true},
		{"jack", "5582AE", true},
		{"Sam", "778899", true},
		{"Kim", "FFFF00", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			color, mapped := palette.Color(tt.label)
			assert.Equal(t, tt.color, color)
			assert.Equal(t, tt.mapped, mapped)
		})
	}
}

func TestLabelPaletteLabels(t *testing.T) {
	palette := LabelPalette{Colors: map[string]string{"Ruby": "FF2C55", "Jack": "5582AE", "Both": "00FF00", "Ann": "000000"}}
	assert.Equal(t, []string{"Jack", "Ruby", "Both", "Ann"}, palette.Labels([]string{"Jack", "Ruby", "Kim", "Both"}))
}
