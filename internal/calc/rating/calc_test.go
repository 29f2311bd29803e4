package rating

import (
	"math"
	"testing"

	"BERTool/internal/calc/tables"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		kwh  float64
		want tables.Band
	}{
		{-5, tables.BandA1},
		{0, tables.BandA1},
		{20, tables.BandA1},
		{25, tables.BandA1},
		{25.0001, tables.BandA2},
		{50, tables.BandA2},
		{100, tables.BandB1},
		{125, tables.BandB2},
		{150, tables.BandB3},
		{150.0001, tables.BandC1},
		{200, tables.BandC2},
		{260, tables.BandD1},
		{300, tables.BandD2},
		{380, tables.BandE2},
		{450, tables.BandF},
		{450.0001, tables.BandG},
		{5000, tables.BandG},
		{math.Inf(1), tables.BandG},
	}
	for _, tt := range tests {
		got := Classify(tt.kwh)
		assert.Equal(t, tt.want, got.Band, "kwh=%v", tt.kwh)
		assert.Regexp(t, `^#[0-9A-F]{6}$`, got.Color)
	}
}

func TestClassify_NaNIsWorstBand(t *testing.T) {
	assert.Equal(t, tables.BandG, Classify(math.NaN()).Band)
}
