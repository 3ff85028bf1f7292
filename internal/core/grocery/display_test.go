package grocery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectDisplay(t *testing.T) {
	tests := []struct {
		name  string
		grams *float64
		ml    *float64
		qty   float64
		unit  string
		ok    bool
	}{
		{"Kilograms", ptr(1500), nil, 1.5, UnitKilogram, true},
		{"ExactlyOneKilogram", ptr(1000), nil, 1, UnitKilogram, true},
		{"Grams", ptr(490), nil, 490, UnitGram, true},
		{"GramsRounded", ptr(12.3456), nil, 12.35, UnitGram, true},
		{"Milligrams", ptr(0.5), nil, 500, UnitMilligram, true},
		{"Liters", nil, ptr(2500), 2.5, UnitLiter, true},
		{"Milliliters", nil, ptr(29.5735295625), 29.57, UnitMilliliter, true},
		{"ExactlyFiveMilliliters", nil, ptr(5), 5, UnitMilliliter, true},
		{"Microliters", nil, ptr(2), 2000, UnitMicroliter, true},
		{"MassWins", ptr(100), ptr(30), 100, UnitGram, true},
		{"Neither", nil, nil, 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, unit, ok := SelectDisplay(tt.grams, tt.ml)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.unit, unit)
			assert.InDelta(t, tt.qty, q, 1e-9)
		})
	}
}

func TestFormatForDisplay(t *testing.T) {
	tests := []struct {
		qty  float64
		unit string
		want string
	}{
		{1.5, "cup", "1 1/2 cup"},
		{0.33, "tbsp", "1/3 tbsp"},
		{0.6, "cups", "5/8 cups"},
		{2.75, "tsp", "2 3/4 tsp"},
		{2, "tsp", "2 tsp"},
		{1.97, "cup", "2 cup"},
		{3.02, "Tbsp", "3 Tbsp"},
		{0.03, "tsp", "0.03 tsp"},
		{0.02, "tsp", "0.02 tsp"},
		{0.04, "heaping tsp", "0.04 heaping tsp"},
		{1.19, "cup", "1.19 cup"},
		{490, "g", "490 g"},
		{123.456, "ml", "123 ml"},
		{12.34, "g", "12.3 g"},
		{1.5, "kg", "1.5 kg"},
		{2.25, "l", "2.25 l"},
		{0.1234, "kg", "0.123 kg"},
		{3, "each", "3 each"},
		{29.57, "ml", "29.6 ml"},
		{4, "", "4"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatForDisplay(tt.qty, tt.unit))
		})
	}
}
