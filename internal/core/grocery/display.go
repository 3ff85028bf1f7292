package grocery

import (
	"math"
	"strconv"
	"strings"
)

// 顯示單位
const (
	UnitKilogram   = "kg"
	UnitGram       = "g"
	UnitMilligram  = "mg"
	UnitLiter      = "l"
	UnitMilliliter = "ml"
	UnitMicroliter = "ul"
)

const fractionTolerance = 0.05

var fractions = []struct {
	value float64
	text  string
}{
	{1.0 / 8, "1/8"},
	{1.0 / 4, "1/4"},
	{1.0 / 3, "1/3"},
	{3.0 / 8, "3/8"},
	{1.0 / 2, "1/2"},
	{5.0 / 8, "5/8"},
	{2.0 / 3, "2/3"},
	{3.0 / 4, "3/4"},
	{7.0 / 8, "7/8"},
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SelectDisplay 依數量大小選擇可讀的單位，四捨五入到小數第二位。
// 同時有質量與容量時以質量為主；兩者皆無時 ok 為 false，呼叫端應沿用原始數量與單位。
func SelectDisplay(grams, milliliters *float64) (quantity float64, unit string, ok bool) {
	switch {
	case grams != nil:
		g := *grams
		switch {
		case g >= 1000:
			return round2(g / 1000), UnitKilogram, true
		case g >= 1:
			return round2(g), UnitGram, true
		default:
			return round2(g * 1000), UnitMilligram, true
		}
	case milliliters != nil:
		ml := *milliliters
		switch {
		case ml >= 1000:
			return round2(ml / 1000), UnitLiter, true
		case ml >= 5:
			return round2(ml), UnitMilliliter, true
		default:
			return round2(ml * 1000), UnitMicroliter, true
		}
	default:
		return 0, "", false
	}
}

func isCookingUnit(unit string) bool {
	u := strings.ToLower(unit)
	return strings.Contains(u, "cup") || strings.Contains(u, "tsp") || strings.Contains(u, "tbsp")
}

// FormatForDisplay 產生 "數量 單位" 文字。cup/tsp/tbsp 會把小數部分換成最接近的常用分數。
func FormatForDisplay(quantity float64, unit string) string {
	var text string
	if isCookingUnit(unit) {
		text = formatCooking(quantity)
	} else {
		text = formatDecimal(quantity, decimalsFor(quantity))
	}
	if unit == "" {
		return text
	}
	return text + " " + unit
}

func decimalsFor(q float64) int {
	a := math.Abs(q)
	switch {
	case a >= 100:
		return 0
	case a >= 10:
		return 1
	case a >= 1:
		return 2
	default:
		return 3
	}
}

func formatDecimal(q float64, decimals int) string {
	s := strconv.FormatFloat(q, 'f', decimals, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

func formatCooking(q float64) string {
	whole := math.Floor(q)
	rem := q - whole

	switch {
	case rem <= fractionTolerance && whole > 0:
		return formatDecimal(whole, 0)
	case rem >= 1-fractionTolerance:
		return formatDecimal(whole+1, 0)
	}

	best := -1
	bestDiff := fractionTolerance
	for i, f := range fractions {
		if d := math.Abs(rem - f.value); d <= bestDiff {
			best, bestDiff = i, d
		}
	}
	if best < 0 {
		return formatDecimal(q, 2)
	}
	if whole == 0 {
		return fractions[best].text
	}
	return formatDecimal(whole, 0) + " " + fractions[best].text
}
