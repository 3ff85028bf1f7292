package grocery

import (
	"fmt"
	"sort"
	"strings"

	"grocery-aggregator/internal/core/units"
)

// line 彙總中間結果：一個食材（分拆模式下為一個食材的一種單位）
type line struct {
	ingredientID   string
	ingredientName string
	contributions  []Requirement

	// 可換算部分的加總
	total      units.NormalizedAmount
	combinable bool

	// 有可換算總量時，無法換算的需求另外列出
	unnormalized []Quantity

	// 全部無法換算時的粗略加總
	fallback Quantity

	nonCombinable bool
	caveats       []string
}

// sortContributions 固定貢獻順序，輸入順序不影響加總結果
func sortContributions(reqs []Requirement) {
	sort.SliceStable(reqs, func(i, j int) bool {
		a, b := reqs[i], reqs[j]
		if !a.MealDate.Equal(b.MealDate.Time) {
			return a.MealDate.Before(b.MealDate.Time)
		}
		if a.MealType != b.MealType {
			return a.MealType < b.MealType
		}
		if a.SourceRecipeID != b.SourceRecipeID {
			return a.SourceRecipeID < b.SourceRecipeID
		}
		if ua, ub := foldName(a.UnitCode), foldName(b.UnitCode); ua != ub {
			return ua < ub
		}
		if a.Quantity != b.Quantity {
			return a.Quantity < b.Quantity
		}
		if a.PreparationNote != b.PreparationNote {
			return a.PreparationNote < b.PreparationNote
		}
		if a.SourceRecipeTitle != b.SourceRecipeTitle {
			return a.SourceRecipeTitle < b.SourceRecipeTitle
		}
		if a.IngredientName != b.IngredientName {
			return a.IngredientName < b.IngredientName
		}
		return a.ServingsMultiplierApplied < b.ServingsMultiplierApplied
	})
}

// groupRequirements 依 ingredient_id 分組，名稱只用於顯示
func groupRequirements(reqs []Requirement) [][]Requirement {
	groups := make(map[string][]Requirement)
	for _, r := range reqs {
		id := strings.TrimSpace(r.IngredientID)
		groups[id] = append(groups[id], r)
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([][]Requirement, 0, len(ids))
	for _, id := range ids {
		g := groups[id]
		sortContributions(g)
		out = append(out, g)
	}
	return out
}

func displayName(reqs []Requirement) string {
	for _, r := range reqs {
		if name := strings.TrimSpace(r.IngredientName); name != "" {
			return name
		}
	}
	return ""
}

// aggregateGroup 合併同一食材的需求。splitMismatched 為 true 時，
// 全部無法換算的需求依單位各自成為一行，不再假設第一個單位適用全部。
func aggregateGroup(normalizer *units.Normalizer, reqs []Requirement, splitMismatched bool) []line {
	id := strings.TrimSpace(reqs[0].IngredientID)
	name := displayName(reqs)

	var total units.NormalizedAmount
	var combinable, nonCombinable []Requirement
	for _, r := range reqs {
		amount := normalizer.NormalizeFor(id, r.Quantity, r.UnitCode)
		if amount.Combinable {
			total = total.Add(amount)
			combinable = append(combinable, r)
			continue
		}
		nonCombinable = append(nonCombinable, r)
	}

	if len(combinable) > 0 {
		l := line{
			ingredientID:   id,
			ingredientName: name,
			contributions:  reqs,
			total:          total,
			combinable:     true,
		}
		if len(nonCombinable) > 0 {
			l.nonCombinable = true
			l.unnormalized = sumByUnit(nonCombinable)
			l.caveats = append(l.caveats, fmt.Sprintf(
				"Not included in total: %s - manual verification recommended", describeQuantities(l.unnormalized)))
		}
		return []line{l}
	}

	if splitMismatched {
		return splitByUnit(id, name, nonCombinable)
	}
	return []line{fallbackLine(id, name, nonCombinable)}
}

// fallbackLine 以第一筆需求的單位粗略加總所有數量
func fallbackLine(id, name string, reqs []Requirement) line {
	unit := strings.TrimSpace(reqs[0].UnitCode)
	var sum float64
	for _, r := range reqs {
		sum += r.Quantity
	}

	l := line{
		ingredientID:   id,
		ingredientName: name,
		contributions:  reqs,
		fallback:       Quantity{Quantity: sum, Unit: unit},
		nonCombinable:  true,
	}
	l.caveats = append(l.caveats, nonStandardNote(unit))
	if distinct := distinctUnits(reqs); len(distinct) > 1 {
		l.caveats = append(l.caveats, fmt.Sprintf("Mixed units (%s) summed as %s", strings.Join(distinct, ", "), displayUnitLabel(unit)))
	}
	return l
}

func splitByUnit(id, name string, reqs []Requirement) []line {
	byUnit := make(map[string][]Requirement)
	var order []string
	for _, r := range reqs {
		key := foldName(r.UnitCode)
		if _, ok := byUnit[key]; !ok {
			order = append(order, key)
		}
		byUnit[key] = append(byUnit[key], r)
	}

	out := make([]line, 0, len(order))
	for _, key := range order {
		out = append(out, fallbackLine(id, name, byUnit[key]))
	}
	return out
}

func nonStandardNote(unit string) string {
	return fmt.Sprintf("Non-standard unit (%s) - manual verification recommended", displayUnitLabel(unit))
}

func displayUnitLabel(unit string) string {
	if unit == "" {
		return "no unit"
	}
	return unit
}

// distinctUnits 依首次出現順序列出不同的單位
func distinctUnits(reqs []Requirement) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range reqs {
		key := foldName(r.UnitCode)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, displayUnitLabel(strings.TrimSpace(r.UnitCode)))
	}
	return out
}

// sumByUnit 相同單位（不分大小寫）的數量相加
func sumByUnit(reqs []Requirement) []Quantity {
	index := make(map[string]int)
	var out []Quantity
	for _, r := range reqs {
		key := foldName(r.UnitCode)
		if i, ok := index[key]; ok {
			out[i].Quantity += r.Quantity
			continue
		}
		index[key] = len(out)
		out = append(out, Quantity{Quantity: r.Quantity, Unit: strings.TrimSpace(r.UnitCode)})
	}
	return out
}

func describeQuantities(qs []Quantity) string {
	parts := make([]string, 0, len(qs))
	for _, q := range qs {
		parts = append(parts, FormatForDisplay(q.Quantity, q.Unit))
	}
	return strings.Join(parts, ", ")
}
