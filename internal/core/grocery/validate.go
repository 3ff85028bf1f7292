package grocery

import (
	"fmt"
	"math"
	"strings"
)

// ValidationReport 驗證結果。Errors 代表輸入有誤，Warnings 僅供參考。
type ValidationReport struct {
	Errors   []string
	Warnings []string
}

// validateRequirements 挑出可用的需求；缺少食材 ID 或數量非正數的需求列入錯誤並排除
func validateRequirements(reqs []Requirement) ([]Requirement, []string) {
	valid := make([]Requirement, 0, len(reqs))
	var errs []string
	for i, r := range reqs {
		switch {
		case strings.TrimSpace(r.IngredientID) == "":
			errs = append(errs, fmt.Sprintf("requirement %d (%s): missing ingredient_id", i, describeRequirement(r)))
		case !(r.Quantity > 0) || math.IsInf(r.Quantity, 0):
			errs = append(errs, fmt.Sprintf("requirement %d (%s): quantity must be a positive number, got %v", i, r.IngredientID, r.Quantity))
		default:
			valid = append(valid, r)
		}
	}
	return valid, errs
}

func describeRequirement(r Requirement) string {
	if name := strings.TrimSpace(r.IngredientName); name != "" {
		return name
	}
	return "unnamed"
}

// Validate 檢查彙總後的清單，不會阻止清單輸出
func Validate(items []Item) ValidationReport {
	var report ValidationReport
	for i, item := range items {
		label := item.IngredientID
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}

		if strings.TrimSpace(item.IngredientID) == "" {
			report.Errors = append(report.Errors, fmt.Sprintf("item %s: missing ingredient_id", label))
		}
		if strings.TrimSpace(item.IngredientName) == "" {
			report.Errors = append(report.Errors, fmt.Sprintf("item %s: missing ingredient_name", label))
		}
		switch {
		case !finiteItem(item):
			report.Errors = append(report.Errors, fmt.Sprintf("item %s: quantity out of range", label))
		case !(item.DisplayQuantity > 0):
			report.Errors = append(report.Errors, fmt.Sprintf("item %s: display_quantity must be positive, got %v", label, item.DisplayQuantity))
		}

		if item.PantryStatus == PantrySufficient && hasDeficit(item) {
			report.Warnings = append(report.Warnings, fmt.Sprintf("item %s: marked sufficient but has a nonzero deficit", label))
		}
		if len(item.ContributingRequirements) == 0 {
			report.Warnings = append(report.Warnings, fmt.Sprintf("item %s: no contributing requirements", label))
		}
	}
	return report
}

func hasDeficit(item Item) bool {
	return (item.DeficitGrams != nil && *item.DeficitGrams > 0) ||
		(item.DeficitMilliliters != nil && *item.DeficitMilliliters > 0)
}

// finiteItem 所有數量欄位都是有限值（超大數量相乘或相加可能溢位成 Inf）
func finiteItem(item Item) bool {
	if !finite(item.DisplayQuantity) {
		return false
	}
	for _, v := range []*float64{
		item.TotalNeededGrams, item.TotalNeededMilliliters,
		item.PantryAvailableGrams, item.PantryAvailableMilliliters,
		item.DeficitGrams, item.DeficitMilliliters,
	} {
		if v != nil && !finite(*v) {
			return false
		}
	}
	for _, q := range item.Unnormalized {
		if !finite(q.Quantity) {
			return false
		}
	}
	return true
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
