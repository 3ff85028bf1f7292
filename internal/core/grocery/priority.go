package grocery

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// NoteSeparator 備註之間的分隔字串
const NoteSeparator = " | "

// 庫存標記
const (
	NotePantrySufficient   = "In pantry (sufficient)"
	NotePantryPartial      = "Partially in pantry"
	NotePantryNone         = "Not in pantry"
	NotePantryIncomparable = "In pantry (quantity not comparable)"
)

// assignPriority 依序判斷 high / medium / low，第一個成立者為準
func (e *Engine) assignPriority(item *Item, rec reconciliation, now time.Time) Priority {
	for _, r := range item.ContributingRequirements {
		if r.MealDate.IsZero() {
			continue
		}
		if daysUntil(r.MealDate.Time, now) <= e.settings.MealWindowDays {
			return PriorityHigh
		}
	}
	if item.DisplayQuantity > e.settings.LargeQuantityThreshold {
		return PriorityHigh
	}
	if rec.expiring {
		return PriorityHigh
	}

	if item.DisplayQuantity > e.settings.MediumQuantityThreshold ||
		len(item.ContributingRequirements) > e.settings.MediumRequirementCount {
		return PriorityMedium
	}
	return PriorityLow
}

// annotate 組合備註：單位提醒、庫存標記、到期倒數、使用食譜數、準備方式
func (e *Engine) annotate(l line, rec reconciliation, pantryChecked bool) string {
	notes := append([]string(nil), l.caveats...)

	if pantryChecked {
		if marker := pantryMarker(rec); marker != "" {
			notes = append(notes, marker)
		}
		if rec.daysUntilExpiry != nil && rec.expiring {
			notes = append(notes, e.expiryMarker(*rec.daysUntilExpiry))
		}
	}

	if n := distinctRecipes(l.contributions); n > e.settings.RecipeNoteThreshold {
		notes = append(notes, fmt.Sprintf("Used in %d recipes", n))
	}

	if prep := preparationNotes(l.contributions); len(prep) > 0 {
		notes = append(notes, "Prep: "+strings.Join(prep, "; "))
	}
	return strings.Join(notes, NoteSeparator)
}

func pantryMarker(rec reconciliation) string {
	if !rec.quantityComparable {
		if rec.record != nil {
			return NotePantryIncomparable
		}
		return NotePantryNone
	}

	switch rec.status {
	case PantrySufficient:
		return NotePantrySufficient
	case PantryPartial:
		if q, unit, ok := SelectDisplay(rec.deficitGrams, rec.deficitMl); ok && q > 0 {
			return fmt.Sprintf("%s (need %s more)", NotePantryPartial, FormatForDisplay(q, unit))
		}
		return NotePantryPartial
	default:
		return NotePantryNone
	}
}

// expiryMarker 紅色：critical 天數內（含已過期），黃色：其餘到期窗口內
func (e *Engine) expiryMarker(days int) string {
	color := "🟡"
	if days <= e.settings.ExpiryCriticalDays {
		color = "🔴"
	}
	switch {
	case days < 0:
		return fmt.Sprintf("%s Expired %d day%s ago", color, -days, plural(-days))
	case days == 0:
		return color + " Expires today"
	default:
		return fmt.Sprintf("%s Expires in %d day%s", color, days, plural(days))
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func distinctRecipes(reqs []Requirement) int {
	seen := make(map[string]bool)
	for _, r := range reqs {
		key := r.SourceRecipeID
		if key == "" {
			key = "title:" + r.SourceRecipeTitle
		}
		seen[key] = true
	}
	return len(seen)
}

// preparationNotes 去除重複（不分大小寫）的準備說明，保留首次出現順序
func preparationNotes(reqs []Requirement) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range reqs {
		note := strings.TrimSpace(r.PreparationNote)
		if note == "" {
			continue
		}
		key := foldName(note)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, note)
	}
	return out
}

// sortItems 依 (優先順序, 庫存狀態, 類別, 名稱) 排序，食材 ID 與顯示單位為最後的決勝條件
func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Priority.rank() != b.Priority.rank() {
			return a.Priority.rank() < b.Priority.rank()
		}
		if a.PantryStatus.rank() != b.PantryStatus.rank() {
			return a.PantryStatus.rank() < b.PantryStatus.rank()
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if na, nb := foldName(a.IngredientName), foldName(b.IngredientName); na != nb {
			return na < nb
		}
		if a.IngredientID != b.IngredientID {
			return a.IngredientID < b.IngredientID
		}
		return a.DisplayUnit < b.DisplayUnit
	})
}
