package grocery

import (
	"strings"

	"golang.org/x/text/cases"
)

// CategoryOther 無法分類時的類別
const CategoryOther = "Other"

// Categorizer 決定食材在採買清單上的類別
type Categorizer interface {
	Categorize(ingredientID, ingredientName string) string
}

// CategorizerFunc 讓一般函式滿足 Categorizer
type CategorizerFunc func(ingredientID, ingredientName string) string

// Categorize 實作 Categorizer
func (f CategorizerFunc) Categorize(ingredientID, ingredientName string) string {
	return f(ingredientID, ingredientName)
}

// KeywordCategorizer 先查覆寫表（食材 ID 或名稱），再做完全比對，最後做子字串比對
type KeywordCategorizer struct {
	overrides map[string]string
}

// NewKeywordCategorizer 創建關鍵字分類器，覆寫表的鍵不分大小寫
func NewKeywordCategorizer(overrides map[string]string) *KeywordCategorizer {
	folded := make(map[string]string, len(overrides))
	for k, v := range overrides {
		if v = strings.TrimSpace(v); v != "" {
			folded[foldName(k)] = v
		}
	}
	return &KeywordCategorizer{overrides: folded}
}

// Categorize 實作 Categorizer
func (c *KeywordCategorizer) Categorize(ingredientID, ingredientName string) string {
	if cat, ok := c.overrides[foldName(ingredientID)]; ok {
		return cat
	}
	name := foldName(ingredientName)
	if cat, ok := c.overrides[name]; ok {
		return cat
	}
	if name == "" {
		return CategoryOther
	}

	if cat, ok := exactCategories[name]; ok {
		return cat
	}
	for _, entry := range keywordCategories {
		if strings.Contains(name, entry.keyword) {
			return entry.category
		}
	}
	return CategoryOther
}

func foldName(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

var exactCategories = map[string]string{
	"eggs":        "Dairy & Eggs",
	"egg":         "Dairy & Eggs",
	"milk":        "Dairy & Eggs",
	"butter":      "Dairy & Eggs",
	"salt":        "Spices & Seasonings",
	"pepper":      "Spices & Seasonings",
	"flour":       "Baking",
	"sugar":       "Baking",
	"rice":        "Pantry",
	"pasta":       "Pantry",
	"water":       "Beverages",
	"garlic":      "Produce",
	"onion":       "Produce",
	"tomato":      "Produce",
	"lemon":       "Produce",
	"olive oil":   "Oils & Condiments",
	"soy sauce":   "Oils & Condiments",
	"bread":       "Bakery",
	"tortillas":   "Bakery",
	"chicken":     "Meat & Seafood",
	"ground beef": "Meat & Seafood",
}

// 子字串比對，較長、較具體的關鍵字在前
var keywordCategories = []struct {
	keyword  string
	category string
}{
	{"baking powder", "Baking"},
	{"baking soda", "Baking"},
	{"vanilla", "Baking"},
	{"cream cheese", "Dairy & Eggs"},
	{"sour cream", "Dairy & Eggs"},
	{"frozen", "Frozen"},
	{"ice cream", "Frozen"},
	{"vinegar", "Oils & Condiments"},
	{"sauce", "Oils & Condiments"},
	{"oil", "Oils & Condiments"},
	{"mustard", "Oils & Condiments"},
	{"ketchup", "Oils & Condiments"},
	{"cheese", "Dairy & Eggs"},
	{"yogurt", "Dairy & Eggs"},
	{"cream", "Dairy & Eggs"},
	{"chicken", "Meat & Seafood"},
	{"beef", "Meat & Seafood"},
	{"pork", "Meat & Seafood"},
	{"bacon", "Meat & Seafood"},
	{"salmon", "Meat & Seafood"},
	{"shrimp", "Meat & Seafood"},
	{"fish", "Meat & Seafood"},
	{"steak", "Meat & Seafood"},
	{"bread", "Bakery"},
	{"bun", "Bakery"},
	{"flour", "Baking"},
	{"sugar", "Baking"},
	{"cinnamon", "Spices & Seasonings"},
	{"cumin", "Spices & Seasonings"},
	{"paprika", "Spices & Seasonings"},
	{"oregano", "Spices & Seasonings"},
	{"spice", "Spices & Seasonings"},
	{"rice", "Pantry"},
	{"pasta", "Pantry"},
	{"noodle", "Pantry"},
	{"bean", "Pantry"},
	{"broth", "Pantry"},
	{"stock", "Pantry"},
	{"juice", "Beverages"},
	{"coffee", "Beverages"},
	{"lettuce", "Produce"},
	{"spinach", "Produce"},
	{"pepper", "Produce"},
	{"potato", "Produce"},
	{"carrot", "Produce"},
	{"apple", "Produce"},
	{"berr", "Produce"},
	{"basil", "Produce"},
	{"parsley", "Produce"},
	{"cilantro", "Produce"},
	{"mushroom", "Produce"},
}
