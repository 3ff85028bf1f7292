package grocery

import "time"

// Requirement 單一食譜在某一天展開後的食材需求，建立後不再修改
type Requirement struct {
	IngredientID              string  `json:"ingredient_id"`
	IngredientName            string  `json:"ingredient_name"`
	Quantity                  float64 `json:"quantity"`
	UnitCode                  string  `json:"unit_code"`
	SourceRecipeID            string  `json:"source_recipe_id"`
	SourceRecipeTitle         string  `json:"source_recipe_title"`
	MealDate                  Date    `json:"meal_date"`
	MealType                  string  `json:"meal_type"`
	ServingsMultiplierApplied float64 `json:"servings_multiplier_applied"`
	PreparationNote           string  `json:"preparation_note,omitempty"`
}

// PantryRecord 家庭庫存中的單一食材
type PantryRecord struct {
	IngredientID      string     `json:"ingredient_id"`
	IngredientName    string     `json:"ingredient_name"`
	OnHandGrams       *float64   `json:"on_hand_grams,omitempty"`
	OnHandMilliliters *float64   `json:"on_hand_milliliters,omitempty"`
	ExpiryDate        *Date      `json:"expiry_date,omitempty"`
	LastAuditedAt     *time.Time `json:"last_audited_at,omitempty"`
}

// Priority 採買優先順序
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// PantryStatus 庫存充足程度
type PantryStatus string

const (
	PantryNone       PantryStatus = "none"
	PantryPartial    PantryStatus = "partial"
	PantrySufficient PantryStatus = "sufficient"
)

func (s PantryStatus) rank() int {
	switch s {
	case PantryNone:
		return 0
	case PantryPartial:
		return 1
	default:
		return 2
	}
}

// Quantity 原始數量與單位
type Quantity struct {
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Item 彙總後的採買項目
type Item struct {
	IngredientID               string        `json:"ingredient_id"`
	IngredientName             string        `json:"ingredient_name"`
	TotalNeededGrams           *float64      `json:"total_needed_grams,omitempty"`
	TotalNeededMilliliters     *float64      `json:"total_needed_milliliters,omitempty"`
	PantryAvailableGrams       *float64      `json:"pantry_available_grams,omitempty"`
	PantryAvailableMilliliters *float64      `json:"pantry_available_milliliters,omitempty"`
	DeficitGrams               *float64      `json:"deficit_grams,omitempty"`
	DeficitMilliliters         *float64      `json:"deficit_milliliters,omitempty"`
	DisplayQuantity            float64       `json:"display_quantity"`
	DisplayUnit                string        `json:"display_unit"`
	DisplayText                string        `json:"display_text"`
	Category                   string        `json:"category"`
	Priority                   Priority      `json:"priority"`
	PantryStatus               PantryStatus  `json:"pantry_status"`
	NonCombinable              bool          `json:"non_combinable"`
	Unnormalized               []Quantity    `json:"unnormalized,omitempty"`
	ContributingRequirements   []Requirement `json:"contributing_requirements"`
	Notes                      string        `json:"notes"`
}

// Options 單次彙總的選項。欄位固定，JSON 邊界拒絕未知鍵。
type Options struct {
	IncludePantryCheck       bool    `json:"include_pantry_check"`
	MinimumQuantityThreshold float64 `json:"minimum_quantity_threshold"`
}

// DefaultOptions 預設選項：檢查庫存、不過濾
func DefaultOptions() Options {
	return Options{IncludePantryCheck: true}
}

// Result 彙總結果。Errors 表示輸入有問題，呼叫端不應直接呈現清單；Warnings 僅供參考。
type Result struct {
	Items    []Item   `json:"items"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}
