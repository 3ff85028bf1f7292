package grocery

import (
	"fmt"
	"strings"
	"time"

	"grocery-aggregator/internal/core/units"
	"grocery-aggregator/internal/infrastructure/config"
	"grocery-aggregator/internal/pkg/common"

	"go.uber.org/zap"
)

// Settings 優先順序與備註的門檻
type Settings struct {
	MealWindowDays          int
	ExpiryWindowDays        int
	ExpiryCriticalDays      int
	LargeQuantityThreshold  float64
	MediumQuantityThreshold float64
	MediumRequirementCount  int
	RecipeNoteThreshold     int
	SplitMismatchedUnits    bool
}

// DefaultSettings 預設門檻
func DefaultSettings() Settings {
	return Settings{
		MealWindowDays:          3,
		ExpiryWindowDays:        7,
		ExpiryCriticalDays:      3,
		LargeQuantityThreshold:  10,
		MediumQuantityThreshold: 2,
		MediumRequirementCount:  2,
		RecipeNoteThreshold:     3,
	}
}

// SettingsFromConfig 從設定檔轉換
func SettingsFromConfig(cfg config.AggregationConfig) Settings {
	return Settings{
		MealWindowDays:          cfg.MealWindowDays,
		ExpiryWindowDays:        cfg.ExpiryWindowDays,
		ExpiryCriticalDays:      cfg.ExpiryCriticalDays,
		LargeQuantityThreshold:  cfg.LargeQuantityThreshold,
		MediumQuantityThreshold: cfg.MediumQuantityThreshold,
		MediumRequirementCount:  cfg.MediumRequirementCount,
		RecipeNoteThreshold:     cfg.RecipeNoteThreshold,
		SplitMismatchedUnits:    cfg.SplitMismatchedUnits,
	}
}

// OptionsFromConfig 設定檔中的預設選項
func OptionsFromConfig(cfg config.AggregationConfig) Options {
	return Options{
		IncludePantryCheck:       cfg.IncludePantryCheck,
		MinimumQuantityThreshold: cfg.MinimumQuantityThreshold,
	}
}

// Engine 採買清單彙總引擎。本身沒有 I/O，可被多個 goroutine 同時使用。
type Engine struct {
	normalizer  *units.Normalizer
	categorizer Categorizer
	settings    Settings
	now         func() time.Time
}

// Option 引擎選項
type Option func(*Engine)

// WithSettings 設定門檻
func WithSettings(s Settings) Option {
	return func(e *Engine) { e.settings = s }
}

// WithCategorizer 設定分類器
func WithCategorizer(c Categorizer) Option {
	return func(e *Engine) {
		if c != nil {
			e.categorizer = c
		}
	}
}

// WithClock 設定時間來源
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine 創建彙總引擎
func NewEngine(catalog units.Lookup, opts ...Option) *Engine {
	e := &Engine{
		normalizer:  units.NewNormalizer(catalog),
		categorizer: NewKeywordCategorizer(nil),
		settings:    DefaultSettings(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Aggregate 把多份食譜的需求合併成排序後的採買清單。
// 有問題的需求會被排除並列入 Errors，其餘需求仍會產生清單。
func (e *Engine) Aggregate(reqs []Requirement, pantry []PantryRecord, opts Options) Result {
	now := e.now()

	valid, errs := validateRequirements(reqs)
	index, warnings := indexPantry(pantry)

	items := make([]Item, 0, len(valid))
	dropped := 0
	for _, group := range groupRequirements(valid) {
		for _, l := range aggregateGroup(e.normalizer, group, e.settings.SplitMismatchedUnits) {
			item := e.buildItem(l, index, opts, now)
			if !finiteItem(item) {
				errs = append(errs, fmt.Sprintf("ingredient %s: total quantity out of range, item omitted", item.IngredientID))
				continue
			}
			if item.DisplayQuantity < opts.MinimumQuantityThreshold {
				dropped++
				continue
			}
			items = append(items, item)
		}
	}
	sortItems(items)

	report := Validate(items)
	errs = append(errs, report.Errors...)
	warnings = append(warnings, report.Warnings...)

	common.LogDebug("grocery aggregation completed",
		zap.Int("requirements", len(reqs)),
		zap.Int("items", len(items)),
		zap.Int("dropped_below_threshold", dropped),
		zap.Int("errors", len(errs)),
		zap.Int("warnings", len(warnings)),
	)

	if errs == nil {
		errs = []string{}
	}
	if warnings == nil {
		warnings = []string{}
	}
	return Result{Items: items, Warnings: warnings, Errors: errs}
}

func (e *Engine) buildItem(l line, index map[string]*PantryRecord, opts Options, now time.Time) Item {
	rec := reconciliation{status: PantryNone}
	if opts.IncludePantryCheck {
		rec = reconcile(l, index[l.ingredientID], now, e.settings.ExpiryWindowDays)
	}

	item := Item{
		IngredientID:             l.ingredientID,
		IngredientName:           l.ingredientName,
		Category:                 e.categorizer.Categorize(l.ingredientID, l.ingredientName),
		PantryStatus:             rec.status,
		NonCombinable:            l.nonCombinable,
		Unnormalized:             l.unnormalized,
		ContributingRequirements: append([]Requirement(nil), l.contributions...),
	}

	if l.combinable {
		item.TotalNeededGrams = l.total.Grams
		item.TotalNeededMilliliters = l.total.Milliliters
		item.PantryAvailableGrams = rec.availableGrams
		item.PantryAvailableMilliliters = rec.availableMl
		item.DeficitGrams = rec.deficitGrams
		item.DeficitMilliliters = rec.deficitMl
		item.DisplayQuantity, item.DisplayUnit, _ = SelectDisplay(l.total.Grams, l.total.Milliliters)
	} else {
		item.DisplayQuantity = round2(l.fallback.Quantity)
		item.DisplayUnit = l.fallback.Unit
	}
	item.DisplayText = FormatForDisplay(item.DisplayQuantity, item.DisplayUnit)

	if l.total.Grams != nil && l.total.Milliliters != nil {
		q, unit, _ := SelectDisplay(nil, l.total.Milliliters)
		l.caveats = append(l.caveats[:len(l.caveats):len(l.caveats)],
			fmt.Sprintf("Also needs %s by volume", FormatForDisplay(q, unit)))
	}

	item.Priority = e.assignPriority(&item, rec, now)
	item.Notes = e.annotate(l, rec, opts.IncludePantryCheck)
	return item
}

// indexPantry 依 ingredient_id 建立庫存索引；重複的紀錄只取第一筆
func indexPantry(records []PantryRecord) (map[string]*PantryRecord, []string) {
	index := make(map[string]*PantryRecord, len(records))
	var warnings []string
	for i := range records {
		r := &records[i]
		id := strings.TrimSpace(r.IngredientID)
		if id == "" {
			warnings = append(warnings, fmt.Sprintf("pantry record %d: missing ingredient_id, ignored", i))
			continue
		}
		if _, ok := index[id]; ok {
			warnings = append(warnings, fmt.Sprintf("pantry record %d: duplicate record for %s, ignored", i, id))
			continue
		}
		if negative(r.OnHandGrams) || negative(r.OnHandMilliliters) {
			warnings = append(warnings, fmt.Sprintf("pantry record %d: negative on-hand quantity for %s treated as zero", i, id))
		}
		index[id] = r
	}
	return index, warnings
}

func negative(v *float64) bool {
	return v != nil && *v < 0
}
