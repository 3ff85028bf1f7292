package grocery

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"grocery-aggregator/internal/core/units"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)

// farDate 超出所有優先順序窗口
var farDate = NewDate(2024, time.June, 1)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	catalog, err := units.NewCatalogFromUnits(append(units.DefaultUnits(),
		units.Unit{Code: "cup", Family: units.FamilyMass, Factor: 120, IngredientID: "flour"},
	))
	require.NoError(t, err)

	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewEngine(catalog, opts...)
}

func req(id, name string, qty float64, unit, recipe string, date Date) Requirement {
	return Requirement{
		IngredientID:              id,
		IngredientName:            name,
		Quantity:                  qty,
		UnitCode:                  unit,
		SourceRecipeID:            recipe,
		SourceRecipeTitle:         "Recipe " + recipe,
		MealDate:                  date,
		MealType:                  "dinner",
		ServingsMultiplierApplied: 1,
	}
}

func ptr(v float64) *float64 { return &v }

func findItem(t *testing.T, items []Item, id string) Item {
	t.Helper()
	for _, it := range items {
		if it.IngredientID == id {
			return it
		}
	}
	require.Failf(t, "item not found", "ingredient %s", id)
	return Item{}
}

func TestAggregateScenarios(t *testing.T) {
	engine := newTestEngine(t)

	t.Run("FlourCupsAndGrams", func(t *testing.T) {
		result := engine.Aggregate([]Requirement{
			req("flour", "Flour", 2, "cup", "r1", farDate),
			req("flour", "Flour", 250, "g", "r2", farDate),
		}, nil, Options{IncludePantryCheck: true})

		require.Empty(t, result.Errors)
		require.Len(t, result.Items, 1)
		item := result.Items[0]

		require.NotNil(t, item.TotalNeededGrams)
		assert.InDelta(t, 490, *item.TotalNeededGrams, 1e-9)
		assert.Nil(t, item.TotalNeededMilliliters)
		assert.Equal(t, PantryNone, item.PantryStatus)
		require.NotNil(t, item.DeficitGrams)
		assert.InDelta(t, 490, *item.DeficitGrams, 1e-9)
		assert.Equal(t, "g", item.DisplayUnit)
		assert.Equal(t, 490.0, item.DisplayQuantity)
		assert.Equal(t, "490 g", item.DisplayText)
		assert.False(t, item.NonCombinable)
		assert.Len(t, item.ContributingRequirements, 2)
		assert.Contains(t, item.Notes, NotePantryNone)
	})

	t.Run("OliveOilSufficient", func(t *testing.T) {
		result := engine.Aggregate([]Requirement{
			req("olive-oil", "Olive oil", 2, "tbsp", "r1", farDate),
		}, []PantryRecord{
			{IngredientID: "olive-oil", IngredientName: "Olive oil", OnHandMilliliters: ptr(500)},
		}, Options{IncludePantryCheck: true})

		require.Empty(t, result.Errors)
		require.Empty(t, result.Warnings)
		require.Len(t, result.Items, 1)
		item := result.Items[0]

		require.NotNil(t, item.TotalNeededMilliliters)
		assert.InDelta(t, 30, *item.TotalNeededMilliliters, 0.5)
		assert.Equal(t, PantrySufficient, item.PantryStatus)
		require.NotNil(t, item.DeficitMilliliters)
		assert.Equal(t, 0.0, *item.DeficitMilliliters)
		require.NotNil(t, item.PantryAvailableMilliliters)
		assert.Equal(t, 500.0, *item.PantryAvailableMilliliters)
		assert.Equal(t, "ml", item.DisplayUnit)
		assert.Equal(t, 29.57, item.DisplayQuantity)
		assert.Contains(t, item.Notes, NotePantrySufficient)
	})

	t.Run("EggsEachAcrossMeals", func(t *testing.T) {
		result := engine.Aggregate([]Requirement{
			req("eggs", "Eggs", 1, "each", "r1", NewDate(2024, time.June, 1)),
			req("eggs", "Eggs", 1, "each", "r2", NewDate(2024, time.June, 2)),
			req("eggs", "Eggs", 1, "each", "r3", NewDate(2024, time.June, 3)),
		}, nil, Options{IncludePantryCheck: true})

		require.Empty(t, result.Errors)
		require.Len(t, result.Items, 1)
		item := result.Items[0]

		assert.True(t, item.NonCombinable)
		assert.Equal(t, 3.0, item.DisplayQuantity)
		assert.Equal(t, "each", item.DisplayUnit)
		assert.Nil(t, item.TotalNeededGrams)
		assert.Nil(t, item.TotalNeededMilliliters)
		assert.Nil(t, item.DeficitGrams)
		assert.Equal(t, PantryNone, item.PantryStatus)
		assert.Contains(t, item.Notes, "Non-standard unit (each)")
		assert.Contains(t, item.Notes, "manual verification recommended")
		assert.Equal(t, PriorityMedium, item.Priority)
		assert.Equal(t, "Dairy & Eggs", item.Category)
	})
}

func TestAggregateNonCombinableIsolation(t *testing.T) {
	engine := newTestEngine(t)

	result := engine.Aggregate([]Requirement{
		req("milk", "Milk", 1, "cup", "r1", farDate),
		req("milk", "Milk", 2, "splash", "r2", farDate),
	}, nil, DefaultOptions())

	require.Len(t, result.Items, 1)
	item := result.Items[0]

	assert.True(t, item.NonCombinable)
	require.NotNil(t, item.TotalNeededMilliliters)
	assert.InDelta(t, 236.5882365, *item.TotalNeededMilliliters, 1e-9)
	assert.Equal(t, []Quantity{{Quantity: 2, Unit: "splash"}}, item.Unnormalized)
	assert.Equal(t, 236.59, item.DisplayQuantity)
	assert.Contains(t, item.Notes, "2 splash")
	assert.Contains(t, item.Notes, "manual verification recommended")
}

func TestAggregateMismatchedNonCombinableUnits(t *testing.T) {
	reqs := []Requirement{
		req("bread", "Bread", 2, "slice", "r1", NewDate(2024, time.June, 1)),
		req("bread", "Bread", 1, "loaf", "r2", NewDate(2024, time.June, 2)),
		req("bread", "Bread", 4, "slice", "r3", NewDate(2024, time.June, 3)),
	}

	t.Run("FirstUnitSummation", func(t *testing.T) {
		result := newTestEngine(t).Aggregate(reqs, nil, DefaultOptions())

		require.Len(t, result.Items, 1)
		item := result.Items[0]
		assert.Equal(t, 7.0, item.DisplayQuantity)
		assert.Equal(t, "slice", item.DisplayUnit)
		assert.Contains(t, item.Notes, "Non-standard unit (slice)")
		assert.Contains(t, item.Notes, "Mixed units (slice, loaf) summed as slice")
	})

	t.Run("SplitPerUnit", func(t *testing.T) {
		settings := DefaultSettings()
		settings.SplitMismatchedUnits = true
		result := newTestEngine(t, WithSettings(settings)).Aggregate(reqs, nil, DefaultOptions())

		require.Len(t, result.Items, 2)
		byUnit := map[string]Item{}
		for _, it := range result.Items {
			byUnit[it.DisplayUnit] = it
		}
		assert.Equal(t, 6.0, byUnit["slice"].DisplayQuantity)
		assert.Len(t, byUnit["slice"].ContributingRequirements, 2)
		assert.Equal(t, 1.0, byUnit["loaf"].DisplayQuantity)
		assert.NotContains(t, byUnit["slice"].Notes, "Mixed units")
		assert.Equal(t, "slice", result.Items[0].DisplayUnit)
	})
}

func TestAggregateMixedFamilies(t *testing.T) {
	result := newTestEngine(t).Aggregate([]Requirement{
		req("honey", "Honey", 100, "g", "r1", farDate),
		req("honey", "Honey", 2, "tbsp", "r2", farDate),
	}, nil, DefaultOptions())

	require.Len(t, result.Items, 1)
	item := result.Items[0]
	require.NotNil(t, item.TotalNeededGrams)
	require.NotNil(t, item.TotalNeededMilliliters)
	assert.Equal(t, 100.0, *item.TotalNeededGrams)
	assert.Equal(t, "g", item.DisplayUnit)
	assert.Equal(t, 100.0, item.DisplayQuantity)
	assert.Contains(t, item.Notes, "Also needs 29.6 ml by volume")
}

func TestAggregatePantryReconciliation(t *testing.T) {
	engine := newTestEngine(t)
	reqs := []Requirement{
		req("flour", "Flour", 2, "cup", "r1", farDate),
		req("flour", "Flour", 250, "g", "r2", farDate),
	}

	t.Run("Partial", func(t *testing.T) {
		result := engine.Aggregate(reqs, []PantryRecord{
			{IngredientID: "flour", OnHandGrams: ptr(200)},
		}, DefaultOptions())

		item := result.Items[0]
		assert.Equal(t, PantryPartial, item.PantryStatus)
		require.NotNil(t, item.DeficitGrams)
		assert.InDelta(t, 290, *item.DeficitGrams, 1e-9)
		assert.Contains(t, item.Notes, "Partially in pantry (need 290 g more)")
	})

	t.Run("ZeroOnHand", func(t *testing.T) {
		result := engine.Aggregate(reqs, []PantryRecord{
			{IngredientID: "flour", OnHandGrams: ptr(0)},
		}, DefaultOptions())

		item := result.Items[0]
		assert.Equal(t, PantryNone, item.PantryStatus)
		assert.InDelta(t, 490, *item.DeficitGrams, 1e-9)
	})

	t.Run("WrongFamilyOnHand", func(t *testing.T) {
		result := engine.Aggregate(reqs, []PantryRecord{
			{IngredientID: "flour", OnHandMilliliters: ptr(1000)},
		}, DefaultOptions())

		item := result.Items[0]
		assert.Equal(t, PantryNone, item.PantryStatus)
		assert.InDelta(t, 490, *item.DeficitGrams, 1e-9)
	})

	t.Run("PantryCheckDisabled", func(t *testing.T) {
		result := engine.Aggregate(reqs, []PantryRecord{
			{IngredientID: "flour", OnHandGrams: ptr(5000), ExpiryDate: &Date{fixedNow}},
		}, Options{IncludePantryCheck: false})

		item := result.Items[0]
		assert.Equal(t, PantryNone, item.PantryStatus)
		assert.Nil(t, item.DeficitGrams)
		assert.Nil(t, item.PantryAvailableGrams)
		assert.NotContains(t, item.Notes, "pantry")
		assert.NotContains(t, item.Notes, "Expire")
	})

	t.Run("DuplicateAndNegativeRecords", func(t *testing.T) {
		result := engine.Aggregate(reqs, []PantryRecord{
			{IngredientID: "flour", OnHandGrams: ptr(-5)},
			{IngredientID: "flour", OnHandGrams: ptr(5000)},
			{IngredientID: ""},
		}, DefaultOptions())

		require.Len(t, result.Warnings, 3)
		item := result.Items[0]
		assert.Equal(t, PantryNone, item.PantryStatus)
		assert.InDelta(t, 490, *item.DeficitGrams, 1e-9)
	})

	t.Run("RecordNotMutated", func(t *testing.T) {
		pantry := []PantryRecord{{IngredientID: "flour", OnHandGrams: ptr(200)}}
		engine.Aggregate(reqs, pantry, DefaultOptions())
		assert.Equal(t, 200.0, *pantry[0].OnHandGrams)
	})
}

func TestAggregatePriority(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name     string
		reqs     []Requirement
		pantry   []PantryRecord
		opts     Options
		priority Priority
		note     string
	}{
		{
			name:     "SmallFarAwayIsLow",
			reqs:     []Requirement{req("sugar", "Sugar", 1, "kg", "r1", farDate)},
			opts:     DefaultOptions(),
			priority: PriorityLow,
		},
		{
			name:     "MealSoonIsHigh",
			reqs:     []Requirement{req("sugar", "Sugar", 1, "kg", "r1", NewDate(2024, time.May, 3))},
			opts:     DefaultOptions(),
			priority: PriorityHigh,
		},
		{
			name:     "LargeQuantityIsHigh",
			reqs:     []Requirement{req("sugar", "Sugar", 12, "kg", "r1", farDate)},
			opts:     DefaultOptions(),
			priority: PriorityHigh,
		},
		{
			name:     "ModerateQuantityIsMedium",
			reqs:     []Requirement{req("sugar", "Sugar", 3, "kg", "r1", farDate)},
			opts:     DefaultOptions(),
			priority: PriorityMedium,
		},
		{
			name: "ManyRequirementsIsMedium",
			reqs: []Requirement{
				req("sugar", "Sugar", 200, "g", "r1", farDate),
				req("sugar", "Sugar", 300, "g", "r2", farDate),
				req("sugar", "Sugar", 500, "g", "r3", farDate),
			},
			opts:     DefaultOptions(),
			priority: PriorityMedium,
		},
		{
			name:     "ExpiringPantryIsHigh",
			reqs:     []Requirement{req("sugar", "Sugar", 1, "kg", "r1", farDate)},
			pantry:   []PantryRecord{{IngredientID: "sugar", OnHandGrams: ptr(2000), ExpiryDate: datePtr(NewDate(2024, time.May, 5))}},
			opts:     DefaultOptions(),
			priority: PriorityHigh,
			note:     "🟡 Expires in 4 days",
		},
		{
			name:     "CriticalExpiry",
			reqs:     []Requirement{req("sugar", "Sugar", 1, "kg", "r1", farDate)},
			pantry:   []PantryRecord{{IngredientID: "sugar", OnHandGrams: ptr(2000), ExpiryDate: datePtr(NewDate(2024, time.May, 2))}},
			opts:     DefaultOptions(),
			priority: PriorityHigh,
			note:     "🔴 Expires in 1 day",
		},
		{
			name:     "ExpiredRecord",
			reqs:     []Requirement{req("sugar", "Sugar", 1, "kg", "r1", farDate)},
			pantry:   []PantryRecord{{IngredientID: "sugar", OnHandGrams: ptr(2000), ExpiryDate: datePtr(NewDate(2024, time.April, 29))}},
			opts:     DefaultOptions(),
			priority: PriorityHigh,
			note:     "🔴 Expired 2 days ago",
		},
		{
			name:     "ExpiryIgnoredWithoutPantryCheck",
			reqs:     []Requirement{req("sugar", "Sugar", 1, "kg", "r1", farDate)},
			pantry:   []PantryRecord{{IngredientID: "sugar", OnHandGrams: ptr(2000), ExpiryDate: datePtr(NewDate(2024, time.May, 2))}},
			opts:     Options{IncludePantryCheck: false},
			priority: PriorityLow,
		},
		{
			name:     "ExpiryOutsideWindow",
			reqs:     []Requirement{req("sugar", "Sugar", 1, "kg", "r1", farDate)},
			pantry:   []PantryRecord{{IngredientID: "sugar", OnHandGrams: ptr(2000), ExpiryDate: datePtr(NewDate(2024, time.May, 20))}},
			opts:     DefaultOptions(),
			priority: PriorityLow,
			note:     NotePantrySufficient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Aggregate(tt.reqs, tt.pantry, tt.opts)
			require.Len(t, result.Items, 1)
			assert.Equal(t, tt.priority, result.Items[0].Priority)
			if tt.note != "" {
				assert.Contains(t, result.Items[0].Notes, tt.note)
			}
		})
	}
}

func datePtr(d Date) *Date { return &d }

func TestAggregateNotes(t *testing.T) {
	engine := newTestEngine(t)

	reqs := []Requirement{
		req("onion", "Onion", 100, "g", "r1", NewDate(2024, time.June, 1)),
		req("onion", "Onion", 100, "g", "r2", NewDate(2024, time.June, 2)),
		req("onion", "Onion", 100, "g", "r3", NewDate(2024, time.June, 3)),
		req("onion", "Onion", 100, "g", "r4", NewDate(2024, time.June, 4)),
		req("onion", "Onion", 50, "g", "r4", NewDate(2024, time.June, 4)),
	}
	reqs[0].PreparationNote = "diced"
	reqs[1].PreparationNote = "Diced "
	reqs[2].PreparationNote = "sliced"

	result := engine.Aggregate(reqs, nil, Options{IncludePantryCheck: false})
	require.Len(t, result.Items, 1)

	assert.Equal(t, "Used in 4 recipes | Prep: diced; sliced", result.Items[0].Notes)
	assert.Equal(t, 450.0, result.Items[0].DisplayQuantity)
}

func TestAggregateThreshold(t *testing.T) {
	engine := newTestEngine(t)
	reqs := []Requirement{
		req("flour", "Flour", 2, "cup", "r1", farDate),
		req("saffron", "Saffron", 1, "pinch", "r1", farDate),
		req("salt", "Salt", 0.05, "g", "r1", farDate),
		req("sugar", "Sugar", 1.5, "kg", "r1", farDate),
		req("vanilla", "Vanilla extract", 0.5, "tsp", "r1", farDate),
	}

	for _, threshold := range []float64{0, 0.5, 1, 2, 5, 100, 1000} {
		result := engine.Aggregate(reqs, nil, Options{IncludePantryCheck: true, MinimumQuantityThreshold: threshold})
		for _, item := range result.Items {
			assert.GreaterOrEqual(t, item.DisplayQuantity, threshold, item.IngredientID)
		}
	}

	all := engine.Aggregate(reqs, nil, Options{MinimumQuantityThreshold: 0})
	assert.Len(t, all.Items, 5)

	some := engine.Aggregate(reqs, nil, Options{MinimumQuantityThreshold: 2})
	ids := make([]string, 0, len(some.Items))
	for _, it := range some.Items {
		ids = append(ids, it.IngredientID)
	}
	assert.ElementsMatch(t, []string{"flour", "salt", "vanilla"}, ids)
}

func TestAggregateOrderIndependent(t *testing.T) {
	engine := newTestEngine(t)
	reqs := []Requirement{
		req("flour", "Flour", 2, "cup", "r1", NewDate(2024, time.May, 2)),
		req("flour", "Flour", 250, "g", "r2", farDate),
		req("flour", "Flour", 0.1, "kg", "r3", farDate),
		req("olive-oil", "Olive oil", 2, "tbsp", "r1", farDate),
		req("olive-oil", "Olive oil", 0.3333, "cup", "r4", farDate),
		req("eggs", "Eggs", 1, "each", "r1", farDate),
		req("eggs", "Eggs", 2, "each", "r2", farDate),
		req("salt", "Salt", 1, "pinch", "r3", farDate),
		req("sugar", "Sugar", 1, "kg", "r4", farDate),
		req("milk", "Milk", 1, "cup", "r2", farDate),
		req("milk", "Milk", 1, "splash", "r3", farDate),
		req("chicken", "Chicken thighs", 1.2, "lb", "r2", NewDate(2024, time.May, 1)),
	}
	pantry := []PantryRecord{
		{IngredientID: "olive-oil", OnHandMilliliters: ptr(500)},
		{IngredientID: "flour", OnHandGrams: ptr(100)},
		{IngredientID: "sugar", OnHandGrams: ptr(2000), ExpiryDate: datePtr(NewDate(2024, time.May, 6))},
	}

	baseline := engine.Aggregate(reqs, pantry, DefaultOptions())
	require.NotEmpty(t, baseline.Items)
	assert.Equal(t, PantryPartial, findItem(t, baseline.Items, "flour").PantryStatus)
	assert.True(t, findItem(t, baseline.Items, "milk").NonCombinable)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]Requirement(nil), reqs...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := engine.Aggregate(shuffled, pantry, DefaultOptions())
		assert.Equal(t, baseline, got)
	}
}

func TestAggregateSortOrder(t *testing.T) {
	engine := newTestEngine(t)
	result := engine.Aggregate([]Requirement{
		req("sugar", "Sugar", 1, "kg", "r1", farDate),
		req("rice", "Rice", 1, "kg", "r1", farDate),
		req("basil", "Basil", 3, "kg", "r1", farDate),
		req("oil", "Olive oil", 2, "tbsp", "r1", farDate),
		req("flour", "Flour", 250, "g", "r1", farDate),
		req("chicken", "Chicken", 500, "g", "r1", farDate),
		req("beef", "Ground beef", 400, "g", "r1", farDate),
		req("apple", "Apple", 1, "kg", "r1", NewDate(2024, 5, 1)),
	}, []PantryRecord{
		{IngredientID: "rice", OnHandGrams: ptr(5000)},
		{IngredientID: "oil", OnHandMilliliters: ptr(500)},
		{IngredientID: "flour", OnHandGrams: ptr(100)},
	}, DefaultOptions())

	ids := make([]string, 0, len(result.Items))
	for _, it := range result.Items {
		ids = append(ids, it.IngredientID)
	}
	assert.Equal(t, []string{"chicken", "beef", "apple", "flour", "oil", "basil", "sugar", "rice"}, ids)
}

func TestAggregateInputErrors(t *testing.T) {
	engine := newTestEngine(t)
	result := engine.Aggregate([]Requirement{
		req("", "Mystery", 1, "g", "r1", farDate),
		req("flour", "Flour", 0, "g", "r1", farDate),
		req("flour", "Flour", -3, "g", "r1", farDate),
		req("sugar", "Sugar", 1, "kg", "r1", farDate),
	}, nil, DefaultOptions())

	assert.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "missing ingredient_id")
	assert.Contains(t, result.Errors[1], "quantity must be a positive number")
	require.Len(t, result.Items, 1)
	assert.Equal(t, "sugar", result.Items[0].IngredientID)
}

func TestAggregateEmptyInput(t *testing.T) {
	result := newTestEngine(t).Aggregate(nil, nil, DefaultOptions())
	assert.Empty(t, result.Items)
	assert.NotNil(t, result.Items)
	assert.Equal(t, []string{}, result.Errors)
	assert.Equal(t, []string{}, result.Warnings)
}

func TestAggregateCategorizer(t *testing.T) {
	engine := newTestEngine(t, WithCategorizer(CategorizerFunc(func(id, name string) string {
		return "Aisle " + id
	})))
	result := engine.Aggregate([]Requirement{req("x1", "Thing", 1, "kg", "r1", farDate)}, nil, DefaultOptions())
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Aisle x1", result.Items[0].Category)
}

func TestAggregateOverflowingQuantity(t *testing.T) {
	result := newTestEngine(t).Aggregate([]Requirement{
		req("sugar", "Sugar", 1e308, "kg", "r1", farDate),
		req("salt", "Salt", 5, "g", "r1", farDate),
	}, []PantryRecord{{IngredientID: "sugar", OnHandGrams: ptr(10)}}, DefaultOptions())

	require.Len(t, result.Items, 1)
	assert.Equal(t, "salt", result.Items[0].IngredientID)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "ingredient sugar: total quantity out of range")

	_, err := json.Marshal(result)
	assert.NoError(t, err)
}

func TestAggregateSmallUncombinedQuantityNote(t *testing.T) {
	result := newTestEngine(t).Aggregate([]Requirement{
		req("salt", "Salt", 1, "g", "r1", farDate),
		req("salt", "Salt", 0.03, "heaping tsp", "r2", farDate),
	}, nil, DefaultOptions())

	require.Len(t, result.Items, 1)
	assert.Contains(t, result.Items[0].Notes, "Not included in total: 0.03 heaping tsp")
	assert.NotContains(t, result.Items[0].Notes, "0 heaping tsp")
}

func TestAggregateShippedDensities(t *testing.T) {
	catalog, err := units.NewCatalogFromUnits(units.DefaultUnits())
	require.NoError(t, err)
	engine := NewEngine(catalog, WithClock(func() time.Time { return fixedNow }))

	tests := []struct {
		name  string
		reqs  []Requirement
		grams float64
	}{
		{"flour", []Requirement{
			req("flour", "Flour", 2, "cup", "r1", farDate),
			req("flour", "Flour", 250, "g", "r2", farDate),
		}, 490},
		{"sugar", []Requirement{req("sugar", "Sugar", 1, "cups", "r1", farDate)}, 200},
		{"butter", []Requirement{req("butter", "Butter", 2, "tbsp", "r1", farDate)}, 28.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Aggregate(tt.reqs, nil, DefaultOptions())
			require.Len(t, result.Items, 1)
			item := result.Items[0]
			require.NotNil(t, item.TotalNeededGrams)
			assert.InDelta(t, tt.grams, *item.TotalNeededGrams, 1e-9)
			assert.Nil(t, item.TotalNeededMilliliters)
		})
	}
}
