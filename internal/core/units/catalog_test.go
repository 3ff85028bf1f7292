package units

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakySource struct {
	mu      sync.Mutex
	entries []Unit
	err     error
	calls   int
}

func (s *flakySource) Load(ctx context.Context) ([]Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

func (s *flakySource) Name() string { return "flaky" }

func (s *flakySource) set(entries []Unit, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	s.err = err
}

func TestCatalogLookup(t *testing.T) {
	catalog := NewCatalog(DefaultSource())

	tests := []struct {
		code   string
		family Family
		factor float64
		found  bool
	}{
		{"g", FamilyMass, 1, true},
		{"KG", FamilyMass, 1000, true},
		{" Tbsp ", FamilyVolume, 14.78676478125, true},
		{"cup", FamilyVolume, 236.5882365, true},
		{"each", FamilyCount, 0, true},
		{"handful", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			u, ok := catalog.Lookup(tt.code)
			assert.Equal(t, tt.found, ok)
			if !tt.found {
				return
			}
			assert.Equal(t, tt.family, u.Family)
			assert.InDelta(t, tt.factor, u.Factor, 1e-9)
		})
	}
}

func TestCatalogLookupFor(t *testing.T) {
	catalog, err := NewCatalogFromUnits(append(DefaultUnits(),
		Unit{Code: "cup", Family: FamilyMass, Factor: 120, IngredientID: "flour"},
	))
	require.NoError(t, err)

	u, ok := catalog.LookupFor("flour", "Cup")
	require.True(t, ok)
	assert.Equal(t, FamilyMass, u.Family)
	assert.Equal(t, 120.0, u.Factor)

	u, ok = catalog.LookupFor("milk", "cup")
	require.True(t, ok)
	assert.Equal(t, FamilyVolume, u.Family)

	_, ok = catalog.LookupFor("flour", "handful")
	assert.False(t, ok)
}

func TestCatalogShippedDensities(t *testing.T) {
	catalog := NewCatalog(DefaultSource())

	tests := []struct {
		ingredient string
		code       string
		factor     float64
	}{
		{"flour", "cup", 120},
		{"flour", "Cups", 120},
		{"sugar", "cups", 200},
		{"brown_sugar", "cup", 220},
		{"butter", "tbsp", 14.2},
		{"rice", "cup", 185},
	}

	for _, tt := range tests {
		t.Run(tt.ingredient+"/"+tt.code, func(t *testing.T) {
			u, ok := catalog.LookupFor(tt.ingredient, tt.code)
			require.True(t, ok)
			assert.Equal(t, FamilyMass, u.Family)
			assert.Equal(t, tt.factor, u.Factor)
		})
	}

	u, ok := catalog.LookupFor("milk", "cup")
	require.True(t, ok)
	assert.Equal(t, FamilyVolume, u.Family, "ingredients without a density keep the volume entry")
}

func TestCatalogRefresh(t *testing.T) {
	source := &flakySource{entries: []Unit{{Code: "g", Family: FamilyMass, Factor: 1}}}
	catalog := NewCatalog(source)
	ctx := context.Background()

	t.Run("LoadsOnFirstUse", func(t *testing.T) {
		_, ok := catalog.Lookup("g")
		assert.True(t, ok)
		assert.Equal(t, 1, source.calls)
		assert.False(t, catalog.LoadedAt().IsZero())

		catalog.Lookup("g")
		assert.Equal(t, 1, source.calls)
	})

	t.Run("PicksUpChanges", func(t *testing.T) {
		source.set([]Unit{{Code: "g", Family: FamilyMass, Factor: 1}, {Code: "kg", Family: FamilyMass, Factor: 1000}}, nil)
		require.NoError(t, catalog.Refresh(ctx))

		_, ok := catalog.Lookup("kg")
		assert.True(t, ok)
		assert.Equal(t, 2, catalog.Len())
	})

	t.Run("FailedRefreshKeepsSnapshot", func(t *testing.T) {
		source.set(nil, errors.New("source down"))
		err := catalog.Refresh(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "source down")

		_, ok := catalog.Lookup("kg")
		assert.True(t, ok)
	})

	t.Run("InvalidEntryRejected", func(t *testing.T) {
		source.set([]Unit{{Code: "g", Family: FamilyMass, Factor: -1}}, nil)
		require.Error(t, catalog.Refresh(ctx))

		u, ok := catalog.Lookup("g")
		require.True(t, ok)
		assert.Equal(t, 1.0, u.Factor)
	})
}

func TestCatalogFirstLoadFailureIsNotRetriedPerLookup(t *testing.T) {
	source := &flakySource{err: errors.New("boom")}
	catalog := NewCatalog(source)

	_, ok := catalog.Lookup("g")
	assert.False(t, ok)
	catalog.Lookup("g")
	catalog.LookupFor("flour", "g")
	assert.Equal(t, 1, source.calls)
}

func TestCatalogConcurrentReaders(t *testing.T) {
	catalog := NewCatalog(DefaultSource())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%4 == 0 {
				_ = catalog.Refresh(context.Background())
				return
			}
			_, ok := catalog.Lookup("tbsp")
			assert.True(t, ok)
		}(i)
	}
	wg.Wait()
}

func TestCatalogUnitsSorted(t *testing.T) {
	catalog, err := NewCatalogFromUnits([]Unit{
		{Code: "ml", Family: FamilyVolume, Factor: 1},
		{Code: "g", Family: FamilyMass, Factor: 1},
		{Code: "cup", Family: FamilyMass, Factor: 120, IngredientID: "flour"},
	})
	require.NoError(t, err)

	list := catalog.Units()
	require.Len(t, list, 3)
	assert.Equal(t, "g", list[0].Code)
	assert.Equal(t, "ml", list[1].Code)
	assert.Equal(t, "flour", list[2].IngredientID)
}
