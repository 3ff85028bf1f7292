package units

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"grocery-aggregator/internal/pkg/common"

	"go.uber.org/zap"
)

// Source 單位參考資料來源
type Source interface {
	Load(ctx context.Context) ([]Unit, error)
	Name() string
}

// Lookup 查詢單位的能力，Normalizer 只依賴這個介面
type Lookup interface {
	Lookup(code string) (Unit, bool)
	LookupFor(ingredientID, code string) (Unit, bool)
}

// Catalog 單位目錄。快照只在 Refresh 時整份替換，讀取端可並行使用。
type Catalog struct {
	source Source

	firstLoad sync.Once

	mu       sync.RWMutex
	units    map[string]Unit
	scoped   map[string]Unit
	loaded   bool
	loadedAt time.Time
}

// NewCatalog 創建單位目錄，第一次查詢時才載入
func NewCatalog(source Source) *Catalog {
	return &Catalog{
		source: source,
		units:  make(map[string]Unit),
		scoped: make(map[string]Unit),
	}
}

// NewCatalogFromUnits 以固定條目建立已載入的目錄（測試與 CLI 使用）
func NewCatalogFromUnits(entries []Unit) (*Catalog, error) {
	c := NewCatalog(NewStaticSource(entries))
	if err := c.Refresh(context.Background()); err != nil {
		return nil, err
	}
	return c, nil
}

func scopedKey(ingredientID, code string) string {
	return ingredientID + "\x00" + foldCode(code)
}

// Refresh 從來源重新載入。失敗時保留原本的快照。
func (c *Catalog) Refresh(ctx context.Context) error {
	entries, err := c.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load units from %s: %w", c.source.Name(), err)
	}

	units := make(map[string]Unit, len(entries))
	scoped := make(map[string]Unit)
	for _, u := range entries {
		if err := u.Validate(); err != nil {
			return fmt.Errorf("invalid unit from %s: %w", c.source.Name(), err)
		}
		if u.IngredientID != "" {
			scoped[scopedKey(u.IngredientID, u.Code)] = u
			continue
		}
		units[foldCode(u.Code)] = u
	}

	c.mu.Lock()
	c.units = units
	c.scoped = scoped
	c.loaded = true
	c.loadedAt = time.Now()
	c.mu.Unlock()

	common.LogDebug("unit catalog refreshed",
		zap.String("source", c.source.Name()),
		zap.Int("units", len(units)),
		zap.Int("ingredient_overrides", len(scoped)),
	)
	return nil
}

// ensureLoaded 首次使用時載入，只嘗試一次；之後由 Refresh 負責
func (c *Catalog) ensureLoaded() {
	c.firstLoad.Do(func() {
		c.mu.RLock()
		loaded := c.loaded
		c.mu.RUnlock()
		if loaded {
			return
		}
		if err := c.Refresh(context.Background()); err != nil {
			common.LogError("unit catalog first load failed", zap.Error(err))
		}
	})
}

// Lookup 依代碼查詢單位，不分大小寫
func (c *Catalog) Lookup(code string) (Unit, bool) {
	c.ensureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.units[foldCode(code)]
	return u, ok
}

// LookupFor 先找食材專屬的條目，沒有再退回通用條目
func (c *Catalog) LookupFor(ingredientID, code string) (Unit, bool) {
	if ingredientID != "" {
		c.ensureLoaded()
		c.mu.RLock()
		u, ok := c.scoped[scopedKey(ingredientID, code)]
		c.mu.RUnlock()
		if ok {
			return u, true
		}
	}
	return c.Lookup(code)
}

// Len 目前快照中的通用單位數
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.units)
}

// LoadedAt 最近一次成功載入的時間，未載入為零值
func (c *Catalog) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// SourceName 來源名稱
func (c *Catalog) SourceName() string {
	return c.source.Name()
}

// Units 依代碼排序的所有條目（含食材專屬條目）
func (c *Catalog) Units() []Unit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Unit, 0, len(c.units)+len(c.scoped))
	for _, u := range c.units {
		out = append(out, u)
	}
	for _, u := range c.scoped {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IngredientID != out[j].IngredientID {
			return out[i].IngredientID < out[j].IngredientID
		}
		return foldCode(out[i].Code) < foldCode(out[j].Code)
	})
	return out
}

// StartAutoRefresh 依間隔定期重新載入，直到 ctx 結束
func (c *Catalog) StartAutoRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.Refresh(ctx); err != nil {
					common.LogWarn("unit catalog refresh failed, keeping previous snapshot",
						zap.String("source", c.source.Name()),
						zap.Error(err),
					)
				}
			}
		}
	}()
}
