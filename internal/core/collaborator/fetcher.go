package collaborator

import (
	"context"
	"fmt"

	"grocery-aggregator/internal/core/grocery"
	"grocery-aggregator/internal/infrastructure/config"

	"golang.org/x/sync/errgroup"
)

// Snapshot 彙總所需的輸入
type Snapshot struct {
	Requirements []grocery.Requirement
	Pantry       []grocery.PantryRecord
}

// Fetcher 並行讀取需求與庫存，兩者都完成才回傳
type Fetcher struct {
	requirements RequirementSource
	pantry       PantrySource
}

// NewFetcher 創建讀取器。pantry 可為 nil，此時不讀取庫存。
func NewFetcher(requirements RequirementSource, pantry PantrySource) *Fetcher {
	return &Fetcher{requirements: requirements, pantry: pantry}
}

// Fetch 讀取計畫需求與家庭庫存。householdID 為空時略過庫存。
func (f *Fetcher) Fetch(ctx context.Context, planID, householdID string) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		reqs, err := f.requirements.FetchRequirements(gctx, planID)
		if err != nil {
			return err
		}
		snap.Requirements = reqs
		return nil
	})

	if householdID != "" && f.pantry != nil {
		g.Go(func() error {
			records, err := f.pantry.FetchPantry(gctx, householdID)
			if err != nil {
				return err
			}
			snap.Pantry = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// NewPantrySource 依設定選擇庫存來源：有 DSN 用 SQLite，否則有 URL 用 HTTP，都沒有回傳 nil。
// 回傳的 closer 在不需要時呼叫。
func NewPantrySource(ctx context.Context, cfg config.CollaboratorsConfig) (PantrySource, func() error, error) {
	noop := func() error { return nil }
	switch {
	case cfg.PantryDSN != "":
		store, err := OpenSQLPantryStore(ctx, cfg.PantryDSN)
		if err != nil {
			return nil, noop, fmt.Errorf("pantry store: %w", err)
		}
		return store, store.Close, nil
	case cfg.PantryURL != "":
		return NewPantryClient(cfg), noop, nil
	default:
		return nil, noop, nil
	}
}
