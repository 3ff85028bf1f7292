package collaborator

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"grocery-aggregator/internal/core/grocery"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const pantrySchema = `
CREATE TABLE IF NOT EXISTS pantry_items (
	household_id        TEXT NOT NULL,
	ingredient_id       TEXT NOT NULL,
	ingredient_name     TEXT NOT NULL DEFAULT '',
	on_hand_grams       REAL,
	on_hand_milliliters REAL,
	expiry_date         TEXT,
	last_audited_at     TEXT,
	PRIMARY KEY (household_id, ingredient_id)
)`

// pantryRow pantry_items 資料列
type pantryRow struct {
	HouseholdID       string          `db:"household_id"`
	IngredientID      string          `db:"ingredient_id"`
	IngredientName    string          `db:"ingredient_name"`
	OnHandGrams       sql.NullFloat64 `db:"on_hand_grams"`
	OnHandMilliliters sql.NullFloat64 `db:"on_hand_milliliters"`
	ExpiryDate        sql.NullString  `db:"expiry_date"`
	LastAuditedAt     sql.NullString  `db:"last_audited_at"`
}

func (r pantryRow) toRecord() (grocery.PantryRecord, error) {
	rec := grocery.PantryRecord{
		IngredientID:   r.IngredientID,
		IngredientName: r.IngredientName,
	}
	if r.OnHandGrams.Valid {
		v := r.OnHandGrams.Float64
		rec.OnHandGrams = &v
	}
	if r.OnHandMilliliters.Valid {
		v := r.OnHandMilliliters.Float64
		rec.OnHandMilliliters = &v
	}
	if r.ExpiryDate.Valid && r.ExpiryDate.String != "" {
		d, err := grocery.ParseDate(r.ExpiryDate.String)
		if err != nil {
			return grocery.PantryRecord{}, fmt.Errorf("ingredient %s: %w", r.IngredientID, err)
		}
		rec.ExpiryDate = &d
	}
	if r.LastAuditedAt.Valid && r.LastAuditedAt.String != "" {
		t, err := time.Parse(time.RFC3339, r.LastAuditedAt.String)
		if err != nil {
			return grocery.PantryRecord{}, fmt.Errorf("ingredient %s: invalid last_audited_at: %w", r.IngredientID, err)
		}
		rec.LastAuditedAt = &t
	}
	return rec, nil
}

// SQLPantryStore 以 SQLite 資料表提供庫存快照
type SQLPantryStore struct {
	db *sqlx.DB
}

// OpenSQLPantryStore 開啟 SQLite 資料庫並建立資料表
func OpenSQLPantryStore(ctx context.Context, dsn string) (*SQLPantryStore, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open pantry database: %w", err)
	}
	// :memory: 每條連線是獨立的資料庫
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to pantry database: %w", err)
	}

	store := NewSQLPantryStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLPantryStore 使用既有連線
func NewSQLPantryStore(db *sqlx.DB) *SQLPantryStore {
	return &SQLPantryStore{db: db}
}

// EnsureSchema 建立 pantry_items 資料表
func (s *SQLPantryStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, pantrySchema); err != nil {
		return fmt.Errorf("failed to create pantry_items table: %w", err)
	}
	return nil
}

// FetchPantry 讀取家庭的所有庫存紀錄
func (s *SQLPantryStore) FetchPantry(ctx context.Context, householdID string) ([]grocery.PantryRecord, error) {
	var rows []pantryRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT household_id, ingredient_id, ingredient_name, on_hand_grams, on_hand_milliliters,
		       expiry_date, last_audited_at
		FROM pantry_items
		WHERE household_id = ?
		ORDER BY ingredient_id`, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pantry for household %s: %w", householdID, err)
	}

	records := make([]grocery.PantryRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, fmt.Errorf("invalid pantry row for household %s: %w", householdID, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Upsert 新增或更新一筆庫存紀錄
func (s *SQLPantryStore) Upsert(ctx context.Context, householdID string, rec grocery.PantryRecord) error {
	row := pantryRow{
		HouseholdID:    householdID,
		IngredientID:   rec.IngredientID,
		IngredientName: rec.IngredientName,
	}
	if rec.OnHandGrams != nil {
		row.OnHandGrams = sql.NullFloat64{Float64: *rec.OnHandGrams, Valid: true}
	}
	if rec.OnHandMilliliters != nil {
		row.OnHandMilliliters = sql.NullFloat64{Float64: *rec.OnHandMilliliters, Valid: true}
	}
	if rec.ExpiryDate != nil && !rec.ExpiryDate.IsZero() {
		row.ExpiryDate = sql.NullString{String: rec.ExpiryDate.Format("2006-01-02"), Valid: true}
	}
	if rec.LastAuditedAt != nil {
		row.LastAuditedAt = sql.NullString{String: rec.LastAuditedAt.UTC().Format(time.RFC3339), Valid: true}
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO pantry_items (household_id, ingredient_id, ingredient_name, on_hand_grams,
		                          on_hand_milliliters, expiry_date, last_audited_at)
		VALUES (:household_id, :ingredient_id, :ingredient_name, :on_hand_grams,
		        :on_hand_milliliters, :expiry_date, :last_audited_at)
		ON CONFLICT (household_id, ingredient_id) DO UPDATE SET
			ingredient_name = excluded.ingredient_name,
			on_hand_grams = excluded.on_hand_grams,
			on_hand_milliliters = excluded.on_hand_milliliters,
			expiry_date = excluded.expiry_date,
			last_audited_at = excluded.last_audited_at`, row)
	if err != nil {
		return fmt.Errorf("failed to upsert pantry item %s: %w", rec.IngredientID, err)
	}
	return nil
}

// Close 關閉資料庫連線
func (s *SQLPantryStore) Close() error {
	return s.db.Close()
}
