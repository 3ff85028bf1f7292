package units

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"grocery-aggregator/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// hashReader RedisSource 只需要 HGETALL
type hashReader interface {
	HGetAll(ctx context.Context, key string) *redis.StringStringMapCmd
}

// RedisSource 從 Redis hash 載入單位。
// 欄位為單位代碼，或 "<ingredient_id>:<code>" 表示食材專屬條目；值為 {"family","factor"} JSON。
type RedisSource struct {
	client hashReader
	key    string
}

// NewRedisSource 創建 Redis 來源
func NewRedisSource(client hashReader, key string) *RedisSource {
	return &RedisSource{client: client, key: key}
}

// NewRedisClient 依設定建立並測試 Redis 連線
func NewRedisClient(ctx context.Context, cfg config.CatalogConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Name 來源名稱
func (s *RedisSource) Name() string {
	return "redis:" + s.key
}

type redisUnitValue struct {
	Family string  `json:"family"`
	Factor float64 `json:"factor"`
}

// Load 讀取整個 hash
func (s *RedisSource) Load(ctx context.Context) ([]Unit, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read unit hash: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("unit hash %q is empty", s.key)
	}

	out := make([]Unit, 0, len(fields))
	for field, value := range fields {
		var v redisUnitValue
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			return nil, fmt.Errorf("failed to unmarshal unit %q: %w", field, err)
		}
		fam, err := ParseFamily(v.Family)
		if err != nil {
			return nil, fmt.Errorf("unit %q: %w", field, err)
		}

		u := Unit{Code: field, Family: fam, Factor: v.Factor}
		if ingredientID, code, ok := strings.Cut(field, ":"); ok {
			u.IngredientID = ingredientID
			u.Code = code
		}
		out = append(out, u)
	}
	return out, nil
}
