package units

import (
	"context"
	"fmt"

	"grocery-aggregator/internal/infrastructure/config"
)

// SourceFromConfig 依設定選擇單位來源。回傳的 closer 釋放來源持有的連線。
func SourceFromConfig(ctx context.Context, cfg config.CatalogConfig) (Source, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Source {
	case config.CatalogSourceStatic, "":
		return DefaultSource(), noop, nil
	case config.CatalogSourceFile:
		return NewFileSource(cfg.Path), noop, nil
	case config.CatalogSourceRedis:
		client, err := NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		return NewRedisSource(client, cfg.RedisKey), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}
