package collaborator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"grocery-aggregator/internal/core/grocery"
	"grocery-aggregator/internal/infrastructure/config"
	"grocery-aggregator/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrNotFound 協作服務回應 404
var ErrNotFound = errors.New("resource not found")

// RequirementSource 取得餐點計畫展開後的食材需求
type RequirementSource interface {
	FetchRequirements(ctx context.Context, planID string) ([]grocery.Requirement, error)
}

// PantrySource 取得家庭庫存快照
type PantrySource interface {
	FetchPantry(ctx context.Context, householdID string) ([]grocery.PantryRecord, error)
}

// newRestyClient 共用的 HTTP 客戶端設定：逾時、對 5xx 與連線錯誤重試
func newRestyClient(baseURL string, cfg config.CollaboratorsConfig) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
}

// RequirementClient 需求展開服務客戶端
type RequirementClient struct {
	client *resty.Client
}

// NewRequirementClient 創建需求展開服務客戶端
func NewRequirementClient(cfg config.CollaboratorsConfig) *RequirementClient {
	return &RequirementClient{client: newRestyClient(cfg.RequirementsURL, cfg)}
}

// FetchRequirements 取得計畫的所有需求
func (c *RequirementClient) FetchRequirements(ctx context.Context, planID string) ([]grocery.Requirement, error) {
	var payload struct {
		Requirements []grocery.Requirement `json:"requirements"`
	}
	if err := getJSON(ctx, c.client, "/meal-plans/{id}/requirements", planID, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch requirements for plan %s: %w", planID, err)
	}

	common.LogDebug("requirements fetched",
		zap.String("plan_id", planID),
		zap.Int("count", len(payload.Requirements)),
	)
	return payload.Requirements, nil
}

// PantryClient 庫存快照服務客戶端
type PantryClient struct {
	client *resty.Client
}

// NewPantryClient 創建庫存快照服務客戶端
func NewPantryClient(cfg config.CollaboratorsConfig) *PantryClient {
	return &PantryClient{client: newRestyClient(cfg.PantryURL, cfg)}
}

// FetchPantry 取得家庭目前的庫存
func (c *PantryClient) FetchPantry(ctx context.Context, householdID string) ([]grocery.PantryRecord, error) {
	var payload struct {
		Items []grocery.PantryRecord `json:"items"`
	}
	if err := getJSON(ctx, c.client, "/households/{id}/pantry", householdID, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch pantry for household %s: %w", householdID, err)
	}

	common.LogDebug("pantry fetched",
		zap.String("household_id", householdID),
		zap.Int("count", len(payload.Items)),
	)
	return payload.Items, nil
}

func getJSON(ctx context.Context, client *resty.Client, path, id string, out interface{}) error {
	resp, err := client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		Get(path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode() != http.StatusOK:
		return fmt.Errorf("upstream returned status %d: %s", resp.StatusCode(), resp.String())
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
