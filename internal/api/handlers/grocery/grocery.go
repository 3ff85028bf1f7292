package grocery

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"grocery-aggregator/internal/core/collaborator"
	"grocery-aggregator/internal/core/grocery"
	"grocery-aggregator/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Aggregator 彙總引擎
type Aggregator interface {
	Aggregate(reqs []grocery.Requirement, pantry []grocery.PantryRecord, opts grocery.Options) grocery.Result
}

// Fetcher 從協作服務讀取計畫需求與庫存
type Fetcher interface {
	Fetch(ctx context.Context, planID, householdID string) (collaborator.Snapshot, error)
}

// AggregateRequest 直接提交需求與庫存的彙總請求
type AggregateRequest struct {
	Requirements []grocery.Requirement  `json:"requirements"`
	Pantry       []grocery.PantryRecord `json:"pantry"`
	Options      grocery.Options        `json:"options"`
}

// PlanAggregateRequest 依計畫彙總時可選的請求體
type PlanAggregateRequest struct {
	Options grocery.Options `json:"options"`
}

// Handler 採買清單處理程序
type Handler struct {
	engine   Aggregator
	fetcher  Fetcher
	defaults grocery.Options
}

// NewHandler 創建新的採買清單處理程序。fetcher 可為 nil，此時依計畫彙總的端點回傳 502。
func NewHandler(engine Aggregator, fetcher Fetcher, defaults grocery.Options) *Handler {
	return &Handler{engine: engine, fetcher: fetcher, defaults: defaults}
}

// HandleAggregate 彙總請求中提交的需求與庫存
func (h *Handler) HandleAggregate(c *gin.Context) {
	requestID := common.RequestID(c)

	req := AggregateRequest{Options: h.defaults}
	if err := common.DecodeJSONStrict(c.Request.Body, &req); err != nil {
		h.writeDecodeError(c, err, requestID)
		return
	}
	if err := checkOptions(req.Options); err != nil {
		common.WriteError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	result := h.engine.Aggregate(req.Requirements, req.Pantry, req.Options)

	common.LogInfo("grocery list aggregated",
		zap.String("request_id", requestID),
		zap.Int("requirements", len(req.Requirements)),
		zap.Int("pantry_records", len(req.Pantry)),
		zap.Int("items", len(result.Items)),
		zap.Int("errors", len(result.Errors)),
	)

	c.JSON(http.StatusOK, result)
}

// HandlePlanAggregate 從協作服務讀取計畫需求與家庭庫存後彙總
func (h *Handler) HandlePlanAggregate(c *gin.Context) {
	requestID := common.RequestID(c)
	planID := strings.TrimSpace(c.Param("planID"))
	householdID := strings.TrimSpace(c.Query("household"))

	if planID == "" {
		common.WriteError(c, common.ErrInvalidRequest.Wrap(errors.New("plan id is required")))
		return
	}

	req := PlanAggregateRequest{Options: h.defaults}
	// 請求體可省略
	if err := common.DecodeJSONStrict(c.Request.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		h.writeDecodeError(c, err, requestID)
		return
	}
	if err := checkOptions(req.Options); err != nil {
		common.WriteError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	if h.fetcher == nil {
		common.WriteError(c, common.ErrUpstream.Wrap(errors.New("no collaborator configured")))
		return
	}

	snap, err := h.fetcher.Fetch(c.Request.Context(), planID, householdID)
	if err != nil {
		common.LogError("failed to fetch plan inputs",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("plan_id", planID),
			zap.String("household_id", householdID),
		)
		common.WriteError(c, fetchError(err))
		return
	}

	result := h.engine.Aggregate(snap.Requirements, snap.Pantry, req.Options)

	common.LogInfo("plan grocery list aggregated",
		zap.String("request_id", requestID),
		zap.String("plan_id", planID),
		zap.String("household_id", householdID),
		zap.Int("requirements", len(snap.Requirements)),
		zap.Int("items", len(result.Items)),
	)

	c.JSON(http.StatusOK, result)
}

func (h *Handler) writeDecodeError(c *gin.Context, err error, requestID string) {
	common.LogWarn("invalid request body",
		zap.Error(err),
		zap.String("request_id", requestID),
	)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		common.WriteError(c, common.ErrRequestTooLarge)
		return
	}
	common.WriteError(c, common.ErrInvalidRequest.Wrap(err))
}

func checkOptions(opts grocery.Options) error {
	if opts.MinimumQuantityThreshold < 0 {
		return errors.New("minimum_quantity_threshold must not be negative")
	}
	return nil
}

// fetchError 把協作服務錯誤對應到 API 錯誤
func fetchError(err error) *common.CustomError {
	switch {
	case errors.Is(err, collaborator.ErrNotFound):
		return common.ErrNotFound.Wrap(err)
	case errors.Is(err, context.DeadlineExceeded):
		return common.ErrGatewayTimeout.Wrap(err)
	default:
		return common.ErrUpstream.Wrap(err)
	}
}
