package units

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"grocery-aggregator/internal/core/units"
	"grocery-aggregator/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Catalog 處理程序需要的單位目錄能力
type Catalog interface {
	units.Lookup
	Refresh(ctx context.Context) error
	Units() []units.Unit
	Len() int
	LoadedAt() time.Time
	SourceName() string
}

// ListResponse 單位列表
type ListResponse struct {
	Source   string       `json:"source"`
	LoadedAt time.Time    `json:"loaded_at"`
	Count    int          `json:"count"`
	Units    []units.Unit `json:"units"`
}

// LookupResponse 單一單位查詢結果
type LookupResponse struct {
	Unit        units.Unit `json:"unit"`
	Convertible bool       `json:"convertible"`
	Scoped      bool       `json:"scoped"`
}

// RefreshResponse 重新載入結果
type RefreshResponse struct {
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	Count    int       `json:"count"`
}

// Handler 單位目錄處理程序
type Handler struct {
	catalog Catalog
}

// NewHandler 創建新的單位目錄處理程序
func NewHandler(catalog Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// HandleList 列出目前快照中的所有單位
func (h *Handler) HandleList(c *gin.Context) {
	list := h.catalog.Units()
	c.JSON(http.StatusOK, ListResponse{
		Source:   h.catalog.SourceName(),
		LoadedAt: h.catalog.LoadedAt(),
		Count:    len(list),
		Units:    list,
	})
}

// HandleLookup 查詢單位，ingredient 參數會優先使用該食材的專屬條目
func (h *Handler) HandleLookup(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	ingredientID := strings.TrimSpace(c.Query("ingredient"))

	var (
		unit units.Unit
		ok   bool
	)
	if ingredientID != "" {
		unit, ok = h.catalog.LookupFor(ingredientID, code)
	} else {
		unit, ok = h.catalog.Lookup(code)
	}
	if !ok {
		common.WriteError(c, common.ErrNotFound.Wrap(errors.New("unknown unit "+code)))
		return
	}

	c.JSON(http.StatusOK, LookupResponse{
		Unit:        unit,
		Convertible: unit.Convertible(),
		Scoped:      unit.IngredientID != "",
	})
}

// HandleRefresh 立即從來源重新載入目錄，失敗時保留舊快照
func (h *Handler) HandleRefresh(c *gin.Context) {
	requestID := common.RequestID(c)

	if err := h.catalog.Refresh(c.Request.Context()); err != nil {
		common.LogError("unit catalog refresh failed",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("source", h.catalog.SourceName()),
		)
		common.WriteError(c, common.ErrCatalogUnavailable.Wrap(err))
		return
	}

	common.LogInfo("unit catalog refreshed",
		zap.String("request_id", requestID),
		zap.String("source", h.catalog.SourceName()),
		zap.Int("units", h.catalog.Len()),
	)

	c.JSON(http.StatusOK, RefreshResponse{
		Source:   h.catalog.SourceName(),
		LoadedAt: h.catalog.LoadedAt(),
		Count:    h.catalog.Len(),
	})
}
