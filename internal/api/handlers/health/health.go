package health

import (
	"net/http"
	"runtime"
	"time"

	"grocery-aggregator/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogStatus 健康檢查需要的單位目錄狀態
type CatalogStatus interface {
	Len() int
	LoadedAt() time.Time
	SourceName() string
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Catalog   *CatalogInfo           `json:"catalog,omitempty"`
}

// CatalogInfo 單位目錄狀態
type CatalogInfo struct {
	Source   string    `json:"source"`
	Units    int       `json:"units"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Handler 健康檢查處理程序
type Handler struct {
	version string
	catalog CatalogStatus
}

// NewHandler 創建健康檢查處理程序
func NewHandler(version string, catalog CatalogStatus) *Handler {
	return &Handler{version: version, catalog: catalog}
}

func (h *Handler) catalogInfo() *CatalogInfo {
	if h.catalog == nil {
		return nil
	}
	return &CatalogInfo{
		Source:   h.catalog.SourceName(),
		Units:    h.catalog.Len(),
		LoadedAt: h.catalog.LoadedAt(),
	}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Catalog: h.catalogInfo(),
	}

	common.LogDebug("health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器：單位目錄尚未載入任何條目時回傳 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	info := h.catalogInfo()
	if info == nil || info.Units == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not_ready",
			"catalog": info,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"catalog": info,
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
