package common

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 請求 ID 標頭
const RequestIDHeader = "X-Request-ID"

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// RequestID 取得請求 ID，客戶端未提供時生成並回寫到響應標頭
func RequestID(c *gin.Context) string {
	requestID := c.GetHeader(RequestIDHeader)
	if requestID == "" {
		requestID = c.Writer.Header().Get(RequestIDHeader)
	}
	if requestID == "" {
		requestID = GenerateUUID()
		c.Header(RequestIDHeader, requestID)
	}
	return requestID
}

// WriteError 寫入錯誤響應
func WriteError(c *gin.Context, err *CustomError) {
	resp := ErrorResponse{
		Code:      err.Code,
		Message:   err.Message,
		RequestID: RequestID(c),
	}
	if err.Err != nil {
		resp.Details = err.Err.Error()
	}
	c.AbortWithStatusJSON(err.Status, resp)
}
