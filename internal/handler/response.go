// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mgit-community-go/pkg/apperr"
)

// respondOK 按统一结构返回成功响应。
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": data})
}

// respondError 把分类错误映射为对应的 HTTP 状态码。
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.ValidationFailed:
		status = http.StatusBadRequest
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.PersistenceUnavailable:
		status = http.StatusServiceUnavailable
	case apperr.TransportClosed:
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"code": status, "message": err.Error(), "data": nil})
}
