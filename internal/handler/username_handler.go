package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mgit-community-go/pkg/username"
)

// UsernameHandler 负责访客昵称的生成接口。
type UsernameHandler struct{}

// NewUsernameHandler 创建一个新的 UsernameHandler 实例。
func NewUsernameHandler() *UsernameHandler {
	return &UsernameHandler{}
}

// Get 返回一个随机的访客昵称。
func (h *UsernameHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"username": username.Generate()})
}
