package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mgit-community-go/internal/config"
	"mgit-community-go/internal/service"
	"mgit-community-go/pkg/apperr"
	"mgit-community-go/pkg/log"
)

// AdminHandler 负责管理员面板的登录、会话检查与注销。
// 会话令牌放在 HttpOnly Cookie 中，服务端记录存于 Redis。
type AdminHandler struct {
	adminService service.AdminService
	cfg          config.AdminConfig
}

// NewAdminHandler 创建一个新的 AdminHandler 实例。
func NewAdminHandler(adminService service.AdminService, cfg config.AdminConfig) *AdminHandler {
	return &AdminHandler{adminService: adminService, cfg: cfg}
}

// LoginRequest 定义了管理员登录的请求体结构。
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login 校验管理员口令。口令错误返回 success=false 而不是 401，
// 与前端的提示逻辑保持一致。
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的请求负载：口令不能为空"})
		return
	}

	tokenString, err := h.adminService.Login(c.Request.Context(), req.Password)
	if err != nil {
		if errors.Is(err, apperr.New(apperr.ValidationFailed, "")) {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Incorrect password"})
			return
		}
		log.Error("管理员登录失败", err)
		respondError(c, err)
		return
	}

	maxAge := h.cfg.SessionTTLMinute * 60
	c.SetCookie(h.cfg.CookieName, tokenString, maxAge, "/", "", h.cfg.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged in successfully"})
}

// Check 返回当前会话是否仍然有效。
func (h *AdminHandler) Check(c *gin.Context) {
	tokenString, _ := c.Cookie(h.cfg.CookieName)
	loggedIn := h.adminService.CheckSession(c.Request.Context(), tokenString)
	c.JSON(http.StatusOK, gin.H{"loggedIn": loggedIn})
}

// Logout 删除服务端会话记录并清除 Cookie。
func (h *AdminHandler) Logout(c *gin.Context) {
	tokenString, _ := c.Cookie(h.cfg.CookieName)
	if err := h.adminService.Logout(c.Request.Context(), tokenString); err != nil {
		log.Error("管理员注销失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Logout failed"})
		return
	}
	c.SetCookie(h.cfg.CookieName, "", -1, "/", "", h.cfg.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}
