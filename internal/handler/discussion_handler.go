package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mgit-community-go/internal/service"
	"mgit-community-go/pkg/log"
)

// DiscussionHandler 负责处理讨论区相关的 API 请求。
type DiscussionHandler struct {
	discussionService service.DiscussionService
	searchService     service.SearchService
}

// NewDiscussionHandler 创建一个新的 DiscussionHandler 实例。
func NewDiscussionHandler(discussionService service.DiscussionService, searchService service.SearchService) *DiscussionHandler {
	return &DiscussionHandler{
		discussionService: discussionService,
		searchService:     searchService,
	}
}

// CreateDiscussionRequest 定义了创建讨论帖的请求体结构。
type CreateDiscussionRequest struct {
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content" binding:"required"`
	Category  string `json:"category" binding:"required"`
	GuestName string `json:"guestName"`
}

// Create 处理创建讨论帖的请求，成功时只返回新帖的 ID。
func (h *DiscussionHandler) Create(c *gin.Context) {
	var req CreateDiscussionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Create: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的请求负载：标题、内容和分类不能为空",
		})
		return
	}

	discussion, err := h.discussionService.CreateDiscussion(req.Title, req.Content, req.Category, req.GuestName)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"id": discussion.ID})
}

// DetailsRequest 定义了讨论详情的请求体结构。
type DetailsRequest struct {
	ID string `json:"id" binding:"required"`
}

// Details 返回讨论帖详情，包括扁平回复和重建好的回复树。
func (h *DiscussionHandler) Details(c *gin.Context) {
	var req DetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的请求负载：id 不能为空"})
		return
	}

	view, err := h.discussionService.GetDiscussion(req.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, view)
}

// LikeRequest 定义了讨论点赞的请求体结构。
type LikeRequest struct {
	ID    string `json:"id" binding:"required"`
	Event string `json:"event" binding:"required"`
}

// Like 处理讨论帖的点赞/取消点赞，返回更新后的讨论。
func (h *DiscussionHandler) Like(c *gin.Context) {
	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的请求负载：id 和 event 不能为空"})
		return
	}

	view, err := h.discussionService.LikeDiscussion(req.ID, req.Event)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, view)
}

// CreateReplyRequest 定义了创建回复的请求体结构。
type CreateReplyRequest struct {
	DiscussionID  string  `json:"discussionId" binding:"required"`
	Content       string  `json:"content" binding:"required"`
	GuestName     string  `json:"guestName"`
	ParentReplyID *string `json:"parentReplyId"`
}

// Reply 在讨论帖下创建一条回复，返回刷新后的完整讨论。
func (h *DiscussionHandler) Reply(c *gin.Context) {
	var req CreateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的请求负载：discussionId 和 content 不能为空"})
		return
	}

	view, err := h.discussionService.CreateReply(req.DiscussionID, req.Content, req.GuestName, req.ParentReplyID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, view)
}

// LikeReply 处理回复的赞/踩/中性事件，返回更新后的回复。
func (h *DiscussionHandler) LikeReply(c *gin.Context) {
	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的请求负载：id 和 event 不能为空"})
		return
	}

	reply, err := h.discussionService.LikeReply(req.ID, req.Event)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, reply)
}

// ListByCategoryRequest 定义了分类列表的请求体结构。
type ListByCategoryRequest struct {
	Category  string `json:"category" binding:"required"`
	SortBy    string `json:"sortBy"`
	TimeRange string `json:"timeRange"`
}

// ListByCategory 按分类、排序方式与时间范围列出讨论帖。
func (h *DiscussionHandler) ListByCategory(c *gin.Context) {
	var req ListByCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的请求负载：category 不能为空"})
		return
	}

	discussions, err := h.discussionService.ListByCategory(req.Category, req.SortBy, req.TimeRange)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, discussions)
}

// Recent 返回首页展示的讨论帖列表。
func (h *DiscussionHandler) Recent(c *gin.Context) {
	discussions, err := h.discussionService.RecentDiscussions()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, discussions)
}

// CategoryStats 返回各分类的主题数与回复数。
func (h *DiscussionHandler) CategoryStats(c *gin.Context) {
	stats, err := h.discussionService.CategoryStats()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}

// Touch 只刷新讨论帖的更新时间，返回讨论详情。
func (h *DiscussionHandler) Touch(c *gin.Context) {
	id := c.Param("id")
	view, err := h.discussionService.TouchDiscussion(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, view)
}

// Search 对讨论帖执行全文检索。
func (h *DiscussionHandler) Search(c *gin.Context) {
	query := c.Query("q")
	results, err := h.searchService.Search(c.Request.Context(), query, 10)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, results)
}
