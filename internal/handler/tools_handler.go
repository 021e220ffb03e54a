package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mgit-community-go/pkg/tools"
)

// ToolsHandler 负责学业计算器相关的 API 请求。计算全部是纯函数，
// 不涉及任何持久化。
type ToolsHandler struct{}

// NewToolsHandler 创建一个新的 ToolsHandler 实例。
func NewToolsHandler() *ToolsHandler {
	return &ToolsHandler{}
}

// AttendanceRequest 定义了出勤计算的请求体结构。
type AttendanceRequest struct {
	TotalClasses      int     `json:"totalClasses" binding:"required"`
	AttendedClasses   int     `json:"attendedClasses"`
	DesiredPercentage float64 `json:"desiredPercentage" binding:"required"`
}

// Attendance 计算当前出勤率以及需补课/可翘课的节数。
func (h *ToolsHandler) Attendance(c *gin.Context) {
	var req AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的请求负载：课时与目标比例不能为空"})
		return
	}

	result, err := tools.Attendance(req.TotalClasses, req.AttendedClasses, req.DesiredPercentage)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

// GPARequest 定义了 GPA 计算的请求体结构。
type GPARequest struct {
	Courses []tools.Course `json:"courses" binding:"required"`
}

// GPA 按学分加权计算平均绩点。
func (h *ToolsHandler) GPA(c *gin.Context) {
	var req GPARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的请求负载：courses 不能为空"})
		return
	}

	result, err := tools.GPA(req.Courses)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

// CGPAPredictRequest 定义了 CGPA 预测的请求体结构。
type CGPAPredictRequest struct {
	CurrentCGPA      float64          `json:"currentCgpa"`
	CompletedCredits int              `json:"completedCredits"`
	Semesters        []tools.Semester `json:"semesters" binding:"required"`
}

// PredictCGPA 叠加计划学期后预测总 CGPA。
func (h *ToolsHandler) PredictCGPA(c *gin.Context) {
	var req CGPAPredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的请求负载：semesters 不能为空"})
		return
	}

	predicted, err := tools.PredictCGPA(req.CurrentCGPA, req.CompletedCredits, req.Semesters)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"predictedCgpa": predicted})
}

// RequiredGPARequest 定义了目标 CGPA 反推的请求体结构。
type RequiredGPARequest struct {
	CurrentCGPA        float64 `json:"currentCgpa"`
	CompletedCredits   int     `json:"completedCredits" binding:"required"`
	DesiredCGPA        float64 `json:"desiredCgpa" binding:"required"`
	RemainingSemesters int     `json:"remainingSemesters" binding:"required"`
	CreditsPerSemester int     `json:"creditsPerSemester" binding:"required"`
}

// RequiredGPA 计算剩余学期需要维持的平均 GPA。
func (h *ToolsHandler) RequiredGPA(c *gin.Context) {
	var req RequiredGPARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的请求负载：学分与学期参数不能为空"})
		return
	}

	result, err := tools.RequiredGPA(req.CurrentCGPA, req.CompletedCredits, req.DesiredCGPA, req.RemainingSemesters, req.CreditsPerSemester)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}
