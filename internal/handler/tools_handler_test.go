package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolsTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewToolsHandler()
	r := gin.New()
	r.POST("/tools/attendance", h.Attendance)
	r.POST("/tools/gpa", h.GPA)
	r.POST("/tools/cgpa/predict", h.PredictCGPA)
	r.POST("/tools/cgpa/required-gpa", h.RequiredGPA)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestToolsAttendance(t *testing.T) {
	r := toolsTestRouter()

	w := postJSON(r, "/tools/attendance", `{"totalClasses":40,"attendedClasses":28,"desiredPercentage":75}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			CurrentPercentage int `json:"currentPercentage"`
			ClassesToAttend   int `json:"classesToAttend"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 70, resp.Data.CurrentPercentage)
	assert.Equal(t, 8, resp.Data.ClassesToAttend)
}

func TestToolsAttendance_BadInput(t *testing.T) {
	r := toolsTestRouter()

	// 缺少必填字段
	w := postJSON(r, "/tools/attendance", `{"attendedClasses":28}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 字段齐全但业务校验失败
	w = postJSON(r, "/tools/attendance", `{"totalClasses":10,"attendedClasses":20,"desiredPercentage":75}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToolsGPA(t *testing.T) {
	r := toolsTestRouter()

	w := postJSON(r, "/tools/gpa", `{"courses":[
		{"name":"DS","credits":4,"grade":"O"},
		{"name":"DM","credits":3,"grade":"A"},
		{"name":"PHY","credits":3,"grade":"B+"}
	]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			GPA          float64 `json:"gpa"`
			TotalCredits int     `json:"totalCredits"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 8.5, resp.Data.GPA, 1e-9)
	assert.Equal(t, 10, resp.Data.TotalCredits)
}

func TestToolsGPA_UnknownGrade(t *testing.T) {
	r := toolsTestRouter()
	w := postJSON(r, "/tools/gpa", `{"courses":[{"name":"DS","credits":4,"grade":"Z"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToolsPredictCGPA(t *testing.T) {
	r := toolsTestRouter()

	w := postJSON(r, "/tools/cgpa/predict", `{"currentCgpa":8.0,"completedCredits":60,"semesters":[{"name":"S5","credits":20,"gpa":9.0}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			PredictedCgpa float64 `json:"predictedCgpa"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 8.25, resp.Data.PredictedCgpa, 1e-9)
}

func TestToolsRequiredGPA(t *testing.T) {
	r := toolsTestRouter()

	w := postJSON(r, "/tools/cgpa/required-gpa", `{"currentCgpa":7.5,"completedCredits":60,"desiredCgpa":8.0,"remainingSemesters":2,"creditsPerSemester":20}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			RequiredGPA float64 `json:"requiredGpa"`
			Achievable  bool    `json:"achievable"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 8.75, resp.Data.RequiredGPA, 1e-9)
	assert.True(t, resp.Data.Achievable)
}
