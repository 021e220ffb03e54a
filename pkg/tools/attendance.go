// Package tools 实现学业计算器：出勤管理、GPA 和 CGPA 预测。
package tools

import (
	"math"

	"mgit-community-go/pkg/apperr"
)

// AttendanceResult 是出勤计算的结果。
// ClassesToAttend 表示还需连续出勤多少节课才能到达目标比例；
// ClassesToBunk 表示在不低于目标比例的前提下还可以翘多少节课。
type AttendanceResult struct {
	CurrentPercentage int `json:"currentPercentage"`
	ClassesToAttend   int `json:"classesToAttend"`
	ClassesToBunk     int `json:"classesToBunk"`
}

// Attendance 根据总课时、已出勤课时和目标出勤率计算出勤情况。
func Attendance(total, attended int, desired float64) (*AttendanceResult, error) {
	if total <= 0 {
		return nil, apperr.New(apperr.ValidationFailed, "total classes must be positive")
	}
	if attended < 0 || attended > total {
		return nil, apperr.New(apperr.ValidationFailed, "attended classes out of range")
	}
	if desired <= 0 || desired > 100 {
		return nil, apperr.New(apperr.ValidationFailed, "desired percentage out of range")
	}

	current := int(math.Round(float64(attended) / float64(total) * 100))
	result := &AttendanceResult{CurrentPercentage: current}

	if float64(current) < desired {
		if desired >= 100 {
			// 已经缺过课就永远到不了 100%，翘课余量同样为零
			result.ClassesToAttend = -1
			return result, nil
		}
		result.ClassesToAttend = int(math.Ceil((desired*float64(total) - 100*float64(attended)) / (100 - desired)))
	} else {
		result.ClassesToBunk = int(math.Floor((100*float64(attended) - desired*float64(total)) / desired))
	}
	return result, nil
}
