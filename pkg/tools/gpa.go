package tools

import (
	"fmt"

	"mgit-community-go/pkg/apperr"
)

// gradePoints 是等级到绩点的映射，与教务处十分制对齐。
var gradePoints = map[string]float64{
	"O":  10,
	"A+": 9,
	"A":  8,
	"B+": 7,
	"B":  6,
	"C":  5,
	"F":  0,
}

// Course 表示一门课程及其学分与等级。
type Course struct {
	Name    string `json:"name"`
	Credits int    `json:"credits"`
	Grade   string `json:"grade"`
}

// GPAResult 是 GPA 计算的结果。
type GPAResult struct {
	GPA          float64 `json:"gpa"`
	TotalCredits int     `json:"totalCredits"`
	TotalPoints  float64 `json:"totalPoints"`
}

// GradePoint 返回某个等级对应的绩点。
func GradePoint(grade string) (float64, bool) {
	p, ok := gradePoints[grade]
	return p, ok
}

// GPA 按学分加权计算一组课程的平均绩点。
func GPA(courses []Course) (*GPAResult, error) {
	if len(courses) == 0 {
		return nil, apperr.New(apperr.ValidationFailed, "no courses given")
	}

	totalCredits := 0
	totalPoints := 0.0
	for _, course := range courses {
		if course.Credits <= 0 {
			return nil, apperr.New(apperr.ValidationFailed, fmt.Sprintf("invalid credits for course %q", course.Name))
		}
		points, ok := gradePoints[course.Grade]
		if !ok {
			return nil, apperr.New(apperr.ValidationFailed, fmt.Sprintf("unknown grade %q", course.Grade))
		}
		totalCredits += course.Credits
		totalPoints += float64(course.Credits) * points
	}

	return &GPAResult{
		GPA:          totalPoints / float64(totalCredits),
		TotalCredits: totalCredits,
		TotalPoints:  totalPoints,
	}, nil
}
