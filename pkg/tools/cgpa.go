package tools

import "mgit-community-go/pkg/apperr"

// Semester 表示一个计划中的学期：学分与预期 GPA。
type Semester struct {
	Name    string  `json:"name"`
	Credits int     `json:"credits"`
	GPA     float64 `json:"gpa"`
}

// PredictCGPA 在当前 CGPA 和已修学分的基础上，叠加若干计划学期后预测总 CGPA。
func PredictCGPA(currentCGPA float64, completedCredits int, semesters []Semester) (float64, error) {
	if currentCGPA < 0 || currentCGPA > 10 {
		return 0, apperr.New(apperr.ValidationFailed, "current CGPA out of range")
	}
	if completedCredits < 0 {
		return 0, apperr.New(apperr.ValidationFailed, "completed credits must not be negative")
	}
	if len(semesters) == 0 {
		return 0, apperr.New(apperr.ValidationFailed, "no semesters given")
	}

	totalCredits := float64(completedCredits)
	totalPoints := float64(completedCredits) * currentCGPA
	for _, sem := range semesters {
		if sem.Credits <= 0 {
			return 0, apperr.New(apperr.ValidationFailed, "semester credits must be positive")
		}
		if sem.GPA < 0 || sem.GPA > 10 {
			return 0, apperr.New(apperr.ValidationFailed, "semester GPA out of range")
		}
		totalCredits += float64(sem.Credits)
		totalPoints += float64(sem.Credits) * sem.GPA
	}

	return totalPoints / totalCredits, nil
}

// RequiredGPAResult 是目标 CGPA 反推的结果。
// RequiredGPA 超过 10 时 Achievable 为 false，表示按现有学期数无法达成。
type RequiredGPAResult struct {
	RequiredGPA float64 `json:"requiredGpa"`
	Achievable  bool    `json:"achievable"`
}

// RequiredGPA 计算剩余学期需要维持的平均 GPA 才能把 CGPA 提升到目标值。
func RequiredGPA(currentCGPA float64, completedCredits int, desiredCGPA float64, remainingSemesters, creditsPerSemester int) (*RequiredGPAResult, error) {
	if currentCGPA < 0 || currentCGPA > 10 || desiredCGPA < 0 || desiredCGPA > 10 {
		return nil, apperr.New(apperr.ValidationFailed, "CGPA out of range")
	}
	if completedCredits <= 0 || remainingSemesters <= 0 || creditsPerSemester <= 0 {
		return nil, apperr.New(apperr.ValidationFailed, "credits and semesters must be positive")
	}

	remainingCredits := float64(remainingSemesters * creditsPerSemester)
	finalCredits := float64(completedCredits) + remainingCredits
	required := (desiredCGPA*finalCredits - currentCGPA*float64(completedCredits)) / remainingCredits

	return &RequiredGPAResult{
		RequiredGPA: required,
		Achievable:  required <= 10,
	}, nil
}
