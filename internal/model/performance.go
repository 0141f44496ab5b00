package model

import (
	"time"
)

// PerformanceRecord is the single mutable record for one (student, course)
// pair. Learning and quiz events append to it; read paths never mutate it.
type PerformanceRecord struct {
	BaseModel
	StudentID uint `gorm:"not null;uniqueIndex:idx_student_course" json:"studentId"`
	CourseID  uint `gorm:"not null;uniqueIndex:idx_student_course" json:"courseId"`

	QuizScores []QuizScore `gorm:"foreignKey:PerformanceRecordID" json:"quizScores"`

	// 0-100. LearningTimeMinutes only ever grows within a course.
	CompletionPercentage float64   `gorm:"default:0" json:"completionPercentage"`
	LearningTimeMinutes  int       `gorm:"default:0" json:"learningTimeMinutes"`
	LastActiveAt         time.Time `gorm:"index" json:"lastActiveAt"`
}

func (PerformanceRecord) TableName() string {
	return "performance_records"
}

type QuizScore struct {
	BaseModel
	PerformanceRecordID uint      `gorm:"not null;index" json:"-"`
	QuizID              string    `gorm:"size:36;not null" json:"quizId"`
	Score               float64   `gorm:"not null" json:"score"`
	MaxScore            float64   `gorm:"not null" json:"maxScore"`
	Timestamp           time.Time `gorm:"not null;index" json:"timestamp"`
}

func (QuizScore) TableName() string {
	return "quiz_scores"
}

// Percentage normalizes the score against its max; 0 when max is unset.
func (q QuizScore) Percentage() float64 {
	if q.MaxScore <= 0 {
		return 0
	}
	return q.Score / q.MaxScore * 100
}
