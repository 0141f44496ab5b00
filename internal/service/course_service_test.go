package service

import (
	"errors"
	"testing"

	"edu_platform_backend/internal/util"
)

// Input validation runs before any store access, so a service without
// repositories is enough for these cases.

func TestRecordQuizScoreValidation(t *testing.T) {
	s := NewCourseService(nil, nil, nil)

	tests := []struct {
		name     string
		score    float64
		maxScore float64
	}{
		{"zero max", 10, 0},
		{"negative max", 10, -5},
		{"negative score", -1, 100},
		{"score above max", 101, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.RecordQuizScore(1, 1, "", tt.score, tt.maxScore)

			var ve *util.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("RecordQuizScore(%v/%v) error = %v, want ValidationError",
					tt.score, tt.maxScore, err)
			}
		})
	}
}

func TestRecordLearningTimeValidation(t *testing.T) {
	s := NewCourseService(nil, nil, nil)

	for _, minutes := range []int{0, -30} {
		err := s.RecordLearningTime(1, 1, minutes)

		var ve *util.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("RecordLearningTime(%d) error = %v, want ValidationError", minutes, err)
		}
	}
}

func TestListRejectsUnknownLevel(t *testing.T) {
	s := NewCourseService(nil, nil, nil)

	_, err := s.List("", "expert")

	var ve *util.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("List(level=expert) error = %v, want ValidationError", err)
	}
}
