package service

import (
	"errors"
	"time"

	"edu_platform_backend/internal/model"
	"edu_platform_backend/internal/repository"
	"edu_platform_backend/internal/util"

	"gorm.io/gorm"
)

// CourseService owns the catalog plus the enrollment and learning-event
// mutations that feed the performance records.
type CourseService struct {
	CourseRepo *repository.CourseRepository
	UserRepo   *repository.UserRepository
	PerfRepo   *repository.PerformanceRepository
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository,
	perfRepo *repository.PerformanceRepository,
) *CourseService {
	return &CourseService{
		CourseRepo: courseRepo,
		UserRepo:   userRepo,
		PerfRepo:   perfRepo,
	}
}

func (s *CourseService) List(topic, level string) ([]model.Course, error) {
	if level != "" {
		switch model.CourseLevel(level) {
		case model.Beginner, model.Intermediate, model.Advanced:
		default:
			return nil, util.Validation("unknown level: " + level)
		}
	}
	return s.CourseRepo.List(topic, level)
}

func (s *CourseService) Get(id uint) (*model.Course, error) {
	return s.CourseRepo.FindByID(id)
}

func (s *CourseService) Create(course *model.Course) error {
	if course.DurationMinutes <= 0 {
		return util.Validation("durationMinutes must be positive")
	}
	return s.CourseRepo.Create(course)
}

// Enroll adds the course to the student's enrollment set and seeds the
// (student, course) performance record. Enrolling twice is a no-op.
func (s *CourseService) Enroll(studentID, courseID uint) error {
	student, err := s.UserRepo.FindByID(studentID)
	if err != nil {
		return err
	}
	if student.Role != model.Student {
		return util.Validation("only students can enroll")
	}

	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return err
	}

	enrolled, err := s.UserRepo.IsEnrolled(studentID, courseID)
	if err != nil {
		return err
	}
	if enrolled {
		return nil
	}

	if err := s.UserRepo.Enroll(student, course); err != nil {
		return err
	}

	_, err = s.PerfRepo.Ensure(studentID, courseID)
	return err
}

// Complete marks an enrolled course as finished and pins the record's
// completion at 100.
func (s *CourseService) Complete(studentID, courseID uint) error {
	student, err := s.UserRepo.FindByID(studentID)
	if err != nil {
		return err
	}

	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return err
	}

	enrolled, err := s.UserRepo.IsEnrolled(studentID, courseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return util.Validation("not enrolled in this course")
	}

	if err := s.UserRepo.MarkCompleted(student, course); err != nil {
		return err
	}

	record, err := s.PerfRepo.Ensure(studentID, courseID)
	if err != nil {
		return err
	}
	return s.PerfRepo.SetCompletion(record.ID, 100)
}

// RecordQuizScore appends one quiz event as an atomic single-record upsert.
func (s *CourseService) RecordQuizScore(studentID, courseID uint, quizID string, score, maxScore float64) error {
	if maxScore <= 0 {
		return util.Validation("maxScore must be positive")
	}
	if score < 0 || score > maxScore {
		return util.Validation("score must be between 0 and maxScore")
	}

	if err := s.requireEnrollment(studentID, courseID); err != nil {
		return err
	}

	record, err := s.PerfRepo.Ensure(studentID, courseID)
	if err != nil {
		return err
	}

	if quizID == "" {
		quizID = model.GenerateUUID()
	}

	return s.PerfRepo.AppendQuizScore(record.ID, &model.QuizScore{
		QuizID:    quizID,
		Score:     score,
		MaxScore:  maxScore,
		Timestamp: time.Now(),
	})
}

// RecordLearningTime increments the monotone per-course learning counter.
func (s *CourseService) RecordLearningTime(studentID, courseID uint, minutes int) error {
	if minutes <= 0 {
		return util.Validation("minutes must be positive")
	}

	if err := s.requireEnrollment(studentID, courseID); err != nil {
		return err
	}

	record, err := s.PerfRepo.Ensure(studentID, courseID)
	if err != nil {
		return err
	}
	return s.PerfRepo.AddLearningTime(record.ID, minutes)
}

func (s *CourseService) requireEnrollment(studentID, courseID uint) error {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotFound
		}
		return err
	}

	enrolled, err := s.UserRepo.IsEnrolled(studentID, courseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return util.Validation("not enrolled in this course")
	}
	return nil
}
