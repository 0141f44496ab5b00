package repository

import (
	"time"

	"edu_platform_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PerformanceRepository struct {
	DB *gorm.DB
}

func NewPerformanceRepository(db *gorm.DB) *PerformanceRepository {
	return &PerformanceRepository{DB: db}
}

// FindByStudent loads all records for one student, quiz scores included,
// ordered by course so repeated reads are byte-stable.
func (r *PerformanceRepository) FindByStudent(studentID uint) ([]model.PerformanceRecord, error) {
	var records []model.PerformanceRecord
	err := r.DB.
		Preload("QuizScores", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_scores.timestamp ASC, quiz_scores.id ASC")
		}).
		Where("student_id = ?", studentID).
		Order("course_id ASC").
		Find(&records).Error
	return records, err
}

// FindByCourseIDs loads every record touching the given courses, for
// class-wide aggregation.
func (r *PerformanceRepository) FindByCourseIDs(courseIDs []uint) ([]model.PerformanceRecord, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}

	var records []model.PerformanceRecord
	err := r.DB.
		Preload("QuizScores", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_scores.timestamp ASC, quiz_scores.id ASC")
		}).
		Where("course_id IN ?", courseIDs).
		Order("student_id ASC, course_id ASC").
		Find(&records).Error
	return records, err
}

// Ensure upserts the (student, course) record shell. Atomic at the store
// level through the unique index on the pair.
func (r *PerformanceRepository) Ensure(studentID, courseID uint) (*model.PerformanceRecord, error) {
	record := model.PerformanceRecord{
		StudentID:    studentID,
		CourseID:     courseID,
		LastActiveAt: time.Now(),
	}

	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&record).Error
	if err != nil {
		return nil, err
	}

	var existing model.PerformanceRecord
	err = r.DB.Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&existing).Error
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

// AppendQuizScore adds one quiz event and refreshes LastActiveAt in a single
// transaction.
func (r *PerformanceRepository) AppendQuizScore(recordID uint, score *model.QuizScore) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		score.PerformanceRecordID = recordID
		if err := tx.Create(score).Error; err != nil {
			return err
		}
		return tx.Model(&model.PerformanceRecord{}).
			Where("id = ?", recordID).
			Update("last_active_at", score.Timestamp).
			Error
	})
}

// AddLearningTime increments the monotone learning-time counter and bumps
// LastActiveAt.
func (r *PerformanceRepository) AddLearningTime(recordID uint, minutes int) error {
	return r.DB.Model(&model.PerformanceRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"learning_time_minutes": gorm.Expr("learning_time_minutes + ?", minutes),
			"last_active_at":        time.Now(),
		}).Error
}

func (r *PerformanceRepository) SetCompletion(recordID uint, percentage float64) error {
	return r.DB.Model(&model.PerformanceRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"completion_percentage": percentage,
			"last_active_at":        time.Now(),
		}).Error
}
