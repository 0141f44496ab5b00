package repository

import (
	"edu_platform_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindByIDs(ids []uint) ([]model.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var courses []model.Course
	err := r.DB.Where("id IN ?", ids).Order("id ASC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindByCreator(creatorID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("creator_id = ?", creatorID).Order("id ASC").Find(&courses).Error
	return courses, err
}

// List filters the catalog; empty filter values match everything.
func (r *CourseRepository) List(topic, level string) ([]model.Course, error) {
	query := r.DB.Order("id ASC")
	if topic != "" {
		query = query.Where("topic = ?", topic)
	}
	if level != "" {
		query = query.Where("level = ?", level)
	}

	var courses []model.Course
	err := query.Find(&courses).Error
	return courses, err
}
