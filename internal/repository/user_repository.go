package repository

import (
	"time"

	"edu_platform_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdateLastLogin(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_login", time.Now()).
		Error
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_seen", time.Now()).
		Error
}

// EnrolledCourses lists a student's courses. The explicit ordering keeps one
// read stable against concurrent enrollments.
func (r *UserRepository) EnrolledCourses(studentID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.
		Joins("JOIN user_enrolled_courses uec ON uec.course_id = courses.id").
		Where("uec.user_id = ?", studentID).
		Order("uec.course_id ASC").
		Find(&courses).Error
	return courses, err
}

func (r *UserRepository) CompletedCourseCount(studentID uint) (int64, error) {
	var count int64
	err := r.DB.Table("user_completed_courses").
		Where("user_id = ?", studentID).
		Count(&count).Error
	return count, err
}

// CountStudentsEnrolledIn counts distinct students whose enrollment set
// intersects courseIDs. A student enrolled in several matching courses is
// counted once.
func (r *UserRepository) CountStudentsEnrolledIn(courseIDs []uint) (int64, error) {
	if len(courseIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := r.DB.Table("user_enrolled_courses uec").
		Joins("JOIN users u ON u.id = uec.user_id").
		Where("uec.course_id IN ? AND u.role = ?", courseIDs, model.Student).
		Distinct("uec.user_id").
		Count(&count).Error
	return count, err
}

// StudentsEnrolledIn returns the distinct students enrolled in any of the
// given courses, ordered by id for deterministic teacher views.
func (r *UserRepository) StudentsEnrolledIn(courseIDs []uint) ([]model.User, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}

	var users []model.User
	err := r.DB.
		Joins("JOIN user_enrolled_courses uec ON uec.user_id = users.id").
		Where("uec.course_id IN ? AND users.role = ?", courseIDs, model.Student).
		Distinct().
		Order("users.id ASC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) Enroll(student *model.User, course *model.Course) error {
	return r.DB.Model(student).Association("EnrolledCourses").Append(course)
}

func (r *UserRepository) MarkCompleted(student *model.User, course *model.Course) error {
	return r.DB.Model(student).Association("CompletedCourses").Append(course)
}

func (r *UserRepository) IsEnrolled(studentID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.Table("user_enrolled_courses").
		Where("user_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error
	return count > 0, err
}
