package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
)

// ValidRole reports whether s names a known role. Used to reject unknown
// role values on the dashboard/performance endpoints before any store read.
func ValidRole(s string) bool {
	switch UserRole(s) {
	case Student, Teacher:
		return true
	}
	return false
}

type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"type:enum('student','teacher');default:'student'" json:"role"`

	// Enrollment relations are meaningful for students only; join rows keep
	// insertion order so enrolled-course listings are stable within one read.
	EnrolledCourses  []Course `gorm:"many2many:user_enrolled_courses;" json:"-"`
	CompletedCourses []Course `gorm:"many2many:user_completed_courses;" json:"-"`

	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// Summary is the identity payload returned alongside a login token. The
// password hash never serializes.
func (u *User) Summary() map[string]interface{} {
	return map[string]interface{}{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	}
}
