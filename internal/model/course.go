package model

type CourseLevel string

const (
	Beginner     CourseLevel = "beginner"
	Intermediate CourseLevel = "intermediate"
	Advanced     CourseLevel = "advanced"
)

type Course struct {
	BaseModel
	Title           string      `gorm:"size:200;not null" json:"title"`
	Description     string      `gorm:"type:text" json:"description"`
	Level           CourseLevel `gorm:"type:enum('beginner','intermediate','advanced');not null" json:"level"`
	Topic           string      `gorm:"size:100;not null;index" json:"topic"`
	DurationMinutes int         `gorm:"not null" json:"durationMinutes"`
	CreatorID       uint        `gorm:"not null;index" json:"creatorId"`
}

func (Course) TableName() string {
	return "courses"
}
