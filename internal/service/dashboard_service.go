package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"edu_platform_backend/internal/config"
	"edu_platform_backend/internal/model"
	"edu_platform_backend/internal/repository"
	"edu_platform_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dashboardCacheTTL = 30 * time.Second

// DashboardService composes directory and aggregator reads into one
// role-shaped payload. Composition is read-only; any dependency error aborts
// the whole response. The redis cache is fail-open: a cache miss or cache
// error only means live recomputation.
type DashboardService struct {
	UserRepo   *repository.UserRepository
	CourseRepo *repository.CourseRepository
	PerfRepo   *repository.PerformanceRepository
	Redis      *redis.Client

	mu     sync.RWMutex
	policy AlertPolicy
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	perfRepo *repository.PerformanceRepository,
	rdb *redis.Client,
	alerts config.AlertConfig,
) *DashboardService {
	s := &DashboardService{
		UserRepo:   userRepo,
		CourseRepo: courseRepo,
		PerfRepo:   perfRepo,
		Redis:      rdb,
	}
	s.SetAlertPolicy(alerts)
	return s
}

func (s *DashboardService) SetAlertPolicy(alerts config.AlertConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = AlertPolicy{
		InactiveWindow:   time.Duration(alerts.InactiveDays) * 24 * time.Hour,
		FailingThreshold: alerts.FailingThreshold,
		QuizWindow:       alerts.QuizWindow,
	}
}

func (s *DashboardService) alertPolicy() AlertPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

type RecentCourse struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type RecentActivity struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

type StudentDashboard struct {
	LearningHours        float64          `json:"learningHours"`
	CompletionPercentage int              `json:"completionPercentage"`
	EnrolledCourses      int              `json:"enrolledCourses"`
	RecentCourse         *RecentCourse    `json:"recentCourse"`
	RecentActivities     []RecentActivity `json:"recentActivities"`
}

func (s *DashboardService) GetStudentDashboard(studentID uint) (*StudentDashboard, error) {
	cacheKey := fmt.Sprintf("dashboard:student:%d", studentID)
	var cached StudentDashboard
	if s.cacheGet(cacheKey, &cached) {
		return &cached, nil
	}

	user, err := s.UserRepo.FindByID(studentID)
	if err != nil {
		return nil, err
	}
	if user.Role != model.Student {
		return nil, gorm.ErrRecordNotFound
	}

	enrolled, err := s.UserRepo.EnrolledCourses(studentID)
	if err != nil {
		return nil, err
	}

	completed, err := s.UserRepo.CompletedCourseCount(studentID)
	if err != nil {
		return nil, err
	}

	records, err := s.PerfRepo.FindByStudent(studentID)
	if err != nil {
		return nil, err
	}

	summary := SummarizeStudent(records, len(enrolled), int(completed))

	var recent *RecentCourse
	if summary.RecentCourseID != 0 {
		for _, course := range enrolled {
			if course.ID == summary.RecentCourseID {
				recent = &RecentCourse{ID: course.ID, Title: course.Title}
				break
			}
		}
	}

	dashboard := &StudentDashboard{
		LearningHours:        summary.LearningHours,
		CompletionPercentage: summary.CompletionPercentage,
		EnrolledCourses:      len(enrolled),
		RecentCourse:         recent,
		RecentActivities:     recentActivities(records, enrolled, 5),
	}

	s.cacheSet(cacheKey, dashboard)
	return dashboard, nil
}

// recentActivities derives the activity feed from stored quiz events, newest
// first, capped at limit.
func recentActivities(records []model.PerformanceRecord, courses []model.Course, limit int) []RecentActivity {
	titles := make(map[uint]string, len(courses))
	for _, course := range courses {
		titles[course.ID] = course.Title
	}

	activities := make([]RecentActivity, 0)
	for _, rec := range records {
		title := titles[rec.CourseID]
		if title == "" {
			title = fmt.Sprintf("course %d", rec.CourseID)
		}
		for _, q := range rec.QuizScores {
			activities = append(activities, RecentActivity{
				Type:        "quiz",
				Description: fmt.Sprintf("Scored %.0f%% on a quiz in %q", q.Percentage(), title),
				Timestamp:   q.Timestamp,
			})
		}
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities
}

type StudentAlert struct {
	StudentName string `json:"studentName"`
	Message     string `json:"message"`
}

type TeacherDashboard struct {
	StudentsEnrolled int64          `json:"studentsEnrolled"`
	Courses          int            `json:"courses"`
	StudentAlerts    []StudentAlert `json:"studentAlerts"`
}

func (s *DashboardService) GetTeacherDashboard(teacherID uint) (*TeacherDashboard, error) {
	cacheKey := fmt.Sprintf("dashboard:teacher:%d", teacherID)
	var cached TeacherDashboard
	if s.cacheGet(cacheKey, &cached) {
		return &cached, nil
	}

	user, err := s.UserRepo.FindByID(teacherID)
	if err != nil {
		return nil, err
	}
	if user.Role != model.Teacher {
		return nil, gorm.ErrRecordNotFound
	}

	courses, err := s.CourseRepo.FindByCreator(teacherID)
	if err != nil {
		return nil, err
	}

	courseIDs := make([]uint, len(courses))
	for i, course := range courses {
		courseIDs[i] = course.ID
	}

	studentsEnrolled, err := s.UserRepo.CountStudentsEnrolledIn(courseIDs)
	if err != nil {
		return nil, err
	}

	records, err := s.PerfRepo.FindByCourseIDs(courseIDs)
	if err != nil {
		return nil, err
	}

	students, err := s.UserRepo.StudentsEnrolledIn(courseIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(students))
	for _, st := range students {
		names[st.ID] = st.Name
	}

	alerts := classAlerts(records, s.alertPolicy(), time.Now())
	studentAlerts := make([]StudentAlert, 0, len(alerts))
	for _, a := range alerts {
		name := names[a.StudentID]
		if name == "" {
			name = fmt.Sprintf("student %d", a.StudentID)
		}
		studentAlerts = append(studentAlerts, StudentAlert{
			StudentName: name,
			Message:     a.Message,
		})
	}

	dashboard := &TeacherDashboard{
		StudentsEnrolled: studentsEnrolled,
		Courses:          len(courses),
		StudentAlerts:    studentAlerts,
	}

	s.cacheSet(cacheKey, dashboard)
	return dashboard, nil
}

func (s *DashboardService) cacheGet(key string, out interface{}) bool {
	if s.Redis == nil {
		return false
	}
	raw, err := s.Redis.Get(context.Background(), key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func (s *DashboardService) cacheSet(key string, value interface{}) {
	if s.Redis == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.Redis.Set(context.Background(), key, raw, dashboardCacheTTL).Err(); err != nil {
		logger.Log.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}
