package service

import (
	"math"
	"sort"
	"sync"
	"time"

	"edu_platform_backend/internal/config"
	"edu_platform_backend/internal/model"
	"edu_platform_backend/internal/repository"
	"edu_platform_backend/internal/util"
)

// PerformanceService answers the role-scoped performance queries. All
// reductions run through the pure aggregator; the service only assembles
// store snapshots and shapes the response.
type PerformanceService struct {
	UserRepo   *repository.UserRepository
	CourseRepo *repository.CourseRepository
	PerfRepo   *repository.PerformanceRepository

	mu     sync.RWMutex
	policy AlertPolicy
}

func NewPerformanceService(
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	perfRepo *repository.PerformanceRepository,
	alerts config.AlertConfig,
) *PerformanceService {
	s := &PerformanceService{
		UserRepo:   userRepo,
		CourseRepo: courseRepo,
		PerfRepo:   perfRepo,
	}
	s.SetAlertPolicy(alerts)
	return s
}

func (s *PerformanceService) SetAlertPolicy(alerts config.AlertConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = AlertPolicy{
		InactiveWindow:   time.Duration(alerts.InactiveDays) * 24 * time.Hour,
		FailingThreshold: alerts.FailingThreshold,
		QuizWindow:       alerts.QuizWindow,
	}
}

func (s *PerformanceService) alertPolicy() AlertPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// bucketsFor maps a timeRange query value onto the class-average bucketing.
func bucketsFor(timeRange string) (int, time.Duration, error) {
	switch timeRange {
	case "", "month":
		return 4, 7 * 24 * time.Hour, nil
	case "week":
		return 7, 24 * time.Hour, nil
	case "year":
		return 12, 30 * 24 * time.Hour, nil
	}
	return 0, 0, util.Validation("unknown timeRange: " + timeRange)
}

func rangeCutoff(timeRange string, now time.Time) (time.Time, error) {
	count, length, err := bucketsFor(timeRange)
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(-time.Duration(count) * length), nil
}

type QuizPoint struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
}

type StudentPerformance struct {
	QuizScores       []QuizPoint    `json:"quizScores"`
	TopicMastery     []TopicMastery `json:"topicMastery"`
	AverageQuizScore float64        `json:"averageQuizScore"`
	LearningHours    float64        `json:"totalLearningHours"`
	CompletedCourses int64          `json:"completedCourses"`
}

func (s *PerformanceService) GetStudentPerformance(studentID uint, timeRange, subject string) (*StudentPerformance, error) {
	cutoff, err := rangeCutoff(timeRange, time.Now())
	if err != nil {
		return nil, err
	}

	records, err := s.PerfRepo.FindByStudent(studentID)
	if err != nil {
		return nil, err
	}

	courseIDs := make([]uint, len(records))
	for i, rec := range records {
		courseIDs[i] = rec.CourseID
	}
	courses, err := s.CourseRepo.FindByIDs(courseIDs)
	if err != nil {
		return nil, err
	}

	topicOf := make(map[uint]string, len(courses))
	for _, course := range courses {
		topicOf[course.ID] = course.Topic
	}

	if subject != "" && subject != "all" {
		filtered := records[:0:0]
		for _, rec := range records {
			if topicOf[rec.CourseID] == subject {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	points := make([]QuizPoint, 0)
	totalMinutes := 0
	for _, rec := range records {
		totalMinutes += rec.LearningTimeMinutes
		for _, q := range rec.QuizScores {
			if q.Timestamp.Before(cutoff) {
				continue
			}
			points = append(points, QuizPoint{
				Date:  q.Timestamp.Format("2006-01-02"),
				Score: math.Round(q.Percentage()*10) / 10,
			})
		}
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})

	completed, err := s.UserRepo.CompletedCourseCount(studentID)
	if err != nil {
		return nil, err
	}

	return &StudentPerformance{
		QuizScores:       points,
		TopicMastery:     MasteryByTopic(records, topicOf),
		AverageQuizScore: AverageQuizPercentage(records),
		LearningHours:    math.Round(float64(totalMinutes)/60*10) / 10,
		CompletedCourses: completed,
	}, nil
}

type StudentRow struct {
	StudentID            uint      `json:"studentId"`
	Name                 string    `json:"name"`
	AverageScore         float64   `json:"averageScore"`
	CompletionPercentage float64   `json:"completionPercentage"`
	LearningHours        float64   `json:"learningHours"`
	LastActive           time.Time `json:"lastActive"`
}

type TeacherPerformance struct {
	ClassAverage       []ClassBucket  `json:"classAverage"`
	StudentAlerts      []StudentAlert `json:"studentAlerts"`
	StudentPerformance []StudentRow   `json:"studentPerformance"`
}

func (s *PerformanceService) GetTeacherPerformance(teacherID uint, timeRange string) (*TeacherPerformance, error) {
	bucketCount, bucketLen, err := bucketsFor(timeRange)
	if err != nil {
		return nil, err
	}

	courses, err := s.CourseRepo.FindByCreator(teacherID)
	if err != nil {
		return nil, err
	}
	courseIDs := make([]uint, len(courses))
	for i, course := range courses {
		courseIDs[i] = course.ID
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

	summary := SummarizeClass(records, s.alertPolicy(), time.Now(), bucketCount, bucketLen)

	alerts := make([]StudentAlert, 0, len(summary.Alerts))
	for _, a := range summary.Alerts {
		alerts = append(alerts, StudentAlert{
			StudentName: names[a.StudentID],
			Message:     a.Message,
		})
	}

	return &TeacherPerformance{
		ClassAverage:       summary.ClassAverage,
		StudentAlerts:      alerts,
		StudentPerformance: studentRows(records, names),
	}, nil
}

// studentRows groups class records per student. Rows sort by student id so
// identical snapshots render identically.
func studentRows(records []model.PerformanceRecord, names map[uint]string) []StudentRow {
	grouped := make(map[uint][]model.PerformanceRecord)
	for _, rec := range records {
		grouped[rec.StudentID] = append(grouped[rec.StudentID], rec)
	}

	rows := make([]StudentRow, 0, len(grouped))
	for studentID, recs := range grouped {
		totalMinutes := 0
		lastActive := time.Time{}
		for _, rec := range recs {
			totalMinutes += rec.LearningTimeMinutes
			if rec.LastActiveAt.After(lastActive) {
				lastActive = rec.LastActiveAt
			}
		}

		rows = append(rows, StudentRow{
			StudentID:            studentID,
			Name:                 names[studentID],
			AverageScore:         AverageQuizPercentage(recs),
			CompletionPercentage: MeanCompletion(recs),
			LearningHours:        math.Round(float64(totalMinutes)/60*10) / 10,
			LastActive:           lastActive,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].StudentID < rows[j].StudentID
	})
	return rows
}
