package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"edu_platform_backend/internal/model"
)

// The aggregator is a set of pure reductions over immutable record
// snapshots. No internal state, no store access: identical inputs always
// produce identical outputs, so every read path may recompute freely.

// AlertPolicy mirrors config.AlertConfig in aggregation terms.
type AlertPolicy struct {
	InactiveWindow   time.Duration
	FailingThreshold float64
	QuizWindow       int
}

type StudentSummary struct {
	LearningHours        float64 `json:"learningHours"`
	CompletionPercentage int     `json:"completionPercentage"`
	RecentCourseID       uint    `json:"recentCourseId"`
}

// SummarizeStudent reduces a student's records into the dashboard metrics.
// completionPercentage is 0 when the student has no enrollments; this is the
// one documented place a default substitutes for an error.
func SummarizeStudent(records []model.PerformanceRecord, enrolledCount, completedCount int) StudentSummary {
	totalMinutes := 0
	for _, rec := range records {
		totalMinutes += rec.LearningTimeMinutes
	}

	completion := 0
	if enrolledCount > 0 {
		completion = int(math.Round(float64(completedCount) / float64(enrolledCount) * 100))
	}

	return StudentSummary{
		LearningHours:        math.Round(float64(totalMinutes)/60*10) / 10,
		CompletionPercentage: completion,
		RecentCourseID:       recentCourseID(records),
	}
}

// recentCourseID picks the record with the latest LastActiveAt. Ties resolve
// to the lowest course id so repeated calls never flip the answer.
func recentCourseID(records []model.PerformanceRecord) uint {
	var best *model.PerformanceRecord
	for i := range records {
		rec := &records[i]
		if best == nil ||
			rec.LastActiveAt.After(best.LastActiveAt) ||
			(rec.LastActiveAt.Equal(best.LastActiveAt) && rec.CourseID < best.CourseID) {
			best = rec
		}
	}
	if best == nil {
		return 0
	}
	return best.CourseID
}

type TopicMastery struct {
	Topic             string `json:"topic"`
	MasteryPercentage int    `json:"masteryPercentage"`
}

// MasteryByTopic averages completion per topic across the student's records.
// topicOf maps course id to topic; records whose course has no known topic
// are skipped, and topics with no matching records are omitted rather than
// zero-filled. Output sorts by topic.
func MasteryByTopic(records []model.PerformanceRecord, topicOf map[uint]string) []TopicMastery {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, rec := range records {
		topic, ok := topicOf[rec.CourseID]
		if !ok {
			continue
		}
		sums[topic] += rec.CompletionPercentage
		counts[topic]++
	}

	result := make([]TopicMastery, 0, len(sums))
	for topic, sum := range sums {
		result = append(result, TopicMastery{
			Topic:             topic,
			MasteryPercentage: int(math.Round(sum / float64(counts[topic]))),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Topic < result[j].Topic
	})
	return result
}

type ClassBucket struct {
	Date    string  `json:"date"`
	Average float64 `json:"average"`
}

type AlertKind string

const (
	AlertInactive AlertKind = "inactive"
	AlertFailing  AlertKind = "failing"
)

type Alert struct {
	StudentID uint      `json:"studentId"`
	CourseID  uint      `json:"courseId,omitempty"`
	Kind      AlertKind `json:"kind"`
	Message   string    `json:"message"`
}

type ClassSummary struct {
	ClassAverage []ClassBucket `json:"classAverage"`
	Alerts       []Alert       `json:"alerts"`
}

// SummarizeClass buckets class-wide completion and applies the alert policy.
// Buckets cover bucketCount windows of bucketLen ending at now, oldest
// first; a bucket with no active records averages 0. Alerts:
//   - inactive: no record of the student was active within InactiveWindow
//     (one alert per student);
//   - failing: the last QuizWindow quiz scores of one course average below
//     FailingThreshold percent (one alert per student+course).
//
// A student may trigger several alerts, but never two for the same
// condition and course.
func SummarizeClass(records []model.PerformanceRecord, policy AlertPolicy, now time.Time, bucketCount int, bucketLen time.Duration) ClassSummary {
	return ClassSummary{
		ClassAverage: classAverage(records, now, bucketCount, bucketLen),
		Alerts:       classAlerts(records, policy, now),
	}
}

func classAverage(records []model.PerformanceRecord, now time.Time, bucketCount int, bucketLen time.Duration) []ClassBucket {
	buckets := make([]ClassBucket, bucketCount)
	start := now.Add(-time.Duration(bucketCount) * bucketLen)

	for i := 0; i < bucketCount; i++ {
		from := start.Add(time.Duration(i) * bucketLen)
		to := from.Add(bucketLen)

		sum := 0.0
		n := 0
		for _, rec := range records {
			if !rec.LastActiveAt.Before(from) && rec.LastActiveAt.Before(to) {
				sum += rec.CompletionPercentage
				n++
			}
		}

		avg := 0.0
		if n > 0 {
			avg = math.Round(sum/float64(n)*10) / 10
		}
		buckets[i] = ClassBucket{
			Date:    from.Format("2006-01-02"),
			Average: avg,
		}
	}
	return buckets
}

func classAlerts(records []model.PerformanceRecord, policy AlertPolicy, now time.Time) []Alert {
	cutoff := now.Add(-policy.InactiveWindow)

	lastActive := make(map[uint]time.Time)
	for _, rec := range records {
		if rec.LastActiveAt.After(lastActive[rec.StudentID]) {
			lastActive[rec.StudentID] = rec.LastActiveAt
		}
	}

	var alerts []Alert
	for studentID, last := range lastActive {
		if last.Before(cutoff) {
			alerts = append(alerts, Alert{
				StudentID: studentID,
				Kind:      AlertInactive,
				Message:   fmt.Sprintf("No activity in the last %d days", int(policy.InactiveWindow.Hours()/24)),
			})
		}
	}

	for _, rec := range records {
		if len(rec.QuizScores) < policy.QuizWindow {
			continue
		}
		recent := rec.QuizScores[len(rec.QuizScores)-policy.QuizWindow:]

		sum := 0.0
		for _, q := range recent {
			sum += q.Percentage()
		}
		if sum/float64(policy.QuizWindow) < policy.FailingThreshold {
			alerts = append(alerts, Alert{
				StudentID: rec.StudentID,
				CourseID:  rec.CourseID,
				Kind:      AlertFailing,
				Message: fmt.Sprintf("Average below %.0f%% over the last %d quizzes",
					policy.FailingThreshold, policy.QuizWindow),
			})
		}
	}

	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].StudentID != alerts[j].StudentID {
			return alerts[i].StudentID < alerts[j].StudentID
		}
		if alerts[i].Kind != alerts[j].Kind {
			return alerts[i].Kind < alerts[j].Kind
		}
		return alerts[i].CourseID < alerts[j].CourseID
	})
	return alerts
}

// AverageQuizPercentage is the mean normalized score across every quiz event
// in the records, 0 when there are none.
func AverageQuizPercentage(records []model.PerformanceRecord) float64 {
	sum := 0.0
	n := 0
	for _, rec := range records {
		for _, q := range rec.QuizScores {
			sum += q.Percentage()
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*10) / 10
}

// MeanCompletion averages completionPercentage across records, 0 when empty.
func MeanCompletion(records []model.PerformanceRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0.0
	for _, rec := range records {
		sum += rec.CompletionPercentage
	}
	return math.Round(sum/float64(len(records))*10) / 10
}
