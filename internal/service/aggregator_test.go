package service

import (
	"reflect"
	"testing"
	"time"

	"edu_platform_backend/internal/model"
)

func testPolicy() AlertPolicy {
	return AlertPolicy{
		InactiveWindow:   7 * 24 * time.Hour,
		FailingThreshold: 60,
		QuizWindow:       3,
	}
}

func record(studentID, courseID uint, completion float64, minutes int, lastActive time.Time) model.PerformanceRecord {
	return model.PerformanceRecord{
		StudentID:            studentID,
		CourseID:             courseID,
		CompletionPercentage: completion,
		LearningTimeMinutes:  minutes,
		LastActiveAt:         lastActive,
	}
}

func TestSummarizeStudentLearningHours(t *testing.T) {
	now := time.Now()
	records := []model.PerformanceRecord{
		record(1, 1, 100, 45, now),
		record(1, 2, 50, 75, now),
	}

	summary := SummarizeStudent(records, 2, 1)

	if summary.LearningHours != 2.0 {
		t.Errorf("learningHours = %v, want 2.0", summary.LearningHours)
	}
	if summary.CompletionPercentage != 50 {
		t.Errorf("completionPercentage = %d, want 50", summary.CompletionPercentage)
	}
}

func TestSummarizeStudentZeroEnrollments(t *testing.T) {
	summary := SummarizeStudent(nil, 0, 0)

	if summary.CompletionPercentage != 0 {
		t.Errorf("completionPercentage = %d, want 0 for empty enrollment", summary.CompletionPercentage)
	}
	if summary.LearningHours != 0 {
		t.Errorf("learningHours = %v, want 0", summary.LearningHours)
	}
	if summary.RecentCourseID != 0 {
		t.Errorf("recentCourseId = %d, want 0", summary.RecentCourseID)
	}
}

func TestSummarizeStudentIdempotent(t *testing.T) {
	now := time.Now()
	records := []model.PerformanceRecord{
		record(1, 3, 80, 30, now.Add(-time.Hour)),
		record(1, 1, 40, 90, now),
	}

	first := SummarizeStudent(records, 2, 1)
	second := SummarizeStudent(records, 2, 1)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("summaries differ across calls: %+v vs %+v", first, second)
	}
}

func TestRecentCourseTieBreak(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	records := []model.PerformanceRecord{
		record(1, 9, 10, 0, ts),
		record(1, 4, 10, 0, ts),
		record(1, 7, 10, 0, ts),
	}

	for i := 0; i < 20; i++ {
		if got := recentCourseID(records); got != 4 {
			t.Fatalf("recentCourseID = %d, want 4 (lowest course id on tie)", got)
		}
	}
}

func TestMasteryByTopic(t *testing.T) {
	now := time.Now()
	records := []model.PerformanceRecord{
		record(1, 1, 100, 0, now),
		record(1, 2, 50, 0, now),
		record(1, 3, 80, 0, now),
	}
	topicOf := map[uint]string{
		1: "algebra",
		2: "algebra",
		3: "physics",
		// course 4 ("chemistry") has no records and must be omitted
	}

	got := MasteryByTopic(records, topicOf)

	want := []TopicMastery{
		{Topic: "algebra", MasteryPercentage: 75},
		{Topic: "physics", MasteryPercentage: 80},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MasteryByTopic = %+v, want %+v", got, want)
	}
}

func TestInactiveAlert(t *testing.T) {
	now := time.Now()
	records := []model.PerformanceRecord{
		record(1, 1, 50, 0, now.Add(-10*24*time.Hour)), // inactive
		record(2, 1, 50, 0, now.Add(-24*time.Hour)),    // active yesterday
	}

	alerts := classAlerts(records, testPolicy(), now)

	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1: %+v", len(alerts), alerts)
	}
	if alerts[0].StudentID != 1 || alerts[0].Kind != AlertInactive {
		t.Errorf("alert = %+v, want inactive alert for student 1", alerts[0])
	}
}

func TestInactiveAlertNotDuplicatedAcrossCourses(t *testing.T) {
	now := time.Now()
	stale := now.Add(-30 * 24 * time.Hour)
	records := []model.PerformanceRecord{
		record(1, 1, 50, 0, stale),
		record(1, 2, 50, 0, stale),
		record(1, 3, 50, 0, stale),
	}

	alerts := classAlerts(records, testPolicy(), now)

	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want exactly 1 inactive alert per student: %+v", len(alerts), alerts)
	}
}

func TestFailingAlert(t *testing.T) {
	now := time.Now()

	quiz := func(score float64) model.QuizScore {
		return model.QuizScore{Score: score, MaxScore: 100, Timestamp: now}
	}

	failing := record(1, 1, 50, 0, now)
	failing.QuizScores = []model.QuizScore{quiz(90), quiz(50), quiz(40), quiz(55)} // last 3 avg 48.3

	passing := record(2, 1, 50, 0, now)
	passing.QuizScores = []model.QuizScore{quiz(40), quiz(70), quiz(80), quiz(65)} // last 3 avg 71.7

	tooFew := record(3, 1, 50, 0, now)
	tooFew.QuizScores = []model.QuizScore{quiz(10), quiz(10)}

	alerts := classAlerts([]model.PerformanceRecord{failing, passing, tooFew}, testPolicy(), now)

	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1: %+v", len(alerts), alerts)
	}
	a := alerts[0]
	if a.StudentID != 1 || a.CourseID != 1 || a.Kind != AlertFailing {
		t.Errorf("alert = %+v, want failing alert for student 1 course 1", a)
	}
}

func TestFailingAlertPerCourse(t *testing.T) {
	now := time.Now()
	quiz := func(score float64) model.QuizScore {
		return model.QuizScore{Score: score, MaxScore: 100, Timestamp: now}
	}

	// Same student failing two courses: one alert per (condition, course).
	first := record(1, 1, 50, 0, now)
	first.QuizScores = []model.QuizScore{quiz(10), quiz(20), quiz(30)}
	second := record(1, 2, 50, 0, now)
	second.QuizScores = []model.QuizScore{quiz(30), quiz(20), quiz(10)}

	alerts := classAlerts([]model.PerformanceRecord{first, second}, testPolicy(), now)

	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want 2: %+v", len(alerts), alerts)
	}
	if alerts[0].CourseID != 1 || alerts[1].CourseID != 2 {
		t.Errorf("alerts not ordered by course: %+v", alerts)
	}
}

func TestClassAlertsDeterministicOrder(t *testing.T) {
	now := time.Now()
	stale := now.Add(-10 * 24 * time.Hour)
	records := []model.PerformanceRecord{
		record(3, 1, 50, 0, stale),
		record(1, 1, 50, 0, stale),
		record(2, 1, 50, 0, stale),
	}

	first := classAlerts(records, testPolicy(), now)
	for i := 0; i < 10; i++ {
		again := classAlerts(records, testPolicy(), now)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("alert order unstable: %+v vs %+v", first, again)
		}
	}
	if first[0].StudentID != 1 || first[1].StudentID != 2 || first[2].StudentID != 3 {
		t.Errorf("alerts not sorted by student: %+v", first)
	}
}

func TestClassAverageBuckets(t *testing.T) {
	now := time.Date(2025, 6, 29, 0, 0, 0, 0, time.UTC)
	records := []model.PerformanceRecord{
		record(1, 1, 80, 0, now.Add(-2*24*time.Hour)),
		record(2, 1, 40, 0, now.Add(-2*24*time.Hour)),
		record(3, 1, 100, 0, now.Add(-20*24*time.Hour)),
	}

	buckets := classAverage(records, now, 4, 7*24*time.Hour)

	if len(buckets) != 4 {
		t.Fatalf("got %d buckets, want 4", len(buckets))
	}
	// Oldest first: the 20-day-old record lands in bucket 1, the two recent
	// ones in the last.
	if buckets[1].Average != 100 {
		t.Errorf("bucket[1].Average = %v, want 100", buckets[1].Average)
	}
	if buckets[3].Average != 60 {
		t.Errorf("bucket[3].Average = %v, want 60", buckets[3].Average)
	}
	if buckets[0].Average != 0 || buckets[2].Average != 0 {
		t.Errorf("empty buckets should average 0: %+v", buckets)
	}
}

func TestAverageQuizPercentage(t *testing.T) {
	now := time.Now()
	rec := record(1, 1, 0, 0, now)
	rec.QuizScores = []model.QuizScore{
		{Score: 8, MaxScore: 10, Timestamp: now},
		{Score: 6, MaxScore: 10, Timestamp: now},
	}

	if got := AverageQuizPercentage([]model.PerformanceRecord{rec}); got != 70 {
		t.Errorf("AverageQuizPercentage = %v, want 70", got)
	}
	if got := AverageQuizPercentage(nil); got != 0 {
		t.Errorf("AverageQuizPercentage(nil) = %v, want 0", got)
	}
}
