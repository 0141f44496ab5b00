package service

import (
	"errors"
	"testing"
	"time"

	"edu_platform_backend/internal/model"
	"edu_platform_backend/internal/util"
)

func TestBucketsFor(t *testing.T) {
	tests := []struct {
		timeRange string
		count     int
		length    time.Duration
	}{
		{"", 4, 7 * 24 * time.Hour},
		{"month", 4, 7 * 24 * time.Hour},
		{"week", 7, 24 * time.Hour},
		{"year", 12, 30 * 24 * time.Hour},
	}

	for _, tt := range tests {
		count, length, err := bucketsFor(tt.timeRange)
		if err != nil {
			t.Errorf("bucketsFor(%q) error: %v", tt.timeRange, err)
			continue
		}
		if count != tt.count || length != tt.length {
			t.Errorf("bucketsFor(%q) = (%d, %v), want (%d, %v)",
				tt.timeRange, count, length, tt.count, tt.length)
		}
	}
}

func TestBucketsForUnknownRange(t *testing.T) {
	_, _, err := bucketsFor("decade")

	var ve *util.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("bucketsFor(decade) error = %v, want ValidationError", err)
	}
}

func TestStudentRowsGroupAndSort(t *testing.T) {
	now := time.Now()

	alice1 := record(2, 1, 80, 60, now.Add(-time.Hour))
	alice2 := record(2, 2, 40, 60, now)
	bob := record(1, 1, 100, 30, now.Add(-2*time.Hour))

	rows := studentRows(
		[]model.PerformanceRecord{alice1, alice2, bob},
		map[uint]string{1: "Bob", 2: "Alice"},
	)

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].StudentID != 1 || rows[0].Name != "Bob" {
		t.Errorf("rows[0] = %+v, want Bob first (sorted by id)", rows[0])
	}
	if rows[1].CompletionPercentage != 60 {
		t.Errorf("Alice completion = %v, want mean 60", rows[1].CompletionPercentage)
	}
	if rows[1].LearningHours != 2.0 {
		t.Errorf("Alice learningHours = %v, want 2.0", rows[1].LearningHours)
	}
	if !rows[1].LastActive.Equal(now) {
		t.Errorf("Alice lastActive = %v, want latest record time", rows[1].LastActive)
	}
}
