package plans

import (
	"testing"
	"time"

	"github.com/strideapp/stride/internal/backend"
)

func TestWeekStartTruncatesToMonday(t *testing.T) {
	t.Parallel()

	tests := []struct {
		day  string
		want string
	}{
		{day: "2026-08-24", want: "2026-08-24"}, // Monday stays
		{day: "2026-08-26", want: "2026-08-24"}, // Wednesday
		{day: "2026-08-30", want: "2026-08-24"}, // Sunday belongs to the prior Monday
		{day: "2026-08-31", want: "2026-08-31"}, // next Monday
	}

	for _, test := range tests {
		day, err := time.Parse("2006-01-02", test.day)
		if err != nil {
			t.Fatalf("parse test day: %v", err)
		}
		if got := WeekStart(day).Format("2006-01-02"); got != test.want {
			t.Fatalf("WeekStart(%s) = %s, want %s", test.day, got, test.want)
		}
	}
}

func TestGroupWeeksBucketsAndOrdersWorkouts(t *testing.T) {
	t.Parallel()

	workouts := []backend.Workout{
		{ID: "w3", Date: "2026-09-02"},
		{ID: "w1", Date: "2026-08-25"},
		{ID: "w2", Date: "2026-08-27"},
		{ID: "bad", Date: "not-a-date"},
	}

	weeks := GroupWeeks(workouts, time.UTC)
	if len(weeks) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(weeks))
	}
	if weeks[0].Number != 1 || weeks[1].Number != 2 {
		t.Fatalf("expected consecutive numbering, got %d and %d", weeks[0].Number, weeks[1].Number)
	}
	if weeks[0].Start.Format("2006-01-02") != "2026-08-24" {
		t.Fatalf("expected first week to start 2026-08-24, got %s", weeks[0].Start.Format("2006-01-02"))
	}
	if len(weeks[0].Workouts) != 2 || weeks[0].Workouts[0].ID != "w1" || weeks[0].Workouts[1].ID != "w2" {
		t.Fatalf("unexpected first-week bucket: %+v", weeks[0].Workouts)
	}
	if len(weeks[1].Workouts) != 1 || weeks[1].Workouts[0].ID != "w3" {
		t.Fatalf("unexpected second-week bucket: %+v", weeks[1].Workouts)
	}
}

func TestClampWeekStaysInRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw   int
		count int
		want  int
	}{
		{raw: 0, count: 12, want: 1},
		{raw: -2, count: 12, want: 1},
		{raw: 5, count: 12, want: 5},
		{raw: 30, count: 12, want: 12},
		{raw: 3, count: 0, want: 1},
	}

	for _, test := range tests {
		if got := ClampWeek(test.raw, test.count); got != test.want {
			t.Fatalf("ClampWeek(%d, %d) = %d, want %d", test.raw, test.count, got, test.want)
		}
	}
}

func TestCurrentWeekPicksContainingWeekWithClampedEnds(t *testing.T) {
	t.Parallel()

	weeks := GroupWeeks([]backend.Workout{
		{ID: "w1", Date: "2026-08-25"},
		{ID: "w2", Date: "2026-09-02"},
		{ID: "w3", Date: "2026-09-09"},
	}, time.UTC)

	parse := func(value string) time.Time {
		day, err := time.Parse("2006-01-02", value)
		if err != nil {
			t.Fatalf("parse day: %v", err)
		}
		return day
	}

	if got := CurrentWeek(weeks, parse("2026-09-03")); got != 2 {
		t.Fatalf("expected week 2 for a mid-plan day, got %d", got)
	}
	if got := CurrentWeek(weeks, parse("2026-08-01")); got != 1 {
		t.Fatalf("expected week 1 before the plan starts, got %d", got)
	}
	if got := CurrentWeek(weeks, parse("2026-12-01")); got != 3 {
		t.Fatalf("expected final week after the plan ends, got %d", got)
	}
	if got := CurrentWeek(nil, parse("2026-12-01")); got != 1 {
		t.Fatalf("expected week 1 for an empty plan, got %d", got)
	}
}

func TestValidateFeedback(t *testing.T) {
	t.Parallel()

	if fieldErrors := ValidateFeedback(backend.WorkoutCompleted, nil); len(fieldErrors) != 0 {
		t.Fatalf("expected valid feedback, got %v", fieldErrors)
	}

	low := 0
	if fieldErrors := ValidateFeedback("felt-great", &low); len(fieldErrors) != 2 {
		t.Fatalf("expected status and difficulty errors, got %v", fieldErrors)
	}

	eleven := 11
	fieldErrors := ValidateFeedback(backend.WorkoutSkipped, &eleven)
	if _, ok := fieldErrors["difficulty"]; !ok {
		t.Fatalf("expected difficulty bound error, got %v", fieldErrors)
	}
}
