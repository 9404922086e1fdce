package plans

import (
	"sort"
	"time"

	"github.com/strideapp/stride/internal/backend"
)

const workoutDateLayout = "2006-01-02"

// Week is one Monday-based training week of the plan viewer.
type Week struct {
	Number   int
	Start    time.Time
	Workouts []backend.Workout
}

// WeekStart truncates a date to the Monday of its week.
func WeekStart(day time.Time) time.Time {
	truncated := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	offset := (int(truncated.Weekday()) + 6) % 7
	return truncated.AddDate(0, 0, -offset)
}

// GroupWeeks buckets a plan's workouts into consecutive numbered weeks,
// ordered chronologically. Workouts with unparseable dates are dropped.
func GroupWeeks(workouts []backend.Workout, location *time.Location) []Week {
	if location == nil {
		location = time.UTC
	}

	buckets := make(map[time.Time][]backend.Workout)
	for _, workout := range workouts {
		day, err := time.ParseInLocation(workoutDateLayout, workout.Date, location)
		if err != nil {
			continue
		}
		start := WeekStart(day)
		buckets[start] = append(buckets[start], workout)
	}

	starts := make([]time.Time, 0, len(buckets))
	for start := range buckets {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	weeks := make([]Week, 0, len(starts))
	for index, start := range starts {
		bucket := buckets[start]
		sort.Slice(bucket, func(i, j int) bool { return bucket[i].Date < bucket[j].Date })
		weeks = append(weeks, Week{
			Number:   index + 1,
			Start:    start,
			Workouts: bucket,
		})
	}
	return weeks
}

// ClampWeek resolves a raw week value (from the URL query) into [1, count].
func ClampWeek(raw int, count int) int {
	if count < 1 {
		return 1
	}
	if raw < 1 {
		return 1
	}
	if raw > count {
		return count
	}
	return raw
}

// CurrentWeek picks the week containing today, the first week before the
// plan starts, and the last week after it ends.
func CurrentWeek(weeks []Week, today time.Time) int {
	if len(weeks) == 0 {
		return 1
	}

	todayStart := WeekStart(today)
	for _, week := range weeks {
		if week.Start.Equal(todayStart) {
			return week.Number
		}
	}
	if todayStart.Before(weeks[0].Start) {
		return 1
	}
	return weeks[len(weeks)-1].Number
}
