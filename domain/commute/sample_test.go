package commute

import (
	"testing"
	"time"
)

func TestSample_TimeOfDay(t *testing.T) {
	tests := []struct {
		name     string
		ts       time.Time
		expected string
	}{
		{
			name:     "morning with leading zeros",
			ts:       time.Date(2024, 3, 6, 8, 5, 0, 0, time.UTC),
			expected: "08:05",
		},
		{
			name:     "midnight",
			ts:       time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
			expected: "00:00",
		},
		{
			name:     "last minute of day",
			ts:       time.Date(2024, 3, 6, 23, 59, 59, 0, time.UTC),
			expected: "23:59",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Sample{Timestamp: tt.ts, Duration: 10}
			got := s.TimeOfDay()
			if got != tt.expected {
				t.Errorf("TimeOfDay() = %q, want %q", got, tt.expected)
			}
			if len(got) != 5 {
				t.Errorf("TimeOfDay() = %q, want 5-character HH:MM", got)
			}
		})
	}
}

func TestSample_WeekdayLabel(t *testing.T) {
	tests := []struct {
		name     string
		ts       time.Time
		expected string
	}{
		{
			// 2024-03-06 is a Wednesday.
			name:     "wednesday is day 3",
			ts:       time.Date(2024, 3, 6, 8, 0, 0, 0, time.UTC),
			expected: "3 - Wednesday",
		},
		{
			// 2024-03-04 is a Monday.
			name:     "monday is day 1",
			ts:       time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC),
			expected: "1 - Monday",
		},
		{
			// 2024-03-10 is a Sunday.
			name:     "sunday is day 7",
			ts:       time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC),
			expected: "7 - Sunday",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Sample{Timestamp: tt.ts}
			if got := s.WeekdayLabel(); got != tt.expected {
				t.Errorf("WeekdayLabel() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFilterHalfHour(t *testing.T) {
	day := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	at := func(hour, min int) Sample {
		return Sample{Timestamp: day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)}
	}

	input := []Sample{at(8, 0), at(8, 15), at(8, 30), at(8, 45)}
	filtered := FilterHalfHour(input)

	if len(filtered) != 2 {
		t.Fatalf("FilterHalfHour() kept %d samples, want 2", len(filtered))
	}
	if got := filtered[0].TimeOfDay(); got != "08:00" {
		t.Errorf("first surviving sample = %s, want 08:00", got)
	}
	if got := filtered[1].TimeOfDay(); got != "08:30" {
		t.Errorf("second surviving sample = %s, want 08:30", got)
	}
}

func TestFilterHalfHour_Empty(t *testing.T) {
	if got := FilterHalfHour(nil); len(got) != 0 {
		t.Errorf("FilterHalfHour(nil) = %v, want empty", got)
	}
}
