package booking

import (
	"testing"
	"time"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	at := func(minutes int) time.Time { return base.Add(time.Duration(minutes) * time.Minute) }

	tests := []struct {
		name     string
		aStart   time.Time
		aEnd     time.Time
		bStart   time.Time
		bEnd     time.Time
		expected bool
	}{
		{
			name:   "Identical windows",
			aStart: at(0), aEnd: at(60),
			bStart: at(0), bEnd: at(60),
			expected: true,
		},
		{
			name:   "Contained window",
			aStart: at(0), aEnd: at(60),
			bStart: at(30), bEnd: at(45),
			expected: true,
		},
		{
			name:   "Partial overlap at the end",
			aStart: at(0), aEnd: at(60),
			bStart: at(45), bEnd: at(90),
			expected: true,
		},
		{
			name:   "Back to back windows do not overlap",
			aStart: at(0), aEnd: at(60),
			bStart: at(60), bEnd: at(120),
			expected: false,
		},
		{
			name:   "Disjoint windows",
			aStart: at(0), aEnd: at(30),
			bStart: at(90), bEnd: at(120),
			expected: false,
		},
		{
			name:   "One minute of overlap",
			aStart: at(0), aEnd: at(60),
			bStart: at(59), bEnd: at(120),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.expected {
				t.Errorf("Overlaps() = %v, expected %v", got, tt.expected)
			}
			// Intersection is symmetric.
			if got := Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd); got != tt.expected {
				t.Errorf("Overlaps() reversed = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestValidateWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected error
	}{
		{
			name:  "Valid future window",
			start: now.Add(1 * time.Hour),
			end:   now.Add(2 * time.Hour),
		},
		{
			name:     "End equals start",
			start:    now.Add(1 * time.Hour),
			end:      now.Add(1 * time.Hour),
			expected: ErrWindowInverted,
		},
		{
			name:     "End before start",
			start:    now.Add(2 * time.Hour),
			end:      now.Add(1 * time.Hour),
			expected: ErrWindowInverted,
		},
		{
			name:     "Start in the past",
			start:    now.Add(-1 * time.Hour),
			end:      now.Add(1 * time.Hour),
			expected: ErrWindowInPast,
		},
		{
			name:     "Start exactly now",
			start:    now,
			end:      now.Add(1 * time.Hour),
			expected: ErrWindowInPast,
		},
		{
			name:     "Inverted window in the past reports inversion first",
			start:    now.Add(-1 * time.Hour),
			end:      now.Add(-2 * time.Hour),
			expected: ErrWindowInverted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateWindow(now, tt.start, tt.end); got != tt.expected {
				t.Errorf("ValidateWindow() = %v, expected %v", got, tt.expected)
			}
		})
	}
}
