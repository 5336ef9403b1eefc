package common

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// WorkdaySeconds is the length of one working day. Worklog durations given
// in days ("1d") are converted with an 8-hour workday. This is a fixed
// policy, not configurable.
const WorkdaySeconds = 8 * 3600

var (
	// ErrEmptyDuration is returned when the duration string is empty.
	ErrEmptyDuration = errors.New("duration string is empty")

	// ErrInvalidDuration is returned when the duration string cannot be
	// parsed. Valid input is a decimal number followed by a single unit
	// suffix: 'h' for hours, 'm' for minutes, 'd' for days.
	ErrInvalidDuration = errors.New("invalid duration format (use 'h' for hours, 'm' for minutes, 'd' for days)")
)

// ParseWorkDuration converts a short human duration string ("2h", "30m",
// "1.5h", "1d") into a whole number of seconds. Fractional results are
// truncated, not rounded. Negative durations are rejected - a negative
// worklog makes no sense and Jira refuses it server-side anyway.
func ParseWorkDuration(input string) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, ErrEmptyDuration
	}

	unit := s[len(s)-1:]
	numberPart := s[:len(s)-1]

	var secondsPerUnit float64
	switch unit {
	case "h":
		secondsPerUnit = 3600
	case "m":
		secondsPerUnit = 60
	case "d":
		secondsPerUnit = WorkdaySeconds
	default:
		return 0, ErrInvalidDuration
	}

	number, err := strconv.ParseFloat(numberPart, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, input)
	}

	if number < 0 {
		return 0, fmt.Errorf("%w: duration cannot be negative", ErrInvalidDuration)
	}

	return int(number * secondsPerUnit), nil
}
