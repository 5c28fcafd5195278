package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"demobooking/internal/entities"
)

// MeetingDuration is the fixed length of a demo call.
const MeetingDuration = 30 * time.Minute

var (
	ErrInvalidClock    = errors.New("invalid time of day")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidTimezone = errors.New("invalid timezone")
)

var clockPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(?:([ap])\.?m\.?)?$`)

// ParseClock turns "2:30pm", "2:30 PM", "9am" or "14:30" into a 24-hour
// hour and minute.
func ParseClock(s string) (int, int, error) {
	m := clockPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	switch m[3] {
	case "a", "p":
		if hour < 1 || hour > 12 {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		if m[3] == "p" && hour != 12 {
			hour += 12
		}
		if m[3] == "a" && hour == 12 {
			hour = 0
		}
	default:
		if hour > 23 {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
	}
	return hour, minute, nil
}

// ParseDay returns the calendar day named by date as seen in loc. Plain
// "2006-01-02" dates are taken as is; RFC 3339 instants are projected into loc
// first, since browsers send the local midnight as a UTC instant.
func ParseDay(date string, loc *time.Location) (int, time.Month, int, error) {
	date = strings.TrimSpace(date)
	if d, err := time.Parse(time.DateOnly, date); err == nil {
		return d.Year(), d.Month(), d.Day(), nil
	}
	instant, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	y, m, d := instant.In(loc).Date()
	return y, m, d, nil
}

// ResolveSlot combines a date, a wall-clock time and an IANA timezone into a
// meeting window of MeetingDuration.
func ResolveSlot(date, clock, timezone string) (entities.Slot, error) {
	timezone = strings.TrimSpace(timezone)
	if timezone == "" {
		return entities.Slot{}, fmt.Errorf("%w: empty", ErrInvalidTimezone)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return entities.Slot{}, fmt.Errorf("%w: %q", ErrInvalidTimezone, timezone)
	}

	y, mon, d, err := ParseDay(date, loc)
	if err != nil {
		return entities.Slot{}, err
	}
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return entities.Slot{}, err
	}

	start := time.Date(y, mon, d, hour, minute, 0, 0, loc)
	return entities.Slot{
		Start:    start,
		End:      start.Add(MeetingDuration),
		TimeZone: timezone,
	}, nil
}

// FormatLongDate renders "Monday, December 1, 2025".
func FormatLongDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}
