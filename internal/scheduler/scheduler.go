// Package scheduler resolves broadcast schedule requests into a concrete send
// time. Nothing here runs in the background: a scheduled broadcast is only
// marked with its time and status.
package scheduler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrNoSchedule is returned when a request names no time at all
var ErrNoSchedule = errors.New("one of when, daily_at or cron is required")

// Request carries the mutually exclusive ways to name a send time
type Request struct {
	When    string // absolute timestamp
	DailyAt string // HH:MM, next occurrence
	Cron    string // standard 5-field expression, next fire time
}

var whenLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Resolve returns the send time for req relative to now
func Resolve(req Request, now time.Time) (time.Time, error) {
	switch {
	case strings.TrimSpace(req.When) != "":
		return ParseWhen(req.When, now.Location())
	case strings.TrimSpace(req.DailyAt) != "":
		spec, err := ParseDailyAt(req.DailyAt)
		if err != nil {
			return time.Time{}, err
		}
		return nextFire(spec, now)
	case strings.TrimSpace(req.Cron) != "":
		return nextFire(strings.TrimSpace(req.Cron), now)
	default:
		return time.Time{}, ErrNoSchedule
	}
}

// ParseWhen parses an ISO-8601 timestamp. Values without an offset are read in loc.
func ParseWhen(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", value)
}

// ParseDailyAt converts HH:MM format to a cron specification.
// Example: "02:00" -> "0 2 * * *"
func ParseDailyAt(timeStr string) (string, error) {
	var hour, minute int
	n, err := fmt.Sscanf(strings.TrimSpace(timeStr), "%d:%d", &hour, &minute)
	if err != nil || n != 2 || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid daily time %q, expected HH:MM", timeStr)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

func nextFire(spec string, now time.Time) (time.Time, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	next := schedule.Next(now)
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("cron expression %q never fires", spec)
	}
	return next, nil
}
