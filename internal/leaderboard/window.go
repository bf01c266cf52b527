package leaderboard

import (
	"fmt"
	"time"
)

// WindowShape decides where the current week's window ends.
type WindowShape string

const (
	// WindowWeek always covers the full Monday to Monday week.
	WindowWeek WindowShape = "week"
	// WindowToDate ends at "now" for the current week. Past weeks are complete either way.
	WindowToDate WindowShape = "to_date"
)

// ParseWindowShape validates a configured shape. An empty value means WindowWeek.
func ParseWindowShape(s string) (WindowShape, error) {
	switch WindowShape(s) {
	case "", WindowWeek:
		return WindowWeek, nil
	case WindowToDate:
		return WindowToDate, nil
	default:
		return "", fmt.Errorf("unknown window shape %q", s)
	}
}

// Window is the half-open UTC interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether Start <= t < End.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// ResolveWindow returns the Monday-aligned week weekOffset weeks before the one containing now.
func ResolveWindow(now time.Time, weekOffset int, shape WindowShape) Window {
	now = now.UTC()
	back := (int(now.Weekday()) + 6) % 7
	start := midnightUTC(now).AddDate(0, 0, -back-7*weekOffset)
	end := start.AddDate(0, 0, 7)
	if shape == WindowToDate && now.Before(end) {
		end = now
	}
	return Window{Start: start, End: end}
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
