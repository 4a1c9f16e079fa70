// Package timeutil provides timezone utilities for Cairo time (UTC+2).
// The Playzo clubs operate in Egypt, so offer windows and daily jobs are
// anchored to Cairo wall-clock time while storage stays in UTC.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// CairoTZ is the Cairo timezone. Falls back to a fixed UTC+2 zone when the
// host has no tzdata, which only shifts edges during the DST months.
var CairoTZ = loadCairo()

func loadCairo() *time.Location {
	loc, err := time.LoadLocation("Africa/Cairo")
	if err != nil {
		return time.FixedZone("Africa/Cairo", 2*60*60)
	}
	return loc
}

// Now returns the current time in Cairo timezone.
func Now() time.Time {
	return time.Now().In(CairoTZ)
}

// ToCairo converts a time to Cairo timezone.
func ToCairo(t time.Time) time.Time {
	return t.In(CairoTZ)
}

// ToUTC converts a time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// Date creates a time in Cairo timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, CairoTZ)
}

// DateTime creates a time in Cairo timezone with the given date and time.
func DateTime(year, month, day, hour, min, sec int) time.Time {
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, CairoTZ)
}

// StartOfDay returns the start of the day (00:00:00) in Cairo timezone.
func StartOfDay(t time.Time) time.Time {
	cairo := ToCairo(t)
	return time.Date(cairo.Year(), cairo.Month(), cairo.Day(), 0, 0, 0, 0, CairoTZ)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in Cairo timezone.
func EndOfDay(t time.Time) time.Time {
	cairo := ToCairo(t)
	return time.Date(cairo.Year(), cairo.Month(), cairo.Day(), 23, 59, 59, 999999999, CairoTZ)
}

// StartOfWeek returns the start of the week (Monday 00:00:00) in Cairo timezone.
func StartOfWeek(t time.Time) time.Time {
	cairo := ToCairo(t)
	weekday := int(cairo.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	daysToSubtract := weekday - 1 // Monday = 1
	return StartOfDay(cairo.AddDate(0, 0, -daysToSubtract))
}

// EndOfWeek returns the end of the week (Sunday 23:59:59) in Cairo timezone.
func EndOfWeek(t time.Time) time.Time {
	start := StartOfWeek(t)
	return EndOfDay(start.AddDate(0, 0, 6))
}

// StartOfMonth returns the start of the month in Cairo timezone.
func StartOfMonth(t time.Time) time.Time {
	cairo := ToCairo(t)
	return time.Date(cairo.Year(), cairo.Month(), 1, 0, 0, 0, 0, CairoTZ)
}

// EndOfMonth returns the end of the month in Cairo timezone.
func EndOfMonth(t time.Time) time.Time {
	start := StartOfMonth(t)
	return EndOfDay(start.AddDate(0, 1, -1))
}

// IsToday checks if the given time is today in Cairo timezone.
func IsToday(t time.Time) bool {
	now := Now()
	cairo := ToCairo(t)
	return cairo.Year() == now.Year() &&
		cairo.Month() == now.Month() &&
		cairo.Day() == now.Day()
}

// DaysSince calculates the number of days since the given time.
func DaysSince(t time.Time) int {
	now := StartOfDay(Now())
	then := StartOfDay(t)
	duration := now.Sub(then)
	return int(duration.Hours() / 24)
}

// IsSameDay checks if two times are on the same day in Cairo timezone.
func IsSameDay(t1, t2 time.Time) bool {
	c1, c2 := ToCairo(t1), ToCairo(t2)
	return c1.Year() == c2.Year() && c1.YearDay() == c2.YearDay()
}

// DaysBetween calculates the number of days between two times.
func DaysBetween(t1, t2 time.Time) int {
	c1 := StartOfDay(t1)
	c2 := StartOfDay(t2)
	duration := c2.Sub(c1)
	days := int(duration.Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// IsWeekend checks if the given time is on the Egyptian weekend (Fri-Sat).
func IsWeekend(t time.Time) bool {
	cairo := ToCairo(t)
	weekday := cairo.Weekday()
	return weekday == time.Friday || weekday == time.Saturday
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatTime is the standard time format (HH:MM).
	FormatTime = "15:04"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
	// FormatDateTimeSeconds includes seconds.
	FormatDateTimeSeconds = "2006-01-02 15:04:05"
	// FormatHumanDate is a human-readable format.
	FormatHumanDate = "2 January 2006"
	// FormatShortDate is a short format (Jan 2).
	FormatShortDate = "Jan 2"
)

// FormatCairo formats a time in Cairo timezone with the given layout.
func FormatCairo(t time.Time, layout string) string {
	return ToCairo(t).Format(layout)
}

// FormatDateStr formats a time as a date string (YYYY-MM-DD) in Cairo timezone.
func FormatDateStr(t time.Time) string {
	return FormatCairo(t, FormatDate)
}

// FormatTimeStr formats a time as a time string (HH:MM) in Cairo timezone.
func FormatTimeStr(t time.Time) string {
	return FormatCairo(t, FormatTime)
}

// FormatDateTimeStr formats a time as datetime string in Cairo timezone.
func FormatDateTimeStr(t time.Time) string {
	return FormatCairo(t, FormatDateTime)
}

// FormatRelative returns a human-readable relative time string.
func FormatRelative(t time.Time) string {
	now := Now()
	cairo := ToCairo(t)
	duration := now.Sub(cairo)

	if duration < 0 {
		duration = -duration
		return formatFutureDuration(duration)
	}

	return formatPastDuration(duration)
}

func formatPastDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d h ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "yesterday"
		}
		return fmt.Sprintf("%d days ago", days)
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%d weeks ago", int(d.Hours()/24/7))
	default:
		months := int(d.Hours() / 24 / 30)
		if months < 12 {
			return fmt.Sprintf("%d months ago", months)
		}
		return fmt.Sprintf("%d years ago", months/12)
	}
}

func formatFutureDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("in %d min", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("in %d h", int(d.Hours()))
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "tomorrow"
		}
		return fmt.Sprintf("in %d days", days)
	}
}

// ParseCairo parses a time string in Cairo timezone.
func ParseCairo(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, CairoTZ)
}

// ParseDateCairo parses a date string (YYYY-MM-DD) in Cairo timezone.
func ParseDateCairo(value string) (time.Time, error) {
	return ParseCairo(FormatDate, value)
}

// ParseDateTimeCairo parses a datetime string in Cairo timezone.
func ParseDateTimeCairo(value string) (time.Time, error) {
	return ParseCairo(FormatDateTime, value)
}
