package scheduler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CronExpression represents a parsed cron expression. It implements Schedule,
// so it can be registered directly with the Scheduler.
// Supports standard 5-field format: minute hour day-of-month month day-of-week
// Examples:
//   - "*/5 * * * *"  - every 5 minutes
//   - "0 */1 * * *"  - every hour
//   - "0 3 * * *"    - every day at 03:00
//   - "0 0 * * 0"    - every Sunday at midnight
type CronExpression struct {
	raw      string
	minutes  []int // 0-59
	hours    []int // 0-23
	days     []int // 1-31
	months   []int // 1-12
	weekdays []int // 0-6 (0 = Sunday)
}

// ParseCronExpression parses a cron expression string.
// Format: minute hour day-of-month month day-of-week
// Supports: *, */n, n, n-m, n,m,o
func ParseCronExpression(expr string) (*CronExpression, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return nil, fmt.Errorf("invalid cron expression: expected 5 fields, got %d", len(fields))
	}

	ce := &CronExpression{raw: expr}
	var err error

	ce.minutes, err = parseField(fields[0], 0, 59)
	if err != nil {
		return nil, fmt.Errorf("invalid minute field: %w", err)
	}

	ce.hours, err = parseField(fields[1], 0, 23)
	if err != nil {
		return nil, fmt.Errorf("invalid hour field: %w", err)
	}

	ce.days, err = parseField(fields[2], 1, 31)
	if err != nil {
		return nil, fmt.Errorf("invalid day field: %w", err)
	}

	ce.months, err = parseField(fields[3], 1, 12)
	if err != nil {
		return nil, fmt.Errorf("invalid month field: %w", err)
	}

	ce.weekdays, err = parseField(fields[4], 0, 6)
	if err != nil {
		return nil, fmt.Errorf("invalid weekday field: %w", err)
	}

	return ce, nil
}

// MustParseCronExpression parses a cron expression and panics on error.
// Intended for expressions known at compile time.
func MustParseCronExpression(expr string) *CronExpression {
	ce, err := ParseCronExpression(expr)
	if err != nil {
		panic(err)
	}
	return ce
}

// parseField parses a single cron field.
func parseField(field string, min, max int) ([]int, error) {
	var result []int

	// Handle wildcard
	if field == "*" {
		for i := min; i <= max; i++ {
			result = append(result, i)
		}
		return result, nil
	}

	// Handle step values (*/n or n-m/s)
	if strings.Contains(field, "/") {
		parts := strings.Split(field, "/")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid step format: %s", field)
		}

		step, err := strconv.Atoi(parts[1])
		if err != nil || step <= 0 {
			return nil, fmt.Errorf("invalid step value: %s", parts[1])
		}

		var start, end int
		if parts[0] == "*" {
			start, end = min, max
		} else if strings.Contains(parts[0], "-") {
			rangeParts := strings.Split(parts[0], "-")
			start, _ = strconv.Atoi(rangeParts[0])
			end, _ = strconv.Atoi(rangeParts[1])
		} else {
			start, _ = strconv.Atoi(parts[0])
			end = max
		}

		for i := start; i <= end; i += step {
			if i >= min && i <= max {
				result = append(result, i)
			}
		}
		return result, nil
	}

	// Handle ranges (n-m)
	if strings.Contains(field, "-") {
		parts := strings.Split(field, "-")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid range format: %s", field)
		}

		start, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid range start: %s", parts[0])
		}

		end, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid range end: %s", parts[1])
		}

		for i := start; i <= end; i++ {
			if i >= min && i <= max {
				result = append(result, i)
			}
		}
		return result, nil
	}

	// Handle lists (n,m,o)
	if strings.Contains(field, ",") {
		parts := strings.Split(field, ",")
		for _, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, fmt.Errorf("invalid list value: %s", p)
			}
			if v >= min && v <= max {
				result = append(result, v)
			}
		}
		sort.Ints(result)
		return result, nil
	}

	// Handle single value
	v, err := strconv.Atoi(field)
	if err != nil {
		return nil, fmt.Errorf("invalid value: %s", field)
	}
	if v < min || v > max {
		return nil, fmt.Errorf("value out of range [%d-%d]: %d", min, max, v)
	}
	return []int{v}, nil
}

// String returns the original cron expression.
func (ce *CronExpression) String() string {
	return ce.raw
}

// Next calculates the next time the cron expression matches after the given time.
func (ce *CronExpression) Next(after time.Time) time.Time {
	// Start from the next minute
	t := after.Add(time.Minute).Truncate(time.Minute)

	// Maximum iterations to prevent infinite loops
	const maxIterations = 366 * 24 * 60 // One year in minutes

	for i := 0; i < maxIterations; i++ {
		// Check if current time matches
		if ce.matches(t) {
			return t
		}

		// Advance by one minute
		t = t.Add(time.Minute)
	}

	// Should never reach here with valid expressions
	return time.Time{}
}

// matches checks if the given time matches the cron expression.
func (ce *CronExpression) matches(t time.Time) bool {
	return contains(ce.minutes, t.Minute()) &&
		contains(ce.hours, t.Hour()) &&
		contains(ce.days, t.Day()) &&
		contains(ce.months, int(t.Month())) &&
		contains(ce.weekdays, int(t.Weekday()))
}

// contains checks if a slice contains a value.
func contains(slice []int, val int) bool {
	for _, v := range slice {
		if v == val {
			return true
		}
	}
	return false
}
