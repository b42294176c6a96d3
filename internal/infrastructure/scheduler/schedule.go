package scheduler

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCronSchedule reads the minute and hour fields of a daily cron
// expression such as "30 5 * * *". Day, month and weekday fields are
// ignored. An empty expression means midnight.
func ParseCronSchedule(cronExpr string) (hour, minute int, err error) {
	parts := strings.Fields(cronExpr)
	if len(parts) == 0 {
		return 0, 0, nil
	}
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("%w: %q needs minute and hour fields", ErrInvalidConfig, cronExpr)
	}

	if minute, err = parseField(parts[0]); err != nil {
		return 0, 0, fmt.Errorf("%w: minute %q", ErrInvalidConfig, parts[0])
	}
	if hour, err = parseField(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("%w: hour %q", ErrInvalidConfig, parts[1])
	}

	if minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: minute must be 0-59, got %d", ErrInvalidConfig, minute)
	}
	if hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: hour must be 0-23, got %d", ErrInvalidConfig, hour)
	}
	return hour, minute, nil
}

// parseField treats "*" as zero
func parseField(s string) (int, error) {
	if s == "*" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
