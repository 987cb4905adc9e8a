package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// PeriodLayout is the month picker's value format.
const PeriodLayout = "2006-01"

// ErrInvalidPeriod is returned for a blank or malformed month.
var ErrInvalidPeriod = errors.New("please select a period")

// ParsePeriod parses "2025-03" into the first day of that month (UTC).
func ParsePeriod(period string) (time.Time, error) {
	t, err := time.Parse(PeriodLayout, strings.TrimSpace(period))
	if err != nil {
		return time.Time{}, ErrInvalidPeriod
	}
	return t, nil
}

// FormatPeriod turns "2025-03" into "March 2025".
func FormatPeriod(period string) (string, error) {
	t, err := ParsePeriod(period)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %d", t.Month(), t.Year()), nil
}

// MonthRange returns the first and last day of the period as backend dates.
func MonthRange(period string) (start, end string, err error) {
	t, err := ParsePeriod(period)
	if err != nil {
		return "", "", err
	}
	last := t.AddDate(0, 1, -1)
	return t.Format(DateLayout), last.Format(DateLayout), nil
}
