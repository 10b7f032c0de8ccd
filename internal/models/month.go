package models

import (
	"time"

	apperrors "troskovi/internal/errors"
)

// MonthLayout is the month key layout shared by rows, snapshots and file names.
const MonthLayout = "2006-01"

// ParseMonth validates a YYYY-MM month key and returns it unchanged.
func ParseMonth(month string) (string, error) {
	if len(month) != len(MonthLayout) {
		return "", apperrors.ErrInvalidMonth
	}
	if _, err := time.Parse(MonthLayout, month); err != nil {
		return "", apperrors.ErrInvalidMonth
	}
	return month, nil
}

// MonthOf returns the month key of t.
func MonthOf(t time.Time) string {
	return t.Format(MonthLayout)
}
