// Package recurrence validates recurrence descriptors and computes next
// occurrence dates for recurring transactions.
package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/finbrains/finbrains/internal/model"
)

// DateLayout is the wire format for all recurrence dates. Dates are compared
// as ISO strings; lexicographic order is calendar order at day granularity.
const DateLayout = "2006-01-02"

// Validation and scheduling errors.
var (
	// ErrMissingFrequency indicates an enabled descriptor without a known frequency.
	ErrMissingFrequency = errors.New("recurring frequency is required")
	// ErrMissingStartDate indicates an enabled descriptor without a valid start date.
	ErrMissingStartDate = errors.New("recurring start date is required")
	// ErrEndBeforeStart indicates an end date earlier than the start date.
	ErrEndBeforeStart = errors.New("end date must be on or after start date")
	// ErrCustomInterval indicates a CUSTOM frequency without an explicit interval.
	ErrCustomInterval = errors.New("custom frequency requires an interval in days")
)

// Validate checks a recurrence descriptor and returns its normalized form.
// Rules are checked in order and the first failure wins. A disabled
// descriptor is always valid and normalizes to the zero value.
func Validate(r model.Recurrence) (model.Recurrence, error) {
	if !r.Enabled {
		return model.Recurrence{}, nil
	}

	if !r.Frequency.Valid() {
		return model.Recurrence{}, ErrMissingFrequency
	}
	if _, err := time.Parse(DateLayout, r.StartDate); err != nil {
		return model.Recurrence{}, ErrMissingStartDate
	}
	if r.EndDate != "" {
		if _, err := time.Parse(DateLayout, r.EndDate); err != nil {
			return model.Recurrence{}, ErrEndBeforeStart
		}
		if r.EndDate < r.StartDate {
			return model.Recurrence{}, ErrEndBeforeStart
		}
	}
	if r.Frequency == model.FrequencyCustom && r.IntervalDays <= 0 {
		return model.Recurrence{}, ErrCustomInterval
	}

	return model.Recurrence{
		Enabled:      true,
		Frequency:    r.Frequency,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		IntervalDays: r.IntervalDays,
		NextDue:      r.NextDue,
	}, nil
}

// NextDue advances anchor by whole periods of freq until the result is
// strictly after today, and returns that date. An anchor already in the
// future is returned unchanged. intervalDays is only consulted for CUSTOM,
// which has no implicit period. The function is pure.
func NextDue(freq model.Frequency, anchor, today string, intervalDays int) (string, error) {
	at, err := time.Parse(DateLayout, anchor)
	if err != nil {
		return "", fmt.Errorf("invalid anchor date %q: %w", anchor, err)
	}
	tt, err := time.Parse(DateLayout, today)
	if err != nil {
		return "", fmt.Errorf("invalid reference date %q: %w", today, err)
	}
	if freq == model.FrequencyCustom && intervalDays <= 0 {
		return "", ErrCustomInterval
	}

	for !at.After(tt) {
		next, err := advance(at, freq, intervalDays)
		if err != nil {
			return "", err
		}
		at = next
	}
	return at.Format(DateLayout), nil
}

func advance(t time.Time, freq model.Frequency, intervalDays int) (time.Time, error) {
	switch freq {
	case model.FrequencyDaily:
		return t.AddDate(0, 0, 1), nil
	case model.FrequencyWeekly:
		return t.AddDate(0, 0, 7), nil
	case model.FrequencyMonthly:
		return addMonths(t, 1), nil
	case model.FrequencyQuarterly:
		return addMonths(t, 3), nil
	case model.FrequencyYearly:
		return addMonths(t, 12), nil
	case model.FrequencyCustom:
		return t.AddDate(0, 0, intervalDays), nil
	default:
		return time.Time{}, ErrMissingFrequency
	}
}

// addMonths adds calendar months, clamping the day to the target month's
// length (Jan 31 + 1 month = Feb 28/29, not Mar 2/3).
func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}
