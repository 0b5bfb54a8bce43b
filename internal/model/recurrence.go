// Package model defines the core domain models used throughout the application.
package model

// Frequency describes how often a recurring transaction repeats.
type Frequency string

// Recurrence frequency constants.
const (
	FrequencyDaily     Frequency = "DAILY"
	FrequencyWeekly    Frequency = "WEEKLY"
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyYearly    Frequency = "YEARLY"
	FrequencyCustom    Frequency = "CUSTOM"
)

// Valid reports whether f is one of the known frequency values.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly,
		FrequencyQuarterly, FrequencyYearly, FrequencyCustom:
		return true
	}
	return false
}

// Recurrence controls whether and how a transaction repeats. All dates are
// ISO YYYY-MM-DD strings compared lexicographically; there is no time-of-day
// or timezone component. When Enabled is false no other field is meaningful.
type Recurrence struct {
	Enabled      bool      `json:"enabled"`
	Frequency    Frequency `json:"frequency,omitempty"`
	StartDate    string    `json:"startDate,omitempty"`
	EndDate      string    `json:"endDate,omitempty"`
	IntervalDays int       `json:"intervalDays,omitempty"` // required for CUSTOM
	NextDue      string    `json:"nextDue,omitempty"`      // server-derived; provisional locally
}
