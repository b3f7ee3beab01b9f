// Package recurrence expands a transaction's recurrence rule into the
// concrete calendar occurrences inside a query window. Expansion is a pure
// function of the record and the window: it has no side effects and repeated
// calls with the same inputs produce identical output.
package recurrence

import (
	"time"

	"finplan/backend/models"
)

// Occurrence is one concrete calendar-dated instance generated by a
// transaction record, with any per-date modification already applied.
type Occurrence struct {
	Date   models.Date `json:"date"`
	Name   string      `json:"name"`
	Amount float64     `json:"amount"`
	Type   string      `json:"type"`
}

// Expand returns the ordered occurrences of tx inside the closed window
// [from, to].
//
// Candidate dates always stride from the record's true start date, so
// truncating the window or skipping occurrences never shifts the alignment
// of later occurrences. A date listed in both skipDates and modifications is
// skipped; skip takes precedence. Skip and modification entries for dates
// the rule never generates are inert.
func Expand(tx models.Transaction, from, to models.Date) []Occurrence {
	occurrences := []Occurrence{}
	if to.Time.Before(from.Time) {
		return occurrences
	}

	// Occurrences are bounded by the window and by the record's own end date.
	limit := to
	if tx.EndDate != nil && tx.EndDate.Time.Before(to.Time) {
		limit = *tx.EndDate
	}

	skip := make(map[string]bool, len(tx.SkipDates))
	for _, d := range tx.SkipDates {
		skip[d.String()] = true
	}

	emit := func(date models.Date) {
		if date.Time.Before(from.Time) || date.Time.After(limit.Time) {
			return
		}
		key := date.String()
		if skip[key] {
			return
		}
		occ := Occurrence{Date: date, Name: tx.Name, Amount: tx.Amount, Type: tx.Type}
		if mod, ok := tx.Modifications[key]; ok {
			if mod.Name != nil {
				occ.Name = *mod.Name
			}
			if mod.Amount != nil {
				occ.Amount = *mod.Amount
			}
			if mod.Type != nil {
				occ.Type = *mod.Type
			}
		}
		occurrences = append(occurrences, occ)
	}

	if tx.Frequency == models.FrequencyNone {
		emit(tx.StartDate)
		return occurrences
	}

	// Records are validated before they reach the engine; a non-positive
	// interval would make the candidate sequence stand still.
	if tx.Interval < 1 {
		return occurrences
	}

	for i := 0; ; i++ {
		date := candidate(tx.StartDate, tx.Frequency, tx.Interval, i)
		if date.Time.After(limit.Time) {
			break
		}
		emit(date)
	}
	return occurrences
}

// candidate computes the n-th date (0-based) of the arithmetic sequence
// starting at start and striding by interval frequency units.
func candidate(start models.Date, frequency string, interval, n int) models.Date {
	switch frequency {
	case models.FrequencyDays:
		return start.AddDays(n * interval)
	case models.FrequencyWeeks:
		return start.AddDays(n * interval * 7)
	case models.FrequencyMonths:
		return addMonthsClamped(start, n*interval)
	}
	return start
}

// addMonthsClamped advances start by the given number of months, keeping the
// start date's day-of-month and saturating at the target month's last day.
// Each step clamps independently from the original day, so Jan 31 + 1 month
// is Feb 28/29 while Jan 31 + 2 months is Mar 31 again.
func addMonthsClamped(start models.Date, months int) models.Date {
	day := start.Day()
	firstOfTarget := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return models.NewDate(firstOfTarget.Year(), firstOfTarget.Month(), day)
}
