package models

import "math"

// Transaction is a recurring or one-off planning record. StartDate is the
// first possible occurrence; Frequency and Interval describe the stride of
// the recurrence; EndDate (when present) bounds it. SkipDates removes
// individual computed occurrences and Modifications overrides a subset of
// fields for the occurrence on a given date without moving it.
type Transaction struct {
	ID            string              `json:"id"`
	OwnerID       string              `json:"-"`
	Name          string              `json:"name"`
	Amount        float64             `json:"amount"`
	Type          string              `json:"type"`
	StartDate     Date                `json:"startDate"`
	Frequency     string              `json:"frequency"`
	Interval      int                 `json:"interval"`
	EndDate       *Date               `json:"endDate"`
	SkipDates     []Date              `json:"skipDates"`
	Modifications map[string]Override `json:"modifications"`
}

// Override is a partial per-occurrence record. Only the fields that are set
// replace the base transaction's fields; the occurrence date never changes.
type Override struct {
	Name   *string  `json:"name,omitempty"`
	Amount *float64 `json:"amount,omitempty"`
	Type   *string  `json:"type,omitempty"`
}

// Normalize fills the empty-collection defaults so that skip and
// modification sets always serialize as [] and {}.
func (t *Transaction) Normalize() {
	if t.SkipDates == nil {
		t.SkipDates = []Date{}
	}
	if t.Modifications == nil {
		t.Modifications = map[string]Override{}
	}
}

// Validate checks every required field and invariant of the record. It
// returns a *ValidationError describing the first violation found.
func (t *Transaction) Validate() error {
	if t.ID == "" {
		return NewValidationError("id", "must not be empty")
	}
	if t.OwnerID == "" {
		return NewValidationError("ownerId", "must not be empty")
	}
	if t.Name == "" {
		return NewValidationError("name", "must not be empty")
	}
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return NewValidationError("amount", "must be a finite number")
	}
	if !ValidType(t.Type) {
		return NewValidationError("type", `must be "income" or "expense"`)
	}
	if t.StartDate.IsZero() {
		return NewValidationError("startDate", "must be set")
	}
	if !ValidFrequency(t.Frequency) {
		return NewValidationError("frequency", `must be one of "none", "days", "weeks", "months"`)
	}
	// interval 0 is rejected outright, never coerced to 1
	if t.Interval < 1 {
		return NewValidationError("interval", "must be at least 1")
	}
	if t.EndDate != nil && t.EndDate.Time.Before(t.StartDate.Time) {
		return NewValidationError("endDate", "must not be before startDate")
	}
	for key, mod := range t.Modifications {
		if _, err := ParseDate(key); err != nil {
			return NewValidationError("modifications", "keys must be YYYY-MM-DD dates")
		}
		if mod.Type != nil && !ValidType(*mod.Type) {
			return NewValidationError("modifications", `overridden type must be "income" or "expense"`)
		}
		if mod.Amount != nil && (math.IsNaN(*mod.Amount) || math.IsInf(*mod.Amount, 0)) {
			return NewValidationError("modifications", "overridden amount must be a finite number")
		}
		if mod.Name != nil && *mod.Name == "" {
			return NewValidationError("modifications", "overridden name must not be empty")
		}
	}
	return nil
}
