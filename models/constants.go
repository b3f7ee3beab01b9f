package models

// Transaction types
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Recurrence frequencies
const (
	FrequencyNone   = "none"
	FrequencyDays   = "days"
	FrequencyWeeks  = "weeks"
	FrequencyMonths = "months"
)

// ValidType reports whether t is a known transaction type.
func ValidType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}

// ValidFrequency reports whether f is a known recurrence frequency.
func ValidFrequency(f string) bool {
	switch f {
	case FrequencyNone, FrequencyDays, FrequencyWeeks, FrequencyMonths:
		return true
	}
	return false
}
