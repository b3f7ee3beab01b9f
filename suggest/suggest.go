// Package suggest is the boundary to the external generative-language
// service. The service is treated as an opaque, fallible function from a
// conversation to either a follow-up question or a list of suggested
// transactions; failures surface as ServiceError and are never retried
// automatically.
package suggest

import (
	"context"

	"finplan/backend/models"
)

// Result kinds.
const (
	KindQuestion     = "question"
	KindTransactions = "transactions"
)

// Message is one turn of the planning conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Proposal is the partial transaction record the service is constrained to
// produce. Interval is a pointer so that an omitted interval can default to
// 1 while an explicit 0 still reaches validation and is rejected there.
type Proposal struct {
	Name      string      `json:"name"`
	Amount    float64     `json:"amount"`
	Type      string      `json:"type"`
	StartDate models.Date `json:"startDate"`
	Frequency string      `json:"frequency"`
	Interval  *int        `json:"interval,omitempty"`
}

// Result is the service's answer to a conversation: either a clarifying
// question back to the user or concrete transaction suggestions.
type Result struct {
	Kind  string     `json:"kind"`
	Text  string     `json:"text,omitempty"`
	Items []Proposal `json:"items,omitempty"`
}

// Proposer turns a planning conversation into a Result. Implementations
// must not persist anything; suggested items go through the normal store
// validation before they are saved.
type Proposer interface {
	Propose(ctx context.Context, history []Message) (*Result, error)
}

// Transaction converts a proposal into a transaction record for the given
// owner. The record still passes through full store validation afterwards.
func (p Proposal) Transaction(id, ownerID string) models.Transaction {
	interval := 1
	if p.Interval != nil {
		interval = *p.Interval
	}
	return models.Transaction{
		ID:        id,
		OwnerID:   ownerID,
		Name:      p.Name,
		Amount:    p.Amount,
		Type:      p.Type,
		StartDate: p.StartDate,
		Frequency: p.Frequency,
		Interval:  interval,
	}
}
