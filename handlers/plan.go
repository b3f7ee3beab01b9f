package handlers

import (
	"net/http"
	"sort"

	"finplan/backend/middleware"
	"finplan/backend/models"
	"finplan/backend/recurrence"
)

// PlanOccurrence is one expanded occurrence together with the record that
// generated it.
type PlanOccurrence struct {
	TransactionID string      `json:"transactionId"`
	Date          models.Date `json:"date"`
	Name          string      `json:"name"`
	Amount        float64     `json:"amount"`
	Type          string      `json:"type"`
}

// PlanResponse aggregates every record's occurrences inside the requested
// window. The type of each occurrence decides the sign it contributes to
// the net total.
type PlanResponse struct {
	From         models.Date      `json:"from"`
	To           models.Date      `json:"to"`
	Occurrences  []PlanOccurrence `json:"occurrences"`
	TotalIncome  float64          `json:"totalIncome"`
	TotalExpense float64          `json:"totalExpense"`
	Net          float64          `json:"net"`
}

// GetPlan expands every transaction of the authenticated owner over the
// [from, to] window given as query parameters.
func GetPlan(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r)
	if ownerID == "" {
		http.Error(w, "Unauthorized: no user ID found", http.StatusUnauthorized)
		return
	}

	from, err := models.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, models.NewValidationError("from", "must be a YYYY-MM-DD date"))
		return
	}
	to, err := models.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, models.NewValidationError("to", "must be a YYYY-MM-DD date"))
		return
	}

	transactions, err := Transactions.List(ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	plan := PlanResponse{From: from, To: to, Occurrences: []PlanOccurrence{}}
	for _, tx := range transactions {
		for _, occ := range recurrence.Expand(tx, from, to) {
			plan.Occurrences = append(plan.Occurrences, PlanOccurrence{
				TransactionID: tx.ID,
				Date:          occ.Date,
				Name:          occ.Name,
				Amount:        occ.Amount,
				Type:          occ.Type,
			})
			switch occ.Type {
			case models.TypeIncome:
				plan.TotalIncome += occ.Amount
				plan.Net += occ.Amount
			case models.TypeExpense:
				plan.TotalExpense += occ.Amount
				plan.Net -= occ.Amount
			}
		}
	}

	sort.SliceStable(plan.Occurrences, func(i, j int) bool {
		return plan.Occurrences[i].Date.Time.Before(plan.Occurrences[j].Date.Time)
	})

	writeJSON(w, http.StatusOK, plan)
}
