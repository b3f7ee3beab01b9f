package handlers

import (
	"encoding/json"
	"net/http"

	"finplan/backend/middleware"
	"finplan/backend/models"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func GetTransactions(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r)
	if ownerID == "" {
		http.Error(w, "Unauthorized: no user ID found", http.StatusUnauthorized)
		return
	}

	transactions, err := Transactions.List(ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func GetTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r)
	if ownerID == "" {
		http.Error(w, "Unauthorized: no user ID found", http.StatusUnauthorized)
		return
	}

	tx, err := Transactions.Get(mux.Vars(r)["id"], ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func AddTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r)
	if ownerID == "" {
		http.Error(w, "Unauthorized: no user ID found", http.StatusUnauthorized)
		return
	}

	var tx models.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		writeError(w, models.NewValidationError("body", err.Error()))
		return
	}

	// Generate an id when the caller does not supply one.
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	tx.OwnerID = ownerID

	added, err := Transactions.Add(tx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r)
	if ownerID == "" {
		http.Error(w, "Unauthorized: no user ID found", http.StatusUnauthorized)
		return
	}

	var tx models.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		writeError(w, models.NewValidationError("body", err.Error()))
		return
	}

	updated, err := Transactions.Update(mux.Vars(r)["id"], ownerID, tx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r)
	if ownerID == "" {
		http.Error(w, "Unauthorized: no user ID found", http.StatusUnauthorized)
		return
	}

	if err := Transactions.Delete(mux.Vars(r)["id"], ownerID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
