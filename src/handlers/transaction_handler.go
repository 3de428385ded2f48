package handlers

import (
	"log"
	"net/http"
	"strings"

	"tally-server/src/models"
	"tally-server/src/services"
)

func CreateTransaction(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		var req models.TransactionCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		details := checkAmount(nil, "amount", req.Amount, true)
		details = checkNotFuture(details, "transactionDate", req.TransactionDate)
		if err := validationResult(details); err != nil {
			writeError(w, r, err)
			return
		}

		created, err := svc.Create(r.Context(), p, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created.ToResponse())
	}
}

func UpdateTransaction(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		id, err := idParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		var req models.TransactionUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		details := checkAmount(nil, "amount", req.Amount, false)
		details = checkNotFuture(details, "transactionDate", req.TransactionDate)
		if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
			details = append(details, "description: must not be blank")
		}
		if err := validationResult(details); err != nil {
			writeError(w, r, err)
			return
		}

		updated, err := svc.Update(r.Context(), p, id, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated.ToResponse())
	}
}

func DeleteTransaction(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		id, err := idParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := svc.Delete(r.Context(), p, id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GetTransaction returns the transaction even when it has been soft deleted;
// the response carries active=false in that case.
func GetTransaction(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		id, err := idParam(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		t, err := svc.GetByID(r.Context(), p, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, t.ToResponse())
	}
}

func ListTransactions(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		page, err := pageQuery(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		result, err := svc.List(r.Context(), p, page)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func ListTransactionsByDateRange(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		start, end, err := dateRangeQuery(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		page, err := pageQuery(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		result, err := svc.ListByDateRange(r.Context(), p, start, end, page)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func ListTransactionsByCategory(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		categoryID, err := idParam(r, "categoryId")
		if err != nil {
			writeError(w, r, err)
			return
		}
		page, err := pageQuery(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		result, err := svc.ListByCategory(r.Context(), p, categoryID, page)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func RecentTransactions(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		limit, err := intQuery(r, "limit", services.DefaultRecentLimit)
		if err != nil {
			writeError(w, r, err)
			return
		}
		recent, err := svc.Recent(r.Context(), p, limit)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, recent)
	}
}

func CountTransactions(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		n, err := svc.Count(r.Context(), p)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"count": n})
	}
}

func TransactionTotals(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		start, end, err := dateRangeQuery(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		totals, err := svc.Totals(r.Context(), p, start, end)
		if err != nil {
			writeError(w, r, err)
			return
		}
		log.Printf("INFO: Computed totals for user %d from %s to %s", p.UserID, models.NewDate(start), models.NewDate(end))
		writeJSON(w, http.StatusOK, totals)
	}
}

func ExpensesByCategory(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		start, end, err := dateRangeQuery(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		breakdown, err := svc.ExpensesByCategory(r.Context(), p, start, end)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, breakdown)
	}
}
