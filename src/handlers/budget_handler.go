package handlers

import (
	"net/http"

	"tally-server/src/models"
	"tally-server/src/services"

	"github.com/shopspring/decimal"
)

// checkBudgetAmounts validates the decimal fields the struct tags skip.
func checkBudgetAmounts(limit, threshold *decimal.Decimal, limitRequired bool) error {
	details := checkAmount(nil, "limitAmount", limit, limitRequired)
	if threshold != nil && !models.CheckAmountDigits(*threshold, 3, 2) {
		details = append(details, "alertThreshold: numeric value out of bounds (<3 digits>.<2 digits> expected)")
	}
	return validationResult(details)
}

func CreateBudget(svc *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		var req models.BudgetCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := checkBudgetAmounts(req.LimitAmount, req.AlertThreshold, true); err != nil {
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

func GetBudgetByID(svc *services.BudgetService) http.HandlerFunc {
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
		budget, err := svc.GetByID(r.Context(), p, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, budget.ToResponse())
	}
}

// GetAllBudgets lists active budgets, optionally narrowed by ?month= and
// ?year=.
func GetAllBudgets(svc *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		month, err := optionalIntQuery(r, "month")
		if err != nil {
			writeError(w, r, err)
			return
		}
		year, err := optionalIntQuery(r, "year")
		if err != nil {
			writeError(w, r, err)
			return
		}
		budgets, err := svc.List(r.Context(), p, month, year)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, models.ToBudgetResponses(budgets))
	}
}

func GetBudgetAlerts(svc *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		alerts, err := svc.Alerts(r.Context(), p)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, models.ToBudgetResponses(alerts))
	}
}

func UpdateBudget(svc *services.BudgetService) http.HandlerFunc {
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
		var req models.BudgetUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := checkBudgetAmounts(req.LimitAmount, req.AlertThreshold, false); err != nil {
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

func DeleteBudget(svc *services.BudgetService) http.HandlerFunc {
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
