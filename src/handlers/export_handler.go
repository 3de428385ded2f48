package handlers

import (
	"fmt"
	"log"
	"net/http"

	"tally-server/src/models"
	"tally-server/src/services"

	"github.com/xuri/excelize/v2"
)

const (
	exportSheet       = "Transactions"
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportAmountStyle = 2 // built-in "0.00"
)

var exportHeaders = []string{"Date", "Type", "Category", "Amount", "Payment Method", "Description", "Notes"}

// writeTransactionsXLSX renders txns as one sheet with a header row and a
// totals row at the bottom.
func writeTransactionsXLSX(txns []models.Transaction, totals models.Totals) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for idx, t := range txns {
		row := []any{
			models.NewDate(t.TransactionDate).String(),
			string(t.TransactionType),
			t.CategoryName,
			t.Amount.InexactFloat64(),
			string(t.PaymentMethod),
			t.Description,
			t.Notes,
		}
		cell, _ := excelize.CoordinatesToCellName(1, idx+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	last := len(txns) + 1
	summary := [][]any{
		{"Total income", totals.TotalIncome.InexactFloat64()},
		{"Total expenses", totals.TotalExpenses.InexactFloat64()},
		{"Balance", totals.Balance.InexactFloat64()},
	}
	for i, line := range summary {
		row := []any{line[0], nil, nil, line[1]}
		if err := f.SetSheetRow(exportSheet, fmt.Sprintf("A%d", last+2+i), &row); err != nil {
			return nil, err
		}
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: exportAmountStyle})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "D2", fmt.Sprintf("D%d", last+1+len(summary)), style); err != nil {
		return nil, err
	}

	widths := map[string]float64{"A": 12, "B": 10, "C": 18, "D": 12, "E": 16, "F": 30, "G": 30}
	for col, width := range widths {
		if err := f.SetColWidth(exportSheet, col, col, width); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// ExportTransactions streams the caller's transactions in [startDate, endDate]
// as an xlsx workbook.
func ExportTransactions(svc *services.TransactionService) http.HandlerFunc {
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
		txns, err := svc.ExportRange(r.Context(), p, start, end)
		if err != nil {
			writeError(w, r, err)
			return
		}
		totals, err := svc.Totals(r.Context(), p, start, end)
		if err != nil {
			writeError(w, r, err)
			return
		}

		f, err := writeTransactionsXLSX(txns, totals)
		if err != nil {
			writeError(w, r, fmt.Errorf("failed to build workbook: %w", err))
			return
		}
		defer f.Close()
		buf, err := f.WriteToBuffer()
		if err != nil {
			writeError(w, r, fmt.Errorf("failed to write workbook: %w", err))
			return
		}

		filename := fmt.Sprintf("transactions_%s_%s.xlsx", start.Format("20060102"), end.Format("20060102"))
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			log.Printf("ERROR: Failed to send export to user %d: %v", p.UserID, err)
			return
		}
		log.Printf("INFO: Exported %d transactions for user %d", len(txns), p.UserID)
	}
}
