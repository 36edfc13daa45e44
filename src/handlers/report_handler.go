// backend/src/handlers/report_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/username/cryptofolio/backend/src/logger"
	"github.com/username/cryptofolio/backend/src/models"
	"github.com/username/cryptofolio/backend/src/reports"
	"github.com/username/cryptofolio/backend/src/utils"
)

type ReportHandler struct{}

func NewReportHandler() *ReportHandler {
	return &ReportHandler{}
}

// HandleGeneratePDF turns a previously computed gains result (posted back as
// JSON) into a downloadable PDF report.
func (h *ReportHandler) HandleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	var result models.GainsResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		logger.L.Warn("Failed to decode gains result for PDF report", "error", err)
		utils.SendJSONError(w, "No valid gains data provided", http.StatusBadRequest)
		return
	}
	if result.CurrencySymbol == "" {
		result.CurrencySymbol = "$"
	}
	if result.Country == "" {
		result.Country = "USA"
	}

	pdfBytes, err := reports.GeneratePDF(&result)
	if err != nil {
		logger.L.Error("Failed to generate PDF report", "error", err)
		utils.SendJSONError(w, "Failed to generate PDF report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="tax_report.pdf"`)
	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdfBytes); err != nil {
		logger.L.Error("Error writing PDF response", "error", err)
	}
}
