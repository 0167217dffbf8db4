package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"folio/internal/domain"
	"folio/internal/httputil"
	"folio/internal/service/llm/tools/external"
)

// SheetsHandler serves read-only spreadsheet snapshots
type SheetsHandler struct {
	reader external.SheetsReader
	logger *slog.Logger
}

// NewSheetsHandler creates a new sheets handler
func NewSheetsHandler(reader external.SheetsReader, logger *slog.Logger) *SheetsHandler {
	return &SheetsHandler{
		reader: reader,
		logger: logger,
	}
}

// GetSheet returns the snapshot of one spreadsheet
// GET /sheets?id=:sheetId
func (h *SheetsHandler) GetSheet(w http.ResponseWriter, r *http.Request) {
	sheetID := r.URL.Query().Get("id")
	if sheetID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "id query parameter is required")
		return
	}

	snapshot, err := h.reader.Snapshot(r.Context(), sheetID)
	if err != nil {
		h.logger.Error("sheet snapshot failed", "sheet_id", sheetID, "error", err)
		var upstreamErr *domain.UpstreamError
		if !errors.As(err, &upstreamErr) {
			err = &domain.UpstreamError{Message: "failed to read sheet", Err: err}
		}
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, snapshot)
}
