package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"txreceipt/internal/service"
)

// ReceiptHandlers serves receipt generation and links.
type ReceiptHandlers struct {
	svc    *service.ReceiptService
	logger *zap.Logger
}

// NewReceiptHandlers builds ReceiptHandlers.
func NewReceiptHandlers(svc *service.ReceiptService, logger *zap.Logger) *ReceiptHandlers {
	return &ReceiptHandlers{svc: svc, logger: logger}
}

// Generate handles POST /generate-pdf.
func (h *ReceiptHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TxID string `json:"txId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	out, err := h.svc.Generate(r.Context(), req.TxID, origin(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingIdentifier):
			writeError(w, http.StatusBadRequest, "Transaction ID is required")
		case errors.Is(err, service.ErrInvalidIdentifier):
			writeError(w, http.StatusBadRequest, "Transaction ID is invalid")
		case errors.Is(err, service.ErrNotFound):
			writeError(w, http.StatusNotFound, "Transaction record not found")
		default:
			h.logger.Error("failed to generate receipt", zap.String("tx_id", req.TxID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to generate PDF")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"url":      out.URL,
		"checksum": out.Checksum,
	})
}

// Link handles GET /get-receipt-link/{txId}.
func (h *ReceiptHandlers) Link(w http.ResponseWriter, r *http.Request) {
	txID := mux.Vars(r)["txId"]

	url, err := h.svc.Link(r.Context(), txID, origin(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			writeMessage(w, http.StatusNotFound, "Transaction not found.")
		case errors.Is(err, service.ErrReceiptNotGenerated):
			writeMessage(w, http.StatusNotFound, "PDF not yet generated.")
		default:
			h.logger.Error("failed to resolve receipt link", zap.String("tx_id", txID), zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"url":     url,
	})
}
