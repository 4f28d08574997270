package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"txreceipt/internal/service"
)

// TransactionHandlers serves transaction writes and lookups.
type TransactionHandlers struct {
	svc    *service.TransactionService
	logger *zap.Logger
}

// NewTransactionHandlers builds TransactionHandlers.
func NewTransactionHandlers(svc *service.TransactionService, logger *zap.Logger) *TransactionHandlers {
	return &TransactionHandlers{svc: svc, logger: logger}
}

// Save handles POST /save_transaction.
func (h *TransactionHandlers) Save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sender        string          `json:"sender"`
		Receiver      string          `json:"receiver"`
		Last4         string          `json:"last4"`
		Amount        decimal.Decimal `json:"amt"`
		FullTimestamp string          `json:"fullTimestamp"`
		TID           string          `json:"tid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	affected, err := h.svc.Save(r.Context(), service.SaveInput{
		Sender:        req.Sender,
		Receiver:      req.Receiver,
		Last4:         req.Last4,
		Amount:        req.Amount,
		FullTimestamp: req.FullTimestamp,
		TID:           req.TID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateKey):
			writeError(w, http.StatusConflict, "Transaction ID already exists")
		case errors.Is(err, service.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to save transaction", zap.String("tx_id", req.TID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"status":       "success",
		"message":      "Transaction logged",
		"affectedRows": affected,
	})
}

// Detail handles GET /transactions/detail/{txId}.
func (h *TransactionHandlers) Detail(w http.ResponseWriter, r *http.Request) {
	txID := mux.Vars(r)["txId"]

	tx, err := h.svc.Detail(r.Context(), txID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Transaction not found."})
			return
		}
		h.logger.Error("failed to fetch transaction", zap.String("tx_id", txID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Could not retrieve transaction")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   tx,
	})
}
