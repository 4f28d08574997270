package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"txreceipt/internal/http/handlers"
	"txreceipt/internal/http/middleware"
	"txreceipt/internal/models"
	"txreceipt/internal/money"
	"txreceipt/internal/receipt"
	"txreceipt/internal/repository"
	"txreceipt/internal/service"
)

type fakeStore struct {
	mu   sync.Mutex
	rows map[string]models.Transaction
	err  error
}

func (s *fakeStore) Insert(_ context.Context, tx *models.Transaction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	if _, ok := s.rows[tx.TxID]; ok {
		return 0, repository.ErrDuplicateKey
	}
	s.rows[tx.TxID] = *tx
	return 1, nil
}

func (s *fakeStore) FindByTxID(_ context.Context, txID string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	row, ok := s.rows[txID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (s *fakeStore) Exists(ctx context.Context, txID string) (bool, error) {
	_, err := s.FindByTxID(ctx, txID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func newTestRouter(t *testing.T, origins ...string) (http.Handler, *fakeStore) {
	t.Helper()
	logger := zap.NewNop()
	store := &fakeStore{rows: map[string]models.Transaction{}}

	page, err := receipt.PageFor("letter", 30)
	require.NoError(t, err)
	formatter := money.NewFormatter("ETB", "en")
	files, err := receipt.NewFileStore(filepath.Join(t.TempDir(), "public"))
	require.NoError(t, err)

	txSvc := service.NewTransactionService(store, nil, logger)
	receiptSvc := service.NewReceiptService(service.ReceiptDeps{
		Store:     store,
		Composer:  receipt.NewEngine(receipt.Layout{Page: page, VATRate: decimal.RequireFromString("0.15")}, formatter),
		Renderer:  receipt.NewRenderer("test"),
		Files:     files,
		Formatter: formatter,
		Fees:      money.NewFees(3, 0.15),
		Logger:    logger,
	})

	return NewRouter(RouterDeps{
		Transactions: handlers.NewTransactionHandlers(txSvc, logger),
		Receipts:     handlers.NewReceiptHandlers(receiptSvc, logger),
		Health:       handlers.NewHealthHandler(nil),
		PublicDir:    files.Dir(),
		CORSOrigins:  origins,
		Logger:       logger,
	}), store
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Host = "receipts.test"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var payload map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

const saveBody = `{"sender":"abebe","receiver":"almaz","last4":"6789","amt":1000,"fullTimestamp":"2024-03-05T14:07:09Z","tid":"TX1"}`

func TestSaveTransactionDuplicate(t *testing.T) {
	h, store := newTestRouter(t)

	rec, body := do(t, h, http.MethodPost, "/save_transaction", saveBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Transaction logged", body["message"])
	assert.Equal(t, float64(1), body["affectedRows"])

	rec, body = do(t, h, http.MethodPost, "/save_transaction", saveBody)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Transaction ID already exists", body["error"])
	assert.Len(t, store.rows, 1)
}

func TestSaveTransactionErrors(t *testing.T) {
	h, store := newTestRouter(t)

	rec, _ := do(t, h, http.MethodPost, "/save_transaction", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/save_transaction", `{"amt":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	store.err = errors.New("connection reset")
	rec, body := do(t, h, http.MethodPost, "/save_transaction", saveBody)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", body["error"])
}

func TestTransactionDetail(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, body := do(t, h, http.MethodGet, "/transactions/detail/TX1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Transaction not found.", body["message"])

	do(t, h, http.MethodPost, "/save_transaction", saveBody)
	rec, body = do(t, h, http.MethodGet, "/transactions/detail/TX1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "TX1", data["txId"])
	assert.Equal(t, "abebe", data["sender"])
	assert.Equal(t, "1000", data["amt"])
}

func TestGeneratePDFAndLink(t *testing.T) {
	h, _ := newTestRouter(t)
	do(t, h, http.MethodPost, "/save_transaction", saveBody)

	rec, body := do(t, h, http.MethodGet, "/get-receipt-link/TX1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "PDF not yet generated.", body["message"])

	rec, body = do(t, h, http.MethodPost, "/generate-pdf", `{"txId":"TX1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "http://receipts.test/public/receipt_TX1.pdf", body["url"])
	assert.Len(t, body["checksum"], 64)

	rec, body = do(t, h, http.MethodGet, "/get-receipt-link/TX1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://receipts.test/public/receipt_TX1.pdf", body["url"])

	rec, _ = do(t, h, http.MethodGet, "/public/receipt_TX1.pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}

func TestGeneratePDFEscapesLink(t *testing.T) {
	h, _ := newTestRouter(t)
	do(t, h, http.MethodPost, "/save_transaction", `{"amt":5,"tid":"A B#1?"}`)

	rec, body := do(t, h, http.MethodPost, "/generate-pdf", `{"txId":"A B#1?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	link := body["url"].(string)
	assert.Equal(t, "http://receipts.test/public/receipt_A%20B%231%3F.pdf", link)

	rec, _ = do(t, h, http.MethodGet, strings.TrimPrefix(link, "http://receipts.test"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}

func TestGeneratePDFErrors(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, body := do(t, h, http.MethodPost, "/generate-pdf", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Transaction ID is required", body["error"])

	rec, body = do(t, h, http.MethodPost, "/generate-pdf", `{"txId":"missing"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Transaction record not found", body["error"])

	rec, body = do(t, h, http.MethodGet, "/get-receipt-link/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Transaction not found.", body["message"])
}

func TestForwardedProto(t *testing.T) {
	h, _ := newTestRouter(t)
	do(t, h, http.MethodPost, "/save_transaction", saveBody)

	req := httptest.NewRequest(http.MethodPost, "/generate-pdf", strings.NewReader(`{"txId":"TX1"}`))
	req.Host = "receipts.test"
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://receipts.test/public/receipt_TX1.pdf")
}

func TestMiddleware(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, body := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc")
	req.Header.Set("Origin", "http://example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec, _ = do(t, h, http.MethodGet, "/save_transaction", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSAllowedOrigins(t *testing.T) {
	h, _ := newTestRouter(t, "https://bank.example")

	for origin, want := range map[string]string{
		"https://bank.example":  "https://bank.example",
		"https://other.example": "",
	} {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, origin)
		assert.Equal(t, want, rec.Header().Get("Access-Control-Allow-Origin"), origin)
	}
}

func TestSaveTransactionAmountOutOfRange(t *testing.T) {
	h, store := newTestRouter(t)

	body := `{"sender":"abebe","amt":10000000000000000,"tid":"TXBIG"}`
	rec, payload := do(t, h, http.MethodPost, "/save_transaction", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, payload["error"], "amt must be below")
	assert.Empty(t, store.rows)
}
