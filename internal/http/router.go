package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"txreceipt/internal/http/handlers"
	"txreceipt/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Transactions *handlers.TransactionHandlers
	Receipts     *handlers.ReceiptHandlers
	Health       http.HandlerFunc
	PublicDir    string
	CORSOrigins  []string
	Logger       *zap.Logger
}

// NewRouter wires HTTP routes with middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := mux.NewRouter()

	if deps.Health != nil {
		r.HandleFunc("/health", deps.Health).Methods(http.MethodGet)
	}

	r.HandleFunc("/save_transaction", deps.Transactions.Save).Methods(http.MethodPost)
	r.HandleFunc("/transactions/detail/{txId}", deps.Transactions.Detail).Methods(http.MethodGet)

	r.HandleFunc("/generate-pdf", deps.Receipts.Generate).Methods(http.MethodPost)
	r.HandleFunc("/get-receipt-link/{txId}", deps.Receipts.Link).Methods(http.MethodGet)

	if deps.PublicDir != "" {
		public := http.StripPrefix("/public/", http.FileServer(http.Dir(deps.PublicDir)))
		r.PathPrefix("/public/").Handler(public).Methods(http.MethodGet, http.MethodHead)
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return middleware.Chain(r, middleware.CORS(deps.CORSOrigins), middleware.RequestID, middleware.AccessLog(logger))
}
