package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/atithi-pos/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// FinanceStore defines the database methods needed by finance handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type FinanceStore interface {
	ListFinanceTransactions(ctx context.Context, arg database.ListFinanceTransactionsParams) ([]database.FinanceTransaction, error)
	GetFinanceTransaction(ctx context.Context, id uuid.UUID) (database.FinanceTransaction, error)
}

// FinanceHandler exposes the money ledger. Entries are only ever written by
// the order service (inflows) and the inventory handler (outflows), so this
// handler is read-only.
type FinanceHandler struct {
	store FinanceStore
}

// NewFinanceHandler creates a new FinanceHandler.
func NewFinanceHandler(store FinanceStore) *FinanceHandler {
	return &FinanceHandler{store: store}
}

// RegisterRoutes registers finance endpoints on the given Chi router.
func (h *FinanceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// --- Response types ---

type financeTransactionResponse struct {
	ID          uuid.UUID  `json:"id"`
	Type        string     `json:"type"`
	Amount      string     `json:"amount"`
	Description *string    `json:"description"`
	BillID      *uuid.UUID `json:"bill_id"`
	Date        time.Time  `json:"date"`
}

func toFinanceTransactionResponse(t database.FinanceTransaction) financeTransactionResponse {
	resp := financeTransactionResponse{
		ID:     t.ID,
		Type:   t.Type,
		Amount: numericToString(t.Amount),
		Date:   t.Date,
	}
	if t.Description.Valid {
		resp.Description = &t.Description.String
	}
	if t.BillID.Valid {
		id := uuid.UUID(t.BillID.Bytes)
		resp.BillID = &id
	}
	return resp
}

// --- Handlers ---

// List returns ledger entries for a date filter (default today), newest first.
func (h *FinanceHandler) List(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	transactions, err := h.store.ListFinanceTransactions(r.Context(), database.ListFinanceTransactionsParams{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		log.Printf("ERROR: list finance transactions: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]financeTransactionResponse, len(transactions))
	for i, t := range transactions {
		resp[i] = toFinanceTransactionResponse(t)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single ledger entry by ID.
func (h *FinanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid transaction ID"})
		return
	}

	txn, err := h.store.GetFinanceTransaction(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "transaction not found"})
			return
		}
		log.Printf("ERROR: get finance transaction: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toFinanceTransactionResponse(txn))
}
