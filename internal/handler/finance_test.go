package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/atithi-pos/api/internal/database"
	"github.com/atithi-pos/api/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// --- Mock store ---

type mockFinanceStore struct {
	transactions []database.FinanceTransaction
}

func (m *mockFinanceStore) ListFinanceTransactions(_ context.Context, _ database.ListFinanceTransactionsParams) ([]database.FinanceTransaction, error) {
	return m.transactions, nil
}

func (m *mockFinanceStore) GetFinanceTransaction(_ context.Context, id uuid.UUID) (database.FinanceTransaction, error) {
	for _, txn := range m.transactions {
		if txn.ID == id {
			return txn, nil
		}
	}
	return database.FinanceTransaction{}, pgx.ErrNoRows
}

func makeTransaction(txnType, amount, description string, billID uuid.UUID) database.FinanceTransaction {
	var amt pgtype.Numeric
	_ = amt.Scan(amount)
	txn := database.FinanceTransaction{
		ID:          uuid.New(),
		Type:        txnType,
		Amount:      amt,
		Description: pgtype.Text{String: description, Valid: true},
		Date:        time.Now(),
	}
	if billID != uuid.Nil {
		txn.BillID = pgtype.UUID{Bytes: billID, Valid: true}
	}
	return txn
}

// --- Tests ---

func TestFinanceList(t *testing.T) {
	billID := uuid.New()
	store := &mockFinanceStore{transactions: []database.FinanceTransaction{
		makeTransaction("Inflow", "500.00", "Cash payment for Order #abc12345", billID),
		makeTransaction("Outflow", "1200.00", "Online purchase: Gas Cylinder (1 unit)", uuid.Nil),
	}}
	h := handler.NewFinanceHandler(store)
	r := chi.NewRouter()
	r.Route("/finance", h.RegisterRoutes)

	rr := doRequest(t, r, "GET", "/finance?date=2026-08-31", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeListResponse(t, rr)
	if len(resp) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(resp))
	}
	if resp[0]["type"] != "Inflow" {
		t.Errorf("type: got %v, want Inflow", resp[0]["type"])
	}
	if resp[0]["amount"] != "500.00" {
		t.Errorf("amount: got %v, want 500.00", resp[0]["amount"])
	}
	if resp[0]["bill_id"] != billID.String() {
		t.Errorf("bill_id: got %v, want %s", resp[0]["bill_id"], billID)
	}
	// Expense entries carry no bill link
	if resp[1]["bill_id"] != nil {
		t.Errorf("bill_id: expected null for outflow, got %v", resp[1]["bill_id"])
	}
}

func TestFinanceGet(t *testing.T) {
	txn := makeTransaction("Outflow", "900.00", "Cash purchase: Rice (10 kg)", uuid.Nil)
	store := &mockFinanceStore{transactions: []database.FinanceTransaction{txn}}
	h := handler.NewFinanceHandler(store)
	r := chi.NewRouter()
	r.Route("/finance", h.RegisterRoutes)

	rr := doRequest(t, r, "GET", "/finance/"+txn.ID.String(), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeResponse(t, rr)
	if resp["id"] != txn.ID.String() {
		t.Errorf("id: got %v, want %s", resp["id"], txn.ID)
	}
	if resp["amount"] != "900.00" {
		t.Errorf("amount: got %v, want 900.00", resp["amount"])
	}
}

func TestFinanceGet_NotFound(t *testing.T) {
	h := handler.NewFinanceHandler(&mockFinanceStore{})
	r := chi.NewRouter()
	r.Route("/finance", h.RegisterRoutes)

	rr := doRequest(t, r, "GET", "/finance/"+uuid.NewString(), nil)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestFinanceGet_InvalidID(t *testing.T) {
	h := handler.NewFinanceHandler(&mockFinanceStore{})
	r := chi.NewRouter()
	r.Route("/finance", h.RegisterRoutes)

	rr := doRequest(t, r, "GET", "/finance/not-a-uuid", nil)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestFinanceList_InvalidDate(t *testing.T) {
	h := handler.NewFinanceHandler(&mockFinanceStore{})
	r := chi.NewRouter()
	r.Route("/finance", h.RegisterRoutes)

	rr := doRequest(t, r, "GET", "/finance?start_date=bad", nil)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestFinanceList_StartAfterEnd(t *testing.T) {
	h := handler.NewFinanceHandler(&mockFinanceStore{})
	r := chi.NewRouter()
	r.Route("/finance", h.RegisterRoutes)

	rr := doRequest(t, r, "GET", "/finance?start_date=2026-08-31&end_date=2026-08-01", nil)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
