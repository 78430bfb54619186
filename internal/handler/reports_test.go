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
	"github.com/jackc/pgx/v5/pgtype"
)

type mockReportsStore struct {
	revenueRows    []database.GetRevenueByModeRow
	expensesTotal  string
	orderCount     int64
	liveOrders     int64
	employeeCount  int64
	recentBills    []database.Bill
	recentExpenses []database.Expense

	billsLimit    int32
	expensesLimit int32
}

func (m *mockReportsStore) GetRevenueByMode(_ context.Context, _ database.GetRevenueByModeParams) ([]database.GetRevenueByModeRow, error) {
	return m.revenueRows, nil
}

func (m *mockReportsStore) SumExpensesInRange(_ context.Context, _ database.SumExpensesInRangeParams) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if m.expensesTotal != "" {
		_ = n.Scan(m.expensesTotal)
	}
	return n, nil
}

func (m *mockReportsStore) CountOrders(_ context.Context, _ database.CountOrdersParams) (int64, error) {
	return m.orderCount, nil
}

func (m *mockReportsStore) CountLiveOrders(_ context.Context, _ database.CountLiveOrdersParams) (int64, error) {
	return m.liveOrders, nil
}

func (m *mockReportsStore) CountEmployees(_ context.Context) (int64, error) {
	return m.employeeCount, nil
}

func (m *mockReportsStore) ListRecentBills(_ context.Context, arg database.ListRecentBillsParams) ([]database.Bill, error) {
	m.billsLimit = arg.Limit
	return m.recentBills, nil
}

func (m *mockReportsStore) ListRecentExpenses(_ context.Context, limit int32) ([]database.Expense, error) {
	m.expensesLimit = limit
	return m.recentExpenses, nil
}

func revenueRow(mode, total string) database.GetRevenueByModeRow {
	var n pgtype.Numeric
	_ = n.Scan(total)
	return database.GetRevenueByModeRow{PaymentMode: mode, TotalRevenue: n}
}

func setupReportsRouter(store *mockReportsStore) *chi.Mux {
	h := handler.NewReportsHandler(store)
	r := chi.NewRouter()
	r.Route("/reports", h.RegisterRoutes)
	return r
}

func TestDashboard_ProfitLoss(t *testing.T) {
	store := &mockReportsStore{
		revenueRows: []database.GetRevenueByModeRow{
			revenueRow("Cash", "3200.00"),
			revenueRow("Online", "1800.00"),
		},
		expensesTotal: "1500.00",
		orderCount:    14,
		liveOrders:    3,
		employeeCount: 6,
		recentBills:   []database.Bill{makeTestBill(uuid.New(), "500.00")},
		recentExpenses: []database.Expense{{
			ID:          uuid.New(),
			ItemID:      uuid.New(),
			PaymentMode: "Cash",
			Date:        time.Now(),
		}},
	}
	router := setupReportsRouter(store)

	rr := doRequest(t, router, "GET", "/reports/dashboard?date=2026-08-15", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["cash_revenue"] != "3200.00" {
		t.Errorf("cash_revenue: got %v, want 3200.00", resp["cash_revenue"])
	}
	if resp["online_revenue"] != "1800.00" {
		t.Errorf("online_revenue: got %v, want 1800.00", resp["online_revenue"])
	}
	if resp["total_revenue"] != "5000.00" {
		t.Errorf("total_revenue: got %v, want 5000.00", resp["total_revenue"])
	}
	if resp["total_expenses"] != "1500.00" {
		t.Errorf("total_expenses: got %v, want 1500.00", resp["total_expenses"])
	}
	if resp["profit_loss"] != "3500.00" {
		t.Errorf("profit_loss: got %v, want 3500.00", resp["profit_loss"])
	}
	if resp["order_count"] != float64(14) {
		t.Errorf("order_count: got %v, want 14", resp["order_count"])
	}
	if resp["live_orders"] != float64(3) {
		t.Errorf("live_orders: got %v, want 3", resp["live_orders"])
	}
	if resp["employee_count"] != float64(6) {
		t.Errorf("employee_count: got %v, want 6", resp["employee_count"])
	}
	if resp["start_date"] != "2026-08-15" || resp["end_date"] != "2026-08-15" {
		t.Errorf("date range: got %v..%v, want 2026-08-15..2026-08-15", resp["start_date"], resp["end_date"])
	}

	bills, ok := resp["recent_bills"].([]interface{})
	if !ok || len(bills) != 1 {
		t.Fatalf("recent_bills: got %v", resp["recent_bills"])
	}
	if store.billsLimit != 5 || store.expensesLimit != 5 {
		t.Errorf("recent list limits: got bills=%d expenses=%d, want 5 each", store.billsLimit, store.expensesLimit)
	}
}

func TestDashboard_Loss(t *testing.T) {
	store := &mockReportsStore{
		revenueRows:   []database.GetRevenueByModeRow{revenueRow("Cash", "400.00")},
		expensesTotal: "900.00",
	}
	router := setupReportsRouter(store)

	rr := doRequest(t, router, "GET", "/reports/dashboard", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["profit_loss"] != "-500.00" {
		t.Errorf("profit_loss: got %v, want -500.00", resp["profit_loss"])
	}
	if resp["online_revenue"] != "0.00" {
		t.Errorf("online_revenue: got %v, want 0.00", resp["online_revenue"])
	}
}

func TestDashboard_EmptyDay(t *testing.T) {
	store := &mockReportsStore{}
	router := setupReportsRouter(store)

	rr := doRequest(t, router, "GET", "/reports/dashboard", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["total_revenue"] != "0.00" || resp["total_expenses"] != "0.00" || resp["profit_loss"] != "0.00" {
		t.Errorf("empty day totals: got revenue=%v expenses=%v profit=%v, want all 0.00",
			resp["total_revenue"], resp["total_expenses"], resp["profit_loss"])
	}
	today := time.Now().Format("2006-01-02")
	if resp["start_date"] != today || resp["end_date"] != today {
		t.Errorf("default range: got %v..%v, want %s..%s", resp["start_date"], resp["end_date"], today, today)
	}
}

func TestDashboard_InvalidDate(t *testing.T) {
	store := &mockReportsStore{}
	router := setupReportsRouter(store)

	rr := doRequest(t, router, "GET", "/reports/dashboard?date=15-08-2026", nil)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
