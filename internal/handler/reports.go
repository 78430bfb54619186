package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/atithi-pos/api/internal/database"
	"github.com/atithi-pos/api/internal/enum"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// ReportsStore defines the database methods needed by report handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ReportsStore interface {
	GetRevenueByMode(ctx context.Context, arg database.GetRevenueByModeParams) ([]database.GetRevenueByModeRow, error)
	SumExpensesInRange(ctx context.Context, arg database.SumExpensesInRangeParams) (pgtype.Numeric, error)
	CountOrders(ctx context.Context, arg database.CountOrdersParams) (int64, error)
	CountLiveOrders(ctx context.Context, arg database.CountLiveOrdersParams) (int64, error)
	CountEmployees(ctx context.Context) (int64, error)
	ListRecentBills(ctx context.Context, arg database.ListRecentBillsParams) ([]database.Bill, error)
	ListRecentExpenses(ctx context.Context, limit int32) ([]database.Expense, error)
}

// ReportsHandler handles the back-office dashboard endpoint.
type ReportsHandler struct {
	store ReportsStore
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(store ReportsStore) *ReportsHandler {
	return &ReportsHandler{store: store}
}

// RegisterRoutes registers report endpoints on the given Chi router.
func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.Dashboard)
}

// --- Response types ---

type dashboardResponse struct {
	StartDate     string            `json:"start_date"`
	EndDate       string            `json:"end_date"`
	CashRevenue   string            `json:"cash_revenue"`
	OnlineRevenue string            `json:"online_revenue"`
	TotalRevenue  string            `json:"total_revenue"`
	TotalExpenses string            `json:"total_expenses"`
	ProfitLoss    string            `json:"profit_loss"`
	OrderCount    int64             `json:"order_count"`
	LiveOrders    int64             `json:"live_orders"`
	EmployeeCount int64             `json:"employee_count"`
	RecentBills   []billResponse    `json:"recent_bills"`
	RecentSpends  []expenseResponse `json:"recent_expenses"`
}

// --- Handlers ---

// Dashboard aggregates the owner's view for a date filter (default today):
// revenue split by payment mode, total expenses, and the resulting profit or
// loss, plus live counters and recent activity.
func (h *ReportsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	revenueRows, err := h.store.GetRevenueByMode(r.Context(), database.GetRevenueByModeParams{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		log.Printf("ERROR: get revenue by mode: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	cash := decimal.Zero
	online := decimal.Zero
	for _, row := range revenueRows {
		switch row.PaymentMode {
		case enum.PaymentModeCash:
			cash = numericToDecimal(row.TotalRevenue)
		case enum.PaymentModeOnline:
			online = numericToDecimal(row.TotalRevenue)
		}
	}
	revenue := cash.Add(online)

	expensesTotal, err := h.store.SumExpensesInRange(r.Context(), database.SumExpensesInRangeParams{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		log.Printf("ERROR: sum expenses: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	expenses := numericToDecimal(expensesTotal)

	orderCount, err := h.store.CountOrders(r.Context(), database.CountOrdersParams{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		log.Printf("ERROR: count orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	liveOrders, err := h.store.CountLiveOrders(r.Context(), database.CountLiveOrdersParams{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		log.Printf("ERROR: count live orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	employeeCount, err := h.store.CountEmployees(r.Context())
	if err != nil {
		log.Printf("ERROR: count employees: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	recentBills, err := h.store.ListRecentBills(r.Context(), database.ListRecentBillsParams{
		StartDate: start,
		EndDate:   end,
		Limit:     5,
	})
	if err != nil {
		log.Printf("ERROR: list recent bills: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	recentExpenses, err := h.store.ListRecentExpenses(r.Context(), 5)
	if err != nil {
		log.Printf("ERROR: list recent expenses: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := dashboardResponse{
		StartDate:     start.Time.Format("2006-01-02"),
		EndDate:       end.Time.Format("2006-01-02"),
		CashRevenue:   cash.StringFixed(2),
		OnlineRevenue: online.StringFixed(2),
		TotalRevenue:  revenue.StringFixed(2),
		TotalExpenses: expenses.StringFixed(2),
		ProfitLoss:    revenue.Sub(expenses).StringFixed(2),
		OrderCount:    orderCount,
		LiveOrders:    liveOrders,
		EmployeeCount: employeeCount,
		RecentBills:   make([]billResponse, len(recentBills)),
		RecentSpends:  make([]expenseResponse, len(recentExpenses)),
	}
	for i, b := range recentBills {
		resp.RecentBills[i] = toBillResponse(b)
	}
	for i, e := range recentExpenses {
		resp.RecentSpends[i] = toExpenseResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}
