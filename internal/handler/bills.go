package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/atithi-pos/api/internal/database"
	"github.com/atithi-pos/api/internal/enum"
	"github.com/atithi-pos/api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BillStore defines the database methods needed by billing handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type BillStore interface {
	GetBill(ctx context.Context, id uuid.UUID) (database.Bill, error)
	ListBills(ctx context.Context, arg database.ListBillsParams) ([]database.Bill, error)
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrderItemsDetail(ctx context.Context, orderID uuid.UUID) ([]database.ListOrderItemsDetailRow, error)
}

// BillServicer defines the service methods needed by billing handlers.
// Satisfied by *service.OrderService.
type BillServicer interface {
	EnsureBill(ctx context.Context, orderID uuid.UUID, paymentMode string) (database.Bill, error)
}

// BillHandler handles billing endpoints.
type BillHandler struct {
	svc   BillServicer
	store BillStore
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(svc BillServicer, store BillStore) *BillHandler {
	return &BillHandler{svc: svc, store: store}
}

// RegisterRoutes registers billing endpoints on the given Chi router.
func (h *BillHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/invoice", h.Invoice)
	r.Get("/order/{orderID}", h.GetByOrder)
}

// --- Response types ---

type billResponse struct {
	ID            uuid.UUID `json:"id"`
	OrderID       uuid.UUID `json:"order_id"`
	TotalItems    string    `json:"total_items"`
	Gst           string    `json:"gst"`
	ServiceCharge string    `json:"service_charge"`
	GrandTotal    string    `json:"grand_total"`
	PaymentMode   string    `json:"payment_mode"`
	GeneratedAt   time.Time `json:"generated_at"`
}

func toBillResponse(b database.Bill) billResponse {
	return billResponse{
		ID:            b.ID,
		OrderID:       b.OrderID,
		TotalItems:    numericToString(b.TotalItems),
		Gst:           numericToString(b.Gst),
		ServiceCharge: numericToString(b.ServiceCharge),
		GrandTotal:    numericToString(b.GrandTotal),
		PaymentMode:   b.PaymentMode,
		GeneratedAt:   b.GeneratedAt,
	}
}

// --- Handlers ---

// List returns bills for a date filter (default today), oldest first.
func (h *BillHandler) List(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	bills, err := h.store.ListBills(r.Context(), database.ListBillsParams{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		log.Printf("ERROR: list bills: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]billResponse, len(bills))
	for i, b := range bills {
		resp[i] = toBillResponse(b)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single bill.
func (h *BillHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid bill ID"})
		return
	}

	bill, err := h.store.GetBill(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "bill not found"})
			return
		}
		log.Printf("ERROR: get bill: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toBillResponse(bill))
}

// GetByOrder returns the bill for an order, generating it on first view if
// the order was never marked paid. The optional ?payment_mode= only matters
// in that generation case and defaults to Cash.
func (h *BillHandler) GetByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	mode := r.URL.Query().Get("payment_mode")
	if mode == "" {
		mode = enum.PaymentModeCash
	}

	bill, err := h.svc.EnsureBill(r.Context(), orderID, mode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPaymentMode):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: ensure bill: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, toBillResponse(bill))
}

// Invoice renders the bill as a downloadable plain-text receipt.
func (h *BillHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid bill ID"})
		return
	}

	bill, err := h.store.GetBill(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "bill not found"})
			return
		}
		log.Printf("ERROR: get bill: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), bill.OrderID)
	if err != nil {
		log.Printf("ERROR: get order for invoice: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	items, err := h.store.ListOrderItemsDetail(r.Context(), bill.OrderID)
	if err != nil {
		log.Printf("ERROR: list order items for invoice: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	invoice := renderInvoice(bill, order, items)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.txt", bill.ID.String()[:8]))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(invoice))
}

// renderInvoice formats a receipt the way the thermal printer template lays
// it out: header, one line per dish, totals block, payment mode.
func renderInvoice(bill database.Bill, order database.Order, items []database.ListOrderItemsDetailRow) string {
	var b strings.Builder
	line := strings.Repeat("-", 40)

	b.WriteString("          ATITHI HOTEL & RESTAURANT\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "Bill:  %s\n", bill.ID.String()[:8])
	fmt.Fprintf(&b, "Order: %s (%s)\n", order.ID.String()[:8], order.OrderType)
	if order.TableNumber.Valid {
		fmt.Fprintf(&b, "Table: %s\n", order.TableNumber.String)
	}
	if order.CustomerName.Valid {
		fmt.Fprintf(&b, "Customer: %s\n", order.CustomerName.String)
	}
	fmt.Fprintf(&b, "Date:  %s\n", bill.GeneratedAt.Format("02 Jan 2006 15:04"))
	b.WriteString(line + "\n")

	for _, item := range items {
		fmt.Fprintf(&b, "%-24s %3d x %s\n", item.Name, item.Quantity, numericToString(item.PriceAtTime))
	}

	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "Items total:    %s\n", numericToString(bill.TotalItems))
	fmt.Fprintf(&b, "GST:            %s\n", numericToString(bill.Gst))
	fmt.Fprintf(&b, "Service charge: %s\n", numericToString(bill.ServiceCharge))
	fmt.Fprintf(&b, "Grand total:    %s\n", numericToString(bill.GrandTotal))
	fmt.Fprintf(&b, "Paid by:        %s\n", bill.PaymentMode)
	b.WriteString(line + "\n")
	b.WriteString("        Thank you, visit again!\n")
	return b.String()
}
