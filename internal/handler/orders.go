package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/atithi-pos/api/internal/database"
	"github.com/atithi-pos/api/internal/service"
	"github.com/atithi-pos/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error)
	EditOrder(ctx context.Context, orderID uuid.UUID, items []service.OrderItemRequest) (*service.CreateOrderResult, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (database.Order, error)
	MarkPaid(ctx context.Context, orderID uuid.UUID, paymentMode string) (*service.MarkPaidResult, error)
}

// OrderStore defines the database methods needed by order read handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	ListOrderItemsDetail(ctx context.Context, orderID uuid.UUID) ([]database.ListOrderItemsDetailRow, error)
	GetBillByOrder(ctx context.Context, orderID uuid.UUID) (database.Bill, error)
}

// Broadcaster pushes order events to connected staff screens.
// Satisfied by *ws.Hub.
type Broadcaster interface {
	Broadcast(event ws.Event)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc   OrderServicer
	store OrderStore
	hub   Broadcaster
}

// NewOrderHandler creates a new OrderHandler. hub may be nil in tests.
func NewOrderHandler(svc OrderServicer, store OrderStore, hub Broadcaster) *OrderHandler {
	return &OrderHandler{svc: svc, store: store, hub: hub}
}

// RegisterRoutes registers the order read endpoints plus creation and editing.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Edit)
}

// RegisterKitchenRoutes registers the kitchen status endpoint.
func (h *OrderHandler) RegisterKitchenRoutes(r chi.Router) {
	r.Patch("/{id}/status", h.UpdateStatus)
}

// RegisterCashierRoutes registers the settlement endpoint.
func (h *OrderHandler) RegisterCashierRoutes(r chi.Router) {
	r.Post("/{id}/pay", h.MarkPaid)
}

// --- Request / Response types ---

type createOrderRequest struct {
	OrderType    string                  `json:"order_type"`
	TableNumber  string                  `json:"table_number"`
	CustomerName string                  `json:"customer_name"`
	Items        []orderItemRequestEntry `json:"items"`
}

type editOrderRequest struct {
	Items []orderItemRequestEntry `json:"items"`
}

type orderItemRequestEntry struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int32  `json:"quantity"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type markPaidRequest struct {
	PaymentMode string `json:"payment_mode"`
}

type orderResponse struct {
	ID           uuid.UUID           `json:"id"`
	DaySequence  int                 `json:"day_sequence,omitempty"`
	OrderType    string              `json:"order_type"`
	TableNumber  *string             `json:"table_number"`
	CustomerName *string             `json:"customer_name"`
	Status       string              `json:"status"`
	TotalAmount  string              `json:"total_amount"`
	EditCount    int32               `json:"edit_count"`
	IsPaid       bool                `json:"is_paid"`
	PaidAt       *time.Time          `json:"paid_at"`
	CreatedAt    time.Time           `json:"created_at"`
	Items        []orderItemResponse `json:"items,omitempty"`
	Bill         *billResponse       `json:"bill,omitempty"`
}

type orderItemResponse struct {
	ID             uuid.UUID `json:"id"`
	MenuItemID     uuid.UUID `json:"menu_item_id"`
	Name           string    `json:"name,omitempty"`
	Quantity       int32     `json:"quantity"`
	PriceAtTime    string    `json:"price_at_time"`
	AddedAfterEdit int32     `json:"added_after_edit"`
}

func toOrderResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:          o.ID,
		OrderType:   o.OrderType,
		Status:      o.Status,
		TotalAmount: numericToString(o.TotalAmount),
		EditCount:   o.EditCount,
		IsPaid:      o.IsPaid,
		CreatedAt:   o.CreatedAt,
	}
	if o.TableNumber.Valid {
		resp.TableNumber = &o.TableNumber.String
	}
	if o.CustomerName.Valid {
		resp.CustomerName = &o.CustomerName.String
	}
	if o.PaidAt.Valid {
		resp.PaidAt = &o.PaidAt.Time
	}
	return resp
}

func toOrderItemResponses(items []database.OrderItem) []orderItemResponse {
	resp := make([]orderItemResponse, len(items))
	for i, item := range items {
		resp[i] = orderItemResponse{
			ID:             item.ID,
			MenuItemID:     item.MenuItemID,
			Quantity:       item.Quantity,
			PriceAtTime:    numericToString(item.PriceAtTime),
			AddedAfterEdit: item.AddedAfterEdit,
		}
	}
	return resp
}

// --- Handlers ---

// List returns orders for a date filter (default today), oldest first.
// day_sequence restarts at 1 for each calendar day, matching how waiters
// refer to "order number 5 of today".
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	orders, err := h.store.ListOrders(r.Context(), database.ListOrdersParams{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	seq := 0
	var day time.Time
	for i, o := range orders {
		d := o.CreatedAt.Truncate(24 * time.Hour)
		if !d.Equal(day) {
			day = d
			seq = 0
		}
		seq++
		resp[i] = toOrderResponse(o)
		resp[i].DaySequence = seq
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns one order with its items, and the bill when one exists.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	items, err := h.store.ListOrderItemsDetail(r.Context(), id)
	if err != nil {
		log.Printf("ERROR: list order items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toOrderResponse(order)
	resp.Items = make([]orderItemResponse, len(items))
	for i, item := range items {
		resp.Items[i] = orderItemResponse{
			ID:             item.ID,
			MenuItemID:     item.MenuItemID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			PriceAtTime:    numericToString(item.PriceAtTime),
			AddedAfterEdit: item.AddedAfterEdit,
		}
	}

	bill, err := h.store.GetBillByOrder(r.Context(), id)
	if err == nil {
		b := toBillResponse(bill)
		resp.Bill = &b
	} else if !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("ERROR: get bill for order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create takes a new order via the order service.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	items := make([]service.OrderItemRequest, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.OrderItemRequest{MenuItemID: item.MenuItemID, Quantity: item.Quantity}
	}

	result, err := h.svc.CreateOrder(r.Context(), service.CreateOrderRequest{
		OrderType:    req.OrderType,
		TableNumber:  req.TableNumber,
		CustomerName: req.CustomerName,
		Items:        items,
	})
	if err != nil {
		if isOrderBadRequest(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("ERROR: create order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toOrderResponse(result.Order)
	resp.Items = toOrderItemResponses(result.Items)
	h.broadcastOrder("order.created", result.Order)
	writeJSON(w, http.StatusCreated, resp)
}

// Edit appends items to an unpaid order.
func (h *OrderHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req editOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	items := make([]service.OrderItemRequest, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.OrderItemRequest{MenuItemID: item.MenuItemID, Quantity: item.Quantity}
	}

	result, err := h.svc.EditOrder(r.Context(), id, items)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrOrderPaid):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		case isOrderBadRequest(err):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: edit order: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	resp := toOrderResponse(result.Order)
	resp.Items = toOrderItemResponses(result.Items)
	h.broadcastOrder("order.updated", result.Order)
	writeJSON(w, http.StatusOK, resp)
}

// UpdateStatus moves an order through the kitchen flow.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	order, err := h.svc.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrOrderPaid):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: update order status: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	h.broadcastOrder("order.status_updated", order)
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// MarkPaid settles an order and returns it with the generated bill.
func (h *OrderHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req markPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.svc.MarkPaid(r.Context(), id, req.PaymentMode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPaymentMode):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrAlreadyPaid):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: mark order paid: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	resp := toOrderResponse(result.Order)
	bill := toBillResponse(result.Bill)
	resp.Bill = &bill
	h.broadcastOrder("order.paid", result.Order)
	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

func (h *OrderHandler) broadcastOrder(eventType string, order database.Order) {
	if h.hub == nil {
		return
	}
	payload, err := json.Marshal(toOrderResponse(order))
	if err != nil {
		log.Printf("ERROR: marshal %s event: %v", eventType, err)
		return
	}
	h.hub.Broadcast(ws.Event{Type: eventType, Payload: payload})
}

// isOrderBadRequest reports whether the service error is a validation error
// the client can fix, as opposed to an internal failure.
func isOrderBadRequest(err error) bool {
	for _, target := range []error{
		service.ErrEmptyItems,
		service.ErrInvalidOrderType,
		service.ErrTableRequired,
		service.ErrCustomerRequired,
		service.ErrInvalidQuantity,
		service.ErrInvalidMenuItemID,
		service.ErrMenuItemNotFound,
		service.ErrMenuItemUnavailable,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
