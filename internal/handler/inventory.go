package handler

import (
	"context"
	"encoding/json"
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
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// InventoryStore defines the database methods needed by inventory handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type InventoryStore interface {
	CreateInventoryItem(ctx context.Context, arg database.CreateInventoryItemParams) (database.InventoryItem, error)
	GetInventoryItem(ctx context.Context, id uuid.UUID) (database.InventoryItem, error)
	ListInventoryItems(ctx context.Context) ([]database.InventoryItem, error)
	AppendInventoryQuantity(ctx context.Context, arg database.AppendInventoryQuantityParams) (database.InventoryItem, error)
	UpdateInventoryStatus(ctx context.Context, arg database.UpdateInventoryStatusParams) (database.InventoryItem, error)
	CreateExpense(ctx context.Context, arg database.CreateExpenseParams) (database.Expense, error)
	ListExpensesByItem(ctx context.Context, itemID uuid.UUID) ([]database.Expense, error)
	SumExpensesByItem(ctx context.Context, itemID uuid.UUID) (pgtype.Numeric, error)
	CreateFinanceTransaction(ctx context.Context, arg database.CreateFinanceTransactionParams) (database.FinanceTransaction, error)
}

// NewInventoryStore creates an InventoryStore from a DBTX (pool or tx).
type NewInventoryStore func(db database.DBTX) InventoryStore

// InventoryHandler handles asset and expense tracking. Writes that touch both
// the inventory and the ledger run in a single transaction.
type InventoryHandler struct {
	store    InventoryStore
	pool     service.TxBeginner
	newStore NewInventoryStore
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(store InventoryStore, pool service.TxBeginner, newStore NewInventoryStore) *InventoryHandler {
	return &InventoryHandler{store: store, pool: pool, newStore: newStore}
}

// RegisterRoutes registers inventory endpoints on the given Chi router.
func (h *InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/quantity", h.AddQuantity)
	r.Patch("/{id}/status", h.UpdateStatus)
}

// --- Request / Response types ---

type createInventoryRequest struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	Quantity      string `json:"quantity"`
	Unit          string `json:"unit"`
	Status        string `json:"status"`
	PaymentAmount string `json:"payment_amount"`
	PaymentMode   string `json:"payment_mode"`
}

type addQuantityRequest struct {
	Quantity      string `json:"quantity"`
	Unit          string `json:"unit"`
	PaymentAmount string `json:"payment_amount"`
	PaymentMode   string `json:"payment_mode"`
}

type updateInventoryStatusRequest struct {
	Status string `json:"status"`
}

type inventoryItemResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	QuantityWithUnit string    `json:"quantity_with_unit"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

type expenseResponse struct {
	ID                    uuid.UUID `json:"id"`
	ItemID                uuid.UUID `json:"item_id"`
	AddedQuantityWithUnit string    `json:"added_quantity_with_unit"`
	PaymentAmount         string    `json:"payment_amount"`
	PaymentMode           string    `json:"payment_mode"`
	Date                  time.Time `json:"date"`
}

type inventoryDetailResponse struct {
	inventoryItemResponse
	Expenses   []expenseResponse `json:"expenses"`
	TotalSpent string            `json:"total_spent"`
}

func toInventoryItemResponse(i database.InventoryItem) inventoryItemResponse {
	return inventoryItemResponse{
		ID:               i.ID,
		Name:             i.Name,
		Category:         i.Category,
		QuantityWithUnit: i.QuantityWithUnit,
		Status:           i.Status,
		CreatedAt:        i.CreatedAt,
	}
}

func toExpenseResponse(e database.Expense) expenseResponse {
	return expenseResponse{
		ID:                    e.ID,
		ItemID:                e.ItemID,
		AddedQuantityWithUnit: e.AddedQuantityWithUnit,
		PaymentAmount:         numericToString(e.PaymentAmount),
		PaymentMode:           e.PaymentMode,
		Date:                  e.Date,
	}
}

// --- Handlers ---

// List returns all inventory items, newest first.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListInventoryItems(r.Context())
	if err != nil {
		log.Printf("ERROR: list inventory: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]inventoryItemResponse, len(items))
	for i, item := range items {
		resp[i] = toInventoryItemResponse(item)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns one inventory item with its purchase history and total spend.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid inventory item ID"})
		return
	}

	item, err := h.store.GetInventoryItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "inventory item not found"})
			return
		}
		log.Printf("ERROR: get inventory item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	expenses, err := h.store.ListExpensesByItem(r.Context(), id)
	if err != nil {
		log.Printf("ERROR: list expenses: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	total, err := h.store.SumExpensesByItem(r.Context(), id)
	if err != nil {
		log.Printf("ERROR: sum expenses: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := inventoryDetailResponse{
		inventoryItemResponse: toInventoryItemResponse(item),
		Expenses:              make([]expenseResponse, len(expenses)),
		TotalSpent:            numericToString(total),
	}
	for i, e := range expenses {
		resp.Expenses[i] = toExpenseResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create registers a new inventory item. The item, its first expense, and
// the outflow ledger entry are written in one transaction so money and stock
// never go out of step.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if !enum.IsValidInventoryCategory(req.Category) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category"})
		return
	}
	status := strings.ToUpper(req.Status)
	if status == "" {
		status = enum.InventoryStatusUsing
	}
	if !enum.IsValidInventoryStatus(status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}
	if req.Quantity == "" || req.Unit == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity and unit are required"})
		return
	}
	amount, err := decimal.NewFromString(req.PaymentAmount)
	if err != nil || amount.IsNegative() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "payment_amount must be a non-negative amount"})
		return
	}
	if !enum.IsValidPaymentMode(req.PaymentMode) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment_mode"})
		return
	}

	quantityWithUnit := req.Quantity + " " + req.Unit

	tx, err := h.pool.Begin(r.Context())
	if err != nil {
		log.Printf("ERROR: begin tx: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	defer tx.Rollback(r.Context()) //nolint:errcheck

	store := h.newStore(tx)

	item, err := store.CreateInventoryItem(r.Context(), database.CreateInventoryItemParams{
		Name:             req.Name,
		Category:         strings.ToUpper(req.Category),
		QuantityWithUnit: quantityWithUnit,
		Status:           status,
	})
	if err != nil {
		log.Printf("ERROR: create inventory item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	expense, err := h.recordExpense(r.Context(), store, item, quantityWithUnit, amount, req.PaymentMode)
	if err != nil {
		log.Printf("ERROR: record expense: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := tx.Commit(r.Context()); err != nil {
		log.Printf("ERROR: commit tx: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := inventoryDetailResponse{
		inventoryItemResponse: toInventoryItemResponse(item),
		Expenses:              []expenseResponse{toExpenseResponse(expense)},
		TotalSpent:            amount.StringFixed(2),
	}
	writeJSON(w, http.StatusCreated, resp)
}

// AddQuantity restocks an item. The stored quantity is free text, so the new
// amount is appended as "<old> + <new>" rather than summed.
func (h *InventoryHandler) AddQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid inventory item ID"})
		return
	}

	var req addQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Quantity == "" || req.Unit == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity and unit are required"})
		return
	}
	amount, err := decimal.NewFromString(req.PaymentAmount)
	if err != nil || amount.IsNegative() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "payment_amount must be a non-negative amount"})
		return
	}
	if !enum.IsValidPaymentMode(req.PaymentMode) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment_mode"})
		return
	}

	addedQuantity := req.Quantity + " " + req.Unit

	tx, err := h.pool.Begin(r.Context())
	if err != nil {
		log.Printf("ERROR: begin tx: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	defer tx.Rollback(r.Context()) //nolint:errcheck

	store := h.newStore(tx)

	item, err := store.AppendInventoryQuantity(r.Context(), database.AppendInventoryQuantityParams{
		ID:               id,
		QuantityWithUnit: addedQuantity,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "inventory item not found"})
			return
		}
		log.Printf("ERROR: append inventory quantity: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	expense, err := h.recordExpense(r.Context(), store, item, addedQuantity, amount, req.PaymentMode)
	if err != nil {
		log.Printf("ERROR: record expense: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := tx.Commit(r.Context()); err != nil {
		log.Printf("ERROR: commit tx: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := struct {
		inventoryItemResponse
		Expense expenseResponse `json:"expense"`
	}{toInventoryItemResponse(item), toExpenseResponse(expense)}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateStatus flips an item between USING, UNUSED, and BROKEN.
func (h *InventoryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid inventory item ID"})
		return
	}

	var req updateInventoryStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if !enum.IsValidInventoryStatus(req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}

	item, err := h.store.UpdateInventoryStatus(r.Context(), database.UpdateInventoryStatusParams{
		ID:     id,
		Status: strings.ToUpper(req.Status),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "inventory item not found"})
			return
		}
		log.Printf("ERROR: update inventory status: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toInventoryItemResponse(item))
}

// --- Helpers ---

// recordExpense writes the expense row and its outflow ledger entry. Must be
// called with a transactional store.
func (h *InventoryHandler) recordExpense(ctx context.Context, store InventoryStore, item database.InventoryItem, quantity string, amount decimal.Decimal, mode string) (database.Expense, error) {
	expense, err := store.CreateExpense(ctx, database.CreateExpenseParams{
		ItemID:                item.ID,
		AddedQuantityWithUnit: quantity,
		PaymentAmount:         decimalToNumeric(amount),
		PaymentMode:           mode,
	})
	if err != nil {
		return database.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	description := fmt.Sprintf("%s purchase: %s (%s)", mode, item.Name, quantity)
	if _, err := store.CreateFinanceTransaction(ctx, database.CreateFinanceTransactionParams{
		Type:        enum.TransactionOutflow,
		Amount:      decimalToNumeric(amount),
		Description: pgtype.Text{String: description, Valid: true},
	}); err != nil {
		return database.Expense{}, fmt.Errorf("create finance transaction: %w", err)
	}

	return expense, nil
}
