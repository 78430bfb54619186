package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atithi-pos/api/internal/database"
	"github.com/atithi-pos/api/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Errors returned by the order service.
var (
	ErrEmptyItems          = errors.New("items are required")
	ErrInvalidOrderType    = errors.New("invalid order_type")
	ErrTableRequired       = errors.New("table_number is required for Dine-in orders")
	ErrCustomerRequired    = errors.New("customer_name is required for Parcel orders")
	ErrInvalidQuantity     = errors.New("quantity must be > 0")
	ErrInvalidMenuItemID   = errors.New("invalid menu_item_id")
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrMenuItemUnavailable = errors.New("menu item is not available")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderPaid           = errors.New("order is already paid and cannot be modified")
	ErrAlreadyPaid         = errors.New("order is already paid")
	ErrInvalidPaymentMode  = errors.New("invalid payment_mode")
	ErrInvalidStatus       = errors.New("invalid status")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods the order service needs.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetMenuItem(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	SetOrderTotal(ctx context.Context, arg database.SetOrderTotalParams) (database.Order, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	ApplyOrderEdit(ctx context.Context, arg database.ApplyOrderEditParams) (database.Order, error)
	MarkOrderPaid(ctx context.Context, arg database.MarkOrderPaidParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	GetOrderItemByMenuItem(ctx context.Context, arg database.GetOrderItemByMenuItemParams) (database.OrderItem, error)
	AddOrderItemQuantity(ctx context.Context, arg database.AddOrderItemQuantityParams) (database.OrderItem, error)
	GetBillByOrder(ctx context.Context, orderID uuid.UUID) (database.Bill, error)
	CreateBill(ctx context.Context, arg database.CreateBillParams) (database.Bill, error)
	CreateFinanceTransaction(ctx context.Context, arg database.CreateFinanceTransactionParams) (database.FinanceTransaction, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
// This allows the service to create store instances from transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// CreateOrderRequest is the validated input for creating an order.
type CreateOrderRequest struct {
	OrderType    string
	TableNumber  string
	CustomerName string
	Items        []OrderItemRequest
}

// OrderItemRequest is a single line in a create or edit request.
type OrderItemRequest struct {
	MenuItemID string
	Quantity   int32
}

// CreateOrderResult is the created order with its items.
type CreateOrderResult struct {
	Order database.Order
	Items []database.OrderItem
}

// OrderService handles order business logic.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

// CreateOrder validates, snapshots menu prices, and creates an order atomically.
// The order starts in Pending with total_amount equal to the sum of its lines.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if !enum.IsValidOrderType(req.OrderType) {
		return nil, ErrInvalidOrderType
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if req.OrderType == enum.OrderTypeDineIn && req.TableNumber == "" {
		return nil, ErrTableRequired
	}
	if req.OrderType == enum.OrderTypeParcel && req.CustomerName == "" {
		return nil, ErrCustomerRequired
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	tableNumber := pgtype.Text{}
	if req.TableNumber != "" {
		tableNumber = pgtype.Text{String: req.TableNumber, Valid: true}
	}
	customerName := pgtype.Text{}
	if req.CustomerName != "" {
		customerName = pgtype.Text{String: req.CustomerName, Valid: true}
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		OrderType:    req.OrderType,
		TableNumber:  tableNumber,
		CustomerName: customerName,
		Status:       enum.OrderStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	total := decimal.Zero
	var items []database.OrderItem
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidQuantity)
		}
		menuItemID, err := uuid.Parse(item.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidMenuItemID)
		}
		menuItem, err := store.GetMenuItem(ctx, menuItemID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("item[%d]: %w", i, ErrMenuItemNotFound)
			}
			return nil, fmt.Errorf("item[%d]: get menu item: %w", i, err)
		}
		if !menuItem.Available {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrMenuItemUnavailable)
		}

		// Snapshot the menu price so later menu edits never change old orders.
		price := numericToDecimal(menuItem.Price)
		orderItem, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
			OrderID:        order.ID,
			MenuItemID:     menuItemID,
			Quantity:       item.Quantity,
			PriceAtTime:    decimalToNumeric(price),
			AddedAfterEdit: 0,
		})
		if err != nil {
			return nil, fmt.Errorf("item[%d]: create order item: %w", i, err)
		}
		items = append(items, orderItem)
		total = total.Add(price.Mul(decimal.NewFromInt32(item.Quantity)))
	}

	order, err = store.SetOrderTotal(ctx, database.SetOrderTotalParams{
		ID:          order.ID,
		TotalAmount: decimalToNumeric(total),
	})
	if err != nil {
		return nil, fmt.Errorf("set order total: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CreateOrderResult{Order: order, Items: items}, nil
}

// EditOrder appends items to an existing unpaid order. Quantities of lines
// that already exist are bumped in place; new lines are tagged with the edit
// round that introduced them. The order moves to "Partial <n>" where n is the
// cumulative edit count, and never moves back to a kitchen status.
func (s *OrderService) EditOrder(ctx context.Context, orderID uuid.UUID, items []OrderItemRequest) (*CreateOrderResult, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.IsPaid {
		return nil, ErrOrderPaid
	}

	editRound := order.EditCount + 1
	added := decimal.Zero

	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidQuantity)
		}
		menuItemID, err := uuid.Parse(item.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidMenuItemID)
		}

		existing, err := store.GetOrderItemByMenuItem(ctx, database.GetOrderItemByMenuItemParams{
			OrderID:    orderID,
			MenuItemID: menuItemID,
		})
		if err == nil {
			// Same dish again: bump the existing line at its snapshotted price.
			if _, err := store.AddOrderItemQuantity(ctx, database.AddOrderItemQuantityParams{
				ID:       existing.ID,
				Quantity: item.Quantity,
			}); err != nil {
				return nil, fmt.Errorf("item[%d]: add quantity: %w", i, err)
			}
			added = added.Add(numericToDecimal(existing.PriceAtTime).Mul(decimal.NewFromInt32(item.Quantity)))
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item[%d]: get order item: %w", i, err)
		}

		menuItem, err := store.GetMenuItem(ctx, menuItemID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("item[%d]: %w", i, ErrMenuItemNotFound)
			}
			return nil, fmt.Errorf("item[%d]: get menu item: %w", i, err)
		}
		if !menuItem.Available {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrMenuItemUnavailable)
		}

		price := numericToDecimal(menuItem.Price)
		if _, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
			OrderID:        orderID,
			MenuItemID:     menuItemID,
			Quantity:       item.Quantity,
			PriceAtTime:    decimalToNumeric(price),
			AddedAfterEdit: editRound,
		}); err != nil {
			return nil, fmt.Errorf("item[%d]: create order item: %w", i, err)
		}
		added = added.Add(price.Mul(decimal.NewFromInt32(item.Quantity)))
	}

	order, err = store.ApplyOrderEdit(ctx, database.ApplyOrderEditParams{
		ID:          orderID,
		AddedAmount: decimalToNumeric(added),
		EditCount:   editRound,
		Status:      fmt.Sprintf("%s%d", enum.OrderStatusPartialPrefix, editRound),
	})
	if err != nil {
		return nil, fmt.Errorf("apply order edit: %w", err)
	}

	allItems, err := store.ListOrderItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CreateOrderResult{Order: order, Items: allItems}, nil
}

// UpdateStatus moves an order through the kitchen flow (Pending, Preparing,
// Ready, Served). Paid and Partial are not reachable here; paid orders are
// frozen.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (database.Order, error) {
	if !enum.IsKitchenStatus(status) {
		return database.Order{}, ErrInvalidStatus
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderNotFound
		}
		return database.Order{}, fmt.Errorf("get order: %w", err)
	}
	if order.IsPaid {
		return database.Order{}, ErrOrderPaid
	}

	order, err = store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		ID:     orderID,
		Status: status,
	})
	if err != nil {
		return database.Order{}, fmt.Errorf("update order status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return database.Order{}, fmt.Errorf("commit tx: %w", err)
	}
	return order, nil
}

// MarkPaidResult is the paid order together with its bill.
type MarkPaidResult struct {
	Order database.Order
	Bill  database.Bill
}

// MarkPaid settles an order: flips is_paid, stamps paid_at, sets status to
// Paid, and generates the bill plus its inflow ledger entry in the same
// transaction. Paying an already-paid order is rejected, not repeated.
func (s *OrderService) MarkPaid(ctx context.Context, orderID uuid.UUID, paymentMode string) (*MarkPaidResult, error) {
	if !enum.IsValidPaymentMode(paymentMode) {
		return nil, ErrInvalidPaymentMode
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.IsPaid {
		return nil, ErrAlreadyPaid
	}

	order, err = store.MarkOrderPaid(ctx, database.MarkOrderPaidParams{
		ID:     orderID,
		PaidAt: pgtype.Timestamptz{Time: time.Now(), Valid: true},
		Status: enum.OrderStatusPaid,
	})
	if err != nil {
		return nil, fmt.Errorf("mark order paid: %w", err)
	}

	description := fmt.Sprintf("%s payment for Order #%s", paymentMode, shortID(order.ID))
	bill, err := s.ensureBillTx(ctx, store, order, paymentMode, description)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &MarkPaidResult{Order: order, Bill: bill}, nil
}

// EnsureBill returns the bill for an order, generating it (with its inflow
// ledger entry) if it does not exist yet. Viewing the bill of an order that
// was never marked paid still produces one, labelled as an auto bill.
// Calling it twice for the same order always returns the same bill.
func (s *OrderService) EnsureBill(ctx context.Context, orderID uuid.UUID, paymentMode string) (database.Bill, error) {
	if !enum.IsValidPaymentMode(paymentMode) {
		return database.Bill{}, ErrInvalidPaymentMode
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Bill{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Bill{}, ErrOrderNotFound
		}
		return database.Bill{}, fmt.Errorf("get order: %w", err)
	}

	description := fmt.Sprintf("Auto bill for Order #%s", shortID(order.ID))
	bill, err := s.ensureBillTx(ctx, store, order, paymentMode, description)
	if err != nil {
		return database.Bill{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return database.Bill{}, fmt.Errorf("commit tx: %w", err)
	}
	return bill, nil
}

// ensureBillTx is the shared bill generation path. It must run inside the
// caller's transaction so the bill and its ledger entry land together.
func (s *OrderService) ensureBillTx(ctx context.Context, store OrderStore, order database.Order, paymentMode, description string) (database.Bill, error) {
	bill, err := store.GetBillByOrder(ctx, order.ID)
	if err == nil {
		return bill, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return database.Bill{}, fmt.Errorf("get bill: %w", err)
	}

	// total_items carries the order's monetary total. With no GST or service
	// charge applied the grand total equals it unchanged.
	total := numericToDecimal(order.TotalAmount)
	bill, err = store.CreateBill(ctx, database.CreateBillParams{
		OrderID:       order.ID,
		TotalItems:    decimalToNumeric(total),
		Gst:           decimalToNumeric(decimal.Zero),
		ServiceCharge: decimalToNumeric(decimal.Zero),
		GrandTotal:    decimalToNumeric(total),
		PaymentMode:   paymentMode,
	})
	if err != nil {
		return database.Bill{}, fmt.Errorf("create bill: %w", err)
	}

	if _, err := store.CreateFinanceTransaction(ctx, database.CreateFinanceTransactionParams{
		Type:        enum.TransactionInflow,
		Amount:      decimalToNumeric(total),
		Description: pgtype.Text{String: description, Valid: true},
		BillID:      pgtype.UUID{Bytes: bill.ID, Valid: true},
	}); err != nil {
		return database.Bill{}, fmt.Errorf("create finance transaction: %w", err)
	}

	return bill, nil
}

// --- Helpers ---

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
