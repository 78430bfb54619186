package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createOrder = `
INSERT INTO orders (order_type, table_number, customer_name, status)
VALUES ($1, $2, $3, $4)
RETURNING id, order_type, table_number, customer_name, status, total_amount, edit_count, is_paid, paid_at, created_at
`

type CreateOrderParams struct {
	OrderType    string
	TableNumber  pgtype.Text
	CustomerName pgtype.Text
	Status       string
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder, arg.OrderType, arg.TableNumber, arg.CustomerName, arg.Status)
	var o Order
	err := row.Scan(&o.ID, &o.OrderType, &o.TableNumber, &o.CustomerName, &o.Status, &o.TotalAmount, &o.EditCount, &o.IsPaid, &o.PaidAt, &o.CreatedAt)
	return o, err
}

const getOrder = `
SELECT id, order_type, table_number, customer_name, status, total_amount, edit_count, is_paid, paid_at, created_at
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	row := q.db.QueryRow(ctx, getOrder, id)
	var o Order
	err := row.Scan(&o.ID, &o.OrderType, &o.TableNumber, &o.CustomerName, &o.Status, &o.TotalAmount, &o.EditCount, &o.IsPaid, &o.PaidAt, &o.CreatedAt)
	return o, err
}

const listOrders = `
SELECT id, order_type, table_number, customer_name, status, total_amount, edit_count, is_paid, paid_at, created_at
FROM orders
WHERE created_at::date BETWEEN $1 AND $2
ORDER BY created_at
`

type ListOrdersParams struct {
	StartDate pgtype.Date
	EndDate   pgtype.Date
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.OrderType, &o.TableNumber, &o.CustomerName, &o.Status, &o.TotalAmount, &o.EditCount, &o.IsPaid, &o.PaidAt, &o.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

const setOrderTotal = `
UPDATE orders
SET total_amount = $2
WHERE id = $1
RETURNING id, order_type, table_number, customer_name, status, total_amount, edit_count, is_paid, paid_at, created_at
`

type SetOrderTotalParams struct {
	ID          uuid.UUID
	TotalAmount pgtype.Numeric
}

func (q *Queries) SetOrderTotal(ctx context.Context, arg SetOrderTotalParams) (Order, error) {
	row := q.db.QueryRow(ctx, setOrderTotal, arg.ID, arg.TotalAmount)
	var o Order
	err := row.Scan(&o.ID, &o.OrderType, &o.TableNumber, &o.CustomerName, &o.Status, &o.TotalAmount, &o.EditCount, &o.IsPaid, &o.PaidAt, &o.CreatedAt)
	return o, err
}

const updateOrderStatus = `
UPDATE orders
SET status = $2
WHERE id = $1
RETURNING id, order_type, table_number, customer_name, status, total_amount, edit_count, is_paid, paid_at, created_at
`

type UpdateOrderStatusParams struct {
	ID     uuid.UUID
	Status string
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	row := q.db.QueryRow(ctx, updateOrderStatus, arg.ID, arg.Status)
	var o Order
	err := row.Scan(&o.ID, &o.OrderType, &o.TableNumber, &o.CustomerName, &o.Status, &o.TotalAmount, &o.EditCount, &o.IsPaid, &o.PaidAt, &o.CreatedAt)
	return o, err
}

const applyOrderEdit = `
UPDATE orders
SET total_amount = total_amount + $2, edit_count = $3, status = $4
WHERE id = $1
RETURNING id, order_type, table_number, customer_name, status, total_amount, edit_count, is_paid, paid_at, created_at
`

type ApplyOrderEditParams struct {
	ID          uuid.UUID
	AddedAmount pgtype.Numeric
	EditCount   int32
	Status      string
}

func (q *Queries) ApplyOrderEdit(ctx context.Context, arg ApplyOrderEditParams) (Order, error) {
	row := q.db.QueryRow(ctx, applyOrderEdit, arg.ID, arg.AddedAmount, arg.EditCount, arg.Status)
	var o Order
	err := row.Scan(&o.ID, &o.OrderType, &o.TableNumber, &o.CustomerName, &o.Status, &o.TotalAmount, &o.EditCount, &o.IsPaid, &o.PaidAt, &o.CreatedAt)
	return o, err
}

const markOrderPaid = `
UPDATE orders
SET is_paid = TRUE, paid_at = $2, status = $3
WHERE id = $1
RETURNING id, order_type, table_number, customer_name, status, total_amount, edit_count, is_paid, paid_at, created_at
`

type MarkOrderPaidParams struct {
	ID     uuid.UUID
	PaidAt pgtype.Timestamptz
	Status string
}

func (q *Queries) MarkOrderPaid(ctx context.Context, arg MarkOrderPaidParams) (Order, error) {
	row := q.db.QueryRow(ctx, markOrderPaid, arg.ID, arg.PaidAt, arg.Status)
	var o Order
	err := row.Scan(&o.ID, &o.OrderType, &o.TableNumber, &o.CustomerName, &o.Status, &o.TotalAmount, &o.EditCount, &o.IsPaid, &o.PaidAt, &o.CreatedAt)
	return o, err
}

const countOrders = `
SELECT COUNT(*)
FROM orders
WHERE created_at::date BETWEEN $1 AND $2
`

type CountOrdersParams struct {
	StartDate pgtype.Date
	EndDate   pgtype.Date
}

func (q *Queries) CountOrders(ctx context.Context, arg CountOrdersParams) (int64, error) {
	row := q.db.QueryRow(ctx, countOrders, arg.StartDate, arg.EndDate)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countLiveOrders = `
SELECT COUNT(*)
FROM orders
WHERE created_at::date BETWEEN $1 AND $2
  AND status NOT IN ('Paid', 'Served')
`

type CountLiveOrdersParams struct {
	StartDate pgtype.Date
	EndDate   pgtype.Date
}

func (q *Queries) CountLiveOrders(ctx context.Context, arg CountLiveOrdersParams) (int64, error) {
	row := q.db.QueryRow(ctx, countLiveOrders, arg.StartDate, arg.EndDate)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createOrderItem = `
INSERT INTO order_items (order_id, menu_item_id, quantity, price_at_time, added_after_edit)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, order_id, menu_item_id, quantity, price_at_time, added_after_edit
`

type CreateOrderItemParams struct {
	OrderID        uuid.UUID
	MenuItemID     uuid.UUID
	Quantity       int32
	PriceAtTime    pgtype.Numeric
	AddedAfterEdit int32
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, createOrderItem, arg.OrderID, arg.MenuItemID, arg.Quantity, arg.PriceAtTime, arg.AddedAfterEdit)
	var i OrderItem
	err := row.Scan(&i.ID, &i.OrderID, &i.MenuItemID, &i.Quantity, &i.PriceAtTime, &i.AddedAfterEdit)
	return i, err
}

const listOrderItemsByOrder = `
SELECT id, order_id, menu_item_id, quantity, price_at_time, added_after_edit
FROM order_items
WHERE order_id = $1
ORDER BY id
`

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItem
	for rows.Next() {
		var i OrderItem
		if err := rows.Scan(&i.ID, &i.OrderID, &i.MenuItemID, &i.Quantity, &i.PriceAtTime, &i.AddedAfterEdit); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listOrderItemsDetail = `
SELECT oi.id, oi.order_id, oi.menu_item_id, mi.name, oi.quantity, oi.price_at_time, oi.added_after_edit
FROM order_items oi
JOIN menu_items mi ON mi.id = oi.menu_item_id
WHERE oi.order_id = $1
ORDER BY oi.id
`

type ListOrderItemsDetailRow struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	MenuItemID     uuid.UUID
	Name           string
	Quantity       int32
	PriceAtTime    pgtype.Numeric
	AddedAfterEdit int32
}

func (q *Queries) ListOrderItemsDetail(ctx context.Context, orderID uuid.UUID) ([]ListOrderItemsDetailRow, error) {
	rows, err := q.db.Query(ctx, listOrderItemsDetail, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListOrderItemsDetailRow
	for rows.Next() {
		var i ListOrderItemsDetailRow
		if err := rows.Scan(&i.ID, &i.OrderID, &i.MenuItemID, &i.Name, &i.Quantity, &i.PriceAtTime, &i.AddedAfterEdit); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getOrderItemByMenuItem = `
SELECT id, order_id, menu_item_id, quantity, price_at_time, added_after_edit
FROM order_items
WHERE order_id = $1 AND menu_item_id = $2
`

type GetOrderItemByMenuItemParams struct {
	OrderID    uuid.UUID
	MenuItemID uuid.UUID
}

func (q *Queries) GetOrderItemByMenuItem(ctx context.Context, arg GetOrderItemByMenuItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, getOrderItemByMenuItem, arg.OrderID, arg.MenuItemID)
	var i OrderItem
	err := row.Scan(&i.ID, &i.OrderID, &i.MenuItemID, &i.Quantity, &i.PriceAtTime, &i.AddedAfterEdit)
	return i, err
}

const addOrderItemQuantity = `
UPDATE order_items
SET quantity = quantity + $2
WHERE id = $1
RETURNING id, order_id, menu_item_id, quantity, price_at_time, added_after_edit
`

type AddOrderItemQuantityParams struct {
	ID       uuid.UUID
	Quantity int32
}

func (q *Queries) AddOrderItemQuantity(ctx context.Context, arg AddOrderItemQuantityParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, addOrderItemQuantity, arg.ID, arg.Quantity)
	var i OrderItem
	err := row.Scan(&i.ID, &i.OrderID, &i.MenuItemID, &i.Quantity, &i.PriceAtTime, &i.AddedAfterEdit)
	return i, err
}
