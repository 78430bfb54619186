package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createInventoryItem = `
INSERT INTO inventory_items (name, category, quantity_with_unit, status)
VALUES ($1, $2, $3, $4)
RETURNING id, name, category, quantity_with_unit, status, created_at
`

type CreateInventoryItemParams struct {
	Name             string
	Category         string
	QuantityWithUnit string
	Status           string
}

func (q *Queries) CreateInventoryItem(ctx context.Context, arg CreateInventoryItemParams) (InventoryItem, error) {
	row := q.db.QueryRow(ctx, createInventoryItem, arg.Name, arg.Category, arg.QuantityWithUnit, arg.Status)
	var i InventoryItem
	err := row.Scan(&i.ID, &i.Name, &i.Category, &i.QuantityWithUnit, &i.Status, &i.CreatedAt)
	return i, err
}

const getInventoryItem = `
SELECT id, name, category, quantity_with_unit, status, created_at
FROM inventory_items
WHERE id = $1
`

func (q *Queries) GetInventoryItem(ctx context.Context, id uuid.UUID) (InventoryItem, error) {
	row := q.db.QueryRow(ctx, getInventoryItem, id)
	var i InventoryItem
	err := row.Scan(&i.ID, &i.Name, &i.Category, &i.QuantityWithUnit, &i.Status, &i.CreatedAt)
	return i, err
}

const listInventoryItems = `
SELECT id, name, category, quantity_with_unit, status, created_at
FROM inventory_items
ORDER BY created_at DESC
`

func (q *Queries) ListInventoryItems(ctx context.Context) ([]InventoryItem, error) {
	rows, err := q.db.Query(ctx, listInventoryItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []InventoryItem
	for rows.Next() {
		var i InventoryItem
		if err := rows.Scan(&i.ID, &i.Name, &i.Category, &i.QuantityWithUnit, &i.Status, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const appendInventoryQuantity = `
UPDATE inventory_items
SET quantity_with_unit = quantity_with_unit || ' + ' || $2
WHERE id = $1
RETURNING id, name, category, quantity_with_unit, status, created_at
`

type AppendInventoryQuantityParams struct {
	ID               uuid.UUID
	QuantityWithUnit string
}

func (q *Queries) AppendInventoryQuantity(ctx context.Context, arg AppendInventoryQuantityParams) (InventoryItem, error) {
	row := q.db.QueryRow(ctx, appendInventoryQuantity, arg.ID, arg.QuantityWithUnit)
	var i InventoryItem
	err := row.Scan(&i.ID, &i.Name, &i.Category, &i.QuantityWithUnit, &i.Status, &i.CreatedAt)
	return i, err
}

const updateInventoryStatus = `
UPDATE inventory_items
SET status = $2
WHERE id = $1
RETURNING id, name, category, quantity_with_unit, status, created_at
`

type UpdateInventoryStatusParams struct {
	ID     uuid.UUID
	Status string
}

func (q *Queries) UpdateInventoryStatus(ctx context.Context, arg UpdateInventoryStatusParams) (InventoryItem, error) {
	row := q.db.QueryRow(ctx, updateInventoryStatus, arg.ID, arg.Status)
	var i InventoryItem
	err := row.Scan(&i.ID, &i.Name, &i.Category, &i.QuantityWithUnit, &i.Status, &i.CreatedAt)
	return i, err
}

const createExpense = `
INSERT INTO expenses (item_id, added_quantity_with_unit, payment_amount, payment_mode)
VALUES ($1, $2, $3, $4)
RETURNING id, item_id, added_quantity_with_unit, payment_amount, payment_mode, date
`

type CreateExpenseParams struct {
	ItemID                uuid.UUID
	AddedQuantityWithUnit string
	PaymentAmount         pgtype.Numeric
	PaymentMode           string
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (Expense, error) {
	row := q.db.QueryRow(ctx, createExpense, arg.ItemID, arg.AddedQuantityWithUnit, arg.PaymentAmount, arg.PaymentMode)
	var e Expense
	err := row.Scan(&e.ID, &e.ItemID, &e.AddedQuantityWithUnit, &e.PaymentAmount, &e.PaymentMode, &e.Date)
	return e, err
}

const listExpensesByItem = `
SELECT id, item_id, added_quantity_with_unit, payment_amount, payment_mode, date
FROM expenses
WHERE item_id = $1
ORDER BY date DESC
`

func (q *Queries) ListExpensesByItem(ctx context.Context, itemID uuid.UUID) ([]Expense, error) {
	rows, err := q.db.Query(ctx, listExpensesByItem, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.ItemID, &e.AddedQuantityWithUnit, &e.PaymentAmount, &e.PaymentMode, &e.Date); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

const listRecentExpenses = `
SELECT id, item_id, added_quantity_with_unit, payment_amount, payment_mode, date
FROM expenses
ORDER BY date DESC
LIMIT $1
`

func (q *Queries) ListRecentExpenses(ctx context.Context, limit int32) ([]Expense, error) {
	rows, err := q.db.Query(ctx, listRecentExpenses, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.ItemID, &e.AddedQuantityWithUnit, &e.PaymentAmount, &e.PaymentMode, &e.Date); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

const sumExpensesInRange = `
SELECT COALESCE(SUM(payment_amount), 0)
FROM expenses
WHERE date::date BETWEEN $1 AND $2
`

type SumExpensesInRangeParams struct {
	StartDate pgtype.Date
	EndDate   pgtype.Date
}

func (q *Queries) SumExpensesInRange(ctx context.Context, arg SumExpensesInRangeParams) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumExpensesInRange, arg.StartDate, arg.EndDate)
	var total pgtype.Numeric
	err := row.Scan(&total)
	return total, err
}

const sumExpensesByItem = `
SELECT COALESCE(SUM(payment_amount), 0)
FROM expenses
WHERE item_id = $1
`

func (q *Queries) SumExpensesByItem(ctx context.Context, itemID uuid.UUID) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumExpensesByItem, itemID)
	var total pgtype.Numeric
	err := row.Scan(&total)
	return total, err
}
