package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createBill = `
INSERT INTO bills (order_id, total_items, gst, service_charge, grand_total, payment_mode)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, order_id, total_items, gst, service_charge, grand_total, payment_mode, generated_at
`

type CreateBillParams struct {
	OrderID       uuid.UUID
	TotalItems    pgtype.Numeric
	Gst           pgtype.Numeric
	ServiceCharge pgtype.Numeric
	GrandTotal    pgtype.Numeric
	PaymentMode   string
}

func (q *Queries) CreateBill(ctx context.Context, arg CreateBillParams) (Bill, error) {
	row := q.db.QueryRow(ctx, createBill,
		arg.OrderID, arg.TotalItems, arg.Gst, arg.ServiceCharge, arg.GrandTotal, arg.PaymentMode)
	var b Bill
	err := row.Scan(&b.ID, &b.OrderID, &b.TotalItems, &b.Gst, &b.ServiceCharge, &b.GrandTotal, &b.PaymentMode, &b.GeneratedAt)
	return b, err
}

const getBill = `
SELECT id, order_id, total_items, gst, service_charge, grand_total, payment_mode, generated_at
FROM bills
WHERE id = $1
`

func (q *Queries) GetBill(ctx context.Context, id uuid.UUID) (Bill, error) {
	row := q.db.QueryRow(ctx, getBill, id)
	var b Bill
	err := row.Scan(&b.ID, &b.OrderID, &b.TotalItems, &b.Gst, &b.ServiceCharge, &b.GrandTotal, &b.PaymentMode, &b.GeneratedAt)
	return b, err
}

const getBillByOrder = `
SELECT id, order_id, total_items, gst, service_charge, grand_total, payment_mode, generated_at
FROM bills
WHERE order_id = $1
`

func (q *Queries) GetBillByOrder(ctx context.Context, orderID uuid.UUID) (Bill, error) {
	row := q.db.QueryRow(ctx, getBillByOrder, orderID)
	var b Bill
	err := row.Scan(&b.ID, &b.OrderID, &b.TotalItems, &b.Gst, &b.ServiceCharge, &b.GrandTotal, &b.PaymentMode, &b.GeneratedAt)
	return b, err
}

const listBills = `
SELECT id, order_id, total_items, gst, service_charge, grand_total, payment_mode, generated_at
FROM bills
WHERE generated_at::date BETWEEN $1 AND $2
ORDER BY generated_at
`

type ListBillsParams struct {
	StartDate pgtype.Date
	EndDate   pgtype.Date
}

func (q *Queries) ListBills(ctx context.Context, arg ListBillsParams) ([]Bill, error) {
	rows, err := q.db.Query(ctx, listBills, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Bill
	for rows.Next() {
		var b Bill
		if err := rows.Scan(&b.ID, &b.OrderID, &b.TotalItems, &b.Gst, &b.ServiceCharge, &b.GrandTotal, &b.PaymentMode, &b.GeneratedAt); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

const listRecentBills = `
SELECT id, order_id, total_items, gst, service_charge, grand_total, payment_mode, generated_at
FROM bills
WHERE generated_at::date BETWEEN $1 AND $2
ORDER BY generated_at DESC
LIMIT $3
`

type ListRecentBillsParams struct {
	StartDate pgtype.Date
	EndDate   pgtype.Date
	Limit     int32
}

func (q *Queries) ListRecentBills(ctx context.Context, arg ListRecentBillsParams) ([]Bill, error) {
	rows, err := q.db.Query(ctx, listRecentBills, arg.StartDate, arg.EndDate, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Bill
	for rows.Next() {
		var b Bill
		if err := rows.Scan(&b.ID, &b.OrderID, &b.TotalItems, &b.Gst, &b.ServiceCharge, &b.GrandTotal, &b.PaymentMode, &b.GeneratedAt); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

const getRevenueByMode = `
SELECT payment_mode, COALESCE(SUM(grand_total), 0) AS total_revenue
FROM bills
WHERE generated_at::date BETWEEN $1 AND $2
GROUP BY payment_mode
`

type GetRevenueByModeParams struct {
	StartDate pgtype.Date
	EndDate   pgtype.Date
}

type GetRevenueByModeRow struct {
	PaymentMode  string
	TotalRevenue pgtype.Numeric
}

func (q *Queries) GetRevenueByMode(ctx context.Context, arg GetRevenueByModeParams) ([]GetRevenueByModeRow, error) {
	rows, err := q.db.Query(ctx, getRevenueByMode, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetRevenueByModeRow
	for rows.Next() {
		var r GetRevenueByModeRow
		if err := rows.Scan(&r.PaymentMode, &r.TotalRevenue); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
