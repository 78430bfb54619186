package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createFinanceTransaction = `
INSERT INTO finance_transactions (type, amount, description, bill_id)
VALUES ($1, $2, $3, $4)
RETURNING id, type, amount, description, bill_id, date
`

type CreateFinanceTransactionParams struct {
	Type        string
	Amount      pgtype.Numeric
	Description pgtype.Text
	BillID      pgtype.UUID
}

func (q *Queries) CreateFinanceTransaction(ctx context.Context, arg CreateFinanceTransactionParams) (FinanceTransaction, error) {
	row := q.db.QueryRow(ctx, createFinanceTransaction, arg.Type, arg.Amount, arg.Description, arg.BillID)
	var t FinanceTransaction
	err := row.Scan(&t.ID, &t.Type, &t.Amount, &t.Description, &t.BillID, &t.Date)
	return t, err
}

const getFinanceTransaction = `
SELECT id, type, amount, description, bill_id, date
FROM finance_transactions
WHERE id = $1
`

func (q *Queries) GetFinanceTransaction(ctx context.Context, id uuid.UUID) (FinanceTransaction, error) {
	row := q.db.QueryRow(ctx, getFinanceTransaction, id)
	var t FinanceTransaction
	err := row.Scan(&t.ID, &t.Type, &t.Amount, &t.Description, &t.BillID, &t.Date)
	return t, err
}

const listFinanceTransactions = `
SELECT id, type, amount, description, bill_id, date
FROM finance_transactions
WHERE date::date BETWEEN $1 AND $2
ORDER BY date DESC
`

type ListFinanceTransactionsParams struct {
	StartDate pgtype.Date
	EndDate   pgtype.Date
}

func (q *Queries) ListFinanceTransactions(ctx context.Context, arg ListFinanceTransactionsParams) ([]FinanceTransaction, error) {
	rows, err := q.db.Query(ctx, listFinanceTransactions, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FinanceTransaction
	for rows.Next() {
		var t FinanceTransaction
		if err := rows.Scan(&t.ID, &t.Type, &t.Amount, &t.Description, &t.BillID, &t.Date); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}
