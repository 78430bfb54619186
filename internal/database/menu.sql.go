package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const listCategories = `
SELECT id, name
FROM categories
ORDER BY name
`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.Query(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const getCategoryByName = `
SELECT id, name
FROM categories
WHERE name = $1
`

func (q *Queries) GetCategoryByName(ctx context.Context, name string) (Category, error) {
	row := q.db.QueryRow(ctx, getCategoryByName, name)
	var c Category
	err := row.Scan(&c.ID, &c.Name)
	return c, err
}

const createCategory = `
INSERT INTO categories (name)
VALUES ($1)
RETURNING id, name
`

func (q *Queries) CreateCategory(ctx context.Context, name string) (Category, error) {
	row := q.db.QueryRow(ctx, createCategory, name)
	var c Category
	err := row.Scan(&c.ID, &c.Name)
	return c, err
}

const listMenuItems = `
SELECT m.id, m.category_id, m.name, m.price, m.available, c.name AS category_name
FROM menu_items m
JOIN categories c ON c.id = m.category_id
ORDER BY c.name, m.name
`

type ListMenuItemsRow struct {
	ID           uuid.UUID
	CategoryID   uuid.UUID
	Name         string
	Price        pgtype.Numeric
	Available    bool
	CategoryName string
}

func (q *Queries) ListMenuItems(ctx context.Context) ([]ListMenuItemsRow, error) {
	rows, err := q.db.Query(ctx, listMenuItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListMenuItemsRow
	for rows.Next() {
		var m ListMenuItemsRow
		if err := rows.Scan(&m.ID, &m.CategoryID, &m.Name, &m.Price, &m.Available, &m.CategoryName); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

const getMenuItem = `
SELECT id, category_id, name, price, available
FROM menu_items
WHERE id = $1
`

func (q *Queries) GetMenuItem(ctx context.Context, id uuid.UUID) (MenuItem, error) {
	row := q.db.QueryRow(ctx, getMenuItem, id)
	var m MenuItem
	err := row.Scan(&m.ID, &m.CategoryID, &m.Name, &m.Price, &m.Available)
	return m, err
}

const createMenuItem = `
INSERT INTO menu_items (category_id, name, price, available)
VALUES ($1, $2, $3, $4)
RETURNING id, category_id, name, price, available
`

type CreateMenuItemParams struct {
	CategoryID uuid.UUID
	Name       string
	Price      pgtype.Numeric
	Available  bool
}

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, createMenuItem, arg.CategoryID, arg.Name, arg.Price, arg.Available)
	var m MenuItem
	err := row.Scan(&m.ID, &m.CategoryID, &m.Name, &m.Price, &m.Available)
	return m, err
}

const updateMenuItem = `
UPDATE menu_items
SET category_id = $2, name = $3, price = $4, available = $5
WHERE id = $1
RETURNING id, category_id, name, price, available
`

type UpdateMenuItemParams struct {
	ID         uuid.UUID
	CategoryID uuid.UUID
	Name       string
	Price      pgtype.Numeric
	Available  bool
}

func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, updateMenuItem, arg.ID, arg.CategoryID, arg.Name, arg.Price, arg.Available)
	var m MenuItem
	err := row.Scan(&m.ID, &m.CategoryID, &m.Name, &m.Price, &m.Available)
	return m, err
}

const deleteMenuItem = `
DELETE FROM menu_items
WHERE id = $1
`

func (q *Queries) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	tag, err := q.db.Exec(ctx, deleteMenuItem, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
