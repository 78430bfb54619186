package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const listEmployees = `
SELECT id, name, age, phone, address, aadhaar_no, salary, role, hire_date, resign_date, created_at
FROM employees
ORDER BY name
`

func (q *Queries) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := q.db.Query(ctx, listEmployees)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Age, &e.Phone, &e.Address, &e.AadhaarNo, &e.Salary, &e.Role, &e.HireDate, &e.ResignDate, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

const getEmployee = `
SELECT id, name, age, phone, address, aadhaar_no, salary, role, hire_date, resign_date, created_at
FROM employees
WHERE id = $1
`

func (q *Queries) GetEmployee(ctx context.Context, id uuid.UUID) (Employee, error) {
	row := q.db.QueryRow(ctx, getEmployee, id)
	var e Employee
	err := row.Scan(&e.ID, &e.Name, &e.Age, &e.Phone, &e.Address, &e.AadhaarNo, &e.Salary, &e.Role, &e.HireDate, &e.ResignDate, &e.CreatedAt)
	return e, err
}

const createEmployee = `
INSERT INTO employees (name, age, phone, address, aadhaar_no, salary, role, hire_date, resign_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, name, age, phone, address, aadhaar_no, salary, role, hire_date, resign_date, created_at
`

type CreateEmployeeParams struct {
	Name       string
	Age        int32
	Phone      pgtype.Text
	Address    pgtype.Text
	AadhaarNo  pgtype.Text
	Salary     pgtype.Numeric
	Role       string
	HireDate   pgtype.Date
	ResignDate pgtype.Date
}

func (q *Queries) CreateEmployee(ctx context.Context, arg CreateEmployeeParams) (Employee, error) {
	row := q.db.QueryRow(ctx, createEmployee,
		arg.Name, arg.Age, arg.Phone, arg.Address, arg.AadhaarNo,
		arg.Salary, arg.Role, arg.HireDate, arg.ResignDate)
	var e Employee
	err := row.Scan(&e.ID, &e.Name, &e.Age, &e.Phone, &e.Address, &e.AadhaarNo, &e.Salary, &e.Role, &e.HireDate, &e.ResignDate, &e.CreatedAt)
	return e, err
}

const updateEmployee = `
UPDATE employees
SET name = $2, age = $3, phone = $4, address = $5, aadhaar_no = $6,
    salary = $7, role = $8, hire_date = $9, resign_date = $10
WHERE id = $1
RETURNING id, name, age, phone, address, aadhaar_no, salary, role, hire_date, resign_date, created_at
`

type UpdateEmployeeParams struct {
	ID         uuid.UUID
	Name       string
	Age        int32
	Phone      pgtype.Text
	Address    pgtype.Text
	AadhaarNo  pgtype.Text
	Salary     pgtype.Numeric
	Role       string
	HireDate   pgtype.Date
	ResignDate pgtype.Date
}

func (q *Queries) UpdateEmployee(ctx context.Context, arg UpdateEmployeeParams) (Employee, error) {
	row := q.db.QueryRow(ctx, updateEmployee,
		arg.ID, arg.Name, arg.Age, arg.Phone, arg.Address, arg.AadhaarNo,
		arg.Salary, arg.Role, arg.HireDate, arg.ResignDate)
	var e Employee
	err := row.Scan(&e.ID, &e.Name, &e.Age, &e.Phone, &e.Address, &e.AadhaarNo, &e.Salary, &e.Role, &e.HireDate, &e.ResignDate, &e.CreatedAt)
	return e, err
}

const deleteEmployee = `
DELETE FROM employees
WHERE id = $1
`

// DeleteEmployee removes an employee; attendance rows cascade.
func (q *Queries) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	tag, err := q.db.Exec(ctx, deleteEmployee, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const countEmployees = `
SELECT COUNT(*) FROM employees
`

func (q *Queries) CountEmployees(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countEmployees)
	var count int64
	err := row.Scan(&count)
	return count, err
}
