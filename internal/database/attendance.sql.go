package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createAttendance = `
INSERT INTO attendance (employee_id, date, status)
VALUES ($1, $2, $3)
RETURNING id, employee_id, date, status
`

type CreateAttendanceParams struct {
	EmployeeID uuid.UUID
	Date       pgtype.Date
	Status     string
}

func (q *Queries) CreateAttendance(ctx context.Context, arg CreateAttendanceParams) (Attendance, error) {
	row := q.db.QueryRow(ctx, createAttendance, arg.EmployeeID, arg.Date, arg.Status)
	var a Attendance
	err := row.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.Status)
	return a, err
}

const getAttendanceByEmployeeAndDate = `
SELECT id, employee_id, date, status
FROM attendance
WHERE employee_id = $1 AND date = $2
`

type GetAttendanceByEmployeeAndDateParams struct {
	EmployeeID uuid.UUID
	Date       pgtype.Date
}

func (q *Queries) GetAttendanceByEmployeeAndDate(ctx context.Context, arg GetAttendanceByEmployeeAndDateParams) (Attendance, error) {
	row := q.db.QueryRow(ctx, getAttendanceByEmployeeAndDate, arg.EmployeeID, arg.Date)
	var a Attendance
	err := row.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.Status)
	return a, err
}

const listAttendanceByEmployee = `
SELECT id, employee_id, date, status
FROM attendance
WHERE employee_id = $1
ORDER BY date DESC
`

func (q *Queries) ListAttendanceByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Attendance, error) {
	rows, err := q.db.Query(ctx, listAttendanceByEmployee, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Attendance
	for rows.Next() {
		var a Attendance
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.Status); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

const listAttendanceInRange = `
SELECT id, employee_id, date, status
FROM attendance
WHERE employee_id = $1 AND date BETWEEN $2 AND $3
ORDER BY date
`

type ListAttendanceInRangeParams struct {
	EmployeeID uuid.UUID
	StartDate  pgtype.Date
	EndDate    pgtype.Date
}

func (q *Queries) ListAttendanceInRange(ctx context.Context, arg ListAttendanceInRangeParams) ([]Attendance, error) {
	rows, err := q.db.Query(ctx, listAttendanceInRange, arg.EmployeeID, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Attendance
	for rows.Next() {
		var a Attendance
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.Status); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
