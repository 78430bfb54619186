package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/atithi-pos/api/internal/database"
	"github.com/atithi-pos/api/internal/enum"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// AttendanceStore defines the database methods needed by attendance handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type AttendanceStore interface {
	GetEmployee(ctx context.Context, id uuid.UUID) (database.Employee, error)
	CreateAttendance(ctx context.Context, arg database.CreateAttendanceParams) (database.Attendance, error)
	ListAttendanceByEmployee(ctx context.Context, employeeID uuid.UUID) ([]database.Attendance, error)
	ListAttendanceInRange(ctx context.Context, arg database.ListAttendanceInRangeParams) ([]database.Attendance, error)
}

// AttendanceHandler handles attendance marking and the monthly salary summary.
type AttendanceHandler struct {
	store AttendanceStore
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(store AttendanceStore) *AttendanceHandler {
	return &AttendanceHandler{store: store}
}

// RegisterRoutes registers attendance endpoints. Expected to be mounted
// inside the employees subrouter: /employees/{id}/...
func (h *AttendanceHandler) RegisterRoutes(r chi.Router) {
	r.Post("/{id}/attendance", h.Mark)
	r.Get("/{id}/attendance", h.List)
	r.Get("/{id}/salary", h.SalarySummary)
}

// --- Request / Response types ---

type markAttendanceRequest struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

type attendanceResponse struct {
	ID         uuid.UUID `json:"id"`
	EmployeeID uuid.UUID `json:"employee_id"`
	Date       string    `json:"date"`
	Status     string    `json:"status"`
}

type salarySummaryResponse struct {
	EmployeeID    uuid.UUID `json:"employee_id"`
	Name          string    `json:"name"`
	Month         string    `json:"month"`
	MonthlySalary string    `json:"monthly_salary"`
	PresentDays   int       `json:"present_days"`
	HalfDays      int       `json:"half_days"`
	AbsentDays    int       `json:"absent_days"`
	WorkedDays    string    `json:"worked_days"`
	SalaryPayable string    `json:"salary_payable"`
}

func toAttendanceResponse(a database.Attendance) attendanceResponse {
	resp := attendanceResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		Status:     a.Status,
	}
	if a.Date.Valid {
		resp.Date = a.Date.Time.Format("2006-01-02")
	}
	return resp
}

// --- Handlers ---

// Mark records one attendance entry for an employee. A second entry for the
// same employee and date is rejected, not overwritten.
func (h *AttendanceHandler) Mark(w http.ResponseWriter, r *http.Request) {
	employeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid employee ID"})
		return
	}

	var req markAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if !enum.IsValidAttendanceStatus(req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid attendance status"})
		return
	}

	date := time.Now()
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date format, expected YYYY-MM-DD"})
			return
		}
	}

	if _, err := h.store.GetEmployee(r.Context(), employeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "employee not found"})
			return
		}
		log.Printf("ERROR: get employee: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	attendance, err := h.store.CreateAttendance(r.Context(), database.CreateAttendanceParams{
		EmployeeID: employeeID,
		Date:       pgtype.Date{Time: date, Valid: true},
		Status:     req.Status,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "attendance already marked for this date"})
			return
		}
		log.Printf("ERROR: create attendance: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toAttendanceResponse(attendance))
}

// List returns all attendance records for an employee, newest first.
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	employeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid employee ID"})
		return
	}

	records, err := h.store.ListAttendanceByEmployee(r.Context(), employeeID)
	if err != nil {
		log.Printf("ERROR: list attendance: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]attendanceResponse, len(records))
	for i, a := range records {
		resp[i] = toAttendanceResponse(a)
	}
	writeJSON(w, http.StatusOK, resp)
}

// SalarySummary computes the payable salary for one calendar month from the
// attendance sheet. A month is always treated as 30 days: the daily rate is
// monthly salary / 30, a Half Day counts as half a worked day, and an Absent
// day earns nothing.
func (h *AttendanceHandler) SalarySummary(w http.ResponseWriter, r *http.Request) {
	employeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid employee ID"})
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	monthStart, err := time.Parse("2006-01", month)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid month format, expected YYYY-MM"})
		return
	}
	monthEnd := monthStart.AddDate(0, 1, -1)

	employee, err := h.store.GetEmployee(r.Context(), employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "employee not found"})
			return
		}
		log.Printf("ERROR: get employee: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	records, err := h.store.ListAttendanceInRange(r.Context(), database.ListAttendanceInRangeParams{
		EmployeeID: employeeID,
		StartDate:  pgtype.Date{Time: monthStart, Valid: true},
		EndDate:    pgtype.Date{Time: monthEnd, Valid: true},
	})
	if err != nil {
		log.Printf("ERROR: list attendance in range: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	var present, half, absent int
	for _, a := range records {
		switch a.Status {
		case enum.AttendanceStatusPresent:
			present++
		case enum.AttendanceStatusHalfDay:
			half++
		case enum.AttendanceStatusAbsent:
			absent++
		}
	}

	monthlySalary := numericToDecimal(employee.Salary)
	perDay := monthlySalary.Div(decimal.NewFromInt(30))
	worked := decimal.NewFromInt(int64(present)).Add(decimal.NewFromInt(int64(half)).Div(decimal.NewFromInt(2)))
	payable := worked.Mul(perDay)

	writeJSON(w, http.StatusOK, salarySummaryResponse{
		EmployeeID:    employee.ID,
		Name:          employee.Name,
		Month:         month,
		MonthlySalary: monthlySalary.StringFixed(2),
		PresentDays:   present,
		HalfDays:      half,
		AbsentDays:    absent,
		WorkedDays:    worked.StringFixed(1),
		SalaryPayable: payable.StringFixed(2),
	})
}
