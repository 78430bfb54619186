package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/atithi-pos/api/internal/database"
	"github.com/atithi-pos/api/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// --- Mock store ---

type mockAttendanceStore struct {
	employees map[uuid.UUID]database.Employee
	records   []database.Attendance
}

func newMockAttendanceStore() *mockAttendanceStore {
	return &mockAttendanceStore{employees: make(map[uuid.UUID]database.Employee)}
}

func (m *mockAttendanceStore) GetEmployee(_ context.Context, id uuid.UUID) (database.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return database.Employee{}, pgx.ErrNoRows
	}
	return e, nil
}

func (m *mockAttendanceStore) CreateAttendance(_ context.Context, arg database.CreateAttendanceParams) (database.Attendance, error) {
	// Simulates the PostgreSQL unique constraint on (employee_id, date)
	for _, r := range m.records {
		if r.EmployeeID == arg.EmployeeID && r.Date.Time.Equal(arg.Date.Time) {
			return database.Attendance{}, &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
		}
	}
	a := database.Attendance{
		ID:         uuid.New(),
		EmployeeID: arg.EmployeeID,
		Date:       arg.Date,
		Status:     arg.Status,
	}
	m.records = append(m.records, a)
	return a, nil
}

func (m *mockAttendanceStore) ListAttendanceByEmployee(_ context.Context, employeeID uuid.UUID) ([]database.Attendance, error) {
	var result []database.Attendance
	for _, r := range m.records {
		if r.EmployeeID == employeeID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockAttendanceStore) ListAttendanceInRange(_ context.Context, arg database.ListAttendanceInRangeParams) ([]database.Attendance, error) {
	var result []database.Attendance
	for _, r := range m.records {
		if r.EmployeeID != arg.EmployeeID {
			continue
		}
		if r.Date.Time.Before(arg.StartDate.Time) || r.Date.Time.After(arg.EndDate.Time) {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func (m *mockAttendanceStore) addEmployee(name, salary string) database.Employee {
	var sal pgtype.Numeric
	_ = sal.Scan(salary)
	e := database.Employee{
		ID:        uuid.New(),
		Name:      name,
		Age:       30,
		Salary:    sal,
		Role:      "Chef",
		HireDate:  pgtype.Date{Time: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Valid: true},
		CreatedAt: time.Now(),
	}
	m.employees[e.ID] = e
	return e
}

func (m *mockAttendanceStore) markDays(employeeID uuid.UUID, year int, month time.Month, status string, days ...int) {
	for _, day := range days {
		m.records = append(m.records, database.Attendance{
			ID:         uuid.New(),
			EmployeeID: employeeID,
			Date:       pgtype.Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Valid: true},
			Status:     status,
		})
	}
}

// --- Helpers ---

func setupAttendanceRouter(store *mockAttendanceStore) *chi.Mux {
	h := handler.NewAttendanceHandler(store)
	r := chi.NewRouter()
	r.Route("/employees", h.RegisterRoutes)
	return r
}

func daysInRange(from, to int) []int {
	days := make([]int, 0, to-from+1)
	for d := from; d <= to; d++ {
		days = append(days, d)
	}
	return days
}

// --- Mark tests ---

func TestAttendanceMark_Valid(t *testing.T) {
	store := newMockAttendanceStore()
	e := store.addEmployee("Asha", "20000")
	router := setupAttendanceRouter(store)

	rr := doRequest(t, router, "POST", "/employees/"+e.ID.String()+"/attendance", map[string]interface{}{
		"date":   "2026-08-15",
		"status": "Present",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["status"] != "Present" {
		t.Errorf("status: got %v, want Present", resp["status"])
	}
	if resp["date"] != "2026-08-15" {
		t.Errorf("date: got %v, want 2026-08-15", resp["date"])
	}
}

func TestAttendanceMark_DefaultsToToday(t *testing.T) {
	store := newMockAttendanceStore()
	e := store.addEmployee("Asha", "20000")
	router := setupAttendanceRouter(store)

	rr := doRequest(t, router, "POST", "/employees/"+e.ID.String()+"/attendance", map[string]interface{}{
		"status": "Half Day",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["date"] != time.Now().Format("2006-01-02") {
		t.Errorf("date: got %v, want today", resp["date"])
	}
}

func TestAttendanceMark_DuplicateDate(t *testing.T) {
	store := newMockAttendanceStore()
	e := store.addEmployee("Asha", "20000")
	router := setupAttendanceRouter(store)

	body := map[string]interface{}{"date": "2026-08-15", "status": "Present"}
	doRequest(t, router, "POST", "/employees/"+e.ID.String()+"/attendance", body)

	// Second mark for the same date must be rejected, not overwritten
	body["status"] = "Absent"
	rr := doRequest(t, router, "POST", "/employees/"+e.ID.String()+"/attendance", body)

	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusConflict, rr.Body.String())
	}
	if store.records[0].Status != "Present" {
		t.Errorf("original record status: got %s, want Present (must not be overwritten)", store.records[0].Status)
	}
}

func TestAttendanceMark_InvalidStatus(t *testing.T) {
	store := newMockAttendanceStore()
	e := store.addEmployee("Asha", "20000")
	router := setupAttendanceRouter(store)

	rr := doRequest(t, router, "POST", "/employees/"+e.ID.String()+"/attendance", map[string]interface{}{
		"status": "Late",
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestAttendanceMark_UnknownEmployee(t *testing.T) {
	store := newMockAttendanceStore()
	router := setupAttendanceRouter(store)

	rr := doRequest(t, router, "POST", "/employees/"+uuid.NewString()+"/attendance", map[string]interface{}{
		"status": "Present",
	})

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

// --- List tests ---

func TestAttendanceList(t *testing.T) {
	store := newMockAttendanceStore()
	e := store.addEmployee("Asha", "20000")
	other := store.addEmployee("Vikram", "25000")
	store.markDays(e.ID, 2026, time.August, "Present", 1, 2, 3)
	store.markDays(other.ID, 2026, time.August, "Present", 1)
	router := setupAttendanceRouter(store)

	rr := doRequest(t, router, "GET", "/employees/"+e.ID.String()+"/attendance", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeListResponse(t, rr)
	if len(resp) != 3 {
		t.Errorf("expected 3 records, got %d", len(resp))
	}
}

// --- Salary summary tests ---

func TestSalarySummary_ThirtyDayMonth(t *testing.T) {
	store := newMockAttendanceStore()
	e := store.addEmployee("Asha", "30000")
	// 20 full days, 4 half days, 2 absences
	store.markDays(e.ID, 2026, time.July, "Present", daysInRange(1, 20)...)
	store.markDays(e.ID, 2026, time.July, "Half Day", 21, 22, 23, 24)
	store.markDays(e.ID, 2026, time.July, "Absent", 25, 26)
	router := setupAttendanceRouter(store)

	rr := doRequest(t, router, "GET", "/employees/"+e.ID.String()+"/salary?month=2026-07", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["present_days"] != float64(20) {
		t.Errorf("present_days: got %v, want 20", resp["present_days"])
	}
	if resp["half_days"] != float64(4) {
		t.Errorf("half_days: got %v, want 4", resp["half_days"])
	}
	if resp["absent_days"] != float64(2) {
		t.Errorf("absent_days: got %v, want 2", resp["absent_days"])
	}
	if resp["worked_days"] != "22.0" {
		t.Errorf("worked_days: got %v, want 22.0", resp["worked_days"])
	}
	// (20 + 4/2) * (30000 / 30) = 22 * 1000
	if resp["salary_payable"] != "22000.00" {
		t.Errorf("salary_payable: got %v, want 22000.00", resp["salary_payable"])
	}
}

func TestSalarySummary_NoAttendance(t *testing.T) {
	store := newMockAttendanceStore()
	e := store.addEmployee("Asha", "30000")
	router := setupAttendanceRouter(store)

	rr := doRequest(t, router, "GET", "/employees/"+e.ID.String()+"/salary?month=2026-07", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeResponse(t, rr)
	if resp["salary_payable"] != "0.00" {
		t.Errorf("salary_payable: got %v, want 0.00", resp["salary_payable"])
	}
}

func TestSalarySummary_IgnoresOtherMonths(t *testing.T) {
	store := newMockAttendanceStore()
	e := store.addEmployee("Asha", "30000")
	store.markDays(e.ID, 2026, time.June, "Present", daysInRange(1, 30)...)
	store.markDays(e.ID, 2026, time.July, "Present", 1)
	router := setupAttendanceRouter(store)

	rr := doRequest(t, router, "GET", "/employees/"+e.ID.String()+"/salary?month=2026-07", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeResponse(t, rr)
	if resp["present_days"] != float64(1) {
		t.Errorf("present_days: got %v, want 1 (June records must not leak in)", resp["present_days"])
	}
	if resp["salary_payable"] != "1000.00" {
		t.Errorf("salary_payable: got %v, want 1000.00", resp["salary_payable"])
	}
}

func TestSalarySummary_InvalidMonth(t *testing.T) {
	store := newMockAttendanceStore()
	e := store.addEmployee("Asha", "30000")
	router := setupAttendanceRouter(store)

	rr := doRequest(t, router, "GET", "/employees/"+e.ID.String()+"/salary?month=July", nil)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSalarySummary_UnknownEmployee(t *testing.T) {
	store := newMockAttendanceStore()
	router := setupAttendanceRouter(store)

	rr := doRequest(t, router, "GET", "/employees/"+uuid.NewString()+"/salary?month=2026-07", nil)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
