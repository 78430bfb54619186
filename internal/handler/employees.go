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

// EmployeeStore defines the database methods needed by employee handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type EmployeeStore interface {
	ListEmployees(ctx context.Context) ([]database.Employee, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (database.Employee, error)
	CreateEmployee(ctx context.Context, arg database.CreateEmployeeParams) (database.Employee, error)
	UpdateEmployee(ctx context.Context, arg database.UpdateEmployeeParams) (database.Employee, error)
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
}

// EmployeeHandler handles the staff registry endpoints.
type EmployeeHandler struct {
	store EmployeeStore
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(store EmployeeStore) *EmployeeHandler {
	return &EmployeeHandler{store: store}
}

// RegisterRoutes registers employee CRUD endpoints on the given Chi router.
func (h *EmployeeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
}

// RegisterAdminRoutes registers the destructive employee endpoints.
func (h *EmployeeHandler) RegisterAdminRoutes(r chi.Router) {
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type employeeRequest struct {
	Name       string `json:"name"`
	Age        int32  `json:"age"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	AadhaarNo  string `json:"aadhaar_no"`
	Salary     string `json:"salary"`
	Role       string `json:"role"`
	HireDate   string `json:"hire_date"`
	ResignDate string `json:"resign_date"`
}

type employeeResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Age        int32     `json:"age"`
	Phone      *string   `json:"phone"`
	Address    *string   `json:"address"`
	AadhaarNo  *string   `json:"aadhaar_no"`
	Salary     string    `json:"salary"`
	Role       string    `json:"role"`
	HireDate   string    `json:"hire_date"`
	ResignDate *string   `json:"resign_date"`
	CreatedAt  time.Time `json:"created_at"`
}

func toEmployeeResponse(e database.Employee) employeeResponse {
	resp := employeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		Age:       e.Age,
		Salary:    numericToString(e.Salary),
		Role:      e.Role,
		CreatedAt: e.CreatedAt,
	}
	if e.Phone.Valid {
		resp.Phone = &e.Phone.String
	}
	if e.Address.Valid {
		resp.Address = &e.Address.String
	}
	if e.AadhaarNo.Valid {
		resp.AadhaarNo = &e.AadhaarNo.String
	}
	if e.HireDate.Valid {
		resp.HireDate = e.HireDate.Time.Format("2006-01-02")
	}
	if e.ResignDate.Valid {
		s := e.ResignDate.Time.Format("2006-01-02")
		resp.ResignDate = &s
	}
	return resp
}

// parseEmployeeRequest validates the request and converts it to DB params.
func parseEmployeeRequest(req employeeRequest) (database.CreateEmployeeParams, string) {
	if req.Name == "" {
		return database.CreateEmployeeParams{}, "name is required"
	}
	if req.Age < 18 {
		return database.CreateEmployeeParams{}, "age must be at least 18"
	}
	salary, err := decimal.NewFromString(req.Salary)
	if err != nil || !salary.IsPositive() {
		return database.CreateEmployeeParams{}, "salary must be a positive amount"
	}
	role := enum.CanonicalRole(req.Role)
	if role == "" {
		return database.CreateEmployeeParams{}, "invalid role"
	}
	if req.HireDate == "" {
		return database.CreateEmployeeParams{}, "hire_date is required"
	}
	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		return database.CreateEmployeeParams{}, "invalid hire_date format, expected YYYY-MM-DD"
	}

	params := database.CreateEmployeeParams{
		Name:     req.Name,
		Age:      req.Age,
		Salary:   decimalToNumeric(salary),
		Role:     role,
		HireDate: pgtype.Date{Time: hireDate, Valid: true},
	}
	if req.Phone != "" {
		params.Phone = pgtype.Text{String: req.Phone, Valid: true}
	}
	if req.Address != "" {
		params.Address = pgtype.Text{String: req.Address, Valid: true}
	}
	if req.AadhaarNo != "" {
		params.AadhaarNo = pgtype.Text{String: req.AadhaarNo, Valid: true}
	}
	if req.ResignDate != "" {
		resignDate, err := time.Parse("2006-01-02", req.ResignDate)
		if err != nil {
			return database.CreateEmployeeParams{}, "invalid resign_date format, expected YYYY-MM-DD"
		}
		if resignDate.Before(hireDate) {
			return database.CreateEmployeeParams{}, "resign_date cannot be before hire_date"
		}
		params.ResignDate = pgtype.Date{Time: resignDate, Valid: true}
	}
	return params, ""
}

// --- Handlers ---

// List returns all employees ordered by name.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.store.ListEmployees(r.Context())
	if err != nil {
		log.Printf("ERROR: list employees: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]employeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = toEmployeeResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single employee.
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid employee ID"})
		return
	}

	employee, err := h.store.GetEmployee(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "employee not found"})
			return
		}
		log.Printf("ERROR: get employee: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toEmployeeResponse(employee))
}

// Create registers a new employee.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	params, msg := parseEmployeeRequest(req)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	employee, err := h.store.CreateEmployee(r.Context(), params)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "an employee with this Aadhaar number already exists"})
			return
		}
		log.Printf("ERROR: create employee: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toEmployeeResponse(employee))
}

// Update modifies an existing employee.
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid employee ID"})
		return
	}

	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	params, msg := parseEmployeeRequest(req)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	employee, err := h.store.UpdateEmployee(r.Context(), database.UpdateEmployeeParams{
		ID:         id,
		Name:       params.Name,
		Age:        params.Age,
		Phone:      params.Phone,
		Address:    params.Address,
		AadhaarNo:  params.AadhaarNo,
		Salary:     params.Salary,
		Role:       params.Role,
		HireDate:   params.HireDate,
		ResignDate: params.ResignDate,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "employee not found"})
			return
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "an employee with this Aadhaar number already exists"})
			return
		}
		log.Printf("ERROR: update employee: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toEmployeeResponse(employee))
}

// Delete removes an employee and, via the schema, their attendance records.
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid employee ID"})
		return
	}

	if err := h.store.DeleteEmployee(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "employee not found"})
			return
		}
		log.Printf("ERROR: delete employee: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
