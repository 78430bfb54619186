package router

import (
	"log"
	"net/http"

	"github.com/atithi-pos/api/internal/config"
	"github.com/atithi-pos/api/internal/database"
	"github.com/atithi-pos/api/internal/enum"
	"github.com/atithi-pos/api/internal/handler"
	mw "github.com/atithi-pos/api/internal/middleware"
	"github.com/atithi-pos/api/internal/service"
	"github.com/atithi-pos/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// New creates a Chi router with all application routes wired up.
// Applies authentication and role-based middleware as needed.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	orderService := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Menu: everyone reads, management writes, Admin deletes
		menuHandler := handler.NewMenuHandler(queries)
		r.Route("/menu", func(r chi.Router) {
			menuHandler.RegisterRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleAdmin, enum.RoleManager))
				menuHandler.RegisterManagerRoutes(r)
			})
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleAdmin))
				menuHandler.RegisterAdminRoutes(r)
			})
		})

		// Orders
		orderHandler := handler.NewOrderHandler(orderService, queries, hub)
		r.Route("/orders", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleWaiter, enum.RoleCashier, enum.RoleAdmin, enum.RoleManager))
				orderHandler.RegisterRoutes(r)
			})
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleChef, enum.RoleAdmin, enum.RoleManager))
				orderHandler.RegisterKitchenRoutes(r)
			})
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleCashier, enum.RoleAdmin, enum.RoleManager))
				orderHandler.RegisterCashierRoutes(r)
			})
		})

		// Billing and the money ledger
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.RoleAdmin, enum.RoleManager, enum.RoleCashier))

			billHandler := handler.NewBillHandler(orderService, queries)
			r.Route("/bills", billHandler.RegisterRoutes)

			financeHandler := handler.NewFinanceHandler(queries)
			r.Route("/finance", financeHandler.RegisterRoutes)
		})

		// Back office (management only)
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.RoleAdmin, enum.RoleManager))

			employeeHandler := handler.NewEmployeeHandler(queries)
			attendanceHandler := handler.NewAttendanceHandler(queries)
			r.Route("/employees", func(r chi.Router) {
				employeeHandler.RegisterRoutes(r)
				attendanceHandler.RegisterRoutes(r)
				r.Group(func(r chi.Router) {
					r.Use(mw.RequireRole(enum.RoleAdmin))
					employeeHandler.RegisterAdminRoutes(r)
				})
			})

			inventoryHandler := handler.NewInventoryHandler(queries, pool, func(db database.DBTX) handler.InventoryStore {
				return database.New(db)
			})
			r.Route("/inventory", inventoryHandler.RegisterRoutes)

			reportsHandler := handler.NewReportsHandler(queries)
			r.Route("/reports", reportsHandler.RegisterRoutes)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
