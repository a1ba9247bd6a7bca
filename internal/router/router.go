package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/savora/api/internal/config"
	"github.com/savora/api/internal/database"
	"github.com/savora/api/internal/enum"
	"github.com/savora/api/internal/handler"
	mw "github.com/savora/api/internal/middleware"
	"github.com/savora/api/internal/service"
	"github.com/savora/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Public browsing and auth come first, then the authenticated groups:
// customer self-service under /me, branch-staff operations under
// /branches/{bid}, and admin-only management routes.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // web dev server
			"https://app.savora.example.com",
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
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

	// Public catalog browsing
	branchHandler := handler.NewBranchHandler(queries)
	branchHandler.RegisterPublicRoutes(r)

	menuHandler := handler.NewMenuHandler(queries)
	menuHandler.RegisterPublicRoutes(r)

	// WebSocket routes (auth handled internally via query param)
	r.Get("/ws/branches/{bid}/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeBranchWS(hub, cfg.JWTSecret, w, r)
	})
	r.Get("/ws/me/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeCustomerWS(hub, cfg.JWTSecret, w, r)
	})

	orderService := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	})
	orderHandler := handler.NewOrderHandler(orderService, queries, hub)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Customer self-service
		r.Route("/me/orders", orderHandler.RegisterCustomerRoutes)

		// Branch-staff operations
		r.Route("/branches/{bid}/orders", func(r chi.Router) {
			r.Use(mw.RequireBranchStaff)
			orderHandler.RegisterBranchRoutes(r)
		})

		// Admin-only management
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.RoleAdmin))

			branchHandler.RegisterAdminRoutes(r)
			menuHandler.RegisterAdminRoutes(r)

			staffHandler := handler.NewStaffHandler(queries)
			staffHandler.RegisterRoutes(r)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
