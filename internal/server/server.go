package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/correcaminos/cuotas/internal/email"
	"github.com/correcaminos/cuotas/internal/handler"
	"github.com/correcaminos/cuotas/internal/middleware"
	"github.com/correcaminos/cuotas/internal/receipt"
	"github.com/correcaminos/cuotas/internal/store"
	ws "github.com/correcaminos/cuotas/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	authH       *handler.AuthHandler
	householdH  *handler.HouseholdHandler
	configH     *handler.ConfigHandler
	paymentH    *handler.PaymentHandler
	duesH       *handler.DuesHandler
	reportH     *handler.ReportHandler
	sessions    *store.SessionStore
	households  *store.HouseholdStore
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, receipts *receipt.Service, mail *email.Client, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	households := store.NewHouseholdStore(db)
	sessions := store.NewSessionStore(db)
	payments := store.NewPaymentStore(db)
	config := store.NewConfigStore(db)

	return &Server{
		db:          db,
		hub:         hub,
		authH:       handler.NewAuthHandler(households, sessions, logger.With("component", "auth")),
		householdH:  handler.NewHouseholdHandler(households, sessions, hub, logger.With("component", "household")),
		configH:     handler.NewConfigHandler(config, hub, logger.With("component", "config")),
		paymentH:    handler.NewPaymentHandler(payments, households, receipts, mail, hub, logger.With("component", "payment")),
		duesH:       handler.NewDuesHandler(households, config, logger.With("component", "dues")),
		reportH:     handler.NewReportHandler(households, payments, config, logger.With("component", "report")),
		sessions:    sessions,
		households:  households,
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessions
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Hub returns the websocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes, wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessions, s.households)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/me", s.authH.Me)
	mux.HandleFunc("PUT /api/me/password", s.authH.ChangePassword)

	// Every household can read the fee configuration and quote its dues
	mux.HandleFunc("GET /api/config", s.configH.Get)
	mux.HandleFunc("GET /api/dues/{month}", s.duesH.Quote)

	// Payment lifecycle
	mux.HandleFunc("POST /api/payments", s.paymentH.Submit)
	mux.HandleFunc("GET /api/payments", s.paymentH.Mine)
	mux.HandleFunc("GET /api/payments/{id}/receipt", s.paymentH.Receipt)

	// Admin routes
	mux.Handle("PUT /api/config", middleware.RequireAdmin(http.HandlerFunc(s.configH.Put)))

	mux.Handle("GET /api/households", middleware.RequireAdmin(http.HandlerFunc(s.householdH.List)))
	mux.Handle("POST /api/households", middleware.RequireAdmin(http.HandlerFunc(s.householdH.Create)))
	mux.Handle("GET /api/households/{id}", middleware.RequireAdmin(http.HandlerFunc(s.householdH.Get)))
	mux.Handle("PUT /api/households/{id}", middleware.RequireAdmin(http.HandlerFunc(s.householdH.Update)))
	mux.Handle("DELETE /api/households/{id}", middleware.RequireAdmin(http.HandlerFunc(s.householdH.Delete)))
	mux.Handle("PUT /api/households/{id}/members", middleware.RequireAdmin(http.HandlerFunc(s.householdH.ReplaceMembers)))
	mux.Handle("PUT /api/households/{id}/password", middleware.RequireAdmin(http.HandlerFunc(s.householdH.SetPassword)))

	mux.Handle("GET /api/admin/payments", middleware.RequireAdmin(http.HandlerFunc(s.paymentH.AdminList)))
	mux.Handle("POST /api/admin/payments/{id}/approve", middleware.RequireAdmin(http.HandlerFunc(s.paymentH.Approve)))
	mux.Handle("POST /api/admin/payments/{id}/reject", middleware.RequireAdmin(http.HandlerFunc(s.paymentH.Reject)))

	mux.Handle("GET /api/admin/report", middleware.RequireAdmin(http.HandlerFunc(s.reportH.Reconciliation)))
	mux.Handle("GET /api/admin/stats", middleware.RequireAdmin(http.HandlerFunc(s.reportH.Stats)))

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}
