package http

import (
	"net/http"

	"tracker-backend/internal/handlers"
	"tracker-backend/internal/health"
	"tracker-backend/internal/middleware"
	"tracker-backend/internal/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	baseHandler *handlers.BaseHandler,
	equipmentHandler *handlers.EquipmentHandler,
	purchaseHandler *handlers.PurchaseHandler,
	transferHandler *handlers.TransferHandler,
	assignmentHandler *handlers.AssignmentHandler,
	balanceHandler *handlers.BalanceHandler,
	dashboardHandler *handlers.DashboardHandler,
	reportHandler *handlers.ReportHandler,
	auditLogHandler *handlers.AuditLogHandler,
	healthHandler *health.Handler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	admin := authMiddleware.RequireAdmin
	commandRoles := authMiddleware.RequireRole(models.RoleAdmin, models.RoleBaseCommander)
	logisticsRoles := authMiddleware.RequireRole(models.RoleAdmin, models.RoleLogisticsOfficer)

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - current user
	meAPI := r.PathPrefix("/api/me").Subrouter()
	meAPI.Use(authMiddleware.Authenticate)
	meAPI.HandleFunc("", authHandler.Me).Methods("GET")

	// Protected API routes - Users (admin only)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.HandleFunc("", admin(http.HandlerFunc(userHandler.List)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("", admin(http.HandlerFunc(userHandler.Create)).ServeHTTP).Methods("POST")
	usersAPI.HandleFunc("/{id}", admin(http.HandlerFunc(userHandler.Get)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("/{id}", admin(http.HandlerFunc(userHandler.Update)).ServeHTTP).Methods("PUT")

	// Protected API routes - Bases (admin manages, all roles view)
	basesAPI := r.PathPrefix("/api/bases").Subrouter()
	basesAPI.Use(authMiddleware.Authenticate)
	basesAPI.HandleFunc("", baseHandler.List).Methods("GET")
	basesAPI.HandleFunc("", admin(http.HandlerFunc(baseHandler.Create)).ServeHTTP).Methods("POST")
	basesAPI.HandleFunc("/{id}", baseHandler.Get).Methods("GET")
	basesAPI.HandleFunc("/{id}", admin(http.HandlerFunc(baseHandler.Update)).ServeHTTP).Methods("PUT")

	// Protected API routes - Equipment reference data
	equipmentAPI := r.PathPrefix("/api/equipment").Subrouter()
	equipmentAPI.Use(authMiddleware.Authenticate)
	equipmentAPI.HandleFunc("", equipmentHandler.List).Methods("GET")
	equipmentAPI.HandleFunc("", admin(http.HandlerFunc(equipmentHandler.Create)).ServeHTTP).Methods("POST")
	equipmentAPI.HandleFunc("/{id}", equipmentHandler.Get).Methods("GET")
	equipmentAPI.HandleFunc("/{id}", admin(http.HandlerFunc(equipmentHandler.Update)).ServeHTTP).Methods("PUT")

	// Protected API routes - Purchases
	purchasesAPI := r.PathPrefix("/api/purchases").Subrouter()
	purchasesAPI.Use(authMiddleware.Authenticate)
	purchasesAPI.HandleFunc("", purchaseHandler.List).Methods("GET")
	purchasesAPI.HandleFunc("", logisticsRoles(http.HandlerFunc(purchaseHandler.Create)).ServeHTTP).Methods("POST")
	purchasesAPI.HandleFunc("/{id}", purchaseHandler.Get).Methods("GET")
	purchasesAPI.HandleFunc("/{id}", logisticsRoles(http.HandlerFunc(purchaseHandler.Update)).ServeHTTP).Methods("PUT")
	purchasesAPI.HandleFunc("/{id}", logisticsRoles(http.HandlerFunc(purchaseHandler.Delete)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Transfers (status moves need command roles)
	transfersAPI := r.PathPrefix("/api/transfers").Subrouter()
	transfersAPI.Use(authMiddleware.Authenticate)
	transfersAPI.HandleFunc("", transferHandler.List).Methods("GET")
	transfersAPI.HandleFunc("", logisticsRoles(http.HandlerFunc(transferHandler.Create)).ServeHTTP).Methods("POST")
	transfersAPI.HandleFunc("/{id}", transferHandler.Get).Methods("GET")
	transfersAPI.HandleFunc("/{id}", logisticsRoles(http.HandlerFunc(transferHandler.Update)).ServeHTTP).Methods("PUT")
	transfersAPI.HandleFunc("/{id}", logisticsRoles(http.HandlerFunc(transferHandler.Delete)).ServeHTTP).Methods("DELETE")
	transfersAPI.HandleFunc("/{id}/status", commandRoles(http.HandlerFunc(transferHandler.Transition)).ServeHTTP).Methods("PATCH")

	// Protected API routes - Assignments
	assignmentsAPI := r.PathPrefix("/api/assignments").Subrouter()
	assignmentsAPI.Use(authMiddleware.Authenticate)
	assignmentsAPI.HandleFunc("", assignmentHandler.List).Methods("GET")
	assignmentsAPI.HandleFunc("", commandRoles(http.HandlerFunc(assignmentHandler.Create)).ServeHTTP).Methods("POST")
	assignmentsAPI.HandleFunc("/{id}", assignmentHandler.Get).Methods("GET")
	assignmentsAPI.HandleFunc("/{id}/status", commandRoles(http.HandlerFunc(assignmentHandler.Transition)).ServeHTTP).Methods("PATCH")

	// Protected API routes - Balances
	balancesAPI := r.PathPrefix("/api/balances").Subrouter()
	balancesAPI.Use(authMiddleware.Authenticate)
	balancesAPI.HandleFunc("", balanceHandler.List).Methods("GET")
	balancesAPI.HandleFunc("/reconcile", admin(http.HandlerFunc(balanceHandler.Reconcile)).ServeHTTP).Methods("POST")

	// Protected API routes - Dashboard and reports
	dashboardAPI := r.PathPrefix("/api/dashboard").Subrouter()
	dashboardAPI.Use(authMiddleware.Authenticate)
	dashboardAPI.HandleFunc("", dashboardHandler.Metrics).Methods("GET")

	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate)
	reportsAPI.HandleFunc("/movements", reportHandler.Movement).Methods("GET")

	// Protected API routes - Audit logs (admin only)
	auditAPI := r.PathPrefix("/api/audit-logs").Subrouter()
	auditAPI.Use(authMiddleware.Authenticate)
	auditAPI.HandleFunc("", admin(http.HandlerFunc(auditLogHandler.List)).ServeHTTP).Methods("GET")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.Liveness).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.Readiness).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.Detailed).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
