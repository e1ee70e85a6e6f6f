package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"tracker-backend/internal/auth"
	"tracker-backend/internal/cache"
	"tracker-backend/internal/config"
	"tracker-backend/internal/database"
	"tracker-backend/internal/db"
	"tracker-backend/internal/handlers"
	"tracker-backend/internal/health"
	h "tracker-backend/internal/http"
	"tracker-backend/internal/middleware"
	"tracker-backend/internal/repositories"
	"tracker-backend/internal/services"
	"tracker-backend/migrations"
)

func main() {
	migrateOnly := flag.Bool("migrate", false, "run migrations and exit")
	flag.Parse()

	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	migrator := database.NewMigratorWithFS(pool, migrations.FS, ".")
	if err := migrator.RunMigrations(ctx); err != nil {
		cancel()
		log.Fatalf("migrations failed: %v", err)
	}
	cancel()

	if *migrateOnly {
		log.Println("[Server] migrations applied, exiting")
		return
	}

	if err := cache.Init(cfg); err != nil {
		log.Printf("[Cache] Redis unavailable, caching disabled: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	baseRepo := repositories.NewBaseRepository(pool)
	equipmentRepo := repositories.NewEquipmentRepository(pool)
	purchaseRepo := repositories.NewPurchaseRepository(pool)
	transferRepo := repositories.NewTransferRepository(pool)
	assignmentRepo := repositories.NewAssignmentRepository(pool)
	balanceRepo := repositories.NewBalanceRepository(pool)
	auditLogRepo := repositories.NewAuditLogRepository(pool)

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	reconcileService := services.NewReconcileService(balanceRepo, purchaseRepo, transferRepo, assignmentRepo)
	purchaseService := services.NewPurchaseService(purchaseRepo, baseRepo, equipmentRepo, reconcileService)
	transferService := services.NewTransferService(transferRepo, baseRepo, equipmentRepo, reconcileService)
	assignmentService := services.NewAssignmentService(assignmentRepo, baseRepo, equipmentRepo, reconcileService)
	balanceService := services.NewBalanceService(balanceRepo, reconcileService)
	dashboardService := services.NewDashboardService(
		balanceRepo, purchaseRepo, transferRepo, assignmentRepo,
		cfg.Dashboard.RecentActivityLimit,
		time.Duration(cfg.Dashboard.CacheTTLSeconds)*time.Second,
	)
	reportService := services.NewReportService(dashboardService)
	userService := services.NewUserService(userRepo, jwtManager)
	auditService := services.NewAuditService(auditLogRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	userHandler := handlers.NewUserHandler(userService, auditService)
	baseHandler := handlers.NewBaseHandler(baseRepo)
	equipmentHandler := handlers.NewEquipmentHandler(equipmentRepo)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService, auditService)
	transferHandler := handlers.NewTransferHandler(transferService, auditService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService, auditService)
	balanceHandler := handlers.NewBalanceHandler(balanceService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	reportHandler := handlers.NewReportHandler(reportService)
	auditLogHandler := handlers.NewAuditLogHandler(auditService)
	healthHandler := health.NewHandler(pool)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(
		authHandler, userHandler, baseHandler, equipmentHandler,
		purchaseHandler, transferHandler, assignmentHandler, balanceHandler,
		dashboardHandler, reportHandler, auditLogHandler, healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("[Server] listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
