package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/lucianocastr/estudiors/internal/config"
	"github.com/lucianocastr/estudiors/internal/handler"
	"github.com/lucianocastr/estudiors/internal/mailer"
	"github.com/lucianocastr/estudiors/internal/repository"
	"github.com/lucianocastr/estudiors/internal/service"
	"github.com/lucianocastr/estudiors/pkg/response"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	db, err := initDB(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Repositories
	contactRepo := repository.NewContactRepository(db)
	inquiryRepo := repository.NewInquiryRepository(db)
	caseRepo := repository.NewCaseRepository(db)
	debtRepo := repository.NewDebtRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	analysisRepo := repository.NewAnalysisRepository(db)
	scenarioRepo := repository.NewScenarioRepository(db)
	interventionRepo := repository.NewInterventionRepository(db)
	feeRepo := repository.NewFeeRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Services
	dispatcher := mailer.NewMailer(cfg)
	notificationService := service.NewNotificationService(notificationRepo, dispatcher, cfg)
	alertRules := service.NewAlertRules(alertRepo)
	locker := service.NewRedisLocker(redisClient)
	caseService := service.NewCaseService(
		caseRepo, contactRepo, debtRepo, assetRepo, analysisRepo,
		scenarioRepo, interventionRepo, feeRepo, alertRepo,
		alertRules, locker, cfg,
	)
	intakeService := service.NewIntakeService(inquiryRepo, contactRepo, notificationService, cfg)
	dashboardService := service.NewDashboardService(caseRepo, inquiryRepo, alertRepo, service.NewRedisStatsCache(redisClient))

	// Handlers
	intakeHandler := handler.NewIntakeHandler(intakeService, cfg)
	caseHandler := handler.NewCaseHandler(caseService, cfg)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, cfg)
	queueHandler := handler.NewQueueHandler(notificationService, caseService, cfg)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	router := setupRoutes(intakeHandler, caseHandler, dashboardHandler, queueHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      response.CORSMiddleware(response.LoggingMiddleware(router)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logrus.Infof("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

func setupLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	intakeHandler *handler.IntakeHandler,
	caseHandler *handler.CaseHandler,
	dashboardHandler *handler.DashboardHandler,
	queueHandler *handler.QueueHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Intake
	api.HandleFunc("/inquiries", intakeHandler.CreateInquiry).Methods("POST")
	api.HandleFunc("/inquiries", intakeHandler.ListInquiries).Methods("GET")
	api.HandleFunc("/inquiries/{inquiryId}", intakeHandler.GetInquiry).Methods("GET")
	api.HandleFunc("/inquiries/{inquiryId}/status", intakeHandler.ChangeStatus).Methods("PUT")
	api.HandleFunc("/inquiries/{inquiryId}/notes", intakeHandler.AddNote).Methods("POST")
	api.HandleFunc("/inquiries/{inquiryId}/appointment/confirm", intakeHandler.ConfirmAppointment).Methods("POST")
	api.HandleFunc("/inquiries/{inquiryId}/appointment/reject", intakeHandler.RejectAppointment).Methods("POST")

	// Cases
	api.HandleFunc("/cases", caseHandler.CreateCase).Methods("POST")
	api.HandleFunc("/cases", caseHandler.ListCases).Methods("GET")
	api.HandleFunc("/cases/{caseId}", caseHandler.GetCase).Methods("GET")
	api.HandleFunc("/cases/{caseId}/status", caseHandler.ChangeStatus).Methods("PUT")
	api.HandleFunc("/cases/{caseId}/urgency", caseHandler.ChangeUrgency).Methods("PUT")
	api.HandleFunc("/cases/{caseId}/diagnostic", caseHandler.SaveDiagnostic).Methods("PUT")

	// Debts
	api.HandleFunc("/cases/{caseId}/debts", caseHandler.AddDebt).Methods("POST")
	api.HandleFunc("/cases/{caseId}/debts", caseHandler.ListDebts).Methods("GET")
	api.HandleFunc("/debts/{debtId}/status", caseHandler.UpdateDebtStatus).Methods("PUT")
	api.HandleFunc("/debts/{debtId}/interruption", caseHandler.SetInterruption).Methods("PUT")
	api.HandleFunc("/debts/{debtId}", caseHandler.DeleteDebt).Methods("DELETE")

	// Assets
	api.HandleFunc("/cases/{caseId}/assets", caseHandler.AddAsset).Methods("POST")
	api.HandleFunc("/cases/{caseId}/assets", caseHandler.ListAssets).Methods("GET")
	api.HandleFunc("/assets/{assetId}", caseHandler.DeleteAsset).Methods("DELETE")

	// Financial analyses
	api.HandleFunc("/cases/{caseId}/analyses", caseHandler.SaveAnalysis).Methods("POST")
	api.HandleFunc("/cases/{caseId}/analyses", caseHandler.ListAnalyses).Methods("GET")

	// Restructuring scenarios
	api.HandleFunc("/cases/{caseId}/scenarios", caseHandler.AddScenario).Methods("POST")
	api.HandleFunc("/cases/{caseId}/scenarios", caseHandler.ListScenarios).Methods("GET")
	api.HandleFunc("/cases/{caseId}/scenarios/{scenarioId}/select", caseHandler.SelectScenario).Methods("POST")

	// Interventions
	api.HandleFunc("/cases/{caseId}/interventions", caseHandler.AddIntervention).Methods("POST")
	api.HandleFunc("/cases/{caseId}/interventions", caseHandler.ListInterventions).Methods("GET")

	// Fees
	api.HandleFunc("/cases/{caseId}/fees", caseHandler.AddFee).Methods("POST")
	api.HandleFunc("/cases/{caseId}/fees", caseHandler.ListFees).Methods("GET")
	api.HandleFunc("/fees/{feeId}/payment", caseHandler.UpdateFeePayment).Methods("PUT")

	// Alerts
	api.HandleFunc("/cases/{caseId}/alerts", caseHandler.ListAlerts).Methods("GET")
	api.HandleFunc("/alerts/{alertId}/resolve", caseHandler.ResolveAlert).Methods("POST")
	api.HandleFunc("/alerts/{alertId}/dismiss", caseHandler.DismissAlert).Methods("POST")

	// Dashboard
	api.HandleFunc("/dashboard/stats", dashboardHandler.Stats).Methods("GET")

	// Cron endpoints, protected by the shared token
	internal := router.PathPrefix("/internal").Subrouter()
	internal.HandleFunc("/queue/dispatch", queueHandler.DispatchNotifications).Methods("POST")
	internal.HandleFunc("/queue/sweep-prescriptions", queueHandler.SweepPrescriptions).Methods("POST")

	return router
}
