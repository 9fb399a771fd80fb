package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/lucianocastr/estudiors/internal/config"
	"github.com/lucianocastr/estudiors/internal/mailer"
	"github.com/lucianocastr/estudiors/internal/repository"
	"github.com/lucianocastr/estudiors/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)
	logrus.Info("Starting scheduler...")

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	notificationService := service.NewNotificationService(
		repository.NewNotificationRepository(db),
		mailer.NewMailer(cfg),
		cfg,
	)

	alertRepo := repository.NewAlertRepository(db)
	caseService := service.NewCaseService(
		repository.NewCaseRepository(db),
		repository.NewContactRepository(db),
		repository.NewDebtRepository(db),
		repository.NewAssetRepository(db),
		repository.NewAnalysisRepository(db),
		repository.NewScenarioRepository(db),
		repository.NewInterventionRepository(db),
		repository.NewFeeRepository(db),
		alertRepo,
		service.NewAlertRules(alertRepo),
		service.NewRedisLocker(redisClient),
		cfg,
	)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logrus.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))
	setupCronJobs(c, cfg, notificationService, caseService)

	c.Start()
	logrus.Info("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	logrus.Info("Scheduler stopped")
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

func setupCronJobs(
	c *cron.Cron,
	cfg *config.Config,
	notifications *service.NotificationService,
	cases *service.CaseService,
) {
	// Dispatch cycle over the notification queue
	_, err := c.AddFunc(cfg.Scheduler.DispatchSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		summary, err := notifications.RunDispatchCycle(ctx)
		if err != nil {
			logrus.WithError(err).Error("Notification dispatch cycle failed")
			return
		}
		if summary.Sent > 0 || summary.Failed > 0 {
			logrus.WithFields(logrus.Fields{
				"sent":   summary.Sent,
				"failed": summary.Failed,
			}).Info("Notification dispatch cycle completed")
		}
	})
	if err != nil {
		logrus.Fatalf("Error scheduling notification dispatch job: %v", err)
	}

	// Daily prescription sweep over tracked debts
	_, err = c.AddFunc(cfg.Scheduler.SweepSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		updated, err := cases.RecomputeDebtPrescriptions(ctx)
		if err != nil {
			logrus.WithError(err).Error("Prescription sweep failed")
			return
		}
		logrus.WithField("updated", updated).Info("Prescription sweep completed")
	})
	if err != nil {
		logrus.Fatalf("Error scheduling prescription sweep job: %v", err)
	}

	logrus.Info("Cron jobs scheduled successfully")
}
