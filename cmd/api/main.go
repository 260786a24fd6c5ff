package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mindhaven-care/counsel-scheduler/internal/audit"
	"github.com/mindhaven-care/counsel-scheduler/internal/config"
	dbpkg "github.com/mindhaven-care/counsel-scheduler/internal/db"
	infraRepo "github.com/mindhaven-care/counsel-scheduler/internal/infra/repository"
	"github.com/mindhaven-care/counsel-scheduler/internal/integrations/gcal"
	"github.com/mindhaven-care/counsel-scheduler/internal/integrations/mailer"
	"github.com/mindhaven-care/counsel-scheduler/internal/integrations/payments"
	"github.com/mindhaven-care/counsel-scheduler/internal/logger"
	"github.com/mindhaven-care/counsel-scheduler/internal/middleware"
	"github.com/mindhaven-care/counsel-scheduler/internal/reaper"
	"github.com/mindhaven-care/counsel-scheduler/internal/routes"
	"github.com/mindhaven-care/counsel-scheduler/internal/tasks"
	ucAppointment "github.com/mindhaven-care/counsel-scheduler/internal/usecase/appointment"
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()

	logger.Init(cfg.IsProduction())
	log := logger.Get()
	defer log.Sync()

	db := dbpkg.NewDB(cfg)

	// ------------------------------
	// Redis: task queue + reaper lock
	// ------------------------------
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	enqueuer := tasks.NewEnqueuer(asynqClient, log)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	// ------------------------------
	// Collaborators
	// ------------------------------
	var calendarSync tasks.CalendarSync
	if cfg.GoogleCredentialsJSON != "" {
		svc, err := gcal.New(context.Background(), cfg.GoogleCredentialsJSON)
		if err != nil {
			log.Warn("google calendar disabled", zap.Error(err))
		} else {
			calendarSync = svc
		}
	} else {
		log.Warn("google calendar disabled: no credentials configured")
	}

	smtpMailer := mailer.NewSMTPMailer(
		cfg.SMTPHost, cfg.SMTPPort,
		cfg.SMTPUser, cfg.SMTPPass,
		cfg.MailFrom,
	)

	var gateway ucAppointment.PaymentGateway
	if cfg.StripeSecretKey != "" {
		gateway = payments.NewStripeGateway(cfg.StripeSecretKey)
	} else {
		log.Warn("stripe disabled: no secret key configured")
	}

	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	// ------------------------------
	// Background: task worker + expired reservation sweep
	// ------------------------------
	worker := tasks.StartWorker(redisOpt, tasks.WorkerDeps{
		Calendar: calendarSync,
		Mailer:   smtpMailer,
		Recorder: appointmentRepo,
		Log:      log,
	})
	defer worker.Shutdown()

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)

	rp := reaper.New(
		appointmentRepo,
		reaper.NewRedisLocker(redisClient),
		auditDispatcher,
		log,
		cfg.ReaperInterval,
		cfg.PendingTTL,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rp.Run(ctx)

	// ------------------------------
	// HTTP
	// ------------------------------
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, enqueuer, gateway, log)

	log.Info("server starting", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
