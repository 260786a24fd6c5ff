package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mindhaven-care/counsel-scheduler/internal/audit"
	"github.com/mindhaven-care/counsel-scheduler/internal/config"
	"github.com/mindhaven-care/counsel-scheduler/internal/handlers"
	infraRepo "github.com/mindhaven-care/counsel-scheduler/internal/infra/repository"
	"github.com/mindhaven-care/counsel-scheduler/internal/middleware"
	"github.com/mindhaven-care/counsel-scheduler/internal/tasks"
	ucAppointment "github.com/mindhaven-care/counsel-scheduler/internal/usecase/appointment"
	ucCalendar "github.com/mindhaven-care/counsel-scheduler/internal/usecase/calendar"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	enqueuer *tasks.Enqueuer,
	gateway ucAppointment.PaymentGateway,
	log *zap.Logger,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	calendarRepo := infraRepo.NewCalendarGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	// ======================================================
	// USE CASES — CALENDAR
	// ======================================================
	listCalendarDatesUC := ucCalendar.NewListCalendarDates(calendarRepo)

	createCalendarDateUC := ucCalendar.NewCreateCalendarDate(
		calendarRepo,
		auditDispatcher,
	)

	createSlotsUC := ucCalendar.NewCreateSlots(
		calendarRepo,
		auditDispatcher,
		cfg.DefaultMinSlotsPerDay,
	)

	createSlotsWithDatesUC := ucCalendar.NewCreateSlotsWithDates(
		calendarRepo,
		auditDispatcher,
		cfg.DefaultMinSlotsPerDay,
	)

	deleteSlotUC := ucCalendar.NewDeleteSlot(
		calendarRepo,
		auditDispatcher,
		cfg.DefaultMinSlotsPerDay,
	)

	listAvailabilityUC := ucCalendar.NewListAvailability(calendarRepo)

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	createPublicUC := ucAppointment.NewCreatePublicAppointment(
		appointmentRepo,
		auditDispatcher,
		gateway,
		log,
		cfg.SessionAmountCents,
		cfg.SessionCurrency,
		cfg.CreateTxTimeout,
	)

	createManualUC := ucAppointment.NewCreateManualAppointment(
		appointmentRepo,
		auditDispatcher,
		enqueuer,
		cfg.CreateTxTimeout,
	)

	cancelUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		auditDispatcher,
		enqueuer,
		cfg.TxTimeout,
	)

	rescheduleUC := ucAppointment.NewRescheduleAppointment(
		appointmentRepo,
		auditDispatcher,
		enqueuer,
		cfg.TxTimeout,
	)

	completeUC := ucAppointment.NewCompleteAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	paymentOutcomeUC := ucAppointment.NewPaymentOutcome(
		appointmentRepo,
		auditDispatcher,
		enqueuer,
		cfg.TxTimeout,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)

	calendarHandler := handlers.NewCalendarHandler(
		listCalendarDatesUC,
		createCalendarDateUC,
		createSlotsUC,
		createSlotsWithDatesUC,
		deleteSlotUC,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		createManualUC,
		cancelUC,
		rescheduleUC,
		completeUC,
	)

	publicHandler := handlers.NewPublicHandler(
		listAvailabilityUC,
		createPublicUC,
	)

	paymentHandler := handlers.NewPaymentHandler(paymentOutcomeUC)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/counselors/:counselorId/availability", publicHandler.Availability)
			publicAPI.POST("/counselors/:counselorId/appointments", publicHandler.Book)
		}

		// Payment processor callback
		api.POST("/payments/callback", paymentHandler.Callback)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me/calendar", calendarHandler.ListDates)
			secured.POST("/me/calendar", calendarHandler.CreateDate)
			secured.POST("/me/calendar/:calendarId/slots", calendarHandler.CreateSlots)
			secured.POST("/me/slots/bulk", calendarHandler.CreateSlotsWithDates)
			secured.DELETE("/me/slots/:slotId", calendarHandler.DeleteSlot)

			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.POST("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.POST("/me/appointments/:id/reschedule", appointmentHandler.Reschedule)
			secured.POST("/me/appointments/:id/complete", appointmentHandler.Complete)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
