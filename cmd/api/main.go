package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on minimal images

	// Application Layer
	"barberbook/internal/application/notification"
	appService "barberbook/internal/application/service"

	// Domain Layer
	"barberbook/internal/domain/calendar"

	// Infrastructure Layer
	"barberbook/internal/infrastructure/database/sqlite"
	lineClient "barberbook/internal/infrastructure/line"
	"barberbook/internal/infrastructure/lock"
	"barberbook/internal/infrastructure/mail"
	"barberbook/internal/infrastructure/scheduler"
	"barberbook/internal/infrastructure/telemetry"
	"barberbook/internal/infrastructure/twilio"

	// Interfaces Layer
	"barberbook/internal/interfaces/api/handler"
	"barberbook/internal/interfaces/api/router"

	// Packages
	"barberbook/internal/pkg/config"
	appLogger "barberbook/internal/pkg/logger"

	_ "github.com/joho/godotenv/autoload" // Automatically load .env file
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/gorm"
)

func gracefulShutdown(apiServer *http.Server, schedulerService appService.SchedulerService, db *gorm.DB,
	shutdownTracing func(context.Context) error, log appLogger.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info("Shutting down gracefully, press Ctrl+C again to force")

	// Stop taking bookings before dropping the reminder registry.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err)
	}

	log.Info("Stopping scheduler...")
	schedulerService.Stop()

	if err := sqlite.CloseDB(db); err != nil {
		log.Error("Error closing database", err)
	} else {
		log.Info("Database connection closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Error flushing traces", err)
	}

	done <- true
}

func main() {
	// --- Initialization ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	appLog := appLogger.New(cfg.Env, cfg.LogLevel)
	appLog.Info(fmt.Sprintf("Logger initialized (env=%s, timezone=%s).", cfg.Env, cfg.Location))

	shutdownTracing := telemetry.Setup(context.Background(), telemetry.Config{
		ServiceName: "barberbook",
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
	}, appLog)

	// --- Infrastructure ---
	db, err := sqlite.NewDB(cfg.DBURL, cfg.LogLevel, appLog)
	if err != nil {
		appLog.Error("Failed to open database", err)
		os.Exit(1)
	}
	appointmentRepo := sqlite.NewAppointmentRepository(db)
	reviewRepo := sqlite.NewReviewRepository(db)
	appLog.Info("Database and repositories initialized.")

	cal, err := calendar.New(cfg.Slots, cfg.Location)
	if err != nil {
		appLog.Error("Invalid BOOKING_SLOTS", err)
		os.Exit(1)
	}

	var bookingLock lock.Locker = lock.NewLocal()
	if cfg.RedisURL != "" {
		redisClient, err := lock.NewRedisClient(context.Background(), cfg.RedisURL)
		if err != nil {
			appLog.Error("Failed to connect to Redis", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		bookingLock = lock.NewRedis(redisClient, "barberbook:lock:booking", 0)
		appLog.Info("Using Redis booking lock.")
	}

	adminTransports, customerTransports := buildTransports(cfg, appLog)
	adminNotifier := notification.NewDispatcher(adminTransports, appLog)
	customerNotifier := notification.NewDispatcher(customerTransports, appLog)
	admin := notification.Recipient{
		Email: cfg.Admin.Email,
		Chat:  cfg.Admin.LineUserID,
		Phone: cfg.Admin.SMSPhone,
	}

	cronScheduler := scheduler.NewScheduler(cfg.Location, appLog)

	// --- Application Services ---
	// The appointment service installs its reminder handler on the scheduler service.
	schedulerSvc := appService.NewSchedulerService(cronScheduler, cfg.ReminderLead, cfg.ReminderDelay, appLog)
	appointmentSvc := appService.NewAppointmentService(appointmentRepo, schedulerSvc, cal, bookingLock,
		adminNotifier, customerNotifier, appService.AppointmentOptions{
			MinSeparation: cfg.MinSeparation,
			ReminderLead:  cfg.ReminderLead,
			Admin:         admin,
		}, appLog)
	reviewSvc := appService.NewReviewService(reviewRepo, adminNotifier, admin, appLog)
	appLog.Info("Application services initialized.")

	// --- API Handlers ---
	auth, err := handler.NewAdminAuthenticator(cfg.Admin.Password, cfg.Admin.PasswordHash)
	if err != nil {
		appLog.Error("Failed to set up admin authentication", err)
		os.Exit(1)
	}

	routerCfg := &router.Config{
		AppointmentHandler: handler.NewAppointmentHandler(appointmentSvc, schedulerSvc, appLog),
		ReviewHandler:      handler.NewReviewHandler(reviewSvc, appLog),
		AdminHandler:       handler.NewAdminHandler(auth, appointmentSvc, reviewSvc, schedulerSvc, appLog),
		AdminAuth:          auth,
		Logger:             appLog,
	}
	if lc, ok := adminTransports.Chat.(*lineClient.Client); ok {
		routerCfg.LineHandler = handler.NewLineHandler(lc, appointmentSvc, schedulerSvc, cfg.Admin.LineUserID, cfg.Location, appLog)
	}
	appLog.Info("API handlers initialized.")

	echoRouter := router.NewRouter(routerCfg)

	// --- HTTP Server ---
	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      otelhttp.NewHandler(echoRouter, "barberbook"),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// --- Start Server & Shutdown Handling ---
	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, schedulerSvc, db, shutdownTracing, appLog, done)

	appLog.Info(fmt.Sprintf("Server starting on port %d", cfg.Port))
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		appLog.Error("HTTP server ListenAndServe error", err)
		os.Exit(1)
	}

	<-done
	appLog.Info("Graceful shutdown complete.")
}

// buildTransports picks a real sender per channel when it is configured and a
// logging stand-in otherwise. Admins chat over LINE, customers over WhatsApp.
func buildTransports(cfg *config.Config, log appLogger.Logger) (admin, customer notification.Transports) {
	var email notification.EmailSender = notification.NewLogSender(notification.ChannelEmail, log)
	if cfg.SMTP.Enabled() {
		email = mail.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From, log)
	}

	var sms notification.SMSSender = notification.NewLogSender(notification.ChannelSMS, log)
	var whatsApp notification.ChatSender = notification.NewLogSender(notification.ChannelChat, log)
	if cfg.Twilio.Enabled() {
		tw, err := twilio.NewClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.PhoneNumber, cfg.Twilio.WhatsAppFrom, log)
		if err != nil {
			log.Error("Twilio disabled", err)
		} else {
			if cfg.Twilio.PhoneNumber != "" {
				sms = tw
			}
			if cfg.Twilio.WhatsAppFrom != "" {
				whatsApp = tw
			}
		}
	}

	var lineChat notification.ChatSender = notification.NewLogSender(notification.ChannelChat, log)
	if cfg.Line.Enabled() {
		lc, err := lineClient.NewClient(cfg.Line.ChannelSecret, cfg.Line.ChannelToken, log)
		if err != nil {
			log.Error("LINE disabled", err)
		} else {
			lineChat = lc
		}
	}

	admin = notification.Transports{Email: email, Chat: lineChat, SMS: sms}
	customer = notification.Transports{Email: email, Chat: whatsApp, SMS: sms}
	return admin, customer
}
