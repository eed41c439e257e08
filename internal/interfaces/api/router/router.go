package router

import (
	"barberbook/internal/interfaces/api/handler"
	"barberbook/internal/pkg/logger"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Config holds the dependencies for the router.
type Config struct {
	AppointmentHandler *handler.AppointmentHandler
	ReviewHandler      *handler.ReviewHandler
	AdminHandler       *handler.AdminHandler
	AdminAuth          *handler.AdminAuthenticator
	LineHandler        *handler.LineHandler // nil when LINE is not configured
	Logger             logger.Logger
}

// NewRouter creates and configures a new Echo router.
func NewRouter(cfg *Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogHost:      true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			cfg.Logger.Info(fmt.Sprintf("REQUEST: method=%s, uri=%s, status=%d, latency=%s, req_id=%s",
				v.Method, v.URI, v.Status, v.Latency, v.RequestID,
			))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, handler.AdminHeader, "X-Line-Signature"},
		MaxAge:       300,
	}))

	// Routes
	e.GET("/", cfg.AppointmentHandler.Index)

	api := e.Group("/api")
	api.POST("/appointments", cfg.AppointmentHandler.Create)
	api.GET("/appointments", cfg.AppointmentHandler.List)
	api.GET("/appointments/count", cfg.AppointmentHandler.Count)
	api.GET("/available-slots", cfg.AppointmentHandler.AvailableSlots)
	api.GET("/reviews", cfg.ReviewHandler.List)
	api.POST("/reviews", cfg.ReviewHandler.Create)

	e.POST("/admin/login", cfg.AdminHandler.Login)

	admin := e.Group("/admin", middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup: "header:" + handler.AdminHeader,
		Validator: func(key string, c echo.Context) (bool, error) {
			return cfg.AdminAuth.Verify(key), nil
		},
		ErrorHandler: func(err error, c echo.Context) error {
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized"})
		},
	}))
	admin.GET("/appointments", cfg.AdminHandler.ListAppointments)
	admin.POST("/appointments/:id/cancel", cfg.AdminHandler.CancelAppointment)
	admin.DELETE("/appointments/:id", cfg.AdminHandler.DeleteAppointment)
	admin.GET("/jobs", cfg.AdminHandler.ListJobs)
	admin.GET("/reviews", cfg.AdminHandler.ListReviews)
	admin.PATCH("/reviews/:id", cfg.AdminHandler.UpdateReview)
	admin.DELETE("/reviews/:id", cfg.AdminHandler.DeleteReview)

	// LINE Webhook Endpoint
	if cfg.LineHandler != nil {
		e.POST("/line/webhook", cfg.LineHandler.HandleWebhook)
	}

	cfg.Logger.Info("Router initialized with routes.")
	return e
}
