package handler

import (
	"barberbook/internal/application/dto"
	"barberbook/internal/application/service"
	appErrors "barberbook/internal/pkg/errors"
	"barberbook/internal/pkg/logger"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AdminHeader carries the admin secret on protected routes.
const AdminHeader = "X-Admin-Key"

// AdminAuthenticator checks the shared admin secret against a bcrypt hash.
type AdminAuthenticator struct {
	hash []byte
}

// NewAdminAuthenticator uses passwordHash when given, otherwise hashes password.
func NewAdminAuthenticator(password, passwordHash string) (*AdminAuthenticator, error) {
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("invalid ADMIN_PASSWORD_HASH: %w", err)
		}
		return &AdminAuthenticator{hash: []byte(passwordHash)}, nil
	}
	if password == "" {
		return nil, fmt.Errorf("admin password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return &AdminAuthenticator{hash: hash}, nil
}

// Verify reports whether secret is the admin password.
func (a *AdminAuthenticator) Verify(secret string) bool {
	if secret == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(a.hash, []byte(secret)) == nil
}

// AdminHandler serves the admin API.
type AdminHandler struct {
	auth               *AdminAuthenticator
	appointmentService service.AppointmentService
	reviewService      service.ReviewService
	schedulerService   service.SchedulerService
	log                logger.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	auth *AdminAuthenticator,
	appointmentService service.AppointmentService,
	reviewService service.ReviewService,
	schedulerService service.SchedulerService,
	log logger.Logger,
) *AdminHandler {
	return &AdminHandler{
		auth:               auth,
		appointmentService: appointmentService,
		reviewService:      reviewService,
		schedulerService:   schedulerService,
		log:                log,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login checks the admin password so a client can keep it for later calls.
func (h *AdminHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !h.auth.Verify(req.Password) {
		h.log.Warn("Failed admin login from " + c.RealIP())
		return respondError(c, h.log, appErrors.ErrUnauthorized)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Login successful"})
}

// ListAppointments returns appointments filtered by startDate, endDate and status.
func (h *AdminHandler) ListAppointments(c echo.Context) error {
	var req dto.ListAppointmentsRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return badRequest(c, "invalid query parameters")
	}
	appointments, err := h.appointmentService.ListAppointments(c.Request().Context(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"count":        len(appointments),
		"appointments": appointments,
	})
}

// CancelAppointment cancels an appointment and notifies the customer.
func (h *AdminHandler) CancelAppointment(c echo.Context) error {
	var req dto.CancelAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	appointment, err := h.appointmentService.CancelAppointment(c.Request().Context(), c.Param("id"), req.Reason)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"message":     "Appointment cancelled and customer notified",
		"appointment": appointment,
	})
}

// DeleteAppointment removes an appointment without notification.
func (h *AdminHandler) DeleteAppointment(c echo.Context) error {
	if err := h.appointmentService.DeleteAppointment(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Appointment deleted"})
}

// ListJobs lists pending reminders.
func (h *AdminHandler) ListJobs(c echo.Context) error {
	jobs := h.schedulerService.List()
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"scheduledJobs": len(jobs),
		"jobs":          jobs,
	})
}

// ListReviews lists reviews for moderation, optionally filtered by ?status=.
func (h *AdminHandler) ListReviews(c echo.Context) error {
	reviews, err := h.reviewService.ListReviews(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(reviews), "reviews": reviews})
}

// UpdateReview approves or rejects a review.
func (h *AdminHandler) UpdateReview(c echo.Context) error {
	var req dto.UpdateReviewStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	review, err := h.reviewService.UpdateReviewStatus(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "review": review})
}

// DeleteReview removes a review.
func (h *AdminHandler) DeleteReview(c echo.Context) error {
	if err := h.reviewService.DeleteReview(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Review deleted"})
}
