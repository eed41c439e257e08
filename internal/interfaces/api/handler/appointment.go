package handler

import (
	"barberbook/internal/application/dto"
	"barberbook/internal/application/service"
	"barberbook/internal/pkg/logger"
	"net/http"

	"github.com/labstack/echo/v4"
)

// AppointmentHandler serves the public booking API.
type AppointmentHandler struct {
	appointmentService service.AppointmentService
	schedulerService   service.SchedulerService
	log                logger.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(appointmentService service.AppointmentService, schedulerService service.SchedulerService, log logger.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentService: appointmentService,
		schedulerService:   schedulerService,
		log:                log,
	}
}

// Index reports service status.
func (h *AppointmentHandler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"service":       "barberbook",
		"status":        "running",
		"scheduledJobs": h.schedulerService.Count(),
	})
}

// Create books an appointment.
func (h *AppointmentHandler) Create(c echo.Context) error {
	var req dto.CreateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.appointmentService.BookAppointment(c.Request().Context(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":      true,
		"message":      "Appointment booked",
		"appointment":  resp.Appointment,
		"reminderAt":   resp.ReminderAt,
		"reminderNote": resp.ReminderNote,
	})
}

// List returns appointments ordered by start time, optionally filtered by
// startDate, endDate and status.
func (h *AppointmentHandler) List(c echo.Context) error {
	var req dto.ListAppointmentsRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return badRequest(c, "invalid query parameters")
	}
	appointments, err := h.appointmentService.ListAppointments(c.Request().Context(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"count":         len(appointments),
		"appointments":  appointments,
		"scheduledJobs": h.schedulerService.Count(),
	})
}

// Count returns the number of confirmed appointments on ?date=.
func (h *AppointmentHandler) Count(c echo.Context) error {
	count, err := h.appointmentService.CountAppointments(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": count})
}

// AvailableSlots returns the slot view of ?date=.
func (h *AppointmentHandler) AvailableSlots(c echo.Context) error {
	slots, err := h.appointmentService.AvailableSlots(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"date":           slots.Date,
		"availableSlots": slots.AvailableSlots,
		"bookedSlots":    slots.BookedSlots,
		"allSlots":       slots.AllSlots,
	})
}
