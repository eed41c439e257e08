package handler

import (
	appErrors "barberbook/internal/pkg/errors"
	"barberbook/internal/pkg/logger"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Success        bool     `json:"success"`
	Error          string   `json:"error"`
	AvailableSlots []string `json:"availableSlots,omitempty"`
}

// statusOf maps application errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, appErrors.ErrValidation),
		errors.Is(err, appErrors.ErrPastDate),
		errors.Is(err, appErrors.ErrSlotConflict):
		return http.StatusBadRequest
	case errors.Is(err, appErrors.ErrAppointmentNotFound),
		errors.Is(err, appErrors.ErrReviewNotFound):
		return http.StatusNotFound
	case errors.Is(err, appErrors.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {success:false, error} with the mapped status. Internal
// errors are logged and hidden behind a generic message.
func respondError(c echo.Context, log logger.Logger, err error) error {
	status := statusOf(err)
	body := errorResponse{Error: err.Error()}

	var conflict *appErrors.SlotConflictError
	if errors.As(err, &conflict) {
		body.AvailableSlots = conflict.AvailableSlots
		if body.AvailableSlots == nil {
			body.AvailableSlots = []string{}
		}
	}
	if status == http.StatusInternalServerError {
		log.Error("Request failed: "+c.Request().Method+" "+c.Path(), err)
		body.Error = appErrors.ErrInternalServer.Error()
	}
	return c.JSON(status, body)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}
