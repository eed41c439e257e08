package handler

import (
	"barberbook/internal/application/dto"
	"barberbook/internal/application/service"
	"barberbook/internal/pkg/logger"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ReviewHandler serves the public review API.
type ReviewHandler struct {
	reviewService service.ReviewService
	log           logger.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService service.ReviewService, log logger.Logger) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, log: log}
}

// List returns approved reviews.
func (h *ReviewHandler) List(c echo.Context) error {
	reviews, err := h.reviewService.ListApprovedReviews(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "reviews": reviews})
}

// Create submits a review for moderation.
func (h *ReviewHandler) Create(c echo.Context) error {
	var req dto.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	review, err := h.reviewService.SubmitReview(c.Request().Context(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Thank you! Your review will appear once approved.",
		"review":  review,
	})
}
