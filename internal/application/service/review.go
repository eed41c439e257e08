package service

import (
	"barberbook/internal/application/dto"
	"barberbook/internal/domain/entity"
	"context"
)

// ReviewService defines the interface for customer reviews and their moderation.
type ReviewService interface {
	// SubmitReview stores a pending review and emails the admin.
	SubmitReview(ctx context.Context, req dto.CreateReviewRequest) (*entity.Review, error)
	// ListApprovedReviews returns the newest approved reviews.
	ListApprovedReviews(ctx context.Context) ([]*entity.Review, error)
	// ListReviews returns reviews for moderation, optionally filtered by status.
	ListReviews(ctx context.Context, status string) ([]*entity.Review, error)
	// UpdateReviewStatus approves or rejects a review.
	UpdateReviewStatus(ctx context.Context, id string, req dto.UpdateReviewStatusRequest) (*entity.Review, error)
	// DeleteReview removes a review.
	DeleteReview(ctx context.Context, id string) error
}
