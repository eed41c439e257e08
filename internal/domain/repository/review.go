package repository

import (
	"barberbook/internal/domain/constant"
	"barberbook/internal/domain/entity"
	"context"
)

// ReviewFilter narrows Find. Limit <= 0 means no limit.
type ReviewFilter struct {
	Status constant.ReviewStatus
	Limit  int
}

// ReviewRepository defines the interface for review data operations.
type ReviewRepository interface {
	// Create persists a new review and fills in its ID.
	Create(ctx context.Context, review *entity.Review) error
	// FindByID retrieves a review by its ID.
	FindByID(ctx context.Context, id string) (*entity.Review, error)
	// Find retrieves reviews matching the filter, newest first.
	Find(ctx context.Context, filter ReviewFilter) ([]*entity.Review, error)
	// UpdateStatus sets the moderation status and returns the updated record.
	UpdateStatus(ctx context.Context, id string, status constant.ReviewStatus) (*entity.Review, error)
	// Delete removes a review. It reports whether a record was deleted.
	Delete(ctx context.Context, id string) (bool, error)
}
