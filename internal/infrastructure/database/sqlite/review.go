package sqlite

import (
	"barberbook/internal/domain/constant"
	"barberbook/internal/domain/entity"
	"barberbook/internal/domain/repository"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new instance of ReviewRepository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review from %s: %w", review.Name, err)
	}
	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id string) (*entity.Review, error) {
	var review entity.Review
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review with ID %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to find review by id %s: %w", id, err)
	}
	return &review, nil
}

func (r *reviewRepository) Find(ctx context.Context, filter repository.ReviewFilter) ([]*entity.Review, error) {
	var reviews []*entity.Review
	q := r.db.WithContext(ctx)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Order("created_at desc").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) UpdateStatus(ctx context.Context, id string, status constant.ReviewStatus) (*entity.Review, error) {
	res := r.db.WithContext(ctx).Model(&entity.Review{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update review %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("review with ID %s not found: %w", id, gorm.ErrRecordNotFound)
	}
	return r.FindByID(ctx, id)
}

func (r *reviewRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Review{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete review %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
