package service

import (
	"barberbook/internal/application/dto"
	"barberbook/internal/application/notification"
	"barberbook/internal/domain/constant"
	"barberbook/internal/domain/entity"
	"barberbook/internal/domain/repository"
	appErrors "barberbook/internal/pkg/errors"
	"barberbook/internal/pkg/logger"
	"context"
	"fmt"
	"strings"
)

// publicReviewLimit caps the public review list.
const publicReviewLimit = 50

type reviewService struct {
	reviewRepo    repository.ReviewRepository
	adminNotifier Notifier
	admin         notification.Recipient
	log           logger.Logger
}

// NewReviewService creates a new instance of ReviewService implementation.
func NewReviewService(reviewRepo repository.ReviewRepository, adminNotifier Notifier, admin notification.Recipient, log logger.Logger) ReviewService {
	return &reviewService{
		reviewRepo:    reviewRepo,
		adminNotifier: adminNotifier,
		admin:         admin,
		log:           log,
	}
}

// SubmitReview validates and stores a review awaiting moderation.
func (s *reviewService) SubmitReview(ctx context.Context, req dto.CreateReviewRequest) (*entity.Review, error) {
	name := strings.TrimSpace(req.Name)
	comment := strings.TrimSpace(req.Comment)
	if name == "" || comment == "" {
		return nil, fmt.Errorf("%w: name, rating and comment are required", appErrors.ErrValidation)
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", appErrors.ErrValidation)
	}

	review := &entity.Review{
		Name:    name,
		Rating:  req.Rating,
		Comment: comment,
		Status:  constant.ReviewPending,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		s.log.Error("Failed to create review", err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.log.Info(fmt.Sprintf("Review %s submitted by %s", review.ID, review.Name))

	copied := *review
	go func() {
		if err := s.adminNotifier.Notify(context.WithoutCancel(ctx), notification.NewReviewMessage(&copied), s.admin); err != nil {
			s.log.Warn(fmt.Sprintf("Review notification failed: %v", err))
		}
	}()
	return review, nil
}

func (s *reviewService) ListApprovedReviews(ctx context.Context) ([]*entity.Review, error) {
	return s.find(ctx, repository.ReviewFilter{Status: constant.ReviewApproved, Limit: publicReviewLimit})
}

func (s *reviewService) ListReviews(ctx context.Context, status string) ([]*entity.Review, error) {
	filter := repository.ReviewFilter{}
	if status != "" {
		filter.Status = constant.ReviewStatus(status)
		if !filter.Status.Valid() {
			return nil, fmt.Errorf("%w: invalid status %q", appErrors.ErrValidation, status)
		}
	}
	return s.find(ctx, filter)
}

func (s *reviewService) find(ctx context.Context, filter repository.ReviewFilter) ([]*entity.Review, error) {
	reviews, err := s.reviewRepo.Find(ctx, filter)
	if err != nil {
		s.log.Error("Failed to list reviews", err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return reviews, nil
}

// UpdateReviewStatus moderates a review.
func (s *reviewService) UpdateReviewStatus(ctx context.Context, id string, req dto.UpdateReviewStatusRequest) (*entity.Review, error) {
	status := constant.ReviewStatus(strings.TrimSpace(req.Status))
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", appErrors.ErrValidation, req.Status)
	}

	review, err := s.reviewRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.ErrReviewNotFound
		}
		s.log.Error(fmt.Sprintf("Failed to update review %s", id), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.log.Info(fmt.Sprintf("Review %s is now %s", id, status))
	return review, nil
}

// DeleteReview removes a review by its ID.
func (s *reviewService) DeleteReview(ctx context.Context, id string) error {
	deleted, err := s.reviewRepo.Delete(ctx, id)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to delete review %s", id), err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	if !deleted {
		return appErrors.ErrReviewNotFound
	}
	s.log.Info(fmt.Sprintf("Deleted review %s", id))
	return nil
}
