package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vietanh2810/eventhub-api/internal/domain"
	"github.com/vietanh2810/eventhub-api/internal/repository"
)

var ErrFeedbackNotFound = repository.ErrFeedbackNotFound

type FeedbackRepository interface {
	Create(ctx context.Context, feedback domain.Feedback) (domain.Feedback, error)
	Update(ctx context.Context, feedback domain.Feedback) (domain.Feedback, error)
	FindByID(ctx context.Context, id uint) (domain.Feedback, error)
	FindAll(ctx context.Context) ([]domain.Feedback, error)
	Delete(ctx context.Context, id uint) error
}

type FeedbackService struct {
	repo FeedbackRepository
}

func NewFeedbackService(repo FeedbackRepository) *FeedbackService {
	return &FeedbackService{
		repo: repo,
	}
}

func (s *FeedbackService) CreateFeedback(ctx context.Context, feedback domain.Feedback) (domain.Feedback, error) {
	feedback.Name = strings.TrimSpace(feedback.Name)
	feedback.Email = normalizeEmail(feedback.Email)

	created, err := s.repo.Create(ctx, feedback)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *FeedbackService) ListFeedback(ctx context.Context) ([]domain.Feedback, error) {
	feedback, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return feedback, nil
}

func (s *FeedbackService) GetFeedback(ctx context.Context, id uint) (domain.Feedback, error) {
	feedback, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return feedback, nil
}

func (s *FeedbackService) UpdateFeedback(ctx context.Context, id uint, upd domain.FeedbackUpdate) (domain.Feedback, error) {
	feedback, err := s.GetFeedback(ctx, id)
	if err != nil {
		return domain.Feedback{}, err
	}

	upd.Apply(&feedback)
	feedback.Email = normalizeEmail(feedback.Email)

	updated, err := s.repo.Update(ctx, feedback)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *FeedbackService) DeleteFeedback(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
