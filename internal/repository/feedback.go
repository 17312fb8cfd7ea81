package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/eventhub-api/internal/domain"
	"github.com/vietanh2810/eventhub-api/internal/repository/dao"
)

var ErrFeedbackNotFound = dao.ErrFeedbackNotFound

type FeedbackDAO interface {
	Insert(ctx context.Context, feedback dao.Feedback) (dao.Feedback, error)
	Update(ctx context.Context, feedback dao.Feedback) (dao.Feedback, error)
	FindByID(ctx context.Context, id uint) (dao.Feedback, error)
	FindAll(ctx context.Context) ([]dao.Feedback, error)
	Delete(ctx context.Context, id uint) error
}

type FeedbackRepository struct {
	dao FeedbackDAO
}

func NewFeedbackRepository(dao FeedbackDAO) *FeedbackRepository {
	return &FeedbackRepository{
		dao: dao,
	}
}

func (r *FeedbackRepository) Create(ctx context.Context, feedback domain.Feedback) (domain.Feedback, error) {
	created, err := r.dao.Insert(ctx, dao.Feedback{
		Name:    feedback.Name,
		Email:   feedback.Email,
		Message: feedback.Message,
	})
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *FeedbackRepository) Update(ctx context.Context, feedback domain.Feedback) (domain.Feedback, error) {
	updated, err := r.dao.Update(ctx, dao.Feedback{
		ID:        feedback.ID,
		Name:      feedback.Name,
		Email:     feedback.Email,
		Message:   feedback.Message,
		CreatedAt: feedback.CreatedAt,
	})
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *FeedbackRepository) FindByID(ctx context.Context, id uint) (domain.Feedback, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *FeedbackRepository) FindAll(ctx context.Context) ([]domain.Feedback, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	feedback := make([]domain.Feedback, 0, len(found))
	for _, f := range found {
		feedback = append(feedback, r.daoToDomain(f))
	}

	return feedback, nil
}

func (r *FeedbackRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *FeedbackRepository) daoToDomain(f dao.Feedback) domain.Feedback {
	return domain.Feedback{
		ID:        f.ID,
		Name:      f.Name,
		Email:     f.Email,
		Message:   f.Message,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}
