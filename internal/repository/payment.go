package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/eventhub-api/internal/domain"
	"github.com/vietanh2810/eventhub-api/internal/repository/dao"
)

var (
	ErrPaymentNotFound  = dao.ErrPaymentNotFound
	ErrDuplicatePending = dao.ErrDuplicatePending
)

type PaymentDAO interface {
	Insert(ctx context.Context, payment dao.Payment) (dao.Payment, error)
	Update(ctx context.Context, payment dao.Payment) (dao.Payment, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	FindByID(ctx context.Context, id uint) (dao.Payment, error)
	FindByIDForUpdate(ctx context.Context, id uint) (dao.Payment, error)
	FindAll(ctx context.Context, q dao.PaymentQuery) ([]dao.Payment, error)
	ExistsPending(ctx context.Context, userID, eventID uint) (bool, error)
	Delete(ctx context.Context, id uint) error
}

type PaymentRepository struct {
	dao PaymentDAO
}

func NewPaymentRepository(dao PaymentDAO) *PaymentRepository {
	return &PaymentRepository{
		dao: dao,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(payment))
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PaymentRepository) Update(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	updated, err := r.dao.Update(ctx, r.domainToDAO(payment))
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id uint, status domain.PaymentStatus) error {
	if err := r.dao.UpdateStatus(ctx, id, string(status)); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uint) (domain.Payment, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PaymentRepository) FindByIDForUpdate(ctx context.Context, id uint) (domain.Payment, error) {
	found, err := r.dao.FindByIDForUpdate(ctx, id)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.FindByIDForUpdate -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PaymentRepository) FindAll(ctx context.Context, filter domain.PaymentFilter) ([]domain.Payment, error) {
	found, err := r.dao.FindAll(ctx, dao.PaymentQuery{
		Status: string(filter.Status),
		UserID: filter.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	payments := make([]domain.Payment, 0, len(found))
	for _, p := range found {
		payments = append(payments, r.daoToDomain(p))
	}

	return payments, nil
}

func (r *PaymentRepository) ExistsPending(ctx context.Context, userID, eventID uint) (bool, error) {
	exists, err := r.dao.ExistsPending(ctx, userID, eventID)
	if err != nil {
		return false, fmt.Errorf("r.dao.ExistsPending -> %w", err)
	}

	return exists, nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *PaymentRepository) daoToDomain(p dao.Payment) domain.Payment {
	payment := domain.Payment{
		ID:      p.ID,
		UserID:  p.UserID,
		EventID: p.EventID,
		Amount:  p.Amount,
		CardDetails: domain.CardDetails{
			CardNumber: p.CardNumber,
			CardHolder: p.CardHolder,
			ExpiryDate: p.CardExpiry,
		},
		Status:              domain.PaymentStatus(p.Status),
		NumberOfTickets:     p.NumberOfTickets,
		SpecialRequirements: p.SpecialRequirements,
		Timestamp:           p.Timestamp,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
	if p.User.ID != 0 {
		user := userSummary(p.User)
		payment.User = &user
	}
	if p.Event.ID != 0 {
		payment.Event = &domain.EventSummary{
			ID:       p.Event.ID,
			Title:    p.Event.Title,
			Date:     p.Event.Date,
			Location: p.Event.Location,
			Price:    p.Event.Price,
		}
	}

	return payment
}

func (r *PaymentRepository) domainToDAO(p domain.Payment) dao.Payment {
	return dao.Payment{
		ID:                  p.ID,
		UserID:              p.UserID,
		EventID:             p.EventID,
		Amount:              p.Amount,
		CardNumber:          p.CardDetails.CardNumber,
		CardHolder:          p.CardDetails.CardHolder,
		CardExpiry:          p.CardDetails.ExpiryDate,
		Status:              string(p.Status),
		NumberOfTickets:     p.NumberOfTickets,
		SpecialRequirements: p.SpecialRequirements,
		Timestamp:           p.Timestamp,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}
