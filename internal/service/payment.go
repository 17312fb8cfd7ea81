package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vietanh2810/eventhub-api/internal/domain"
	"github.com/vietanh2810/eventhub-api/internal/monitoring"
	"github.com/vietanh2810/eventhub-api/internal/repository"
)

var (
	ErrPaymentNotFound         = repository.ErrPaymentNotFound
	ErrDuplicatePending        = repository.ErrDuplicatePending
	ErrInvalidStatusTransition = domain.ErrInvalidStatusTransition
	ErrNegativeAmount          = domain.ErrNegativeAmount
	ErrPaymentNotEditable      = errors.New("payment is not editable")
	ErrPaymentNotDeletable     = errors.New("payment is not deletable")
)

type PaymentRepository interface {
	Create(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	Update(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	UpdateStatus(ctx context.Context, id uint, status domain.PaymentStatus) error
	FindByID(ctx context.Context, id uint) (domain.Payment, error)
	FindByIDForUpdate(ctx context.Context, id uint) (domain.Payment, error)
	FindAll(ctx context.Context, filter domain.PaymentFilter) ([]domain.Payment, error)
	ExistsPending(ctx context.Context, userID, eventID uint) (bool, error)
	Delete(ctx context.Context, id uint) error
}

// AttendeeRepository is the part of the event store payments need.
type AttendeeRepository interface {
	FindByIDForUpdate(ctx context.Context, id uint) (domain.Event, error)
	AddAttendee(ctx context.Context, eventID, userID uint) error
}

type PaymentService struct {
	repo     PaymentRepository
	events   AttendeeRepository
	tx       Transactor
	notifier Notifier
}

func NewPaymentService(repo PaymentRepository, events AttendeeRepository, tx Transactor, notifier Notifier) *PaymentService {
	return &PaymentService{
		repo:     repo,
		events:   events,
		tx:       tx,
		notifier: notifierOrNop(notifier),
	}
}

// SubmitPayment records a pending payment by the actor. The event row is locked while
// it is checked so the capacity and duplicate checks cannot race with approvals.
func (s *PaymentService) SubmitPayment(ctx context.Context, actor domain.Actor, payment domain.Payment) (domain.Payment, error) {
	payment.ID = 0
	payment.UserID = actor.ID
	payment.Status = domain.PaymentPending
	payment.CardDetails.CardNumber = domain.MaskCardNumber(payment.CardDetails.CardNumber)
	payment.CardDetails.CardHolder = strings.TrimSpace(payment.CardDetails.CardHolder)
	payment.SpecialRequirements = strings.TrimSpace(payment.SpecialRequirements)
	if payment.NumberOfTickets < 1 {
		payment.NumberOfTickets = 1
	}
	payment.Timestamp = time.Now()
	if err := payment.CheckAmount(); err != nil {
		return domain.Payment{}, err
	}

	var created domain.Payment
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		event, err := s.events.FindByIDForUpdate(ctx, payment.EventID)
		if err != nil {
			return fmt.Errorf("s.events.FindByIDForUpdate -> %w", err)
		}

		switch {
		case !event.IsApproved:
			return ErrEventNotApproved
		case event.HasAttendee(actor.ID):
			return ErrAlreadyAttending
		case event.IsFull():
			return ErrEventFull
		}

		pending, err := s.repo.ExistsPending(ctx, actor.ID, event.ID)
		if err != nil {
			return fmt.Errorf("s.repo.ExistsPending -> %w", err)
		}
		if pending {
			return ErrDuplicatePending
		}

		created, err = s.repo.Create(ctx, payment)
		if err != nil {
			return fmt.Errorf("s.repo.Create -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Payment{}, err
	}

	s.notifier.NotifyAdmins(domain.Notification{
		Type:      domain.NotificationPaymentSubmitted,
		Message:   "A new payment is waiting for approval",
		EventID:   created.EventID,
		PaymentID: created.ID,
		Timestamp: time.Now(),
	})

	return s.find(ctx, created.ID)
}

func (s *PaymentService) ListPendingPayments(ctx context.Context, actor domain.Actor) ([]domain.Payment, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	return s.list(ctx, domain.PaymentFilter{Status: domain.PaymentPending})
}

func (s *PaymentService) ListPayments(ctx context.Context, actor domain.Actor) ([]domain.Payment, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	return s.list(ctx, domain.PaymentFilter{})
}

func (s *PaymentService) ListMyPayments(ctx context.Context, actor domain.Actor) ([]domain.Payment, error) {
	return s.list(ctx, domain.PaymentFilter{UserID: actor.ID})
}

func (s *PaymentService) GetPayment(ctx context.Context, actor domain.Actor, id uint) (domain.Payment, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Payment{}, err
	}

	return s.find(ctx, id)
}

// UpdatePayment edits a pending or rejected payment for its owner or an admin. Editing
// a rejected payment resubmits it as pending.
func (s *PaymentService) UpdatePayment(ctx context.Context, actor domain.Actor, id uint, upd domain.PaymentUpdate) (domain.Payment, error) {
	var from domain.PaymentStatus
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		payment, err := s.repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("s.repo.FindByIDForUpdate -> %w", err)
		}

		if !actor.CanManage(payment.UserID) {
			return ErrForbidden
		}
		if !payment.Status.Editable() {
			return ErrPaymentNotEditable
		}

		from = payment.Status
		upd.Apply(&payment)
		if payment.Status == domain.PaymentRejected {
			if err = payment.TransitionTo(domain.PaymentPending); err != nil {
				return err
			}
		}

		if _, err = s.repo.Update(ctx, payment); err != nil {
			return fmt.Errorf("s.repo.Update -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Payment{}, err
	}

	if from == domain.PaymentRejected {
		monitoring.TrackPaymentTransition(string(from), string(domain.PaymentPending))
		s.notifier.NotifyAdmins(domain.Notification{
			Type:      domain.NotificationPaymentSubmitted,
			Message:   "A rejected payment was resubmitted",
			PaymentID: id,
			Timestamp: time.Now(),
		})
	}

	return s.find(ctx, id)
}

// DeletePayment removes a pending payment for its owner or an admin.
func (s *PaymentService) DeletePayment(ctx context.Context, actor domain.Actor, id uint) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		payment, err := s.repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("s.repo.FindByIDForUpdate -> %w", err)
		}

		if !actor.CanManage(payment.UserID) {
			return ErrForbidden
		}
		if !payment.Status.Deletable() {
			return ErrPaymentNotDeletable
		}

		if err = s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("s.repo.Delete -> %w", err)
		}

		return nil
	})
}

func (s *PaymentService) find(ctx context.Context, id uint) (domain.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return payment, nil
}

func (s *PaymentService) list(ctx context.Context, filter domain.PaymentFilter) ([]domain.Payment, error) {
	payments, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return payments, nil
}
