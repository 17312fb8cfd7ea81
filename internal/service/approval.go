package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vietanh2810/eventhub-api/internal/domain"
	"github.com/vietanh2810/eventhub-api/internal/monitoring"
)

type ApprovalService struct {
	payments PaymentRepository
	events   AttendeeRepository
	tx       Transactor
	notifier Notifier
}

func NewApprovalService(payments PaymentRepository, events AttendeeRepository, tx Transactor, notifier Notifier) *ApprovalService {
	return &ApprovalService{
		payments: payments,
		events:   events,
		tx:       tx,
		notifier: notifierOrNop(notifier),
	}
}

// Approve marks a pending payment approved and adds its payer to the event's attendees.
// Both writes commit together or not at all. The payment and event rows are locked for
// the duration.
func (s *ApprovalService) Approve(ctx context.Context, actor domain.Actor, paymentID uint) (domain.Payment, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Payment{}, err
	}

	var payment domain.Payment
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		payment, err = s.payments.FindByIDForUpdate(ctx, paymentID)
		if err != nil {
			return fmt.Errorf("s.payments.FindByIDForUpdate -> %w", err)
		}

		if payment.Status != domain.PaymentPending {
			return &domain.TransitionError{From: payment.Status, To: domain.PaymentApproved}
		}

		event, err := s.events.FindByIDForUpdate(ctx, payment.EventID)
		if err != nil {
			return fmt.Errorf("s.events.FindByIDForUpdate -> %w", err)
		}

		if event.IsFull() {
			return ErrEventFull
		}

		if err = payment.TransitionTo(domain.PaymentApproved); err != nil {
			return err
		}
		if err = s.payments.UpdateStatus(ctx, payment.ID, payment.Status); err != nil {
			return fmt.Errorf("s.payments.UpdateStatus -> %w", err)
		}

		if !event.HasAttendee(payment.UserID) {
			if err = s.events.AddAttendee(ctx, event.ID, payment.UserID); err != nil {
				return fmt.Errorf("s.events.AddAttendee -> %w", err)
			}
		}

		return nil
	})
	if err != nil {
		monitoring.TrackRegistration("approval", "rejected")
		return domain.Payment{}, err
	}

	monitoring.TrackPaymentTransition(string(domain.PaymentPending), string(domain.PaymentApproved))
	monitoring.TrackRegistration("approval", "ok")
	s.notifier.NotifyUser(payment.UserID, domain.Notification{
		Type:      domain.NotificationPaymentApproved,
		Message:   "Your payment was approved and you are registered for the event",
		EventID:   payment.EventID,
		PaymentID: payment.ID,
		Timestamp: time.Now(),
	})

	return s.find(ctx, paymentID)
}

// Reject marks a pending payment rejected. The event is left untouched.
func (s *ApprovalService) Reject(ctx context.Context, actor domain.Actor, paymentID uint) (domain.Payment, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Payment{}, err
	}

	var payment domain.Payment
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		payment, err = s.payments.FindByIDForUpdate(ctx, paymentID)
		if err != nil {
			return fmt.Errorf("s.payments.FindByIDForUpdate -> %w", err)
		}

		if err = payment.TransitionTo(domain.PaymentRejected); err != nil {
			return err
		}
		if err = s.payments.UpdateStatus(ctx, payment.ID, payment.Status); err != nil {
			return fmt.Errorf("s.payments.UpdateStatus -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Payment{}, err
	}

	monitoring.TrackPaymentTransition(string(domain.PaymentPending), string(domain.PaymentRejected))
	s.notifier.NotifyUser(payment.UserID, domain.Notification{
		Type:      domain.NotificationPaymentRejected,
		Message:   "Your payment was rejected. You can edit and resubmit it.",
		EventID:   payment.EventID,
		PaymentID: payment.ID,
		Timestamp: time.Now(),
	})

	return s.find(ctx, paymentID)
}

func (s *ApprovalService) find(ctx context.Context, id uint) (domain.Payment, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.payments.FindByID -> %w", err)
	}

	return payment, nil
}
