package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vietanh2810/eventhub-api/internal/domain"
	"github.com/vietanh2810/eventhub-api/internal/monitoring"
	"github.com/vietanh2810/eventhub-api/internal/repository"
)

var (
	ErrEventNotFound          = repository.ErrEventNotFound
	ErrAlreadyAttending       = repository.ErrAlreadyAttending
	ErrEventNotAvailable      = errors.New("event is not available")
	ErrEventNotApproved       = errors.New("event is not approved")
	ErrEventFull              = errors.New("event is at full capacity")
	ErrCapacityBelowAttendees = errors.New("capacity is below the number of attendees")
	ErrNegativePrice          = domain.ErrNegativePrice
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindByIDForUpdate(ctx context.Context, id uint) (domain.Event, error)
	FindAll(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error)
	SetApproval(ctx context.Context, id uint, approved bool) error
	AddAttendee(ctx context.Context, eventID, userID uint) error
	Delete(ctx context.Context, id uint) error
}

type EventService struct {
	repo     EventRepository
	tx       Transactor
	notifier Notifier
}

func NewEventService(repo EventRepository, tx Transactor, notifier Notifier) *EventService {
	return &EventService{
		repo:     repo,
		tx:       tx,
		notifier: notifierOrNop(notifier),
	}
}

// CreateEvent stores a new event owned by the actor. Events created by admins are
// approved right away; all others wait for an admin.
func (s *EventService) CreateEvent(ctx context.Context, actor domain.Actor, event domain.Event) (domain.Event, error) {
	event.ID = 0
	event.OrganizerID = actor.ID
	event.IsApproved = actor.IsAdmin()
	if event.Image == "" {
		event.Image = domain.DefaultImage
	}
	if err := event.CheckPrice(); err != nil {
		return domain.Event{}, err
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if !created.IsApproved {
		s.notifier.NotifyAdmins(domain.Notification{
			Type:      domain.NotificationEventSubmitted,
			Message:   fmt.Sprintf("New event %q is waiting for approval", created.Title),
			EventID:   created.ID,
			Timestamp: time.Now(),
		})
	}

	return s.find(ctx, created.ID)
}

// ListEvents returns every event to admins and approved events to everyone else.
func (s *EventService) ListEvents(ctx context.Context, actor domain.Actor) ([]domain.Event, error) {
	return s.list(ctx, domain.EventFilter{ApprovedOnly: !actor.IsAdmin()})
}

func (s *EventService) ListMyEvents(ctx context.Context, actor domain.Actor) ([]domain.Event, error) {
	return s.list(ctx, domain.EventFilter{OrganizerID: actor.ID})
}

func (s *EventService) ListPendingEvents(ctx context.Context, actor domain.Actor) ([]domain.Event, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	return s.list(ctx, domain.EventFilter{PendingOnly: true})
}

func (s *EventService) ListPublicEvents(ctx context.Context) ([]domain.Event, error) {
	return s.list(ctx, domain.EventFilter{ApprovedOnly: true})
}

// GetEvent returns the event if it is approved or the actor is an admin or its
// organizer.
func (s *EventService) GetEvent(ctx context.Context, actor domain.Actor, id uint) (domain.Event, error) {
	event, err := s.find(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}

	if !event.IsApproved && !actor.CanManage(event.OrganizerID) {
		return domain.Event{}, ErrEventNotAvailable
	}

	return event, nil
}

// GetPublicEvent hides unapproved events behind ErrEventNotFound.
func (s *EventService) GetPublicEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.find(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}

	if !event.IsApproved {
		return domain.Event{}, ErrEventNotFound
	}

	return event, nil
}

// UpdateEvent applies upd for the organizer or an admin. An edit by a non-admin sends
// the event back to the approval queue. Capacity may not drop below the attendee count.
func (s *EventService) UpdateEvent(ctx context.Context, actor domain.Actor, id uint, upd domain.EventUpdate) (domain.Event, error) {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		event, err := s.repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("s.repo.FindByIDForUpdate -> %w", err)
		}

		if !actor.CanManage(event.OrganizerID) {
			return ErrForbidden
		}

		if upd.Capacity != nil && *upd.Capacity < event.AttendeeCount() {
			return ErrCapacityBelowAttendees
		}

		upd.Apply(&event)
		if err = event.CheckPrice(); err != nil {
			return err
		}
		if !actor.IsAdmin() {
			event.IsApproved = false
		} else if upd.IsApproved != nil {
			event.IsApproved = *upd.IsApproved
		}

		if _, err = s.repo.Update(ctx, event); err != nil {
			return fmt.Errorf("s.repo.Update -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Event{}, err
	}

	return s.find(ctx, id)
}

func (s *EventService) SetApproval(ctx context.Context, actor domain.Actor, id uint, approved bool) (domain.Event, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Event{}, err
	}

	if err := s.repo.SetApproval(ctx, id, approved); err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.SetApproval -> %w", err)
	}

	return s.find(ctx, id)
}

// DeleteEvent removes the event, its attendee list and its payments.
func (s *EventService) DeleteEvent(ctx context.Context, actor domain.Actor, id uint) error {
	event, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if !actor.CanManage(event.OrganizerID) {
		return ErrForbidden
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// RegisterAttendee adds the actor to the event's attendees. The event row stays locked
// while the approval, duplicate and capacity checks run.
func (s *EventService) RegisterAttendee(ctx context.Context, actor domain.Actor, id uint) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		event, err := s.repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("s.repo.FindByIDForUpdate -> %w", err)
		}

		switch {
		case !event.IsApproved:
			return ErrEventNotApproved
		case event.HasAttendee(actor.ID):
			return ErrAlreadyAttending
		case event.IsFull():
			return ErrEventFull
		}

		if err = s.repo.AddAttendee(ctx, id, actor.ID); err != nil {
			return fmt.Errorf("s.repo.AddAttendee -> %w", err)
		}

		return nil
	})
	if err != nil {
		monitoring.TrackRegistration("direct", "rejected")
		return err
	}

	monitoring.TrackRegistration("direct", "ok")

	return nil
}

func (s *EventService) find(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) list(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	events, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return events, nil
}
