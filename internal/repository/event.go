package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/eventhub-api/internal/domain"
	"github.com/vietanh2810/eventhub-api/internal/repository/dao"
)

var (
	ErrEventNotFound    = dao.ErrEventNotFound
	ErrAlreadyAttending = dao.ErrAlreadyAttending
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	Update(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	FindByIDForUpdate(ctx context.Context, id uint) (dao.Event, error)
	FindAll(ctx context.Context, q dao.EventQuery) ([]dao.Event, error)
	SetApproval(ctx context.Context, id uint, approved bool) error
	AddAttendee(ctx context.Context, eventID, userID uint) error
	Delete(ctx context.Context, id uint) error
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, r.domainToDAO(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

// FindByIDForUpdate must run inside a transaction. Attendees carry ids only.
func (r *EventRepository) FindByIDForUpdate(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByIDForUpdate(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByIDForUpdate -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *EventRepository) FindAll(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	found, err := r.dao.FindAll(ctx, dao.EventQuery{
		ApprovedOnly: filter.ApprovedOnly,
		PendingOnly:  filter.PendingOnly,
		OrganizerID:  filter.OrganizerID,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	events := make([]domain.Event, 0, len(found))
	for _, e := range found {
		events = append(events, r.daoToDomain(e))
	}

	return events, nil
}

func (r *EventRepository) SetApproval(ctx context.Context, id uint, approved bool) error {
	if err := r.dao.SetApproval(ctx, id, approved); err != nil {
		return fmt.Errorf("r.dao.SetApproval -> %w", err)
	}

	return nil
}

func (r *EventRepository) AddAttendee(ctx context.Context, eventID, userID uint) error {
	if err := r.dao.AddAttendee(ctx, eventID, userID); err != nil {
		return fmt.Errorf("r.dao.AddAttendee -> %w", err)
	}

	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	event := domain.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Time:        e.Time,
		Location:    e.Location,
		Category:    e.Category,
		Capacity:    e.Capacity,
		Price:       e.Price,
		Image:       e.Image,
		OrganizerID: e.OrganizerID,
		IsApproved:  e.IsApproved,
		Attendees:   make([]domain.UserSummary, 0, len(e.Attendees)),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.Organizer.ID != 0 {
		organizer := userSummary(e.Organizer)
		event.Organizer = &organizer
	}
	for _, a := range e.Attendees {
		event.Attendees = append(event.Attendees, userSummary(a))
	}

	return event
}

func (r *EventRepository) domainToDAO(e domain.Event) dao.Event {
	return dao.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Time:        e.Time,
		Location:    e.Location,
		Category:    e.Category,
		Capacity:    e.Capacity,
		Price:       e.Price,
		Image:       e.Image,
		OrganizerID: e.OrganizerID,
		IsApproved:  e.IsApproved,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
