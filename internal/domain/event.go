package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNegativePrice = errors.New("price must not be negative")

const (
	DateLayout   = "2006-01-02"
	DefaultImage = "default-event.jpg"
)

type Event struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Time        string          `json:"time"`
	Location    string          `json:"location"`
	Category    string          `json:"category"`
	Capacity    int             `json:"capacity"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	OrganizerID uint            `json:"organizerId"`
	Organizer   *UserSummary    `json:"organizer,omitempty"`
	IsApproved  bool            `json:"isApproved"`
	Attendees   []UserSummary   `json:"attendees"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CheckPrice guards the price >= 0 invariant.
func (e Event) CheckPrice() error {
	if e.Price.IsNegative() {
		return ErrNegativePrice
	}

	return nil
}

func (e Event) AttendeeCount() int {
	return len(e.Attendees)
}

func (e Event) IsFull() bool {
	return len(e.Attendees) >= e.Capacity
}

func (e Event) HasAttendee(userID uint) bool {
	for _, a := range e.Attendees {
		if a.ID == userID {
			return true
		}
	}

	return false
}

// EventSummary is the projection of an event embedded in payments.
type EventSummary struct {
	ID       uint            `json:"id"`
	Title    string          `json:"title"`
	Date     time.Time       `json:"date"`
	Location string          `json:"location"`
	Price    decimal.Decimal `json:"price"`
}

// EventUpdate carries the fields to change on an event. Nil means unchanged.
type EventUpdate struct {
	Title       *string
	Description *string
	Date        *time.Time
	Time        *string
	Location    *string
	Category    *string
	Capacity    *int
	Price       *decimal.Decimal
	Image       *string
	IsApproved  *bool
}

// Apply copies the provided fields onto e.
func (u EventUpdate) Apply(e *Event) {
	if u.Title != nil {
		e.Title = *u.Title
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Date != nil {
		e.Date = *u.Date
	}
	if u.Time != nil {
		e.Time = *u.Time
	}
	if u.Location != nil {
		e.Location = *u.Location
	}
	if u.Category != nil {
		e.Category = *u.Category
	}
	if u.Capacity != nil {
		e.Capacity = *u.Capacity
	}
	if u.Price != nil {
		e.Price = *u.Price
	}
	if u.Image != nil {
		e.Image = *u.Image
	}
}

// EventFilter narrows event listings. Zero values mean no restriction.
type EventFilter struct {
	ApprovedOnly bool
	PendingOnly  bool
	OrganizerID  uint
}
