package dao

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrAlreadyAttending = errors.New("user already attends event")
)

type Event struct {
	ID          uint            `gorm:"primaryKey"`
	Title       string          `gorm:"not null"`
	Description string          `gorm:"not null"`
	Date        time.Time       `gorm:"not null"`
	Time        string          `gorm:"not null"`
	Location    string          `gorm:"not null"`
	Category    string          `gorm:"not null"`
	Capacity    int             `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Image       string          `gorm:"not null"`
	OrganizerID uint            `gorm:"not null;index"`
	Organizer   User            `gorm:"foreignKey:OrganizerID"`
	IsApproved  bool            `gorm:"not null;index"`
	Attendees   []User          `gorm:"many2many:event_attendees;"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// EventAttendee is the join row between events and users. The composite primary key
// makes a second registration of the same user impossible.
type EventAttendee struct {
	EventID   uint `gorm:"primaryKey"`
	UserID    uint `gorm:"primaryKey"`
	CreatedAt time.Time
}

type EventQuery struct {
	ApprovedOnly bool
	PendingOnly  bool
	OrganizerID  uint
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func selectUserSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "email")
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := conn(ctx, d.db).Omit(clause.Associations).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) Update(ctx context.Context, event Event) (Event, error) {
	result := conn(ctx, d.db).Omit(clause.Associations).Save(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := conn(ctx, d.db).
		Preload("Organizer", selectUserSummary).
		Preload("Attendees", selectUserSummary).
		First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

// FindByIDForUpdate locks the event row until the surrounding transaction ends and
// loads the attendee ids.
func (d *EventDAO) FindByIDForUpdate(ctx context.Context, id uint) (Event, error) {
	var event Event

	db := conn(ctx, d.db)
	result := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	var userIDs []uint
	if err := db.Model(&EventAttendee{}).Where("event_id = ?", id).Pluck("user_id", &userIDs).Error; err != nil {
		return Event{}, err
	}
	for _, userID := range userIDs {
		event.Attendees = append(event.Attendees, User{ID: userID})
	}

	return event, nil
}

func (d *EventDAO) FindAll(ctx context.Context, q EventQuery) ([]Event, error) {
	var events []Event

	db := conn(ctx, d.db).Preload("Organizer", selectUserSummary).Preload("Attendees", selectUserSummary)
	if q.ApprovedOnly {
		db = db.Where("is_approved = ?", true)
	}
	if q.PendingOnly {
		db = db.Where("is_approved = ?", false)
	}
	if q.OrganizerID != 0 {
		db = db.Where("organizer_id = ?", q.OrganizerID)
	}

	result := db.Order("created_at desc").Order("id desc").Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) SetApproval(ctx context.Context, id uint, approved bool) error {
	result := conn(ctx, d.db).Model(&Event{}).Where("id = ?", id).Update("is_approved", approved)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (d *EventDAO) AddAttendee(ctx context.Context, eventID, userID uint) error {
	result := conn(ctx, d.db).Create(&EventAttendee{EventID: eventID, UserID: userID})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrAlreadyAttending
		}

		return result.Error
	}

	return nil
}

// Delete removes the event together with its attendee rows and payments.
func (d *EventDAO) Delete(ctx context.Context, id uint) error {
	return conn(ctx, d.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&EventAttendee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&Payment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&Event{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrEventNotFound
		}

		return nil
	})
}
