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
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrDuplicatePending = errors.New("pending payment already exists")
)

type Payment struct {
	ID uint `gorm:"primaryKey"`

	// At most one pending payment per (user, event).
	UserID  uint  `gorm:"not null;index;uniqueIndex:idx_payments_pending_user_event,where:status = 'pending'"`
	User    User  `gorm:"foreignKey:UserID"`
	EventID uint  `gorm:"not null;index;uniqueIndex:idx_payments_pending_user_event,where:status = 'pending'"`
	Event   Event `gorm:"foreignKey:EventID"`

	Amount     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CardNumber string          `gorm:"not null"`
	CardHolder string          `gorm:"not null"`
	CardExpiry string          `gorm:"not null"`

	Status              string `gorm:"not null;index"`
	NumberOfTickets     int    `gorm:"not null"`
	SpecialRequirements string
	Timestamp           time.Time `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type PaymentQuery struct {
	Status string
	UserID uint
}

type PaymentDAO struct {
	db *gorm.DB
}

func NewPaymentDAO(db *gorm.DB) *PaymentDAO {
	return &PaymentDAO{
		db: db,
	}
}

func preloadPaymentRefs(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User", selectUserSummary).
		Preload("Event", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "date", "location", "price")
		})
}

func (d *PaymentDAO) Insert(ctx context.Context, payment Payment) (Payment, error) {
	result := conn(ctx, d.db).Omit(clause.Associations).Create(&payment)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return Payment{}, ErrDuplicatePending
		}

		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) Update(ctx context.Context, payment Payment) (Payment, error) {
	result := conn(ctx, d.db).Omit(clause.Associations).Save(&payment)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return Payment{}, ErrDuplicatePending
		}

		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := conn(ctx, d.db).Model(&Payment{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrDuplicatePending
		}

		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

func (d *PaymentDAO) FindByID(ctx context.Context, id uint) (Payment, error) {
	var payment Payment

	result := preloadPaymentRefs(conn(ctx, d.db)).First(&payment, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Payment{}, ErrPaymentNotFound
		}

		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) FindByIDForUpdate(ctx context.Context, id uint) (Payment, error) {
	var payment Payment

	result := conn(ctx, d.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&payment, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Payment{}, ErrPaymentNotFound
		}

		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) FindAll(ctx context.Context, q PaymentQuery) ([]Payment, error) {
	var payments []Payment

	db := preloadPaymentRefs(conn(ctx, d.db))
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.UserID != 0 {
		db = db.Where("user_id = ?", q.UserID)
	}

	result := db.Order("created_at desc").Order("id desc").Find(&payments)
	if result.Error != nil {
		return nil, result.Error
	}

	return payments, nil
}

func (d *PaymentDAO) ExistsPending(ctx context.Context, userID, eventID uint) (bool, error) {
	var count int64

	result := conn(ctx, d.db).Model(&Payment{}).
		Where("user_id = ? AND event_id = ? AND status = ?", userID, eventID, "pending").
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *PaymentDAO) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, d.db).Delete(&Payment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}
