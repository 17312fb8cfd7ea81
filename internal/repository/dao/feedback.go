package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrFeedbackNotFound = errors.New("feedback not found")

type Feedback struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"not null"`
	Message   string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type FeedbackDAO struct {
	db *gorm.DB
}

func NewFeedbackDAO(db *gorm.DB) *FeedbackDAO {
	return &FeedbackDAO{
		db: db,
	}
}

func (d *FeedbackDAO) Insert(ctx context.Context, feedback Feedback) (Feedback, error) {
	result := conn(ctx, d.db).Create(&feedback)
	if result.Error != nil {
		return Feedback{}, result.Error
	}

	return feedback, nil
}

func (d *FeedbackDAO) Update(ctx context.Context, feedback Feedback) (Feedback, error) {
	result := conn(ctx, d.db).Save(&feedback)
	if result.Error != nil {
		return Feedback{}, result.Error
	}

	return feedback, nil
}

func (d *FeedbackDAO) FindByID(ctx context.Context, id uint) (Feedback, error) {
	var feedback Feedback

	result := conn(ctx, d.db).First(&feedback, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Feedback{}, ErrFeedbackNotFound
		}

		return Feedback{}, result.Error
	}

	return feedback, nil
}

func (d *FeedbackDAO) FindAll(ctx context.Context) ([]Feedback, error) {
	var feedback []Feedback

	result := conn(ctx, d.db).Order("created_at desc").Order("id desc").Find(&feedback)
	if result.Error != nil {
		return nil, result.Error
	}

	return feedback, nil
}

func (d *FeedbackDAO) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, d.db).Delete(&Feedback{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFeedbackNotFound
	}

	return nil
}
