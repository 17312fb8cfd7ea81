package domain

import "time"

type Feedback struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type FeedbackUpdate struct {
	Name    *string
	Email   *string
	Message *string
}

func (u FeedbackUpdate) Apply(f *Feedback) {
	if u.Name != nil {
		f.Name = *u.Name
	}
	if u.Email != nil {
		f.Email = *u.Email
	}
	if u.Message != nil {
		f.Message = *u.Message
	}
}
