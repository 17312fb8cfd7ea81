package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/eventhub-api/internal/domain"
)

type FeedbackRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (req *FeedbackRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Email, validation.Required, emailRule),
		validation.Field(&req.Message, validation.Required),
	)
}

func (req *FeedbackRequest) Feedback() domain.Feedback {
	return domain.Feedback{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}
}

type UpdateFeedbackRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Message *string `json:"message,omitempty"`
}

func (req *UpdateFeedbackRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&req.Email, validation.NilOrNotEmpty, emailRule),
		validation.Field(&req.Message, validation.NilOrNotEmpty),
	)
}

func (req *UpdateFeedbackRequest) Update() domain.FeedbackUpdate {
	return domain.FeedbackUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}
}
