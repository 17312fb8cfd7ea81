package response

import "github.com/vietanh2810/eventhub-api/internal/domain"

type AuthResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Token   string      `json:"token,omitempty"`
	User    domain.User `json:"user"`
}

type UsersResponse struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Users   []domain.User `json:"users"`
}

type EventResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Event   domain.Event `json:"event"`
}

type EventsResponse struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Events  []domain.Event `json:"events"`
}

type RegistrationResponse struct {
	Success             bool   `json:"success"`
	Message             string `json:"message"`
	NumberOfTickets     int    `json:"numberOfTickets"`
	SpecialRequirements string `json:"specialRequirements"`
}

type PaymentResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Payment domain.Payment `json:"payment"`
}

type PaymentsResponse struct {
	Success  bool             `json:"success"`
	Count    int              `json:"count"`
	Payments []domain.Payment `json:"payments"`
}

type FeedbackResponse struct {
	Success  bool            `json:"success"`
	Feedback domain.Feedback `json:"feedback"`
}

type FeedbackListResponse struct {
	Success  bool              `json:"success"`
	Count    int               `json:"count"`
	Feedback []domain.Feedback `json:"feedback"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func Message(msg string) MessageResponse {
	return MessageResponse{Success: true, Message: msg}
}
