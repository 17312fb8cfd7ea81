package request

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"github.com/vietanh2810/eventhub-api/internal/domain"
)

type SubmitPaymentRequest struct {
	EventID             uint            `json:"eventId"`
	Amount              decimal.Decimal `json:"amount" swaggertype:"number"`
	CardNumber          string          `json:"cardNumber" example:"4242 4242 4242 4242"`
	CardHolder          string          `json:"cardHolder"`
	ExpiryDate          string          `json:"expiryDate" example:"12/29"`
	CVV                 string          `json:"cvv,omitempty"`
	NumberOfTickets     int             `json:"numberOfTickets,omitempty"`
	SpecialRequirements string          `json:"specialRequirements,omitempty"`
}

// MissingFields lists the required fields absent from the request. A zero amount
// counts as missing.
func (req *SubmitPaymentRequest) MissingFields() []string {
	var missing []string
	if req.EventID == 0 {
		missing = append(missing, "eventId")
	}
	if req.Amount.IsZero() {
		missing = append(missing, "amount")
	}
	if strings.TrimSpace(req.CardNumber) == "" {
		missing = append(missing, "cardNumber")
	}
	if strings.TrimSpace(req.CardHolder) == "" {
		missing = append(missing, "cardHolder")
	}
	if strings.TrimSpace(req.ExpiryDate) == "" {
		missing = append(missing, "expiryDate")
	}

	return missing
}

// Validate checks formats; presence is reported by MissingFields.
func (req *SubmitPaymentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Amount, nonNegativeRule),
		validation.Field(&req.CardNumber, cardRule),
		validation.Field(&req.ExpiryDate, expiryRule),
		validation.Field(&req.CVV, cvvRule),
		validation.Field(&req.NumberOfTickets, validation.Min(0)),
	)
}

// Payment drops the CVV.
func (req *SubmitPaymentRequest) Payment() domain.Payment {
	return domain.Payment{
		EventID: req.EventID,
		Amount:  req.Amount,
		CardDetails: domain.CardDetails{
			CardNumber: req.CardNumber,
			CardHolder: req.CardHolder,
			ExpiryDate: req.ExpiryDate,
		},
		NumberOfTickets:     req.NumberOfTickets,
		SpecialRequirements: req.SpecialRequirements,
	}
}

// UpdatePaymentRequest edits the card and ticket details. The amount is fixed at
// submission.
type UpdatePaymentRequest struct {
	CardNumber          *string `json:"cardNumber,omitempty"`
	CardHolder          *string `json:"cardHolder,omitempty"`
	ExpiryDate          *string `json:"expiryDate,omitempty"`
	CVV                 *string `json:"cvv,omitempty"`
	NumberOfTickets     *int    `json:"numberOfTickets,omitempty"`
	SpecialRequirements *string `json:"specialRequirements,omitempty"`
}

func (req *UpdatePaymentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.CardNumber, validation.NilOrNotEmpty, cardRule),
		validation.Field(&req.CardHolder, validation.NilOrNotEmpty),
		validation.Field(&req.ExpiryDate, validation.NilOrNotEmpty, expiryRule),
		validation.Field(&req.CVV, cvvRule),
		validation.Field(&req.NumberOfTickets, validation.NilOrNotEmpty, validation.Min(1)),
	)
}

func (req *UpdatePaymentRequest) Update() domain.PaymentUpdate {
	return domain.PaymentUpdate{
		CardNumber:          req.CardNumber,
		CardHolder:          req.CardHolder,
		ExpiryDate:          req.ExpiryDate,
		NumberOfTickets:     req.NumberOfTickets,
		SpecialRequirements: req.SpecialRequirements,
	}
}
