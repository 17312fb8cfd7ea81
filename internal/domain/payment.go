package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidStatusTransition = errors.New("invalid payment status transition")
	ErrNegativeAmount          = errors.New("amount must not be negative")
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:  {PaymentApproved, PaymentRejected},
	PaymentRejected: {PaymentPending},
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentApproved, PaymentRejected:
		return true
	}

	return false
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Editable reports whether the owner may still change the payment details.
func (s PaymentStatus) Editable() bool {
	return s == PaymentPending || s == PaymentRejected
}

func (s PaymentStatus) Deletable() bool {
	return s == PaymentPending
}

// TransitionError is returned when a payment is moved along an edge missing from the
// transition table.
type TransitionError struct {
	From PaymentStatus
	To   PaymentStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("Payment already %s", e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidStatusTransition
}

type CardDetails struct {
	CardNumber string `json:"cardNumber"`
	CardHolder string `json:"cardHolder"`
	ExpiryDate string `json:"expiryDate"`
}

type Payment struct {
	ID                  uint            `json:"id"`
	UserID              uint            `json:"userId"`
	User                *UserSummary    `json:"user,omitempty"`
	EventID             uint            `json:"eventId"`
	Event               *EventSummary   `json:"event,omitempty"`
	Amount              decimal.Decimal `json:"amount"`
	CardDetails         CardDetails     `json:"cardDetails"`
	Status              PaymentStatus   `json:"status"`
	NumberOfTickets     int             `json:"numberOfTickets"`
	SpecialRequirements string          `json:"specialRequirements"`
	Timestamp           time.Time       `json:"timestamp"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

func (p Payment) CheckAmount() error {
	if p.Amount.IsNegative() {
		return ErrNegativeAmount
	}

	return nil
}

// TransitionTo moves the payment to next if the transition table allows it.
func (p *Payment) TransitionTo(next PaymentStatus) error {
	if !p.Status.CanTransitionTo(next) {
		return &TransitionError{From: p.Status, To: next}
	}
	p.Status = next

	return nil
}

// PaymentUpdate carries the fields to change on a payment. Nil means unchanged. The
// amount is not editable.
type PaymentUpdate struct {
	CardNumber          *string
	CardHolder          *string
	ExpiryDate          *string
	NumberOfTickets     *int
	SpecialRequirements *string
}

// Apply copies the provided fields onto p, masking a new card number.
func (u PaymentUpdate) Apply(p *Payment) {
	if u.CardNumber != nil {
		p.CardDetails.CardNumber = MaskCardNumber(*u.CardNumber)
	}
	if u.CardHolder != nil {
		p.CardDetails.CardHolder = strings.TrimSpace(*u.CardHolder)
	}
	if u.ExpiryDate != nil {
		p.CardDetails.ExpiryDate = *u.ExpiryDate
	}
	if u.NumberOfTickets != nil {
		p.NumberOfTickets = *u.NumberOfTickets
	}
	if u.SpecialRequirements != nil {
		p.SpecialRequirements = strings.TrimSpace(*u.SpecialRequirements)
	}
}

// PaymentFilter narrows payment listings. Zero values mean no restriction.
type PaymentFilter struct {
	Status PaymentStatus
	UserID uint
}

// MaskCardNumber keeps the last four digits and replaces every other character with
// '*', preserving the length. Spaces are dropped first.
func MaskCardNumber(number string) string {
	digits := strings.ReplaceAll(strings.TrimSpace(number), " ", "")
	if len(digits) <= 4 {
		return digits
	}

	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}
