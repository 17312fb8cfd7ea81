package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"github.com/vietanh2810/eventhub-api/internal/domain"
)

var (
	errInvalidDate     = errors.New("Date must be in YYYY-MM-DD format")
	errNegativeAmount  = errors.New("must not be negative")
	errApprovalMissing = errors.New("isApproved must be provided")
)

// CreateEventRequest binds from JSON or from a multipart form carrying an image.
type CreateEventRequest struct {
	Title       string          `json:"title" form:"title"`
	Description string          `json:"description" form:"description"`
	Date        string          `json:"date" form:"date" example:"2025-06-01"`
	Time        string          `json:"time" form:"time" example:"18:30"`
	Location    string          `json:"location" form:"location"`
	Category    string          `json:"category" form:"category"`
	Capacity    int             `json:"capacity" form:"capacity"`
	Price       decimal.Decimal `json:"price" form:"price" swaggertype:"number"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Required),
		validation.Field(&req.Date, validation.Required, dateRule),
		validation.Field(&req.Time, validation.Required, timeRule),
		validation.Field(&req.Location, validation.Required),
		validation.Field(&req.Category, validation.Required),
		validation.Field(&req.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&req.Price, nonNegativeRule),
	)
}

// Event assumes Validate passed.
func (req *CreateEventRequest) Event() domain.Event {
	date, _ := parseDate(req.Date)

	return domain.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Time:        req.Time,
		Location:    req.Location,
		Category:    req.Category,
		Capacity:    req.Capacity,
		Price:       req.Price,
	}
}

type UpdateEventRequest struct {
	Title       *string          `json:"title,omitempty" form:"title"`
	Description *string          `json:"description,omitempty" form:"description"`
	Date        *string          `json:"date,omitempty" form:"date"`
	Time        *string          `json:"time,omitempty" form:"time"`
	Location    *string          `json:"location,omitempty" form:"location"`
	Category    *string          `json:"category,omitempty" form:"category"`
	Capacity    *int             `json:"capacity,omitempty" form:"capacity"`
	Price       *decimal.Decimal `json:"price,omitempty" form:"price" swaggertype:"number"`
	IsApproved  *bool            `json:"isApproved,omitempty" form:"isApproved"`
}

func (req *UpdateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&req.Date, validation.NilOrNotEmpty, dateRule),
		validation.Field(&req.Time, validation.NilOrNotEmpty, timeRule),
		validation.Field(&req.Location, validation.NilOrNotEmpty),
		validation.Field(&req.Capacity, validation.NilOrNotEmpty, validation.Min(1)),
		validation.Field(&req.Price, nonNegativeRule),
	)
}

// Update assumes Validate passed.
func (req *UpdateEventRequest) Update() domain.EventUpdate {
	upd := domain.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Time:        req.Time,
		Location:    req.Location,
		Category:    req.Category,
		Capacity:    req.Capacity,
		Price:       req.Price,
		IsApproved:  req.IsApproved,
	}
	if req.Date != nil {
		date, _ := parseDate(*req.Date)
		upd.Date = &date
	}

	return upd
}

type ApproveEventRequest struct {
	IsApproved *bool `json:"isApproved"`
}

func (req *ApproveEventRequest) Validate() error {
	if req.IsApproved == nil {
		return errApprovalMissing
	}

	return nil
}

// RegisterAttendeeRequest carries the optional details sent with a direct registration.
type RegisterAttendeeRequest struct {
	NumberOfTickets     int    `json:"numberOfTickets"`
	SpecialRequirements string `json:"specialRequirements"`
}

func (req *RegisterAttendeeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.NumberOfTickets, validation.Min(0)),
	)
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp and keeps the date part.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(domain.DateLayout, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

var dateRule = validation.By(func(value interface{}) error {
	v, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	_, err := parseDate(s)

	return err
})

// nonNegativeRule switches on the raw value: decimal.Decimal is a driver.Valuer, so
// validation.Indirect would hand back its string form.
var nonNegativeRule = validation.By(func(value interface{}) error {
	var d decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		d = v
	case *decimal.Decimal:
		if v == nil {
			return nil
		}
		d = *v
	default:
		return errors.New("must be a number")
	}

	if d.IsNegative() {
		return errNegativeAmount
	}

	return nil
})
