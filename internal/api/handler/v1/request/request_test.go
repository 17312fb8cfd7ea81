package request

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequest_Validate(t *testing.T) {
	valid := func() RegisterRequest {
		return RegisterRequest{
			Username:      "jane",
			Email:         "jane@example.com",
			Password:      "secret1",
			ContactNumber: "0123456789",
			Address:       "1 Main St",
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *RegisterRequest)
		wantErr bool
	}{
		{name: "valid user", mutate: func(r *RegisterRequest) {}},
		{name: "valid admin", mutate: func(r *RegisterRequest) { r.Role = "admin" }},
		{name: "unknown role", mutate: func(r *RegisterRequest) { r.Role = "root" }, wantErr: true},
		{name: "short password", mutate: func(r *RegisterRequest) { r.Password = "abc" }, wantErr: true},
		{name: "blank password", mutate: func(r *RegisterRequest) { r.Password = "       " }, wantErr: true},
		{name: "bad email", mutate: func(r *RegisterRequest) { r.Email = "jane@" }, wantErr: true},
		{name: "missing address", mutate: func(r *RegisterRequest) { r.Address = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCreateEventRequest_Event(t *testing.T) {
	req := CreateEventRequest{
		Title:       "Go Meetup",
		Description: "Talks",
		Date:        "2025-06-01T10:00:00Z",
		Time:        "18:30",
		Location:    "Paris",
		Category:    "Technology",
		Capacity:    10,
		Price:       decimal.RequireFromString("25.50"),
	}
	require.NoError(t, req.Validate())

	event := req.Event()
	assert.Equal(t, "2025-06-01", event.Date.Format("2006-01-02"))
	assert.True(t, event.Price.Equal(decimal.RequireFromString("25.5")))

	req.Time = "24:00"
	assert.Error(t, req.Validate())

	req.Time = "18:30"
	req.Capacity = 0
	assert.Error(t, req.Validate())

	req.Capacity = 1
	req.Price = decimal.NewFromInt(-1)
	assert.Error(t, req.Validate())
}

func TestUpdateEventRequest_Validate(t *testing.T) {
	zero := 0
	bad := "01/06/2025"

	negative := decimal.NewFromInt(-10)
	free := decimal.Zero

	assert.NoError(t, (&UpdateEventRequest{}).Validate())
	assert.Error(t, (&UpdateEventRequest{Capacity: &zero}).Validate())
	assert.Error(t, (&UpdateEventRequest{Date: &bad}).Validate())
	assert.Error(t, (&UpdateEventRequest{Price: &negative}).Validate())
	assert.NoError(t, (&UpdateEventRequest{Price: &free}).Validate())
}

func TestUpdatePaymentRequest_IgnoresAmount(t *testing.T) {
	var req UpdatePaymentRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount":0,"cardHolder":"Ann","numberOfTickets":2}`), &req))
	require.NoError(t, req.Validate())

	upd := req.Update()
	require.NotNil(t, upd.CardHolder)
	assert.Equal(t, "Ann", *upd.CardHolder)
	require.NotNil(t, upd.NumberOfTickets)
	assert.Equal(t, 2, *upd.NumberOfTickets)
}

func TestSubmitPaymentRequest_MissingFields(t *testing.T) {
	req := SubmitPaymentRequest{CardHolder: "Jane"}

	assert.Equal(t, []string{"eventId", "amount", "cardNumber", "expiryDate"}, req.MissingFields())

	req = SubmitPaymentRequest{
		EventID:    1,
		Amount:     decimal.NewFromInt(100),
		CardNumber: "4242 4242 4242 4242",
		CardHolder: "Jane",
		ExpiryDate: "12/29",
		CVV:        "123",
	}
	assert.Empty(t, req.MissingFields())
	assert.NoError(t, req.Validate())

	payment := req.Payment()
	assert.Equal(t, "4242 4242 4242 4242", payment.CardDetails.CardNumber)
}

func TestSubmitPaymentRequest_Validate(t *testing.T) {
	base := SubmitPaymentRequest{
		EventID:    1,
		Amount:     decimal.NewFromInt(100),
		CardNumber: "4242424242424242",
		CardHolder: "Jane",
		ExpiryDate: "12/29",
	}

	tests := []struct {
		name   string
		mutate func(r *SubmitPaymentRequest)
	}{
		{name: "expiry month 13", mutate: func(r *SubmitPaymentRequest) { r.ExpiryDate = "13/29" }},
		{name: "expiry long year", mutate: func(r *SubmitPaymentRequest) { r.ExpiryDate = "12/2029" }},
		{name: "short card", mutate: func(r *SubmitPaymentRequest) { r.CardNumber = "4242" }},
		{name: "letters in card", mutate: func(r *SubmitPaymentRequest) { r.CardNumber = "4242abcd42424242" }},
		{name: "cvv too short", mutate: func(r *SubmitPaymentRequest) { r.CVV = "12" }},
		{name: "negative amount", mutate: func(r *SubmitPaymentRequest) { r.Amount = decimal.NewFromInt(-5) }},
	}

	require.NoError(t, base.Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			assert.Error(t, req.Validate())
		})
	}
}

func TestFeedbackRequest_Validate(t *testing.T) {
	req := FeedbackRequest{Name: "Jane", Email: "jane@example.com", Message: "Great event"}
	assert.NoError(t, req.Validate())

	req.Email = "not-an-email"
	assert.Error(t, req.Validate())

	empty := ""
	assert.Error(t, (&UpdateFeedbackRequest{Message: &empty}).Validate())
}
