package domain

import "time"

type NotificationType string

const (
	NotificationPaymentSubmitted NotificationType = "payment.submitted"
	NotificationPaymentApproved  NotificationType = "payment.approved"
	NotificationPaymentRejected  NotificationType = "payment.rejected"
	NotificationEventSubmitted   NotificationType = "event.submitted"
)

type Notification struct {
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	EventID   uint             `json:"eventId,omitempty"`
	PaymentID uint             `json:"paymentId,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}
