package service

import (
	"context"
	"errors"

	"github.com/vietanh2810/eventhub-api/internal/domain"
)

// ErrForbidden is returned when the actor lacks the role or ownership an operation needs.
var ErrForbidden = errors.New("forbidden")

// Transactor runs fn in a single database transaction. Repositories called with the
// context passed to fn take part in it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier pushes live notifications to connected clients. Delivery is best effort.
type Notifier interface {
	NotifyUser(userID uint, n domain.Notification)
	NotifyAdmins(n domain.Notification)
}

type nopNotifier struct{}

func (nopNotifier) NotifyUser(uint, domain.Notification) {}
func (nopNotifier) NotifyAdmins(domain.Notification)     {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}

	return n
}

func requireAdmin(actor domain.Actor) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	return nil
}
