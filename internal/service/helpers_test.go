package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vietanh2810/eventhub-api/internal/db"
	"github.com/vietanh2810/eventhub-api/internal/domain"
	"github.com/vietanh2810/eventhub-api/internal/repository"
	"github.com/vietanh2810/eventhub-api/internal/repository/dao"
)

type recordingNotifier struct {
	mu     sync.Mutex
	users  map[uint][]domain.Notification
	admins []domain.Notification
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{users: make(map[uint][]domain.Notification)}
}

func (n *recordingNotifier) NotifyUser(userID uint, notification domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users[userID] = append(n.users[userID], notification)
}

func (n *recordingNotifier) NotifyAdmins(notification domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.admins = append(n.admins, notification)
}

func (n *recordingNotifier) forUser(userID uint) []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Notification(nil), n.users[userID]...)
}

func (n *recordingNotifier) forAdmins() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Notification(nil), n.admins...)
}

type fixture struct {
	db       *gorm.DB
	tx       *dao.TxManager
	users    *repository.UserRepository
	events   *repository.EventRepository
	payments *repository.PaymentRepository
	notifier *recordingNotifier

	auth      *AuthService
	userSvc   *UserService
	eventSvc  *EventService
	paySvc    *PaymentService
	approvals *ApprovalService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, dao.InitTables(gormDB))

	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return gormDB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	return newFixtureOn(newTestDB(t))
}

func newFixtureOn(gormDB *gorm.DB) *fixture {
	f := &fixture{
		db:       gormDB,
		tx:       dao.NewTxManager(gormDB),
		users:    repository.NewUserRepository(dao.NewUserDAO(gormDB)),
		events:   repository.NewEventRepository(dao.NewEventDAO(gormDB)),
		payments: repository.NewPaymentRepository(dao.NewPaymentDAO(gormDB)),
		notifier: newRecordingNotifier(),
	}
	f.auth = NewAuthService(f.users)
	f.userSvc = NewUserService(f.users)
	f.eventSvc = NewEventService(f.events, f.tx, f.notifier)
	f.paySvc = NewPaymentService(f.payments, f.events, f.tx, f.notifier)
	f.approvals = NewApprovalService(f.payments, f.events, f.tx, f.notifier)

	return f
}

func (f *fixture) createUser(t *testing.T, username string, role domain.Role) domain.Actor {
	t.Helper()

	user, err := f.auth.Register(context.Background(), domain.User{
		Username:      username,
		Email:         username + "@example.com",
		Password:      "secret1",
		ContactNumber: "0123456789",
		Address:       "1 Main Street",
		Role:          role,
	})
	require.NoError(t, err)

	return user.Actor()
}

func (f *fixture) createEvent(t *testing.T, organizer domain.Actor, capacity int, approved bool) domain.Event {
	t.Helper()

	event, err := f.events.Create(context.Background(), domain.Event{
		Title:       "Go Meetup",
		Description: "Talks and pizza",
		Date:        time.Date(2030, 5, 17, 0, 0, 0, 0, time.UTC),
		Time:        "18:30",
		Location:    "Hall A",
		Category:    "Technology",
		Capacity:    capacity,
		Price:       decimal.RequireFromString("25.50"),
		Image:       domain.DefaultImage,
		OrganizerID: organizer.ID,
		IsApproved:  approved,
	})
	require.NoError(t, err)

	return event
}

func (f *fixture) submit(t *testing.T, payer domain.Actor, eventID uint) domain.Payment {
	t.Helper()

	payment, err := f.paySvc.SubmitPayment(context.Background(), payer, newPayment(eventID))
	require.NoError(t, err)

	return payment
}

func newPayment(eventID uint) domain.Payment {
	return domain.Payment{
		EventID: eventID,
		Amount:  decimal.NewFromInt(100),
		CardDetails: domain.CardDetails{
			CardNumber: "4242 4242 4242 4242",
			CardHolder: " Jane Doe ",
			ExpiryDate: "12/29",
		},
		NumberOfTickets: 1,
	}
}

func attendeeIDs(t *testing.T, f *fixture, eventID uint) []uint {
	t.Helper()

	event, err := f.events.FindByID(context.Background(), eventID)
	require.NoError(t, err)

	ids := make([]uint, 0, len(event.Attendees))
	for _, a := range event.Attendees {
		ids = append(ids, a.ID)
	}

	return ids
}
