package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/eventhub-api/internal/domain"
)

func newEventInput() domain.Event {
	return domain.Event{
		Title:       "Jazz Night",
		Description: "Live music",
		Date:        time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC),
		Time:        "20:00",
		Location:    "Blue Room",
		Category:    "Entertainment",
		Capacity:    50,
		Price:       decimal.RequireFromString("10.00"),
	}
}

func TestEventService_CreateApprovalByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "alice", domain.RoleUser)
	admin := f.createUser(t, "root", domain.RoleAdmin)

	byUser, err := f.eventSvc.CreateEvent(ctx, user, newEventInput())
	require.NoError(t, err)
	assert.False(t, byUser.IsApproved)
	assert.Equal(t, user.ID, byUser.OrganizerID)
	assert.Equal(t, domain.DefaultImage, byUser.Image)
	require.NotNil(t, byUser.Organizer)
	assert.Equal(t, "alice", byUser.Organizer.Username)

	byAdmin, err := f.eventSvc.CreateEvent(ctx, admin, newEventInput())
	require.NoError(t, err)
	assert.True(t, byAdmin.IsApproved)

	notifications := f.notifier.forAdmins()
	require.Len(t, notifications, 1)
	assert.Equal(t, domain.NotificationEventSubmitted, notifications[0].Type)
	assert.Equal(t, byUser.ID, notifications[0].EventID)
}

func TestEventService_ListScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "alice", domain.RoleUser)
	admin := f.createUser(t, "root", domain.RoleAdmin)
	approved := f.createEvent(t, admin, 10, true)
	pending := f.createEvent(t, user, 10, false)

	all, err := f.eventSvc.ListEvents(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, pending.ID, all[0].ID, "newest first")

	visible, err := f.eventSvc.ListEvents(ctx, user)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, approved.ID, visible[0].ID)

	mine, err := f.eventSvc.ListMyEvents(ctx, user)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, pending.ID, mine[0].ID)

	_, err = f.eventSvc.ListPendingEvents(ctx, user)
	assert.ErrorIs(t, err, ErrForbidden)

	queue, err := f.eventSvc.ListPendingEvents(ctx, admin)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, pending.ID, queue[0].ID)

	public, err := f.eventSvc.ListPublicEvents(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, approved.ID, public[0].ID)
}

func TestEventService_GetVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	organizer := f.createUser(t, "alice", domain.RoleUser)
	other := f.createUser(t, "bob", domain.RoleUser)
	admin := f.createUser(t, "root", domain.RoleAdmin)
	pending := f.createEvent(t, organizer, 10, false)

	_, err := f.eventSvc.GetEvent(ctx, organizer, pending.ID)
	assert.NoError(t, err)
	_, err = f.eventSvc.GetEvent(ctx, admin, pending.ID)
	assert.NoError(t, err)
	_, err = f.eventSvc.GetEvent(ctx, other, pending.ID)
	assert.ErrorIs(t, err, ErrEventNotAvailable)
	_, err = f.eventSvc.GetEvent(ctx, other, 9999)
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = f.eventSvc.GetPublicEvent(ctx, pending.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventService_UpdateResetsApproval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	organizer := f.createUser(t, "alice", domain.RoleUser)
	other := f.createUser(t, "bob", domain.RoleUser)
	admin := f.createUser(t, "root", domain.RoleAdmin)
	event := f.createEvent(t, organizer, 10, true)

	location := "Hall B"
	updated, err := f.eventSvc.UpdateEvent(ctx, organizer, event.ID, domain.EventUpdate{Location: &location})
	require.NoError(t, err)
	assert.Equal(t, "Hall B", updated.Location)
	assert.False(t, updated.IsApproved)

	_, err = f.eventSvc.SetApproval(ctx, admin, event.ID, true)
	require.NoError(t, err)

	location = "Hall C"
	updated, err = f.eventSvc.UpdateEvent(ctx, admin, event.ID, domain.EventUpdate{Location: &location})
	require.NoError(t, err)
	assert.Equal(t, "Hall C", updated.Location)
	assert.True(t, updated.IsApproved)

	_, err = f.eventSvc.UpdateEvent(ctx, other, event.ID, domain.EventUpdate{Location: &location})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestEventService_UpdateCapacityBelowAttendees(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.createUser(t, "root", domain.RoleAdmin)
	alice := f.createUser(t, "alice", domain.RoleUser)
	bob := f.createUser(t, "bob", domain.RoleUser)
	event := f.createEvent(t, admin, 5, true)
	require.NoError(t, f.eventSvc.RegisterAttendee(ctx, alice, event.ID))
	require.NoError(t, f.eventSvc.RegisterAttendee(ctx, bob, event.ID))

	capacity := 1
	_, err := f.eventSvc.UpdateEvent(ctx, admin, event.ID, domain.EventUpdate{Capacity: &capacity})
	assert.ErrorIs(t, err, ErrCapacityBelowAttendees)

	capacity = 2
	updated, err := f.eventSvc.UpdateEvent(ctx, admin, event.ID, domain.EventUpdate{Capacity: &capacity})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Capacity)
	assert.Len(t, updated.Attendees, 2)
}

func TestEventService_SetApproval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "alice", domain.RoleUser)
	admin := f.createUser(t, "root", domain.RoleAdmin)
	event := f.createEvent(t, user, 10, false)

	_, err := f.eventSvc.SetApproval(ctx, user, event.ID, true)
	assert.ErrorIs(t, err, ErrForbidden)

	approved, err := f.eventSvc.SetApproval(ctx, admin, event.ID, true)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	revoked, err := f.eventSvc.SetApproval(ctx, admin, event.ID, false)
	require.NoError(t, err)
	assert.False(t, revoked.IsApproved)

	_, err = f.eventSvc.SetApproval(ctx, admin, 9999, true)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventService_RegisterAttendee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.createUser(t, "root", domain.RoleAdmin)
	alice := f.createUser(t, "alice", domain.RoleUser)
	bob := f.createUser(t, "bob", domain.RoleUser)
	event := f.createEvent(t, admin, 1, true)
	unapproved := f.createEvent(t, alice, 10, false)

	assert.ErrorIs(t, f.eventSvc.RegisterAttendee(ctx, bob, unapproved.ID), ErrEventNotApproved)
	assert.ErrorIs(t, f.eventSvc.RegisterAttendee(ctx, bob, 9999), ErrEventNotFound)

	require.NoError(t, f.eventSvc.RegisterAttendee(ctx, alice, event.ID))
	assert.ErrorIs(t, f.eventSvc.RegisterAttendee(ctx, alice, event.ID), ErrAlreadyAttending)
	assert.ErrorIs(t, f.eventSvc.RegisterAttendee(ctx, bob, event.ID), ErrEventFull)

	assert.Equal(t, []uint{alice.ID}, attendeeIDs(t, f, event.ID))
}

func TestEventService_ConcurrentRegistrationsRespectCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.createUser(t, "root", domain.RoleAdmin)
	const capacity = 3
	event := f.createEvent(t, admin, capacity, true)

	const userCount = 8
	actors := make([]domain.Actor, 0, userCount)
	for i := 0; i < userCount; i++ {
		actors = append(actors, f.createUser(t, fmt.Sprintf("user%d", i), domain.RoleUser))
	}

	var wg sync.WaitGroup
	var ok, full int64
	for _, actor := range actors {
		wg.Add(1)
		go func(actor domain.Actor) {
			defer wg.Done()
			err := f.eventSvc.RegisterAttendee(ctx, actor, event.ID)
			switch {
			case err == nil:
				atomic.AddInt64(&ok, 1)
			case assert.ErrorIs(t, err, ErrEventFull):
				atomic.AddInt64(&full, 1)
			}
		}(actor)
	}
	wg.Wait()

	assert.Equal(t, int64(capacity), ok)
	assert.Equal(t, int64(userCount-capacity), full)
	assert.Len(t, attendeeIDs(t, f, event.ID), capacity)
}

func TestEventService_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	organizer := f.createUser(t, "alice", domain.RoleUser)
	other := f.createUser(t, "bob", domain.RoleUser)
	payer := f.createUser(t, "carol", domain.RoleUser)
	event := f.createEvent(t, organizer, 10, true)
	require.NoError(t, f.eventSvc.RegisterAttendee(ctx, other, event.ID))
	payment := f.submit(t, payer, event.ID)

	assert.ErrorIs(t, f.eventSvc.DeleteEvent(ctx, other, event.ID), ErrForbidden)

	require.NoError(t, f.eventSvc.DeleteEvent(ctx, organizer, event.ID))

	_, err := f.events.FindByID(ctx, event.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
	_, err = f.payments.FindByID(ctx, payment.ID)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestEventService_RejectsNegativePrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.createUser(t, "root", domain.RoleAdmin)

	input := newEventInput()
	input.Price = decimal.NewFromInt(-10)
	_, err := f.eventSvc.CreateEvent(ctx, admin, input)
	assert.ErrorIs(t, err, ErrNegativePrice)

	event := f.createEvent(t, admin, 10, true)
	price := decimal.RequireFromString("-0.01")
	_, err = f.eventSvc.UpdateEvent(ctx, admin, event.ID, domain.EventUpdate{Price: &price})
	assert.ErrorIs(t, err, ErrNegativePrice)

	stored, err := f.eventSvc.GetEvent(ctx, admin, event.ID)
	require.NoError(t, err)
	assert.True(t, stored.Price.Equal(decimal.RequireFromString("25.50")))
}
