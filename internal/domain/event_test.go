package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvent_Capacity(t *testing.T) {
	e := Event{Capacity: 2, Attendees: []UserSummary{{ID: 1}}}
	assert.False(t, e.IsFull())
	assert.True(t, e.HasAttendee(1))
	assert.False(t, e.HasAttendee(2))

	e.Attendees = append(e.Attendees, UserSummary{ID: 2})
	assert.True(t, e.IsFull())
	assert.Equal(t, 2, e.AttendeeCount())
}

func TestEventUpdate_Apply(t *testing.T) {
	e := Event{Title: "Old", Location: "Hall A", Capacity: 10}
	title := "New"
	capacity := 20
	EventUpdate{Title: &title, Capacity: &capacity}.Apply(&e)

	assert.Equal(t, "New", e.Title)
	assert.Equal(t, "Hall A", e.Location)
	assert.Equal(t, 20, e.Capacity)
}

func TestActor_CanManage(t *testing.T) {
	owner := Actor{ID: 7, Role: RoleUser}
	other := Actor{ID: 8, Role: RoleUser}
	admin := Actor{ID: 1, Role: RoleAdmin}

	assert.True(t, owner.CanManage(7))
	assert.False(t, other.CanManage(7))
	assert.True(t, admin.CanManage(7))
	assert.True(t, admin.IsAdmin())
	assert.False(t, owner.IsAdmin())
}
