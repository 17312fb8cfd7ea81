package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vietanh2810/eventhub-api/internal/db"
	"github.com/vietanh2810/eventhub-api/internal/domain"
	"github.com/vietanh2810/eventhub-api/internal/repository/dao"
)

// newPostgresDB starts a throwaway Postgres container. Row locks are only exercised
// for real here; SQLite ignores FOR UPDATE.
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Postgres integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=eventhub",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})
	_ = resource.Expire(180)

	url := fmt.Sprintf("postgres://postgres:secret@%s/eventhub?sslmode=disable", resource.GetHostPort("5432/tcp"))

	var gormDB *gorm.DB
	pool.MaxWait = 90 * time.Second
	err = pool.Retry(func() error {
		var err error
		gormDB, err = db.OpenPostgresWithURL(url)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, dao.InitTables(gormDB))

	return gormDB
}

func TestPostgres_ConcurrentApprovalsRespectCapacity(t *testing.T) {
	f := newFixtureOn(newPostgresDB(t))
	ctx := context.Background()

	admin := f.createUser(t, "root", domain.RoleAdmin)
	event := f.createEvent(t, admin, 2, true)

	const payers = 6
	paymentIDs := make([]uint, 0, payers)
	for i := 0; i < payers; i++ {
		payer := f.createUser(t, fmt.Sprintf("payer%d", i), domain.RoleUser)
		paymentIDs = append(paymentIDs, f.submit(t, payer, event.ID).ID)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		approved int
		full     int
	)
	for _, id := range paymentIDs {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := f.approvals.Approve(ctx, admin, id)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				approved++
			case errors.Is(err, ErrEventFull):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 2, approved)
	assert.Equal(t, payers-2, full)
	assert.Len(t, attendeeIDs(t, f, event.ID), 2)

	pending, err := f.paySvc.ListPendingPayments(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, pending, payers-2)
}

func TestPostgres_ConcurrentDuplicateSubmissions(t *testing.T) {
	f := newFixtureOn(newPostgresDB(t))
	ctx := context.Background()

	admin := f.createUser(t, "root", domain.RoleAdmin)
	payer := f.createUser(t, "paul", domain.RoleUser)
	event := f.createEvent(t, admin, 10, true)

	const attempts = 5
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		created    int
		duplicates int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.paySvc.SubmitPayment(ctx, payer, newPayment(event.ID))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, ErrDuplicatePending):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, duplicates)
}

func TestPostgres_ConcurrentRegistrationsRespectCapacity(t *testing.T) {
	f := newFixtureOn(newPostgresDB(t))
	ctx := context.Background()

	admin := f.createUser(t, "root", domain.RoleAdmin)
	event := f.createEvent(t, admin, 3, true)

	actors := make([]domain.Actor, 0, 8)
	for i := 0; i < 8; i++ {
		actors = append(actors, f.createUser(t, fmt.Sprintf("guest%d", i), domain.RoleUser))
	}

	var wg sync.WaitGroup
	for _, a := range actors {
		wg.Add(1)
		go func(a domain.Actor) {
			defer wg.Done()
			if err := f.eventSvc.RegisterAttendee(ctx, a, event.ID); err != nil && !errors.Is(err, ErrEventFull) {
				t.Errorf("unexpected error: %v", err)
			}
		}(a)
	}
	wg.Wait()

	assert.Len(t, attendeeIDs(t, f, event.ID), 3)
}
