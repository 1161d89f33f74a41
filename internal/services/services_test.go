package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"genetrack-backend-go/internal/db"
	"genetrack-backend-go/internal/migrations"
	"genetrack-backend-go/internal/models"
	"genetrack-backend-go/internal/storage"
	"genetrack-backend-go/internal/store"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []models.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	svc   *Service
	store *store.Store
	pub   *recordingPublisher
	clock *testClock
	blobs *storage.FS
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	database, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "services.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	if err := migrations.Apply(ctx, database, os.DirFS(filepath.Join("..", "..", "migrations", "sqlite")), nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	blobs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}
	clock := &testClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	st := store.New(database, nil).WithClock(clock.Now)
	pub := &recordingPublisher{}
	svc := New(Options{
		Store:  st,
		Blobs:  blobs,
		Events: pub,
		Sessions: SessionSigner{
			Secret: []byte("test-secret"),
			Issuer: "genetrack-test",
			TTL:    time.Hour,
		},
		APITokenTTL: 24 * time.Hour,
	})
	return &fixture{svc: svc, store: st, pub: pub, clock: clock, blobs: blobs}
}

func (f *fixture) user(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email}
	if err := f.store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) admin(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, IsSuperAdmin: true}
	if err := f.store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return u
}

func (f *fixture) subject(t *testing.T, owner *models.User) *models.Subject {
	t.Helper()
	sub, err := f.svc.CreateSubject(context.Background(), owner.ID, SubjectDetails{})
	if err != nil {
		t.Fatalf("create subject: %v", err)
	}
	return sub
}

func ptr[T any](v T) *T { return &v }

func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected status %d, got nil error", status)
	}
	if got := StatusOf(err); got != status {
		t.Fatalf("expected status %d, got %d (%v)", status, got, err)
	}
}

func TestFromStoreError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{store.ErrNotFound, 404},
		{store.ErrConflict, 409},
		{store.ErrRestricted, 409},
		{store.ErrMissingReference, 400},
		{store.ErrInvalid, 400},
		{errors.New("connection reset"), 500},
	}
	for _, tc := range cases {
		wrapped := FromStoreError(errors.Join(errors.New("create thing"), tc.err), "thing")
		if got := StatusOf(wrapped); got != tc.status {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.status, got)
		}
	}
	if FromStoreError(nil, "thing") != nil {
		t.Fatal("nil should stay nil")
	}
}

func TestPublishFailureKeepsCommittedWork(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.test")
	sub := f.subject(t, owner)
	for i := 0; i < 5; i++ {
		_, err := f.svc.AdvanceWizard(ctx, owner.ID, sub.ID)
		assertNoError(t, err)
	}
	_, err := f.svc.DeclareSubject(ctx, owner.ID, sub.ID)
	assertNoError(t, err)

	f.pub.err = errors.New("broker unavailable")
	_, err = f.svc.SubmitSubject(ctx, owner.ID, sub.ID, nil)
	assertNoError(t, err)
	stored, err := f.store.ListEvents(ctx, store.EventFilter{SubjectID: sub.ID})
	assertNoError(t, err)
	if len(stored) != 1 || stored[0].Type != models.EventSubjectSubmitted {
		t.Fatalf("expected stored submission event, got %+v", stored)
	}
}
