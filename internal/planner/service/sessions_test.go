package service

import (
	"context"
	"testing"
	"time"

	"interior-planner/internal/planner/models"
	"interior-planner/internal/planner/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopCatalog struct{}

func (nopCatalog) ListFurniture(ctx context.Context) ([]models.Furniture, error) {
	return nil, nil
}

type nopStore struct{}

func (nopStore) LoadProject(ctx context.Context, id string) (*models.Project, error) {
	return nil, nil
}

func (nopStore) SaveProject(ctx context.Context, p *models.Project) (string, error) {
	return "id", nil
}

func (nopStore) UpdateProject(ctx context.Context, id string, p *models.Project) error {
	return nil
}

func newReadySession(t *testing.T, owner string) *session.Session {
	t.Helper()
	s := session.New(nopCatalog{}, nopStore{}, owner)
	require.NoError(t, s.Load(context.Background(), ""))
	return s
}

func TestSessionManagerResolve(t *testing.T) {
	m := NewSessionManager(time.Hour)
	s := newReadySession(t, "alice")

	token := m.Open(s)
	require.NotEmpty(t, token)
	assert.Equal(t, 1, m.Len())

	got, err := m.Resolve(token, "alice")
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Resolve(token, "bob")
	assert.ErrorIs(t, err, ErrSessionForbidden)

	_, err = m.Resolve("missing", "alice")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionManagerClose(t *testing.T) {
	m := NewSessionManager(time.Hour)
	s := newReadySession(t, "alice")
	token := m.Open(s)

	assert.ErrorIs(t, m.Close(token, "bob"), ErrSessionForbidden)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Close(token, "alice"))
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, session.Disposed, s.State())

	assert.ErrorIs(t, m.Close(token, "alice"), ErrSessionNotFound)
}

func TestSessionManagerSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	m := NewSessionManager(30 * time.Minute)
	m.now = func() time.Time { return now }

	idle := newReadySession(t, "alice")
	active := newReadySession(t, "bob")
	m.Open(idle)
	activeToken := m.Open(active)

	now = now.Add(20 * time.Minute)
	_, err := m.Resolve(activeToken, "bob")
	require.NoError(t, err)

	now = now.Add(20 * time.Minute)
	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, session.Disposed, idle.State())
	assert.Equal(t, session.Ready, active.State())
}

func TestSessionManagerCloseAll(t *testing.T) {
	m := NewSessionManager(time.Hour)
	a := newReadySession(t, "alice")
	b := newReadySession(t, "bob")
	m.Open(a)
	m.Open(b)

	m.CloseAll()

	assert.Equal(t, 0, m.Len())
	assert.Equal(t, session.Disposed, a.State())
	assert.Equal(t, session.Disposed, b.State())
}
