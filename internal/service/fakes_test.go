package service

import (
	"context"
	"errors"
	"sync"

	"github.com/isuci/isuci-backend/internal/model"
	"github.com/isuci/isuci-backend/internal/queue"
	"github.com/isuci/isuci-backend/internal/repository"
)

type memStore struct {
	mu    sync.Mutex
	users map[string]model.User
	err   error
}

func newMemStore() *memStore { return &memStore{users: map[string]model.User{}} }

func (m *memStore) GetByDocument(_ context.Context, id string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.User{}, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memStore) Create(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.users[u.DocumentID]; ok {
		return repository.ErrDuplicateIdentifier
	}
	m.users[u.DocumentID] = u
	return nil
}

type fakeCatalog struct {
	squads      map[int]string
	specialties map[int]string
	err         error
}

func (f fakeCatalog) SquadName(_ context.Context, id int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if n, ok := f.squads[id]; ok {
		return n, nil
	}
	return "", repository.ErrNotFound
}

func (f fakeCatalog) SpecialtyName(_ context.Context, id int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if n, ok := f.specialties[id]; ok {
		return n, nil
	}
	return "", repository.ErrNotFound
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []queue.UserRegisteredEvent
	err    error
	block  chan struct{}
}

func (n *recordingNotifier) UserRegistered(ctx context.Context, ev queue.UserRegisteredEvent) error {
	if n.block != nil {
		select {
		case <-n.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

var errBoom = errors.New("boom")

func intp(n int) *int           { return &n }
func strp(s string) *string     { return &s }
func floatp(f float64) *float64 { return &f }
