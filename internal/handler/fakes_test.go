package handler

import (
    "context"
    "errors"
    "net/http/httptest"
    "strings"
    "sync"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/isuci/isuci-backend/internal/config"
    "github.com/isuci/isuci-backend/internal/model"
    "github.com/isuci/isuci-backend/internal/repository"
    "github.com/isuci/isuci-backend/internal/service"
)

var errBoom = errors.New("boom")

var testCfg = config.Config{
    JWTSecret:      "test-secret",
    AccessTTLMin:   5,
    RefreshTTLDays: 1,
    QueryTimeout:   time.Second,
}

func intp(v int) *int { return &v }

func newEcho() *echo.Echo {
    e := echo.New()
    e.Validator = NewValidator()
    return e
}

func do(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
    req := httptest.NewRequest(method, path, strings.NewReader(body))
    if body != "" {
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    }
    if token != "" {
        req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

// fakeAuth accepts one fixed password for every known user.
type fakeAuth struct {
    users    map[string]model.User
    password string
    err      error
}

func (f *fakeAuth) Authenticate(_ context.Context, id, secret string) (model.User, error) {
    if f.err != nil {
        return model.User{}, f.err
    }
    if id == "" || secret == "" {
        return model.User{}, service.ErrMissingField
    }
    u, ok := f.users[id]
    if !ok || secret != f.password {
        return model.User{}, service.ErrInvalidCredentials
    }
    return u, nil
}

func (f *fakeAuth) GetByDocument(_ context.Context, id string) (model.User, error) {
    u, ok := f.users[id]
    if !ok {
        return model.User{}, repository.ErrNotFound
    }
    return u, nil
}

type memTokens struct {
    mu      sync.Mutex
    owner   map[string]string
    revoked map[string]bool
}

func newMemTokens() *memTokens {
    return &memTokens{owner: map[string]string{}, revoked: map[string]bool{}}
}

func (m *memTokens) StoreRefresh(_ context.Context, id, hash string, _ time.Time) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.owner[hash] = id
    return nil
}

func (m *memTokens) ValidateRefresh(_ context.Context, hash string) (string, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    id, ok := m.owner[hash]
    if !ok || m.revoked[hash] {
        return "", repository.ErrNotFound
    }
    return id, nil
}

func (m *memTokens) RevokeByHash(_ context.Context, hash string) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    if _, ok := m.owner[hash]; !ok || m.revoked[hash] {
        return repository.ErrNotFound
    }
    m.revoked[hash] = true
    return nil
}

// gatedTokens holds every ValidateRefresh until n callers have passed it,
// so concurrent refreshes all see the token live before any revoke runs.
type gatedTokens struct {
    *memTokens
    gate sync.WaitGroup
}

func newGatedTokens(n int) *gatedTokens {
    g := &gatedTokens{memTokens: newMemTokens()}
    g.gate.Add(n)
    return g
}

func (g *gatedTokens) ValidateRefresh(ctx context.Context, hash string) (string, error) {
    id, err := g.memTokens.ValidateRefresh(ctx, hash)
    g.gate.Done()
    g.gate.Wait()
    return id, err
}

func (m *memTokens) RevokeAllForUser(_ context.Context, id string) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    for h, owner := range m.owner {
        if owner == id {
            m.revoked[h] = true
        }
    }
    return nil
}

// memUsers backs a real service.Registrar.
type memUsers struct {
    mu   sync.Mutex
    rows map[string]model.User
}

func (m *memUsers) GetByDocument(_ context.Context, id string) (model.User, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    u, ok := m.rows[id]
    if !ok {
        return model.User{}, repository.ErrNotFound
    }
    return u, nil
}

func (m *memUsers) Create(_ context.Context, u model.User) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    if _, ok := m.rows[u.DocumentID]; ok {
        return repository.ErrDuplicateIdentifier
    }
    m.rows[u.DocumentID] = u
    return nil
}

type fakeRegistrar struct {
    got []service.Registration
    err error
}

func (f *fakeRegistrar) Register(_ context.Context, r service.Registration) error {
    if f.err != nil {
        return f.err
    }
    f.got = append(f.got, r)
    return nil
}

type fakeProfiles struct {
    err error
}

func (f fakeProfiles) Get(_ context.Context, caller, id string) (service.View, error) {
    if f.err != nil {
        return service.View{}, f.err
    }
    if caller == "" {
        return service.View{}, service.ErrUnauthenticated
    }
    if caller != id {
        return service.View{}, service.ErrForbidden
    }
    return service.View{DocumentID: &id, Role: string(model.RoleCyclist)}, nil
}

type fakeCatalog struct {
    squads []model.Squad
    err    error
}

func (f fakeCatalog) ListSquads(context.Context) ([]model.Squad, error) { return f.squads, f.err }
func (f fakeCatalog) ListSpecialties(context.Context) ([]model.Specialty, error) {
    return []model.Specialty{}, f.err
}

type fakeClock struct {
    now time.Time
    err error
}

func (f fakeClock) Now(context.Context) (time.Time, error) { return f.now, f.err }

