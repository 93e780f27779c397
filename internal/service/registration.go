package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/isuci/isuci-backend/internal/logger"
	"github.com/isuci/isuci-backend/internal/model"
	"github.com/isuci/isuci-backend/internal/queue"
	"github.com/isuci/isuci-backend/internal/repository"
)

// Notifier delivers the registration confirmation.  Implementations may
// publish to a broker or send mail directly.
type Notifier interface {
	UserRegistered(ctx context.Context, ev queue.UserRegisteredEvent) error
}

// MaxSecretBytes is the longest password bcrypt accepts, in bytes.
const MaxSecretBytes = 72

// Registration is the attribute set accepted by /registro.  Role-specific
// attributes are optional.
type Registration struct {
	User     model.User
	Password string
}

// Registrar creates users and fires the confirmation notification.
type Registrar struct {
	users    UserStore
	hasher   Hasher
	notifier Notifier
	// NotifyTimeout bounds a single notification attempt.
	NotifyTimeout time.Duration

	wg sync.WaitGroup
}

func NewRegistrar(users UserStore, hasher Hasher, notifier Notifier) *Registrar {
	return &Registrar{users: users, hasher: hasher, notifier: notifier, NotifyTimeout: 30 * time.Second}
}

// Register validates r, stores it with a hashed password and schedules the
// confirmation.  A taken document id yields
// repository.ErrDuplicateIdentifier.  Notification failures are logged and
// never returned.
func (s *Registrar) Register(ctx context.Context, r Registration) error {
	u := r.User
	u.DocumentID = strings.TrimSpace(u.DocumentID)
	u.Email = strings.TrimSpace(u.Email)
	u.Name = strings.TrimSpace(u.Name)
	switch {
	case u.DocumentID == "":
		return fmt.Errorf("%w: iddocumento", ErrMissingField)
	case r.Password == "":
		return fmt.Errorf("%w: contrasenausuario", ErrMissingField)
	case u.Name == "":
		return fmt.Errorf("%w: nombreusuario", ErrMissingField)
	case u.Email == "":
		return fmt.Errorf("%w: correousuario", ErrMissingField)
	case len(r.Password) > MaxSecretBytes:
		return fmt.Errorf("%w: contrasenausuario longer than %d bytes", ErrInvalidField, MaxSecretBytes)
	}
	if u.RoleCode == nil {
		code := model.CodeCyclist
		u.RoleCode = &code
	}

	digest, err := s.hasher.Hash(r.Password)
	if err != nil {
		return fmt.Errorf("%w: hash password: %w", ErrInternal, err)
	}
	u.PasswordHash = digest

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateIdentifier) || errors.Is(err, repository.ErrTimeout) {
			return err
		}
		return fmt.Errorf("%w: create user: %w", ErrInternal, err)
	}

	s.notify(ctx, queue.UserRegisteredEvent{
		EventID:      uuid.NewString(),
		DocumentID:   u.DocumentID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         string(u.Role()),
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// notify runs detached from the request: its context survives the
// response being written.
func (s *Registrar) notify(ctx context.Context, ev queue.UserRegisteredEvent) {
	if s.notifier == nil {
		return
	}
	log := logger.FromContext(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.NotifyTimeout)
		defer cancel()
		if err := s.notifier.UserRegistered(nctx, ev); err != nil {
			log.Warn("registration notification failed", "iddocumento", ev.DocumentID, "err", err)
			return
		}
		log.Debug("registration notification sent", "iddocumento", ev.DocumentID)
	}()
}

// Wait blocks until every pending notification has finished.
func (s *Registrar) Wait() { s.wg.Wait() }
