package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/killallgit/jamboard-api/internal/ids"
	"github.com/killallgit/jamboard-api/internal/models"
	"github.com/killallgit/jamboard-api/internal/services/store"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// storedUser is the credentialed record kept under jamboard_users.
// It never leaves this package.
type storedUser struct {
	models.User
	PasswordHash string `json:"passwordHash"`
}

// Service implements SessionService over the key-value store
type Service struct {
	mu         sync.RWMutex
	store      store.Store
	ids        *ids.Generator
	log        zerolog.Logger
	bcryptCost int
	current    *models.SessionRecord
}

// Option configures a Service
type Option func(*Service)

// WithBcryptCost overrides the hashing cost; tests use bcrypt.MinCost
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

// NewService creates a new session service
func NewService(st store.Store, gen *ids.Generator, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		store:      st,
		ids:        gen,
		log:        log.With().Str("component", "session").Logger(),
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ SessionService = (*Service)(nil)

// Restore loads the persisted session record
func (s *Service) Restore(ctx context.Context) error {
	raw, ok, err := s.store.Get(ctx, store.KeySessionUser)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	if !ok {
		return nil
	}

	var rec models.SessionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.ID == "" {
		s.log.Warn().Err(err).Msg("ignoring malformed session record")
		return nil
	}
	if rec.SessionID == "" {
		rec.SessionID = uuid.NewString()
		if err := s.persistSession(ctx, &rec); err != nil {
			s.log.Warn().Err(err).Msg("session id not persisted")
		}
	}
	s.current = &rec
	s.log.Debug().Str("user_id", rec.ID).Msg("session restored")
	return nil
}

// SignUp validates the input, appends the account and starts a session
func (s *Service) SignUp(ctx context.Context, name, email, secret string) (models.User, error) {
	if name == "" || email == "" || secret == "" {
		return models.User{}, ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return models.User{}, ErrEmailExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash secret: %w", err)
	}

	user := models.User{
		ID: s.ids.Next("u", func(id string) bool {
			for _, u := range users {
				if u.ID == id {
					return true
				}
			}
			return false
		}),
		Name:      name,
		AvatarURL: DefaultAvatarURL(name),
		Email:     email,
	}
	users = append(users, storedUser{User: user, PasswordHash: string(hash)})

	// The account and session exist in memory even if the mirror write fails
	warn := s.saveUsers(ctx, users)
	if err := s.startSession(ctx, user); err != nil && warn == nil {
		warn = err
	}
	s.log.Info().Str("user_id", user.ID).Msg("account created")
	return user, warn
}

// LogIn verifies the credentials and starts a session
func (s *Service) LogIn(ctx context.Context, email, secret string) (models.User, error) {
	if email == "" || secret == "" {
		return models.User{}, ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return models.User{}, err
	}

	for _, u := range users {
		if u.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(secret)) != nil {
			break
		}
		warn := s.startSession(ctx, u.User)
		s.log.Info().Str("user_id", u.ID).Msg("signed in")
		return u.User, warn
	}
	return models.User{}, ErrInvalidCredentials
}

// LogOut clears the in-memory and persisted session
func (s *Service) LogOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.log.Info().Str("user_id", s.current.ID).Msg("signed out")
	}
	s.current = nil
	if err := s.store.Delete(ctx, store.KeySessionUser); err != nil {
		return &store.PersistError{Key: store.KeySessionUser, Err: err}
	}
	return nil
}

// UpdateProfile applies the patch to the session user and the stored account
func (s *Service) UpdateProfile(ctx context.Context, userID string, patch models.UserPatch) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return models.User{}, ErrNoSession
	}
	if s.current.ID != userID {
		return models.User{}, ErrForbidden
	}

	updated := patch.Apply(s.current.User)
	rec := &models.SessionRecord{User: updated, SessionID: s.current.SessionID}
	s.current = rec

	warn := s.persistSession(ctx, rec)

	users, err := s.loadUsers(ctx)
	if err != nil {
		return updated, &store.PersistError{Key: store.KeyUsers, Err: err}
	}
	for i := range users {
		if users[i].ID == userID {
			users[i].User = updated
		}
	}
	if err := s.saveUsers(ctx, users); err != nil && warn == nil {
		warn = err
	}
	return updated, warn
}

// Current returns a copy of the session user
func (s *Service) Current() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.User{}, false
	}
	return s.current.User, true
}

// SessionID returns the current session id
func (s *Service) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.SessionID
}

// startSession replaces the current session; callers hold mu
func (s *Service) startSession(ctx context.Context, user models.User) error {
	rec := &models.SessionRecord{User: user, SessionID: uuid.NewString()}
	s.current = rec
	return s.persistSession(ctx, rec)
}

func (s *Service) persistSession(ctx context.Context, rec *models.SessionRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.store.Set(ctx, store.KeySessionUser, string(raw)); err != nil {
		s.log.Error().Err(err).Msg("failed to persist session")
		return &store.PersistError{Key: store.KeySessionUser, Err: err}
	}
	return nil
}

// loadUsers reads the credentialed users; a malformed record reads as empty
func (s *Service) loadUsers(ctx context.Context) ([]storedUser, error) {
	raw, ok, err := s.store.Get(ctx, store.KeyUsers)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if !ok {
		return []storedUser{}, nil
	}
	var users []storedUser
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		s.log.Warn().Err(err).Msg("ignoring malformed users record")
		return []storedUser{}, nil
	}
	return users, nil
}

func (s *Service) saveUsers(ctx context.Context, users []storedUser) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := s.store.Set(ctx, store.KeyUsers, string(raw)); err != nil {
		s.log.Error().Err(err).Msg("failed to persist users")
		return &store.PersistError{Key: store.KeyUsers, Err: err}
	}
	return nil
}
