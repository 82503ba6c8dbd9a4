package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/Asonyu-Ng/career-profile-pal/internal/audit"
	"github.com/Asonyu-Ng/career-profile-pal/internal/auth"
	"github.com/Asonyu-Ng/career-profile-pal/internal/domain/user"
	"github.com/Asonyu-Ng/career-profile-pal/internal/identity"
	"github.com/Asonyu-Ng/career-profile-pal/internal/security"
	"github.com/Asonyu-Ng/career-profile-pal/internal/storage"

	"github.com/go-playground/validator/v10"
)

const (
	// whole user registry, one serialized slice
	usersKey = "cv_users"
	// signed session token for the active user, absent while anonymous
	sessionKey = "cv_user"
)

type IntegrityChecker interface {
	Sweep(ctx context.Context) audit.Report
}

// Manager owns the user registry and the Anonymous/Authenticated state
// machine. It is also the identity registry: the validator handed to the
// record store reads users through it.
type Manager struct {
	blobs   storage.Store
	tokens  *auth.Manager
	log     *slog.Logger
	ids     *identity.Validator
	auditor IntegrityChecker

	mu      sync.Mutex
	current *user.Session
}

func NewManager(blobs storage.Store, tokens *auth.Manager, log *slog.Logger) *Manager {
	m := &Manager{
		blobs:  blobs,
		tokens: tokens,
		log:    log,
	}
	m.ids = identity.NewValidator(m, log)

	return m
}

// SetAuditor wires the integrity sweep triggered after restore, login and
// registration. Wired separately because the auditor reads records through
// a store that itself validates users through this manager.
func (m *Manager) SetAuditor(a IntegrityChecker) {
	m.auditor = a
}

// Validator exposes the registry-backed id validator for the record store
// and the auto-save coordinator.
func (m *Manager) Validator() *identity.Validator {
	return m.ids
}

// Users loads the registry. Absent and corrupt registries both read as
// empty; membership simply cannot be confirmed then.
func (m *Manager) Users(ctx context.Context) []user.User {
	blob, err := m.blobs.Get(ctx, usersKey)

	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			m.log.Error("reading user registry", "err", err)
		}

		return []user.User{}
	}

	var users []user.User

	if err := json.Unmarshal(blob, &users); err != nil {
		m.log.Error("user registry blob is corrupt, treating as empty", "err", err)
		return []user.User{}
	}

	return users
}

type registerInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Name     string `validate:"required"`
}

var inputValidator = validator.New()

// Register creates a user and signs them in. The duplicate-email check is a
// case-sensitive exact match, same as login.
func (m *Manager) Register(ctx context.Context, email, password, name string) bool {
	in := registerInput{Email: email, Password: password, Name: name}

	if err := inputValidator.Struct(in); err != nil {
		m.log.Warn("registration input rejected", "err", err)
		return false
	}

	users := m.Users(ctx)

	for _, u := range users {
		if u.Email == email {
			m.log.Warn("registration failed, email already registered", "email", email)
			return false
		}
	}

	hash, err := security.HashPassword(password)

	if err != nil {
		m.log.Error("hashing password", "err", err)
		return false
	}

	newUser := user.User{
		ID:           m.ids.NewUserID(ctx),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	}

	if !m.writeUsers(ctx, append(users, newUser)) {
		return false
	}

	m.log.Info("user registered", "userId", newUser.ID, "name", newUser.Name)

	m.startSession(ctx, newUser.Session())
	m.runAudit(ctx)

	return true
}

// Login authenticates against the registry: exact email match, bcrypt
// password comparison. Both failures look the same to the caller.
func (m *Manager) Login(ctx context.Context, email, password string) bool {
	for _, u := range m.Users(ctx) {
		if u.Email != email {
			continue
		}

		if err := security.CheckPassword(u.PasswordHash, password); err != nil {
			m.log.Warn("login failed, password mismatch", "email", email)
			return false
		}

		m.log.Info("user logged in", "userId", u.ID, "name", u.Name)

		m.startSession(ctx, u.Session())
		m.runAudit(ctx)

		return true
	}

	m.log.Warn("login failed, unknown email", "email", email)

	return false
}

// Logout drops back to Anonymous and clears the persisted session. Registry
// and CV records stay untouched.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if err := m.blobs.Remove(ctx, sessionKey); err != nil {
		m.log.Error("clearing persisted session", "err", err)
	}

	m.log.Info("user logged out")
}

// Restore resumes a persisted session without re-checking credentials: a
// token with a valid signature is trusted as-is. Any parse or signature
// failure degrades to Anonymous.
func (m *Manager) Restore(ctx context.Context) bool {
	blob, err := m.blobs.Get(ctx, sessionKey)

	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			m.log.Error("reading persisted session", "err", err)
		}

		return false
	}

	s, err := m.tokens.ParseSessionToken(string(blob))

	if err != nil {
		m.log.Warn("persisted session token rejected", "err", err)
		return false
	}

	m.mu.Lock()
	m.current = &s
	m.mu.Unlock()

	m.log.Info("session restored", "userId", s.ID, "name", s.Name)

	m.runAudit(ctx)

	return true
}

// Current returns the authenticated user, credential-free, or false while
// anonymous.
func (m *Manager) Current() (user.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return user.Session{}, false
	}

	return *m.current, true
}

func (m *Manager) startSession(ctx context.Context, s user.Session) {
	m.mu.Lock()
	m.current = &s
	m.mu.Unlock()

	token, err := m.tokens.IssueSessionToken(s)

	if err != nil {
		m.log.Error("issuing session token", "err", err)
		return
	}

	if err := m.blobs.Set(ctx, sessionKey, []byte(token)); err != nil {
		// in-memory session still stands, only restore-after-restart is lost
		m.log.Error("persisting session token", "err", err)
	}
}

func (m *Manager) writeUsers(ctx context.Context, users []user.User) bool {
	blob, err := json.Marshal(users)

	if err != nil {
		m.log.Error("serializing user registry", "err", err)
		return false
	}

	if err := m.blobs.Set(ctx, usersKey, blob); err != nil {
		m.log.Error("writing user registry", "err", err)
		return false
	}

	return true
}

func (m *Manager) runAudit(ctx context.Context) {
	if m.auditor == nil {
		return
	}

	m.auditor.Sweep(ctx)
}
