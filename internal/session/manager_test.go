package session_test

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Asonyu-Ng/career-profile-pal/internal/audit"
	"github.com/Asonyu-Ng/career-profile-pal/internal/auth"
	"github.com/Asonyu-Ng/career-profile-pal/internal/session"
	"github.com/Asonyu-Ng/career-profile-pal/internal/storage/memory"
)

func newManager(blobs *memory.Store) *session.Manager {
	tokens := auth.NewManager("test-secret", time.Hour)
	log := slog.New(slog.DiscardHandler)

	return session.NewManager(blobs, tokens, log)
}

type countingAuditor struct {
	sweeps atomic.Int64
}

func (c *countingAuditor) Sweep(ctx context.Context) audit.Report {
	c.sweeps.Add(1)
	return audit.Report{}
}

func TestRegister_SignsIn(t *testing.T) {
	m := newManager(memory.New())
	ctx := context.Background()

	if !m.Register(ctx, "ada@example.com", "correct horse", "Ada") {
		t.Fatalf("registration failed")
	}

	current, ok := m.Current()

	if !ok {
		t.Fatalf("expected authenticated state after registration")
	}

	if current.Email != "ada@example.com" || current.Name != "Ada" {
		t.Fatalf("unexpected session user: %+v", current)
	}

	if current.ID == "" {
		t.Fatalf("session user has no id")
	}
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	m := newManager(memory.New())
	ctx := context.Background()

	if !m.Register(ctx, "ada@example.com", "correct horse", "Ada") {
		t.Fatalf("first registration failed")
	}

	if m.Register(ctx, "ada@example.com", "other password", "Imposter") {
		t.Fatalf("duplicate email must be rejected")
	}

	if got := len(m.Users(ctx)); got != 1 {
		t.Fatalf("rejected registration changed the registry: %d users", got)
	}
}

func TestRegister_EmailMatchIsCaseSensitive(t *testing.T) {
	m := newManager(memory.New())
	ctx := context.Background()

	if !m.Register(ctx, "ada@example.com", "correct horse", "Ada") {
		t.Fatalf("first registration failed")
	}

	// exact-match semantics: a case variant is a different email here
	if !m.Register(ctx, "Ada@example.com", "correct horse", "Ada Again") {
		t.Fatalf("case variant of an email must register as a distinct user")
	}

	if got := len(m.Users(ctx)); got != 2 {
		t.Fatalf("expected 2 registry entries, got %d", got)
	}
}

func TestRegister_RejectsBadInput(t *testing.T) {
	m := newManager(memory.New())
	ctx := context.Background()

	if m.Register(ctx, "not-an-email", "correct horse", "Ada") {
		t.Fatalf("malformed email must be rejected")
	}

	if m.Register(ctx, "ada@example.com", "short", "Ada") {
		t.Fatalf("short password must be rejected")
	}

	if got := len(m.Users(ctx)); got != 0 {
		t.Fatalf("rejected input reached the registry: %d users", got)
	}
}

func TestRegistry_NeverStoresPlaintextPassword(t *testing.T) {
	m := newManager(memory.New())
	ctx := context.Background()

	const password = "correct horse battery"

	if !m.Register(ctx, "ada@example.com", password, "Ada") {
		t.Fatalf("registration failed")
	}

	users := m.Users(ctx)

	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}

	if users[0].PasswordHash == password || users[0].PasswordHash == "" {
		t.Fatalf("registry must hold a hash, not the secret")
	}
}

func TestLogin(t *testing.T) {
	m := newManager(memory.New())
	ctx := context.Background()

	if !m.Register(ctx, "ada@example.com", "correct horse", "Ada") {
		t.Fatalf("registration failed")
	}

	m.Logout(ctx)

	if _, ok := m.Current(); ok {
		t.Fatalf("expected anonymous state after logout")
	}

	if m.Login(ctx, "ada@example.com", "wrong password") {
		t.Fatalf("wrong password must fail")
	}

	if m.Login(ctx, "nobody@example.com", "correct horse") {
		t.Fatalf("unknown email must fail")
	}

	if !m.Login(ctx, "ada@example.com", "correct horse") {
		t.Fatalf("valid credentials rejected")
	}

	current, ok := m.Current()

	if !ok || current.Email != "ada@example.com" {
		t.Fatalf("unexpected session after login: %+v, ok=%v", current, ok)
	}
}

func TestRestore_ResumesPersistedSession(t *testing.T) {
	blobs := memory.New()
	ctx := context.Background()

	first := newManager(blobs)

	if !first.Register(ctx, "ada@example.com", "correct horse", "Ada") {
		t.Fatalf("registration failed")
	}

	// a fresh manager over the same storage, as after a process restart
	second := newManager(blobs)

	if !second.Restore(ctx) {
		t.Fatalf("restore failed with a persisted session present")
	}

	current, ok := second.Current()

	if !ok || current.Email != "ada@example.com" {
		t.Fatalf("restored wrong session: %+v, ok=%v", current, ok)
	}
}

func TestRestore_NothingPersisted(t *testing.T) {
	m := newManager(memory.New())

	if m.Restore(context.Background()) {
		t.Fatalf("restore must fail with no persisted session")
	}

	if _, ok := m.Current(); ok {
		t.Fatalf("expected anonymous state")
	}
}

func TestRestore_TamperedTokenDegradesToAnonymous(t *testing.T) {
	blobs := memory.New()
	ctx := context.Background()

	first := newManager(blobs)

	if !first.Register(ctx, "ada@example.com", "correct horse", "Ada") {
		t.Fatalf("registration failed")
	}

	blob, err := blobs.Get(ctx, "cv_user")

	if err != nil {
		t.Fatalf("reading session blob: %v", err)
	}

	tampered := append([]byte{}, blob...)
	tampered[len(tampered)-1] ^= 0x01

	if err := blobs.Set(ctx, "cv_user", tampered); err != nil {
		t.Fatalf("writing tampered blob: %v", err)
	}

	second := newManager(blobs)

	if second.Restore(ctx) {
		t.Fatalf("tampered session token must not restore")
	}

	if _, ok := second.Current(); ok {
		t.Fatalf("expected anonymous state after rejected restore")
	}
}

func TestLogout_ClearsPersistedSession(t *testing.T) {
	blobs := memory.New()
	ctx := context.Background()

	m := newManager(blobs)

	if !m.Register(ctx, "ada@example.com", "correct horse", "Ada") {
		t.Fatalf("registration failed")
	}

	m.Logout(ctx)

	if newManager(blobs).Restore(ctx) {
		t.Fatalf("restore must fail after logout cleared the session")
	}
}

func TestAudit_TriggeredOnAuthTransitions(t *testing.T) {
	blobs := memory.New()
	ctx := context.Background()

	m := newManager(blobs)
	auditor := &countingAuditor{}
	m.SetAuditor(auditor)

	if !m.Register(ctx, "ada@example.com", "correct horse", "Ada") {
		t.Fatalf("registration failed")
	}

	if got := auditor.sweeps.Load(); got != 1 {
		t.Fatalf("expected 1 sweep after registration, got %d", got)
	}

	m.Logout(ctx)

	if !m.Login(ctx, "ada@example.com", "correct horse") {
		t.Fatalf("login failed")
	}

	if got := auditor.sweeps.Load(); got != 2 {
		t.Fatalf("expected 2 sweeps after login, got %d", got)
	}

	second := newManager(blobs)
	second.SetAuditor(auditor)

	if !second.Restore(ctx) {
		t.Fatalf("restore failed")
	}

	if got := auditor.sweeps.Load(); got != 3 {
		t.Fatalf("expected 3 sweeps after restore, got %d", got)
	}
}

func TestUsers_CorruptRegistryReadsEmpty(t *testing.T) {
	blobs := memory.New()
	ctx := context.Background()

	if err := blobs.Set(ctx, "cv_users", []byte("][")); err != nil {
		t.Fatalf("seeding corrupt registry: %v", err)
	}

	m := newManager(blobs)

	if got := len(m.Users(ctx)); got != 0 {
		t.Fatalf("corrupt registry must read as empty, got %d users", got)
	}

	if !m.Register(ctx, "ada@example.com", "correct horse", "Ada") {
		t.Fatalf("registration over corrupt registry failed")
	}
}

func TestValidator_TracksRegistry(t *testing.T) {
	blobs := memory.New()
	ctx := context.Background()

	m := newManager(blobs)

	if !m.Register(ctx, "ada@example.com", "correct horse", "Ada") {
		t.Fatalf("registration failed")
	}

	current, _ := m.Current()

	if !m.Validator().IsRegisteredUserID(ctx, current.ID) {
		t.Fatalf("registered user id must validate")
	}

	if m.Validator().IsRegisteredUserID(ctx, "u-ghost") {
		t.Fatalf("unknown id must not validate")
	}
}
