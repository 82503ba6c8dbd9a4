package identity

import (
	"context"
	"crypto/rand"
	"log/slog"
	"strconv"
	"time"

	"github.com/Asonyu-Ng/career-profile-pal/internal/domain/user"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID returns an opaque token: base-36 millisecond timestamp plus two
// independent random segments, dash-delimited. Collisions are treated as
// negligible, not impossible; NewUserID adds the retry loop for user ids.
func NewID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)

	return ts + "-" + randomSegment(13) + "-" + randomSegment(6)
}

func randomSegment(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)

	out := make([]byte, n)
	for i, b := range buf {
		out[i] = base36[int(b)%len(base36)]
	}

	return string(out)
}

// Registry is the read side of the user registry. Implementations must not
// fail upward: a corrupt or unreadable registry yields an empty slice.
type Registry interface {
	Users(ctx context.Context) []user.User
}

type Validator struct {
	registry Registry
	log      *slog.Logger
}

func NewValidator(registry Registry, log *slog.Logger) *Validator {
	return &Validator{
		registry: registry,
		log:      log,
	}
}

// IsRegisteredUserID reports whether some registry entry carries exactly this id.
func (v *Validator) IsRegisteredUserID(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}

	for _, u := range v.registry.Users(ctx) {
		if u.ID == id {
			return true
		}
	}

	return false
}

const maxUserIDAttempts = 10

// NewUserID generates an id that no registry entry holds yet. After the
// attempt bound it hands back the last candidate anyway; a collision at that
// point is degraded-but-non-fatal.
func (v *Validator) NewUserID(ctx context.Context) string {
	var id string

	for attempt := 0; attempt < maxUserIDAttempts; attempt++ {
		id = NewID()

		if !v.IsRegisteredUserID(ctx, id) {
			return id
		}

		v.log.Warn("generated user id collides with registry", "attempt", attempt+1)
	}

	v.log.Warn("user id still colliding after retry bound, keeping last candidate", "attempts", maxUserIDAttempts)

	return id
}
