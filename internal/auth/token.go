package auth

import (
	"errors"
	"time"

	"github.com/Asonyu-Ng/career-profile-pal/internal/domain/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carry the credential-free session user inside the persisted token.
type Claims struct {
	UserID string `json:"sub"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	JTI    string `json:"jti"`
	jwt.RegisteredClaims
}

// Manager signs and verifies the persisted session token. Restore trusts a
// valid signature as sufficient, so signing is the only integrity guard the
// session blob has.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (m *Manager) IssueSessionToken(s user.Session) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		UserID: s.ID,
		Email:  s.Email,
		Name:   s.Name,
		JTI:    uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			Subject:   s.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) ParseSessionToken(tokenStr string) (user.Session, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256

		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})

	if err != nil {
		return user.Session{}, err
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		return user.Session{}, errors.New("invalid session token")
	}

	if claims.UserID == "" {
		return user.Session{}, errors.New("session token missing subject")
	}

	return user.Session{
		ID:    claims.UserID,
		Email: claims.Email,
		Name:  claims.Name,
	}, nil
}
