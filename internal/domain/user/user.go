package user

import "errors"

// User is a registry entry. The whole registry is persisted as one
// serialized slice under the cv_users key.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Name         string `json:"name"`
}

// Session is the credential-free view of a user exposed while authenticated.
type Session struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

var ErrNotFound = errors.New("user not found")

func (u User) Session() Session {
	return Session{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
	}
}
