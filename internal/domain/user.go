// Package domain holds the plain data a room is made of.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxUsernameLen is counted in runes.
const MaxUsernameLen = 36

var (
	ErrInvalidUsername = errors.New("invalid username")
	ErrUsernameEmpty   = fmt.Errorf("%w: empty", ErrInvalidUsername)
	ErrUsernameTooLong = fmt.Errorf("%w: longer than %d characters", ErrInvalidUsername, MaxUsernameLen)
	ErrUsernameControl = fmt.Errorf("%w: control characters", ErrInvalidUsername)
)

type UserID string

// User is one connection's identity. Scores are keyed by Username, so two
// connections with the same name share a leaderboard row; ID is per connection.
type User struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
}

func NewUser(name string) (*User, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, ErrUsernameEmpty
	case utf8.RuneCountInString(name) > MaxUsernameLen:
		return nil, ErrUsernameTooLong
	case strings.ContainsFunc(name, unicode.IsControl):
		return nil, ErrUsernameControl
	}
	return &User{ID: UserID(uuid.NewString()), Username: name}, nil
}
