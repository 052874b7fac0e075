package domain

import (
	"time"
)

// User represents a registered user of the task tracker.
// Users are created automatically on first contact from the messenger and are
// never mutated afterwards; the display name recorded at registration wins
// over any later variant.
type User struct {
	ID           int64     `json:"id"`
	MessengerID  int64     `json:"messenger_id"`
	UserName     string    `json:"user_name"`
	RegisteredAt time.Time `json:"registered_at"`
}

// NewUser creates a new User for the given messenger identity.
// The internal ID is assigned by the store on insert; RegisteredAt is set to
// the current time. Returns an error if validation fails.
func NewUser(messengerID int64, userName string) (*User, error) {
	user := &User{
		MessengerID:  messengerID,
		UserName:     userName,
		RegisteredAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.MessengerID <= 0 {
		return ErrInvalidMessengerID
	}

	if u.UserName == "" {
		return ErrEmptyUserName
	}

	return nil
}
