package domain

import (
	"fmt"
	"strings"
	"time"
)

// User is an entry in the role directory.
type User struct {
	ID        string
	Name      string
	Role      Role
	CreatedAt time.Time
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("user name is required: %w", ErrValidation)
	}
	if !ValidRoles[u.Role] {
		return fmt.Errorf("unknown role %q: %w", u.Role, ErrValidation)
	}
	return nil
}

// Actor is the explicit identity every state-changing call runs as.
type Actor struct {
	UserID string
	Role   Role
}

// Actor returns the acting identity for u.
func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}

func (a Actor) String() string {
	return fmt.Sprintf("%s (%s)", a.UserID, a.Role)
}
