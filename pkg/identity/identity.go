package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Role uint8

const (
	RoleUnknown Role = iota
	RoleBuyer
	RoleSeller
	RoleAdmin
)

var ErrUnauthenticated = errors.New("unauthenticated")

// ParseRole maps a token role claim onto the closed role set. "user" is the
// name the auth service gives to ordinary accounts and is read as buyer.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buyer", "user":
		return RoleBuyer, nil
	case "seller":
		return RoleSeller, nil
	case "admin":
		return RoleAdmin, nil
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	switch r {
	case RoleBuyer:
		return "buyer"
	case RoleSeller:
		return "seller"
	case RoleAdmin:
		return "admin"
	}
	return "unknown"
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r Role) In(roles ...Role) bool {
	for _, x := range roles {
		if r == x {
			return true
		}
	}
	return false
}

type Identity struct {
	UserID uuid.UUID
	Role   Role
}

const ctxKey = "identity"

// Set stores the caller on the echo context. user_id and role are kept as
// plain strings too, the request logger reads them.
func Set(c echo.Context, id Identity) {
	c.Set(ctxKey, id)
	c.Set("user_id", id.UserID.String())
	c.Set("role", id.Role.String())
}

func From(c echo.Context) (Identity, error) {
	id, ok := c.Get(ctxKey).(Identity)
	if !ok || id.UserID == uuid.Nil || id.Role == RoleUnknown {
		return Identity{}, ErrUnauthenticated
	}
	return id, nil
}
