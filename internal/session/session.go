package session

import (
	"context"
	"strings"
	"time"

	"restaurant-dashboard/internal/domain"
)

type Role string

const (
	RoleUnknown Role = ""
	RoleManager Role = "manager"
	RoleChef    Role = "chef"
)

// ParseRole reads a backend role label. "Chief" is an accepted spelling of chef.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manager":
		return RoleManager
	case "chef", "chief":
		return RoleChef
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	if r == RoleUnknown {
		return "unknown"
	}
	return string(r)
}

// Session is an authenticated dashboard user.
type Session struct {
	Token     string              `json:"-"`
	Profile   domain.AdminProfile `json:"profile"`
	Role      Role                `json:"role"`
	CreatedAt time.Time           `json:"created_at"`
	ExpiresAt time.Time           `json:"expires_at"`
}

func New(token string, profile domain.AdminProfile, now time.Time, ttl time.Duration) Session {
	return Session{
		Token:     token,
		Profile:   profile,
		Role:      ParseRole(profile.Role),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }

func (s Session) CanManageStaff() bool { return s.Role == RoleManager }
func (s Session) CanViewStats() bool   { return s.Role == RoleManager }
func (s Session) CanSetPayment() bool  { return s.Role == RoleManager }
func (s Session) CanSetServing() bool  { return s.Role == RoleManager || s.Role == RoleChef }

type ctxKey struct{}

func WithContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
