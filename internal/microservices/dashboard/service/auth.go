package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/forms"
	"restaurant-dashboard/internal/gateway"
	"restaurant-dashboard/internal/session"
)

// ErrInvalidCredentials is returned when the backend rejects a login.
var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthServiceInterface interface {
	Login(ctx context.Context, in forms.Login) (session.Session, error)
	Logout(token string)
	Authenticate(token string) (session.Session, bool)
}

type AuthService struct {
	gw       Gateway
	sessions session.Store
	log      *logger.Logger
}

func NewAuthService(gw Gateway, sessions session.Store, log *logger.Logger) *AuthService {
	return &AuthService{gw: gw, sessions: sessions, log: log}
}

func (s *AuthService) Login(ctx context.Context, in forms.Login) (session.Session, error) {
	if err := in.Validate(); err != nil {
		return session.Session{}, err
	}
	email := strings.TrimSpace(in.Email)
	res, err := s.gw.Login(ctx, email, in.Password)
	if err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) || errors.Is(err, gateway.ErrNotFound) {
			s.log.Warn("login_rejected", map[string]any{"email": email})
			return session.Session{}, ErrInvalidCredentials
		}
		return session.Session{}, fmt.Errorf("login: %w", err)
	}

	// Without a backend token every user would share one key.
	token := res.Token
	if token == "" || token == gateway.DummyToken {
		token = uuid.NewString()
	}
	if res.Profile.Email == "" {
		res.Profile.Email = email
	}
	sess, err := s.sessions.Open(token, session.Session{Profile: res.Profile, Role: session.ParseRole(res.Profile.Role)})
	if err != nil {
		return session.Session{}, fmt.Errorf("open session: %w", err)
	}
	s.log.Info("user_logged_in", map[string]any{"email": sess.Profile.Email, "role": sess.Role.String()})
	return sess, nil
}

func (s *AuthService) Logout(token string) {
	s.sessions.Close(token)
}

func (s *AuthService) Authenticate(token string) (session.Session, bool) {
	return s.sessions.Get(token)
}
