// Package auth is the login/registration flow, the only writer of the
// credential store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/comigor/memoria/internal/api"
	"github.com/comigor/memoria/internal/credential"
	"github.com/comigor/memoria/internal/logger"
)

const (
	RegisterPath = "/auth/register"
	LoginPath    = "/auth/login"
)

// ErrNoToken is returned when the backend accepted the request but sent no token.
var ErrNoToken = errors.New("backend returned no access token")

// Requester is the subset of *api.Client used here.
type Requester interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// Session is the backend's answer to a successful login or registration.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      int64  `json:"user_id"`
	Message     string `json:"message"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Service exchanges email/password for a token and stores it.
type Service struct {
	client Requester
	store  credential.Store
}

// NewService returns a Service persisting tokens in store.
func NewService(requester Requester, store credential.Store) *Service {
	return &Service{client: requester, store: store}
}

// Register creates an account and stores the returned token.
func (s *Service) Register(ctx context.Context, email, password string) (Session, error) {
	return s.exchange(ctx, RegisterPath, email, password, "Registration failed")
}

// Login authenticates and stores the returned token.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	return s.exchange(ctx, LoginPath, email, password, "Login failed")
}

// Logout forgets the stored token.
func (s *Service) Logout() error {
	return s.store.Clear()
}

func (s *Service) exchange(ctx context.Context, path, email, password, fallback string) (Session, error) {
	var sess Session
	if err := s.client.Do(ctx, http.MethodPost, path, credentials{Email: email, Password: password}, &sess); err != nil {
		return Session{}, fmt.Errorf("%s: %w", api.Message(err, fallback), err)
	}
	if sess.AccessToken == "" {
		return Session{}, ErrNoToken
	}
	if err := s.store.Set(credential.Credential(sess.AccessToken)); err != nil {
		return Session{}, fmt.Errorf("store token: %w", err)
	}
	logger.L.Info("authenticated", "path", path, "user_id", sess.UserID)
	return sess, nil
}
