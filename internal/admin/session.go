// Package admin gates catalog administration behind a two-state login
// session backed by an injected credential verifier.
package admin

import (
	"crypto/subtle"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"shop-service/internal/apperr"
	"shop-service/internal/util"
)

// CredentialVerifier checks an admin credential pair.
type CredentialVerifier interface {
	Verify(username, password string) bool
}

// StaticVerifier verifies against a single configured credential pair.
type StaticVerifier struct {
	Username string
	Password string
}

func (v StaticVerifier) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(v.Password)) == 1
	return userOK && passOK
}

// Session tracks the LoggedOut/LoggedIn admin state.
type Session struct {
	verifier CredentialVerifier
	logger   *zap.Logger

	mu       sync.Mutex
	loggedIn bool
}

// NewSession creates a logged-out session over the verifier.
func NewSession(verifier CredentialVerifier) *Session {
	return &Session{
		verifier: verifier,
		logger:   util.GetLogger(),
	}
}

// LoggedIn reports whether the session is authenticated.
func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

// Login verifies the credentials and moves the session to LoggedIn on
// success.
func (s *Session) Login(username, password string) bool {
	ok := s.verifier.Verify(username, password)

	s.mu.Lock()
	if ok {
		s.loggedIn = true
	}
	s.mu.Unlock()

	if ok {
		s.logger.Info("Admin login successful", zap.String("username", username))
	} else {
		s.logger.Warn("Admin login rejected", zap.String("username", username))
	}
	return ok
}

// Logout returns the session to LoggedOut.
func (s *Session) Logout() {
	s.mu.Lock()
	s.loggedIn = false
	s.mu.Unlock()

	s.logger.Info("Admin logged out")
}

// Require fails with apperr.ErrAdminRequired unless the session is
// authenticated. Admin-gated actions call this first.
func (s *Session) Require() error {
	if !s.LoggedIn() {
		return fmt.Errorf("admin action: %w", apperr.ErrAdminRequired)
	}
	return nil
}
