// Package session owns the authenticated session: credential exchange via
// the remote auth client and durable persistence across process restarts.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/and161185/shopfront/internal/model"
	"github.com/and161185/shopfront/internal/remote"
)

// KV is durable key-value storage for the session record. Writes are
// last-writer-wins; absence of a stored session defines the
// unauthenticated state.
type KV interface {
	Save(s model.Session) error
	Load() (model.Session, bool, error)
	Clear() error
}

// Store composes credential exchange with durable persistence. It is the
// single place session state is read or written; nothing else touches the
// underlying storage.
type Store struct {
	auth remote.Auth
	kv   KV
	log  *zap.Logger
}

// NewStore constructs a Store. A nil logger defaults to a nop.
func NewStore(auth remote.Auth, kv KV, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{auth: auth, kv: kv, log: log}
}

// Login authenticates and persists the resulting session.
func (s *Store) Login(ctx context.Context, username, password string) (model.Session, error) {
	return s.exchange(ctx, s.auth.Login, username, password)
}

// Register creates an account and persists the resulting session.
func (s *Store) Register(ctx context.Context, username, password string) (model.Session, error) {
	return s.exchange(ctx, s.auth.Register, username, password)
}

func (s *Store) exchange(ctx context.Context, fn func(context.Context, string, string) (model.Session, error), username, password string) (model.Session, error) {
	sess, err := fn(ctx, username, password)
	if err != nil {
		return model.Session{}, err
	}
	// Diagnostic only: the token stays valid for requests until the
	// server rejects it, regardless of the embedded expiry.
	sess.ExpiresAt = tokenExpiry(sess.Token)
	if err := s.kv.Save(sess); err != nil {
		return model.Session{}, fmt.Errorf("persist session: %w", err)
	}
	s.log.Info("session saved", zap.String("username", sess.Username))
	return sess, nil
}

// Logout erases the persisted session. Idempotent; never contacts the
// remote service.
func (s *Store) Logout() error {
	return s.kv.Clear()
}

// Current restores the persisted session, if any. Storage read failures
// are reported as "no session" so startup never hard-fails on a damaged
// session file.
func (s *Store) Current() (model.Session, bool) {
	sess, ok, err := s.kv.Load()
	if err != nil {
		s.log.Warn("load session", zap.Error(err))
		return model.Session{}, false
	}
	return sess, ok
}

// Token implements the bearer token source for authenticated calls.
func (s *Store) Token() (string, bool) {
	sess, ok := s.Current()
	if !ok || !sess.LoggedIn() {
		return "", false
	}
	return sess.Token, true
}

// tokenExpiry extracts the exp claim from a JWT without validating it.
// Returns the zero time when the token is not a parseable JWT.
func tokenExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims
	_, _ = jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) { return nil, nil },
		jwt.WithoutClaimsValidation(),
	)
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
