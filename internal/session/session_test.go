package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/shopfront/internal/errs"
	"github.com/and161185/shopfront/internal/model"
	"github.com/and161185/shopfront/internal/remote"
)

type fakeAuth struct {
	session model.Session
	err     error

	loginCalls    int
	registerCalls int
}

var _ remote.Auth = (*fakeAuth)(nil)

func (f *fakeAuth) Login(context.Context, string, string) (model.Session, error) {
	f.loginCalls++
	return f.session, f.err
}
func (f *fakeAuth) Register(context.Context, string, string) (model.Session, error) {
	f.registerCalls++
	return f.session, f.err
}

func withTmpConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return filepath.Join(dir, "shopfront")
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestFileKV_SaveLoadClear(t *testing.T) {
	base := withTmpConfig(t)
	kv := NewFileKV("")

	if !strings.HasPrefix(kv.path(), base) || !strings.HasSuffix(kv.path(), "session.json") {
		t.Fatalf("unexpected session path: %s", kv.path())
	}

	if _, ok, err := kv.Load(); err != nil || ok {
		t.Fatalf("missing file must be no-session: ok=%v err=%v", ok, err)
	}

	want := model.Session{Token: "tok", Username: "alice"}
	if err := kv.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok, err := kv.Load()
	if err != nil || !ok || got.Token != "tok" || got.Username != "alice" {
		t.Fatalf("Load: got=%+v ok=%v err=%v", got, ok, err)
	}

	if err := kv.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := kv.Load(); ok {
		t.Fatalf("session must be gone after Clear")
	}
	// idempotent
	if err := kv.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}

func TestFileKV_EmptyTokenIsAbsent(t *testing.T) {
	_ = withTmpConfig(t)
	kv := NewFileKV("")
	if err := kv.Save(model.Session{Username: "ghost"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok, err := kv.Load(); err != nil || ok {
		t.Fatalf("tokenless record must read as no-session: ok=%v err=%v", ok, err)
	}
}

func TestFileKV_CorruptFile(t *testing.T) {
	_ = withTmpConfig(t)
	kv := NewFileKV("")
	if err := os.MkdirAll(filepath.Dir(kv.path()), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(kv.path(), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := kv.Load(); err == nil {
		t.Fatalf("want error on corrupt session file")
	}
}

func TestStore_LoginPersistsAndRestores(t *testing.T) {
	t.Parallel()
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	auth := &fakeAuth{session: model.Session{Token: signedToken(t, exp), Username: "alice"}}
	kv := &MemKV{}
	s := NewStore(auth, kv, nil)

	sess, err := s.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !sess.LoggedIn() || sess.Username != "alice" {
		t.Fatalf("bad session: %+v", sess)
	}
	if !sess.ExpiresAt.Equal(exp) {
		t.Fatalf("expiry diagnostic: got %v want %v", sess.ExpiresAt, exp)
	}

	got, ok := s.Current()
	if !ok || got.Token != sess.Token {
		t.Fatalf("Current after login: %+v ok=%v", got, ok)
	}
	if tok, ok := s.Token(); !ok || tok != sess.Token {
		t.Fatalf("Token: %q ok=%v", tok, ok)
	}
}

func TestStore_OpaqueTokenHasNoExpiry(t *testing.T) {
	t.Parallel()
	auth := &fakeAuth{session: model.Session{Token: "not-a-jwt", Username: "bob"}}
	s := NewStore(auth, &MemKV{}, nil)

	sess, err := s.Register(context.Background(), "bob", "pw")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !sess.ExpiresAt.IsZero() {
		t.Fatalf("opaque token must carry zero expiry, got %v", sess.ExpiresAt)
	}
	if auth.registerCalls != 1 {
		t.Fatalf("registerCalls=%d", auth.registerCalls)
	}
}

func TestStore_AuthFailureDoesNotPersist(t *testing.T) {
	t.Parallel()
	auth := &fakeAuth{err: errs.ErrUnauthorized}
	kv := &MemKV{}
	s := NewStore(auth, kv, nil)

	if _, err := s.Login(context.Background(), "alice", "bad"); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if _, ok := s.Current(); ok {
		t.Fatalf("failed login must not persist a session")
	}
	if _, ok := s.Token(); ok {
		t.Fatalf("no token expected")
	}
}

func TestStore_LogoutIsIdempotent(t *testing.T) {
	t.Parallel()
	auth := &fakeAuth{session: model.Session{Token: "t", Username: "alice"}}
	s := NewStore(auth, &MemKV{}, nil)

	if _, err := s.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := s.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, ok := s.Current(); ok {
		t.Fatalf("session must be gone after logout")
	}
	if err := s.Logout(); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
	if auth.loginCalls != 1 {
		t.Fatalf("logout must not contact the remote service")
	}
}
