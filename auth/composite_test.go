package auth

import (
	"context"
	"errors"
	"testing"
)

type mockAuthenticator struct {
	name     string
	supports bool
	result   *AuthResult
	err      error
	calls    int
}

func (m *mockAuthenticator) Name() string { return m.name }

func (m *mockAuthenticator) Supports(context.Context, *AuthRequest) bool { return m.supports }

func (m *mockAuthenticator) Authenticate(context.Context, *AuthRequest) (*AuthResult, error) {
	m.calls++
	return m.result, m.err
}

func TestCompositeAuthenticator_FirstSuccessWins(t *testing.T) {
	first := &mockAuthenticator{name: "a", supports: true, result: AuthSuccess(&Identity{Principal: "a", Method: AuthMethodAPIKey})}
	second := &mockAuthenticator{name: "b", supports: true, result: AuthSuccess(&Identity{Principal: "b", Method: AuthMethodJWT})}

	result, err := NewCompositeAuthenticator(first, second).Authenticate(context.Background(), &AuthRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Identity.Principal != "a" {
		t.Errorf("Principal = %q, want a", result.Identity.Principal)
	}
	if second.calls != 0 {
		t.Error("second authenticator should not run after a success")
	}
}

func TestCompositeAuthenticator_SkipsUnsupported(t *testing.T) {
	skipped := &mockAuthenticator{name: "a", supports: false}
	used := &mockAuthenticator{name: "b", supports: true, result: AuthFailure(ErrInvalidCredentials, "b")}

	c := NewCompositeAuthenticator(skipped, used)
	if !c.Supports(context.Background(), &AuthRequest{}) {
		t.Error("Supports() should be true when any member supports")
	}
	result, err := c.Authenticate(context.Background(), &AuthRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if skipped.calls != 0 {
		t.Error("unsupported authenticator was called")
	}
	if result.Authenticated || !errors.Is(result.Error, ErrInvalidCredentials) {
		t.Errorf("result = %+v, want last failure", result)
	}
}

func TestCompositeAuthenticator_NoneSupported(t *testing.T) {
	c := NewCompositeAuthenticator(&mockAuthenticator{name: "a"})
	result, err := c.Authenticate(context.Background(), &AuthRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(result.Error, ErrMissingCredentials) {
		t.Errorf("Error = %v, want ErrMissingCredentials", result.Error)
	}
}

func TestCompositeAuthenticator_InternalErrorStops(t *testing.T) {
	boom := errors.New("boom")
	broken := &mockAuthenticator{name: "a", supports: true, err: boom}
	next := &mockAuthenticator{name: "b", supports: true, result: AuthSuccess(&Identity{Principal: "b"})}

	_, err := NewCompositeAuthenticator(broken, next).Authenticate(context.Background(), &AuthRequest{})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
	if next.calls != 0 {
		t.Error("chain should stop on internal error")
	}
}
