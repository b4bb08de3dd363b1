package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/mealplanner-backend/internal/data/repos/testutil"
	"github.com/yungbote/mealplanner-backend/internal/platform/apierr"
)

func TestRegisterThenLogin(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	email := testutil.UniqueEmail("cook")

	reg, err := s.auth.Register(ctx, email, "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	id, err := s.codec.Validate(reg.Token)
	if err != nil {
		t.Fatalf("registration token invalid: %v", err)
	}
	if id.UserID != reg.User.ID || id.Email != reg.User.Email {
		t.Fatalf("token identity %+v does not match user %+v", id, reg.User)
	}

	if _, err := s.auth.Login(ctx, email, "wrong-password"); !errors.Is(err, apierr.ErrInvalidCredential) {
		t.Fatalf("wrong password: expected ErrInvalidCredential, got %v", err)
	}

	login, err := s.auth.Login(ctx, email, "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != reg.User.ID {
		t.Fatalf("Login returned a different user")
	}
	if login.User.LastLoginAt == nil {
		t.Fatalf("Login should set last_login_at")
	}
	if _, err := s.codec.Validate(login.Token); err != nil {
		t.Fatalf("login token invalid: %v", err)
	}

	me, err := s.auth.Me(ctx, reg.User.ID)
	if err != nil || me.LastLoginAt == nil {
		t.Fatalf("Me: %+v err=%v", me, err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	email := testutil.UniqueEmail("dup")

	if _, err := s.auth.Register(ctx, email, "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := s.auth.Register(ctx, email, "another1")
	if !errors.Is(err, apierr.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if apierr.From(err).Status != 409 {
		t.Fatalf("expected 409, got %d", apierr.From(err).Status)
	}
}

func TestRegisterValidation(t *testing.T) {
	s := newStack(t)
	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"missing email", "", "secret1"},
		{"missing password", "a@example.com", ""},
		{"short password", "a@example.com", "12345"},
		{"bad email", "not-an-email", "secret1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.auth.Register(context.Background(), tc.email, tc.password)
			if !errors.Is(err, apierr.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	email := testutil.UniqueEmail("uniform")
	if _, err := s.auth.Register(ctx, email, "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, unknown := s.auth.Login(ctx, testutil.UniqueEmail("ghost"), "secret1")
	_, wrong := s.auth.Login(ctx, email, "secret2")
	if unknown == nil || wrong == nil {
		t.Fatalf("expected both logins to fail")
	}
	if unknown.Error() != wrong.Error() {
		t.Fatalf("failure messages differ: %q vs %q", unknown, wrong)
	}
	if apierr.From(unknown).Status != 401 {
		t.Fatalf("expected 401, got %d", apierr.From(unknown).Status)
	}
}

func TestLoginNormalizesEmail(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	email := testutil.UniqueEmail("case")
	if _, err := s.auth.Register(ctx, email, "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := s.auth.Login(ctx, "  "+email+"  ", "secret1"); err != nil {
		t.Fatalf("Login with padded email: %v", err)
	}
}
