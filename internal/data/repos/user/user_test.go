package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/mealplanner-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mealplanner-backend/internal/domain"
	"github.com/yungbote/mealplanner-backend/internal/platform/apierr"
	"github.com/yungbote/mealplanner-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	email := testutil.UniqueEmail("UserRepo")
	u := &types.User{Email: "  " + email + " ", PasswordHash: "hash"}
	if err := repo.Create(dbc, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Fatalf("Create: expected id to be assigned")
	}
	if u.Email != NormalizeEmail(email) {
		t.Fatalf("Create: email not normalized: %q", u.Email)
	}

	got, err := repo.GetByID(dbc, u.ID)
	if err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("GetByID: got=%+v err=%v", got, err)
	}

	got, err = repo.GetByEmail(dbc, email)
	if err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("GetByEmail: got=%+v err=%v", got, err)
	}

	missing, err := repo.GetByEmail(dbc, "does-not-exist@example.com")
	if err != nil || missing != nil {
		t.Fatalf("GetByEmail(missing): got=%+v err=%v", missing, err)
	}

	exists, err := repo.EmailExists(dbc, email)
	if err != nil || !exists {
		t.Fatalf("EmailExists: exists=%v err=%v", exists, err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	if err := repo.TouchLastLogin(dbc, u.ID, now); err != nil {
		t.Fatalf("TouchLastLogin: %v", err)
	}

	last, err := repo.GetLastActive(dbc, u.ID)
	if err != nil {
		t.Fatalf("GetLastActive: %v", err)
	}
	if last != nil {
		t.Fatalf("GetLastActive: expected nil before first update, got %v", last)
	}
	if err := repo.UpdateLastActive(dbc, u.ID, now); err != nil {
		t.Fatalf("UpdateLastActive: %v", err)
	}
	last, err = repo.GetLastActive(dbc, u.ID)
	if err != nil || last == nil || !last.Equal(now) {
		t.Fatalf("GetLastActive: got=%v err=%v", last, err)
	}

	reloaded, err := repo.GetByID(dbc, u.ID)
	if err != nil || reloaded.LastLoginAt == nil || !reloaded.LastLoginAt.Equal(now) {
		t.Fatalf("last_login_at not stored: %+v err=%v", reloaded, err)
	}
}

func TestUserRepoDuplicateEmailIsConflict(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	email := testutil.UniqueEmail("dup")
	if err := repo.Create(dbc, &types.User{Email: email, PasswordHash: "a"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := repo.Create(dbc, &types.User{Email: email, PasswordHash: "b"})
	if !errors.Is(err, apierr.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, true},
		{"postgres fk", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite message", errors.New("UNIQUE constraint failed: users.email"), true},
		{"other", errors.New("connection reset"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isUniqueViolation(tc.err); got != tc.want {
				t.Fatalf("isUniqueViolation(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
