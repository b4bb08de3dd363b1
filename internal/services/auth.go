package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/mealplanner-backend/internal/data/repos"
	"github.com/yungbote/mealplanner-backend/internal/data/repos/user"
	types "github.com/yungbote/mealplanner-backend/internal/domain"
	"github.com/yungbote/mealplanner-backend/internal/platform/apierr"
	"github.com/yungbote/mealplanner-backend/internal/platform/authtoken"
	"github.com/yungbote/mealplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

const MinPasswordLength = 6

// TokenCodec is the part of authtoken.Codec the services depend on.
type TokenCodec interface {
	Issue(userID uuid.UUID, email string, extended bool) (string, error)
	Validate(token string) (authtoken.Identity, error)
	ShouldRotate(token string, window time.Duration) bool
}

type AuthResult struct {
	Token string
	User  *types.User
}

type AuthService interface {
	Register(ctx context.Context, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Me(ctx context.Context, userID uuid.UUID) (*types.User, error)
}

type authService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	codec    TokenCodec
	hashCost int
	now      func() time.Time
}

func NewAuthService(log *logger.Logger, userRepo repos.UserRepo, codec TokenCodec) AuthService {
	return &authService{
		log:      log.With("service", "AuthService"),
		userRepo: userRepo,
		codec:    codec,
		hashCost: bcrypt.DefaultCost,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var errBadLogin = fmt.Errorf("%w: invalid email or password", apierr.ErrInvalidCredential)

// dummyHash keeps the unknown-email path as slow as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("mealplanner-dummy-password"), bcrypt.MinCost)

func validateCredentials(email, password string) error {
	if email == "" || password == "" {
		return apierr.Validation("email and password are required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apierr.Validation("email is not a valid address")
	}
	if len(password) < MinPasswordLength {
		return apierr.Validation("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

func (as *authService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	email = user.NormalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}

	exists, err := as.userRepo.EmailExists(dbc, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: user already exists", apierr.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), as.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &types.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
	}
	// A concurrent registration can still win the race; the unique index
	// turns that into ErrConflict.
	if err := as.userRepo.Create(dbc, u); err != nil {
		return nil, err
	}

	token, err := as.codec.Issue(u.ID, u.Email, false)
	if err != nil {
		return nil, err
	}
	as.log.Info("user registered", "user_id", u.ID)
	return &AuthResult{Token: token, User: u}, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apierr.Validation("email and password are required")
	}
	dbc := dbctx.Context{Ctx: ctx}

	u, err := as.userRepo.GetByEmail(dbc, email)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, errBadLogin
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			as.log.Warn("password hash compare failed", "user_id", u.ID, "error", err)
		}
		return nil, errBadLogin
	}

	token, err := as.codec.Issue(u.ID, u.Email, false)
	if err != nil {
		return nil, err
	}

	now := as.now()
	if err := as.userRepo.TouchLastLogin(dbc, u.ID, now); err != nil {
		as.log.Warn("update last login failed", "user_id", u.ID, "error", err)
	} else {
		u.LastLoginAt = &now
	}
	return &AuthResult{Token: token, User: u}, nil
}

func (as *authService) Me(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	u, err := as.userRepo.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user", apierr.ErrNotFound)
	}
	return u, nil
}
