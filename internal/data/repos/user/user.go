package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	types "github.com/yungbote/mealplanner-backend/internal/domain"
	"github.com/yungbote/mealplanner-backend/internal/platform/apierr"
	"github.com/yungbote/mealplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, u *types.User) error
	GetByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	EmailExists(dbc dbctx.Context, email string) (bool, error)
	TouchLastLogin(dbc dbctx.Context, userID uuid.UUID, at time.Time) error
	GetLastActive(dbc dbctx.Context, userID uuid.UUID) (*time.Time, error)
	UpdateLastActive(dbc dbctx.Context, userID uuid.UUID, at time.Time) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (ur *userRepo) Create(dbc dbctx.Context, u *types.User) error {
	if u == nil {
		return nil
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = NormalizeEmail(u.Email)
	if err := dbc.Conn(ur.db).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email already registered", apierr.ErrConflict)
		}
		return err
	}
	return nil
}

func (ur *userRepo) GetByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.User
	if err := dbc.Conn(ur.db).Where("id = ?", userID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (ur *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, nil
	}
	var row types.User
	if err := dbc.Conn(ur.db).Where("email = ?", email).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (ur *userRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	var count int64
	if err := dbc.Conn(ur.db).
		Model(&types.User{}).
		Where("email = ?", NormalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ur *userRepo) TouchLastLogin(dbc dbctx.Context, userID uuid.UUID, at time.Time) error {
	return dbc.Conn(ur.db).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("last_login_at", at.UTC()).Error
}

// GetLastActive returns nil when the user is unknown or was never active.
func (ur *userRepo) GetLastActive(dbc dbctx.Context, userID uuid.UUID) (*time.Time, error) {
	var row types.User
	if err := dbc.Conn(ur.db).
		Select("id", "last_active_at").
		Where("id = ?", userID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	return row.LastActiveAt, nil
}

func (ur *userRepo) UpdateLastActive(dbc dbctx.Context, userID uuid.UUID, at time.Time) error {
	return dbc.Conn(ur.db).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("last_active_at", at.UTC()).Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.TrimSpace(pgErr.Code) == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "sqlstate 23505")
}
