package meal

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mealplanner-backend/internal/domain"
	"github.com/yungbote/mealplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

// MaxListLimit bounds a single List page.
const MaxListLimit = 100

type MealRepo interface {
	Create(dbc dbctx.Context, m *types.Meal) error
	List(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Meal, error)
	Recent(dbc dbctx.Context, userID uuid.UUID, n int) ([]*types.Meal, error)
	GetByID(dbc dbctx.Context, userID, mealID uuid.UUID) (*types.Meal, error)
	UpdateFeedback(dbc dbctx.Context, userID, mealID uuid.UUID, fb types.MealFeedback) (*types.Meal, error)
	Delete(dbc dbctx.Context, userID, mealID uuid.UUID) (bool, error)
	Cleanup(dbc dbctx.Context, userID uuid.UUID, keep int) (int64, error)
}

type mealRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMealRepo(db *gorm.DB, baseLog *logger.Logger) MealRepo {
	return &mealRepo{db: db, log: baseLog.With("repo", "MealRepo")}
}

// newestFirst is the history order. created_at and id break ties between
// meals logged for the same date.
const newestFirst = "date DESC, created_at DESC, id DESC"

func (r *mealRepo) Create(dbc dbctx.Context, m *types.Meal) error {
	if m == nil {
		return nil
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Ingredients == nil {
		m.Ingredients = []string{}
	}
	m.Date = m.Date.UTC()
	return dbc.Conn(r.db).Create(m).Error
}

func (r *mealRepo) List(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Meal, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	var out []*types.Meal
	if err := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Order(newestFirst).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mealRepo) Recent(dbc dbctx.Context, userID uuid.UUID, n int) ([]*types.Meal, error) {
	if n <= 0 {
		return []*types.Meal{}, nil
	}
	return r.List(dbc, userID, n)
}

func (r *mealRepo) GetByID(dbc dbctx.Context, userID, mealID uuid.UUID) (*types.Meal, error) {
	var row types.Meal
	if err := dbc.Conn(r.db).
		Where("id = ? AND user_id = ?", mealID, userID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// UpdateFeedback applies the non-nil feedback fields. It returns nil when the
// meal does not exist or belongs to another user.
func (r *mealRepo) UpdateFeedback(dbc dbctx.Context, userID, mealID uuid.UUID, fb types.MealFeedback) (*types.Meal, error) {
	updates := map[string]any{}
	if fb.Rating != nil {
		updates["rating"] = *fb.Rating
	}
	if fb.Liked != nil {
		updates["liked"] = *fb.Liked
	}
	if fb.Notes != nil {
		updates["notes"] = *fb.Notes
	}
	if len(updates) > 0 {
		res := dbc.Conn(r.db).
			Model(&types.Meal{}).
			Where("id = ? AND user_id = ?", mealID, userID).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, nil
		}
	}
	return r.GetByID(dbc, userID, mealID)
}

func (r *mealRepo) Delete(dbc dbctx.Context, userID, mealID uuid.UUID) (bool, error) {
	res := dbc.Conn(r.db).
		Where("id = ? AND user_id = ?", mealID, userID).
		Delete(&types.Meal{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Cleanup keeps the keep newest meals of a user and deletes the rest. Rows
// are selected by id so meals sharing a date are never over- or under-kept.
func (r *mealRepo) Cleanup(dbc dbctx.Context, userID uuid.UUID, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	var deleted int64
	err := dbc.Conn(r.db).Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		if err := tx.Model(&types.Meal{}).
			Where("user_id = ?", userID).
			Order(newestFirst).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) <= keep {
			return nil
		}
		res := tx.Where("user_id = ? AND id IN ?", userID, ids[keep:]).Delete(&types.Meal{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		r.log.Debug("meal history trimmed", "user_id", userID, "deleted", deleted, "keep", keep)
	}
	return deleted, nil
}
