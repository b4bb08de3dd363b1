package preference

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/mealplanner-backend/internal/domain"
	domainpref "github.com/yungbote/mealplanner-backend/internal/domain/preference"
	"github.com/yungbote/mealplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

type PreferenceRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Preferences, error)
	Upsert(dbc dbctx.Context, userID uuid.UUID, patch domainpref.Patch) (*types.Preferences, error)
	MergeItems(dbc dbctx.Context, userID uuid.UUID, kind types.PreferenceKind, items []string) (*types.Preferences, int, error)
	RemoveItem(dbc dbctx.Context, userID uuid.UUID, kind types.PreferenceKind, item string) (bool, error)
}

type preferenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func NewPreferenceRepo(db *gorm.DB, baseLog *logger.Logger) PreferenceRepo {
	return &preferenceRepo{
		db:  db,
		log: baseLog.With("repo", "PreferenceRepo"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *preferenceRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Preferences, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.Preferences
	if err := dbc.Conn(r.db).Where("user_id = ?", userID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// Upsert applies an explicit patch. Provided lists replace the stored ones
// after normalization; omitted fields keep their value, or start empty when
// the record is created.
func (r *preferenceRepo) Upsert(dbc dbctx.Context, userID uuid.UUID, patch domainpref.Patch) (*types.Preferences, error) {
	return r.withLockedRow(dbc, userID, func(row *types.Preferences) bool {
		if patch.Likes != nil {
			row.Likes = datatypes.JSONSlice[string](domainpref.Normalize(*patch.Likes, domainpref.MaxItems))
		}
		if patch.Dislikes != nil {
			row.Dislikes = datatypes.JSONSlice[string](domainpref.Normalize(*patch.Dislikes, domainpref.MaxItems))
		}
		if patch.Calorie != nil {
			c := *patch.Calorie
			row.CaloriePreference = &c
		}
		return !patch.Empty()
	})
}

// MergeItems unions items into the kind's list in order and trims it to the
// newest MaxItems. It returns the stored record and how many items were new.
func (r *preferenceRepo) MergeItems(dbc dbctx.Context, userID uuid.UUID, kind types.PreferenceKind, items []string) (*types.Preferences, int, error) {
	added := 0
	row, err := r.withLockedRow(dbc, userID, func(row *types.Preferences) bool {
		set := domainpref.NewOrderedSet(row.List(kind))
		added = set.Add(items...)
		trimmed := set.Trim(domainpref.MaxItems)
		if added == 0 && trimmed == 0 {
			return false
		}
		row.SetList(kind, set.Items())
		return true
	})
	if err != nil {
		return nil, 0, err
	}
	return row, added, nil
}

func (r *preferenceRepo) RemoveItem(dbc dbctx.Context, userID uuid.UUID, kind types.PreferenceKind, item string) (bool, error) {
	removed := false
	_, err := r.withLockedRow(dbc, userID, func(row *types.Preferences) bool {
		set := domainpref.NewOrderedSet(row.List(kind))
		removed = set.Remove(item)
		if removed {
			row.SetList(kind, set.Items())
		}
		return removed
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// withLockedRow runs mutate against the user's record inside a transaction.
// The row is created if missing and then read FOR UPDATE, so concurrent
// writers for the same user run one after another.
func (r *preferenceRepo) withLockedRow(dbc dbctx.Context, userID uuid.UUID, mutate func(row *types.Preferences) bool) (*types.Preferences, error) {
	var out types.Preferences
	err := dbc.Conn(r.db).Transaction(func(tx *gorm.DB) error {
		now := r.now()
		seed := &types.Preferences{
			ID:        uuid.New(),
			UserID:    userID,
			Likes:     datatypes.JSONSlice[string]{},
			Dislikes:  datatypes.JSONSlice[string]{},
			UpdatedAt: now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(seed).Error; err != nil {
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&out).Error; err != nil {
			return err
		}
		if out.Likes == nil {
			out.Likes = datatypes.JSONSlice[string]{}
		}
		if out.Dislikes == nil {
			out.Dislikes = datatypes.JSONSlice[string]{}
		}

		if !mutate(&out) {
			return nil
		}
		out.UpdatedAt = now
		return tx.Model(&types.Preferences{}).
			Where("id = ?", out.ID).
			Updates(map[string]any{
				"likes":              out.Likes,
				"dislikes":           out.Dislikes,
				"calorie_preference": out.CaloriePreference,
				"updated_at":         out.UpdatedAt,
			}).Error
	})
	if err != nil {
		r.log.Warn("preference write failed", "user_id", userID, "error", err)
		return nil, err
	}
	return &out, nil
}
