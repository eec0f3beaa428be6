package mysql

import (
	"context"

	settingsDomain "github.com/mosessifuna20/gatimbi-library-portal/internal/domain/settings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository struct{ db *gorm.DB }

func NewSettingsRepository(db *gorm.DB) *SettingsRepository { return &SettingsRepository{db: db} }

// `key` is reserved in MySQL, so lookups go through a map condition and
// let gorm quote the column.
func (r *SettingsRepository) GetValue(ctx context.Context, key string) (*settingsDomain.Setting, error) {
	var out settingsDomain.Setting
	res := r.db.WithContext(ctx).Where(map[string]any{"key": key}).First(&out)
	return &out, res.Error
}

func (r *SettingsRepository) List(ctx context.Context, category string) ([]settingsDomain.Setting, error) {
	var out []settingsDomain.Setting
	q := r.db.WithContext(ctx).Order("category ASC, id ASC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	res := q.Find(&out)
	return out, res.Error
}

func (r *SettingsRepository) Upsert(ctx context.Context, s *settingsDomain.Setting) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "value_type", "category", "description", "updated_by", "updated_at"}),
		}).
		Create(s).Error
}

func (r *SettingsRepository) CreateIfAbsent(ctx context.Context, s *settingsDomain.Setting) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).
		Create(s).Error
}
