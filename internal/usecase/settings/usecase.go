package settings

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/mosessifuna20/gatimbi-library-portal/internal/domain/settings"

	"gorm.io/gorm"
)

// Check applies rules beyond the stored type to one key. It returns nil
// for keys it does not own and an error wrapping domain.ErrInvalidValue
// otherwise.
type Check func(key, value string) error

type Usecase struct {
	repo   domain.Repository
	checks []Check
}

func NewUsecase(r domain.Repository, checks ...Check) *Usecase {
	return &Usecase{repo: r, checks: checks}
}

type UpdateInput struct {
	Key       string
	Value     string
	UpdatedBy string
}

func (u *Usecase) List(ctx context.Context, category string) ([]domain.Setting, error) {
	return u.repo.List(ctx, category)
}

func (u *Usecase) Get(ctx context.Context, key string) (*domain.Setting, error) {
	s, err := u.repo.GetValue(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return s, err
}

// Update changes the value of an existing key. The value must parse as
// the stored type and pass every Check.
func (u *Usecase) Update(ctx context.Context, in UpdateInput) (*domain.Setting, error) {
	cur, err := u.Get(ctx, in.Key)
	if err != nil {
		return nil, err
	}
	next := *cur
	// upsert on key; a set primary key would be a second conflict target
	next.ID = 0
	next.UpdatedAt = time.Time{}
	next.Value = strings.TrimSpace(in.Value)
	next.UpdatedBy = in.UpdatedBy
	if err := u.validate(&next); err != nil {
		return nil, err
	}
	if err := u.repo.Upsert(ctx, &next); err != nil {
		return nil, err
	}
	return u.Get(ctx, in.Key)
}

// Seed inserts defaults for keys that do not exist yet; administrator
// edits are never overwritten.
func (u *Usecase) Seed(ctx context.Context, defaults []domain.Setting) error {
	for i := range defaults {
		s := defaults[i]
		if err := u.validate(&s); err != nil {
			return err
		}
		if err := u.repo.CreateIfAbsent(ctx, &s); err != nil {
			return err
		}
	}
	return nil
}

func (u *Usecase) validate(s *domain.Setting) error {
	if err := s.Validate(); err != nil {
		return err
	}
	for _, check := range u.checks {
		if err := check(s.Key, s.Value); err != nil {
			return err
		}
	}
	return nil
}
