package school

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, s *School) error
	GetByID(ctx context.Context, id string) (*School, error)
	List(ctx context.Context) ([]School, error)
	Update(ctx context.Context, s *School) error
	Delete(ctx context.Context, id string) error
	ListImageNames(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Migrate creates or updates the schools table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&School{})
}

func (r *repository) Create(ctx context.Context, s *School) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*School, error) {
	var s School
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSchoolNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) List(ctx context.Context) ([]School, error) {
	schools := make([]School, 0)
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&schools).Error
	return schools, err
}

func (r *repository) Update(ctx context.Context, s *School) error {
	// Save would fall back to an insert for a row deleted concurrently.
	res := r.db.WithContext(ctx).Model(s).Select("*").Omit("id", "created_at").Updates(s)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSchoolNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&School{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSchoolNotFound
	}
	return nil
}

func (r *repository) ListImageNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&School{}).
		Where("image IS NOT NULL AND image <> ''").
		Pluck("image", &names).Error
	return names, err
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&School{}).Count(&n).Error
	return n, err
}
