package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type StoreGormRepository struct {
	db *gorm.DB
}

func NewStoreGormRepository(db *gorm.DB) *StoreGormRepository {
	return &StoreGormRepository{db: db}
}

func (r *StoreGormRepository) Create(ctx context.Context, s model.Store) (model.Store, error) {
	s.Username = strings.ToLower(s.Username)
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return model.Store{}, mapErr(err)
	}
	return s, nil
}

func (r *StoreGormRepository) FindByID(ctx context.Context, id string) (model.Store, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *StoreGormRepository) FindByUserID(ctx context.Context, userID string) (model.Store, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *StoreGormRepository) FindByUsername(ctx context.Context, username string) (model.Store, error) {
	return r.first(ctx, "username = ?", strings.ToLower(username))
}

func (r *StoreGormRepository) first(ctx context.Context, cond string, arg any) (model.Store, error) {
	var s model.Store
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&s).Error; err != nil {
		return model.Store{}, mapErr(err)
	}
	return s, nil
}

func (r *StoreGormRepository) ListByStatus(ctx context.Context, statuses ...model.StoreStatus) ([]model.Store, error) {
	q := r.db.WithContext(ctx)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}

	stores := []model.Store{}
	if err := q.Order("created_at desc").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *StoreGormRepository) UpdateStatus(ctx context.Context, id string, status model.StoreStatus, isActive bool) error {
	res := r.db.WithContext(ctx).Model(&model.Store{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "is_active": isActive})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *StoreGormRepository) SetActive(ctx context.Context, id string, isActive bool) error {
	res := r.db.WithContext(ctx).Model(&model.Store{}).Where("id = ?", id).Update("is_active", isActive)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *StoreGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Store{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
