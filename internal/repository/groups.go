package repository

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/prokura/procure-backend/internal/common"
	"github.com/prokura/procure-backend/internal/entity"
)

type GroupRepository interface {
	List(ctx context.Context) ([]entity.CommodityGroup, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type groupRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGroupRepository(db *gorm.DB, logger *slog.Logger) GroupRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &groupRepository{db: db, logger: logger}
}

func (r *groupRepository) List(ctx context.Context) ([]entity.CommodityGroup, error) {
	var groups []entity.CommodityGroup
	if err := r.db.WithContext(ctx).Order("id").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return groups, nil
}

func (r *groupRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.CommodityGroup{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return count > 0, nil
}
