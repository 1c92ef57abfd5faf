package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/prokura/procure-backend/internal/common"
	"github.com/prokura/procure-backend/internal/entity"
)

// ExtractionUpdate is the field set an offer extraction overwrites on an
// existing request. Title and VendorName are never empty (the extraction
// defaults them); Department applies only when the extraction produced one;
// TotalCost is the document's stated net total, written as-is.
type ExtractionUpdate struct {
	Title       string
	VendorName  string
	VendorVATID *string
	Department  *string
	OrderLines  []entity.OrderLine
	TotalCost   decimal.Decimal
}

type RequestRepository interface {
	Create(ctx context.Context, req *entity.ProcurementRequest) error
	List(ctx context.Context) ([]entity.ProcurementRequest, error)
	Get(ctx context.Context, id uint) (*entity.ProcurementRequest, error)
	ChangeStatus(ctx context.Context, id uint, toStatus string, changedBy *string) (*entity.ProcurementRequest, error)
	AddAttachment(ctx context.Context, att *entity.Attachment) error
	LatestAttachment(ctx context.Context, requestID uint) (*entity.Attachment, error)
	ApplyExtraction(ctx context.Context, id uint, up ExtractionUpdate) (*entity.ProcurementRequest, error)
	SetCommodityGroup(ctx context.Context, id uint, groupID string) (*entity.ProcurementRequest, error)
}

type requestRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRequestRepository(db *gorm.DB, logger *slog.Logger) RequestRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &requestRepository{db: db, logger: logger}
}

func (r *requestRepository) Create(ctx context.Context, req *entity.ProcurementRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return nil
}

func (r *requestRepository) List(ctx context.Context) ([]entity.ProcurementRequest, error) {
	var reqs []entity.ProcurementRequest
	err := r.withAssociations(ctx).
		Order("id DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return reqs, nil
}

func (r *requestRepository) Get(ctx context.Context, id uint) (*entity.ProcurementRequest, error) {
	var req entity.ProcurementRequest
	err := r.withAssociations(ctx).First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return &req, nil
}

func (r *requestRepository) ChangeStatus(ctx context.Context, id uint, toStatus string, changedBy *string) (*entity.ProcurementRequest, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req entity.ProcurementRequest
		if err := tx.First(&req, id).Error; err != nil {
			return err
		}
		from := req.CurrentStatus
		if err := tx.Model(&req).Update("current_status", toStatus).Error; err != nil {
			return err
		}
		event := entity.StatusEvent{
			RequestID:  id,
			FromStatus: &from,
			ToStatus:   toStatus,
			ChangedBy:  changedBy,
		}
		return tx.Create(&event).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return r.Get(ctx, id)
}

func (r *requestRepository) AddAttachment(ctx context.Context, att *entity.Attachment) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.ProcurementRequest{}).Where("id = ?", att.RequestID).Count(&count).Error; err != nil {
		return fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	if count == 0 {
		return common.ErrNotFound
	}
	if err := r.db.WithContext(ctx).Create(att).Error; err != nil {
		return fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return nil
}

func (r *requestRepository) LatestAttachment(ctx context.Context, requestID uint) (*entity.Attachment, error) {
	var att entity.Attachment
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("id DESC").
		First(&att).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return &att, nil
}

// ApplyExtraction replaces the request's title, vendor fields, lines, and
// total with the extraction result. The total is never recomputed from the lines here;
// the source document's stated net total is authoritative.
func (r *requestRepository) ApplyExtraction(ctx context.Context, id uint, up ExtractionUpdate) (*entity.ProcurementRequest, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req entity.ProcurementRequest
		if err := tx.First(&req, id).Error; err != nil {
			return err
		}

		updates := map[string]any{
			"title":         up.Title,
			"vendor_name":   up.VendorName,
			"vendor_vat_id": up.VendorVATID,
			"total_cost":    up.TotalCost,
		}
		if up.Department != nil {
			updates["department"] = *up.Department
		}
		if err := tx.Model(&req).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Where("request_id = ?", id).Delete(&entity.OrderLine{}).Error; err != nil {
			return err
		}
		for i := range up.OrderLines {
			up.OrderLines[i].ID = 0
			up.OrderLines[i].RequestID = id
		}
		if len(up.OrderLines) > 0 {
			if err := tx.Create(&up.OrderLines).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	r.logger.Info("request.extraction_applied", "request_id", id, "lines", len(up.OrderLines), "total_cost", up.TotalCost.String())
	return r.Get(ctx, id)
}

func (r *requestRepository) SetCommodityGroup(ctx context.Context, id uint, groupID string) (*entity.ProcurementRequest, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.ProcurementRequest{}).
		Where("id = ?", id).
		Update("commodity_group_id", groupID)
	if res.Error != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, common.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *requestRepository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("OrderLines").
		Preload("StatusEvents").
		Preload("CommodityGroup")
}
