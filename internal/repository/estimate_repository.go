package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Nastya870/smetalab-sub001/internal/model"
)

type EstimateRepository struct {
	db *gorm.DB
}

func NewEstimateRepository(db *gorm.DB) *EstimateRepository {
	return &EstimateRepository{db: db}
}

func (r *EstimateRepository) GetEstimate(ctx context.Context, tenantID, estimateID uuid.UUID) (*model.Estimate, error) {
	var est model.Estimate
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, tenant_id, project_id, name, created_at
		FROM estimates
		WHERE id = ? AND tenant_id = ?
		LIMIT 1
	`, estimateID, tenantID).Scan(&est).Error; err != nil {
		return nil, err
	}
	if est.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &est, nil
}

func (r *EstimateRepository) GetProject(ctx context.Context, tenantID, projectID uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, tenant_id, name, customer_name, contractor_name,
			contract_number, object_name, object_address
		FROM projects
		WHERE id = ? AND tenant_id = ?
		LIMIT 1
	`, projectID, tenantID).Scan(&project).Error; err != nil {
		return nil, err
	}
	if project.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &project, nil
}

func (r *EstimateRepository) ListLineItems(ctx context.Context, estimateID uuid.UUID) ([]model.EstimateLineItem, error) {
	var items []model.EstimateLineItem
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, estimate_id, code, name, unit, section,
			quantity, unit_price, position
		FROM estimate_line_items
		WHERE estimate_id = ?
		ORDER BY position ASC
	`, estimateID).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
