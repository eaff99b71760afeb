package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Nastya870/smetalab-sub001/internal/model"
)

type CompletionRepository struct {
	db *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

const upsertCompletionSQL = `
	INSERT INTO work_completions (
		tenant_id, estimate_id, line_item_id,
		completed, actual_quantity, actual_total, note,
		completed_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, CASE WHEN ?::boolean THEN NOW() END, NOW())
	ON CONFLICT (tenant_id, estimate_id, line_item_id) DO UPDATE SET
		completed = EXCLUDED.completed,
		actual_quantity = EXCLUDED.actual_quantity,
		actual_total = EXCLUDED.actual_total,
		note = EXCLUDED.note,
		completed_at = CASE
			WHEN EXCLUDED.completed AND work_completions.completed THEN work_completions.completed_at
			WHEN EXCLUDED.completed THEN NOW()
		END,
		updated_at = NOW()
	RETURNING id, tenant_id, estimate_id, line_item_id,
		completed, actual_quantity, actual_total, completed_at, note,
		last_act_id, updated_at
`

// Upsert creates or updates the record in place and is idempotent: the
// completion timestamp only changes on the false→true transition.
func (r *CompletionRepository) Upsert(ctx context.Context, rec model.CompletionRecord) (*model.CompletionRecord, error) {
	var saved model.CompletionRecord
	err := r.db.WithContext(ctx).Raw(upsertCompletionSQL,
		rec.TenantID, rec.EstimateID, rec.LineItemID,
		rec.Completed, rec.ActualQuantity, rec.ActualTotal, rec.Note,
		rec.Completed,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// BatchUpsert applies all records inside one transaction; the first failure
// rolls back every row.
func (r *CompletionRepository) BatchUpsert(ctx context.Context, recs []model.CompletionRecord) ([]model.CompletionRecord, error) {
	saved := make([]model.CompletionRecord, 0, len(recs))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range recs {
			var row model.CompletionRecord
			if err := tx.Raw(upsertCompletionSQL,
				rec.TenantID, rec.EstimateID, rec.LineItemID,
				rec.Completed, rec.ActualQuantity, rec.ActualTotal, rec.Note,
				rec.Completed,
			).Scan(&row).Error; err != nil {
				return err
			}
			saved = append(saved, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *CompletionRepository) Delete(ctx context.Context, tenantID, estimateID, lineItemID uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`
		DELETE FROM work_completions
		WHERE tenant_id = ? AND estimate_id = ? AND line_item_id = ?
	`, tenantID, estimateID, lineItemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CompletionRepository) List(ctx context.Context, tenantID, estimateID uuid.UUID) ([]model.CompletionRecord, error) {
	var recs []model.CompletionRecord
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, tenant_id, estimate_id, line_item_id,
			completed, actual_quantity, actual_total, completed_at, note,
			last_act_id, updated_at
		FROM work_completions
		WHERE tenant_id = ? AND estimate_id = ?
		ORDER BY updated_at ASC
	`, tenantID, estimateID).Scan(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// ListCompletedLines selects lines eligible for an act: completed or with a
// positive reported quantity, joined to their estimate row.
func (r *CompletionRepository) ListCompletedLines(ctx context.Context, tenantID, estimateID uuid.UUID) ([]model.CompletedLine, error) {
	var rows []struct {
		ID             uuid.UUID
		TenantID       uuid.UUID
		EstimateID     uuid.UUID
		LineItemID     uuid.UUID
		Completed      bool
		ActualQuantity decimal.Decimal
		ActualTotal    decimal.Decimal
		CompletedAt    *time.Time
		Note           *string
		LastActID      *uuid.UUID
		UpdatedAt      time.Time
		Code           string
		Name           string
		Unit           string
		Section        string
		Quantity       decimal.Decimal
		UnitPrice      decimal.Decimal
		Position       int
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			wc.id, wc.tenant_id, wc.estimate_id, wc.line_item_id,
			wc.completed, wc.actual_quantity, wc.actual_total,
			wc.completed_at, wc.note, wc.last_act_id, wc.updated_at,
			li.code, li.name, li.unit, li.section,
			li.quantity, li.unit_price, li.position
		FROM work_completions wc
		JOIN estimate_line_items li ON li.id = wc.line_item_id
		WHERE wc.tenant_id = ?
			AND wc.estimate_id = ?
			AND (wc.completed OR wc.actual_quantity > 0)
		ORDER BY li.position ASC
	`, tenantID, estimateID).Scan(&rows).Error; err != nil {
		return nil, err
	}

	lines := make([]model.CompletedLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, model.CompletedLine{
			Record: model.CompletionRecord{
				ID:             row.ID,
				TenantID:       row.TenantID,
				EstimateID:     row.EstimateID,
				LineItemID:     row.LineItemID,
				Completed:      row.Completed,
				ActualQuantity: row.ActualQuantity,
				ActualTotal:    row.ActualTotal,
				CompletedAt:    row.CompletedAt,
				Note:           row.Note,
				LastActID:      row.LastActID,
				UpdatedAt:      row.UpdatedAt,
			},
			Line: model.EstimateLineItem{
				ID:         row.LineItemID,
				EstimateID: row.EstimateID,
				Code:       row.Code,
				Name:       row.Name,
				Unit:       row.Unit,
				Section:    row.Section,
				Quantity:   row.Quantity,
				UnitPrice:  row.UnitPrice,
				Position:   row.Position,
			},
		})
	}
	return lines, nil
}
