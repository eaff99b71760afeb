package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Nastya870/smetalab-sub001/internal/model"
)

type ActRepository struct {
	db *gorm.DB
}

func NewActRepository(db *gorm.DB) *ActRepository {
	return &ActRepository{db: db}
}

const selectActColumns = `
	id, tenant_id, estimate_id, project_id, kind, number, act_date,
	period_from, period_to, total_amount, total_quantity, work_count,
	status, notes, customer_name, contractor_name, contract_reference,
	object_name, object_address, created_at, seq
`

// CreateAct persists the act header, its item snapshots and the
// back-references on the completion records in one transaction. The act
// number comes from an atomically incremented counter scoped to
// (tenant, kind, calendar year), so numbers are monotonic and never reused
// even after a delete.
func (r *ActRepository) CreateAct(ctx context.Context, act model.Act, items []model.ActItem) (*model.Act, error) {
	var saved model.Act
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var number int
		if err := tx.Raw(`
			INSERT INTO act_counters (tenant_id, kind, year, value)
			VALUES (?, ?, ?, 1)
			ON CONFLICT (tenant_id, kind, year)
			DO UPDATE SET value = act_counters.value + 1
			RETURNING value
		`, act.TenantID, act.Kind, act.ActDate.Year()).Scan(&number).Error; err != nil {
			return err
		}

		if err := tx.Raw(`
			INSERT INTO acts (
				tenant_id, estimate_id, project_id, kind, number, act_date,
				period_from, period_to, total_amount, total_quantity, work_count,
				status, notes, customer_name, contractor_name, contract_reference,
				object_name, object_address
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING `+selectActColumns,
			act.TenantID, act.EstimateID, act.ProjectID, act.Kind, number, act.ActDate,
			act.PeriodFrom, act.PeriodTo, act.TotalAmount, act.TotalQuantity, act.WorkCount,
			act.Status, act.Notes, act.CustomerName, act.ContractorName, act.ContractReference,
			act.ObjectName, act.ObjectAddress,
		).Scan(&saved).Error; err != nil {
			return err
		}

		for _, item := range items {
			if err := tx.Exec(`
				INSERT INTO act_items (
					act_id, line_item_id, code, name, unit, section,
					planned_quantity, actual_quantity, unit_price, total_price, position
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, saved.ID, item.LineItemID, item.Code, item.Name, item.Unit, item.Section,
				item.PlannedQuantity, item.ActualQuantity, item.UnitPrice, item.TotalPrice, item.Position,
			).Error; err != nil {
				return err
			}

			if err := tx.Exec(`
				UPDATE work_completions
				SET last_act_id = ?
				WHERE tenant_id = ? AND estimate_id = ? AND line_item_id = ?
			`, saved.ID, act.TenantID, act.EstimateID, item.LineItemID).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ActRepository) GetAct(ctx context.Context, tenantID, actID uuid.UUID) (*model.Act, error) {
	var act model.Act
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+selectActColumns+`
		FROM acts
		WHERE id = ? AND tenant_id = ?
		LIMIT 1
	`, actID, tenantID).Scan(&act).Error; err != nil {
		return nil, err
	}
	if act.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &act, nil
}

func (r *ActRepository) ListActs(ctx context.Context, tenantID, estimateID uuid.UUID, kind *model.ActKind) ([]model.Act, error) {
	query := `
		SELECT ` + selectActColumns + `
		FROM acts
		WHERE tenant_id = ? AND estimate_id = ?
	`
	args := []interface{}{tenantID, estimateID}
	if kind != nil {
		query += ` AND kind = ?`
		args = append(args, *kind)
	}
	query += ` ORDER BY act_date DESC, seq DESC`

	var acts []model.Act
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&acts).Error; err != nil {
		return nil, err
	}
	return acts, nil
}

// ListActsWithItems returns the estimate's full act history with item
// snapshots, ordered by act date then creation order, ready for period
// accumulation.
func (r *ActRepository) ListActsWithItems(ctx context.Context, tenantID, estimateID uuid.UUID) ([]model.ActWithItems, error) {
	var acts []model.Act
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+selectActColumns+`
		FROM acts
		WHERE tenant_id = ? AND estimate_id = ?
		ORDER BY act_date ASC, seq ASC
	`, tenantID, estimateID).Scan(&acts).Error; err != nil {
		return nil, err
	}

	result := make([]model.ActWithItems, 0, len(acts))
	for _, act := range acts {
		items, err := r.ListActItems(ctx, act.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, model.ActWithItems{Act: act, Items: items})
	}
	return result, nil
}

func (r *ActRepository) ListActItems(ctx context.Context, actID uuid.UUID) ([]model.ActItem, error) {
	var items []model.ActItem
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, act_id, line_item_id, code, name, unit, section,
			planned_quantity, actual_quantity, unit_price, total_price, position
		FROM act_items
		WHERE act_id = ?
		ORDER BY position ASC
	`, actID).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ActRepository) DeleteAct(ctx context.Context, tenantID, actID uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`
		DELETE FROM acts WHERE id = ? AND tenant_id = ?
	`, actID, tenantID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ActRepository) UpdateStatus(ctx context.Context, tenantID, actID uuid.UUID, status model.ActStatus) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE acts SET status = ? WHERE id = ? AND tenant_id = ?
	`, status, actID, tenantID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ActDetails carries the updatable denormalized header fields; nil means
// leave the column as is.
type ActDetails struct {
	ActDate           *time.Time
	Notes             *string
	CustomerName      *string
	ContractorName    *string
	ContractReference *string
	ObjectName        *string
	ObjectAddress     *string
}

func (r *ActRepository) UpdateDetails(ctx context.Context, tenantID, actID uuid.UUID, details ActDetails) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE acts SET
			act_date = COALESCE(?, act_date),
			notes = COALESCE(?, notes),
			customer_name = COALESCE(?, customer_name),
			contractor_name = COALESCE(?, contractor_name),
			contract_reference = COALESCE(?, contract_reference),
			object_name = COALESCE(?, object_name),
			object_address = COALESCE(?, object_address)
		WHERE id = ? AND tenant_id = ?
	`, details.ActDate, details.Notes, details.CustomerName, details.ContractorName,
		details.ContractReference, details.ObjectName, details.ObjectAddress,
		actID, tenantID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ActRepository) AddSignatory(ctx context.Context, s model.Signatory) (*model.Signatory, error) {
	var saved model.Signatory
	if err := r.db.WithContext(ctx).Raw(`
		INSERT INTO act_signatories (act_id, role, full_name, position, basis)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, act_id, role, full_name, position, basis
	`, s.ActID, s.Role, s.FullName, s.Position, s.Basis).Scan(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ActRepository) ListSignatories(ctx context.Context, actID uuid.UUID) ([]model.Signatory, error) {
	var rows []model.Signatory
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, act_id, role, full_name, position, basis
		FROM act_signatories
		WHERE act_id = ?
		ORDER BY role ASC
	`, actID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
