package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Nastya870/smetalab-sub001/internal/model"
)

type CompletionStore interface {
	Upsert(ctx context.Context, rec model.CompletionRecord) (*model.CompletionRecord, error)
	BatchUpsert(ctx context.Context, recs []model.CompletionRecord) ([]model.CompletionRecord, error)
	Delete(ctx context.Context, tenantID, estimateID, lineItemID uuid.UUID) error
	List(ctx context.Context, tenantID, estimateID uuid.UUID) ([]model.CompletionRecord, error)
	ListCompletedLines(ctx context.Context, tenantID, estimateID uuid.UUID) ([]model.CompletedLine, error)
}

type EstimateStore interface {
	GetEstimate(ctx context.Context, tenantID, estimateID uuid.UUID) (*model.Estimate, error)
	GetProject(ctx context.Context, tenantID, projectID uuid.UUID) (*model.Project, error)
}

type CompletionService struct {
	completions CompletionStore
	estimates   EstimateStore
}

func NewCompletionService(completions CompletionStore, estimates EstimateStore) *CompletionService {
	return &CompletionService{completions: completions, estimates: estimates}
}

type CompletionInput struct {
	LineItemID     uuid.UUID
	Completed      bool
	ActualQuantity decimal.Decimal
	ActualTotal    decimal.Decimal
	Note           *string
}

func (s *CompletionService) Upsert(ctx context.Context, principal model.Principal, estimateID uuid.UUID, input CompletionInput) (*model.CompletionRecord, error) {
	if err := validateCompletionInput(input); err != nil {
		return nil, err
	}
	if err := s.checkEstimate(ctx, principal, estimateID); err != nil {
		return nil, err
	}
	return s.completions.Upsert(ctx, completionRecord(principal, estimateID, input))
}

// BatchUpsert validates every record before any write, then applies them as
// one all-or-nothing unit.
func (s *CompletionService) BatchUpsert(ctx context.Context, principal model.Principal, estimateID uuid.UUID, inputs []CompletionInput) ([]model.CompletionRecord, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrInvalidInput)
	}
	for i, input := range inputs {
		if err := validateCompletionInput(input); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	if err := s.checkEstimate(ctx, principal, estimateID); err != nil {
		return nil, err
	}

	recs := make([]model.CompletionRecord, 0, len(inputs))
	for _, input := range inputs {
		recs = append(recs, completionRecord(principal, estimateID, input))
	}
	return s.completions.BatchUpsert(ctx, recs)
}

func (s *CompletionService) Remove(ctx context.Context, principal model.Principal, estimateID, lineItemID uuid.UUID) error {
	if lineItemID == uuid.Nil {
		return fmt.Errorf("%w: line_item_id is required", ErrInvalidInput)
	}
	if err := s.checkEstimate(ctx, principal, estimateID); err != nil {
		return err
	}
	err := s.completions.Delete(ctx, principal.TenantID, estimateID, lineItemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *CompletionService) List(ctx context.Context, principal model.Principal, estimateID uuid.UUID) ([]model.CompletionRecord, error) {
	if err := s.checkEstimate(ctx, principal, estimateID); err != nil {
		return nil, err
	}
	return s.completions.List(ctx, principal.TenantID, estimateID)
}

func (s *CompletionService) checkEstimate(ctx context.Context, principal model.Principal, estimateID uuid.UUID) error {
	if estimateID == uuid.Nil {
		return fmt.Errorf("%w: estimate_id is required", ErrInvalidInput)
	}
	_, err := s.estimates.GetEstimate(ctx, principal.TenantID, estimateID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func validateCompletionInput(input CompletionInput) error {
	if input.LineItemID == uuid.Nil {
		return fmt.Errorf("%w: line_item_id is required", ErrInvalidInput)
	}
	if input.ActualQuantity.IsNegative() {
		return fmt.Errorf("%w: actual_quantity must not be negative", ErrInvalidInput)
	}
	if input.ActualTotal.IsNegative() {
		return fmt.Errorf("%w: actual_total must not be negative", ErrInvalidInput)
	}
	return nil
}

func completionRecord(principal model.Principal, estimateID uuid.UUID, input CompletionInput) model.CompletionRecord {
	return model.CompletionRecord{
		TenantID:       principal.TenantID,
		EstimateID:     estimateID,
		LineItemID:     input.LineItemID,
		Completed:      input.Completed,
		ActualQuantity: input.ActualQuantity,
		ActualTotal:    input.ActualTotal,
		Note:           input.Note,
	}
}
