package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Nastya870/smetalab-sub001/internal/model"
	"github.com/Nastya870/smetalab-sub001/internal/repository"
)

type ActStore interface {
	CreateAct(ctx context.Context, act model.Act, items []model.ActItem) (*model.Act, error)
	GetAct(ctx context.Context, tenantID, actID uuid.UUID) (*model.Act, error)
	ListActs(ctx context.Context, tenantID, estimateID uuid.UUID, kind *model.ActKind) ([]model.Act, error)
	ListActItems(ctx context.Context, actID uuid.UUID) ([]model.ActItem, error)
	ListActsWithItems(ctx context.Context, tenantID, estimateID uuid.UUID) ([]model.ActWithItems, error)
	DeleteAct(ctx context.Context, tenantID, actID uuid.UUID) error
	UpdateStatus(ctx context.Context, tenantID, actID uuid.UUID, status model.ActStatus) error
	UpdateDetails(ctx context.Context, tenantID, actID uuid.UUID, details repository.ActDetails) error
	AddSignatory(ctx context.Context, s model.Signatory) (*model.Signatory, error)
	ListSignatories(ctx context.Context, actID uuid.UUID) ([]model.Signatory, error)
}

type ActService struct {
	acts        ActStore
	completions CompletionStore
	estimates   EstimateStore
}

func NewActService(acts ActStore, completions CompletionStore, estimates EstimateStore) *ActService {
	return &ActService{acts: acts, completions: completions, estimates: estimates}
}

type GenerateInput struct {
	EstimateID uuid.UUID
	ProjectID  uuid.UUID
	// Kinds is the expansion of the requested act type; "both" expands to
	// client then specialist.
	Kinds      []model.ActKind
	PeriodFrom *time.Time
	PeriodTo   *time.Time
	ActDate    time.Time
}

// Generate creates one act per requested kind. Each act is written in its own
// transaction: with two kinds a failure on the second leaves the first
// committed, and both outcomes are reported to the caller.
func (s *ActService) Generate(ctx context.Context, principal model.Principal, input GenerateInput) ([]model.Act, error) {
	if input.EstimateID == uuid.Nil {
		return nil, fmt.Errorf("%w: estimate_id is required", ErrInvalidInput)
	}
	if input.ProjectID == uuid.Nil {
		return nil, fmt.Errorf("%w: project_id is required", ErrInvalidInput)
	}
	if len(input.Kinds) == 0 {
		return nil, fmt.Errorf("%w: act type is required", ErrInvalidInput)
	}
	if input.PeriodFrom != nil && input.PeriodTo != nil && input.PeriodFrom.After(*input.PeriodTo) {
		return nil, fmt.Errorf("%w: period_from must not be after period_to", ErrInvalidInput)
	}

	estimate, err := s.estimates.GetEstimate(ctx, principal.TenantID, input.EstimateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if estimate.ProjectID != input.ProjectID {
		return nil, fmt.Errorf("%w: estimate does not belong to project", ErrInvalidInput)
	}

	lines, err := s.completions.ListCompletedLines(ctx, principal.TenantID, input.EstimateID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrNoCompletedWorks
	}

	actDate := input.ActDate
	if actDate.IsZero() {
		actDate = time.Now().UTC()
	}
	actDate = dateOnly(actDate)

	items, totalAmount, totalQuantity := snapshotItems(lines)

	created := make([]model.Act, 0, len(input.Kinds))
	for _, kind := range input.Kinds {
		act := model.Act{
			TenantID:      principal.TenantID,
			EstimateID:    input.EstimateID,
			ProjectID:     input.ProjectID,
			Kind:          kind,
			ActDate:       actDate,
			PeriodFrom:    input.PeriodFrom,
			PeriodTo:      input.PeriodTo,
			TotalAmount:   totalAmount,
			TotalQuantity: totalQuantity,
			WorkCount:     len(items),
			Status:        model.ActStatusDraft,
		}
		saved, err := s.acts.CreateAct(ctx, act, items)
		if err != nil {
			return created, fmt.Errorf("create %s act: %w", kind, err)
		}
		created = append(created, *saved)
	}
	return created, nil
}

// snapshotItems freezes completed lines into act items. The act total is by
// construction the exact sum of the item totals.
func snapshotItems(lines []model.CompletedLine) ([]model.ActItem, decimal.Decimal, decimal.Decimal) {
	items := make([]model.ActItem, 0, len(lines))
	totalAmount := decimal.Zero
	totalQuantity := decimal.Zero

	for i, l := range lines {
		lineTotal := l.Record.ActualTotal
		if lineTotal.IsZero() {
			lineTotal = l.Record.ActualQuantity.Mul(l.Line.UnitPrice).Round(2)
		}
		items = append(items, model.ActItem{
			LineItemID:      l.Line.ID,
			Code:            l.Line.Code,
			Name:            l.Line.Name,
			Unit:            l.Line.Unit,
			Section:         l.Line.Section,
			PlannedQuantity: l.Line.Quantity,
			ActualQuantity:  l.Record.ActualQuantity,
			UnitPrice:       l.Line.UnitPrice,
			TotalPrice:      lineTotal,
			Position:        i + 1,
		})
		totalAmount = totalAmount.Add(lineTotal)
		totalQuantity = totalQuantity.Add(l.Record.ActualQuantity)
	}
	return items, totalAmount, totalQuantity
}

// SectionGroup is the grouped-items view of one estimate section.
type SectionGroup struct {
	Section string
	Items   []model.ActItem
}

type ActView struct {
	Act         model.Act
	Sections    []SectionGroup
	Signatories []model.Signatory
}

func (s *ActService) Get(ctx context.Context, principal model.Principal, actID uuid.UUID) (*ActView, error) {
	act, err := s.getAct(ctx, principal, actID)
	if err != nil {
		return nil, err
	}
	items, err := s.acts.ListActItems(ctx, actID)
	if err != nil {
		return nil, err
	}
	signatories, err := s.acts.ListSignatories(ctx, actID)
	if err != nil {
		return nil, err
	}
	return &ActView{Act: *act, Sections: groupBySection(items), Signatories: signatories}, nil
}

func (s *ActService) List(ctx context.Context, principal model.Principal, estimateID uuid.UUID, kind *model.ActKind) ([]model.Act, error) {
	if estimateID == uuid.Nil {
		return nil, fmt.Errorf("%w: estimate_id is required", ErrInvalidInput)
	}
	return s.acts.ListActs(ctx, principal.TenantID, estimateID, kind)
}

func (s *ActService) Delete(ctx context.Context, principal model.Principal, actID uuid.UUID) error {
	err := s.acts.DeleteAct(ctx, principal.TenantID, actID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *ActService) UpdateStatus(ctx context.Context, principal model.Principal, actID uuid.UUID, rawStatus string) error {
	status, ok := model.ParseActStatus(rawStatus)
	if !ok {
		return fmt.Errorf("%w: invalid status %q", ErrInvalidInput, rawStatus)
	}
	err := s.acts.UpdateStatus(ctx, principal.TenantID, actID, status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *ActService) UpdateDetails(ctx context.Context, principal model.Principal, actID uuid.UUID, details repository.ActDetails) error {
	err := s.acts.UpdateDetails(ctx, principal.TenantID, actID, details)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

type SignatoryInput struct {
	Role     model.SignatoryRole
	FullName string
	Position string
	Basis    *string
}

func (s *ActService) AddSignatory(ctx context.Context, principal model.Principal, actID uuid.UUID, input SignatoryInput) (*model.Signatory, error) {
	switch input.Role {
	case model.SignatoryContractorChief, model.SignatoryCustomerChief,
		model.SignatoryInspector, model.SignatoryTechSupervisor:
	default:
		return nil, fmt.Errorf("%w: invalid signatory role %q", ErrInvalidInput, input.Role)
	}
	if input.FullName == "" {
		return nil, fmt.Errorf("%w: full_name is required", ErrInvalidInput)
	}
	if _, err := s.getAct(ctx, principal, actID); err != nil {
		return nil, err
	}
	return s.acts.AddSignatory(ctx, model.Signatory{
		ActID:    actID,
		Role:     input.Role,
		FullName: input.FullName,
		Position: input.Position,
		Basis:    input.Basis,
	})
}

func (s *ActService) getAct(ctx context.Context, principal model.Principal, actID uuid.UUID) (*model.Act, error) {
	if actID == uuid.Nil {
		return nil, fmt.Errorf("%w: act_id is required", ErrInvalidInput)
	}
	act, err := s.acts.GetAct(ctx, principal.TenantID, actID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return act, nil
}

func groupBySection(items []model.ActItem) []SectionGroup {
	var groups []SectionGroup
	index := map[string]int{}
	for _, item := range items {
		pos, ok := index[item.Section]
		if !ok {
			groups = append(groups, SectionGroup{Section: item.Section})
			pos = len(groups) - 1
			index[item.Section] = pos
		}
		groups[pos].Items = append(groups[pos].Items, item)
	}
	return groups
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
