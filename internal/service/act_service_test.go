package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nastya870/smetalab-sub001/internal/model"
)

type actFixture struct {
	principal   model.Principal
	estimate    model.Estimate
	acts        *fakeActStore
	completions *fakeCompletionStore
	estimates   *fakeEstimateStore
	svc         *ActService
}

func newActFixture(t *testing.T) *actFixture {
	t.Helper()
	tenantID := uuid.New()
	estimates := newFakeEstimateStore()
	estimate := seedEstimate(estimates, tenantID)
	acts := newFakeActStore()
	completions := newFakeCompletionStore()
	return &actFixture{
		principal:   model.Principal{TenantID: tenantID, UserID: uuid.New()},
		estimate:    estimate,
		acts:        acts,
		completions: completions,
		estimates:   estimates,
		svc:         NewActService(acts, completions, estimates),
	}
}

func (f *actFixture) seedCompletedLine(code string, qty, price, total string) model.CompletedLine {
	line := model.CompletedLine{
		Record: model.CompletionRecord{
			ID:             uuid.New(),
			TenantID:       f.principal.TenantID,
			EstimateID:     f.estimate.ID,
			LineItemID:     uuid.New(),
			Completed:      true,
			ActualQuantity: decimal.RequireFromString(qty),
			ActualTotal:    decimal.RequireFromString(total),
		},
		Line: model.EstimateLineItem{
			EstimateID: f.estimate.ID,
			Code:       code,
			Name:       "Работа " + code,
			Unit:       "м2",
			Section:    "Раздел 1",
			Quantity:   decimal.RequireFromString(qty),
			UnitPrice:  decimal.RequireFromString(price),
		},
	}
	line.Line.ID = line.Record.LineItemID
	f.completions.completedLines[f.estimate.ID] = append(f.completions.completedLines[f.estimate.ID], line)
	return line
}

func TestGenerateRequiresCompletedWorks(t *testing.T) {
	f := newActFixture(t)

	created, err := f.svc.Generate(context.Background(), f.principal, GenerateInput{
		EstimateID: f.estimate.ID,
		ProjectID:  f.estimate.ProjectID,
		Kinds:      []model.ActKind{model.ActKindClient},
	})
	assert.ErrorIs(t, err, ErrNoCompletedWorks)
	assert.Empty(t, created)
	assert.Empty(t, f.acts.acts)
}

func TestGenerateSnapshotsCompletedLines(t *testing.T) {
	f := newActFixture(t)
	f.seedCompletedLine("01-01", "10", "150", "1500")
	// Zero actual total falls back to quantity times unit price.
	f.seedCompletedLine("01-02", "3", "99.99", "0")

	created, err := f.svc.Generate(context.Background(), f.principal, GenerateInput{
		EstimateID: f.estimate.ID,
		ProjectID:  f.estimate.ProjectID,
		Kinds:      []model.ActKind{model.ActKindClient},
		ActDate:    time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, created, 1)

	act := created[0]
	assert.Equal(t, 1, act.Number)
	assert.Equal(t, 2, act.WorkCount)
	assert.Equal(t, model.ActStatusDraft, act.Status)
	// 1500 + 3*99.99 = 1799.97
	assert.True(t, act.TotalAmount.Equal(decimal.RequireFromString("1799.97")),
		"total %s", act.TotalAmount)
	// Act date is stored date-only.
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), act.ActDate)

	items, err := f.acts.ListActItems(context.Background(), act.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.TotalPrice)
	}
	assert.True(t, act.TotalAmount.Equal(sum))
}

func TestGenerateBothKindsNumberIndependently(t *testing.T) {
	f := newActFixture(t)
	f.seedCompletedLine("01-01", "1", "100", "100")

	created, err := f.svc.Generate(context.Background(), f.principal, GenerateInput{
		EstimateID: f.estimate.ID,
		ProjectID:  f.estimate.ProjectID,
		Kinds:      []model.ActKind{model.ActKindClient, model.ActKindSpecialist},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, model.ActKindClient, created[0].Kind)
	assert.Equal(t, model.ActKindSpecialist, created[1].Kind)
	// Each kind has its own counter, so both first acts are number 1.
	assert.Equal(t, 1, created[0].Number)
	assert.Equal(t, 1, created[1].Number)
}

func TestGeneratePartialFailureKeepsFirstAct(t *testing.T) {
	f := newActFixture(t)
	f.seedCompletedLine("01-01", "1", "100", "100")
	f.acts.failKinds[model.ActKindSpecialist] = true

	created, err := f.svc.Generate(context.Background(), f.principal, GenerateInput{
		EstimateID: f.estimate.ID,
		ProjectID:  f.estimate.ProjectID,
		Kinds:      []model.ActKind{model.ActKindClient, model.ActKindSpecialist},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SPECIALIST")
	// The client act committed before the specialist act failed.
	require.Len(t, created, 1)
	assert.Equal(t, model.ActKindClient, created[0].Kind)
}

func TestGenerateEstimateProjectMismatch(t *testing.T) {
	f := newActFixture(t)
	f.seedCompletedLine("01-01", "1", "100", "100")

	_, err := f.svc.Generate(context.Background(), f.principal, GenerateInput{
		EstimateID: f.estimate.ID,
		ProjectID:  uuid.New(),
		Kinds:      []model.ActKind{model.ActKindClient},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGenerateInvalidPeriod(t *testing.T) {
	f := newActFixture(t)
	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.Generate(context.Background(), f.principal, GenerateInput{
		EstimateID: f.estimate.ID,
		ProjectID:  f.estimate.ProjectID,
		Kinds:      []model.ActKind{model.ActKindClient},
		PeriodFrom: &from,
		PeriodTo:   &to,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGenerateSequentialNumbersPerKind(t *testing.T) {
	f := newActFixture(t)
	f.seedCompletedLine("01-01", "1", "100", "100")

	input := GenerateInput{
		EstimateID: f.estimate.ID,
		ProjectID:  f.estimate.ProjectID,
		Kinds:      []model.ActKind{model.ActKindClient},
		ActDate:    time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	first, err := f.svc.Generate(context.Background(), f.principal, input)
	require.NoError(t, err)
	second, err := f.svc.Generate(context.Background(), f.principal, input)
	require.NoError(t, err)
	assert.Equal(t, 1, first[0].Number)
	assert.Equal(t, 2, second[0].Number)
}

func TestGetGroupsItemsBySection(t *testing.T) {
	f := newActFixture(t)
	line1 := f.seedCompletedLine("01-01", "1", "100", "100")
	line2 := f.seedCompletedLine("01-02", "1", "200", "200")
	lines := f.completions.completedLines[f.estimate.ID]
	lines[1].Line.Section = "Раздел 2"
	f.completions.completedLines[f.estimate.ID] = lines

	created, err := f.svc.Generate(context.Background(), f.principal, GenerateInput{
		EstimateID: f.estimate.ID,
		ProjectID:  f.estimate.ProjectID,
		Kinds:      []model.ActKind{model.ActKindClient},
	})
	require.NoError(t, err)

	view, err := f.svc.Get(context.Background(), f.principal, created[0].ID)
	require.NoError(t, err)
	require.Len(t, view.Sections, 2)
	assert.Equal(t, "Раздел 1", view.Sections[0].Section)
	assert.Equal(t, "Раздел 2", view.Sections[1].Section)
	assert.Equal(t, line1.Line.Code, view.Sections[0].Items[0].Code)
	assert.Equal(t, line2.Line.Code, view.Sections[1].Items[0].Code)
}

func TestGetUnknownAct(t *testing.T) {
	f := newActFixture(t)
	_, err := f.svc.Get(context.Background(), f.principal, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	f := newActFixture(t)
	err := f.svc.UpdateStatus(context.Background(), f.principal, uuid.New(), "SHIPPED")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatusUnknownAct(t *testing.T) {
	f := newActFixture(t)
	err := f.svc.UpdateStatus(context.Background(), f.principal, uuid.New(), "APPROVED")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddSignatoryValidation(t *testing.T) {
	f := newActFixture(t)

	_, err := f.svc.AddSignatory(context.Background(), f.principal, uuid.New(), SignatoryInput{
		Role:     "JANITOR",
		FullName: "Иванов И.И.",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.AddSignatory(context.Background(), f.principal, uuid.New(), SignatoryInput{
		Role: model.SignatoryContractorChief,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddSignatoryAttachesToAct(t *testing.T) {
	f := newActFixture(t)
	f.seedCompletedLine("01-01", "1", "100", "100")
	created, err := f.svc.Generate(context.Background(), f.principal, GenerateInput{
		EstimateID: f.estimate.ID,
		ProjectID:  f.estimate.ProjectID,
		Kinds:      []model.ActKind{model.ActKindClient},
	})
	require.NoError(t, err)

	saved, err := f.svc.AddSignatory(context.Background(), f.principal, created[0].ID, SignatoryInput{
		Role:     model.SignatoryContractorChief,
		FullName: "Петров П.П.",
		Position: "Генеральный директор",
	})
	require.NoError(t, err)
	assert.Equal(t, created[0].ID, saved.ActID)

	view, err := f.svc.Get(context.Background(), f.principal, created[0].ID)
	require.NoError(t, err)
	require.Len(t, view.Signatories, 1)
	assert.Equal(t, "Петров П.П.", view.Signatories[0].FullName)
}

func TestDeleteActForeignTenant(t *testing.T) {
	f := newActFixture(t)
	f.seedCompletedLine("01-01", "1", "100", "100")
	created, err := f.svc.Generate(context.Background(), f.principal, GenerateInput{
		EstimateID: f.estimate.ID,
		ProjectID:  f.estimate.ProjectID,
		Kinds:      []model.ActKind{model.ActKindClient},
	})
	require.NoError(t, err)

	stranger := model.Principal{TenantID: uuid.New()}
	err = f.svc.Delete(context.Background(), stranger, created[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.svc.Delete(context.Background(), f.principal, created[0].ID))
}
