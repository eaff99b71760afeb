package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nastya870/smetalab-sub001/internal/model"
)

func seedEstimate(estimates *fakeEstimateStore, tenantID uuid.UUID) model.Estimate {
	estimate := model.Estimate{
		ID:        uuid.New(),
		TenantID:  tenantID,
		ProjectID: uuid.New(),
		Name:      "Отделочные работы",
	}
	estimates.estimates[estimate.ID] = estimate
	return estimate
}

func TestCompletionUpsertStoresRecord(t *testing.T) {
	tenantID := uuid.New()
	principal := model.Principal{TenantID: tenantID, UserID: uuid.New()}
	estimates := newFakeEstimateStore()
	estimate := seedEstimate(estimates, tenantID)
	completions := newFakeCompletionStore()
	svc := NewCompletionService(completions, estimates)

	lineID := uuid.New()
	saved, err := svc.Upsert(context.Background(), principal, estimate.ID, CompletionInput{
		LineItemID:     lineID,
		Completed:      true,
		ActualQuantity: decimal.RequireFromString("12.5"),
		ActualTotal:    decimal.RequireFromString("6250"),
	})
	require.NoError(t, err)
	assert.Equal(t, tenantID, saved.TenantID)
	assert.Equal(t, lineID, saved.LineItemID)
	assert.True(t, saved.Completed)
	require.NotNil(t, saved.CompletedAt)
}

func TestCompletionUpsertPreservesCompletedAt(t *testing.T) {
	tenantID := uuid.New()
	principal := model.Principal{TenantID: tenantID}
	estimates := newFakeEstimateStore()
	estimate := seedEstimate(estimates, tenantID)
	completions := newFakeCompletionStore()
	svc := NewCompletionService(completions, estimates)

	input := CompletionInput{
		LineItemID:     uuid.New(),
		Completed:      true,
		ActualQuantity: decimal.NewFromInt(1),
	}
	first, err := svc.Upsert(context.Background(), principal, estimate.ID, input)
	require.NoError(t, err)

	// A repeated upsert of an already-completed line keeps the original
	// completion timestamp.
	second, err := svc.Upsert(context.Background(), principal, estimate.ID, input)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CompletedAt, second.CompletedAt)
}

func TestCompletionUpsertRejectsInvalidInput(t *testing.T) {
	tenantID := uuid.New()
	principal := model.Principal{TenantID: tenantID}
	estimates := newFakeEstimateStore()
	estimate := seedEstimate(estimates, tenantID)
	svc := NewCompletionService(newFakeCompletionStore(), estimates)

	_, err := svc.Upsert(context.Background(), principal, estimate.ID, CompletionInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Upsert(context.Background(), principal, estimate.ID, CompletionInput{
		LineItemID:     uuid.New(),
		ActualQuantity: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCompletionUpsertUnknownEstimate(t *testing.T) {
	principal := model.Principal{TenantID: uuid.New()}
	svc := NewCompletionService(newFakeCompletionStore(), newFakeEstimateStore())

	_, err := svc.Upsert(context.Background(), principal, uuid.New(), CompletionInput{
		LineItemID: uuid.New(),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompletionUpsertForeignTenantEstimate(t *testing.T) {
	estimates := newFakeEstimateStore()
	estimate := seedEstimate(estimates, uuid.New())
	svc := NewCompletionService(newFakeCompletionStore(), estimates)

	// Another tenant's estimate is indistinguishable from a missing one.
	principal := model.Principal{TenantID: uuid.New()}
	_, err := svc.Upsert(context.Background(), principal, estimate.ID, CompletionInput{
		LineItemID: uuid.New(),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBatchUpsertAppliesAll(t *testing.T) {
	tenantID := uuid.New()
	principal := model.Principal{TenantID: tenantID}
	estimates := newFakeEstimateStore()
	estimate := seedEstimate(estimates, tenantID)
	completions := newFakeCompletionStore()
	svc := NewCompletionService(completions, estimates)

	inputs := []CompletionInput{
		{LineItemID: uuid.New(), Completed: true, ActualQuantity: decimal.NewFromInt(1)},
		{LineItemID: uuid.New(), Completed: true, ActualQuantity: decimal.NewFromInt(2)},
		{LineItemID: uuid.New(), ActualQuantity: decimal.NewFromInt(3)},
	}
	saved, err := svc.BatchUpsert(context.Background(), principal, estimate.ID, inputs)
	require.NoError(t, err)
	assert.Len(t, saved, 3)
	assert.Len(t, completions.records, 3)
}

func TestBatchUpsertRejectsBadItemBeforeAnyWrite(t *testing.T) {
	tenantID := uuid.New()
	principal := model.Principal{TenantID: tenantID}
	estimates := newFakeEstimateStore()
	estimate := seedEstimate(estimates, tenantID)
	completions := newFakeCompletionStore()
	svc := NewCompletionService(completions, estimates)

	inputs := make([]CompletionInput, 0, 10)
	for i := 0; i < 10; i++ {
		inputs = append(inputs, CompletionInput{
			LineItemID:     uuid.New(),
			ActualQuantity: decimal.NewFromInt(int64(i + 1)),
		})
	}
	inputs[4].ActualQuantity = decimal.NewFromInt(-5)

	_, err := svc.BatchUpsert(context.Background(), principal, estimate.ID, inputs)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "item 5")
	// No record of the batch reached the store.
	assert.Empty(t, completions.records)
}

func TestBatchUpsertEmptyBatch(t *testing.T) {
	tenantID := uuid.New()
	principal := model.Principal{TenantID: tenantID}
	estimates := newFakeEstimateStore()
	estimate := seedEstimate(estimates, tenantID)
	svc := NewCompletionService(newFakeCompletionStore(), estimates)

	_, err := svc.BatchUpsert(context.Background(), principal, estimate.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRemoveMissingRecord(t *testing.T) {
	tenantID := uuid.New()
	principal := model.Principal{TenantID: tenantID}
	estimates := newFakeEstimateStore()
	estimate := seedEstimate(estimates, tenantID)
	svc := NewCompletionService(newFakeCompletionStore(), estimates)

	err := svc.Remove(context.Background(), principal, estimate.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveDeletesRecord(t *testing.T) {
	tenantID := uuid.New()
	principal := model.Principal{TenantID: tenantID}
	estimates := newFakeEstimateStore()
	estimate := seedEstimate(estimates, tenantID)
	completions := newFakeCompletionStore()
	svc := NewCompletionService(completions, estimates)

	lineID := uuid.New()
	_, err := svc.Upsert(context.Background(), principal, estimate.ID, CompletionInput{
		LineItemID:     lineID,
		ActualQuantity: decimal.NewFromInt(4),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), principal, estimate.ID, lineID))
	records, err := svc.List(context.Background(), principal, estimate.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}
