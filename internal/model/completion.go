package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompletionRecord tracks reported progress for one estimate line. One row per
// (tenant, estimate, line item); later reports update it in place.
type CompletionRecord struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	EstimateID uuid.UUID
	LineItemID uuid.UUID

	Completed      bool
	ActualQuantity decimal.Decimal
	ActualTotal    decimal.Decimal
	CompletedAt    *time.Time
	Note           *string
	LastActID      *uuid.UUID

	UpdatedAt time.Time
}

// CompletedLine is a CompletionRecord joined to its source estimate line, the
// shape act generation selects from.
type CompletedLine struct {
	Record CompletionRecord
	Line   EstimateLineItem
}
