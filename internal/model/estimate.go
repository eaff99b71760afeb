package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Estimate struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	ProjectID uuid.UUID
	Name      string
	CreatedAt time.Time
}

// EstimateLineItem is a single priced row of an estimate. Once an act
// references it the row is immutable except through completion tracking.
type EstimateLineItem struct {
	ID         uuid.UUID
	EstimateID uuid.UUID

	Code    string
	Name    string
	Unit    string
	Section string

	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Position  int
}

// Project rows belong to the platform's project subsystem; this service only
// reads the fields the act header falls back to.
type Project struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	Name           string
	CustomerName   *string
	ContractorName *string
	ContractNumber *string
	ObjectName     *string
	ObjectAddress  *string
}
