package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ActKind string

const (
	ActKindClient     ActKind = "CLIENT"
	ActKindSpecialist ActKind = "SPECIALIST"
)

type ActStatus string

const (
	ActStatusDraft    ActStatus = "DRAFT"
	ActStatusPending  ActStatus = "PENDING"
	ActStatusApproved ActStatus = "APPROVED"
	ActStatusPaid     ActStatus = "PAID"
)

// Act is an immutable numbered snapshot of completed work for a period.
// Counterparty and object fields are denormalized at generation time and fall
// back to the project fields when unset.
type Act struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	EstimateID uuid.UUID
	ProjectID  uuid.UUID
	Kind       ActKind
	Number     int
	ActDate    time.Time
	PeriodFrom *time.Time
	PeriodTo   *time.Time

	TotalAmount   decimal.Decimal
	TotalQuantity decimal.Decimal
	WorkCount     int

	Status ActStatus
	Notes  *string

	CustomerName      *string
	ContractorName    *string
	ContractReference *string
	ObjectName        *string
	ObjectAddress     *string

	CreatedAt time.Time
	// Seq is the creation-order tie-break for acts sharing an act date.
	Seq int64
}

// ActItem is a frozen copy of one estimate line at generation time. Rows are
// never edited after creation; corrections go through a new act.
type ActItem struct {
	ID         uuid.UUID
	ActID      uuid.UUID
	LineItemID uuid.UUID

	Code    string
	Name    string
	Unit    string
	Section string

	PlannedQuantity decimal.Decimal
	ActualQuantity  decimal.Decimal
	UnitPrice       decimal.Decimal
	TotalPrice      decimal.Decimal
	Position        int
}

// ActWithItems pairs an act header with its item snapshots.
type ActWithItems struct {
	Act   Act
	Items []ActItem
}

type SignatoryRole string

const (
	SignatoryContractorChief SignatoryRole = "CONTRACTOR_CHIEF"
	SignatoryCustomerChief   SignatoryRole = "CUSTOMER_CHIEF"
	SignatoryInspector       SignatoryRole = "CUSTOMER_INSPECTOR"
	SignatoryTechSupervisor  SignatoryRole = "TECH_SUPERVISOR"
)

type Signatory struct {
	ID       uuid.UUID
	ActID    uuid.UUID
	Role     SignatoryRole
	FullName string
	Position string
	Basis    *string
}

func ParseActKind(raw string) (ActKind, bool) {
	switch ActKind(raw) {
	case ActKindClient, ActKindSpecialist:
		return ActKind(raw), true
	}
	return "", false
}

func ParseActStatus(raw string) (ActStatus, bool) {
	switch ActStatus(raw) {
	case ActStatusDraft, ActStatusPending, ActStatusApproved, ActStatusPaid:
		return ActStatus(raw), true
	}
	return "", false
}
