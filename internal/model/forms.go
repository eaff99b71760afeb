package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FormHeader carries the denormalized header fields shared by the KS-2 and
// KS-3 layouts, already resolved through the act→project fallback chain.
type FormHeader struct {
	ActNumber  int
	ActDate    time.Time
	PeriodFrom time.Time
	PeriodTo   time.Time

	CustomerName      string
	ContractorName    string
	ContractReference string
	ObjectName        string
	ObjectAddress     string
	EstimateName      string
}

// KS2Line is one data row of the completed-works certificate.
type KS2Line struct {
	Number     int
	Code       string
	Name       string
	Unit       string
	PlannedQty decimal.Decimal
	ActualQty  decimal.Decimal
	UnitPrice  decimal.Decimal
	Total      decimal.Decimal
}

type KS2Data struct {
	Header FormHeader
	Lines  []KS2Line
	Total  decimal.Decimal

	IncludeVAT   bool
	VATRate      decimal.Decimal
	VATAmount    decimal.Decimal
	TotalWithVAT decimal.Decimal

	Signatories []Signatory
}

// KS3Line is one data row of the cost certificate: cumulative cost since
// project start, since year start, and for the current period.
type KS3Line struct {
	Number     int
	Code       string
	Name       string
	SinceStart decimal.Decimal
	SinceYear  decimal.Decimal
	Current    decimal.Decimal
}

type KS3Data struct {
	Header FormHeader
	Lines  []KS3Line

	TotalSinceStart decimal.Decimal
	TotalSinceYear  decimal.Decimal
	TotalCurrent    decimal.Decimal

	IncludeVAT   bool
	VATRate      decimal.Decimal
	VATAmount    decimal.Decimal
	TotalWithVAT decimal.Decimal

	Signatories []Signatory
}
