package http

import (
	"github.com/shopspring/decimal"

	"github.com/Nastya870/smetalab-sub001/internal/model"
	"github.com/Nastya870/smetalab-sub001/internal/moneytext"
	"github.com/Nastya870/smetalab-sub001/internal/service"
)

type actSummary struct {
	ID          string          `json:"id"`
	EstimateID  string          `json:"estimateId"`
	ProjectID   string          `json:"projectId"`
	Kind        string          `json:"kind"`
	Number      int             `json:"number"`
	ActDate     string          `json:"actDate"`
	PeriodFrom  string          `json:"periodFrom,omitempty"`
	PeriodTo    string          `json:"periodTo,omitempty"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	WorkCount   int             `json:"workCount"`
	Status      string          `json:"status"`
	Notes       *string         `json:"notes,omitempty"`
}

func actSummaries(acts []model.Act) []actSummary {
	result := make([]actSummary, 0, len(acts))
	for _, act := range acts {
		result = append(result, toActSummary(act))
	}
	return result
}

func toActSummary(act model.Act) actSummary {
	summary := actSummary{
		ID:          act.ID.String(),
		EstimateID:  act.EstimateID.String(),
		ProjectID:   act.ProjectID.String(),
		Kind:        string(act.Kind),
		Number:      act.Number,
		ActDate:     moneytext.FormatDate(act.ActDate),
		TotalAmount: act.TotalAmount,
		WorkCount:   act.WorkCount,
		Status:      string(act.Status),
		Notes:       act.Notes,
	}
	if act.PeriodFrom != nil {
		summary.PeriodFrom = moneytext.FormatDate(*act.PeriodFrom)
	}
	if act.PeriodTo != nil {
		summary.PeriodTo = moneytext.FormatDate(*act.PeriodTo)
	}
	return summary
}

type actItemBody struct {
	ID              string          `json:"id"`
	LineItemID      string          `json:"lineItemId"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Unit            string          `json:"unit"`
	PlannedQuantity decimal.Decimal `json:"plannedQuantity"`
	ActualQuantity  decimal.Decimal `json:"actualQuantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	Position        int             `json:"position"`
}

type sectionBody struct {
	Section string        `json:"section"`
	Items   []actItemBody `json:"items"`
}

type signatoryBody struct {
	ID       string  `json:"id"`
	Role     string  `json:"role"`
	FullName string  `json:"fullName"`
	Position string  `json:"position"`
	Basis    *string `json:"basis,omitempty"`
}

type actViewBody struct {
	actSummary
	Sections    []sectionBody   `json:"sections"`
	Signatories []signatoryBody `json:"signatories"`
}

func actViewResponse(view *service.ActView) actViewBody {
	body := actViewBody{
		actSummary:  toActSummary(view.Act),
		Sections:    make([]sectionBody, 0, len(view.Sections)),
		Signatories: make([]signatoryBody, 0, len(view.Signatories)),
	}
	for _, group := range view.Sections {
		section := sectionBody{Section: group.Section, Items: make([]actItemBody, 0, len(group.Items))}
		for _, item := range group.Items {
			section.Items = append(section.Items, actItemBody{
				ID:              item.ID.String(),
				LineItemID:      item.LineItemID.String(),
				Code:            item.Code,
				Name:            item.Name,
				Unit:            item.Unit,
				PlannedQuantity: item.PlannedQuantity,
				ActualQuantity:  item.ActualQuantity,
				UnitPrice:       item.UnitPrice,
				TotalPrice:      item.TotalPrice,
				Position:        item.Position,
			})
		}
		body.Sections = append(body.Sections, section)
	}
	for _, s := range view.Signatories {
		body.Signatories = append(body.Signatories, signatoryResponse(s))
	}
	return body
}

func signatoryResponse(s model.Signatory) signatoryBody {
	return signatoryBody{
		ID:       s.ID.String(),
		Role:     string(s.Role),
		FullName: s.FullName,
		Position: s.Position,
		Basis:    s.Basis,
	}
}

type completionBody struct {
	ID             string          `json:"id"`
	EstimateID     string          `json:"estimateId"`
	LineItemID     string          `json:"lineItemId"`
	Completed      bool            `json:"completed"`
	ActualQuantity decimal.Decimal `json:"actualQuantity"`
	ActualTotal    decimal.Decimal `json:"actualTotal"`
	CompletedAt    *string         `json:"completedAt,omitempty"`
	Note           *string         `json:"note,omitempty"`
	LastActID      *string         `json:"lastActId,omitempty"`
}

func completionResponses(records []model.CompletionRecord) []completionBody {
	result := make([]completionBody, 0, len(records))
	for _, rec := range records {
		result = append(result, completionResponseBody(rec))
	}
	return result
}

func completionResponseBody(rec model.CompletionRecord) completionBody {
	body := completionBody{
		ID:             rec.ID.String(),
		EstimateID:     rec.EstimateID.String(),
		LineItemID:     rec.LineItemID.String(),
		Completed:      rec.Completed,
		ActualQuantity: rec.ActualQuantity,
		ActualTotal:    rec.ActualTotal,
		Note:           rec.Note,
	}
	if rec.CompletedAt != nil {
		formatted := rec.CompletedAt.Format("2006-01-02T15:04:05Z07:00")
		body.CompletedAt = &formatted
	}
	if rec.LastActID != nil {
		id := rec.LastActID.String()
		body.LastActID = &id
	}
	return body
}
