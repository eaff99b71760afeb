package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Nastya870/smetalab-sub001/internal/accounting"
	"github.com/Nastya870/smetalab-sub001/internal/model"
)

type ExcelGenerator interface {
	GenerateKS2(data model.KS2Data) ([]byte, error)
	GenerateKS3(data model.KS3Data) ([]byte, error)
}

type PDFGenerator interface {
	GenerateActSummary(data model.KS2Data) ([]byte, error)
}

// Archiver stores generated documents in object storage; a nil Archiver
// disables archiving.
type Archiver interface {
	Store(ctx context.Context, objectName string, content []byte, contentType string) error
}

type DocumentService struct {
	acts      ActStore
	estimates EstimateStore
	excel     ExcelGenerator
	pdf       PDFGenerator
	archive   Archiver
	vatRate   decimal.Decimal
	log       zerolog.Logger
}

func NewDocumentService(
	acts ActStore,
	estimates EstimateStore,
	excel ExcelGenerator,
	pdf PDFGenerator,
	archive Archiver,
	vatRate decimal.Decimal,
	log zerolog.Logger,
) *DocumentService {
	return &DocumentService{
		acts:      acts,
		estimates: estimates,
		excel:     excel,
		pdf:       pdf,
		archive:   archive,
		vatRate:   vatRate,
		log:       log,
	}
}

type Document struct {
	FileName    string
	ContentType string
	Content     []byte
}

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

// KS2Data assembles the completed-works certificate payload for an act.
func (s *DocumentService) KS2Data(ctx context.Context, principal model.Principal, actID uuid.UUID, includeVAT bool) (*model.KS2Data, error) {
	act, items, signatories, header, err := s.loadActDocument(ctx, principal, actID)
	if err != nil {
		return nil, err
	}

	lines := make([]model.KS2Line, 0, len(items))
	for i, item := range items {
		lines = append(lines, model.KS2Line{
			Number:     i + 1,
			Code:       item.Code,
			Name:       item.Name,
			Unit:       item.Unit,
			PlannedQty: item.PlannedQuantity,
			ActualQty:  item.ActualQuantity,
			UnitPrice:  item.UnitPrice,
			Total:      item.TotalPrice,
		})
	}

	data := &model.KS2Data{
		Header:      *header,
		Lines:       lines,
		Total:       act.TotalAmount,
		Signatories: signatories,
	}
	if includeVAT {
		data.IncludeVAT = true
		data.VATRate = s.vatRate
		data.VATAmount = act.TotalAmount.Mul(s.vatRate).Div(decimal.NewFromInt(100)).Round(2)
		data.TotalWithVAT = act.TotalAmount.Add(data.VATAmount)
	}
	return data, nil
}

// KS3Data assembles the cost certificate payload: the act's lines with their
// period split derived from the estimate's persisted act history.
func (s *DocumentService) KS3Data(ctx context.Context, principal model.Principal, actID uuid.UUID, includeVAT bool) (*model.KS3Data, error) {
	act, items, signatories, header, err := s.loadActDocument(ctx, principal, actID)
	if err != nil {
		return nil, err
	}

	history, err := s.acts.ListActsWithItems(ctx, principal.TenantID, act.EstimateID)
	if err != nil {
		return nil, err
	}
	entries := make([]accounting.ActEntry, 0, len(history))
	for _, h := range history {
		entry := accounting.ActEntry{
			ActID:   h.Act.ID,
			ActDate: h.Act.ActDate,
			Seq:     h.Act.Seq,
		}
		for _, item := range h.Items {
			entry.Lines = append(entry.Lines, accounting.LineAmount{
				LineItemID: item.LineItemID,
				Amount:     item.TotalPrice,
			})
		}
		entries = append(entries, entry)
	}

	splits, err := accounting.SplitForAct(act.ID, entries)
	if err != nil {
		return nil, err
	}
	sinceStart, err := accounting.SinceProjectStart(act.ID, entries)
	if err != nil {
		return nil, err
	}

	data := &model.KS3Data{
		Header:      *header,
		Signatories: signatories,
	}
	for i, item := range items {
		split := splits[item.LineItemID]
		start := sinceStart[item.LineItemID]
		data.Lines = append(data.Lines, model.KS3Line{
			Number:     i + 1,
			Code:       item.Code,
			Name:       item.Name,
			SinceStart: start,
			SinceYear:  split.YTD.Sub(split.Current),
			Current:    split.Current,
		})
		data.TotalSinceStart = data.TotalSinceStart.Add(start)
		data.TotalSinceYear = data.TotalSinceYear.Add(split.YTD.Sub(split.Current))
		data.TotalCurrent = data.TotalCurrent.Add(split.Current)
	}
	if includeVAT {
		data.IncludeVAT = true
		data.VATRate = s.vatRate
		data.VATAmount = data.TotalCurrent.Mul(s.vatRate).Div(decimal.NewFromInt(100)).Round(2)
		data.TotalWithVAT = data.TotalCurrent.Add(data.VATAmount)
	}
	return data, nil
}

func (s *DocumentService) RenderKS2(ctx context.Context, principal model.Principal, actID uuid.UUID, includeVAT bool) (*Document, error) {
	data, err := s.KS2Data(ctx, principal, actID, includeVAT)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.GenerateKS2(*data)
	if err != nil {
		return nil, fmt.Errorf("render ks2: %w", err)
	}
	doc := &Document{
		FileName:    documentFileName("KS2", data.Header),
		ContentType: xlsxContentType,
		Content:     content,
	}
	s.archiveDocument(ctx, principal, actID, doc)
	return doc, nil
}

func (s *DocumentService) RenderKS3(ctx context.Context, principal model.Principal, actID uuid.UUID, includeVAT bool) (*Document, error) {
	data, err := s.KS3Data(ctx, principal, actID, includeVAT)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.GenerateKS3(*data)
	if err != nil {
		return nil, fmt.Errorf("render ks3: %w", err)
	}
	doc := &Document{
		FileName:    documentFileName("KS3", data.Header),
		ContentType: xlsxContentType,
		Content:     content,
	}
	s.archiveDocument(ctx, principal, actID, doc)
	return doc, nil
}

// RenderPrint produces the printable PDF summary of an act.
func (s *DocumentService) RenderPrint(ctx context.Context, principal model.Principal, actID uuid.UUID) (*Document, error) {
	data, err := s.KS2Data(ctx, principal, actID, false)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.GenerateActSummary(*data)
	if err != nil {
		return nil, fmt.Errorf("render act summary: %w", err)
	}
	return &Document{
		FileName:    fmt.Sprintf("act-%d-%s.pdf", data.Header.ActNumber, data.Header.ActDate.Format("02012006")),
		ContentType: pdfContentType,
		Content:     content,
	}, nil
}

// archiveDocument uploads the rendered file to object storage when an
// archive is configured. Failures are logged and never fail the download.
func (s *DocumentService) archiveDocument(ctx context.Context, principal model.Principal, actID uuid.UUID, doc *Document) {
	if s.archive == nil {
		return
	}
	objectName := fmt.Sprintf("%s/%s/%s", principal.TenantID, actID, doc.FileName)
	if err := s.archive.Store(ctx, objectName, doc.Content, doc.ContentType); err != nil {
		s.log.Warn().Err(err).Str("object", objectName).Msg("document archive upload failed")
	}
}

func (s *DocumentService) loadActDocument(ctx context.Context, principal model.Principal, actID uuid.UUID) (*model.Act, []model.ActItem, []model.Signatory, *model.FormHeader, error) {
	if actID == uuid.Nil {
		return nil, nil, nil, nil, fmt.Errorf("%w: act_id is required", ErrInvalidInput)
	}
	act, err := s.acts.GetAct(ctx, principal.TenantID, actID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, nil, ErrNotFound
		}
		return nil, nil, nil, nil, err
	}
	items, err := s.acts.ListActItems(ctx, actID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	signatories, err := s.acts.ListSignatories(ctx, actID)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	estimate, err := s.estimates.GetEstimate(ctx, principal.TenantID, act.EstimateID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil, nil, err
	}
	project, err := s.estimates.GetProject(ctx, principal.TenantID, act.ProjectID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil, nil, err
	}
	if project == nil {
		project = &model.Project{}
	}

	header := &model.FormHeader{
		ActNumber:         act.Number,
		ActDate:           act.ActDate,
		CustomerName:      resolve(act.CustomerName, project.CustomerName, ""),
		ContractorName:    resolve(act.ContractorName, project.ContractorName, ""),
		ContractReference: resolve(act.ContractReference, project.ContractNumber, ""),
		ObjectName:        resolve(act.ObjectName, project.ObjectName, project.Name),
		ObjectAddress:     resolve(act.ObjectAddress, project.ObjectAddress, ""),
	}
	if estimate != nil {
		header.EstimateName = estimate.Name
	}
	if act.PeriodFrom != nil {
		header.PeriodFrom = *act.PeriodFrom
	}
	if act.PeriodTo != nil {
		header.PeriodTo = *act.PeriodTo
	}
	return act, items, signatories, header, nil
}

// resolve implements the act→project fallback chain of the denormalized
// header fields: the act's own value wins, then the project's, then the
// default.
func resolve(primary, fallback *string, def string) string {
	if primary != nil && *primary != "" {
		return *primary
	}
	if fallback != nil && *fallback != "" {
		return *fallback
	}
	return def
}

func documentFileName(form string, header model.FormHeader) string {
	return fmt.Sprintf("%s-%d-%s.xlsx", form, header.ActNumber, header.ActDate.Format("02012006"))
}
