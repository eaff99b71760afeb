package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Nastya870/smetalab-sub001/internal/model"
	"github.com/Nastya870/smetalab-sub001/internal/repository"
)

type fakeEstimateStore struct {
	estimates map[uuid.UUID]model.Estimate
	projects  map[uuid.UUID]model.Project
}

func newFakeEstimateStore() *fakeEstimateStore {
	return &fakeEstimateStore{
		estimates: map[uuid.UUID]model.Estimate{},
		projects:  map[uuid.UUID]model.Project{},
	}
}

func (f *fakeEstimateStore) GetEstimate(_ context.Context, tenantID, estimateID uuid.UUID) (*model.Estimate, error) {
	e, ok := f.estimates[estimateID]
	if !ok || e.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (f *fakeEstimateStore) GetProject(_ context.Context, tenantID, projectID uuid.UUID) (*model.Project, error) {
	p, ok := f.projects[projectID]
	if !ok || p.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

type completionKey struct {
	estimateID uuid.UUID
	lineItemID uuid.UUID
}

type fakeCompletionStore struct {
	records        map[completionKey]model.CompletionRecord
	completedLines map[uuid.UUID][]model.CompletedLine
	batchErr       error
}

func newFakeCompletionStore() *fakeCompletionStore {
	return &fakeCompletionStore{
		records:        map[completionKey]model.CompletionRecord{},
		completedLines: map[uuid.UUID][]model.CompletedLine{},
	}
}

func (f *fakeCompletionStore) Upsert(_ context.Context, rec model.CompletionRecord) (*model.CompletionRecord, error) {
	key := completionKey{estimateID: rec.EstimateID, lineItemID: rec.LineItemID}
	if existing, ok := f.records[key]; ok {
		rec.ID = existing.ID
		if rec.Completed && existing.CompletedAt != nil {
			rec.CompletedAt = existing.CompletedAt
		}
	} else {
		rec.ID = uuid.New()
	}
	if rec.Completed && rec.CompletedAt == nil {
		now := time.Now().UTC()
		rec.CompletedAt = &now
	}
	if !rec.Completed {
		rec.CompletedAt = nil
	}
	rec.UpdatedAt = time.Now().UTC()
	f.records[key] = rec
	return &rec, nil
}

func (f *fakeCompletionStore) BatchUpsert(ctx context.Context, recs []model.CompletionRecord) ([]model.CompletionRecord, error) {
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	saved := make([]model.CompletionRecord, 0, len(recs))
	for _, rec := range recs {
		out, err := f.Upsert(ctx, rec)
		if err != nil {
			return nil, err
		}
		saved = append(saved, *out)
	}
	return saved, nil
}

func (f *fakeCompletionStore) Delete(_ context.Context, _, estimateID, lineItemID uuid.UUID) error {
	key := completionKey{estimateID: estimateID, lineItemID: lineItemID}
	if _, ok := f.records[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.records, key)
	return nil
}

func (f *fakeCompletionStore) List(_ context.Context, _, estimateID uuid.UUID) ([]model.CompletionRecord, error) {
	var out []model.CompletionRecord
	for key, rec := range f.records {
		if key.estimateID == estimateID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeCompletionStore) ListCompletedLines(_ context.Context, _, estimateID uuid.UUID) ([]model.CompletedLine, error) {
	return f.completedLines[estimateID], nil
}

type counterKey struct {
	kind model.ActKind
	year int
}

type fakeActStore struct {
	acts        map[uuid.UUID]model.Act
	items       map[uuid.UUID][]model.ActItem
	signatories map[uuid.UUID][]model.Signatory
	counters    map[counterKey]int
	nextSeq     int64
	failKinds   map[model.ActKind]bool
}

func newFakeActStore() *fakeActStore {
	return &fakeActStore{
		acts:        map[uuid.UUID]model.Act{},
		items:       map[uuid.UUID][]model.ActItem{},
		signatories: map[uuid.UUID][]model.Signatory{},
		counters:    map[counterKey]int{},
		failKinds:   map[model.ActKind]bool{},
	}
}

func (f *fakeActStore) CreateAct(_ context.Context, act model.Act, items []model.ActItem) (*model.Act, error) {
	if f.failKinds[act.Kind] {
		return nil, fmt.Errorf("insert act: connection reset")
	}
	key := counterKey{kind: act.Kind, year: act.ActDate.Year()}
	f.counters[key]++
	f.nextSeq++

	act.ID = uuid.New()
	act.Number = f.counters[key]
	act.Seq = f.nextSeq
	act.CreatedAt = time.Now().UTC()
	f.acts[act.ID] = act

	stored := make([]model.ActItem, 0, len(items))
	for _, item := range items {
		item.ID = uuid.New()
		item.ActID = act.ID
		stored = append(stored, item)
	}
	f.items[act.ID] = stored
	return &act, nil
}

func (f *fakeActStore) GetAct(_ context.Context, tenantID, actID uuid.UUID) (*model.Act, error) {
	act, ok := f.acts[actID]
	if !ok || act.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	return &act, nil
}

func (f *fakeActStore) ListActs(_ context.Context, tenantID, estimateID uuid.UUID, kind *model.ActKind) ([]model.Act, error) {
	var out []model.Act
	for _, act := range f.acts {
		if act.TenantID != tenantID || act.EstimateID != estimateID {
			continue
		}
		if kind != nil && act.Kind != *kind {
			continue
		}
		out = append(out, act)
	}
	return out, nil
}

func (f *fakeActStore) ListActItems(_ context.Context, actID uuid.UUID) ([]model.ActItem, error) {
	return f.items[actID], nil
}

func (f *fakeActStore) ListActsWithItems(_ context.Context, tenantID, estimateID uuid.UUID) ([]model.ActWithItems, error) {
	var out []model.ActWithItems
	for id, act := range f.acts {
		if act.TenantID != tenantID || act.EstimateID != estimateID {
			continue
		}
		out = append(out, model.ActWithItems{Act: act, Items: f.items[id]})
	}
	return out, nil
}

func (f *fakeActStore) DeleteAct(_ context.Context, tenantID, actID uuid.UUID) error {
	act, ok := f.acts[actID]
	if !ok || act.TenantID != tenantID {
		return gorm.ErrRecordNotFound
	}
	delete(f.acts, actID)
	delete(f.items, actID)
	return nil
}

func (f *fakeActStore) UpdateStatus(_ context.Context, tenantID, actID uuid.UUID, status model.ActStatus) error {
	act, ok := f.acts[actID]
	if !ok || act.TenantID != tenantID {
		return gorm.ErrRecordNotFound
	}
	act.Status = status
	f.acts[actID] = act
	return nil
}

func (f *fakeActStore) UpdateDetails(_ context.Context, tenantID, actID uuid.UUID, details repository.ActDetails) error {
	act, ok := f.acts[actID]
	if !ok || act.TenantID != tenantID {
		return gorm.ErrRecordNotFound
	}
	if details.ActDate != nil {
		act.ActDate = *details.ActDate
	}
	if details.Notes != nil {
		act.Notes = details.Notes
	}
	if details.CustomerName != nil {
		act.CustomerName = details.CustomerName
	}
	if details.ContractorName != nil {
		act.ContractorName = details.ContractorName
	}
	if details.ContractReference != nil {
		act.ContractReference = details.ContractReference
	}
	if details.ObjectName != nil {
		act.ObjectName = details.ObjectName
	}
	if details.ObjectAddress != nil {
		act.ObjectAddress = details.ObjectAddress
	}
	f.acts[actID] = act
	return nil
}

func (f *fakeActStore) AddSignatory(_ context.Context, s model.Signatory) (*model.Signatory, error) {
	s.ID = uuid.New()
	f.signatories[s.ActID] = append(f.signatories[s.ActID], s)
	return &s, nil
}

func (f *fakeActStore) ListSignatories(_ context.Context, actID uuid.UUID) ([]model.Signatory, error) {
	return f.signatories[actID], nil
}
