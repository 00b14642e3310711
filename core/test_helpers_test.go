package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

type memLeadStore struct {
	mu    sync.Mutex
	leads map[string]NewLead
	seq   int
}

func newMemLeadStore() *memLeadStore {
	return &memLeadStore{leads: map[string]NewLead{}}
}

func (s *memLeadStore) ExistsByExternalID(_ context.Context, externalLeadID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.leads[externalLeadID]
	return ok, nil
}

func (s *memLeadStore) Create(_ context.Context, lead NewLead) (Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.leads[lead.ExternalLeadID]; ok {
		return Lead{}, fmt.Errorf("memstore: unique constraint failed: leads.external_lead_id")
	}
	s.seq++
	s.leads[lead.ExternalLeadID] = lead
	return Lead{
		ID:             fmt.Sprintf("lead_%d", s.seq),
		ExternalLeadID: lead.ExternalLeadID,
		Name:           lead.Name,
	}, nil
}

func (s *memLeadStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.leads)
}

type memAttributionStore struct {
	mu      sync.Mutex
	refs    map[string]AttributionRef
	seq     int
	creates int
}

func newMemAttributionStore() *memAttributionStore {
	return &memAttributionStore{refs: map[string]AttributionRef{}}
}

func attributionKey(kind AttributionKind, externalID string) string {
	return string(kind) + "|" + externalID
}

func (s *memAttributionStore) FindByExternalID(_ context.Context, kind AttributionKind, externalID string) (AttributionRef, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, ok := s.refs[attributionKey(kind, externalID)]
	return ref, ok, nil
}

func (s *memAttributionStore) Create(_ context.Context, kind AttributionKind, externalID string, name string) (AttributionRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := attributionKey(kind, externalID)
	if _, ok := s.refs[key]; ok {
		return AttributionRef{}, fmt.Errorf("memstore: unique constraint failed: %s.external_id", kind)
	}
	s.seq++
	s.creates++
	ref := AttributionRef{
		ID:         fmt.Sprintf("%s_%d", kind, s.seq),
		ExternalID: externalID,
		Name:       name,
	}
	s.refs[key] = ref
	return ref, nil
}

type stubReferenceLookup struct {
	records map[string]map[string]string
}

func (l stubReferenceLookup) FindByDisplayName(_ context.Context, collection string, displayName string) (string, bool, error) {
	byName, ok := l.records[collection]
	if !ok {
		return "", false, nil
	}
	id, ok := byName[displayName]
	return id, ok, nil
}

type failingReferenceLookup struct{}

func (failingReferenceLookup) FindByDisplayName(context.Context, string, string) (string, bool, error) {
	return "", false, fmt.Errorf("stub: lookup unavailable")
}

// recordingTxRunner tracks commit/rollback decisions so tests can assert the
// per-page transactional boundary.
type recordingTxRunner struct {
	mu        sync.Mutex
	committed int
	rolledacc int
}

func (r *recordingTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.rolledacc++
		return err
	}
	r.committed++
	return nil
}

type stubFormStore struct {
	mu       sync.Mutex
	forms    []Form
	mappings map[string][]FieldMapping
	seq      int
}

func newStubFormStore(forms ...Form) *stubFormStore {
	return &stubFormStore{forms: forms, mappings: map[string][]FieldMapping{}}
}

func (s *stubFormStore) Create(_ context.Context, form Form) (Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	form.ID = fmt.Sprintf("form_%d", s.seq)
	s.forms = append(s.forms, form)
	return form, nil
}

func (s *stubFormStore) GetByExternalID(_ context.Context, pageID string, externalFormID string) (Form, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, form := range s.forms {
		if form.PageID == pageID && form.ExternalFormID == externalFormID {
			return form, true, nil
		}
	}
	return Form{}, false, nil
}

func (s *stubFormStore) ListSyncEnabled(context.Context) ([]Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var enabled []Form
	for _, form := range s.forms {
		if form.SyncEnabled {
			enabled = append(enabled, form)
		}
	}
	return enabled, nil
}

func (s *stubFormStore) ReplaceMappings(_ context.Context, formID string, mappings []FieldMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[formID] = append([]FieldMapping(nil), mappings...)
	return nil
}

type stubLeadFetcher struct {
	first PageResult[LeadPayload]
	pages map[string]PageResult[LeadPayload]
	err   error
}

func (f stubLeadFetcher) FetchLeads(context.Context, Form) (PageResult[LeadPayload], error) {
	if f.err != nil {
		return PageResult[LeadPayload]{}, f.err
	}
	return f.first, nil
}

func (f stubLeadFetcher) FetchLeadsPage(_ context.Context, pageURL string) (PageResult[LeadPayload], error) {
	page, ok := f.pages[pageURL]
	if !ok {
		return PageResult[LeadPayload]{}, fmt.Errorf("stub: no page behind cursor %q", pageURL)
	}
	return page, nil
}

type stubFormDirectory struct {
	first PageResult[FormDescriptor]
	pages map[string]PageResult[FormDescriptor]
	err   error
}

func (f stubFormDirectory) FetchForms(context.Context, Page) (PageResult[FormDescriptor], error) {
	if f.err != nil {
		return PageResult[FormDescriptor]{}, f.err
	}
	return f.first, nil
}

func (f stubFormDirectory) FetchFormsPage(_ context.Context, pageURL string) (PageResult[FormDescriptor], error) {
	page, ok := f.pages[pageURL]
	if !ok {
		return PageResult[FormDescriptor]{}, fmt.Errorf("stub: no page behind cursor %q", pageURL)
	}
	return page, nil
}

type stubSchemaFetcher struct {
	descriptors []FormFieldDescriptor
	err         error
}

func (f stubSchemaFetcher) FetchFormFields(context.Context, Form) ([]FormFieldDescriptor, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.descriptors, nil
}

func textMapping(formID string, external string, target string, label string) FieldMapping {
	return FieldMapping{
		FormID:        formID,
		ExternalField: external,
		TargetField:   target,
		TargetLabel:   label,
		TargetType:    FieldTypeChar,
	}
}

func payloadFields(pairs ...string) []FieldValue {
	if len(pairs)%2 != 0 {
		panic("payloadFields requires name/value pairs")
	}
	fields := make([]FieldValue, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		fields = append(fields, FieldValue{Name: pairs[i], Value: pairs[i+1]})
	}
	return fields
}

func containsNote(notes []string, fragment string) bool {
	for _, note := range notes {
		if strings.Contains(note, fragment) {
			return true
		}
	}
	return false
}
