package query

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-leadgen/core"
)

type stubPageReader struct {
	pages  []core.Page
	getErr error
}

func (s stubPageReader) Get(_ context.Context, id string) (core.Page, error) {
	if s.getErr != nil {
		return core.Page{}, s.getErr
	}
	for _, page := range s.pages {
		if page.ID == id {
			return page, nil
		}
	}
	return core.Page{}, errors.New("stub: page not found")
}

func (s stubPageReader) List(context.Context) ([]core.Page, error) {
	return s.pages, nil
}

type stubFormReader struct {
	forms []core.Form
}

func (s stubFormReader) ListSyncEnabled(context.Context) ([]core.Form, error) {
	return s.forms, nil
}

type stubSyncRunReader struct {
	runs   []core.SyncRun
	formID string
	limit  int
}

func (s *stubSyncRunReader) ListByForm(_ context.Context, formID string, limit int) ([]core.SyncRun, error) {
	s.formID = formID
	s.limit = limit
	return s.runs, nil
}

func TestGetPageQuery_ReturnsPage(t *testing.T) {
	reader := stubPageReader{pages: []core.Page{{ID: "page_1", Name: "acme"}}}
	q := NewGetPageQuery(reader)

	page, err := q.Query(context.Background(), GetPageMessage{PageID: "page_1"})
	if err != nil {
		t.Fatalf("query page: %v", err)
	}
	if page.Name != "acme" {
		t.Fatalf("page: %+v", page)
	}
}

func TestListSyncEnabledFormsQuery_Delegates(t *testing.T) {
	reader := stubFormReader{forms: []core.Form{{ID: "form_1", SyncEnabled: true}}}
	q := NewListSyncEnabledFormsQuery(reader)

	forms, err := q.Query(context.Background(), ListSyncEnabledFormsMessage{})
	if err != nil {
		t.Fatalf("query forms: %v", err)
	}
	if len(forms) != 1 || forms[0].ID != "form_1" {
		t.Fatalf("forms: %+v", forms)
	}
}

func TestListSyncRunsQuery_PassesFilter(t *testing.T) {
	reader := &stubSyncRunReader{runs: []core.SyncRun{{ID: "run_1"}}}
	q := NewListSyncRunsQuery(reader)

	runs, err := q.Query(context.Background(), ListSyncRunsMessage{FormID: "form_1", Limit: 5})
	if err != nil {
		t.Fatalf("query runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs: %+v", runs)
	}
	if reader.formID != "form_1" || reader.limit != 5 {
		t.Fatalf("filter: %q %d", reader.formID, reader.limit)
	}
}

func TestQueries_RequireReaders(t *testing.T) {
	if _, err := (&GetPageQuery{}).Query(context.Background(), GetPageMessage{PageID: "p"}); err == nil {
		t.Fatalf("expected dependency error for get page")
	}
	if _, err := (&ListSyncRunsQuery{}).Query(context.Background(), ListSyncRunsMessage{FormID: "f"}); err == nil {
		t.Fatalf("expected dependency error for list sync runs")
	}
}

func TestMessageValidation(t *testing.T) {
	if err := (GetPageMessage{}).Validate(); err == nil {
		t.Fatalf("expected missing page id error")
	}
	if err := (ListSyncRunsMessage{FormID: "f", Limit: -1}).Validate(); err == nil {
		t.Fatalf("expected negative limit error")
	}
	if err := (ListSyncRunsMessage{FormID: "f"}).Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

type stubLeadReader struct {
	leads map[string]core.Lead
	err   error
}

func (s stubLeadReader) GetByExternalID(_ context.Context, externalLeadID string) (core.Lead, bool, error) {
	if s.err != nil {
		return core.Lead{}, false, s.err
	}
	lead, ok := s.leads[externalLeadID]
	return lead, ok, nil
}

func TestGetLeadQuery_ReturnsStoredLead(t *testing.T) {
	reader := stubLeadReader{leads: map[string]core.Lead{
		"lead_ext_1": {ID: "lead_1", ExternalLeadID: "lead_ext_1", Name: "Newsletter - lead_ext_1"},
	}}
	q := NewGetLeadQuery(reader)

	lead, err := q.Query(context.Background(), GetLeadMessage{ExternalLeadID: "lead_ext_1"})
	if err != nil {
		t.Fatalf("query lead: %v", err)
	}
	if lead.ID != "lead_1" {
		t.Fatalf("unexpected lead %#v", lead)
	}
}

func TestGetLeadQuery_MissIsNotFound(t *testing.T) {
	q := NewGetLeadQuery(stubLeadReader{})

	_, err := q.Query(context.Background(), GetLeadMessage{ExternalLeadID: "missing"})
	if err == nil {
		t.Fatal("expected not found error")
	}
}

func TestGetLeadQuery_PropagatesReaderError(t *testing.T) {
	readerErr := errors.New("stub: storage offline")
	q := NewGetLeadQuery(stubLeadReader{err: readerErr})

	_, err := q.Query(context.Background(), GetLeadMessage{ExternalLeadID: "lead_ext_1"})
	if !errors.Is(err, readerErr) {
		t.Fatalf("expected reader error, got %v", err)
	}
}

func TestGetLeadMessage_Validate(t *testing.T) {
	if err := (GetLeadMessage{}).Validate(); err == nil {
		t.Fatal("expected error for empty external lead id")
	}
	if err := (GetLeadMessage{ExternalLeadID: "lead_ext_1"}).Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
