package leadgen

import (
	"context"
	"testing"

	leadgencommand "github.com/goliatone/go-leadgen/command"
	"github.com/goliatone/go-leadgen/core"
	leadgenquery "github.com/goliatone/go-leadgen/query"
	leadgensync "github.com/goliatone/go-leadgen/sync"
)

func TestNewFacade_WiresCommandsAndQueries(t *testing.T) {
	svc := &stubFacadeService{}
	runReader := &stubFacadeRunReader{}

	facade, err := NewFacade(svc, WithRunReader(runReader))
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	commands := facade.Commands()
	if commands.RunSync == nil || commands.RunFormSync == nil || commands.RegisterPage == nil {
		t.Fatalf("expected command handlers to be wired")
	}
	queries := facade.Queries()
	if queries.GetPage == nil || queries.ListSyncRuns == nil {
		t.Fatalf("expected query handlers to be wired")
	}
}

func TestFacade_CommandAndQueryDelegation(t *testing.T) {
	svc := &stubFacadeService{}
	runReader := &stubFacadeRunReader{}

	facade, err := NewFacade(svc, WithRunReader(runReader))
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	if err := facade.Commands().RunFormSync.Execute(context.Background(), leadgencommand.RunFormSyncMessage{
		PageID:         "page_1",
		ExternalFormID: "form_ext_1",
	}); err != nil {
		t.Fatalf("execute run form sync command: %v", err)
	}
	if svc.lastSyncPageID != "page_1" || svc.lastSyncExternalFormID != "form_ext_1" {
		t.Fatalf("unexpected form sync delegation payload")
	}

	page, err := facade.Queries().GetPage.Query(context.Background(), leadgenquery.GetPageMessage{
		PageID: "page_1",
	})
	if err != nil {
		t.Fatalf("query get page: %v", err)
	}
	if page.ID != "page_1" || page.Name != "Acme" {
		t.Fatalf("unexpected page query result: %#v", page)
	}

	runs, err := facade.Queries().ListSyncRuns.Query(context.Background(), leadgenquery.ListSyncRunsMessage{
		FormID: "form_1",
	})
	if err != nil {
		t.Fatalf("query list sync runs: %v", err)
	}
	if len(runs) != 1 || runs[0].FormID != "form_1" {
		t.Fatalf("unexpected sync run query result: %#v", runs)
	}
}

func TestNewFacade_RequiresService(t *testing.T) {
	facade, err := NewFacade(nil)
	if err == nil {
		t.Fatalf("expected nil service error")
	}
	if facade != nil {
		t.Fatalf("expected nil facade on error")
	}
}

func TestNewFacade_ResolvesRunReaderFromService(t *testing.T) {
	svc := &stubFacadeService{}

	facade, err := NewFacade(svc)
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	runs, err := facade.Queries().ListSyncRuns.Query(context.Background(), leadgenquery.ListSyncRunsMessage{
		FormID: "form_1",
	})
	if err != nil {
		t.Fatalf("query list sync runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "run_from_service" {
		t.Fatalf("expected run reader resolved from the service, got %#v", runs)
	}
}

type stubFacadeService struct {
	lastSyncPageID         string
	lastSyncExternalFormID string
}

func (s *stubFacadeService) SyncAll(context.Context) (leadgensync.RunSummary, error) {
	return leadgensync.RunSummary{Total: 1, Succeeded: 1}, nil
}

func (s *stubFacadeService) SyncForm(_ context.Context, pageID, externalFormID string) (core.SyncRun, error) {
	s.lastSyncPageID = pageID
	s.lastSyncExternalFormID = externalFormID
	return core.SyncRun{ID: "run_1", FormID: "form_1", Status: core.SyncRunStatusSucceeded}, nil
}

func (s *stubFacadeService) RefreshFormMappings(context.Context, string, string) error {
	return nil
}

func (s *stubFacadeService) RegisterPage(_ context.Context, page core.Page) (core.Page, error) {
	page.ID = "page_1"
	return page, nil
}

func (s *stubFacadeService) DiscoverForms(context.Context, string) (core.WalkStats, error) {
	return core.WalkStats{Pages: 1, Processed: 2}, nil
}

func (s *stubFacadeService) Get(_ context.Context, id string) (core.Page, error) {
	return core.Page{ID: id, Name: "Acme"}, nil
}

func (s *stubFacadeService) List(context.Context) ([]core.Page, error) {
	return []core.Page{{ID: "page_1", Name: "Acme"}}, nil
}

func (s *stubFacadeService) ListSyncEnabled(context.Context) ([]core.Form, error) {
	return []core.Form{{ID: "form_1", PageID: "page_1", ExternalFormID: "form_ext_1", SyncEnabled: true}}, nil
}

func (s *stubFacadeService) ListByForm(_ context.Context, formID string, _ int) ([]core.SyncRun, error) {
	return []core.SyncRun{{ID: "run_from_service", FormID: formID, Status: core.SyncRunStatusSucceeded}}, nil
}

type stubFacadeRunReader struct{}

func (s *stubFacadeRunReader) ListByForm(_ context.Context, formID string, _ int) ([]core.SyncRun, error) {
	return []core.SyncRun{{ID: "run_1", FormID: formID, Status: core.SyncRunStatusSucceeded}}, nil
}

var _ CommandQueryService = (*stubFacadeService)(nil)
