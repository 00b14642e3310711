package leadgen

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/goliatone/go-leadgen/core"
)

func TestPipeline_SyncFormResolvesAndRecordsRun(t *testing.T) {
	ctx := context.Background()
	world := newPipelineWorld(t)

	world.forms.seed(core.Form{
		ID:             "form_1",
		PageID:         "page_1",
		Name:           "Newsletter",
		ExternalFormID: "form_ext_1",
		SyncEnabled:    true,
		AccessToken:    "token",
	})
	world.fetcher.pages = []core.PageResult[core.LeadPayload]{{
		Items: []core.LeadPayload{
			{
				ExternalID:  "lead_ext_1",
				CreatedTime: "2018-10-05T14:00:00+0000",
				Fields: []core.FieldValue{
					{Name: "email", Value: "ada@example.com"},
					{Name: "full_name", Value: "Ada Lovelace"},
				},
			},
		},
	}}

	run, err := world.pipeline.SyncForm(ctx, "page_1", "form_ext_1")
	if err != nil {
		t.Fatalf("sync form: %v", err)
	}
	if run.Status != core.SyncRunStatusSucceeded {
		t.Fatalf("expected succeeded run, got %q (%s)", run.Status, run.Error)
	}
	if run.Processed != 1 {
		t.Fatalf("expected one processed lead, got %d", run.Processed)
	}
	if len(world.leads.created) != 1 {
		t.Fatalf("expected one stored lead, got %d", len(world.leads.created))
	}
	if got := world.leads.created[0].ExternalLeadID; got != "lead_ext_1" {
		t.Fatalf("unexpected external lead id %q", got)
	}
	if len(world.runs.updated) != 1 {
		t.Fatalf("expected terminal run update, got %d", len(world.runs.updated))
	}
}

func TestPipeline_SyncFormRejectsUnknownForm(t *testing.T) {
	world := newPipelineWorld(t)

	_, err := world.pipeline.SyncForm(context.Background(), "page_1", "missing")
	if err == nil {
		t.Fatalf("expected unknown form error")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestPipeline_RegisterPageAndDiscoverForms(t *testing.T) {
	ctx := context.Background()
	world := newPipelineWorld(t)

	page, err := world.pipeline.RegisterPage(ctx, core.Page{Name: "Acme", AccessToken: "token"})
	if err != nil {
		t.Fatalf("register page: %v", err)
	}
	if page.ID == "" {
		t.Fatalf("expected assigned page id")
	}

	world.directory.pages = []core.PageResult[core.FormDescriptor]{{
		Items: []core.FormDescriptor{
			{ExternalFormID: "form_ext_1", Name: "Newsletter"},
			{ExternalFormID: "form_ext_2", Name: "Webinar"},
		},
	}}
	world.schema.fields = []core.FormFieldDescriptor{
		{Key: "email", Label: "Email"},
	}

	stats, err := world.pipeline.DiscoverForms(ctx, page.ID)
	if err != nil {
		t.Fatalf("discover forms: %v", err)
	}
	if stats.Processed != 2 {
		t.Fatalf("expected two discovered forms, got %d", stats.Processed)
	}

	forms, err := world.pipeline.ListSyncEnabled(ctx)
	if err != nil {
		t.Fatalf("list sync enabled forms: %v", err)
	}
	if len(forms) != 0 {
		t.Fatalf("expected discovered forms to start sync-disabled, got %d enabled", len(forms))
	}
}

func TestPipeline_ListByFormUsesRunStore(t *testing.T) {
	ctx := context.Background()
	world := newPipelineWorld(t)

	world.forms.seed(core.Form{
		ID:             "form_1",
		PageID:         "page_1",
		ExternalFormID: "form_ext_1",
		AccessToken:    "token",
	})
	world.fetcher.pages = []core.PageResult[core.LeadPayload]{{}}

	if _, err := world.pipeline.SyncForm(ctx, "page_1", "form_ext_1"); err != nil {
		t.Fatalf("sync form: %v", err)
	}

	runs, err := world.pipeline.ListByForm(ctx, "form_1", 10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one recorded run, got %d", len(runs))
	}
}

type pipelineWorld struct {
	pipeline  *Pipeline
	fetcher   *scriptedLeadFetcher
	directory *scriptedFormDirectory
	schema    *scriptedSchemaFetcher
	leads     *memLeadStore
	forms     *memFormStore
	pages     *memPageStore
	runs      *memRunStore
}

func newPipelineWorld(t *testing.T) *pipelineWorld {
	t.Helper()

	world := &pipelineWorld{
		fetcher:   &scriptedLeadFetcher{},
		directory: &scriptedFormDirectory{},
		schema:    &scriptedSchemaFetcher{},
		leads:     &memLeadStore{},
		forms:     &memFormStore{},
		pages:     &memPageStore{},
		runs:      &memRunStore{},
	}

	service, err := NewService(DefaultConfig(),
		WithLeadFetcher(world.fetcher),
		WithFormDirectory(world.directory),
		WithFormSchemaFetcher(world.schema),
		WithLeadStore(world.leads),
		WithAttributionStore(&memAttributionStore{}),
		WithFormStore(world.forms),
		WithPageStore(world.pages),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	pipeline, err := NewPipeline(service, world.runs)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	world.pipeline = pipeline
	return world
}

type scriptedLeadFetcher struct {
	pages []core.PageResult[core.LeadPayload]
}

func (f *scriptedLeadFetcher) FetchLeads(context.Context, core.Form) (core.PageResult[core.LeadPayload], error) {
	if len(f.pages) == 0 {
		return core.PageResult[core.LeadPayload]{}, nil
	}
	return f.pages[0], nil
}

func (f *scriptedLeadFetcher) FetchLeadsPage(_ context.Context, pageURL string) (core.PageResult[core.LeadPayload], error) {
	return core.PageResult[core.LeadPayload]{}, fmt.Errorf("fetch %s: no scripted page", pageURL)
}

type scriptedFormDirectory struct {
	pages []core.PageResult[core.FormDescriptor]
}

func (d *scriptedFormDirectory) FetchForms(context.Context, core.Page) (core.PageResult[core.FormDescriptor], error) {
	if len(d.pages) == 0 {
		return core.PageResult[core.FormDescriptor]{}, nil
	}
	return d.pages[0], nil
}

func (d *scriptedFormDirectory) FetchFormsPage(_ context.Context, pageURL string) (core.PageResult[core.FormDescriptor], error) {
	return core.PageResult[core.FormDescriptor]{}, fmt.Errorf("fetch %s: no scripted page", pageURL)
}

type scriptedSchemaFetcher struct {
	fields []core.FormFieldDescriptor
}

func (s *scriptedSchemaFetcher) FetchFormFields(context.Context, core.Form) ([]core.FormFieldDescriptor, error) {
	return s.fields, nil
}

type memLeadStore struct {
	created []core.NewLead
}

func (s *memLeadStore) ExistsByExternalID(_ context.Context, externalLeadID string) (bool, error) {
	for _, lead := range s.created {
		if lead.ExternalLeadID == externalLeadID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memLeadStore) Create(_ context.Context, lead core.NewLead) (core.Lead, error) {
	s.created = append(s.created, lead)
	return core.Lead{ID: fmt.Sprintf("lead_%d", len(s.created)), ExternalLeadID: lead.ExternalLeadID}, nil
}

type memAttributionStore struct {
	refs map[string]core.AttributionRef
}

func (s *memAttributionStore) FindByExternalID(_ context.Context, kind core.AttributionKind, externalID string) (core.AttributionRef, bool, error) {
	ref, ok := s.refs[string(kind)+":"+externalID]
	return ref, ok, nil
}

func (s *memAttributionStore) Create(_ context.Context, kind core.AttributionKind, externalID, name string) (core.AttributionRef, error) {
	if s.refs == nil {
		s.refs = map[string]core.AttributionRef{}
	}
	ref := core.AttributionRef{ID: "attr_" + externalID, ExternalID: externalID, Name: name}
	s.refs[string(kind)+":"+externalID] = ref
	return ref, nil
}

type memFormStore struct {
	forms []core.Form
}

func (s *memFormStore) seed(form core.Form) {
	s.forms = append(s.forms, form)
}

func (s *memFormStore) Create(_ context.Context, form core.Form) (core.Form, error) {
	form.ID = fmt.Sprintf("form_%d", len(s.forms)+1)
	s.forms = append(s.forms, form)
	return form, nil
}

func (s *memFormStore) GetByExternalID(_ context.Context, pageID, externalFormID string) (core.Form, bool, error) {
	for _, form := range s.forms {
		if form.PageID == pageID && form.ExternalFormID == externalFormID {
			return form, true, nil
		}
	}
	return core.Form{}, false, nil
}

func (s *memFormStore) ListSyncEnabled(context.Context) ([]core.Form, error) {
	var out []core.Form
	for _, form := range s.forms {
		if form.SyncEnabled {
			out = append(out, form)
		}
	}
	return out, nil
}

func (s *memFormStore) ReplaceMappings(_ context.Context, formID string, mappings []core.FieldMapping) error {
	for i := range s.forms {
		if s.forms[i].ID == formID {
			s.forms[i].Mappings = mappings
			return nil
		}
	}
	return fmt.Errorf("form %s not found", formID)
}

type memPageStore struct {
	pages []core.Page
}

func (s *memPageStore) Create(_ context.Context, page core.Page) (core.Page, error) {
	if err := page.Validate(); err != nil {
		return core.Page{}, err
	}
	page.ID = fmt.Sprintf("page_%d", len(s.pages)+1)
	s.pages = append(s.pages, page)
	return page, nil
}

func (s *memPageStore) Get(_ context.Context, id string) (core.Page, error) {
	for _, page := range s.pages {
		if page.ID == id {
			return page, nil
		}
	}
	return core.Page{}, fmt.Errorf("page %s not found", id)
}

func (s *memPageStore) List(context.Context) ([]core.Page, error) {
	return append([]core.Page(nil), s.pages...), nil
}

type memRunStore struct {
	created []core.SyncRun
	updated []core.SyncRun
}

func (s *memRunStore) Create(_ context.Context, run core.SyncRun) (core.SyncRun, error) {
	s.created = append(s.created, run)
	return run, nil
}

func (s *memRunStore) Update(_ context.Context, run core.SyncRun) (core.SyncRun, error) {
	s.updated = append(s.updated, run)
	return run, nil
}

func (s *memRunStore) ListByForm(_ context.Context, formID string, limit int) ([]core.SyncRun, error) {
	var out []core.SyncRun
	for _, run := range s.updated {
		if run.FormID == formID {
			out = append(out, run)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
