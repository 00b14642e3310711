package leadgen

import (
	"context"
	"fmt"

	"github.com/goliatone/go-leadgen/core"
	leadgensync "github.com/goliatone/go-leadgen/sync"
)

// SyncRunReader exposes run history for operational queries. The SQL
// repository factory's run store satisfies it.
type SyncRunReader interface {
	ListByForm(ctx context.Context, formID string, limit int) ([]core.SyncRun, error)
}

// LeadReader exposes stored leads by their platform-side id. The SQL lead
// store satisfies it.
type LeadReader interface {
	GetByExternalID(ctx context.Context, externalLeadID string) (core.Lead, bool, error)
}

// Pipeline binds the ingestion service, the sweep orchestrator, and the
// stores behind the command/query surface. Commands address forms by their
// owning page plus the provider-side form id, so the pipeline resolves that
// pair to a stored form before delegating.
type Pipeline struct {
	service      *core.Service
	orchestrator *leadgensync.Orchestrator
	forms        core.FormStore
	pages        core.PageStore
	runReader    SyncRunReader
	leadReader   LeadReader
}

type PipelineOption func(*Pipeline)

// WithSyncRunReader overrides the run history reader, which otherwise stays
// unset unless the run store also implements ListByForm.
func WithSyncRunReader(reader SyncRunReader) PipelineOption {
	return func(p *Pipeline) {
		p.runReader = reader
	}
}

// WithLeadReader overrides the lead reader, which otherwise comes from the
// service's lead store when that store also implements GetByExternalID.
func WithLeadReader(reader LeadReader) PipelineOption {
	return func(p *Pipeline) {
		p.leadReader = reader
	}
}

func NewPipeline(service *core.Service, runs leadgensync.SyncRunStore, opts ...PipelineOption) (*Pipeline, error) {
	if service == nil {
		return nil, fmt.Errorf("leadgen: service is required")
	}
	if runs == nil {
		return nil, fmt.Errorf("leadgen: sync run store is required")
	}

	deps := service.Dependencies()
	if deps.FormStore == nil {
		return nil, fmt.Errorf("leadgen: form store is required")
	}
	if deps.PageStore == nil {
		return nil, fmt.Errorf("leadgen: page store is required")
	}

	orchestrator := leadgensync.NewOrchestrator(runs, deps.FormStore, service)
	orchestrator.Logger = deps.Logger

	pipeline := &Pipeline{
		service:      service,
		orchestrator: orchestrator,
		forms:        deps.FormStore,
		pages:        deps.PageStore,
	}
	if reader, ok := runs.(SyncRunReader); ok {
		pipeline.runReader = reader
	}
	if reader, ok := deps.LeadStore.(LeadReader); ok {
		pipeline.leadReader = reader
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(pipeline)
	}
	return pipeline, nil
}

func (p *Pipeline) Service() *core.Service {
	if p == nil {
		return nil
	}
	return p.service
}

// SyncAll sweeps every sync-enabled form and records one run per form.
func (p *Pipeline) SyncAll(ctx context.Context) (leadgensync.RunSummary, error) {
	return p.orchestrator.RunAll(ctx)
}

// SyncForm ingests a single form addressed by page id and external form id.
func (p *Pipeline) SyncForm(ctx context.Context, pageID, externalFormID string) (core.SyncRun, error) {
	form, err := p.resolveForm(ctx, pageID, externalFormID)
	if err != nil {
		return core.SyncRun{}, err
	}
	return p.orchestrator.RunForm(ctx, form)
}

// RefreshFormMappings re-reads the provider's field schema for a form and
// replaces its stored mappings wholesale.
func (p *Pipeline) RefreshFormMappings(ctx context.Context, pageID, externalFormID string) error {
	form, err := p.resolveForm(ctx, pageID, externalFormID)
	if err != nil {
		return err
	}
	return p.service.RefreshFormMappings(ctx, form)
}

// RegisterPage persists a page so its forms can be discovered and synced.
func (p *Pipeline) RegisterPage(ctx context.Context, page core.Page) (core.Page, error) {
	return p.pages.Create(ctx, page)
}

// DiscoverForms walks the provider's form directory for a registered page.
func (p *Pipeline) DiscoverForms(ctx context.Context, pageID string) (core.WalkStats, error) {
	page, err := p.pages.Get(ctx, pageID)
	if err != nil {
		return core.WalkStats{}, err
	}
	return p.service.DiscoverForms(ctx, page)
}

func (p *Pipeline) Get(ctx context.Context, id string) (core.Page, error) {
	return p.pages.Get(ctx, id)
}

func (p *Pipeline) List(ctx context.Context) ([]core.Page, error) {
	return p.pages.List(ctx)
}

func (p *Pipeline) ListSyncEnabled(ctx context.Context) ([]core.Form, error) {
	return p.forms.ListSyncEnabled(ctx)
}

func (p *Pipeline) GetByExternalID(ctx context.Context, externalLeadID string) (core.Lead, bool, error) {
	if p == nil || p.leadReader == nil {
		return core.Lead{}, false, fmt.Errorf("leadgen: lead reader is not configured")
	}
	return p.leadReader.GetByExternalID(ctx, externalLeadID)
}

func (p *Pipeline) ListByForm(ctx context.Context, formID string, limit int) ([]core.SyncRun, error) {
	if p == nil || p.runReader == nil {
		return nil, fmt.Errorf("leadgen: sync run reader is not configured")
	}
	return p.runReader.ListByForm(ctx, formID, limit)
}

func (p *Pipeline) resolveForm(ctx context.Context, pageID, externalFormID string) (core.Form, error) {
	form, found, err := p.forms.GetByExternalID(ctx, pageID, externalFormID)
	if err != nil {
		return core.Form{}, err
	}
	if !found {
		return core.Form{}, fmt.Errorf("leadgen: form %s not found for page %s", externalFormID, pageID)
	}
	return form, nil
}
