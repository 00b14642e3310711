package leadgen

import (
	"fmt"
	"reflect"

	leadgencommand "github.com/goliatone/go-leadgen/command"
	"github.com/goliatone/go-leadgen/core"
	leadgenquery "github.com/goliatone/go-leadgen/query"
)

type CommandQueryService interface {
	leadgencommand.MutatingService
	leadgenquery.PageReader
	leadgenquery.FormReader
}

type Commands struct {
	RunSync             *leadgencommand.RunSyncCommand
	RunFormSync         *leadgencommand.RunFormSyncCommand
	RefreshFormMappings *leadgencommand.RefreshFormMappingsCommand
	RegisterPage        *leadgencommand.RegisterPageCommand
	DiscoverForms       *leadgencommand.DiscoverFormsCommand
}

type Queries struct {
	GetLead              *leadgenquery.GetLeadQuery
	GetPage              *leadgenquery.GetPageQuery
	ListPages            *leadgenquery.ListPagesQuery
	ListSyncEnabledForms *leadgenquery.ListSyncEnabledFormsQuery
	ListSyncRuns         *leadgenquery.ListSyncRunsQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	runReader  leadgenquery.SyncRunReader
	leadReader leadgenquery.LeadReader
}

func WithRunReader(reader leadgenquery.SyncRunReader) FacadeOption {
	return func(options *facadeOptions) {
		options.runReader = reader
	}
}

func WithFacadeLeadReader(reader leadgenquery.LeadReader) FacadeOption {
	return func(options *facadeOptions) {
		options.leadReader = reader
	}
}

func NewFacade(service CommandQueryService, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("leadgen: command/query service is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	reader := cfg.runReader
	if reader == nil {
		reader = resolveRunReader(service)
	}
	leadReader := cfg.leadReader
	if leadReader == nil {
		leadReader = resolveLeadReader(service)
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		RunSync:             leadgencommand.NewRunSyncCommand(service),
		RunFormSync:         leadgencommand.NewRunFormSyncCommand(service),
		RefreshFormMappings: leadgencommand.NewRefreshFormMappingsCommand(service),
		RegisterPage:        leadgencommand.NewRegisterPageCommand(service),
		DiscoverForms:       leadgencommand.NewDiscoverFormsCommand(service),
	}
	facade.queries = Queries{
		GetLead:              leadgenquery.NewGetLeadQuery(leadReader),
		GetPage:              leadgenquery.NewGetPageQuery(service),
		ListPages:            leadgenquery.NewListPagesQuery(service),
		ListSyncEnabledForms: leadgenquery.NewListSyncEnabledFormsQuery(service),
		ListSyncRuns:         leadgenquery.NewListSyncRunsQuery(reader),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

var (
	_ CommandQueryService        = (*Pipeline)(nil)
	_ leadgenquery.SyncRunReader = (*Pipeline)(nil)
	_ leadgenquery.LeadReader    = (*Pipeline)(nil)
)

func resolveRunReader(service CommandQueryService) leadgenquery.SyncRunReader {
	if service == nil {
		return nil
	}
	if reader, ok := service.(leadgenquery.SyncRunReader); ok {
		return reader
	}
	provider, ok := service.(interface {
		Dependencies() core.ServiceDependencies
	})
	if !ok {
		return nil
	}
	deps := provider.Dependencies()
	if deps.TxRunner == nil {
		return nil
	}

	runnerValue := reflect.ValueOf(deps.TxRunner)
	if !runnerValue.IsValid() {
		return nil
	}
	if runnerValue.Kind() == reflect.Ptr && runnerValue.IsNil() {
		return nil
	}
	method := runnerValue.MethodByName("SyncRunStore")
	if !method.IsValid() || method.Type().NumIn() != 0 || method.Type().NumOut() != 1 {
		return nil
	}
	results := method.Call(nil)
	if len(results) != 1 {
		return nil
	}
	reader, ok := results[0].Interface().(leadgenquery.SyncRunReader)
	if !ok {
		return nil
	}
	return reader
}

func resolveLeadReader(service CommandQueryService) leadgenquery.LeadReader {
	if service == nil {
		return nil
	}
	if reader, ok := service.(leadgenquery.LeadReader); ok {
		return reader
	}
	provider, ok := service.(interface {
		Dependencies() core.ServiceDependencies
	})
	if !ok {
		return nil
	}
	deps := provider.Dependencies()
	if reader, ok := deps.LeadStore.(leadgenquery.LeadReader); ok {
		return reader
	}
	return nil
}
