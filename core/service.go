package core

import (
	"context"
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

// Service is the lead ingestion pipeline: it walks paginated lead payloads
// for a form, deduplicates against previously imported leads, assembles
// opportunity value sets, and keeps form definitions in step with the
// platform's form directory and field schemas.
type Service struct {
	config           Config
	logger           Logger
	loggerProvider   LoggerProvider
	errorFactory     ErrorFactory
	errorMapper      ErrorMapper
	leadFetcher      LeadFetcher
	formDirectory    FormDirectory
	schemaFetcher    FormSchemaFetcher
	leadStore        LeadStore
	attributionStore AttributionStore
	formStore        FormStore
	pageStore        PageStore
	referenceLookup  ReferenceLookup
	txRunner         TransactionRunner
	assembler        *LeadAssembler
}

type ServiceDependencies struct {
	Logger           Logger
	LoggerProvider   LoggerProvider
	ErrorFactory     ErrorFactory
	ErrorMapper      ErrorMapper
	LeadFetcher      LeadFetcher
	FormDirectory    FormDirectory
	SchemaFetcher    FormSchemaFetcher
	LeadStore        LeadStore
	AttributionStore AttributionStore
	FormStore        FormStore
	PageStore        PageStore
	ReferenceLookup  ReferenceLookup
	TxRunner         TransactionRunner
}

func NewService(cfg Config, options ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("leadgen", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("leadgen"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if builder.repositoryFactory != nil {
		if storeFactory, ok := builder.repositoryFactory.(RepositoryStoreFactory); ok {
			storeProvider, buildErr := storeFactory.BuildStores(builder.persistenceClient)
			if buildErr != nil {
				return nil, mapBuildError(builder.errorMapper, buildErr)
			}
			applyStoreProvider(&builder, storeProvider)
		} else if storeProvider, ok := builder.repositoryFactory.(StoreProvider); ok {
			applyStoreProvider(&builder, storeProvider)
		}
	}

	if builder.leadStore == nil {
		return nil, mapBuildError(builder.errorMapper, fmt.Errorf("core: lead store is required"))
	}
	if builder.attributionStore == nil {
		return nil, mapBuildError(builder.errorMapper, fmt.Errorf("core: attribution store is required"))
	}
	if builder.formStore == nil {
		return nil, mapBuildError(builder.errorMapper, fmt.Errorf("core: form store is required"))
	}

	attribution, err := NewAttributionResolver(builder.attributionStore)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	assembler, err := NewLeadAssembler(attribution, builder.referenceLookup)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	return &Service{
		config:           finalConfig,
		logger:           logger,
		loggerProvider:   provider,
		errorFactory:     builder.errorFactory,
		errorMapper:      builder.errorMapper,
		leadFetcher:      builder.leadFetcher,
		formDirectory:    builder.formDirectory,
		schemaFetcher:    builder.schemaFetcher,
		leadStore:        builder.leadStore,
		attributionStore: builder.attributionStore,
		formStore:        builder.formStore,
		pageStore:        builder.pageStore,
		referenceLookup:  builder.referenceLookup,
		txRunner:         builder.txRunner,
		assembler:        assembler,
	}, nil
}

func Setup(cfg Config, options ...Option) (*Service, error) {
	return NewService(cfg, options...)
}

func applyStoreProvider(builder *serviceBuilder, provider StoreProvider) {
	if builder == nil || provider == nil {
		return
	}
	if builder.leadStore == nil {
		builder.leadStore = provider.LeadStore()
	}
	if builder.attributionStore == nil {
		builder.attributionStore = provider.AttributionStore()
	}
	if builder.formStore == nil {
		builder.formStore = provider.FormStore()
	}
	if builder.pageStore == nil {
		builder.pageStore = provider.PageStore()
	}
	if builder.referenceLookup == nil {
		builder.referenceLookup = provider.ReferenceLookup()
	}
	if builder.txRunner == nil {
		builder.txRunner = provider.TransactionRunner()
	}
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:           s.logger,
		LoggerProvider:   s.loggerProvider,
		ErrorFactory:     s.errorFactory,
		ErrorMapper:      s.errorMapper,
		LeadFetcher:      s.leadFetcher,
		FormDirectory:    s.formDirectory,
		SchemaFetcher:    s.schemaFetcher,
		LeadStore:        s.leadStore,
		AttributionStore: s.attributionStore,
		FormStore:        s.formStore,
		PageStore:        s.pageStore,
		ReferenceLookup:  s.referenceLookup,
		TxRunner:         s.txRunner,
	}
}

// IngestForm fetches the form's leads and walks every page, creating one
// opportunity per lead not yet imported. Each page is one transaction; a
// failure inside a page rolls the whole page back and aborts the walk.
func (s *Service) IngestForm(ctx context.Context, form Form) (WalkStats, error) {
	if s == nil {
		return WalkStats{}, fmt.Errorf("core: service is required")
	}
	if s.leadFetcher == nil {
		return WalkStats{}, s.mapError(fmt.Errorf("core: lead fetcher is required"))
	}

	s.logInfo(ctx, "starting lead fetch", map[string]any{
		"form_id":   form.ID,
		"form_name": form.Name,
	})

	first, err := s.leadFetcher.FetchLeads(ctx, form)
	if err != nil {
		return WalkStats{}, s.mapError(err)
	}

	walker := NewPageWalker(s.txRunner, WithMaxPages[LeadPayload](s.config.Sync.MaxPages))
	stats, err := walker.Walk(ctx, first, s.leadFetcher.FetchLeadsPage, func(ctx context.Context, payload LeadPayload) (ItemOutcome, error) {
		exists, existsErr := s.leadStore.ExistsByExternalID(ctx, payload.ExternalID)
		if existsErr != nil {
			return ItemProcessed, existsErr
		}
		if exists {
			return ItemSkipped, nil
		}
		lead, assembleErr := s.assembler.Assemble(ctx, payload, form)
		if assembleErr != nil {
			return ItemProcessed, assembleErr
		}
		if _, createErr := s.leadStore.Create(ctx, lead); createErr != nil {
			return ItemProcessed, createErr
		}
		return ItemProcessed, nil
	})
	if err != nil {
		return stats, s.mapError(err)
	}

	s.logInfo(ctx, "lead fetch finished", map[string]any{
		"form_id":   form.ID,
		"pages":     stats.Pages,
		"processed": stats.Processed,
		"skipped":   stats.Skipped,
	})
	return stats, nil
}

// Assemble exposes the lead assembler for callers that bring their own
// pagination, such as replaying a captured payload.
func (s *Service) Assemble(ctx context.Context, payload LeadPayload, form Form) (NewLead, error) {
	if s == nil || s.assembler == nil {
		return NewLead{}, fmt.Errorf("core: service is required")
	}
	lead, err := s.assembler.Assemble(ctx, payload, form)
	if err != nil {
		return NewLead{}, s.mapError(err)
	}
	return lead, nil
}

// RefreshFormMappings re-fetches the form's field schema and swaps the
// mapping rows wholesale. Target assignments on the previous rows are
// discarded with them.
func (s *Service) RefreshFormMappings(ctx context.Context, form Form) error {
	if s == nil {
		return fmt.Errorf("core: service is required")
	}
	if s.schemaFetcher == nil {
		return s.mapError(fmt.Errorf("core: form schema fetcher is required"))
	}
	if strings.TrimSpace(form.ID) == "" {
		return s.mapError(fmt.Errorf("core: form id is required"))
	}

	descriptors, err := s.schemaFetcher.FetchFormFields(ctx, form)
	if err != nil {
		return s.mapError(err)
	}

	mappings := make([]FieldMapping, 0, len(descriptors))
	for _, descriptor := range descriptors {
		key := strings.TrimSpace(descriptor.Key)
		if key == "" {
			continue
		}
		mappings = append(mappings, FieldMapping{
			FormID:        form.ID,
			ExternalField: key,
			TargetLabel:   descriptor.Label,
		})
	}
	if err := s.formStore.ReplaceMappings(ctx, form.ID, mappings); err != nil {
		return s.mapError(err)
	}

	s.logInfo(ctx, "form mappings refreshed", map[string]any{
		"form_id":  form.ID,
		"mappings": len(mappings),
	})
	return nil
}

// DiscoverForms walks the page's form directory and registers every form not
// seen before, then refreshes each new form's field mappings. Discovery pages
// carry no transactional boundary; form rows are independent.
func (s *Service) DiscoverForms(ctx context.Context, page Page) (WalkStats, error) {
	if s == nil {
		return WalkStats{}, fmt.Errorf("core: service is required")
	}
	if s.formDirectory == nil {
		return WalkStats{}, s.mapError(fmt.Errorf("core: form directory is required"))
	}

	first, err := s.formDirectory.FetchForms(ctx, page)
	if err != nil {
		return WalkStats{}, s.mapError(err)
	}

	walker := NewPageWalker(
		nil,
		WithMaxPages[FormDescriptor](s.config.Sync.MaxPages),
		WithoutPageTransactions[FormDescriptor](),
	)
	stats, err := walker.Walk(ctx, first, s.formDirectory.FetchFormsPage, func(ctx context.Context, descriptor FormDescriptor) (ItemOutcome, error) {
		_, found, findErr := s.formStore.GetByExternalID(ctx, page.ID, descriptor.ExternalFormID)
		if findErr != nil {
			return ItemProcessed, findErr
		}
		if found {
			return ItemSkipped, nil
		}
		created, createErr := s.formStore.Create(ctx, Form{
			PageID:         page.ID,
			Name:           descriptor.Name,
			ExternalFormID: descriptor.ExternalFormID,
			AccessToken:    page.AccessToken,
		})
		if createErr != nil {
			return ItemProcessed, createErr
		}
		return ItemProcessed, s.RefreshFormMappings(ctx, created)
	})
	if err != nil {
		return stats, s.mapError(err)
	}

	s.logInfo(ctx, "form discovery finished", map[string]any{
		"page_id":    page.ID,
		"discovered": stats.Processed,
		"known":      stats.Skipped,
	})
	return stats, nil
}

func (s *Service) mapError(err error) error {
	return mapBuildError(s.errorMapper, err)
}

func (s *Service) logInfo(ctx context.Context, message string, fields map[string]any) {
	if s == nil || s.logger == nil {
		return
	}
	logger := s.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(fields)
	}
	logger.Info(message)
}
