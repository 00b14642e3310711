package leadgen

import "github.com/goliatone/go-leadgen/core"

type Config = core.Config

type FacebookConfig = core.FacebookConfig

type SyncConfig = core.SyncConfig

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies
type LeadFetcher = core.LeadFetcher
type FormDirectory = core.FormDirectory
type FormSchemaFetcher = core.FormSchemaFetcher
type LeadStore = core.LeadStore
type AttributionStore = core.AttributionStore
type FormStore = core.FormStore
type PageStore = core.PageStore
type ReferenceLookup = core.ReferenceLookup
type TransactionRunner = core.TransactionRunner

type Page = core.Page
type Form = core.Form
type FieldMapping = core.FieldMapping
type LeadPayload = core.LeadPayload
type NewLead = core.NewLead
type Lead = core.Lead
type SyncRun = core.SyncRun
type WalkStats = core.WalkStats

var (
	WithLogger            = core.WithLogger
	WithLoggerProvider    = core.WithLoggerProvider
	WithErrorFactory      = core.WithErrorFactory
	WithErrorMapper       = core.WithErrorMapper
	WithPersistenceClient = core.WithPersistenceClient
	WithRepositoryFactory = core.WithRepositoryFactory
	WithConfigProvider    = core.WithConfigProvider
	WithOptionsResolver   = core.WithOptionsResolver
	WithLeadFetcher       = core.WithLeadFetcher
	WithFormDirectory     = core.WithFormDirectory
	WithFormSchemaFetcher = core.WithFormSchemaFetcher
	WithLeadStore         = core.WithLeadStore
	WithAttributionStore  = core.WithAttributionStore
	WithFormStore         = core.WithFormStore
	WithPageStore         = core.WithPageStore
	WithReferenceLookup   = core.WithReferenceLookup
	WithTransactionRunner = core.WithTransactionRunner
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return core.Setup(cfg, opts...)
}
