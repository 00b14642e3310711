package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// PageResult is one page of a cursor-paginated platform response. Next is the
// fully qualified URL of the following page, empty on the last one.
type PageResult[T any] struct {
	Items []T
	Next  string
}

// FetchPageFunc retrieves the page behind a paging cursor URL.
type FetchPageFunc[T any] func(ctx context.Context, pageURL string) (PageResult[T], error)

// LeadFetcher issues the initial leads query for a form and follows paging
// cursors. Implementations own HTTP concerns (timeouts, retries); errors
// propagate untouched.
type LeadFetcher interface {
	FetchLeads(ctx context.Context, form Form) (PageResult[LeadPayload], error)
	FetchLeadsPage(ctx context.Context, pageURL string) (PageResult[LeadPayload], error)
}

// FormDirectory lists the lead-generation forms published under a page.
type FormDirectory interface {
	FetchForms(ctx context.Context, page Page) (PageResult[FormDescriptor], error)
	FetchFormsPage(ctx context.Context, pageURL string) (PageResult[FormDescriptor], error)
}

// FormDescriptor is one form listing entry from the platform's directory.
type FormDescriptor struct {
	ExternalFormID string
	Name           string
}

// FormSchemaFetcher retrieves a form's field schema, choosing the platform
// field key by API version.
type FormSchemaFetcher interface {
	FetchFormFields(ctx context.Context, form Form) ([]FormFieldDescriptor, error)
}

// LeadStore persists opportunity records. ExistsByExternalID is the dedup
// guard; Create relies on a storage-layer uniqueness constraint on the
// external lead id as the second line of defense.
type LeadStore interface {
	ExistsByExternalID(ctx context.Context, externalLeadID string) (bool, error)
	Create(ctx context.Context, lead NewLead) (Lead, error)
}

// AttributionStore persists attribution entities. Create must surface a
// uniqueness violation on (kind, external id) rather than swallow it; the
// constraint is the final arbiter under concurrent ingestion.
type AttributionStore interface {
	FindByExternalID(ctx context.Context, kind AttributionKind, externalID string) (AttributionRef, bool, error)
	Create(ctx context.Context, kind AttributionKind, externalID string, name string) (AttributionRef, error)
}

/// ReferenceLookup resolves a many2one coercion: find the single record in a
// target collection whose display name equals the raw value. A miss is not an
// error.
type ReferenceLookup interface {
	FindByDisplayName(ctx context.Context, collection string, displayName string) (string, bool, error)
}

// FormStore persists forms and their field mappings. ReplaceMappings swaps a
// form's mapping rows wholesale, discarding the previous set first.
type FormStore interface {
	Create(ctx context.Context, form Form) (Form, error)
	GetByExternalID(ctx context.Context, pageID string, externalFormID string) (Form, bool, error)
	ListSyncEnabled(ctx context.Context) ([]Form, error)
	ReplaceMappings(ctx context.Context, formID string, mappings []FieldMapping) error
}

// PageStore persists registered pages.
type PageStore interface {
	Create(ctx context.Context, page Page) (Page, error)
	Get(ctx context.Context, id string) (Page, error)
	List(ctx context.Context) ([]Page, error)
}

// TransactionRunner scopes fn to one storage transaction. The pagination
// walker uses it as the per-page atomicity boundary: every record created
// inside fn, attribution entities included, rolls back when fn fails.
type TransactionRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

// RepositoryStoreFactory builds the SQL-backed stores from a persistence
// client or bun DB handle.
type RepositoryStoreFactory interface {
	BuildStores(persistenceClient any) (StoreProvider, error)
}

// StoreProvider exposes the stores a built repository factory offers.
type StoreProvider interface {
	LeadStore() LeadStore
	AttributionStore() AttributionStore
	FormStore() FormStore
	PageStore() PageStore
	ReferenceLookup() ReferenceLookup
	TransactionRunner() TransactionRunner
}
