package sqlstore

import (
	"fmt"

	"github.com/goliatone/go-leadgen/core"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

// RepositoryFactory builds and caches the SQL-backed stores over one bun DB
// handle. It doubles as the per-page transaction runner: see RunInTx.
type RepositoryFactory struct {
	db *bun.DB

	leadStore        *LeadStore
	attributionStore *AttributionStore
	formStore        *FormStore
	pageStore        *PageStore
	syncRunStore     *SyncRunStore
	referenceLookup  *ReferenceLookup
}

func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{}
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if _, err := factory.BuildStores(client); err != nil {
		return nil, err
	}
	return factory, nil
}

func NewRepositoryFactoryFromDB(db *bun.DB) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if _, err := factory.BuildStores(db); err != nil {
		return nil, err
	}
	return factory, nil
}

func (f *RepositoryFactory) BuildStores(persistenceClient any) (core.StoreProvider, error) {
	if f == nil {
		return nil, fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.db == nil {
		db, err := resolveBunDB(persistenceClient)
		if err != nil {
			return nil, err
		}
		f.db = db
	}
	if f.leadStore != nil && f.formStore != nil {
		return f, nil
	}
	if err := f.initStores(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

func (f *RepositoryFactory) LeadStore() core.LeadStore {
	if f == nil {
		return nil
	}
	return f.leadStore
}

func (f *RepositoryFactory) AttributionStore() core.AttributionStore {
	if f == nil {
		return nil
	}
	return f.attributionStore
}

func (f *RepositoryFactory) FormStore() core.FormStore {
	if f == nil {
		return nil
	}
	return f.formStore
}

func (f *RepositoryFactory) PageStore() core.PageStore {
	if f == nil {
		return nil
	}
	return f.pageStore
}

func (f *RepositoryFactory) SyncRunStore() *SyncRunStore {
	if f == nil {
		return nil
	}
	return f.syncRunStore
}

func (f *RepositoryFactory) ReferenceLookup() core.ReferenceLookup {
	if f == nil {
		return nil
	}
	return f.referenceLookup
}

func (f *RepositoryFactory) TransactionRunner() core.TransactionRunner {
	if f == nil {
		return nil
	}
	return f
}

func (f *RepositoryFactory) initStores() error {
	leadStore, err := NewLeadStore(f.db)
	if err != nil {
		return err
	}
	f.leadStore = leadStore
	attributionStore, err := NewAttributionStore(f.db)
	if err != nil {
		return err
	}
	f.attributionStore = attributionStore
	formStore, err := NewFormStore(f.db)
	if err != nil {
		return err
	}
	f.formStore = formStore
	pageStore, err := NewPageStore(f.db)
	if err != nil {
		return err
	}
	f.pageStore = pageStore
	syncRunStore, err := NewSyncRunStore(f.db)
	if err != nil {
		return err
	}
	f.syncRunStore = syncRunStore
	referenceLookup, err := NewReferenceLookup(f.db)
	if err != nil {
		return err
	}
	f.referenceLookup = referenceLookup

	return nil
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}
