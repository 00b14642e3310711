package sqlstore

import (
	"github.com/goliatone/go-leadgen/core"
	leadgenquery "github.com/goliatone/go-leadgen/query"
	leadgensync "github.com/goliatone/go-leadgen/sync"
)

var (
	_ core.StoreProvider          = (*RepositoryFactory)(nil)
	_ core.RepositoryStoreFactory = (*RepositoryFactory)(nil)
	_ core.TransactionRunner      = (*RepositoryFactory)(nil)
	_ leadgensync.SyncRunStore    = (*SyncRunStore)(nil)
	_ leadgenquery.LeadReader     = (*LeadStore)(nil)
	_ leadgenquery.SyncRunReader  = (*SyncRunStore)(nil)
)
