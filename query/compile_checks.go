package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-leadgen/core"
)

var (
	_ gocmd.Querier[GetLeadMessage, core.Lead]                = (*GetLeadQuery)(nil)
	_ gocmd.Querier[GetPageMessage, core.Page]                = (*GetPageQuery)(nil)
	_ gocmd.Querier[ListPagesMessage, []core.Page]            = (*ListPagesQuery)(nil)
	_ gocmd.Querier[ListSyncEnabledFormsMessage, []core.Form] = (*ListSyncEnabledFormsQuery)(nil)
	_ gocmd.Querier[ListSyncRunsMessage, []core.SyncRun]      = (*ListSyncRunsQuery)(nil)
)
