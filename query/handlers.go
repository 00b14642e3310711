package query

import (
	"context"

	"github.com/goliatone/go-leadgen/core"
)

type LeadReader interface {
	GetByExternalID(ctx context.Context, externalLeadID string) (core.Lead, bool, error)
}

type PageReader interface {
	Get(ctx context.Context, id string) (core.Page, error)
	List(ctx context.Context) ([]core.Page, error)
}

type FormReader interface {
	ListSyncEnabled(ctx context.Context) ([]core.Form, error)
}

type SyncRunReader interface {
	ListByForm(ctx context.Context, formID string, limit int) ([]core.SyncRun, error)
}

type GetLeadQuery struct {
	reader LeadReader
}

func NewGetLeadQuery(reader LeadReader) *GetLeadQuery {
	return &GetLeadQuery{reader: reader}
}

func (q *GetLeadQuery) Query(ctx context.Context, msg GetLeadMessage) (core.Lead, error) {
	if q == nil || q.reader == nil {
		return core.Lead{}, queryDependencyError("query: lead reader is required")
	}
	lead, found, err := q.reader.GetByExternalID(ctx, msg.ExternalLeadID)
	if err != nil {
		return core.Lead{}, err
	}
	if !found {
		return core.Lead{}, leadNotFoundError(msg.ExternalLeadID)
	}
	return lead, nil
}

type GetPageQuery struct {
	reader PageReader
}

func NewGetPageQuery(reader PageReader) *GetPageQuery {
	return &GetPageQuery{reader: reader}
}

func (q *GetPageQuery) Query(ctx context.Context, msg GetPageMessage) (core.Page, error) {
	if q == nil || q.reader == nil {
		return core.Page{}, queryDependencyError("query: page reader is required")
	}
	return q.reader.Get(ctx, msg.PageID)
}

type ListPagesQuery struct {
	reader PageReader
}

func NewListPagesQuery(reader PageReader) *ListPagesQuery {
	return &ListPagesQuery{reader: reader}
}

func (q *ListPagesQuery) Query(ctx context.Context, msg ListPagesMessage) ([]core.Page, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: page reader is required")
	}
	return q.reader.List(ctx)
}

type ListSyncEnabledFormsQuery struct {
	reader FormReader
}

func NewListSyncEnabledFormsQuery(reader FormReader) *ListSyncEnabledFormsQuery {
	return &ListSyncEnabledFormsQuery{reader: reader}
}

func (q *ListSyncEnabledFormsQuery) Query(
	ctx context.Context,
	msg ListSyncEnabledFormsMessage,
) ([]core.Form, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: form reader is required")
	}
	return q.reader.ListSyncEnabled(ctx)
}

type ListSyncRunsQuery struct {
	reader SyncRunReader
}

func NewListSyncRunsQuery(reader SyncRunReader) *ListSyncRunsQuery {
	return &ListSyncRunsQuery{reader: reader}
}

func (q *ListSyncRunsQuery) Query(ctx context.Context, msg ListSyncRunsMessage) ([]core.SyncRun, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: sync run reader is required")
	}
	return q.reader.ListByForm(ctx, msg.FormID, msg.Limit)
}
