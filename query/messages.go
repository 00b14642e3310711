package query

import (
	"fmt"
	"strings"
)

const (
	TypeGetLead              = "leadgen.query.lead.get"
	TypeGetPage              = "leadgen.query.page.get"
	TypeListPages            = "leadgen.query.page.list"
	TypeListSyncEnabledForms = "leadgen.query.form.list_sync_enabled"
	TypeListSyncRuns         = "leadgen.query.sync_run.list"
)

type GetLeadMessage struct {
	ExternalLeadID string
}

func (GetLeadMessage) Type() string { return TypeGetLead }

func (m GetLeadMessage) Validate() error {
	if strings.TrimSpace(m.ExternalLeadID) == "" {
		return fmt.Errorf("query: external lead id is required")
	}
	return nil
}

type GetPageMessage struct {
	PageID string
}

func (GetPageMessage) Type() string { return TypeGetPage }

func (m GetPageMessage) Validate() error {
	if strings.TrimSpace(m.PageID) == "" {
		return fmt.Errorf("query: page id is required")
	}
	return nil
}

type ListPagesMessage struct{}

func (ListPagesMessage) Type() string { return TypeListPages }

func (ListPagesMessage) Validate() error { return nil }

type ListSyncEnabledFormsMessage struct{}

func (ListSyncEnabledFormsMessage) Type() string { return TypeListSyncEnabledForms }

func (ListSyncEnabledFormsMessage) Validate() error { return nil }

type ListSyncRunsMessage struct {
	FormID string
	Limit  int
}

func (ListSyncRunsMessage) Type() string { return TypeListSyncRuns }

func (m ListSyncRunsMessage) Validate() error {
	if strings.TrimSpace(m.FormID) == "" {
		return fmt.Errorf("query: form id is required")
	}
	if m.Limit < 0 {
		return fmt.Errorf("query: limit must be >= 0")
	}
	return nil
}
