package command

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-leadgen/core"
)

const (
	TypeRunSync             = "leadgen.command.sync.run"
	TypeRunFormSync         = "leadgen.command.sync.run_form"
	TypeRefreshFormMappings = "leadgen.command.form.refresh_mappings"
	TypeRegisterPage        = "leadgen.command.page.register"
	TypeDiscoverForms       = "leadgen.command.form.discover"
)

// RunSyncMessage sweeps every sync-enabled form once.
type RunSyncMessage struct{}

func (RunSyncMessage) Type() string { return TypeRunSync }

func (RunSyncMessage) Validate() error { return nil }

// RunFormSyncMessage syncs one form, addressed by its platform identity.
type RunFormSyncMessage struct {
	PageID         string
	ExternalFormID string
}

func (RunFormSyncMessage) Type() string { return TypeRunFormSync }

func (m RunFormSyncMessage) Validate() error {
	if strings.TrimSpace(m.ExternalFormID) == "" {
		return fmt.Errorf("command: external form id is required")
	}
	return nil
}

type RefreshFormMappingsMessage struct {
	PageID         string
	ExternalFormID string
}

func (RefreshFormMappingsMessage) Type() string { return TypeRefreshFormMappings }

func (m RefreshFormMappingsMessage) Validate() error {
	if strings.TrimSpace(m.ExternalFormID) == "" {
		return fmt.Errorf("command: external form id is required")
	}
	return nil
}

type RegisterPageMessage struct {
	Page core.Page
}

func (RegisterPageMessage) Type() string { return TypeRegisterPage }

func (m RegisterPageMessage) Validate() error {
	if strings.TrimSpace(m.Page.Name) == "" {
		return fmt.Errorf("command: page name is required")
	}
	if strings.TrimSpace(m.Page.AccessToken) == "" {
		return fmt.Errorf("command: page access token is required")
	}
	return nil
}

type DiscoverFormsMessage struct {
	PageID string
}

func (DiscoverFormsMessage) Type() string { return TypeDiscoverForms }

func (m DiscoverFormsMessage) Validate() error {
	if strings.TrimSpace(m.PageID) == "" {
		return fmt.Errorf("command: page id is required")
	}
	return nil
}
