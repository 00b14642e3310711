package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-leadgen/core"
	leadgensync "github.com/goliatone/go-leadgen/sync"
)

// MutatingService is the write surface commands execute against. The facade
// satisfies it by combining the core service, the sync orchestrator, and the
// page store.
type MutatingService interface {
	SyncAll(ctx context.Context) (leadgensync.RunSummary, error)
	SyncForm(ctx context.Context, pageID string, externalFormID string) (core.SyncRun, error)
	RefreshFormMappings(ctx context.Context, pageID string, externalFormID string) error
	RegisterPage(ctx context.Context, page core.Page) (core.Page, error)
	DiscoverForms(ctx context.Context, pageID string) (core.WalkStats, error)
}

type RunSyncCommand struct {
	service MutatingService
}

func NewRunSyncCommand(service MutatingService) *RunSyncCommand {
	return &RunSyncCommand{service: service}
}

func (c *RunSyncCommand) Execute(ctx context.Context, msg RunSyncMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: sync service is required")
	}
	out, err := c.service.SyncAll(ctx)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type RunFormSyncCommand struct {
	service MutatingService
}

func NewRunFormSyncCommand(service MutatingService) *RunFormSyncCommand {
	return &RunFormSyncCommand{service: service}
}

func (c *RunFormSyncCommand) Execute(ctx context.Context, msg RunFormSyncMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: form sync service is required")
	}
	out, err := c.service.SyncForm(ctx, msg.PageID, msg.ExternalFormID)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type RefreshFormMappingsCommand struct {
	service MutatingService
}

func NewRefreshFormMappingsCommand(service MutatingService) *RefreshFormMappingsCommand {
	return &RefreshFormMappingsCommand{service: service}
}

func (c *RefreshFormMappingsCommand) Execute(ctx context.Context, msg RefreshFormMappingsMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: mapping refresh service is required")
	}
	return c.service.RefreshFormMappings(ctx, msg.PageID, msg.ExternalFormID)
}

type RegisterPageCommand struct {
	service MutatingService
}

func NewRegisterPageCommand(service MutatingService) *RegisterPageCommand {
	return &RegisterPageCommand{service: service}
}

func (c *RegisterPageCommand) Execute(ctx context.Context, msg RegisterPageMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: page registration service is required")
	}
	out, err := c.service.RegisterPage(ctx, msg.Page)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type DiscoverFormsCommand struct {
	service MutatingService
}

func NewDiscoverFormsCommand(service MutatingService) *DiscoverFormsCommand {
	return &DiscoverFormsCommand{service: service}
}

func (c *DiscoverFormsCommand) Execute(ctx context.Context, msg DiscoverFormsMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: form discovery service is required")
	}
	out, err := c.service.DiscoverForms(ctx, msg.PageID)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
