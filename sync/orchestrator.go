package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-leadgen/core"
	"github.com/google/uuid"
)

// SyncRunStore persists per-form run bookkeeping.
type SyncRunStore interface {
	Create(ctx context.Context, run core.SyncRun) (core.SyncRun, error)
	Update(ctx context.Context, run core.SyncRun) (core.SyncRun, error)
}

// FormIngestor pulls and persists every new lead for one form.
type FormIngestor interface {
	IngestForm(ctx context.Context, form core.Form) (core.WalkStats, error)
}

// Orchestrator drives the scheduled sweep over every sync-enabled form. A
// form whose ingestion fails is recorded and skipped; the sweep keeps going
// so one revoked token cannot starve the remaining forms.
type Orchestrator struct {
	Runs     SyncRunStore
	Forms    core.FormStore
	Ingestor FormIngestor
	Logger   core.Logger
	Now      func() time.Time
}

func NewOrchestrator(runs SyncRunStore, forms core.FormStore, ingestor FormIngestor) *Orchestrator {
	return &Orchestrator{
		Runs:     runs,
		Forms:    forms,
		Ingestor: ingestor,
		Now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// RunSummary aggregates one sweep across forms.
type RunSummary struct {
	Total     int
	Succeeded int
	Failed    int
	Runs      []core.SyncRun
}

// RunAll sweeps every sync-enabled form once. It returns an error only when
// the sweep itself cannot proceed (listing forms, recording runs); individual
// form failures land in the summary.
func (o *Orchestrator) RunAll(ctx context.Context) (RunSummary, error) {
	if o == nil || o.Forms == nil {
		return RunSummary{}, fmt.Errorf("sync: orchestrator requires form store")
	}

	forms, err := o.Forms.ListSyncEnabled(ctx)
	if err != nil {
		return RunSummary{}, fmt.Errorf("sync: list sync-enabled forms: %w", err)
	}

	summary := RunSummary{Total: len(forms)}
	for _, form := range forms {
		run, runErr := o.RunForm(ctx, form)
		summary.Runs = append(summary.Runs, run)
		if runErr != nil {
			summary.Failed++
			o.logError("form sync failed", "form_id", form.ID, "external_form_id", form.ExternalFormID, "error", runErr)
			continue
		}
		summary.Succeeded++
	}
	return summary, nil
}

// RunForm ingests one form under a tracked run record. The returned run is
// always in a terminal state; the error reports the ingestion failure, if
// any, after the run has been recorded.
func (o *Orchestrator) RunForm(ctx context.Context, form core.Form) (core.SyncRun, error) {
	if o == nil || o.Ingestor == nil {
		return core.SyncRun{}, fmt.Errorf("sync: orchestrator requires form ingestor")
	}
	formID := strings.TrimSpace(form.ID)
	if formID == "" {
		return core.SyncRun{}, fmt.Errorf("sync: form id is required")
	}

	run := core.SyncRun{
		ID:        uuid.NewString(),
		FormID:    formID,
		Status:    core.SyncRunStatusRunning,
		StartedAt: o.now(),
	}
	run, err := o.createRun(ctx, run)
	if err != nil {
		return core.SyncRun{}, err
	}

	stats, ingestErr := o.Ingestor.IngestForm(ctx, form)
	run.Pages = stats.Pages
	run.Processed = stats.Processed
	run.Skipped = stats.Skipped
	finished := o.now()
	run.FinishedAt = &finished
	if ingestErr != nil {
		run.Status = core.SyncRunStatusFailed
		run.Error = strings.TrimSpace(ingestErr.Error())
	} else {
		run.Status = core.SyncRunStatusSucceeded
	}

	run, updateErr := o.updateRun(ctx, run)
	if updateErr != nil {
		if ingestErr != nil {
			return run, fmt.Errorf("sync: record failed run for form %s: %w", formID, ingestErr)
		}
		return run, updateErr
	}
	return run, ingestErr
}

func (o *Orchestrator) createRun(ctx context.Context, run core.SyncRun) (core.SyncRun, error) {
	if o.Runs == nil {
		return run, nil
	}
	created, err := o.Runs.Create(ctx, run)
	if err != nil {
		return core.SyncRun{}, fmt.Errorf("sync: create run for form %s: %w", run.FormID, err)
	}
	return created, nil
}

func (o *Orchestrator) updateRun(ctx context.Context, run core.SyncRun) (core.SyncRun, error) {
	if o.Runs == nil {
		return run, nil
	}
	updated, err := o.Runs.Update(ctx, run)
	if err != nil {
		return run, fmt.Errorf("sync: update run %s: %w", run.ID, err)
	}
	return updated, nil
}

func (o *Orchestrator) now() time.Time {
	if o != nil && o.Now != nil {
		return o.Now().UTC()
	}
	return time.Now().UTC()
}

func (o *Orchestrator) logError(msg string, args ...any) {
	logger := o.Logger
	if logger == nil {
		logger = glog.Nop()
	}
	logger.Error(msg, args...)
}
