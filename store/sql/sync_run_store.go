package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-leadgen/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type SyncRunStore struct {
	db   *bun.DB
	repo repository.Repository[*syncRunRecord]
}

func NewSyncRunStore(db *bun.DB) (*SyncRunStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*syncRunRecord](db, syncRunHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid sync run repository wiring: %w", err)
		}
	}
	return &SyncRunStore{db: db, repo: repo}, nil
}

func (s *SyncRunStore) Create(ctx context.Context, run core.SyncRun) (core.SyncRun, error) {
	if s == nil || s.repo == nil {
		return core.SyncRun{}, fmt.Errorf("sqlstore: sync run store is not configured")
	}
	if strings.TrimSpace(run.ID) == "" {
		return core.SyncRun{}, fmt.Errorf("sqlstore: sync run id is required")
	}
	if strings.TrimSpace(run.FormID) == "" {
		return core.SyncRun{}, fmt.Errorf("sqlstore: sync run form id is required")
	}

	created, err := s.repo.Create(ctx, newSyncRunRecord(run))
	if err != nil {
		return core.SyncRun{}, err
	}
	return created.toDomain(), nil
}

func (s *SyncRunStore) Update(ctx context.Context, run core.SyncRun) (core.SyncRun, error) {
	if s == nil || s.repo == nil {
		return core.SyncRun{}, fmt.Errorf("sqlstore: sync run store is not configured")
	}
	runID := strings.TrimSpace(run.ID)
	if runID == "" {
		return core.SyncRun{}, fmt.Errorf("sqlstore: sync run id is required")
	}

	updated, err := s.repo.Update(ctx, newSyncRunRecord(run), repository.UpdateByID(runID))
	if err != nil {
		return core.SyncRun{}, err
	}
	return updated.toDomain(), nil
}

// ListByForm returns the most recent runs for a form, newest first.
func (s *SyncRunStore) ListByForm(ctx context.Context, formID string, limit int) ([]core.SyncRun, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: sync run store is not configured")
	}
	formID = strings.TrimSpace(formID)
	if formID == "" {
		return nil, fmt.Errorf("sqlstore: form id is required")
	}
	if limit <= 0 {
		limit = 20
	}

	records, _, err := s.repo.List(ctx,
		repository.SelectBy("form_id", "=", formID),
		repository.OrderBy("started_at DESC"),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Limit(limit)
		}),
	)
	if err != nil {
		return nil, err
	}

	out := make([]core.SyncRun, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}
