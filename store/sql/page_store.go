package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-leadgen/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type PageStore struct {
	db   *bun.DB
	repo repository.Repository[*pageRecord]
}

func NewPageStore(db *bun.DB) (*PageStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*pageRecord](db, pageHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid page repository wiring: %w", err)
		}
	}
	return &PageStore{db: db, repo: repo}, nil
}

func (s *PageStore) Create(ctx context.Context, page core.Page) (core.Page, error) {
	if s == nil || s.repo == nil {
		return core.Page{}, fmt.Errorf("sqlstore: page store is not configured")
	}
	if err := page.Validate(); err != nil {
		return core.Page{}, err
	}

	record := newPageRecord(page, time.Now().UTC())
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Page{}, fmt.Errorf("sqlstore: page %s already registered: %w", page.Name, err)
		}
		return core.Page{}, err
	}
	return created.toDomain(), nil
}

func (s *PageStore) Get(ctx context.Context, id string) (core.Page, error) {
	if s == nil || s.repo == nil {
		return core.Page{}, fmt.Errorf("sqlstore: page store is not configured")
	}
	record, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return core.Page{}, err
	}
	return record.toDomain(), nil
}

func (s *PageStore) List(ctx context.Context) ([]core.Page, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: page store is not configured")
	}
	records, _, err := s.repo.List(ctx, repository.OrderBy("created_at ASC"))
	if err != nil {
		return nil, err
	}

	out := make([]core.Page, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}

var _ core.PageStore = (*PageStore)(nil)
