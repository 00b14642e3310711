package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-leadgen/core"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AttributionStore persists ad, adset, and campaign reference entities keyed
// by (kind, external_id). A concurrent create races against the uniqueness
// constraint and falls back to reading the winner.
type AttributionStore struct {
	db *bun.DB
}

func NewAttributionStore(db *bun.DB) (*AttributionStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	return &AttributionStore{db: db}, nil
}

func (s *AttributionStore) FindByExternalID(
	ctx context.Context,
	kind core.AttributionKind,
	externalID string,
) (core.AttributionRef, bool, error) {
	if s == nil || s.db == nil {
		return core.AttributionRef{}, false, fmt.Errorf("sqlstore: attribution store is not configured")
	}
	if !kind.IsValid() {
		return core.AttributionRef{}, false, fmt.Errorf("sqlstore: invalid attribution kind %q", kind)
	}
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return core.AttributionRef{}, false, fmt.Errorf("sqlstore: attribution external id is required")
	}

	record, err := findAttribution(ctx, idbFromContext(ctx, s.db), kind, externalID)
	if err != nil {
		return core.AttributionRef{}, false, err
	}
	if record == nil {
		return core.AttributionRef{}, false, nil
	}
	return record.toDomain(), true, nil
}

func (s *AttributionStore) Create(
	ctx context.Context,
	kind core.AttributionKind,
	externalID string,
	name string,
) (core.AttributionRef, error) {
	if s == nil || s.db == nil {
		return core.AttributionRef{}, fmt.Errorf("sqlstore: attribution store is not configured")
	}
	if !kind.IsValid() {
		return core.AttributionRef{}, fmt.Errorf("sqlstore: invalid attribution kind %q", kind)
	}
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return core.AttributionRef{}, fmt.Errorf("sqlstore: attribution external id is required")
	}

	idb := idbFromContext(ctx, s.db)
	record := &attributionRecord{
		ID:         uuid.NewString(),
		Kind:       string(kind),
		ExternalID: externalID,
		Name:       strings.TrimSpace(name),
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := idb.NewInsert().Model(record).Exec(ctx); err != nil {
		if !isUniqueViolation(err) {
			return core.AttributionRef{}, err
		}
		existing, findErr := findAttribution(ctx, idb, kind, externalID)
		if findErr != nil {
			return core.AttributionRef{}, findErr
		}
		if existing == nil {
			return core.AttributionRef{}, err
		}
		return existing.toDomain(), nil
	}
	return record.toDomain(), nil
}

func findAttribution(
	ctx context.Context,
	idb bun.IDB,
	kind core.AttributionKind,
	externalID string,
) (*attributionRecord, error) {
	record := &attributionRecord{}
	err := idb.NewSelect().
		Model(record).
		Where("?TableAlias.kind = ?", string(kind)).
		Where("?TableAlias.external_id = ?", externalID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

var _ core.AttributionStore = (*AttributionStore)(nil)
