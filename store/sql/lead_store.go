package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-leadgen/core"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LeadStore persists opportunity records. Queries resolve through the
// transaction handle carried by ctx so creates participate in the per-page
// transaction.
type LeadStore struct {
	db *bun.DB
}

func NewLeadStore(db *bun.DB) (*LeadStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	return &LeadStore{db: db}, nil
}

func (s *LeadStore) ExistsByExternalID(ctx context.Context, externalLeadID string) (bool, error) {
	if s == nil || s.db == nil {
		return false, fmt.Errorf("sqlstore: lead store is not configured")
	}
	externalLeadID = strings.TrimSpace(externalLeadID)
	if externalLeadID == "" {
		return false, fmt.Errorf("sqlstore: external lead id is required")
	}
	return idbFromContext(ctx, s.db).NewSelect().
		Model((*leadRecord)(nil)).
		Where("?TableAlias.external_lead_id = ?", externalLeadID).
		Exists(ctx)
}

// GetByExternalID loads a stored lead by the platform-side lead id. The
// second return is false when no record matches.
func (s *LeadStore) GetByExternalID(ctx context.Context, externalLeadID string) (core.Lead, bool, error) {
	if s == nil || s.db == nil {
		return core.Lead{}, false, fmt.Errorf("sqlstore: lead store is not configured")
	}
	externalLeadID = strings.TrimSpace(externalLeadID)
	if externalLeadID == "" {
		return core.Lead{}, false, fmt.Errorf("sqlstore: external lead id is required")
	}

	record := new(leadRecord)
	err := idbFromContext(ctx, s.db).NewSelect().
		Model(record).
		Where("?TableAlias.external_lead_id = ?", externalLeadID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Lead{}, false, nil
		}
		return core.Lead{}, false, err
	}
	return record.toDomain(), true, nil
}

func (s *LeadStore) Create(ctx context.Context, lead core.NewLead) (core.Lead, error) {
	if s == nil || s.db == nil {
		return core.Lead{}, fmt.Errorf("sqlstore: lead store is not configured")
	}
	if err := lead.Validate(); err != nil {
		return core.Lead{}, err
	}

	record := newLeadRecord(lead, time.Now().UTC())
	record.ID = uuid.NewString()
	if _, err := idbFromContext(ctx, s.db).NewInsert().Model(record).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return core.Lead{}, fmt.Errorf("sqlstore: lead %s already exists: %w", record.ExternalLeadID, err)
		}
		return core.Lead{}, err
	}
	return record.toDomain(), nil
}

var _ core.LeadStore = (*LeadStore)(nil)
