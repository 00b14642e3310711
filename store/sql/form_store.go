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

// FormStore persists form definitions together with their field mappings and
// team routing.
type FormStore struct {
	db *bun.DB
}

func NewFormStore(db *bun.DB) (*FormStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	return &FormStore{db: db}, nil
}

func (s *FormStore) Create(ctx context.Context, form core.Form) (core.Form, error) {
	if s == nil || s.db == nil {
		return core.Form{}, fmt.Errorf("sqlstore: form store is not configured")
	}
	if err := form.Validate(); err != nil {
		return core.Form{}, err
	}

	now := time.Now().UTC()
	record := newFormRecord(form, now)
	record.ID = uuid.NewString()

	mappings := make([]*fieldMappingRecord, 0, len(form.Mappings))
	for _, mapping := range form.Mappings {
		mapping.FormID = record.ID
		if err := mapping.Validate(); err != nil {
			return core.Form{}, err
		}
		mappingRecord := newFieldMappingRecord(mapping, now)
		mappingRecord.ID = uuid.NewString()
		mappings = append(mappings, mappingRecord)
	}

	err := s.runInTx(ctx, func(ctx context.Context, idb bun.IDB) error {
		if _, insertErr := idb.NewInsert().Model(record).Exec(ctx); insertErr != nil {
			if isUniqueViolation(insertErr) {
				return fmt.Errorf("sqlstore: form %s already exists for page %s: %w",
					record.ExternalFormID, record.PageID, insertErr)
			}
			return insertErr
		}
		if len(mappings) == 0 {
			return nil
		}
		if _, insertErr := idb.NewInsert().Model(&mappings).Exec(ctx); insertErr != nil {
			return insertErr
		}
		return nil
	})
	if err != nil {
		return core.Form{}, err
	}

	record.Mappings = mappings
	return record.toDomain(), nil
}

func (s *FormStore) GetByExternalID(
	ctx context.Context,
	pageID string,
	externalFormID string,
) (core.Form, bool, error) {
	if s == nil || s.db == nil {
		return core.Form{}, false, fmt.Errorf("sqlstore: form store is not configured")
	}
	externalFormID = strings.TrimSpace(externalFormID)
	if externalFormID == "" {
		return core.Form{}, false, fmt.Errorf("sqlstore: external form id is required")
	}

	record := &formRecord{}
	query := idbFromContext(ctx, s.db).NewSelect().
		Model(record).
		Relation("Mappings").
		Relation("Team").
		Where("?TableAlias.external_form_id = ?", externalFormID)
	if pageID = strings.TrimSpace(pageID); pageID != "" {
		query = query.Where("?TableAlias.page_id = ?", pageID)
	}
	err := query.Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.Form{}, false, nil
		}
		return core.Form{}, false, err
	}
	return record.toDomain(), true, nil
}

func (s *FormStore) ListSyncEnabled(ctx context.Context) ([]core.Form, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: form store is not configured")
	}

	var records []*formRecord
	err := idbFromContext(ctx, s.db).NewSelect().
		Model(&records).
		Relation("Mappings").
		Relation("Team").
		Where("?TableAlias.sync_enabled = ?", true).
		OrderExpr("?TableAlias.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]core.Form, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}

// ReplaceMappings swaps a form's mapping rows wholesale. The previous set is
// discarded first so removed schema fields do not linger.
func (s *FormStore) ReplaceMappings(ctx context.Context, formID string, mappings []core.FieldMapping) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: form store is not configured")
	}
	formID = strings.TrimSpace(formID)
	if formID == "" {
		return fmt.Errorf("sqlstore: form id is required")
	}

	now := time.Now().UTC()
	records := make([]*fieldMappingRecord, 0, len(mappings))
	for _, mapping := range mappings {
		mapping.FormID = formID
		if err := mapping.Validate(); err != nil {
			return err
		}
		record := newFieldMappingRecord(mapping, now)
		record.ID = uuid.NewString()
		records = append(records, record)
	}

	return s.runInTx(ctx, func(ctx context.Context, idb bun.IDB) error {
		if _, err := idb.NewDelete().
			Model((*fieldMappingRecord)(nil)).
			Where("form_id = ?", formID).
			Exec(ctx); err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		if _, err := idb.NewInsert().Model(&records).Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}

// runInTx reuses a transaction already carried by ctx, otherwise opens one.
func (s *FormStore) runInTx(ctx context.Context, fn func(ctx context.Context, idb bun.IDB) error) error {
	if idb, ok := ctx.Value(txContextKey{}).(bun.IDB); ok && idb != nil {
		return fn(ctx, idb)
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(withIDB(ctx, tx), tx)
	})
}

var _ core.FormStore = (*FormStore)(nil)
