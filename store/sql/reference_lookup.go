package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/goliatone/go-leadgen/core"
	"github.com/uptrace/bun"
)

// lookupTarget describes one collection a relational field mapping may point
// at. kindFilter narrows attribution rows to one kind; it is empty for
// dedicated tables.
type lookupTarget struct {
	table      string
	idColumn   string
	nameColumn string
	kindFilter string
}

func defaultLookupTargets() map[string]lookupTarget {
	return map[string]lookupTarget{
		"teams": {
			table:      "leadgen_teams",
			idColumn:   "id",
			nameColumn: "name",
		},
		"campaigns": {
			table:      "leadgen_attribution_entities",
			idColumn:   "id",
			nameColumn: "name",
			kindFilter: string(core.AttributionCampaign),
		},
		"adsets": {
			table:      "leadgen_attribution_entities",
			idColumn:   "id",
			nameColumn: "name",
			kindFilter: string(core.AttributionAdset),
		},
		"mediums": {
			table:      "leadgen_attribution_entities",
			idColumn:   "id",
			nameColumn: "name",
			kindFilter: string(core.AttributionAd),
		},
	}
}

// ReferenceLookup resolves relational field values by display name against a
// fixed registry of collections. An unknown collection is an error; a known
// collection with no matching row is a miss, not an error.
type ReferenceLookup struct {
	db      *bun.DB
	targets map[string]lookupTarget
}

func NewReferenceLookup(db *bun.DB) (*ReferenceLookup, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	return &ReferenceLookup{
		db:      db,
		targets: defaultLookupTargets(),
	}, nil
}

// RegisterCollection adds or overrides a lookup collection. nameColumn is
// matched against the mapped raw value verbatim.
func (l *ReferenceLookup) RegisterCollection(collection string, table string, idColumn string, nameColumn string) error {
	if l == nil || l.targets == nil {
		return fmt.Errorf("sqlstore: reference lookup is not configured")
	}
	collection = strings.TrimSpace(collection)
	table = strings.TrimSpace(table)
	idColumn = strings.TrimSpace(idColumn)
	nameColumn = strings.TrimSpace(nameColumn)
	if collection == "" || table == "" || idColumn == "" || nameColumn == "" {
		return fmt.Errorf("sqlstore: collection, table, id column, and name column are required")
	}
	l.targets[collection] = lookupTarget{
		table:      table,
		idColumn:   idColumn,
		nameColumn: nameColumn,
	}
	return nil
}

func (l *ReferenceLookup) FindByDisplayName(
	ctx context.Context,
	collection string,
	displayName string,
) (string, bool, error) {
	if l == nil || l.db == nil {
		return "", false, fmt.Errorf("sqlstore: reference lookup is not configured")
	}
	target, ok := l.targets[strings.TrimSpace(collection)]
	if !ok {
		return "", false, fmt.Errorf("sqlstore: unknown lookup collection %q", collection)
	}

	query := idbFromContext(ctx, l.db).NewSelect().
		Table(target.table).
		Column(target.idColumn).
		Where("? = ?", bun.Ident(target.nameColumn), displayName).
		Limit(1)
	if target.kindFilter != "" {
		query = query.Where("kind = ?", target.kindFilter)
	}

	var id string
	if err := query.Scan(ctx, &id); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return id, true, nil
}

var _ core.ReferenceLookup = (*ReferenceLookup)(nil)
