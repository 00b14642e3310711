package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// CoerceValue converts a raw external field value into the typed value the
// mapping's target field expects. Numeric conversions fail loudly: a
// malformed value must abort the surrounding page transaction instead of
// storing a zero. The many2one variant is the only one touching storage.
func CoerceValue(
	ctx context.Context,
	mapping FieldMapping,
	raw string,
	lookup ReferenceLookup,
) (any, error) {
	switch mapping.TargetType {
	case FieldTypeFloat, FieldTypeMonetary:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("core: field %q: parse %q as float: %w", mapping.ExternalField, raw, err)
		}
		return parsed, nil
	case FieldTypeInteger:
		parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("core: field %q: parse %q as integer: %w", mapping.ExternalField, raw, err)
		}
		return parsed, nil
	case FieldTypeDate, FieldTypeDatetime:
		return NormalizeExternalTimestamp(raw), nil
	case FieldTypeBoolean:
		return raw == "true", nil
	case FieldTypeMany2One:
		if lookup == nil {
			return nil, fmt.Errorf("core: field %q: reference lookup is required for many2one coercion", mapping.ExternalField)
		}
		id, found, err := lookup.FindByDisplayName(ctx, mapping.TargetRelation, raw)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, nil
		}
		return id, nil
	default:
		return raw, nil
	}
}

// NormalizeExternalTimestamp turns a platform timestamp such as
// "2023-05-01T10:00:00+0000" into the storage literal
// "2023-05-01 10:00:00". The offset is stripped, not converted.
func NormalizeExternalTimestamp(raw string) string {
	trimmed, _, _ := strings.Cut(raw, "+")
	return strings.ReplaceAll(trimmed, "T", " ")
}
