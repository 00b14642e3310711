package core

import (
	"context"
	"fmt"
)

// ResolvedFields is the output of mapping resolution: coerced values keyed by
// target field name plus human-readable notes. Notes list every mapped field
// first, then every unmapped field, each group in payload encounter order.
type ResolvedFields struct {
	Values map[string]any
	Notes  []string
}

// ResolveFields partitions a flattened payload into mapped fields (coerced
// per the mapping's target type) and unmapped fields (deferred to notes).
// A pair matches when some mapping's external field equals the pair name and
// that mapping has a target assigned; mappings without a target defer their
// pairs like unknown fields do.
func ResolveFields(
	ctx context.Context,
	fields []FieldValue,
	mappings []FieldMapping,
	lookup ReferenceLookup,
) (ResolvedFields, error) {
	resolved := ResolvedFields{Values: map[string]any{}}

	byExternal := make(map[string]FieldMapping, len(mappings))
	for _, mapping := range mappings {
		if !mapping.HasTarget() {
			continue
		}
		if _, exists := byExternal[mapping.ExternalField]; exists {
			continue
		}
		byExternal[mapping.ExternalField] = mapping
	}

	var deferred []FieldValue
	for _, field := range fields {
		mapping, ok := byExternal[field.Name]
		if !ok {
			deferred = append(deferred, field)
			continue
		}
		value, err := CoerceValue(ctx, mapping, field.Value, lookup)
		if err != nil {
			return ResolvedFields{}, err
		}
		resolved.Values[mapping.TargetField] = value
		resolved.Notes = append(resolved.Notes, fmt.Sprintf("%s: %s", mapping.TargetLabel, field.Value))
	}

	// Unmapped fields render last regardless of payload position.
	for _, field := range deferred {
		resolved.Notes = append(resolved.Notes, fmt.Sprintf("%s: %s", field.Name, field.Value))
	}

	return resolved, nil
}
