package core

import (
	"context"
	"testing"
)

func TestResolveFieldsNoteOrdering(t *testing.T) {
	mappings := []FieldMapping{
		textMapping("form_1", "q1", "x_q1", "Question One"),
		textMapping("form_1", "q2", "x_q2", "Question Two"),
	}
	fields := payloadFields("q1", "a", "custom", "b", "q2", "c")

	resolved, err := ResolveFields(context.Background(), fields, mappings, nil)
	if err != nil {
		t.Fatalf("resolve fields: %v", err)
	}

	want := []string{"Question One: a", "Question Two: c", "custom: b"}
	if len(resolved.Notes) != len(want) {
		t.Fatalf("notes: got %d, want %d (%v)", len(resolved.Notes), len(want), resolved.Notes)
	}
	for i, note := range want {
		if resolved.Notes[i] != note {
			t.Fatalf("note %d: got %q, want %q", i, resolved.Notes[i], note)
		}
	}
	if resolved.Values["x_q1"] != "a" || resolved.Values["x_q2"] != "c" {
		t.Fatalf("values: %v", resolved.Values)
	}
	if _, ok := resolved.Values["custom"]; ok {
		t.Fatal("unmapped field must not produce a value")
	}
}

func TestResolveFieldsTargetlessMappingDefers(t *testing.T) {
	mappings := []FieldMapping{
		textMapping("form_1", "q1", "x_q1", "Question One"),
		{FormID: "form_1", ExternalField: "q2", TargetLabel: "Question Two"},
	}
	fields := payloadFields("q2", "deferred", "q1", "mapped")

	resolved, err := ResolveFields(context.Background(), fields, mappings, nil)
	if err != nil {
		t.Fatalf("resolve fields: %v", err)
	}
	if len(resolved.Notes) != 2 {
		t.Fatalf("notes: %v", resolved.Notes)
	}
	if resolved.Notes[0] != "Question One: mapped" {
		t.Fatalf("mapped note first, got %q", resolved.Notes[0])
	}
	// The target-less mapping renders under the raw field name, after all
	// mapped notes, despite appearing first in the payload.
	if resolved.Notes[1] != "q2: deferred" {
		t.Fatalf("deferred note last, got %q", resolved.Notes[1])
	}
}

func TestResolveFieldsCoercionFailureAborts(t *testing.T) {
	mappings := []FieldMapping{
		{FormID: "form_1", ExternalField: "budget", TargetField: "expected_revenue", TargetLabel: "Budget", TargetType: FieldTypeFloat},
	}
	fields := payloadFields("budget", "N/A")

	if _, err := ResolveFields(context.Background(), fields, mappings, nil); err == nil {
		t.Fatal("expected coercion failure to propagate")
	}
}

func TestResolveFieldsEmptyPayload(t *testing.T) {
	resolved, err := ResolveFields(context.Background(), nil, nil, nil)
	if err != nil {
		t.Fatalf("resolve fields: %v", err)
	}
	if len(resolved.Notes) != 0 || len(resolved.Values) != 0 {
		t.Fatalf("expected empty result, got %+v", resolved)
	}
}
