package core

import (
	"fmt"
	"strings"
	"time"
)

// FieldType is the declared type tag of a CRM target field. The tag drives
// value coercion when an external field value is mapped onto the target.
type FieldType string

const (
	FieldTypeChar      FieldType = "char"
	FieldTypeText      FieldType = "text"
	FieldTypeHTML      FieldType = "html"
	FieldTypePhone     FieldType = "phone"
	FieldTypeSelection FieldType = "selection"
	FieldTypeFloat     FieldType = "float"
	FieldTypeMonetary  FieldType = "monetary"
	FieldTypeInteger   FieldType = "integer"
	FieldTypeDate      FieldType = "date"
	FieldTypeDatetime  FieldType = "datetime"
	FieldTypeBoolean   FieldType = "boolean"
	FieldTypeMany2One  FieldType = "many2one"
)

func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeChar, FieldTypeText, FieldTypeHTML, FieldTypePhone,
		FieldTypeSelection, FieldTypeFloat, FieldTypeMonetary, FieldTypeInteger,
		FieldTypeDate, FieldTypeDatetime, FieldTypeBoolean, FieldTypeMany2One:
		return true
	default:
		return false
	}
}

// FieldMapping binds one external form field to a CRM target field. A mapping
// whose TargetField is empty is a placeholder created from the form schema and
// contributes its value to the lead description only.
type FieldMapping struct {
	ID             string
	FormID         string
	ExternalField  string
	TargetField    string
	TargetLabel    string
	TargetType     FieldType
	TargetRelation string
}

func (m FieldMapping) HasTarget() bool {
	return strings.TrimSpace(m.TargetField) != ""
}

func (m FieldMapping) Validate() error {
	if strings.TrimSpace(m.FormID) == "" {
		return fmt.Errorf("core: field mapping form id is required")
	}
	if strings.TrimSpace(m.ExternalField) == "" {
		return fmt.Errorf("core: field mapping external field is required")
	}
	if m.HasTarget() && !m.TargetType.IsValid() {
		return fmt.Errorf("core: field mapping %q has invalid target type %q", m.ExternalField, m.TargetType)
	}
	if m.TargetType == FieldTypeMany2One && strings.TrimSpace(m.TargetRelation) == "" {
		return fmt.Errorf("core: field mapping %q requires a target relation", m.ExternalField)
	}
	return nil
}

// Team is the sales team a form can route its leads to. DefaultUserID is the
// assignee copied onto every lead created for the team.
type Team struct {
	ID            string
	Name          string
	DefaultUserID string
}

// Page is a registered Facebook page. Its access token is inherited by every
// form discovered under it.
type Page struct {
	ID          string
	Name        string
	AccessToken string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Page) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("core: page name is required")
	}
	if strings.TrimSpace(p.AccessToken) == "" {
		return fmt.Errorf("core: page access token is required")
	}
	return nil
}

// Form is an external lead-generation form definition together with its sync
// configuration. CampaignID, SourceID, and MediumID are static attribution
// overrides; when set they take precedence over values resolved from the lead
// payload.
type Form struct {
	ID             string
	PageID         string
	Name           string
	ExternalFormID string
	SyncEnabled    bool
	AccessToken    string
	Mappings       []FieldMapping
	Team           *Team
	CampaignID     string
	SourceID       string
	MediumID       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (f Form) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("core: form name is required")
	}
	if strings.TrimSpace(f.ExternalFormID) == "" {
		return fmt.Errorf("core: form external form id is required")
	}
	return nil
}

// FieldValue is one flattened (name, value) pair from a lead payload. Pairs
// keep payload encounter order, which the mapping resolver relies on for
// deterministic note ordering.
type FieldValue struct {
	Name  string
	Value string
}

// LeadPayload is a single lead submission after flattening the platform's
// nested field_data structure. Only the first value of each field survives
// flattening.
type LeadPayload struct {
	ExternalID   string
	CreatedTime  string
	IsOrganic    bool
	AdID         string
	AdName       string
	AdsetID      string
	AdsetName    string
	CampaignID   string
	CampaignName string
	Fields       []FieldValue
}

// Field returns the flattened value for name, comma-ok style.
func (p LeadPayload) Field(name string) (string, bool) {
	for _, field := range p.Fields {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}

// AttributionKind identifies one of the three attribution entity collections.
type AttributionKind string

const (
	AttributionAd       AttributionKind = "ad"
	AttributionAdset    AttributionKind = "adset"
	AttributionCampaign AttributionKind = "campaign"
)

func (k AttributionKind) IsValid() bool {
	switch k {
	case AttributionAd, AttributionAdset, AttributionCampaign:
		return true
	default:
		return false
	}
}

// AttributionRef is the identity of a resolved attribution entity. Resolver
// methods return it comma-ok so an absent external id is distinguishable from
// a lookup failure.
type AttributionRef struct {
	ID         string
	ExternalID string
	Name       string
}

// FormFieldDescriptor is one entry of a form's field schema as reported by
// the platform.
type FormFieldDescriptor struct {
	Label string
	Key   string
}

// NewLead is the complete value set for one CRM opportunity record produced
// by the lead assembler. Extra carries mapped target fields that have no
// first-class column on the opportunity.
type NewLead struct {
	ExternalLeadID string
	IsOrganic      bool
	Name           string
	Description    string
	EmailFrom      string
	ContactName    string
	Phone          string
	FormID         string
	TeamID         string
	UserID         string
	CampaignID     string
	SourceID       string
	MediumID       string
	AdsetID        string
	CreatedTime    string
	Extra          map[string]any
}

func (l NewLead) Validate() error {
	if strings.TrimSpace(l.ExternalLeadID) == "" {
		return fmt.Errorf("core: new lead external lead id is required")
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("core: new lead name is required")
	}
	return nil
}

// Lead is a stored opportunity record as returned by the lead store.
type Lead struct {
	ID             string
	ExternalLeadID string
	Name           string
	CreatedAt      time.Time
}

// SyncRunStatus is the lifecycle state of one per-form sync run.
type SyncRunStatus string

const (
	SyncRunStatusRunning   SyncRunStatus = "running"
	SyncRunStatusSucceeded SyncRunStatus = "succeeded"
	SyncRunStatusFailed    SyncRunStatus = "failed"
)

// SyncRun records one sync attempt for one form. A failed run keeps the error
// text so operators can see why a form produced no records that invocation.
type SyncRun struct {
	ID         string
	FormID     string
	Status     SyncRunStatus
	Pages      int
	Processed  int
	Skipped    int
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}
