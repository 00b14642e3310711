package sqlstore

import (
	"strings"
	"time"

	"github.com/goliatone/go-leadgen/core"
)

func newPageRecord(page core.Page, now time.Time) *pageRecord {
	return &pageRecord{
		ID:          strings.TrimSpace(page.ID),
		Name:        strings.TrimSpace(page.Name),
		AccessToken: strings.TrimSpace(page.AccessToken),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (r *pageRecord) toDomain() core.Page {
	if r == nil {
		return core.Page{}
	}
	return core.Page{
		ID:          r.ID,
		Name:        r.Name,
		AccessToken: r.AccessToken,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func newFormRecord(form core.Form, now time.Time) *formRecord {
	record := &formRecord{
		ID:             strings.TrimSpace(form.ID),
		PageID:         strings.TrimSpace(form.PageID),
		Name:           strings.TrimSpace(form.Name),
		ExternalFormID: strings.TrimSpace(form.ExternalFormID),
		SyncEnabled:    form.SyncEnabled,
		AccessToken:    strings.TrimSpace(form.AccessToken),
		CampaignID:     strings.TrimSpace(form.CampaignID),
		SourceID:       strings.TrimSpace(form.SourceID),
		MediumID:       strings.TrimSpace(form.MediumID),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if form.Team != nil && strings.TrimSpace(form.Team.ID) != "" {
		teamID := strings.TrimSpace(form.Team.ID)
		record.TeamID = &teamID
	}
	return record
}

func (r *formRecord) toDomain() core.Form {
	if r == nil {
		return core.Form{}
	}
	form := core.Form{
		ID:             r.ID,
		PageID:         r.PageID,
		Name:           r.Name,
		ExternalFormID: r.ExternalFormID,
		SyncEnabled:    r.SyncEnabled,
		AccessToken:    r.AccessToken,
		CampaignID:     r.CampaignID,
		SourceID:       r.SourceID,
		MediumID:       r.MediumID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	for _, mapping := range r.Mappings {
		form.Mappings = append(form.Mappings, mapping.toDomain())
	}
	if r.Team != nil {
		team := r.Team.toDomain()
		form.Team = &team
	}
	return form
}

func newFieldMappingRecord(mapping core.FieldMapping, now time.Time) *fieldMappingRecord {
	return &fieldMappingRecord{
		ID:             strings.TrimSpace(mapping.ID),
		FormID:         strings.TrimSpace(mapping.FormID),
		ExternalField:  strings.TrimSpace(mapping.ExternalField),
		TargetField:    strings.TrimSpace(mapping.TargetField),
		TargetLabel:    strings.TrimSpace(mapping.TargetLabel),
		TargetType:     string(mapping.TargetType),
		TargetRelation: strings.TrimSpace(mapping.TargetRelation),
		CreatedAt:      now,
	}
}

func (r *fieldMappingRecord) toDomain() core.FieldMapping {
	if r == nil {
		return core.FieldMapping{}
	}
	return core.FieldMapping{
		ID:             r.ID,
		FormID:         r.FormID,
		ExternalField:  r.ExternalField,
		TargetField:    r.TargetField,
		TargetLabel:    r.TargetLabel,
		TargetType:     core.FieldType(r.TargetType),
		TargetRelation: r.TargetRelation,
	}
}

func (r *teamRecord) toDomain() core.Team {
	if r == nil {
		return core.Team{}
	}
	return core.Team{
		ID:            r.ID,
		Name:          r.Name,
		DefaultUserID: r.DefaultUserID,
	}
}

func (r *attributionRecord) toDomain() core.AttributionRef {
	if r == nil {
		return core.AttributionRef{}
	}
	return core.AttributionRef{
		ID:         r.ID,
		ExternalID: r.ExternalID,
		Name:       r.Name,
	}
}

func newLeadRecord(lead core.NewLead, now time.Time) *leadRecord {
	return &leadRecord{
		ExternalLeadID: strings.TrimSpace(lead.ExternalLeadID),
		IsOrganic:      lead.IsOrganic,
		Name:           strings.TrimSpace(lead.Name),
		Description:    lead.Description,
		EmailFrom:      strings.TrimSpace(lead.EmailFrom),
		ContactName:    strings.TrimSpace(lead.ContactName),
		Phone:          strings.TrimSpace(lead.Phone),
		FormID:         strings.TrimSpace(lead.FormID),
		TeamID:         strings.TrimSpace(lead.TeamID),
		UserID:         strings.TrimSpace(lead.UserID),
		CampaignID:     strings.TrimSpace(lead.CampaignID),
		SourceID:       strings.TrimSpace(lead.SourceID),
		MediumID:       strings.TrimSpace(lead.MediumID),
		AdsetID:        strings.TrimSpace(lead.AdsetID),
		CreatedTime:    strings.TrimSpace(lead.CreatedTime),
		Extra:          copyAnyMap(lead.Extra),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (r *leadRecord) toDomain() core.Lead {
	if r == nil {
		return core.Lead{}
	}
	return core.Lead{
		ID:             r.ID,
		ExternalLeadID: r.ExternalLeadID,
		Name:           r.Name,
		CreatedAt:      r.CreatedAt,
	}
}

func newSyncRunRecord(run core.SyncRun) *syncRunRecord {
	record := &syncRunRecord{
		ID:        strings.TrimSpace(run.ID),
		FormID:    strings.TrimSpace(run.FormID),
		Status:    string(run.Status),
		Pages:     run.Pages,
		Processed: run.Processed,
		Skipped:   run.Skipped,
		Error:     run.Error,
		StartedAt: run.StartedAt,
	}
	if run.FinishedAt != nil {
		value := *run.FinishedAt
		record.FinishedAt = &value
	}
	return record
}

func (r *syncRunRecord) toDomain() core.SyncRun {
	if r == nil {
		return core.SyncRun{}
	}
	run := core.SyncRun{
		ID:        r.ID,
		FormID:    r.FormID,
		Status:    core.SyncRunStatus(r.Status),
		Pages:     r.Pages,
		Processed: r.Processed,
		Skipped:   r.Skipped,
		Error:     r.Error,
		StartedAt: r.StartedAt,
	}
	if r.FinishedAt != nil {
		value := *r.FinishedAt
		run.FinishedAt = &value
	}
	return run
}

func copyAnyMap(in map[string]any) map[string]any {
	if len(in) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func isUniqueViolation(err error) bool {
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	return strings.Contains(message, "unique constraint failed") ||
		strings.Contains(message, "duplicate key value violates unique constraint")
}
