package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type pageRecord struct {
	bun.BaseModel `bun:"table:leadgen_pages,alias:lp"`

	ID          string    `bun:"id,pk"`
	Name        string    `bun:"name,notnull"`
	AccessToken string    `bun:"access_token,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type teamRecord struct {
	bun.BaseModel `bun:"table:leadgen_teams,alias:lt"`

	ID            string    `bun:"id,pk"`
	Name          string    `bun:"name,notnull"`
	DefaultUserID string    `bun:"default_user_id"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type formRecord struct {
	bun.BaseModel `bun:"table:leadgen_forms,alias:lf"`

	ID             string    `bun:"id,pk"`
	PageID         string    `bun:"page_id,notnull"`
	Name           string    `bun:"name,notnull"`
	ExternalFormID string    `bun:"external_form_id,notnull"`
	SyncEnabled    bool      `bun:"sync_enabled,notnull"`
	AccessToken    string    `bun:"access_token,notnull"`
	TeamID         *string   `bun:"team_id"`
	CampaignID     string    `bun:"campaign_id"`
	SourceID       string    `bun:"source_id"`
	MediumID       string    `bun:"medium_id"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`

	Mappings []*fieldMappingRecord `bun:"rel:has-many,join:id=form_id"`
	Team     *teamRecord           `bun:"rel:belongs-to,join:team_id=id"`
}

type fieldMappingRecord struct {
	bun.BaseModel `bun:"table:leadgen_form_field_mappings,alias:lfm"`

	ID             string    `bun:"id,pk"`
	FormID         string    `bun:"form_id,notnull"`
	ExternalField  string    `bun:"external_field,notnull"`
	TargetField    string    `bun:"target_field"`
	TargetLabel    string    `bun:"target_label"`
	TargetType     string    `bun:"target_type"`
	TargetRelation string    `bun:"target_relation"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type attributionRecord struct {
	bun.BaseModel `bun:"table:leadgen_attribution_entities,alias:lae"`

	ID         string    `bun:"id,pk"`
	Kind       string    `bun:"kind,notnull"`
	ExternalID string    `bun:"external_id,notnull"`
	Name       string    `bun:"name"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type leadRecord struct {
	bun.BaseModel `bun:"table:leadgen_leads,alias:ll"`

	ID             string         `bun:"id,pk"`
	ExternalLeadID string         `bun:"external_lead_id,notnull"`
	IsOrganic      bool           `bun:"is_organic,notnull"`
	Name           string         `bun:"name,notnull"`
	Description    string         `bun:"description"`
	EmailFrom      string         `bun:"email_from"`
	ContactName    string         `bun:"contact_name"`
	Phone          string         `bun:"phone"`
	FormID         string         `bun:"form_id"`
	TeamID         string         `bun:"team_id"`
	UserID         string         `bun:"user_id"`
	CampaignID     string         `bun:"campaign_id"`
	SourceID       string         `bun:"source_id"`
	MediumID       string         `bun:"medium_id"`
	AdsetID        string         `bun:"adset_id"`
	CreatedTime    string         `bun:"created_time"`
	Extra          map[string]any `bun:"extra,type:jsonb"`
	CreatedAt      time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt      time.Time      `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type syncRunRecord struct {
	bun.BaseModel `bun:"table:leadgen_sync_runs,alias:lsr"`

	ID         string     `bun:"id,pk"`
	FormID     string     `bun:"form_id,notnull"`
	Status     string     `bun:"status,notnull"`
	Pages      int        `bun:"pages,notnull"`
	Processed  int        `bun:"processed,notnull"`
	Skipped    int        `bun:"skipped,notnull"`
	Error      string     `bun:"error"`
	StartedAt  time.Time  `bun:"started_at,nullzero,notnull"`
	FinishedAt *time.Time `bun:"finished_at,nullzero"`
}
