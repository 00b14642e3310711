package facebook

import (
	"github.com/goliatone/go-leadgen/core"
)

type leadsEnvelope struct {
	Data   []leadRecord `json:"data"`
	Paging paging       `json:"paging"`
}

type formsEnvelope struct {
	Data   []formRecord `json:"data"`
	Paging paging       `json:"paging"`
}

type paging struct {
	Next string `json:"next"`
}

type leadRecord struct {
	ID           string           `json:"id"`
	CreatedTime  string           `json:"created_time"`
	IsOrganic    bool             `json:"is_organic"`
	AdID         string           `json:"ad_id"`
	AdName       string           `json:"ad_name"`
	AdsetID      string           `json:"adset_id"`
	AdsetName    string           `json:"adset_name"`
	CampaignID   string           `json:"campaign_id"`
	CampaignName string           `json:"campaign_name"`
	Email        string           `json:"email"`
	FullName     string           `json:"full_name"`
	PhoneNumber  string           `json:"phone_number"`
	FieldData    []fieldDataEntry `json:"field_data"`
}

type fieldDataEntry struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type formRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type formFieldRecord struct {
	Label    string `json:"label"`
	Key      string `json:"key"`
	FieldKey string `json:"field_key"`
}

// flattenLead collapses the nested field_data structure into ordered
// (name, value) pairs, keeping only the first value of each entry. Direct
// contact members the platform reports outside field_data are appended after
// the form answers so the mapping resolver can still see them.
func flattenLead(record leadRecord) core.LeadPayload {
	payload := core.LeadPayload{
		ExternalID:   record.ID,
		CreatedTime:  record.CreatedTime,
		IsOrganic:    record.IsOrganic,
		AdID:         record.AdID,
		AdName:       record.AdName,
		AdsetID:      record.AdsetID,
		AdsetName:    record.AdsetName,
		CampaignID:   record.CampaignID,
		CampaignName: record.CampaignName,
	}

	for _, entry := range record.FieldData {
		if entry.Name == "" || len(entry.Values) == 0 {
			continue
		}
		payload.Fields = append(payload.Fields, core.FieldValue{
			Name:  entry.Name,
			Value: entry.Values[0],
		})
	}

	appendDirectField(&payload, "email", record.Email)
	appendDirectField(&payload, "full_name", record.FullName)
	appendDirectField(&payload, "phone_number", record.PhoneNumber)

	return payload
}

func appendDirectField(payload *core.LeadPayload, name string, value string) {
	if value == "" {
		return
	}
	if _, exists := payload.Field(name); exists {
		return
	}
	payload.Fields = append(payload.Fields, core.FieldValue{Name: name, Value: value})
}
