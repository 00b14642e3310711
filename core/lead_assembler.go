package core

import (
	"context"
	"fmt"
	"strings"
)

// Target field names the assembler promotes from mapping output onto the
// opportunity's first-class columns.
const (
	targetFieldName        = "name"
	targetFieldEmailFrom   = "email_from"
	targetFieldContactName = "contact_name"
	targetFieldPhone       = "phone"
)

// LeadAssembler combines mapping resolution, attribution resolution, and
// form-level static configuration into a complete opportunity value set. It
// performs no I/O beyond the attribution resolver and many2one lookups.
type LeadAssembler struct {
	attribution *AttributionResolver
	lookup      ReferenceLookup
}

func NewLeadAssembler(attribution *AttributionResolver, lookup ReferenceLookup) (*LeadAssembler, error) {
	if attribution == nil {
		return nil, fmt.Errorf("core: attribution resolver is required")
	}
	return &LeadAssembler{attribution: attribution, lookup: lookup}, nil
}

func (a *LeadAssembler) Assemble(ctx context.Context, payload LeadPayload, form Form) (NewLead, error) {
	if a == nil || a.attribution == nil {
		return NewLead{}, fmt.Errorf("core: lead assembler is not configured")
	}
	if strings.TrimSpace(payload.ExternalID) == "" {
		return NewLead{}, fmt.Errorf("core: lead payload external id is required")
	}

	resolved, err := ResolveFields(ctx, payload.Fields, form.Mappings, a.lookup)
	if err != nil {
		return NewLead{}, err
	}

	lead := NewLead{
		ExternalLeadID: payload.ExternalID,
		IsOrganic:      payload.IsOrganic,
		FormID:         form.ID,
		Description:    strings.Join(resolved.Notes, "\n"),
		CreatedTime:    NormalizeExternalTimestamp(payload.CreatedTime),
		Extra:          map[string]any{},
	}

	lead.Name = takeString(resolved.Values, targetFieldName)
	lead.EmailFrom = takeString(resolved.Values, targetFieldEmailFrom)
	lead.ContactName = takeString(resolved.Values, targetFieldContactName)
	lead.Phone = takeString(resolved.Values, targetFieldPhone)
	for field, value := range resolved.Values {
		lead.Extra[field] = value
	}

	// Mapping output wins; direct payload fields only fill the gaps.
	if lead.EmailFrom == "" {
		if email, ok := payload.Field("email"); ok {
			lead.EmailFrom = email
		}
	}
	if lead.ContactName == "" {
		if fullName, ok := payload.Field("full_name"); ok {
			lead.ContactName = fullName
		}
	}
	if lead.Phone == "" {
		if phone, ok := payload.Field("phone_number"); ok {
			lead.Phone = phone
		}
	}
	if lead.Name == "" {
		lead.Name = fmt.Sprintf("%s - %s", form.Name, payload.ExternalID)
	}

	if form.Team != nil {
		lead.TeamID = form.Team.ID
		lead.UserID = form.Team.DefaultUserID
	}

	lead.CampaignID = strings.TrimSpace(form.CampaignID)
	if lead.CampaignID == "" {
		if campaign, ok, resolveErr := a.attribution.ResolveCampaign(ctx, payload); resolveErr != nil {
			return NewLead{}, resolveErr
		} else if ok {
			lead.CampaignID = campaign.ID
		}
	}

	// Source has no resolver fallback: static override or absent.
	lead.SourceID = strings.TrimSpace(form.SourceID)

	lead.MediumID = strings.TrimSpace(form.MediumID)
	if lead.MediumID == "" {
		if ad, ok, resolveErr := a.attribution.ResolveAd(ctx, payload); resolveErr != nil {
			return NewLead{}, resolveErr
		} else if ok {
			lead.MediumID = ad.ID
		}
	}

	// Ad-sets have no static override path.
	if adset, ok, resolveErr := a.attribution.ResolveAdset(ctx, payload); resolveErr != nil {
		return NewLead{}, resolveErr
	} else if ok {
		lead.AdsetID = adset.ID
	}

	return lead, nil
}

func takeString(values map[string]any, field string) string {
	value, ok := values[field]
	if !ok {
		return ""
	}
	delete(values, field)
	text, ok := value.(string)
	if !ok {
		return ""
	}
	return text
}
