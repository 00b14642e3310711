package core

import (
	"context"
	"fmt"
	"strings"
)

// AttributionResolver implements get-or-create for ad, ad-set, and campaign
// entities keyed by external platform id. It never updates or deletes; the
// storage uniqueness constraint on the external id settles concurrent creates.
type AttributionResolver struct {
	store AttributionStore
}

func NewAttributionResolver(store AttributionStore) (*AttributionResolver, error) {
	if store == nil {
		return nil, fmt.Errorf("core: attribution store is required")
	}
	return &AttributionResolver{store: store}, nil
}

// ResolveAd resolves the medium entity for the payload's ad id. The second
// return is false when the payload carries no ad id.
func (r *AttributionResolver) ResolveAd(ctx context.Context, payload LeadPayload) (AttributionRef, bool, error) {
	return r.resolve(ctx, AttributionAd, payload.AdID, payload.AdName)
}

func (r *AttributionResolver) ResolveAdset(ctx context.Context, payload LeadPayload) (AttributionRef, bool, error) {
	return r.resolve(ctx, AttributionAdset, payload.AdsetID, payload.AdsetName)
}

func (r *AttributionResolver) ResolveCampaign(ctx context.Context, payload LeadPayload) (AttributionRef, bool, error) {
	return r.resolve(ctx, AttributionCampaign, payload.CampaignID, payload.CampaignName)
}

func (r *AttributionResolver) resolve(
	ctx context.Context,
	kind AttributionKind,
	externalID string,
	name string,
) (AttributionRef, bool, error) {
	if r == nil || r.store == nil {
		return AttributionRef{}, false, fmt.Errorf("core: attribution resolver is not configured")
	}
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return AttributionRef{}, false, nil
	}

	ref, found, err := r.store.FindByExternalID(ctx, kind, externalID)
	if err != nil {
		return AttributionRef{}, false, err
	}
	if found {
		return ref, true, nil
	}

	created, err := r.store.Create(ctx, kind, externalID, name)
	if err != nil {
		return AttributionRef{}, false, err
	}
	return created, true, nil
}
