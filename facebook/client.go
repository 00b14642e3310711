package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-leadgen/core"
)

const (
	defaultRequestTimeout = 30 * time.Second
	maxResponseBodyBytes  = 1 << 22

	leadsPath = "/leads"
	formsPath = "/leadgen_forms"

	// leadFields is the field list requested for every leads query. The
	// platform echoes exactly these members plus the lead id.
	leadFields = "created_time,field_data,ad_id,ad_name,adset_id,adset_name,campaign_id,campaign_name,is_organic"
)

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	// BaseURL is the versioned Graph API root, e.g.
	// https://graph.facebook.com/v6.0/.
	BaseURL string
	// TimeCreatedFloor is the fixed unix-epoch lower bound of the
	// time_created filter applied to every leads query.
	TimeCreatedFloor int64
	RequestTimeout   time.Duration
	HTTPClient       HTTPDoer
}

// Client fetches leads, form directories, and form field schemas from the
// Graph API. It owns no retry behavior; errors propagate to the caller.
type Client struct {
	config     ClientConfig
	httpClient HTTPDoer
}

func NewClient(cfg ClientConfig) (*Client, error) {
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("facebook: base url is required")
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}
	return &Client{config: cfg, httpClient: httpClient}, nil
}

// FetchLeads issues the initial leads query for a form.
func (c *Client) FetchLeads(ctx context.Context, form core.Form) (core.PageResult[core.LeadPayload], error) {
	if c == nil {
		return core.PageResult[core.LeadPayload]{}, fmt.Errorf("facebook: client is required")
	}
	externalFormID := strings.TrimSpace(form.ExternalFormID)
	if externalFormID == "" {
		return core.PageResult[core.LeadPayload]{}, fmt.Errorf("facebook: form external form id is required")
	}

	filter, err := timeCreatedFilter(c.config.TimeCreatedFloor)
	if err != nil {
		return core.PageResult[core.LeadPayload]{}, err
	}
	query := url.Values{}
	query.Set("access_token", form.AccessToken)
	query.Set("fields", leadFields)
	query.Set("filtering", filter)

	requestURL := c.config.BaseURL + externalFormID + leadsPath + "?" + query.Encode()
	return c.FetchLeadsPage(ctx, requestURL)
}

// FetchLeadsPage fetches the page behind a fully qualified cursor URL. The
// platform embeds the access token in its next cursors.
func (c *Client) FetchLeadsPage(ctx context.Context, pageURL string) (core.PageResult[core.LeadPayload], error) {
	var envelope leadsEnvelope
	if err := c.getJSON(ctx, pageURL, &envelope); err != nil {
		return core.PageResult[core.LeadPayload]{}, err
	}

	payloads := make([]core.LeadPayload, 0, len(envelope.Data))
	for _, record := range envelope.Data {
		payloads = append(payloads, flattenLead(record))
	}
	return core.PageResult[core.LeadPayload]{
		Items: payloads,
		Next:  envelope.Paging.Next,
	}, nil
}

// FetchForms lists the lead-generation forms published under a page.
func (c *Client) FetchForms(ctx context.Context, page core.Page) (core.PageResult[core.FormDescriptor], error) {
	if c == nil {
		return core.PageResult[core.FormDescriptor]{}, fmt.Errorf("facebook: client is required")
	}
	name := strings.TrimSpace(page.Name)
	if name == "" {
		return core.PageResult[core.FormDescriptor]{}, fmt.Errorf("facebook: page name is required")
	}

	query := url.Values{}
	query.Set("access_token", page.AccessToken)
	requestURL := c.config.BaseURL + name + formsPath + "?" + query.Encode()
	return c.FetchFormsPage(ctx, requestURL)
}

func (c *Client) FetchFormsPage(ctx context.Context, pageURL string) (core.PageResult[core.FormDescriptor], error) {
	var envelope formsEnvelope
	if err := c.getJSON(ctx, pageURL, &envelope); err != nil {
		return core.PageResult[core.FormDescriptor]{}, err
	}

	descriptors := make([]core.FormDescriptor, 0, len(envelope.Data))
	for _, record := range envelope.Data {
		descriptors = append(descriptors, core.FormDescriptor{
			ExternalFormID: record.ID,
			Name:           record.Name,
		})
	}
	return core.PageResult[core.FormDescriptor]{
		Items: descriptors,
		Next:  envelope.Paging.Next,
	}, nil
}

// FetchFormFields retrieves a form's field schema. The schema member name
// depends on the API version baked into the base URL.
func (c *Client) FetchFormFields(ctx context.Context, form core.Form) ([]core.FormFieldDescriptor, error) {
	if c == nil {
		return nil, fmt.Errorf("facebook: client is required")
	}
	externalFormID := strings.TrimSpace(form.ExternalFormID)
	if externalFormID == "" {
		return nil, fmt.Errorf("facebook: form external form id is required")
	}

	fieldKey := VersionFieldKey(c.config.BaseURL)
	query := url.Values{}
	query.Set("access_token", form.AccessToken)
	query.Set("fields", fieldKey)

	var envelope map[string]json.RawMessage
	requestURL := c.config.BaseURL + externalFormID + "?" + query.Encode()
	if err := c.getJSON(ctx, requestURL, &envelope); err != nil {
		return nil, err
	}

	raw, ok := envelope[fieldKey]
	if !ok {
		return nil, nil
	}
	var records []formFieldRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("facebook: decode %s schema for form %s: %w", fieldKey, externalFormID, err)
	}

	descriptors := make([]core.FormFieldDescriptor, 0, len(records))
	for _, record := range records {
		key := record.Key
		if key == "" {
			key = record.FieldKey
		}
		descriptors = append(descriptors, core.FormFieldDescriptor{
			Label: record.Label,
			Key:   key,
		})
	}
	return descriptors, nil
}

func (c *Client) getJSON(ctx context.Context, requestURL string, out any) error {
	if c == nil || c.httpClient == nil {
		return fmt.Errorf("facebook: http client is not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("facebook: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("facebook: fetch %s: %w", req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return fmt.Errorf("facebook: read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("facebook: unexpected status %d fetching %s: %s", resp.StatusCode, req.URL.Path, graphErrorMessage(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("facebook: decode response: %w", err)
	}
	return nil
}

func timeCreatedFilter(floor int64) (string, error) {
	filter := []map[string]any{
		{
			"field":    "time_created",
			"operator": "GREATER_THAN",
			"value":    floor,
		},
	}
	encoded, err := json.Marshal(filter)
	if err != nil {
		return "", fmt.Errorf("facebook: encode time filter: %w", err)
	}
	return string(encoded), nil
}

func graphErrorMessage(body []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    int    `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	trimmed := strings.TrimSpace(string(body))
	if len(trimmed) > 200 {
		trimmed = trimmed[:200]
	}
	return trimmed
}

var (
	_ core.LeadFetcher       = (*Client)(nil)
	_ core.FormDirectory     = (*Client)(nil)
	_ core.FormSchemaFetcher = (*Client)(nil)
)
