package registrar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// SearchDomains looks up name suggestions for a query, optionally
// restricted to a set of TLDs. No authentication required.
func (c *Client) SearchDomains(ctx context.Context, query string, tlds []string) ([]SearchResult, error) {
	params := url.Values{"query": {query}}
	if len(tlds) > 0 {
		params.Set("tlds", strings.Join(tlds, ","))
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/domains/search", params, nil, false)
	if err != nil {
		return nil, err
	}

	var response searchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	c.logger.Debug().Str("query", query).Int("results", len(response.Results)).Msg("Domain search completed")
	return response.Results, nil
}

// CheckAvailability checks whether a single domain can be registered.
// No authentication required.
func (c *Client) CheckAvailability(ctx context.Context, domain string) (*Availability, error) {
	params := url.Values{"domain": {domain}}

	body, err := c.doRequest(ctx, http.MethodGet, "/domains/check", params, nil, false)
	if err != nil {
		return nil, err
	}

	var availability Availability
	if err := json.Unmarshal(body, &availability); err != nil {
		return nil, fmt.Errorf("failed to parse availability response: %w", err)
	}

	return &availability, nil
}

// RegisterDomain submits a paid registration and blocks until the
// resulting provisioning job reaches a terminal state.
func (c *Client) RegisterDomain(ctx context.Context, domain string, years int) (*Job, error) {
	if years <= 0 {
		years = 1
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/domains/register", nil, registerRequest{
		Domain: domain,
		Years:  years,
	}, true)
	if err != nil {
		return nil, err
	}

	var response registerResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse registration response: %w", err)
	}
	if response.JobID == "" {
		return nil, fmt.Errorf("registration response carried no job id")
	}

	c.logger.Info().
		Str("domain", domain).
		Str("job_id", response.JobID).
		Int("years", years).
		Msg("Registration submitted, waiting for provisioning")

	return c.WaitForJob(ctx, response.JobID)
}

// ListDomains returns the domains owned by the authenticated account.
func (c *Client) ListDomains(ctx context.Context) ([]Domain, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/domains", nil, nil, true)
	if err != nil {
		return nil, err
	}

	var response domainsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse domains response: %w", err)
	}

	return response.Domains, nil
}

// GetDomain returns the details of one owned domain.
func (c *Client) GetDomain(ctx context.Context, name string) (*Domain, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/domains/"+url.PathEscape(name), nil, nil, true)
	if err != nil {
		return nil, err
	}

	var domain Domain
	if err := json.Unmarshal(body, &domain); err != nil {
		return nil, fmt.Errorf("failed to parse domain response: %w", err)
	}

	return &domain, nil
}
