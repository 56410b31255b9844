package registrar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// ListDNSRecords returns the DNS records of a managed domain.
func (c *Client) ListDNSRecords(ctx context.Context, domain string) ([]DNSRecord, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/dns/"+url.PathEscape(domain)+"/records", nil, nil, true)
	if err != nil {
		return nil, err
	}

	var response recordsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse records response: %w", err)
	}

	return response.Records, nil
}

// CreateDNSRecord adds a record to a managed domain. This is a paid
// mutation; the transport settles the payment transparently when the
// payment layer is active.
func (c *Client) CreateDNSRecord(ctx context.Context, domain string, record DNSRecord) (*DNSRecord, error) {
	record.ID = ""

	body, err := c.doRequest(ctx, http.MethodPost, "/dns/"+url.PathEscape(domain)+"/records", nil, record, true)
	if err != nil {
		return nil, err
	}

	var created DNSRecord
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to parse record response: %w", err)
	}

	c.logger.Info().
		Str("domain", domain).
		Str("type", created.Type).
		Str("record_id", created.ID).
		Msg("DNS record created")

	return &created, nil
}

// UpdateDNSRecord replaces an existing record. Paid mutation.
func (c *Client) UpdateDNSRecord(ctx context.Context, domain, recordID string, record DNSRecord) (*DNSRecord, error) {
	record.ID = ""

	endpoint := "/dns/" + url.PathEscape(domain) + "/records/" + url.PathEscape(recordID)
	body, err := c.doRequest(ctx, http.MethodPut, endpoint, nil, record, true)
	if err != nil {
		return nil, err
	}

	var updated DNSRecord
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, fmt.Errorf("failed to parse record response: %w", err)
	}

	c.logger.Info().
		Str("domain", domain).
		Str("record_id", recordID).
		Msg("DNS record updated")

	return &updated, nil
}

// DeleteDNSRecord removes a record from a managed domain.
func (c *Client) DeleteDNSRecord(ctx context.Context, domain, recordID string) error {
	endpoint := "/dns/" + url.PathEscape(domain) + "/records/" + url.PathEscape(recordID)
	if _, err := c.doRequest(ctx, http.MethodDelete, endpoint, nil, nil, true); err != nil {
		return err
	}

	c.logger.Info().
		Str("domain", domain).
		Str("record_id", recordID).
		Msg("DNS record deleted")

	return nil
}
