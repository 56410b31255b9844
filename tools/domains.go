package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/nameforge/nameforge/registrar"
)

// maxCheckConcurrency bounds the availability fan-out.
const maxCheckConcurrency = 5

func (h *Handler) searchDomains(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var tlds []string
	if raw := request.GetString("tlds", ""); raw != "" {
		tlds = splitList(raw)
	}

	results, err := h.client.SearchDomains(ctx, query, tlds)
	if err != nil {
		return h.errorResult(err), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No domains found for %q.", query)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d domains for %q:\n", len(results), query)
	for _, result := range results {
		status := "taken"
		if result.Available {
			status = "available"
			if result.Price != "" {
				status += ", " + result.Price + " USDC/year"
			}
		}
		fmt.Fprintf(&b, "• %s (%s)\n", result.Domain, status)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (h *Handler) checkAvailability(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("domains")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	domains := splitList(raw)
	if len(domains) == 0 {
		return mcp.NewToolResultError("no domain names given"), nil
	}

	if len(domains) == 1 {
		availability, err := h.client.CheckAvailability(ctx, domains[0])
		if err != nil {
			return h.errorResult(err), nil
		}
		return mcp.NewToolResultText(formatAvailability(*availability)), nil
	}

	// Availability checks are free and unauthenticated, so fanning out
	// is safe; results keep the input order.
	results := make([]string, len(domains))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxCheckConcurrency)

	for i, domain := range domains {
		g.Go(func() error {
			availability, err := h.client.CheckAvailability(ctx, domain)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results[i] = fmt.Sprintf("%s: %s", domain, registrar.Classify(err).Message)
				return nil
			}
			results[i] = formatAvailability(*availability)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return h.errorResult(err), nil
	}

	return mcp.NewToolResultText(strings.Join(results, "\n")), nil
}

func (h *Handler) registerDomain(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, err := request.RequireString("domain")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	years := request.GetInt("years", 1)

	job, err := h.client.RegisterDomain(ctx, domain, years)
	if err != nil {
		return h.errorResult(err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Registered %s for %d year(s).\n", domain, years)
	appendJobResult(&b, job)

	return mcp.NewToolResultText(b.String()), nil
}

func (h *Handler) listDomains(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domains, err := h.client.ListDomains(ctx)
	if err != nil {
		return h.errorResult(err), nil
	}

	if len(domains) == 0 {
		return mcp.NewToolResultText("You don't own any domains yet."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You own %d domain(s):\n", len(domains))
	for _, domain := range domains {
		fmt.Fprintf(&b, "• %s (%s", domain.Name, domain.Status)
		if !domain.ExpiresAt.IsZero() {
			fmt.Fprintf(&b, ", expires %s", domain.ExpiresAt.Format("2006-01-02"))
		}
		b.WriteString(")\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (h *Handler) getDomainInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("domain")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	domain, err := h.client.GetDomain(ctx, name)
	if err != nil {
		return h.errorResult(err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", domain.Name)
	fmt.Fprintf(&b, "  Status: %s\n", domain.Status)
	if !domain.RegisteredAt.IsZero() {
		fmt.Fprintf(&b, "  Registered: %s\n", domain.RegisteredAt.Format("2006-01-02"))
	}
	if !domain.ExpiresAt.IsZero() {
		fmt.Fprintf(&b, "  Expires: %s\n", domain.ExpiresAt.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "  Auto-renew: %t\n", domain.AutoRenew)
	if len(domain.Nameservers) > 0 {
		fmt.Fprintf(&b, "  Nameservers: %s\n", strings.Join(domain.Nameservers, ", "))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func formatAvailability(availability registrar.Availability) string {
	if !availability.Available {
		return fmt.Sprintf("%s: taken", availability.Domain)
	}

	status := "available"
	if availability.Premium {
		status = "available (premium)"
	}
	if availability.Price != "" {
		return fmt.Sprintf("%s: %s, %s USDC/year", availability.Domain, status, availability.Price)
	}
	return fmt.Sprintf("%s: %s", availability.Domain, status)
}

func appendJobResult(b *strings.Builder, job *registrar.Job) {
	if len(job.Result) == 0 {
		return
	}

	keys := make([]string, 0, len(job.Result))
	for key := range job.Result {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(b, "  %s: %v\n", key, job.Result[key])
	}
}

// splitList parses a comma-separated argument into trimmed entries.
func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
