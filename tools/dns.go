package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nameforge/nameforge/registrar"
)

const defaultRecordTTL = 3600

func (h *Handler) getDNSRecords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, err := request.RequireString("domain")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	records, err := h.client.ListDNSRecords(ctx, domain)
	if err != nil {
		return h.errorResult(err), nil
	}

	if len(records) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("%s has no DNS records.", domain)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "DNS records for %s:\n", domain)
	for _, record := range records {
		b.WriteString("• " + formatRecord(record) + "\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (h *Handler) createDNSRecord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, record, errResult := recordFromRequest(request)
	if errResult != nil {
		return errResult, nil
	}

	created, err := h.client.CreateDNSRecord(ctx, domain, record)
	if err != nil {
		return h.errorResult(err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created record on %s:\n• %s", domain, formatRecord(*created))), nil
}

func (h *Handler) updateDNSRecord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recordID, err := request.RequireString("record_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	domain, record, errResult := recordFromRequest(request)
	if errResult != nil {
		return errResult, nil
	}

	updated, err := h.client.UpdateDNSRecord(ctx, domain, recordID, record)
	if err != nil {
		return h.errorResult(err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Updated record %s on %s:\n• %s", recordID, domain, formatRecord(*updated))), nil
}

func (h *Handler) deleteDNSRecord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, err := request.RequireString("domain")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	recordID, err := request.RequireString("record_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := h.client.DeleteDNSRecord(ctx, domain, recordID); err != nil {
		return h.errorResult(err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Deleted record %s from %s.", recordID, domain)), nil
}

// recordFromRequest extracts the shared record arguments of the
// create/update tools.
func recordFromRequest(request mcp.CallToolRequest) (string, registrar.DNSRecord, *mcp.CallToolResult) {
	domain, err := request.RequireString("domain")
	if err != nil {
		return "", registrar.DNSRecord{}, mcp.NewToolResultError(err.Error())
	}
	recordType, err := request.RequireString("type")
	if err != nil {
		return "", registrar.DNSRecord{}, mcp.NewToolResultError(err.Error())
	}
	name, err := request.RequireString("name")
	if err != nil {
		return "", registrar.DNSRecord{}, mcp.NewToolResultError(err.Error())
	}
	content, err := request.RequireString("content")
	if err != nil {
		return "", registrar.DNSRecord{}, mcp.NewToolResultError(err.Error())
	}

	record := registrar.DNSRecord{
		Type:     strings.ToUpper(recordType),
		Name:     name,
		Content:  content,
		TTL:      request.GetInt("ttl", defaultRecordTTL),
		Priority: request.GetInt("priority", 0),
	}
	return domain, record, nil
}

func formatRecord(record registrar.DNSRecord) string {
	line := fmt.Sprintf("[%s] %s %s -> %s", record.ID, record.Type, record.Name, record.Content)
	if record.TTL > 0 {
		line += fmt.Sprintf(" (TTL %ds", record.TTL)
		if record.Priority > 0 {
			line += fmt.Sprintf(", priority %d", record.Priority)
		}
		line += ")"
	}
	return line
}
