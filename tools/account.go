package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *Handler) getAccountInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	account, err := h.client.GetAccount(ctx)
	if err != nil {
		return h.errorResult(err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Account %s\n", account.Address)
	fmt.Fprintf(&b, "  Balance: %s USDC\n", account.Balance)
	fmt.Fprintf(&b, "  Domains: %d\n", account.DomainCount)
	if !account.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "  Member since: %s\n", account.CreatedAt.Format("2006-01-02"))
	}

	return mcp.NewToolResultText(b.String()), nil
}
