// Package tools registers the nameforge MCP tools. Handlers are thin
// formatting glue: every call goes through the registrar client and
// every failure is normalized by registrar.Classify before it reaches
// the agent.
package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/nameforge/nameforge/registrar"
)

// Handler holds the shared state of all tool handlers.
type Handler struct {
	client *registrar.Client
	logger zerolog.Logger
}

// NewServer builds the MCP server with the full tool surface registered.
func NewServer(client *registrar.Client, logger zerolog.Logger, version string) *server.MCPServer {
	h := &Handler{client: client, logger: logger}

	s := server.NewMCPServer("nameforge", version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(mcp.NewTool("search_domains",
		mcp.WithDescription("Search for available domain names matching a query."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search term, e.g. a brand or project name")),
		mcp.WithString("tlds", mcp.Description("Comma-separated list of TLDs to include, e.g. \"com,io,xyz\"")),
	), h.searchDomains)

	s.AddTool(mcp.NewTool("check_availability",
		mcp.WithDescription("Check whether one or more domains are available for registration."),
		mcp.WithString("domains", mcp.Required(), mcp.Description("Domain name, or a comma-separated list of domains")),
	), h.checkAvailability)

	s.AddTool(mcp.NewTool("register_domain",
		mcp.WithDescription("Register a domain. This is a paid operation settled from the configured wallet; it waits for provisioning to finish."),
		mcp.WithString("domain", mcp.Required(), mcp.Description("Fully qualified domain to register")),
		mcp.WithNumber("years", mcp.Description("Registration period in years (default 1)")),
	), h.registerDomain)

	s.AddTool(mcp.NewTool("list_my_domains",
		mcp.WithDescription("List the domains owned by the configured wallet."),
	), h.listDomains)

	s.AddTool(mcp.NewTool("get_domain_info",
		mcp.WithDescription("Show registration details of one owned domain."),
		mcp.WithString("domain", mcp.Required(), mcp.Description("Domain name")),
	), h.getDomainInfo)

	s.AddTool(mcp.NewTool("get_dns_records",
		mcp.WithDescription("List the DNS records of an owned domain."),
		mcp.WithString("domain", mcp.Required(), mcp.Description("Domain name")),
	), h.getDNSRecords)

	s.AddTool(mcp.NewTool("create_dns_record",
		mcp.WithDescription("Create a DNS record on an owned domain. Paid operation."),
		mcp.WithString("domain", mcp.Required(), mcp.Description("Domain name")),
		mcp.WithString("type", mcp.Required(), mcp.Description("Record type: A, AAAA, CNAME, TXT, MX, NS")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Record name, \"@\" for the apex")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Record value")),
		mcp.WithNumber("ttl", mcp.Description("TTL in seconds (default 3600)")),
		mcp.WithNumber("priority", mcp.Description("Priority, MX records only")),
	), h.createDNSRecord)

	s.AddTool(mcp.NewTool("update_dns_record",
		mcp.WithDescription("Update an existing DNS record. Paid operation."),
		mcp.WithString("domain", mcp.Required(), mcp.Description("Domain name")),
		mcp.WithString("record_id", mcp.Required(), mcp.Description("Identifier of the record to update")),
		mcp.WithString("type", mcp.Required(), mcp.Description("Record type: A, AAAA, CNAME, TXT, MX, NS")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Record name, \"@\" for the apex")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Record value")),
		mcp.WithNumber("ttl", mcp.Description("TTL in seconds")),
		mcp.WithNumber("priority", mcp.Description("Priority, MX records only")),
	), h.updateDNSRecord)

	s.AddTool(mcp.NewTool("delete_dns_record",
		mcp.WithDescription("Delete a DNS record from an owned domain."),
		mcp.WithString("domain", mcp.Required(), mcp.Description("Domain name")),
		mcp.WithString("record_id", mcp.Required(), mcp.Description("Identifier of the record to delete")),
	), h.deleteDNSRecord)

	s.AddTool(mcp.NewTool("get_account_info",
		mcp.WithDescription("Show the account bound to the configured wallet: address, balance, and domain count."),
	), h.getAccountInfo)

	return s
}

// ServeStdio runs the server over stdin/stdout until the host closes
// the stream.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// errorResult funnels a failure through the classifier.
func (h *Handler) errorResult(err error) *mcp.CallToolResult {
	result := registrar.Classify(err)
	h.logger.Debug().Err(err).Str("message", result.Message).Msg("Tool call failed")
	return mcp.NewToolResultError(result.Message)
}
