// ABOUTME: MCP server subcommand
// ABOUTME: Serves the CRM tools over stdio for desktop agent integration
package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/harperreed/prospect/handlers"
	"github.com/harperreed/prospect/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(ctx context.Context, svc *service.Service, version string, logger *log.Logger) error {
	logger.Info("starting MCP server", "version", version)

	server := handlers.NewServer(svc, version)
	return server.Run(ctx, &mcp.StdioTransport{})
}
