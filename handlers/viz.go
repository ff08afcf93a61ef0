// ABOUTME: Visualization MCP handlers
// ABOUTME: Provides engagement_graph and dashboard tools for agents
package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/harperreed/prospect/service"
	"github.com/harperreed/prospect/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type VizHandlers struct {
	svc *service.Service
}

func NewVizHandlers(svc *service.Service) *VizHandlers {
	return &VizHandlers{svc: svc}
}

type EngagementGraphInput struct{}

type EngagementGraphOutput struct {
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) EngagementGraph(ctx context.Context, request *mcp.CallToolRequest, input EngagementGraphInput) (*mcp.CallToolResult, EngagementGraphOutput, error) {
	dot, err := viz.NewGraphGenerator(h.svc).GenerateEngagementGraph(ctx)
	if err != nil {
		return nil, EngagementGraphOutput{}, toolError(err)
	}

	nodeCount, edgeCount := countDOT(dot)
	return nil, EngagementGraphOutput{DOTSource: dot, NodeCount: nodeCount, EdgeCount: edgeCount}, nil
}

type DashboardInput struct {
	Days int `json:"days,omitempty" jsonschema:"Window length in days (default 7)"`
}

type DashboardOutput struct {
	Text string `json:"text"`
}

func (h *VizHandlers) Dashboard(ctx context.Context, request *mcp.CallToolRequest, input DashboardInput) (*mcp.CallToolResult, DashboardOutput, error) {
	raw := ""
	if input.Days != 0 {
		raw = strconv.Itoa(input.Days)
	}
	stats, err := viz.GenerateDashboardStats(ctx, h.svc, raw)
	if err != nil {
		return nil, DashboardOutput{}, toolError(err)
	}
	return nil, DashboardOutput{Text: viz.RenderDashboard(stats)}, nil
}

// countDOT counts node and edge statements in rendered DOT source.
func countDOT(dot string) (nodes, edges int) {
	for _, line := range strings.Split(dot, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "[") {
			continue
		}
		switch {
		case strings.Contains(line, "->"):
			edges++
		case strings.HasPrefix(line, "graph"), strings.HasPrefix(line, "node"), strings.HasPrefix(line, "edge"):
		default:
			nodes++
		}
	}
	return nodes, edges
}
