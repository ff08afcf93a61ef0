// ABOUTME: MCP server assembly
// ABOUTME: Registers every tool, resource and prompt against one service
package handlers

import (
	"github.com/harperreed/prospect/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server exposing the CRM operations.
func NewServer(svc *service.Service, version string) *mcp.Server {
	leadHandlers := NewLeadHandlers(svc)
	contactHandlers := NewContactHandlers(svc)
	activityHandlers := NewActivityHandlers(svc)
	analyticsHandlers := NewAnalyticsHandlers(svc)
	vizHandlers := NewVizHandlers(svc)
	resourceHandlers := NewResourceHandlers(svc)
	promptHandlers := NewPromptHandlers(svc)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "prospect",
		Version: version,
	}, nil)

	// Lead lifecycle
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_lead",
		Description: "Add a new lead to the pipeline",
	}, leadHandlers.AddLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_lead_contact_attempt",
		Description: "Record an outreach attempt and set the lead's last contacted date to today",
	}, leadHandlers.LogContactAttempt)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert_lead",
		Description: "Convert a lead into a contact, stamping today's conversion date",
	}, leadHandlers.ConvertLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "due_lead_followups",
		Description: "List leads due for a contact attempt, never-contacted first then most overdue",
	}, leadHandlers.DueLeadFollowups)

	// Contacts
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Add a contact directly, without going through a lead",
	}, contactHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search leads and contacts by name, email or company",
	}, contactHandlers.FindContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "due_contact_followups",
		Description: "List contacts due for follow-up, never-contacted first then most overdue",
	}, contactHandlers.DueContactFollowups)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_cadence",
		Description: "Set a record's own follow-up interval in days (0 restores the default)",
	}, contactHandlers.SetCadence)

	// Activities
	mcp.AddTool(server, &mcp.Tool{
		Name:        "capture_activity",
		Description: "Capture a new unorganized activity such as a screenshotted conversation",
	}, activityHandlers.CaptureActivity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_activities",
		Description: "List activities, optionally only organized or unorganized ones",
	}, activityHandlers.ListActivities)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "link_activity",
		Description: "Link an activity to a lead or contact, moving it out of the unorganized inbox",
	}, activityHandlers.LinkActivity)

	// Analytics and visualization
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_analytics",
		Description: "Activity metrics per day, record counts and the current activity streak",
	}, analyticsHandlers.GetAnalytics)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "engagement_graph",
		Description: "Graphviz DOT graph of leads and contacts with linked activity counts",
	}, vizHandlers.EngagementGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dashboard",
		Description: "Plain-text dashboard of activity, streak and due follow-ups",
	}, vizHandlers.Dashboard)

	for _, r := range resourceHandlers.Resources() {
		server.AddResource(r, resourceHandlers.ReadResource)
	}
	for _, p := range promptHandlers.Prompts() {
		server.AddPrompt(p, promptHandlers.GetPrompt)
	}

	return server
}
