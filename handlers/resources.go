// ABOUTME: MCP resource handlers for exposing CRM data
// ABOUTME: Read-only JSON views of due follow-ups, analytics and the activity inbox
package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/prospect/db"
	"github.com/harperreed/prospect/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	uriLeadFollowups    = "prospect://followups/leads"
	uriContactFollowups = "prospect://followups/contacts"
	uriAnalytics        = "prospect://analytics"
	uriInbox            = "prospect://activities/unorganized"
)

type ResourceHandlers struct {
	svc *service.Service
}

func NewResourceHandlers(svc *service.Service) *ResourceHandlers {
	return &ResourceHandlers{svc: svc}
}

// Resources lists every resource this handler serves.
func (h *ResourceHandlers) Resources() []*mcp.Resource {
	return []*mcp.Resource{
		{Name: "lead_followups", Title: "Due leads", Description: "Leads due for a contact attempt, most urgent first", MIMEType: "application/json", URI: uriLeadFollowups},
		{Name: "contact_followups", Title: "Due contacts", Description: "Contacts due for follow-up, most urgent first", MIMEType: "application/json", URI: uriContactFollowups},
		{Name: "analytics", Title: "Analytics", Description: "Activity metrics, record counts and streak for the default window", MIMEType: "application/json", URI: uriAnalytics},
		{Name: "activity_inbox", Title: "Unorganized activities", Description: "Activities not yet linked to a contact", MIMEType: "application/json", URI: uriInbox},
	}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI

	var (
		data any
		err  error
	)
	switch uri {
	case uriLeadFollowups:
		var res *service.LeadFollowups
		res, err = h.svc.GetDueLeadFollowups(ctx)
		if err == nil {
			data = DueFollowupsOutput{Followups: followupsToOutput(res.Followups), Count: res.Count}
		}
	case uriContactFollowups:
		due, e := h.svc.GetDueContactFollowups(ctx)
		data, err = DueFollowupsOutput{Followups: followupsToOutput(due), Count: len(due)}, e
	case uriAnalytics:
		data, err = h.svc.GetAnalytics(ctx, "")
	case uriInbox:
		list, e := h.svc.ListActivities(ctx, string(db.StatusUnorganized))
		out := make([]ActivityOutput, len(list))
		for i := range list {
			out[i] = activityToOutput(&list[i])
		}
		data, err = out, e
	default:
		return nil, mcp.ResourceNotFoundError(uri)
	}
	if err != nil {
		return nil, toolError(err)
	}

	text, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(text),
		},
	}}, nil
}
