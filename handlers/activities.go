// ABOUTME: Activity MCP tool handlers
// ABOUTME: Implements capture_activity, list_activities and link_activity
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/prospect/activities"
	"github.com/harperreed/prospect/models"
	"github.com/harperreed/prospect/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ActivityHandlers struct {
	svc *service.Service
}

func NewActivityHandlers(svc *service.Service) *ActivityHandlers {
	return &ActivityHandlers{svc: svc}
}

type CaptureActivityInput struct {
	Content        string `json:"content" jsonschema:"Description of the interaction"`
	OccurredAt     string `json:"occurred_at,omitempty" jsonschema:"When it happened (RFC3339, default now)"`
	ScreenshotPath string `json:"screenshot_path,omitempty" jsonschema:"Path to a screenshot of the interaction"`
}

func (h *ActivityHandlers) CaptureActivity(ctx context.Context, request *mcp.CallToolRequest, input CaptureActivityInput) (*mcp.CallToolResult, ActivityOutput, error) {
	var occurred time.Time
	if input.OccurredAt != "" {
		t, err := time.Parse(time.RFC3339, input.OccurredAt)
		if err != nil {
			return nil, ActivityOutput{}, fmt.Errorf("INVALID_INPUT: invalid occurred_at format (use RFC3339): %w", err)
		}
		occurred = t
	}

	activity, err := h.svc.CaptureActivity(ctx, activities.CaptureInput{
		Content:        input.Content,
		OccurredAt:     occurred,
		ScreenshotPath: input.ScreenshotPath,
		Source:         models.SourceAPI,
	})
	if err != nil {
		return nil, ActivityOutput{}, toolError(err)
	}
	return nil, activityToOutput(activity), nil
}

type ListActivitiesInput struct {
	Status    string `json:"status,omitempty" jsonschema:"organized or unorganized; empty lists all"`
	ContactID int64  `json:"contact_id,omitempty" jsonschema:"Only activities linked to this contact"`
}

type ListActivitiesOutput struct {
	Activities []ActivityOutput `json:"activities"`
	Count      int              `json:"count"`
}

func (h *ActivityHandlers) ListActivities(ctx context.Context, request *mcp.CallToolRequest, input ListActivitiesInput) (*mcp.CallToolResult, ListActivitiesOutput, error) {
	var (
		list []models.Activity
		err  error
	)
	if input.ContactID != 0 {
		list, err = h.svc.ListContactActivities(ctx, input.ContactID)
	} else {
		list, err = h.svc.ListActivities(ctx, input.Status)
	}
	if err != nil {
		return nil, ListActivitiesOutput{}, toolError(err)
	}

	out := make([]ActivityOutput, len(list))
	for i := range list {
		out[i] = activityToOutput(&list[i])
	}
	return nil, ListActivitiesOutput{Activities: out, Count: len(out)}, nil
}

type LinkActivityInput struct {
	ActivityID int64 `json:"activity_id" jsonschema:"Activity ID (required)"`
	ContactID  int64 `json:"contact_id" jsonschema:"Lead or contact ID to link to (required)"`
}

type MessageOutput struct {
	Message string `json:"message"`
}

func (h *ActivityHandlers) LinkActivity(ctx context.Context, request *mcp.CallToolRequest, input LinkActivityInput) (*mcp.CallToolResult, MessageOutput, error) {
	res, err := h.svc.LinkActivityToContact(ctx, input.ActivityID, input.ContactID)
	if err != nil {
		return nil, MessageOutput{}, toolError(err)
	}
	return nil, MessageOutput{Message: res.Message}, nil
}
