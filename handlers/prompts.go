// ABOUTME: MCP prompt handlers for reusable CRM workflow templates
// ABOUTME: Builds follow-up planning and lead review prompts from live data
package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/harperreed/prospect/service"
	"github.com/harperreed/prospect/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	svc *service.Service
}

func NewPromptHandlers(svc *service.Service) *PromptHandlers {
	return &PromptHandlers{svc: svc}
}

// Prompts lists the prompt templates this handler serves.
func (h *PromptHandlers) Prompts() []*mcp.Prompt {
	return []*mcp.Prompt{
		{
			Name:        "follow-up-plan",
			Description: "Plan today's outreach from the leads and contacts that are due",
		},
		{
			Name:        "lead-review",
			Description: "Review one lead's history and suggest whether to convert it",
			Arguments: []*mcp.PromptArgument{
				{Name: "lead_id", Description: "Lead ID", Required: true},
			},
		},
	}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch request.Params.Name {
	case "follow-up-plan":
		return h.getFollowUpPlanPrompt(ctx)
	case "lead-review":
		return h.getLeadReviewPrompt(ctx, request.Params.Arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) getFollowUpPlanPrompt(ctx context.Context) (*mcp.GetPromptResult, error) {
	leads, err := h.svc.GetDueLeadFollowups(ctx)
	if err != nil {
		return nil, toolError(err)
	}
	contacts, err := h.svc.GetDueContactFollowups(ctx)
	if err != nil {
		return nil, toolError(err)
	}

	var promptText strings.Builder
	promptText.WriteString("Help me plan today's outreach. These records are due for follow-up:\n\n")
	promptText.WriteString("LEADS\n")
	if leads.Count == 0 {
		promptText.WriteString("- none\n")
	}
	for _, r := range leads.Followups {
		promptText.WriteString(fmt.Sprintf("- [%d] %s\n", r.ID, viz.DueSummary(r)))
	}
	promptText.WriteString("\nCONTACTS\n")
	if len(contacts) == 0 {
		promptText.WriteString("- none\n")
	}
	for _, r := range contacts {
		promptText.WriteString(fmt.Sprintf("- [%d] %s\n", r.ID, viz.DueSummary(r)))
	}
	promptText.WriteString("\nSuggest an order, a channel and a one-line opener for each. ")
	promptText.WriteString("After each attempt, call log_lead_contact_attempt for leads.")

	return &mcp.GetPromptResult{
		Description: "Follow-up plan",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText.String()},
			},
		},
	}, nil
}

func (h *PromptHandlers) getLeadReviewPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	raw, ok := args["lead_id"]
	if !ok {
		return nil, fmt.Errorf("lead_id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid lead_id: %w", err)
	}

	lead, err := h.svc.GetContact(ctx, id)
	if err != nil {
		return nil, toolError(err)
	}
	attempts, err := h.svc.ListAttempts(ctx, id, 20)
	if err != nil {
		return nil, toolError(err)
	}
	linked, err := h.svc.ListContactActivities(ctx, id)
	if err != nil {
		return nil, toolError(err)
	}

	var promptText strings.Builder
	promptText.WriteString("Please review this lead and recommend whether to convert it to a contact:\n\n")
	promptText.WriteString(fmt.Sprintf("Name: %s\n", lead.Name))
	if lead.Company != "" {
		promptText.WriteString(fmt.Sprintf("Company: %s\n", lead.Company))
	}
	promptText.WriteString(fmt.Sprintf("Type: %s\n", lead.ContactType))
	if lead.LastContactedDate != nil {
		promptText.WriteString(fmt.Sprintf("Last contacted: %s\n", lead.LastContactedDate))
	}
	if lead.Notes != "" {
		promptText.WriteString(fmt.Sprintf("Notes: %s\n", lead.Notes))
	}

	promptText.WriteString(fmt.Sprintf("\nContact attempts (%d):\n", len(attempts)))
	for _, a := range attempts {
		line := fmt.Sprintf("- %s via %s", a.AttemptedOn, a.Channel)
		if a.Notes != "" {
			line += ": " + a.Notes
		}
		promptText.WriteString(line + "\n")
	}

	promptText.WriteString(fmt.Sprintf("\nLinked activities (%d):\n", len(linked)))
	for _, a := range linked {
		promptText.WriteString(fmt.Sprintf("- %s: %s\n", a.OccurredOn, a.Content))
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Lead review for %s", lead.Name),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText.String()},
			},
		},
	}, nil
}
