// ABOUTME: Lead MCP tool handlers
// ABOUTME: Implements add_lead, log_lead_contact_attempt, convert_lead and due_lead_followups
package handlers

import (
	"context"

	"github.com/harperreed/prospect/leads"
	"github.com/harperreed/prospect/models"
	"github.com/harperreed/prospect/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type LeadHandlers struct {
	svc *service.Service
}

func NewLeadHandlers(svc *service.Service) *LeadHandlers {
	return &LeadHandlers{svc: svc}
}

type AddLeadInput struct {
	Name        string `json:"name" jsonschema:"Lead name (required)"`
	Email       string `json:"email,omitempty" jsonschema:"Email address"`
	Phone       string `json:"phone,omitempty" jsonschema:"Phone number"`
	Company     string `json:"company,omitempty" jsonschema:"Company name"`
	Notes       string `json:"notes,omitempty" jsonschema:"Free-form notes"`
	CadenceDays int    `json:"cadence_days,omitempty" jsonschema:"Follow-up interval in days, overriding the lead default"`
}

func (h *LeadHandlers) AddLead(ctx context.Context, request *mcp.CallToolRequest, input AddLeadInput) (*mcp.CallToolResult, ContactOutput, error) {
	lead := &models.Contact{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Company: input.Company,
		Notes:   input.Notes,
	}
	if input.CadenceDays != 0 {
		days := input.CadenceDays
		lead.CadenceDays = &days
	}

	created, err := h.svc.CreateLead(ctx, lead)
	if err != nil {
		return nil, ContactOutput{}, toolError(err)
	}
	return nil, contactToOutput(created), nil
}

type LogAttemptInput struct {
	LeadID  int64  `json:"lead_id" jsonschema:"Lead ID (required)"`
	Channel string `json:"channel,omitempty" jsonschema:"meeting, call, email, message or event (default message)"`
	Notes   string `json:"notes,omitempty" jsonschema:"What happened"`
}

type LogAttemptOutput struct {
	Message   string `json:"message"`
	LeadID    int64  `json:"lead_id"`
	Timestamp string `json:"timestamp"`
}

func (h *LeadHandlers) LogContactAttempt(ctx context.Context, request *mcp.CallToolRequest, input LogAttemptInput) (*mcp.CallToolResult, LogAttemptOutput, error) {
	res, err := h.svc.LogLeadContactAttempt(ctx, input.LeadID, leads.AttemptInput{Channel: input.Channel, Notes: input.Notes})
	if err != nil {
		return nil, LogAttemptOutput{}, toolError(err)
	}
	return nil, LogAttemptOutput{Message: res.Message, LeadID: res.LeadID, Timestamp: res.Timestamp}, nil
}

type ConvertLeadInput struct {
	LeadID int64 `json:"lead_id" jsonschema:"Lead ID (required)"`
}

type ConvertLeadOutput struct {
	Message string `json:"message"`
	LeadID  int64  `json:"lead_id"`
}

func (h *LeadHandlers) ConvertLead(ctx context.Context, request *mcp.CallToolRequest, input ConvertLeadInput) (*mcp.CallToolResult, ConvertLeadOutput, error) {
	res, err := h.svc.ConvertLead(ctx, input.LeadID)
	if err != nil {
		return nil, ConvertLeadOutput{}, toolError(err)
	}
	return nil, ConvertLeadOutput{Message: res.Message, LeadID: res.LeadID}, nil
}

type DueFollowupsInput struct{}

type DueFollowupsOutput struct {
	Followups []FollowupOutput `json:"followups"`
	Count     int              `json:"count"`
}

func (h *LeadHandlers) DueLeadFollowups(ctx context.Context, request *mcp.CallToolRequest, input DueFollowupsInput) (*mcp.CallToolResult, DueFollowupsOutput, error) {
	res, err := h.svc.GetDueLeadFollowups(ctx)
	if err != nil {
		return nil, DueFollowupsOutput{}, toolError(err)
	}
	return nil, DueFollowupsOutput{Followups: followupsToOutput(res.Followups), Count: res.Count}, nil
}
