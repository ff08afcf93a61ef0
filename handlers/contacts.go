// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements add_contact, find_contacts, due_contact_followups and set_cadence
package handlers

import (
	"context"

	"github.com/harperreed/prospect/db"
	"github.com/harperreed/prospect/models"
	"github.com/harperreed/prospect/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ContactHandlers struct {
	svc *service.Service
}

func NewContactHandlers(svc *service.Service) *ContactHandlers {
	return &ContactHandlers{svc: svc}
}

func (h *ContactHandlers) AddContact(ctx context.Context, request *mcp.CallToolRequest, input AddLeadInput) (*mcp.CallToolResult, ContactOutput, error) {
	contact := &models.Contact{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Company: input.Company,
		Notes:   input.Notes,
	}
	if input.CadenceDays != 0 {
		days := input.CadenceDays
		contact.CadenceDays = &days
	}

	created, err := h.svc.CreateContact(ctx, contact)
	if err != nil {
		return nil, ContactOutput{}, toolError(err)
	}
	return nil, contactToOutput(created), nil
}

type FindContactsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search name, email or company"`
	Type  string `json:"type,omitempty" jsonschema:"lead or contact"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 50)"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
}

func (h *ContactHandlers) FindContacts(ctx context.Context, request *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 50
	}

	list, err := h.svc.ListContacts(ctx, db.ContactFilter{
		Type:  models.ContactType(input.Type),
		Query: input.Query,
		Limit: limit,
	})
	if err != nil {
		return nil, FindContactsOutput{}, toolError(err)
	}

	result := make([]ContactOutput, len(list))
	for i := range list {
		result[i] = contactToOutput(&list[i])
	}
	return nil, FindContactsOutput{Contacts: result}, nil
}

func (h *ContactHandlers) DueContactFollowups(ctx context.Context, request *mcp.CallToolRequest, input DueFollowupsInput) (*mcp.CallToolResult, DueFollowupsOutput, error) {
	due, err := h.svc.GetDueContactFollowups(ctx)
	if err != nil {
		return nil, DueFollowupsOutput{}, toolError(err)
	}
	return nil, DueFollowupsOutput{Followups: followupsToOutput(due), Count: len(due)}, nil
}

type SetCadenceInput struct {
	ID   int64 `json:"id" jsonschema:"Lead or contact ID (required)"`
	Days int   `json:"days" jsonschema:"Follow-up interval in days; 0 restores the default"`
}

func (h *ContactHandlers) SetCadence(ctx context.Context, request *mcp.CallToolRequest, input SetCadenceInput) (*mcp.CallToolResult, ContactOutput, error) {
	if err := h.svc.SetCadence(ctx, input.ID, input.Days); err != nil {
		return nil, ContactOutput{}, toolError(err)
	}
	contact, err := h.svc.GetContact(ctx, input.ID)
	if err != nil {
		return nil, ContactOutput{}, toolError(err)
	}
	return nil, contactToOutput(contact), nil
}
