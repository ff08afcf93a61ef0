// ABOUTME: Tests for the MCP tool, resource and prompt handlers
// ABOUTME: Calls handlers directly and through an in-memory client session
package handlers

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/prospect/activities"
	"github.com/harperreed/prospect/db"
	"github.com/harperreed/prospect/models"
	"github.com/harperreed/prospect/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.June, 10, 9, 30, 0, 0, time.UTC)

func setupTestService(t *testing.T) *service.Service {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	opts := service.DefaultOptions()
	opts.Calendar = models.FixedCalendar(testNow, time.UTC)
	return service.New(store, opts, nil)
}

func connectClient(t *testing.T, svc *service.Service) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	server := NewServer(svc, "test")
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestAddLeadHandler(t *testing.T) {
	h := NewLeadHandlers(setupTestService(t))

	_, out, err := h.AddLead(context.Background(), nil, AddLeadInput{
		Name:        "  Dana Scully ",
		Email:       "dana@fbi.gov",
		CadenceDays: 3,
	})
	require.NoError(t, err)
	assert.NotZero(t, out.ID)
	assert.Equal(t, "Dana Scully", out.Name)
	assert.Equal(t, "lead", out.ContactType)
	assert.Equal(t, 3, out.CadenceDays)
	assert.Empty(t, out.ConversionDate)

	_, _, err = h.AddLead(context.Background(), nil, AddLeadInput{Name: " "})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "INVALID_INPUT: "), err.Error())
}

func TestLeadAttemptAndConvertHandlers(t *testing.T) {
	svc := setupTestService(t)
	h := NewLeadHandlers(svc)
	ctx := context.Background()

	_, lead, err := h.AddLead(ctx, nil, AddLeadInput{Name: "Fox"})
	require.NoError(t, err)

	_, due, err := h.DueLeadFollowups(ctx, nil, DueFollowupsInput{})
	require.NoError(t, err)
	require.Equal(t, 1, due.Count)
	assert.True(t, due.Followups[0].NeverContacted)

	_, logged, err := h.LogContactAttempt(ctx, nil, LogAttemptInput{LeadID: lead.ID, Channel: "call"})
	require.NoError(t, err)
	assert.Equal(t, lead.ID, logged.LeadID)
	assert.Equal(t, "Contact attempt logged", logged.Message)
	assert.Equal(t, "2025-06-10", logged.Timestamp)

	_, due, err = h.DueLeadFollowups(ctx, nil, DueFollowupsInput{})
	require.NoError(t, err)
	assert.Equal(t, 0, due.Count)
	assert.NotNil(t, due.Followups)

	_, _, err = h.LogContactAttempt(ctx, nil, LogAttemptInput{LeadID: 999})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "NOT_FOUND: "), err.Error())

	_, _, err = h.LogContactAttempt(ctx, nil, LogAttemptInput{LeadID: lead.ID, Channel: "pigeon"})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "INVALID_INPUT: "), err.Error())

	_, converted, err := h.ConvertLead(ctx, nil, ConvertLeadInput{LeadID: lead.ID})
	require.NoError(t, err)
	assert.Equal(t, lead.ID, converted.LeadID)

	_, _, err = h.ConvertLead(ctx, nil, ConvertLeadInput{LeadID: lead.ID})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "INVALID_INPUT: "), err.Error())

	contact, err := svc.GetContact(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TypeContact, contact.ContactType)
	require.NotNil(t, contact.ConversionDate)
	assert.Equal(t, "2025-06-10", contact.ConversionDate.String())
}

func TestContactHandlers(t *testing.T) {
	h := NewContactHandlers(setupTestService(t))
	ctx := context.Background()

	_, alice, err := h.AddContact(ctx, nil, AddLeadInput{Name: "Alice", Company: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "contact", alice.ContactType)
	_, _, err = h.AddContact(ctx, nil, AddLeadInput{Name: "Bob", Company: "Globex"})
	require.NoError(t, err)

	_, found, err := h.FindContacts(ctx, nil, FindContactsInput{Query: "acme"})
	require.NoError(t, err)
	require.Len(t, found.Contacts, 1)
	assert.Equal(t, alice.ID, found.Contacts[0].ID)

	_, due, err := h.DueContactFollowups(ctx, nil, DueFollowupsInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, due.Count)
	assert.Equal(t, alice.ID, due.Followups[0].ID)

	_, updated, err := h.SetCadence(ctx, nil, SetCadenceInput{ID: alice.ID, Days: 14})
	require.NoError(t, err)
	assert.Equal(t, 14, updated.CadenceDays)

	_, _, err = h.SetCadence(ctx, nil, SetCadenceInput{ID: alice.ID, Days: -1})
	require.Error(t, err)
}

func TestActivityHandlers(t *testing.T) {
	svc := setupTestService(t)
	h := NewActivityHandlers(svc)
	ctx := context.Background()

	lead, err := svc.CreateLead(ctx, &models.Contact{Name: "Walter"})
	require.NoError(t, err)

	_, act, err := h.CaptureActivity(ctx, nil, CaptureActivityInput{
		Content:    "Coffee chat",
		OccurredAt: "2025-06-09T16:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-09", act.OccurredOn)
	assert.Equal(t, models.SourceAPI, act.Source)
	assert.False(t, act.Organized)

	_, _, err = h.CaptureActivity(ctx, nil, CaptureActivityInput{Content: "x", OccurredAt: "yesterday"})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "INVALID_INPUT: "), err.Error())

	_, inbox, err := h.ListActivities(ctx, nil, ListActivitiesInput{Status: "unorganized"})
	require.NoError(t, err)
	assert.Equal(t, 1, inbox.Count)

	_, msg, err := h.LinkActivity(ctx, nil, LinkActivityInput{ActivityID: act.ID, ContactID: lead.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.Message)

	_, inbox, err = h.ListActivities(ctx, nil, ListActivitiesInput{Status: "unorganized"})
	require.NoError(t, err)
	assert.Equal(t, 0, inbox.Count)

	_, linked, err := h.ListActivities(ctx, nil, ListActivitiesInput{ContactID: lead.ID})
	require.NoError(t, err)
	require.Equal(t, 1, linked.Count)
	assert.Equal(t, lead.ID, linked.Activities[0].ContactID)

	_, _, err = h.LinkActivity(ctx, nil, LinkActivityInput{ActivityID: act.ID, ContactID: 404})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "NOT_FOUND: "), err.Error())
}

func TestAnalyticsHandler(t *testing.T) {
	svc := setupTestService(t)
	h := NewAnalyticsHandlers(svc)
	ctx := context.Background()

	_, err := svc.CaptureActivity(ctx, captureAt("call", testNow))
	require.NoError(t, err)

	_, out, err := h.GetAnalytics(ctx, nil, GetAnalyticsInput{Days: 3})
	require.NoError(t, err)
	require.Len(t, out.Days, 3)
	assert.Equal(t, "2025-06-08", out.Days[0].Date)
	assert.Equal(t, "2025-06-10", out.Days[2].Date)
	assert.Equal(t, 1, out.Days[2].Count)
	assert.Equal(t, 1, out.TotalActivities)
	assert.Equal(t, 1, out.ActivityStreak)

	_, out, err = h.GetAnalytics(ctx, nil, GetAnalyticsInput{})
	require.NoError(t, err)
	assert.Len(t, out.Days, 7)

	_, _, err = h.GetAnalytics(ctx, nil, GetAnalyticsInput{Days: -2})
	require.Error(t, err)
}

func TestServerListsTools(t *testing.T) {
	session := connectClient(t, setupTestService(t))

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	for _, want := range []string{
		"link_activity", "get_analytics", "due_contact_followups",
		"log_lead_contact_attempt", "convert_lead", "due_lead_followups",
		"add_lead", "capture_activity", "engagement_graph", "dashboard",
	} {
		assert.Contains(t, names, want)
	}
}

func TestServerToolRoundTrip(t *testing.T) {
	session := connectClient(t, setupTestService(t))

	res := callTool(t, session, "add_lead", map[string]any{"name": "Gene"})
	require.False(t, res.IsError, resultText(t, res))
	var lead ContactOutput
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &lead))
	assert.Equal(t, "Gene", lead.Name)

	res = callTool(t, session, "log_lead_contact_attempt", map[string]any{"lead_id": lead.ID, "channel": "email"})
	require.False(t, res.IsError, resultText(t, res))

	res = callTool(t, session, "convert_lead", map[string]any{"lead_id": lead.ID})
	require.False(t, res.IsError, resultText(t, res))

	res = callTool(t, session, "convert_lead", map[string]any{"lead_id": lead.ID})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "INVALID_INPUT")

	res = callTool(t, session, "dashboard", map[string]any{})
	require.False(t, res.IsError, resultText(t, res))
	assert.Contains(t, resultText(t, res), "PROSPECT DASHBOARD")
}

func TestResources(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	_, err := svc.CreateLead(ctx, &models.Contact{Name: "Ada"})
	require.NoError(t, err)
	_, err = svc.CaptureActivity(ctx, captureAt("met at conference", testNow))
	require.NoError(t, err)

	session := connectClient(t, svc)

	res, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: uriLeadFollowups})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	var due DueFollowupsOutput
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &due))
	assert.Equal(t, 1, due.Count)
	assert.Equal(t, "Ada", due.Followups[0].Name)

	res, err = session.ReadResource(ctx, &mcp.ReadResourceParams{URI: uriInbox})
	require.NoError(t, err)
	assert.Contains(t, res.Contents[0].Text, "met at conference")

	res, err = session.ReadResource(ctx, &mcp.ReadResourceParams{URI: uriAnalytics})
	require.NoError(t, err)
	var snap models.Analytics
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &snap))
	assert.Equal(t, 7, snap.Timeframe.Days)
	assert.Equal(t, 1, snap.ActivityMetrics.Total)

	_, err = session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "prospect://nope"})
	assert.Error(t, err)
}

func TestPrompts(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	lead, err := svc.CreateLead(ctx, &models.Contact{Name: "Grace", Company: "Navy"})
	require.NoError(t, err)

	h := NewPromptHandlers(svc)

	plan, err := h.GetPrompt(ctx, &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{Name: "follow-up-plan"}})
	require.NoError(t, err)
	require.Len(t, plan.Messages, 1)
	text := plan.Messages[0].Content.(*mcp.TextContent).Text
	assert.Contains(t, text, "Grace")
	assert.Contains(t, text, "CONTACTS\n- none")

	review, err := h.GetPrompt(ctx, &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{
		Name:      "lead-review",
		Arguments: map[string]string{"lead_id": strconv.FormatInt(lead.ID, 10)},
	}})
	require.NoError(t, err)
	assert.Contains(t, review.Messages[0].Content.(*mcp.TextContent).Text, "Company: Navy")

	_, err = h.GetPrompt(ctx, &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{Name: "lead-review"}})
	assert.Error(t, err)

	_, err = h.GetPrompt(ctx, &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{Name: "unknown"}})
	assert.Error(t, err)
}

func TestCountDOT(t *testing.T) {
	dot := "digraph {\n\tpipeline\t[shape=box];\n\trecord_1\t[label=\"A\"];\n\tpipeline -> record_1\t[label=2];\n}\n"
	nodes, edges := countDOT(dot)
	assert.Equal(t, 2, nodes)
	assert.Equal(t, 1, edges)
}

func captureAt(content string, at time.Time) activities.CaptureInput {
	return activities.CaptureInput{Content: content, OccurredAt: at}
}
