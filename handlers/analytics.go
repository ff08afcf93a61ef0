// ABOUTME: Analytics MCP tool handler
// ABOUTME: Implements get_analytics over a rolling window of days
package handlers

import (
	"context"
	"strconv"

	"github.com/harperreed/prospect/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type AnalyticsHandlers struct {
	svc *service.Service
}

func NewAnalyticsHandlers(svc *service.Service) *AnalyticsHandlers {
	return &AnalyticsHandlers{svc: svc}
}

type GetAnalyticsInput struct {
	Days int `json:"days,omitempty" jsonschema:"Window length in days (default 7)"`
}

type DayCountOutput struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type AnalyticsOutput struct {
	Days                  []DayCountOutput `json:"days"`
	TotalActivities       int              `json:"total_activities"`
	ActiveDays            int              `json:"active_days"`
	ActivityStreak        int              `json:"activity_streak"`
	TotalRecords          int              `json:"total_records"`
	Leads                 int              `json:"leads"`
	Contacts              int              `json:"contacts"`
	Conversions           int              `json:"conversions"`
	OrganizedActivities   int              `json:"organized_activities"`
	UnorganizedActivities int              `json:"unorganized_activities"`
	From                  string           `json:"from"`
	To                    string           `json:"to"`
}

func (h *AnalyticsHandlers) GetAnalytics(ctx context.Context, request *mcp.CallToolRequest, input GetAnalyticsInput) (*mcp.CallToolResult, AnalyticsOutput, error) {
	raw := ""
	if input.Days != 0 {
		raw = strconv.Itoa(input.Days)
	}

	snap, err := h.svc.GetAnalytics(ctx, raw)
	if err != nil {
		return nil, AnalyticsOutput{}, toolError(err)
	}

	out := AnalyticsOutput{
		Days:                  make([]DayCountOutput, len(snap.ActivityMetrics.Days)),
		TotalActivities:       snap.ActivityMetrics.Total,
		ActiveDays:            snap.ActivityMetrics.ActiveDays,
		ActivityStreak:        snap.ActivityStreak,
		TotalRecords:          snap.ContactMetrics.Total,
		Leads:                 snap.ContactMetrics.Leads,
		Contacts:              snap.ContactMetrics.Contacts,
		Conversions:           snap.ContactMetrics.Conversions,
		OrganizedActivities:   snap.ContactMetrics.OrganizedActivities,
		UnorganizedActivities: snap.ContactMetrics.UnorganizedActivities,
		From:                  snap.Timeframe.From.String(),
		To:                    snap.Timeframe.To.String(),
	}
	for i, d := range snap.ActivityMetrics.Days {
		out.Days[i] = DayCountOutput{Date: d.Date.String(), Count: d.Count}
	}
	return nil, out, nil
}
