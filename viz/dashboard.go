// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: ASCII activity chart, streak, record counts and due follow-ups
package viz

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/prospect/models"
	"github.com/harperreed/prospect/service"
)

type DashboardStats struct {
	Analytics   *models.Analytics
	DueLeads    []models.FollowupRecord
	DueContacts []models.FollowupRecord
}

// GenerateDashboardStats gathers everything the dashboard shows. An empty
// days value uses the configured default window.
func GenerateDashboardStats(ctx context.Context, svc *service.Service, days string) (*DashboardStats, error) {
	snap, err := svc.GetAnalytics(ctx, days)
	if err != nil {
		return nil, err
	}
	leads, err := svc.GetDueLeadFollowups(ctx)
	if err != nil {
		return nil, err
	}
	contacts, err := svc.GetDueContactFollowups(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		Analytics:   snap,
		DueLeads:    leads.Followups,
		DueContacts: contacts,
	}, nil
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder
	a := stats.Analytics

	// Header
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  PROSPECT DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString(fmt.Sprintf("ACTIVITY (%s to %s)\n", a.Timeframe.From, a.Timeframe.To))
	renderActivity(&out, a.ActivityMetrics.Days)
	out.WriteString(fmt.Sprintf("  %d activities on %d of %d days\n", a.ActivityMetrics.Total,
		a.ActivityMetrics.ActiveDays, a.Timeframe.Days))
	out.WriteString(fmt.Sprintf("  🔥 streak: %d day(s)\n\n", a.ActivityStreak))

	c := a.ContactMetrics
	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  🎯 %d leads  📇 %d contacts  ✅ %d conversions\n", c.Leads, c.Contacts, c.Conversions))
	out.WriteString(fmt.Sprintf("  🗂  %d organized  📥 %d unorganized activities\n\n", c.OrganizedActivities, c.UnorganizedActivities))

	if len(stats.DueLeads) > 0 || len(stats.DueContacts) > 0 {
		out.WriteString("NEEDS ATTENTION\n")
		renderDue(&out, "leads", stats.DueLeads)
		renderDue(&out, "contacts", stats.DueContacts)
	}

	return out.String()
}

func renderActivity(out *strings.Builder, days []models.DayCount) {
	maxCount := 0
	for _, d := range days {
		if d.Count > maxCount {
			maxCount = d.Count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	// Long windows would scroll off screen; show the most recent two weeks
	if len(days) > 14 {
		days = days[len(days)-14:]
	}
	for _, d := range days {
		barLength := (d.Count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
		out.WriteString(fmt.Sprintf("  %s %s  %2d\n", d.Date, bar, d.Count))
	}
}

func renderDue(out *strings.Builder, label string, due []models.FollowupRecord) {
	if len(due) == 0 {
		return
	}
	out.WriteString(fmt.Sprintf("  ⚠️  %d %s due for follow-up\n", len(due), label))

	shown := due
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for _, r := range shown {
		out.WriteString(fmt.Sprintf("     %s %s\n", Indicator(r), DueSummary(r)))
	}
}

// Indicator is a traffic light for how overdue a record is.
func Indicator(r models.FollowupRecord) string {
	switch {
	case r.NeverContacted:
		return "⚪"
	case r.DaysOverdue > 7:
		return "🔴"
	case r.DaysOverdue > 0:
		return "🟡"
	default:
		return "🟢"
	}
}

// DueSummary describes a due record in one line.
func DueSummary(r models.FollowupRecord) string {
	if r.NeverContacted {
		return fmt.Sprintf("%s (never contacted)", r.Name)
	}
	return fmt.Sprintf("%s (%d days since contact, %d overdue)", r.Name, *r.DaysSinceContact, r.DaysOverdue)
}
