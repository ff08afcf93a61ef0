// ABOUTME: Analytics and visualization CLI commands
// ABOUTME: Prints analytics, the text dashboard and the engagement graph
package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/prospect/service"
	"github.com/harperreed/prospect/viz"
)

// AnalyticsCommand prints activity metrics for a window.
func AnalyticsCommand(ctx context.Context, svc *service.Service, args []string) error {
	fs := newFlagSet("analytics")
	days := fs.String("days", "", "Window length in days (default: configured)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	snap, err := svc.GetAnalytics(ctx, *days)
	if err != nil {
		return err
	}

	return render(snap, func(w *tabwriter.Writer) {
		_, _ = fmt.Fprintf(w, "Window:\t%s to %s (%d days)\n", snap.Timeframe.From, snap.Timeframe.To, snap.Timeframe.Days)
		_, _ = fmt.Fprintf(w, "Activities:\t%d on %d days\n", snap.ActivityMetrics.Total, snap.ActivityMetrics.ActiveDays)
		_, _ = fmt.Fprintf(w, "Streak:\t%d days\n", snap.ActivityStreak)
		_, _ = fmt.Fprintf(w, "Leads:\t%d\n", snap.ContactMetrics.Leads)
		_, _ = fmt.Fprintf(w, "Contacts:\t%d (%d converted)\n", snap.ContactMetrics.Contacts, snap.ContactMetrics.Conversions)
		_, _ = fmt.Fprintf(w, "Unorganized:\t%d\n", snap.ContactMetrics.UnorganizedActivities)
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "DATE\tCOUNT")
		for _, d := range snap.ActivityMetrics.Days {
			_, _ = fmt.Fprintf(w, "%s\t%d\n", d.Date, d.Count)
		}
	})
}

// DashboardCommand prints the text dashboard.
func DashboardCommand(ctx context.Context, svc *service.Service, args []string) error {
	fs := newFlagSet("dashboard")
	days := fs.String("days", "", "Window length in days (default: configured)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stats, err := viz.GenerateDashboardStats(ctx, svc, *days)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(output, viz.RenderDashboard(stats))
	return nil
}

// GraphCommand renders the engagement graph as DOT.
func GraphCommand(ctx context.Context, svc *service.Service, args []string) error {
	fs := newFlagSet("graph")
	outFile := fs.String("output", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dot, err := viz.NewGraphGenerator(svc).GenerateEngagementGraph(ctx)
	if err != nil {
		return err
	}

	if *outFile != "" {
		return os.WriteFile(*outFile, []byte(dot), 0644)
	}
	_, _ = fmt.Fprintln(output, dot)
	return nil
}
