// ABOUTME: Activity CLI commands
// ABOUTME: Capture, list and link interactions
package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/harperreed/prospect/activities"
	"github.com/harperreed/prospect/models"
	"github.com/harperreed/prospect/service"
)

// AddActivityCommand captures an unorganized activity.
func AddActivityCommand(ctx context.Context, svc *service.Service, args []string) error {
	fs := newFlagSet("add-activity")
	content := fs.String("content", "", "What happened")
	screenshot := fs.String("screenshot", "", "Path to a screenshot")
	at := fs.String("at", "", "When it happened (RFC3339, default now)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var occurred time.Time
	if *at != "" {
		t, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			return fmt.Errorf("invalid --at (use RFC3339): %w", err)
		}
		occurred = t
	}

	activity, err := svc.CaptureActivity(ctx, activities.CaptureInput{
		Content:        *content,
		OccurredAt:     occurred,
		ScreenshotPath: *screenshot,
		Source:         models.SourceManual,
	})
	if err != nil {
		return err
	}
	if !isTerminal() {
		return printJSON(activity)
	}
	_, _ = fmt.Fprintf(output, "✓ Activity captured (ID: %d, %s)\n", activity.ID, activity.OccurredOn)
	return nil
}

// ListActivitiesCommand lists activities, optionally by status.
func ListActivitiesCommand(ctx context.Context, svc *service.Service, args []string) error {
	fs := newFlagSet("list-activities")
	status := fs.String("status", "", "organized or unorganized (default: all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := svc.ListActivities(ctx, *status)
	if err != nil {
		return err
	}

	return render(list, func(w *tabwriter.Writer) {
		_, _ = fmt.Fprintln(w, "ID\tDATE\tCONTACT\tSOURCE\tCONTENT")
		_, _ = fmt.Fprintln(w, "--\t----\t-------\t------\t-------")
		for _, a := range list {
			contact := "-"
			if a.ContactID != nil {
				contact = fmt.Sprintf("%d", *a.ContactID)
			}
			content := a.Content
			if content == "" {
				content = a.ScreenshotPath
			}
			if len(content) > 60 {
				content = content[:57] + "..."
			}
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", a.ID, a.OccurredOn, contact, a.Source, content)
		}
	})
}

// LinkActivityCommand links an activity to a lead or contact.
func LinkActivityCommand(ctx context.Context, svc *service.Service, args []string) error {
	fs := newFlagSet("link-activity")
	if err := requireArgs(fs, args, 2, "link-activity <activity-id> <contact-id>"); err != nil {
		return err
	}
	activityID, err := parseID("activity", fs.Arg(0))
	if err != nil {
		return err
	}
	contactID, err := parseID("contact", fs.Arg(1))
	if err != nil {
		return err
	}

	res, err := svc.LinkActivityToContact(ctx, activityID, contactID)
	if err != nil {
		return err
	}
	if !isTerminal() {
		return printJSON(res)
	}
	_, _ = fmt.Fprintf(output, "✓ %s\n", res.Message)
	return nil
}
