// ABOUTME: Follow-up CLI command
// ABOUTME: Lists leads or contacts due for outreach, most urgent first
package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/prospect/models"
	"github.com/harperreed/prospect/service"
	"github.com/harperreed/prospect/viz"
)

// FollowupsCommand lists records due for follow-up.
func FollowupsCommand(ctx context.Context, svc *service.Service, args []string) error {
	fs := newFlagSet("followups")
	recordType := fs.String("type", string(models.TypeLead), "lead or contact")
	if err := fs.Parse(args); err != nil {
		return err
	}

	due, err := svc.GetDueFollowups(ctx, models.ContactType(*recordType))
	if err != nil {
		return err
	}

	if len(due) == 0 && isTerminal() {
		_, _ = fmt.Fprintf(output, "No %ss due for follow-up\n", *recordType)
		return nil
	}

	return render(due, func(w *tabwriter.Writer) {
		_, _ = fmt.Fprintln(w, "ID\tNAME\tLAST CONTACTED\tCADENCE\tOVERDUE")
		_, _ = fmt.Fprintln(w, "--\t----\t--------------\t-------\t-------")
		for _, r := range due {
			last := "never"
			if r.LastContactedDate != nil {
				last = r.LastContactedDate.String()
			}
			_, _ = fmt.Fprintf(w, "%d\t%s %s\t%s\t%dd\t%d\n",
				r.ID, viz.Indicator(r), r.Name, last, r.EffectiveCadence, r.DaysOverdue)
		}
	})
}
