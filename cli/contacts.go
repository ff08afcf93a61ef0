// ABOUTME: Lead and contact CLI commands
// ABOUTME: Human-friendly commands for adding, listing, converting and scheduling records
package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/prospect/db"
	"github.com/harperreed/prospect/leads"
	"github.com/harperreed/prospect/models"
	"github.com/harperreed/prospect/service"
)

// AddLeadCommand adds a new lead.
func AddLeadCommand(ctx context.Context, svc *service.Service, args []string) error {
	return addRecord(ctx, svc, "add-lead", models.TypeLead, args)
}

// AddContactCommand adds a contact directly, skipping the lead stage.
func AddContactCommand(ctx context.Context, svc *service.Service, args []string) error {
	return addRecord(ctx, svc, "add-contact", models.TypeContact, args)
}

func addRecord(ctx context.Context, svc *service.Service, name string, contactType models.ContactType, args []string) error {
	fs := newFlagSet(name)
	recordName := fs.String("name", "", "Name (required)")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	company := fs.String("company", "", "Company name")
	notes := fs.String("notes", "", "Notes")
	cadence := fs.Int("cadence", 0, "Follow-up interval in days (default: per type)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	record := &models.Contact{
		Name:    *recordName,
		Email:   *email,
		Phone:   *phone,
		Company: *company,
		Notes:   *notes,
	}
	if *cadence != 0 {
		days := *cadence
		record.CadenceDays = &days
	}

	var (
		created *models.Contact
		err     error
	)
	if contactType == models.TypeLead {
		created, err = svc.CreateLead(ctx, record)
	} else {
		created, err = svc.CreateContact(ctx, record)
	}
	if err != nil {
		return err
	}

	if !isTerminal() {
		return printJSON(created)
	}
	_, _ = fmt.Fprintf(output, "✓ %s created: %s (ID: %d)\n", created.ContactType, created.Name, created.ID)
	if created.Email != "" {
		_, _ = fmt.Fprintf(output, "  Email: %s\n", created.Email)
	}
	if created.Company != "" {
		_, _ = fmt.Fprintf(output, "  Company: %s\n", created.Company)
	}
	return nil
}

// ListLeadsCommand lists leads.
func ListLeadsCommand(ctx context.Context, svc *service.Service, args []string) error {
	return listRecords(ctx, svc, "list-leads", models.TypeLead, args)
}

// ListContactsCommand lists contacts.
func ListContactsCommand(ctx context.Context, svc *service.Service, args []string) error {
	return listRecords(ctx, svc, "list-contacts", models.TypeContact, args)
}

func listRecords(ctx context.Context, svc *service.Service, name string, contactType models.ContactType, args []string) error {
	fs := newFlagSet(name)
	query := fs.String("query", "", "Search by name, email or company")
	limit := fs.Int("limit", 50, "Maximum results")
	if err := fs.Parse(args); err != nil {
		return err
	}

	records, err := svc.ListContacts(ctx, db.ContactFilter{Type: contactType, Query: *query, Limit: *limit})
	if err != nil {
		return err
	}

	if len(records) == 0 && isTerminal() {
		_, _ = fmt.Fprintf(output, "No %ss found\n", contactType)
		return nil
	}

	return render(records, func(w *tabwriter.Writer) {
		_, _ = fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCOMPANY\tLAST CONTACTED")
		_, _ = fmt.Fprintln(w, "--\t----\t-----\t-------\t--------------")
		for _, r := range records {
			last := "never"
			if r.LastContactedDate != nil {
				last = r.LastContactedDate.String()
			}
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Name, dash(r.Email), dash(r.Company), last)
		}
	})
}

// LogAttemptCommand records a contact attempt against a lead.
func LogAttemptCommand(ctx context.Context, svc *service.Service, args []string) error {
	fs := newFlagSet("log-attempt")
	channel := fs.String("channel", models.ChannelMessage, "meeting, call, email, message or event")
	notes := fs.String("notes", "", "What happened")
	if err := requireArgs(fs, args, 1, "log-attempt [flags] <lead-id>"); err != nil {
		return err
	}
	id, err := parseID("lead", fs.Arg(0))
	if err != nil {
		return err
	}

	res, err := svc.LogLeadContactAttempt(ctx, id, leads.AttemptInput{Channel: *channel, Notes: *notes})
	if err != nil {
		return err
	}
	if !isTerminal() {
		return printJSON(res)
	}
	_, _ = fmt.Fprintf(output, "✓ %s (lead %d, %s)\n", res.Message, res.LeadID, res.Timestamp)
	return nil
}

// ConvertLeadCommand converts a lead into a contact.
func ConvertLeadCommand(ctx context.Context, svc *service.Service, args []string) error {
	fs := newFlagSet("convert-lead")
	if err := requireArgs(fs, args, 1, "convert-lead <lead-id>"); err != nil {
		return err
	}
	id, err := parseID("lead", fs.Arg(0))
	if err != nil {
		return err
	}

	res, err := svc.ConvertLead(ctx, id)
	if err != nil {
		return err
	}
	if !isTerminal() {
		return printJSON(res)
	}
	_, _ = fmt.Fprintf(output, "✓ %s (ID: %d)\n", res.Message, res.LeadID)
	return nil
}

// SetCadenceCommand overrides a record's follow-up interval.
func SetCadenceCommand(ctx context.Context, svc *service.Service, args []string) error {
	fs := newFlagSet("set-cadence")
	days := fs.Int("days", 0, "Interval in days; 0 restores the default")
	if err := requireArgs(fs, args, 1, "set-cadence --days N <id>"); err != nil {
		return err
	}
	id, err := parseID("record", fs.Arg(0))
	if err != nil {
		return err
	}

	if err := svc.SetCadence(ctx, id, *days); err != nil {
		return err
	}
	if *days == 0 {
		_, _ = fmt.Fprintf(output, "✓ Cadence for %d reset to default\n", id)
	} else {
		_, _ = fmt.Fprintf(output, "✓ Cadence for %d set to %d days\n", id, *days)
	}
	return nil
}

// HistoryCommand lists a record's contact attempts, newest first.
func HistoryCommand(ctx context.Context, svc *service.Service, args []string) error {
	fs := newFlagSet("history")
	limit := fs.Int("limit", 20, "Maximum results")
	if err := requireArgs(fs, args, 1, "history [flags] <id>"); err != nil {
		return err
	}
	id, err := parseID("record", fs.Arg(0))
	if err != nil {
		return err
	}

	attempts, err := svc.ListAttempts(ctx, id, *limit)
	if err != nil {
		return err
	}
	if attempts == nil {
		attempts = []models.ContactAttempt{}
	}

	return render(attempts, func(w *tabwriter.Writer) {
		_, _ = fmt.Fprintln(w, "DATE\tCHANNEL\tNOTES")
		_, _ = fmt.Fprintln(w, "----\t-------\t-----")
		for _, a := range attempts {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", a.AttemptedOn, a.Channel, dash(a.Notes))
		}
	})
}
