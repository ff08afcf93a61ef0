// ABOUTME: Follow-up scheduling for leads and contacts
// ABOUTME: Decides which records are due for outreach and orders them by urgency
package followups

import (
	"context"
	"fmt"
	"sort"

	"github.com/harperreed/prospect/apperr"
	"github.com/harperreed/prospect/db"
	"github.com/harperreed/prospect/models"
)

// Default cadences in days.
const (
	DefaultLeadDays    = 7
	DefaultContactDays = 30
)

// Cadence holds the default follow-up interval for each record type.
type Cadence struct {
	LeadDays    int
	ContactDays int
}

// DefaultCadence returns the built-in intervals.
func DefaultCadence() Cadence {
	return Cadence{LeadDays: DefaultLeadDays, ContactDays: DefaultContactDays}
}

// Validate rejects non-positive intervals.
func (c Cadence) Validate() error {
	if c.LeadDays <= 0 {
		return fmt.Errorf("lead cadence must be positive, got %d", c.LeadDays)
	}
	if c.ContactDays <= 0 {
		return fmt.Errorf("contact cadence must be positive, got %d", c.ContactDays)
	}
	return nil
}

// For returns the default interval for a record type.
func (c Cadence) For(t models.ContactType) int {
	if t == models.TypeContact {
		return c.ContactDays
	}
	return c.LeadDays
}

// Effective returns the record's own cadence when set, else the type default.
func (c Cadence) Effective(contact *models.Contact) int {
	if contact.CadenceDays != nil && *contact.CadenceDays > 0 {
		return *contact.CadenceDays
	}
	return c.For(contact.ContactType)
}

// Evaluate computes the follow-up view of a record as of today. The second
// return value reports whether the record is due.
func Evaluate(contact models.Contact, cadence Cadence, today models.Date) (models.FollowupRecord, bool) {
	rec := models.FollowupRecord{
		Contact:          contact,
		EffectiveCadence: cadence.Effective(&contact),
	}

	if contact.LastContactedDate == nil {
		rec.NeverContacted = true
		return rec, true
	}

	since := today.DaysSince(*contact.LastContactedDate)
	next := contact.LastContactedDate.AddDays(rec.EffectiveCadence)
	rec.DaysSinceContact = &since
	rec.NextFollowupDate = &next
	if since < rec.EffectiveCadence {
		return rec, false
	}

	rec.DaysOverdue = since - rec.EffectiveCadence
	return rec, true
}

// Sort orders records never contacted first (by id), then most overdue first,
// with ties broken by id.
func Sort(records []models.FollowupRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.NeverContacted != b.NeverContacted {
			return a.NeverContacted
		}
		if !a.NeverContacted && a.DaysOverdue != b.DaysOverdue {
			return a.DaysOverdue > b.DaysOverdue
		}
		return a.ID < b.ID
	})
}

// Scheduler evaluates due follow-ups against the record store.
type Scheduler struct {
	store    *db.Store
	cadence  Cadence
	calendar models.Calendar
}

// NewScheduler creates a scheduler. The cadence must already be valid.
func NewScheduler(store *db.Store, cadence Cadence, calendar models.Calendar) *Scheduler {
	return &Scheduler{store: store, cadence: cadence, calendar: calendar}
}

// Cadence returns the configured defaults.
func (s *Scheduler) Cadence() Cadence {
	return s.cadence
}

// Due returns the records of one type that need follow-up today, in priority
// order. An empty result is an empty slice, never nil.
func (s *Scheduler) Due(ctx context.Context, contactType models.ContactType) ([]models.FollowupRecord, error) {
	if !contactType.Valid() {
		return nil, apperr.InvalidInput("unknown contact type %q", contactType)
	}

	records, err := s.store.ListContacts(ctx, db.ContactFilter{Type: contactType})
	if err != nil {
		return nil, apperr.StoreFailure("list "+string(contactType)+"s", err)
	}

	today := s.calendar.Today()
	due := make([]models.FollowupRecord, 0, len(records))
	for _, c := range records {
		if rec, ok := Evaluate(c, s.cadence, today); ok {
			due = append(due, rec)
		}
	}

	Sort(due)
	return due, nil
}

// SetCadence sets a record's own follow-up interval. A days value of zero
// clears the override so the type default applies again.
func (s *Scheduler) SetCadence(ctx context.Context, id int64, days int) error {
	if id <= 0 {
		return apperr.InvalidInput("id must be a positive integer")
	}
	if days < 0 {
		return apperr.InvalidInput("cadence days must not be negative")
	}

	patch := models.ContactPatch{ClearCadence: days == 0}
	if days > 0 {
		patch.CadenceDays = &days
	}

	n, err := s.store.UpdateContact(ctx, id, patch)
	if err != nil {
		return apperr.StoreFailure("set cadence", err)
	}
	if n == 0 {
		return apperr.NotFound("record %d not found", id)
	}
	return nil
}
