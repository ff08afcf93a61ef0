// ABOUTME: Lead lifecycle: creation, contact attempts and conversion
// ABOUTME: A lead converts to a contact in place, exactly once
package leads

import (
	"context"
	"strings"

	"github.com/harperreed/prospect/apperr"
	"github.com/harperreed/prospect/db"
	"github.com/harperreed/prospect/followups"
	"github.com/harperreed/prospect/models"
)

// AttemptInput describes one outreach attempt. Both fields are optional.
type AttemptInput struct {
	Channel string
	Notes   string
}

// AttemptResult is returned after an attempt is logged.
type AttemptResult struct {
	LeadID int64       `json:"lead_id"`
	Date   models.Date `json:"date"`
}

// Manager owns lead state transitions.
type Manager struct {
	store     *db.Store
	scheduler *followups.Scheduler
	calendar  models.Calendar
}

func NewManager(store *db.Store, scheduler *followups.Scheduler, calendar models.Calendar) *Manager {
	return &Manager{store: store, scheduler: scheduler, calendar: calendar}
}

// CreateLead stores a new lead. Type and conversion date are always reset.
func (m *Manager) CreateLead(ctx context.Context, lead *models.Contact) (*models.Contact, error) {
	lead.Name = strings.TrimSpace(lead.Name)
	if lead.Name == "" {
		return nil, apperr.InvalidInput("name is required")
	}
	if lead.CadenceDays != nil && *lead.CadenceDays <= 0 {
		return nil, apperr.InvalidInput("cadence days must be positive")
	}

	lead.ContactType = models.TypeLead
	lead.ConversionDate = nil
	if _, err := m.store.CreateContact(ctx, lead); err != nil {
		return nil, apperr.StoreFailure("create lead", err)
	}
	return lead, nil
}

// LogContactAttempt stamps today as the record's last contact date and
// appends the attempt to its log.
func (m *Manager) LogContactAttempt(ctx context.Context, leadID int64, in AttemptInput) (*AttemptResult, error) {
	if leadID <= 0 {
		return nil, apperr.InvalidInput("leadId must be a positive integer")
	}
	if in.Channel != "" && !models.ValidChannel(in.Channel) {
		return nil, apperr.InvalidInput("unknown channel %q", in.Channel)
	}

	today := m.calendar.Today()
	n, err := m.store.RecordContactAttempt(ctx, &models.ContactAttempt{
		ContactID:   leadID,
		AttemptedOn: today,
		Channel:     in.Channel,
		Notes:       strings.TrimSpace(in.Notes),
	})
	if err != nil {
		return nil, apperr.StoreFailure("log contact attempt", err)
	}
	if n == 0 {
		return nil, apperr.NotFound("lead %d not found", leadID)
	}

	return &AttemptResult{LeadID: leadID, Date: today}, nil
}

// ConvertToContact turns a lead into a contact dated today. Converting a
// record that is already a contact is rejected and its date is kept.
func (m *Manager) ConvertToContact(ctx context.Context, leadID int64) (*models.Contact, error) {
	if leadID <= 0 {
		return nil, apperr.InvalidInput("leadId is required")
	}

	n, err := m.store.ConvertLead(ctx, leadID, m.calendar.Today())
	if err != nil {
		return nil, apperr.StoreFailure("convert lead", err)
	}

	record, err := m.store.GetContact(ctx, leadID)
	if err != nil {
		return nil, apperr.StoreFailure("load converted lead", err)
	}
	if record == nil {
		return nil, apperr.NotFound("lead %d not found", leadID)
	}
	if n == 0 {
		return nil, apperr.InvalidInput("record %d is already a contact", leadID)
	}
	return record, nil
}

// GetDueFollowups returns the leads due for outreach today.
func (m *Manager) GetDueFollowups(ctx context.Context) ([]models.FollowupRecord, error) {
	return m.scheduler.Due(ctx, models.TypeLead)
}

// History returns a record's contact attempts, newest first.
func (m *Manager) History(ctx context.Context, id int64, limit int) ([]models.ContactAttempt, error) {
	if id <= 0 {
		return nil, apperr.InvalidInput("id must be a positive integer")
	}
	record, err := m.store.GetContact(ctx, id)
	if err != nil {
		return nil, apperr.StoreFailure("load record", err)
	}
	if record == nil {
		return nil, apperr.NotFound("record %d not found", id)
	}

	attempts, err := m.store.ListContactAttempts(ctx, id, limit)
	if err != nil {
		return nil, apperr.StoreFailure("list contact attempts", err)
	}
	if attempts == nil {
		attempts = []models.ContactAttempt{}
	}
	return attempts, nil
}
