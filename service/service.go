// ABOUTME: Operation surface shared by the HTTP API, MCP tools, CLI and TUI
// ABOUTME: Composes the lifecycle, linking, scheduling and analytics components
package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harperreed/prospect/activities"
	"github.com/harperreed/prospect/analytics"
	"github.com/harperreed/prospect/apperr"
	"github.com/harperreed/prospect/config"
	"github.com/harperreed/prospect/db"
	"github.com/harperreed/prospect/followups"
	"github.com/harperreed/prospect/leads"
	"github.com/harperreed/prospect/models"
)

// Options configures a Service.
type Options struct {
	Cadence     followups.Cadence
	DefaultDays int
	MaxDays     int
	Calendar    models.Calendar
}

// DefaultOptions uses the built-in cadences and the local time zone.
func DefaultOptions() Options {
	return Options{
		Cadence:     followups.DefaultCadence(),
		DefaultDays: analytics.DefaultDays,
		MaxDays:     analytics.MaxDays,
		Calendar:    models.NewCalendar(nil),
	}
}

// OptionsFromConfig maps runtime configuration onto service options.
func OptionsFromConfig(cfg config.Config) (Options, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Cadence:     followups.Cadence{LeadDays: cfg.LeadCadenceDays, ContactDays: cfg.ContactCadenceDays},
		DefaultDays: cfg.AnalyticsDefaultDays,
		MaxDays:     cfg.AnalyticsMaxDays,
		Calendar:    models.NewCalendar(loc),
	}, nil
}

// Service exposes every operation transports may call.
type Service struct {
	store     *db.Store
	opts      Options
	logger    *log.Logger
	scheduler *followups.Scheduler
	leads     *leads.Manager
	linker    *activities.Linker
	analytics *analytics.Aggregator
}

// New wires the components over one store. A nil logger discards output.
func New(store *db.Store, opts Options, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.DefaultDays <= 0 {
		opts.DefaultDays = analytics.DefaultDays
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = analytics.MaxDays
	}

	scheduler := followups.NewScheduler(store, opts.Cadence, opts.Calendar)
	return &Service{
		store:     store,
		opts:      opts,
		logger:    logger,
		scheduler: scheduler,
		leads:     leads.NewManager(store, scheduler, opts.Calendar),
		linker:    activities.NewLinker(store, opts.Calendar),
		analytics: analytics.NewAggregator(store, opts.Calendar),
	}
}

// Calendar returns the calendar used for every date computation.
func (s *Service) Calendar() models.Calendar {
	return s.opts.Calendar
}

// fail logs store failures with their cause and passes every error through.
func (s *Service) fail(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperr.CodeOf(err) == apperr.CodeStoreFailure {
		s.logger.Error("operation failed", "op", op, "err", err)
	} else {
		s.logger.Debug("operation rejected", "op", op, "code", apperr.CodeOf(err), "err", err)
	}
	return err
}

// MessageResult carries a human-readable confirmation.
type MessageResult struct {
	Message string `json:"message"`
}

// AttemptResult confirms a logged contact attempt.
type AttemptResult struct {
	Message   string `json:"message"`
	LeadID    int64  `json:"leadId"`
	Timestamp string `json:"timestamp"`
}

// ConvertResult confirms a lead conversion.
type ConvertResult struct {
	Message string `json:"message"`
	LeadID  int64  `json:"leadId"`
}

// LeadFollowups lists due leads with their count.
type LeadFollowups struct {
	Followups []models.FollowupRecord `json:"followups"`
	Count     int                     `json:"count"`
}

// LinkActivityToContact organizes an activity under a contact.
func (s *Service) LinkActivityToContact(ctx context.Context, activityID, contactID int64) (*MessageResult, error) {
	if err := s.linker.LinkToContact(ctx, activityID, contactID); err != nil {
		return nil, s.fail("link_activity", err)
	}
	s.logger.Info("activity linked", "activity", activityID, "contact", contactID)
	return &MessageResult{Message: fmt.Sprintf("Activity %d linked to contact %d", activityID, contactID)}, nil
}

// GetAnalytics computes analytics for a window given as raw text; empty
// means the configured default.
func (s *Service) GetAnalytics(ctx context.Context, rawDays string) (*models.Analytics, error) {
	days, err := analytics.ParseDays(rawDays, s.opts.DefaultDays, s.opts.MaxDays)
	if err != nil {
		return nil, s.fail("get_analytics", err)
	}
	return s.GetAnalyticsDays(ctx, days)
}

// GetAnalyticsDays is GetAnalytics for an already parsed window.
func (s *Service) GetAnalyticsDays(ctx context.Context, days int) (*models.Analytics, error) {
	if days <= 0 || days > s.opts.MaxDays {
		return nil, s.fail("get_analytics", apperr.InvalidInput("days must be between 1 and %d", s.opts.MaxDays))
	}
	snap, err := s.analytics.Snapshot(ctx, days)
	if err != nil {
		return nil, s.fail("get_analytics", err)
	}
	return snap, nil
}

// GetDueContactFollowups lists contacts due for outreach, most urgent first.
func (s *Service) GetDueContactFollowups(ctx context.Context) ([]models.FollowupRecord, error) {
	due, err := s.scheduler.Due(ctx, models.TypeContact)
	if err != nil {
		return nil, s.fail("due_contact_followups", err)
	}
	return due, nil
}

// LogLeadContactAttempt stamps today as the lead's last contact date.
func (s *Service) LogLeadContactAttempt(ctx context.Context, leadID int64, in leads.AttemptInput) (*AttemptResult, error) {
	res, err := s.leads.LogContactAttempt(ctx, leadID, in)
	if err != nil {
		return nil, s.fail("log_lead_contact_attempt", err)
	}
	s.logger.Info("contact attempt logged", "lead", leadID, "date", res.Date)
	return &AttemptResult{
		Message:   "Contact attempt logged",
		LeadID:    res.LeadID,
		Timestamp: res.Date.String(),
	}, nil
}

// ConvertLead turns a lead into a contact.
func (s *Service) ConvertLead(ctx context.Context, leadID int64) (*ConvertResult, error) {
	if _, err := s.leads.ConvertToContact(ctx, leadID); err != nil {
		return nil, s.fail("convert_lead", err)
	}
	s.logger.Info("lead converted", "lead", leadID)
	return &ConvertResult{Message: "Lead converted to contact", LeadID: leadID}, nil
}

// GetDueLeadFollowups lists leads due for outreach, most urgent first.
func (s *Service) GetDueLeadFollowups(ctx context.Context) (*LeadFollowups, error) {
	due, err := s.leads.GetDueFollowups(ctx)
	if err != nil {
		return nil, s.fail("due_lead_followups", err)
	}
	return &LeadFollowups{Followups: due, Count: len(due)}, nil
}

// GetDueFollowups dispatches on the record type.
func (s *Service) GetDueFollowups(ctx context.Context, contactType models.ContactType) ([]models.FollowupRecord, error) {
	due, err := s.scheduler.Due(ctx, contactType)
	if err != nil {
		return nil, s.fail("due_followups", err)
	}
	return due, nil
}

// CreateLead stores a new lead.
func (s *Service) CreateLead(ctx context.Context, lead *models.Contact) (*models.Contact, error) {
	created, err := s.leads.CreateLead(ctx, lead)
	if err != nil {
		return nil, s.fail("create_lead", err)
	}
	return created, nil
}

// CreateContact stores a record directly as a contact. It has no conversion date.
func (s *Service) CreateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	contact.Name = strings.TrimSpace(contact.Name)
	if contact.Name == "" {
		return nil, s.fail("create_contact", apperr.InvalidInput("name is required"))
	}
	if contact.CadenceDays != nil && *contact.CadenceDays <= 0 {
		return nil, s.fail("create_contact", apperr.InvalidInput("cadence days must be positive"))
	}

	contact.ContactType = models.TypeContact
	contact.ConversionDate = nil
	if _, err := s.store.CreateContact(ctx, contact); err != nil {
		return nil, s.fail("create_contact", apperr.StoreFailure("create contact", err))
	}
	return contact, nil
}

// GetContact returns one record of either type.
func (s *Service) GetContact(ctx context.Context, id int64) (*models.Contact, error) {
	if id <= 0 {
		return nil, s.fail("get_contact", apperr.InvalidInput("id must be a positive integer"))
	}
	contact, err := s.store.GetContact(ctx, id)
	if err != nil {
		return nil, s.fail("get_contact", apperr.StoreFailure("get contact", err))
	}
	if contact == nil {
		return nil, s.fail("get_contact", apperr.NotFound("record %d not found", id))
	}
	return contact, nil
}

// ListContacts lists records, optionally of one type.
func (s *Service) ListContacts(ctx context.Context, filter db.ContactFilter) ([]models.Contact, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, s.fail("list_contacts", apperr.InvalidInput("unknown contact type %q", filter.Type))
	}
	list, err := s.store.ListContacts(ctx, filter)
	if err != nil {
		return nil, s.fail("list_contacts", apperr.StoreFailure("list contacts", err))
	}
	if list == nil {
		list = []models.Contact{}
	}
	return list, nil
}

// SetCadence sets or, with days == 0, clears a record's own cadence.
func (s *Service) SetCadence(ctx context.Context, id int64, days int) error {
	return s.fail("set_cadence", s.scheduler.SetCadence(ctx, id, days))
}

// ListAttempts returns a record's contact-attempt history.
func (s *Service) ListAttempts(ctx context.Context, id int64, limit int) ([]models.ContactAttempt, error) {
	attempts, err := s.leads.History(ctx, id, limit)
	if err != nil {
		return nil, s.fail("list_attempts", err)
	}
	return attempts, nil
}

// CaptureActivity stores a new unorganized activity.
func (s *Service) CaptureActivity(ctx context.Context, in activities.CaptureInput) (*models.Activity, error) {
	activity, err := s.linker.Capture(ctx, in)
	if err != nil {
		return nil, s.fail("capture_activity", err)
	}
	s.logger.Debug("activity captured", "id", activity.ID, "source", activity.Source)
	return activity, nil
}

// ListActivities lists activities by status: "", "organized" or "unorganized".
func (s *Service) ListActivities(ctx context.Context, status string) ([]models.Activity, error) {
	var (
		list []models.Activity
		err  error
	)
	switch db.ActivityStatus(strings.ToLower(strings.TrimSpace(status))) {
	case db.StatusAll:
		list, err = s.linker.ListAll(ctx)
	case db.StatusOrganized:
		list, err = s.linker.ListOrganized(ctx)
	case db.StatusUnorganized:
		list, err = s.linker.ListUnorganized(ctx)
	default:
		err = apperr.InvalidInput("status must be organized or unorganized, got %q", status)
	}
	if err != nil {
		return nil, s.fail("list_activities", err)
	}
	return list, nil
}

// ListContactActivities lists the activities linked to one record.
func (s *Service) ListContactActivities(ctx context.Context, contactID int64) ([]models.Activity, error) {
	list, err := s.linker.ListForContact(ctx, contactID)
	if err != nil {
		return nil, s.fail("list_contact_activities", err)
	}
	return list, nil
}

// UnlinkActivity returns an activity to the unorganized set.
func (s *Service) UnlinkActivity(ctx context.Context, activityID int64) (*MessageResult, error) {
	if err := s.linker.Unlink(ctx, activityID); err != nil {
		return nil, s.fail("unlink_activity", err)
	}
	return &MessageResult{Message: fmt.Sprintf("Activity %d unlinked", activityID)}, nil
}

// ActivityCounts returns linked activity totals per contact id.
func (s *Service) ActivityCounts(ctx context.Context) (map[int64]int, error) {
	counts, err := s.store.CountActivitiesByContact(ctx)
	if err != nil {
		return nil, s.fail("activity_counts", apperr.StoreFailure("count activities by contact", err))
	}
	return counts, nil
}
