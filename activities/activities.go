// ABOUTME: Activity capture and linking to contacts
// ABOUTME: Moves activities between the unorganized and organized sets
package activities

import (
	"context"
	"strings"
	"time"

	"github.com/harperreed/prospect/apperr"
	"github.com/harperreed/prospect/db"
	"github.com/harperreed/prospect/models"
)

// CaptureInput describes a newly observed interaction.
type CaptureInput struct {
	Content        string
	OccurredAt     time.Time // zero means now
	ScreenshotPath string
	Source         string
}

// Linker organizes activities.
type Linker struct {
	store    *db.Store
	calendar models.Calendar
}

func NewLinker(store *db.Store, calendar models.Calendar) *Linker {
	return &Linker{store: store, calendar: calendar}
}

// Capture stores a new unorganized activity.
func (l *Linker) Capture(ctx context.Context, in CaptureInput) (*models.Activity, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" && in.ScreenshotPath == "" {
		return nil, apperr.InvalidInput("content or screenshot path is required")
	}

	source := in.Source
	if source == "" {
		source = models.SourceManual
	}
	switch source {
	case models.SourceManual, models.SourceInbox, models.SourceAPI:
	default:
		return nil, apperr.InvalidInput("unknown source %q", source)
	}

	occurred := in.OccurredAt
	if occurred.IsZero() {
		occurred = l.calendar.Clock()
	}

	activity := &models.Activity{
		OccurredAt:     occurred,
		OccurredOn:     l.calendar.DateOf(occurred),
		Content:        content,
		ScreenshotPath: in.ScreenshotPath,
		Source:         source,
	}
	if _, err := l.store.CreateActivity(ctx, activity); err != nil {
		return nil, apperr.StoreFailure("capture activity", err)
	}
	return activity, nil
}

// LinkToContact attaches an activity to a contact or lead. Relinking an
// already organized activity replaces its contact.
func (l *Linker) LinkToContact(ctx context.Context, activityID, contactID int64) error {
	if activityID <= 0 || contactID <= 0 {
		return apperr.InvalidInput("activityId and contactId are required")
	}

	err := l.store.WithTx(ctx, func(tx *db.Store) error {
		contact, err := tx.GetContact(ctx, contactID)
		if err != nil {
			return err
		}
		if contact == nil {
			return apperr.NotFound("contact %d not found", contactID)
		}

		n, err := tx.UpdateActivity(ctx, activityID, models.ActivityPatch{ContactID: &contactID})
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.NotFound("activity %d not found", activityID)
		}
		return nil
	})
	return apperr.StoreFailure("link activity", err)
}

// Unlink returns an activity to the unorganized set.
func (l *Linker) Unlink(ctx context.Context, activityID int64) error {
	if activityID <= 0 {
		return apperr.InvalidInput("activityId is required")
	}

	n, err := l.store.UpdateActivity(ctx, activityID, models.ActivityPatch{ClearContact: true})
	if err != nil {
		return apperr.StoreFailure("unlink activity", err)
	}
	if n == 0 {
		return apperr.NotFound("activity %d not found", activityID)
	}
	return nil
}

// ListUnorganized returns activities not yet linked to a contact.
func (l *Linker) ListUnorganized(ctx context.Context) ([]models.Activity, error) {
	return l.list(ctx, db.ActivityFilter{Status: db.StatusUnorganized})
}

// ListOrganized returns activities linked to a contact.
func (l *Linker) ListOrganized(ctx context.Context) ([]models.Activity, error) {
	return l.list(ctx, db.ActivityFilter{Status: db.StatusOrganized})
}

// ListAll returns every activity.
func (l *Linker) ListAll(ctx context.Context) ([]models.Activity, error) {
	return l.list(ctx, db.ActivityFilter{})
}

// ListForContact returns the activities linked to one contact.
func (l *Linker) ListForContact(ctx context.Context, contactID int64) ([]models.Activity, error) {
	if contactID <= 0 {
		return nil, apperr.InvalidInput("contactId is required")
	}
	return l.list(ctx, db.ActivityFilter{ContactID: &contactID})
}

func (l *Linker) list(ctx context.Context, filter db.ActivityFilter) ([]models.Activity, error) {
	list, err := l.store.ListActivities(ctx, filter)
	if err != nil {
		return nil, apperr.StoreFailure("list activities", err)
	}
	if list == nil {
		list = []models.Activity{}
	}
	return list, nil
}
