// ABOUTME: MCP output shapes shared by the tool handlers
// ABOUTME: Dates are flattened to strings so tool output schemas stay simple
package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/prospect/apperr"
	"github.com/harperreed/prospect/models"
)

type ContactOutput struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Company           string `json:"company,omitempty"`
	Notes             string `json:"notes,omitempty"`
	ContactType       string `json:"contact_type"`
	ConversionDate    string `json:"conversion_date,omitempty"`
	LastContactedDate string `json:"last_contacted_date,omitempty"`
	CadenceDays       int    `json:"cadence_days,omitempty"`
	CreatedAt         string `json:"created_at"`
}

func contactToOutput(c *models.Contact) ContactOutput {
	out := ContactOutput{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Company:     c.Company,
		Notes:       c.Notes,
		ContactType: string(c.ContactType),
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
	if c.ConversionDate != nil {
		out.ConversionDate = c.ConversionDate.String()
	}
	if c.LastContactedDate != nil {
		out.LastContactedDate = c.LastContactedDate.String()
	}
	if c.CadenceDays != nil {
		out.CadenceDays = *c.CadenceDays
	}
	return out
}

type FollowupOutput struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email,omitempty"`
	Company           string `json:"company,omitempty"`
	ContactType       string `json:"contact_type"`
	CadenceDays       int    `json:"cadence_days"`
	NeverContacted    bool   `json:"never_contacted"`
	LastContactedDate string `json:"last_contacted_date,omitempty"`
	DaysSinceContact  int    `json:"days_since_contact,omitempty"`
	DaysOverdue       int    `json:"days_overdue"`
	NextFollowupDate  string `json:"next_followup_date,omitempty"`
}

func followupsToOutput(records []models.FollowupRecord) []FollowupOutput {
	out := make([]FollowupOutput, len(records))
	for i, r := range records {
		f := FollowupOutput{
			ID:             r.ID,
			Name:           r.Name,
			Email:          r.Email,
			Company:        r.Company,
			ContactType:    string(r.ContactType),
			CadenceDays:    r.EffectiveCadence,
			NeverContacted: r.NeverContacted,
			DaysOverdue:    r.DaysOverdue,
		}
		if r.LastContactedDate != nil {
			f.LastContactedDate = r.LastContactedDate.String()
		}
		if r.DaysSinceContact != nil {
			f.DaysSinceContact = *r.DaysSinceContact
		}
		if r.NextFollowupDate != nil {
			f.NextFollowupDate = r.NextFollowupDate.String()
		}
		out[i] = f
	}
	return out
}

type ActivityOutput struct {
	ID             int64  `json:"id"`
	ContactID      int64  `json:"contact_id,omitempty"`
	Organized      bool   `json:"organized"`
	OccurredAt     string `json:"occurred_at"`
	OccurredOn     string `json:"occurred_on"`
	Content        string `json:"content"`
	ScreenshotPath string `json:"screenshot_path,omitempty"`
	Source         string `json:"source"`
}

func activityToOutput(a *models.Activity) ActivityOutput {
	out := ActivityOutput{
		ID:             a.ID,
		Organized:      a.Organized(),
		OccurredAt:     a.OccurredAt.Format(time.RFC3339),
		OccurredOn:     a.OccurredOn.String(),
		Content:        a.Content,
		ScreenshotPath: a.ScreenshotPath,
		Source:         a.Source,
	}
	if a.ContactID != nil {
		out.ContactID = *a.ContactID
	}
	return out
}

// toolError keeps the error code and drops store internals.
func toolError(err error) error {
	var e *apperr.Error
	if errors.As(err, &e) && e.Code != apperr.CodeStoreFailure {
		return fmt.Errorf("%s: %s", e.Code, apperr.PublicMessage(err))
	}
	return errors.New(string(apperr.CodeStoreFailure) + ": " + apperr.PublicMessage(err))
}
