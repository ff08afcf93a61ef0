// ABOUTME: Data models for sales-relationship entities
// ABOUTME: Defines Contact, Activity, ContactAttempt and derived follow-up views
package models

import (
	"time"
)

// ContactType distinguishes leads from converted contacts.
type ContactType string

const (
	TypeLead    ContactType = "lead"
	TypeContact ContactType = "contact"
)

// Valid reports whether t is a known contact type.
func (t ContactType) Valid() bool {
	return t == TypeLead || t == TypeContact
}

// Contact is a lead or a contact. Leads convert in place, keeping their ID.
type Contact struct {
	ID                int64       `json:"id"`
	Name              string      `json:"name"`
	Email             string      `json:"email,omitempty"`
	Phone             string      `json:"phone,omitempty"`
	Company           string      `json:"company,omitempty"`
	Notes             string      `json:"notes,omitempty"`
	ContactType       ContactType `json:"contact_type"`
	ConversionDate    *Date       `json:"conversion_date,omitempty"`
	LastContactedDate *Date       `json:"last_contacted_date,omitempty"`
	CadenceDays       *int        `json:"cadence_days,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// IsLead reports whether the record has not been converted.
func (c *Contact) IsLead() bool {
	return c.ContactType == TypeLead
}

// ContactPatch lists the fields an update touches. Nil pointers are left alone.
type ContactPatch struct {
	Name              *string
	Email             *string
	Phone             *string
	Company           *string
	Notes             *string
	ContactType       *ContactType
	ConversionDate    *Date
	LastContactedDate *Date
	CadenceDays       *int
	ClearCadence      bool
}

// Empty reports whether the patch changes nothing.
func (p ContactPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Company == nil &&
		p.Notes == nil && p.ContactType == nil && p.ConversionDate == nil &&
		p.LastContactedDate == nil && p.CadenceDays == nil && !p.ClearCadence
}

// Activity source constants.
const (
	SourceManual = "manual"
	SourceInbox  = "inbox"
	SourceAPI    = "api"
)

// Activity is an observed interaction, usually a screenshot. A nil ContactID
// means the activity is unorganized.
type Activity struct {
	ID             int64     `json:"id"`
	ContactID      *int64    `json:"contact_id"`
	OccurredAt     time.Time `json:"occurred_at"`
	OccurredOn     Date      `json:"occurred_on"`
	Content        string    `json:"content"`
	ScreenshotPath string    `json:"screenshot_path,omitempty"`
	Source         string    `json:"source"`
	CreatedAt      time.Time `json:"created_at"`
}

// Organized reports whether the activity is linked to a contact.
func (a *Activity) Organized() bool {
	return a.ContactID != nil
}

type ActivityPatch struct {
	ContactID    *int64
	ClearContact bool
	Content      *string
}

// Channel constants for contact attempts.
const (
	ChannelMeeting = "meeting"
	ChannelCall    = "call"
	ChannelEmail   = "email"
	ChannelMessage = "message"
	ChannelEvent   = "event"
)

// ValidChannel reports whether ch is a known attempt channel.
func ValidChannel(ch string) bool {
	switch ch {
	case ChannelMeeting, ChannelCall, ChannelEmail, ChannelMessage, ChannelEvent:
		return true
	}
	return false
}

// ContactAttempt is one entry in a record's outreach log.
type ContactAttempt struct {
	ID          int64     `json:"id"`
	ContactID   int64     `json:"contact_id"`
	AttemptedOn Date      `json:"attempted_on"`
	Channel     string    `json:"channel"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// FollowupRecord combines a record with its computed due status.
type FollowupRecord struct {
	Contact
	EffectiveCadence int   `json:"effective_cadence_days"`
	NeverContacted   bool  `json:"never_contacted"`
	DaysSinceContact *int  `json:"days_since_contact,omitempty"`
	DaysOverdue      int   `json:"days_overdue"`
	NextFollowupDate *Date `json:"next_followup_date,omitempty"`
}

// DayCount is the number of activities on one calendar day.
type DayCount struct {
	Date  Date `json:"date"`
	Count int  `json:"count"`
}

// ActivityMetrics is a zero-filled per-day activity series, oldest day first.
type ActivityMetrics struct {
	Days       []DayCount `json:"days"`
	Total      int        `json:"total"`
	ActiveDays int        `json:"active_days"`
}

// ContactMetrics aggregates record counts over the full history.
type ContactMetrics struct {
	Total                 int `json:"total"`
	Leads                 int `json:"leads"`
	Contacts              int `json:"contacts"`
	Conversions           int `json:"conversions"`
	OrganizedActivities   int `json:"organized_activities"`
	UnorganizedActivities int `json:"unorganized_activities"`
}

// Timeframe describes the analytics window.
type Timeframe struct {
	Days int  `json:"days"`
	From Date `json:"from"`
	To   Date `json:"to"`
}

// Analytics is the combined analytics payload.
type Analytics struct {
	ActivityMetrics ActivityMetrics `json:"activityMetrics"`
	ContactMetrics  ContactMetrics  `json:"contactMetrics"`
	ActivityStreak  int             `json:"activityStreak"`
	Timeframe       Timeframe       `json:"timeframe"`
}
