// ABOUTME: Tests for follow-up scheduling
// ABOUTME: Covers the due boundary, ordering and per-record cadence overrides
package followups

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/prospect/apperr"
	"github.com/harperreed/prospect/db"
	"github.com/harperreed/prospect/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func setupScheduler(t *testing.T) (*Scheduler, *db.Store) {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return NewScheduler(store, DefaultCadence(), models.FixedCalendar(testNow, time.UTC)), store
}

func contactedDaysAgo(days int) *models.Date {
	d := models.DateOf(testNow).AddDays(-days)
	return &d
}

func TestCadenceValidate(t *testing.T) {
	assert.NoError(t, DefaultCadence().Validate())
	assert.Error(t, Cadence{LeadDays: 0, ContactDays: 30}.Validate())
	assert.Error(t, Cadence{LeadDays: 7, ContactDays: -1}.Validate())
}

func TestEffectiveCadence(t *testing.T) {
	c := DefaultCadence()
	assert.Equal(t, 7, c.Effective(&models.Contact{ContactType: models.TypeLead}))
	assert.Equal(t, 30, c.Effective(&models.Contact{ContactType: models.TypeContact}))

	override := 3
	assert.Equal(t, 3, c.Effective(&models.Contact{ContactType: models.TypeContact, CadenceDays: &override}))
}

func TestEvaluateBoundary(t *testing.T) {
	today := models.DateOf(testNow)
	cadence := DefaultCadence()

	tests := []struct {
		name    string
		daysAgo int
		wantDue bool
		overdue int
	}{
		{"contacted today", 0, false, 0},
		{"one day short", 6, false, 0},
		{"exactly at cadence", 7, true, 0},
		{"past cadence", 10, true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := models.Contact{ID: 1, ContactType: models.TypeLead, LastContactedDate: contactedDaysAgo(tt.daysAgo)}
			rec, due := Evaluate(lead, cadence, today)
			assert.Equal(t, tt.wantDue, due)
			require.NotNil(t, rec.DaysSinceContact)
			assert.Equal(t, tt.daysAgo, *rec.DaysSinceContact)
			assert.Equal(t, tt.overdue, rec.DaysOverdue)
			require.NotNil(t, rec.NextFollowupDate)
			assert.Equal(t, lead.LastContactedDate.AddDays(7), *rec.NextFollowupDate)
		})
	}
}

func TestEvaluateNeverContacted(t *testing.T) {
	rec, due := Evaluate(models.Contact{ID: 5, ContactType: models.TypeLead}, DefaultCadence(), models.DateOf(testNow))
	assert.True(t, due)
	assert.True(t, rec.NeverContacted)
	assert.Nil(t, rec.DaysSinceContact)
	assert.Nil(t, rec.NextFollowupDate)
}

func TestSortOrder(t *testing.T) {
	records := []models.FollowupRecord{
		{Contact: models.Contact{ID: 4}, DaysOverdue: 1},
		{Contact: models.Contact{ID: 9}, NeverContacted: true},
		{Contact: models.Contact{ID: 2}, DaysOverdue: 10},
		{Contact: models.Contact{ID: 3}, NeverContacted: true},
		{Contact: models.Contact{ID: 1}, DaysOverdue: 1},
	}

	Sort(records)

	var ids []int64
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int64{3, 9, 2, 1, 4}, ids)
}

func TestDueLeads(t *testing.T) {
	s, store := setupScheduler(t)
	ctx := context.Background()

	// ids 1-4 are filler so the never-contacted lead gets id 5
	for i := 0; i < 4; i++ {
		_, err := store.CreateContact(ctx, &models.Contact{Name: "recent", LastContactedDate: contactedDaysAgo(1)})
		require.NoError(t, err)
	}
	_, err := store.CreateContact(ctx, &models.Contact{Name: "Never Called"})
	require.NoError(t, err)
	_, err = store.CreateContact(ctx, &models.Contact{Name: "Stale", LastContactedDate: contactedDaysAgo(12)})
	require.NoError(t, err)
	_, err = store.CreateContact(ctx, &models.Contact{Name: "Customer", ContactType: models.TypeContact})
	require.NoError(t, err)

	due, err := s.Due(ctx, models.TypeLead)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, int64(5), due[0].ID)
	assert.True(t, due[0].NeverContacted)
	assert.Equal(t, "Stale", due[1].Name)
	assert.Equal(t, 5, due[1].DaysOverdue)

	contacts, err := s.Due(ctx, models.TypeContact)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Customer", contacts[0].Name)
}

func TestDueEmptyIsNotNil(t *testing.T) {
	s, _ := setupScheduler(t)

	due, err := s.Due(context.Background(), models.TypeContact)
	require.NoError(t, err)
	assert.NotNil(t, due)
	assert.Empty(t, due)
}

func TestDueRejectsUnknownType(t *testing.T) {
	s, _ := setupScheduler(t)

	_, err := s.Due(context.Background(), "prospect")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestSetCadence(t *testing.T) {
	s, store := setupScheduler(t)
	ctx := context.Background()

	id, err := store.CreateContact(ctx, &models.Contact{
		Name:              "Weekly",
		ContactType:       models.TypeContact,
		LastContactedDate: contactedDaysAgo(8),
	})
	require.NoError(t, err)

	due, err := s.Due(ctx, models.TypeContact)
	require.NoError(t, err)
	assert.Empty(t, due, "8 days is inside the 30 day contact cadence")

	require.NoError(t, s.SetCadence(ctx, id, 7))
	due, err = s.Due(ctx, models.TypeContact)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, 7, due[0].EffectiveCadence)

	require.NoError(t, s.SetCadence(ctx, id, 0))
	due, err = s.Due(ctx, models.TypeContact)
	require.NoError(t, err)
	assert.Empty(t, due)

	assert.ErrorIs(t, s.SetCadence(ctx, id+1, 5), apperr.ErrNotFound)
	assert.ErrorIs(t, s.SetCadence(ctx, 0, 5), apperr.ErrInvalidInput)
	assert.ErrorIs(t, s.SetCadence(ctx, id, -2), apperr.ErrInvalidInput)
}
