// ABOUTME: Tests for contact and lead database operations
// ABOUTME: Covers CRUD, change counts, conditional conversion and counts
package db

import (
	"context"
	"testing"
	"time"

	"github.com/harperreed/prospect/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetContact(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	cadence := 14
	lead := &models.Contact{
		Name:        "Ada Lovelace",
		Email:       "ada@example.com",
		Company:     "Analytical Engines",
		CadenceDays: &cadence,
	}
	id, err := store.CreateContact(ctx, lead)
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.Equal(t, id, lead.ID)
	assert.Equal(t, models.TypeLead, lead.ContactType, "records default to leads")

	got, err := store.GetContact(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Equal(t, "Analytical Engines", got.Company)
	assert.Equal(t, models.TypeLead, got.ContactType)
	assert.Nil(t, got.ConversionDate)
	assert.Nil(t, got.LastContactedDate)
	require.NotNil(t, got.CadenceDays)
	assert.Equal(t, 14, *got.CadenceDays)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetContactMissing(t *testing.T) {
	store := setupTestStore(t)

	got, err := store.GetContact(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateContactReportsChanges(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.CreateContact(ctx, &models.Contact{Name: "Grace"})
	require.NoError(t, err)

	day := models.NewDate(2025, time.March, 4)
	n, err := store.UpdateContact(ctx, id, models.ContactPatch{LastContactedDate: &day})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := store.GetContact(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.LastContactedDate)
	assert.Equal(t, day, *got.LastContactedDate)

	// Missing ids report zero changes, not an error
	n, err = store.UpdateContact(ctx, id+100, models.ContactPatch{LastContactedDate: &day})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	// Nothing was created by the failed update
	all, err := store.ListContacts(ctx, ContactFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdateContactClearCadence(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	cadence := 3
	id, err := store.CreateContact(ctx, &models.Contact{Name: "Linus", CadenceDays: &cadence})
	require.NoError(t, err)

	n, err := store.UpdateContact(ctx, id, models.ContactPatch{ClearCadence: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := store.GetContact(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.CadenceDays)
}

func TestConvertLeadOnlyTouchesLeads(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.CreateContact(ctx, &models.Contact{Name: "Lead"})
	require.NoError(t, err)

	first := models.NewDate(2025, time.June, 1)
	n, err := store.ConvertLead(ctx, id, first)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := store.GetContact(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.TypeContact, got.ContactType)
	require.NotNil(t, got.ConversionDate)
	assert.Equal(t, first, *got.ConversionDate)

	// A second conversion leaves the original date in place
	n, err = store.ConvertLead(ctx, id, first.AddDays(5))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	got, err = store.GetContact(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, first, *got.ConversionDate)

	n, err = store.ConvertLead(ctx, 12345, first)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestListContactsFilters(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.CreateContact(ctx, &models.Contact{Name: "Alice", Email: "alice@acme.com"})
	require.NoError(t, err)
	_, err = store.CreateContact(ctx, &models.Contact{Name: "Bob", ContactType: models.TypeContact})
	require.NoError(t, err)
	_, err = store.CreateContact(ctx, &models.Contact{Name: "Carol", Company: "Acme"})
	require.NoError(t, err)

	leads, err := store.ListContacts(ctx, ContactFilter{Type: models.TypeLead})
	require.NoError(t, err)
	assert.Len(t, leads, 2)

	contacts, err := store.ListContacts(ctx, ContactFilter{Type: models.TypeContact})
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Bob", contacts[0].Name)

	acme, err := store.ListContacts(ctx, ContactFilter{Query: "ACME"})
	require.NoError(t, err)
	assert.Len(t, acme, 2)

	limited, err := store.ListContacts(ctx, ContactFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "Alice", limited[0].Name)
}

func TestDeleteContactUnlinksActivities(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	contactID, err := store.CreateContact(ctx, &models.Contact{Name: "Gone"})
	require.NoError(t, err)

	activity := &models.Activity{ContactID: &contactID, OccurredAt: time.Now(), Content: "screenshot"}
	_, err = store.CreateActivity(ctx, activity)
	require.NoError(t, err)

	_, err = store.RecordContactAttempt(ctx, &models.ContactAttempt{
		ContactID:   contactID,
		AttemptedOn: models.NewDate(2025, time.January, 2),
	})
	require.NoError(t, err)

	n, err := store.DeleteContact(ctx, contactID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Activities are never deleted with their contact
	got, err := store.GetActivity(ctx, activity.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.ContactID)

	attempts, err := store.ListContactAttempts(ctx, contactID, 10)
	require.NoError(t, err)
	assert.Empty(t, attempts)

	n, err = store.DeleteContact(ctx, contactID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCountContactsByTypeAndConversions(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.CreateContact(ctx, &models.Contact{Name: "lead"})
		require.NoError(t, err)
	}
	direct := &models.Contact{Name: "direct", ContactType: models.TypeContact}
	_, err := store.CreateContact(ctx, direct)
	require.NoError(t, err)

	_, err = store.ConvertLead(ctx, 1, models.NewDate(2025, time.May, 5))
	require.NoError(t, err)

	counts, err := store.CountContactsByType(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[models.TypeLead])
	assert.Equal(t, 2, counts[models.TypeContact])

	conversions, err := store.CountConversions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, conversions, "directly created contacts are not conversions")
}

func TestWithTxRollsBack(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	err := store.WithTx(ctx, func(tx *Store) error {
		if _, err := tx.CreateContact(ctx, &models.Contact{Name: "temp"}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	all, err := store.ListContacts(ctx, ContactFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}
