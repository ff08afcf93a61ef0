// ABOUTME: Tests for activity capture and linking
// ABOUTME: Covers link validation, relinking and the organized/unorganized split
package activities

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

var testNow = time.Date(2025, time.April, 2, 23, 15, 0, 0, time.UTC)

func setupLinker(t *testing.T) (*Linker, *db.Store) {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewLinker(store, models.FixedCalendar(testNow, time.UTC)), store
}

func ids(list []models.Activity) []int64 {
	out := []int64{}
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}

func TestCapture(t *testing.T) {
	l, _ := setupLinker(t)
	ctx := context.Background()

	activity, err := l.Capture(ctx, CaptureInput{Content: " DM from Priya "})
	require.NoError(t, err)
	assert.Equal(t, "DM from Priya", activity.Content)
	assert.Equal(t, models.SourceManual, activity.Source)
	assert.Nil(t, activity.ContactID)
	assert.True(t, testNow.Equal(activity.OccurredAt))
	assert.Equal(t, "2025-04-02", activity.OccurredOn.String())

	_, err = l.Capture(ctx, CaptureInput{})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = l.Capture(ctx, CaptureInput{Content: "x", Source: "fax"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestCaptureUsesCalendarZone(t *testing.T) {
	store, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	berlin := time.FixedZone("CEST", 2*3600)
	l := NewLinker(store, models.FixedCalendar(testNow, berlin))

	activity, err := l.Capture(context.Background(), CaptureInput{Content: "late call"})
	require.NoError(t, err)
	assert.Equal(t, "2025-04-03", activity.OccurredOn.String())
}

func TestLinkToContact(t *testing.T) {
	l, store := setupLinker(t)
	ctx := context.Background()

	// Create contacts 1..3 and activities 1..10
	for i := 0; i < 3; i++ {
		_, err := store.CreateContact(ctx, &models.Contact{Name: "c", ContactType: models.TypeContact})
		require.NoError(t, err)
	}
	for i := 0; i < 10; i++ {
		_, err := l.Capture(ctx, CaptureInput{Content: "shot"})
		require.NoError(t, err)
	}

	require.NoError(t, l.LinkToContact(ctx, 10, 3))

	unorganized, err := l.ListUnorganized(ctx)
	require.NoError(t, err)
	assert.NotContains(t, ids(unorganized), int64(10))
	assert.Len(t, unorganized, 9)

	organized, err := l.ListOrganized(ctx)
	require.NoError(t, err)
	require.Len(t, organized, 1)
	assert.Equal(t, int64(10), organized[0].ID)
	assert.Equal(t, int64(3), *organized[0].ContactID)

	forContact, err := l.ListForContact(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, ids(forContact))
}

func TestLinkIsIdempotentAndRelinkable(t *testing.T) {
	l, store := setupLinker(t)
	ctx := context.Background()

	first, err := store.CreateContact(ctx, &models.Contact{Name: "first"})
	require.NoError(t, err)
	second, err := store.CreateContact(ctx, &models.Contact{Name: "second"})
	require.NoError(t, err)
	activity, err := l.Capture(ctx, CaptureInput{Content: "shot"})
	require.NoError(t, err)

	require.NoError(t, l.LinkToContact(ctx, activity.ID, first))
	require.NoError(t, l.LinkToContact(ctx, activity.ID, first))

	got, err := store.GetActivity(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, first, *got.ContactID)

	require.NoError(t, l.LinkToContact(ctx, activity.ID, second))
	got, err = store.GetActivity(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, second, *got.ContactID)
}

func TestLinkErrors(t *testing.T) {
	l, store := setupLinker(t)
	ctx := context.Background()

	contactID, err := store.CreateContact(ctx, &models.Contact{Name: "real"})
	require.NoError(t, err)
	activity, err := l.Capture(ctx, CaptureInput{Content: "shot"})
	require.NoError(t, err)

	assert.ErrorIs(t, l.LinkToContact(ctx, 0, contactID), apperr.ErrInvalidInput)
	assert.ErrorIs(t, l.LinkToContact(ctx, activity.ID, 0), apperr.ErrInvalidInput)
	assert.ErrorIs(t, l.LinkToContact(ctx, 500, contactID), apperr.ErrNotFound)
	assert.ErrorIs(t, l.LinkToContact(ctx, activity.ID, 500), apperr.ErrNotFound)

	// Failed links leave the activity unorganized
	got, err := store.GetActivity(ctx, activity.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ContactID)
}

func TestUnlink(t *testing.T) {
	l, store := setupLinker(t)
	ctx := context.Background()

	contactID, err := store.CreateContact(ctx, &models.Contact{Name: "real"})
	require.NoError(t, err)
	activity, err := l.Capture(ctx, CaptureInput{Content: "shot"})
	require.NoError(t, err)
	require.NoError(t, l.LinkToContact(ctx, activity.ID, contactID))

	require.NoError(t, l.Unlink(ctx, activity.ID))
	unorganized, err := l.ListUnorganized(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{activity.ID}, ids(unorganized))

	assert.ErrorIs(t, l.Unlink(ctx, 999), apperr.ErrNotFound)
}

func TestListEmpty(t *testing.T) {
	l, _ := setupLinker(t)

	list, err := l.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
