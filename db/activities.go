// ABOUTME: Activity database operations
// ABOUTME: Handles CRUD, organized/unorganized listing and per-day aggregation
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/prospect/models"
)

const activityColumns = `id, contact_id, occurred_at, occurred_on, content, screenshot_path, source, created_at`

// ActivityStatus selects organized, unorganized or all activities.
type ActivityStatus string

const (
	StatusAll         ActivityStatus = ""
	StatusOrganized   ActivityStatus = "organized"
	StatusUnorganized ActivityStatus = "unorganized"
)

// ActivityFilter narrows ListActivities. Zero values mean no filtering.
type ActivityFilter struct {
	Status    ActivityStatus
	ContactID *int64
	Limit     int
}

// CreateActivity inserts an activity and sets its ID and created_at.
func (s *Store) CreateActivity(ctx context.Context, activity *models.Activity) (int64, error) {
	if activity.Source == "" {
		activity.Source = models.SourceManual
	}
	if activity.OccurredOn.IsZero() {
		activity.OccurredOn = models.DateOf(activity.OccurredAt)
	}
	activity.CreatedAt = s.now()

	var contactID any
	if activity.ContactID != nil {
		contactID = *activity.ContactID
	}

	var id int64
	err := s.queryRow(ctx, `
		INSERT INTO activities (contact_id, occurred_at, occurred_on, content, screenshot_path, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, contactID, encodeTime(activity.OccurredAt), activity.OccurredOn.String(), activity.Content,
		activity.ScreenshotPath, activity.Source, encodeTime(activity.CreatedAt),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create activity: %w", err)
	}

	activity.ID = id
	return id, nil
}

// GetActivity returns nil, nil when no activity has the id.
func (s *Store) GetActivity(ctx context.Context, id int64) (*models.Activity, error) {
	row := s.queryRow(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)
	activity, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return activity, nil
}

// ListActivities returns activities newest first.
func (s *Store) ListActivities(ctx context.Context, filter ActivityFilter) ([]models.Activity, error) {
	var where []string
	var args []any

	switch filter.Status {
	case StatusOrganized:
		where = append(where, "contact_id IS NOT NULL")
	case StatusUnorganized:
		where = append(where, "contact_id IS NULL")
	case StatusAll:
	default:
		return nil, fmt.Errorf("unknown activity status %q", filter.Status)
	}
	if filter.ContactID != nil {
		where = append(where, "contact_id = ?")
		args = append(args, *filter.ContactID)
	}

	query := `SELECT ` + activityColumns + ` FROM activities`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY occurred_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var activities []models.Activity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *activity)
	}

	return activities, rows.Err()
}

// UpdateActivity applies patch and reports how many rows changed (0 or 1).
func (s *Store) UpdateActivity(ctx context.Context, id int64, patch models.ActivityPatch) (int64, error) {
	var sets []string
	var args []any

	if patch.ClearContact {
		sets = append(sets, "contact_id = NULL")
	} else if patch.ContactID != nil {
		sets = append(sets, "contact_id = ?")
		args = append(args, *patch.ContactID)
	}
	if patch.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *patch.Content)
	}
	if len(sets) == 0 {
		// Nothing to write; still report whether the row exists.
		var n int64
		err := s.queryRow(ctx, `SELECT COUNT(*) FROM activities WHERE id = ?`, id).Scan(&n)
		return n, err
	}

	args = append(args, id)
	n, err := changes(s.exec(ctx, `UPDATE activities SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...))
	if err != nil {
		return 0, fmt.Errorf("failed to update activity: %w", err)
	}
	return n, nil
}

// DeleteActivity removes an activity.
func (s *Store) DeleteActivity(ctx context.Context, id int64) (int64, error) {
	n, err := changes(s.exec(ctx, `DELETE FROM activities WHERE id = ?`, id))
	if err != nil {
		return 0, fmt.Errorf("failed to delete activity: %w", err)
	}
	return n, nil
}

// CountActivitiesByDay counts activities per calendar day in [from, to].
// Days without activity are absent from the map.
func (s *Store) CountActivitiesByDay(ctx context.Context, from, to models.Date) (map[models.Date]int, error) {
	rows, err := s.query(ctx, `
		SELECT occurred_on, COUNT(*)
		FROM activities
		WHERE occurred_on >= ? AND occurred_on <= ?
		GROUP BY occurred_on
	`, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	counts := map[models.Date]int{}
	for rows.Next() {
		var day string
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, err
		}
		d, err := models.ParseDate(day)
		if err != nil {
			return nil, err
		}
		counts[d] = n
	}
	return counts, rows.Err()
}

// HasActivityOn reports whether at least one activity occurred on day.
func (s *Store) HasActivityOn(ctx context.Context, day models.Date) (bool, error) {
	var exists bool
	err := s.queryRow(ctx, `SELECT EXISTS(SELECT 1 FROM activities WHERE occurred_on = ?)`, day.String()).Scan(&exists)
	return exists, err
}

// CountActivitiesByStatus returns organized and unorganized totals.
func (s *Store) CountActivitiesByStatus(ctx context.Context) (organized, unorganized int, err error) {
	err = s.queryRow(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN contact_id IS NOT NULL THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN contact_id IS NULL THEN 1 ELSE 0 END), 0)
		FROM activities
	`).Scan(&organized, &unorganized)
	return organized, unorganized, err
}

// CountActivitiesByContact returns linked activity totals keyed by contact id.
func (s *Store) CountActivitiesByContact(ctx context.Context) (map[int64]int, error) {
	rows, err := s.query(ctx, `
		SELECT contact_id, COUNT(*)
		FROM activities
		WHERE contact_id IS NOT NULL
		GROUP BY contact_id
	`)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	counts := map[int64]int{}
	for rows.Next() {
		var id int64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

func scanActivity(row rowScanner) (*models.Activity, error) {
	var a models.Activity
	var contactID sql.NullInt64
	var occurredAt, occurredOn, createdAt string

	err := row.Scan(
		&a.ID,
		&contactID,
		&occurredAt,
		&occurredOn,
		&a.Content,
		&a.ScreenshotPath,
		&a.Source,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if contactID.Valid {
		id := contactID.Int64
		a.ContactID = &id
	}
	if a.OccurredAt, err = decodeTime(occurredAt); err != nil {
		return nil, err
	}
	if a.OccurredOn, err = models.ParseDate(occurredOn); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}

	return &a, nil
}
