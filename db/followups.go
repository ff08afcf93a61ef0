// ABOUTME: Database operations for the contact-attempt log
// ABOUTME: Records outreach attempts and advances a record's last-contacted date
package db

import (
	"context"
	"fmt"

	"github.com/harperreed/prospect/models"
)

// CreateContactAttempt appends an attempt to the log. It does not touch the
// contact row; see RecordContactAttempt.
func (s *Store) CreateContactAttempt(ctx context.Context, attempt *models.ContactAttempt) (int64, error) {
	if attempt.Channel == "" {
		attempt.Channel = models.ChannelMessage
	}
	attempt.CreatedAt = s.now()

	var id int64
	err := s.queryRow(ctx, `
		INSERT INTO contact_attempts (contact_id, attempted_on, channel, notes, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, attempt.ContactID, attempt.AttemptedOn.String(), attempt.Channel, attempt.Notes,
		encodeTime(attempt.CreatedAt),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create contact attempt: %w", err)
	}

	attempt.ID = id
	return id, nil
}

// RecordContactAttempt sets the record's last_contacted_date and appends the
// attempt in one transaction. It returns 0 changes, and writes nothing, when
// the record does not exist.
func (s *Store) RecordContactAttempt(ctx context.Context, attempt *models.ContactAttempt) (int64, error) {
	var n int64
	err := s.WithTx(ctx, func(tx *Store) error {
		day := attempt.AttemptedOn
		var err error
		n, err = tx.UpdateContact(ctx, attempt.ContactID, models.ContactPatch{LastContactedDate: &day})
		if err != nil || n == 0 {
			return err
		}
		_, err = tx.CreateContactAttempt(ctx, attempt)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ListContactAttempts returns a record's attempts, newest first.
func (s *Store) ListContactAttempts(ctx context.Context, contactID int64, limit int) ([]models.ContactAttempt, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.query(ctx, `
		SELECT id, contact_id, attempted_on, channel, notes, created_at
		FROM contact_attempts
		WHERE contact_id = ?
		ORDER BY attempted_on DESC, id DESC
		LIMIT ?
	`, contactID, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var attempts []models.ContactAttempt
	for rows.Next() {
		var a models.ContactAttempt
		var attemptedOn, createdAt string
		if err := rows.Scan(&a.ID, &a.ContactID, &attemptedOn, &a.Channel, &a.Notes, &createdAt); err != nil {
			return nil, err
		}
		if a.AttemptedOn, err = models.ParseDate(attemptedOn); err != nil {
			return nil, err
		}
		if a.CreatedAt, err = decodeTime(createdAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}

	return attempts, rows.Err()
}
