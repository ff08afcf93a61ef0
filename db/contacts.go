// ABOUTME: Contact and lead database operations
// ABOUTME: Handles CRUD, conditional lead conversion and per-type counts
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/prospect/models"
)

const contactColumns = `id, name, email, phone, company, notes, contact_type,
	conversion_date, last_contacted_date, cadence_days, created_at, updated_at`

// ContactFilter narrows ListContacts. Zero values mean no filtering.
type ContactFilter struct {
	Type  models.ContactType
	Query string
	Limit int
}

// CreateContact inserts a record and sets its ID and timestamps.
func (s *Store) CreateContact(ctx context.Context, contact *models.Contact) (int64, error) {
	if contact.ContactType == "" {
		contact.ContactType = models.TypeLead
	}
	now := s.now()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	var id int64
	err := s.queryRow(ctx, `
		INSERT INTO contacts (name, email, phone, company, notes, contact_type,
			conversion_date, last_contacted_date, cadence_days, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, contact.Name, contact.Email, contact.Phone, contact.Company, contact.Notes,
		string(contact.ContactType), encodeDate(contact.ConversionDate),
		encodeDate(contact.LastContactedDate), encodeInt(contact.CadenceDays),
		encodeTime(contact.CreatedAt), encodeTime(contact.UpdatedAt),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create contact: %w", err)
	}

	contact.ID = id
	return id, nil
}

// GetContact returns nil, nil when no record has the id.
func (s *Store) GetContact(ctx context.Context, id int64) (*models.Contact, error) {
	row := s.queryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id)
	contact, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return contact, nil
}

// ListContacts returns records ordered by id.
func (s *Store) ListContacts(ctx context.Context, filter ContactFilter) ([]models.Contact, error) {
	var where []string
	var args []any

	if filter.Type != "" {
		where = append(where, "contact_type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.Query != "" {
		pattern := "%" + strings.ToLower(filter.Query) + "%"
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(company) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	query := `SELECT ` + contactColumns + ` FROM contacts`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id`
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

	var contacts []models.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *contact)
	}

	return contacts, rows.Err()
}

// UpdateContact applies patch and reports how many rows changed (0 or 1).
// A missing id is not an error.
func (s *Store) UpdateContact(ctx context.Context, id int64, patch models.ContactPatch) (int64, error) {
	sets := []string{"updated_at = ?"}
	args := []any{encodeTime(s.now())}

	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Company != nil {
		add("company", *patch.Company)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if patch.ContactType != nil {
		add("contact_type", string(*patch.ContactType))
	}
	if patch.ConversionDate != nil {
		add("conversion_date", encodeDate(patch.ConversionDate))
	}
	if patch.LastContactedDate != nil {
		add("last_contacted_date", encodeDate(patch.LastContactedDate))
	}
	if patch.ClearCadence {
		add("cadence_days", nil)
	} else if patch.CadenceDays != nil {
		add("cadence_days", encodeInt(patch.CadenceDays))
	}

	args = append(args, id)
	n, err := changes(s.exec(ctx, `UPDATE contacts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...))
	if err != nil {
		return 0, fmt.Errorf("failed to update contact: %w", err)
	}
	return n, nil
}

// ConvertLead flips a lead to a contact and stamps the conversion date in one
// statement. Rows that are already contacts are not touched.
func (s *Store) ConvertLead(ctx context.Context, id int64, on models.Date) (int64, error) {
	n, err := changes(s.exec(ctx, `
		UPDATE contacts
		SET contact_type = ?, conversion_date = ?, updated_at = ?
		WHERE id = ? AND contact_type = ?
	`, string(models.TypeContact), on.String(), encodeTime(s.now()), id, string(models.TypeLead)))
	if err != nil {
		return 0, fmt.Errorf("failed to convert lead: %w", err)
	}
	return n, nil
}

// DeleteContact removes a record. Its activities become unorganized and its
// attempt log is dropped by the foreign keys.
func (s *Store) DeleteContact(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := s.WithTx(ctx, func(tx *Store) error {
		// Postgres enforces these through the foreign keys too; SQLite only
		// does when the connection has foreign_keys on, so be explicit.
		if _, err := tx.exec(ctx, `UPDATE activities SET contact_id = NULL WHERE contact_id = ?`, id); err != nil {
			return fmt.Errorf("failed to unlink activities: %w", err)
		}
		if _, err := tx.exec(ctx, `DELETE FROM contact_attempts WHERE contact_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete contact attempts: %w", err)
		}

		var err error
		n, err = changes(tx.exec(ctx, `DELETE FROM contacts WHERE id = ?`, id))
		if err != nil {
			return fmt.Errorf("failed to delete contact: %w", err)
		}
		return nil
	})
	return n, err
}

// CountContactsByType returns how many records exist of each type.
func (s *Store) CountContactsByType(ctx context.Context) (map[models.ContactType]int, error) {
	rows, err := s.query(ctx, `SELECT contact_type, COUNT(*) FROM contacts GROUP BY contact_type`)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	counts := map[models.ContactType]int{}
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		counts[models.ContactType(t)] = n
	}
	return counts, rows.Err()
}

// CountConversions counts every record that was ever converted from a lead.
func (s *Store) CountConversions(ctx context.Context) (int, error) {
	var n int
	err := s.queryRow(ctx, `SELECT COUNT(*) FROM contacts WHERE conversion_date IS NOT NULL`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*models.Contact, error) {
	var c models.Contact
	var contactType, createdAt, updatedAt string
	var conversion, lastContacted sql.NullString
	var cadence sql.NullInt64

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Company,
		&c.Notes,
		&contactType,
		&conversion,
		&lastContacted,
		&cadence,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.ContactType = models.ContactType(contactType)
	c.CadenceDays = decodeInt(cadence)
	if c.ConversionDate, err = decodeDate(conversion); err != nil {
		return nil, err
	}
	if c.LastContactedDate, err = decodeDate(lastContacted); err != nil {
		return nil, err
	}
	if c.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}

	return &c, nil
}
