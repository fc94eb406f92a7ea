package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/IEC2025/UeabInnovationHub-sub000/internal/model"
)

const contactColumns = `id, name, email, phone, subject, enquiry_type, message, is_read, created_at`

func scanContact(scanner interface{ Scan(...any) error }) (*model.ContactMessage, error) {
	var m model.ContactMessage
	err := scanner.Scan(
		&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.EnquiryType, &m.Message, &m.IsRead, &m.CreatedAt,
	)
	return &m, err
}

func (r *repository) CreateContactMessage(ctx context.Context, m *model.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (name, email, phone, subject, enquiry_type, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)
		RETURNING id
	`

	var id int64
	if err := r.db.Master.QueryRowContext(ctx, query,
		m.Name, m.Email, m.Phone, m.Subject, m.EnquiryType, m.Message, m.CreatedAt,
	).Scan(&id); err != nil {
		return fmt.Errorf("failed to insert contact message: %w", err)
	}

	m.ID = id
	m.IsRead = false
	return nil
}

func (r *repository) ListContactMessages(ctx context.Context, f model.ContactFilter) ([]model.ContactMessage, error) {
	query := `SELECT ` + contactColumns + ` FROM contact_messages`
	var args []any
	if f.UnreadOnly {
		query += " WHERE is_read = FALSE"
	}
	query += " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer rows.Close()

	msgs := make([]model.ContactMessage, 0)
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		msgs = append(msgs, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contact messages: %w", err)
	}
	return msgs, nil
}

// MarkContactMessageRead sets is_read. Marking an already read message again
// leaves it unchanged.
func (r *repository) MarkContactMessageRead(ctx context.Context, id int64) (*model.ContactMessage, error) {
	query := `
		UPDATE contact_messages
		SET is_read = TRUE
		WHERE id = $1
		RETURNING ` + contactColumns

	m, err := scanContact(r.db.Master.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContactMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark contact message read: %w", err)
	}
	return m, nil
}
