package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/IEC2025/UeabInnovationHub-sub000/internal/model"
)

const uniqueViolation = pq.ErrorCode("23505")

func (r *repository) CreateNewsletterSubscriber(ctx context.Context, s *model.NewsletterSubscriber) error {
	query := `
		INSERT INTO newsletter_subscribers (email, created_at)
		VALUES ($1, $2)
		RETURNING id
	`

	var id int64
	if err := r.db.Master.QueryRowContext(ctx, query, s.Email, s.CreatedAt).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSubscriber
		}
		return fmt.Errorf("failed to insert newsletter subscriber: %w", err)
	}

	s.ID = id
	return nil
}

func (r *repository) ListNewsletterSubscribers(ctx context.Context) ([]model.NewsletterSubscriber, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, created_at
		FROM newsletter_subscribers
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list newsletter subscribers: %w", err)
	}
	defer rows.Close()

	subs := make([]model.NewsletterSubscriber, 0)
	for rows.Next() {
		var s model.NewsletterSubscriber
		if err := rows.Scan(&s.ID, &s.Email, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan newsletter subscriber: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate newsletter subscribers: %w", err)
	}
	return subs, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
