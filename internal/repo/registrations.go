package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/IEC2025/UeabInnovationHub-sub000/internal/model"
)

const registrationColumns = `id, registration_type, full_name, organization_name, position, email, phone, category,
	participant_count, booth_requirements, special_requirements, payment_preference, additional_info,
	status, submitted_at`

func scanRegistration(scanner interface{ Scan(...any) error }) (*model.Registration, error) {
	var reg model.Registration
	err := scanner.Scan(
		&reg.ID, &reg.RegistrationType, &reg.FullName, &reg.OrganizationName, &reg.Position,
		&reg.Email, &reg.Phone, &reg.Category,
		&reg.ParticipantCount, &reg.BoothRequirements, &reg.SpecialRequirements,
		&reg.PaymentPreference, &reg.AdditionalInfo,
		&reg.Status, &reg.SubmittedAt,
	)
	return &reg, err
}

func (r *repository) CreateRegistration(ctx context.Context, reg *model.Registration) error {
	query := `
		INSERT INTO biew_registrations (
			registration_type, full_name, organization_name, position, email, phone, category,
			participant_count, booth_requirements, special_requirements, payment_preference, additional_info,
			status, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	var id int64
	err := r.db.Master.QueryRowContext(ctx, query,
		reg.RegistrationType, reg.FullName, reg.OrganizationName, reg.Position, reg.Email, reg.Phone, reg.Category,
		reg.ParticipantCount, reg.BoothRequirements, reg.SpecialRequirements, reg.PaymentPreference, reg.AdditionalInfo,
		reg.Status, reg.SubmittedAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to insert registration: %w", err)
	}

	reg.ID = id
	return nil
}

func (r *repository) ListRegistrations(ctx context.Context, f model.RegistrationFilter) ([]model.Registration, error) {
	query, args := buildRegistrationQuery(f)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	regs := make([]model.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, *reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate registrations: %w", err)
	}

	return regs, nil
}

// buildRegistrationQuery renders the listing query for f with positional
// arguments. Search is a case-insensitive substring match.
func buildRegistrationQuery(f model.RegistrationFilter) (string, []any) {
	query := `SELECT ` + registrationColumns + ` FROM biew_registrations`

	var (
		conditions []string
		args       []any
	)
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, strings.ToLower(q))
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(strpos(lower(full_name), $%d) > 0 OR strpos(lower(organization_name), $%d) > 0 OR strpos(lower(email), $%d) > 0)",
			n, n, n,
		))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		conditions = append(conditions, fmt.Sprintf("registration_type = $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY submitted_at DESC, id DESC"

	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return query, args
}

func (r *repository) GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+registrationColumns+` FROM biew_registrations WHERE id = $1`, id)

	reg, err := scanRegistration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return reg, nil
}

// UpdateRegistrationStatus overwrites the status in place. Concurrent updates
// of the same row are last-write-wins.
func (r *repository) UpdateRegistrationStatus(ctx context.Context, id int64, status model.Status) (*model.Registration, error) {
	query := `
		UPDATE biew_registrations
		SET status = $1
		WHERE id = $2
		RETURNING ` + registrationColumns

	reg, err := scanRegistration(r.db.Master.QueryRowContext(ctx, query, status, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update registration status: %w", err)
	}
	return reg, nil
}
