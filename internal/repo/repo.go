package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"github.com/IEC2025/UeabInnovationHub-sub000/internal/model"
)

var (
	ErrRegistrationNotFound   = errors.New("registration not found")
	ErrContactMessageNotFound = errors.New("contact message not found")
	ErrDuplicateSubscriber    = errors.New("newsletter subscriber already exists")
)

type Repository interface {
	CreateRegistration(ctx context.Context, reg *model.Registration) error
	ListRegistrations(ctx context.Context, f model.RegistrationFilter) ([]model.Registration, error)
	GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error)
	UpdateRegistrationStatus(ctx context.Context, id int64, status model.Status) (*model.Registration, error)

	CreateContactMessage(ctx context.Context, m *model.ContactMessage) error
	ListContactMessages(ctx context.Context, f model.ContactFilter) ([]model.ContactMessage, error)
	MarkContactMessageRead(ctx context.Context, id int64) (*model.ContactMessage, error)

	CreateNewsletterSubscriber(ctx context.Context, s *model.NewsletterSubscriber) error
	ListNewsletterSubscribers(ctx context.Context) ([]model.NewsletterSubscriber, error)

	Ping(ctx context.Context) error
	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) Ping(ctx context.Context) error {
	return r.db.Master.PingContext(ctx)
}

// MigrateUp applies every *.up.sql file in lexical order.
func (r *repository) MigrateUp(migrationsDir string) error {
	files, err := migrationFiles(migrationsDir, "*.up.sql", false)
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := r.execFile(file); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Int("files", len(files)).Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

// MigrateDown applies every *.down.sql file in reverse lexical order.
func (r *repository) MigrateDown(migrationsDir string) error {
	files, err := migrationFiles(migrationsDir, "*.down.sql", true)
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := r.execFile(file); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", file, err)
		}
	}

	r.log.Info().Int("files", len(files)).Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
}

func (r *repository) execFile(file string) error {
	sqlBytes, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}
	_, err = r.db.Master.ExecContext(context.Background(), string(sqlBytes))
	return err
}

func migrationFiles(dir, pattern string, reverse bool) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to read migration files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no migration files matching %s in %s", pattern, dir)
	}
	sort.Strings(files)
	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(files)))
	}
	return files, nil
}
