package repo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/dbpg"

	"github.com/IEC2025/UeabInnovationHub-sub000/internal/model"
)

const testDSNEnv = "BIEW_TEST_DATABASE_DSN"

var migrationsDir = filepath.Join("..", "..", "migrations", "postgres")

// newTestRepository connects to the database named by BIEW_TEST_DATABASE_DSN
// and recreates the schema. The test is skipped when the variable is unset.
func newTestRepository(t *testing.T) Repository {
	t.Helper()
	dsn := os.Getenv(testDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", testDSNEnv)
	}

	db, err := dbpg.New(dsn, nil, &dbpg.Options{MaxOpenConns: 4, MaxIdleConns: 2, ConnMaxLifetime: time.Minute})
	require.NoError(t, err)
	logger := zerolog.Nop()
	r, err := NewRepository(db, &logger)
	require.NoError(t, err)

	require.NoError(t, r.MigrateDown(migrationsDir))
	require.NoError(t, r.MigrateUp(migrationsDir))
	t.Cleanup(func() {
		_ = r.MigrateDown(migrationsDir)
		_ = db.Master.Close()
	})
	return r
}

func strPtr(s string) *string { return &s }

func insertRegistration(t *testing.T, r Repository, name, org, email string, typ model.RegistrationType, at time.Time) *model.Registration {
	t.Helper()
	reg := &model.Registration{
		RegistrationType: typ,
		FullName:         name,
		OrganizationName: org,
		Position:         "Dean",
		Email:            email,
		Phone:            "+254700000000",
		Category:         "university",
		Status:           model.StatusPending,
		SubmittedAt:      at,
	}
	require.NoError(t, r.CreateRegistration(context.Background(), reg))
	return reg
}

func TestPostgres_RegistrationSearchAndOrdering(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	jane := insertRegistration(t, r, "Jane Doe", "Acme University", "jane@acme.edu", model.RegistrationTypeDelegation, base)
	omar := insertRegistration(t, r, "Omar Ali", "Widget Works", "omar@widgets.io", model.RegistrationTypeExhibition, base.Add(time.Minute))
	insertRegistration(t, r, "Zed Ochieng", "Percent_100% Ltd", "zed@pct.co.ke", model.RegistrationTypeExhibition, base.Add(2*time.Minute))

	all, err := r.ListRegistrations(ctx, model.RegistrationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, omar.ID, all[1].ID)
	assert.Equal(t, jane.ID, all[2].ID)

	got, err := r.ListRegistrations(ctx, model.RegistrationFilter{Query: "ACME"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, jane.ID, got[0].ID)

	got, err = r.ListRegistrations(ctx, model.RegistrationFilter{Query: "WIDGETS.IO"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, omar.ID, got[0].ID)

	// Pattern characters are matched literally.
	got, err = r.ListRegistrations(ctx, model.RegistrationFilter{Query: "_100%"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Zed Ochieng", got[0].FullName)

	got, err = r.ListRegistrations(ctx, model.RegistrationFilter{Type: model.RegistrationTypeExhibition, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, omar.ID, got[0].ID)
}

func TestPostgres_OptionalColumnsRoundTrip(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	bare := insertRegistration(t, r, "Jane Doe", "Acme", "jane@acme.edu", model.RegistrationTypeDelegation, time.Now().UTC())
	full := &model.Registration{
		RegistrationType:  model.RegistrationTypeExhibition,
		FullName:          "Omar Ali",
		OrganizationName:  "Widget Works",
		Position:          "CEO",
		Email:             "omar@widgets.io",
		Phone:             "+1",
		Category:          "startup",
		ParticipantCount:  strPtr("3"),
		BoothRequirements: strPtr("corner, power"),
		Status:            model.StatusPending,
		SubmittedAt:       time.Now().UTC(),
	}
	require.NoError(t, r.CreateRegistration(ctx, full))

	got, err := r.GetRegistrationByID(ctx, bare.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParticipantCount)
	assert.Nil(t, got.AdditionalInfo)

	got, err = r.GetRegistrationByID(ctx, full.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParticipantCount)
	assert.Equal(t, "3", *got.ParticipantCount)
	assert.Equal(t, "corner, power", *got.BoothRequirements)
	assert.Nil(t, got.SpecialRequirements)

	updated, err := r.UpdateRegistrationStatus(ctx, full.ID, model.StatusContacted)
	require.NoError(t, err)
	assert.Equal(t, model.StatusContacted, updated.Status)
	assert.Equal(t, "3", *updated.ParticipantCount)

	_, err = r.UpdateRegistrationStatus(ctx, full.ID+100, model.StatusContacted)
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
	_, err = r.GetRegistrationByID(ctx, full.ID+100)
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
}

func TestPostgres_ContactMessages(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	m := &model.ContactMessage{Name: "Sam", Email: "sam@example.org", Subject: "Hi", EnquiryType: "general", Message: "Hello", CreatedAt: time.Now().UTC()}
	require.NoError(t, r.CreateContactMessage(ctx, m))

	got, err := r.ListContactMessages(ctx, model.ContactFilter{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Phone)

	for i := 0; i < 2; i++ {
		read, err := r.MarkContactMessageRead(ctx, m.ID)
		require.NoError(t, err)
		assert.True(t, read.IsRead)
	}

	got, err = r.ListContactMessages(ctx, model.ContactFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = r.MarkContactMessageRead(ctx, m.ID+100)
	assert.ErrorIs(t, err, ErrContactMessageNotFound)
}

func TestPostgres_DuplicateSubscriber(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, r.CreateNewsletterSubscriber(ctx, &model.NewsletterSubscriber{Email: "reader@example.org", CreatedAt: time.Now().UTC()}))

	err := r.CreateNewsletterSubscriber(ctx, &model.NewsletterSubscriber{Email: "reader@example.org", CreatedAt: time.Now().UTC()})
	assert.True(t, errors.Is(err, ErrDuplicateSubscriber), "got %v", err)

	subs, err := r.ListNewsletterSubscribers(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}
