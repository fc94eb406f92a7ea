package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IEC2025/UeabInnovationHub-sub000/internal/dto"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/model"
)

func contactRequest() dto.CreateContactRequest {
	return dto.CreateContactRequest{
		Name:        "Sam Otieno",
		Email:       "sam@example.org",
		Subject:     "Incubation programme",
		EnquiryType: "programs",
		Message:     "How do we apply?",
	}
}

func TestSubmitContact(t *testing.T) {
	f := newFixture(t)

	msg, err := f.svc.SubmitContact(context.Background(), contactRequest())

	require.NoError(t, err)
	assert.NotZero(t, msg.ID)
	assert.False(t, msg.IsRead)
	assert.Nil(t, msg.Phone)
	require.Len(t, f.notifier.Contacts, 1)
}

func TestSubmitContact_Validation(t *testing.T) {
	f := newFixture(t)
	req := contactRequest()
	req.Email = "sam@localhost"
	req.Message = "  "
	req.EnquiryType = ""

	_, err := f.svc.SubmitContact(context.Background(), req)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []string{"email", "message", "enquiryType"}, verr.Fields.Fields())
	assert.Empty(t, f.notifier.Contacts)
}

func TestSubmitContact_NotificationFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.notifier.Fail = true

	_, err := f.svc.SubmitContact(context.Background(), contactRequest())
	require.NoError(t, err)

	msgs, err := f.svc.ListContacts(context.Background(), model.ContactFilter{})
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestMarkContactRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.svc.SubmitContact(ctx, contactRequest())
	require.NoError(t, err)
	_, err = f.svc.SubmitContact(ctx, contactRequest())
	require.NoError(t, err)

	read, err := f.svc.MarkContactRead(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	again, err := f.svc.MarkContactRead(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, again.IsRead)

	unread, err := f.svc.ListContacts(ctx, model.ContactFilter{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.NotEqual(t, first.ID, unread[0].ID)

	_, err = f.svc.MarkContactRead(ctx, 404)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestSubscribe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub, err := f.svc.Subscribe(ctx, dto.NewsletterRequest{Email: "  Reader@Example.ORG "})
	require.NoError(t, err)
	assert.Equal(t, "reader@example.org", sub.Email)

	_, err = f.svc.Subscribe(ctx, dto.NewsletterRequest{Email: "reader@example.org"})
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "email", conflict.Field)

	_, err = f.svc.Subscribe(ctx, dto.NewsletterRequest{Email: "not-an-email"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.False(t, errors.As(err, &conflict))

	subs, err := f.svc.ListSubscribers(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestListSubscribers_PersistenceError(t *testing.T) {
	f := newFixture(t)
	f.repo.SetErr(errors.New("db down"))

	_, err := f.svc.ListSubscribers(context.Background())

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
}

func TestListContacts_InvalidPagingNamesEachField(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		filter model.ContactFilter
		want   []string
	}{
		{model.ContactFilter{Limit: -1}, []string{"limit"}},
		{model.ContactFilter{Offset: -1}, []string{"offset"}},
		{model.ContactFilter{Limit: -1, Offset: -2}, []string{"limit", "offset"}},
	}
	for _, tc := range cases {
		_, err := f.svc.ListContacts(context.Background(), tc.filter)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, tc.want, verr.Fields.Fields())
	}
}

func TestSubmitContact_NotifiesAfterClientDisconnect(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.SubmitContact(ctx, contactRequest())

	require.NoError(t, err)
	require.Len(t, f.notifier.CtxErrs, 1)
	assert.NoError(t, f.notifier.CtxErrs[0])
}
