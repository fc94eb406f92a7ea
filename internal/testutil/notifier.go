package testutil

import (
	"context"
	"sync"

	"github.com/IEC2025/UeabInnovationHub-sub000/internal/model"
)

// RecordingNotifier records every notification and answers with Fail's
// negation. CtxErrs holds the state of each call's context.
type RecordingNotifier struct {
	mu sync.Mutex

	Fail          bool
	Registrations []model.Registration
	Contacts      []model.ContactMessage
	CtxErrs       []error
}

func (n *RecordingNotifier) RegistrationReceived(ctx context.Context, reg model.Registration, _ model.FeeTable) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Registrations = append(n.Registrations, reg)
	n.CtxErrs = append(n.CtxErrs, ctx.Err())
	return !n.Fail
}

func (n *RecordingNotifier) ContactReceived(ctx context.Context, m model.ContactMessage) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Contacts = append(n.Contacts, m)
	n.CtxErrs = append(n.CtxErrs, ctx.Err())
	return !n.Fail
}
