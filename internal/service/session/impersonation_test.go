package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daway0/pors/pkg/clients/ledger"
)

func TestImpersonationAttachesIdentity(t *testing.T) {
	fake := newFakeLedger()
	fake.panel.GodMode = true
	s := openSession(t, fake)

	require.NoError(t, s.Impersonate(context.Background(), "sara", "SUPPORT", "requested by phone"))

	// The reload already ran as the target user.
	lastActing := fake.calendarActing[len(fake.calendarActing)-1]
	require.NotNil(t, lastActing)
	assert.Equal(t, "sara", lastActing.Username)

	require.NoError(t, s.AddItem(context.Background(), 1))
	require.Len(t, fake.createReqs, 1)
	acting := fake.createReqs[0].Acting
	require.NotNil(t, acting)
	assert.Equal(t, ledger.Identity{
		Username: "sara",
		Reason:   "SUPPORT",
		Comment:  "requested by phone",
	}, *acting)

	assert.Equal(t, "sara", s.Snapshot().Impersonating)
}

func TestImpersonationRequiresAllFields(t *testing.T) {
	fake := newFakeLedger()
	fake.panel.GodMode = true
	s := openSession(t, fake)

	err := s.Impersonate(context.Background(), "sara", "", "")
	assert.ErrorIs(t, err, ErrImpersonationFields)
	assert.False(t, s.acting.Active())
}

func TestImpersonationRequiresGodMode(t *testing.T) {
	s := openSession(t, newFakeLedger())

	err := s.Impersonate(context.Background(), "sara", "SUPPORT", "x")
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestFailedReloadClearsActingContext(t *testing.T) {
	fake := newFakeLedger()
	fake.panel.GodMode = true
	s := openSession(t, fake)

	fake.panelErr = &ledger.ServerError{StatusCode: 500}
	require.Error(t, s.Impersonate(context.Background(), "sara", "SUPPORT", "x"))
	assert.False(t, s.acting.Active())
}

func TestFailedImpersonationKeepsOwnModel(t *testing.T) {
	fake := newFakeLedger()
	fake.panel.GodMode = true
	s := openSession(t, fake)
	require.NoError(t, s.AddItem(context.Background(), 1))

	fake.calendarErr = &ledger.ServerError{StatusCode: 500}
	require.Error(t, s.Impersonate(context.Background(), "sara", "SUPPORT", "x"))
	assert.False(t, s.acting.Active())

	// The reload failed past the panel fetch; the caller keeps their own
	// fully loaded model, not a half-switched one.
	snap := s.Snapshot()
	assert.Empty(t, snap.Impersonating)
	require.NotNil(t, snap.Order)
	assert.Equal(t, 1, snap.Order.Quantity(1))
	assert.Len(t, snap.Menu, 3)
}

func TestStopImpersonationDetachesIdentity(t *testing.T) {
	fake := newFakeLedger()
	fake.panel.GodMode = true
	s := openSession(t, fake)
	require.NoError(t, s.Impersonate(context.Background(), "sara", "SUPPORT", "x"))

	require.NoError(t, s.StopImpersonation(context.Background()))
	require.NoError(t, s.AddItem(context.Background(), 1))

	require.Len(t, fake.createReqs, 1)
	assert.Nil(t, fake.createReqs[0].Acting)
	assert.Empty(t, s.Snapshot().Impersonating)
}
