package interview

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerStartAndGet(t *testing.T) {
	model := &stubModel{reply: questionReplies}
	m := NewManager(model, &stubRecorder{}, DefaultOptions())
	userID := uuid.New()

	res, err := m.Start(context.Background(), freeStart(userID))
	require.NoError(t, err)

	ctrl, err := m.Get(res.SessionID, userID)
	require.NoError(t, err)
	assert.Equal(t, StateInProgress, ctrl.State())

	_, err = m.Get(res.SessionID, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound, "sessions are never shared across users")

	_, err = m.Get("no-such-session", userID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerNewStartDiscardsPreviousSession(t *testing.T) {
	model := &stubModel{reply: questionReplies}
	m := NewManager(model, &stubRecorder{}, DefaultOptions())
	userID := uuid.New()
	ctx := context.Background()

	p := StartParams{UserID: userID, Tier: TierUltimate, Category: CategoryMixed}
	first, err := m.Start(ctx, p)
	require.NoError(t, err)

	second, err := m.Start(ctx, p)
	require.NoError(t, err)
	assert.NotEqual(t, first.SessionID, second.SessionID)

	_, err = m.Get(first.SessionID, userID)
	assert.ErrorIs(t, err, ErrSessionNotFound, "starting anew abandons the prior session")

	_, err = m.Get(second.SessionID, userID)
	assert.NoError(t, err)
}

func TestManagerResetIsIdempotent(t *testing.T) {
	model := &stubModel{reply: questionReplies}
	m := NewManager(model, &stubRecorder{}, DefaultOptions())
	userID := uuid.New()

	res, err := m.Start(context.Background(), freeStart(userID))
	require.NoError(t, err)

	m.Reset(res.SessionID, userID)
	m.Reset(res.SessionID, userID) // second reset is a no-op

	_, err = m.Get(res.SessionID, userID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerResetIgnoresForeignSessions(t *testing.T) {
	model := &stubModel{reply: questionReplies}
	m := NewManager(model, &stubRecorder{}, DefaultOptions())
	owner := uuid.New()

	res, err := m.Start(context.Background(), freeStart(owner))
	require.NoError(t, err)

	m.Reset(res.SessionID, uuid.New())

	ctrl, err := m.Get(res.SessionID, owner)
	require.NoError(t, err)
	assert.Equal(t, StateInProgress, ctrl.State())
}
