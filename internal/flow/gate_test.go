package flow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/controlusuario/userbot/internal/storage"
)

func TestFirstContactIsIdempotent(t *testing.T) {
	ctx := context.Background()
	users := storage.NewMemoryStore()
	gate := NewGate(users)

	outcome, err := gate.FirstContact(ctx, 5, "ana")
	require.NoError(t, err)
	assert.Equal(t, RegistrationCreated, outcome)

	// Simulate fields set after creation; a repeated first contact must not
	// touch them.
	_, err = users.SetPhone(ctx, 5, "111")
	require.NoError(t, err)

	outcome, err = gate.FirstContact(ctx, 5, "renamed")
	require.NoError(t, err)
	assert.Equal(t, RegistrationExists, outcome)

	u, err := users.FindByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "ana", u.Username.String)
	assert.Equal(t, "111", u.Phone.String)

	n, err := users.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestPhoneSharedRejectsForeignContact(t *testing.T) {
	ctx := context.Background()
	users := storage.NewMemoryStore()
	gate := NewGate(users)

	_, err := gate.FirstContact(ctx, 5, "ana")
	require.NoError(t, err)

	result, err := gate.PhoneShared(ctx, 5, "123", 6)
	require.NoError(t, err)
	assert.Equal(t, PhoneMismatchedOwner, result)

	u, err := users.FindByID(ctx, 5)
	require.NoError(t, err)
	assert.False(t, u.Phone.Valid)
}

func TestPhoneSharedRequiresRegistration(t *testing.T) {
	ctx := context.Background()
	gate := NewGate(storage.NewMemoryStore())

	result, err := gate.PhoneShared(ctx, 5, "123", 5)
	require.NoError(t, err)
	assert.Equal(t, PhoneNotRegistered, result)
}

func TestPhoneSharedOverwritesPrevious(t *testing.T) {
	ctx := context.Background()
	users := storage.NewMemoryStore()
	gate := NewGate(users)

	_, err := gate.FirstContact(ctx, 5, "ana")
	require.NoError(t, err)

	result, err := gate.PhoneShared(ctx, 5, "123", 5)
	require.NoError(t, err)
	assert.Equal(t, PhoneAccepted, result)

	// Phone numbers change; re-sharing keeps the latest value.
	result, err = gate.PhoneShared(ctx, 5, "456", 5)
	require.NoError(t, err)
	assert.Equal(t, PhoneAccepted, result)

	u, err := users.FindByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "456", u.Phone.String)
}
