package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/controlusuario/userbot/internal/domain"
)

func TestCreateIfAbsentIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.CreateIfAbsent(ctx, 5, "ana")
	require.NoError(t, err)
	assert.True(t, created)

	_, err = store.UpdateFields(ctx, 5, map[string]string{domain.FieldPlan: "Plus"})
	require.NoError(t, err)

	created, err = store.CreateIfAbsent(ctx, 5, "other")
	require.NoError(t, err)
	assert.False(t, created)

	u, err := store.FindByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "ana", u.Username.String)
	assert.Equal(t, "Plus", u.Plan.String)
}

func TestFindByIDNotFound(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.FindByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateFieldsUnknownField(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_, err := store.CreateIfAbsent(ctx, 1, "u")
	require.NoError(t, err)

	_, err = store.UpdateFields(ctx, 1, map[string]string{"password": "x"})
	assert.Error(t, err)
}

func TestUpdateFieldsMissingUser(t *testing.T) {
	matched, err := NewMemoryStore().UpdateFields(context.Background(), 9, map[string]string{domain.FieldPlan: "Free"})
	require.NoError(t, err)
	assert.Zero(t, matched)
}

func TestSetVerified(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_, err := store.CreateIfAbsent(ctx, 7, "u")
	require.NoError(t, err)

	matched, err := store.SetVerified(ctx, 7, "555")
	require.NoError(t, err)
	assert.EqualValues(t, 1, matched)

	u, err := store.FindByID(ctx, 7)
	require.NoError(t, err)
	assert.True(t, u.Verified)
	assert.Equal(t, "555", u.Phone.String)
}

func TestListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for i := int64(1); i <= 5; i++ {
		_, err := store.CreateIfAbsent(ctx, i, fmt.Sprintf("user%d", i))
		require.NoError(t, err)
	}

	users, err := store.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.EqualValues(t, 2, users[0].ID)
	assert.EqualValues(t, 3, users[1].ID)

	users, err = store.List(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, users)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
}
