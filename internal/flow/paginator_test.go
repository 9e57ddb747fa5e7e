package flow

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/controlusuario/userbot/internal/storage"
)

func seedUsers(t *testing.T, n int) *storage.MemoryStore {
	t.Helper()
	users := storage.NewMemoryStore()
	ctx := context.Background()
	for i := 1; i <= n; i++ {
		_, err := users.CreateIfAbsent(ctx, int64(i), fmt.Sprintf("user%d", i))
		require.NoError(t, err)
	}
	return users
}

func TestPaginationBoundaries(t *testing.T) {
	ctx := context.Background()
	p := NewPaginator(seedUsers(t, 25), 10)

	eff, err := p.Render(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, ActionShowPage, eff.Action)
	require.NotNil(t, eff.Window)
	assert.False(t, eff.Window.HasPrev)
	assert.True(t, eff.Window.HasNext)
	assert.EqualValues(t, 25, eff.Window.Total)

	eff, err = p.Render(ctx, 2)
	require.NoError(t, err)
	assert.True(t, eff.Window.HasPrev)
	assert.False(t, eff.Window.HasNext)
	// Last page holds the remaining 5 records.
	assert.Equal(t, 5, strings.Count(eff.Text, "ID: "))
}

func TestOutOfRangePageIsEmptyNotError(t *testing.T) {
	ctx := context.Background()
	p := NewPaginator(seedUsers(t, 25), 10)

	eff, err := p.Render(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, ActionShowPage, eff.Action)
	assert.Contains(t, eff.Text, msgEmptyPage)
	assert.True(t, eff.Window.HasPrev)
	assert.False(t, eff.Window.HasNext)
}

func TestNegativePageClampsToZero(t *testing.T) {
	ctx := context.Background()
	p := NewPaginator(seedUsers(t, 3), 10)

	eff, err := p.Render(ctx, -4)
	require.NoError(t, err)
	assert.Equal(t, 0, eff.Window.Page)
	assert.False(t, eff.Window.HasPrev)
	assert.False(t, eff.Window.HasNext)
	assert.Equal(t, 3, strings.Count(eff.Text, "ID: "))
}

func TestRenderShowsStableOrderAndPlaceholders(t *testing.T) {
	ctx := context.Background()
	users := seedUsers(t, 3)
	p := NewPaginator(users, 10)

	eff, err := p.Render(ctx, 0)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(eff.Text), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Contains(t, lines[2], "ID: 1 | @user1")
	assert.Contains(t, lines[3], "ID: 2 | @user2")
	// Unset enum fields render as dashes.
	assert.Contains(t, lines[2], "Plan: -")
}

func TestDefaultPageSize(t *testing.T) {
	p := NewPaginator(storage.NewMemoryStore(), 0)
	eff, err := p.Render(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 10, eff.Window.PageSize)
}
