package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/rebound/internal/domain"
	"github.com/alexanderramin/rebound/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagStatRepo_UpsertAndGet(t *testing.T) {
	repo := NewSQLiteTagStatRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)

	_, err := repo.Get(ctx, "u1", "math")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Upsert(ctx, &domain.TagStat{UserID: "u1", Tag: "math", SampleCount: 1, AvgActualMinutes: 40, UpdatedAt: now}))
	require.NoError(t, repo.Upsert(ctx, &domain.TagStat{UserID: "u1", Tag: "math", SampleCount: 2, AvgActualMinutes: 45.5, UpdatedAt: now}))

	got, err := repo.Get(ctx, "u1", "math")
	require.NoError(t, err)
	assert.Equal(t, 2, got.SampleCount)
	assert.InDelta(t, 45.5, got.AvgActualMinutes, 1e-9)
	assert.True(t, now.Equal(got.UpdatedAt))
}

func TestTagStatRepo_ListByUser(t *testing.T) {
	repo := NewSQLiteTagStatRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	for _, s := range []domain.TagStat{
		{UserID: "u1", Tag: "writing", SampleCount: 3, AvgActualMinutes: 50, UpdatedAt: now},
		{UserID: "u1", Tag: "art", SampleCount: 1, AvgActualMinutes: 20, UpdatedAt: now},
		{UserID: "u2", Tag: "art", SampleCount: 9, AvgActualMinutes: 90, UpdatedAt: now},
	} {
		require.NoError(t, repo.Upsert(ctx, &s))
	}

	got, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "art", got[0].Tag)
	assert.Equal(t, 1, got[0].SampleCount)
	assert.Equal(t, "writing", got[1].Tag)
}
