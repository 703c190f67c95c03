package gamification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCompletedBookIdempotent(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddCompletedBook(ctx, 1, "book-1", "The Brave Fox"))
	require.NoError(t, svc.AddCompletedBook(ctx, 1, "book-1", "The Brave Fox"))
	require.NoError(t, svc.AddCompletedBook(ctx, 1, "book-2", "Owl at Night"))

	a, err := store.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, a.CompletedBooksCount)
	require.Len(t, a.CompletedBooks, 2)
	assert.True(t, a.HasBook("book-1"))
	assert.True(t, a.HasBook("book-2"))
	assert.Equal(t, "The Brave Fox", a.CompletedBooks[0].Title)
	assert.False(t, a.CompletedBooks[0].FinishedAt.IsZero())
}

func TestAddCompletedBookValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	err := svc.AddCompletedBook(ctx, 0, "book-1", "")
	assertCode(t, err, CodeUnauthorized)

	err = svc.AddCompletedBook(ctx, 1, "", "")
	assertCode(t, err, CodeValidation)
}

func TestAddPoints(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.AddPoints(ctx, 1, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, a.Points)

	a, err = svc.AddPoints(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 11, a.Points)

	// Negative amounts clamp to zero rather than draining points.
	a, err = svc.AddPoints(ctx, 1, -50)
	require.NoError(t, err)
	assert.Equal(t, 11, a.Points)
}

func TestCompletedBooksFeedRank(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		bookID := string(rune('a' + i))
		require.NoError(t, svc.AddCompletedBook(ctx, 1, bookID, ""))
	}

	rank, err := svc.Rank(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Bronze 2", rank.CurrentRank)
}
