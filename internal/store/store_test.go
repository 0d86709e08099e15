package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goreads/goreads/internal/book"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testLibrary(userID int) *book.Library {
	read := time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)
	return &book.Library{
		UserID: userID,
		Books: []book.Book{
			{
				Title:         "The Fifth Season",
				AuthorName:    "N.K. Jemisin",
				NumberOfPages: 468,
				DateRead:      &read,
				UserRating:    book.ItWasAmazing,
				UserReview:    "Stunning.",
				SeriesName:    "The Broken Earth",
				SeriesEntry:   1,
			},
			{
				Title:      "Piranesi",
				AuthorName: "Susanna Clarke",
			},
		},
	}
}

func TestSaveAndLatestSnapshot(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	fetchedAt := time.Date(2025, time.June, 1, 10, 30, 0, 0, time.UTC)
	id, err := s.SaveSnapshot(ctx, testLibrary(42), fetchedAt)
	require.NoError(t, err)
	assert.Positive(t, id)

	lib, snap, err := s.LatestSnapshot(ctx, 42)
	require.NoError(t, err)

	assert.Equal(t, id, snap.ID)
	assert.Equal(t, 42, snap.UserID)
	assert.Equal(t, fetchedAt, snap.FetchedAt)
	assert.Equal(t, 2, snap.BookCount)

	require.Len(t, lib.Books, 2)
	first := lib.Books[0]
	assert.Equal(t, "The Fifth Season", first.Title)
	assert.Equal(t, "N.K. Jemisin", first.AuthorName)
	assert.Equal(t, 468, first.NumberOfPages)
	assert.Equal(t, book.ItWasAmazing, first.UserRating)
	assert.Equal(t, "Stunning.", first.UserReview)
	assert.Equal(t, "The Broken Earth", first.SeriesName)
	assert.Equal(t, 1.0, first.SeriesEntry)
	require.NotNil(t, first.DateRead)
	assert.Equal(t, time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC), *first.DateRead)

	second := lib.Books[1]
	assert.Equal(t, "Piranesi", second.Title)
	assert.Nil(t, second.DateRead)
	assert.Equal(t, book.NoRating, second.UserRating)
}

func TestLatestSnapshotPicksNewest(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	older := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.SaveSnapshot(ctx, testLibrary(7), older)
	require.NoError(t, err)

	lib2 := testLibrary(7)
	lib2.Books = lib2.Books[:1]
	_, err = s.SaveSnapshot(ctx, lib2, newer)
	require.NoError(t, err)

	lib, snap, err := s.LatestSnapshot(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, newer, snap.FetchedAt)
	assert.Len(t, lib.Books, 1)
}

func TestLatestSnapshotMissingUser(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	_, _, err := s.LatestSnapshot(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestListSnapshots(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	times := []time.Time{
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, ts := range times {
		_, err := s.SaveSnapshot(ctx, testLibrary(11), ts)
		require.NoError(t, err)
	}

	// Another user's snapshots stay out of the listing.
	_, err := s.SaveSnapshot(ctx, testLibrary(12), times[0])
	require.NoError(t, err)

	snaps, err := s.ListSnapshots(ctx, 11)
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), snaps[0].FetchedAt)
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), snaps[1].FetchedAt)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), snaps[2].FetchedAt)
	for _, snap := range snaps {
		assert.Equal(t, 11, snap.UserID)
		assert.Equal(t, 2, snap.BookCount)
	}
}

func TestListSnapshotsEmpty(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	snaps, err := s.ListSnapshots(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "library.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())
}
