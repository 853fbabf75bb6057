package main

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestShelfServiceEdit ensures an edit moves the book into the form and
// that submitting the form creates a book with a new id.
func TestShelfServiceEdit(t *testing.T) {
	ts := newTestShelf(nil)
	ctx := context.Background()

	book, err := ts.service.Add(ctx, BookInput{Title: "Dune", Author: "Herbert", Year: "1965"})
	require.NoError(t, err)

	_, ok := ts.service.Draft(ctx)
	assert.False(t, ok)

	draft, err := ts.service.Edit(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, BookDraft{Title: "Dune", Author: "Herbert", Year: "1965"}, draft)
	assert.Empty(t, ts.service.GetAll(ctx))

	saved, ok := ts.service.Draft(ctx)
	assert.True(t, ok)
	assert.Equal(t, draft, saved)

	resubmitted, err := ts.service.Add(ctx, BookInput{
		Title:      draft.Title,
		Author:     draft.Author,
		Year:       FormValue(draft.Year),
		IsComplete: draft.IsComplete,
	})
	require.NoError(t, err)
	assert.NotEqual(t, book.ID, resubmitted.ID)
	assert.Equal(t, book.Title, resubmitted.Title)
	assert.Equal(t, book.Year, resubmitted.Year)

	_, ok = ts.service.Draft(ctx)
	assert.False(t, ok)
}

func TestShelfServiceNotFound(t *testing.T) {
	ts := newTestShelf(nil)
	ctx := context.Background()

	_, err := ts.service.GetOne(ctx, 1)
	assert.ErrorIs(t, err, ErrBookNotFound)
	_, err = ts.service.Toggle(ctx, 1)
	assert.ErrorIs(t, err, ErrBookNotFound)
	_, err = ts.service.Delete(ctx, 1)
	assert.ErrorIs(t, err, ErrBookNotFound)
	_, err = ts.service.Edit(ctx, 1)
	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.Empty(t, ts.changes.Published())
}

// TestShelfServiceUnreadableYear ensures a bad year is stored as not-a-number.
func TestShelfServiceUnreadableYear(t *testing.T) {
	ts := newTestShelf(nil)
	book, err := ts.service.Add(context.Background(), BookInput{Title: "Untitled", Year: "someday"})
	require.NoError(t, err)
	assert.False(t, book.Year.Valid)
	assert.Contains(t, ts.slot.Values[DefaultStorageKey], `"year":null`)
}

func TestShelfServiceToggleAndDelete(t *testing.T) {
	ts := newTestShelf(nil)
	ctx := context.Background()
	book, err := ts.service.Add(ctx, BookInput{Title: "Dune", Author: "Herbert", Year: "1965"})
	require.NoError(t, err)

	toggled, err := ts.service.Toggle(ctx, book.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsComplete)

	deleted, err := ts.service.Delete(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, toggled, deleted)
	assert.Empty(t, ts.service.GetAll(ctx))
}

// TestShelfServiceToggleRacingDelete ensures a toggle racing a delete
// either reports the toggled book or ErrBookNotFound, never an empty book.
func TestShelfServiceToggleRacingDelete(t *testing.T) {
	ts := newTestShelf(nil)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		book, err := ts.service.Add(ctx, BookInput{Title: "Dune", Author: "Herbert", Year: "1965"})
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = ts.service.Delete(ctx, book.ID)
		}()
		toggled, err := ts.service.Toggle(ctx, book.ID)
		wg.Wait()

		if err != nil {
			require.ErrorIs(t, err, ErrBookNotFound)
			continue
		}
		require.Equal(t, book.ID, toggled.ID, "run %d", i)
		require.Equal(t, "Dune", toggled.Title, "run %d", i)
		require.True(t, toggled.IsComplete, "run %d", i)
	}
}
