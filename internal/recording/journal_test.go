package recording

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := OpenJournal(filepath.Join(t.TempDir(), "data", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalRecordAndReadBack(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	sel := testSelection(t, "session-1", "一")
	require.NoError(t, j.Record(ctx, sel))

	pending, err := j.Undelivered(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	got := pending[0]
	assert.Equal(t, sel.ID, got.ID)
	assert.Equal(t, sel.SessionID, got.SessionID)
	assert.Equal(t, sel.Character, got.Character)
	assert.Equal(t, sel.Strokes, got.Strokes)
	assert.Equal(t, sel.Candidates, got.Candidates)
	assert.WithinDuration(t, sel.RecordedAt, got.RecordedAt, time.Millisecond)
}

func TestJournalRecordIsIdempotent(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	sel := testSelection(t, "session-1", "一")
	require.NoError(t, j.Record(ctx, sel))
	require.NoError(t, j.Record(ctx, sel))

	n, err := j.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestJournalMarkDelivered(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	a := testSelection(t, "session-1", "一")
	time.Sleep(2 * time.Millisecond)
	b := testSelection(t, "session-1", "二")
	require.NoError(t, j.Record(ctx, a))
	require.NoError(t, j.Record(ctx, b))

	require.NoError(t, j.MarkDelivered(ctx, a.ID))

	pending, err := j.Undelivered(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, b.ID, pending[0].ID)
}

func TestJournalUndeliveredOrderedOldestFirst(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	a := testSelection(t, "session-1", "一")
	time.Sleep(2 * time.Millisecond)
	b := testSelection(t, "session-1", "二")
	require.NoError(t, j.Record(ctx, b))
	require.NoError(t, j.Record(ctx, a))

	pending, err := j.Undelivered(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, a.ID, pending[0].ID)
	assert.Equal(t, b.ID, pending[1].ID)
}

func TestJournalUndeliveredLimit(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	for _, c := range []string{"一", "二", "丨"} {
		require.NoError(t, j.Record(ctx, testSelection(t, "session-1", c)))
		time.Sleep(2 * time.Millisecond)
	}

	pending, err := j.Undelivered(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}
