package trackstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/edgevision/go-bytetrack/tracker"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "tracks.db"))
	require.NoError(t, err)

	t.Cleanup(func() { store.Close() })

	return store
}

func result(trackID int, x float32) tracker.Result {
	return tracker.Result{
		Rect:        tracker.NewRect(x, 20, 40, 80),
		Label:       1,
		Prob:        0.75,
		TrackID:     trackID,
		DetectionID: int64(trackID * 10),
	}
}

func TestRecordAndQueryHistory(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	session := uuid.New()

	require.NoError(t, store.RecordFrame(ctx, session, 1, []tracker.Result{result(1, 10), result(2, 200)}))
	require.NoError(t, store.RecordFrame(ctx, session, 2, []tracker.Result{result(1, 12)}))
	require.NoError(t, store.RecordFrame(ctx, session, 3, nil))
	require.NoError(t, store.RecordFrame(ctx, session, 4, []tracker.Result{result(1, 16)}))

	history, err := store.TrackHistory(ctx, session, 1)
	require.NoError(t, err)

	require.Len(t, history, 3)
	assert.Equal(t, []int{1, 2, 4}, []int{history[0].FrameID, history[1].FrameID, history[2].FrameID})
	assert.Equal(t, Observation{
		FrameID:     2,
		TrackID:     1,
		DetectionID: 10,
		Label:       1,
		Score:       0.75,
		Rect:        tracker.NewRect(12, 20, 40, 80),
	}, history[1])

	history, err = store.TrackHistory(ctx, session, 2)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	history, err = store.TrackHistory(ctx, uuid.New(), 1)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRecordFrameReplaces(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	session := uuid.New()

	require.NoError(t, store.RecordFrame(ctx, session, 1, []tracker.Result{result(1, 10), result(2, 200)}))
	require.NoError(t, store.RecordFrame(ctx, session, 2, []tracker.Result{result(2, 202)}))
	require.NoError(t, store.RecordFrame(ctx, session, 1, []tracker.Result{result(1, 30)}))

	history, err := store.TrackHistory(ctx, session, 1)
	require.NoError(t, err)

	require.Len(t, history, 1)
	assert.Equal(t, float32(30), history[0].Rect.X())

	// track 2 is gone from frame 1 but frame 2 is untouched
	history, err = store.TrackHistory(ctx, session, 2)
	require.NoError(t, err)

	require.Len(t, history, 1)
	assert.Equal(t, 2, history[0].FrameID)
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	ids, err := store.Sessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	first, second := uuid.New(), uuid.New()

	require.NoError(t, store.RecordFrame(ctx, first, 1, []tracker.Result{result(1, 10)}))
	require.NoError(t, store.RecordFrame(ctx, second, 1, nil))
	require.NoError(t, store.RecordFrame(ctx, first, 2, nil))

	ids, err = store.Sessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, ids)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tracks.db")
	session := uuid.New()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.RecordFrame(ctx, session, 1, []tracker.Result{result(3, 10)}))
	require.NoError(t, store.Close())

	// migrations already applied are skipped
	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	history, err := store.TrackHistory(ctx, session, 3)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRecordFrameCancelled(t *testing.T) {
	store := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.RecordFrame(ctx, uuid.New(), 1, []tracker.Result{result(1, 10)})
	assert.Error(t, err)
}
