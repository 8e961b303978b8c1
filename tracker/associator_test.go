package tracker

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIoUMatrix(t *testing.T) {
	a := []Rect{NewRect(0, 0, 10, 10), NewRect(100, 100, 10, 10)}
	b := []Rect{NewRect(0, 0, 10, 10), NewRect(5, 0, 10, 10), NewRect(100, 100, 10, 10)}

	ious := IoUMatrix(a, b)

	require.Len(t, ious, 2)
	require.Len(t, ious[0], 3)
	assert.Equal(t, float32(1), ious[0][0])
	assert.InDelta(t, 1.0/3.0, ious[0][1], 1e-6)
	assert.Equal(t, float32(0), ious[0][2])
	assert.Equal(t, float32(1), ious[1][2])

	assert.Empty(t, IoUMatrix(nil, b))
}

// associators returns every implementation so shared behaviour is checked
// against each
func associators() map[string]Associator {
	return map[string]Associator{
		"greedy":  NewGreedyAssociator(),
		"optimal": NewOptimalAssociator(),
	}
}

func TestAssociateShared(t *testing.T) {
	for name, a := range associators() {
		t.Run(name+"/empty inputs", func(t *testing.T) {
			res, err := a.Associate(nil, []Rect{NewRect(0, 0, 1, 1)}, 0.2)
			require.NoError(t, err)
			assert.Empty(t, res.Matches)
			assert.Empty(t, res.UnmatchedTracks)
			assert.Equal(t, []int{0}, res.UnmatchedDetections)

			res, err = a.Associate([]Rect{NewRect(0, 0, 1, 1)}, nil, 0.2)
			require.NoError(t, err)
			assert.Empty(t, res.Matches)
			assert.Equal(t, []int{0}, res.UnmatchedTracks)
			assert.Empty(t, res.UnmatchedDetections)
		})

		t.Run(name+"/one to one", func(t *testing.T) {
			tracks := []Rect{NewRect(0, 0, 10, 10), NewRect(50, 50, 10, 10)}
			dets := []Rect{NewRect(51, 51, 10, 10), NewRect(200, 200, 10, 10), NewRect(1, 0, 10, 10)}

			res, err := a.Associate(tracks, dets, 0.2)
			require.NoError(t, err)

			got := map[int]int{}
			for _, m := range res.Matches {
				got[m.Track] = m.Detection
			}

			if diff := cmp.Diff(map[int]int{0: 2, 1: 0}, got); diff != "" {
				t.Errorf("matches mismatch (-want +got):\n%s", diff)
			}
			assert.Empty(t, res.UnmatchedTracks)
			assert.Equal(t, []int{1}, res.UnmatchedDetections)
		})

		t.Run(name+"/threshold is exclusive", func(t *testing.T) {
			tracks := []Rect{NewRect(0, 0, 10, 10)}
			// IoU of exactly 1/3
			dets := []Rect{NewRect(5, 0, 10, 10)}

			iou := tracks[0].CalcIoU(dets[0])

			res, err := a.Associate(tracks, dets, iou)
			require.NoError(t, err)
			assert.Empty(t, res.Matches)

			res, err = a.Associate(tracks, dets, iou-0.01)
			require.NoError(t, err)
			assert.Len(t, res.Matches, 1)
		})
	}
}

func TestGreedyAssociatorPrefersHighestIoU(t *testing.T) {
	// track 0 overlaps both detections, detection 0 best.  Track 1 only
	// overlaps detection 0 above the threshold so greedy leaves it unmatched.
	tracks := []Rect{NewRect(0, 0, 10, 10), NewRect(3, 0, 10, 10)}
	dets := []Rect{NewRect(1, 0, 10, 10), NewRect(-4, 0, 10, 10)}

	res, err := NewGreedyAssociator().Associate(tracks, dets, 0.2)
	require.NoError(t, err)

	require.Len(t, res.Matches, 1)
	assert.Equal(t, 0, res.Matches[0].Track)
	assert.Equal(t, 0, res.Matches[0].Detection)
	assert.Equal(t, []int{1}, res.UnmatchedTracks)
	assert.Equal(t, []int{1}, res.UnmatchedDetections)
}

func TestOptimalAssociatorMinimisesTotalDistance(t *testing.T) {
	// same layout as the greedy case, the optimal assignment matches both
	tracks := []Rect{NewRect(0, 0, 10, 10), NewRect(3, 0, 10, 10)}
	dets := []Rect{NewRect(1, 0, 10, 10), NewRect(-4, 0, 10, 10)}

	res, err := NewOptimalAssociator().Associate(tracks, dets, 0.2)
	require.NoError(t, err)

	got := map[int]int{}
	for _, m := range res.Matches {
		got[m.Track] = m.Detection
	}

	assert.Equal(t, map[int]int{0: 1, 1: 0}, got)
	assert.Empty(t, res.UnmatchedTracks)
	assert.Empty(t, res.UnmatchedDetections)
}

func TestSolveAssignment(t *testing.T) {
	cost := [][]float64{
		{1, 2, 3},
		{4, 4, 6},
		{9, 8, 5},
	}

	assert.Equal(t, []int{0, 1, 2}, solveAssignment(cost))

	cost = [][]float64{
		{4, 1, 3, 2},
		{2, 0, 5, 3},
		{3, 2, 2, 3},
		{2, 3, 3, 2},
	}

	rowsol := solveAssignment(cost)

	total := 0.0
	for i, j := range rowsol {
		total += cost[i][j]
	}

	assert.Equal(t, 6.0, total)
}
