package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectsFromTlbr(t *testing.T) {
	objs, err := ObjectsFromTlbr(
		[]Tlbr{{10, 20, 50, 100}, {0, 0, 4, 4}},
		[]int{0, 2},
		[]float32{0.9, 0.3},
	)
	require.NoError(t, err)

	require.Len(t, objs, 2)

	assert.Equal(t, NewObject(NewRect(10, 20, 40, 80), 0, 0.9, 1), objs[0])
	assert.Equal(t, NewObject(NewRect(0, 0, 4, 4), 2, 0.3, 2), objs[1])
}

func TestObjectsFromTlbrLengthMismatch(t *testing.T) {
	boxes := []Tlbr{{10, 20, 50, 100}, {0, 0, 4, 4}}

	_, err := ObjectsFromTlbr(boxes, []int{0}, []float32{0.9, 0.3})
	assert.Error(t, err)

	_, err = ObjectsFromTlbr(boxes, []int{0, 1}, []float32{0.9})
	assert.Error(t, err)

	objs, err := ObjectsFromTlbr(nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, objs)
}

func TestSTracksToResults(t *testing.T) {
	s := NewSTrack(NewRect(10, 20, 40, 80), 0.8, 7, 3, NewAlphaBetaFilter())
	s.Activate(1, 4)

	results := STracksToResults([]*STrack{s})

	require.Len(t, results, 1)
	assert.Equal(t, Result{
		Rect:        NewRect(10, 20, 40, 80),
		Label:       3,
		Prob:        0.8,
		TrackID:     4,
		DetectionID: 7,
	}, results[0])

	// results do not alias the track rect
	results[0].Rect.Tlwh[0] = 99
	assert.Equal(t, float32(10), s.GetRect().X())

	assert.Empty(t, STracksToResults(nil))
}
