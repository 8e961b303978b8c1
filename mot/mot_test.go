package mot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/edgevision/go-bytetrack/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDetections(t *testing.T) {
	input := `# frame,id,x,y,w,h,score,label
1,-1,10,20,40,80,0.9,2
1,-1,100,20,40,80,0.3

3,-1,12,21,40,80,0.85,-1,-1
`

	frames, err := ReadDetections(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, frames, 3)

	assert.Equal(t, 1, frames[0].ID)
	require.Len(t, frames[0].Objects, 2)
	assert.Equal(t, tracker.NewObject(tracker.NewRect(10, 20, 40, 80), 2, 0.9, 1),
		frames[0].Objects[0])
	assert.Equal(t, tracker.NewObject(tracker.NewRect(100, 20, 40, 80), 0, 0.3, 2),
		frames[0].Objects[1])

	// gap is returned as an empty frame
	assert.Equal(t, 2, frames[1].ID)
	assert.Empty(t, frames[1].Objects)

	require.Len(t, frames[2].Objects, 1)
	assert.Equal(t, 3, frames[2].ID)
	assert.Equal(t, 0, frames[2].Objects[0].Label, "negative label falls back to 0")
	assert.Equal(t, int64(3), frames[2].Objects[0].ID)
}

func TestReadDetectionsUnordered(t *testing.T) {
	input := "2,-1,0,0,5,5,0.5\n1,-1,1,1,5,5,0.6\n"

	frames, err := ReadDetections(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, frames, 2)
	assert.Equal(t, float32(0.6), frames[0].Objects[0].Prob)
	assert.Equal(t, float32(0.5), frames[1].Objects[0].Prob)
}

func TestReadDetectionsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  string
	}{
		{"too few fields", "1,-1,10,20,40,80,0.9\n1,-1,10,20\n", "line 2"},
		{"bad frame", "x,-1,10,20,40,80,0.9\n", "line 1"},
		{"zero frame", "0,-1,10,20,40,80,0.9\n", "line 1"},
		{"frame beyond limit", "1,-1,10,20,40,80,0.9\n2000000000,-1,0,0,10,10,0.9\n", "line 2"},
		{"bad score", "# header\n1,-1,10,20,40,80,high\n", "line 2"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadDetections(strings.NewReader(tc.input))

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.Contains(t, err.Error(), tc.line)
		})
	}
}

func TestReadDetectionsEmpty(t *testing.T) {
	frames, err := ReadDetections(strings.NewReader("# nothing\n\n"))

	require.NoError(t, err)
	assert.Empty(t, frames)
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer

	w := NewWriter(&buf)

	err := w.WriteFrame(4, []tracker.Result{
		{Rect: tracker.NewRect(10, 20.5, 40, 80), Label: 1, Prob: 0.9, TrackID: 3},
		{Rect: tracker.NewRect(0, 0, 5, 5), Label: 0, Prob: 0.45, TrackID: 7},
	})
	require.NoError(t, err)
	require.NoError(t, w.WriteFrame(5, nil))
	require.NoError(t, w.Flush())

	assert.Equal(t,
		"4,3,10.00,20.50,40.00,80.00,0.9000,1,-1,-1\n"+
			"4,7,0.00,0.00,5.00,5.00,0.4500,0,-1,-1\n",
		buf.String())
}
