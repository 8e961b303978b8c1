package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/edgevision/go-bytetrack/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorFor(t *testing.T) {
	assert.Equal(t, classColors[0], ColorFor(0))
	assert.Equal(t, classColors[3], ColorFor(3))
	assert.Equal(t, classColors[1], ColorFor(len(classColors)+1))
	assert.Equal(t, classColors[2], ColorFor(-2))
}

func TestClassName(t *testing.T) {
	names := []string{"person", "car"}

	assert.Equal(t, "car", ClassName(names, 1))
	assert.Equal(t, "class 5", ClassName(names, 5))
	assert.Equal(t, "class -1", ClassName(names, -1))
	assert.Equal(t, "class 0", ClassName(nil, 0))
}

func TestLabelCenterX(t *testing.T) {
	font := DefaultFont()

	font.Alignment = Left
	assert.Equal(t, 10+20+4, font.labelCenterX(10, 110, 40, 1))

	font.Alignment = Center
	assert.Equal(t, 60, font.labelCenterX(10, 110, 40, 1))

	font.Alignment = Right
	assert.Equal(t, 110-20-4, font.labelCenterX(10, 110, 40, 1))
}

func TestTrailStyleColors(t *testing.T) {
	style := DefaultTrailStyle()

	line, circle := style.colors(4)
	assert.Equal(t, Yellow, line)
	assert.Equal(t, ColorFor(4), circle)

	style.LineSame = true
	style.CircleSame = false

	line, circle = style.colors(4)
	assert.Equal(t, ColorFor(4), line)
	assert.Equal(t, Pink, circle)
}

func TestRenderOnCanvas(t *testing.T) {
	img := NewCanvas(200, 100)
	defer img.Close()

	assert.Equal(t, 200, img.Cols())
	assert.Equal(t, 100, img.Rows())

	s := tracker.NewSTrack(tracker.NewRect(20, 30, 40, 40), 0.9, 1, 0,
		tracker.NewAlphaBetaFilter())
	s.Activate(1, 1)

	trail := tracker.NewTrail(10)
	trail.Add(s)

	font := DefaultFont()
	TrackerBoxes(&img, []*tracker.STrack{s}, []string{"person"}, font, 2)
	DetectionBoxes(&img, []tracker.Object{tracker.NewObject(tracker.NewRect(5, 5, 10, 10), 0, 0.8, 1)},
		nil, font, 1)
	Trail(&img, []*tracker.STrack{s}, trail, DefaultTrailStyle())

	// box edge is painted in the track color, stored BGR
	clr := ColorFor(1)
	pixel := img.GetVecbAt(50, 20)
	assert.Equal(t, []uint8{clr.B, clr.G, clr.R}, []uint8{pixel[0], pixel[1], pixel[2]})
}

func TestLoadClassNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(path, []byte("person\n  car \nbicycle\n"), 0o644))

	names, err := LoadClassNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"person", "car", "bicycle"}, names)

	_, err = LoadClassNames(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
