package tracker

import "sync"

// Point represents the x,y coordinates of the center of a tracked box
type Point struct {
	X, Y int
}

// trailHistory is the point history of one track
type trailHistory struct {
	points []Point
	// missed counts consecutive Update calls without this track
	missed int
}

// Trail keeps a bounded history of track center points used for drawing
// the path an object has taken.  It is safe for concurrent use so a renderer
// can read it while the tracking loop appends.
type Trail struct {
	// size is the maximum number of most recent points to keep per track
	size int
	// history of points keyed by track ID
	history map[int]*trailHistory
	sync.Mutex
}

// NewTrail returns a new trail history.  Size is the maximum length of each
// trail, it also bounds how many updates a track may be absent before its
// history is dropped.
func NewTrail(size int) *Trail {
	if size < 1 {
		size = 1
	}
	return &Trail{
		size:    size,
		history: make(map[int]*trailHistory),
	}
}

// Reset clears all history
func (t *Trail) Reset() {
	t.Lock()
	defer t.Unlock()

	t.history = make(map[int]*trailHistory)
}

// Add appends the current center point of a track to its history
func (t *Trail) Add(strack *STrack) {
	t.Lock()
	defer t.Unlock()

	t.add(strack)
}

func (t *Trail) add(strack *STrack) {

	h, exists := t.history[strack.GetTrackID()]

	if !exists {
		h = &trailHistory{}
		t.history[strack.GetTrackID()] = h
	}

	cx, cy := strack.GetRect().Center()

	h.points = append(h.points, Point{X: int(cx), Y: int(cy)})
	h.missed = 0

	if len(h.points) > t.size {
		h.points = h.points[len(h.points)-t.size:]
	}
}

// Update appends the points of all tracks output for a frame and drops the
// history of tracks that have been absent for more than size updates
func (t *Trail) Update(stracks []*STrack) {
	t.Lock()
	defer t.Unlock()

	seen := make(map[int]bool, len(stracks))

	for _, s := range stracks {
		t.add(s)
		seen[s.GetTrackID()] = true
	}

	for id, h := range t.history {
		if seen[id] {
			continue
		}

		h.missed++

		if h.missed > t.size {
			delete(t.history, id)
		}
	}
}

// GetPoints returns a copy of the point history for a track ID, nil if the
// track has no history
func (t *Trail) GetPoints(id int) []Point {
	t.Lock()
	defer t.Unlock()

	h, exists := t.history[id]
	if !exists {
		return nil
	}

	points := make([]Point, len(h.points))
	copy(points, h.points)

	return points
}

// Len returns the number of tracks with history
func (t *Trail) Len() int {
	t.Lock()
	defer t.Unlock()

	return len(t.history)
}
