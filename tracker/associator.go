package tracker

import (
	"sort"
)

// Match pairs a track index with a detection index
type Match struct {
	Track     int
	Detection int
	IoU       float32
}

// Assignment is the result of associating tracks with detections.  Indexes
// refer to the slices passed to Associate.
type Assignment struct {
	Matches             []Match
	UnmatchedTracks     []int
	UnmatchedDetections []int
}

// Associator pairs track boxes with detection boxes one-to-one.  Only pairs
// with an IoU strictly above iouThresh may be matched.
type Associator interface {
	Associate(tracks, detections []Rect, iouThresh float32) (Assignment, error)
}

// IoUMatrix calculates the IoU between every pair of a and b rectangles,
// indexed [a][b]
func IoUMatrix(aRects, bRects []Rect) [][]float32 {

	ious := make([][]float32, len(aRects))

	for ai := range aRects {
		ious[ai] = make([]float32, len(bRects))

		for bi := range bRects {
			ious[ai][bi] = aRects[ai].CalcIoU(bRects[bi])
		}
	}

	return ious
}

// unmatched returns the indexes in [0,n) not marked as used
func unmatched(n int, used []bool) []int {
	var res []int
	for i := 0; i < n; i++ {
		if !used[i] {
			res = append(res, i)
		}
	}
	return res
}

// GreedyAssociator commits candidate pairs in order of decreasing IoU,
// skipping any pair whose track or detection was already taken.  It is not
// guaranteed to maximise total IoU but is near linear after the affinity
// computation.
type GreedyAssociator struct{}

// NewGreedyAssociator returns the default associator
func NewGreedyAssociator() *GreedyAssociator {
	return &GreedyAssociator{}
}

// Associate implements Associator
func (g *GreedyAssociator) Associate(tracks, detections []Rect,
	iouThresh float32) (Assignment, error) {

	ious := IoUMatrix(tracks, detections)

	var candidates []Match

	for ti, row := range ious {
		for di, iou := range row {
			if iou > iouThresh {
				candidates = append(candidates, Match{Track: ti, Detection: di, IoU: iou})
			}
		}
	}

	// candidates are generated in track then detection order so a stable
	// sort breaks ties by the lower index
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].IoU > candidates[j].IoU
	})

	trackUsed := make([]bool, len(tracks))
	detUsed := make([]bool, len(detections))

	var res Assignment

	for _, c := range candidates {
		if trackUsed[c.Track] || detUsed[c.Detection] {
			continue
		}

		trackUsed[c.Track] = true
		detUsed[c.Detection] = true
		res.Matches = append(res.Matches, c)
	}

	res.UnmatchedTracks = unmatched(len(tracks), trackUsed)
	res.UnmatchedDetections = unmatched(len(detections), detUsed)

	return res, nil
}
