package tracker

import "fmt"

// STracksToResults projects tracker output onto Result records
func STracksToResults(stracks []*STrack) []Result {

	results := make([]Result, 0, len(stracks))

	for _, s := range stracks {
		r := s.GetRect()
		results = append(results, Result{
			Rect:        NewRect(r.X(), r.Y(), r.Width(), r.Height()),
			Label:       s.GetLabel(),
			Prob:        s.GetScore(),
			TrackID:     s.GetTrackID(),
			DetectionID: s.GetDetectionID(),
		})
	}

	return results
}

// ObjectsFromTlbr builds tracker objects from detector boxes given as
// corners.  Detection IDs are assigned from the box order starting at 1.
// Labels and probs must be the same length as boxes.
func ObjectsFromTlbr(boxes []Tlbr, labels []int, probs []float32) ([]Object, error) {

	if len(labels) != len(boxes) || len(probs) != len(boxes) {
		return nil, fmt.Errorf("got %d boxes with %d labels and %d probs",
			len(boxes), len(labels), len(probs))
	}

	objs := make([]Object, 0, len(boxes))

	for i, box := range boxes {
		objs = append(objs, Object{
			Rect:  GenerateRectByTlbr(box),
			Label: labels[i],
			Prob:  probs[i],
			ID:    int64(i + 1),
		})
	}

	return objs, nil
}
