package tracker

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// BYTETracker is a single tracking session.  Detections are associated with
// tracks in two rounds, first against high score detections and then low
// score detections extend tracks that the first round left unmatched.
//
// A BYTETracker is not safe for concurrent use, Update must be called once
// per frame in frame order.
type BYTETracker struct {
	cfg Config
	// maxTimeLost is the number of frames a lost track is retained
	maxTimeLost int
	// frameID is the current frame number, starting at 1
	frameID int
	// ids issues track identities for this session
	ids idGenerator
	// sessionID distinguishes sessions in log output
	sessionID uuid.UUID
	// tracks holds every tracked and lost track keyed by track ID, removed
	// tracks are deleted
	tracks map[int]*STrack
	// associator pairs tracks with detections
	associator Associator
	// estimator is given to new tracks to advance their motion state
	estimator MotionEstimator
}

// NewBYTETracker validates the config and returns a new tracking session
// using a GreedyAssociator and AlphaBetaFilter
func NewBYTETracker(cfg Config) (*BYTETracker, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bt := &BYTETracker{
		cfg:         cfg,
		maxTimeLost: cfg.MaxTimeLost(),
		associator:  NewGreedyAssociator(),
		estimator:   NewAlphaBetaFilter(),
	}

	bt.Reset()

	return bt, nil
}

// Reset clears all tracks and counters, starting a new session
func (bt *BYTETracker) Reset() {
	bt.frameID = 0
	bt.ids.reset()
	bt.tracks = make(map[int]*STrack)
	bt.sessionID = uuid.New()
}

// UseAssociator sets the strategy used for both association rounds, nil
// restores the GreedyAssociator
func (bt *BYTETracker) UseAssociator(a Associator) {
	if a == nil {
		a = NewGreedyAssociator()
	}
	bt.associator = a
}

// UseMotionEstimator sets the estimator given to tracks created from now on,
// nil restores the AlphaBetaFilter.  Existing tracks keep their estimator.
func (bt *BYTETracker) UseMotionEstimator(m MotionEstimator) {
	if m == nil {
		m = NewAlphaBetaFilter()
	}
	bt.estimator = m
}

// Config returns the session configuration
func (bt *BYTETracker) Config() Config {
	return bt.cfg
}

// SessionID returns the unique ID of the current session
func (bt *BYTETracker) SessionID() uuid.UUID {
	return bt.sessionID
}

// FrameID returns the number of the last processed frame
func (bt *BYTETracker) FrameID() int {
	return bt.frameID
}

// LastTrackID returns the most recently issued track ID, 0 if none
func (bt *BYTETracker) LastTrackID() int {
	return bt.ids.last()
}

// TrackedStracks returns the tracks currently in the Tracked state ordered
// by track ID
func (bt *BYTETracker) TrackedStracks() []*STrack {
	return bt.stracksInState(Tracked)
}

// LostStracks returns the tracks currently in the Lost state ordered by
// track ID
func (bt *BYTETracker) LostStracks() []*STrack {
	return bt.stracksInState(Lost)
}

// Update runs one frame of tracking on the given detections and returns the
// visible activated tracks ordered by track ID
func (bt *BYTETracker) Update(objects []Object) ([]*STrack, error) {

	// Step 1: Get detections
	bt.frameID++

	var detStracks, detLowStracks []*STrack
	dropped := 0

	for _, object := range objects {

		if !object.Rect.Valid() {
			dropped++
			continue
		}

		strack := NewSTrack(object.Rect, object.Prob, object.ID, object.Label, bt.estimator)

		if object.Prob >= bt.cfg.TrackThresh {
			detStracks = append(detStracks, strack)
		} else {
			detLowStracks = append(detLowStracks, strack)
		}
	}

	if dropped > 0 {
		opsf("session %s frame %d: dropped %d detections with degenerate boxes",
			bt.sessionID, bt.frameID, dropped)
	}

	// predict current position of tracked and lost tracks
	strackPool := bt.stracksInState(Tracked, Lost)

	for _, strack := range strackPool {
		strack.Predict()
	}

	// Step 2: First association, high score detections
	assign, err := bt.associator.Associate(rects(strackPool), rects(detStracks),
		bt.cfg.HighIoUThresh)

	if err != nil {
		return nil, fmt.Errorf("error in first association: %w", err)
	}

	for _, m := range assign.Matches {

		track := strackPool[m.Track]
		det := detStracks[m.Detection]

		if track.GetSTrackState() == Tracked {
			if err := track.Update(det, bt.frameID); err != nil {
				return nil, fmt.Errorf("error updating track, first association: %w", err)
			}
			continue
		}

		if err := track.ReActivate(det, bt.frameID); err != nil {
			return nil, fmt.Errorf("error re-activating track, first association: %w", err)
		}

		diagf("session %s frame %d: track %d re-acquired", bt.sessionID, bt.frameID,
			track.GetTrackID())
	}

	var remainDetStracks, remainTrackedStracks []*STrack

	for _, idx := range assign.UnmatchedDetections {
		remainDetStracks = append(remainDetStracks, detStracks[idx])
	}

	for _, idx := range assign.UnmatchedTracks {
		if strackPool[idx].GetSTrackState() == Tracked {
			remainTrackedStracks = append(remainTrackedStracks, strackPool[idx])
		}
	}

	firstMatches := len(assign.Matches)

	// Step 3: Second association, low score detections
	assign, err = bt.associator.Associate(rects(remainTrackedStracks), rects(detLowStracks),
		bt.cfg.LowIoUThresh)

	if err != nil {
		return nil, fmt.Errorf("error in second association: %w", err)
	}

	for _, m := range assign.Matches {
		track := remainTrackedStracks[m.Track]

		if err := track.Update(detLowStracks[m.Detection], bt.frameID); err != nil {
			return nil, fmt.Errorf("error updating track, second association: %w", err)
		}
	}

	for _, idx := range assign.UnmatchedTracks {
		track := remainTrackedStracks[idx]
		track.MarkAsLost()

		diagf("session %s frame %d: track %d lost", bt.sessionID, bt.frameID,
			track.GetTrackID())
	}

	secondMatches := len(assign.Matches)

	// Step 4: Remove lost tracks that can no longer be re-acquired within
	// the buffer
	for id, track := range bt.tracks {
		if track.GetSTrackState() != Lost || track.Age(bt.frameID) < bt.maxTimeLost {
			continue
		}

		track.MarkAsRemoved()
		delete(bt.tracks, id)

		diagf("session %s frame %d: track %d removed after %d frames lost",
			bt.sessionID, bt.frameID, id, track.Age(bt.frameID))
	}

	// Step 5: Init new tracks from unmatched high score detections
	spawned := 0

	for _, det := range remainDetStracks {
		if det.GetScore() < bt.cfg.HighThresh {
			continue
		}

		det.Activate(bt.frameID, bt.ids.next())
		bt.tracks[det.GetTrackID()] = det
		spawned++

		diagf("session %s frame %d: track %d started, label %d score %.3f",
			bt.sessionID, bt.frameID, det.GetTrackID(), det.GetLabel(), det.GetScore())
	}

	var outputStracks []*STrack

	for _, track := range bt.stracksInState(Tracked) {
		if track.IsActivated() {
			outputStracks = append(outputStracks, track)
		}
	}

	tracef("session %s frame %d: dets high=%d low=%d, matched first=%d second=%d, new=%d, tracked=%d lost=%d",
		bt.sessionID, bt.frameID, len(detStracks), len(detLowStracks), firstMatches,
		secondMatches, spawned, len(outputStracks), len(bt.tracks)-len(outputStracks))

	return outputStracks, nil
}

// UpdateResults runs Update and projects the tracks onto Result records
func (bt *BYTETracker) UpdateResults(objects []Object) ([]Result, error) {

	stracks, err := bt.Update(objects)
	if err != nil {
		return nil, err
	}

	return STracksToResults(stracks), nil
}

// stracksInState returns the tracks in any of the given states ordered by
// track ID
func (bt *BYTETracker) stracksInState(states ...STrackState) []*STrack {

	var res []*STrack

	for _, track := range bt.tracks {
		for _, state := range states {
			if track.GetSTrackState() == state {
				res = append(res, track)
				break
			}
		}
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].GetTrackID() < res[j].GetTrackID()
	})

	return res
}

// rects returns the bounding boxes of the given tracks
func rects(stracks []*STrack) []Rect {

	res := make([]Rect, 0, len(stracks))

	for _, s := range stracks {
		res = append(res, *s.GetRect())
	}

	return res
}
