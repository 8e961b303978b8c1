package tracker

import (
	"fmt"
)

// STrackState represents the lifecycle state of a tracked object
type STrackState int

const (
	// Object is newly detected and not yet part of the session
	New STrackState = 0
	// Object is currently being tracked
	Tracked STrackState = 1
	// Object has been lost and is kept for re-acquisition
	Lost STrackState = 2
	// Object has been removed
	Removed STrackState = 3
)

// String returns the state name
func (s STrackState) String() string {
	switch s {
	case New:
		return "new"
	case Tracked:
		return "tracked"
	case Lost:
		return "lost"
	case Removed:
		return "removed"
	}
	return fmt.Sprintf("STrackState(%d)", int(s))
}

// STrack represents a single track of an object
type STrack struct {
	// estimator advances and corrects motion
	estimator MotionEstimator
	// motion is the kinematic state owned by this track
	motion MotionState
	// Bounding box derived from the motion state
	rect Rect
	// Current lifecycle state of the track
	state STrackState
	// Whether the track has been matched with a high confidence detection
	isActivated bool
	// Detection score of the last matched detection
	score float32
	// Unique ID for the track, 0 until activated
	trackID int
	// Frame ID the track was last seen on
	frameID int
	// Frame ID when the track started
	startFrameID int
	// Number of consecutive matched frames
	trackletLen int
	// ID of the last matched detection
	detectionID int64
	// label is the object class
	label int
}

// NewSTrack creates a new STrack in the New state from a detection
func NewSTrack(rect Rect, score float32, detectionID int64, label int,
	estimator MotionEstimator) *STrack {

	return &STrack{
		estimator:   estimator,
		rect:        NewRect(rect.X(), rect.Y(), rect.Width(), rect.Height()),
		state:       New,
		score:       score,
		detectionID: detectionID,
		label:       label,
	}
}

// GetRect returns the bounding box of the tracked object
func (s *STrack) GetRect() *Rect {
	return &s.rect
}

// GetSTrackState returns the current state of the track
func (s *STrack) GetSTrackState() STrackState {
	return s.state
}

// IsActivated returns whether the track is activated
func (s *STrack) IsActivated() bool {
	return s.isActivated
}

// GetScore returns the score of the last matched detection
func (s *STrack) GetScore() float32 {
	return s.score
}

// GetTrackID returns the unique ID for the track
func (s *STrack) GetTrackID() int {
	return s.trackID
}

// GetFrameID returns the frame the track was last seen on
func (s *STrack) GetFrameID() int {
	return s.frameID
}

// GetStartFrameID returns the frame ID when the track started
func (s *STrack) GetStartFrameID() int {
	return s.startFrameID
}

// GetTrackletLength returns the number of consecutive matched frames
func (s *STrack) GetTrackletLength() int {
	return s.trackletLen
}

// GetDetectionID returns the ID of the last matched detection
func (s *STrack) GetDetectionID() int64 {
	return s.detectionID
}

// GetLabel returns the object label/class
func (s *STrack) GetLabel() int {
	return s.label
}

// GetMean returns a copy of the motion state vector
func (s *STrack) GetMean() StateMean {
	mean := make(StateMean, len(s.motion.Mean))
	copy(mean, s.motion.Mean)
	return mean
}

// Age returns how many frames have passed since the track was last seen
func (s *STrack) Age(frameID int) int {
	return frameID - s.frameID
}

// Activate starts the track on the given frame with a fresh identity
func (s *STrack) Activate(frameID, trackID int) {

	s.motion = s.estimator.Initiate(s.rect.GetXyah())
	s.updateRect()

	s.state = Tracked
	s.isActivated = true
	s.trackID = trackID
	s.frameID = frameID
	s.startFrameID = frameID
	s.trackletLen = 0
}

// ReActivate re-acquires a lost track with a new detection, keeping its
// identity
func (s *STrack) ReActivate(det *STrack, frameID int) error {

	if err := s.estimator.Correct(&s.motion, det.rect.GetXyah()); err != nil {
		return fmt.Errorf("error re-activating track %d: %w", s.trackID, err)
	}

	s.updateRect()

	s.state = Tracked
	s.isActivated = true
	s.score = det.score
	s.detectionID = det.detectionID
	s.frameID = frameID
	s.trackletLen = 0

	return nil
}

// Predict advances the motion state one frame and recomputes the box
func (s *STrack) Predict() {
	s.estimator.Predict(&s.motion)
	s.updateRect()
}

// Update corrects the track with a matched detection on the given frame
func (s *STrack) Update(det *STrack, frameID int) error {

	if err := s.estimator.Correct(&s.motion, det.rect.GetXyah()); err != nil {
		return fmt.Errorf("error updating track %d: %w", s.trackID, err)
	}

	s.updateRect()

	s.state = Tracked
	s.isActivated = true
	s.score = det.score
	s.detectionID = det.detectionID
	s.frameID = frameID
	s.trackletLen++

	return nil
}

// MarkAsLost marks the track as lost
func (s *STrack) MarkAsLost() {
	s.state = Lost
}

// MarkAsRemoved marks the track as removed
func (s *STrack) MarkAsRemoved() {
	s.state = Removed
}

// updateRect sets the bounding box from the motion state mean
func (s *STrack) updateRect() {
	s.rect = GenerateRectByXyah(Xyah(s.motion.Mean[:4]))
}

// String implements fmt.Stringer for test and log output
func (s *STrack) String() string {
	return fmt.Sprintf("STrack{id=%d state=%s rect=[%.3f %.3f %.3f %.3f] score=%.3f label=%d}",
		s.trackID, s.state, s.rect.X(), s.rect.Y(), s.rect.Width(), s.rect.Height(),
		s.score, s.label)
}
