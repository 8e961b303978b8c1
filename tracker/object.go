package tracker

// Object represents a detection handed to the tracker for a single frame
type Object struct {
	// Rect is the bounding box of the detected object
	Rect Rect
	// Label is the class label of the object detected
	Label int
	// Prob is the confidence of the detection in the range [0,1]
	Prob float32
	// ID is an optional upstream detection ID, it is carried onto the
	// track the detection is matched to
	ID int64
}

// NewObject is a constructor function for the Object struct
func NewObject(rect Rect, label int, prob float32, id int64) Object {
	return Object{
		Rect:  rect,
		Label: label,
		Prob:  prob,
		ID:    id,
	}
}

// Result is the output record for a visible confirmed track
type Result struct {
	Rect        Rect
	Label       int
	Prob        float32
	TrackID     int
	DetectionID int64
}
