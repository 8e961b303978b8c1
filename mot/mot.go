// Package mot reads detections from and writes tracks to the MOTChallenge
// text format, one comma separated box per line
//
//	frame,id,x,y,w,h,score[,label,...]
//
// Frames are numbered from 1.
package mot

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/edgevision/go-bytetrack/tracker"
)

// ErrMalformed is returned for lines that can not be parsed as a detection
var ErrMalformed = errors.New("malformed MOT line")

// minFields is the number of columns up to and including score
const minFields = 7

// MaxFrameID is the largest frame number accepted, the frames returned by
// ReadDetections are dense up to the last frame in the file
const MaxFrameID = 1_000_000

// Frame holds the detections of a single frame
type Frame struct {
	ID      int
	Objects []tracker.Object
}

// ReadDetections parses a detection file into frames.  The result is dense,
// frames without detections between 1 and the last frame in the file are
// returned empty so a tracker replaying them ages its tracks.  Each object
// is given a detection ID from its position in the file starting at 1.
func ReadDetections(r io.Reader) ([]Frame, error) {

	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	byFrame := make(map[int][]tracker.Object)
	lastFrame := 0
	var detID int64

	for {
		record, err := cr.Read()

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		line, _ := cr.FieldPos(0)

		frameID, obj, err := parseDetection(record)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, err)
		}

		detID++
		obj.ID = detID

		byFrame[frameID] = append(byFrame[frameID], obj)

		if frameID > lastFrame {
			lastFrame = frameID
		}
	}

	frames := make([]Frame, lastFrame)

	for i := range frames {
		frames[i] = Frame{ID: i + 1, Objects: byFrame[i+1]}
	}

	return frames, nil
}

// parseDetection converts one record to its frame number and object
func parseDetection(record []string) (int, tracker.Object, error) {

	if len(record) < minFields {
		return 0, tracker.Object{}, fmt.Errorf("expected at least %d fields, got %d",
			minFields, len(record))
	}

	frameID, err := strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil {
		return 0, tracker.Object{}, fmt.Errorf("frame: %w", err)
	}

	if frameID < 1 || frameID > MaxFrameID {
		return 0, tracker.Object{}, fmt.Errorf("frame must be between 1 and %d, got %d",
			MaxFrameID, frameID)
	}

	// x, y, w, h, score
	var vals [5]float32

	for i := range vals {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i+2]), 32)
		if err != nil {
			return 0, tracker.Object{}, fmt.Errorf("column %d: %w", i+3, err)
		}
		vals[i] = float32(v)
	}

	label := 0

	if len(record) > minFields {
		if l, err := strconv.Atoi(strings.TrimSpace(record[minFields])); err == nil && l >= 0 {
			label = l
		}
	}

	rect := tracker.NewRect(vals[0], vals[1], vals[2], vals[3])

	return frameID, tracker.NewObject(rect, label, vals[4], 0), nil
}

// Writer writes tracker results as MOTChallenge lines
//
//	frame,track_id,x,y,w,h,score,label,-1,-1
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a buffered Writer, Flush must be called when done
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteFrame writes the results of one frame
func (mw *Writer) WriteFrame(frameID int, results []tracker.Result) error {

	for _, r := range results {
		_, err := fmt.Fprintf(mw.w, "%d,%d,%.2f,%.2f,%.2f,%.2f,%.4f,%d,-1,-1\n",
			frameID, r.TrackID, r.Rect.X(), r.Rect.Y(), r.Rect.Width(),
			r.Rect.Height(), r.Prob, r.Label)

		if err != nil {
			return fmt.Errorf("error writing frame %d: %w", frameID, err)
		}
	}

	return nil
}

// Flush writes any buffered data to the underlying writer
func (mw *Writer) Flush() error {
	return mw.w.Flush()
}
