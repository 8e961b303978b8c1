package render

import (
	"image"
	"image/color"

	"github.com/edgevision/go-bytetrack/tracker"
	"gocv.io/x/gocv"
)

// TrailStyle defines how track trails are drawn
type TrailStyle struct {
	// LineSame uses the track box color for the trail line instead of
	// LineColor
	LineSame      bool
	LineColor     color.RGBA
	LineThickness int
	// CircleSame uses the track box color for the current center point
	// instead of CircleColor
	CircleSame   bool
	CircleColor  color.RGBA
	CircleRadius int
}

// DefaultTrailStyle returns default trail style settings
func DefaultTrailStyle() TrailStyle {
	return TrailStyle{
		LineSame:      false,
		LineColor:     Yellow,
		LineThickness: 1,
		CircleSame:    true,
		CircleColor:   Pink,
		CircleRadius:  3,
	}
}

// colors returns the line and circle colors for a track
func (s TrailStyle) colors(trackID int) (line, circle color.RGBA) {

	line, circle = s.LineColor, s.CircleColor

	if s.LineSame {
		line = ColorFor(trackID)
	}

	if s.CircleSame {
		circle = ColorFor(trackID)
	}

	return line, circle
}

// Trail draws the path each track has taken from its trail history and marks
// the current center point
func Trail(img *gocv.Mat, stracks []*tracker.STrack, trail *tracker.Trail,
	style TrailStyle) {

	for _, s := range stracks {

		points := trail.GetPoints(s.GetTrackID())
		if len(points) == 0 {
			continue
		}

		lineClr, circleClr := style.colors(s.GetTrackID())

		for i := 1; i < len(points); i++ {
			gocv.Line(img,
				image.Pt(points[i-1].X, points[i-1].Y),
				image.Pt(points[i].X, points[i].Y),
				lineClr, style.LineThickness,
			)
		}

		last := points[len(points)-1]
		gocv.Circle(img, image.Pt(last.X, last.Y), style.CircleRadius, circleClr, -1)
	}
}
