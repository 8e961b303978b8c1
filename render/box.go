package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/edgevision/go-bytetrack/tracker"
	"gocv.io/x/gocv"
)

// boxLabel defines where a box label should be rendered on the image
type boxLabel struct {
	rect    image.Rectangle
	clr     color.RGBA
	text    string
	textPos image.Point
}

// NewCanvas returns a blank image of the given size to render tracks on when
// no source frames are available.  The caller must Close it.
func NewCanvas(width, height int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width,
		gocv.MatTypeCV8UC3)
}

// ClassName returns the name for a class label, falling back to the label
// number when it is outside the names list
func ClassName(classNames []string, label int) string {
	if label >= 0 && label < len(classNames) {
		return classNames[label]
	}
	return fmt.Sprintf("class %d", label)
}

// rectToImage converts a tracker box to image coordinates
func rectToImage(r *tracker.Rect) image.Rectangle {
	return image.Rect(int(r.X()), int(r.Y()), int(r.BRX()), int(r.BRY()))
}

// placeLabel calculates the label box sitting on top of the given box
func placeLabel(box image.Rectangle, text string, clr color.RGBA, font Font,
	lineThickness int) boxLabel {

	textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)
	centerX := font.labelCenterX(box.Min.X, box.Max.X, textSize.X, lineThickness)

	return boxLabel{
		rect: image.Rect(centerX-textSize.X/2-font.LeftPad,
			box.Min.Y-textSize.Y-font.TopPad-font.BottomPad,
			centerX+textSize.X/2+font.RightPad, box.Min.Y),
		clr:     clr,
		text:    text,
		textPos: image.Pt(centerX-textSize.X/2, box.Min.Y-font.BottomPad),
	}
}

// drawLabels renders labels after all boxes so they are the top most layer
func drawLabels(img *gocv.Mat, labels []boxLabel, font Font) {
	for _, l := range labels {
		gocv.Rectangle(img, l.rect, l.clr, -1)
		gocv.PutTextWithParams(img, l.text, l.textPos, font.Face, font.Scale,
			font.Color, font.Thickness, font.LineType, false)
	}
}

// DetectionBoxes renders the raw detections handed to the tracker labelled
// with class name and score
func DetectionBoxes(img *gocv.Mat, objects []tracker.Object,
	classNames []string, font Font, lineThickness int) {

	labels := make([]boxLabel, 0, len(objects))

	for i, obj := range objects {
		clr := ColorFor(i)
		box := rectToImage(&obj.Rect)

		gocv.Rectangle(img, box, clr, lineThickness)

		text := fmt.Sprintf("%s %.2f", ClassName(classNames, obj.Label), obj.Prob)
		labels = append(labels, placeLabel(box, text, clr, font, lineThickness))
	}

	drawLabels(img, labels, font)
}

// TrackerBoxes renders tracker output labelled with class name and track ID,
// the box color follows the track ID
func TrackerBoxes(img *gocv.Mat, stracks []*tracker.STrack,
	classNames []string, font Font, lineThickness int) {

	labels := make([]boxLabel, 0, len(stracks))

	for _, s := range stracks {
		clr := ColorFor(s.GetTrackID())
		box := rectToImage(s.GetRect())

		gocv.Rectangle(img, box, clr, lineThickness)

		text := fmt.Sprintf("%s %d", ClassName(classNames, s.GetLabel()), s.GetTrackID())
		labels = append(labels, placeLabel(box, text, clr, font, lineThickness))
	}

	drawLabels(img, labels, font)
}
