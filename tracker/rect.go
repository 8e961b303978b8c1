package tracker

import (
	"math"
)

// Tlwh (top left x, top left y, width, height) represents a 1x4 matrix
type Tlwh []float32

// Tlbr (top left x, top left y, bottom right x, bottom right y) represents
// a 1x4 matrix
type Tlbr []float32

// Xyah (center x, center y, aspect ratio, height) represents a 1x4 matrix
type Xyah []float32

// Rect represents an axis aligned bounding box in Tlwh format
type Rect struct {
	Tlwh Tlwh
}

// NewRect creates a new Rect from its top left corner and dimensions
func NewRect(x, y, width, height float32) Rect {
	return Rect{
		Tlwh: Tlwh{x, y, width, height},
	}
}

// X returns the top left x coordinate
func (r *Rect) X() float32 {
	return r.Tlwh[0]
}

// Y returns the top left y coordinate
func (r *Rect) Y() float32 {
	return r.Tlwh[1]
}

// Width returns the width of the rectangle
func (r *Rect) Width() float32 {
	return r.Tlwh[2]
}

// Height returns the height of the rectangle
func (r *Rect) Height() float32 {
	return r.Tlwh[3]
}

// BRX returns the bottom right x coordinate
func (r *Rect) BRX() float32 {
	return r.Tlwh[0] + r.Tlwh[2]
}

// BRY returns the bottom right y coordinate
func (r *Rect) BRY() float32 {
	return r.Tlwh[1] + r.Tlwh[3]
}

// Area returns width * height, or 0 for a degenerate rectangle
func (r *Rect) Area() float32 {
	if r.Tlwh[2] <= 0 || r.Tlwh[3] <= 0 {
		return 0
	}
	return r.Tlwh[2] * r.Tlwh[3]
}

// Valid reports whether the rectangle has finite coordinates and a strictly
// positive width and height.  Only valid rectangles may enter the tracker as
// the aspect ratio of the motion state must stay positive.
func (r *Rect) Valid() bool {
	if len(r.Tlwh) != 4 {
		return false
	}

	for _, v := range r.Tlwh {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return false
		}
	}

	return r.Tlwh[2] > 0 && r.Tlwh[3] > 0
}

// Center returns the center point of the rectangle
func (r *Rect) Center() (float32, float32) {
	return r.Tlwh[0] + r.Tlwh[2]/2, r.Tlwh[1] + r.Tlwh[3]/2
}

// GetTlbr converts the rectangle to Tlbr format
func (r *Rect) GetTlbr() Tlbr {
	return Tlbr{r.X(), r.Y(), r.BRX(), r.BRY()}
}

// GetXyah converts the rectangle to Xyah (center x, center y, aspect ratio,
// height) format used as the measurement for motion estimation
func (r *Rect) GetXyah() Xyah {
	cx, cy := r.Center()
	return Xyah{cx, cy, r.Tlwh[2] / r.Tlwh[3], r.Tlwh[3]}
}

// CalcIoU calculates the Intersection over Union with another rectangle.
// Disjoint rectangles, rectangles with non-positive area and a zero union all
// give 0.
func (r *Rect) CalcIoU(other Rect) float32 {

	areaA := r.Area()
	areaB := other.Area()

	if areaA == 0 || areaB == 0 {
		return 0
	}

	iw := min(r.BRX(), other.BRX()) - max(r.X(), other.X())
	if iw <= 0 {
		return 0
	}

	ih := min(r.BRY(), other.BRY()) - max(r.Y(), other.Y())
	if ih <= 0 {
		return 0
	}

	inter := iw * ih
	union := areaA + areaB - inter

	if union <= 0 {
		return 0
	}

	return inter / union
}

// GenerateRectByTlbr creates a Rect from Tlbr format
func GenerateRectByTlbr(tlbr Tlbr) Rect {
	return NewRect(tlbr[0], tlbr[1], tlbr[2]-tlbr[0], tlbr[3]-tlbr[1])
}

// GenerateRectByXyah creates a Rect from Xyah format, width is derived as
// aspect ratio * height
func GenerateRectByXyah(xyah Xyah) Rect {
	width := xyah[2] * xyah[3]
	return NewRect(xyah[0]-width/2, xyah[1]-xyah[3]/2, width, xyah[3])
}
