package entity

// Rect is a window rectangle in screen coordinates.
type Rect struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// Minimum window size that still yields two usable halves after a split.
// Below this, each half is too narrow to render most pages.
const (
	MinSplitWidth  = 400
	MinSplitHeight = 300
)

// DefaultReferenceRatio is the fraction of the source window's width given
// to a reference window.
const DefaultReferenceRatio = 0.2

// CanSplit reports whether the rectangle meets the minimum splittable size.
func (r Rect) CanSplit() bool {
	return r.Width >= MinSplitWidth && r.Height >= MinSplitHeight
}

// SplitRects divides r into two side-by-side rectangles. The left half gets
// floor(width/2) and the right half absorbs the rounding remainder, so the
// pair tiles r exactly for every width, odd widths included:
//
//	left.Width + right.Width == r.Width
func SplitRects(r Rect) (left, right Rect) {
	half := r.Width / 2
	left = Rect{Left: r.Left, Top: r.Top, Width: half, Height: r.Height}
	right = Rect{Left: r.Left + half, Top: r.Top, Width: r.Width - half, Height: r.Height}
	return left, right
}

// ReferenceRect computes the rectangle for a reference window pinned
// immediately to the right of r. The reference window takes floor(width *
// ratio) horizontally and the full height of r.
func ReferenceRect(r Rect, ratio float64) Rect {
	return Rect{
		Left:   r.Left + r.Width,
		Top:    r.Top,
		Width:  int(float64(r.Width) * ratio),
		Height: r.Height,
	}
}
