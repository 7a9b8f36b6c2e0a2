// Package signature implements a freehand signature pad: pointer tracking over
// a fixed-height raster surface and export of the drawing as a PNG data URI on
// an opaque white background.
package signature

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"

	"github.com/fogleman/gg"
)

const (
	// DefaultHeight is the fixed surface height in pixels.
	DefaultHeight = 200
	// DefaultStrokeWidth is the pen width in pixels.
	DefaultStrokeWidth = 2.0
	// MaxWidth bounds the surface width a container may request.
	MaxWidth = 8192
)

// DefaultStrokeColor is the pen color (#000).
var DefaultStrokeColor color.Color = color.Black

// ErrSurfaceUnavailable is returned when no drawing surface can be allocated
// for the requested size. The pad stays disabled until a usable resize.
var ErrSurfaceUnavailable = errors.New("signature: drawing surface unavailable")

// State is the pointer tracking state of a Pad.
type State int

const (
	Idle State = iota
	Drawing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	default:
		return "unknown"
	}
}

// Point is a position in viewport or surface coordinates.
type Point struct {
	X, Y float64
}

// Options configures a Pad.
type Options struct {
	Height      int
	StrokeWidth float64
	StrokeColor color.Color
}

// DefaultOptions returns the stock pad geometry.
func DefaultOptions() Options {
	return Options{
		Height:      DefaultHeight,
		StrokeWidth: DefaultStrokeWidth,
		StrokeColor: DefaultStrokeColor,
	}
}

// Pad is a signature capture surface. A Pad is not safe for concurrent use;
// it is driven from a single event loop.
type Pad struct {
	opts    Options
	surface *gg.Context // nil while no usable surface exists
	origin  Point       // surface top-left in viewport coordinates
	last    Point       // last committed point of the current path
	state   State
	signed  bool
}

// New returns a pad with no surface. Call Resize with the container width
// before feeding pointer input.
func New(opts Options) *Pad {
	def := DefaultOptions()
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.StrokeWidth <= 0 {
		opts.StrokeWidth = def.StrokeWidth
	}
	if opts.StrokeColor == nil {
		opts.StrokeColor = def.StrokeColor
	}
	return &Pad{opts: opts}
}

// Resize reallocates the surface for a new container width. Prior strokes are
// always discarded and the pad returns to Idle with no signature.
func (p *Pad) Resize(width int) error {
	hadSignature := p.signed
	p.surface = nil
	p.state = Idle
	p.signed = false
	if hadSignature {
		log.Printf("[signature] resize to width %d discarded signature", width)
	}
	if width <= 0 || width > MaxWidth {
		log.Printf("[signature] no surface for width %d", width)
		return fmt.Errorf("%w: width %d", ErrSurfaceUnavailable, width)
	}
	dc := gg.NewContext(width, p.opts.Height)
	dc.SetColor(p.opts.StrokeColor)
	dc.SetLineWidth(p.opts.StrokeWidth)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	p.surface = dc
	return nil
}

// SetOrigin records where the surface's top-left corner sits in viewport
// coordinates.
func (p *Pad) SetOrigin(origin Point) {
	p.origin = origin
}

// Origin returns the surface's top-left corner in viewport coordinates.
func (p *Pad) Origin() Point { return p.origin }

// Available reports whether the pad has a drawing surface.
func (p *Pad) Available() bool { return p.surface != nil }

// Size returns the surface dimensions, zero when unavailable.
func (p *Pad) Size() (width, height int) {
	if p.surface == nil {
		return 0, 0
	}
	return p.surface.Width(), p.surface.Height()
}

// State returns the current pointer tracking state.
func (p *Pad) State() State { return p.state }

// IsEmpty reports whether nothing has been signed since the last reset.
func (p *Pad) IsEmpty() bool { return !p.signed }

// Clear erases the surface and returns to Idle with no signature.
func (p *Pad) Clear() {
	p.state = Idle
	p.signed = false
	if p.surface == nil {
		return
	}
	p.surface.ClearPath()
	p.surface.SetColor(color.Transparent)
	p.surface.Clear()
	p.surface.SetColor(p.opts.StrokeColor)
}

// PointerDown starts a path when the first contact lands inside the surface.
// It reports whether drawing started.
func (p *Pad) PointerDown(contacts ...Point) bool {
	pt, ok := p.local(contacts)
	if !ok || !p.inside(pt) {
		return false
	}
	dc := p.surface
	dc.ClearPath()
	// A tap leaves a dot so the signed flag never outlives visible ink.
	dc.DrawCircle(pt.X, pt.Y, p.opts.StrokeWidth/2)
	dc.Fill()
	p.last = pt
	p.state = Drawing
	p.signed = true
	return true
}

// PointerMove strokes a segment from the last point to the first contact.
// Moving outside the surface ends the path as a leave would.
func (p *Pad) PointerMove(contacts ...Point) bool {
	if p.state != Drawing {
		return false
	}
	pt, ok := p.local(contacts)
	if !ok {
		return false
	}
	if !p.inside(pt) {
		p.PointerLeave()
		return false
	}
	// Only the new segment is stroked; round caps close the joins.
	dc := p.surface
	dc.DrawLine(p.last.X, p.last.Y, pt.X, pt.Y)
	dc.Stroke()
	p.last = pt
	return true
}

// PointerUp ends the current path.
func (p *Pad) PointerUp() {
	p.endPath()
}

// PointerLeave ends the current path when the pointer exits the surface.
func (p *Pad) PointerLeave() {
	p.endPath()
}

func (p *Pad) endPath() {
	if p.state != Drawing {
		return
	}
	if p.surface != nil {
		p.surface.ClearPath()
	}
	p.state = Idle
}

// local maps the first contact from viewport to surface coordinates.
func (p *Pad) local(contacts []Point) (Point, bool) {
	if p.surface == nil || len(contacts) == 0 {
		return Point{}, false
	}
	c := contacts[0]
	return Point{X: c.X - p.origin.X, Y: c.Y - p.origin.Y}, true
}

func (p *Pad) inside(pt Point) bool {
	w, h := p.Size()
	return pt.X >= 0 && pt.Y >= 0 && pt.X < float64(w) && pt.Y < float64(h)
}

// Preview returns a copy of the surface for display. The copy has a
// transparent background. It returns nil when the pad has no surface.
func (p *Pad) Preview() *image.RGBA {
	if p.surface == nil {
		return nil
	}
	src := p.surface.Image()
	out := image.NewRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out
}
