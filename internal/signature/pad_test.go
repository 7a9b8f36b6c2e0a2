package signature

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestPad(t *testing.T, width int) *Pad {
	t.Helper()
	p := New(DefaultOptions())
	require.NoError(t, p.Resize(width))
	return p
}

func sign(p *Pad, from, to Point) {
	p.PointerDown(from)
	p.PointerMove(to)
	p.PointerUp()
}

func TestNewPadIsEmpty(t *testing.T) {
	p := newTestPad(t, 300)

	require.True(t, p.IsEmpty())
	require.Equal(t, Idle, p.State())
	art, err := p.Export()
	require.NoError(t, err)
	require.True(t, art.Empty())
	require.Equal(t, "", art.DataURI())
}

func TestStrokeMarksSigned(t *testing.T) {
	p := newTestPad(t, 300)

	require.True(t, p.PointerDown(Point{10, 10}))
	require.Equal(t, Drawing, p.State())
	require.True(t, p.PointerMove(Point{50, 80}))
	p.PointerUp()
	require.Equal(t, Idle, p.State())

	require.False(t, p.IsEmpty())
	art, err := p.Export()
	require.NoError(t, err)
	require.False(t, art.Empty())
	require.Equal(t, 300, art.Width)
	require.Equal(t, DefaultHeight, art.Height)
}

func TestExportOpaqueWhiteWithVisibleStroke(t *testing.T) {
	p := newTestPad(t, 300)
	sign(p, Point{10, 10}, Point{50, 80})

	art, err := p.Export()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(art.PNG))
	require.NoError(t, err)
	require.Equal(t, 300, img.Bounds().Dx())
	require.Equal(t, 200, img.Bounds().Dy())

	for _, pt := range [][2]int{{0, 0}, {299, 0}, {0, 199}, {299, 199}, {200, 150}} {
		r, g, b, a := img.At(pt[0], pt[1]).RGBA()
		require.Equal(t, uint32(0xffff), a, "pixel %v not opaque", pt)
		require.Equal(t, uint32(0xffff), r)
		require.Equal(t, uint32(0xffff), g)
		require.Equal(t, uint32(0xffff), b)
	}

	// midpoint of the segment (10,10)-(50,80)
	r, g, b, a := img.At(30, 45).RGBA()
	require.Equal(t, uint32(0xffff), a)
	require.Less(t, r, uint32(0x8000))
	require.Less(t, g, uint32(0x8000))
	require.Less(t, b, uint32(0x8000))
}

func TestClearIsIdempotent(t *testing.T) {
	p := newTestPad(t, 300)
	p.Clear()
	require.True(t, p.IsEmpty())

	sign(p, Point{10, 10}, Point{50, 80})
	p.Clear()
	p.Clear()
	require.True(t, p.IsEmpty())
	require.Equal(t, Idle, p.State())
	art, err := p.Export()
	require.NoError(t, err)
	require.True(t, art.Empty())

	preview := p.Preview()
	for i := 3; i < len(preview.Pix); i += 4 {
		require.Zero(t, preview.Pix[i], "surface not erased")
	}
}

func TestClearWhileDrawing(t *testing.T) {
	p := newTestPad(t, 300)
	p.PointerDown(Point{10, 10})
	p.Clear()

	require.Equal(t, Idle, p.State())
	require.False(t, p.PointerMove(Point{40, 40}))
	require.True(t, p.IsEmpty())
}

func TestExportDoesNotMutate(t *testing.T) {
	p := newTestPad(t, 300)
	sign(p, Point{10, 10}, Point{50, 80})

	first, err := p.Export()
	require.NoError(t, err)
	second, err := p.Export()
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.False(t, p.IsEmpty())
	require.Equal(t, Idle, p.State())
}

func TestResizeDiscardsStrokes(t *testing.T) {
	p := newTestPad(t, 300)
	sign(p, Point{10, 10}, Point{50, 80})

	require.NoError(t, p.Resize(420))
	require.True(t, p.IsEmpty())
	w, h := p.Size()
	require.Equal(t, 420, w)
	require.Equal(t, DefaultHeight, h)
	art, err := p.Export()
	require.NoError(t, err)
	require.True(t, art.Empty())

	// same width still clears
	sign(p, Point{10, 10}, Point{50, 80})
	require.NoError(t, p.Resize(420))
	require.True(t, p.IsEmpty())
}

func TestDownOutsideNeverDraws(t *testing.T) {
	p := newTestPad(t, 300)

	require.False(t, p.PointerDown(Point{-5, 20}))
	require.False(t, p.PointerMove(Point{40, 40}))
	p.PointerUp()
	require.Equal(t, Idle, p.State())
	require.True(t, p.IsEmpty())

	require.False(t, p.PointerDown(Point{150, 200}))
	require.Equal(t, Idle, p.State())
}

func TestMoveOutsideEndsPath(t *testing.T) {
	p := newTestPad(t, 300)
	p.PointerDown(Point{10, 10})

	require.False(t, p.PointerMove(Point{310, 10}))
	require.Equal(t, Idle, p.State())
	require.False(t, p.PointerMove(Point{20, 20}))
	require.False(t, p.IsEmpty())
}

func TestPointerLeaveEndsPath(t *testing.T) {
	p := newTestPad(t, 300)
	p.PointerDown(Point{10, 10})
	p.PointerLeave()
	require.Equal(t, Idle, p.State())
	require.False(t, p.PointerMove(Point{20, 20}))
}

func TestOriginTranslation(t *testing.T) {
	p := newTestPad(t, 100)
	p.SetOrigin(Point{X: 40, Y: 300})

	require.False(t, p.PointerDown(Point{10, 10}))
	require.True(t, p.PointerDown(Point{45, 305}))
	p.PointerMove(Point{90, 380})
	p.PointerUp()

	art, err := p.Export()
	require.NoError(t, err)
	img, err := art.Image()
	require.NoError(t, err)
	r, _, _, _ := img.At(27, 42).RGBA()
	require.Less(t, r, uint32(0x8000))
}

func TestOnlyFirstContactTracked(t *testing.T) {
	p := newTestPad(t, 300)

	require.True(t, p.TouchStart(Point{10, 10}, Point{-50, -50}))
	require.True(t, p.TouchMove(Point{60, 60}, Point{1000, 1000}))
	p.TouchEnd()
	require.False(t, p.IsEmpty())

	require.False(t, p.TouchStart())
	require.Equal(t, Idle, p.State())
}

func TestTapLeavesInk(t *testing.T) {
	p := newTestPad(t, 300)
	p.PointerDown(Point{100, 100})
	p.PointerUp()

	require.False(t, p.IsEmpty())
	preview := p.Preview()
	require.NotZero(t, preview.RGBAAt(100, 100).A)
}

func TestUnavailableSurface(t *testing.T) {
	p := New(DefaultOptions())
	require.False(t, p.Available())
	require.False(t, p.PointerDown(Point{1, 1}))

	err := p.Resize(0)
	require.ErrorIs(t, err, ErrSurfaceUnavailable)
	require.False(t, p.Available())
	require.Nil(t, p.Preview())

	art, err := p.Export()
	require.NoError(t, err)
	require.True(t, art.Empty())
	p.Clear()
	require.True(t, p.IsEmpty())
}

func TestStateString(t *testing.T) {
	require.Equal(t, "idle", Idle.String())
	require.Equal(t, "drawing", Drawing.String())
}

func TestPolylineInksEverySegment(t *testing.T) {
	p := newTestPad(t, 300)
	p.PointerDown(Point{10, 20})
	p.PointerMove(Point{110, 20})
	p.PointerMove(Point{110, 120})
	p.PointerMove(Point{210, 120})
	p.PointerUp()

	preview := p.Preview()
	for _, pt := range [][2]int{{60, 20}, {110, 70}, {160, 120}, {110, 20}, {110, 120}} {
		require.NotZero(t, preview.RGBAAt(pt[0], pt[1]).A, "no ink at %v", pt)
	}
	require.Zero(t, preview.RGBAAt(60, 120).A)
}

func TestNewPathDoesNotJoinPrevious(t *testing.T) {
	p := newTestPad(t, 300)
	sign(p, Point{10, 20}, Point{50, 20})
	sign(p, Point{10, 150}, Point{50, 150})

	preview := p.Preview()
	require.Zero(t, preview.RGBAAt(50, 85).A)
	require.Zero(t, preview.RGBAAt(30, 85).A)
}
