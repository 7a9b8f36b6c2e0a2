package tui

import (
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/trainlog/internal/config"
	"github.com/jask/trainlog/internal/signature"
)

// signaturePad drives a signature.Pad from terminal mouse events. Each
// terminal cell stands for a cellW x cellH block of surface pixels and a
// mouse event lands on the centre of its cell.
type signaturePad struct {
	pad          *signature.Pad
	cellW, cellH int
}

// Pixel size of one terminal cell when the config leaves it unset.
const (
	defaultCellWidth  = 8
	defaultCellHeight = 16
)

func newSignaturePad(cfg config.SignatureConfig) *signaturePad {
	s := &signaturePad{
		pad:   signature.New(signature.Options{Height: cfg.Height, StrokeWidth: cfg.StrokeWidth}),
		cellW: cfg.CellWidth,
		cellH: cfg.CellHeight,
	}
	if s.cellW <= 0 {
		s.cellW = defaultCellWidth
	}
	if s.cellH <= 0 {
		s.cellH = defaultCellHeight
	}
	return s
}

// layout sizes the surface to cols cells and places its top-left cell at
// (row, col) of the screen. Any signature in progress is discarded.
func (s *signaturePad) layout(cols, row, col int) {
	if err := s.pad.Resize(cols * s.cellW); err != nil {
		log.Printf("[tui] signature pad: %v", err)
	}
	s.pad.SetOrigin(signature.Point{X: float64(col * s.cellW), Y: float64(row * s.cellH)})
}

func (s *signaturePad) contact(m tea.MouseMsg) signature.Point {
	return signature.Point{
		X: float64(m.X*s.cellW + s.cellW/2),
		Y: float64(m.Y*s.cellH + s.cellH/2),
	}
}

// handleMouse feeds one mouse event to the pad and reports whether ink was laid.
func (s *signaturePad) handleMouse(m tea.MouseMsg) bool {
	pt := s.contact(m)
	switch m.Action {
	case tea.MouseActionPress:
		if m.Button != tea.MouseButtonLeft {
			return false
		}
		return s.pad.PointerDown(pt)
	case tea.MouseActionMotion:
		return s.pad.PointerMove(pt)
	case tea.MouseActionRelease:
		s.pad.PointerUp()
	}
	return false
}

func (s *signaturePad) clear() { s.pad.Clear() }

// dataURI exports the signature. It is empty when nothing was signed.
func (s *signaturePad) dataURI() (string, error) {
	art, err := s.pad.Export()
	if err != nil {
		return "", err
	}
	return art.DataURI(), nil
}

func (s *signaturePad) view() string {
	img := s.pad.Preview()
	if img == nil {
		return errorStyle.Render("(signature pad unavailable: widen the terminal)")
	}
	box := padIdleBorder
	if s.pad.State() == signature.Drawing {
		box = padDrawingBorder
	}
	return box.Render(strings.Join(brailleLines(img, s.cellW, s.cellH), "\n"))
}
