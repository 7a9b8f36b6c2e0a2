package signature

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/fogleman/gg"
)

// DataURIPrefix prefixes every exported artifact.
const DataURIPrefix = "data:image/png;base64,"

// ErrInvalidDataURI is returned when a string is not a PNG data URI.
var ErrInvalidDataURI = errors.New("signature: invalid PNG data URI")

// Artifact is an exported signature. The zero value means no signature was
// provided.
type Artifact struct {
	Width  int
	Height int
	PNG    []byte
}

// Empty reports whether the artifact carries no signature.
func (a Artifact) Empty() bool { return len(a.PNG) == 0 }

// DataURI returns the artifact as a base64 PNG data URI, or "" when empty.
func (a Artifact) DataURI() string {
	if a.Empty() {
		return ""
	}
	return DataURIPrefix + base64.StdEncoding.EncodeToString(a.PNG)
}

// Export composites the surface onto an opaque white background of the same
// size and encodes it as PNG. It returns the empty artifact when nothing has
// been signed. Export does not touch the surface or the pad state.
func (p *Pad) Export() (Artifact, error) {
	if !p.signed || p.surface == nil {
		return Artifact{}, nil
	}
	w, h := p.Size()
	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()
	dc.DrawImage(p.surface.Image(), 0, 0)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return Artifact{}, fmt.Errorf("encode signature: %w", err)
	}
	return Artifact{Width: w, Height: h, PNG: buf.Bytes()}, nil
}

// ParseDataURI decodes a PNG data URI produced by Artifact.DataURI.
func ParseDataURI(uri string) (Artifact, error) {
	if !strings.HasPrefix(uri, DataURIPrefix) {
		return Artifact{}, ErrInvalidDataURI
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, DataURIPrefix))
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return Artifact{Width: cfg.Width, Height: cfg.Height, PNG: raw}, nil
}

// Image decodes the artifact's PNG.
func (a Artifact) Image() (image.Image, error) {
	if a.Empty() {
		return nil, errors.New("signature: empty artifact")
	}
	return png.Decode(bytes.NewReader(a.PNG))
}
