// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Builtin rasterizes SVG in-process with oksvg and rasterx. It covers paths,
// basic shapes, and linear/radial gradients; filters and text are ignored.
type Builtin struct{}

// NewBuiltin returns the pure-Go renderer.
func NewBuiltin() *Builtin {
	return &Builtin{}
}

func (b *Builtin) Name() string { return "builtin" }

func (b *Builtin) Render(ctx context.Context, svg []byte, size int, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if size <= 0 {
		return fmt.Errorf("invalid size %d", size)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return fmt.Errorf("parsing svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}
