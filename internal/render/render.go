// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render rasterizes SVG documents into square PNG images.
// Two backends exist: rsvg-convert (external, librsvg/cairo) and a builtin
// pure-Go rasterizer. Detect picks one.
package render

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/apptools/pkg/types"
)

// Renderer turns an SVG document into a size×size PNG.
type Renderer interface {
	// Name returns the backend name ("rsvg" or "builtin").
	Name() string

	// Render rasterizes svg at size×size pixels and writes PNG bytes to w.
	Render(ctx context.Context, svg []byte, size int, w io.Writer) error
}

// Detect returns the renderer for the requested backend. With RendererAuto
// (or an empty preference) rsvg-convert is used when it is installed and
// operational, otherwise the builtin rasterizer.
func Detect(pref types.RendererBackend) (Renderer, error) {
	return detect(pref, defaultExec)
}

func detect(pref types.RendererBackend, exec executor) (Renderer, error) {
	switch pref {
	case "", types.RendererAuto:
		rsvg := newRsvgRenderer(exec)
		if rsvg.Available() {
			return rsvg, nil
		}
		return NewBuiltin(), nil
	case types.RendererBuiltin:
		return NewBuiltin(), nil
	case types.RendererRsvg:
		rsvg := newRsvgRenderer(exec)
		if !rsvg.Available() {
			return nil, fmt.Errorf("renderer %s unavailable: %s not found or not operational", pref, binRsvg)
		}
		return rsvg, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q (want auto, builtin, or rsvg)", pref)
	}
}
