// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package iconset renders an SVG launcher icon into the Android mipmap set:
// ic_launcher and ic_launcher_round at launcher sizes, and an adaptive icon
// foreground layer (background rect removed) at foreground sizes.
package iconset

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"

	"github.com/pdiddy/apptools/internal/render"
)

const (
	// DefaultSource is the launcher icon SVG, relative to the project root.
	DefaultSource = "app/src/main/res/raw/ic_launcher_paw.svg"
	// DefaultResDir is the Android resource directory, relative to the project root.
	DefaultResDir = "app/src/main/res"

	// ForegroundName is the adaptive icon foreground layer file name.
	ForegroundName = "ic_launcher_foreground.png"
)

// Buckets lists the density buckets in output order.
var Buckets = []string{
	"mipmap-mdpi",
	"mipmap-hdpi",
	"mipmap-xhdpi",
	"mipmap-xxhdpi",
	"mipmap-xxxhdpi",
}

// LauncherSizes maps each bucket to the ic_launcher edge length in pixels.
var LauncherSizes = map[string]int{
	"mipmap-mdpi":    48,
	"mipmap-hdpi":    72,
	"mipmap-xhdpi":   96,
	"mipmap-xxhdpi":  144,
	"mipmap-xxxhdpi": 192,
}

// ForegroundSizes maps each bucket to the foreground layer edge length in pixels.
var ForegroundSizes = map[string]int{
	"mipmap-mdpi":    108,
	"mipmap-hdpi":    162,
	"mipmap-xhdpi":   216,
	"mipmap-xxhdpi":  324,
	"mipmap-xxxhdpi": 432,
}

// LauncherNames are rendered from the full icon in every bucket.
var LauncherNames = []string{"ic_launcher.png", "ic_launcher_round.png"}

// backgroundPattern matches the self-closing background rect filled with the
// "bg" gradient, along with surrounding whitespace.
var backgroundPattern = regexp.MustCompile(`\s*<rect[^>]*fill="url\(#bg\)"[^>]*/>\s*`)

// StripBackground returns svg with the first background rect replaced by a
// single newline. Input without a match is returned unchanged.
func StripBackground(svg []byte) []byte {
	loc := backgroundPattern.FindIndex(svg)
	if loc == nil {
		return svg
	}
	out := make([]byte, 0, len(svg)-(loc[1]-loc[0])+1)
	out = append(out, svg[:loc[0]]...)
	out = append(out, '\n')
	out = append(out, svg[loc[1]:]...)
	return out
}

// Variant distinguishes the full icon from the foreground-only layer.
type Variant string

const (
	VariantFull       Variant = "full"
	VariantForeground Variant = "foreground"
)

// Asset is one PNG to render.
type Asset struct {
	Bucket  string
	Name    string
	Size    int
	Variant Variant
	Path    string

	// SHA256 and Bytes are filled in once the asset is written.
	SHA256 string
	Bytes  int64
}

// Plan returns the assets for resDir in generation order: the launcher
// icons for every bucket, then the foreground layers.
func Plan(resDir string) []Asset {
	assets := make([]Asset, 0, len(Buckets)*(len(LauncherNames)+1))
	for _, b := range Buckets {
		for _, name := range LauncherNames {
			assets = append(assets, Asset{
				Bucket:  b,
				Name:    name,
				Size:    LauncherSizes[b],
				Variant: VariantFull,
				Path:    filepath.Join(resDir, b, name),
			})
		}
	}
	for _, b := range Buckets {
		assets = append(assets, Asset{
			Bucket:  b,
			Name:    ForegroundName,
			Size:    ForegroundSizes[b],
			Variant: VariantForeground,
			Path:    filepath.Join(resDir, b, ForegroundName),
		})
	}
	return assets
}

// Result holds the assets written by a run.
type Result struct {
	Assets []Asset
}

// Generator renders the icon set with a chosen backend.
type Generator struct {
	Renderer render.Renderer
	ResDir   string

	// Out receives one progress line per file.
	Out io.Writer
	Log *zap.Logger
}

// GenerateFile reads the SVG at svgPath and renders the icon set from it.
func (g *Generator) GenerateFile(ctx context.Context, svgPath string) (Result, error) {
	svg, err := os.ReadFile(svgPath)
	if err != nil {
		return Result{}, fmt.Errorf("reading icon source: %w", err)
	}
	return g.Generate(ctx, svg)
}

// Generate renders every planned asset, stopping at the first failure.
func (g *Generator) Generate(ctx context.Context, svg []byte) (Result, error) {
	log := g.Log
	if log == nil {
		log = zap.NewNop()
	}
	out := g.Out
	if out == nil {
		out = io.Discard
	}

	foreground := StripBackground(svg)
	if len(foreground) == len(svg) {
		log.Warn("no background rect found; foreground layer equals full icon")
	}

	var result Result
	for _, a := range Plan(g.ResDir) {
		src := svg
		if a.Variant == VariantForeground {
			src = foreground
		}
		if err := os.MkdirAll(filepath.Dir(a.Path), 0o755); err != nil {
			return result, fmt.Errorf("creating %s: %w", filepath.Dir(a.Path), err)
		}
		log.Debug("rendering asset",
			zap.String("path", a.Path),
			zap.Int("size", a.Size),
			zap.String("variant", string(a.Variant)),
			zap.String("renderer", g.Renderer.Name()))

		if err := g.writeAsset(ctx, &a, src); err != nil {
			return result, err
		}
		result.Assets = append(result.Assets, a)
		fmt.Fprintf(out, "  Generated %s (%dx%d)\n", a.Path, a.Size, a.Size)
	}
	fmt.Fprintln(out, "Done!")
	return result, nil
}

// writeAsset renders into memory first so a failed render leaves any
// existing file at a.Path untouched.
func (g *Generator) writeAsset(ctx context.Context, a *Asset, svg []byte) error {
	var buf bytes.Buffer
	if err := g.Renderer.Render(ctx, svg, a.Size, &buf); err != nil {
		return fmt.Errorf("rendering %s: %w", a.Path, err)
	}

	sum := sha256.Sum256(buf.Bytes())
	if err := os.WriteFile(a.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", a.Path, err)
	}

	a.SHA256 = hex.EncodeToString(sum[:])
	a.Bytes = int64(buf.Len())
	return nil
}
