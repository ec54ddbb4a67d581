// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
)

const binRsvg = "rsvg-convert"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(ctx context.Context, name string, args ...string) error
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (o *osExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("%w: %s", err, bytes.TrimSpace(stderr.Bytes()))
		}
		return err
	}
	return nil
}

var defaultExec = &osExecutor{}

// rsvgRenderer pipes SVG through rsvg-convert.
type rsvgRenderer struct {
	exec executor
}

func newRsvgRenderer(exec executor) *rsvgRenderer {
	return &rsvgRenderer{exec: exec}
}

func (r *rsvgRenderer) Name() string { return "rsvg" }

// Available reports whether rsvg-convert is on PATH and answers --version.
func (r *rsvgRenderer) Available() bool {
	if _, err := r.exec.LookPath(binRsvg); err != nil {
		return false
	}
	return r.exec.RunSilent(context.Background(), binRsvg, "--version") == nil
}

func (r *rsvgRenderer) Render(ctx context.Context, svg []byte, size int, w io.Writer) error {
	if size <= 0 {
		return fmt.Errorf("invalid size %d", size)
	}
	n := strconv.Itoa(size)
	args := []string{"-w", n, "-h", n, "-f", "png"}

	var out bytes.Buffer
	if err := r.exec.RunPiped(ctx, binRsvg, args, bytes.NewReader(svg), &out); err != nil {
		return fmt.Errorf("running %s at %dx%d: %w", binRsvg, size, size, err)
	}
	if out.Len() == 0 {
		return fmt.Errorf("%s produced empty output at %dx%d", binRsvg, size, size)
	}
	_, err := out.WriteTo(w)
	return err
}
