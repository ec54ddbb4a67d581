// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/apptools/internal/mdmerge"
	"github.com/pdiddy/apptools/pkg/types"
)

func fixedNow() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
}

func seedDefaults(t *testing.T, dir string) {
	t.Helper()
	for _, p := range mdmerge.DefaultInputs {
		full := filepath.Join(dir, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("# "+filepath.Base(p)+"\n"), 0o644))
	}
}

func TestBuildDocumentDefaults(t *testing.T) {
	cwd := t.TempDir()
	seedDefaults(t, cwd)

	doc, err := buildDocument(cwd, nil, types.MergeConfig{Title: mdmerge.DefaultTitle}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, len(mdmerge.DefaultInputs), strings.Count(doc, "## Source："))
	last := -1
	for _, p := range mdmerge.DefaultInputs {
		i := strings.Index(doc, "## Source：`"+p+"`")
		require.NotEqual(t, -1, i, p)
		assert.Greater(t, i, last, "%s out of order", p)
		last = i
	}
	assert.Contains(t, doc, "生成时间（UTC）：`2026-01-02T03:04:05Z`")
}

func TestBuildDocumentHTML(t *testing.T) {
	cwd := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cwd, "a.md"), []byte("# A\n"), 0o644))

	doc, err := buildDocument(cwd, []string{"a.md"}, types.MergeConfig{Title: "T", Format: types.OutputHTML}, fixedNow)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))

	_, err = buildDocument(cwd, []string{"a.md"}, types.MergeConfig{Format: "pdf"}, fixedNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestBuildDocumentMissingLeavesOutputUntouched(t *testing.T) {
	cwd := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cwd, "a.md"), []byte("# A\n"), 0o644))
	out := filepath.Join(cwd, "out", "merged.md")

	_, err := buildDocument(cwd, []string{"a.md", "missing.md"}, types.MergeConfig{Out: out}, fixedNow)
	var missing *mdmerge.MissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{filepath.Join(cwd, "missing.md")}, missing.Paths)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteOutput(t *testing.T) {
	cwd := t.TempDir()

	got, err := writeOutput(cwd, "build/docs/merged.md", "# Doc\n")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "build", "docs", "merged.md"), got)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "# Doc\n", string(data))

	abs := filepath.Join(t.TempDir(), "abs.md")
	got, err = writeOutput(cwd, abs, "x\n")
	require.NoError(t, err)
	assert.Equal(t, abs, got)
}
