// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/apptools/pkg/types"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "state", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAndRecent(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()
	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	iconsRun := types.Run{
		Tool:      "gen-icons",
		StartedAt: start,
		Outputs: []types.Output{
			{Path: "res/mipmap-mdpi/ic_launcher.png", SHA256: Digest([]byte("a")), Bytes: 1, Detail: "48x48"},
			{Path: "res/mipmap-mdpi/ic_launcher_round.png", SHA256: Digest([]byte("b")), Bytes: 1, Detail: "48x48"},
		},
	}
	mergeRun := types.Run{
		Tool:      "merge-md",
		StartedAt: start.Add(time.Minute),
		Outputs:   []types.Output{{Path: "out/merged.md", SHA256: Digest([]byte("doc")), Bytes: 3}},
	}

	id1, err := l.Record(ctx, iconsRun)
	require.NoError(t, err)
	id2, err := l.Record(ctx, mergeRun)
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	all, err := l.Recent(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "merge-md", all[0].Tool)
	assert.Equal(t, "gen-icons", all[1].Tool)
	assert.True(t, start.Equal(all[1].StartedAt))
	assert.Equal(t, iconsRun.Outputs, all[1].Outputs)

	icons, err := l.Recent(ctx, "gen-icons", 5)
	require.NoError(t, err)
	require.Len(t, icons, 1)
	assert.Equal(t, id1, icons[0].ID)

	limited, err := l.Recent(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, id2, limited[0].ID)
}

func TestOpenIsReentrant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	l, err := Open(path)
	require.NoError(t, err)
	_, err = l.Record(context.Background(), types.Run{Tool: "merge-md", StartedAt: time.Now()})
	require.NoError(t, err)
	require.NoError(t, l.Close())

	l, err = Open(path)
	require.NoError(t, err)
	defer l.Close()
	runs, err := l.Recent(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
	assert.Empty(t, runs[0].Outputs)
}

func TestWriteYAML(t *testing.T) {
	runs := []types.Run{{
		ID:        7,
		Tool:      "gen-icons",
		StartedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Outputs:   []types.Output{{Path: "a.png", SHA256: "abc", Bytes: 10, Detail: "48x48"}},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, runs))

	var got []types.Run
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "gen-icons", got[0].Tool)
	assert.Equal(t, "48x48", got[0].Outputs[0].Detail)
}

func TestWriteText(t *testing.T) {
	var empty bytes.Buffer
	WriteText(&empty, nil)
	assert.Equal(t, "no runs recorded\n", empty.String())

	var buf bytes.Buffer
	WriteText(&buf, []types.Run{{
		ID:        3,
		Tool:      "merge-md",
		StartedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Outputs:   []types.Output{{Path: "merged.md", SHA256: Digest([]byte("x"))}},
	}})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "#3 merge-md 2026-05-01T12:00:00Z (1 files)", lines[0])
	assert.Contains(t, lines[1], "merged.md")
}
