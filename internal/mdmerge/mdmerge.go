// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mdmerge concatenates Markdown documents into one file under a
// generated header listing every included source.
package mdmerge

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/adrg/frontmatter"
	"go.yaml.in/yaml/v3"
)

// DefaultTitle is used when no title is given.
const DefaultTitle = "Radio Plans v38-v46（Merged）"

// timestampFmt is ISO-8601 UTC with second precision.
const timestampFmt = "2006-01-02T15:04:05Z"

// mergeMarker is emitted at the top of every source section.
const mergeMarker = "<!-- merged by merge-md -->"

// DefaultInputs lists the radio plan documents merged when no paths are given.
var DefaultInputs = []string{
	"docs/plan/v38-radio-module-overview.md",
	"docs/plan/v39-radio-recording.md",
	"docs/plan/v40-radio-offline-transcript.md",
	"docs/plan/v41-radio-offline-translation.md",
	"docs/plan/v42-radio-language-learning.md",
	"docs/plan/v43-radio-dual-language.md",
	"docs/plan/v44-asr-tts-modularization.md",
	"docs/plan/v45-radio-live-translation-full.md",
	"docs/plan/v46-radio-live-AudioFocusManager.md",
}

// ws is Unicode whitespace; RE2's \s alone is ASCII only.
const ws = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

// outerFencePattern matches a document whose entire content is one
// ```markdown fenced block.
var outerFencePattern = regexp.MustCompile(`(?s)\A` + ws + "*```markdown" + ws + `*\n(.*)\n` + ws + "*```" + ws + `*\z`)

// yamlFrontmatter restricts frontmatter detection to --- delimited YAML.
var yamlFrontmatter = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// MissingError reports input paths that do not exist.
type MissingError struct {
	Paths []string
}

func (e *MissingError) Error() string {
	var b strings.Builder
	b.WriteString("Missing input files:")
	for _, p := range e.Paths {
		b.WriteString("\n- ")
		b.WriteString(p)
	}
	return b.String()
}

// Options controls how documents are merged.
type Options struct {
	// Root is the directory display paths are made relative to.
	Root string

	// Title is the top-level heading. Empty means DefaultTitle.
	Title string

	// StripFrontmatter removes a leading --- YAML block from each input.
	StripFrontmatter bool

	// Now returns the generation time. Nil means time.Now.
	Now func() time.Time
}

// NormalizeNewlines converts CRLF and lone CR line endings to LF.
func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// StripOuterFence returns the inner content when the whole text is wrapped in
// a single ```markdown fence, and the text unchanged otherwise.
func StripOuterFence(s string) string {
	if m := outerFencePattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// StripFrontmatter removes leading YAML frontmatter. Text without frontmatter
// is returned unchanged.
func StripFrontmatter(s string) (string, error) {
	var meta map[string]any
	body, err := frontmatter.Parse(strings.NewReader(s), &meta, yamlFrontmatter)
	if err != nil {
		return "", fmt.Errorf("parsing frontmatter: %w", err)
	}
	if meta == nil {
		return s, nil
	}
	return strings.TrimLeft(string(body), "\n"), nil
}

// NormalizeContent prepares one input for merging: unified newlines, outer
// fence removed, trailing whitespace trimmed, and a single final newline.
func NormalizeContent(s string, stripFrontmatter bool) (string, error) {
	s = StripOuterFence(NormalizeNewlines(s))
	if stripFrontmatter {
		var err error
		if s, err = StripFrontmatter(s); err != nil {
			return "", err
		}
	}
	return strings.TrimRightFunc(s, unicode.IsSpace) + "\n", nil
}

// DisplayPath returns p relative to root using forward slashes, or p itself
// when it is not under root.
func DisplayPath(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

// Resolve turns args (or DefaultInputs when args is empty) into cleaned
// absolute paths anchored at root.
func Resolve(root string, args []string) []string {
	if len(args) == 0 {
		args = DefaultInputs
	}
	paths := make([]string, len(args))
	for i, a := range args {
		if !filepath.IsAbs(a) {
			a = filepath.Join(root, a)
		}
		paths[i] = filepath.Clean(a)
	}
	return paths
}

// Validate returns a *MissingError naming every path that does not exist.
func Validate(paths []string) error {
	var missing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return &MissingError{Paths: missing}
	}
	return nil
}

// Merge reads paths in order and returns the combined document. Every path
// is validated before any is read.
func Merge(paths []string, opts Options) (string, error) {
	if err := Validate(paths); err != nil {
		return "", err
	}

	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "生成时间（UTC）：`%s`\n\n", now().UTC().Format(timestampFmt))
	b.WriteString("## 包含文件\n")
	for i, p := range paths {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- `%s`", DisplayPath(opts.Root, p))
	}
	b.WriteByte('\n')

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", p, err)
		}
		content, err := NormalizeContent(string(data), opts.StripFrontmatter)
		if err != nil {
			return "", fmt.Errorf("normalizing %s: %w", p, err)
		}
		fmt.Fprintf(&b, "\n---\n\n## Source：`%s`\n\n%s\n\n%s", DisplayPath(opts.Root, p), mergeMarker, content)
	}

	return strings.TrimRightFunc(b.String(), unicode.IsSpace) + "\n", nil
}

// Write stores doc at path, creating parent directories as needed.
func Write(path, doc string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
