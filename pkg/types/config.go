// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RendererBackend identifies the SVG rasterization backend.
type RendererBackend string

const (
	// RendererAuto prefers rsvg-convert when installed and falls back to the builtin rasterizer.
	RendererAuto    RendererBackend = "auto"
	RendererBuiltin RendererBackend = "builtin"
	RendererRsvg    RendererBackend = "rsvg"
)

// IconsConfig holds settings for the icon rasterizer.
type IconsConfig struct {
	// Source is the SVG launcher icon (default app/src/main/res/raw/ic_launcher_paw.svg).
	Source string `json:"source" yaml:"source" mapstructure:"source"`

	// ResDir is the Android resource directory holding the mipmap-* folders.
	ResDir string `json:"res_dir" yaml:"res_dir" mapstructure:"res_dir"`

	// Renderer selects the rasterization backend: auto, builtin, or rsvg.
	Renderer RendererBackend `json:"renderer" yaml:"renderer" mapstructure:"renderer"`
}

// OutputFormat selects the merged document format.
type OutputFormat string

const (
	OutputMarkdown OutputFormat = "markdown"
	OutputHTML     OutputFormat = "html"
)

// MergeConfig holds settings for the markdown merger.
type MergeConfig struct {
	// Title is the document title written as the top-level heading.
	Title string `json:"title" yaml:"title" mapstructure:"title"`

	// Out is the output path. Empty means stdout.
	Out string `json:"out,omitempty" yaml:"out,omitempty" mapstructure:"out"`

	// StripFrontmatter removes leading YAML frontmatter from every input.
	StripFrontmatter bool `json:"strip_frontmatter" yaml:"strip_frontmatter" mapstructure:"strip_frontmatter"`

	// Format selects the output format: markdown or html.
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`
}

// LedgerConfig holds settings for the SQLite run ledger.
type LedgerConfig struct {
	// Path is the ledger database file. Empty disables recording.
	Path string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
}

// Config groups the settings of both tools as read from apptools.yaml.
type Config struct {
	Icons  IconsConfig  `json:"icons" yaml:"icons" mapstructure:"icons"`
	Merge  MergeConfig  `json:"merge" yaml:"merge" mapstructure:"merge"`
	Ledger LedgerConfig `json:"ledger" yaml:"ledger" mapstructure:"ledger"`
}
