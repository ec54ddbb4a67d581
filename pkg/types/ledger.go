// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Run is one recorded invocation of gen-icons or merge-md.
type Run struct {
	// ID is the ledger row id.
	ID int64 `json:"id" yaml:"id"`

	// Tool is the binary that produced the run ("gen-icons" or "merge-md").
	Tool string `json:"tool" yaml:"tool"`

	// StartedAt is the UTC time the run began.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// Outputs lists the files written during the run, in write order.
	Outputs []Output `json:"outputs" yaml:"outputs"`
}

// Output is one file written during a run.
type Output struct {
	Path   string `json:"path" yaml:"path"`
	SHA256 string `json:"sha256" yaml:"sha256"`
	Bytes  int64  `json:"bytes" yaml:"bytes"`

	// Detail is a tool-specific note, e.g. "48x48" for icons.
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}
