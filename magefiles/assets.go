//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Assets groups the asset generation targets.
type Assets mg.Namespace

// Icons regenerates the Android launcher icon set from the SVG source.
func (Assets) Icons() error {
	bin, err := binPath("gen-icons")
	if err != nil {
		return err
	}
	return sh.RunV(bin)
}

// Plans merges the v38-v46 radio plan documents into build/radio-plans.md.
func (Assets) Plans() error {
	bin, err := binPath("merge-md")
	if err != nil {
		return err
	}
	return sh.RunV(bin, "--out", "build/radio-plans.md")
}

// All regenerates every asset.
func (Assets) All() {
	mg.SerialDeps(Assets.Icons, Assets.Plans)
}
