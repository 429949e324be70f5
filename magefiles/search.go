//go:build mage

package main

import (
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Search builds the CLI and searches the configured catalog for terms.
func Search(terms string) error {
	mg.Deps(Build)
	return sh.RunV(binDir+"/"+binName, append([]string{"search"}, strings.Fields(terms)...)...)
}

// Serve builds the CLI and serves the configured catalog over HTTP.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(binDir+"/"+binName, "serve")
}
