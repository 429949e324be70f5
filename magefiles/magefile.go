//go:build mage

// Package main contains Mage build targets for opac-connector developer tooling.
// See DESIGN.md § Build tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "opac-connector"
	cmdPkg  = "./cmd/opac-connector"
)

// Build compiles the CLI binary into bin/, stamping the version from
// $VERSION when set.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs go vet.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs Lint and Test.
func Check() {
	mg.SerialDeps(Lint, Test)
}

// Stats prints each package with its source and test file counts, and
// fails when a package under internal/ has no tests.
func Stats() error {
	out, err := sh.Output("go", "list", "-f",
		"{{.ImportPath}} {{len .GoFiles}} {{len .TestGoFiles}} {{len .XTestGoFiles}}", "./...")
	if err != nil {
		return fmt.Errorf("go list: %w", err)
	}
	stats, err := parsePackageStats(out)
	if err != nil {
		return err
	}

	var untested []string
	for _, ps := range stats {
		fmt.Printf("%-60s %3d src %3d test\n", ps.path, ps.src, ps.tests)
		if ps.needsTests() {
			untested = append(untested, ps.path)
		}
	}
	if len(untested) > 0 {
		return fmt.Errorf("packages without tests: %s", strings.Join(untested, ", "))
	}
	return nil
}

type packageStats struct {
	path       string
	src, tests int
}

// needsTests reports an internal package with no test files. Test helper
// packages (named *test) are exempt.
func (p packageStats) needsTests() bool {
	return strings.Contains(p.path, "/internal/") && !strings.HasSuffix(p.path, "test") && p.tests == 0
}

// parsePackageStats reads "path src tests xtests" lines.
func parsePackageStats(out string) ([]packageStats, error) {
	var stats []packageStats
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var ps packageStats
		var xtests int
		if _, err := fmt.Sscan(line, &ps.path, &ps.src, &ps.tests, &xtests); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", line, err)
		}
		ps.tests += xtests
		stats = append(stats, ps)
	}
	return stats, nil
}
