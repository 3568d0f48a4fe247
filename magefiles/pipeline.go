//go:build mage

package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// run executes the built CLI binary with the given subcommand and arguments.
func run(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Search queries the configured bibliographic databases and stores raw records.
func Search() error {
	mg.Deps(Build)
	return run("search")
}

// Dedup removes duplicate records from the raw snapshot.
func Dedup() error {
	mg.Deps(Build)
	return run("dedup")
}

// Screen classifies deduplicated records for relevance.
func Screen() error {
	mg.Deps(Build)
	return run("screen")
}

// Metrics evaluates screening decisions against gold labels.
func Metrics() error {
	mg.Deps(Build)
	return run("metrics")
}

// Prisma prints the PRISMA 2020 flow counts.
func Prisma() error {
	mg.Deps(Build)
	return run("prisma")
}

// Export writes the pipeline snapshots to the configured export format.
func Export() error {
	mg.Deps(Build)
	return run("export")
}

// Pipeline runs the full review pipeline: search, dedup, screen, prisma, export.
func Pipeline() error {
	mg.SerialDeps(Search, Dedup, Screen, Prisma, Export)
	return nil
}
