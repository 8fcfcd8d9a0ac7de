//go:build mage

// Package main provides build targets for the kanban project using Mage.
//
// Usage:
//
//	mage build     Compile the kanban binary to bin/
//	mage test      Run all tests
//	mage race      Run all tests with the race detector
//	mage lint      Run golangci-lint
//	mage serve     Build and run the development board API
//	mage clean     Remove build artifacts
//	mage install   Install kanban to GOPATH/bin
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binLint    = "golangci-lint"
	binaryName = "kanban"
	binaryDir  = "bin"
	cmdDir     = "./cmd/kanban"
)

// Build compiles the kanban binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", binaryPath(), cmdDir)
}

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// Race runs all tests with the race detector. The board reconciler is
// concurrent, so this is the target CI should run.
func Race() error {
	return sh.RunV(binGo, "test", "-race", "-count=1", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}

// Serve builds the binary and runs the development board API with debug
// logging. KANBAN_DATA_DIR selects the store.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(binaryPath(), "--log-level", "debug", "serve")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binaryName), binaryPath())
}

func binaryPath() string {
	return filepath.Join(binaryDir, binaryName)
}
