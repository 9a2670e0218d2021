//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides the mage targets for mart.
//
//	mage build        compile bin/mart
//	mage test:all     run every test
//	mage test:short   run tests with -short
//	mage test:cover   write coverage.out and print the summary
//	mage lint         run golangci-lint
//	mage stats        print lines of code per package
//	mage seed         initialize a store in .mart-db
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "mart"
	binaryDir  = "bin"
	cmdDir     = "./cmd/mart"
	devDataDir = ".mart-db"
)

// Build compiles the mart binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts and the development store.
func Clean() error {
	for _, dir := range []string{binaryDir, devDataDir} {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
	}
	if err := os.Remove(coverFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Seed builds mart and initializes a seeded development store in .mart-db.
func Seed() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, binaryName), "--data-dir", devDataDir, "init")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
