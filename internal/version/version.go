/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package version exposes build-time version information.
package version

// Version is the current version of Maitred.
// This is set at build time via ldflags:
//
//	-X github.com/friendsincode/maitred/internal/version.Version=X.Y.Z
var Version = "0.3.1"

// Commit is the git commit the binary was built from.
var Commit = "unknown"
