// SPDX-License-Identifier: MPL-2.0

// Package project loads the per-project gsc.json descriptor and scaffolds new
// projects.
//
// The descriptor is read fresh on every build and never cached. Missing
// optional fields fall back to build-time defaults ("./build" and
// "./compiler.exe"), which differ from the values written by Create
// ("./dist" and "./compiler/Compiler.exe").
package project
