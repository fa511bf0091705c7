// SPDX-License-Identifier: MPL-2.0

// Package source assembles the fragments of a project's src/ directory into
// the single compilation unit handed to the external compiler.
//
// Lines starting with the exact marker "#include" are hoisted to the top of
// the unit; everything else is body. The scripting language itself is never
// parsed. Lines are split on "\n" and kept byte for byte, so CRLF line
// endings survive the merge.
//
// Fragments are concatenated in the order the platform lists the directory,
// which is not sorted on every filesystem. Output order therefore may differ
// between machines when a project has more than one fragment. Options.Sort
// opts into lexical ordering instead.
package source
