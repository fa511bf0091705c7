// SPDX-License-Identifier: MPL-2.0

// Package issue classifies gsc failures and renders them for users.
//
// Every failure the build pipeline or the project tooling can report has a
// catalog entry (an Id) that fixes its kind (configuration, I/O or compile)
// and carries a short localized message plus optional Markdown guidance.
// ActionableError covers the remaining, uncatalogued cases where an operation,
// a resource and suggestions are enough.
package issue
