// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// The helpers cover file fixtures (MustWriteFile, MustReadFile, MustMkdirAll),
// resource cleanup (MustClose, DeferClose) and a manually advanced clock for
// debounce tests (FakeClock).
package testutil
