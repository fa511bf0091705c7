// SPDX-License-Identifier: MPL-2.0

package source

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gsctools/gsc/internal/issue"
)

// Options tunes Collect.
type Options struct {
	// Sort orders fragments lexically by file name instead of directory
	// listing order. This changes output order relative to the unsorted
	// default and is off unless configured.
	Sort bool
}

// Collect reads every *.gsc file directly inside dir and merges them.
// Directories are skipped. Any read failure is fatal; there is no per-file
// recovery.
func Collect(dir string, opts Options) (*MergedUnit, error) {
	names, err := listFragments(dir)
	if err != nil {
		return nil, issue.NewFailure(issue.SourceDirUnreadableId, dir, err)
	}
	if opts.Sort {
		slices.Sort(names)
	}

	unit := &MergedUnit{}
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, issue.NewFailure(issue.FragmentUnreadableId, path, err)
		}
		unit.AddFragment(name, string(data))
	}
	return unit, nil
}

// listFragments lists fragment names in the platform's native directory
// order. os.ReadDir would sort; (*os.File).ReadDir does not.
func listFragments(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}
