// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gsctools/gsc/internal/issue"
	"github.com/gsctools/gsc/internal/source"

	"github.com/spf13/viper"
)

const (
	// DescriptorFile is the descriptor file name at the project root.
	DescriptorFile = "gsc.json"
	// SourceDir holds the fragments.
	SourceDir = "src"
	// BuildDir receives the merged pre-compile unit.
	BuildDir = "build"
	// DistDir receives the relocated compiler artifact.
	DistDir = "dist"

	// DefaultDestination applies when a descriptor omits destination.
	DefaultDestination = "./build"
	// DefaultCompiler applies when a descriptor omits compiler.
	DefaultCompiler = "./compiler.exe"

	// artifactSuffix is appended to the project name by the compiler.
	artifactSuffix = "-compiled"
)

// ErrInvalidName is the sentinel error wrapped by InvalidNameError.
var ErrInvalidName = errors.New("invalid project name")

type (
	// Name is a project name. It names the merged unit, the artifact and
	// the published script, so it must be a single path element.
	Name string

	// InvalidNameError is returned when a Name is empty or is not a single
	// path element.
	InvalidNameError struct {
		Value  Name
		Reason string
	}

	// Descriptor is the content of gsc.json.
	Descriptor struct {
		Name        Name   `json:"name" mapstructure:"name"`
		Destination string `json:"destination" mapstructure:"destination"`
		Compiler    string `json:"compiler" mapstructure:"compiler"`
	}
)

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid project name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidName.
func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }

// Validate returns an error if the name is empty, whitespace-only or
// contains a path separator.
func (n Name) Validate() error {
	switch {
	case strings.TrimSpace(string(n)) == "":
		return &InvalidNameError{Value: n, Reason: "must not be empty"}
	case strings.ContainsAny(string(n), `/\`), n == ".", n == "..":
		return &InvalidNameError{Value: n, Reason: "must be a single path element"}
	}
	return nil
}

func (n Name) String() string { return string(n) }

// MergedFile is the merged unit path relative to the project root.
func (d *Descriptor) MergedFile() string {
	return filepath.Join(BuildDir, string(d.Name)+source.Extension)
}

// ArtifactName is the file name the compiler writes into the project root.
func (d *Descriptor) ArtifactName() string {
	return string(d.Name) + artifactSuffix + source.Extension
}

// DistFile is the relocated artifact path relative to the project root.
func (d *Descriptor) DistFile() string {
	return filepath.Join(DistDir, string(d.Name)+source.Extension)
}

// PublishedFile is the published copy path relative to the project root
// (or absolute when destination is).
func (d *Descriptor) PublishedFile() string {
	return filepath.Join(d.Destination, string(d.Name)+source.Extension)
}

// Resolve makes p absolute against root unless it already is.
func Resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// Exists reports whether root holds a descriptor file.
func Exists(root string) bool {
	info, err := os.Stat(filepath.Join(root, DescriptorFile))
	return err == nil && !info.IsDir()
}

// Load reads root/gsc.json. Absent or empty destination and compiler fall
// back to DefaultDestination and DefaultCompiler. A missing name is a
// configuration failure; nothing else is touched on disk.
func Load(root string) (*Descriptor, error) {
	path := filepath.Join(root, DescriptorFile)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, issue.NewFailure(issue.DescriptorNotFoundId, path, nil)
		}
		return nil, issue.NewFailure(issue.DescriptorNotFoundId, path, err)
	}
	if info.IsDir() {
		return nil, issue.NewFailure(issue.DescriptorCorruptId, path, fmt.Errorf("is a directory"))
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetDefault("destination", DefaultDestination)
	v.SetDefault("compiler", DefaultCompiler)

	if err := v.ReadInConfig(); err != nil {
		return nil, issue.NewFailure(issue.DescriptorCorruptId, path, err)
	}

	var d Descriptor
	if err := v.Unmarshal(&d); err != nil {
		return nil, issue.NewFailure(issue.DescriptorCorruptId, path, err)
	}

	if err := d.Name.Validate(); err != nil {
		if strings.TrimSpace(string(d.Name)) == "" {
			return nil, issue.NewFailure(issue.DescriptorNameMissingId, path, nil)
		}
		return nil, issue.NewFailure(issue.DescriptorCorruptId, path, err)
	}
	if d.Destination == "" {
		d.Destination = DefaultDestination
	}
	if d.Compiler == "" {
		d.Compiler = DefaultCompiler
	}

	return &d, nil
}
