// SPDX-License-Identifier: MPL-2.0

package project

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"text/template"

	"github.com/gsctools/gsc/internal/issue"

	cp "github.com/otiai10/copy"
)

const (
	// CreateDestination is the destination written into new descriptors.
	CreateDestination = "./dist"
	// CreateCompiler is the compiler path written into new descriptors.
	CreateCompiler = "./compiler/Compiler.exe"
	// CompilerDir is where a compiler bundle is installed in a new project.
	CompilerDir = "compiler"
	// MainFile is the entry fragment written into new projects.
	MainFile = "main.gsc"

	descriptorIndent = "    "
)

//go:embed templates/main.gsc.tmpl
var mainTemplateText string

var mainTemplate = template.Must(template.New(MainFile).Parse(mainTemplateText))

type (
	// CompilerInstaller installs a compiler into dir.
	CompilerInstaller interface {
		Install(dir string) error
	}

	// BundleInstaller copies a compiler bundle directory.
	BundleInstaller struct {
		Source string
	}

	// CreateOptions configure Create.
	CreateOptions struct {
		// Version is stamped into the generated main.gsc.
		Version string
		// Installer, when set, installs a compiler into <project>/compiler.
		Installer CompilerInstaller
	}

	// Created describes a scaffolded project.
	Created struct {
		Dir        string
		Descriptor Descriptor
		// InstallErr is the compiler installation failure, if any. It does
		// not fail the scaffold.
		InstallErr error
	}
)

// Install copies the bundle into dir, overwriting existing files.
func (b BundleInstaller) Install(dir string) error {
	return cp.Copy(b.Source, dir)
}

// NewDescriptor returns the descriptor written by Create.
func NewDescriptor(name Name) Descriptor {
	return Descriptor{
		Name:        name,
		Destination: CreateDestination,
		Compiler:    CreateCompiler,
	}
}

// Create scaffolds parent/name: the project directory, gsc.json, src/ and
// src/main.gsc. The project directory must not exist yet.
func Create(parent string, name Name, opts CreateOptions) (*Created, error) {
	if err := name.Validate(); err != nil {
		return nil, issue.NewFailure(issue.ProjectNameMissingId, string(name), err)
	}

	dir := filepath.Join(parent, string(name))
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, issue.NewFailure(issue.ProjectDirCreateFailedId, dir, err)
	}

	created := &Created{Dir: dir, Descriptor: NewDescriptor(name)}

	if opts.Installer != nil {
		target := filepath.Join(dir, CompilerDir)
		if err := opts.Installer.Install(target); err != nil {
			created.InstallErr = issue.NewFailure(issue.CompilerInstallFailedId, target, err)
		}
	}

	data, err := json.MarshalIndent(created.Descriptor, "", descriptorIndent)
	if err != nil {
		return nil, issue.NewFailure(issue.DescriptorWriteFailedId, filepath.Join(dir, DescriptorFile), err)
	}
	if err := os.WriteFile(filepath.Join(dir, DescriptorFile), data, 0o644); err != nil {
		return nil, issue.NewFailure(issue.DescriptorWriteFailedId, filepath.Join(dir, DescriptorFile), err)
	}

	srcDir := filepath.Join(dir, SourceDir)
	if err := os.Mkdir(srcDir, 0o755); err != nil {
		return nil, issue.NewFailure(issue.SourceDirCreateFailedId, srcDir, err)
	}

	var buf bytes.Buffer
	if err := mainTemplate.Execute(&buf, struct{ Name, Version string }{string(name), opts.Version}); err != nil {
		return nil, issue.NewFailure(issue.MainFileWriteFailedId, filepath.Join(srcDir, MainFile), err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, MainFile), buf.Bytes(), 0o644); err != nil {
		return nil, issue.NewFailure(issue.MainFileWriteFailedId, filepath.Join(srcDir, MainFile), err)
	}

	return created, nil
}
