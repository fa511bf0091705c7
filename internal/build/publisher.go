// SPDX-License-Identifier: MPL-2.0

package build

import (
	"os"
	"path/filepath"

	"github.com/gsctools/gsc/internal/issue"
	"github.com/gsctools/gsc/internal/project"

	"github.com/charmbracelet/log"
	cp "github.com/otiai10/copy"
)

type (
	// ArtifactPublisher relocates a detected artifact and returns the
	// published path.
	ArtifactPublisher interface {
		Publish(artifactPath string) (string, error)
	}

	// Publisher moves the artifact into dist/ and copies it to the
	// descriptor's destination.
	Publisher struct {
		root   string
		desc   *project.Descriptor
		logger *log.Logger
	}
)

// NewPublisher creates a Publisher for desc in the project rooted at root.
func NewPublisher(root string, desc *project.Descriptor, logger *log.Logger) *Publisher {
	return &Publisher{root: root, desc: desc, logger: orDiscard(logger)}
}

// Publish renames artifactPath to dist/<name>.gsc, then copies that file to
// <destination>/<name>.gsc, overwriting an earlier copy. When the destination
// resolves to dist/ itself the copy is skipped.
func (p *Publisher) Publish(artifactPath string) (string, error) {
	distDir := filepath.Join(p.root, project.DistDir)
	if err := os.MkdirAll(distDir, 0o755); err != nil {
		return "", issue.NewFailure(issue.DistDirCreateFailedId, distDir, err)
	}

	distFile := filepath.Join(p.root, p.desc.DistFile())
	if err := os.Rename(artifactPath, distFile); err != nil {
		return "", issue.NewFailure(issue.ArtifactMoveFailedId, artifactPath, err)
	}
	p.logger.Debug("artifact moved", "to", distFile)

	destDir := project.Resolve(p.root, p.desc.Destination)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", issue.NewFailure(issue.DestinationCreateFailedId, destDir, err)
	}

	published := project.Resolve(p.root, p.desc.PublishedFile())
	if sameFile(distFile, published) {
		p.logger.Debug("destination is dist, copy skipped", "path", published)
		return published, nil
	}
	if err := cp.Copy(distFile, published); err != nil {
		return "", issue.NewFailure(issue.ArtifactCopyFailedId, published, err)
	}
	p.logger.Debug("artifact copied", "to", published)

	return published, nil
}

// sameFile reports whether a and b name the same existing file. Copying a
// file onto itself truncates it.
func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
