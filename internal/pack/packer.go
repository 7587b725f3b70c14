package pack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gitship/gitship/internal/git"
)

// DefaultStagingDir is where the upload package is created.
const DefaultStagingDir = "upload-package"

// Packager stages the files that changed between two revisions as numbered
// files plus a manifest, reading historical content out of git.
type Packager struct {
	git git.Client
}

func NewPackager(gitClient git.Client) *Packager {
	return &Packager{git: gitClient}
}

// Pack recreates stagingDir and fills it with one numbered file per path in
// paths that can be retrieved at revision, in order. Paths matching the repo's
// ignore rules or missing at the revision are skipped with a warning.
// Returns the manifest and the fully resolved revision hash.
func (p *Packager) Pack(ctx context.Context, paths []string, repoPath, revision, stagingDir string) (*Manifest, string, error) {
	// Start from a clean slate so stale files from a previous run cannot leak
	// into the package.
	if err := os.RemoveAll(stagingDir); err != nil {
		return nil, "", fmt.Errorf("clean staging dir: %w", err)
	}
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create staging dir: %w", err)
	}

	fullHash, err := p.git.ResolveRevision(ctx, repoPath, revision)
	if err != nil {
		return nil, "", fmt.Errorf("resolve revision '%s': %w", revision, err)
	}

	ignore := NewIgnoreList(repoPath)
	ignore.Load()

	manifest := NewManifest(fullHash)
	var totalBytes uint64

	for _, path := range paths {
		if ignore.ShouldIgnore(path) {
			slog.Debug("pack", "op", "IGNORED", "path", path)
			continue
		}

		content, err := p.git.ShowFile(ctx, repoPath, revision, path)
		if err != nil {
			if errors.Is(err, git.ErrFileNotInRevision) {
				slog.Warn("could not retrieve file, skipping", "path", path, "revision", revision)
				continue
			}
			return nil, "", err
		}

		key := manifest.Add(path)
		if err := os.WriteFile(filepath.Join(stagingDir, key), content, 0o644); err != nil {
			return nil, "", fmt.Errorf("write staged file %s: %w", key, err)
		}

		totalBytes += uint64(len(content))
		slog.Info("packaged", "path", path, "key", key)
	}

	if err := manifest.Save(stagingDir); err != nil {
		return nil, "", fmt.Errorf("write manifest: %w", err)
	}

	slog.Info("upload package created",
		"dir", stagingDir,
		"files", manifest.Len(),
		"size", humanize.Bytes(totalBytes),
		"package_hash", fullHash,
	)

	return manifest, fullHash, nil
}
