// Package importfetch acquires an external source referenced by an
// `import:` or `download:` declaration into a local directory, so the
// rest of laze can treat it exactly like any other on-disk module tree
// (spec.md §4.2 import:, SPEC_FULL.md §4.9, §10.4).
package importfetch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/standardbeagle/laze/internal/lazeerrors"
)

// Provider acquires a single source into a local path.
type Provider interface {
	Acquire(ctx context.Context, url, version, subdir string) (localPath string, err error)
}

// GitProvider fetches git repositories with the system git binary,
// caching each (url, version) pair under a fixed cache root so a
// second request for the same pair is a no-op (spec.md §4.9's
// `.laze/imports/<name>/<version|'latest'>[/subdir]` layout).
type GitProvider struct {
	CacheRoot string
	GitBin    string
}

func NewGitProvider(cacheRoot string) *GitProvider {
	return &GitProvider{CacheRoot: cacheRoot, GitBin: "git"}
}

// Acquire clones url at version (or the default branch, tracked as
// "latest", when version is empty) into CacheRoot/<repo-name>/<version>,
// then joins subdir. A cache hit (directory already present) skips the
// network round-trip entirely.
func (p *GitProvider) Acquire(ctx context.Context, url, version, subdir string) (string, error) {
	if url == "" {
		return "", lazeerrors.NewInvalidArgument("import entry has no url")
	}
	ref := version
	if ref == "" {
		ref = "latest"
	}

	name := repoName(url)
	dest := filepath.Join(p.CacheRoot, name, ref)

	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		return filepath.Join(dest, subdir), nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", lazeerrors.NewDownloadError(url, dest, err)
	}

	gitBin := p.GitBin
	if gitBin == "" {
		gitBin = "git"
	}

	cloneArgs := []string{"clone", "--depth", "1"}
	if version != "" {
		cloneArgs = append(cloneArgs, "--branch", version)
	}
	cloneArgs = append(cloneArgs, url, dest)

	cmd := exec.CommandContext(ctx, gitBin, cloneArgs...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", lazeerrors.NewDownloadError(url, dest, fmt.Errorf("%w: %s", err, out))
	}

	return filepath.Join(dest, subdir), nil
}

func repoName(url string) string {
	base := filepath.Base(url)
	for _, suffix := range []string{".git"} {
		if len(base) > len(suffix) && base[len(base)-len(suffix):] == suffix {
			return base[:len(base)-len(suffix)]
		}
	}
	return base
}
