package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrFileNotInRevision is returned by ShowFile when the requested path does
// not exist at the given revision. Callers treat this as a skip, not a failure.
var ErrFileNotInRevision = errors.New("file does not exist at revision")

// CommandError carries the stderr of a failed git invocation.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), e.Stderr)
	}
	return fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Client provides the git operations needed to diff and read history
type Client interface {
	// DiffNames lists the paths that differ between two revisions
	DiffNames(ctx context.Context, repoPath, rev1, rev2 string) ([]string, error)
	// ResolveRevision resolves a revision alias (e.g. HEAD, a branch name) to a full hash
	ResolveRevision(ctx context.Context, repoPath, alias string) (string, error)
	// ShowFile returns the content of a file as it existed at the given revision
	ShowFile(ctx context.Context, repoPath, revision, path string) ([]byte, error)
}

// ShellClient implements Client by shelling out to the git command
type ShellClient struct{}

// NewShellClient creates a new git client that uses the git command
func NewShellClient() *ShellClient {
	return &ShellClient{}
}

// DiffNames runs `git diff --name-only rev1 rev2` and returns the changed
// paths in the order git reports them.
func (c *ShellClient) DiffNames(ctx context.Context, repoPath, rev1, rev2 string) ([]string, error) {
	output, err := c.run(ctx, repoPath, "diff", "--name-only", rev1, rev2)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}

// ResolveRevision runs `git rev-parse alias` and returns the full commit hash.
func (c *ShellClient) ResolveRevision(ctx context.Context, repoPath, alias string) (string, error) {
	output, err := c.run(ctx, repoPath, "rev-parse", alias)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// ShowFile runs `git show revision:path`. Any failure to produce the blob
// (path deleted at that revision, renamed, bad object) is reported as
// ErrFileNotInRevision so callers can skip the file and keep going.
func (c *ShellClient) ShowFile(ctx context.Context, repoPath, revision, path string) ([]byte, error) {
	spec := revision + ":" + path
	output, err := c.run(ctx, repoPath, "show", spec)
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			return nil, fmt.Errorf("%w: %s at %s: %s", ErrFileNotInRevision, path, revision, cmdErr.Stderr)
		}
		return nil, err
	}
	return output, nil
}

func (c *ShellClient) run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repoPath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &CommandError{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return stdout.Bytes(), nil
}
