package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRepo creates a local repo with commit identity configured.
func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, args := range [][]string{
		{"git", "init", "-b", "main", dir},
		{"git", "-C", dir, "config", "user.email", "test@test.com"},
		{"git", "-C", dir, "config", "user.name", "Test"},
	} {
		if out, err := exec.Command(args[0], args[1:]...).CombinedOutput(); err != nil {
			t.Fatalf("%v: %s", err, out)
		}
	}
	return dir
}

// commitFile writes a file (creating parent dirs) and commits it.
func commitFile(t *testing.T, repoDir, name, content, msg string) {
	t.Helper()
	path := filepath.Join(repoDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, args := range [][]string{
		{"git", "-C", repoDir, "add", name},
		{"git", "-C", repoDir, "commit", "-m", msg},
	} {
		if out, err := exec.Command(args[0], args[1:]...).CombinedOutput(); err != nil {
			t.Fatalf("%v: %s", err, out)
		}
	}
}

func TestDiffNames_ListsChangedPaths(t *testing.T) {
	ctx := context.Background()
	repo := initRepo(t)
	commitFile(t, repo, "a.txt", "one\n", "first")
	commitFile(t, repo, "b/c.txt", "two\n", "second")

	client := NewShellClient()
	paths, err := client.DiffNames(ctx, repo, "HEAD~1", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, []string{"b/c.txt"}, paths)
}

func TestDiffNames_NoChanges(t *testing.T) {
	ctx := context.Background()
	repo := initRepo(t)
	commitFile(t, repo, "a.txt", "one\n", "first")

	client := NewShellClient()
	paths, err := client.DiffNames(ctx, repo, "HEAD", "HEAD")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestDiffNames_BadRevision(t *testing.T) {
	ctx := context.Background()
	repo := initRepo(t)
	commitFile(t, repo, "a.txt", "one\n", "first")

	client := NewShellClient()
	_, err := client.DiffNames(ctx, repo, "nope", "HEAD")
	require.Error(t, err)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.NotEmpty(t, cmdErr.Stderr)
}

func TestResolveRevision_FullHash(t *testing.T) {
	ctx := context.Background()
	repo := initRepo(t)
	commitFile(t, repo, "a.txt", "one\n", "first")

	client := NewShellClient()
	hash, err := client.ResolveRevision(ctx, repo, "HEAD")
	require.NoError(t, err)
	assert.Len(t, hash, 40)
}

func TestResolveRevision_UnknownAlias(t *testing.T) {
	ctx := context.Background()
	repo := initRepo(t)
	commitFile(t, repo, "a.txt", "one\n", "first")

	client := NewShellClient()
	_, err := client.ResolveRevision(ctx, repo, "no-such-branch")
	assert.Error(t, err)
}

func TestShowFile_HistoricalContent(t *testing.T) {
	ctx := context.Background()
	repo := initRepo(t)
	commitFile(t, repo, "a.txt", "version1\n", "first")
	commitFile(t, repo, "a.txt", "version2\n", "second")

	client := NewShellClient()

	content, err := client.ShowFile(ctx, repo, "HEAD~1", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "version1\n", string(content))

	content, err = client.ShowFile(ctx, repo, "HEAD", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "version2\n", string(content))
}

func TestShowFile_MissingPath(t *testing.T) {
	ctx := context.Background()
	repo := initRepo(t)
	commitFile(t, repo, "a.txt", "one\n", "first")

	client := NewShellClient()
	_, err := client.ShowFile(ctx, repo, "HEAD", "missing.txt")
	assert.True(t, errors.Is(err, ErrFileNotInRevision))
}
