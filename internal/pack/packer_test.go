package pack

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gitship/gitship/internal/git"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGit serves file content from an in-memory map keyed by path.
type fakeGit struct {
	resolved   string
	resolveErr error
	files      map[string][]byte
}

func (f *fakeGit) DiffNames(ctx context.Context, repoPath, rev1, rev2 string) ([]string, error) {
	return nil, nil
}

func (f *fakeGit) ResolveRevision(ctx context.Context, repoPath, alias string) (string, error) {
	if f.resolveErr != nil {
		return "", f.resolveErr
	}
	return f.resolved, nil
}

func (f *fakeGit) ShowFile(ctx context.Context, repoPath, revision, path string) ([]byte, error) {
	content, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s at %s", git.ErrFileNotInRevision, path, revision)
	}
	return content, nil
}

func TestPack_NumbersFilesAndWritesManifest(t *testing.T) {
	staging := filepath.Join(t.TempDir(), "upload-package")
	fake := &fakeGit{
		resolved: "deadbeef00",
		files: map[string][]byte{
			"a.txt":   []byte("alpha"),
			"b/c.txt": []byte("charlie"),
		},
	}

	p := NewPackager(fake)
	manifest, hash, err := p.Pack(context.Background(), []string{"a.txt", "b/c.txt"}, t.TempDir(), "HEAD", staging)
	require.NoError(t, err)
	assert.Equal(t, "deadbeef00", hash)
	assert.Equal(t, "deadbeef00", manifest.PackageHash)
	assert.Equal(t, map[string]string{"1": "a.txt", "2": "b/c.txt"}, manifest.Files)

	content, err := os.ReadFile(filepath.Join(staging, "1"))
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(content))

	content, err = os.ReadFile(filepath.Join(staging, "2"))
	require.NoError(t, err)
	assert.Equal(t, "charlie", string(content))

	// manifest on disk matches the returned one
	loaded, err := LoadManifest(staging)
	require.NoError(t, err)
	assert.Equal(t, manifest.Files, loaded.Files)
	assert.Equal(t, manifest.PackageHash, loaded.PackageHash)
}

func TestPack_SkipsMissingFilesWithoutGaps(t *testing.T) {
	staging := filepath.Join(t.TempDir(), "upload-package")
	fake := &fakeGit{
		resolved: "deadbeef00",
		files: map[string][]byte{
			"a.txt": []byte("alpha"),
			"c.txt": []byte("charlie"),
		},
	}

	p := NewPackager(fake)
	manifest, _, err := p.Pack(context.Background(), []string{"a.txt", "gone.txt", "c.txt"}, t.TempDir(), "HEAD", staging)
	require.NoError(t, err)

	// the miss does not consume a key
	assert.Equal(t, map[string]string{"1": "a.txt", "2": "c.txt"}, manifest.Files)
	assert.NoFileExists(t, filepath.Join(staging, "3"))
}

func TestPack_ResolveFailureIsFatal(t *testing.T) {
	staging := filepath.Join(t.TempDir(), "upload-package")
	fake := &fakeGit{resolveErr: fmt.Errorf("unknown revision")}

	p := NewPackager(fake)
	_, _, err := p.Pack(context.Background(), []string{"a.txt"}, t.TempDir(), "nope", staging)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve revision")
}

func TestPack_RecreatesStagingDir(t *testing.T) {
	staging := filepath.Join(t.TempDir(), "upload-package")
	require.NoError(t, os.MkdirAll(staging, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staging, "stale"), []byte("old"), 0o644))

	fake := &fakeGit{resolved: "deadbeef00", files: map[string][]byte{"a.txt": []byte("alpha")}}
	p := NewPackager(fake)
	_, _, err := p.Pack(context.Background(), []string{"a.txt"}, t.TempDir(), "HEAD", staging)
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(staging, "stale"))
}

func TestPack_EmptyListWritesEmptyManifest(t *testing.T) {
	staging := filepath.Join(t.TempDir(), "upload-package")
	fake := &fakeGit{resolved: "deadbeef00", files: map[string][]byte{}}

	p := NewPackager(fake)
	manifest, _, err := p.Pack(context.Background(), nil, t.TempDir(), "HEAD", staging)
	require.NoError(t, err)
	assert.Zero(t, manifest.Len())
	assert.FileExists(t, filepath.Join(staging, ManifestFileName))
}

func TestPack_Deterministic(t *testing.T) {
	fake := &fakeGit{
		resolved: "deadbeef00",
		files: map[string][]byte{
			"a.txt":   []byte("alpha"),
			"b/c.txt": []byte("charlie"),
		},
	}
	paths := []string{"a.txt", "b/c.txt"}

	read := func(staging string) string {
		p := NewPackager(fake)
		_, _, err := p.Pack(context.Background(), paths, t.TempDir(), "HEAD", staging)
		require.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(staging, ManifestFileName))
		require.NoError(t, err)
		return string(data)
	}

	first := read(filepath.Join(t.TempDir(), "upload-package"))
	second := read(filepath.Join(t.TempDir(), "upload-package"))
	assert.Equal(t, first, second)
}

func TestPack_HonorsIgnoreRules(t *testing.T) {
	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, IgnoreFileName), []byte("*.secret\n"), 0o644))

	staging := filepath.Join(t.TempDir(), "upload-package")
	fake := &fakeGit{
		resolved: "deadbeef00",
		files: map[string][]byte{
			"a.txt":       []byte("alpha"),
			"keys.secret": []byte("sssh"),
		},
	}

	p := NewPackager(fake)
	manifest, _, err := p.Pack(context.Background(), []string{"keys.secret", "a.txt"}, repo, "HEAD", staging)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "a.txt"}, manifest.Files)
}

func TestManifest_OrderedKeysNumeric(t *testing.T) {
	m := NewManifest("h")
	for i := 0; i < 12; i++ {
		m.Add(fmt.Sprintf("file-%d.txt", i))
	}

	keys := m.OrderedKeys()
	require.Len(t, keys, 12)
	assert.Equal(t, "1", keys[0])
	assert.Equal(t, "2", keys[1])
	assert.Equal(t, "10", keys[9])
	assert.Equal(t, "12", keys[11])
}

func TestManifest_JSONShape(t *testing.T) {
	m := NewManifest("fullhash")
	m.Add("a.txt")
	m.Add("b/c.txt")

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"package_hash":"fullhash","files":{"1":"a.txt","2":"b/c.txt"}}`, string(data))
}

func TestLoadManifest_Missing(t *testing.T) {
	_, err := LoadManifest(t.TempDir())
	assert.Error(t, err)
}
