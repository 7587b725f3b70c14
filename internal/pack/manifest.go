package pack

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// ManifestFileName is the name of the manifest document inside a staging dir.
const ManifestFileName = "upload-spec.json"

// Manifest maps the numbered staged files back to their repository-relative
// paths and records the revision they were taken from.
type Manifest struct {
	PackageHash string            `json:"package_hash"`
	Files       map[string]string `json:"files"`

	nextKey int
}

func NewManifest(packageHash string) *Manifest {
	return &Manifest{
		PackageHash: packageHash,
		Files:       make(map[string]string),
		nextKey:     1,
	}
}

// Add assigns the next sequential key to a path and returns it. Keys start
// at "1" and only advance on a successful add, so skipped files never leave
// gaps.
func (m *Manifest) Add(path string) string {
	if m.nextKey == 0 {
		m.nextKey = 1
	}
	key := strconv.Itoa(m.nextKey)
	m.Files[key] = path
	m.nextKey++
	return key
}

// OrderedKeys returns the manifest keys in numeric order, so uploads preserve
// the order files were packed in.
func (m *Manifest) OrderedKeys() []string {
	keys := make([]string, 0, len(m.Files))
	for k := range m.Files {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})
	return keys
}

func (m *Manifest) Len() int {
	return len(m.Files)
}

// Save writes the manifest document into the staging directory.
func (m *Manifest) Save(stagingDir string) error {
	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(stagingDir, ManifestFileName), data, 0o644)
}

// LoadManifest reads the manifest document from a staging directory.
func LoadManifest(stagingDir string) (*Manifest, error) {
	path := filepath.Join(stagingDir, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest read '%s': %w", path, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest parse '%s': %w", path, err)
	}
	if m.Files == nil {
		m.Files = make(map[string]string)
	}
	m.nextKey = len(m.Files) + 1
	return &m, nil
}
