package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gitship/gitship/internal/utils"
	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
)

var (
	home, _            = os.UserHomeDir()
	DefaultConfigPath  = filepath.Join(home, ".gitship", "config.json")
	DefaultLogFilePath = filepath.Join(home, ".gitship", "gitship.log")
	DefaultJournalPath = filepath.Join(home, ".gitship", "journal.db")

	// ErrLocked is returned when another gitship run holds the config lock.
	ErrLocked = errors.New("config locked by another process")
)

// EnvFTPPassword overrides ftp.password when set, so credentials can stay
// out of the config file.
const EnvFTPPassword = "GITSHIP_FTP_PASSWORD"

type RepoConfig struct {
	Path        string `json:"path"`
	EarlierHash string `json:"earlier_hash,omitempty"`
	PackageHash string `json:"package_hash,omitempty"`
}

type FTPConfig struct {
	Host      string `json:"host"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	TargetDir string `json:"target_dir"`
}

type Config struct {
	Repo RepoConfig `json:"repo"`
	FTP  FTPConfig  `json:"ftp"`

	Path string `json:"-"`

	flock *flock.Flock
}

// Load reads and validates a config file. A `.env` next to the working
// directory and the GITSHIP_FTP_PASSWORD variable may override the FTP
// password.
func Load(path string) (*Config, error) {
	resolved, err := utils.ResolvePath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("config read '%s': %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config parse '%s': %w", path, err)
	}

	cfg.Path = resolved
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnvOverrides() {
	// best effort, a missing .env is fine
	_ = godotenv.Load()

	if pass := os.Getenv(EnvFTPPassword); pass != "" {
		c.FTP.Password = pass
	}
}

func (c *Config) Validate() error {
	if c.Repo.Path == "" {
		return errors.New("config: missing repo.path")
	}
	if c.FTP.Host == "" {
		return errors.New("config: missing ftp.host")
	}
	if c.FTP.Username == "" {
		return errors.New("config: missing ftp.username")
	}
	if c.FTP.Password == "" {
		return errors.New("config: missing ftp.password")
	}
	if c.FTP.TargetDir == "" {
		return errors.New("config: missing ftp.target_dir")
	}
	return nil
}

// Save writes the config back atomically (temp file then rename) so a crash
// mid-write cannot truncate it.
func (c *Config) Save() error {
	if c.Path == "" {
		return errors.New("config: no path to save to")
	}

	if err := utils.EnsureParent(c.Path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.Path), ".config-*.json")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, c.Path)
}

// Lock takes an advisory lock next to the config file so concurrent runs
// against the same config cannot race the read-then-rewrite cycle.
func (c *Config) Lock() error {
	if c.flock == nil {
		c.flock = flock.New(c.Path + ".lock")
	}

	locked, err := c.flock.TryLock()
	if err != nil {
		return fmt.Errorf("config lock: %w", err)
	}
	if !locked {
		return ErrLocked
	}
	return nil
}

func (c *Config) Unlock() error {
	if c.flock == nil {
		return nil
	}
	return c.flock.Unlock()
}
