package ftpx

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gitship/gitship/internal/pack"
)

// UploadOptions carries the connection and destination parameters for a batch.
type UploadOptions struct {
	Host      string
	Username  string
	Password  string
	TargetDir string
}

// Uploader transfers a staged package to an FTP server, recreating each
// file's original relative path under the target directory.
type Uploader struct {
	dial Dialer
}

func NewUploader() *Uploader {
	return &Uploader{dial: DefaultDialer}
}

// NewUploaderWithDialer is used by tests to substitute the FTP connection.
func NewUploaderWithDialer(dial Dialer) *Uploader {
	return &Uploader{dial: dial}
}

// Upload sends every manifest entry to the server. Connection, login and the
// initial change into the target directory are fatal; a single file failing
// is logged and the batch continues. Returns the number of files uploaded.
func (u *Uploader) Upload(stagingDir string, manifest *pack.Manifest, opts UploadOptions) (int, error) {
	conn, err := u.dial(opts.Host)
	if err != nil {
		return 0, fmt.Errorf("ftp connect '%s': %w", opts.Host, err)
	}
	// Quit regardless of how the batch went.
	defer conn.Quit()

	if err := conn.Login(opts.Username, opts.Password); err != nil {
		return 0, fmt.Errorf("ftp login '%s': %w", opts.Username, err)
	}
	if err := conn.ChangeDir(opts.TargetDir); err != nil {
		return 0, fmt.Errorf("ftp change to target dir '%s': %w", opts.TargetDir, err)
	}

	uploaded := 0
	var totalBytes uint64

	for _, key := range manifest.OrderedKeys() {
		targetPath := manifest.Files[key]
		localPath := filepath.Join(stagingDir, key)

		info, err := os.Stat(localPath)
		if err != nil {
			slog.Warn("staged file missing, skipping", "key", key, "path", targetPath)
			continue
		}

		if err := u.uploadOne(conn, localPath, targetPath); err != nil {
			slog.Error("upload failed", "key", key, "path", targetPath, "error", err)
		} else {
			uploaded++
			totalBytes += uint64(info.Size())
			slog.Info("uploaded", "key", key, "path", targetPath)
		}

		// Each file navigates away from the target dir; come back before the
		// next entry.
		if err := conn.ChangeDir(opts.TargetDir); err != nil {
			return uploaded, fmt.Errorf("ftp return to target dir '%s': %w", opts.TargetDir, err)
		}
	}

	slog.Info("upload complete", "files", uploaded, "size", humanize.Bytes(totalBytes))
	return uploaded, nil
}

// uploadOne walks the directory portion of targetPath segment by segment,
// probing each with a change-dir before creating it, then stores the file
// under its final name.
func (u *Uploader) uploadOne(conn Conn, localPath, targetPath string) error {
	// The manifest stores repo-relative paths, which git always reports with
	// forward slashes.
	dir, name := path.Split(targetPath)

	for _, segment := range strings.Split(dir, "/") {
		if segment == "" {
			continue
		}
		if err := conn.ChangeDir(segment); err != nil {
			if err := conn.MakeDir(segment); err != nil {
				return fmt.Errorf("make dir '%s': %w", segment, err)
			}
			if err := conn.ChangeDir(segment); err != nil {
				return fmt.Errorf("change dir '%s': %w", segment, err)
			}
		}
	}

	file, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := conn.Stor(name, file); err != nil {
		return fmt.Errorf("store '%s': %w", name, err)
	}
	return nil
}
