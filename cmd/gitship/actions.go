package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gitship/gitship/internal/config"
	"github.com/gitship/gitship/internal/ftpx"
	"github.com/gitship/gitship/internal/git"
	"github.com/gitship/gitship/internal/journal"
	"github.com/gitship/gitship/internal/pack"
)

// runPacker diffs two revisions and stages the changed files as an upload
// package, persisting the resolved revision as repo.package_hash.
func runPacker(ctx context.Context, in *bufio.Reader, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Lock(); err != nil {
		return err
	}
	defer cfg.Unlock()

	run := newRun("pack", cfg.Repo.PackageHash)
	gitClient := git.NewShellClient()

	earlier := promptLine(in, "earlier hash", cfg.Repo.PackageHash)
	if earlier == "" {
		return errors.New("earlier hash is required")
	}
	present := promptLine(in, "present hash", "HEAD")
	run.EarlierRev = earlier

	changed, err := gitClient.DiffNames(ctx, cfg.Repo.Path, earlier, present)
	if err != nil {
		finishRun(run, journal.StatusFailed)
		return err
	}
	run.FilesChanged = len(changed)

	if len(changed) == 0 {
		fmt.Println("No changed files found between the specified commits.")
		finishRun(run, journal.StatusNoChanges)
		return nil
	}

	displayChangedFiles(changed)
	if !confirm(in, "Do you want to proceed with creating the upload package?") {
		fmt.Println("Operation cancelled by user.")
		finishRun(run, journal.StatusCancelled)
		return nil
	}

	packer := pack.NewPackager(gitClient)
	manifest, fullHash, err := packer.Pack(ctx, changed, cfg.Repo.Path, present, pack.DefaultStagingDir)
	if err != nil {
		finishRun(run, journal.StatusFailed)
		return err
	}
	run.PackageRev = fullHash
	run.FilesPacked = manifest.Len()

	cfg.Repo.PackageHash = fullHash
	if err := cfg.Save(); err != nil {
		finishRun(run, journal.StatusFailed)
		return fmt.Errorf("update config: %w", err)
	}

	slog.Info("configuration updated", "package_hash", fullHash)
	finishRun(run, journal.StatusOK)
	return nil
}

// runUploader transfers a previously created upload package to the FTP server.
func runUploader(ctx context.Context, in *bufio.Reader, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	manifest, err := pack.LoadManifest(pack.DefaultStagingDir)
	if err != nil {
		return err
	}

	run := newRun("upload", "")
	run.PackageRev = manifest.PackageHash

	if manifest.Len() == 0 {
		fmt.Println("No files to upload.")
		finishRun(run, journal.StatusNoChanges)
		return nil
	}

	fmt.Println("Files to upload:")
	for _, key := range manifest.OrderedKeys() {
		fmt.Printf(" - %s -> %s\n", key, manifest.Files[key])
	}

	question := fmt.Sprintf("Do you want to proceed with uploading %d files?", manifest.Len())
	if !confirm(in, question) {
		fmt.Println("Operation cancelled by user.")
		finishRun(run, journal.StatusCancelled)
		return nil
	}

	uploaded, err := ftpx.NewUploader().Upload(pack.DefaultStagingDir, manifest, uploadOptions(cfg))
	run.FilesUploaded = uploaded
	if err != nil {
		finishRun(run, journal.StatusFailed)
		return err
	}

	finishRun(run, journal.StatusOK)
	return nil
}

// runPipeline packs and uploads in one go, persisting the resolved present
// revision as repo.earlier_hash only after the upload succeeded.
func runPipeline(ctx context.Context, in *bufio.Reader, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Lock(); err != nil {
		return err
	}
	defer cfg.Unlock()

	run := newRun("sync", cfg.Repo.EarlierHash)
	gitClient := git.NewShellClient()

	earlier := promptLine(in, "earlier hash", cfg.Repo.EarlierHash)
	if earlier == "" {
		return errors.New("earlier hash is required")
	}
	present := promptLine(in, "present hash", "HEAD")
	run.EarlierRev = earlier

	changed, err := gitClient.DiffNames(ctx, cfg.Repo.Path, earlier, present)
	if err != nil {
		finishRun(run, journal.StatusFailed)
		return err
	}
	run.FilesChanged = len(changed)

	if len(changed) == 0 {
		fmt.Println("No changed files found between the specified commits.")
		finishRun(run, journal.StatusNoChanges)
		return nil
	}

	displayChangedFiles(changed)
	if !confirm(in, "Do you want to proceed with packing and uploading?") {
		fmt.Println("Operation cancelled by user.")
		finishRun(run, journal.StatusCancelled)
		return nil
	}

	packer := pack.NewPackager(gitClient)
	manifest, fullHash, err := packer.Pack(ctx, changed, cfg.Repo.Path, present, pack.DefaultStagingDir)
	if err != nil {
		finishRun(run, journal.StatusFailed)
		return err
	}
	run.PackageRev = fullHash
	run.FilesPacked = manifest.Len()

	uploaded, err := ftpx.NewUploader().Upload(pack.DefaultStagingDir, manifest, uploadOptions(cfg))
	run.FilesUploaded = uploaded
	if err != nil {
		finishRun(run, journal.StatusFailed)
		return err
	}

	cfg.Repo.EarlierHash = fullHash
	cfg.Repo.PackageHash = fullHash
	if err := cfg.Save(); err != nil {
		finishRun(run, journal.StatusFailed)
		return fmt.Errorf("update config: %w", err)
	}

	finishRun(run, journal.StatusOK)
	return nil
}

func uploadOptions(cfg *config.Config) ftpx.UploadOptions {
	return ftpx.UploadOptions{
		Host:      cfg.FTP.Host,
		Username:  cfg.FTP.Username,
		Password:  cfg.FTP.Password,
		TargetDir: cfg.FTP.TargetDir,
	}
}

func displayChangedFiles(paths []string) {
	fmt.Println("Changed files:")
	for _, path := range paths {
		fmt.Printf(" - %s\n", path)
	}
}

func newRun(action, earlierRev string) *journal.Run {
	return &journal.Run{
		Action:     action,
		StartedAt:  time.Now().UTC(),
		EarlierRev: earlierRev,
	}
}

// finishRun appends the run to the local history journal. Journal problems
// never fail the action itself.
func finishRun(run *journal.Run, status string) {
	run.FinishedAt = time.Now().UTC()
	run.Status = status

	j := journal.New(config.DefaultJournalPath)
	if err := j.Open(); err != nil {
		slog.Warn("journal unavailable", "error", err)
		return
	}
	defer j.Close()

	if err := j.Record(run); err != nil {
		slog.Warn("failed to record run", "error", err)
	}
}
