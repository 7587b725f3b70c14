package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/gitship/gitship/internal/config"
	"github.com/gitship/gitship/internal/utils"
	"github.com/gitship/gitship/internal/version"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configFileName = "config"

var rootCmd = &cobra.Command{
	Use:     "gitship",
	Short:   "Sync changed files between two git revisions to a remote server over FTP",
	Version: version.Detailed(),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		showHeader()

		in := bufio.NewReader(os.Stdin)
		configPath, err := resolveConfigPath(cmd, in)
		if err != nil {
			return err
		}

		return runMenu(cmd.Context(), in, configPath)
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultConfigPath, "gitship config file")
}

func main() {
	logFile := config.DefaultLogFilePath
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		os.Exit(1)
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	stdoutHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: "15:04:05",
		NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
	})
	fileHandler := slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	logger := slog.New(utils.NewFanoutHandler(stdoutHandler, fileHandler))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// bindConfig wires the --config flag and GITSHIP env vars into viper so
// subcommands and the menu resolve the same config file.
func bindConfig(cmd *cobra.Command) error {
	if cmd.Flag("config").Changed {
		viper.SetConfigFile(cmd.Flag("config").Value.String())
	} else if envPath := os.Getenv("GITSHIP_CONFIG"); envPath != "" {
		viper.SetConfigFile(envPath)
	} else {
		home, _ := os.UserHomeDir()
		viper.AddConfigPath(filepath.Join(home, ".gitship"))
		viper.AddConfigPath(filepath.Join(home, ".config/gitship"))
		viper.SetConfigName(configFileName)
		viper.SetConfigType("json")
	}

	if err := viper.ReadInConfig(); err != nil {
		enoent := errors.Is(err, os.ErrNotExist)
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !enoent && !notFound {
			return fmt.Errorf("config read '%s': %w", viper.ConfigFileUsed(), err)
		}
	}

	viper.SetEnvPrefix("GITSHIP")
	viper.AutomaticEnv()

	return nil
}

// resolveConfigPath returns the config file to use, prompting for one when
// none was found on disk.
func resolveConfigPath(cmd *cobra.Command, in *bufio.Reader) (string, error) {
	path := viper.ConfigFileUsed()
	if path == "" {
		path = cmd.Flag("config").Value.String()
	}

	if utils.FileExists(path) {
		return path, nil
	}

	path = promptLine(in, "config file", "")
	if path == "" {
		return "", errors.New("no config file given")
	}
	return path, nil
}

func showHeader() {
	color.New(color.FgHiCyan, color.Bold).Printf("%s %s\n", version.AppName, version.Short())
}
