package pack

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gitship/gitship/internal/utils"
	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFileName is the optional rules file at the repo root. Changed paths
// matching its gitignore-style patterns are not packed.
const IgnoreFileName = ".shipignore"

var defaultIgnoreLines = []string{
	IgnoreFileName,
}

type IgnoreList struct {
	repoPath string
	ignore   *gitignore.GitIgnore
}

func NewIgnoreList(repoPath string) *IgnoreList {
	return &IgnoreList{repoPath: repoPath}
}

func (l *IgnoreList) Load() {
	ignorePath := filepath.Join(l.repoPath, IgnoreFileName)
	ignoreLines := defaultIgnoreLines

	if utils.FileExists(ignorePath) {
		rules := 0
		file, err := os.Open(ignorePath)
		if err != nil {
			slog.Warn("failed to open ignore file", "path", ignorePath, "error", err)
		} else {
			defer file.Close()

			scanner := bufio.NewScanner(file)
			for scanner.Scan() {
				line := scanner.Text()
				if line != "" {
					ignoreLines = append(ignoreLines, line)
					rules++
				}
			}

			if err := scanner.Err(); err != nil {
				slog.Warn("error reading ignore file", "path", ignorePath, "error", err)
			} else {
				slog.Debug("loaded ignore file", "path", ignorePath, "rules", rules)
			}
		}
	}

	l.ignore = gitignore.CompileIgnoreLines(ignoreLines...)
}

func (l *IgnoreList) ShouldIgnore(path string) bool {
	if l.ignore == nil {
		l.Load()
	}
	return l.ignore.MatchesPath(path)
}
