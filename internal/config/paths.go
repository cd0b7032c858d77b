package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved filesystem locations of one run
type Paths struct {
	RepoPath        string
	DailyReportsDir string
	OutputDir       string
	LogsDir         string
	LogFile         string
}

// GetPaths resolves every path of cfg to an absolute path. Relative paths
// are taken from the current working directory.
func GetPaths(cfg *Config) (*Paths, error) {
	repo, err := filepath.Abs(cfg.Dataset.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repo path %s: %w", cfg.Dataset.RepoPath, err)
	}

	outDir := cfg.Chart.OutputDir
	if outDir == "" {
		outDir = "."
	}
	outDir, err = filepath.Abs(outDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory %s: %w", cfg.Chart.OutputDir, err)
	}

	paths := &Paths{
		RepoPath:        repo,
		DailyReportsDir: DailyReportsDir(repo),
		OutputDir:       outDir,
	}

	if cfg.Logging.Output != "console" && cfg.Logging.FilePath != "" {
		logFile, err := filepath.Abs(cfg.Logging.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve log file %s: %w", cfg.Logging.FilePath, err)
		}
		paths.LogFile = logFile
		paths.LogsDir = filepath.Dir(logFile)
	}

	return paths, nil
}

// DailyReportsDir returns the daily report directory inside a dataset clone
func DailyReportsDir(repoPath string) string {
	return filepath.Join(repoPath, filepath.FromSlash(DailyReportsSubdir))
}

// EnsureDirectories creates the output and log directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{p.OutputDir}
	if p.LogsDir != "" {
		directories = append(directories, p.LogsDir)
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetOutputPath returns the path for an output artifact
func (p *Paths) GetOutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// LogPathResolution logs all resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	wd, _ := os.Getwd()
	logger.Debug("Path resolution",
		slog.Group("paths",
			slog.String("repo", p.RepoPath),
			slog.String("daily_reports", p.DailyReportsDir),
			slog.String("output", p.OutputDir),
			slog.String("log_file", p.LogFile),
		),
		slog.String("working_dir", wd),
	)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
