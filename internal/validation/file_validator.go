package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "covidcli/internal/errors"
)

// FileValidator checks the dataset and output locations before a run
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateDatasetDirectory checks that dir exists, is a directory and holds
// at least one file matching pattern. An empty dataset is a not_found error
// since no date can be selected from it.
func (v *FileValidator) ValidateDatasetDirectory(dir string, pattern string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Dataset directory does not exist",
			slog.String("directory", dir))
		return apperrors.NewIOError(apperrors.StageSelect,
			fmt.Sprintf("dataset directory %s does not exist", dir), err)
	}
	if err != nil {
		v.logger.Error("Failed to stat dataset directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewIOError(apperrors.StageSelect,
			fmt.Sprintf("failed to stat directory %s", dir), err)
	}
	if !info.IsDir() {
		v.logger.Error("Dataset path is not a directory",
			slog.String("path", dir))
		return apperrors.NewIOError(apperrors.StageSelect,
			fmt.Sprintf("%s is not a directory", dir), nil)
	}

	if pattern == "" {
		return nil
	}

	count, err := v.CountFiles(dir, pattern)
	if err != nil {
		return err
	}
	if count == 0 {
		v.logger.Warn("No files matching pattern found",
			slog.String("directory", dir),
			slog.String("pattern", pattern))
		return apperrors.New(apperrors.KindNotFound, apperrors.StageSelect,
			fmt.Sprintf("no daily reports matching %s in %s", pattern, dir), nil)
	}

	v.logger.Debug("Dataset directory validated",
		slog.String("directory", dir),
		slog.Int("files_found", count),
		slog.String("pattern", pattern))
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewIOError(apperrors.StageRender,
			fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewIOError(apperrors.StageRender,
			fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// CountFiles counts regular files matching a pattern in a directory
func (v *FileValidator) CountFiles(dir string, pattern string) (int, error) {
	fullPattern := filepath.Join(dir, pattern)
	matches, err := filepath.Glob(fullPattern)
	if err != nil {
		v.logger.Error("Failed to count files",
			slog.String("pattern", fullPattern),
			slog.String("error", err.Error()))
		return 0, apperrors.NewInvalidInput(apperrors.StageSelect,
			fmt.Sprintf("bad file pattern %q: %v", pattern, err))
	}

	fileCount := 0
	for _, match := range matches {
		info, err := os.Stat(match)
		if err == nil && !info.IsDir() {
			fileCount++
		}
	}
	return fileCount, nil
}
