package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	// ErrNotAFile means a path names a directory rather than a file.
	ErrNotAFile = errors.New("path is a directory, not a file")

	// ErrNotSpreadsheet means an upload is not an Office Open XML workbook.
	ErrNotSpreadsheet = errors.New("not an .xlsx workbook")
)

// spreadsheetExtensions are the workbook formats the importer reads.
// Legacy .xls files are binary and cannot be opened.
var spreadsheetExtensions = []string{".xlsx", ".xlsm"}

// zipSignature opens every .xlsx file, which is a zip archive.
var zipSignature = []byte("PK\x03\x04")

// FileValidator checks files handed in by operators and uploads before
// they reach the readers.
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

// ValidateFile checks that path exists, is a regular file and can be opened.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist: %w", path, err)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s: %w", path, ErrNotAFile)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateSpreadsheet checks an uploaded workbook by name and by its first
// bytes. Office lock files ("~$alunos.xlsx") are rejected as well.
func (v *FileValidator) ValidateSpreadsheet(name string, r io.ReaderAt) error {
	base := filepath.Base(name)
	ext := strings.ToLower(filepath.Ext(base))
	if !slices.Contains(spreadsheetExtensions, ext) {
		v.logger.Info("Upload is not an Excel workbook",
			slog.String("file", base),
			slog.String("extension", ext))
		return fmt.Errorf("%w: extension %q", ErrNotSpreadsheet, ext)
	}

	if strings.HasPrefix(base, "~$") {
		v.logger.Info("Upload is a temporary Excel file",
			slog.String("file", base))
		return fmt.Errorf("%w: %s is a temporary Excel file", ErrNotSpreadsheet, base)
	}

	head := make([]byte, len(zipSignature))
	if _, err := r.ReadAt(head, 0); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read %s: %w", base, err)
	}
	if !bytes.Equal(head, zipSignature) {
		v.logger.Info("Upload content is not a workbook",
			slog.String("file", base))
		return fmt.Errorf("%w: %s content is not a zip archive", ErrNotSpreadsheet, base)
	}
	return nil
}
