package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"sourcebook/internal/logging"
)

// supported plain-text extensions for file ingestion
var textExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
}

// ReadFile reads a local plain-text file for ingestion and returns a title
// derived from the filename plus the file contents. Binary and unsupported
// formats are rejected up front.
func ReadFile(path string) (title, text string, err error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !textExtensions[ext] {
		return "", "", fmt.Errorf("unsupported file type %q (plain text only)", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read file: %w", err)
	}
	if !utf8.Valid(data) {
		return "", "", fmt.Errorf("file %s is not valid UTF-8 text", path)
	}

	text = strings.TrimSpace(string(data))
	if text == "" {
		return "", "", fmt.Errorf("file %s is empty", path)
	}

	title = strings.TrimSuffix(filepath.Base(path), ext)
	logging.Ingest("Read file %s (%d chars)", path, len(text))
	return title, text, nil
}
