package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileWriter writes artifacts as files below a root directory.
type FileWriter struct {
	dir string
}

// NewFileWriter creates a file sink rooted at dir.
func NewFileWriter(dir string) *FileWriter {
	if dir == "" {
		dir = "."
	}
	return &FileWriter{dir: dir}
}

// Write creates or truncates dir/name, creating parent directories as needed.
func (f *FileWriter) Write(_ context.Context, name, content string) error {
	if !filepath.IsLocal(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	path := filepath.Join(f.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// Close is a no-op.
func (f *FileWriter) Close() error {
	return nil
}
