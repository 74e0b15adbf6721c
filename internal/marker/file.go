package marker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// FileStore keeps the marker in a small text file. The value is the first
// non-empty, non-comment line; lines starting with '#' are ignored so the
// file can carry an explanatory header.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed marker store. The file is created on
// first Write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Read(_ context.Context) (string, bool, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("open marker file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, true, nil
	}
	if err := scanner.Err(); err != nil {
		return "", false, fmt.Errorf("read marker file: %w", err)
	}
	return "", false, nil
}

func (s *FileStore) Write(_ context.Context, value string) error {
	// Write-then-rename so a crash mid-write cannot leave a torn marker.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value+"\n"), 0o644); err != nil {
		return fmt.Errorf("write marker file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace marker file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() {}
