package restyutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FilesystemOutput keeps one file per dumped exchange, named <id>.txt.
type FilesystemOutput struct {
	dir string
}

// NewFilesystemOutput empties `dir` so it only holds dumps of this run.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	if err := os.RemoveAll(dir); err != nil {
		return FilesystemOutput{}, fmt.Errorf("clear %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return FilesystemOutput{}, fmt.Errorf("create %s: %w", dir, err)
	}
	return FilesystemOutput{dir: dir}, nil
}

func (o FilesystemOutput) Path(id string) string {
	return filepath.Join(o.dir, id+".txt")
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(o.Path(id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write http dump", "path", o.Path(id), "err", err)
	}
}
