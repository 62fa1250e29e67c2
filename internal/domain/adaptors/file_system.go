package adaptors

import (
	"context"
	"io/fs"
)

// FileSystem reads a project tree. Paths are slash separated and relative to the project root.
type FileSystem interface {
	ReadDir(ctx context.Context, path string) ([]fs.DirEntry, error)
	Stat(ctx context.Context, path string) (fs.FileInfo, error)
	ReadFile(ctx context.Context, path string, limit int64) ([]byte, error)
}
