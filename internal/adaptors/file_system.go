package adaptors

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"link_auditor/internal/pkg/errors"
	"link_auditor/internal/pkg/metrics"

	log "github.com/sirupsen/logrus"
)

// LocalFileSystem reads files below root on the local disk.
type LocalFileSystem struct {
	root string
	log  *log.Logger
}

func NewLocalFileSystem(root string, log *log.Logger) *LocalFileSystem {
	return &LocalFileSystem{
		root: filepath.Clean(root),
		log:  log,
	}
}

func (l *LocalFileSystem) Root() string {
	return l.root
}

func (l *LocalFileSystem) ReadDir(_ context.Context, path string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(l.abs(path))
	if err != nil {
		return nil, errors.Wrap(err, `failed to read directory `+path)
	}
	return entries, nil
}

func (l *LocalFileSystem) Stat(_ context.Context, path string) (fs.FileInfo, error) {
	info, err := os.Stat(l.abs(path))
	if err != nil {
		return nil, errors.Wrap(err, `failed to stat `+path)
	}
	return info, nil
}

// ReadFile reads the whole file, refusing anything larger than limit bytes.
// A limit of zero or less means no ceiling.
func (l *LocalFileSystem) ReadFile(_ context.Context, path string, limit int64) ([]byte, error) {
	f, err := os.Open(l.abs(path))
	if err != nil {
		return nil, errors.Wrap(err, `failed to open file `+path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, `failed to stat file `+path)
	}
	if info.IsDir() {
		return nil, errors.New(path + ` is a directory`)
	}
	if limit > 0 && info.Size() > limit {
		return nil, errors.Wrap(errors.ErrFileTooLarge, path)
	}

	var r io.Reader = f
	if limit > 0 {
		r = io.LimitReader(f, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		l.log.Errorf(`failed to read file %s. error: %v`, path, err)
		return nil, errors.Wrap(err, `failed to read file `+path)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, errors.Wrap(errors.ErrFileTooLarge, path)
	}

	metrics.FilesScannedTotal.Inc()
	return data, nil
}

func (l *LocalFileSystem) abs(path string) string {
	rel := strings.TrimPrefix(filepath.FromSlash(path), string(filepath.Separator))
	if rel == "" || rel == "." {
		return l.root
	}
	return filepath.Join(l.root, rel)
}
