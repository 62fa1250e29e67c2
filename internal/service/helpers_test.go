package service

import (
	"os"
	"path/filepath"
	"testing"

	"link_auditor/internal/adaptors"
	"link_auditor/internal/domain/models"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// writeTree creates files below root; a path ending in "/" creates an empty directory.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if rel[len(rel)-1] == '/' {
			require.NoError(t, os.MkdirAll(p, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func newTestFS(root string) *adaptors.LocalFileSystem {
	return adaptors.NewLocalFileSystem(root, quietLogger())
}

func quietLogger() *log.Logger {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	return logger
}

func routePaths(routes []models.Route) []string {
	out := make([]string, 0, len(routes))
	for _, r := range routes {
		out = append(out, r.Path())
	}
	return out
}

func route(segments ...string) models.Route {
	r := models.Route{Dir: "app"}
	for _, s := range segments {
		r.Segments = append(r.Segments, models.ParseSegment(s))
		r.Dir += "/" + s
	}
	return r
}
