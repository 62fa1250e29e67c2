package service

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"link_auditor/internal/domain/models"
	"link_auditor/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogBuilder_Build(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app/page.tsx":                          "",
		"app/layout.tsx":                        "",
		"app/about/page.tsx":                    "",
		"app/blog/page.mdx":                     "",
		"app/blog/[slug]/page.tsx":              "",
		"app/docs/[...path]/page.js":            "",
		"app/(marketing)/pricing/page.jsx":      "",
		"app/@modal/login-hint/page.tsx":        "",
		"app/_components/nav/page.tsx":          "",
		"app/node_modules/pkg/page.tsx":         "",
		"app/(.)photo/page.tsx":                 "",
		"app/grouping/nested/page.tsx":          "",
		"app/grouping/README.md":                "",
		"app/[[...optional]]/page.tsx":          "",
		"app/[]/page.tsx":                       "",
		"app/api/contact/route.ts":              "",
		"app/products/[id]/reviews/page.ts":     "",
	})

	builder := NewCatalogBuilder(quietLogger(), newTestFS(root), models.DefaultRules())
	routes, warnings, err := builder.Build(context.Background(), "app")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, []string{
		"/",
		"/[[...optional]]",
		"/[]",
		"/about",
		"/blog",
		"/blog/[slug]",
		"/docs/[...path]",
		"/grouping/nested",
		"/login-hint",
		"/pricing",
		"/products/[id]/reviews",
	}, routePaths(routes))

	byPath := map[string]models.Route{}
	for _, r := range routes {
		byPath[r.Path()] = r
	}

	assert.Equal(t, "app", byPath["/"].Dir)
	assert.Empty(t, byPath["/"].Segments)
	assert.Equal(t, "app/(marketing)/pricing", byPath["/pricing"].Dir)

	slug := byPath["/blog/[slug]"].Segments[1]
	assert.True(t, slug.IsParameter)
	assert.False(t, slug.IsCatchAll)

	catchAll := byPath["/docs/[...path]"].Segments[1]
	assert.True(t, catchAll.IsParameter)
	assert.True(t, catchAll.IsCatchAll)

	assert.False(t, byPath["/[[...optional]]"].Segments[0].IsParameter)
	assert.False(t, byPath["/[]"].Segments[0].IsParameter)
}

func TestCatalogBuilder_OneRoutePerMarkerDirectory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app/about/page.tsx": "",
		"app/about/page.mdx": "",
		"app/team/":          "",
	})

	builder := NewCatalogBuilder(quietLogger(), newTestFS(root), models.DefaultRules())
	routes, _, err := builder.Build(context.Background(), "app")
	require.NoError(t, err)

	assert.Equal(t, []string{"/about"}, routePaths(routes))
}

func TestCatalogBuilder_MissingRoot(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"app": "not a directory"})
	builder := NewCatalogBuilder(quietLogger(), newTestFS(root), models.DefaultRules())

	_, _, err := builder.Build(context.Background(), "missing")
	assert.True(t, errors.Is(err, errors.ErrRoutingRootUnavailable))

	_, _, err = builder.Build(context.Background(), "app")
	assert.True(t, errors.Is(err, errors.ErrRoutingRootUnavailable))
}

func TestCatalogBuilder_UnreadableSubdirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced")
	}

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app/page.tsx":        "",
		"app/secret/page.tsx": "",
	})
	locked := filepath.Join(root, "app", "secret")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	builder := NewCatalogBuilder(quietLogger(), newTestFS(root), models.DefaultRules())
	routes, warnings, err := builder.Build(context.Background(), "app")
	require.NoError(t, err)

	assert.Equal(t, []string{"/"}, routePaths(routes))
	require.Len(t, warnings, 1)
	assert.Equal(t, models.WarningUnreadableDir, warnings[0].Kind)
	assert.Equal(t, "app/secret", warnings[0].Path)
}
