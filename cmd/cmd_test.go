package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"link_auditor/internal/pkg/errors"
	"link_auditor/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// resetFlags points the command globals at a fixture and silences logging.
func resetFlags(t *testing.T, root, out string) {
	t.Helper()
	t.Setenv("APP_LOG_LEVEL", "panic")
	t.Setenv("AUDIT_SCAN_ROOTS", "app,components")
	t.Setenv("AUDIT_NAVIGATION_FILES", "lib/navigation.ts")
	cfgFile = ""
	rulesFile = ""
	rootDir = root
	outDir = out
	t.Cleanup(func() {
		rootDir, outDir, rulesFile = "", "", ""
	})
}

func TestRunAudit(t *testing.T) {
	root := writeSite(t, map[string]string{
		"app/page.tsx":          `<Link href="/about">About</Link>`,
		"app/about/page.tsx":    ``,
		"app/pricing/page.tsx":  ``,
		"components/Footer.tsx": `<a href="/missing">x</a>`,
		"lib/navigation.ts":     `export const nav = [{ label: "Home", href: "/" }]`,
	})
	out := filepath.Join(t.TempDir(), "reports")
	resetFlags(t, root, out)

	a, err := loadApp()
	require.NoError(t, err)

	var stdout bytes.Buffer
	require.NoError(t, runAudit(context.Background(), a, &stdout))

	assert.Contains(t, stdout.String(), "3 routes, 3 links, 1 broken, 1 orphan routes, 0 warnings")
	assert.FileExists(t, filepath.Join(out, report.TextFileName))
	assert.FileExists(t, filepath.Join(out, report.CSVFileName))

	f, err := os.Open(filepath.Join(out, report.CSVFileName))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	var broken, orphans []string
	for _, row := range rows[1:] {
		switch row[0] {
		case "broken":
			broken = append(broken, row[4])
		case "orphan":
			orphans = append(orphans, row[7])
		}
	}
	assert.Equal(t, []string{"/missing"}, broken)
	assert.Equal(t, []string{"/pricing"}, orphans)
}

func TestRunAudit_RulesFile(t *testing.T) {
	root := writeSite(t, map[string]string{
		"app/page.tsx":          `<a href="/pricing">x</a>`,
		"app/pricing/page.tsx":  ``,
		"app/internal/page.tsx": ``,
	})
	rules := filepath.Join(root, "rules.yaml")
	require.NoError(t, os.WriteFile(rules, []byte("denied_prefixes:\n  - /internal\n"), 0o644))

	resetFlags(t, root, filepath.Join(t.TempDir(), "reports"))
	rulesFile = rules

	a, err := loadApp()
	require.NoError(t, err)

	var stdout bytes.Buffer
	require.NoError(t, runAudit(context.Background(), a, &stdout))
	// "/" is the only unreached, non-denied route
	assert.True(t, strings.HasPrefix(stdout.String(), "3 routes, 1 links, 0 broken, 1 orphan routes"), stdout.String())
}

func TestRunAudit_MissingRoutingRoot(t *testing.T) {
	root := writeSite(t, map[string]string{"components/Footer.tsx": `<a href="/">x</a>`})
	out := filepath.Join(t.TempDir(), "reports")
	resetFlags(t, root, out)

	a, err := loadApp()
	require.NoError(t, err)

	err = runAudit(context.Background(), a, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrRoutingRootUnavailable))
	assert.NoDirExists(t, out)
}

func TestLoadApp_InvalidConfig(t *testing.T) {
	resetFlags(t, t.TempDir(), "")
	t.Setenv("AUDIT_WORKERS", "0")

	_, err := loadApp()
	assert.Error(t, err)
}

func TestWatchRoots(t *testing.T) {
	resetFlags(t, "/site", "")
	a, err := loadApp()
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join("/site", "app"),
		filepath.Join("/site", "components"),
		filepath.Join("/site", "lib"),
	}, watchRoots(a))
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"audit", "serve", "watch"} {
		assert.True(t, names[name], name)
	}
	for _, flag := range []string{"config", "rules", "root", "out"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
}
