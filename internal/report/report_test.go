package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"link_auditor/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *models.AuditResult {
	about := models.Route{Segments: []models.Segment{{Literal: "about"}}, Dir: "app/about"}
	tool := models.Route{Segments: []models.Segment{{Literal: "internal-tool"}}, Dir: "app/internal-tool"}

	return &models.AuditResult{
		RoutingRoot: "app",
		Routes:      []models.Route{about, tool},
		Navigation: []models.NavEntry{
			{Label: "About", Target: "/about", SourceFile: "lib/navigation.ts", Line: 2, Status: models.LinkStatusOK, Route: &about},
			{Label: "", Target: "/careers", SourceFile: "lib/navigation.ts", Line: 3, Status: models.LinkStatusBroken},
		},
		Links: []models.ClassifiedLink{
			{
				Record:    models.LinkRecord{SourceFile: "app/page.tsx", Line: 1, RawText: "/about/"},
				Canonical: &models.CanonicalLink{Path: "/about"},
				Result:    models.MatchResult{Status: models.LinkStatusOK, Route: &about},
			},
			{
				Record:    models.LinkRecord{SourceFile: "app/page.tsx", Line: 4, RawText: "/careers"},
				Canonical: &models.CanonicalLink{Path: "/careers"},
				Result:    models.MatchResult{Status: models.LinkStatusBroken},
			},
			{
				Record: models.LinkRecord{SourceFile: "components/Footer.tsx", Line: 2, RawText: "/admin/users"},
				Result: models.MatchResult{Status: models.LinkStatusDiscarded},
			},
		},
		BrokenLinks: []models.BrokenLink{
			{Record: models.LinkRecord{SourceFile: "app/page.tsx", Line: 4, RawText: "/careers"}, Target: "/careers", Reason: "no route matches /careers"},
		},
		OrphanRoutes: []models.Route{tool},
		Warnings: []models.Warning{
			{Kind: models.WarningMissingScanRoot, Path: "data", Message: "scan root does not exist"},
		},
		Summary: models.SummaryCounts{
			Routes: 2, StaticRoutes: 2, FilesScanned: 2, LinksFound: 3, LinksOK: 1, LinksBroken: 1,
			LinksDiscarded: 1, UniqueTargets: 2, ReachedRoutes: 1, OrphanRoutes: 1, NavigationEntries: 2, Warnings: 1,
		},
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleResult(), 50))
	out := buf.String()

	assert.Contains(t, out, "Routing root:  app")
	assert.Contains(t, out, "Links (showing 3 of 3)")
	assert.Contains(t, out, "Broken links (1)")
	assert.Contains(t, out, "no route matches /careers")
	assert.Contains(t, out, "Orphan routes (1)")
	assert.Contains(t, out, "/internal-tool")
	assert.Contains(t, out, "Warnings (1)")

	lines := strings.Split(out, "\n")
	var careers string
	for _, line := range lines {
		if strings.Contains(line, "/careers") && strings.Contains(line, "lib/navigation.ts:3") {
			careers = line
		}
	}
	require.NotEmpty(t, careers)
	assert.Contains(t, careers, " no ")
	assert.Contains(t, careers, " - ")
}

func TestWriteText_Sample(t *testing.T) {
	tests := []struct {
		name   string
		sample int
		header string
	}{
		{name: "limited", sample: 1, header: "Links (showing 1 of 3)"},
		{name: "zero", sample: 0, header: "Links (showing 0 of 3)"},
		{name: "larger than links", sample: 10, header: "Links (showing 3 of 3)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteText(&buf, sampleResult(), tt.sample))
			assert.Contains(t, buf.String(), tt.header)
			// broken links are never sampled
			assert.Contains(t, buf.String(), "Broken links (1)")
		})
	}
}

func TestWriteText_OmitsEmptyWarnings(t *testing.T) {
	result := sampleResult()
	result.Warnings = nil

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, result, 50))
	assert.NotContains(t, buf.String(), "Warnings (")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResult()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+2+3+1+1+1)

	assert.Equal(t, []string{"record", "source", "line", "label", "raw", "target", "status", "route", "detail"}, rows[0])
	assert.Equal(t, []string{"navigation", "lib/navigation.ts", "2", "About", "/about", "", "ok", "/about", "yes"}, rows[1])
	assert.Equal(t, []string{"link", "components/Footer.tsx", "2", "", "/admin/users", "-", "discarded", "", ""}, rows[5])
	assert.Equal(t, []string{"broken", "app/page.tsx", "4", "", "/careers", "/careers", "broken", "", "no route matches /careers"}, rows[6])
	assert.Equal(t, []string{"orphan", "app/internal-tool", "", "", "", "", "", "/internal-tool", ""}, rows[7])
	assert.Equal(t, "warning", rows[8][0])
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	paths, err := WriteFiles(dir, sampleResult(), 50)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, TextFileName), filepath.Join(dir, CSVFileName)}, paths)

	for _, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}
}
