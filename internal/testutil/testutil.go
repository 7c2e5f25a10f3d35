// Package testutil provides shared test helpers for creating config files and serving dictionary pages.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupTestConfig creates a config file pointing the page source at baseURL and the snapshots at
// tmpDir/snapshots. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string, baseURL string) string {
	t.Helper()

	snapshotsDir := filepath.Join(tmpDir, "snapshots")
	require.NoError(t, os.MkdirAll(snapshotsDir, 0755))

	configContent := fmt.Sprintf(`source:
  base_url: %s
  user_agent: kanjidex-test
  timeout_seconds: 5
  retry_attempts: 0
snapshots:
  directory: %s
output:
  format: text
`,
		baseURL,
		snapshotsDir,
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// Page is a page served by NewPageServer.
type Page struct {
	Kind  string
	Query string
	Body  string
}

// NewPageServer starts a server that answers /search/<query> #<kind> with the matching page and
// 404 for anything else. The returned base URL ends with /search.
func NewPageServer(t *testing.T, pages ...Page) (*httptest.Server, string) {
	t.Helper()

	bodies := make(map[string]string, len(pages))
	for _, page := range pages {
		bodies["/search/"+page.Query+" #"+page.Kind] = page.Body
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, strings.TrimSuffix(server.URL, "/") + "/search"
}

// ReadFixture reads a file relative to the calling test's package directory.
func ReadFixture(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(filepath.FromSlash(path))
	require.NoError(t, err)
	return string(content)
}
