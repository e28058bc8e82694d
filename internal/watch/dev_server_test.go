package watch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func freePort(t *testing.T) int {
	t.Helper()
	// Deterministic-enough for tests: pick a high port and let the OS
	// reject it if already bound, rather than reserving one in advance.
	return 18080
}

func TestNewDevServer(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "main.pulse")
	os.WriteFile(path, []byte("fn main() { println(\"hi\"); }"), 0644)

	ds, err := NewDevServer(DevServerConfig{Path: path, Port: freePort(t)})
	if err != nil {
		t.Fatalf("failed to create dev server: %v", err)
	}
	if ds.driver == nil {
		t.Error("expected driver to be initialized")
	}
	if ds.reload == nil {
		t.Error("expected reload server to be initialized")
	}
	if ds.watcher == nil {
		t.Error("expected file watcher to be initialized")
	}
}

func TestDevServerStartServesHealthAndDiagnostics(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "main.pulse")
	os.WriteFile(path, []byte("fn main() { println(\"hi\"); }"), 0644)

	port := freePort(t) + 1
	ds, err := NewDevServer(DevServerConfig{Path: path, Port: port})
	if err != nil {
		t.Fatalf("failed to create dev server: %v", err)
	}
	defer ds.Stop()

	if err := ds.Start(); err != nil {
		t.Fatalf("failed to start dev server: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/health", port))
	if err != nil {
		t.Fatalf("failed to GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	resp, err = http.Get(fmt.Sprintf("http://localhost:%d/diagnostics", port))
	if err != nil {
		t.Fatalf("failed to GET /diagnostics: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode diagnostics response: %v", err)
	}
	if _, ok := body["file"]; !ok {
		t.Error("expected diagnostics response to report the compiled file")
	}
}

func TestDevServerRebuildCachesUnchangedSource(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "main.pulse")
	os.WriteFile(path, []byte("fn main() { println(\"hi\"); }"), 0644)

	ds, err := NewDevServer(DevServerConfig{Path: path, Port: freePort(t) + 2})
	if err != nil {
		t.Fatalf("failed to create dev server: %v", err)
	}

	if err := ds.rebuild(path); err != nil {
		t.Fatalf("first rebuild failed: %v", err)
	}
	first := ds.lastResult

	if err := ds.rebuild(path); err != nil {
		t.Fatalf("second rebuild failed: %v", err)
	}
	second := ds.lastResult

	if first.CPP != second.CPP {
		t.Error("expected identical CPP output across rebuilds of unchanged source")
	}
}
