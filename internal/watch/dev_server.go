package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pulse-lang/pulse/internal/compiler/build"
	"github.com/pulse-lang/pulse/internal/compiler/cache"
	"github.com/pulse-lang/pulse/internal/compiler/errors"
)

// DevServer backs `pulse build --watch`: it watches one Pulse source
// file, recompiles it on every save through a build.Driver (cached unless
// NoCache is set), and
// exposes the last result over HTTP (for editor polling) and a
// websocket (for push-based live reload).
type DevServer struct {
	path    string
	port    int
	verbose bool

	driver *build.Driver
	watcher *FileWatcher
	reload  *ReloadServer

	mu        sync.RWMutex
	lastResult *build.Result

	httpServer *http.Server
}

// DevServerConfig configures a DevServer.
type DevServerConfig struct {
	Path    string
	Port    int
	Verbose bool
	NoCache bool
}

// NewDevServer creates a DevServer for the given config. It does not
// start watching or serving until Start is called.
func NewDevServer(config DevServerConfig) (*DevServer, error) {
	var driver *build.Driver
	if config.NoCache {
		driver = build.New()
	} else {
		resultCache, err := cache.NewResultCache(cache.DefaultSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create result cache: %w", err)
		}
		driver = build.NewCached(resultCache)
	}

	ds := &DevServer{
		path:    config.Path,
		port:    config.Port,
		verbose: config.Verbose,
		driver:  driver,
		reload:  NewReloadServer(),
	}

	watcher, err := NewFileWatcher(config.Path, ds.rebuild)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	ds.watcher = watcher

	return ds, nil
}

// Start runs an initial compile, then begins watching path for changes
// and serving the diagnostics HTTP/websocket endpoint.
func (ds *DevServer) Start() error {
	ds.rebuild(ds.path)

	if err := ds.watcher.Start(); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	router := chi.NewRouter()
	router.Get("/health", ds.handleHealth)
	router.Get("/diagnostics", ds.handleDiagnostics)
	router.Get("/ws", ds.reload.HandleWebSocket)

	ds.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", ds.port),
		Handler: router,
	}

	go func() {
		if err := ds.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[watch] http server error: %v", err)
		}
	}()

	if ds.verbose {
		log.Printf("[watch] serving diagnostics on :%d, watching %s", ds.port, ds.path)
	}
	return nil
}

// Stop tears down the watcher, websocket clients and HTTP listener.
func (ds *DevServer) Stop() error {
	if ds.watcher != nil {
		ds.watcher.Stop()
	}
	ds.reload.Close()
	if ds.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return ds.httpServer.Shutdown(ctx)
	}
	return nil
}

// rebuild recompiles path through the driver and pushes the result to
// connected websocket clients. It is the FileWatcher's onChange hook, so
// the caller already guarantees at most one rebuild runs at a time.
func (ds *DevServer) rebuild(path string) error {
	start := time.Now()
	ds.reload.NotifyBuilding(path)

	result, err := ds.driver.CompileFile(path)

	ds.mu.Lock()
	ds.lastResult = result
	ds.mu.Unlock()

	if err != nil {
		ds.reload.NotifyErrors(path, toErrorInfos(result.Diagnostics))
		return err
	}

	if ds.verbose {
		log.Printf("[watch] rebuilt %s in %s", path, time.Since(start))
	}
	ds.reload.NotifySuccess(path, time.Since(start))
	return nil
}

func (ds *DevServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (ds *DevServer) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	ds.mu.RLock()
	result := ds.lastResult
	ds.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if result == nil {
		json.NewEncoder(w).Encode(map[string]any{"diagnostics": []any{}})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"compilation_id": result.CompilationID,
		"file":           result.File,
		"diagnostics":    toErrorInfos(result.Diagnostics),
	})
}

func toErrorInfos(diagnostics []*errors.CompilerError) []*ErrorInfo {
	infos := make([]*ErrorInfo, len(diagnostics))
	for i, d := range diagnostics {
		infos[i] = &ErrorInfo{
			Message:  d.Message,
			File:     d.Location.File,
			Line:     d.Location.Line,
			Column:   d.Location.Column,
			Code:     d.Code,
			Phase:    d.Phase,
			Severity: strings.ToLower(d.Severity.String()),
		}
	}
	return infos
}
