// Package server runs the documentation preview server: a static file server
// over the build output, a websocket live-reload channel and a filesystem
// watcher that rebuilds on every source change.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/fsnotify/fsnotify"

	"github.com/neuroforge/doc-forge/internal/builder"
	"github.com/neuroforge/doc-forge/internal/config"
	"github.com/neuroforge/doc-forge/internal/workspace"
)

// debounceWindow batches filesystem events into one rebuild. Editors fire
// several events per save.
const debounceWindow = 250 * time.Millisecond

// Server serves built documentation with live reload.
type Server struct {
	ws  *workspace.Workspace
	cfg *config.Config
	b   *builder.Builder
	hub *hub

	// Logf replaces the default stderr progress output in tests.
	Logf func(format string, args ...interface{})
}

func New(ws *workspace.Workspace, cfg *config.Config) *Server {
	b := builder.New(ws, cfg)
	b.LiveReload = true
	return &Server{
		ws:  ws,
		cfg: cfg,
		b:   b,
		hub: newHub(),
		Logf: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},
	}
}

// Run builds the docs, then serves them on the configured port until ctx is
// canceled.
func (s *Server) Run(ctx context.Context) error {
	result, err := s.b.Build()
	if err != nil {
		return err
	}
	s.Logf("Initial build: %s", result.Summary())

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()
	if err := s.watchDocsTree(watcher); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.b.OutputDir())))
	mux.HandleFunc("/livereload", s.handleLiveReload)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Serve.Port),
		Handler: mux,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}
	s.Logf("Serving documentation at http://localhost:%d/", s.cfg.Serve.Port)

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	go s.watchLoop(ctx, watcher)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// watchDocsTree registers the docs directory and every non-underscore
// subdirectory with the watcher. fsnotify watches are not recursive.
func (s *Server) watchDocsTree(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(s.ws.DocsDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if strings.HasPrefix(entry.Name(), "_") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// watchLoop debounces filesystem events into rebuilds and notifies clients.
func (s *Server) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if s.ignoreEvent(event) {
				continue
			}
			logServer.Printf("Change detected: %s %s", event.Op, event.Name)
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() &&
					!strings.HasPrefix(filepath.Base(event.Name), "_") {
					_ = watcher.Add(event.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logServer.Printf("Watcher error: %v", err)
		case <-timerC:
			timer = nil
			timerC = nil
			s.rebuild(ctx)
		}
	}
}

// ignoreEvent filters events from the build output and hidden files.
func (s *Server) ignoreEvent(event fsnotify.Event) bool {
	rel, err := filepath.Rel(s.ws.DocsDir, event.Name)
	if err != nil {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, "_") || strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

func (s *Server) rebuild(ctx context.Context) {
	result, err := s.b.Build()
	if err != nil {
		s.Logf("Rebuild failed: %v", err)
		return
	}
	n := s.hub.broadcast(ctx)
	s.Logf("Rebuilt: %s (%d clients notified)", result.Summary(), n)
}

// wsClient adapts a websocket connection to the hub.
type wsClient struct {
	conn *websocket.Conn
}

func (c *wsClient) sendReload(ctx context.Context) error {
	writeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.conn.Write(writeCtx, websocket.MessageText, []byte("reload"))
}

// handleLiveReload upgrades the connection and parks it until the client
// disconnects. The client never sends meaningful data; the read loop exists
// to notice the close.
func (s *Server) handleLiveReload(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		logServer.Printf("Websocket accept failed: %v", err)
		return
	}

	client := &wsClient{conn: conn}
	s.hub.add(client)
	logServer.Printf("Live-reload client connected (%d total)", s.hub.count())

	defer func() {
		s.hub.remove(client)
		conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		if _, _, err := conn.Read(r.Context()); err != nil {
			return
		}
	}
}
