package server

import (
	"context"
	"sync"

	"github.com/neuroforge/doc-forge/internal/logger"
)

var logServer = logger.New("server")

// reloadSender delivers one reload notification to a connected client.
type reloadSender interface {
	sendReload(ctx context.Context) error
}

// hub tracks connected live-reload clients.
type hub struct {
	mu      sync.Mutex
	clients map[reloadSender]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[reloadSender]struct{})}
}

func (h *hub) add(c reloadSender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *hub) remove(c reloadSender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast notifies every client. Clients that fail to receive are dropped;
// the browser reconnects on the next page load anyway.
func (h *hub) broadcast(ctx context.Context) int {
	h.mu.Lock()
	clients := make([]reloadSender, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	sent := 0
	for _, c := range clients {
		if err := c.sendReload(ctx); err != nil {
			logServer.Printf("Dropping live-reload client: %v", err)
			h.remove(c)
			continue
		}
		sent++
	}
	return sent
}
