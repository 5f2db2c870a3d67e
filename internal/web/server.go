// Package web serves the browser dashboard: an HTML page plus an SSE stream
// of published snapshots.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/cryptofolio/cryptofolio/internal/domain"
	"github.com/cryptofolio/cryptofolio/internal/services/refresh"
)

const heartbeatInterval = 30 * time.Second

// snapshotSource is the orchestrator surface the server consumes. The server
// is a pure observer: it never writes refresh state.
type snapshotSource interface {
	State() refresh.State
	Subscribe() (<-chan domain.Snapshot, func())
}

// Server exposes HTTP endpoints serving the HTML UI and an SSE stream.
type Server struct {
	Addr      string
	Snapshots snapshotSource
}

// NewServer creates a new web server instance.
func NewServer(addr string, snapshots snapshotSource) *Server {
	return &Server{Addr: addr, Snapshots: snapshots}
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/stream", s.handleSnapshotStream)

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handleSnapshotStream(w http.ResponseWriter, r *http.Request) {
	if s.Snapshots == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "snapshot source not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// send a comment heartbeat every 30s so proxies keep connection
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	snapshots, cancel := s.Snapshots.Subscribe()
	defer cancel()

	sendSnapshot := func(snap domain.Snapshot) error {
		payload, err := json.Marshal(snapshotEvent(snap))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "event: snapshot\n")
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
		return nil
	}

	// replay the latest published snapshot so a fresh page is not empty
	// until the next refresh cycle
	if st := s.Snapshots.State(); st.LastSnapshot != nil {
		if err := sendSnapshot(*st.LastSnapshot); err != nil {
			log.Printf("snapshot stream initial send: %v", err)
			return
		}
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			if err := sendSnapshot(snap); err != nil {
				log.Printf("snapshot stream send err: %v", err)
				return
			}
		}
	}
}

// streamPayload is the wire shape of one SSE snapshot event.
type streamPayload struct {
	Portfolio    domain.PortfolioSnapshot   `json:"portfolio"`
	Live         domain.LiveStats           `json:"live"`
	Daily        domain.DailyDelta          `json:"daily"`
	History      []domain.HistoryPoint      `json:"history"`
	Transactions []domain.TransactionRecord `json:"transactions"`
	FetchedAt    time.Time                  `json:"fetched_at"`
}

func snapshotEvent(snap domain.Snapshot) streamPayload {
	return streamPayload{
		Portfolio:    snap.Portfolio,
		Live:         snap.Live,
		Daily:        snap.Daily,
		History:      snap.History,
		Transactions: snap.Transactions,
		FetchedAt:    snap.FetchedAt,
	}
}
