// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/ThinkInAIXYZ/go-mcp/server"
	"github.com/sirupsen/logrus"

	"mcp-ibd-journal/internal/models"
	"mcp-ibd-journal/internal/store"
)

type Config struct {
	Transport string
	Host      string
	Port      int
	DBPath    string
	Profile   models.UserDietaryProfile
}

// JournalServer exposes the journal tools over HTTP. It owns the canonical
// in-memory entry collection for the session; every mutation replaces the
// whole collection and flushes it to the store.
type JournalServer struct {
	server         *server.Server
	httpServer     *http.Server
	store          *store.Store
	samplingClient *SamplingClient
	config         *Config
	log            *logrus.Logger

	mu      sync.Mutex
	entries []models.JournalEntry
}

func NewJournalServer(cfg *Config, log *logrus.Logger) (*JournalServer, error) {
	st, err := store.Open(cfg.DBPath, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	journalServer := &JournalServer{
		store:          st,
		samplingClient: NewSamplingClient(),
		config:         cfg,
		log:            log,
		entries:        st.Load(),
	}

	mux := http.NewServeMux()

	// Create MCP server (without transport, we'll handle HTTP manually)
	mcpServer, err := server.NewServer(
		nil,
		server.WithServerInfo(protocol.Implementation{
			Name:    "ibd-journal",
			Version: "1.0.0",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP server: %w", err)
	}

	journalServer.server = mcpServer

	if err := journalServer.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	mux.HandleFunc("/", journalServer.handleHTTP)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	journalServer.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	return journalServer, nil
}

func (s *JournalServer) handleHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if r.Method == http.MethodOptions {
		return
	}

	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	var result *protocol.CallToolResult
	var err error

	switch request.Name {
	case "log_entry":
		result, err = s.handleLogEntry(r.Context(), &request)
	case "attach_image":
		result, err = s.handleAttachImage(r.Context(), &request)
	case "get_entries":
		result, err = s.handleGetEntries(&request)
	case "get_dashboard":
		result, err = s.handleGetDashboard(&request)
	case "get_diet_insights":
		result, err = s.handleGetDietInsights(&request)
	case "get_streak":
		result, err = s.handleGetStreak(&request)
	case "analyze_trends":
		result, err = s.handleAnalyzeTrends(r.Context(), &request)
	case "scan_menu":
		result, err = s.handleScanMenu(r.Context(), &request)
	case "scan_ingredients":
		result, err = s.handleScanIngredients(r.Context(), &request)
	default:
		http.Error(w, fmt.Sprintf("Unknown tool: %s", request.Name), http.StatusNotFound)
		return
	}

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.log.WithError(err).Error("failed to encode response")
	}
}

// snapshot returns the current collection. Callers treat it as read-only.
func (s *JournalServer) snapshot() []models.JournalEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries
}

// mutate swaps the collection for the one produced by f and flushes it to
// the store. The swap is atomic: f runs under the lock against the latest
// collection.
func (s *JournalServer) mutate(f func([]models.JournalEntry) ([]models.JournalEntry, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := f(s.entries)
	if err != nil {
		return err
	}
	s.entries = next
	s.store.Save(next)
	return nil
}

func (s *JournalServer) Start(ctx context.Context) error {
	s.log.WithField("addr", s.httpServer.Addr).Info("starting IBD journal server")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *JournalServer) Stop() error {
	if s.store != nil {
		s.store.Close()
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(context.Background())
	}
	return nil
}

func (s *JournalServer) createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
