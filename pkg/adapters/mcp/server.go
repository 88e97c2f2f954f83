package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/branchmap"
	"github.com/aretw0/branchmap/internal/presentation/report"
	"github.com/aretw0/branchmap/pkg/config"
	"github.com/aretw0/branchmap/pkg/domain"
	"github.com/aretw0/branchmap/pkg/ports"
)

// Analyzer defines the interface required by the MCP server.
type Analyzer interface {
	AnalyzeSource(filename string, src []byte, function string) (*domain.Result, error)
	AnalyzeFrom(ctx context.Context, loader ports.WorkflowLoader, function string) (*domain.Result, error)
	Config() config.Config
}

// WorkflowList is the structured output of list_workflows.
type WorkflowList struct {
	Workflows []string `json:"workflows" jsonschema_description:"Names of the workflows available to analyze_workflow"`
}

// Server wraps the Analyzer and exposes it as an MCP Server.
type Server struct {
	analyzer  Analyzer
	loader    ports.WorkflowLoader
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. loader may be nil, in which
// case only inline sources can be analyzed.
func NewServer(analyzer Analyzer, loader ports.WorkflowLoader) *Server {
	s := &Server{
		analyzer:  analyzer,
		loader:    loader,
		mcpServer: server.NewMCPServer("branchmap-mcp", strings.TrimSpace(branchmap.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: analyze_workflow
	analyzeTool := mcp.NewTool("analyze_workflow",
		mcp.WithDescription("Statically enumerate every execution path of a workflow and render it as a Mermaid flowchart. "+
			"Pass inline Go or YAML element source, or the name of a workflow served by this server."),
		mcp.WithString("source", mcp.Description("Inline workflow source (optional when 'workflow' names a served workflow)")),
		mcp.WithString("filename", mcp.Description("File name selecting the front end: .go (default), .yaml or .yml")),
		mcp.WithString("workflow", mcp.Description("Workflow function or document name (optional: first workflow found)")),
		mcp.WithBoolean("compact", mcp.Description("Render the compact diagram instead of the full one")),
		mcp.WithOutputSchema[report.Summary](),
	)
	s.mcpServer.AddTool(analyzeTool, mcp.NewStructuredToolHandler(s.handleAnalyze))

	// TOOL: list_workflows
	if s.loader != nil {
		listTool := mcp.NewTool("list_workflows",
			mcp.WithDescription("List the workflows served by this server."),
			mcp.WithOutputSchema[WorkflowList](),
		)
		s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleList))
	}
}

func (s *Server) handleAnalyze(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (report.Summary, error) {
	source, _ := args["source"].(string)
	filename, _ := args["filename"].(string)
	workflow, _ := args["workflow"].(string)

	cfg := s.analyzer.Config()
	if compact, ok := args["compact"].(bool); ok {
		cfg.Compact = compact
	}

	var (
		result *domain.Result
		err    error
	)
	switch {
	case source != "":
		if filename == "" {
			filename = "workflow.go"
		}
		result, err = s.analyzer.AnalyzeSource(filename, []byte(source), workflow)
	case s.loader != nil:
		result, err = s.analyzer.AnalyzeFrom(ctx, s.loader, workflow)
	default:
		return report.Summary{}, fmt.Errorf("source is required: this server has no workflow directory")
	}
	if err != nil {
		slog.Debug("MCP analyze_workflow rejected", "error", err)
		return report.Summary{}, fmt.Errorf("analysis failed: %w", err)
	}
	return report.NewSummary(result, cfg, false), nil
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (WorkflowList, error) {
	names, err := s.loader.ListWorkflows(ctx)
	if err != nil {
		return WorkflowList{}, fmt.Errorf("list failed: %w", err)
	}
	return WorkflowList{Workflows: names}, nil
}

func (s *Server) registerResources() {
	if s.loader == nil {
		return
	}
	// EXPOSE: branchmap://workflows
	s.mcpServer.AddResource(mcp.NewResource("branchmap://workflows", "Served Workflows",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.loader.ListWorkflows(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list workflows: %w", err)
		}
		jsonBytes, _ := json.Marshal(WorkflowList{Workflows: names})

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "branchmap://workflows",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
