// Package mcp exposes an agency as a Model Context Protocol server, so
// MCP clients can drive conversations as tool calls.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/convoy"
	"github.com/aretw0/convoy/pkg/domain"
	"github.com/aretw0/convoy/pkg/ports"
	"github.com/aretw0/convoy/pkg/session"
)

// ConverseResponse is the structured result of the converse tool.
type ConverseResponse struct {
	SessionID string            `json:"session_id" jsonschema_description:"The conversation this turn belongs to"`
	Status    domain.TurnStatus `json:"status" jsonschema_description:"completed or aborted"`
	Reply     string            `json:"reply" jsonschema_description:"The final answer of the turn"`
	Steps     int               `json:"steps" jsonschema_description:"Routing transitions performed"`
	Messages  []domain.Message  `json:"messages" jsonschema_description:"Messages appended during the turn"`
}

// Server wraps an agency and its sessions as an MCP server.
type Server struct {
	engine    ports.TurnEngine
	sessions  *session.Manager
	agency    *convoy.Agency
	mcpServer *server.MCPServer
}

// NewServer builds the MCP surface over a turn engine.
func NewServer(engine ports.TurnEngine, sessions *session.Manager, agency *convoy.Agency) *Server {
	s := &Server{
		engine:    engine,
		sessions:  sessions,
		agency:    agency,
		mcpServer: server.NewMCPServer("convoy-mcp", strings.TrimSpace(convoy.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE transport.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer,
		server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	converseTool := mcp.NewTool("converse",
		mcp.WithDescription("Send one input to the agency and receive the completed turn. Conversation history accumulates per session_id."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation identifier; reuse it for follow-up turns")),
		mcp.WithString("input", mcp.Required(), mcp.Description("The user message for this turn")),
		mcp.WithOutputSchema[ConverseResponse](),
	)
	s.mcpServer.AddTool(converseTool, mcp.NewStructuredToolHandler(s.handleConverse))

	resetTool := mcp.NewTool("reset_session",
		mcp.WithDescription("Delete a session's conversation history."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation identifier to reset")),
	)
	s.mcpServer.AddTool(resetTool, s.handleReset)

	s.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List known session identifiers."),
	), s.handleListSessions)
}

func (s *Server) handleConverse(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ConverseResponse, error) {
	sessionID, _ := args["session_id"].(string)
	input, _ := args["input"].(string)
	if strings.TrimSpace(sessionID) == "" {
		return ConverseResponse{}, fmt.Errorf("session_id is required")
	}
	if strings.TrimSpace(input) == "" {
		return ConverseResponse{}, fmt.Errorf("input is required")
	}

	report, err := s.engine.Turn(ctx, sessionID, input)
	if report == nil {
		return ConverseResponse{}, fmt.Errorf("turn failed: %w", err)
	}

	resp := ConverseResponse{
		SessionID: report.SessionID,
		Status:    report.Status,
		Steps:     report.Steps,
		Messages:  report.NewMessages,
	}
	if reply, ok := report.Reply(); ok {
		resp.Reply = reply.Content
	}
	return resp, nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reset failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("session %s reset", sessionID)), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.sessions.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	raw, _ := json.Marshal(map[string][]string{"sessions": ids})
	return mcp.NewToolResultText(string(raw)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("convoy://roster", "Agency Roster",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		raw, err := json.Marshal(viewTeam(s.agency.Definition()))
		if err != nil {
			return nil, fmt.Errorf("marshal roster: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "convoy://roster",
				MIMEType: "application/json",
				Text:     string(raw),
			},
		}, nil
	})
}
