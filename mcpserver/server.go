package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/healthdesk/medassist/chat"
	"github.com/healthdesk/medassist/knowledge"
	"github.com/healthdesk/medassist/report"
	"github.com/healthdesk/medassist/schema"
)

// Package mcpserver exposes the assistant over the Model Context
// Protocol so IDEs and desktop agents can call it as tools instead of
// going through the HTTP API. The tools delegate to the same services
// the HTTP handlers use.

const Version = "1.0.0"

// Server wraps an MCP server with the assistant's tool set registered.
type Server struct {
	mcp *server.MCPServer
}

// New registers the chat, knowledge search and report analysis tools.
func New(name string, chatSvc *chat.Service, reportSvc *report.Service, kb *knowledge.Base) *Server {
	s := server.NewMCPServer(
		name,
		Version,
		server.WithInstructions("Medical information assistant: conversational triage, knowledge base search and lab report explanation. Not a diagnostic tool."),
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewToolWithRawSchema("medical-chat", "Send a patient message to the assistant and receive a triaged reply with extracted patient context", chatSchema()),
		handleChat(chatSvc),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("search-knowledge", "Semantic search over the medical reference knowledge base", searchSchema()),
		handleSearch(kb),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("analyze-report", "Extract findings from a lab report text and explain them grounded in the knowledge base", analyzeSchema()),
		handleAnalyze(reportSvc),
	)

	return &Server{mcp: s}
}

// Serve blocks reading MCP requests from stdin until ctx is canceled
// or the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}

func chatSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"message": {
				"type": "string",
				"description": "The patient's message"
			},
			"session_id": {
				"type": "string",
				"description": "Conversation to continue; omit to start a new one"
			}
		},
		"required": ["message"]
	}`)
}

func searchSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {
				"type": "string",
				"description": "Natural language search query"
			},
			"top_k": {
				"type": "integer",
				"description": "Number of passages to return (default 3)"
			}
		},
		"required": ["query"]
	}`)
}

func analyzeSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"report": {
				"type": "string",
				"description": "Raw lab report text, one finding per line"
			},
			"age": {
				"type": "integer",
				"description": "Patient age; defaults to 50 when omitted"
			},
			"literacy": {
				"type": "string",
				"enum": ["low", "medium", "high"],
				"description": "How technical the explanation should be"
			}
		},
		"required": ["report"]
	}`)
}

func handleChat(svc *chat.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message := request.GetString("message", "")
		if message == "" {
			return mcp.NewToolResultError("message is required"), nil
		}
		reply, err := svc.Chat(ctx, request.GetString("session_id", ""), message)
		if err != nil {
			return nil, fmt.Errorf("chat failed, err: %w", err)
		}
		return jsonResult(reply)
	}
}

func handleSearch(kb *knowledge.Base) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := request.GetString("query", "")
		if query == "" {
			return mcp.NewToolResultError("query is required"), nil
		}
		results, err := kb.Retrieve(ctx, query, request.GetInt("top_k", 0))
		if err != nil {
			return nil, fmt.Errorf("search knowledge failed, err: %w", err)
		}
		if results == nil {
			results = []schema.SearchResult{}
		}
		return jsonResult(results)
	}
}

func handleAnalyze(svc *report.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text := request.GetString("report", "")
		if text == "" {
			return mcp.NewToolResultError("report is required"), nil
		}
		patient := schema.PatientContext{
			Age:             request.GetInt("age", 50),
			MedicalLiteracy: request.GetString("literacy", schema.LiteracyMedium),
		}
		out, err := svc.AnalyzeReport(ctx, uuid.NewString(), text, patient)
		if err != nil {
			return nil, fmt.Errorf("analyze report failed, err: %w", err)
		}
		return jsonResult(out)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result failed, err: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
