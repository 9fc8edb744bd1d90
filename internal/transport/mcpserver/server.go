package mcpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/jsexec/internal/infrastructure/logging"
	"github.com/GriffinCanCode/jsexec/internal/service"
	"github.com/GriffinCanCode/jsexec/internal/shared/types"
)

// ServerName is reported during the MCP handshake
const ServerName = "jsexec"

// Server exposes registry tools over MCP
type Server struct {
	mcp      *server.MCPServer
	registry *service.Registry
	logger   *logging.Logger
}

// NewServer registers every registry tool with an MCP server
func NewServer(registry *service.Registry, logger *logging.Logger, version string) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &Server{
		mcp: server.NewMCPServer(ServerName, version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		registry: registry,
		logger:   logger,
	}

	for _, def := range registry.List() {
		s.mcp.AddTool(toolSchema(def), s.handler(def.Name))
	}
	return s
}

// MCPServer returns the underlying server
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// HandleMessage handles one JSON-RPC message. Calls naming an unregistered
// tool are answered with MethodNotFound; everything else goes to mcp-go.
func (s *Server) HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage {
	if resp, ok := s.rejectUnknownTool(message); ok {
		return resp
	}
	return s.mcp.HandleMessage(ctx, message)
}

// Serve speaks MCP over the given streams until ctx ends or in closes
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	w := &lineWriter{w: out}

	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(s.logger.StdLog())

	pr, pw := io.Pipe()
	defer pr.Close()
	go s.filter(in, pw, w)

	s.logger.Info("Serving MCP over stdio", zap.Int("tools", len(s.registry.List())))
	return stdio.Listen(ctx, pr, w)
}

// filter copies client lines to the stdio server, answering calls for
// unknown tools itself.
func (s *Server) filter(in io.Reader, pw *io.PipeWriter, out io.Writer) {
	reader := bufio.NewReader(in)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			if resp, ok := s.rejectUnknownTool(line); ok {
				if werr := writeMessage(out, resp); werr != nil {
					s.logger.Warn("Failed to write MCP response", zap.Error(werr))
				}
			} else if _, werr := pw.Write(line); werr != nil {
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Warn("MCP input closed", zap.Error(err))
			}
			pw.CloseWithError(err)
			return
		}
	}
}

// rejectUnknownTool answers tools/call requests naming no registered tool.
// mcp-go would otherwise reply with an invalid-params error.
func (s *Server) rejectUnknownTool(message []byte) (mcp.JSONRPCMessage, bool) {
	var req struct {
		ID     any    `json:"id"`
		Method string `json:"method"`
		Params struct {
			Name string `json:"name"`
		} `json:"params"`
	}
	if err := sonic.Unmarshal(message, &req); err != nil {
		return nil, false
	}
	if req.Method != string(mcp.MethodToolsCall) || req.ID == nil {
		return nil, false
	}
	if _, ok := s.registry.Get(req.Params.Name); ok {
		return nil, false
	}

	toolErr := service.UnknownTool(req.Params.Name)
	return mcp.NewJSONRPCError(mcp.NewRequestId(req.ID), int(toolErr.Code), toolErr.Message, nil), true
}

func writeMessage(w io.Writer, msg mcp.JSONRPCMessage) error {
	data, err := sonic.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// lineWriter serialises whole-message writes from the filter and the stdio
// server onto one stream.
type lineWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lineWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// handler adapts a registry tool. Tool errors are returned as error results
// carrying {"code", "message"} so clients see the stable code; a Go error
// here would be flattened by the protocol layer.
func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, toolErr := s.registry.Call(ctx, name, request.GetArguments())
		if toolErr != nil {
			return errorResult(toolErr), nil
		}

		text, err := sonic.MarshalString(result)
		if err != nil {
			return errorResult(service.TranslateError(err)), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

func errorResult(toolErr *service.ToolError) *mcp.CallToolResult {
	text, err := sonic.MarshalString(toolErr.Response())
	if err != nil {
		text = toolErr.Message
	}
	return mcp.NewToolResultError(text)
}

// toolSchema converts a tool definition into an MCP tool
func toolSchema(def types.Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(def.Description)}

	for _, p := range def.Parameters {
		props := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			props = append(props, mcp.Required())
		}

		switch p.Type {
		case "number":
			if p.Minimum != nil {
				props = append(props, mcp.Min(*p.Minimum))
			}
			if p.Maximum != nil {
				props = append(props, mcp.Max(*p.Maximum))
			}
			opts = append(opts, mcp.WithNumber(p.Name, props...))
		case "boolean":
			opts = append(opts, mcp.WithBoolean(p.Name, props...))
		default:
			opts = append(opts, mcp.WithString(p.Name, props...))
		}
	}

	return mcp.NewTool(def.Name, opts...)
}
