package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"sheetcraft/internal/logging"
)

type Server struct {
	info   ServerInfo
	tools  []Tool
	invoke Invoker
	reader *bufio.Reader
	writer *bufio.Writer
	mu     sync.Mutex
	logger *slog.Logger
}

func NewServer(info ServerInfo, tools []Tool, invoke Invoker, r io.Reader, w io.Writer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Server{
		info:   info,
		tools:  tools,
		invoke: invoke,
		reader: bufio.NewReader(r),
		writer: bufio.NewWriter(w),
		logger: logger,
	}
}

// Serve reads newline-delimited JSON-RPC messages until EOF. Requests run
// concurrently; the write side is serialized.
func (s *Server) Serve(ctx context.Context) error {
	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.logger.Error("mcp.read_failed", "error", err.Error())
			return err
		}
		if len(line) <= 1 {
			continue
		}
		if len(line) > maxMessageSize {
			s.logger.Warn("mcp.message_too_large", "bytes", len(line))
			s.send(*errorResponse(nil, codeInvalidRequest, "message too large", nil))
			continue
		}
		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("mcp.invalid_json", "error", err.Error())
			s.send(*errorResponse(nil, codeParseError, "parse error", nil))
			continue
		}
		s.logger.Debug("mcp.request", "method", req.Method, "id", string(req.ID), "params", logging.RedactJSON(req.Params))
		go func() {
			if resp := s.dispatch(ctx, req); resp != nil {
				s.send(*resp)
			}
		}()
	}
}

// dispatch handles one message and returns the response to write, or nil
// for notifications.
func (s *Server) dispatch(ctx context.Context, req Request) *Response {
	if req.JSONRPC != jsonRPCVersion {
		return errorResponse(req.ID, codeInvalidRequest, "invalid jsonrpc version", nil)
	}
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "ping":
		return resultResponse(req.ID, map[string]any{})
	case "tools/list":
		return resultResponse(req.ID, map[string]any{"tools": s.tools})
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	default:
		if req.ID == nil {
			// Unknown notifications are ignored per the protocol.
			return nil
		}
		return errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method), nil)
	}
}

func (s *Server) handleInitialize(req Request) *Response {
	var params struct {
		ProtocolVersion string `json:"protocolVersion"`
		ClientInfo      struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"clientInfo"`
	}
	_ = json.Unmarshal(req.Params, &params)
	s.logger.Info("mcp.initialize",
		"client", params.ClientInfo.Name,
		"client_version", params.ClientInfo.Version,
		"protocol", params.ProtocolVersion,
	)
	result := InitializeResult{
		ProtocolVersion: ProtocolVersion,
		ServerInfo:      s.info,
	}
	return resultResponse(req.ID, result)
}

func (s *Server) handleToolsCall(ctx context.Context, req Request) *Response {
	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "invalid tools/call params", nil)
	}
	if !s.hasTool(params.Name) {
		return errorResponse(req.ID, codeInvalidParams, fmt.Sprintf("unknown tool: %s", params.Name), nil)
	}
	if params.Arguments == nil {
		params.Arguments = json.RawMessage(`{}`)
	}

	callID := uuid.NewString()
	result, errInfo := s.invoke(ContextWithCallID(ctx, callID), params.Name, params.Arguments)
	if errInfo != nil {
		s.logger.Warn("mcp.tool_failed",
			"tool", params.Name,
			"call_id", callID,
			"error_code", errInfo.ErrorCode,
			"detail", errInfo.Detail,
		)
		return resultResponse(req.ID, callError(errInfo))
	}
	text, err := json.Marshal(result)
	if err != nil {
		return errorResponse(req.ID, codeInternalError, "failed to encode tool result", nil)
	}
	s.logger.Debug("mcp.tool_done", "tool", params.Name, "call_id", callID, "result", logging.RedactJSON(text))
	return resultResponse(req.ID, CallResult{
		Content: []ContentBlock{{Type: "text", Text: string(text)}},
	})
}

func (s *Server) hasTool(name string) bool {
	for _, tool := range s.tools {
		if tool.Name == name {
			return true
		}
	}
	return false
}

// callError renders a structured failure as an in-band tool result so the
// model can read and react to it.
func callError(errInfo any) CallResult {
	text, err := json.Marshal(errInfo)
	if err != nil {
		text = []byte(`{"error_code":"INTERNAL_ERROR"}`)
	}
	return CallResult{
		Content: []ContentBlock{{Type: "text", Text: string(text)}},
		IsError: true,
	}
}

func resultResponse(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: jsonRPCVersion, ID: id, Result: result}
}

func errorResponse(id json.RawMessage, code int, message string, data any) *Response {
	return &Response{
		JSONRPC: jsonRPCVersion,
		ID:      id,
		Error:   &ErrorPayload{Code: code, Message: message, Data: data},
	}
}

func (s *Server) send(resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	_, _ = s.writer.Write(append(data, '\n'))
	_ = s.writer.Flush()
}
