package protocol

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"usaspending-mcp/internal/tools"
)

// maxLineBytes bounds a single JSON-RPC message on stdin.
const maxLineBytes = 10 * 1024 * 1024

// Server serves the MCP protocol over a reader/writer pair, dispatching
// tool calls to the registry. Logs must go elsewhere (stderr) so the
// protocol stream stays clean.
type Server struct {
	registry *tools.Registry
	info     ServerInfo
	log      zerolog.Logger
}

// NewServer returns a stdio MCP server for the given registry.
func NewServer(registry *tools.Registry, info ServerInfo, log zerolog.Logger) *Server {
	return &Server{registry: registry, info: info, log: log}
}

// Run reads newline-delimited JSON-RPC requests from r and writes
// responses to w until r is exhausted or ctx is canceled. Requests are
// handled one at a time; a failed invocation only fails its own response.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			s.log.Warn().Err(err).Msg("unparseable request")
			resp := Response{JSONRPC: "2.0", Error: &ResponseError{Code: CodeParseError, Message: "parse error"}}
			if err := enc.Encode(resp); err != nil {
				return err
			}
			continue
		}

		resp, reply := s.handle(ctx, &req)
		if !reply {
			continue
		}
		if err := enc.Encode(resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// handle services one request. reply is false for notifications.
func (s *Server) handle(ctx context.Context, req *Request) (Response, bool) {
	notification := req.ID == nil

	result, rpcErr := s.call(ctx, req)
	if notification {
		return Response{}, false
	}
	resp := Response{JSONRPC: "2.0", ID: req.ID}
	if rpcErr != nil {
		resp.Error = rpcErr
	} else {
		resp.Result = result
	}
	return resp, true
}

func (s *Server) call(ctx context.Context, req *Request) (any, *ResponseError) {
	switch req.Method {
	case "initialize":
		return InitializeResult{
			ProtocolVersion: ProtocolVersion,
			ServerInfo:      s.info,
		}, nil
	case "notifications/initialized":
		return nil, nil
	case "ping":
		return struct{}{}, nil
	case "tools/list":
		return map[string]any{"tools": s.registry.Descriptors()}, nil
	case "tools/call":
		return s.callTool(ctx, req.Params)
	default:
		return nil, &ResponseError{
			Code:    CodeMethodNotFound,
			Message: fmt.Sprintf("method not found: %s", req.Method),
		}
	}
}

func (s *Server) callTool(ctx context.Context, params json.RawMessage) (any, *ResponseError) {
	var call CallParams
	if err := json.Unmarshal(params, &call); err != nil {
		return nil, &ResponseError{Code: CodeInvalidParams, Message: "invalid tools/call params"}
	}

	result, err := s.registry.Dispatch(ctx, call.Name, call.Arguments)
	if err != nil {
		var verr *tools.ValidationError
		switch {
		case errors.Is(err, tools.ErrUnknownTool):
			return nil, &ResponseError{Code: CodeMethodNotFound, Message: err.Error()}
		case errors.As(err, &verr):
			return nil, &ResponseError{
				Code:    CodeInvalidParams,
				Message: "invalid tool arguments",
				Data:    map[string]any{"tool": verr.Tool, "fields": verr.Fields},
			}
		default:
			// Execution failures (upstream errors included) are tool
			// results, not protocol errors.
			return CallResult{
				Content: []ContentPart{{Type: "text", Text: err.Error()}},
				IsError: true,
			}, nil
		}
	}

	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, &ResponseError{Code: CodeInternalError, Message: "encode tool result"}
	}
	return CallResult{Content: []ContentPart{{Type: "text", Text: string(text)}}}, nil
}
