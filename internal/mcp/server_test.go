package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sheetcraft/internal/errinfo"
)

func testServer(r *strings.Reader, w *bytes.Buffer) *Server {
	tools := []Tool{{
		Name:        "echo",
		Description: "Echo the arguments back.",
		InputSchema: json.RawMessage(`{"type":"object"}`),
	}}
	invoke := func(ctx context.Context, tool string, params json.RawMessage) (any, *errinfo.ErrorInfo) {
		var args map[string]any
		_ = json.Unmarshal(params, &args)
		if args["fail"] == true {
			return nil, errinfo.ValidationFailed(tool, "asked to fail")
		}
		if CallID(ctx) == "" {
			return nil, errinfo.InvalidParams(tool, "missing call id")
		}
		return map[string]any{"echo": args}, nil
	}
	return NewServer(ServerInfo{Name: "sheetcraft", Version: "test"}, tools, invoke, r, w, nil)
}

func serveAndCollect(t *testing.T, input string, want int) []Response {
	t.Helper()
	var output bytes.Buffer
	server := testServer(strings.NewReader(input), &output)
	if err := server.Serve(context.Background()); err != nil {
		t.Fatalf("serve: %v", err)
	}
	deadline := time.Now().Add(time.Second)
	var lines []string
	for time.Now().Before(deadline) {
		lines = nil
		for _, line := range strings.Split(strings.TrimSpace(output.String()), "\n") {
			if line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) >= want {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if len(lines) < want {
		t.Fatalf("expected %d responses, got %d", want, len(lines))
	}
	responses := make([]Response, 0, len(lines))
	for _, line := range lines {
		var resp Response
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("unmarshal %q: %v", line, err)
		}
		responses = append(responses, resp)
	}
	return responses
}

func TestInitializeHandshake(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","clientInfo":{"name":"test-client","version":"0.1"}}}` + "\n" +
		`{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n"
	responses := serveAndCollect(t, input, 1)

	if responses[0].Error != nil {
		t.Fatalf("unexpected error: %v", responses[0].Error)
	}
	result := responses[0].Result.(map[string]any)
	if result["protocolVersion"] != ProtocolVersion {
		t.Fatalf("expected protocol %s, got %v", ProtocolVersion, result["protocolVersion"])
	}
	info := result["serverInfo"].(map[string]any)
	if info["name"] != "sheetcraft" {
		t.Fatalf("expected server name sheetcraft, got %v", info["name"])
	}
}

func TestToolsList(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n"
	responses := serveAndCollect(t, input, 1)

	result := responses[0].Result.(map[string]any)
	tools := result["tools"].([]any)
	if len(tools) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(tools))
	}
	tool := tools[0].(map[string]any)
	if tool["name"] != "echo" {
		t.Fatalf("expected echo tool, got %v", tool["name"])
	}
	if tool["inputSchema"] == nil {
		t.Fatalf("expected inputSchema")
	}
}

func TestToolsCall(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"echo","arguments":{"x":1}}}` + "\n"
	responses := serveAndCollect(t, input, 1)

	if responses[0].Error != nil {
		t.Fatalf("unexpected error: %v", responses[0].Error)
	}
	result := responses[0].Result.(map[string]any)
	if result["isError"] != nil {
		t.Fatalf("expected success result")
	}
	content := result["content"].([]any)
	block := content[0].(map[string]any)
	if block["type"] != "text" {
		t.Fatalf("expected text content")
	}
	if !strings.Contains(block["text"].(string), `"x":1`) {
		t.Fatalf("expected echoed arguments, got %v", block["text"])
	}
}

func TestToolsCallDomainErrorStaysInBand(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"echo","arguments":{"fail":true}}}` + "\n"
	responses := serveAndCollect(t, input, 1)

	if responses[0].Error != nil {
		t.Fatalf("domain failure must not be a jsonrpc error: %v", responses[0].Error)
	}
	result := responses[0].Result.(map[string]any)
	if result["isError"] != true {
		t.Fatalf("expected isError true")
	}
	content := result["content"].([]any)
	block := content[0].(map[string]any)
	if !strings.Contains(block["text"].(string), errinfo.CodeValidationFailed) {
		t.Fatalf("expected error code in payload, got %v", block["text"])
	}
}

func TestToolsCallUnknownTool(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"nope","arguments":{}}}` + "\n"
	responses := serveAndCollect(t, input, 1)

	if responses[0].Error == nil || responses[0].Error.Code != codeInvalidParams {
		t.Fatalf("expected invalid params error, got %+v", responses[0].Error)
	}
}

func TestUnknownMethod(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":6,"method":"resources/list"}` + "\n"
	responses := serveAndCollect(t, input, 1)

	if responses[0].Error == nil || responses[0].Error.Code != codeMethodNotFound {
		t.Fatalf("expected method not found, got %+v", responses[0].Error)
	}
}

func TestParseError(t *testing.T) {
	responses := serveAndCollect(t, "{not json}\n", 1)
	if responses[0].Error == nil || responses[0].Error.Code != codeParseError {
		t.Fatalf("expected parse error, got %+v", responses[0].Error)
	}
}

func TestPing(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":7,"method":"ping"}` + "\n"
	responses := serveAndCollect(t, input, 1)
	if responses[0].Error != nil {
		t.Fatalf("unexpected error: %v", responses[0].Error)
	}
}

func TestHTTPHandler(t *testing.T) {
	server := testServer(strings.NewReader(""), &bytes.Buffer{})
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/mcp", "application/json",
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var rpcResp Response
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rpcResp.Error != nil {
		t.Fatalf("unexpected error: %v", rpcResp.Error)
	}

	health, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer health.Body.Close()
	if health.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", health.StatusCode)
	}
}

func TestHTTPNotificationIsAccepted(t *testing.T) {
	server := testServer(strings.NewReader(""), &bytes.Buffer{})
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/mcp", "application/json",
		strings.NewReader(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
}
