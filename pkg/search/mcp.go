// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package search

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kadirpekel/aide/pkg/httpclient"
)

// toolPriority is the order in which MCP tool names are tried; the first
// one present in tools/list wins.
var toolPriority = []string{"webSearchPrime", "web_search", "search", "web_search_prime"}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// MCPProvider implements Provider against a search tool exposed over the
// Model Context Protocol's streamable-HTTP transport: initialize,
// tools/list, tools/call, each a JSON-RPC request whose response may
// arrive as a single JSON object or as an SSE stream of `data:` lines.
type MCPProvider struct {
	endpoint   string
	apiKey     string
	httpClient *httpclient.Client
	timeout    time.Duration

	mu        sync.RWMutex
	sessionID string
	toolName  string
}

// NewMCPProvider constructs a search Provider backed by an MCP endpoint.
func NewMCPProvider(endpoint, apiKey string, timeout time.Duration) *MCPProvider {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &MCPProvider{
		endpoint: endpoint,
		apiKey:   apiKey,
		timeout:  timeout,
		httpClient: httpclient.New(
			httpclient.WithHTTPClient(&http.Client{Timeout: timeout}),
			httpclient.WithMaxRetries(2),
		),
	}
}

// Search implements Provider.
func (p *MCPProvider) Search(ctx context.Context, req Request) (Results, error) {
	if err := p.ensureTool(ctx); err != nil {
		return Results{}, &Error{Query: req.Query, Err: err}
	}

	count := req.Count
	if count <= 0 {
		count = 5
	}

	resp, err := p.call(ctx, "tools/call", map[string]any{
		"name": p.toolName,
		"arguments": map[string]any{
			"query": req.Query,
			"count": count,
		},
	})
	if err != nil {
		return Results{}, &Error{Query: req.Query, Err: err}
	}
	if resp.Error != nil {
		return Results{}, &Error{Query: req.Query, Err: fmt.Errorf("mcp: %s", resp.Error.Message)}
	}

	results, err := decodeToolResult(resp.Result)
	if err != nil {
		return Results{}, &Error{Query: req.Query, Err: err}
	}
	results.Query = req.Query
	return results, nil
}

func (p *MCPProvider) ensureTool(ctx context.Context) error {
	p.mu.RLock()
	known := p.toolName != ""
	p.mu.RUnlock()
	if known {
		return nil
	}

	if _, err := p.call(ctx, "initialize", map[string]any{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]any{},
	}); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	resp, err := p.call(ctx, "tools/list", nil)
	if err != nil {
		return fmt.Errorf("tools/list: %w", err)
	}
	if resp.Error != nil {
		return fmt.Errorf("tools/list: %s", resp.Error.Message)
	}

	var listed struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	if err := json.Unmarshal(resp.Result, &listed); err != nil {
		return fmt.Errorf("tools/list: decode: %w", err)
	}

	available := make(map[string]bool, len(listed.Tools))
	for _, t := range listed.Tools {
		available[t.Name] = true
	}
	for _, name := range toolPriority {
		if available[name] {
			p.mu.Lock()
			p.toolName = name
			p.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("no known search tool in %v", toolPriority)
}

func (p *MCPProvider) call(ctx context.Context, method string, params any) (*rpcResponse, error) {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json, text/event-stream")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	p.mu.RLock()
	sessionID := p.sessionID
	p.mu.RUnlock()
	if sessionID != "" {
		httpReq.Header.Set("mcp-session-id", sessionID)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if sid := resp.Header.Get("mcp-session-id"); sid != "" {
		p.mu.Lock()
		p.sessionID = sid
		p.mu.Unlock()
	}

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(raw))
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "text/event-stream") {
		return readSSEResponse(resp.Body, p.timeout)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var parsed rpcResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &parsed, nil
}

func readSSEResponse(body io.ReadCloser, timeout time.Duration) (*rpcResponse, error) {
	type outcome struct {
		resp *rpcResponse
		err  error
	}
	ch := make(chan outcome, 1)

	go func() {
		defer body.Close()
		reader := bufio.NewReader(body)
		var data strings.Builder

		for {
			line, err := reader.ReadBytes('\n')
			text := strings.TrimSpace(string(line))
			if text == "" && err == nil {
				if data.Len() > 0 {
					var parsed rpcResponse
					if uerr := json.Unmarshal([]byte(data.String()), &parsed); uerr == nil {
						ch <- outcome{resp: &parsed}
						return
					}
					data.Reset()
				}
			}
			if strings.HasPrefix(text, "data:") {
				data.WriteString(strings.TrimSpace(strings.TrimPrefix(text, "data:")))
			}
			if err != nil {
				break
			}
		}
		if data.Len() > 0 {
			var parsed rpcResponse
			if uerr := json.Unmarshal([]byte(data.String()), &parsed); uerr == nil {
				ch <- outcome{resp: &parsed}
				return
			}
		}
		ch <- outcome{err: fmt.Errorf("sse stream ended without a complete message")}
	}()

	select {
	case res := <-ch:
		return res.resp, res.err
	case <-time.After(timeout):
		return nil, fmt.Errorf("timeout reading sse response after %v", timeout)
	}
}

// decodeToolResult handles the MCP tool-result envelope, which wraps the
// actual search payload as a `content` array of `{type, text}` blocks; the
// `text` field itself may be JSON-encoded (double-encoded) or a plain
// string. Both are handled.
func decodeToolResult(raw json.RawMessage) (Results, error) {
	var envelope struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Results{}, fmt.Errorf("decode tool result: %w", err)
	}

	var combined struct {
		Results []Result `json:"results"`
		Total   int      `json:"total"`
		ID      string   `json:"id"`
	}

	for _, block := range envelope.Content {
		if block.Type != "text" || block.Text == "" {
			continue
		}
		payload := []byte(block.Text)

		// Double-encoded: the text itself is a JSON string literal.
		var inner string
		if err := json.Unmarshal(payload, &inner); err == nil {
			payload = []byte(inner)
		}

		var parsed struct {
			Results []Result `json:"results"`
			Total   int      `json:"total"`
			ID      string   `json:"id"`
		}
		if err := json.Unmarshal(payload, &parsed); err != nil {
			continue
		}
		combined.Results = append(combined.Results, parsed.Results...)
		combined.Total += parsed.Total
		if combined.ID == "" {
			combined.ID = parsed.ID
		}
	}

	return Results{Results: combined.Results, Total: combined.Total, ID: combined.ID}, nil
}
