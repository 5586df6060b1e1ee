package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lorekeeper/lorekeeper/internal/schema"
)

func TestChat_ToolCallsAndRequestShape(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{
		  "choices": [{
		    "message": {
		      "content": "",
		      "tool_calls": [
		        {"id": "", "function": {"name": "get_item_info", "arguments": "{\"name\": \"cutlass\""}},
		        {"id": "abc", "function": {"name": "listItemTypes", "arguments": {}}}
		      ]
		    },
		    "finish_reason": "tool_calls"
		  }],
		  "usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("", srv.URL+"/v1/", "ollama/gpt-oss:20b", "ollama", nil, 0)
	msgs := schema.NewMessages(schema.NewSystemMessage("sys"), schema.NewUserMessage("hi"))
	msgs.AddAssistant("", []schema.ToolCall{{ID: "c1", Name: "listItemTypes"}})
	msgs.AddToolResult("c1", "listItemTypes", `["weapon"]`)

	defs := []map[string]any{{"type": "function", "function": map[string]any{"name": "listItemTypes"}}}
	resp, err := p.Chat(context.Background(), msgs, defs, schema.ChatOptions{})
	require.NoError(t, err)

	require.Equal(t, "gpt-oss:20b", got["model"])
	require.Equal(t, "auto", got["tool_choice"])
	wire := got["messages"].([]any)
	require.Len(t, wire, 4)
	assistant := wire[2].(map[string]any)
	require.Nil(t, assistant["content"])
	require.Len(t, assistant["tool_calls"], 1)
	tool := wire[3].(map[string]any)
	require.Equal(t, "c1", tool["tool_call_id"])

	require.True(t, resp.HasToolCalls())
	require.Len(t, resp.ToolCalls, 2)
	require.True(t, strings.HasPrefix(resp.ToolCalls[0].ID, "call_"))
	require.Equal(t, "cutlass", resp.ToolCalls[0].Arguments["name"])
	require.Equal(t, "abc", resp.ToolCalls[1].ID)
	require.Equal(t, 15, resp.Usage["total_tokens"])
}

func TestChat_NoToolsOmitsToolChoice(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Ahoy!"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("sk-test", srv.URL, "gpt-4o-mini", "openai", nil, 0)
	resp, err := p.Chat(context.Background(), schema.NewMessages(schema.NewUserMessage("hi")), nil, schema.ChatOptions{})
	require.NoError(t, err)
	require.Equal(t, "Ahoy!", resp.Content)
	require.Equal(t, "stop", resp.FinishReason)
	require.NotContains(t, got, "tools")
	require.NotContains(t, got, "tool_choice")
}

func TestChat_ErrorsAreReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bad/chat/completions":
			http.Error(w, "model 'gpt-oss:20b' not found", http.StatusNotFound)
		case "/garbage/chat/completions":
			_, _ = w.Write([]byte(`<html>`))
		default:
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	msgs := schema.NewMessages(schema.NewUserMessage("hi"))

	_, err := NewOpenAIProvider("", srv.URL+"/bad", "m", "custom", nil, 0).Chat(ctx, msgs, nil, schema.ChatOptions{})
	require.ErrorContains(t, err, "HTTP 404")

	_, err = NewOpenAIProvider("", srv.URL+"/garbage", "m", "custom", nil, 0).Chat(ctx, msgs, nil, schema.ChatOptions{})
	require.ErrorContains(t, err, "parse response")

	_, err = NewOpenAIProvider("", srv.URL+"/empty", "m", "custom", nil, 0).Chat(ctx, msgs, nil, schema.ChatOptions{})
	require.ErrorContains(t, err, "empty choices")

	srv.Close()
	_, err = NewOpenAIProvider("", srv.URL, "m", "custom", nil, 0).Chat(ctx, msgs, nil, schema.ChatOptions{})
	require.ErrorContains(t, err, "HTTP request")
}

func TestParseResponse_UnparsableArgumentsAreReported(t *testing.T) {
	raw := []byte(`{"choices":[{"message":{"tool_calls":[
		{"id":"c1","type":"function","function":{"name":"get_item_info","arguments":"not json at all"}},
		{"id":"c2","type":"function","function":{"name":"listItemTypes","arguments":"{}"}}
	]}}]}`)

	resp, err := parseOpenAIResponse(raw)
	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 2)
	require.Contains(t, resp.ToolCalls[0].ArgumentsError, "cannot repair JSON")
	require.Empty(t, resp.ToolCalls[0].Arguments)
	require.Empty(t, resp.ToolCalls[1].ArgumentsError)
}

func TestRepairJSON(t *testing.T) {
	cases := map[string]string{
		`{"name": "cutlass"}`:   "cutlass",
		`{"name": "cutlass"`:    "cutlass",
		`{"name": "cutlass"}}]`: "cutlass",
	}
	for in, want := range cases {
		out, err := repairJSON(in)
		require.NoError(t, err, in)
		require.Equal(t, want, out["name"], in)
	}
	_, err := repairJSON(`not json at all`)
	require.Error(t, err)
}

func TestRegistryMatching(t *testing.T) {
	require.Equal(t, "ollama", FindByModel("ollama/llama3.1").Name)
	require.Equal(t, "deepseek", FindByModel("deepseek-chat").Name)
	require.Nil(t, FindByModel("gpt-oss:20b"))
	require.Equal(t, "openrouter", FindGateway("", "sk-or-123", "").Name)
	require.Equal(t, "ollama", FindGateway("", "", "http://golem:11434/v1").Name)
	require.Equal(t, "vllm", FindGateway("vllm", "", "").Name)
	require.Nil(t, FindGateway("openai", "sk-123", "https://api.openai.com/v1"))
}

func TestResolveModel(t *testing.T) {
	p := NewOpenAIProvider("sk-or-1", "", "openrouter/meta-llama/llama-3-70b", "", nil, 0)
	require.Equal(t, "https://openrouter.ai/api/v1", p.APIBase())
	require.Equal(t, "meta-llama/llama-3-70b", p.resolveModel("openrouter/meta-llama/llama-3-70b"))

	p = NewOpenAIProvider("", "http://x", "groq/llama-3.1-8b", "", nil, 0)
	require.Equal(t, "llama-3.1-8b", p.resolveModel("groq/llama-3.1-8b"))
}
