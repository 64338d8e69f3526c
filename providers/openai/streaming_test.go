package openai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/scribe-labs/scribe/core"
)

func sseHandler(frames []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, frame := range frames {
			w.Write([]byte("data: " + frame + "\n\n"))
		}
	}
}

func streamRequest() *core.ChatRequest {
	return &core.ChatRequest{
		Model:    "gpt-4o",
		Messages: []core.Message{{Role: core.RoleUser, Content: "hi"}},
	}
}

func collectStream(t *testing.T, stream *core.ChatStream) ([]string, *core.ChatResponse, error) {
	t.Helper()

	var deltas []string
	for chunk := range stream.Ch {
		deltas = append(deltas, chunk.Delta)
	}

	select {
	case err, ok := <-stream.Err:
		if ok && err != nil {
			return deltas, nil, err
		}
	default:
	}

	select {
	case final := <-stream.Final:
		return deltas, final, nil
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for final response")
		return nil, nil, nil
	}
}

func TestStreamChatDeltas(t *testing.T) {
	provider, _ := newTestProvider(t, sseHandler([]string{
		`{"id":"chatcmpl-s1","model":"gpt-4o","choices":[{"index":0,"delta":{"role":"assistant","content":"Hello"}}]}`,
		`{"id":"chatcmpl-s1","model":"gpt-4o","choices":[{"index":0,"delta":{"content":" world"}}]}`,
		`{"id":"chatcmpl-s1","model":"gpt-4o","choices":[],"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}`,
		`[DONE]`,
	}))

	stream, err := provider.StreamChat(context.Background(), streamRequest())
	if err != nil {
		t.Fatalf("StreamChat() error = %v", err)
	}

	deltas, final, err := collectStream(t, stream)
	if err != nil {
		t.Fatalf("stream error = %v", err)
	}

	if len(deltas) != 2 || deltas[0] != "Hello" || deltas[1] != " world" {
		t.Errorf("deltas = %v, want [Hello,  world]", deltas)
	}
	if final == nil {
		t.Fatal("missing final response")
	}
	if final.ID != "chatcmpl-s1" {
		t.Errorf("final ID = %q, want chatcmpl-s1", final.ID)
	}
	if final.Usage.TotalTokens != 5 {
		t.Errorf("final usage = %+v, want total 5", final.Usage)
	}
}

func TestStreamChatSkipsMalformedFrames(t *testing.T) {
	provider, _ := newTestProvider(t, sseHandler([]string{
		`{"id":"chatcmpl-s2","model":"gpt-4o","choices":[{"index":0,"delta":{"content":"before"}}]}`,
		`{this is not json`,
		`{"id":"chatcmpl-s2","model":"gpt-4o","choices":[{"index":0,"delta":{"content":" after"}}]}`,
		`[DONE]`,
	}))

	stream, err := provider.StreamChat(context.Background(), streamRequest())
	if err != nil {
		t.Fatalf("StreamChat() error = %v", err)
	}

	deltas, final, err := collectStream(t, stream)
	if err != nil {
		t.Fatalf("stream error = %v, malformed frames must not abort", err)
	}
	if len(deltas) != 2 || deltas[0] != "before" || deltas[1] != " after" {
		t.Errorf("deltas = %v, want frames around the bad one", deltas)
	}
	if final == nil {
		t.Fatal("missing final response after skipped frame")
	}
}

func TestStreamChatIgnoresCommentsAndBlanks(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(": keep-alive\n\n"))
		w.Write([]byte("data: {\"id\":\"x\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"hi\"}}]}\n\n"))
		w.Write([]byte("data: [DONE]\n\n"))
	})

	stream, err := provider.StreamChat(context.Background(), streamRequest())
	if err != nil {
		t.Fatalf("StreamChat() error = %v", err)
	}

	deltas, _, err := collectStream(t, stream)
	if err != nil {
		t.Fatalf("stream error = %v", err)
	}
	if len(deltas) != 1 || deltas[0] != "hi" {
		t.Errorf("deltas = %v, want [hi]", deltas)
	}
}

func TestStreamChatAssemblesToolCalls(t *testing.T) {
	provider, _ := newTestProvider(t, sseHandler([]string{
		`{"id":"chatcmpl-s3","model":"gpt-4o","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"id":"call_1","function":{"name":"get_weather","arguments":""}}]}}]}`,
		`{"id":"chatcmpl-s3","model":"gpt-4o","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"{\"location\":"}}]}}]}`,
		`{"id":"chatcmpl-s3","model":"gpt-4o","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"\"Paris\"}"}}]}}]}`,
		`[DONE]`,
	}))

	stream, err := provider.StreamChat(context.Background(), streamRequest())
	if err != nil {
		t.Fatalf("StreamChat() error = %v", err)
	}

	_, final, err := collectStream(t, stream)
	if err != nil {
		t.Fatalf("stream error = %v", err)
	}
	if final == nil || len(final.ToolCalls) != 1 {
		t.Fatalf("final = %+v, want one assembled tool call", final)
	}
	call := final.ToolCalls[0]
	if call.ID != "call_1" || call.Name != "get_weather" {
		t.Errorf("tool call = %+v", call)
	}
	if string(call.Arguments) != `{"location":"Paris"}` {
		t.Errorf("arguments = %s, want reassembled JSON", call.Arguments)
	}
}

func TestStreamChatFinalFrameWithoutNewline(t *testing.T) {
	// A server that ends the stream right after the last frame, with no
	// trailing newline or [DONE], still gets that frame decoded.
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(`data: {"id":"chatcmpl-s4","model":"gpt-4o","choices":[{"index":0,"delta":{"content":"first"}}]}` + "\n\n"))
		w.Write([]byte(`data: {"id":"chatcmpl-s4","model":"gpt-4o","choices":[{"index":0,"delta":{"content":" last"}}]}`))
	})

	stream, err := provider.StreamChat(context.Background(), streamRequest())
	if err != nil {
		t.Fatalf("StreamChat() error = %v", err)
	}

	deltas, final, err := collectStream(t, stream)
	if err != nil {
		t.Fatalf("stream error = %v", err)
	}
	if len(deltas) != 2 || deltas[1] != " last" {
		t.Errorf("deltas = %v, want the unterminated frame included", deltas)
	}
	if final == nil || final.ID != "chatcmpl-s4" {
		t.Errorf("final = %+v, want metadata from both frames", final)
	}
}

func TestStreamChatSetupError(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	})

	_, err := provider.StreamChat(context.Background(), streamRequest())
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Errorf("StreamChat() error = %v, want ErrUnauthorized before any frame", err)
	}
}

func TestStreamChatReaderFailure(t *testing.T) {
	// The server drops the connection mid-stream without a terminator.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(`data: {"id":"x","choices":[{"index":0,"delta":{"content":"partial"}}]}` + "\n\n"))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			conn.Close()
		}
	}))
	defer server.Close()

	provider := New("k", WithBaseURL(server.URL))
	stream, err := provider.StreamChat(context.Background(), streamRequest())
	if err != nil {
		t.Fatalf("StreamChat() error = %v", err)
	}

	for range stream.Ch {
	}

	select {
	case err := <-stream.Err:
		// A dropped connection reads as EOF on some paths; either a clean
		// EOF finish or an ErrStream is acceptable, a hang is not.
		if err != nil && !errors.Is(err, core.ErrStream) {
			t.Errorf("stream error = %v, want ErrStream", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not terminate after connection drop")
	}
}
