package llm

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSettingsWithDefaults(t *testing.T) {
	RegisterTestingT(t)

	s := Settings{}.WithDefaults()
	Expect(s.Provider).To(Equal(ProviderAnthropic))
	Expect(s.Model).To(Equal(DefaultModel))
	Expect(s.MaxTokens).To(Equal(DefaultMaxTokens))
	Expect(s.Timeout).To(Equal(DefaultTimeout))

	s = Settings{Provider: "Ollama", MaxTokens: 10, Timeout: time.Second}.WithDefaults()
	Expect(s.Provider).To(Equal(ProviderOllama))
	Expect(s.Model).To(BeEmpty())
	Expect(s.MaxTokens).To(Equal(10))
	Expect(s.Timeout).To(Equal(time.Second))
}

func TestNewUnsupportedProvider(t *testing.T) {
	RegisterTestingT(t)

	_, err := New(testLogger(), Settings{Provider: "bard"}, "key")
	Expect(err).To(HaveOccurred())
	Expect(err.Error()).To(ContainSubstring(`unsupported provider "bard"`))
}

func TestNewKnownProviders(t *testing.T) {
	RegisterTestingT(t)

	for _, provider := range []string{ProviderAnthropic, ProviderOpenAI, ProviderOllama} {
		c, err := New(testLogger(), Settings{Provider: provider}, "key")
		Expect(err).To(BeNil(), provider)
		Expect(c).NotTo(BeNil(), provider)
	}
}

func TestAnthropicGenerate(t *testing.T) {
	RegisterTestingT(t)

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Expect(r.URL.Path).To(Equal("/v1/messages"))
		Expect(r.Header.Get("X-Api-Key")).To(Equal("sk-test"))
		body, _ := io.ReadAll(r.Body)
		Expect(json.Unmarshal(body, &got)).To(Succeed())

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-haiku-20240307",
			"content": [{"type": "text", "text": "hello"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 3, "output_tokens": 1}
		}`))
	}))
	defer srv.Close()

	c := NewAnthropic(testLogger(), "sk-test", srv.URL, 5*time.Second)
	res, err := c.Generate(context.Background(), GenerateRequest{Prompt: "say hello", MaxTokens: 1000})
	Expect(err).To(BeNil())
	Expect(res.Response).To(Equal("hello"))

	Expect(got).To(HaveKeyWithValue("model", DefaultModel))
	Expect(got).To(HaveKeyWithValue("max_tokens", BeNumerically("==", 1000)))
	Expect(got["messages"]).To(HaveLen(1))
}

func TestAnthropicGenerateError(t *testing.T) {
	RegisterTestingT(t)

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	c := NewAnthropic(testLogger(), "bad", srv.URL, 5*time.Second)
	res, err := c.Generate(context.Background(), GenerateRequest{Prompt: "hi"})
	Expect(err).To(HaveOccurred())
	Expect(res).To(BeNil())
	Expect(calls).To(Equal(1))
}

func TestOllamaGenerate(t *testing.T) {
	RegisterTestingT(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Expect(r.URL.Path).To(Equal("/api/generate"))
		Expect(r.Header.Get("Authorization")).To(Equal("Bearer secret"))

		var req map[string]any
		Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
		Expect(req).To(HaveKeyWithValue("model", DefaultOllamaModel))
		Expect(req).To(HaveKeyWithValue("prompt", "say hello"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3.1:8b","response":"hello","done":true}`))
	}))
	defer srv.Close()

	c := NewOllama(testLogger(), srv.URL, "secret", 5*time.Second)
	res, err := c.Generate(context.Background(), GenerateRequest{Prompt: "say hello"})
	Expect(err).To(BeNil())
	Expect(res.Response).To(Equal("hello"))
}

func TestOllamaInvalidURL(t *testing.T) {
	RegisterTestingT(t)

	c := NewOllama(testLogger(), "://bad", "", time.Second)
	_, err := c.Generate(context.Background(), GenerateRequest{Prompt: "hi"})
	Expect(err).To(HaveOccurred())
	Expect(err.Error()).To(ContainSubstring("invalid ollama url"))
}

func TestAnthropicGenerateEmptyContent(t *testing.T) {
	RegisterTestingT(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_02",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-haiku-20240307",
			"content": [],
			"stop_reason": "max_tokens",
			"usage": {"input_tokens": 3, "output_tokens": 0}
		}`))
	}))
	defer srv.Close()

	c := NewAnthropic(testLogger(), "sk-test", srv.URL, 5*time.Second)
	res, err := c.Generate(context.Background(), GenerateRequest{Prompt: "hi"})
	Expect(res).To(BeNil())
	Expect(err).To(HaveOccurred())
	Expect(err.Error()).To(ContainSubstring("does not contain any text content"))
}

func TestOllamaGenerateEmptyResponse(t *testing.T) {
	RegisterTestingT(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3.1:8b","response":"","done":true}`))
	}))
	defer srv.Close()

	c := NewOllama(testLogger(), srv.URL, "", 5*time.Second)
	res, err := c.Generate(context.Background(), GenerateRequest{Prompt: "hi"})
	Expect(res).To(BeNil())
	Expect(err).To(HaveOccurred())
	Expect(err.Error()).To(ContainSubstring("empty response"))
}

func newOpenAIServer(t *testing.T, reply string, got *map[string]any) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Expect(r.URL.Path).To(Equal("/chat/completions"))
		Expect(r.Header.Get("Authorization")).To(Equal("Bearer sk-openai"))
		if got != nil {
			Expect(json.NewDecoder(r.Body).Decode(got)).To(Succeed())
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIGenerate(t *testing.T) {
	RegisterTestingT(t)

	var got map[string]any
	srv := newOpenAIServer(t, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "gpt-4o-mini",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "hello"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 3, "completion_tokens": 1, "total_tokens": 4}
	}`, &got)

	c, err := NewOpenAI(testLogger(), "sk-openai", srv.URL, "")
	Expect(err).To(BeNil())

	res, err := c.Generate(context.Background(), GenerateRequest{Prompt: "say hello", Model: "gpt-4o-mini", MaxTokens: 50})
	Expect(err).To(BeNil())
	Expect(res.Response).To(Equal("hello"))

	Expect(got).To(HaveKeyWithValue("model", "gpt-4o-mini"))
	Expect(got).To(HaveKeyWithValue("max_completion_tokens", BeNumerically("==", 50)))
	Expect(got["messages"]).To(HaveLen(1))
}

func TestOpenAIGenerateEmptyResponse(t *testing.T) {
	RegisterTestingT(t)

	for _, reply := range []string{
		`{"id": "chatcmpl-2", "object": "chat.completion", "choices": []}`,
		`{"id": "chatcmpl-3", "object": "chat.completion", "choices": [{"index": 0, "message": {"role": "assistant", "content": ""}, "finish_reason": "length"}]}`,
	} {
		srv := newOpenAIServer(t, reply, nil)

		c, err := NewOpenAI(testLogger(), "sk-openai", srv.URL, "gpt-4o-mini")
		Expect(err).To(BeNil())

		res, err := c.Generate(context.Background(), GenerateRequest{Prompt: "hi", MaxTokens: 10})
		Expect(res).To(BeNil(), reply)
		Expect(err).To(HaveOccurred(), reply)
	}
}
