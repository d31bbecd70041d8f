package discord

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
)

// MockRoundTripper implements http.RoundTripper for intercepting requests
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)

	mu       sync.Mutex
	Requests []CapturedRequest
}

// CapturedRequest is one intercepted Discord REST call.
type CapturedRequest struct {
	Method string
	Path   string
	Body   []byte
}

// Decode unmarshals the captured JSON body into v.
func (c CapturedRequest) Decode(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(c.Body, v); err != nil {
		t.Fatalf("decode %s %s: %v (%s)", c.Method, c.Path, err, c.Body)
	}
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(body))
	}
	m.mu.Lock()
	m.Requests = append(m.Requests, CapturedRequest{Method: req.Method, Path: req.URL.Path, Body: body})
	m.mu.Unlock()

	if m.RoundTripFunc != nil {
		return m.RoundTripFunc(req)
	}
	return jsonResponse(http.StatusOK, "{}"), nil
}

// Find returns captured requests matching method whose path contains fragment.
func (m *MockRoundTripper) Find(method, fragment string) []CapturedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []CapturedRequest
	for _, r := range m.Requests {
		if r.Method == method && strings.Contains(r.Path, fragment) {
			out = append(out, r)
		}
	}
	return out
}

// NewTestSession returns a Discord session whose REST calls hit the mock.
func NewTestSession(t *testing.T) (*discordgo.Session, *MockRoundTripper) {
	t.Helper()
	session, err := discordgo.New("Bot test-token")
	if err != nil {
		t.Fatalf("Failed to create mock session: %v", err)
	}
	mock := &MockRoundTripper{}
	session.Client = &http.Client{Transport: mock}
	session.MaxRestRetries = 0
	return session, mock
}

func jsonResponse(status int, body string) *http.Response {
	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     header,
	}
}

// interactionResponse is the callback body sent for immediate and deferred replies.
type interactionResponse struct {
	Type int `json:"type"`
	Data *struct {
		Content string `json:"content"`
		Flags   int    `json:"flags"`
	} `json:"data"`
}

// repliedContent returns the text the interaction was finally answered with.
func repliedContent(t *testing.T, mock *MockRoundTripper) string {
	t.Helper()
	if edits := mock.Find(http.MethodPatch, "/messages/@original"); len(edits) > 0 {
		var body struct {
			Content string `json:"content"`
		}
		edits[len(edits)-1].Decode(t, &body)
		return body.Content
	}
	for _, cb := range mock.Find(http.MethodPost, "/callback") {
		var resp interactionResponse
		cb.Decode(t, &resp)
		if resp.Data != nil && resp.Data.Content != "" {
			return resp.Data.Content
		}
	}
	t.Fatalf("interaction was never answered; requests: %+v", mock.Requests)
	return ""
}
