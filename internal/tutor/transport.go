package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/bitlit/internal/chat"
)

// LocalTransport calls a chat.Service in-process.
type LocalTransport struct {
	svc *chat.Service
}

// NewLocalTransport wraps svc.
func NewLocalTransport(svc *chat.Service) *LocalTransport {
	return &LocalTransport{svc: svc}
}

func (t *LocalTransport) Send(ctx context.Context, req chat.Request) (string, error) {
	return t.svc.Reply(ctx, req)
}

// ChatPath is the submission endpoint path on a bitlit server.
const ChatPath = "/api/chat"

// RemoteError is a failure reported by the submission endpoint.
type RemoteError struct {
	Status  int
	Message string
}

// UserMessage returns the server's localized text for failures it
// reported in a 200 {error} body, and "" otherwise.
func (e *RemoteError) UserMessage() string {
	if e.Status != http.StatusOK {
		return ""
	}
	return e.Message
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("chat endpoint returned %d: %s", e.Status, e.Message)
}

// HTTPTransport posts submissions to a running server.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// NewHTTPTransport targets the server at baseURL. A nil client uses one
// with a 60s timeout.
func NewHTTPTransport(baseURL string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &HTTPTransport{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (t *HTTPTransport) Send(ctx context.Context, req chat.Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+ChatPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := t.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", chat.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", chat.ErrUnreachable, err)
	}

	var payload struct {
		Response string `json:"response"`
		Error    string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", &RemoteError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}

	switch {
	case resp.StatusCode == http.StatusInternalServerError && payload.Error != "":
		return "", &chat.ErrNotConfigured{
			Language: req.Language,
			Err:      &RemoteError{Status: resp.StatusCode, Message: payload.Error},
		}
	case payload.Error != "":
		return "", &RemoteError{Status: resp.StatusCode, Message: payload.Error}
	case resp.StatusCode != http.StatusOK:
		return "", &RemoteError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	case strings.TrimSpace(payload.Response) == "":
		return "", chat.ErrEmptyReply
	}
	return payload.Response, nil
}
