package tutor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/bitlit/internal/chat"
	"github.com/abhisek/bitlit/internal/i18n"
	"github.com/abhisek/bitlit/internal/llm"
	"github.com/abhisek/bitlit/internal/progress"
	"github.com/abhisek/bitlit/internal/prompt"
)

func newTestHTTPTransport(t *testing.T, handler http.HandlerFunc) *HTTPTransport {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewHTTPTransport(server.URL+"/", server.Client())
}

func TestHTTPTransport_Success(t *testing.T) {
	var got chat.Request
	tr := newTestHTTPTransport(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ChatPath, r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(chat.Response{Response: "A satoshi is 1/100,000,000 BTC."})
	})

	reply, err := tr.Send(context.Background(), chat.Request{
		Message:         "sat?",
		Mode:            prompt.Curriculum,
		Language:        i18n.English,
		CurriculumTopic: 2,
		History:         []llm.Message{{Role: llm.RoleUser, Content: "hi"}, {Role: llm.RoleAssistant, Content: "hello"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "A satoshi is 1/100,000,000 BTC.", reply)
	assert.Equal(t, prompt.Curriculum, got.Mode)
	assert.Equal(t, 2, got.CurriculumTopic)
	assert.Len(t, got.History, 2)
}

func TestHTTPTransport_ErrorPayload(t *testing.T) {
	tr := newTestHTTPTransport(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chat.ErrorResponse{Error: "Failed to get response"})
	})

	_, err := tr.Send(context.Background(), chat.Request{Message: "hi"})
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusOK, remote.Status)
	assert.Equal(t, "Failed to get response", chat.ErrorMessage(i18n.English, err))
}

func TestHTTPTransport_ErrorPayloadTextIsShown(t *testing.T) {
	noResponse := i18n.T(i18n.Spanish, i18n.ErrNoResponse)
	tr := newTestHTTPTransport(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chat.ErrorResponse{Error: noResponse})
	})

	s := New(progress.NewLedger(), tr, WithLanguage(i18n.Spanish))
	res, err := s.SubmitTurn(context.Background(), "hola")
	require.NoError(t, err)
	assert.True(t, res.Failed)
	assert.Equal(t, noResponse, res.Reply)
	assert.Equal(t, noResponse, s.History()[1].Content)
}

func TestHTTPTransport_NotConfigured(t *testing.T) {
	tr := newTestHTTPTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(chat.ErrorResponse{Error: "API no configurada"})
	})

	_, err := tr.Send(context.Background(), chat.Request{Message: "hola", Language: i18n.Spanish})
	var nc *chat.ErrNotConfigured
	require.ErrorAs(t, err, &nc)
	assert.Equal(t, "API no configurada", chat.ErrorMessage(i18n.Spanish, err))
}

func TestHTTPTransport_EmptyResponse(t *testing.T) {
	tr := newTestHTTPTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":""}`))
	})
	_, err := tr.Send(context.Background(), chat.Request{Message: "hi"})
	assert.ErrorIs(t, err, chat.ErrEmptyReply)
}

func TestHTTPTransport_NonJSON(t *testing.T) {
	tr := newTestHTTPTransport(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})
	_, err := tr.Send(context.Background(), chat.Request{Message: "hi"})
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusBadGateway, remote.Status)
}

func TestHTTPTransport_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewHTTPTransport(url, nil).Send(context.Background(), chat.Request{Message: "hi"})
	assert.ErrorIs(t, err, chat.ErrUnreachable)
	assert.Equal(t, "Error connecting to AI", chat.ErrorMessage(i18n.English, err))
}

func TestLocalTransport(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: "local reply"})
	reply, err := NewLocalTransport(chat.NewService(mock)).Send(context.Background(), chat.Request{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "local reply", reply)
}
