package tutor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/abhisek/bitlit/internal/chat"
	"github.com/abhisek/bitlit/internal/i18n"
	"github.com/abhisek/bitlit/internal/llm"
	"github.com/abhisek/bitlit/internal/progress"
	"github.com/abhisek/bitlit/internal/prompt"
)

// fakeTransport records requests and answers from a script.
type fakeTransport struct {
	mu    sync.Mutex
	reqs  []chat.Request
	reply string
	err   error
}

func (f *fakeTransport) Send(_ context.Context, req chat.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return f.reply, f.err
}

// gateTransport blocks each Send until released.
type gateTransport struct {
	entered chan chat.Request
	release chan string
}

func newGate() *gateTransport {
	return &gateTransport{entered: make(chan chat.Request, 1), release: make(chan string)}
}

func (g *gateTransport) Send(ctx context.Context, req chat.Request) (string, error) {
	g.entered <- req
	select {
	case r := <-g.release:
		return r, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestSubmitTurn_Success(t *testing.T) {
	ledger := progress.NewLedger()
	tr := &fakeTransport{reply: "What do you think money is for?"}
	s := New(ledger, tr, WithLanguage(i18n.English))

	res, err := s.SubmitTurn(context.Background(), "  What is Bitcoin?  ")
	require.NoError(t, err)
	assert.False(t, res.Failed)
	assert.Equal(t, TurnXP, res.XPAwarded)
	assert.Equal(t, 5, ledger.XP())
	assert.True(t, ledger.IsModuleComplete(progress.ModuleTutor))

	want := []llm.Message{
		{Role: llm.RoleUser, Content: "What is Bitcoin?"},
		{Role: llm.RoleAssistant, Content: "What do you think money is for?"},
	}
	if diff := cmp.Diff(want, s.History()); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, tr.reqs, 1)
	req := tr.reqs[0]
	assert.Equal(t, "What is Bitcoin?", req.Message)
	assert.Equal(t, prompt.Socratic, req.Mode)
	assert.Equal(t, i18n.English, req.Language)
	assert.Empty(t, req.History)
	assert.False(t, s.InFlight())
}

func TestSubmitTurn_EmptyInput(t *testing.T) {
	tr := &fakeTransport{reply: "x"}
	s := New(progress.NewLedger(), tr)

	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := s.SubmitTurn(context.Background(), in)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}
	assert.Empty(t, s.History())
	assert.Empty(t, tr.reqs)
}

func TestSubmitTurn_FailureAppendsLocalizedError(t *testing.T) {
	ledger := progress.NewLedger()
	tr := &fakeTransport{err: &llm.ErrProviderUnavailable{}}
	s := New(ledger, tr, WithLanguage(i18n.Spanish))

	res, err := s.SubmitTurn(context.Background(), "hola")
	require.NoError(t, err)
	assert.True(t, res.Failed)
	assert.Error(t, res.Err)
	assert.Equal(t, 0, ledger.XP())
	assert.False(t, ledger.IsModuleComplete(progress.ModuleTutor))

	h := s.History()
	require.Len(t, h, 2)
	assert.Equal(t, llm.Message{Role: llm.RoleAssistant, Content: "No se pudo obtener respuesta"}, h[1])
	assert.False(t, s.InFlight())
}

func TestSubmitTurn_NotConfigured(t *testing.T) {
	svc := chat.NewService(nil)
	s := New(progress.NewLedger(), NewLocalTransport(svc), WithLanguage(i18n.English))

	res, err := s.SubmitTurn(context.Background(), "hi")
	require.NoError(t, err)
	assert.True(t, res.Failed)
	assert.Equal(t, "API not configured", s.History()[1].Content)
}

func TestSubmitTurn_EmptyReply(t *testing.T) {
	s := New(progress.NewLedger(), &fakeTransport{reply: "  "}, WithLanguage(i18n.English))
	res, err := s.SubmitTurn(context.Background(), "hi")
	require.NoError(t, err)
	assert.ErrorIs(t, res.Err, chat.ErrEmptyReply)
	assert.Equal(t, "No response", s.History()[1].Content)
}

func TestSubmitTurn_NilTransport(t *testing.T) {
	s := New(progress.NewLedger(), nil, WithLanguage(i18n.Spanish))
	res, err := s.SubmitTurn(context.Background(), "hola")
	require.NoError(t, err)
	assert.True(t, res.Failed)
	assert.Equal(t, "API no configurada", res.Reply)
}

func TestSubmitTurn_HistoryWindow(t *testing.T) {
	tr := &fakeTransport{reply: "ok"}
	s := New(progress.NewLedger(), tr)

	// Six successful turns produce twelve history entries.
	for i := range 6 {
		_, err := s.SubmitTurn(context.Background(), fmt.Sprintf("q%d", i))
		require.NoError(t, err)
	}
	prior := s.History()
	require.Len(t, prior, 12)

	_, err := s.SubmitTurn(context.Background(), "q6")
	require.NoError(t, err)

	last := tr.reqs[len(tr.reqs)-1]
	if diff := cmp.Diff(prior[2:], last.History); diff != "" {
		t.Errorf("window mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, chat.NewLLMRequest(last).Transcript(), 12)
}

func TestSubmitTurn_RejectsConcurrentTurn(t *testing.T) {
	defer goleak.VerifyNone(t)

	gate := newGate()
	ledger := progress.NewLedger()
	s := New(ledger, gate)

	done := make(chan TurnResult)
	go func() {
		res, _ := s.SubmitTurn(context.Background(), "first")
		done <- res
	}()
	<-gate.entered

	assert.True(t, s.InFlight())
	_, err := s.SubmitTurn(context.Background(), "second")
	assert.ErrorIs(t, err, ErrTurnInFlight)

	// The optimistic user message is visible while waiting.
	h := s.History()
	require.Len(t, h, 1)
	assert.Equal(t, "first", h[0].Content)

	gate.release <- "reply"
	res := <-done
	assert.Equal(t, "reply", res.Reply)
	assert.False(t, s.InFlight())
	assert.Len(t, s.History(), 2)
	assert.Equal(t, 5, ledger.XP())
}

func TestSubmitTurn_StateChangesWhileInFlight(t *testing.T) {
	defer goleak.VerifyNone(t)

	gate := newGate()
	s := New(progress.NewLedger(), gate, WithLanguage(i18n.English))

	done := make(chan struct{})
	go func() {
		_, _ = s.SubmitTurn(context.Background(), "first")
		close(done)
	}()
	req := <-gate.entered
	assert.Equal(t, prompt.Socratic, req.Mode)

	s.SelectMode(prompt.Curriculum)
	s.SetCurriculumTopic(3)
	s.SetLanguage(i18n.Spanish)
	s.ClearHistory()

	gate.release <- "late reply"
	<-done

	// The reply lands at the end of the then-current history.
	want := []llm.Message{{Role: llm.RoleAssistant, Content: "late reply"}}
	if diff := cmp.Diff(want, s.History()); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
	st := s.State()
	assert.Equal(t, prompt.Curriculum, st.Mode)
	assert.Equal(t, 3, st.Topic)
	assert.Equal(t, i18n.Spanish, st.Language)
}

func TestSubmitTurn_ContextCancelIsFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	gate := newGate()
	s := New(progress.NewLedger(), gate, WithLanguage(i18n.English))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan TurnResult)
	go func() {
		res, _ := s.SubmitTurn(ctx, "first")
		done <- res
	}()
	<-gate.entered
	cancel()

	select {
	case res := <-done:
		assert.True(t, res.Failed)
		assert.True(t, errors.Is(res.Err, context.Canceled))
		assert.Equal(t, "Error connecting to AI", res.Reply)
	case <-time.After(2 * time.Second):
		t.Fatal("turn did not finish after cancel")
	}
	assert.False(t, s.InFlight())
}

func TestSelectMode_KeepsHistory(t *testing.T) {
	s := New(progress.NewLedger(), &fakeTransport{reply: "ok"})
	_, err := s.SubmitTurn(context.Background(), "hi")
	require.NoError(t, err)

	s.SelectMode(prompt.RoleReversal)
	assert.Equal(t, prompt.RoleReversal, s.Mode())
	assert.Len(t, s.History(), 2)
}

func TestSetCurriculumTopic_StoresVerbatim(t *testing.T) {
	tr := &fakeTransport{reply: "ok"}
	s := New(progress.NewLedger(), tr, WithMode(prompt.Curriculum))
	s.SetCurriculumTopic(42)
	assert.Equal(t, 42, s.Topic())

	_, err := s.SubmitTurn(context.Background(), "next")
	require.NoError(t, err)
	assert.Equal(t, 42, tr.reqs[0].CurriculumTopic)
	assert.Equal(t, prompt.TopicLabel(0, i18n.Spanish), s.State().TopicLabel)
}

func TestClearHistory(t *testing.T) {
	s := New(progress.NewLedger(), &fakeTransport{reply: "ok"})
	_, _ = s.SubmitTurn(context.Background(), "hi")
	s.ClearHistory()
	assert.Empty(t, s.History())
}

func TestHistory_ReturnsCopy(t *testing.T) {
	s := New(progress.NewLedger(), &fakeTransport{reply: "ok"})
	_, _ = s.SubmitTurn(context.Background(), "hi")
	h := s.History()
	h[0].Content = "mutated"
	assert.Equal(t, "hi", s.History()[0].Content)
}

func TestNew_Defaults(t *testing.T) {
	s := New(nil, nil)
	st := s.State()
	assert.NotEmpty(t, st.ID)
	assert.Equal(t, prompt.Socratic, st.Mode)
	assert.Equal(t, i18n.LearnerDefault, st.Language)
	assert.Equal(t, 0, st.Topic)
	assert.NotNil(t, st.History)
	assert.False(t, st.InFlight)
}
