package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/careerkitsune/careerkitsune-ai/internal/dialogue"
	"github.com/careerkitsune/careerkitsune-ai/internal/sessions"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, assistant Assistant, opts Options) (*Server, *httptest.Server) {
	t.Helper()
	if assistant == nil {
		assistant = dialogue.NewAssistant(dialogue.Deps{}, dialogue.Options{})
	}
	srv := New(assistant, sessions.NewMemoryStore(time.Hour), nil, opts)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func createSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(ts.URL+"/sessions", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out createSessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.SessionID)
	return out.SessionID
}

func say(t *testing.T, ts *httptest.Server, id, text, userID string) (int, utteranceResponse) {
	t.Helper()
	body, err := json.Marshal(utteranceRequest{Text: text, UserID: userID})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/sessions/"+id+"/utterances", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out utteranceResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func TestConversationOverHTTP(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, nil, Options{})
	id := createSession(t, ts)

	status, out := say(t, ts, id, "Hello there", "")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, out.Reply, "CareerKitsune-AI")
	require.Equal(t, dialogue.ModeIdle, out.Mode)
	require.Empty(t, out.Stage)

	status, out = say(t, ts, id, "I have an interview in 5 days", "user-1")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, out.Reply, "in 5 days")
	require.Equal(t, dialogue.ModeInterviewPrep, out.Mode)
	require.Equal(t, dialogue.StageCollectingCompany, out.Stage)

	status, out = say(t, ts, id, "Acme", "user-1")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, dialogue.StageCollectingRole, out.Stage)
}

func TestUnknownSession(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, nil, Options{})

	status, _ := say(t, ts, "missing", "hello", "")
	require.Equal(t, http.StatusNotFound, status)
}

func TestDeleteSession(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, nil, Options{})
	id := createSession(t, ts)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/sessions/"+id, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	status, _ := say(t, ts, id, "hello", "")
	require.Equal(t, http.StatusNotFound, status)
}

func TestRateLimitPerSession(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, nil, Options{RatePerSecond: 0.001, Burst: 2})
	first := createSession(t, ts)
	second := createSession(t, ts)

	for i := 0; i < 2; i++ {
		status, _ := say(t, ts, first, "hello", "")
		require.Equal(t, http.StatusOK, status)
	}
	status, _ := say(t, ts, first, "hello", "")
	require.Equal(t, http.StatusTooManyRequests, status)

	status, _ = say(t, ts, second, "hello", "")
	require.Equal(t, http.StatusOK, status)
}

func TestBadRequests(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, nil, Options{})
	id := createSession(t, ts)

	resp, err := http.Post(ts.URL+"/sessions/"+id+"/utterances", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	status, _ := say(t, ts, id, strings.Repeat("a", maxUtteranceLen+1), "")
	require.Equal(t, http.StatusRequestEntityTooLarge, status)

	resp, err = http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// countingAssistant records the peak number of concurrent turns.
type countingAssistant struct {
	mu      sync.Mutex
	active  int
	maxSeen int
}

func (c *countingAssistant) Handle(_ context.Context, s *dialogue.Session, _, _ string) string {
	c.mu.Lock()
	c.active++
	if c.active > c.maxSeen {
		c.maxSeen = c.active
	}
	c.mu.Unlock()

	time.Sleep(5 * time.Millisecond)
	s.CurrentJobIndex++

	c.mu.Lock()
	c.active--
	c.mu.Unlock()
	return "ok"
}

func TestTurnsOfOneSessionAreSerialized(t *testing.T) {
	t.Parallel()
	assistant := &countingAssistant{}
	srv, ts := newTestServer(t, assistant, Options{RatePerSecond: 1000, Burst: 100})
	id := createSession(t, ts)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body := strings.NewReader(`{"text": "next"}`)
			resp, err := http.Post(ts.URL+"/sessions/"+id+"/utterances", "application/json", body)
			if err == nil {
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, assistant.maxSeen)
	session, err := srv.store.Load(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, 8, session.CurrentJobIndex)
}

func TestPruneDropsIdleGates(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t, nil, Options{})

	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	srv.now = func() time.Time { return now }
	srv.release("old", srv.acquire("old"), false)
	busy := srv.acquire("busy")
	now = now.Add(time.Hour)
	srv.release("fresh", srv.acquire("fresh"), false)

	require.Equal(t, 1, srv.Prune(30*time.Minute))
	require.Len(t, srv.gates, 2)
	require.Zero(t, srv.Prune(0))

	srv.release("busy", busy, false)
	require.Equal(t, 1, srv.Prune(30*time.Minute))
}

// blockingAssistant parks every turn until release is closed.
type blockingAssistant struct {
	countingAssistant
	entered chan struct{}
	release chan struct{}
}

func newBlockingAssistant() *blockingAssistant {
	return &blockingAssistant{entered: make(chan struct{}, 4), release: make(chan struct{})}
}

func (b *blockingAssistant) Handle(ctx context.Context, s *dialogue.Session, utterance, userID string) string {
	b.entered <- struct{}{}
	<-b.release
	return b.countingAssistant.Handle(ctx, s, utterance, userID)
}

// send issues a request from a helper goroutine and reports the status,
// or 0 when the request failed.
func send(method, url, body string) int {
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		return 0
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestPruneKeepsGateOfTurnInFlight(t *testing.T) {
	t.Parallel()
	assistant := newBlockingAssistant()
	srv, ts := newTestServer(t, assistant, Options{RatePerSecond: 1000, Burst: 100})
	id := createSession(t, ts)
	url := ts.URL + "/sessions/" + id + "/utterances"

	statuses := make(chan int, 2)
	go func() { statuses <- send(http.MethodPost, url, `{"text": "next"}`) }()
	<-assistant.entered

	time.Sleep(5 * time.Millisecond)
	require.Zero(t, srv.Prune(time.Millisecond))
	require.Zero(t, srv.Prune(0))

	go func() { statuses <- send(http.MethodPost, url, `{"text": "next"}`) }()
	select {
	case <-assistant.entered:
		t.Fatal("second turn started while the first was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(assistant.release)
	require.Equal(t, http.StatusOK, <-statuses)
	require.Equal(t, http.StatusOK, <-statuses)

	require.Equal(t, 1, assistant.maxSeen)
	session, err := srv.store.Load(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, 2, session.CurrentJobIndex)
}

func TestDeleteWaitsForTurnInFlight(t *testing.T) {
	t.Parallel()
	assistant := newBlockingAssistant()
	srv, ts := newTestServer(t, assistant, Options{})
	id := createSession(t, ts)

	turn := make(chan int, 1)
	go func() { turn <- send(http.MethodPost, ts.URL+"/sessions/"+id+"/utterances", `{"text": "next"}`) }()
	<-assistant.entered

	deleted := make(chan int, 1)
	go func() { deleted <- send(http.MethodDelete, ts.URL+"/sessions/"+id, "") }()
	select {
	case status := <-deleted:
		t.Fatalf("delete answered %d while a turn was running", status)
	case <-time.After(50 * time.Millisecond):
	}

	close(assistant.release)
	require.Equal(t, http.StatusOK, <-turn)
	require.Equal(t, http.StatusNoContent, <-deleted)

	_, err := srv.store.Load(context.Background(), id)
	require.ErrorIs(t, err, sessions.ErrNotFound)
	status, _ := say(t, ts, id, "hello", "")
	require.Equal(t, http.StatusNotFound, status)
}
