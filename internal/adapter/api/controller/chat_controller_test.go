package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/chat-mobile/internal/adapter/api/rpc"
	"github.com/hugohenrick/chat-mobile/internal/adapter/repository"
	"github.com/hugohenrick/chat-mobile/pkg/auth"
	"github.com/hugohenrick/chat-mobile/pkg/chat"
	"github.com/hugohenrick/chat-mobile/pkg/gemini"
	"github.com/hugohenrick/chat-mobile/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider devolve sempre a mesma sessão
type stubProvider struct {
	session *auth.Session
	err     error
}

func (p *stubProvider) GetSession(*http.Request) (*auth.Session, error) { return p.session, p.err }
func (p *stubProvider) StartLogin(w http.ResponseWriter, r *http.Request) error {
	if p.err != nil {
		return p.err
	}
	http.Redirect(w, r, "https://tenant.auth0.com/authorize", http.StatusFound)
	return nil
}
func (p *stubProvider) HandleCallback(http.ResponseWriter, *http.Request) (*auth.Session, error) {
	return p.session, p.err
}
func (p *stubProvider) EndSession(http.ResponseWriter, *http.Request) (string, error) {
	return "https://tenant.auth0.com/v2/logout", p.err
}

type apiFixture struct {
	engine      *gin.Engine
	provider    *stubProvider
	geminiCalls int
	geminiFail  bool
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &apiFixture{provider: &stubProvider{session: &auth.Session{User: auth.User{Sub: "auth0|alice", Name: "Alice"}}}}

	llm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		f.geminiCalls++
		if f.geminiFail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hello!"}]}}]}`))
	}))
	t.Cleanup(llm.Close)

	log := logger.Nop{}
	svc := chat.NewService(
		repository.NewMemoryConversationRepository(),
		gemini.NewClient(gemini.Config{APIKey: "k", BaseURL: llm.URL}, log),
		nil,
		log,
	)

	rpcRouter := rpc.NewRouter(log)
	NewChatController(svc, f.provider, log).Register(rpcRouter)

	e := gin.New()
	e.GET("/api/trpc/:procedures", HandleRPC(rpcRouter))
	e.POST("/api/trpc/:procedures", HandleRPC(rpcRouter))
	f.engine = e
	return f
}

func (f *apiFixture) mutation(t *testing.T, proc string, input interface{}) (int, map[string]interface{}) {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{"0": map[string]interface{}{"json": input}})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/trpc/"+proc+"?batch=1", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	f.engine.ServeHTTP(w, req)
	return w.Code, decodeFirst(t, w)
}

func (f *apiFixture) query(t *testing.T, proc string, input interface{}) (int, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{"0": map[string]interface{}{"json": input}})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/trpc/"+proc+"?batch=1&input="+url.QueryEscape(string(raw)), nil))
	return w.Code, decodeFirst(t, w)
}

func decodeFirst(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	require.Len(t, out, 1)
	return out[0]
}

func data(t *testing.T, entry map[string]interface{}) interface{} {
	t.Helper()
	result, ok := entry["result"].(map[string]interface{})
	require.True(t, ok, "expected result, got %v", entry)
	return result["data"].(map[string]interface{})["json"]
}

func errorCode(t *testing.T, entry map[string]interface{}) string {
	t.Helper()
	e, ok := entry["error"].(map[string]interface{})
	require.True(t, ok, "expected error, got %v", entry)
	return e["json"].(map[string]interface{})["data"].(map[string]interface{})["code"].(string)
}

func TestChatProceduresHappyPath(t *testing.T) {
	f := newAPIFixture(t)

	status, entry := f.mutation(t, ProcCreateConversation, map[string]interface{}{})
	require.Equal(t, http.StatusOK, status)
	conv := data(t, entry).(map[string]interface{})
	assert.Equal(t, "New Conversation", conv["title"])
	assert.Equal(t, "auth0|alice", conv["user_id"])
	id := conv["id"].(string)

	status, entry = f.mutation(t, ProcSendMessage, map[string]interface{}{
		"conversationId": id, "content": "Hi", "messageType": "text",
	})
	require.Equal(t, http.StatusOK, status)
	reply := data(t, entry).(map[string]interface{})
	assert.Equal(t, "assistant", reply["role"])
	assert.Equal(t, "Hello!", reply["content"])
	assert.Equal(t, "text", reply["message_type"])
	assert.Nil(t, reply["image_url"])

	status, entry = f.query(t, ProcGetMessages, map[string]interface{}{"conversationId": id})
	require.Equal(t, http.StatusOK, status)
	msgs := data(t, entry).([]interface{})
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0].(map[string]interface{})["role"])

	status, entry = f.query(t, ProcGetConversations, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, data(t, entry).([]interface{}), 1)

	status, entry = f.mutation(t, ProcDeleteConversation, map[string]interface{}{"conversationId": id})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]interface{}{"success": true}, data(t, entry))

	_, entry = f.query(t, ProcGetConversations, nil)
	assert.Empty(t, data(t, entry).([]interface{}))
}

func TestSendImageMessage(t *testing.T) {
	f := newAPIFixture(t)

	status, entry := f.mutation(t, ProcSendMessage, map[string]interface{}{
		"conversationId": "", "content": "a red fox", "messageType": "image",
	})
	require.Equal(t, http.StatusOK, status)
	reply := data(t, entry).(map[string]interface{})
	assert.Equal(t, gemini.DefaultPlaceholderImageURL, reply["content"])
	assert.Equal(t, gemini.DefaultPlaceholderImageURL, reply["image_url"])
	assert.Equal(t, "image", reply["message_type"])
}

func TestSendMessageGenerationFailure(t *testing.T) {
	f := newAPIFixture(t)
	f.geminiFail = true

	_, entry := f.mutation(t, ProcCreateConversation, map[string]interface{}{"title": "t"})
	id := data(t, entry).(map[string]interface{})["id"].(string)

	status, entry := f.mutation(t, ProcSendMessage, map[string]interface{}{
		"conversationId": id, "content": "Hi", "messageType": "text",
	})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", errorCode(t, entry))
	assert.Equal(t, "Failed to generate text response",
		entry["error"].(map[string]interface{})["json"].(map[string]interface{})["message"])

	_, entry = f.query(t, ProcGetMessages, map[string]interface{}{"conversationId": id})
	msgs := data(t, entry).([]interface{})
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].(map[string]interface{})["role"])
}

func TestProceduresWithoutSession(t *testing.T) {
	f := newAPIFixture(t)
	f.provider.session = nil

	procs := []struct {
		name     string
		mutation bool
		input    map[string]interface{}
	}{
		{name: ProcGetConversations},
		{name: ProcGetMessages, input: map[string]interface{}{"conversationId": "c"}},
		{name: ProcCreateConversation, mutation: true, input: map[string]interface{}{}},
		{name: ProcSendMessage, mutation: true, input: map[string]interface{}{"conversationId": "c", "content": "Hi", "messageType": "text"}},
		{name: ProcDeleteConversation, mutation: true, input: map[string]interface{}{"conversationId": "c"}},
	}

	for _, p := range procs {
		t.Run(p.name, func(t *testing.T) {
			var status int
			var entry map[string]interface{}
			if p.mutation {
				status, entry = f.mutation(t, p.name, p.input)
			} else {
				status, entry = f.query(t, p.name, p.input)
			}
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "UNAUTHORIZED", errorCode(t, entry))
		})
	}
	assert.Zero(t, f.geminiCalls)
}

func TestSendMessageInvalidInput(t *testing.T) {
	f := newAPIFixture(t)

	status, entry := f.mutation(t, ProcSendMessage, map[string]interface{}{
		"conversationId": "", "content": "Hi", "messageType": "video",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "BAD_REQUEST", errorCode(t, entry))
	assert.Zero(t, f.geminiCalls)
}

func TestSendMessageForeignConversation(t *testing.T) {
	f := newAPIFixture(t)

	_, entry := f.mutation(t, ProcCreateConversation, map[string]interface{}{})
	id := data(t, entry).(map[string]interface{})["id"].(string)

	f.provider.session = &auth.Session{User: auth.User{Sub: "auth0|mallory"}}
	status, entry := f.mutation(t, ProcSendMessage, map[string]interface{}{
		"conversationId": id, "content": "Hi", "messageType": "text",
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, entry))
	assert.Zero(t, f.geminiCalls)
}
