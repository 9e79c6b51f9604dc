package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hugohenrick/chat-mobile/internal/adapter/repository"
	"github.com/hugohenrick/chat-mobile/internal/domain/conversation"
	"github.com/hugohenrick/chat-mobile/pkg/auth"
	"github.com/hugohenrick/chat-mobile/pkg/gemini"
	"github.com/hugohenrick/chat-mobile/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const placeholder = "https://images.unsplash.com/photo-1581833971358-2c8b550f87b3?w=512&h=512&fit=crop&crop=center"

type fakeGenerator struct {
	text      string
	err       error
	textCalls int
	imgCalls  int
}

func (g *fakeGenerator) GenerateText(context.Context, string) (string, error) {
	g.textCalls++
	if g.err != nil {
		return "", &gemini.GenerationError{Kind: gemini.KindText, Err: g.err}
	}
	return g.text, nil
}

func (g *fakeGenerator) GenerateImage(context.Context, string) (string, error) {
	g.imgCalls++
	if g.err != nil {
		return "", &gemini.GenerationError{Kind: gemini.KindImage, Err: g.err}
	}
	return placeholder, nil
}

// countingRepo conta as mutações e permite injetar falhas na gravação de mensagens
type countingRepo struct {
	conversation.Repository
	mu             sync.Mutex
	mutations      int
	failMessageAt  int
	messageInserts int
}

func (r *countingRepo) CreateConversation(ctx context.Context, userID, title string) (*conversation.Conversation, error) {
	r.mu.Lock()
	r.mutations++
	r.mu.Unlock()
	return r.Repository.CreateConversation(ctx, userID, title)
}

func (r *countingRepo) DeleteConversation(ctx context.Context, userID, id string) (int64, error) {
	r.mu.Lock()
	r.mutations++
	r.mu.Unlock()
	return r.Repository.DeleteConversation(ctx, userID, id)
}

func (r *countingRepo) CreateMessage(ctx context.Context, userID string, m *conversation.Message) error {
	r.mu.Lock()
	r.mutations++
	r.messageInserts++
	n := r.messageInserts
	r.mu.Unlock()
	if r.failMessageAt == n {
		return conversation.NewStoreError("criar mensagem", errors.New("connection reset by peer"))
	}
	return r.Repository.CreateMessage(ctx, userID, m)
}

type recordingRecorder struct {
	exchanges   []string
	generations []string
	storeErrors []string
}

func (r *recordingRecorder) ObserveExchange(messageType, outcome string) {
	r.exchanges = append(r.exchanges, messageType+":"+outcome)
}
func (r *recordingRecorder) ObserveGeneration(kind, outcome string, _ time.Duration) {
	r.generations = append(r.generations, kind+":"+outcome)
}
func (r *recordingRecorder) ObserveStoreError(op string) {
	r.storeErrors = append(r.storeErrors, op)
}

type fixture struct {
	svc      *Service
	repo     *countingRepo
	gen      *fakeGenerator
	recorder *recordingRecorder
}

func newFixture() *fixture {
	repo := &countingRepo{Repository: repository.NewMemoryConversationRepository()}
	gen := &fakeGenerator{text: "Hello!"}
	rec := &recordingRecorder{}
	return &fixture{
		svc:      NewService(repo, gen, rec, logger.Nop{}),
		repo:     repo,
		gen:      gen,
		recorder: rec,
	}
}

func session(sub string) *auth.Session {
	return &auth.Session{User: auth.User{Sub: sub}}
}

func requireCode(t *testing.T, err error, code Code) *Error {
	t.Helper()
	var chatErr *Error
	require.ErrorAs(t, err, &chatErr)
	assert.Equal(t, code, chatErr.Code)
	return chatErr
}

func TestUnauthenticatedCallsFailBeforeAnyWork(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.ListConversations(ctx, nil)
	requireCode(t, err, CodeUnauthorized)

	_, err = f.svc.ListMessages(ctx, nil, "c1")
	requireCode(t, err, CodeUnauthorized)

	_, err = f.svc.CreateConversation(ctx, nil, "x")
	requireCode(t, err, CodeUnauthorized)

	_, err = f.svc.SendMessage(ctx, nil, SendMessageInput{ConversationID: "c1", Content: "Hi", MessageType: conversation.MessageTypeText})
	requireCode(t, err, CodeUnauthorized)

	err = f.svc.DeleteConversation(ctx, nil, "c1")
	requireCode(t, err, CodeUnauthorized)

	assert.Zero(t, f.repo.mutations)
	assert.Zero(t, f.gen.textCalls+f.gen.imgCalls)
}

func TestCreateConversationTitle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c, err := f.svc.CreateConversation(ctx, session("alice"), "")
	require.NoError(t, err)
	assert.Equal(t, "New Conversation", c.Title)

	c, err = f.svc.CreateConversation(ctx, session("alice"), "Trip plans")
	require.NoError(t, err)
	assert.Equal(t, "Trip plans", c.Title)
}

func TestSendMessageTextExchange(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sess := session("alice")

	c, err := f.svc.CreateConversation(ctx, sess, "")
	require.NoError(t, err)

	reply, err := f.svc.SendMessage(ctx, sess, SendMessageInput{ConversationID: c.ID, Content: "Hi", MessageType: conversation.MessageTypeText})
	require.NoError(t, err)
	assert.Equal(t, conversation.RoleAssistant, reply.Role)
	assert.Equal(t, "Hello!", reply.Content)
	assert.Equal(t, conversation.MessageTypeText, reply.MessageType)
	assert.NotEmpty(t, reply.ID)

	msgs, err := f.svc.ListMessages(ctx, sess, c.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, conversation.RoleUser, msgs[0].Role)
	assert.Equal(t, "Hi", msgs[0].Content)
	assert.Equal(t, conversation.RoleAssistant, msgs[1].Role)

	assert.Equal(t, 1, f.gen.textCalls)
	assert.Equal(t, []string{"text:success"}, f.recorder.exchanges)
	assert.Equal(t, []string{"text:success"}, f.recorder.generations)
}

func TestSendMessageImageExchange(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sess := session("alice")

	c, err := f.svc.CreateConversation(ctx, sess, "")
	require.NoError(t, err)

	reply, err := f.svc.SendMessage(ctx, sess, SendMessageInput{ConversationID: c.ID, Content: "a red fox", MessageType: conversation.MessageTypeImage})
	require.NoError(t, err)
	assert.Equal(t, placeholder, reply.Content)
	require.NotNil(t, reply.ImageURL)
	assert.Equal(t, placeholder, *reply.ImageURL)
	assert.Equal(t, conversation.MessageTypeImage, reply.MessageType)

	msgs, err := f.svc.ListMessages(ctx, sess, c.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, conversation.MessageTypeImage, msgs[0].MessageType)
	assert.Equal(t, 1, f.gen.imgCalls)
	assert.Zero(t, f.gen.textCalls)
}

func TestSendMessageFirstMessageCreatesConversation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sess := session("alice")
	content := strings.Repeat("x", 80)

	reply, err := f.svc.SendMessage(ctx, sess, SendMessageInput{Content: content, MessageType: conversation.MessageTypeText})
	require.NoError(t, err)

	conversations, err := f.svc.ListConversations(ctx, sess)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, strings.Repeat("x", 50)+"...", conversations[0].Title)
	assert.Equal(t, conversations[0].ID, reply.ConversationID)

	msgs, err := f.svc.ListMessages(ctx, sess, conversations[0].ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestSendMessageGenerationFailureKeepsUserMessage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sess := session("alice")
	f.gen.err = errors.New("HTTP 500")

	c, err := f.svc.CreateConversation(ctx, sess, "")
	require.NoError(t, err)

	_, err = f.svc.SendMessage(ctx, sess, SendMessageInput{ConversationID: c.ID, Content: "Hi", MessageType: conversation.MessageTypeText})
	chatErr := requireCode(t, err, CodeInternal)
	assert.Equal(t, "Failed to generate text response", chatErr.Message)

	msgs, err := f.svc.ListMessages(ctx, sess, c.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, conversation.RoleUser, msgs[0].Role)

	assert.Equal(t, []string{"text:error"}, f.recorder.exchanges)
	assert.Equal(t, []string{"text:error"}, f.recorder.generations)
}

func TestSendMessageUserInsertFailureSkipsGeneration(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sess := session("alice")
	f.repo.failMessageAt = 1

	c, err := f.svc.CreateConversation(ctx, sess, "")
	require.NoError(t, err)

	_, err = f.svc.SendMessage(ctx, sess, SendMessageInput{ConversationID: c.ID, Content: "Hi", MessageType: conversation.MessageTypeText})
	chatErr := requireCode(t, err, CodeInternal)
	assert.Equal(t, "connection reset by peer", chatErr.Message)

	assert.Zero(t, f.gen.textCalls)
	assert.Equal(t, []string{"create_user_message"}, f.recorder.storeErrors)
}

func TestSendMessageAssistantInsertFailureOrphansUserMessage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sess := session("alice")
	f.repo.failMessageAt = 2

	c, err := f.svc.CreateConversation(ctx, sess, "")
	require.NoError(t, err)

	_, err = f.svc.SendMessage(ctx, sess, SendMessageInput{ConversationID: c.ID, Content: "Hi", MessageType: conversation.MessageTypeText})
	requireCode(t, err, CodeInternal)

	msgs, err := f.svc.ListMessages(ctx, sess, c.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, conversation.RoleUser, msgs[0].Role)
	assert.Equal(t, 1, f.gen.textCalls)
}

func TestSendMessageToForeignConversation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c, err := f.svc.CreateConversation(ctx, session("alice"), "")
	require.NoError(t, err)

	_, err = f.svc.SendMessage(ctx, session("bob"), SendMessageInput{ConversationID: c.ID, Content: "Hi", MessageType: conversation.MessageTypeText})
	requireCode(t, err, CodeNotFound)
	assert.Zero(t, f.gen.textCalls)
	assert.Empty(t, f.recorder.storeErrors)
}

func TestSendMessageValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.SendMessage(ctx, session("alice"), SendMessageInput{Content: "Hi", MessageType: "video"})
	requireCode(t, err, CodeBadRequest)

	_, err = f.svc.SendMessage(ctx, session("alice"), SendMessageInput{Content: "   ", MessageType: conversation.MessageTypeText})
	requireCode(t, err, CodeBadRequest)

	assert.Zero(t, f.repo.mutations)
}

func TestDeleteConversationIsScopedByOwner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c, err := f.svc.CreateConversation(ctx, session("alice"), "")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteConversation(ctx, session("bob"), c.ID))

	list, err := f.svc.ListConversations(ctx, session("alice"))
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.svc.DeleteConversation(ctx, session("alice"), c.ID))
	list, err = f.svc.ListConversations(ctx, session("alice"))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAsError(t *testing.T) {
	typed := NotFound("x")
	assert.Same(t, typed, AsError(typed))

	plain := AsError(errors.New("boom"))
	assert.Equal(t, CodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Message)
}
