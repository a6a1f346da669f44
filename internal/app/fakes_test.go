package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"interview-prep/internal/ai"
	"interview-prep/internal/model"
	"interview-prep/internal/pkg/testdb"
	"interview-prep/internal/repository"
)

type cacheEntry struct {
	version   uint64
	questions []model.Question
}

type memoryCache struct {
	mu          sync.Mutex
	versions    map[uint]uint64
	entries     map[uint]cacheEntry
	invalidated []uint
	// beforeSet runs ahead of every SetQuestions; tests use it to slip a
	// write in between a reader's load and its store.
	beforeSet func()
}

func newMemoryCache() *memoryCache {
	return &memoryCache{versions: make(map[uint]uint64), entries: make(map[uint]cacheEntry)}
}

func (c *memoryCache) Version(_ context.Context, sessionID uint) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[sessionID], nil
}

func (c *memoryCache) GetQuestions(_ context.Context, sessionID uint, version uint64) ([]model.Question, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[sessionID]
	if !ok || e.version != version {
		return nil, false, nil
	}
	return e.questions, true, nil
}

func (c *memoryCache) SetQuestions(_ context.Context, sessionID uint, version uint64, questions []model.Question) error {
	if hook := c.beforeSet; hook != nil {
		c.beforeSet = nil
		hook()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[sessionID] = cacheEntry{version: version, questions: questions}
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, sessionID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[sessionID]++
	delete(c.entries, sessionID)
	c.invalidated = append(c.invalidated, sessionID)
	return nil
}

// cached reports what a reader at the current version would see.
func (c *memoryCache) cached(sessionID uint) ([]model.Question, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[sessionID]
	if !ok || e.version != c.versions[sessionID] {
		return nil, false
	}
	return e.questions, true
}

type recordingQueue struct {
	mu       sync.Mutex
	enqueued []uint
}

func (q *recordingQueue) EnqueueReconcile(_ context.Context, sessionID uint) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.enqueued = append(q.enqueued, sessionID)
	return nil
}

type fakeCompleter struct {
	reply    string
	err      error
	calls    int
	messages []ai.ChatMessage
}

func (f *fakeCompleter) Complete(_ context.Context, _ ai.ChatConfig, messages []ai.ChatMessage) (string, error) {
	f.calls++
	f.messages = messages
	return f.reply, f.err
}

var errModelDown = errors.New("connection refused")

type fixture struct {
	db        *gorm.DB
	sessions  *repository.SessionRepository
	questions *repository.QuestionRepository
	cache     *memoryCache
	queue     *recordingQueue
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)
	return &fixture{
		db:        db,
		sessions:  repository.NewSessionRepository(db),
		questions: repository.NewQuestionRepository(db),
		cache:     newMemoryCache(),
		queue:     &recordingQueue{},
	}
}

func (f *fixture) sessionService() *SessionService {
	return NewSessionService(f.sessions, f.questions, f.cache, f.queue, nil)
}

func (f *fixture) questionService() *QuestionService {
	return NewQuestionService(f.sessions, f.questions, f.cache, nil)
}

func (f *fixture) aiService(client ChatCompleter, cfg ai.ChatConfig) *AIService {
	return NewAIService(f.sessions, f.questions, client, cfg, f.cache, nil)
}

func (f *fixture) createSession(t *testing.T, userID uint) *model.Session {
	t.Helper()
	s, err := f.sessionService().CreateSession(context.Background(), CreateSessionInput{
		UserID:        userID,
		Role:          "Backend Developer",
		Experience:    "2 years",
		TopicsToFocus: "Node.js, MongoDB",
	})
	require.NoError(t, err)
	return s
}

func (f *fixture) createQuestion(t *testing.T, userID, sessionID uint, text string) *model.Question {
	t.Helper()
	q, err := f.questionService().CreateQuestion(context.Background(), CreateQuestionInput{
		UserID:    userID,
		SessionID: sessionID,
		Question:  text,
	})
	require.NoError(t, err)
	return q
}

func (f *fixture) questionCount(t *testing.T, sessionID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.Question{}).Where("session_id = ?", sessionID).Count(&n).Error)
	return n
}

func strPtr(s string) *string { return &s }

var configuredAI = ai.ChatConfig{BaseURL: "http://model.test", APIKey: "key", Model: "test-model"}
