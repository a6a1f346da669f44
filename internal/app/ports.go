package app

import (
	"context"

	"interview-prep/internal/ai"
	"interview-prep/internal/model"
)

// QuestionCache stores a session's question list under a version. Readers
// take the version before loading from the database and store under it;
// Invalidate moves to a new version so lists loaded before a write are never
// served after it. Every error is treated as a miss.
type QuestionCache interface {
	Version(ctx context.Context, sessionID uint) (uint64, error)
	GetQuestions(ctx context.Context, sessionID uint, version uint64) ([]model.Question, bool, error)
	SetQuestions(ctx context.Context, sessionID uint, version uint64, questions []model.Question) error
	Invalidate(ctx context.Context, sessionID uint) error
}

// ReconcileQueue schedules an asynchronous repair of a session's question index.
type ReconcileQueue interface {
	EnqueueReconcile(ctx context.Context, sessionID uint) error
}

type ChatCompleter interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
}
