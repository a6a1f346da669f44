package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-prep/internal/model"
	"interview-prep/internal/pkg/testdb"
)

func TestQuestionCreateAndDeleteKeepIndexInLockstep(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)
	sessions := NewSessionRepository(db)
	questions := NewQuestionRepository(db)

	s := newSession(1, "Backend Developer")
	require.NoError(t, sessions.Create(ctx, s))

	q := &model.Question{SessionID: s.ID, Question: "Explain event loop"}
	require.NoError(t, questions.CreateInSession(ctx, s.ID, q))

	got, err := sessions.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, got.QuestionIDs, 1)
	assert.Equal(t, q.ID, got.QuestionIDs[0])

	require.NoError(t, questions.DeleteFromSession(ctx, q))

	got, err = sessions.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, got.QuestionIDs, 0)

	row, err := questions.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestQuestionCreateBatchPreservesOrder(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)
	sessions := NewSessionRepository(db)
	questions := NewQuestionRepository(db)

	s := newSession(1, "batch")
	require.NoError(t, sessions.Create(ctx, s))

	batch := []*model.Question{
		{SessionID: s.ID, Question: "one"},
		{SessionID: s.ID, Question: "two"},
		{SessionID: s.ID, Question: "three"},
	}
	require.NoError(t, questions.CreateInSession(ctx, s.ID, batch...))

	got, err := sessions.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{batch[0].ID, batch[1].ID, batch[2].ID}, []uint(got.QuestionIDs))

	listed, err := questions.ListBySessionID(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "three", listed[0].Question)
}

func TestQuestionCreateRollsBackOnMismatchedSession(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)
	sessions := NewSessionRepository(db)
	questions := NewQuestionRepository(db)

	s := newSession(1, "rollback")
	require.NoError(t, sessions.Create(ctx, s))

	err := questions.CreateInSession(ctx, s.ID,
		&model.Question{SessionID: s.ID, Question: "fine"},
		&model.Question{SessionID: s.ID + 1, Question: "wrong parent"},
	)
	require.Error(t, err)

	listed, err := questions.ListBySessionID(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)

	got, err := sessions.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, got.QuestionIDs)
}

func TestQuestionCreateInMissingSession(t *testing.T) {
	questions := NewQuestionRepository(testdb.Open(t))

	err := questions.CreateInSession(context.Background(), 42, &model.Question{SessionID: 42, Question: "q"})
	assert.ErrorIs(t, err, ErrSessionGone)
}

func TestQuestionTogglePin(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)
	sessions := NewSessionRepository(db)
	questions := NewQuestionRepository(db)

	s := newSession(1, "pin")
	require.NoError(t, sessions.Create(ctx, s))
	q := &model.Question{SessionID: s.ID, Question: "pin me", Note: "keep"}
	require.NoError(t, questions.CreateInSession(ctx, s.ID, q))

	pinned, err := questions.TogglePin(ctx, q.ID)
	require.NoError(t, err)
	require.NotNil(t, pinned)
	assert.True(t, pinned.IsPinned)
	assert.Equal(t, "keep", pinned.Note)

	unpinned, err := questions.TogglePin(ctx, q.ID)
	require.NoError(t, err)
	assert.False(t, unpinned.IsPinned)

	missing, err := questions.TogglePin(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestQuestionUpdateContentWritesEmptyStrings(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)
	sessions := NewSessionRepository(db)
	questions := NewQuestionRepository(db)

	s := newSession(1, "update")
	require.NoError(t, sessions.Create(ctx, s))
	q := &model.Question{SessionID: s.ID, Question: "q", Answer: "a", Note: "n"}
	require.NoError(t, questions.CreateInSession(ctx, s.ID, q))

	q.Answer = ""
	require.NoError(t, questions.UpdateContent(ctx, q))

	got, err := questions.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Answer)
	assert.Equal(t, "n", got.Note)

	require.NoError(t, questions.UpdateAnswer(ctx, q.ID, "generated"))
	got, err = questions.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "generated", got.Answer)
}
