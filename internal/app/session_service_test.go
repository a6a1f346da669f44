package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-prep/internal/model"
)

func TestCreateSessionValidation(t *testing.T) {
	f := newFixture(t)
	svc := f.sessionService()

	_, err := svc.CreateSession(context.Background(), CreateSessionInput{UserID: 1, Role: "  ", Experience: "2 years", TopicsToFocus: "Go"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	s, err := svc.CreateSession(context.Background(), CreateSessionInput{
		UserID:        1,
		Role:          " Backend Developer ",
		Experience:    "2 years",
		TopicsToFocus: "Node.js, MongoDB",
	})
	require.NoError(t, err)
	assert.NotZero(t, s.ID)
	assert.Equal(t, "Backend Developer", s.Role)
	assert.Empty(t, s.QuestionIDs)
	assert.NotNil(t, s.Questions)
	assert.False(t, s.CreatedAt.IsZero())
}

func TestListSessionsPagination(t *testing.T) {
	f := newFixture(t)
	svc := f.sessionService()
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		_, err := svc.CreateSession(ctx, CreateSessionInput{UserID: 1, Role: fmt.Sprintf("role-%d", i), Experience: "mid", TopicsToFocus: "Go"})
		require.NoError(t, err)
	}
	f.createSession(t, 2)

	page, err := svc.ListSessions(ctx, ListSessionsInput{UserID: 1, Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Sessions, 5)
	assert.Equal(t, Pagination{CurrentPage: 2, TotalPages: 2, TotalSessions: 15, HasMore: false}, page.Pagination)

	first, err := svc.ListSessions(ctx, ListSessionsInput{UserID: 1})
	require.NoError(t, err)
	assert.Len(t, first.Sessions, 10)
	assert.Equal(t, 1, first.Pagination.CurrentPage)
	assert.True(t, first.Pagination.HasMore)
	assert.Equal(t, "role-14", first.Sessions[0].Role)
	for _, s := range first.Sessions {
		assert.Equal(t, uint(1), s.UserID)
	}
}

func TestListSessionsPopulatesQuestionsInIndexOrder(t *testing.T) {
	f := newFixture(t)
	s := f.createSession(t, 1)
	q1 := f.createQuestion(t, 1, s.ID, "first")
	q2 := f.createQuestion(t, 1, s.ID, "second")

	page, err := f.sessionService().ListSessions(context.Background(), ListSessionsInput{UserID: 1})
	require.NoError(t, err)
	require.Len(t, page.Sessions, 1)
	require.Len(t, page.Sessions[0].Questions, 2)
	assert.Equal(t, q1.ID, page.Sessions[0].Questions[0].ID)
	assert.Equal(t, q2.ID, page.Sessions[0].Questions[1].ID)
}

func TestGetSessionOwnership(t *testing.T) {
	f := newFixture(t)
	svc := f.sessionService()
	s := f.createSession(t, 1)
	f.createQuestion(t, 1, s.ID, "Explain event loop")

	got, err := svc.GetSession(context.Background(), 1, s.ID)
	require.NoError(t, err)
	require.Len(t, got.Questions, 1)
	assert.Equal(t, "Explain event loop", got.Questions[0].Question)

	_, err = svc.GetSession(context.Background(), 2, s.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetSession(context.Background(), 1, s.ID+100)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Empty(t, f.queue.enqueued)
}

func TestGetSessionAnswersFromQuestionsTableOnDrift(t *testing.T) {
	f := newFixture(t)
	s := f.createSession(t, 1)
	indexed := f.createQuestion(t, 1, s.ID, "indexed")

	stray := &model.Question{SessionID: s.ID, Question: "written behind the index"}
	require.NoError(t, f.db.Create(stray).Error)

	got, err := f.sessionService().GetSession(context.Background(), 1, s.ID)
	require.NoError(t, err)
	require.Len(t, got.Questions, 2)
	assert.Equal(t, indexed.ID, got.Questions[0].ID)
	assert.Equal(t, stray.ID, got.Questions[1].ID)
	assert.Equal(t, []uint{indexed.ID, stray.ID}, []uint(got.QuestionIDs))
	assert.Equal(t, []uint{s.ID}, f.queue.enqueued)
}

func TestListSessionsRepairsDriftedIndexInResponse(t *testing.T) {
	f := newFixture(t)
	s := f.createSession(t, 1)
	indexed := f.createQuestion(t, 1, s.ID, "indexed")
	stray := &model.Question{SessionID: s.ID, Question: "written behind the index"}
	require.NoError(t, f.db.Create(stray).Error)
	clean := f.createSession(t, 1)
	f.createQuestion(t, 1, clean.ID, "fine")

	page, err := f.sessionService().ListSessions(context.Background(), ListSessionsInput{UserID: 1})
	require.NoError(t, err)
	require.Len(t, page.Sessions, 2)

	var drifted model.Session
	for _, got := range page.Sessions {
		if got.ID == s.ID {
			drifted = got
		}
	}
	assert.Equal(t, []uint{indexed.ID, stray.ID}, []uint(drifted.QuestionIDs))
	require.Len(t, drifted.Questions, 2)
	assert.Equal(t, []uint{s.ID}, f.queue.enqueued)
}

func TestUpdateSessionPartial(t *testing.T) {
	f := newFixture(t)
	svc := f.sessionService()
	ctx := context.Background()

	s, err := svc.CreateSession(ctx, CreateSessionInput{UserID: 1, Role: "Backend", Experience: "2 years", TopicsToFocus: "Go", Description: "notes"})
	require.NoError(t, err)

	got, err := svc.UpdateSession(ctx, UpdateSessionInput{UserID: 1, SessionID: s.ID, Experience: strPtr("5 years"), Role: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "Backend", got.Role)
	assert.Equal(t, "5 years", got.Experience)
	assert.Equal(t, "Go", got.TopicsToFocus)
	assert.Equal(t, "notes", got.Description)

	got, err = svc.UpdateSession(ctx, UpdateSessionInput{UserID: 1, SessionID: s.ID, Description: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "", got.Description)

	stored, err := f.sessions.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "5 years", stored.Experience)
	assert.Equal(t, "", stored.Description)

	_, err = svc.UpdateSession(ctx, UpdateSessionInput{UserID: 2, SessionID: s.ID, Role: strPtr("Hijacked")})
	assert.ErrorIs(t, err, ErrForbidden)
	stored, err = f.sessions.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backend", stored.Role)
}

func TestDeleteSessionCascades(t *testing.T) {
	f := newFixture(t)
	svc := f.sessionService()
	ctx := context.Background()

	s := f.createSession(t, 1)
	other := f.createSession(t, 1)
	for i := 0; i < 3; i++ {
		f.createQuestion(t, 1, s.ID, fmt.Sprintf("q%d", i))
	}
	kept := f.createQuestion(t, 1, other.ID, "keep me")

	assert.ErrorIs(t, svc.DeleteSession(ctx, 2, s.ID), ErrForbidden)
	assert.Equal(t, int64(3), f.questionCount(t, s.ID))

	require.NoError(t, svc.DeleteSession(ctx, 1, s.ID))
	assert.Equal(t, int64(0), f.questionCount(t, s.ID))
	assert.Contains(t, f.cache.invalidated, s.ID)

	gone, err := f.sessions.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	row, err := f.questions.GetByID(ctx, kept.ID)
	require.NoError(t, err)
	assert.NotNil(t, row)

	assert.ErrorIs(t, svc.DeleteSession(ctx, 1, s.ID), ErrSessionNotFound)
}

func TestOrderByIndex(t *testing.T) {
	qs := []model.Question{{ID: 1}, {ID: 2}, {ID: 3}}

	ordered, drifted := orderByIndex([]uint{3, 1, 2}, qs)
	assert.False(t, drifted)
	assert.Equal(t, uint(3), ordered[0].ID)
	assert.Equal(t, uint(2), ordered[2].ID)

	ordered, drifted = orderByIndex([]uint{2, 9}, qs)
	assert.True(t, drifted)
	require.Len(t, ordered, 3)
	assert.Equal(t, []uint{2, 1, 3}, []uint{ordered[0].ID, ordered[1].ID, ordered[2].ID})
}

func TestNormalizePage(t *testing.T) {
	page, limit := normalizePage(0, -1)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	page, limit = normalizePage(3, 500)
	assert.Equal(t, 3, page)
	assert.Equal(t, maxPageSize, limit)
}
