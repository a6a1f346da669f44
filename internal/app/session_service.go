package app

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"interview-prep/internal/model"
	"interview-prep/internal/repository"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

type SessionService struct {
	own          ownership
	sessionRepo  *repository.SessionRepository
	questionRepo *repository.QuestionRepository
	cache        QuestionCache
	reconcile    ReconcileQueue
	logger       *zap.Logger
}

type CreateSessionInput struct {
	UserID        uint
	Role          string
	Experience    string
	TopicsToFocus string
	Description   string
}

// UpdateSessionInput uses nil for "not supplied". Role, Experience and
// TopicsToFocus also keep their value when supplied empty; Description is
// cleared by an explicit empty string.
type UpdateSessionInput struct {
	UserID        uint
	SessionID     uint
	Role          *string
	Experience    *string
	TopicsToFocus *string
	Description   *string
}

type ListSessionsInput struct {
	UserID uint
	Page   int
	Limit  int
}

type Pagination struct {
	CurrentPage   int   `json:"currentPage"`
	TotalPages    int   `json:"totalPages"`
	TotalSessions int64 `json:"totalSessions"`
	HasMore       bool  `json:"hasMore"`
}

type SessionPage struct {
	Sessions   []model.Session `json:"sessions"`
	Pagination Pagination      `json:"pagination"`
}

func NewSessionService(
	sessionRepo *repository.SessionRepository,
	questionRepo *repository.QuestionRepository,
	cache QuestionCache,
	reconcile ReconcileQueue,
	logger *zap.Logger,
) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		own:          ownership{sessions: sessionRepo, questions: questionRepo},
		sessionRepo:  sessionRepo,
		questionRepo: questionRepo,
		cache:        cache,
		reconcile:    reconcile,
		logger:       logger,
	}
}

func (s *SessionService) CreateSession(ctx context.Context, input CreateSessionInput) (*model.Session, error) {
	role := strings.TrimSpace(input.Role)
	experience := strings.TrimSpace(input.Experience)
	topics := strings.TrimSpace(input.TopicsToFocus)
	if input.UserID == 0 || role == "" || experience == "" || topics == "" {
		return nil, ErrInvalidInput
	}

	session := &model.Session{
		UserID:        input.UserID,
		Role:          role,
		Experience:    experience,
		TopicsToFocus: topics,
		Description:   strings.TrimSpace(input.Description),
		QuestionIDs:   []uint{},
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	session.Questions = []model.Question{}
	return session, nil
}

func (s *SessionService) ListSessions(ctx context.Context, input ListSessionsInput) (*SessionPage, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	page, limit := normalizePage(input.Page, input.Limit)

	sessions, total, err := s.sessionRepo.ListByUserID(ctx, input.UserID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(sessions))
	for i := range sessions {
		ids[i] = sessions[i].ID
	}
	questions, err := s.questionRepo.ListBySessionIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	bySession := make(map[uint][]model.Question, len(sessions))
	for _, q := range questions {
		bySession[q.SessionID] = append(bySession[q.SessionID], q)
	}
	for i := range sessions {
		s.attachQuestions(ctx, &sessions[i], bySession[sessions[i].ID])
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &SessionPage{
		Sessions: sessions,
		Pagination: Pagination{
			CurrentPage:   page,
			TotalPages:    totalPages,
			TotalSessions: total,
			HasMore:       int64(page*limit) < total,
		},
	}, nil
}

// GetSession returns the session with its questions in index order. The
// questions table is authoritative: if the stored index disagrees, the answer
// is built from the table and a repair is queued.
func (s *SessionService) GetSession(ctx context.Context, userID, sessionID uint) (*model.Session, error) {
	session, err := s.own.session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.populate(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) UpdateSession(ctx context.Context, input UpdateSessionInput) (*model.Session, error) {
	session, err := s.own.session(ctx, input.UserID, input.SessionID)
	if err != nil {
		return nil, err
	}

	session.Role = keepUnlessSet(session.Role, input.Role)
	session.Experience = keepUnlessSet(session.Experience, input.Experience)
	session.TopicsToFocus = keepUnlessSet(session.TopicsToFocus, input.TopicsToFocus)
	if input.Description != nil {
		session.Description = strings.TrimSpace(*input.Description)
	}

	if err := s.sessionRepo.UpdateDetails(ctx, session); err != nil {
		return nil, err
	}
	if err := s.populate(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) DeleteSession(ctx context.Context, userID, sessionID uint) error {
	if _, err := s.own.session(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := s.sessionRepo.DeleteCascade(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrSessionGone) {
			return ErrSessionNotFound
		}
		return err
	}
	invalidateQuestions(ctx, s.cache, s.logger, sessionID)
	return nil
}

func (s *SessionService) populate(ctx context.Context, session *model.Session) error {
	questions, err := s.questionRepo.ListBySessionIDs(ctx, []uint{session.ID})
	if err != nil {
		return err
	}
	s.attachQuestions(ctx, session, questions)
	return nil
}

// attachQuestions sets session.Questions in index order. On drift the index
// in the response is rebuilt from the questions and a repair is queued.
func (s *SessionService) attachQuestions(ctx context.Context, session *model.Session, questions []model.Question) {
	ordered, drifted := orderByIndex(session.QuestionIDs, questions)
	session.Questions = ordered
	if !drifted {
		return
	}

	actual := make([]uint, len(ordered))
	for i := range ordered {
		actual[i] = ordered[i].ID
	}
	s.logger.Warn("session question index drifted",
		zap.Uint("session_id", session.ID),
		zap.Uints("indexed", session.QuestionIDs),
		zap.Uints("actual", actual),
	)
	session.QuestionIDs = actual
	if s.reconcile != nil {
		if err := s.reconcile.EnqueueReconcile(ctx, session.ID); err != nil {
			s.logger.Error("enqueue session reconcile failed", zap.Uint("session_id", session.ID), zap.Error(err))
		}
	}
}

// orderByIndex arranges questions (oldest first) by the session's stored
// index. Questions missing from the index go last; index entries without a
// question are skipped. drifted reports either kind of mismatch.
func orderByIndex(index []uint, questions []model.Question) ([]model.Question, bool) {
	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	ordered := make([]model.Question, 0, len(questions))
	placed := make(map[uint]bool, len(questions))
	drifted := false
	for _, id := range index {
		q, ok := byID[id]
		if !ok || placed[id] {
			drifted = true
			continue
		}
		ordered = append(ordered, q)
		placed[id] = true
	}
	for _, q := range questions {
		if !placed[q.ID] {
			ordered = append(ordered, q)
			drifted = true
		}
	}
	return ordered, drifted
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

func keepUnlessSet(current string, next *string) string {
	if next == nil {
		return current
	}
	if trimmed := strings.TrimSpace(*next); trimmed != "" {
		return trimmed
	}
	return current
}

func invalidateQuestions(ctx context.Context, cache QuestionCache, logger *zap.Logger, sessionID uint) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, sessionID); err != nil {
		logger.Warn("invalidate question cache failed", zap.Uint("session_id", sessionID), zap.Error(err))
	}
}
