package app

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"interview-prep/internal/model"
	"interview-prep/internal/repository"
)

type QuestionService struct {
	own          ownership
	questionRepo *repository.QuestionRepository
	cache        QuestionCache
	logger       *zap.Logger
}

type CreateQuestionInput struct {
	UserID    uint
	SessionID uint
	Question  string
	Answer    string
	Note      string
}

// UpdateQuestionInput uses nil for "not supplied". An empty Question keeps the
// stored text; Answer and Note are overwritten whenever supplied.
type UpdateQuestionInput struct {
	UserID     uint
	QuestionID uint
	Question   *string
	Answer     *string
	Note       *string
}

func NewQuestionService(
	sessionRepo *repository.SessionRepository,
	questionRepo *repository.QuestionRepository,
	cache QuestionCache,
	logger *zap.Logger,
) *QuestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionService{
		own:          ownership{sessions: sessionRepo, questions: questionRepo},
		questionRepo: questionRepo,
		cache:        cache,
		logger:       logger,
	}
}

func (s *QuestionService) CreateQuestion(ctx context.Context, input CreateQuestionInput) (*model.Question, error) {
	text := strings.TrimSpace(input.Question)
	if input.SessionID == 0 || text == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.own.session(ctx, input.UserID, input.SessionID); err != nil {
		return nil, err
	}

	question := &model.Question{
		SessionID: input.SessionID,
		Question:  text,
		Answer:    input.Answer,
		Note:      input.Note,
	}
	if err := s.questionRepo.CreateInSession(ctx, input.SessionID, question); err != nil {
		if errors.Is(err, repository.ErrSessionGone) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	invalidateQuestions(ctx, s.cache, s.logger, input.SessionID)
	return question, nil
}

// ListQuestions returns the session's questions, newest first.
func (s *QuestionService) ListQuestions(ctx context.Context, userID, sessionID uint) ([]model.Question, error) {
	if _, err := s.own.session(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	version, cacheable := s.cacheVersion(ctx, sessionID)
	if cacheable {
		cached, ok, err := s.cache.GetQuestions(ctx, sessionID, version)
		if err != nil {
			s.logger.Warn("read question cache failed", zap.Uint("session_id", sessionID), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	questions, err := s.questionRepo.ListBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []model.Question{}
	}
	if cacheable {
		if err := s.cache.SetQuestions(ctx, sessionID, version, questions); err != nil {
			s.logger.Warn("write question cache failed", zap.Uint("session_id", sessionID), zap.Error(err))
		}
	}
	return questions, nil
}

// cacheVersion must run before the database read it guards.
func (s *QuestionService) cacheVersion(ctx context.Context, sessionID uint) (uint64, bool) {
	if s.cache == nil {
		return 0, false
	}
	version, err := s.cache.Version(ctx, sessionID)
	if err != nil {
		s.logger.Warn("read question cache version failed", zap.Uint("session_id", sessionID), zap.Error(err))
		return 0, false
	}
	return version, true
}

func (s *QuestionService) UpdateQuestion(ctx context.Context, input UpdateQuestionInput) (*model.Question, error) {
	question, _, err := s.own.question(ctx, input.UserID, input.QuestionID)
	if err != nil {
		return nil, err
	}

	if input.Question != nil {
		if text := strings.TrimSpace(*input.Question); text != "" {
			question.Question = text
		}
	}
	if input.Answer != nil {
		question.Answer = *input.Answer
	}
	if input.Note != nil {
		question.Note = *input.Note
	}

	if err := s.questionRepo.UpdateContent(ctx, question); err != nil {
		return nil, err
	}
	invalidateQuestions(ctx, s.cache, s.logger, question.SessionID)
	return question, nil
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, userID, questionID uint) error {
	question, _, err := s.own.question(ctx, userID, questionID)
	if err != nil {
		return err
	}
	if err := s.questionRepo.DeleteFromSession(ctx, question); err != nil {
		if errors.Is(err, repository.ErrSessionGone) {
			return ErrQuestionNotFound
		}
		return err
	}
	invalidateQuestions(ctx, s.cache, s.logger, question.SessionID)
	return nil
}

func (s *QuestionService) TogglePin(ctx context.Context, userID, questionID uint) (*model.Question, error) {
	question, _, err := s.own.question(ctx, userID, questionID)
	if err != nil {
		return nil, err
	}
	updated, err := s.questionRepo.TogglePin(ctx, question.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrQuestionNotFound
	}
	invalidateQuestions(ctx, s.cache, s.logger, updated.SessionID)
	return updated, nil
}
