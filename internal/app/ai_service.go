package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"interview-prep/internal/ai"
	"interview-prep/internal/metrics"
	"interview-prep/internal/model"
	"interview-prep/internal/repository"
)

const (
	opGenerateQuestions = "generate_questions"
	opGetAnswer         = "get_answer"
)

// AIService bridges sessions and questions to an external chat model. The
// model configuration is fixed at construction.
type AIService struct {
	own          ownership
	questionRepo *repository.QuestionRepository
	client       ChatCompleter
	cfg          ai.ChatConfig
	cache        QuestionCache
	logger       *zap.Logger
}

type GeneratedQuestions struct {
	Questions []model.Question `json:"questions"`
	Count     int              `json:"count"`
}

type GeneratedAnswer struct {
	Answer   string          `json:"answer"`
	Question *model.Question `json:"question"`
}

func NewAIService(
	sessionRepo *repository.SessionRepository,
	questionRepo *repository.QuestionRepository,
	client ChatCompleter,
	cfg ai.ChatConfig,
	cache QuestionCache,
	logger *zap.Logger,
) *AIService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIService{
		own:          ownership{sessions: sessionRepo, questions: questionRepo},
		questionRepo: questionRepo,
		client:       client,
		cfg:          cfg,
		cache:        cache,
		logger:       logger,
	}
}

// GenerateQuestions asks the model for questions matching the session and
// stores every usable one. Either all extracted questions are stored or none.
func (s *AIService) GenerateQuestions(ctx context.Context, userID, sessionID uint) (*GeneratedQuestions, error) {
	session, err := s.own.session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !s.configured() {
		return nil, ErrAINotConfigured
	}

	messages := ai.QuestionsMessages(session.Role, session.Experience, session.TopicsToFocus, ai.DefaultQuestionCount, s.cfg.JSONMode)
	text, elapsed, err := s.complete(ctx, opGenerateQuestions, messages)
	if err != nil {
		return nil, err
	}

	texts, err := ai.ExtractQuestions(text)
	if err != nil {
		metrics.ObserveAICall(opGenerateQuestions, "parse_error", elapsed)
		s.logger.Warn("model response had no question array",
			zap.Uint("session_id", sessionID),
			zap.Int("response_length", len(text)),
		)
		return nil, fmt.Errorf("%w: %v", ErrAIResponseParse, err)
	}
	metrics.ObserveAICall(opGenerateQuestions, "success", elapsed)

	questions := make([]*model.Question, len(texts))
	for i, t := range texts {
		questions[i] = &model.Question{SessionID: sessionID, Question: t}
	}
	if err := s.questionRepo.CreateInSession(ctx, sessionID, questions...); err != nil {
		if errors.Is(err, repository.ErrSessionGone) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if len(questions) > 0 {
		invalidateQuestions(ctx, s.cache, s.logger, sessionID)
	}

	out := make([]model.Question, len(questions))
	for i, q := range questions {
		out[i] = *q
	}
	s.logger.Info("generated questions", zap.Uint("session_id", sessionID), zap.Int("count", len(out)))
	return &GeneratedQuestions{Questions: out, Count: len(out)}, nil
}

// GetAnswer asks the model to answer a stored question and saves the reply
// verbatim as the question's answer.
func (s *AIService) GetAnswer(ctx context.Context, userID, questionID uint) (*GeneratedAnswer, error) {
	question, session, err := s.own.question(ctx, userID, questionID)
	if err != nil {
		return nil, err
	}
	if !s.configured() {
		return nil, ErrAINotConfigured
	}

	text, elapsed, err := s.complete(ctx, opGetAnswer, ai.AnswerMessages(question.Question, session.Role, session.Experience))
	if err != nil {
		return nil, err
	}
	metrics.ObserveAICall(opGetAnswer, "success", elapsed)

	if err := s.questionRepo.UpdateAnswer(ctx, question.ID, text); err != nil {
		return nil, err
	}
	question.Answer = text
	invalidateQuestions(ctx, s.cache, s.logger, question.SessionID)
	return &GeneratedAnswer{Answer: text, Question: question}, nil
}

func (s *AIService) configured() bool {
	return s.client != nil && s.cfg.Configured()
}

// complete performs one model call. Failures are recorded here; the caller
// records the outcome of a successful call once it has used the text.
func (s *AIService) complete(ctx context.Context, operation string, messages []ai.ChatMessage) (string, time.Duration, error) {
	start := time.Now()
	text, err := s.client.Complete(ctx, s.cfg, messages)
	elapsed := time.Since(start)
	if err != nil {
		metrics.ObserveAICall(operation, "error", elapsed)
		s.logger.Error("model call failed", zap.String("operation", operation), zap.Duration("elapsed", elapsed), zap.Error(err))
		return "", elapsed, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}
	return text, elapsed, nil
}
