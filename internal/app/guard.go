package app

import (
	"context"

	"interview-prep/internal/model"
	"interview-prep/internal/repository"
)

// Authorize is the single ownership rule: the requester must be the owner.
// A zero id on either side never matches.
func Authorize(requesterID, ownerID uint) error {
	if requesterID == 0 || ownerID == 0 || requesterID != ownerID {
		return ErrForbidden
	}
	return nil
}

// ownership resolves documents and applies Authorize to them. Questions are
// owned through their parent session.
type ownership struct {
	sessions  *repository.SessionRepository
	questions *repository.QuestionRepository
}

func (o ownership) session(ctx context.Context, requesterID, sessionID uint) (*model.Session, error) {
	if sessionID == 0 {
		return nil, ErrInvalidInput
	}
	session, err := o.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if err := Authorize(requesterID, session.UserID); err != nil {
		return nil, err
	}
	return session, nil
}

func (o ownership) question(ctx context.Context, requesterID, questionID uint) (*model.Question, *model.Session, error) {
	if questionID == 0 {
		return nil, nil, ErrInvalidInput
	}
	question, err := o.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, nil, err
	}
	if question == nil {
		return nil, nil, ErrQuestionNotFound
	}
	session, err := o.sessions.GetByID(ctx, question.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		// A question without a parent is unreachable for every user.
		return nil, nil, ErrQuestionNotFound
	}
	if err := Authorize(requesterID, session.UserID); err != nil {
		return nil, nil, err
	}
	return question, session, nil
}
