package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"interview-prep/internal/model"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// CreateInSession inserts the questions and appends their ids to the session's
// index, all in one transaction. Every question must carry sessionID.
func (r *QuestionRepository) CreateInSession(ctx context.Context, sessionID uint, questions ...*model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := lockSession(tx, sessionID)
		if err != nil {
			return err
		}
		for _, q := range questions {
			if q.SessionID != sessionID {
				return fmt.Errorf("question belongs to session %d, not %d", q.SessionID, sessionID)
			}
			if err := tx.Create(q).Error; err != nil {
				return fmt.Errorf("create question failed: %w", err)
			}
			session.AppendQuestion(q.ID)
		}
		return saveQuestionIDs(tx, session)
	})
}

func (r *QuestionRepository) GetByID(ctx context.Context, id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get question failed: %w", err)
	}
	return &question, nil
}

// ListBySessionID returns the session's questions, newest first.
func (r *QuestionRepository) ListBySessionID(ctx context.Context, sessionID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").Order("id DESC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("list questions failed: %w", err)
	}
	return questions, nil
}

func (r *QuestionRepository) ListBySessionIDs(ctx context.Context, sessionIDs []uint) ([]model.Question, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	var questions []model.Question
	err := r.db.WithContext(ctx).
		Where("session_id IN ?", sessionIDs).
		Order("created_at ASC").Order("id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("list questions by sessions failed: %w", err)
	}
	return questions, nil
}

func (r *QuestionRepository) UpdateContent(ctx context.Context, question *model.Question) error {
	err := r.db.WithContext(ctx).
		Model(question).
		Select("question", "answer", "note").
		Updates(question).Error
	if err != nil {
		return fmt.Errorf("update question failed: %w", err)
	}
	return nil
}

func (r *QuestionRepository) UpdateAnswer(ctx context.Context, id uint, answer string) error {
	err := r.db.WithContext(ctx).
		Model(&model.Question{}).
		Where("id = ?", id).
		Update("answer", answer).Error
	if err != nil {
		return fmt.Errorf("update question answer failed: %w", err)
	}
	return nil
}

// TogglePin flips is_pinned in a single statement and returns the stored row.
func (r *QuestionRepository) TogglePin(ctx context.Context, id uint) (*model.Question, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Question{}).
		Where("id = ?", id).
		Update("is_pinned", gorm.Expr("NOT is_pinned"))
	if res.Error != nil {
		return nil, fmt.Errorf("toggle question pin failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

// DeleteFromSession removes the question and pulls its id out of the parent
// session's index in one transaction.
func (r *QuestionRepository) DeleteFromSession(ctx context.Context, question *model.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := lockSession(tx, question.SessionID)
		if err != nil {
			return err
		}
		session.RemoveQuestion(question.ID)
		if err := saveQuestionIDs(tx, session); err != nil {
			return err
		}
		if err := tx.Delete(&model.Question{}, question.ID).Error; err != nil {
			return fmt.Errorf("delete question failed: %w", err)
		}
		return nil
	})
}
