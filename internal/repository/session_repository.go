package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"interview-prep/internal/model"
)

// ErrSessionGone is returned by transactional writes when the parent session
// disappeared between the caller's read and the write.
var ErrSessionGone = errors.New("session no longer exists")

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	if session.QuestionIDs == nil {
		session.QuestionIDs = []uint{}
	}
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("create session failed: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id uint) (*model.Session, error) {
	var session model.Session
	if err := r.db.WithContext(ctx).First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session failed: %w", err)
	}
	return &session, nil
}

// ListByUserID returns one page of the user's sessions, newest first, and the
// total number of sessions the user owns.
func (r *SessionRepository) ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]model.Session, int64, error) {
	var (
		sessions []model.Session
		total    int64
	)
	db := r.db.WithContext(ctx).Model(&model.Session{}).Where("user_id = ?", userID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count sessions failed: %w", err)
	}
	err := db.Order("created_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&sessions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list sessions failed: %w", err)
	}
	return sessions, total, nil
}

func (r *SessionRepository) ListIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&model.Session{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list session ids failed: %w", err)
	}
	return ids, nil
}

// UpdateDetails writes the user-editable fields only. The question index is
// owned by the transactional question writes and is never written from here.
func (r *SessionRepository) UpdateDetails(ctx context.Context, session *model.Session) error {
	err := r.db.WithContext(ctx).
		Model(session).
		Select("role", "experience", "topics_to_focus", "description").
		Updates(session).Error
	if err != nil {
		return fmt.Errorf("update session failed: %w", err)
	}
	return nil
}

// DeleteCascade removes the session's questions and then the session in a
// single transaction.
func (r *SessionRepository) DeleteCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockSession(tx, id); err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return fmt.Errorf("delete session questions failed: %w", err)
		}
		if err := tx.Delete(&model.Session{}, id).Error; err != nil {
			return fmt.Errorf("delete session failed: %w", err)
		}
		return nil
	})
}

// Reconcile rewrites the session's question index from the questions table.
// rebuild receives the stored index and the ids actually present (oldest
// first) and returns the index to store. The returned flag reports whether
// the stored index changed.
func (r *SessionRepository) Reconcile(ctx context.Context, id uint, rebuild func(indexed, actual []uint) []uint) (bool, error) {
	changed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := lockSession(tx, id)
		if err != nil {
			return err
		}
		var actual []uint
		err = tx.Model(&model.Question{}).
			Where("session_id = ?", id).
			Order("created_at ASC").Order("id ASC").
			Pluck("id", &actual).Error
		if err != nil {
			return fmt.Errorf("list session question ids failed: %w", err)
		}

		next := rebuild(session.QuestionIDs, actual)
		if equalIDs(session.QuestionIDs, next) {
			return nil
		}
		changed = true
		session.QuestionIDs = next
		return saveQuestionIDs(tx, session)
	})
	return changed, err
}

func lockSession(tx *gorm.DB, id uint) (*model.Session, error) {
	var session model.Session
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&session, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionGone
		}
		return nil, fmt.Errorf("lock session failed: %w", err)
	}
	return &session, nil
}

func saveQuestionIDs(tx *gorm.DB, session *model.Session) error {
	if session.QuestionIDs == nil {
		session.QuestionIDs = []uint{}
	}
	err := tx.Model(&model.Session{}).
		Where("id = ?", session.ID).
		Update("question_ids", session.QuestionIDs).Error
	if err != nil {
		return fmt.Errorf("update session question index failed: %w", err)
	}
	return nil
}

func equalIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
