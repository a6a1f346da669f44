package model

import (
	"time"

	"gorm.io/datatypes"
)

// Session is one interview-preparation context owned by a single user.
// QuestionIDs is the ordered index of the session's questions; the questions
// table (Question.SessionID) stays the source of truth.
type Session struct {
	ID            uint                      `gorm:"primaryKey" json:"id"`
	UserID        uint                      `gorm:"not null;index" json:"user"`
	Role          string                    `gorm:"size:128;not null" json:"role"`
	Experience    string                    `gorm:"size:128;not null" json:"experience"`
	TopicsToFocus string                    `gorm:"size:512;not null" json:"topicsToFocus"`
	Description   string                    `gorm:"type:text" json:"description"`
	QuestionIDs   datatypes.JSONSlice[uint] `json:"questionIds"`
	Questions     []Question                `gorm:"-" json:"questions"`
	CreatedAt     time.Time                 `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time                 `json:"updatedAt"`
}

// HasQuestion reports whether id is present in the session's index.
func (s *Session) HasQuestion(id uint) bool {
	for _, qid := range s.QuestionIDs {
		if qid == id {
			return true
		}
	}
	return false
}

// AppendQuestion adds id to the end of the index unless it is already there.
func (s *Session) AppendQuestion(id uint) {
	if s.HasQuestion(id) {
		return
	}
	s.QuestionIDs = append(s.QuestionIDs, id)
}

// RemoveQuestion drops every occurrence of id from the index.
func (s *Session) RemoveQuestion(id uint) {
	kept := make(datatypes.JSONSlice[uint], 0, len(s.QuestionIDs))
	for _, qid := range s.QuestionIDs {
		if qid != id {
			kept = append(kept, qid)
		}
	}
	s.QuestionIDs = kept
}
