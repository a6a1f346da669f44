package handler

import (
	"github.com/gin-gonic/gin"

	"interview-prep/internal/app"
	"interview-prep/internal/transport/http/response"
)

type QuestionHandler struct {
	questionService *app.QuestionService
}

type CreateQuestionRequest struct {
	SessionID uint   `json:"sessionId"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Note      string `json:"note"`
}

type UpdateQuestionRequest struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
	Note     *string `json:"note"`
}

func NewQuestionHandler(questionService *app.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

func (h *QuestionHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	question, err := h.questionService.CreateQuestion(c.Request.Context(), app.CreateQuestionInput{
		UserID:    userID,
		SessionID: req.SessionID,
		Question:  req.Question,
		Answer:    req.Answer,
		Note:      req.Note,
	})
	if err != nil {
		writeError(c, err, "create question failed")
		return
	}
	response.Created(c, gin.H{"question": question})
}

func (h *QuestionHandler) ListBySession(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "sessionId")
	if !ok {
		return
	}

	questions, err := h.questionService.ListQuestions(c.Request.Context(), userID, sessionID)
	if err != nil {
		writeError(c, err, "list questions failed")
		return
	}
	response.OK(c, gin.H{"questions": questions, "total": len(questions)})
}

func (h *QuestionHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	question, err := h.questionService.UpdateQuestion(c.Request.Context(), app.UpdateQuestionInput{
		UserID:     userID,
		QuestionID: questionID,
		Question:   req.Question,
		Answer:     req.Answer,
		Note:       req.Note,
	})
	if err != nil {
		writeError(c, err, "update question failed")
		return
	}
	response.OK(c, gin.H{"question": question})
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.questionService.DeleteQuestion(c.Request.Context(), userID, questionID); err != nil {
		writeError(c, err, "delete question failed")
		return
	}
	response.OK(c, gin.H{"message": "question deleted successfully"})
}

func (h *QuestionHandler) TogglePin(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	question, err := h.questionService.TogglePin(c.Request.Context(), userID, questionID)
	if err != nil {
		writeError(c, err, "toggle pin failed")
		return
	}
	response.OK(c, gin.H{"question": question})
}
