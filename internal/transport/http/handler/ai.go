package handler

import (
	"github.com/gin-gonic/gin"

	"interview-prep/internal/app"
	"interview-prep/internal/transport/http/response"
)

type AIHandler struct {
	aiService *app.AIService
}

type GenerateQuestionsRequest struct {
	SessionID uint `json:"sessionId"`
}

type GetAnswerRequest struct {
	QuestionID uint `json:"questionId"`
}

func NewAIHandler(aiService *app.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

func (h *AIHandler) GenerateQuestions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req GenerateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	result, err := h.aiService.GenerateQuestions(c.Request.Context(), userID, req.SessionID)
	if err != nil {
		writeError(c, err, "generate questions failed")
		return
	}
	response.Created(c, result)
}

func (h *AIHandler) GetAnswer(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req GetAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	result, err := h.aiService.GetAnswer(c.Request.Context(), userID, req.QuestionID)
	if err != nil {
		writeError(c, err, "get answer failed")
		return
	}
	response.OK(c, result)
}
