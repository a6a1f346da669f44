package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"interview-prep/internal/app"
	"interview-prep/internal/transport/http/response"
)

type SessionHandler struct {
	sessionService *app.SessionService
}

type CreateSessionRequest struct {
	Role          string `json:"role" binding:"max=128"`
	Experience    string `json:"experience" binding:"max=128"`
	TopicsToFocus string `json:"topicsToFocus" binding:"max=512"`
	Description   string `json:"description"`
}

// UpdateSessionRequest distinguishes an omitted field (nil) from an empty one.
type UpdateSessionRequest struct {
	Role          *string `json:"role" binding:"omitempty,max=128"`
	Experience    *string `json:"experience" binding:"omitempty,max=128"`
	TopicsToFocus *string `json:"topicsToFocus" binding:"omitempty,max=512"`
	Description   *string `json:"description"`
}

func NewSessionHandler(sessionService *app.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func (h *SessionHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	session, err := h.sessionService.CreateSession(c.Request.Context(), app.CreateSessionInput{
		UserID:        userID,
		Role:          req.Role,
		Experience:    req.Experience,
		TopicsToFocus: req.TopicsToFocus,
		Description:   req.Description,
	})
	if err != nil {
		writeError(c, err, "create session failed")
		return
	}
	response.Created(c, gin.H{"session": session})
}

func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	// Unparseable values fall back to the defaults.
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.sessionService.ListSessions(c.Request.Context(), app.ListSessionsInput{
		UserID: userID,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		writeError(c, err, "list sessions failed")
		return
	}
	response.OK(c, result)
}

func (h *SessionHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	session, err := h.sessionService.GetSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		writeError(c, err, "get session failed")
		return
	}
	response.OK(c, gin.H{"session": session})
}

func (h *SessionHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	session, err := h.sessionService.UpdateSession(c.Request.Context(), app.UpdateSessionInput{
		UserID:        userID,
		SessionID:     sessionID,
		Role:          req.Role,
		Experience:    req.Experience,
		TopicsToFocus: req.TopicsToFocus,
		Description:   req.Description,
	})
	if err != nil {
		writeError(c, err, "update session failed")
		return
	}
	response.OK(c, gin.H{"session": session})
}

func (h *SessionHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.sessionService.DeleteSession(c.Request.Context(), userID, sessionID); err != nil {
		writeError(c, err, "delete session failed")
		return
	}
	response.OK(c, gin.H{"message": "session deleted successfully"})
}
