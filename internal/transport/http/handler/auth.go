package handler

import (
	"github.com/gin-gonic/gin"

	"interview-prep/internal/app"
	"interview-prep/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
}

type RegisterRequest struct {
	Name            string `json:"name" binding:"required,max=128"`
	Email           string `json:"email" binding:"required,max=128"`
	Password        string `json:"password" binding:"required,max=72"`
	ProfileImageURL string `json:"profileImageUrl" binding:"max=512"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name            *string `json:"name" binding:"omitempty,max=128"`
	Email           *string `json:"email" binding:"omitempty,max=128"`
	Password        *string `json:"password" binding:"omitempty,max=72"`
	ProfileImageURL *string `json:"profileImageUrl" binding:"omitempty,max=512"`
}

func NewAuthHandler(authService *app.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		writeError(c, err, "register failed")
		return
	}
	response.Created(c, result)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err, "login failed")
		return
	}
	response.OK(c, result)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "fetch profile failed")
		return
	}
	response.OK(c, gin.H{"user": user})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), app.UpdateProfileInput{
		UserID:          userID,
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		writeError(c, err, "update profile failed")
		return
	}
	response.OK(c, gin.H{"user": user})
}
