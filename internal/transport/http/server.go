package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"interview-prep/internal/bootstrap"
	"interview-prep/internal/transport/http/handler"
	"interview-prep/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := newEngine(app.Logger)

	router.GET("/healthz", handler.NewHealthHandler(app).Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limiter := middleware.NewUserRateLimiter(app.Config.RateLimit.AIRequestsPerMinute, app.Config.RateLimit.AIBurst)
	RegisterAPI(router.Group("/api"), app.Services, app.Config.Auth.JWTSecret, limiter)
	return router
}

func newEngine(logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.Recovery(logger),
		middleware.RequestLogger(logger),
		middleware.Metrics(),
		middleware.CORS(),
	)
	return router
}

// RegisterAPI mounts the authenticated REST surface on api.
func RegisterAPI(api *gin.RouterGroup, services bootstrap.Services, jwtSecret string, limiter *middleware.UserRateLimiter) {
	authHandler := handler.NewAuthHandler(services.Auth)
	sessionHandler := handler.NewSessionHandler(services.Sessions)
	questionHandler := handler.NewQuestionHandler(services.Questions)
	aiHandler := handler.NewAIHandler(services.AI)
	requireAuth := middleware.AuthJWT(jwtSecret)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/profile", requireAuth, authHandler.Profile)
	authGroup.PUT("/profile", requireAuth, authHandler.UpdateProfile)

	sessionGroup := api.Group("/sessions", requireAuth)
	sessionGroup.POST("", sessionHandler.Create)
	sessionGroup.GET("", sessionHandler.List)
	sessionGroup.GET("/:id", sessionHandler.Get)
	sessionGroup.PUT("/:id", sessionHandler.Update)
	sessionGroup.DELETE("/:id", sessionHandler.Delete)

	questionGroup := api.Group("/questions", requireAuth)
	questionGroup.POST("", questionHandler.Create)
	questionGroup.GET("/session/:sessionId", questionHandler.ListBySession)
	questionGroup.PUT("/:id", questionHandler.Update)
	questionGroup.DELETE("/:id", questionHandler.Delete)
	questionGroup.PATCH("/:id/pin", questionHandler.TogglePin)

	aiGroup := api.Group("/ai", requireAuth, middleware.RateLimit(limiter))
	aiGroup.POST("/generate-questions", aiHandler.GenerateQuestions)
	aiGroup.POST("/get-answer", aiHandler.GetAnswer)
}
