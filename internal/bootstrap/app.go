package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"interview-prep/internal/ai"
	appsvc "interview-prep/internal/app"
	"interview-prep/internal/cache"
	"interview-prep/internal/config"
	"interview-prep/internal/pkg/logger"
	mysqlClient "interview-prep/internal/platform/mysql"
	rabbitmqClient "interview-prep/internal/platform/rabbitmq"
	redisClient "interview-prep/internal/platform/redis"
	"interview-prep/internal/repository"
	"interview-prep/internal/worker"
)

type Services struct {
	Auth      *appsvc.AuthService
	Sessions  *appsvc.SessionService
	Questions *appsvc.QuestionService
	AI        *appsvc.AIService
	Reconcile *appsvc.ReconcileService
}

type App struct {
	Config          *config.Config
	Logger          *zap.Logger
	MySQL           *gorm.DB
	Redis           *redis.Client
	MQConn          *amqp.Connection
	ReconcileWorker *worker.ReconcileWorker
	Services        Services

	StartedAt time.Time
}

// New connects every backing service, migrates the schema, starts the
// reconcile worker and builds the application services.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("build logger failed: %w", err)
	}

	a := &App{Config: cfg, Logger: log, StartedAt: time.Now()}
	if err := a.connect(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}

	questionCache := cache.NewQuestionCache(a.Redis, cfg.QuestionCacheTTL())
	publisher := rabbitmqClient.NewReconcilePublisher(a.MQConn, cfg.RabbitMQ.ReconcileQueue)
	a.Services = NewServices(cfg, a.MySQL, questionCache, publisher, log)

	a.ReconcileWorker = worker.NewReconcileWorker(a.MQConn, a.Services.Reconcile, cfg.RabbitMQ.ReconcileQueue, log)
	if err := a.ReconcileWorker.Start(ctx); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("start reconcile worker failed: %w", err)
	}

	if !chatConfig(cfg).Configured() {
		log.Warn("LLM not configured, AI endpoints will answer with an error")
	}
	return a, nil
}

func (a *App) connect(ctx context.Context) error {
	var err error
	a.MySQL, err = mysqlClient.New(ctx, a.Config.MySQLDSN())
	if err != nil {
		return err
	}
	if err := mysqlClient.Migrate(a.MySQL); err != nil {
		return err
	}

	a.Redis, err = redisClient.New(ctx, a.Config.Redis.Addr, a.Config.Redis.Password, a.Config.Redis.DB)
	if err != nil {
		return err
	}

	a.MQConn, err = rabbitmqClient.New(ctx, a.Config.RabbitMQ.URL, a.Config.RabbitMQ.ReconcileQueue)
	return err
}

// NewServices builds the application services over db. questionCache and
// queue may be nil.
func NewServices(
	cfg *config.Config,
	db *gorm.DB,
	questionCache appsvc.QuestionCache,
	queue appsvc.ReconcileQueue,
	log *zap.Logger,
) Services {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	questionRepo := repository.NewQuestionRepository(db)

	return Services{
		Auth:      appsvc.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.JWTExpiration()),
		Sessions:  appsvc.NewSessionService(sessionRepo, questionRepo, questionCache, queue, log.Named("sessions")),
		Questions: appsvc.NewQuestionService(sessionRepo, questionRepo, questionCache, log.Named("questions")),
		AI:        appsvc.NewAIService(sessionRepo, questionRepo, ai.NewOpenAICompatibleClient(cfg.LLMTimeout()), chatConfig(cfg), questionCache, log.Named("ai")),
		Reconcile: appsvc.NewReconcileService(sessionRepo, questionCache, log.Named("reconcile")),
	}
}

func chatConfig(cfg *config.Config) ai.ChatConfig {
	return ai.ChatConfig{
		BaseURL:  cfg.LLM.BaseURL,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		JSONMode: cfg.LLM.JSONMode,
	}
}

func (a *App) Close() error {
	var closeErr error
	if a.ReconcileWorker != nil {
		a.ReconcileWorker.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MQConn != nil && !a.MQConn.IsClosed() {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return closeErr
}
