//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/janhq/arena-server/internal/config"
	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/domain/chat"
	"github.com/janhq/arena-server/internal/domain/llm"
	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/domain/orchestrator"
	"github.com/janhq/arena-server/internal/domain/realtime"
	"github.com/janhq/arena-server/internal/domain/retry"
	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/domain/session"
	"github.com/janhq/arena-server/internal/domain/user"
	"github.com/janhq/arena-server/internal/infrastructure/auth"
	"github.com/janhq/arena-server/internal/infrastructure/database"
	"github.com/janhq/arena-server/internal/infrastructure/database/repository"
	"github.com/janhq/arena-server/internal/infrastructure/database/repository/messagerepo"
	"github.com/janhq/arena-server/internal/infrastructure/database/repository/sessionrepo"
	"github.com/janhq/arena-server/internal/infrastructure/llmprovider"
	"github.com/janhq/arena-server/internal/infrastructure/lock"
	"github.com/janhq/arena-server/internal/infrastructure/logger"
	"github.com/janhq/arena-server/internal/infrastructure/metrics"
	"github.com/janhq/arena-server/internal/infrastructure/pubsub"
	"github.com/janhq/arena-server/internal/interfaces/httpserver"
	"github.com/janhq/arena-server/internal/interfaces/httpserver/handlers"
)

// BuildApplication assembles a single instance, database backed arena service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newGormDB,
		repository.RepositoryProvider,
		newAuthValidator,
		newIssuer,
		newHub,
		newLocker,
		newRouter,
		newAgentService,
		role.NewService,
		newMessageService,
		newSupervisor,
		newRoomService,
		newSessionManager,
		newChatService,
		newUserService,
		newHandlerServices,
		newRealtimeConfig,
		newReadyCheck,
		noRelay,
		httpserver.InterfacesProvider,
		NewApplication,
		wire.Value(metrics.Observer{}),
		wire.Bind(new(realtime.Publisher), new(*realtime.Hub)),
		wire.Bind(new(room.Locker), new(*lock.Local)),
		wire.Bind(new(room.Halter), new(*orchestrator.Supervisor)),
		wire.Bind(new(session.Runner), new(*orchestrator.Supervisor)),
		wire.Bind(new(llm.Generator), new(*llmprovider.Router)),
		wire.Bind(new(llm.StreamGenerator), new(*llmprovider.Router)),
	)
	return nil, nil
}

func newGormDB(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	dsn := cfg.DatabaseURL
	if cfg.DBDriver == config.DriverSQLite {
		dsn = cfg.SQLitePath
	}
	db, err := database.Connect(database.Config{
		Driver:          cfg.DBDriver,
		DSN:             dsn,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db, cfg.DBDriver, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, auth.ValidatorConfig{
		Secret:       cfg.JWTSecret,
		Issuer:       cfg.AuthIssuer,
		Audience:     cfg.AuthAudience,
		JWKSURL:      cfg.AuthJWKSURL,
		RefreshEvery: cfg.JWKSRefreshEvery,
	}, log)
}

func newIssuer(cfg *config.Config) (*auth.Issuer, error) {
	return auth.NewIssuer(cfg.JWTSecret, cfg.AuthIssuer, cfg.AuthAudience, cfg.TokenTTL)
}

func newHub(cfg *config.Config, observer metrics.Observer, log zerolog.Logger) *realtime.Hub {
	return realtime.NewHub(cfg.RealtimeQueueSize, observer, log)
}

func newLocker() *lock.Local {
	return lock.NewLocal()
}

func newRouter(cfg *config.Config, observer metrics.Observer, log zerolog.Logger) *llmprovider.Router {
	return llmprovider.NewRouter(llmprovider.Config{
		Timeout:         cfg.ProviderTimeout,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		OpenAIBaseURL:   cfg.OpenAIBaseURL,
		DeepSeekAPIKey:  cfg.DeepSeekAPIKey,
		DeepSeekBaseURL: cfg.DeepSeekBaseURL,
		OllamaBaseURL:   cfg.OllamaBaseURL,
	}, observer, log)
}

func newAgentService(cfg *config.Config, repo agent.Repository, roles agent.RoleCounter, log zerolog.Logger) agent.Service {
	return agent.NewService(repo, roles, cfg.APIKeySecret, log)
}

func newMessageService(repo message.Repository, rooms room.Repository, sessions session.Repository, locker room.Locker, publisher realtime.Publisher, observer metrics.Observer, log zerolog.Logger) message.Service {
	return message.NewService(message.Dependencies{
		Repo:      repo,
		Rooms:     rooms,
		Sessions:  sessions,
		Locker:    locker,
		Publisher: publisher,
		Observer:  observer,
	}, log)
}

func newSupervisor(cfg *config.Config, rooms room.Repository, sessions session.Repository, roles role.Repository, agents agent.Service, messages message.Service, generator llm.Generator, locker room.Locker, publisher realtime.Publisher, observer metrics.Observer, log zerolog.Logger) *orchestrator.Supervisor {
	policy := retry.DefaultPolicy()
	policy.MaxRetries = cfg.RetryMaxRetries
	policy.InitialDelay = cfg.RetryInitialDelay
	policy.MaxDelay = cfg.RetryMaxDelay
	return orchestrator.NewSupervisor(orchestrator.Dependencies{
		Rooms:     rooms,
		Sessions:  sessions,
		Roles:     roles,
		Agents:    agents,
		Messages:  messages,
		Generator: generator,
		Locker:    locker,
		Publisher: publisher,
		Observer:  observer,
	}, orchestrator.Config{
		TurnInterval:    cfg.TurnInterval,
		ContextMessages: cfg.ContextMessages,
		MaxTokens:       cfg.MaxTokens,
		Retry:           policy,
		RecoverOnStart:  cfg.RecoverOnStart,
	}, log)
}

func newRoomService(repo room.Repository, roles role.Service, locker room.Locker, halter room.Halter, publisher realtime.Publisher, messages *messagerepo.MessageGormRepository, sessions *sessionrepo.SessionGormRepository, log zerolog.Logger) room.Service {
	return room.NewService(room.Dependencies{
		Repo:      repo,
		Roles:     roles,
		Locker:    locker,
		Halter:    halter,
		Publisher: publisher,
		Purgers:   []room.Purger{messages, sessions},
	}, log)
}

func newSessionManager(rooms room.Repository, sessions session.Repository, roles role.Service, locker room.Locker, runner session.Runner, publisher realtime.Publisher, log zerolog.Logger) session.Manager {
	return session.NewManager(session.ManagerDependencies{
		Rooms:     rooms,
		Sessions:  sessions,
		Roles:     roles,
		Locker:    locker,
		Runner:    runner,
		Publisher: publisher,
	}, log)
}

func newChatService(cfg *config.Config, repo chat.Repository, messages message.Repository, agents agent.Service, roles role.Service, generator llm.StreamGenerator, locker room.Locker, log zerolog.Logger) chat.Service {
	return chat.NewService(chat.Dependencies{
		Repo:      repo,
		Messages:  messages,
		Agents:    agents,
		Roles:     roles,
		Generator: generator,
		Locker:    locker,
		MaxTokens: cfg.MaxTokens,
	}, log)
}

func newUserService(cfg *config.Config, repo user.Repository, log zerolog.Logger) user.Service {
	return user.NewService(repo, auth.BcryptHasher{}, cfg.InvitationCode, log)
}

func newHandlerServices(agents agent.Service, roles role.Service, rooms room.Service, sessions session.Manager, messages message.Service, chats chat.Service, users user.Service, issuer *auth.Issuer, hub *realtime.Hub) handlers.Services {
	return handlers.Services{
		Agents:   agents,
		Roles:    roles,
		Rooms:    rooms,
		Sessions: sessions,
		Messages: messages,
		Chats:    chats,
		Users:    users,
		Issuer:   issuer,
		Hub:      hub,
	}
}

func newRealtimeConfig(cfg *config.Config) handlers.RealtimeConfig {
	return handlers.RealtimeConfig{
		WriteTimeout: cfg.RealtimeWriteTimeout,
		PingInterval: cfg.RealtimePingInterval,
	}
}

func newReadyCheck(db *gorm.DB) httpserver.ReadyCheck {
	return func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}
}

// noRelay keeps the injected build single instance; main enables the redis relay from REDIS_URL.
func noRelay() *pubsub.Relay {
	return nil
}
