package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/janhq/arena-server/internal/config"
	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/domain/chat"
	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/domain/orchestrator"
	"github.com/janhq/arena-server/internal/domain/realtime"
	"github.com/janhq/arena-server/internal/domain/retry"
	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/domain/session"
	"github.com/janhq/arena-server/internal/domain/user"
	"github.com/janhq/arena-server/internal/infrastructure/auth"
	"github.com/janhq/arena-server/internal/infrastructure/llmprovider"
	"github.com/janhq/arena-server/internal/infrastructure/lock"
	"github.com/janhq/arena-server/internal/infrastructure/logger"
	"github.com/janhq/arena-server/internal/infrastructure/metrics"
	"github.com/janhq/arena-server/internal/infrastructure/observability"
	"github.com/janhq/arena-server/internal/infrastructure/pubsub"
	"github.com/janhq/arena-server/internal/interfaces/httpserver"
	"github.com/janhq/arena-server/internal/interfaces/httpserver/handlers"
)

// @title Arena API
// @version 1.0
// @description Multi-agent chat arena: agents, roles, rooms with orchestrated debate and group chat sessions, realtime room streams and standalone chat.
// @contact.name Jan Server Team
// @contact.url https://github.com/janhq/arena-server
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HTTPServer
	supervisor *orchestrator.Supervisor
	hub        *realtime.Hub
	relay      *pubsub.Relay
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HTTPServer, supervisor *orchestrator.Supervisor, hub *realtime.Hub, relay *pubsub.Relay, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		supervisor: supervisor,
		hub:        hub,
		relay:      relay,
		log:        log,
	}
}

// Start runs every long lived component until ctx is cancelled or one of them fails.
func (a *Application) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.supervisor.Run(ctx)
	})
	if a.relay != nil {
		g.Go(func() error {
			return a.relay.Run(ctx)
		})
	}
	g.Go(func() error {
		err := a.httpServer.Run(ctx)
		// websocket connections outlive http.Server.Shutdown
		a.hub.Shutdown()
		return err
	})

	return g.Wait()
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)
	if cfg.DevelopmentSecret {
		log.Warn().Msg("AUTH_JWT_SECRET is not set; tokens are signed with the built-in development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open storage")
	}
	defer st.Close()

	authValidator, err := auth.NewValidator(ctx, auth.ValidatorConfig{
		Secret:       cfg.JWTSecret,
		Issuer:       cfg.AuthIssuer,
		Audience:     cfg.AuthAudience,
		JWKSURL:      cfg.AuthJWKSURL,
		RefreshEvery: cfg.JWKSRefreshEvery,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}
	defer authValidator.Close()

	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.AuthIssuer, cfg.AuthAudience, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize token issuer")
	}

	observer := metrics.Observer{}
	hub := realtime.NewHub(cfg.RealtimeQueueSize, observer, log)

	var (
		locker    room.Locker        = lock.NewLocal()
		publisher realtime.Publisher = hub
		relay     *pubsub.Relay
	)
	if cfg.RedisURL != "" {
		client, err := pubsub.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		defer closeRedis(client, log)
		locker = lock.NewRedis(client, cfg.RoomLockTTL, log)
		relay = pubsub.NewRelay(client, hub, log)
		publisher = relay
		log.Info().Msg("redis relay and distributed room locks enabled")
	}

	router := llmprovider.NewRouter(llmprovider.Config{
		Timeout:         cfg.ProviderTimeout,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		OpenAIBaseURL:   cfg.OpenAIBaseURL,
		DeepSeekAPIKey:  cfg.DeepSeekAPIKey,
		DeepSeekBaseURL: cfg.DeepSeekBaseURL,
		OllamaBaseURL:   cfg.OllamaBaseURL,
	}, observer, log)

	agentService := agent.NewService(st.Agents, st.Roles, cfg.APIKeySecret, log)
	roleService := role.NewService(st.Roles, agentService, st.Rooms, log)
	messageService := message.NewService(message.Dependencies{
		Repo:      st.Messages,
		Rooms:     st.Rooms,
		Sessions:  st.Sessions,
		Locker:    locker,
		Publisher: publisher,
		Observer:  observer,
	}, log)

	policy := retry.DefaultPolicy()
	policy.MaxRetries = cfg.RetryMaxRetries
	policy.InitialDelay = cfg.RetryInitialDelay
	policy.MaxDelay = cfg.RetryMaxDelay

	supervisor := orchestrator.NewSupervisor(orchestrator.Dependencies{
		Rooms:     st.Rooms,
		Sessions:  st.Sessions,
		Roles:     st.Roles,
		Agents:    agentService,
		Messages:  messageService,
		Generator: router,
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

	roomService := room.NewService(room.Dependencies{
		Repo:      st.Rooms,
		Roles:     roleService,
		Locker:    locker,
		Halter:    supervisor,
		Publisher: publisher,
		Purgers:   st.purgers(),
	}, log)
	sessionManager := session.NewManager(session.ManagerDependencies{
		Rooms:     st.Rooms,
		Sessions:  st.Sessions,
		Roles:     roleService,
		Locker:    locker,
		Runner:    supervisor,
		Publisher: publisher,
	}, log)
	chatService := chat.NewService(chat.Dependencies{
		Repo:      st.Chats,
		Messages:  st.Messages,
		Agents:    agentService,
		Roles:     roleService,
		Generator: router,
		Locker:    locker,
		MaxTokens: cfg.MaxTokens,
	}, log)
	userService := user.NewService(st.Users, auth.BcryptHasher{}, cfg.InvitationCode, log)

	handlerProvider := handlers.NewProvider(handlers.Services{
		Agents:   agentService,
		Roles:    roleService,
		Rooms:    roomService,
		Sessions: sessionManager,
		Messages: messageService,
		Chats:    chatService,
		Users:    userService,
		Issuer:   issuer,
		Hub:      hub,
	}, handlers.RealtimeConfig{
		WriteTimeout: cfg.RealtimeWriteTimeout,
		PingInterval: cfg.RealtimePingInterval,
	}, log)

	httpServer := httpserver.New(cfg, log, handlerProvider, authValidator, st.Ready)
	app := NewApplication(httpServer, supervisor, hub, relay, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func closeRedis(client redis.UniversalClient, log zerolog.Logger) {
	if err := client.Close(); err != nil {
		log.Error().Err(err).Msg("close redis")
	}
}

func loadEnvFiles() {
	paths := []string{".env", "../.env", "../../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
