package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"github.com/janhq/arena-server/internal/config"
	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/domain/chat"
	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/domain/session"
	"github.com/janhq/arena-server/internal/domain/user"
	"github.com/janhq/arena-server/internal/infrastructure/cache"
	"github.com/janhq/arena-server/internal/infrastructure/database"
	_ "github.com/janhq/arena-server/internal/infrastructure/database/dbschema"
	"github.com/janhq/arena-server/internal/infrastructure/database/repository/agentrepo"
	"github.com/janhq/arena-server/internal/infrastructure/database/repository/chatrepo"
	"github.com/janhq/arena-server/internal/infrastructure/database/repository/messagerepo"
	"github.com/janhq/arena-server/internal/infrastructure/database/repository/rolerepo"
	"github.com/janhq/arena-server/internal/infrastructure/database/repository/roomrepo"
	"github.com/janhq/arena-server/internal/infrastructure/database/repository/sessionrepo"
	"github.com/janhq/arena-server/internal/infrastructure/database/repository/userrepo"
	"github.com/janhq/arena-server/internal/infrastructure/repository/memrepo"
	"github.com/janhq/arena-server/internal/interfaces/httpserver"
)

// stores holds one repository per entity for the configured driver.
type stores struct {
	Agents   agent.Repository
	Roles    role.Repository
	Rooms    room.Repository
	Sessions session.Repository
	Messages message.Repository
	Chats    chat.Repository
	Users    user.Repository

	Ready httpserver.ReadyCheck
	Close func()
}

// purgers run children first: messages, then sessions.
func (s *stores) purgers() []room.Purger {
	return []room.Purger{s.Messages, s.Sessions}
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	var st *stores
	switch cfg.DBDriver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		mem := memrepo.NewStore()
		st = &stores{
			Agents:   mem.Agents,
			Roles:    mem.Roles,
			Rooms:    mem.Rooms,
			Sessions: mem.Sessions,
			Messages: mem.Messages,
			Chats:    mem.Chats,
			Users:    mem.Users,
			Close:    func() {},
		}
	case config.DriverPostgres, config.DriverSQLite:
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
		if cfg.DBAutoMigrate {
			if err := database.Migrate(ctx, db, cfg.DBDriver, log); err != nil {
				_ = database.Close(db)
				return nil, fmt.Errorf("migrate database: %w", err)
			}
		}
		st = &stores{
			Agents:   agentrepo.NewAgentGormRepository(db),
			Roles:    rolerepo.NewRoleGormRepository(db),
			Rooms:    roomrepo.NewRoomGormRepository(db),
			Sessions: sessionrepo.NewSessionGormRepository(db),
			Messages: messagerepo.NewMessageGormRepository(db),
			Chats:    chatrepo.NewChatGormRepository(db),
			Users:    userrepo.NewUserGormRepository(db),
			Ready: func(ctx context.Context) error {
				return database.Ping(ctx, db)
			},
			Close: func() {
				if err := database.Close(db); err != nil {
					log.Error().Err(err).Msg("close database")
				}
			},
		}
		log.Info().Str("driver", cfg.DBDriver).Msg("database connected")
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	agents, err := cache.NewAgentRepository(st.Agents, cfg.AgentCacheSize)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("agent cache: %w", err)
	}
	st.Agents = agents
	return st, nil
}
