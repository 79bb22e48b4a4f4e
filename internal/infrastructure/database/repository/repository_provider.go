package repository

import (
	"github.com/google/wire"

	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/domain/chat"
	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/domain/session"
	"github.com/janhq/arena-server/internal/domain/user"
	"github.com/janhq/arena-server/internal/infrastructure/database/repository/agentrepo"
	"github.com/janhq/arena-server/internal/infrastructure/database/repository/chatrepo"
	"github.com/janhq/arena-server/internal/infrastructure/database/repository/messagerepo"
	"github.com/janhq/arena-server/internal/infrastructure/database/repository/rolerepo"
	"github.com/janhq/arena-server/internal/infrastructure/database/repository/roomrepo"
	"github.com/janhq/arena-server/internal/infrastructure/database/repository/sessionrepo"
	"github.com/janhq/arena-server/internal/infrastructure/database/repository/userrepo"
)

var RepositoryProvider = wire.NewSet(
	agentrepo.NewAgentGormRepository,
	wire.Bind(new(agent.Repository), new(*agentrepo.AgentGormRepository)),
	rolerepo.NewRoleGormRepository,
	wire.Bind(new(role.Repository), new(*rolerepo.RoleGormRepository)),
	wire.Bind(new(agent.RoleCounter), new(*rolerepo.RoleGormRepository)),
	roomrepo.NewRoomGormRepository,
	wire.Bind(new(room.Repository), new(*roomrepo.RoomGormRepository)),
	wire.Bind(new(role.RoomCounter), new(*roomrepo.RoomGormRepository)),
	sessionrepo.NewSessionGormRepository,
	wire.Bind(new(session.Repository), new(*sessionrepo.SessionGormRepository)),
	messagerepo.NewMessageGormRepository,
	wire.Bind(new(message.Repository), new(*messagerepo.MessageGormRepository)),
	chatrepo.NewChatGormRepository,
	wire.Bind(new(chat.Repository), new(*chatrepo.ChatGormRepository)),
	userrepo.NewUserGormRepository,
	wire.Bind(new(user.Repository), new(*userrepo.UserGormRepository)),
)
