package memrepo

// Store bundles one repository per entity.
type Store struct {
	Agents   *AgentRepository
	Roles    *RoleRepository
	Rooms    *RoomRepository
	Sessions *SessionRepository
	Messages *MessageRepository
	Chats    *ChatRepository
	Users    *UserRepository
}

func NewStore() *Store {
	return &Store{
		Agents:   NewAgentRepository(),
		Roles:    NewRoleRepository(),
		Rooms:    NewRoomRepository(),
		Sessions: NewSessionRepository(),
		Messages: NewMessageRepository(),
		Chats:    NewChatRepository(),
		Users:    NewUserRepository(),
	}
}
