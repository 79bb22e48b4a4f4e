package requests

// JoinRoomRequest adds a role to a room.
type JoinRoomRequest struct {
	RoleID string `json:"role_id" binding:"required"`
}

// PostMessageRequest is a user authored room message.
type PostMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// TokenRequest is the form body of the token endpoint.
type TokenRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// MessagesQuery selects a transcript window.
type MessagesQuery struct {
	SessionID string `form:"session_id"`
	AfterID   int64  `form:"after_id" binding:"omitempty,min=0"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

// ClientFrame is an inbound websocket frame.
type ClientFrame struct {
	Type string `json:"type"`
	Data struct {
		Content string `json:"content"`
	} `json:"data"`
}
