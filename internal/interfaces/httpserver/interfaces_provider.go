package httpserver

import (
	"github.com/google/wire"

	"github.com/janhq/arena-server/internal/interfaces/httpserver/handlers"
)

var InterfacesProvider = wire.NewSet(
	handlers.HandlerProvider,
	New,
)
