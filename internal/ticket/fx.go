package ticket

import (
	"github.com/rotativo/rotativo/internal/ticket/repository"
	"github.com/rotativo/rotativo/internal/ticket/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ticket.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
