package tickettype

import (
	"github.com/rotativo/rotativo/internal/tickettype/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("tickettype",
	fx.Provide(repository.Provide),
)
