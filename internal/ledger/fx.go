package ledger

import (
	"github.com/rotativo/rotativo/internal/ledger/repository"
	"github.com/rotativo/rotativo/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
