package benefit

import (
	"github.com/rotativo/rotativo/internal/benefit/repository"
	"github.com/rotativo/rotativo/internal/benefit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("benefit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
