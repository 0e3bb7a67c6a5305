package cep

import (
	"github.com/rotativo/rotativo/internal/cep/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("cep",
	fx.Provide(repository.Provide),
)
