package payment

import (
	"github.com/rotativo/rotativo/internal/payment/repository"
	"github.com/rotativo/rotativo/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
