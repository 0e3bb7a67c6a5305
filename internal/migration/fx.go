package migration

import (
	"github.com/bwmarrin/snowflake"
	benefitdomain "github.com/rotativo/rotativo/internal/benefit/domain"
	"github.com/rotativo/rotativo/internal/config"
	"github.com/rotativo/rotativo/internal/seed"
	cepdomain "github.com/rotativo/rotativo/internal/cep/domain"
	invoicedomain "github.com/rotativo/rotativo/internal/invoice/domain"
	ledgerdomain "github.com/rotativo/rotativo/internal/ledger/domain"
	paymentdomain "github.com/rotativo/rotativo/internal/payment/domain"
	ticketdomain "github.com/rotativo/rotativo/internal/ticket/domain"
	tickettypedomain "github.com/rotativo/rotativo/internal/tickettype/domain"
	userdomain "github.com/rotativo/rotativo/internal/user/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite is a local/dev target; AutoMigrate is enough there and
			// avoids carrying per-dialect migration sources.
			if err := conn.AutoMigrate(
				&userdomain.User{},
				&tickettypedomain.TicketType{},
				&ticketdomain.Ticket{},
				&invoicedomain.InvoiceRecord{},
				&benefitdomain.DiscountRecord{},
				&ledgerdomain.CreditMovement{},
				&paymentdomain.PaymentRecord{},
				&cepdomain.ScsCep{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureDefaults(conn, cfg, node)
	}),
)
