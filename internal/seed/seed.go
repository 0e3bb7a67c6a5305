// Package seed provisions the reference data a fresh deployment needs:
// the ticket-type catalog and the eligible postal-code registry.
package seed

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	cepdomain "github.com/rotativo/rotativo/internal/cep/domain"
	ceprepository "github.com/rotativo/rotativo/internal/cep/repository"
	"github.com/rotativo/rotativo/internal/config"
	tickettypedomain "github.com/rotativo/rotativo/internal/tickettype/domain"
	tickettyperepository "github.com/rotativo/rotativo/internal/tickettype/repository"
	userdomain "github.com/rotativo/rotativo/internal/user/domain"
	userrepository "github.com/rotativo/rotativo/internal/user/repository"
	"gorm.io/gorm"
)

// Hourly price in centavos, fixed by municipal decree.
const pricePerHour = 575

// São Caetano do Sul postal codes eligible for the invoice benefit.
var defaultCeps = []string{
	"09510000",
	"09520000",
	"09530000",
	"09540000",
	"09550000",
	"09560000",
	"09570000",
	"09580000",
}

// EnsureDefaults is idempotent: inserts rely on conflict-ignoring writes, so
// reruns on every boot are safe.
func EnsureDefaults(conn *gorm.DB, cfg config.Config, node *snowflake.Node) error {
	ctx := context.Background()
	now := time.Now().UTC()

	typeRepo := tickettyperepository.Provide()
	for hours := 1; hours <= 4; hours++ {
		tt := tickettypedomain.TicketType{
			ID:           node.Generate(),
			Hours:        hours,
			PricePerHour: pricePerHour,
			CreatedAt:    now,
		}
		if err := tt.Validate(); err != nil {
			return err
		}
		if err := typeRepo.Insert(ctx, conn, &tt); err != nil {
			return err
		}
	}

	cepRepo := ceprepository.Provide()
	for _, cep := range defaultCeps {
		entry := cepdomain.ScsCep{Cep: cep, Active: true, CreatedAt: now}
		if err := cepRepo.Insert(ctx, conn, &entry); err != nil {
			return err
		}
	}

	if cfg.Environment == "development" {
		return ensureDemoUser(ctx, conn, node, now)
	}
	return nil
}

func ensureDemoUser(ctx context.Context, conn *gorm.DB, node *snowflake.Node, now time.Time) error {
	const email = "demo@rotativo.local"

	userRepo := userrepository.Provide()
	existing, err := userRepo.FindByEmail(ctx, conn, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	return userRepo.Insert(ctx, conn, &userdomain.User{
		ID:        node.Generate(),
		Name:      "Demo Motorista",
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	})
}
