package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/rotativo/rotativo/internal/clock"
	obsmetrics "github.com/rotativo/rotativo/internal/observability/metrics"
	"github.com/rotativo/rotativo/internal/payment/domain"
	ticketdomain "github.com/rotativo/rotativo/internal/ticket/domain"
	"github.com/rotativo/rotativo/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	TicketRepo ticketdomain.Repository
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	ticketRepo ticketdomain.Repository
	obsMetrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("payment.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		ticketRepo: p.TicketRepo,
		obsMetrics: p.ObsMetrics,
	}
}

// Settle pays the ticket in full and transitions it to PAID. A repeated
// idempotency key replays the original outcome instead of failing; the unique
// index on payment_records makes the race between two first-time submissions
// resolve to a single row.
func (s *Service) Settle(ctx context.Context, req domain.SettleRequest) (domain.SettleResult, error) {
	// Zero is legal: a fully discounted ticket settles for nothing.
	if req.Amount != nil && *req.Amount < 0 {
		return domain.SettleResult{}, domain.ErrInvalidAmount
	}
	idemKey := strings.TrimSpace(req.IdempotencyKey)

	if idemKey != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, s.db, idemKey)
		if err != nil {
			return domain.SettleResult{}, err
		}
		if existing != nil {
			return s.replay(ctx, req, existing)
		}
	}

	var result domain.SettleResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ticket, err := s.ticketRepo.FindByIDForUpdate(ctx, tx, req.TicketID)
		if err != nil {
			return err
		}
		if ticket == nil {
			return ticketdomain.ErrNotFound
		}
		if ticket.UserID != req.UserID {
			return ticketdomain.ErrNotOwner
		}
		if ticket.Status != ticketdomain.StatusOpen {
			return ticketdomain.ErrTicketNotOpen
		}
		if req.Amount != nil && *req.Amount != ticket.CurrentValue {
			return domain.ErrAmountMismatch
		}

		now := s.clock.Now()
		rec := domain.PaymentRecord{
			ID:         s.genID.Generate(),
			TicketID:   ticket.ID,
			AmountPaid: ticket.CurrentValue,
			Method:     strings.TrimSpace(req.Method),
			Status:     domain.StatusConfirmed,
			PaidAt:     now,
			CreatedAt:  now,
		}
		if idemKey != "" {
			rec.IdempotencyKey = &idemKey
		}

		if err := s.repo.Insert(ctx, tx, &rec); err != nil {
			return err
		}

		if err := ticket.Settle(); err != nil {
			return err
		}
		ticket.UpdatedAt = now
		if err := s.ticketRepo.Update(ctx, tx, ticket); err != nil {
			return err
		}

		result = domain.SettleResult{Payment: rec, Ticket: ticket}
		return nil
	})
	if err != nil {
		// Lost the unique-index race on the idempotency key: the other
		// submission settled the ticket, replay its record.
		if idemKey != "" && db.IsDuplicateKeyErr(err) {
			existing, findErr := s.repo.FindByIdempotencyKey(ctx, s.db, idemKey)
			if findErr != nil {
				return domain.SettleResult{}, findErr
			}
			if existing != nil {
				return s.replay(ctx, req, existing)
			}
		}
		return domain.SettleResult{}, err
	}

	s.log.Info("payment settled",
		zap.String("ticket_id", result.Ticket.ID.String()),
		zap.String("payment_id", result.Payment.ID.String()),
		zap.Int64("amount_paid", result.Payment.AmountPaid),
	)
	if s.obsMetrics != nil {
		s.obsMetrics.RecordPaymentSettled(ctx, result.Payment.Method)
	}
	return result, nil
}

func (s *Service) ListByTicket(ctx context.Context, userID, ticketID snowflake.ID) ([]domain.PaymentRecord, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, s.db, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ticketdomain.ErrNotFound
	}
	if ticket.UserID != userID {
		return nil, ticketdomain.ErrNotOwner
	}
	return s.repo.FindByTicket(ctx, s.db, ticketID)
}

// replay returns the outcome recorded under the caller's idempotency key.
// The key is scoped to a ticket: reusing it against a different ticket is a
// caller bug, not a replay.
func (s *Service) replay(ctx context.Context, req domain.SettleRequest, rec *domain.PaymentRecord) (domain.SettleResult, error) {
	if rec.TicketID != req.TicketID {
		return domain.SettleResult{}, domain.ErrIdempotencyConflict
	}
	ticket, err := s.ticketRepo.FindByID(ctx, s.db, rec.TicketID)
	if err != nil {
		return domain.SettleResult{}, err
	}
	if ticket == nil || ticket.UserID != req.UserID {
		return domain.SettleResult{}, ticketdomain.ErrNotFound
	}
	return domain.SettleResult{Payment: *rec, Ticket: ticket, Replayed: true}, nil
}
