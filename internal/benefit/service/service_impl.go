package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/rotativo/rotativo/internal/benefit/domain"
	cepdomain "github.com/rotativo/rotativo/internal/cep/domain"
	"github.com/rotativo/rotativo/internal/clock"
	"github.com/rotativo/rotativo/internal/config"
	invoicedomain "github.com/rotativo/rotativo/internal/invoice/domain"
	ledgerdomain "github.com/rotativo/rotativo/internal/ledger/domain"
	obsmetrics "github.com/rotativo/rotativo/internal/observability/metrics"
	ticketdomain "github.com/rotativo/rotativo/internal/ticket/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Cfg         config.Config
	Repo        domain.Repository
	TicketRepo  ticketdomain.Repository
	InvoiceRepo invoicedomain.Repository
	CepRepo     cepdomain.Repository
	Ledger      ledgerdomain.Service
	Lookup      domain.InvoiceLookup
	ObsMetrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	policy      domain.Policy
	repo        domain.Repository
	ticketRepo  ticketdomain.Repository
	invoiceRepo invoicedomain.Repository
	cepRepo     cepdomain.Repository
	ledger      ledgerdomain.Service
	lookup      domain.InvoiceLookup
	obsMetrics  *obsmetrics.Metrics
}

// New builds the benefit service. The policy name comes from configuration
// and is resolved once at startup; an unknown name fails the app boot.
func New(p Params) (domain.Service, error) {
	policy, err := domain.PolicyByName(p.Cfg.BenefitPolicy)
	if err != nil {
		return nil, err
	}
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("benefit.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		policy:      policy,
		repo:        p.Repo,
		ticketRepo:  p.TicketRepo,
		invoiceRepo: p.InvoiceRepo,
		cepRepo:     p.CepRepo,
		ledger:      p.Ledger,
		lookup:      p.Lookup,
		obsMetrics:  p.ObsMetrics,
	}, nil
}

// ApplyInvoiceBenefit runs the settlement pipeline for one invoice. The
// upstream lookup happens before the transaction so the row locks are never
// held across network I/O. Inside the transaction the lock order is ticket
// row first, then user row (via the ledger posting).
func (s *Service) ApplyInvoiceBenefit(ctx context.Context, req domain.ApplyRequest) (domain.ApplyResult, error) {
	key := normalizeKey(req.InvoiceKey)
	if key == "" {
		s.reject(ctx, "invalid_key")
		return domain.ApplyResult{}, domain.ErrInvalidInvoiceKey
	}

	data, err := s.lookup.Lookup(ctx, key)
	if err != nil {
		s.recordLookupFailure(ctx, err)
		return domain.ApplyResult{}, err
	}

	var result domain.ApplyResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ticket, err := s.resolveTicketForUpdate(ctx, tx, req)
		if err != nil {
			return err
		}

		if ticket.Status != ticketdomain.StatusOpen {
			return ticketdomain.ErrTicketNotOpen
		}

		eligible, err := s.cepRepo.IsActive(ctx, tx, data.DestPostalCode)
		if err != nil {
			return err
		}
		if !eligible {
			return domain.ErrIneligibleLocation
		}

		if !ticket.WithinWindow(data.EventAt) {
			return domain.ErrOutOfWindow
		}

		// Cheap pre-check; the conditional consume below is authoritative.
		existing, err := s.invoiceRepo.FindByKey(ctx, tx, key)
		if err != nil {
			return err
		}
		if existing != nil && existing.ConsumedByTicket != nil {
			return invoicedomain.ErrAlreadyUsed
		}

		now := s.clock.Now()
		if err := s.invoiceRepo.Upsert(ctx, tx, &invoicedomain.InvoiceRecord{
			InvoiceKey:     key,
			TotalValue:     data.TotalValue,
			InvoiceAt:      data.EventAt,
			DestPostalCode: data.DestPostalCode,
			RawPayload:     datatypes.JSON(data.RawPayload),
			CreatedAt:      now,
		}); err != nil {
			return err
		}

		consumed, err := s.invoiceRepo.Consume(ctx, tx, key, ticket.ID, now)
		if err != nil {
			return err
		}
		if !consumed {
			return invoicedomain.ErrAlreadyUsed
		}

		split := s.policy.Compute(data.TotalValue, ticket.CurrentValue)

		valueBefore := ticket.CurrentValue
		if split.AppliedToTicket > 0 {
			if err := ticket.ApplyDiscount(split.AppliedToTicket); err != nil {
				return err
			}
			ticket.UpdatedAt = now
			if err := s.ticketRepo.Update(ctx, tx, ticket); err != nil {
				return err
			}
		}

		if err := s.repo.Insert(ctx, tx, &domain.DiscountRecord{
			ID:                s.genID.Generate(),
			TicketID:          ticket.ID,
			InvoiceKey:        key,
			ComputedAmount:    split.Computed,
			AppliedToTicket:   split.AppliedToTicket,
			CreditedToBalance: split.CreditedToBalance,
			AppliedAt:         now,
		}); err != nil {
			return err
		}

		if split.CreditedToBalance > 0 {
			ticketID := ticket.ID
			invoiceKey := key
			if _, err := s.ledger.Post(ctx, tx, ledgerdomain.Posting{
				UserID:           req.UserID,
				Kind:             ledgerdomain.KindDiscountSurplusCredit,
				Amount:           split.CreditedToBalance,
				Direction:        ledgerdomain.DirectionIn,
				ReferenceTicket:  &ticketID,
				ReferenceInvoice: &invoiceKey,
				Description:      "benefit surplus",
			}); err != nil {
				return err
			}
		}

		result = domain.ApplyResult{
			TicketID:          ticket.ID,
			InvoiceKey:        key,
			InvoiceValue:      data.TotalValue,
			Policy:            s.policy.Name,
			ComputedAmount:    split.Computed,
			AppliedToTicket:   split.AppliedToTicket,
			CreditedToBalance: split.CreditedToBalance,
			ValueBefore:       valueBefore,
			ValueAfter:        ticket.CurrentValue,
		}
		return nil
	})
	if err != nil {
		s.recordRejection(ctx, err)
		return domain.ApplyResult{}, err
	}

	s.log.Info("benefit applied",
		zap.String("ticket_id", result.TicketID.String()),
		zap.String("invoice_key", result.InvoiceKey),
		zap.String("policy", result.Policy),
		zap.Int64("applied_to_ticket", result.AppliedToTicket),
		zap.Int64("credited_to_balance", result.CreditedToBalance),
	)
	if s.obsMetrics != nil {
		s.obsMetrics.RecordBenefitApplied(ctx, result.Policy)
	}
	return result, nil
}

func (s *Service) ListByTicket(ctx context.Context, userID, ticketID snowflake.ID) ([]domain.DiscountRecord, error) {
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
	return s.repo.ListByTicket(ctx, s.db, ticketID)
}

func (s *Service) resolveTicketForUpdate(ctx context.Context, tx *gorm.DB, req domain.ApplyRequest) (*ticketdomain.Ticket, error) {
	if req.TicketID != 0 {
		ticket, err := s.ticketRepo.FindByIDForUpdate(ctx, tx, req.TicketID)
		if err != nil {
			return nil, err
		}
		if ticket == nil {
			return nil, ticketdomain.ErrNotFound
		}
		if ticket.UserID != req.UserID {
			return nil, ticketdomain.ErrNotOwner
		}
		return ticket, nil
	}

	ticket, err := s.ticketRepo.FindActiveByUserForUpdate(ctx, tx, req.UserID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ticketdomain.ErrNoActiveTicket
	}
	return ticket, nil
}

func (s *Service) recordLookupFailure(ctx context.Context, err error) {
	kind := "unavailable"
	switch {
	case errors.Is(err, domain.ErrLookupTimeout):
		kind = "timeout"
	case errors.Is(err, domain.ErrExtraction):
		kind = "extraction"
	}
	s.log.Warn("invoice lookup failed", zap.String("kind", kind), zap.Error(err))
	if s.obsMetrics != nil {
		s.obsMetrics.RecordLookupFailure(ctx, kind)
	}
}

func (s *Service) recordRejection(ctx context.Context, err error) {
	var reason string
	switch {
	case errors.Is(err, invoicedomain.ErrAlreadyUsed):
		reason = "invoice_already_used"
	case errors.Is(err, domain.ErrIneligibleLocation):
		reason = "ineligible_location"
	case errors.Is(err, domain.ErrOutOfWindow):
		reason = "out_of_window"
	case errors.Is(err, ticketdomain.ErrTicketNotOpen):
		reason = "ticket_not_open"
	case errors.Is(err, ticketdomain.ErrNoActiveTicket):
		reason = "no_active_ticket"
	default:
		return
	}
	s.reject(ctx, reason)
}

func (s *Service) reject(ctx context.Context, reason string) {
	if s.obsMetrics != nil {
		s.obsMetrics.RecordBenefitRejected(ctx, reason)
	}
}

// normalizeKey keeps only digits and requires the 44-digit access key shape.
func normalizeKey(raw string) string {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) != 44 {
		return ""
	}
	return string(digits)
}
