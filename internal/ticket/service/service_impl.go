package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rotativo/rotativo/internal/clock"
	obsmetrics "github.com/rotativo/rotativo/internal/observability/metrics"
	"github.com/rotativo/rotativo/internal/ticket/domain"
	tickettypedomain "github.com/rotativo/rotativo/internal/tickettype/domain"
	userdomain "github.com/rotativo/rotativo/internal/user/domain"
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
	TypeRepo   tickettypedomain.Repository
	UserRepo   userdomain.Repository
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	typeRepo   tickettypedomain.Repository
	userRepo   userdomain.Repository
	obsMetrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("ticket.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		typeRepo:   p.TypeRepo,
		userRepo:   p.UserRepo,
		obsMetrics: p.ObsMetrics,
	}
}

// Create opens a session for the caller. The user row is locked so that
// concurrent creations serialize and the at-most-one-OPEN-ticket rule holds;
// the partial unique index on tickets(user_id) WHERE status = 'OPEN' is the
// backstop. Creation never acquires a ticket lock, so it cannot deadlock
// against benefit application, which locks ticket then user.
func (s *Service) Create(ctx context.Context, req domain.CreateTicketRequest) (*domain.Ticket, error) {
	plate := strings.ToUpper(strings.TrimSpace(req.Plate))
	if plate == "" {
		return nil, domain.ErrInvalidPlate
	}

	var created *domain.Ticket
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.FindByIDForUpdate(ctx, tx, req.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return userdomain.ErrNotFound
		}

		active, err := s.repo.FindActiveByUser(ctx, tx, req.UserID)
		if err != nil {
			return err
		}
		if active != nil {
			return domain.ErrActiveTicketExists
		}

		tt, err := s.typeRepo.FindByHours(ctx, tx, req.Hours)
		if err != nil {
			return err
		}
		if tt == nil {
			return tickettypedomain.ErrNotFound
		}

		now := s.clock.Now()
		entryAt := req.EntryAt
		if entryAt.IsZero() {
			entryAt = now
		}
		exitAt := entryAt.Add(time.Duration(tt.Hours) * time.Hour)

		ticket, err := domain.NewTicket(
			s.genID.Generate(),
			req.UserID,
			tt.ID,
			tt.TotalValue(),
			entryAt,
			exitAt,
			plate,
			now,
		)
		if err != nil {
			return err
		}

		if err := s.repo.Insert(ctx, tx, ticket); err != nil {
			return err
		}
		created = ticket
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("ticket created",
		zap.String("ticket_id", created.ID.String()),
		zap.String("user_id", created.UserID.String()),
		zap.Int64("original_value", created.OriginalValue),
	)
	if s.obsMetrics != nil {
		s.obsMetrics.RecordTicketCreated(ctx, req.Hours)
	}
	return created, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetTicketRequest) (*domain.Ticket, error) {
	ticket, err := s.repo.FindByID(ctx, s.db, req.TicketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, domain.ErrNotFound
	}
	if ticket.UserID != req.UserID {
		return nil, domain.ErrNotOwner
	}
	return ticket, nil
}

func (s *Service) List(ctx context.Context, req domain.ListTicketsRequest) ([]domain.Ticket, error) {
	return s.repo.ListByUser(ctx, s.db, req.UserID, domain.ListFilter{
		Status: strings.ToUpper(strings.TrimSpace(req.Status)),
		Limit:  req.Limit,
		Offset: req.Offset,
	})
}
