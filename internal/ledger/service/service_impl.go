package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/rotativo/rotativo/internal/clock"
	"github.com/rotativo/rotativo/internal/ledger/domain"
	userdomain "github.com/rotativo/rotativo/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	UserRepo userdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	userRepo userdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("ledger.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		userRepo: p.UserRepo,
	}
}

func (s *Service) AddManualCredit(ctx context.Context, req domain.AddCreditRequest) (domain.BalanceResult, error) {
	if req.Amount <= 0 {
		return domain.BalanceResult{}, domain.ErrInvalidAmount
	}

	var balance int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		balance, err = s.Post(ctx, tx, domain.Posting{
			UserID:      req.UserID,
			Kind:        domain.KindManualCredit,
			Amount:      req.Amount,
			Direction:   domain.DirectionIn,
			Description: req.Description,
		})
		return err
	})
	if err != nil {
		return domain.BalanceResult{}, err
	}

	return domain.BalanceResult{UserID: req.UserID, Balance: balance}, nil
}

func (s *Service) GetStatement(ctx context.Context, userID snowflake.ID) (domain.Statement, error) {
	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		return domain.Statement{}, err
	}
	if user == nil {
		return domain.Statement{}, userdomain.ErrNotFound
	}

	movements, err := s.repo.ListByUser(ctx, s.db, userID)
	if err != nil {
		return domain.Statement{}, err
	}

	// The cached balance is a materialized view over the movements; drift
	// means a code path wrote one side without the other.
	sum, err := s.repo.SumByUser(ctx, s.db, userID)
	if err != nil {
		return domain.Statement{}, err
	}
	if sum != user.CreditBalance {
		s.log.Error("ledger balance drift detected",
			zap.String("user_id", userID.String()),
			zap.Int64("cached_balance", user.CreditBalance),
			zap.Int64("ledger_sum", sum),
		)
	}

	return domain.Statement{
		UserID:    userID,
		Balance:   user.CreditBalance,
		Movements: movements,
	}, nil
}

// Post writes the movement and the new cached balance atomically within the
// caller's transaction. The user row lock it takes serializes concurrent
// balance updates.
func (s *Service) Post(ctx context.Context, tx *gorm.DB, posting domain.Posting) (int64, error) {
	if posting.Amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	switch posting.Direction {
	case domain.DirectionIn, domain.DirectionOut:
	default:
		return 0, domain.ErrInvalidDirection
	}
	switch posting.Kind {
	case domain.KindManualCredit, domain.KindDiscountSurplusCredit, domain.KindCreditUseOnTicket:
	default:
		return 0, domain.ErrInvalidKind
	}

	user, err := s.userRepo.FindByIDForUpdate(ctx, tx, posting.UserID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, userdomain.ErrNotFound
	}

	mv := domain.CreditMovement{
		ID:               s.genID.Generate(),
		UserID:           posting.UserID,
		Kind:             posting.Kind,
		Amount:           posting.Amount,
		Direction:        posting.Direction,
		ReferenceTicket:  posting.ReferenceTicket,
		ReferenceInvoice: posting.ReferenceInvoice,
		Description:      posting.Description,
		CreatedAt:        s.clock.Now(),
	}

	balance := user.CreditBalance + mv.Signed()

	if err := s.userRepo.UpdateBalance(ctx, tx, posting.UserID, balance); err != nil {
		return 0, err
	}
	if err := s.repo.Insert(ctx, tx, &mv); err != nil {
		return 0, err
	}

	s.log.Info("ledger movement posted",
		zap.String("user_id", posting.UserID.String()),
		zap.String("kind", string(posting.Kind)),
		zap.String("direction", string(posting.Direction)),
		zap.Int64("amount", posting.Amount),
		zap.Int64("balance", balance),
	)

	return balance, nil
}
