package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rotativo/rotativo/internal/clock"
	"github.com/rotativo/rotativo/internal/payment/domain"
	paymentrepository "github.com/rotativo/rotativo/internal/payment/repository"
	"github.com/rotativo/rotativo/internal/testutil"
	ticketdomain "github.com/rotativo/rotativo/internal/ticket/domain"
	ticketrepository "github.com/rotativo/rotativo/internal/ticket/repository"
	userdomain "github.com/rotativo/rotativo/internal/user/domain"
	userrepository "github.com/rotativo/rotativo/internal/user/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type paymentFixture struct {
	db         *gorm.DB
	clk        *clock.FakeClock
	node       *snowflake.Node
	svc        domain.Service
	ticketRepo ticketdomain.Repository
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	db := testutil.OpenDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC))
	ticketRepo := ticketrepository.Provide()

	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clk,
		Repo:       paymentrepository.Provide(),
		TicketRepo: ticketRepo,
	})

	return &paymentFixture{db: db, clk: clk, node: node, svc: svc, ticketRepo: ticketRepo}
}

func (f *paymentFixture) newOpenTicket(t *testing.T, value int64) (snowflake.ID, *ticketdomain.Ticket) {
	t.Helper()
	ctx := context.Background()

	userID := f.node.Generate()
	require.NoError(t, userrepository.Provide().Insert(ctx, f.db, &userdomain.User{
		ID:        userID,
		Name:      "Motorista",
		CreatedAt: f.clk.Now(),
		UpdatedAt: f.clk.Now(),
	}))

	now := f.clk.Now()
	ticket, err := ticketdomain.NewTicket(
		f.node.Generate(), userID, f.node.Generate(),
		value, now, now.Add(time.Hour), "ABC1D23", now,
	)
	require.NoError(t, err)
	require.NoError(t, f.ticketRepo.Insert(ctx, f.db, ticket))
	return userID, ticket
}

func amt(v int64) *int64 { return &v }

func TestSettle(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	userID, ticket := f.newOpenTicket(t, 575)

	// No amount in the request: the ticket itself says what is due.
	result, err := f.svc.Settle(ctx, domain.SettleRequest{
		UserID:   userID,
		TicketID: ticket.ID,
		Method:   "pix",
	})
	require.NoError(t, err)

	assert.False(t, result.Replayed)
	assert.Equal(t, int64(575), result.Payment.AmountPaid)
	assert.Equal(t, domain.StatusConfirmed, result.Payment.Status)
	assert.Equal(t, ticketdomain.StatusPaid, result.Ticket.Status)

	stored, err := f.ticketRepo.FindByID(ctx, f.db, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticketdomain.StatusPaid, stored.Status)
}

func TestSettle_IdempotencyKeyReplays(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	userID, ticket := f.newOpenTicket(t, 575)

	req := domain.SettleRequest{
		UserID:         userID,
		TicketID:       ticket.ID,
		Amount:         amt(575),
		Method:         "pix",
		IdempotencyKey: "retry-abc",
	}

	first, err := f.svc.Settle(ctx, req)
	require.NoError(t, err)
	second, err := f.svc.Settle(ctx, req)
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.Payment.ID, second.Payment.ID)

	records, err := f.svc.ListByTicket(ctx, userID, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSettle_ReusedKeyOnOtherTicketConflicts(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	userID, ticket := f.newOpenTicket(t, 575)
	otherUser, otherTicket := f.newOpenTicket(t, 575)

	_, err := f.svc.Settle(ctx, domain.SettleRequest{
		UserID: userID, TicketID: ticket.ID, IdempotencyKey: "shared-key",
	})
	require.NoError(t, err)

	_, err = f.svc.Settle(ctx, domain.SettleRequest{
		UserID: otherUser, TicketID: otherTicket.ID, IdempotencyKey: "shared-key",
	})
	assert.ErrorIs(t, err, domain.ErrIdempotencyConflict)
}

func TestSettle_AmountConfirmationMustMatch(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	userID, ticket := f.newOpenTicket(t, 575)

	// A stale confirmation amount is rejected.
	_, err := f.svc.Settle(ctx, domain.SettleRequest{
		UserID: userID, TicketID: ticket.ID, Amount: amt(500),
	})
	assert.ErrorIs(t, err, domain.ErrAmountMismatch)

	// The failed attempt must not have moved the ticket.
	stored, err := f.ticketRepo.FindByID(ctx, f.db, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticketdomain.StatusOpen, stored.Status)

	// A matching confirmation settles.
	result, err := f.svc.Settle(ctx, domain.SettleRequest{
		UserID: userID, TicketID: ticket.ID, Amount: amt(575),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(575), result.Payment.AmountPaid)
}

func TestSettle_DoubleSettlementRejected(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	userID, ticket := f.newOpenTicket(t, 575)

	_, err := f.svc.Settle(ctx, domain.SettleRequest{UserID: userID, TicketID: ticket.ID})
	require.NoError(t, err)

	_, err = f.svc.Settle(ctx, domain.SettleRequest{UserID: userID, TicketID: ticket.ID})
	assert.ErrorIs(t, err, ticketdomain.ErrTicketNotOpen)
}

func TestSettle_OwnershipAndExistence(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	userID, ticket := f.newOpenTicket(t, 575)
	stranger, _ := f.newOpenTicket(t, 575)

	_, err := f.svc.Settle(ctx, domain.SettleRequest{UserID: stranger, TicketID: ticket.ID})
	assert.ErrorIs(t, err, ticketdomain.ErrNotOwner)

	_, err = f.svc.Settle(ctx, domain.SettleRequest{UserID: userID, TicketID: f.node.Generate()})
	assert.ErrorIs(t, err, ticketdomain.ErrNotFound)

	_, err = f.svc.Settle(ctx, domain.SettleRequest{UserID: userID, TicketID: ticket.ID, Amount: amt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestSettle_ZeroValueTicketSettlesForNothing(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	userID, ticket := f.newOpenTicket(t, 575)

	// Discount the ticket down to zero first.
	require.NoError(t, ticket.ApplyDiscount(575))
	require.NoError(t, f.ticketRepo.Update(ctx, f.db, ticket))

	result, err := f.svc.Settle(ctx, domain.SettleRequest{UserID: userID, TicketID: ticket.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Payment.AmountPaid)
	assert.Equal(t, ticketdomain.StatusPaid, result.Ticket.Status)
}
