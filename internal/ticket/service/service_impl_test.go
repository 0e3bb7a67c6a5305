package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rotativo/rotativo/internal/clock"
	"github.com/rotativo/rotativo/internal/testutil"
	"github.com/rotativo/rotativo/internal/ticket/domain"
	ticketrepository "github.com/rotativo/rotativo/internal/ticket/repository"
	tickettypedomain "github.com/rotativo/rotativo/internal/tickettype/domain"
	tickettyperepository "github.com/rotativo/rotativo/internal/tickettype/repository"
	userdomain "github.com/rotativo/rotativo/internal/user/domain"
	userrepository "github.com/rotativo/rotativo/internal/user/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ticketFixture struct {
	db   *gorm.DB
	clk  *clock.FakeClock
	node *snowflake.Node
	svc  domain.Service
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()

	db := testutil.OpenDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clk,
		Repo:     ticketrepository.Provide(),
		TypeRepo: tickettyperepository.Provide(),
		UserRepo: userrepository.Provide(),
	})

	typeRepo := tickettyperepository.Provide()
	for hours := 1; hours <= 4; hours++ {
		require.NoError(t, typeRepo.Insert(context.Background(), db, &tickettypedomain.TicketType{
			ID:           node.Generate(),
			Hours:        hours,
			PricePerHour: 575,
			CreatedAt:    clk.Now(),
		}))
	}

	return &ticketFixture{db: db, clk: clk, node: node, svc: svc}
}

func (f *ticketFixture) newUser(t *testing.T) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	require.NoError(t, userrepository.Provide().Insert(context.Background(), f.db, &userdomain.User{
		ID:        id,
		Name:      "Motorista",
		CreatedAt: f.clk.Now(),
		UpdatedAt: f.clk.Now(),
	}))
	return id
}

func TestCreateTicket(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	userID := f.newUser(t)

	ticket, err := f.svc.Create(ctx, domain.CreateTicketRequest{
		UserID: userID,
		Hours:  2,
		Plate:  "abc1d23",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusOpen, ticket.Status)
	assert.Equal(t, "ABC1D23", ticket.Plate)
	assert.Equal(t, int64(1150), ticket.OriginalValue)
	assert.Equal(t, int64(1150), ticket.CurrentValue)
	assert.Equal(t, f.clk.Now(), ticket.EntryAt)
	assert.Equal(t, f.clk.Now().Add(2*time.Hour), ticket.ExitAt)
}

func TestCreateTicket_SecondOpenTicketRejected(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	userID := f.newUser(t)

	_, err := f.svc.Create(ctx, domain.CreateTicketRequest{UserID: userID, Hours: 1, Plate: "ABC1D23"})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, domain.CreateTicketRequest{UserID: userID, Hours: 1, Plate: "XYZ9A88"})
	assert.ErrorIs(t, err, domain.ErrActiveTicketExists)
}

func TestCreateTicket_UnknownHours(t *testing.T) {
	f := newTicketFixture(t)
	userID := f.newUser(t)

	_, err := f.svc.Create(context.Background(), domain.CreateTicketRequest{
		UserID: userID, Hours: 9, Plate: "ABC1D23",
	})
	assert.ErrorIs(t, err, tickettypedomain.ErrNotFound)
}

func TestCreateTicket_UnknownUser(t *testing.T) {
	f := newTicketFixture(t)

	_, err := f.svc.Create(context.Background(), domain.CreateTicketRequest{
		UserID: f.node.Generate(), Hours: 1, Plate: "ABC1D23",
	})
	assert.ErrorIs(t, err, userdomain.ErrNotFound)
}

func TestGetByID_OwnershipEnforced(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	owner := f.newUser(t)
	stranger := f.newUser(t)

	ticket, err := f.svc.Create(ctx, domain.CreateTicketRequest{UserID: owner, Hours: 1, Plate: "ABC1D23"})
	require.NoError(t, err)

	got, err := f.svc.GetByID(ctx, domain.GetTicketRequest{UserID: owner, TicketID: ticket.ID})
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)

	_, err = f.svc.GetByID(ctx, domain.GetTicketRequest{UserID: stranger, TicketID: ticket.ID})
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = f.svc.GetByID(ctx, domain.GetTicketRequest{UserID: owner, TicketID: f.node.Generate()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_FiltersByStatus(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	userID := f.newUser(t)

	ticket, err := f.svc.Create(ctx, domain.CreateTicketRequest{UserID: userID, Hours: 1, Plate: "ABC1D23"})
	require.NoError(t, err)

	open, err := f.svc.List(ctx, domain.ListTicketsRequest{UserID: userID, Status: "open"})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, ticket.ID, open[0].ID)

	paid, err := f.svc.List(ctx, domain.ListTicketsRequest{UserID: userID, Status: "PAID"})
	require.NoError(t, err)
	assert.Empty(t, paid)
}
