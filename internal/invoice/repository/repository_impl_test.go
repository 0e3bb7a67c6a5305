package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rotativo/rotativo/internal/invoice/domain"
	"github.com/rotativo/rotativo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertIsIdempotentOnKey(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := Provide()
	ctx := context.Background()
	now := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)

	rec := domain.InvoiceRecord{
		InvoiceKey:     "35260100000000000000000000000000000000000001",
		TotalValue:     10000,
		InvoiceAt:      now,
		DestPostalCode: "09510000",
		CreatedAt:      now,
	}
	require.NoError(t, repo.Upsert(ctx, db, &rec))

	// A replay with different extracted values must not clobber the first row.
	replay := rec
	replay.TotalValue = 99999
	require.NoError(t, repo.Upsert(ctx, db, &replay))

	stored, err := repo.FindByKey(ctx, db, rec.InvoiceKey)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, int64(10000), stored.TotalValue)
}

func TestConsumeTransitionsAtMostOnce(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := Provide()
	ctx := context.Background()
	now := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	rec := domain.InvoiceRecord{
		InvoiceKey:     "35260100000000000000000000000000000000000002",
		TotalValue:     10000,
		InvoiceAt:      now,
		DestPostalCode: "09510000",
		CreatedAt:      now,
	}
	require.NoError(t, repo.Upsert(ctx, db, &rec))

	first := node.Generate()
	ok, err := repo.Consume(ctx, db, rec.InvoiceKey, first, now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Consume(ctx, db, rec.InvoiceKey, node.Generate(), now)
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.FindByKey(ctx, db, rec.InvoiceKey)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.ConsumedByTicket)
	assert.Equal(t, first, *stored.ConsumedByTicket)
}

func TestConsumeUnknownKey(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := Provide()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	ok, err := repo.Consume(context.Background(), db, "nope", node.Generate(), time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, ok)
}
