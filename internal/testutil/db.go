// Package testutil opens in-memory sqlite databases shaped like the
// production schema for service-level tests.
package testutil

import (
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	benefitdomain "github.com/rotativo/rotativo/internal/benefit/domain"
	cepdomain "github.com/rotativo/rotativo/internal/cep/domain"
	invoicedomain "github.com/rotativo/rotativo/internal/invoice/domain"
	ledgerdomain "github.com/rotativo/rotativo/internal/ledger/domain"
	paymentdomain "github.com/rotativo/rotativo/internal/payment/domain"
	ticketdomain "github.com/rotativo/rotativo/internal/ticket/domain"
	tickettypedomain "github.com/rotativo/rotativo/internal/tickettype/domain"
	userdomain "github.com/rotativo/rotativo/internal/user/domain"
	"gorm.io/gorm"
)

// OpenDB returns an isolated in-memory database with the full schema.
// sqlite has no row locks, so FOR UPDATE clauses are stripped and the pool is
// capped at one connection to serialize access.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	stripForUpdate := func(d *gorm.DB) {
		sql := d.Statement.SQL.String()
		if strings.Contains(sql, "FOR UPDATE") {
			newSQL := strings.ReplaceAll(sql, "FOR UPDATE SKIP LOCKED", "")
			newSQL = strings.ReplaceAll(newSQL, "FOR UPDATE", "")
			d.Statement.SQL.Reset()
			d.Statement.SQL.WriteString(newSQL)
		}
	}
	db.Callback().Query().Before("gorm:query").Register("sqlite_strip_for_update", stripForUpdate)
	db.Callback().Row().Before("gorm:row").Register("sqlite_strip_for_update_row", stripForUpdate)

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&userdomain.User{},
		&tickettypedomain.TicketType{},
		&ticketdomain.Ticket{},
		&invoicedomain.InvoiceRecord{},
		&benefitdomain.DiscountRecord{},
		&ledgerdomain.CreditMovement{},
		&paymentdomain.PaymentRecord{},
		&cepdomain.ScsCep{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_tickets_user_open
		 ON tickets (user_id) WHERE status = 'OPEN'`,
	).Error; err != nil {
		t.Fatalf("create partial index: %v", err)
	}

	return db
}
