package domain

import (
	"errors"
	"fmt"

	"github.com/rotativo/rotativo/pkg/money"
)

// PolicyMode decides how a computed benefit is split between ticket
// reduction and balance credit.
type PolicyMode string

const (
	// ModeDiscount reduces the ticket and forfeits any remainder.
	ModeDiscount PolicyMode = "discount"
	// ModeHybrid reduces the ticket and credits the remainder to balance.
	ModeHybrid PolicyMode = "hybrid"
	// ModeCashback leaves the ticket untouched and credits everything.
	ModeCashback PolicyMode = "cashback"
)

// Policy is a named benefit configuration. Rate is in basis points of the
// invoice value; Cap (centavos, 0 = uncapped) bounds the computed amount.
type Policy struct {
	Name            string
	RateBasisPoints int64
	Cap             int64
	Mode            PolicyMode
}

// Split is the outcome of applying a policy to an invoice against a ticket.
type Split struct {
	Computed          int64
	AppliedToTicket   int64
	CreditedToBalance int64
}

// Compute derives the benefit split from the invoice total and the ticket's
// current value, all in centavos.
func (p Policy) Compute(invoiceValue, currentValue int64) Split {
	raw := money.ApplyBasisPoints(invoiceValue, p.RateBasisPoints)
	if p.Cap > 0 && raw > p.Cap {
		raw = p.Cap
	}

	switch p.Mode {
	case ModeCashback:
		return Split{Computed: raw, AppliedToTicket: 0, CreditedToBalance: raw}
	case ModeDiscount:
		return Split{Computed: raw, AppliedToTicket: money.Min(raw, currentValue), CreditedToBalance: 0}
	default: // ModeHybrid
		applied := money.Min(raw, currentValue)
		return Split{Computed: raw, AppliedToTicket: applied, CreditedToBalance: raw - applied}
	}
}

// The three policies observed across the product's history. The deployment
// picks exactly one via configuration.
var policies = map[string]Policy{
	"discount-10": {
		Name:            "discount-10",
		RateBasisPoints: 1000,
		Cap:             0,
		Mode:            ModeDiscount,
	},
	"hybrid-5-cap-2000": {
		Name:            "hybrid-5-cap-2000",
		RateBasisPoints: 500,
		Cap:             2000,
		Mode:            ModeHybrid,
	},
	"cashback-5-cap-2000": {
		Name:            "cashback-5-cap-2000",
		RateBasisPoints: 500,
		Cap:             2000,
		Mode:            ModeCashback,
	},
}

var ErrUnknownPolicy = errors.New("unknown_benefit_policy")

// PolicyByName resolves a configured policy name.
func PolicyByName(name string) (Policy, error) {
	policy, ok := policies[name]
	if !ok {
		return Policy{}, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
	return policy, nil
}
