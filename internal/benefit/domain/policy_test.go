package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyByName(t *testing.T) {
	for _, name := range []string{"discount-10", "hybrid-5-cap-2000", "cashback-5-cap-2000"} {
		policy, err := PolicyByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, policy.Name)
	}

	_, err := PolicyByName("three-percent-special")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestPolicyCompute(t *testing.T) {
	cases := []struct {
		name         string
		policy       string
		invoiceValue int64
		currentValue int64
		want         Split
	}{
		{
			name:         "discount within ticket value",
			policy:       "discount-10",
			invoiceValue: 5000,
			currentValue: 1150,
			want:         Split{Computed: 500, AppliedToTicket: 500},
		},
		{
			name:         "discount clamped to ticket, remainder forfeited",
			policy:       "discount-10",
			invoiceValue: 50000,
			currentValue: 1150,
			want:         Split{Computed: 5000, AppliedToTicket: 1150},
		},
		{
			name:         "hybrid cap hit, surplus credited",
			policy:       "hybrid-5-cap-2000",
			invoiceValue: 50000,
			currentValue: 575,
			want:         Split{Computed: 2000, AppliedToTicket: 575, CreditedToBalance: 1425},
		},
		{
			name:         "hybrid under cap, fully applied",
			policy:       "hybrid-5-cap-2000",
			invoiceValue: 10000,
			currentValue: 1150,
			want:         Split{Computed: 500, AppliedToTicket: 500},
		},
		{
			name:         "cashback never touches the ticket",
			policy:       "cashback-5-cap-2000",
			invoiceValue: 10000,
			currentValue: 1150,
			want:         Split{Computed: 500, CreditedToBalance: 500},
		},
		{
			name:         "half centavo rounds away from zero",
			policy:       "hybrid-5-cap-2000",
			invoiceValue: 1150,
			currentValue: 575,
			want:         Split{Computed: 58, AppliedToTicket: 58},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			policy, err := PolicyByName(tc.policy)
			require.NoError(t, err)
			got := policy.Compute(tc.invoiceValue, tc.currentValue)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got.Computed, got.AppliedToTicket+got.CreditedToBalance+forfeited(policy, got))
		})
	}
}

// forfeited is the part of the computed amount a pure-discount policy drops.
func forfeited(p Policy, s Split) int64 {
	if p.Mode == ModeDiscount {
		return s.Computed - s.AppliedToTicket
	}
	return 0
}
