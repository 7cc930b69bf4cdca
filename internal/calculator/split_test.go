package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestShare(t *testing.T) {
	tests := []struct {
		name         string
		amount       decimal.Decimal
		participants int
		want         string
	}{
		{
			name:         "even three-way split",
			amount:       decimal.NewFromInt(90),
			participants: 3,
			want:         "30",
		},
		{
			name:         "two-way split with cents",
			amount:       decimal.RequireFromString("33.50"),
			participants: 2,
			want:         "16.75",
		},
		{
			name:         "no participants yields zero",
			amount:       decimal.NewFromInt(50),
			participants: 0,
			want:         "0",
		},
		{
			name:         "negative participant count yields zero",
			amount:       decimal.NewFromInt(50),
			participants: -1,
			want:         "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Share(tt.amount, tt.participants)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Share(%s, %d) = %s, want %s", tt.amount, tt.participants, got, tt.want)
			}
		})
	}
}

func TestShare_RepeatingDecimalKeepsPrecision(t *testing.T) {
	share := Share(decimal.NewFromInt(100), 3)

	// 3 * share differs from 100 only past the division precision
	residue := decimal.NewFromInt(100).Sub(share.Mul(decimal.NewFromInt(3))).Abs()
	if residue.GreaterThan(decimal.New(1, -12)) {
		t.Errorf("residue = %s, want below 1e-12", residue)
	}
	if share.StringFixed(2) != "33.33" {
		t.Errorf("share rounded = %s, want 33.33", share.StringFixed(2))
	}
}

func TestSplitShares(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		participants int
	}{
		{name: "even", amount: "90", participants: 3},
		{name: "repeating", amount: "100", participants: 3},
		{name: "one cent seven ways", amount: "0.01", participants: 7},
		{name: "single", amount: "12.34", participants: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			shares := SplitShares(amount, tt.participants)
			if len(shares) != tt.participants {
				t.Fatalf("got %d shares, want %d", len(shares), tt.participants)
			}
			total := decimal.Zero
			for _, s := range shares {
				total = total.Add(s)
			}
			if !total.Equal(amount) {
				t.Errorf("shares sum to %s, want %s", total, amount)
			}
			for _, s := range shares[1:] {
				if !s.Equal(Share(amount, tt.participants)) {
					t.Errorf("share %s differs from Share()", s)
				}
			}
		})
	}

	if shares := SplitShares(decimal.NewFromInt(5), 0); shares != nil {
		t.Errorf("expected nil for no participants, got %v", shares)
	}
}
