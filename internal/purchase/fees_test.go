// AngelaMos | 2026
// fees_test.go

package purchase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitAmount(t *testing.T) {
	tests := []struct {
		amount int64
		pct    int
		fee    int64
		payout int64
	}{
		{4999, 15, 750, 4249},
		{99, 15, 15, 84},
		{1000, 0, 0, 1000},
		{1000, 100, 1000, 0},
		{10, 15, 2, 8},
		{1, 50, 1, 0},
	}

	for _, tt := range tests {
		fee, payout := SplitAmount(tt.amount, tt.pct)
		assert.Equal(t, tt.fee, fee, "fee for %d at %d%%", tt.amount, tt.pct)
		assert.Equal(t, tt.payout, payout, "payout for %d at %d%%", tt.amount, tt.pct)
	}
}

func TestSplitAmountReconstructs(t *testing.T) {
	for pct := 0; pct <= 100; pct++ {
		for _, amount := range []int64{0, 1, 99, 101, 4999, 99999, 123457} {
			fee, payout := SplitAmount(amount, pct)
			assert.Equal(t, amount, fee+payout)
			assert.GreaterOrEqual(t, payout, int64(0))
		}
	}
}

func TestCanTransition(t *testing.T) {
	allowed := [][2]Status{
		{StatusPending, StatusCompleted},
		{StatusPending, StatusFailed},
		{StatusCompleted, StatusRefunded},
		{StatusCompleted, StatusCompleted},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}

	denied := [][2]Status{
		{StatusRefunded, StatusCompleted},
		{StatusFailed, StatusCompleted},
		{StatusCompleted, StatusPending},
		{StatusCompleted, StatusFailed},
		{StatusPending, StatusRefunded},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}

	assert.True(t, CanRefund(StatusPending))
	assert.False(t, CanRefund(StatusRefunded))
}
