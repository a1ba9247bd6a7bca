package pricing_test

import (
	"testing"

	"github.com/savora/api/internal/enum"
	"github.com/savora/api/internal/pricing"
	"github.com/shopspring/decimal"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name      string
		subtotal  string
		orderType string
		tip       string
		wantTax   string
		wantFee   string
		wantTotal string
	}{
		{
			// 8.99 x2 + 12.99 = 30.97; tax 3.097 rounds to 3.10
			name:      "dine-in worked example",
			subtotal:  "30.97",
			orderType: enum.OrderTypeDineIn,
			tip:       "0",
			wantTax:   "3.10",
			wantFee:   "0.00",
			wantTotal: "34.07",
		},
		{
			name:      "same cart as delivery adds flat fee",
			subtotal:  "30.97",
			orderType: enum.OrderTypeDelivery,
			tip:       "0",
			wantTax:   "3.10",
			wantFee:   "5.99",
			wantTotal: "40.06",
		},
		{
			name:      "takeaway has no delivery fee",
			subtotal:  "100.00",
			orderType: enum.OrderTypeTakeaway,
			tip:       "0",
			wantTax:   "10.00",
			wantFee:   "0.00",
			wantTotal: "110.00",
		},
		{
			name:      "tip carried into total",
			subtotal:  "20.00",
			orderType: enum.OrderTypeDineIn,
			tip:       "3.50",
			wantTax:   "2.00",
			wantFee:   "0.00",
			wantTotal: "25.50",
		},
		{
			name:      "empty subtotal",
			subtotal:  "0",
			orderType: enum.OrderTypeDineIn,
			tip:       "0",
			wantTax:   "0.00",
			wantFee:   "0.00",
			wantTotal: "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := pricing.Calculate(
				decimal.RequireFromString(tt.subtotal),
				tt.orderType,
				decimal.RequireFromString(tt.tip),
			)

			if got := q.Tax.StringFixed(2); got != tt.wantTax {
				t.Errorf("tax: got %s, want %s", got, tt.wantTax)
			}
			if got := q.DeliveryFee.StringFixed(2); got != tt.wantFee {
				t.Errorf("delivery fee: got %s, want %s", got, tt.wantFee)
			}
			if got := q.Total.StringFixed(2); got != tt.wantTotal {
				t.Errorf("total: got %s, want %s", got, tt.wantTotal)
			}
		})
	}
}

func TestTotalIsSumOfComponents(t *testing.T) {
	q := pricing.Calculate(decimal.RequireFromString("42.37"), enum.OrderTypeDelivery, decimal.RequireFromString("1.25"))

	sum := q.Subtotal.Add(q.Tax).Add(q.DeliveryFee).Add(q.Tip)
	if !q.Total.Equal(sum) {
		t.Errorf("total %s != subtotal+tax+fee+tip %s", q.Total, sum)
	}
}
