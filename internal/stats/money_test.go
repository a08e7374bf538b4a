package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		amount int64
	}{
		{name: "small plain", amount: 500, want: "500 UZS"},
		{name: "grouped thousands", amount: 97500, want: "97 500 UZS"},
		{name: "grouped hundreds of thousands", amount: 450000, want: "450 000 UZS"},
		{name: "exact million", amount: 1_000_000, want: "1M"},
		{name: "fractional million", amount: 1_200_000, want: "1.2M"},
		{name: "large million", amount: 12_500_000, want: "12.5M"},
		{name: "zero", amount: 0, want: "0 UZS"},
		{name: "negative grouped", amount: -20000, want: "-20 000 UZS"},
		{name: "negative million", amount: -1_200_000, want: "-1.2M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(tt.amount))
		})
	}
}
