package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
}

func TestWholeDaysBetween(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"un día", day(1), day(2), 1},
		{"dos días", day(1), day(3), 2},
		{"misma fecha", day(1), day(1), 0},
		{"end antes de start", day(3), day(1), 0},
		{"menos de 24h redondea a la baja", day(1), day(1).Add(23 * time.Hour), 0},
		{"36h son 1 día", day(1), day(1).Add(36 * time.Hour), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WholeDaysBetween(tt.start, tt.end))
		})
	}
}

func TestQuote_TwoDays(t *testing.T) {
	price := decimal.NewFromInt(1200)

	days, total, err := Quote(price, day(1), day(3))
	assert.NoError(t, err)
	assert.Equal(t, 2, days)
	assert.True(t, decimal.NewFromInt(2400).Equal(total))
}

func TestQuote_SingleDay(t *testing.T) {
	price := decimal.NewFromInt(1500)

	days, total, err := Quote(price, day(10), day(11))
	assert.NoError(t, err)
	assert.Equal(t, 1, days)
	assert.True(t, decimal.NewFromInt(1500).Equal(total))
}

func TestQuote_EmptyRange(t *testing.T) {
	price := decimal.NewFromInt(1000)

	_, _, err := Quote(price, day(5), day(5))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestQuote_InvertedRange(t *testing.T) {
	price := decimal.NewFromInt(1000)

	_, _, err := Quote(price, day(7), day(4))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestQuote_DecimalPrice(t *testing.T) {
	price, _ := decimal.NewFromString("1250.50")

	_, total, err := Quote(price, day(1), day(4))
	assert.NoError(t, err)

	want, _ := decimal.NewFromString("3751.50")
	assert.True(t, want.Equal(total))
}
