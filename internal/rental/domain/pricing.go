package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WholeDaysBetween devuelve los días completos entre start y end (end exclusivo).
// [d0, d0+24h) es 1 día; un rango que no llega a 24h completas redondea a la baja.
func WholeDaysBetween(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	return int(end.Sub(start) / (24 * time.Hour))
}

// Quote calcula el precio de una reserva: días completos * precio por día.
// Un rango que produce 0 días es un error de validación, nunca un precio cero
// silencioso. El resultado es un decimal exacto sin moneda ni impuestos; el
// redondeo para presentación es responsabilidad del consumidor.
func Quote(pricePerDay decimal.Decimal, start, end time.Time) (int, decimal.Decimal, error) {
	days := WholeDaysBetween(start, end)
	if days < 1 {
		return 0, decimal.Zero, ErrInvalidDateRange
	}
	return days, decimal.NewFromInt(int64(days)).Mul(pricePerDay), nil
}
