package entity

import "time"

// Product representa un ítem del catálogo del mercado.
// Quantity solo cambia por CRUD explícito o por movimientos de stock.
type Product struct {
	ID               int64
	Name             string
	Quantity         int64
	MinimumThreshold int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BelowMinimum se calcula en lectura; no se almacena.
func (p *Product) BelowMinimum() bool {
	return p.Quantity < p.MinimumThreshold
}
