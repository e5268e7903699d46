package dto

import "github.com/jhoicas/mercado-api/internal/domain/entity"

// NewProductResponse mapea la entidad calculando below_minimum al momento de leer.
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:               p.ID,
		Name:             p.Name,
		Quantity:         p.Quantity,
		MinimumThreshold: p.MinimumThreshold,
		BelowMinimum:     p.BelowMinimum(),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// NewMovementResponse mapea un movimiento recién creado.
func NewMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		UserID:    m.UserID,
		Kind:      m.Kind,
		Quantity:  m.Quantity,
		Timestamp: m.Timestamp,
		Note:      m.Note,
	}
}

// NewMovementDetailResponse mapea un movimiento de listado con nombres de producto y usuario.
func NewMovementDetailResponse(d *entity.MovementDetail) MovementResponse {
	r := NewMovementResponse(&d.Movement)
	r.ProductName = d.ProductName
	r.UserName = d.UserName
	return r
}
