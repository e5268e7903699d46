package dto

import "time"

// CreateProductRequest entrada para crear un producto. quantity y minimum_threshold son opcionales (0).
type CreateProductRequest struct {
	Name             string  `json:"name"`
	Quantity         FlexInt `json:"quantity"`
	MinimumThreshold FlexInt `json:"minimum_threshold"`
}

// UpdateProductRequest actualización parcial: los campos ausentes o null conservan el valor actual.
type UpdateProductRequest struct {
	Name             *string `json:"name"`
	Quantity         FlexInt `json:"quantity"`
	MinimumThreshold FlexInt `json:"minimum_threshold"`
}

// ProductResponse salida de un producto con el indicador derivado de stock bajo.
type ProductResponse struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Quantity         int64     `json:"quantity"`
	MinimumThreshold int64     `json:"minimum_threshold"`
	BelowMinimum     bool      `json:"below_minimum"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
