package dto

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto bajo su mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID         int64  `json:"product_id"`
	ProductName       string `json:"product_name"`
	CurrentStock      int64  `json:"current_stock"`
	MinimumThreshold  int64  `json:"minimum_threshold"`
	IdealStock        int64  `json:"ideal_stock"`         // mínimo * 1.5, redondeado hacia arriba
	SuggestedOrderQty int64  `json:"suggested_order_qty"` // IdealStock - CurrentStock
	UnitsOutLastDays  int64  `json:"units_out_last_days"` // salidas en la ventana consultada
	Priority          int    `json:"priority"`            // 1 = más urgente
}
